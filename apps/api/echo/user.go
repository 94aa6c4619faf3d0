package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/hesabu/core"
	"github.com/trezcool/hesabu/core/user"
)

type userApi struct {
	svc      *user.Service
	validate *validator.Validate
	conf     *core.Config
}

func registerUserAPI(g *echo.Group, svc *user.Service, validate *validator.Validate, conf *core.Config) {
	api := userApi{
		svc:      svc,
		validate: validate,
		conf:     conf,
	}

	g.POST("/register", api.register)
	g.POST("/login", api.login)
	g.GET("/leaderboard", api.leaderboard)
	g.GET("/user/:email", api.retrieve)
}

// Handlers

func (api *userApi) register(ctx echo.Context) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}
	if err := data.Validate(api.validate, api.svc); err != nil {
		if vErr, ok := err.(*core.ValidationError); ok && errors.Cause(vErr.Err) == user.ErrEmailExists {
			return echo.NewHTTPError(http.StatusBadRequest, "Email already registered.")
		}
		return err
	}

	if _, err := api.svc.Register(data); err != nil {
		if errors.Cause(err) == user.ErrEmailExists {
			return echo.NewHTTPError(http.StatusBadRequest, "Email already registered.")
		}
		return errors.Wrap(err, "registering user")
	}

	return ctx.JSON(http.StatusCreated, MessageResponse{Message: "Registration successful!"})
}

func (api *userApi) login(ctx echo.Context) error {
	var data user.Credentials
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Credentials")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	usr, err := api.svc.Authenticate(data.Email, data.Password)
	if err != nil {
		if errors.Cause(err) == user.ErrInvalidCredentials {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials.")
		}
		return errors.Wrap(err, "authenticating")
	}

	token, err := GenerateToken(GetUserClaims(usr, api.conf))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}

	return ctx.JSON(http.StatusOK, LoginResponse{
		Email:    usr.Email,
		Username: usr.Username,
		Token:    token,
		Message:  "Login successful",
	})
}

func (api *userApi) retrieve(ctx echo.Context) error {
	usr, err := api.svc.GetByEmail(ctx.Param("email"))
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return errors.Wrap(err, "finding user by email")
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api *userApi) leaderboard(ctx echo.Context) error {
	entries, err := api.svc.Leaderboard()
	if err != nil {
		return errors.Wrap(err, "querying leaderboard")
	}
	return ctx.JSON(http.StatusOK, entries)
}

type (
	LoginResponse struct {
		Email    string `json:"email"`
		Username string `json:"username"`
		Token    string `json:"token"`
		Message  string `json:"message"`
	}

	MessageResponse struct {
		Message string `json:"message"`
	}
)
