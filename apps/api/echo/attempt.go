package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/hesabu/core"
	"github.com/trezcool/hesabu/core/attempt"
)

type attemptApi struct {
	svc      *attempt.Service
	validate *validator.Validate
}

func registerAttemptAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *attempt.Service, validate *validator.Validate) {
	api := attemptApi{
		svc:      svc,
		validate: validate,
	}

	// un-authed endpoints
	g.GET("/user/:email/analytics", api.analytics)

	// authed endpoints
	ag := g.Group("", jwt)
	ag.POST("/log-attempt", api.logAttempt)
}

// Handlers

func (api *attemptApi) logAttempt(ctx echo.Context) error {
	var data attempt.NewAttempt
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAttempt")
	}

	// attempts can only be logged against the requester's own account
	email, err := authedEmail(ctx)
	if err != nil {
		return err
	}
	data.UserEmail = core.CleanString(data.UserEmail, true /* lower */)
	if data.UserEmail == "" {
		data.UserEmail = email
	} else if data.UserEmail != email {
		return errHttpForbidden
	}

	if err := data.Validate(api.validate); err != nil {
		return err
	}

	res, err := api.svc.Log(data)
	if err != nil {
		return errors.Wrap(err, "logging attempt")
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *attemptApi) analytics(ctx echo.Context) error {
	report, err := api.svc.Analytics(ctx.Param("email"))
	if err != nil {
		return errors.Wrap(err, "building analytics")
	}
	return ctx.JSON(http.StatusOK, report)
}
