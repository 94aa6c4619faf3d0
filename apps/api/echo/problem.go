package echoapi

import (
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/hesabu/core"
	"github.com/trezcool/hesabu/core/problem"
)

type problemApi struct {
	svc      *problem.Service
	validate *validator.Validate
}

func registerProblemAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *problem.Service, validate *validator.Validate) {
	api := problemApi{
		svc:      svc,
		validate: validate,
	}

	// un-authed endpoints.
	// echo keeps one param name per path position, so the owner listing and
	// the delete share :id; on the listing route it carries the owner email.
	g.GET("/problems/:id", api.query)

	// authed endpoints
	ag := g.Group("", jwt)
	ag.POST("/problems", api.create)
	ag.DELETE("/problems/:id", api.destroy)
	ag.POST("/solve-problem/:id", api.solve)
}

// Handlers

func (api *problemApi) create(ctx echo.Context) error {
	var data problem.NewProblem
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewProblem")
	}

	// problems can only be filed under the requester's own account
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

	_, points, err := api.svc.Create(data)
	if err != nil {
		return errors.Wrap(err, "creating problem")
	}

	return ctx.JSON(http.StatusCreated, MessageResponse{
		Message: fmt.Sprintf("Problem added! +%d points.", points),
	})
}

func (api *problemApi) query(ctx echo.Context) error {
	problems, err := api.svc.QueryByOwner(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying problems")
	}
	return ctx.JSON(http.StatusOK, problems)
}

func (api *problemApi) destroy(ctx echo.Context) error {
	email, err := authedEmail(ctx)
	if err != nil {
		return err
	}
	if err := api.svc.Delete(ctx.Param("id"), email); err != nil {
		if errors.Cause(err) == problem.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Problem not found.")
		}
		return errors.Wrap(err, "deleting problem")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Problem deleted."})
}

func (api *problemApi) solve(ctx echo.Context) error {
	result := api.svc.Review(ctx.Param("id"))
	return ctx.JSON(http.StatusOK, SolveResponse{Success: true, Result: result})
}

type SolveResponse struct {
	Success bool   `json:"success"`
	Result  string `json:"result"`
}
