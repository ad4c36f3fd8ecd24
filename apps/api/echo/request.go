package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/placement/core/request"
)

type requestApi struct {
	workflow *request.Workflow
}

func registerRequestAPI(g *echo.Group, wf *request.Workflow) {
	api := requestApi{workflow: wf}

	rg := g.Group("/requests")
	rg.POST("", api.submit)
	rg.GET("/pending", api.pending)
	rg.GET("/:id", api.retrieve, requestMiddleware(wf))
	rg.POST("/:id/approve", api.approve)
	rg.POST("/:id/reject", api.reject)
}

// Handlers

func (api *requestApi) submit(ctx echo.Context) error {
	var data request.NewRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRequest")
	}

	r, err := api.workflow.Submit(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, r)
}

func (api *requestApi) pending(ctx echo.Context) error {
	requests, err := api.workflow.ListPending(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, requests)
}

func (api *requestApi) retrieve(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, contextRequest(ctx))
}

// approve answers `{"approved": false}` when the request is missing or already decided.
func (api *requestApi) approve(ctx echo.Context) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	ok, err := api.workflow.Approve(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"approved": ok})
}

func (api *requestApi) reject(ctx echo.Context) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	ok, err := api.workflow.Reject(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"rejected": ok})
}
