package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/placement/core/assignment"
	"github.com/trezcool/placement/core/project"
	"github.com/trezcool/placement/core/request"
)

type projectApi struct {
	svc      *project.Service
	ledger   *assignment.Ledger
	workflow *request.Workflow
}

func registerProjectAPI(g *echo.Group, svc *project.Service, ledger *assignment.Ledger, wf *request.Workflow) {
	api := projectApi{svc: svc, ledger: ledger, workflow: wf}

	pg := g.Group("/projects")
	pg.GET("", api.query)
	pg.POST("", api.create)
	pg.GET("/available", api.available)

	// detail endpoints
	dg := pg.Group("/:id", projectMiddleware(svc))
	dg.GET("", api.retrieve)
	dg.PUT("/status", api.setStatus)
	dg.POST("/cancel", api.cancel)
	dg.GET("/students", api.students)
	dg.GET("/requests", api.requests)
	dg.POST("/assignments", api.assign)
	dg.DELETE("/assignments/:studentID", api.unassign)
}

// Handlers

func (api *projectApi) create(ctx echo.Context) error {
	var data project.NewProject
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewProject")
	}

	p, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, p)
}

func (api *projectApi) query(ctx echo.Context) error {
	var filter project.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to project.QueryFilter")
	}
	var ord Ordering
	ord.Bind(ctx)

	projects, err := api.svc.Query(ctx.Request().Context(), &filter, ord.Orderings)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, projects)
}

func (api *projectApi) available(ctx echo.Context) error {
	projects, err := api.svc.ListAvailable(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, projects)
}

func (api *projectApi) retrieve(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, contextProject(ctx))
}

func (api *projectApi) setStatus(ctx echo.Context) error {
	var data StatusRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to StatusRequest")
	}
	// cancelling also releases the seats
	if data.Status == project.StatusCancelled {
		return api.cancel(ctx)
	}

	p, err := api.svc.SetStatus(ctx.Request().Context(), contextProject(ctx).ID, data.Status)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *projectApi) cancel(ctx echo.Context) error {
	c := ctx.Request().Context()
	id := contextProject(ctx).ID

	released, err := api.ledger.CancelProject(c, id)
	if err != nil {
		return err
	}
	p, err := api.svc.GetByID(c, id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, CancelResponse{Project: p, ReleasedStudents: released})
}

func (api *projectApi) students(ctx echo.Context) error {
	ids, err := api.ledger.ListAssignedStudents(ctx.Request().Context(), contextProject(ctx).ID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, ids)
}

func (api *projectApi) requests(ctx echo.Context) error {
	requests, err := api.workflow.ListByProject(ctx.Request().Context(), contextProject(ctx).ID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, requests)
}

func (api *projectApi) assign(ctx echo.Context) error {
	var data AssignRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AssignRequest")
	}

	a, err := api.ledger.Assign(ctx.Request().Context(), contextProject(ctx).ID, data.StudentID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, a)
}

func (api *projectApi) unassign(ctx echo.Context) error {
	studentID, err := paramID(ctx, "studentID")
	if err != nil {
		return err
	}

	removed, err := api.ledger.Unassign(ctx.Request().Context(), contextProject(ctx).ID, studentID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"unassigned": removed})
}
