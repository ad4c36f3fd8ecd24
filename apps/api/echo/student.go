package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/placement/core/assignment"
	"github.com/trezcool/placement/core/request"
	"github.com/trezcool/placement/core/student"
)

type studentApi struct {
	svc      *student.Service
	ledger   *assignment.Ledger
	workflow *request.Workflow
}

func registerStudentAPI(g *echo.Group, svc *student.Service, ledger *assignment.Ledger, wf *request.Workflow) {
	api := studentApi{svc: svc, ledger: ledger, workflow: wf}

	sg := g.Group("/students/:id", studentMiddleware(svc))
	sg.GET("/assignment", api.assignment)
	sg.PUT("/assignment", api.reassign)
	sg.GET("/requests", api.requests)
}

// Handlers

func (api *studentApi) assignment(ctx echo.Context) error {
	s := contextStudent(ctx)
	projectID, ok, err := api.ledger.GetAssignmentForStudent(ctx.Request().Context(), s.ID)
	if err != nil {
		return err
	}

	res := StudentAssignmentResponse{StudentID: s.ID, Assigned: ok}
	if ok {
		res.ProjectID = &projectID
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *studentApi) reassign(ctx echo.Context) error {
	var data ReassignRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ReassignRequest")
	}

	a, err := api.ledger.Reassign(ctx.Request().Context(), contextStudent(ctx).ID, data.ProjectID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, a)
}

func (api *studentApi) requests(ctx echo.Context) error {
	requests, err := api.workflow.ListByStudent(ctx.Request().Context(), contextStudent(ctx).ID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, requests)
}
