package echoapi

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/placement/core"
	"github.com/trezcool/placement/core/project"
)

var orderingParam = "ordering"

type Ordering struct {
	Orderings []core.DBOrdering
}

// Bind reads `?ordering=field,-other` where a leading "-" means descending.
func (ord *Ordering) Bind(ctx echo.Context) {
	val := ctx.QueryParam(orderingParam)
	if val == "" {
		return
	}

	for _, field := range strings.Split(val, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		descending := strings.HasPrefix(field, "-")
		if descending {
			field = field[1:] // drop "-"
		}
		ord.Orderings = append(ord.Orderings, core.DBOrdering{Field: field, Ascending: !descending})
	}
}

type (
	StatusRequest struct {
		Status string `json:"status"`
	}

	AssignRequest struct {
		StudentID int64 `json:"student_id"`
	}

	ReassignRequest struct {
		ProjectID int64 `json:"project_id"`
	}

	CancelResponse struct {
		Project          project.Project `json:"project"`
		ReleasedStudents []int64         `json:"released_students"`
	}

	StudentAssignmentResponse struct {
		StudentID int64  `json:"student_id"`
		ProjectID *int64 `json:"project_id"`
		Assigned  bool   `json:"assigned"`
	}
)
