package request

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/placement/core"
)

// Statuses
const (
	StatusPending  = "Pending"
	StatusApproved = "Approved"
	StatusRejected = "Rejected"
)

// ErrNotFound matches core.ErrNotFound.
var ErrNotFound = core.NewNotFoundError("request")

// Request is a student's proposal to join a project, waiting for a coordinator's decision.
type Request struct {
	ID          int64     `json:"id"`
	ProjectID   int64     `json:"project_id"`
	StudentID   int64     `json:"student_id"`
	Status      string    `json:"status"`
	SubmittedAt time.Time `json:"submitted_at"` // UTC
	DecidedAt   null.Time `json:"decided_at"`

	// read-only, joined from projects & students
	ProjectTitle string `json:"project_title"`
	StudentCode  string `json:"student_code"`
	StudentName  string `json:"student_name"`
	StudentEmail string `json:"-"`
}

func (r Request) IsPending() bool { return r.Status == StatusPending }

type NewRequest struct {
	ProjectID int64 `json:"project_id" validate:"required"`
	StudentID int64 `json:"student_id" validate:"required"`
}

// QueryFilter applies AND operation on its non-zero fields.
type QueryFilter struct {
	ProjectID int64
	StudentID int64
	Status    string
}
