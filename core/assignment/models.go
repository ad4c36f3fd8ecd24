package assignment

import (
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/placement/core"
)

var (
	// errors
	ErrNotFound          = core.NewNotFoundError("assignment")
	ErrStudentUnassigned = errors.New("student was unassigned but could not be moved")
)

// Assignment binds exactly one student to exactly one project.
type Assignment struct {
	ProjectID int64     `json:"project_id"`
	StudentID int64     `json:"student_id"`
	CreatedAt time.Time `json:"created_at"` // UTC
}

// UnassignedError is returned by Ledger.Reassign when the student left the old project
// but the assignment to the new one failed. The student is left without a project.
type UnassignedError struct {
	StudentID     int64
	FromProjectID int64
	Err           error
}

func (err *UnassignedError) Error() string {
	return fmt.Sprintf(
		"student %d unassigned from project %d: %v", err.StudentID, err.FromProjectID, err.Err,
	)
}

func (err *UnassignedError) Unwrap() error { return err.Err }

func (err *UnassignedError) Is(target error) bool {
	return target == ErrStudentUnassigned
}
