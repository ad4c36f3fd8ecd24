package assignment

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/trezcool/placement/core"
	"github.com/trezcool/placement/core/project"
	"github.com/trezcool/placement/core/student"
)

var errOccupancyDrift = errors.New("occupancy counter is already at zero")

type Repository interface {
	// CreateAssignment returns false when the student already holds an assignment.
	CreateAssignment(ctx context.Context, a Assignment, exec ...core.DBExecutor) (bool, error)
	DeleteAssignment(ctx context.Context, projectID, studentID int64, exec ...core.DBExecutor) (bool, error)
	// DeleteProjectAssignments removes every assignment of a project and returns the released student IDs.
	DeleteProjectAssignments(ctx context.Context, projectID int64, exec ...core.DBExecutor) ([]int64, error)
	GetStudentAssignment(ctx context.Context, studentID int64, exec ...core.DBExecutor) (Assignment, error)
	QueryProjectAssignments(ctx context.Context, projectID int64, exec ...core.DBExecutor) ([]Assignment, error)
}

// Ledger keeps the set of (project, student) pairs and is the only writer of project occupancy.
type Ledger struct {
	txm      *core.TxManager
	projects *project.Service
	repo     Repository
	students student.Directory
	logger   *zap.Logger
}

func NewLedger(
	txm *core.TxManager,
	projects *project.Service,
	repo Repository,
	students student.Directory,
	logger *zap.Logger,
) *Ledger {
	return &Ledger{txm: txm, projects: projects, repo: repo, students: students, logger: logger}
}

// Assign places a student in a project. Everything happens in one transaction, or in exec when provided:
// a failed step leaves neither the assignment row nor the occupancy increment behind.
func (l *Ledger) Assign(ctx context.Context, projectID, studentID int64, exec ...core.DBExecutor) (Assignment, error) {
	var a Assignment
	err := l.txm.WithinTx(ctx, func(tx core.DBExecutor) error {
		p, err := l.projects.Lock(ctx, projectID, tx)
		if err != nil {
			return err
		}
		if !p.IsActive() {
			msg := "project is " + p.Status
			return core.NewValidationError(errors.New(msg), core.FieldError{Field: "project_id", Error: msg})
		}

		exists, err := l.students.StudentExists(ctx, studentID, tx)
		if err != nil {
			return errors.Wrap(err, "checking student")
		}
		if !exists {
			return student.ErrNotFound
		}

		ok, err := l.projects.IncrementOccupancy(ctx, projectID, tx)
		if err != nil {
			return errors.Wrap(err, "incrementing occupancy")
		}
		if !ok {
			return core.ErrCapacityExceeded
		}

		a = Assignment{ProjectID: projectID, StudentID: studentID, CreatedAt: core.NowFunc()}
		created, err := l.repo.CreateAssignment(ctx, a, tx)
		if err != nil {
			return errors.Wrap(err, "creating assignment")
		}
		if !created {
			return core.ErrAlreadyAssigned
		}
		return nil
	}, exec...)
	if err != nil {
		return Assignment{}, err
	}
	return a, nil
}

// Unassign removes the assignment and frees its seat. It reports false, without touching anything,
// when the student is not assigned to that project.
func (l *Ledger) Unassign(ctx context.Context, projectID, studentID int64, exec ...core.DBExecutor) (bool, error) {
	var removed bool
	err := l.txm.WithinTx(ctx, func(tx core.DBExecutor) error {
		ok, err := l.repo.DeleteAssignment(ctx, projectID, studentID, tx)
		if err != nil {
			return errors.Wrap(err, "deleting assignment")
		}
		if !ok {
			return nil
		}

		ok, err = l.projects.DecrementOccupancy(ctx, projectID, tx)
		if err != nil {
			return errors.Wrap(err, "decrementing occupancy")
		}
		if !ok {
			return errors.Wrapf(errOccupancyDrift, "project %d", projectID)
		}
		removed = true
		return nil
	}, exec...)
	if err != nil {
		return false, err
	}
	return removed, nil
}

// GetAssignmentForStudent returns the project the student is assigned to; ok is false when there is none.
func (l *Ledger) GetAssignmentForStudent(ctx context.Context, studentID int64) (projectID int64, ok bool, err error) {
	a, err := l.repo.GetStudentAssignment(ctx, studentID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return a.ProjectID, true, nil
}

func (l *Ledger) ListAssignedStudents(ctx context.Context, projectID int64) ([]int64, error) {
	if _, err := l.projects.GetByID(ctx, projectID); err != nil {
		return nil, err
	}
	assignments, err := l.repo.QueryProjectAssignments(ctx, projectID)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(assignments))
	for _, a := range assignments {
		ids = append(ids, a.StudentID)
	}
	return ids, nil
}

// Reassign moves a student to another project as two transactions: unassign, then assign.
// A crash or failure in between leaves the student unassigned, never double-assigned;
// that outcome is reported as an *UnassignedError.
func (l *Ledger) Reassign(ctx context.Context, studentID, toProjectID int64) (Assignment, error) {
	target, err := l.projects.GetByID(ctx, toProjectID)
	if err != nil {
		return Assignment{}, err
	}
	if !target.IsActive() {
		msg := "project is " + target.Status
		return Assignment{}, core.NewValidationError(errors.New(msg), core.FieldError{Field: "project_id", Error: msg})
	}

	current, err := l.repo.GetStudentAssignment(ctx, studentID)
	switch {
	case errors.Is(err, ErrNotFound):
		return l.Assign(ctx, toProjectID, studentID)
	case err != nil:
		return Assignment{}, err
	case current.ProjectID == toProjectID:
		return current, nil
	}

	if target.IsFull() {
		return Assignment{}, core.ErrCapacityExceeded
	}

	removed, err := l.Unassign(ctx, current.ProjectID, studentID)
	if err != nil {
		return Assignment{}, err
	}
	if !removed {
		// moved concurrently by somebody else
		return Assignment{}, core.ErrAlreadyAssigned
	}

	a, err := l.Assign(ctx, toProjectID, studentID)
	if err != nil {
		l.logger.Warn(
			"student left unassigned by failed reassignment",
			zap.Int64("student_id", studentID),
			zap.Int64("from_project_id", current.ProjectID),
			zap.Int64("to_project_id", toProjectID),
			zap.Error(err),
		)
		return Assignment{}, &UnassignedError{StudentID: studentID, FromProjectID: current.ProjectID, Err: err}
	}
	return a, nil
}

// CancelProject marks the project Cancelled and releases all of its seats in one transaction.
// It returns the IDs of the students that lost their assignment.
func (l *Ledger) CancelProject(ctx context.Context, projectID int64) ([]int64, error) {
	var released []int64
	err := l.txm.WithinTx(ctx, func(tx core.DBExecutor) error {
		if _, err := l.projects.Lock(ctx, projectID, tx); err != nil {
			return err
		}
		if _, err := l.projects.SetStatus(ctx, projectID, project.StatusCancelled, tx); err != nil {
			return err
		}

		var err error
		if released, err = l.repo.DeleteProjectAssignments(ctx, projectID, tx); err != nil {
			return errors.Wrap(err, "deleting project assignments")
		}
		return errors.Wrap(l.projects.ResetOccupancy(ctx, projectID, tx), "resetting occupancy")
	})
	if err != nil {
		return nil, err
	}
	l.logger.Info("project cancelled", zap.Int64("project_id", projectID), zap.Int("released", len(released)))
	return released, nil
}
