package sqlxrepos

import (
	"context"
	"time"

	"github.com/trezcool/placement/core"
	"github.com/trezcool/placement/core/assignment"
)

type assignmentRow struct {
	ProjectID int64     `db:"project_id"`
	StudentID int64     `db:"student_id"`
	CreatedAt time.Time `db:"created_at"`
}

func (row assignmentRow) assignment() assignment.Assignment {
	return assignment.Assignment{ProjectID: row.ProjectID, StudentID: row.StudentID, CreatedAt: row.CreatedAt.UTC()}
}

type assignmentRepository struct {
	repository
}

var _ assignment.Repository = (*assignmentRepository)(nil) // interface compliance check

func NewAssignmentRepository(exec core.DBExecutor) *assignmentRepository {
	return &assignmentRepository{repository{exec: exec}}
}

// CreateAssignment relies on the unique student_id index: a second assignment for the same student inserts nothing.
func (repo assignmentRepository) CreateAssignment(ctx context.Context, a assignment.Assignment, exec ...core.DBExecutor) (bool, error) {
	exe := repo.getExec(exec)
	q := exe.Rebind(`
		INSERT INTO assignments (project_id, student_id, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT DO NOTHING`)
	return rowsAffected(exe.ExecContext(ctx, q, a.ProjectID, a.StudentID, a.CreatedAt.UTC()))
}

func (repo assignmentRepository) DeleteAssignment(ctx context.Context, projectID, studentID int64, exec ...core.DBExecutor) (bool, error) {
	exe := repo.getExec(exec)
	q := exe.Rebind("DELETE FROM assignments WHERE project_id = ? AND student_id = ?")
	return rowsAffected(exe.ExecContext(ctx, q, projectID, studentID))
}

func (repo assignmentRepository) DeleteProjectAssignments(ctx context.Context, projectID int64, exec ...core.DBExecutor) ([]int64, error) {
	exe := repo.getExec(exec)
	q := exe.Rebind("DELETE FROM assignments WHERE project_id = ? RETURNING student_id")

	ids := make([]int64, 0)
	if err := exe.SelectContext(ctx, &ids, q, projectID); err != nil {
		return nil, core.NewStorageError(err, "deleting project assignments")
	}
	return ids, nil
}

func (repo assignmentRepository) GetStudentAssignment(ctx context.Context, studentID int64, exec ...core.DBExecutor) (assignment.Assignment, error) {
	exe := repo.getExec(exec)
	q := exe.Rebind("SELECT project_id, student_id, created_at FROM assignments WHERE student_id = ?")

	var row assignmentRow
	if err := exe.GetContext(ctx, &row, q, studentID); err != nil {
		return assignment.Assignment{}, trapNoRowsErr(err, assignment.ErrNotFound, "getting assignment")
	}
	return row.assignment(), nil
}

func (repo assignmentRepository) QueryProjectAssignments(ctx context.Context, projectID int64, exec ...core.DBExecutor) ([]assignment.Assignment, error) {
	exe := repo.getExec(exec)
	q := exe.Rebind(`
		SELECT project_id, student_id, created_at FROM assignments
		WHERE project_id = ?
		ORDER BY created_at ASC, student_id ASC`)

	var rows []assignmentRow
	if err := exe.SelectContext(ctx, &rows, q, projectID); err != nil {
		return nil, core.NewStorageError(err, "querying assignments")
	}
	assignments := make([]assignment.Assignment, 0, len(rows))
	for _, row := range rows {
		assignments = append(assignments, row.assignment())
	}
	return assignments, nil
}
