package sqlxrepos

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/placement/core"
	"github.com/trezcool/placement/core/request"
)

const requestSelect = `
	SELECT r.id, r.project_id, r.student_id, r.status, r.submitted_at, r.decided_at,
		p.title AS project_title, s.code AS student_code, s.name AS student_name, s.email AS student_email
	FROM project_requests r
	JOIN projects p ON p.id = r.project_id
	JOIN students s ON s.id = r.student_id`

type requestRow struct {
	ID           int64     `db:"id"`
	ProjectID    int64     `db:"project_id"`
	StudentID    int64     `db:"student_id"`
	Status       string    `db:"status"`
	SubmittedAt  time.Time `db:"submitted_at"`
	DecidedAt    null.Time `db:"decided_at"`
	ProjectTitle string    `db:"project_title"`
	StudentCode  string    `db:"student_code"`
	StudentName  string    `db:"student_name"`
	StudentEmail string    `db:"student_email"`
}

func (row requestRow) request() request.Request {
	r := request.Request{
		ID:           row.ID,
		ProjectID:    row.ProjectID,
		StudentID:    row.StudentID,
		Status:       row.Status,
		SubmittedAt:  row.SubmittedAt.UTC(),
		DecidedAt:    row.DecidedAt,
		ProjectTitle: row.ProjectTitle,
		StudentCode:  row.StudentCode,
		StudentName:  row.StudentName,
		StudentEmail: row.StudentEmail,
	}
	if r.DecidedAt.Valid {
		r.DecidedAt.Time = r.DecidedAt.Time.UTC()
	}
	return r
}

type requestRepository struct {
	repository
}

var _ request.Repository = (*requestRepository)(nil) // interface compliance check

func NewRequestRepository(exec core.DBExecutor) *requestRepository {
	return &requestRepository{repository{exec: exec}}
}

// CreateRequest relies on the partial unique index over Pending requests: a duplicate inserts nothing
// and returns no id.
func (repo requestRepository) CreateRequest(ctx context.Context, r request.Request, exec ...core.DBExecutor) (request.Request, error) {
	exe := repo.getExec(exec)
	q := exe.Rebind(`
		INSERT INTO project_requests (project_id, student_id, status, submitted_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT DO NOTHING
		RETURNING id`)

	if err := exe.GetContext(ctx, &r.ID, q, r.ProjectID, r.StudentID, r.Status, r.SubmittedAt.UTC()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return request.Request{}, core.ErrDuplicateRequest
		}
		return request.Request{}, core.NewStorageError(err, "inserting request")
	}
	return r, nil
}

func (repo requestRepository) GetRequest(ctx context.Context, id int64, exec ...core.DBExecutor) (request.Request, error) {
	exe := repo.getExec(exec)

	var row requestRow
	if err := exe.GetContext(ctx, &row, exe.Rebind(requestSelect+" WHERE r.id = ?"), id); err != nil {
		return request.Request{}, trapNoRowsErr(err, request.ErrNotFound, "getting request")
	}
	return row.request(), nil
}

func (repo requestRepository) QueryRequests(ctx context.Context, filter request.QueryFilter, exec ...core.DBExecutor) ([]request.Request, error) {
	exe := repo.getExec(exec)

	var (
		conds []string
		args  []interface{}
	)
	if filter.ProjectID != 0 {
		conds = append(conds, "r.project_id = ?")
		args = append(args, filter.ProjectID)
	}
	if filter.StudentID != 0 {
		conds = append(conds, "r.student_id = ?")
		args = append(args, filter.StudentID)
	}
	if filter.Status != "" {
		conds = append(conds, "r.status = ?")
		args = append(args, filter.Status)
	}

	q := requestSelect
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY r.submitted_at ASC, r.id ASC"

	var rows []requestRow
	if err := exe.SelectContext(ctx, &rows, exe.Rebind(q), args...); err != nil {
		return nil, core.NewStorageError(err, "querying requests")
	}
	requests := make([]request.Request, 0, len(rows))
	for _, row := range rows {
		requests = append(requests, row.request())
	}
	return requests, nil
}

func (repo requestRepository) UpdateRequestStatus(
	ctx context.Context,
	id int64,
	from, to string,
	at time.Time,
	exec ...core.DBExecutor,
) (bool, error) {
	exe := repo.getExec(exec)
	q := exe.Rebind("UPDATE project_requests SET status = ?, decided_at = ? WHERE id = ? AND status = ?")
	return rowsAffected(exe.ExecContext(ctx, q, to, at.UTC(), id, from))
}
