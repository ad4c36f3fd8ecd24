package sqlxrepos

import (
	"context"
	"strings"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/placement/core"
	"github.com/trezcool/placement/core/project"
)

const projectColumns = "id, title, description, starts_at, ends_at, status, capacity, occupancy, created_at, updated_at"

var projectOrderings = map[string]bool{
	"id":         true,
	"title":      true,
	"status":     true,
	"capacity":   true,
	"occupancy":  true,
	"starts_at":  true,
	"ends_at":    true,
	"created_at": true,
}

type projectRow struct {
	ID          int64     `db:"id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	StartsAt    null.Time `db:"starts_at"`
	EndsAt      null.Time `db:"ends_at"`
	Status      string    `db:"status"`
	Capacity    int       `db:"capacity"`
	Occupancy   int       `db:"occupancy"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (row projectRow) project() project.Project {
	p := project.Project{
		ID:          row.ID,
		Title:       row.Title,
		Description: row.Description,
		StartsAt:    row.StartsAt,
		EndsAt:      row.EndsAt,
		Status:      row.Status,
		Capacity:    row.Capacity,
		Occupancy:   row.Occupancy,
		CreatedAt:   row.CreatedAt.UTC(),
		UpdatedAt:   row.UpdatedAt.UTC(),
	}
	if p.StartsAt.Valid {
		p.StartsAt.Time = p.StartsAt.Time.UTC()
	}
	if p.EndsAt.Valid {
		p.EndsAt.Time = p.EndsAt.Time.UTC()
	}
	return p
}

type projectRepository struct {
	repository
}

var _ project.Repository = (*projectRepository)(nil) // interface compliance check

func NewProjectRepository(exec core.DBExecutor) *projectRepository {
	return &projectRepository{repository{exec: exec}}
}

func (repo projectRepository) CreateProject(ctx context.Context, p project.Project, exec ...core.DBExecutor) (project.Project, error) {
	exe := repo.getExec(exec)
	q := exe.Rebind(`
		INSERT INTO projects (title, description, starts_at, ends_at, status, capacity, occupancy, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, 0, ?, ?)
		RETURNING id`)

	err := exe.GetContext(
		ctx, &p.ID, q,
		p.Title, p.Description, p.StartsAt, p.EndsAt, p.Status, p.Capacity, p.CreatedAt.UTC(), p.UpdatedAt.UTC(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return project.Project{}, project.ErrTitleExists
		}
		return project.Project{}, core.NewStorageError(err, "inserting project")
	}
	p.Occupancy = 0
	return p, nil
}

func (repo projectRepository) GetProject(ctx context.Context, filter project.GetFilter, exec ...core.DBExecutor) (project.Project, error) {
	exe := repo.getExec(exec)

	var (
		where string
		arg   interface{}
	)
	switch {
	case filter.ID != 0:
		where, arg = "id = ?", filter.ID
	case filter.Title != "":
		where, arg = "title = ?", filter.Title
	default:
		return project.Project{}, project.ErrNotFound
	}

	q := "SELECT " + projectColumns + " FROM projects WHERE " + where
	if filter.ForUpdate && exe.DriverName() == core.EnginePostgres {
		q += " FOR UPDATE"
	}

	var row projectRow
	if err := exe.GetContext(ctx, &row, exe.Rebind(q), arg); err != nil {
		return project.Project{}, trapNoRowsErr(err, project.ErrNotFound, "getting project")
	}
	return row.project(), nil
}

func (repo projectRepository) QueryProjects(
	ctx context.Context,
	filter *project.QueryFilter,
	ordering []core.DBOrdering,
	exec ...core.DBExecutor,
) ([]project.Project, error) {
	exe := repo.getExec(exec)

	var (
		conds []string
		args  []interface{}
	)
	if filter != nil {
		if filter.Search != "" {
			pattern := likePattern(filter.Search)
			conds = append(conds, `(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\')`)
			args = append(args, pattern, pattern)
		}
		if filter.Status != "" {
			conds = append(conds, "status = ?")
			args = append(args, filter.Status)
		}
		if filter.AvailableOnly {
			conds = append(conds, "occupancy < capacity")
		}
	}

	q := "SELECT " + projectColumns + " FROM projects"
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}

	orderBy := make([]string, 0, len(ordering)+1)
	for _, ord := range ordering {
		if !projectOrderings[ord.Field] {
			return nil, project.ErrInvalidOrdering
		}
		orderBy = append(orderBy, ord.String())
	}
	orderBy = append(orderBy, "id ASC")
	q += " ORDER BY " + strings.Join(orderBy, ", ")

	var rows []projectRow
	if err := exe.SelectContext(ctx, &rows, exe.Rebind(q), args...); err != nil {
		return nil, core.NewStorageError(err, "querying projects")
	}
	projects := make([]project.Project, 0, len(rows))
	for _, row := range rows {
		projects = append(projects, row.project())
	}
	return projects, nil
}

func (repo projectRepository) UpdateProjectStatus(ctx context.Context, id int64, status string, exec ...core.DBExecutor) (bool, error) {
	exe := repo.getExec(exec)
	q := exe.Rebind("UPDATE projects SET status = ?, updated_at = ? WHERE id = ?")
	return rowsAffected(exe.ExecContext(ctx, q, status, core.NowFunc().UTC(), id))
}

func (repo projectRepository) IncrementOccupancy(ctx context.Context, id int64, exec ...core.DBExecutor) (bool, error) {
	exe := repo.getExec(exec)
	q := exe.Rebind(`
		UPDATE projects SET occupancy = occupancy + 1, updated_at = ?
		WHERE id = ? AND occupancy < capacity`)
	return rowsAffected(exe.ExecContext(ctx, q, core.NowFunc().UTC(), id))
}

func (repo projectRepository) DecrementOccupancy(ctx context.Context, id int64, exec ...core.DBExecutor) (bool, error) {
	exe := repo.getExec(exec)
	q := exe.Rebind(`
		UPDATE projects SET occupancy = occupancy - 1, updated_at = ?
		WHERE id = ? AND occupancy > 0`)
	return rowsAffected(exe.ExecContext(ctx, q, core.NowFunc().UTC(), id))
}

func (repo projectRepository) ResetOccupancy(ctx context.Context, id int64, exec ...core.DBExecutor) error {
	exe := repo.getExec(exec)
	q := exe.Rebind("UPDATE projects SET occupancy = 0, updated_at = ? WHERE id = ?")
	_, err := rowsAffected(exe.ExecContext(ctx, q, core.NowFunc().UTC(), id))
	return err
}
