package project

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/placement/core"
)

var (
	// errors
	ErrNotFound        = core.NewNotFoundError("project")
	ErrTitleExists     = errors.New("a project with this title already exists")
	ErrInvalidStatus   = errors.New("invalid project status")
	ErrInvalidOrdering = errors.New("invalid ordering field")
)

type Repository interface {
	// CreateProject returns ErrTitleExists when the title is taken.
	CreateProject(ctx context.Context, p Project, exec ...core.DBExecutor) (Project, error)
	GetProject(ctx context.Context, filter GetFilter, exec ...core.DBExecutor) (Project, error)
	// QueryProjects applies AND operation on available QueryFilter fields.
	// QueryFilter.Search does a case-insensitive match on Title or Description.
	QueryProjects(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]Project, error)
	UpdateProjectStatus(ctx context.Context, id int64, status string, exec ...core.DBExecutor) (bool, error)
	// IncrementOccupancy adds one seat only while occupancy < capacity; false means the project is full (or absent).
	IncrementOccupancy(ctx context.Context, id int64, exec ...core.DBExecutor) (bool, error)
	// DecrementOccupancy frees one seat only while occupancy > 0.
	DecrementOccupancy(ctx context.Context, id int64, exec ...core.DBExecutor) (bool, error)
	ResetOccupancy(ctx context.Context, id int64, exec ...core.DBExecutor) error
}

// Service is the project registry: it owns project identity, capacity and the occupancy counter.
type Service struct {
	repo     Repository
	validate *core.Validator
}

func NewService(repo Repository, validate *core.Validator) *Service {
	return &Service{repo: repo, validate: validate}
}

func (svc *Service) Create(ctx context.Context, np NewProject) (Project, error) {
	np.Clean()
	if err := svc.validate.Struct(np); err != nil {
		return Project{}, err
	}

	now := core.NowFunc()
	p, err := svc.repo.CreateProject(ctx, Project{
		Title:       np.Title,
		Description: np.Description,
		StartsAt:    np.StartsAt,
		EndsAt:      np.EndsAt,
		Status:      np.Status,
		Capacity:    np.Capacity,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		if errors.Is(err, ErrTitleExists) {
			return Project{}, core.NewValidationError(err, core.FieldError{Field: "title", Error: err.Error()})
		}
		return Project{}, errors.Wrap(err, "creating project")
	}
	return p, nil
}

func (svc *Service) GetByID(ctx context.Context, id int64, exec ...core.DBExecutor) (Project, error) {
	return svc.repo.GetProject(ctx, GetFilter{ID: id}, exec...)
}

func (svc *Service) GetByTitle(ctx context.Context, title string) (Project, error) {
	title = core.CleanString(title)
	if title == "" {
		return Project{}, ErrNotFound
	}
	return svc.repo.GetProject(ctx, GetFilter{Title: title})
}

// Lock re-reads the project inside the caller's transaction and holds its row lock until the transaction ends.
func (svc *Service) Lock(ctx context.Context, id int64, exec core.DBExecutor) (Project, error) {
	return svc.repo.GetProject(ctx, GetFilter{ID: id, ForUpdate: true}, exec)
}

// ListAvailable returns active projects that still have free seats.
func (svc *Service) ListAvailable(ctx context.Context) ([]Project, error) {
	return svc.repo.QueryProjects(
		ctx,
		&QueryFilter{Status: StatusActive, AvailableOnly: true},
		[]core.DBOrdering{{Field: "title", Ascending: true}},
	)
}

func (svc *Service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Project, error) {
	if filter != nil {
		filter.Clean()
		if filter.Status != "" && !IsValidStatus(filter.Status) {
			return nil, core.NewValidationError(ErrInvalidStatus, core.FieldError{Field: "status", Error: ErrInvalidStatus.Error()})
		}
	}
	projects, err := svc.repo.QueryProjects(ctx, filter, ordering)
	if errors.Is(err, ErrInvalidOrdering) {
		return nil, core.NewValidationError(err, core.FieldError{Field: "ordering", Error: err.Error()})
	}
	return projects, err
}

// SetStatus changes the lifecycle status of a project. Cancellation goes through the assignment ledger instead,
// since it also releases every seat.
func (svc *Service) SetStatus(ctx context.Context, id int64, status string, exec ...core.DBExecutor) (Project, error) {
	if !IsValidStatus(status) {
		return Project{}, core.NewValidationError(ErrInvalidStatus, core.FieldError{Field: "status", Error: ErrInvalidStatus.Error()})
	}
	ok, err := svc.repo.UpdateProjectStatus(ctx, id, status, exec...)
	if err != nil {
		return Project{}, errors.Wrap(err, "updating project status")
	}
	if !ok {
		return Project{}, ErrNotFound
	}
	return svc.GetByID(ctx, id, exec...)
}

// IncrementOccupancy atomically takes one seat. A false result means the project was already full
// and must be treated by the caller as a capacity failure.
func (svc *Service) IncrementOccupancy(ctx context.Context, id int64, exec ...core.DBExecutor) (bool, error) {
	return svc.repo.IncrementOccupancy(ctx, id, exec...)
}

// DecrementOccupancy atomically frees one seat, never going below zero.
func (svc *Service) DecrementOccupancy(ctx context.Context, id int64, exec ...core.DBExecutor) (bool, error) {
	return svc.repo.DecrementOccupancy(ctx, id, exec...)
}

func (svc *Service) ResetOccupancy(ctx context.Context, id int64, exec ...core.DBExecutor) error {
	return svc.repo.ResetOccupancy(ctx, id, exec...)
}
