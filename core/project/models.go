package project

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/placement/core"
)

// Statuses
const (
	StatusActive    = "Active"
	StatusInactive  = "Inactive"
	StatusCancelled = "Cancelled"
)

var AllStatuses = []string{StatusActive, StatusInactive, StatusCancelled}

type Project struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartsAt    null.Time `json:"starts_at"`
	EndsAt      null.Time `json:"ends_at"`
	Status      string    `json:"status"`
	Capacity    int       `json:"capacity"`
	Occupancy   int       `json:"occupancy"`
	CreatedAt   time.Time `json:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at"` // UTC
}

func (p Project) IsActive() bool { return p.Status == StatusActive }

func (p Project) IsFull() bool { return p.Occupancy >= p.Capacity }

// Vacancies is the number of free seats.
func (p Project) Vacancies() int {
	if p.IsFull() {
		return 0
	}
	return p.Capacity - p.Occupancy
}

// NewProject contains information needed to create a new Project.
type NewProject struct {
	Title       string    `json:"title" validate:"notblank,max=255"`
	Description string    `json:"description"`
	StartsAt    null.Time `json:"starts_at"`
	EndsAt      null.Time `json:"ends_at"`
	Status      string    `json:"status" validate:"omitempty,projectstatus"`
	Capacity    int       `json:"capacity" validate:"min=1"`
}

func (np *NewProject) Clean() {
	np.Title = core.CleanString(np.Title)
	np.Description = core.CleanString(np.Description)
	if np.Status == "" {
		np.Status = StatusActive
	}
	if np.StartsAt.Valid {
		np.StartsAt.Time = np.StartsAt.Time.UTC()
	}
	if np.EndsAt.Valid {
		np.EndsAt.Time = np.EndsAt.Time.UTC()
	}
}

// GetFilter selects a single Project by ID or by Title.
type GetFilter struct {
	ID        int64
	Title     string
	ForUpdate bool // lock the row until the surrounding transaction ends, where the engine supports it
}

type QueryFilter struct {
	Search        string `query:"search"`
	Status        string `query:"status"`
	AvailableOnly bool   `query:"available"`
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Status = core.CleanString(qf.Status)
}
