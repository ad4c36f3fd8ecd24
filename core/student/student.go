package student

import (
	"context"
	"net/mail"

	"github.com/pkg/errors"

	"github.com/trezcool/placement/core"
)

// ErrNotFound matches core.ErrNotFound.
var ErrNotFound = core.NewNotFoundError("student")

// Student is the read-only view of a student record owned by the user directory.
type Student struct {
	ID    int64  `json:"id"`
	Code  string `json:"code"` // registration number
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (s Student) Address() (mail.Address, bool) {
	if s.Email == "" {
		return mail.Address{}, false
	}
	return mail.Address{Name: s.Name, Address: s.Email}, true
}

// NewStudent contains information needed to register a Student in the directory.
type NewStudent struct {
	Code  string `json:"code" validate:"required,alphanum_"`
	Name  string `json:"name" validate:"notblank"`
	Email string `json:"email" validate:"omitempty,email"`
}

func (ns *NewStudent) Clean() {
	ns.Code = core.CleanString(ns.Code)
	ns.Name = core.CleanString(ns.Name)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
}

// Directory is the student lookup consumed by the placement workflow.
// Passing exec makes the lookup run inside the caller's transaction.
type Directory interface {
	StudentExists(ctx context.Context, id int64, exec ...core.DBExecutor) (bool, error)
	GetStudent(ctx context.Context, id int64, exec ...core.DBExecutor) (Student, error)
}

// ErrCodeExists is returned when registering a second student with the same code.
var ErrCodeExists = errors.New("a student with this code already exists")

type Repository interface {
	Directory

	CreateStudent(ctx context.Context, s Student, exec ...core.DBExecutor) (Student, error)
}

// Service registers students in the directory. The placement workflow only reads through Directory.
type Service struct {
	repo     Repository
	validate *core.Validator
}

func NewService(repo Repository, validate *core.Validator) *Service {
	return &Service{repo: repo, validate: validate}
}

func (svc *Service) Create(ctx context.Context, ns NewStudent) (Student, error) {
	ns.Clean()
	if err := svc.validate.Struct(ns); err != nil {
		return Student{}, err
	}

	s, err := svc.repo.CreateStudent(ctx, Student{Code: ns.Code, Name: ns.Name, Email: ns.Email})
	if err != nil {
		if errors.Is(err, ErrCodeExists) {
			return Student{}, core.NewValidationError(err, core.FieldError{Field: "code", Error: err.Error()})
		}
		return Student{}, errors.Wrap(err, "creating student")
	}
	return s, nil
}

func (svc *Service) Get(ctx context.Context, id int64) (Student, error) {
	return svc.repo.GetStudent(ctx, id)
}
