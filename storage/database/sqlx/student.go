package sqlxrepos

import (
	"context"

	"github.com/trezcool/placement/core"
	"github.com/trezcool/placement/core/student"
)

type studentRow struct {
	ID    int64  `db:"id"`
	Code  string `db:"code"`
	Name  string `db:"name"`
	Email string `db:"email"`
}

func (row studentRow) student() student.Student {
	return student.Student{ID: row.ID, Code: row.Code, Name: row.Name, Email: row.Email}
}

type studentRepository struct {
	repository
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(exec core.DBExecutor) *studentRepository {
	return &studentRepository{repository{exec: exec}}
}

func (repo studentRepository) StudentExists(ctx context.Context, id int64, exec ...core.DBExecutor) (bool, error) {
	exe := repo.getExec(exec)

	var exists bool
	q := exe.Rebind("SELECT EXISTS (SELECT 1 FROM students WHERE id = ?)")
	if err := exe.GetContext(ctx, &exists, q, id); err != nil {
		return false, core.NewStorageError(err, "checking student")
	}
	return exists, nil
}

func (repo studentRepository) GetStudent(ctx context.Context, id int64, exec ...core.DBExecutor) (student.Student, error) {
	exe := repo.getExec(exec)

	var row studentRow
	q := exe.Rebind("SELECT id, code, name, email FROM students WHERE id = ?")
	if err := exe.GetContext(ctx, &row, q, id); err != nil {
		return student.Student{}, trapNoRowsErr(err, student.ErrNotFound, "getting student")
	}
	return row.student(), nil
}

func (repo studentRepository) CreateStudent(ctx context.Context, s student.Student, exec ...core.DBExecutor) (student.Student, error) {
	exe := repo.getExec(exec)
	q := exe.Rebind("INSERT INTO students (code, name, email) VALUES (?, ?, ?) RETURNING id")

	if err := exe.GetContext(ctx, &s.ID, q, s.Code, s.Name, s.Email); err != nil {
		if isUniqueViolation(err) {
			return student.Student{}, student.ErrCodeExists
		}
		return student.Student{}, core.NewStorageError(err, "inserting student")
	}
	return s, nil
}
