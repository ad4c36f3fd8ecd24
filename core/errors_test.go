package core_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/placement/core"
)

func TestNotFoundError(t *testing.T) {
	err := errors.Wrap(core.NewNotFoundError("project"), "getting project")
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.EqualError(t, err, "getting project: project not found")
}

func TestStorageError(t *testing.T) {
	assert.NoError(t, core.NewStorageError(nil, "inserting"))

	err := core.NewStorageError(sql.ErrConnDone, "inserting")
	assert.ErrorIs(t, err, core.ErrStorageUnavailable)
	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.False(t, core.IsTimeout(err))

	assert.True(t, core.IsTimeout(core.NewStorageError(context.DeadlineExceeded, "inserting")))
}

func TestValidationError_Error(t *testing.T) {
	assert.EqualError(t, core.NewValidationError(nil), "validation failed")
	assert.EqualError(t, core.NewValidationError(nil, core.FieldError{Field: "title", Error: "required"}), "title: required")
	assert.EqualError(t, core.NewValidationError(errors.New("taken"), core.FieldError{Field: "title"}), "taken")
}

func TestIsShutdown(t *testing.T) {
	assert.True(t, core.IsShutdown(errors.Wrap(core.NewShutdownError("bye"), "serving")))
	assert.False(t, core.IsShutdown(errors.New("bye")))
}
