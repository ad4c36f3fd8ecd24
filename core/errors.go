package core

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrDuplicateRequest   = errors.New("a pending request already exists for this project and student")
	ErrCapacityExceeded   = errors.New("project capacity exceeded")
	ErrAlreadyAssigned    = errors.New("student is already assigned to a project")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err != nil {
		return err.Err.Error()
	}
	if len(err.Fields) > 0 {
		return fmt.Sprintf("%s: %s", err.Fields[0].Field, err.Fields[0].Error)
	}
	return "validation failed"
}

func (err ValidationError) Unwrap() error { return err.Err }

// NotFoundError names the missing resource and matches ErrNotFound.
type NotFoundError struct {
	Resource string
}

func NewNotFoundError(resource string) *NotFoundError {
	return &NotFoundError{Resource: resource}
}

func (err *NotFoundError) Error() string {
	return err.Resource + " not found"
}

func (err *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// StorageError wraps connection, transaction and driver failures. It matches ErrStorageUnavailable.
type StorageError struct {
	Op  string
	Err error
}

// NewStorageError returns nil when err is nil.
func NewStorageError(err error, op string) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

func (err *StorageError) Error() string {
	return fmt.Sprintf("%s: %s: %v", err.Op, ErrStorageUnavailable, err.Err)
}

func (err *StorageError) Unwrap() error { return err.Err }

func (err *StorageError) Is(target error) bool {
	return target == ErrStorageUnavailable
}

// IsTimeout reports whether a storage failure was caused by a deadline or cancellation.
func IsTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
