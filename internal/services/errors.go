package services

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is wrapped by every NotFoundError
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned when the caller may not act on a resource
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidTransition is returned when the transition policy rejects a status change
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Postgres error codes that are mapped to domain errors
const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
	pgNotNullViolation    = "23502"
	pgCheckViolation      = "23514"
)

// ValidationError reports a malformed or missing request field
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func newValidationError(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// NotFoundError names the missing resource
type NotFoundError struct {
	Resource string
	ID       interface{}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %v not found", e.Resource, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// PersistenceError wraps a store failure. Its message is never shown to clients.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// IsValidation reports whether err is, or wraps, a ValidationError
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// classify turns a raw GORM or driver error into a domain error.
// Domain errors pass through unchanged.
func classify(op, resource string, id interface{}, err error) error {
	if err == nil {
		return nil
	}

	var (
		validation *ValidationError
		notFound   *NotFoundError
		persist    *PersistenceError
	)
	switch {
	case errors.As(err, &validation), errors.As(err, &notFound), errors.As(err, &persist),
		errors.Is(err, ErrForbidden), errors.Is(err, ErrInvalidTransition):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return &NotFoundError{Resource: resource, ID: id}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgForeignKeyViolation:
			return &NotFoundError{Resource: resource, ID: id}
		case pgUniqueViolation:
			return &ValidationError{Field: pgErr.ColumnName, Message: "value already exists"}
		case pgNotNullViolation, pgCheckViolation:
			return &ValidationError{Field: pgErr.ColumnName, Message: "value is not allowed"}
		}
	}

	return &PersistenceError{Op: op, Err: err}
}
