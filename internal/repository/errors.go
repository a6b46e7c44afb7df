// Package repository defines the error taxonomy shared by every store
// operation and the layers above it.  Each failure is reported as
// exactly one of four kinds; callers test for them with errors.Is:
//
//   - ErrValidation: required input missing or malformed.
//   - ErrNotFound: the addressed id does not exist.
//   - ErrConstraint: the write would break referential integrity or a
//     uniqueness rule; the transaction was rolled back in full.
//   - ErrStoreUnavailable: the database could not be reached or could
//     not complete the transaction.  Retryable.
package repository

import (
	"errors"
	"fmt"
)

var (
	ErrValidation       = errors.New("validation failed")
	ErrNotFound         = errors.New("not found")
	ErrConstraint       = errors.New("constraint violation")
	ErrStoreUnavailable = errors.New("store unavailable")
)

// Kind names one of the three entity tables.
type Kind string

const (
	KindVenue  Kind = "venue"
	KindArtist Kind = "artist"
	KindShow   Kind = "show"
)

// ValidationError reports which input field was rejected and why.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NotFoundError identifies the missing record.
type NotFoundError struct {
	Kind Kind
	ID   uint64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// ConstraintError describes a rejected write.  Err carries the driver
// error when the database itself refused the statement.
type ConstraintError struct {
	Kind   Kind
	Reason string
	Err    error
}

func (e *ConstraintError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

func (e *ConstraintError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrConstraint, e.Err}
	}
	return []error{ErrConstraint}
}

// UnavailableError wraps a connectivity or transaction failure.
type UnavailableError struct {
	Op  string
	Err error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s: store unavailable: %v", e.Op, e.Err)
}

func (e *UnavailableError) Unwrap() []error { return []error{ErrStoreUnavailable, e.Err} }

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

func notFound(kind Kind, id uint64) error {
	return &NotFoundError{Kind: kind, ID: id}
}
