// Package apperr defines the error taxonomy shared by the ingest features.
//
// Failures are classified as:
//   - ValidationError: a record or row is malformed or misses a required field
//   - PersistenceError: the store is unreachable or rejected a write
//   - SourceError: the upstream data source could not deliver a record
//
// All of them are recorded per record (or per row) and never abort a run.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation matches any *ValidationError via errors.Is.
	ErrValidation = errors.New("validation error")

	// ErrPersistence matches any *PersistenceError via errors.Is.
	ErrPersistence = errors.New("persistence error")

	// ErrSource matches any *SourceError via errors.Is.
	ErrSource = errors.New("source error")
)

// ValidationError reports a malformed or missing field.
type ValidationError struct {
	Field  string
	Reason string
}

// NewValidation returns a *ValidationError for field.
func NewValidation(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation: " + e.Reason
	}
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Reason)
}

// Is reports whether target is ErrValidation.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// PersistenceError wraps a store failure with the operation that caused it.
type PersistenceError struct {
	Op  string
	Err error
}

// NewPersistence wraps err as a *PersistenceError. A nil err returns nil.
func NewPersistence(op string, err error) error {
	if err == nil {
		return nil
	}
	return &PersistenceError{Op: op, Err: err}
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence: %s: %v", e.Op, e.Err)
}

// Is reports whether target is ErrPersistence.
func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

func (e *PersistenceError) Unwrap() error { return e.Err }

// SourceError wraps a fetch failure for one symbol.
type SourceError struct {
	Symbol string
	Err    error
}

// NewSource wraps err as a *SourceError. A nil err returns nil.
func NewSource(symbol string, err error) error {
	if err == nil {
		return nil
	}
	return &SourceError{Symbol: symbol, Err: err}
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("source: %s: %v", e.Symbol, e.Err)
}

// Is reports whether target is ErrSource.
func (e *SourceError) Is(target error) bool { return target == ErrSource }

func (e *SourceError) Unwrap() error { return e.Err }

// Kind classifies err for reporting: "validation", "persistence", "source" or "other".
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrPersistence):
		return KindPersistence
	case errors.Is(err, ErrSource):
		return KindSource
	default:
		return KindOther
	}
}

// Failure kinds returned by Kind.
const (
	KindValidation  = "validation"
	KindPersistence = "persistence"
	KindSource      = "source"
	KindOther       = "other"
)
