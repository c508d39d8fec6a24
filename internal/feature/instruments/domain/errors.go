// Package domain defines domain-level errors for the instruments feature.
package domain

import "errors"

var (
	// ErrInstrumentNotFound is returned when no instrument matches the requested business key.
	ErrInstrumentNotFound = errors.New("instrument not found")

	// ErrUnknownCategory is returned when a record names a category without a field mapping.
	ErrUnknownCategory = errors.New("unknown instrument category")
)
