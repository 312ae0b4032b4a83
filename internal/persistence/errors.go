package persistence

import "errors"

var (
	// ErrNotFound is returned when the requested record does not exist or has expired.
	ErrNotFound = errors.New("persistence: not found")
	// ErrConstraintViolation is returned when a record is missing required values.
	ErrConstraintViolation = errors.New("persistence: constraint violation")
	// ErrCorruptRecord is returned when a stored screen session cannot be decoded.
	ErrCorruptRecord = errors.New("persistence: corrupt record")
)
