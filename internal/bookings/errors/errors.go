package errors

import "errors"

var (
	ErrNotFound  = errors.New("booking not found")
	ErrInvalidID = errors.New("invalid booking id")

	// ErrStaleState is returned when a conditional update matched no
	// document because the booking's status changed between read and write.
	ErrStaleState = errors.New("booking state changed concurrently")
)
