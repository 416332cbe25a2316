package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	ErrInvalidWindow = errors.New("booking window start must be before end")

	ErrWindowInPast = errors.New("booking window starts in the past")

	ErrVehicleUnavailable = errors.New("vehicle is not available for the requested window")

	ErrAlreadyDecided = errors.New("booking has already been decided")

	ErrInvalidTransition = errors.New("invalid booking lifecycle transition")

	ErrLockHeld = errors.New("vehicle lock is held by another request")
)
