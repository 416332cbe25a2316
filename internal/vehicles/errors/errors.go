package errors

import "errors"

var (
	ErrNotFound = errors.New("vehicle not found")

	ErrInvalidID = errors.New("invalid vehicle ID format")

	ErrDuplicateName = errors.New("vehicle name already exists")

	ErrHasBookings = errors.New("vehicle has bookings and cannot be deleted")
)
