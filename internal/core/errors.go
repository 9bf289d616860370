package core

import "errors"

var (
	// ErrValidation marks input rejected before any store access.
	ErrValidation = errors.New("validation error")
	// ErrUserNotFound is returned when a referenced user profile does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrTripNotFound is returned when a referenced trip does not exist.
	ErrTripNotFound = errors.New("trip not found")
	// ErrForbiddenAccess is returned when the caller is not a traveler on the trip.
	ErrForbiddenAccess = errors.New("user does not have access to this trip")
)
