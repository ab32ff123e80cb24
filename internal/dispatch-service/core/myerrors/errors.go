package myerrors

import "errors"

var (
	ErrNoDriverAvailable = errors.New("no eligible driver available")
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotAuthorized     = errors.New("not authorized")
	ErrNoActiveTrip      = errors.New("no active trip for driver")
	ErrTripAlreadyActive = errors.New("passenger already has an active trip")
	ErrTripNotFound      = errors.New("trip not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrInvalidTransition = errors.New("invalid trip state transition")
)
