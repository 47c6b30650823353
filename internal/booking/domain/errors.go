package domain

import "errors"

var (
	// ErrBookingNotFound is returned when the booking does not exist.
	ErrBookingNotFound = errors.New("booking not found")

	// ErrMechanicNotFound is returned when the referenced mechanic does not exist.
	ErrMechanicNotFound = errors.New("mechanic not found")

	// ErrUserNotFound is returned when no user matches the lookup.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidAction is returned for an action name outside the closed enum.
	ErrInvalidAction = errors.New("invalid action")

	// ErrInvalidStatus is returned for a status value outside the five known statuses.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrIllegalTransition is returned when the action is not permitted from
	// the booking's current status.
	ErrIllegalTransition = errors.New("transition not permitted from current status")

	// ErrAlreadyCancelled is returned for any transition attempt on a cancelled booking.
	ErrAlreadyCancelled = errors.New("booking is already cancelled")

	// ErrAlreadyCompleted is returned for any transition attempt on a completed booking.
	ErrAlreadyCompleted = errors.New("cannot modify completed booking")

	// ErrNotBookingOwner is returned when an actor acts on a booking it does not own.
	ErrNotBookingOwner = errors.New("booking belongs to a different customer")

	// ErrInvalidBooking is returned when a booking request fails validation.
	ErrInvalidBooking = errors.New("invalid booking")
)
