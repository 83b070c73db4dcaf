package appointments

import "errors"

var (
	// ErrDateUnavailable is returned when booking against a blackout date
	ErrDateUnavailable = errors.New("this date is unavailable for appointments")

	// ErrSlotConflict is returned when booking against an occupied slot
	ErrSlotConflict = errors.New("this time slot is already booked")

	// ErrNotFound is returned when an appointment does not exist
	ErrNotFound = errors.New("appointment not found")

	// ErrInvalidTransition is returned when a lifecycle operation is applied
	// to an appointment whose current status does not permit it
	ErrInvalidTransition = errors.New("appointment status does not permit this operation")

	// ErrInvalidDate is returned when the date is missing or malformed
	ErrInvalidDate = errors.New("a valid appointment date (YYYY-MM-DD) is required")

	// ErrInvalidTime is returned when the time is missing or malformed
	ErrInvalidTime = errors.New("a valid appointment time (HH:MM) is required")

	// ErrMissingParty is returned when the client or doctor reference is missing
	ErrMissingParty = errors.New("clientId and doctorId are required")
)
