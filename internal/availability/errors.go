package availability

import "errors"

var (
	// ErrInvalidDate is returned when the date is missing or malformed
	ErrInvalidDate = errors.New("a valid date (YYYY-MM-DD) is required")

	// ErrDateAlreadyBlocked is returned when the doctor already blacked out the date
	ErrDateAlreadyBlocked = errors.New("date is already marked unavailable")

	// ErrNotFound is returned when an unavailable date record does not exist
	ErrNotFound = errors.New("unavailable date not found")
)
