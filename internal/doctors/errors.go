package doctors

import "errors"

var (
	// ErrInvalidName is returned when the name is missing
	ErrInvalidName = errors.New("name is required")

	// ErrInvalidEmail is returned when the email is missing
	ErrInvalidEmail = errors.New("email is required")

	// ErrInvalidSpecialty is returned when the specialty is missing
	ErrInvalidSpecialty = errors.New("specialty is required")

	// ErrEmailTaken is returned when the contact address is already registered
	ErrEmailTaken = errors.New("email already registered")

	// ErrDoctorNotFound is returned when a doctor is not found
	ErrDoctorNotFound = errors.New("doctor not found")
)
