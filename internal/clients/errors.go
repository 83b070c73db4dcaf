package clients

import "errors"

var (
	// ErrInvalidName is returned when the name is missing
	ErrInvalidName = errors.New("name is required")

	// ErrInvalidEmail is returned when the email is missing
	ErrInvalidEmail = errors.New("email is required")

	// ErrEmailTaken is returned when the contact address is already registered
	ErrEmailTaken = errors.New("email already registered")

	// ErrClientNotFound is returned when a client is not found
	ErrClientNotFound = errors.New("client not found")
)
