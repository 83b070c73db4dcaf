package clients

import (
	"strings"
	"time"
)

// Client represents a booking client. Like doctors, records are created by
// self-registration and never edited or deleted.
type Client struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// RegisterRequest is the self-registration payload. Phone is optional.
type RegisterRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Validate checks required fields.
func (r *RegisterRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrInvalidName
	}
	if strings.TrimSpace(r.Email) == "" {
		return ErrInvalidEmail
	}
	return nil
}
