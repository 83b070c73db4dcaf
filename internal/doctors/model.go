package doctors

import (
	"strings"
	"time"
)

// Doctor represents a registered practitioner. Records are immutable after
// self-registration; there is no edit or delete path.
type Doctor struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Specialty string    `json:"specialty"`
	CreatedAt time.Time `json:"created_at"`
}

// RegisterRequest is the self-registration payload.
type RegisterRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Specialty string `json:"specialty"`
}

// Validate checks required fields.
func (r *RegisterRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrInvalidName
	}
	if strings.TrimSpace(r.Email) == "" {
		return ErrInvalidEmail
	}
	if strings.TrimSpace(r.Specialty) == "" {
		return ErrInvalidSpecialty
	}
	return nil
}
