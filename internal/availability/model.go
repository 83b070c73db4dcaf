package availability

import "time"

// UnavailableDate marks a calendar day a doctor will not take bookings on.
// Blackouts only constrain new bookings; appointments that already exist on
// the date are left untouched.
type UnavailableDate struct {
	ID        string    `json:"id"`
	DoctorID  string    `json:"doctorId"`
	Date      string    `json:"unavailableDate"`
	Reason    string    `json:"reason,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// ValidDate reports whether s is a well-formed calendar date.
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}
