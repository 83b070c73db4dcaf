package appointments

import (
	"strings"
	"time"
)

// Status is the lifecycle state of an appointment.
type Status string

const (
	StatusPending             Status = "pending"
	StatusAccepted            Status = "accepted"
	StatusDeclined            Status = "declined"
	StatusCompleted           Status = "completed"
	StatusCancelled           Status = "cancelled"
	StatusRescheduleRequested Status = "reschedule_requested"
)

// RescheduleProposal holds the slot a client asked to move an appointment to.
// It is present iff the appointment status is reschedule_requested; approving
// or rejecting the request clears it unconditionally.
type RescheduleProposal struct {
	Date   string `json:"newDate"`
	Time   string `json:"newTime"`
	Reason string `json:"reason,omitempty"`
}

// Appointment is the central entity. Records are never physically deleted;
// terminal statuses (declined, completed, cancelled) keep the row around.
type Appointment struct {
	ID         string              `json:"id"`
	ClientID   string              `json:"clientId"`
	DoctorID   string              `json:"doctorId"`
	Date       string              `json:"appointmentDate"`
	Time       string              `json:"appointmentTime"`
	Reason     string              `json:"reason,omitempty"`
	Status     Status              `json:"status"`
	Reschedule *RescheduleProposal `json:"reschedule,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

// ClientAppointment is an appointment joined with the assigned doctor's
// directory entry, as listed on the client side.
type ClientAppointment struct {
	Appointment
	DoctorName      string `json:"doctorName"`
	DoctorSpecialty string `json:"specialty"`
}

// DoctorAppointment is an appointment joined with the owning client's contact
// details, as listed on the doctor side.
type DoctorAppointment struct {
	Appointment
	ClientName  string `json:"clientName"`
	ClientEmail string `json:"clientEmail"`
	ClientPhone string `json:"phone,omitempty"`
}

// Wire formats for calendar dates and wall-clock times.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// ValidDate reports whether s is a well-formed calendar date.
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// ValidTime reports whether s is a well-formed wall-clock time. Seconds are
// accepted and ignored.
func ValidTime(s string) bool {
	if _, err := time.Parse(TimeLayout, s); err == nil {
		return true
	}
	_, err := time.Parse("15:04:05", s)
	return err == nil
}

// NormalizeTime strips a seconds component so slot comparisons are stable.
func NormalizeTime(s string) string {
	if t, err := time.Parse("15:04:05", s); err == nil {
		return t.Format(TimeLayout)
	}
	return strings.TrimSpace(s)
}
