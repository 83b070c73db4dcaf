package notifications

import "time"

// Notification is a persisted message for a doctor. Only new bookings create
// one; other lifecycle transitions reach doctors through the realtime channel
// alone. Records are never deleted.
type Notification struct {
	ID            string    `json:"id"`
	DoctorID      string    `json:"doctorId"`
	AppointmentID string    `json:"appointmentId,omitempty"`
	Message       string    `json:"message"`
	IsRead        bool      `json:"isRead"`
	CreatedAt     time.Time `json:"created_at"`
}

// View is a notification joined with the originating appointment's slot and
// client name, as rendered in the doctor's notification list.
type View struct {
	Notification
	AppointmentDate string `json:"appointmentDate,omitempty"`
	AppointmentTime string `json:"appointmentTime,omitempty"`
	ClientName      string `json:"clientName,omitempty"`
}
