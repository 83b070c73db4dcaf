package realtime

// Event names on the wire. The doctor and client frontends listen on these.
const (
	EventNewAppointment      = "new-appointment-notification"
	EventAppointmentUpdate   = "appointment-update"
	EventStatusChanged       = "appointment-status-changed"
	EventUnavailableDate     = "unavailable-date-update"
	EventRescheduleRequested = "reschedule-requested"
	EventRescheduleApproved  = "reschedule-approved-notification"
	EventRescheduleRejected  = "reschedule-rejected-notification"
)

// Event is the outbound envelope delivered to sessions.
type Event struct {
	Name string `json:"event"`
	Data any    `json:"data"`
}

// AppointmentPayload identifies the parties and slot of a lifecycle event.
type AppointmentPayload struct {
	AppointmentID string `json:"appointmentId"`
	ClientID      string `json:"clientId"`
	DoctorID      string `json:"doctorId"`
	Date          string `json:"appointmentDate"`
	Time          string `json:"appointmentTime"`
	Status        string `json:"status"`
}

// ReschedulePayload carries a reschedule resolution to the owning client.
type ReschedulePayload struct {
	AppointmentID string `json:"appointmentId"`
	Message       string `json:"message"`
	NewDate       string `json:"newDate,omitempty"`
	NewTime       string `json:"newTime,omitempty"`
	Reason        string `json:"reason,omitempty"`
}

// BlackoutPayload announces a doctor's blackout date change.
type BlackoutPayload struct {
	DoctorID string `json:"doctorId"`
	Date     string `json:"unavailableDate"`
	Reason   string `json:"reason,omitempty"`
}
