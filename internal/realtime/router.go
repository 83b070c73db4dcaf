package realtime

import (
	"github.com/clinibook/clinic-booking-platform/internal/appointments"
	"github.com/clinibook/clinic-booking-platform/internal/observability/metrics"
	"github.com/clinibook/clinic-booking-platform/pkg/logging"
)

// Router maps committed lifecycle transitions to targeted deliveries and
// broadcasts. Targeted legs go to the single interested party's session when
// live; the broadcast leg always fires so any other session belonging to the
// same identity still observes the change.
type Router struct {
	hub     *Hub
	metrics *metrics.BookingMetrics
	logger  *logging.Logger
}

// NewRouter creates a router over the session directory.
func NewRouter(hub *Hub, m *metrics.BookingMetrics, logger *logging.Logger) *Router {
	if logger == nil {
		logger = logging.Default()
	}
	return &Router{hub: hub, metrics: m, logger: logger}
}

func payload(a *appointments.Appointment) AppointmentPayload {
	return AppointmentPayload{
		AppointmentID: a.ID,
		ClientID:      a.ClientID,
		DoctorID:      a.DoctorID,
		Date:          a.Date,
		Time:          a.Time,
		Status:        string(a.Status),
	}
}

func (r *Router) target(role Role, id string, evt Event) {
	if r.hub.SendTo(role, id, evt) {
		r.metrics.ObserveEvent(evt.Name, "targeted")
	} else {
		r.metrics.ObserveEvent(evt.Name, "skipped")
	}
}

func (r *Router) broadcast(evt Event) {
	r.hub.Broadcast(evt)
	r.metrics.ObserveEvent(evt.Name, "broadcast")
}

// AppointmentBooked notifies the assigned doctor and broadcasts the update.
func (r *Router) AppointmentBooked(a *appointments.Appointment) {
	p := payload(a)
	r.target(RoleDoctor, a.DoctorID, Event{Name: EventNewAppointment, Data: p})
	r.broadcast(Event{Name: EventAppointmentUpdate, Data: p})
}

// AppointmentAccepted notifies the owning client and broadcasts the update.
func (r *Router) AppointmentAccepted(a *appointments.Appointment) {
	p := payload(a)
	r.target(RoleClient, a.ClientID, Event{Name: EventStatusChanged, Data: p})
	r.broadcast(Event{Name: EventAppointmentUpdate, Data: p})
}

// AppointmentDeclined notifies the owning client and broadcasts the update.
func (r *Router) AppointmentDeclined(a *appointments.Appointment) {
	p := payload(a)
	r.target(RoleClient, a.ClientID, Event{Name: EventStatusChanged, Data: p})
	r.broadcast(Event{Name: EventAppointmentUpdate, Data: p})
}

// AppointmentCompleted broadcasts the update; no targeted leg.
func (r *Router) AppointmentCompleted(a *appointments.Appointment) {
	r.broadcast(Event{Name: EventAppointmentUpdate, Data: payload(a)})
}

// AppointmentCancelled broadcasts the update; no targeted leg.
func (r *Router) AppointmentCancelled(a *appointments.Appointment) {
	r.broadcast(Event{Name: EventAppointmentUpdate, Data: payload(a)})
}

// RescheduleRequested broadcasts to everyone; the doctor-side listener
// filters by its own id.
func (r *Router) RescheduleRequested(a *appointments.Appointment) {
	p := payload(a)
	if a.Reschedule != nil {
		r.broadcast(Event{Name: EventRescheduleRequested, Data: struct {
			AppointmentPayload
			NewDate string `json:"newDate"`
			NewTime string `json:"newTime"`
			Reason  string `json:"reason,omitempty"`
		}{p, a.Reschedule.Date, a.Reschedule.Time, a.Reschedule.Reason}})
	} else {
		r.broadcast(Event{Name: EventRescheduleRequested, Data: p})
	}
	r.broadcast(Event{Name: EventAppointmentUpdate, Data: p})
}

// RescheduleApproved sends a dedicated notification to the owning client and
// broadcasts a generic update.
func (r *Router) RescheduleApproved(a *appointments.Appointment) {
	r.target(RoleClient, a.ClientID, Event{Name: EventRescheduleApproved, Data: ReschedulePayload{
		AppointmentID: a.ID,
		Message:       "Your reschedule request was approved",
		NewDate:       a.Date,
		NewTime:       a.Time,
	}})
	r.broadcast(Event{Name: EventAppointmentUpdate, Data: payload(a)})
}

// RescheduleRejected sends a dedicated notification to the owning client and
// broadcasts a generic update. The reason exists only on this event; it is
// never persisted.
func (r *Router) RescheduleRejected(a *appointments.Appointment, reason string) {
	r.target(RoleClient, a.ClientID, Event{Name: EventRescheduleRejected, Data: ReschedulePayload{
		AppointmentID: a.ID,
		Message:       "Your reschedule request was rejected",
		Reason:        reason,
	}})
	r.broadcast(Event{Name: EventAppointmentUpdate, Data: payload(a)})
}

// DateBlackedOut broadcasts a blackout change to everyone; no targeted leg.
func (r *Router) DateBlackedOut(doctorID, date, reason string) {
	r.broadcast(Event{Name: EventUnavailableDate, Data: BlackoutPayload{
		DoctorID: doctorID,
		Date:     date,
		Reason:   reason,
	}})
}
