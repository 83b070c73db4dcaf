package appointments

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/clinibook/clinic-booking-platform/internal/availability"
	"github.com/clinibook/clinic-booking-platform/internal/observability/metrics"
	"github.com/clinibook/clinic-booking-platform/pkg/logging"
)

// Notifier persists the notification record a lifecycle transition warrants.
// Implemented by the notifications emitter. Only booking produces a record.
type Notifier interface {
	OnAppointmentBooked(ctx context.Context, a *Appointment) error
}

// Service is the appointment lifecycle engine. Every mutation goes through
// the transition table; booking additionally consults the availability index
// before inserting.
type Service struct {
	repo     Repository
	index    *availability.Index
	notifier Notifier
	metrics  *metrics.BookingMetrics
	tracer   trace.Tracer
	logger   *logging.Logger
}

// NewService wires the engine. notifier and m may be nil.
func NewService(repo Repository, index *availability.Index, notifier Notifier, m *metrics.BookingMetrics, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		repo:     repo,
		index:    index,
		notifier: notifier,
		metrics:  m,
		tracer:   otel.Tracer("clinibook.internal.appointments"),
		logger:   logger,
	}
}

// BookRequest carries a client's booking request.
type BookRequest struct {
	ClientID string `json:"clientId"`
	DoctorID string `json:"doctorId"`
	Date     string `json:"appointmentDate"`
	Time     string `json:"appointmentTime"`
	Reason   string `json:"reason"`
}

// Validate checks the request shape before any store round trip.
func (r *BookRequest) Validate() error {
	if strings.TrimSpace(r.ClientID) == "" || strings.TrimSpace(r.DoctorID) == "" {
		return ErrMissingParty
	}
	if !ValidDate(r.Date) {
		return ErrInvalidDate
	}
	if !ValidTime(r.Time) {
		return ErrInvalidTime
	}
	return nil
}

// Book validates the request against the availability index and inserts the
// appointment in pending status. The repository's conditional insert is the
// backstop for the two checks racing a concurrent booking: losing the race
// surfaces as ErrSlotConflict, same as losing the up-front check.
func (s *Service) Book(ctx context.Context, req *BookRequest) (*Appointment, error) {
	ctx, span := s.tracer.Start(ctx, "appointments.book")
	defer span.End()

	if err := req.Validate(); err != nil {
		s.metrics.ObserveBooking("invalid")
		return nil, err
	}
	req.Time = NormalizeTime(req.Time)

	blocked, err := s.index.IsDateBlocked(ctx, req.DoctorID, req.Date)
	if err != nil {
		span.RecordError(err)
		s.metrics.ObserveBooking("error")
		return nil, err
	}
	if blocked {
		s.metrics.ObserveBooking("date_unavailable")
		return nil, ErrDateUnavailable
	}

	taken, err := s.index.IsSlotTaken(ctx, req.DoctorID, req.Date, req.Time)
	if err != nil {
		span.RecordError(err)
		s.metrics.ObserveBooking("error")
		return nil, err
	}
	if taken {
		s.metrics.ObserveBooking("slot_conflict")
		return nil, ErrSlotConflict
	}

	a := &Appointment{
		ID:       uuid.New().String(),
		ClientID: req.ClientID,
		DoctorID: req.DoctorID,
		Date:     req.Date,
		Time:     req.Time,
		Reason:   req.Reason,
		Status:   StatusPending,
	}
	if err := s.repo.Insert(ctx, a); err != nil {
		span.RecordError(err)
		if err == ErrSlotConflict {
			s.metrics.ObserveBooking("slot_conflict")
		} else {
			s.metrics.ObserveBooking("error")
		}
		return nil, err
	}

	// A failed notification never unwinds the booking.
	if s.notifier != nil {
		if err := s.notifier.OnAppointmentBooked(ctx, a); err != nil {
			s.logger.Error("failed to record booking notification", "error", err, "appointment_id", a.ID)
		}
	}

	s.metrics.ObserveBooking("booked")
	s.logger.Info("appointment booked",
		"appointment_id", a.ID,
		"doctor_id", a.DoctorID,
		"date", a.Date,
		"time", a.Time,
	)
	return a, nil
}

// transition loads the appointment, applies mutate when the move is legal and
// persists the result.
func (s *Service) transition(ctx context.Context, op, id string, to Status, mutate func(*Appointment)) (*Appointment, error) {
	ctx, span := s.tracer.Start(ctx, "appointments."+op)
	defer span.End()

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		s.metrics.ObserveTransition(op, "not_found")
		return nil, err
	}

	// Repeating a transition that already happened is a no-op success, so a
	// doctor double-clicking accept does not see an error.
	if a.Status == to && a.Reschedule == nil {
		s.metrics.ObserveTransition(op, "noop")
		return a, nil
	}

	// An open reschedule negotiation resolves only through approve or
	// reject, never through the generic transitions.
	if a.Status == StatusRescheduleRequested && to != StatusRescheduleRequested {
		s.metrics.ObserveTransition(op, "invalid")
		return nil, ErrInvalidTransition
	}

	if !CanTransition(a.Status, to) {
		s.metrics.ObserveTransition(op, "invalid")
		return nil, ErrInvalidTransition
	}

	a.Status = to
	if mutate != nil {
		mutate(a)
	}
	if err := s.repo.Update(ctx, a); err != nil {
		span.RecordError(err)
		s.metrics.ObserveTransition(op, "error")
		return nil, err
	}

	s.metrics.ObserveTransition(op, "ok")
	s.logger.Info("appointment transition", "operation", op, "appointment_id", a.ID, "status", a.Status)
	return a, nil
}

// Accept moves a pending appointment to accepted.
func (s *Service) Accept(ctx context.Context, id string) (*Appointment, error) {
	return s.transition(ctx, "accept", id, StatusAccepted, nil)
}

// Decline moves a pending appointment to declined.
func (s *Service) Decline(ctx context.Context, id string) (*Appointment, error) {
	return s.transition(ctx, "decline", id, StatusDeclined, nil)
}

// Complete moves an accepted appointment to completed.
func (s *Service) Complete(ctx context.Context, id string) (*Appointment, error) {
	return s.transition(ctx, "complete", id, StatusCompleted, nil)
}

// Cancel moves a pending or accepted appointment to cancelled. The reason is
// accepted for symmetry with the API surface but not persisted.
func (s *Service) Cancel(ctx context.Context, id, reason string) (*Appointment, error) {
	return s.transition(ctx, "cancel", id, StatusCancelled, nil)
}

// RequestReschedule moves an accepted appointment into reschedule negotiation,
// recording the proposed slot. The original slot keeps its date and time.
func (s *Service) RequestReschedule(ctx context.Context, id, newDate, newTime, reason string) (*Appointment, error) {
	if !ValidDate(newDate) {
		return nil, ErrInvalidDate
	}
	if !ValidTime(newTime) {
		return nil, ErrInvalidTime
	}
	newTime = NormalizeTime(newTime)

	return s.transition(ctx, "request_reschedule", id, StatusRescheduleRequested, func(a *Appointment) {
		a.Reschedule = &RescheduleProposal{Date: newDate, Time: newTime, Reason: reason}
	})
}

// ApproveReschedule adopts the proposed slot: date/time are overwritten with
// the proposal, status returns to accepted and the proposal is cleared. The
// new slot is not re-checked against the availability index; the live-slot
// uniqueness constraint still rejects a collision at write time.
func (s *Service) ApproveReschedule(ctx context.Context, id string) (*Appointment, error) {
	ctx, span := s.tracer.Start(ctx, "appointments.approve_reschedule")
	defer span.End()

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		s.metrics.ObserveTransition("approve_reschedule", "not_found")
		return nil, err
	}
	if a.Status != StatusRescheduleRequested || a.Reschedule == nil {
		s.metrics.ObserveTransition("approve_reschedule", "invalid")
		return nil, ErrInvalidTransition
	}

	a.Date = a.Reschedule.Date
	a.Time = a.Reschedule.Time
	a.Status = StatusAccepted
	a.Reschedule = nil

	if err := s.repo.Update(ctx, a); err != nil {
		span.RecordError(err)
		s.metrics.ObserveTransition("approve_reschedule", "error")
		return nil, err
	}

	s.metrics.ObserveTransition("approve_reschedule", "ok")
	s.logger.Info("reschedule approved", "appointment_id", a.ID, "date", a.Date, "time", a.Time)
	return a, nil
}

// RejectReschedule discards the proposal: status reverts to accepted and the
// original slot stays as it was. The rejection reason is relayed only to the
// realtime layer by the caller; nothing is persisted from it.
func (s *Service) RejectReschedule(ctx context.Context, id string) (*Appointment, error) {
	ctx, span := s.tracer.Start(ctx, "appointments.reject_reschedule")
	defer span.End()

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		s.metrics.ObserveTransition("reject_reschedule", "not_found")
		return nil, err
	}
	if a.Status != StatusRescheduleRequested {
		s.metrics.ObserveTransition("reject_reschedule", "invalid")
		return nil, ErrInvalidTransition
	}

	a.Status = StatusAccepted
	a.Reschedule = nil

	if err := s.repo.Update(ctx, a); err != nil {
		span.RecordError(err)
		s.metrics.ObserveTransition("reject_reschedule", "error")
		return nil, err
	}

	s.metrics.ObserveTransition("reject_reschedule", "ok")
	s.logger.Info("reschedule rejected", "appointment_id", a.ID)
	return a, nil
}

// Get returns the appointment by id.
func (s *Service) Get(ctx context.Context, id string) (*Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

// ListForClient returns the client's appointments, newest first.
func (s *Service) ListForClient(ctx context.Context, clientID string) ([]*ClientAppointment, error) {
	return s.repo.ListForClient(ctx, clientID)
}

// ListForDoctor returns the doctor's appointments per the filter.
func (s *Service) ListForDoctor(ctx context.Context, doctorID string, filter DoctorListFilter) ([]*DoctorAppointment, error) {
	return s.repo.ListForDoctor(ctx, doctorID, filter)
}
