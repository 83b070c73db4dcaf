package notifications

import (
	"context"
	"fmt"

	"github.com/clinibook/clinic-booking-platform/internal/appointments"
	"github.com/clinibook/clinic-booking-platform/internal/doctors"
	"github.com/clinibook/clinic-booking-platform/pkg/logging"
)

// Emitter derives the persisted notification a lifecycle transition warrants.
// In the current design only a new booking produces one; every booking does.
type Emitter struct {
	repo    Repository
	doctors doctors.Repository
	email   EmailSender
	logger  *logging.Logger
}

// NewEmitter creates the emitter. doctorRepo and email are optional; when both
// are present the booking notification is relayed to the doctor's address.
func NewEmitter(repo Repository, doctorRepo doctors.Repository, email EmailSender, logger *logging.Logger) *Emitter {
	if logger == nil {
		logger = logging.Default()
	}
	return &Emitter{repo: repo, doctors: doctorRepo, email: email, logger: logger}
}

// OnAppointmentBooked records exactly one notification for the assigned
// doctor. The email relay is best-effort; only the repository write can fail
// the emit.
func (e *Emitter) OnAppointmentBooked(ctx context.Context, a *appointments.Appointment) error {
	n := &Notification{
		DoctorID:      a.DoctorID,
		AppointmentID: a.ID,
		Message:       fmt.Sprintf("New appointment request from client on %s at %s", a.Date, a.Time),
	}
	if err := e.repo.Create(ctx, n); err != nil {
		return fmt.Errorf("notifications: record booking: %w", err)
	}

	if e.email != nil && e.doctors != nil {
		if err := e.sendEmail(ctx, n); err != nil {
			e.logger.Error("failed to relay booking notification email", "error", err, "doctor_id", n.DoctorID)
		}
	}
	return nil
}

func (e *Emitter) sendEmail(ctx context.Context, n *Notification) error {
	doc, err := e.doctors.GetByID(ctx, n.DoctorID)
	if err != nil {
		return err
	}
	return e.email.Send(ctx, EmailMessage{
		To:      doc.Email,
		ToName:  doc.Name,
		Subject: "New appointment request",
		Body:    n.Message,
	})
}
