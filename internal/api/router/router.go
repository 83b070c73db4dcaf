package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/clinibook/clinic-booking-platform/internal/appointments"
	"github.com/clinibook/clinic-booking-platform/internal/availability"
	"github.com/clinibook/clinic-booking-platform/internal/clients"
	"github.com/clinibook/clinic-booking-platform/internal/doctors"
	httpmiddleware "github.com/clinibook/clinic-booking-platform/internal/http/middleware"
	"github.com/clinibook/clinic-booking-platform/internal/notifications"
	"github.com/clinibook/clinic-booking-platform/internal/realtime"
	"github.com/clinibook/clinic-booking-platform/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger               *logging.Logger
	DoctorsHandler       *doctors.Handler
	ClientsHandler       *clients.Handler
	AppointmentsHandler  *appointments.Handler
	AvailabilityHandler  *availability.Handler
	NotificationsHandler *notifications.Handler
	Gateway              *realtime.Gateway
	MetricsHandler       http.Handler
	CORSAllowedOrigins   []string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}
	if cfg.Gateway != nil {
		r.Get("/ws", cfg.Gateway.HandleWebSocket)
	}

	// Client-side surface: registration, doctor directory, booking and the
	// client's own appointment actions.
	r.Route("/api/client", func(r chi.Router) {
		r.Post("/register", cfg.ClientsHandler.Register)
		r.Get("/doctors", cfg.DoctorsHandler.List)
		r.Get("/doctor/{doctorID}/unavailable-dates", cfg.AvailabilityHandler.ListDates)
		r.Post("/book-appointment", cfg.AppointmentsHandler.Book)
		r.Get("/{clientID}/appointments", cfg.AppointmentsHandler.ListForClient)
		r.Post("/{appointmentID}/cancel", cfg.AppointmentsHandler.Cancel)
		r.Post("/{appointmentID}/reschedule", cfg.AppointmentsHandler.RequestReschedule)
		r.Get("/{clientID}", cfg.ClientsHandler.Get)
	})

	// Doctor-side surface: registration, appointment worklists, lifecycle
	// decisions, blackout dates and notifications.
	r.Route("/api/doctor", func(r chi.Router) {
		r.Post("/register", cfg.DoctorsHandler.Register)
		r.Get("/{doctorID}/appointments", cfg.AppointmentsHandler.ListForDoctor(appointments.FilterAll))
		r.Get("/{doctorID}/appointments/pending", cfg.AppointmentsHandler.ListForDoctor(appointments.FilterPending))
		r.Get("/{doctorID}/appointments/completed", cfg.AppointmentsHandler.ListForDoctor(appointments.FilterCompleted))
		r.Get("/{doctorID}/appointments/reschedule-requests", cfg.AppointmentsHandler.ListForDoctor(appointments.FilterRescheduleRequested))
		r.Post("/{appointmentID}/accept", cfg.AppointmentsHandler.Accept)
		r.Post("/{appointmentID}/decline", cfg.AppointmentsHandler.Decline)
		r.Post("/{appointmentID}/complete", cfg.AppointmentsHandler.Complete)
		r.Post("/{appointmentID}/approve-reschedule", cfg.AppointmentsHandler.ApproveReschedule)
		r.Post("/{appointmentID}/reject-reschedule", cfg.AppointmentsHandler.RejectReschedule)
		r.Post("/{doctorID}/unavailable-date", cfg.AvailabilityHandler.Add)
		r.Delete("/{unavailableDateID}/unavailable-date", cfg.AvailabilityHandler.Remove)
		r.Get("/{doctorID}/unavailable-dates", cfg.AvailabilityHandler.ListForDoctor)
		r.Get("/{doctorID}/notifications", cfg.NotificationsHandler.ListForDoctor)
		r.Post("/{notificationID}/read", cfg.NotificationsHandler.MarkRead)
		r.Get("/{doctorID}", cfg.DoctorsHandler.Get)
	})

	return r
}
