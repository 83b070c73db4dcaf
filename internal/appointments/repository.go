package appointments

import (
	"context"
	"sort"
	"sync"

	"github.com/clinibook/clinic-booking-platform/internal/clients"
	"github.com/clinibook/clinic-booking-platform/internal/doctors"
)

// DoctorListFilter selects which of a doctor's appointments to list.
type DoctorListFilter string

const (
	FilterAll                 DoctorListFilter = ""
	FilterPending             DoctorListFilter = "pending"
	FilterCompleted           DoctorListFilter = "completed"
	FilterRescheduleRequested DoctorListFilter = "reschedule-requests"
)

// Repository defines the interface for appointment storage.
//
// Insert and Update are responsible for upholding the conflict-freedom
// invariant: at most one pending or accepted appointment per
// (doctor, date, time) triple. Violations surface as ErrSlotConflict.
type Repository interface {
	Insert(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id string) (*Appointment, error)
	Update(ctx context.Context, a *Appointment) error
	SlotTaken(ctx context.Context, doctorID, date, timeOfDay string) (bool, error)
	ListForClient(ctx context.Context, clientID string) ([]*ClientAppointment, error)
	ListForDoctor(ctx context.Context, doctorID string, filter DoctorListFilter) ([]*DoctorAppointment, error)
}

// InMemoryRepository is an in-memory implementation of Repository used in
// tests and local development. The party repositories are optional; when
// present they supply the joined names in list views.
type InMemoryRepository struct {
	mu      sync.RWMutex
	appts   map[string]*Appointment
	doctors doctors.Repository
	clients clients.Repository
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository(d doctors.Repository, c clients.Repository) *InMemoryRepository {
	return &InMemoryRepository{
		appts:   make(map[string]*Appointment),
		doctors: d,
		clients: c,
	}
}

func (r *InMemoryRepository) slotHeld(doctorID, date, timeOfDay, excludeID string) bool {
	for _, a := range r.appts {
		if a.ID == excludeID {
			continue
		}
		if a.DoctorID == doctorID && a.Date == date && a.Time == timeOfDay &&
			(a.Status == StatusPending || a.Status == StatusAccepted) {
			return true
		}
	}
	return false
}

// Insert stores a new appointment, rejecting live-slot duplicates.
func (r *InMemoryRepository) Insert(ctx context.Context, a *Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.slotHeld(a.DoctorID, a.Date, a.Time, "") {
		return ErrSlotConflict
	}
	cp := *a
	r.appts[a.ID] = &cp
	return nil
}

// GetByID retrieves an appointment by ID
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.appts[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *a
	return &cp, nil
}

// Update overwrites the stored appointment, rejecting live-slot duplicates
// when the slot moved.
func (r *InMemoryRepository) Update(ctx context.Context, a *Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.appts[a.ID]; !ok {
		return ErrNotFound
	}
	if (a.Status == StatusPending || a.Status == StatusAccepted) &&
		r.slotHeld(a.DoctorID, a.Date, a.Time, a.ID) {
		return ErrSlotConflict
	}
	cp := *a
	r.appts[a.ID] = &cp
	return nil
}

// SlotTaken reports whether a pending or accepted appointment occupies the slot.
func (r *InMemoryRepository) SlotTaken(ctx context.Context, doctorID, date, timeOfDay string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.slotHeld(doctorID, date, timeOfDay, ""), nil
}

// ListForClient returns the client's appointments, newest first.
func (r *InMemoryRepository) ListForClient(ctx context.Context, clientID string) ([]*ClientAppointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*ClientAppointment
	for _, a := range r.appts {
		if a.ClientID != clientID {
			continue
		}
		view := &ClientAppointment{Appointment: *a}
		if r.doctors != nil {
			if doc, err := r.doctors.GetByID(ctx, a.DoctorID); err == nil {
				view.DoctorName = doc.Name
				view.DoctorSpecialty = doc.Specialty
			}
		}
		out = append(out, view)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].Time > out[j].Time
	})
	return out, nil
}

// ListForDoctor returns the doctor's appointments per the filter's ordering:
// pending soonest-first, everything else newest-first, reschedule requests by
// creation time.
func (r *InMemoryRepository) ListForDoctor(ctx context.Context, doctorID string, filter DoctorListFilter) ([]*DoctorAppointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*DoctorAppointment
	for _, a := range r.appts {
		if a.DoctorID != doctorID {
			continue
		}
		switch filter {
		case FilterPending:
			if a.Status != StatusPending {
				continue
			}
		case FilterCompleted:
			if a.Status != StatusCompleted {
				continue
			}
		case FilterRescheduleRequested:
			if a.Status != StatusRescheduleRequested {
				continue
			}
		}
		view := &DoctorAppointment{Appointment: *a}
		if r.clients != nil {
			if c, err := r.clients.GetByID(ctx, a.ClientID); err == nil {
				view.ClientName = c.Name
				view.ClientEmail = c.Email
				view.ClientPhone = c.Phone
			}
		}
		out = append(out, view)
	}

	switch filter {
	case FilterPending:
		sort.Slice(out, func(i, j int) bool {
			if out[i].Date != out[j].Date {
				return out[i].Date < out[j].Date
			}
			return out[i].Time < out[j].Time
		})
	case FilterRescheduleRequested:
		sort.Slice(out, func(i, j int) bool {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
	default:
		sort.Slice(out, func(i, j int) bool {
			if out[i].Date != out[j].Date {
				return out[i].Date > out[j].Date
			}
			return out[i].Time > out[j].Time
		})
	}
	return out, nil
}
