package appointments

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/clinibook/clinic-booking-platform/internal/availability"
)

type recordingPublisher struct {
	events  []string
	reasons []string
}

func (p *recordingPublisher) AppointmentBooked(*Appointment)    { p.events = append(p.events, "booked") }
func (p *recordingPublisher) AppointmentAccepted(*Appointment)  { p.events = append(p.events, "accepted") }
func (p *recordingPublisher) AppointmentDeclined(*Appointment)  { p.events = append(p.events, "declined") }
func (p *recordingPublisher) AppointmentCompleted(*Appointment) { p.events = append(p.events, "completed") }
func (p *recordingPublisher) AppointmentCancelled(*Appointment) { p.events = append(p.events, "cancelled") }
func (p *recordingPublisher) RescheduleRequested(*Appointment) {
	p.events = append(p.events, "reschedule-requested")
}
func (p *recordingPublisher) RescheduleApproved(*Appointment) {
	p.events = append(p.events, "reschedule-approved")
}
func (p *recordingPublisher) RescheduleRejected(_ *Appointment, reason string) {
	p.events = append(p.events, "reschedule-rejected")
	p.reasons = append(p.reasons, reason)
}

func newTestRouter(t *testing.T) (http.Handler, *recordingPublisher) {
	t.Helper()
	repo := NewInMemoryRepository(nil, nil)
	blackouts := availability.NewInMemoryRepository()
	svc := NewService(repo, availability.NewIndex(blackouts, repo), nil, nil, nil)
	pub := &recordingPublisher{}
	h := NewHandler(svc, pub, nil)

	r := chi.NewRouter()
	r.Post("/client/book-appointment", h.Book)
	r.Get("/client/{clientID}/appointments", h.ListForClient)
	r.Post("/client/{appointmentID}/cancel", h.Cancel)
	r.Post("/client/{appointmentID}/reschedule", h.RequestReschedule)
	r.Get("/doctor/{doctorID}/appointments", h.ListForDoctor(FilterAll))
	r.Get("/doctor/{doctorID}/appointments/pending", h.ListForDoctor(FilterPending))
	r.Post("/doctor/{appointmentID}/accept", h.Accept)
	r.Post("/doctor/{appointmentID}/decline", h.Decline)
	r.Post("/doctor/{appointmentID}/complete", h.Complete)
	r.Post("/doctor/{appointmentID}/approve-reschedule", h.ApproveReschedule)
	r.Post("/doctor/{appointmentID}/reject-reschedule", h.RejectReschedule)
	return r, pub
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func bookViaAPI(t *testing.T, r http.Handler) string {
	t.Helper()
	rec := doJSON(t, r, http.MethodPost, "/client/book-appointment", map[string]string{
		"clientId":        "client-1",
		"doctorId":        "doctor-1",
		"appointmentDate": "2026-09-15",
		"appointmentTime": "10:00",
		"reason":          "checkup",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("book returned %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Success       bool   `json:"success"`
		AppointmentID string `json:"appointmentId"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || resp.AppointmentID == "" {
		t.Fatalf("unexpected book response: %s", rec.Body.String())
	}
	return resp.AppointmentID
}

func TestBookEndpoint(t *testing.T) {
	r, pub := newTestRouter(t)
	bookViaAPI(t, r)

	if len(pub.events) != 1 || pub.events[0] != "booked" {
		t.Fatalf("expected booked event, got %v", pub.events)
	}
}

func TestBookEndpointConflict(t *testing.T) {
	r, _ := newTestRouter(t)
	bookViaAPI(t, r)

	rec := doJSON(t, r, http.MethodPost, "/client/book-appointment", map[string]string{
		"clientId":        "client-2",
		"doctorId":        "doctor-1",
		"appointmentDate": "2026-09-15",
		"appointmentTime": "10:00",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 on slot conflict, got %d", rec.Code)
	}
}

func TestBookEndpointBadBody(t *testing.T) {
	r, _ := newTestRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/client/book-appointment", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 on malformed body, got %d", rec.Code)
	}
}

func TestAcceptEndpoint(t *testing.T) {
	r, pub := newTestRouter(t)
	id := bookViaAPI(t, r)

	rec := doJSON(t, r, http.MethodPost, "/doctor/"+id+"/accept", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("accept returned %d: %s", rec.Code, rec.Body.String())
	}
	if pub.events[len(pub.events)-1] != "accepted" {
		t.Fatalf("expected accepted event, got %v", pub.events)
	}
}

func TestAcceptEndpointNotFound(t *testing.T) {
	r, _ := newTestRouter(t)
	rec := doJSON(t, r, http.MethodPost, "/doctor/missing/accept", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestCancelEndpoint(t *testing.T) {
	r, pub := newTestRouter(t)
	id := bookViaAPI(t, r)

	rec := doJSON(t, r, http.MethodPost, "/client/"+id+"/cancel", map[string]string{"reason": "conflict"})
	if rec.Code != http.StatusOK {
		t.Fatalf("cancel returned %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Message != "Appointment cancelled successfully" {
		t.Fatalf("unexpected message %q", resp.Message)
	}
	if pub.events[len(pub.events)-1] != "cancelled" {
		t.Fatalf("expected cancelled event, got %v", pub.events)
	}

	// A second cancel is rejected as an invalid transition.
	rec = doJSON(t, r, http.MethodPost, "/client/"+id+"/cancel", nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 on double cancel, got %d", rec.Code)
	}
}

func TestRescheduleFlowEndpoints(t *testing.T) {
	r, pub := newTestRouter(t)
	id := bookViaAPI(t, r)

	if rec := doJSON(t, r, http.MethodPost, "/doctor/"+id+"/accept", nil); rec.Code != http.StatusOK {
		t.Fatalf("accept: %d", rec.Code)
	}

	rec := doJSON(t, r, http.MethodPost, "/client/"+id+"/reschedule", map[string]string{
		"newDate": "2026-09-20",
		"newTime": "11:00",
		"reason":  "travel",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("reschedule returned %d: %s", rec.Code, rec.Body.String())
	}

	// Generic decisions are blocked while negotiation is open.
	if rec := doJSON(t, r, http.MethodPost, "/doctor/"+id+"/complete", nil); rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 completing during negotiation, got %d", rec.Code)
	}

	rec = doJSON(t, r, http.MethodPost, "/doctor/"+id+"/reject-reschedule", map[string]string{"reason": "fully booked"})
	if rec.Code != http.StatusOK {
		t.Fatalf("reject returned %d: %s", rec.Code, rec.Body.String())
	}
	if pub.reasons[len(pub.reasons)-1] != "fully booked" {
		t.Fatalf("expected rejection reason to reach publisher, got %v", pub.reasons)
	}

	// Second round, approved this time.
	rec = doJSON(t, r, http.MethodPost, "/client/"+id+"/reschedule", map[string]string{
		"newDate": "2026-09-21",
		"newTime": "12:00",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("second reschedule: %d", rec.Code)
	}
	rec = doJSON(t, r, http.MethodPost, "/doctor/"+id+"/approve-reschedule", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("approve returned %d: %s", rec.Code, rec.Body.String())
	}
	if pub.events[len(pub.events)-1] != "reschedule-approved" {
		t.Fatalf("expected reschedule-approved event, got %v", pub.events)
	}
}

func TestDoctorListEndpoints(t *testing.T) {
	r, _ := newTestRouter(t)
	id := bookViaAPI(t, r)

	rec := doJSON(t, r, http.MethodGet, "/doctor/doctor-1/appointments/pending", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("pending list returned %d", rec.Code)
	}
	var appts []DoctorAppointment
	if err := json.Unmarshal(rec.Body.Bytes(), &appts); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(appts) != 1 || appts[0].ID != id {
		t.Fatalf("unexpected pending list: %s", rec.Body.String())
	}

	// Unknown doctor yields an empty array, not null.
	rec = doJSON(t, r, http.MethodGet, "/doctor/doctor-9/appointments", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list returned %d", rec.Code)
	}
	if body := rec.Body.String(); body != "[]\n" {
		t.Fatalf("expected empty array, got %q", body)
	}
}

func TestClientListEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)
	bookViaAPI(t, r)

	rec := doJSON(t, r, http.MethodGet, "/client/client-1/appointments", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("client list returned %d", rec.Code)
	}
	var appts []ClientAppointment
	if err := json.Unmarshal(rec.Body.Bytes(), &appts); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(appts) != 1 {
		t.Fatalf("expected one appointment, got %d", len(appts))
	}
}
