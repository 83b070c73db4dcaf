package availability

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

type recordingBlackouts struct {
	dates []string
}

func (p *recordingBlackouts) DateBlackedOut(doctorID, date, reason string) {
	p.dates = append(p.dates, doctorID+"|"+date)
}

func newTestRouter(t *testing.T) (http.Handler, *recordingBlackouts) {
	t.Helper()
	pub := &recordingBlackouts{}
	h := NewHandler(NewInMemoryRepository(), pub, nil)

	r := chi.NewRouter()
	r.Post("/doctor/{doctorID}/unavailable-date", h.Add)
	r.Delete("/doctor/{unavailableDateID}/unavailable-date", h.Remove)
	r.Get("/doctor/{doctorID}/unavailable-dates", h.ListForDoctor)
	r.Get("/client/doctor/{doctorID}/unavailable-dates", h.ListDates)
	return r, pub
}

func addDate(t *testing.T, r http.Handler, doctorID, date string) string {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"unavailableDate": date, "reason": "holiday"})
	req := httptest.NewRequest(http.MethodPost, "/doctor/"+doctorID+"/unavailable-date", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("add returned %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Success           bool   `json:"success"`
		UnavailableDateID string `json:"unavailableDateId"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || resp.UnavailableDateID == "" {
		t.Fatalf("unexpected response: %s", rec.Body.String())
	}
	return resp.UnavailableDateID
}

func TestAddBroadcastsBlackout(t *testing.T) {
	r, pub := newTestRouter(t)
	addDate(t, r, "doctor-1", "2026-09-15")

	if len(pub.dates) != 1 || pub.dates[0] != "doctor-1|2026-09-15" {
		t.Fatalf("expected one blackout broadcast, got %v", pub.dates)
	}
}

func TestAddRejectsBadDate(t *testing.T) {
	r, pub := newTestRouter(t)

	body, _ := json.Marshal(map[string]string{"unavailableDate": "someday"})
	req := httptest.NewRequest(http.MethodPost, "/doctor/doctor-1/unavailable-date", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if len(pub.dates) != 0 {
		t.Fatal("expected no broadcast on rejected add")
	}
}

func TestAddRejectsDuplicate(t *testing.T) {
	r, _ := newTestRouter(t)
	addDate(t, r, "doctor-1", "2026-09-15")

	body, _ := json.Marshal(map[string]string{"unavailableDate": "2026-09-15"})
	req := httptest.NewRequest(http.MethodPost, "/doctor/doctor-1/unavailable-date", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 on duplicate, got %d", rec.Code)
	}
}

func TestRemoveEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)
	id := addDate(t, r, "doctor-1", "2026-09-15")

	req := httptest.NewRequest(http.MethodDelete, "/doctor/"+id+"/unavailable-date", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("remove returned %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodDelete, "/doctor/"+id+"/unavailable-date", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second remove, got %d", rec.Code)
	}
}

func TestListEndpoints(t *testing.T) {
	r, _ := newTestRouter(t)
	addDate(t, r, "doctor-1", "2026-09-15")
	addDate(t, r, "doctor-1", "2026-09-16")

	req := httptest.NewRequest(http.MethodGet, "/doctor/doctor-1/unavailable-dates", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("doctor list returned %d", rec.Code)
	}
	var full []UnavailableDate
	if err := json.Unmarshal(rec.Body.Bytes(), &full); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(full) != 2 || full[0].ID == "" {
		t.Fatalf("unexpected doctor list: %s", rec.Body.String())
	}

	// The client view is just the dates.
	req = httptest.NewRequest(http.MethodGet, "/client/doctor/doctor-1/unavailable-dates", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("client list returned %d", rec.Code)
	}
	var bare []string
	if err := json.Unmarshal(rec.Body.Bytes(), &bare); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(bare) != 2 || bare[0] != "2026-09-16" {
		t.Fatalf("unexpected client list: %s", rec.Body.String())
	}
}
