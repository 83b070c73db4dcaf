package doctors

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

func newTestRouter() (http.Handler, Repository) {
	repo := NewInMemoryRepository()
	h := NewHandler(repo, nil)

	r := chi.NewRouter()
	r.Post("/doctor/register", h.Register)
	r.Get("/doctor/{doctorID}", h.Get)
	r.Get("/client/doctors", h.List)
	return r, repo
}

func TestRegisterEndpoint(t *testing.T) {
	r, repo := newTestRouter()

	body, _ := json.Marshal(map[string]string{
		"name":      "Dr. Adams",
		"email":     "adams@clinic.test",
		"specialty": "dermatology",
	})
	req := httptest.NewRequest(http.MethodPost, "/doctor/register", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("register returned %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Success  bool   `json:"success"`
		DoctorID string `json:"doctorId"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || resp.DoctorID == "" {
		t.Fatalf("unexpected response: %s", rec.Body.String())
	}

	doc, err := repo.GetByID(context.Background(), resp.DoctorID)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if doc.Specialty != "dermatology" {
		t.Fatalf("unexpected doctor: %+v", doc)
	}
}

func TestRegisterValidation(t *testing.T) {
	r, _ := newTestRouter()

	body, _ := json.Marshal(map[string]string{"name": "Dr. Adams"})
	req := httptest.NewRequest(http.MethodPost, "/doctor/register", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	r, repo := newTestRouter()
	if _, err := repo.Create(context.Background(), &RegisterRequest{
		Name: "Dr. Adams", Email: "adams@clinic.test", Specialty: "dermatology",
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	body, _ := json.Marshal(map[string]string{
		"name": "Dr. A. Adams", "email": "adams@clinic.test", "specialty": "dermatology",
	})
	req := httptest.NewRequest(http.MethodPost, "/doctor/register", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestGetEndpointNotFound(t *testing.T) {
	r, _ := newTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/doctor/missing", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestListEndpointOrdering(t *testing.T) {
	r, repo := newTestRouter()
	ctx := context.Background()
	for _, name := range []string{"Dr. Young", "Dr. Adams", "Dr. Kim"} {
		if _, err := repo.Create(ctx, &RegisterRequest{
			Name: name, Email: name + "@clinic.test", Specialty: "general",
		}); err != nil {
			t.Fatalf("seed %s: %v", name, err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/client/doctors", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("list returned %d", rec.Code)
	}

	var out []struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 3 || out[0].Name != "Dr. Adams" || out[2].Name != "Dr. Young" {
		t.Fatalf("unexpected list: %s", rec.Body.String())
	}
	// The directory never leaks contact details.
	if out[0].Email != "" {
		t.Fatalf("expected email to be omitted, got %q", out[0].Email)
	}
}

func TestRepositoryDuplicateEmail(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	if _, err := repo.Create(ctx, &RegisterRequest{Name: "A", Email: "a@x.test", Specialty: "s"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := repo.Create(ctx, &RegisterRequest{Name: "B", Email: "a@x.test", Specialty: "s"}); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}
