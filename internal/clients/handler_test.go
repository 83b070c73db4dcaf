package clients

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
	r.Post("/client/register", h.Register)
	r.Get("/client/{clientID}", h.Get)
	return r, repo
}

func TestRegisterEndpoint(t *testing.T) {
	r, repo := newTestRouter()

	body, _ := json.Marshal(map[string]string{
		"name":  "Jane Doe",
		"email": "jane@example.test",
		"phone": "555-0100",
	})
	req := httptest.NewRequest(http.MethodPost, "/client/register", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("register returned %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Success  bool   `json:"success"`
		ClientID string `json:"clientId"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || resp.ClientID == "" {
		t.Fatalf("unexpected response: %s", rec.Body.String())
	}

	c, err := repo.GetByID(context.Background(), resp.ClientID)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if c.Phone != "555-0100" {
		t.Fatalf("unexpected client: %+v", c)
	}
}

func TestRegisterPhoneOptional(t *testing.T) {
	r, _ := newTestRouter()

	body, _ := json.Marshal(map[string]string{
		"name":  "Jane Doe",
		"email": "jane@example.test",
	})
	req := httptest.NewRequest(http.MethodPost, "/client/register", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected registration without phone to succeed, got %d", rec.Code)
	}
}

func TestRegisterValidation(t *testing.T) {
	r, _ := newTestRouter()

	body, _ := json.Marshal(map[string]string{"phone": "555-0100"})
	req := httptest.NewRequest(http.MethodPost, "/client/register", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestGetEndpointNotFound(t *testing.T) {
	r, _ := newTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/client/missing", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestRepositoryDuplicateEmail(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	if _, err := repo.Create(ctx, &RegisterRequest{Name: "A", Email: "a@x.test"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := repo.Create(ctx, &RegisterRequest{Name: "B", Email: "a@x.test"}); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}
