package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/starconnect/starconnect-backend/api/middleware"
	"github.com/starconnect/starconnect-backend/internal/stars"
	pkgerrors "github.com/starconnect/starconnect-backend/pkg/errors"
)

type fakeStarsService struct {
	listed    []stars.StarDTO
	got       *stars.StarDTO
	own       *stars.OwnerStarDTO
	created   *stars.OwnerStarDTO
	createErr error

	lastCategory string
	lastLimit    int
	lastOffset   int
}

func (f *fakeStarsService) BecomeStar(ctx context.Context, userID uuid.UUID, req stars.BecomeStarRequest) (*stars.OwnerStarDTO, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.created, nil
}

func (f *fakeStarsService) GetStar(ctx context.Context, id uuid.UUID) (*stars.StarDTO, error) {
	if f.got == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "star not found")
	}
	return f.got, nil
}

func (f *fakeStarsService) GetOwnProfile(ctx context.Context, userID uuid.UUID) (*stars.OwnerStarDTO, error) {
	if f.own == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "star profile not found")
	}
	return f.own, nil
}

func (f *fakeStarsService) ListStars(ctx context.Context, category string, limit, offset int) ([]stars.StarDTO, error) {
	f.lastCategory = category
	f.lastLimit = limit
	f.lastOffset = offset
	return f.listed, nil
}

func (f *fakeStarsService) ListCategories(ctx context.Context) ([]string, error) {
	return []string{"comedy", "music"}, nil
}

func (f *fakeStarsService) UpdateProfile(ctx context.Context, userID uuid.UUID, req stars.UpdateProfileRequest) (*stars.OwnerStarDTO, error) {
	return f.own, nil
}

func authedRequest(method, target string, body []byte, userID uuid.UUID) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	ctx := middleware.WithUserID(req.Context(), userID.String())
	return req.WithContext(ctx)
}

func TestListStarsPassesFilters(t *testing.T) {
	svc := &fakeStarsService{listed: []stars.StarDTO{{Name: "Nova"}}}
	handler := ListStars(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/stars?category=music&limit=5&offset=10", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if svc.lastCategory != "music" || svc.lastLimit != 5 || svc.lastOffset != 10 {
		t.Fatalf("filters not forwarded: %q %d %d", svc.lastCategory, svc.lastLimit, svc.lastOffset)
	}

	var envelope struct {
		Success bool            `json:"success"`
		Data    []stars.StarDTO `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !envelope.Success || len(envelope.Data) != 1 {
		t.Fatalf("unexpected envelope: %s", rec.Body.String())
	}
}

func TestListStarsRejectsBadLimit(t *testing.T) {
	handler := ListStars(&fakeStarsService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/stars?limit=notanumber", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestGetStarInvalidID(t *testing.T) {
	handler := GetStar(&fakeStarsService{}, nil)

	router := chi.NewRouter()
	router.Get("/api/stars/{id}", handler)

	req := httptest.NewRequest(http.MethodGet, "/api/stars/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestGetStarNotFound(t *testing.T) {
	handler := GetStar(&fakeStarsService{}, nil)

	router := chi.NewRouter()
	router.Get("/api/stars/{id}", handler)

	req := httptest.NewRequest(http.MethodGet, "/api/stars/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestBecomeStarRequiresAuth(t *testing.T) {
	handler := BecomeStar(&fakeStarsService{}, nil)

	body := []byte(`{"name":"Nova","email":"nova@example.com","category":"music"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/stars", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without identity, got %d", rec.Code)
	}
}

func TestBecomeStarCreated(t *testing.T) {
	userID := uuid.New()
	svc := &fakeStarsService{created: &stars.OwnerStarDTO{StarDTO: stars.StarDTO{ID: userID, Name: "Nova"}}}
	handler := BecomeStar(svc, nil)

	body := []byte(`{"name":"Nova","email":"nova@example.com","category":"music","experience_years":3,"hourly_rate_cents":15000}`)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/stars", body, userID))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
}

func TestBecomeStarConflict(t *testing.T) {
	svc := &fakeStarsService{createErr: pkgerrors.New(pkgerrors.CodeConflict, "star profile already exists")}
	handler := BecomeStar(svc, nil)

	body := []byte(`{"name":"Nova","email":"nova@example.com","category":"music"}`)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/stars", body, uuid.New()))

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestBecomeStarRejectsUnknownFields(t *testing.T) {
	handler := BecomeStar(&fakeStarsService{}, nil)

	body := []byte(`{"name":"Nova","email":"nova@example.com","category":"music","plan":"premium"}`)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/stars", body, uuid.New()))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("plan must never be client-writable, got %d", rec.Code)
	}
}
