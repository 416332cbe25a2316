package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"

	"fleetbook/internal/bookings/service"
	"fleetbook/pkg/auth"
	"fleetbook/pkg/config"
	"fleetbook/pkg/logger"
	"fleetbook/pkg/model"
)

type mockBookingService struct {
	listAvailableFn func(ctx context.Context, start, end time.Time) ([]*model.Vehicle, error)
	createFn        func(ctx context.Context, username string, req *model.BookingRequest) (*model.Booking, error)
	getByIDFn       func(ctx context.Context, id string) (*model.Booking, error)
	decideFn        func(ctx context.Context, id string, decision model.Decision) (*model.Booking, error)
}

func (m *mockBookingService) ListAvailable(ctx context.Context, start, end time.Time) ([]*model.Vehicle, error) {
	if m.listAvailableFn != nil {
		return m.listAvailableFn(ctx, start, end)
	}
	return nil, nil
}

func (m *mockBookingService) Create(ctx context.Context, username string, req *model.BookingRequest) (*model.Booking, error) {
	if m.createFn != nil {
		return m.createFn(ctx, username, req)
	}
	return &model.Booking{ID: "65b000000000000000000001", Username: username, Status: model.StatusPending}, nil
}

func (m *mockBookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return &model.Booking{ID: id, Username: "alice"}, nil
}

func (m *mockBookingService) Decide(ctx context.Context, id string, decision model.Decision) (*model.Booking, error) {
	if m.decideFn != nil {
		return m.decideFn(ctx, id, decision)
	}
	return &model.Booking{ID: id, Status: model.Status(decision)}, nil
}

func (m *mockBookingService) MarkCollected(ctx context.Context, id string) (*model.Booking, error) {
	return &model.Booking{ID: id, Status: model.StatusApproved, Collected: true}, nil
}

func (m *mockBookingService) MarkReturned(ctx context.Context, id string) (*model.Booking, error) {
	return &model.Booking{ID: id, Status: model.StatusApproved, Collected: true, Returned: true}, nil
}

func (m *mockBookingService) ListPending(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
	return nil, 0, nil
}

func (m *mockBookingService) ListActive(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
	return nil, 0, nil
}

func (m *mockBookingService) ListHistory(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
	return nil, 0, nil
}

func (m *mockBookingService) ListForUser(ctx context.Context, username string, limit int, offset int64) ([]*model.Booking, int64, error) {
	return nil, 0, nil
}

var _ service.BookingService = (*mockBookingService)(nil)

func newTestServer(t *testing.T, svc service.BookingService) (http.Handler, *auth.TokenIssuer) {
	t.Helper()

	cfg := &config.Config{
		Log: logger.New(logger.Config{Output: io.Discard}),
	}
	issuer := auth.NewTokenIssuer("test-secret", time.Hour)

	router := httprouter.New()
	NewBookingHandler(cfg, svc).RegisterRoutes(router)

	return auth.Authenticate(issuer, cfg.Log)(router), issuer
}

func bearerFor(t *testing.T, issuer *auth.TokenIssuer, actor auth.Actor) string {
	t.Helper()
	token, err := issuer.Issue(actor)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return "Bearer " + token
}

func TestCreateBookingEndpoint(t *testing.T) {
	server, issuer := newTestServer(t, &mockBookingService{})

	body := `{"vehicle_id":"65a000000000000000000001","start_time":"2026-09-01T10:00:00Z","end_time":"2026-09-01T12:00:00Z"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	req.Header.Set("Authorization", bearerFor(t, issuer, auth.Actor{Username: "alice"}))
	rec := httptest.NewRecorder()

	server.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, http.StatusCreated, rec.Body.String())
	}

	var resp struct {
		Data model.Booking `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Data.Username != "alice" {
		t.Errorf("booking username = %s, want the authenticated actor", resp.Data.Username)
	}
}

func TestCreateBookingEndpointUnauthenticated(t *testing.T) {
	server, _ := newTestServer(t, &mockBookingService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()

	server.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestDecisionEndpointRequiresAdmin(t *testing.T) {
	server, issuer := newTestServer(t, &mockBookingService{})

	tests := []struct {
		name  string
		actor auth.Actor
		want  int
	}{
		{"regular user is forbidden", auth.Actor{Username: "alice"}, http.StatusForbidden},
		{"admin is allowed", auth.Actor{Username: "root", IsAdmin: true}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/id/65b000000000000000000001/decision", strings.NewReader(`{"decision":"approved"}`))
			req.Header.Set("Authorization", bearerFor(t, issuer, tt.actor))
			rec := httptest.NewRecorder()

			server.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d (body: %s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestDecisionEndpointRejectsUnknownVerdict(t *testing.T) {
	server, issuer := newTestServer(t, &mockBookingService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/id/65b000000000000000000001/decision", strings.NewReader(`{"decision":"maybe"}`))
	req.Header.Set("Authorization", bearerFor(t, issuer, auth.Actor{Username: "root", IsAdmin: true}))
	rec := httptest.NewRecorder()

	server.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestListBookingsEndpoints(t *testing.T) {
	server, issuer := newTestServer(t, &mockBookingService{})

	tests := []struct {
		name  string
		url   string
		actor auth.Actor
		want  int
	}{
		{"own bookings", "/api/v1/bookings/mine", auth.Actor{Username: "alice"}, http.StatusOK},
		{"pending list needs admin", "/api/v1/bookings/pending", auth.Actor{Username: "alice"}, http.StatusForbidden},
		{"pending list as admin", "/api/v1/bookings/pending", auth.Actor{Username: "root", IsAdmin: true}, http.StatusOK},
		{"active list as admin", "/api/v1/bookings/active", auth.Actor{Username: "root", IsAdmin: true}, http.StatusOK},
		{"history list as admin", "/api/v1/bookings/history", auth.Actor{Username: "root", IsAdmin: true}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			req.Header.Set("Authorization", bearerFor(t, issuer, tt.actor))
			rec := httptest.NewRecorder()

			server.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d (body: %s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestGetBookingOwnership(t *testing.T) {
	svc := &mockBookingService{
		getByIDFn: func(ctx context.Context, id string) (*model.Booking, error) {
			return &model.Booking{ID: id, Username: "alice"}, nil
		},
	}
	server, issuer := newTestServer(t, svc)

	tests := []struct {
		name  string
		actor auth.Actor
		want  int
	}{
		{"owner can view", auth.Actor{Username: "alice"}, http.StatusOK},
		{"other user cannot", auth.Actor{Username: "mallory"}, http.StatusForbidden},
		{"admin can view any", auth.Actor{Username: "root", IsAdmin: true}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/id/65b000000000000000000001", nil)
			req.Header.Set("Authorization", bearerFor(t, issuer, tt.actor))
			rec := httptest.NewRecorder()

			server.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d (body: %s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestAvailabilityEndpoint(t *testing.T) {
	svc := &mockBookingService{
		listAvailableFn: func(ctx context.Context, start, end time.Time) ([]*model.Vehicle, error) {
			return []*model.Vehicle{{ID: "65a000000000000000000001", Name: "Van 1", Active: true}}, nil
		},
	}
	server, issuer := newTestServer(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/vehicles/available?start_time=2026-09-01T10:00:00Z&end_time=2026-09-01T12:00:00Z", nil)
	req.Header.Set("Authorization", bearerFor(t, issuer, auth.Actor{Username: "alice"}))
	rec := httptest.NewRecorder()

	server.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, http.StatusOK, rec.Body.String())
	}

	// Missing window parameters are a client error.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/vehicles/available", nil)
	req.Header.Set("Authorization", bearerFor(t, issuer, auth.Actor{Username: "alice"}))
	rec = httptest.NewRecorder()

	server.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}
