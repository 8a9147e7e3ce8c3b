package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"studyabroad-backend/internal/apperr"
	"studyabroad-backend/internal/auth"
	"studyabroad-backend/internal/models"

	"go.uber.org/zap"
)

type stubSessions map[string]*auth.Caller

func (s stubSessions) Resolve(_ context.Context, token string) (*auth.Caller, *auth.Claims, error) {
	c, ok := s[token]
	if !ok {
		return nil, nil, apperr.Unauthenticated()
	}
	cp := *c
	return &cp, &auth.Claims{UserID: c.ID}, nil
}

type stubClock map[string]bool

func (s stubClock) IsClockedIn(_ context.Context, id string) (bool, error) {
	return s[id], nil
}

var sessions = stubSessions{
	"op-token":    {ID: "op1", Role: models.RoleOperator},
	"admin-token": {ID: "admin", Role: models.RoleAdmin},
}

func okHandler(w http.ResponseWriter, r *http.Request) {
	if auth.CallerFrom(r.Context()) == nil || ClaimsFromContext(r.Context()) == nil {
		w.WriteHeader(http.StatusTeapot)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func TestAuthenticate(t *testing.T) {
	m := NewAuthMiddleware(sessions, nil, false, zap.NewNop())
	h := m.Authenticate(http.HandlerFunc(okHandler))

	tests := []struct {
		name   string
		setup  func(r *http.Request)
		status int
	}{
		{"bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer op-token") }, http.StatusOK},
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: SessionCookie, Value: "admin-token"}) }, http.StatusOK},
		{"no token", func(r *http.Request) {}, http.StatusUnauthorized},
		{"bad token", func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") }, http.StatusUnauthorized},
		{"bad scheme", func(r *http.Request) { r.Header.Set("Authorization", "Basic op-token") }, http.StatusUnauthorized},
		{"browser redirected", func(r *http.Request) { r.Header.Set("Accept", "text/html") }, http.StatusFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/leads", nil)
			tt.setup(req)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.status {
				t.Errorf("status: got %d, want %d", rec.Code, tt.status)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	m := NewAuthMiddleware(sessions, nil, false, zap.NewNop())
	h := m.Authenticate(m.RequireRole(models.RoleAdmin)(http.HandlerFunc(okHandler)))

	for token, want := range map[string]int{"op-token": http.StatusForbidden, "admin-token": http.StatusOK} {
		req := httptest.NewRequest(http.MethodGet, "/api/operators", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != want {
			t.Errorf("%s: got %d, want %d", token, rec.Code, want)
		}
	}
}

func TestRequireClockedIn(t *testing.T) {
	tests := []struct {
		name    string
		enabled bool
		clock   stubClock
		token   string
		status  int
	}{
		{"operator clocked out", true, stubClock{}, "op-token", http.StatusForbidden},
		{"operator clocked in", true, stubClock{"op1": true}, "op-token", http.StatusOK},
		{"admins exempt", true, stubClock{}, "admin-token", http.StatusOK},
		{"policy off", false, stubClock{}, "op-token", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewAuthMiddleware(sessions, tt.clock, tt.enabled, zap.NewNop())
			h := m.Authenticate(m.RequireClockedIn(http.HandlerFunc(okHandler)))

			req := httptest.NewRequest(http.MethodGet, "/api/leads", nil)
			req.Header.Set("Authorization", "Bearer "+tt.token)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.status {
				t.Errorf("status: got %d, want %d (%s)", rec.Code, tt.status, rec.Body.String())
			}
		})
	}
}

func TestPanicRecovery(t *testing.T) {
	h := PanicRecovery(zap.NewNop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("got %d", rec.Code)
	}
}
