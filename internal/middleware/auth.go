package middleware

import (
	"context"
	"net/http"
	"strings"

	"studyabroad-backend/internal/apperr"
	"studyabroad-backend/internal/auth"
	"studyabroad-backend/internal/models"
	"studyabroad-backend/pkg/utils"

	"go.uber.org/zap"
)

const (
	// SessionCookie carries the JWT for browser clients.
	SessionCookie = "session"
	LoginPath     = "/admin/login"

	msgClockInRequired = "Clock in to continue."
)

type contextKey string

const (
	claimsKey contextKey = "claims"
	holderKey contextKey = "caller_holder"
)

// SessionResolver turns a token into the current caller.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*auth.Caller, *auth.Claims, error)
}

// ClockChecker reports whether a staff member has an open work session.
type ClockChecker interface {
	IsClockedIn(ctx context.Context, adminID string) (bool, error)
}

type AuthMiddleware struct {
	sessions       SessionResolver
	clock          ClockChecker
	requireClockIn bool
	log            *zap.Logger
}

func NewAuthMiddleware(sessions SessionResolver, clock ClockChecker, requireClockIn bool, log *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		sessions:       sessions,
		clock:          clock,
		requireClockIn: requireClockIn,
		log:            log,
	}
}

// Authenticate resolves the bearer token or session cookie. The account is
// reloaded on every request so role changes and deletions apply immediately.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, claims, err := m.sessions.Resolve(r.Context(), TokenFromRequest(r))
		if err != nil {
			if apperr.KindOf(err) != apperr.KindUnauthenticated {
				m.log.Error("session lookup failed", zap.Error(err))
			}
			unauthorized(w, r)
			return
		}

		caller.IP = ClientIP(r)
		if h, ok := r.Context().Value(holderKey).(*callerHolder); ok {
			h.caller = caller
		}
		ctx := auth.WithCaller(r.Context(), caller)
		ctx = context.WithValue(ctx, claimsKey, claims)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole rejects callers ranked below min. Must run after Authenticate.
func (m *AuthMiddleware) RequireRole(min models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c := auth.CallerFrom(r.Context())
			if c == nil {
				unauthorized(w, r)
				return
			}
			if !c.Role.AtLeast(min) {
				utils.Error(w, http.StatusForbidden, "Unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireClockedIn keeps roles that must clock in away from work endpoints
// until they have an open session.
func (m *AuthMiddleware) RequireClockedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := auth.CallerFrom(r.Context())
		if c == nil {
			unauthorized(w, r)
			return
		}
		if !m.requireClockIn || m.clock == nil || !auth.RequiresClockIn(c.Role) {
			next.ServeHTTP(w, r)
			return
		}

		on, err := m.clock.IsClockedIn(r.Context(), c.ID)
		if err != nil {
			utils.RespondError(w, m.log, err)
			return
		}
		if !on {
			utils.Error(w, http.StatusForbidden, msgClockInRequired)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ClaimsFromContext returns the validated token claims, used on logout.
func ClaimsFromContext(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(claimsKey).(*auth.Claims)
	return claims
}

// TokenFromRequest prefers "Authorization: Bearer" over the session cookie.
func TokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		return cookie.Value
	}
	return ""
}

// unauthorized redirects browsers to the login page and gives API clients a 401.
func unauthorized(w http.ResponseWriter, r *http.Request) {
	if strings.Contains(r.Header.Get("Accept"), "text/html") {
		http.Redirect(w, r, LoginPath, http.StatusFound)
		return
	}
	utils.Error(w, http.StatusUnauthorized, "Unauthorized")
}
