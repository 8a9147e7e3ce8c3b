package auth

import (
	"context"
	"strings"

	"studyabroad-backend/internal/apperr"
	"studyabroad-backend/internal/models"
)

// Caller is the resolved identity of the current request. Workflows receive it explicitly.
type Caller struct {
	ID    string
	Role  models.Role
	Name  string
	Email string
	// IP is the client address of the current request, kept for the audit trail.
	IP string
}

// CallerFromAdmin builds a caller from a freshly loaded account.
func CallerFromAdmin(a *models.Admin) *Caller {
	return &Caller{ID: a.ID, Role: a.Role, Name: a.Name, Email: a.Email}
}

func require(c *Caller, min models.Role) (*Caller, error) {
	if c == nil || c.ID == "" {
		return nil, apperr.Unauthenticated()
	}
	if !c.Role.AtLeast(min) {
		return nil, apperr.Forbidden()
	}
	return c, nil
}

// RequireAuthenticated passes any valid session.
func RequireAuthenticated(c *Caller) (*Caller, error) {
	return require(c, models.RoleOperator)
}

// RequireAdminOrAbove passes ADMIN and SUPER_ADMIN.
func RequireAdminOrAbove(c *Caller) (*Caller, error) {
	return require(c, models.RoleAdmin)
}

// RequireSuperAdmin passes SUPER_ADMIN only.
func RequireSuperAdmin(c *Caller) (*Caller, error) {
	return require(c, models.RoleSuperAdmin)
}

// TriageScope decides which leads an OPERATOR may change status on or annotate.
type TriageScope string

const (
	// TriageAny lets every authenticated role triage any lead by id.
	TriageAny TriageScope = "any"
	// TriageAssigned restricts operators to leads assigned to them.
	TriageAssigned TriageScope = "assigned"
)

// ParseTriageScope defaults to TriageAny.
func ParseTriageScope(s string) TriageScope {
	if TriageScope(strings.ToLower(strings.TrimSpace(s))) == TriageAssigned {
		return TriageAssigned
	}
	return TriageAny
}

// CanTriage reports whether c may mutate a lead currently assigned to assignedToID.
func (s TriageScope) CanTriage(c *Caller, assignedToID *string) bool {
	if c == nil {
		return false
	}
	if s != TriageAssigned || c.Role.AtLeast(models.RoleAdmin) {
		return true
	}
	return assignedToID != nil && *assignedToID == c.ID
}

// CanDeleteNote allows the author, or anyone ADMIN and above.
func CanDeleteNote(c *Caller, authorID string) bool {
	if c == nil {
		return false
	}
	return c.ID == authorID || c.Role.AtLeast(models.RoleAdmin)
}

// RequiresClockIn reports whether the role must be clocked in to work leads.
func RequiresClockIn(r models.Role) bool {
	return r == models.RoleOperator
}

// EndsSessionOnClockOut reports whether clocking out also logs the role out.
func EndsSessionOnClockOut(r models.Role) bool {
	return r == models.RoleOperator
}

type contextKey string

const callerKey contextKey = "caller"

// WithCaller stores the resolved caller on the request context.
func WithCaller(ctx context.Context, c *Caller) context.Context {
	return context.WithValue(ctx, callerKey, c)
}

// CallerFrom returns the caller set by the auth middleware, or nil.
func CallerFrom(ctx context.Context) *Caller {
	c, _ := ctx.Value(callerKey).(*Caller)
	return c
}
