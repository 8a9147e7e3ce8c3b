package models

import (
	"strings"
	"time"
)

// Role is the closed set of staff privilege tiers, ordered OPERATOR < ADMIN < SUPER_ADMIN.
type Role string

const (
	RoleOperator   Role = "OPERATOR"
	RoleAdmin      Role = "ADMIN"
	RoleSuperAdmin Role = "SUPER_ADMIN"
)

// ParseRole accepts the canonical upper-case names only.
func ParseRole(s string) (Role, bool) {
	switch r := Role(strings.TrimSpace(s)); r {
	case RoleOperator, RoleAdmin, RoleSuperAdmin:
		return r, true
	}
	return "", false
}

// Rank orders roles; unknown roles rank below OPERATOR.
func (r Role) Rank() int {
	switch r {
	case RoleOperator:
		return 1
	case RoleAdmin:
		return 2
	case RoleSuperAdmin:
		return 3
	}
	return 0
}

// AtLeast reports whether r is at or above min.
func (r Role) AtLeast(min Role) bool {
	return r.Rank() > 0 && r.Rank() >= min.Rank()
}

func (r Role) Valid() bool {
	return r.Rank() > 0
}

type Admin struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// AdminRef is the compact identity embedded in leads, notes and posts.
type AdminRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Operator is an OPERATOR account with its current workload.
type Operator struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Email             string `json:"email"`
	AssignedLeadCount int    `json:"assignedLeadCount"`
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionUser is the identity returned to the client after login.
type SessionUser struct {
	ID    string `json:"id"`
	Role  Role   `json:"role"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// AuthResponse represents the response after successful authentication
type AuthResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      SessionUser `json:"user"`
}

// CreateAdminRequest represents the request body for creating a staff account
type CreateAdminRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}
