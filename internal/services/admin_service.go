package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"studyabroad-backend/internal/apperr"
	"studyabroad-backend/internal/auth"
	"studyabroad-backend/internal/models"
	"studyabroad-backend/internal/repositories"

	"go.uber.org/zap"
)

const (
	msgAllFieldsRequired = "All fields are required."
	msgInvalidRole       = "Invalid role."
	msgEmailTaken        = "A user with this email already exists."
	msgCannotDeleteSelf  = "You cannot delete your own account."
	msgCannotDeleteSuper = "Cannot delete a super admin."
	minPasswordLength    = 8
	msgPasswordTooShort  = "Password must be at least 8 characters."
	adminTarget          = "admin"
)

type AdminService struct {
	Admins AdminStore
	Audit  *Auditor
	Log    *zap.Logger
}

func NewAdminService(admins AdminStore, audit *Auditor, log *zap.Logger) *AdminService {
	return &AdminService{Admins: admins, Audit: audit, Log: log}
}

// ListAdmins returns all staff accounts, newest first.
func (s *AdminService) ListAdmins(ctx context.Context, c *auth.Caller) ([]models.Admin, error) {
	if _, err := auth.RequireSuperAdmin(c); err != nil {
		return nil, err
	}
	return s.Admins.List(ctx)
}

// CreateAdmin creates a staff account with a bcrypt-hashed password.
func (s *AdminService) CreateAdmin(ctx context.Context, c *auth.Caller, req *models.CreateAdminRequest) (*models.Admin, error) {
	c, err := auth.RequireSuperAdmin(c)
	if err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	name := strings.TrimSpace(req.Name)
	if email == "" || req.Password == "" || name == "" || strings.TrimSpace(req.Role) == "" {
		return nil, apperr.Validation(msgAllFieldsRequired)
	}
	role, ok := models.ParseRole(req.Role)
	if !ok {
		return nil, apperr.Validation(msgInvalidRole)
	}
	if len(req.Password) < minPasswordLength {
		return nil, apperr.Validation(msgPasswordTooShort)
	}

	existing, err := s.Admins.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if existing != nil {
		return nil, apperr.Conflict(msgEmailTaken)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	admin := &models.Admin{Email: email, PasswordHash: hash, Name: name, Role: role}
	if err := s.Admins.Create(ctx, admin); err != nil {
		// Lost a race with a concurrent create
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperr.Conflict(msgEmailTaken)
		}
		return nil, fmt.Errorf("create admin: %w", err)
	}

	s.Audit.Record(ctx, c, models.ActionCreateAdmin, adminTarget, admin.ID,
		fmt.Sprintf("Created %s account for %s", role, email))
	return admin, nil
}

// DeleteAdmin removes a staff account and releases its leads. Self-deletion and
// super admin deletion are rejected, re-checked on the locked row.
func (s *AdminService) DeleteAdmin(ctx context.Context, c *auth.Caller, id string) error {
	c, err := auth.RequireSuperAdmin(c)
	if err != nil {
		return err
	}
	if id == c.ID {
		return apperr.Conflict(msgCannotDeleteSelf)
	}

	var deleted *models.Admin
	err = s.Admins.Delete(ctx, id, func(target *models.Admin) error {
		if target.ID == c.ID {
			return apperr.Conflict(msgCannotDeleteSelf)
		}
		if target.Role == models.RoleSuperAdmin {
			return apperr.Conflict(msgCannotDeleteSuper)
		}
		deleted = target
		return nil
	})
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperr.NotFound(msgUserNotFound)
		}
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			return appErr
		}
		return fmt.Errorf("delete admin: %w", err)
	}

	s.Audit.Record(ctx, c, models.ActionDeleteAdmin, adminTarget, id,
		fmt.Sprintf("Deleted %s account %s", deleted.Role, deleted.Email))
	return nil
}
