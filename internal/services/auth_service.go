package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"studyabroad-backend/internal/apperr"
	"studyabroad-backend/internal/auth"
	"studyabroad-backend/internal/metrics"
	"studyabroad-backend/internal/models"
	"studyabroad-backend/internal/repositories"

	"go.uber.org/zap"
)

const invalidCredentials = "Invalid email or password."

type AuthService struct {
	Admins     AdminStore
	LoginLogs  LoginLogStore
	Revoker    TokenRevoker
	JWTManager *auth.JWTManager
	Log        *zap.Logger

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(admins AdminStore, loginLogs LoginLogStore, revoker TokenRevoker, jwtManager *auth.JWTManager, log *zap.Logger) *AuthService {
	return &AuthService{
		Admins:     admins,
		LoginLogs:  loginLogs,
		Revoker:    revoker,
		JWTManager: jwtManager,
		Log:        log,
	}
}

// Login checks credentials and issues a 24h session token. Unknown email and
// wrong password fail identically.
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest, ip, userAgent string) (*models.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		metrics.LoginAttempts.WithLabelValues("invalid").Inc()
		return nil, apperr.Unauthenticated(invalidCredentials)
	}

	admin, err := s.Admins.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	if admin == nil {
		// Burn a comparison so response time does not reveal unknown emails
		auth.VerifyPassword(s.dummy(), req.Password)
		metrics.LoginAttempts.WithLabelValues("failure").Inc()
		return nil, apperr.Unauthenticated(invalidCredentials)
	}
	if !auth.VerifyPassword(admin.PasswordHash, req.Password) {
		metrics.LoginAttempts.WithLabelValues("failure").Inc()
		return nil, apperr.Unauthenticated(invalidCredentials)
	}

	token, claims, err := s.JWTManager.GenerateToken(admin)
	if err != nil {
		return nil, err
	}

	if s.LoginLogs != nil {
		if _, err := s.LoginLogs.CreateLoginLog(ctx, admin.ID, ip, userAgent); err != nil {
			s.Log.Warn("failed to record login", zap.String("admin_id", admin.ID), zap.Error(err))
		}
	}
	metrics.LoginAttempts.WithLabelValues("success").Inc()

	return &models.AuthResponse{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
		User: models.SessionUser{
			ID:    admin.ID,
			Role:  admin.Role,
			Name:  admin.Name,
			Email: admin.Email,
		},
	}, nil
}

// Resolve turns a presented token into the current caller. The account is
// reloaded so deletions and role changes apply immediately.
func (s *AuthService) Resolve(ctx context.Context, token string) (*auth.Caller, *auth.Claims, error) {
	if token == "" {
		return nil, nil, apperr.Unauthenticated()
	}
	claims, err := s.JWTManager.ValidateToken(token)
	if err != nil {
		return nil, nil, apperr.Unauthenticated()
	}
	if s.Revoker != nil && s.Revoker.IsRevoked(ctx, claims.ID) {
		return nil, nil, apperr.Unauthenticated()
	}

	admin, err := s.Admins.Get(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil, apperr.Unauthenticated()
		}
		return nil, nil, err
	}

	return auth.CallerFromAdmin(admin), claims, nil
}

// Logout revokes the token until it would have expired and closes the login log entry.
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) {
	if claims == nil {
		return
	}
	if s.Revoker != nil && claims.ExpiresAt != nil {
		if err := s.Revoker.RevokeToken(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
			s.Log.Warn("failed to revoke token", zap.String("admin_id", claims.UserID), zap.Error(err))
		}
	}
	if s.LoginLogs != nil {
		if err := s.LoginLogs.UpdateLogoutTimeByAdmin(ctx, claims.UserID); err != nil {
			s.Log.Warn("failed to record logout", zap.String("admin_id", claims.UserID), zap.Error(err))
		}
	}
}

// ListLoginLogs returns recent logins. SuperAdmin only.
func (s *AuthService) ListLoginLogs(ctx context.Context, c *auth.Caller) ([]models.LoginLog, error) {
	if _, err := auth.RequireSuperAdmin(c); err != nil {
		return nil, err
	}
	return s.LoginLogs.ListAllLoginLogs(ctx)
}

func (s *AuthService) dummy() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = auth.HashPassword("not-a-real-password")
	})
	return s.dummyHash
}
