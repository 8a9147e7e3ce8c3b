package auth

import (
	"errors"
	"time"

	"studyabroad-backend/internal/config"
	"studyabroad-backend/internal/models"
	"studyabroad-backend/internal/timeutil"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is the session payload. ID (jti) identifies the token for revocation.
type Claims struct {
	UserID string      `json:"user_id"`
	Email  string      `json:"email"`
	Name   string      `json:"name"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

type JWTManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewJWTManager(cfg *config.Config) *JWTManager {
	return &JWTManager{
		secret: []byte(cfg.JWT.Secret),
		issuer: cfg.JWT.Issuer,
		ttl:    time.Duration(cfg.JWT.ExpirationHours) * time.Hour,
		now:    timeutil.Now,
	}
}

// TTL is the absolute lifetime of a session.
func (j *JWTManager) TTL() time.Duration {
	return j.ttl
}

// GenerateToken creates a signed session token for an admin. Expiry is absolute, not sliding.
func (j *JWTManager) GenerateToken(admin *models.Admin) (string, *Claims, error) {
	now := j.now()

	claims := &Claims{
		UserID: admin.ID,
		Email:  admin.Email,
		Name:   admin.Name,
		Role:   admin.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   admin.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    j.issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(j.secret)
	if err != nil {
		return "", nil, err
	}
	return signed, claims, nil
}

// ValidateToken verifies a JWT token and returns the claims
func (j *JWTManager) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return j.secret, nil
	}, jwt.WithTimeFunc(j.now), jwt.WithIssuer(j.issuer), jwt.WithExpirationRequired())

	if err != nil {
		return nil, err
	}

	if !token.Valid || claims.UserID == "" {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}
