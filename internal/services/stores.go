package services

import (
	"context"
	"time"

	"studyabroad-backend/internal/models"
)

// The interfaces below are satisfied by the pgx repositories, the Redis store,
// the websocket hub and the object storage client.

type AdminStore interface {
	Create(ctx context.Context, a *models.Admin) error
	Get(ctx context.Context, id string) (*models.Admin, error)
	GetByEmail(ctx context.Context, email string) (*models.Admin, error)
	List(ctx context.Context) ([]models.Admin, error)
	ListOperators(ctx context.Context) ([]models.Operator, error)
	Delete(ctx context.Context, id string, check func(target *models.Admin) error) error
}

type LeadStore interface {
	Create(ctx context.Context, l *models.Lead) error
	List(ctx context.Context, assignedTo *string) ([]models.Lead, error)
	GetAssignee(ctx context.Context, id string) (*string, error)
	Assign(ctx context.Context, ids []string, assigneeID string) (int64, error)
	Unassign(ctx context.Context, ids []string) (int64, error)
	UpdateStatus(ctx context.Context, id string, status models.LeadStatus) error
	Delete(ctx context.Context, ids []string) (int64, error)
}

type NoteStore interface {
	Create(ctx context.Context, n *models.Note) error
	Get(ctx context.Context, id string) (*models.Note, error)
	Delete(ctx context.Context, id string) error
}

type ClockStore interface {
	Open(ctx context.Context, adminID string, at time.Time, lat, lng *float64) (*models.ClockRecord, error)
	Close(ctx context.Context, adminID string, at time.Time, lat, lng *float64) (*models.ClockRecord, error)
	Active(ctx context.Context, adminID string) (*models.ClockRecord, error)
	ListAll(ctx context.Context) ([]models.ClockRecord, error)
}

type BlogStore interface {
	SlugExists(ctx context.Context, slug string) (bool, error)
	Create(ctx context.Context, p *models.BlogPost) error
	Update(ctx context.Context, p *models.BlogPost) error
	Delete(ctx context.Context, id string) error
	TogglePublish(ctx context.Context, id string) (bool, error)
	Get(ctx context.Context, id string) (*models.BlogPost, error)
	GetPublishedBySlug(ctx context.Context, slug string) (*models.BlogPost, error)
	ListAll(ctx context.Context) ([]models.BlogPost, error)
	ListPublished(ctx context.Context, limit int) ([]models.BlogPost, error)
	ListPublishedSlugs(ctx context.Context) ([]models.PostSlug, error)
}

type LoginLogStore interface {
	CreateLoginLog(ctx context.Context, adminID, ipAddress, userAgent string) (int, error)
	UpdateLogoutTimeByAdmin(ctx context.Context, adminID string) error
	ListAllLoginLogs(ctx context.Context) ([]models.LoginLog, error)
}

type ActionLogStore interface {
	CreateActionLog(ctx context.Context, log *models.AdminActionLog) error
	ListAllActionLogs(ctx context.Context) ([]models.AdminActionLog, error)
}

type TokenRevoker interface {
	RevokeToken(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) bool
}

type Cache interface {
	GetCached(ctx context.Context, key string) ([]byte, bool)
	SetCached(ctx context.Context, key string, data []byte, ttl time.Duration)
	InvalidatePrefix(ctx context.Context, prefix string)
}

type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) bool
}

// LeadPublisher fans new leads out to live dashboards.
type LeadPublisher interface {
	PublishLeadCreated(lead models.Lead)
}

type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, body []byte) error
}
