package handlers

import (
	"context"

	"studyabroad-backend/internal/auth"
	"studyabroad-backend/internal/models"
)

// The handlers depend on these views of the service layer.

type AuthAPI interface {
	Login(ctx context.Context, req *models.LoginRequest, ip, userAgent string) (*models.AuthResponse, error)
	Logout(ctx context.Context, claims *auth.Claims)
	ListLoginLogs(ctx context.Context, c *auth.Caller) ([]models.LoginLog, error)
}

type LeadAPI interface {
	ListLeads(ctx context.Context, c *auth.Caller) ([]models.Lead, error)
	AssignLeads(ctx context.Context, c *auth.Caller, leadIDs []string, operatorID string) error
	UnassignLeads(ctx context.Context, c *auth.Caller, leadIDs []string) error
	UpdateLeadStatus(ctx context.Context, c *auth.Caller, leadID, status string) error
	DeleteLeads(ctx context.Context, c *auth.Caller, leadIDs []string) error
	AddNote(ctx context.Context, c *auth.Caller, leadID, content string) (*models.Note, error)
	DeleteNote(ctx context.Context, c *auth.Caller, noteID string) error
	ListOperators(ctx context.Context, c *auth.Caller) ([]models.Operator, error)
}

type ExportAPI interface {
	ExportLeads(ctx context.Context, c *auth.Caller) (string, error)
}

type AdminAPI interface {
	ListAdmins(ctx context.Context, c *auth.Caller) ([]models.Admin, error)
	CreateAdmin(ctx context.Context, c *auth.Caller, req *models.CreateAdminRequest) (*models.Admin, error)
	DeleteAdmin(ctx context.Context, c *auth.Caller, id string) error
}

type ClockAPI interface {
	ClockIn(ctx context.Context, c *auth.Caller, geo models.GeoPoint) (*models.ClockRecord, error)
	ClockOut(ctx context.Context, c *auth.Caller, geo models.GeoPoint) (*models.ClockRecord, error)
	ActiveRecord(ctx context.Context, c *auth.Caller) (*models.ClockRecord, error)
	ListRecords(ctx context.Context, c *auth.Caller) ([]models.ClockRecord, error)
	TimesheetPDF(ctx context.Context, c *auth.Caller) ([]byte, error)
}

type BlogAPI interface {
	ListPublished(ctx context.Context) ([]models.BlogPost, error)
	ListRecent(ctx context.Context, limit int) ([]models.BlogPost, error)
	GetPublishedBySlug(ctx context.Context, slug string) (*models.BlogPost, error)
	ListAllSlugs(ctx context.Context) ([]models.PostSlug, error)
	ListAdminPosts(ctx context.Context, c *auth.Caller) ([]models.BlogPost, error)
	GetByID(ctx context.Context, c *auth.Caller, id string) (*models.BlogPost, error)
	CreatePost(ctx context.Context, c *auth.Caller, in *models.PostInput) (*models.BlogPost, error)
	UpdatePost(ctx context.Context, c *auth.Caller, id string, in *models.PostInput) (*models.BlogPost, error)
	DeletePost(ctx context.Context, c *auth.Caller, id string) error
	TogglePublish(ctx context.Context, c *auth.Caller, id string) (bool, error)
}

type ContactAPI interface {
	Submit(ctx context.Context, sub models.ContactSubmission, ip string) models.ContactResponse
}

type ActionLogAPI interface {
	List(ctx context.Context, c *auth.Caller) ([]models.AdminActionLog, error)
}
