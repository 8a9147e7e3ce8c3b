package services

import (
	"context"

	"studyabroad-backend/internal/auth"
	"studyabroad-backend/internal/models"

	"go.uber.org/zap"
)

// Auditor writes the admin action trail. Failures are logged, never returned.
type Auditor struct {
	Store ActionLogStore
	Log   *zap.Logger
}

func NewAuditor(store ActionLogStore, log *zap.Logger) *Auditor {
	return &Auditor{Store: store, Log: log}
}

func (a *Auditor) Record(ctx context.Context, c *auth.Caller, action, targetType, targetID, description string) {
	if a == nil || a.Store == nil || c == nil {
		return
	}

	entry := &models.AdminActionLog{
		AdminID:     c.ID,
		ActionType:  action,
		TargetType:  targetType,
		Description: description,
	}
	if targetID != "" {
		entry.TargetID = &targetID
	}
	if c.IP != "" {
		ip := c.IP
		entry.IPAddress = &ip
	}

	if err := a.Store.CreateActionLog(ctx, entry); err != nil {
		a.Log.Warn("failed to record admin action",
			zap.String("action", action),
			zap.String("admin_id", c.ID),
			zap.Error(err),
		)
	}
}

// List returns the audit trail. SuperAdmin only.
func (a *Auditor) List(ctx context.Context, c *auth.Caller) ([]models.AdminActionLog, error) {
	if _, err := auth.RequireSuperAdmin(c); err != nil {
		return nil, err
	}
	return a.Store.ListAllActionLogs(ctx)
}
