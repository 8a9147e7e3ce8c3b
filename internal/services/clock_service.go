package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"studyabroad-backend/internal/apperr"
	"studyabroad-backend/internal/auth"
	"studyabroad-backend/internal/metrics"
	"studyabroad-backend/internal/models"
	"studyabroad-backend/internal/report"
	"studyabroad-backend/internal/repositories"
	"studyabroad-backend/internal/timeutil"

	"go.uber.org/zap"
)

const (
	msgAlreadyClockedIn = "Already clocked in."
	msgNotClockedIn     = "Not clocked in."
)

type ClockService struct {
	Records ClockStore
	Log     *zap.Logger
	now     func() time.Time
}

func NewClockService(records ClockStore, log *zap.Logger) *ClockService {
	return &ClockService{Records: records, Log: log, now: timeutil.Now}
}

// timestamps are kept at millisecond precision so durationMs is exact
func (s *ClockService) stamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

// coords drops a missing, partial or out-of-range pair. Location is best-effort.
func (s *ClockService) coords(c *auth.Caller, action string, geo models.GeoPoint) (*float64, *float64) {
	if geo.Empty() {
		return nil, nil
	}
	if !geo.Valid() {
		s.Log.Info("ignoring invalid coordinates",
			zap.String("admin_id", c.ID),
			zap.String("action", action),
		)
		return nil, nil
	}
	return geo.Lat, geo.Lng
}

// ClockIn opens a work session. A second open session is a conflict.
func (s *ClockService) ClockIn(ctx context.Context, c *auth.Caller, geo models.GeoPoint) (*models.ClockRecord, error) {
	c, err := auth.RequireAuthenticated(c)
	if err != nil {
		return nil, err
	}

	lat, lng := s.coords(c, "clock_in", geo)
	rec, err := s.Records.Open(ctx, c.ID, s.stamp(), lat, lng)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			metrics.ClockEvents.WithLabelValues("clock_in", "conflict").Inc()
			return nil, apperr.Conflict(msgAlreadyClockedIn)
		}
		return nil, fmt.Errorf("clock in: %w", err)
	}

	metrics.ClockEvents.WithLabelValues("clock_in", "ok").Inc()
	return rec, nil
}

// ClockOut closes the open session and records its duration in milliseconds.
func (s *ClockService) ClockOut(ctx context.Context, c *auth.Caller, geo models.GeoPoint) (*models.ClockRecord, error) {
	c, err := auth.RequireAuthenticated(c)
	if err != nil {
		return nil, err
	}

	lat, lng := s.coords(c, "clock_out", geo)
	rec, err := s.Records.Close(ctx, c.ID, s.stamp(), lat, lng)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			metrics.ClockEvents.WithLabelValues("clock_out", "conflict").Inc()
			return nil, apperr.Conflict(msgNotClockedIn)
		}
		return nil, fmt.Errorf("clock out: %w", err)
	}

	metrics.ClockEvents.WithLabelValues("clock_out", "ok").Inc()
	return rec, nil
}

// ActiveRecord returns the caller's open session, or nil.
func (s *ClockService) ActiveRecord(ctx context.Context, c *auth.Caller) (*models.ClockRecord, error) {
	c, err := auth.RequireAuthenticated(c)
	if err != nil {
		return nil, err
	}
	return s.Records.Active(ctx, c.ID)
}

// IsClockedIn is used by the request gate for roles that must clock in first.
func (s *ClockService) IsClockedIn(ctx context.Context, adminID string) (bool, error) {
	rec, err := s.Records.Active(ctx, adminID)
	if err != nil {
		return false, err
	}
	return rec != nil, nil
}

// ListRecords returns every session with its staff member.
func (s *ClockService) ListRecords(ctx context.Context, c *auth.Caller) ([]models.ClockRecord, error) {
	if _, err := auth.RequireAdminOrAbove(c); err != nil {
		return nil, err
	}
	return s.Records.ListAll(ctx)
}

// TimesheetPDF renders all sessions as a printable attendance sheet.
func (s *ClockService) TimesheetPDF(ctx context.Context, c *auth.Caller) ([]byte, error) {
	records, err := s.ListRecords(ctx, c)
	if err != nil {
		return nil, err
	}
	return report.Timesheet(records, s.now())
}
