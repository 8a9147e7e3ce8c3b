package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"studyabroad-backend/internal/apperr"
	"studyabroad-backend/internal/auth"
	"studyabroad-backend/internal/models"
	"studyabroad-backend/internal/timeutil"

	"go.uber.org/zap"
)

const (
	msgStorageDisabled = "Export storage is not configured."
	exportContentType  = "text/csv"
)

var leadCSVHeader = []string{"id", "name", "email", "phone", "status", "assigned_to", "created_at", "message"}

// ExportService writes lead snapshots to object storage.
type ExportService struct {
	Leads   LeadStore
	Storage ObjectStore
	Audit   *Auditor
	Log     *zap.Logger
	now     func() time.Time
}

func NewExportService(leads LeadStore, storage ObjectStore, audit *Auditor, log *zap.Logger) *ExportService {
	return &ExportService{Leads: leads, Storage: storage, Audit: audit, Log: log, now: timeutil.Now}
}

// ExportLeads uploads every lead as CSV and returns the object key.
func (s *ExportService) ExportLeads(ctx context.Context, c *auth.Caller) (string, error) {
	c, err := auth.RequireSuperAdmin(c)
	if err != nil {
		return "", err
	}
	if s.Storage == nil {
		return "", apperr.Unavailable(msgStorageDisabled)
	}

	leads, err := s.Leads.List(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("list leads: %w", err)
	}

	body, err := LeadsCSV(leads)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("exports/leads_%s.csv", timeutil.FormatLocal(s.now(), timeutil.FileLayout))
	if err := s.Storage.Put(ctx, key, exportContentType, body); err != nil {
		return "", fmt.Errorf("upload export: %w", err)
	}

	s.Log.Info("lead export uploaded", zap.String("key", key), zap.Int("leads", len(leads)))
	s.Audit.Record(ctx, c, models.ActionExportLeads, leadTarget, "", fmt.Sprintf("Exported %d leads to %s", len(leads), key))
	return key, nil
}

// LeadsCSV renders leads with a header row. Times are in the business location.
func LeadsCSV(leads []models.Lead) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(leadCSVHeader); err != nil {
		return nil, err
	}
	for _, l := range leads {
		assigned := ""
		if l.AssignedTo != nil {
			assigned = l.AssignedTo.Name
		}
		row := []string{
			l.ID,
			l.Name,
			l.Email,
			deref(l.Phone),
			string(l.Status),
			assigned,
			timeutil.FormatLocal(l.CreatedAt, timeutil.DateTimeLayout),
			l.Message,
		}
		for i := range row {
			row[i] = neutralizeFormula(row[i])
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}
	return buf.Bytes(), nil
}

// neutralizeFormula prefixes cells a spreadsheet would evaluate with a quote
// so they open as text.
func neutralizeFormula(cell string) string {
	if cell == "" {
		return cell
	}
	switch cell[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + cell
	}
	return cell
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
