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
	msgSelectLeads    = "Select at least one lead."
	msgSelectOperator = "Select an operator."
	msgInvalidStatus  = "Invalid status."
	msgLeadNotFound   = "Lead not found."
	msgUserNotFound   = "User not found."
	msgNoteRequired   = "Note content is required."
	msgNoteNotFound   = "Note not found."
	msgOwnNotesOnly   = "You can only delete your own notes."
	msgMaxNoteLength  = "Note is too long."
	maxNoteLength     = 5000
	leadTarget        = "contact"
	noteTarget        = "contact_note"
)

type LeadService struct {
	Leads  LeadStore
	Notes  NoteStore
	Admins AdminStore
	Audit  *Auditor
	Scope  auth.TriageScope
	Log    *zap.Logger
}

func NewLeadService(leads LeadStore, notes NoteStore, admins AdminStore, audit *Auditor, scope auth.TriageScope, log *zap.Logger) *LeadService {
	return &LeadService{
		Leads:  leads,
		Notes:  notes,
		Admins: admins,
		Audit:  audit,
		Scope:  scope,
		Log:    log,
	}
}

// ListLeads returns every lead for admins. Operators only get leads assigned to them.
func (s *LeadService) ListLeads(ctx context.Context, c *auth.Caller) ([]models.Lead, error) {
	c, err := auth.RequireAuthenticated(c)
	if err != nil {
		return nil, err
	}

	var filter *string
	if c.Role == models.RoleOperator {
		filter = &c.ID
	}
	return s.Leads.List(ctx, filter)
}

// AssignLeads points the selected leads at one staff member, overwriting any
// previous assignment. Ids that no longer exist are skipped.
func (s *LeadService) AssignLeads(ctx context.Context, c *auth.Caller, leadIDs []string, operatorID string) error {
	c, err := auth.RequireAdminOrAbove(c)
	if err != nil {
		return err
	}
	if len(leadIDs) == 0 {
		return apperr.Validation(msgSelectLeads)
	}
	if strings.TrimSpace(operatorID) == "" {
		return apperr.Validation(msgSelectOperator)
	}

	n, err := s.Leads.Assign(ctx, leadIDs, operatorID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperr.NotFound(msgUserNotFound)
		}
		return fmt.Errorf("assign leads: %w", err)
	}

	s.Audit.Record(ctx, c, models.ActionAssignLeads, leadTarget, operatorID,
		fmt.Sprintf("Assigned %d lead(s) to %s", n, operatorID))
	return nil
}

func (s *LeadService) UnassignLeads(ctx context.Context, c *auth.Caller, leadIDs []string) error {
	c, err := auth.RequireAdminOrAbove(c)
	if err != nil {
		return err
	}
	if len(leadIDs) == 0 {
		return apperr.Validation(msgSelectLeads)
	}

	n, err := s.Leads.Unassign(ctx, leadIDs)
	if err != nil {
		return fmt.Errorf("unassign leads: %w", err)
	}

	s.Audit.Record(ctx, c, models.ActionUnassignLeads, leadTarget, "",
		fmt.Sprintf("Unassigned %d lead(s)", n))
	return nil
}

// UpdateLeadStatus allows any transition among the five states, subject to the triage scope.
func (s *LeadService) UpdateLeadStatus(ctx context.Context, c *auth.Caller, leadID, status string) error {
	c, err := auth.RequireAuthenticated(c)
	if err != nil {
		return err
	}

	st := models.LeadStatus(strings.ToUpper(strings.TrimSpace(status)))
	if !st.Valid() {
		return apperr.Validation(msgInvalidStatus)
	}

	if err := s.checkTriage(ctx, c, leadID); err != nil {
		return err
	}

	if err := s.Leads.UpdateStatus(ctx, leadID, st); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperr.NotFound(msgLeadNotFound)
		}
		return fmt.Errorf("update lead status: %w", err)
	}

	s.Audit.Record(ctx, c, models.ActionLeadStatus, leadTarget, leadID,
		fmt.Sprintf("Status set to %s", st))
	return nil
}

// DeleteLeads hard-deletes the selection together with its notes.
func (s *LeadService) DeleteLeads(ctx context.Context, c *auth.Caller, leadIDs []string) error {
	c, err := auth.RequireAdminOrAbove(c)
	if err != nil {
		return err
	}
	if len(leadIDs) == 0 {
		return apperr.Validation(msgSelectLeads)
	}

	n, err := s.Leads.Delete(ctx, leadIDs)
	if err != nil {
		return fmt.Errorf("delete leads: %w", err)
	}

	s.Audit.Record(ctx, c, models.ActionDeleteLeads, leadTarget, "",
		fmt.Sprintf("Deleted %d lead(s)", n))
	return nil
}

// AddNote attaches trimmed content to a lead with the caller as author.
func (s *LeadService) AddNote(ctx context.Context, c *auth.Caller, leadID, content string) (*models.Note, error) {
	c, err := auth.RequireAuthenticated(c)
	if err != nil {
		return nil, err
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperr.Validation(msgNoteRequired)
	}
	if len(content) > maxNoteLength {
		return nil, apperr.Validation(msgMaxNoteLength)
	}

	if err := s.checkTriage(ctx, c, leadID); err != nil {
		return nil, err
	}

	note := &models.Note{ContactID: leadID, AuthorID: c.ID, Content: content}
	if err := s.Notes.Create(ctx, note); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.NotFound(msgLeadNotFound)
		}
		return nil, fmt.Errorf("add note: %w", err)
	}
	return note, nil
}

// DeleteNote lets authors remove their own notes and admins remove any.
func (s *LeadService) DeleteNote(ctx context.Context, c *auth.Caller, noteID string) error {
	c, err := auth.RequireAuthenticated(c)
	if err != nil {
		return err
	}

	note, err := s.Notes.Get(ctx, noteID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperr.NotFound(msgNoteNotFound)
		}
		return fmt.Errorf("load note: %w", err)
	}

	if !auth.CanDeleteNote(c, note.AuthorID) {
		return apperr.Forbidden(msgOwnNotesOnly)
	}

	if err := s.Notes.Delete(ctx, noteID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperr.NotFound(msgNoteNotFound)
		}
		return fmt.Errorf("delete note: %w", err)
	}

	if note.AuthorID != c.ID {
		s.Audit.Record(ctx, c, models.ActionDeleteNote, noteTarget, noteID,
			fmt.Sprintf("Deleted note by %s on lead %s", note.Author.Name, note.ContactID))
	}
	return nil
}

// ListOperators returns operators with their assigned lead counts.
func (s *LeadService) ListOperators(ctx context.Context, c *auth.Caller) ([]models.Operator, error) {
	if _, err := auth.RequireAdminOrAbove(c); err != nil {
		return nil, err
	}
	return s.Admins.ListOperators(ctx)
}

// checkTriage applies the configured triage scope to operators.
func (s *LeadService) checkTriage(ctx context.Context, c *auth.Caller, leadID string) error {
	if s.Scope != auth.TriageAssigned || c.Role.AtLeast(models.RoleAdmin) {
		return nil
	}

	assignee, err := s.Leads.GetAssignee(ctx, leadID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperr.NotFound(msgLeadNotFound)
		}
		return fmt.Errorf("load lead: %w", err)
	}
	if !s.Scope.CanTriage(c, assignee) {
		return apperr.Forbidden()
	}
	return nil
}
