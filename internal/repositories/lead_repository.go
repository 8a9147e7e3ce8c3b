package repositories

import (
	"context"
	"fmt"

	"studyabroad-backend/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type LeadRepository struct {
	DB *pgxpool.Pool
}

func NewLeadRepository(db *pgxpool.Pool) *LeadRepository {
	return &LeadRepository{DB: db}
}

// Create stores a public submission with status NEW.
func (r *LeadRepository) Create(ctx context.Context, l *models.Lead) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if l.Status == "" {
		l.Status = models.LeadStatusNew
	}

	query := `
		INSERT INTO contacts (id, name, email, phone, message, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	err := r.DB.QueryRow(ctx, query, l.ID, l.Name, l.Email, l.Phone, l.Message, string(l.Status)).Scan(&l.CreatedAt)
	return translate(err)
}

// List returns leads newest first with their notes. A non-nil assignedTo filters
// to that assignee in SQL.
func (r *LeadRepository) List(ctx context.Context, assignedTo *string) ([]models.Lead, error) {
	query := `
		SELECT c.id, c.name, c.email, c.phone, c.message, c.status, c.assigned_to_id, a.name, c.created_at
		FROM contacts c
		LEFT JOIN admins a ON a.id = c.assigned_to_id
	`
	args := []any{}
	if assignedTo != nil {
		if !isUUID(*assignedTo) {
			return []models.Lead{}, nil
		}
		query += ` WHERE c.assigned_to_id = $1`
		args = append(args, *assignedTo)
	}
	query += ` ORDER BY c.created_at DESC`

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := []models.Lead{}
	index := map[string]int{}
	ids := []string{}
	for rows.Next() {
		var l models.Lead
		var status string
		var assigneeName *string
		if err := rows.Scan(&l.ID, &l.Name, &l.Email, &l.Phone, &l.Message, &status, &l.AssignedToID, &assigneeName, &l.CreatedAt); err != nil {
			return nil, err
		}
		l.Status = models.LeadStatus(status)
		if l.AssignedToID != nil {
			l.AssignedTo = &models.AdminRef{ID: *l.AssignedToID, Name: deref(assigneeName)}
		}
		l.Notes = []models.Note{}
		index[l.ID] = len(leads)
		ids = append(ids, l.ID)
		leads = append(leads, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return leads, nil
	}

	notes, err := r.notesFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, n := range notes {
		if i, ok := index[n.ContactID]; ok {
			leads[i].Notes = append(leads[i].Notes, n)
		}
	}

	return leads, nil
}

func (r *LeadRepository) notesFor(ctx context.Context, leadIDs []string) ([]models.Note, error) {
	query := `
		SELECT n.id, n.content, n.contact_id, n.author_id, a.name, n.created_at
		FROM contact_notes n
		JOIN admins a ON a.id = n.author_id
		WHERE n.contact_id = ANY($1::uuid[])
		ORDER BY n.created_at DESC
	`
	rows, err := r.DB.Query(ctx, query, leadIDs)
	if err != nil {
		return nil, fmt.Errorf("load notes: %w", err)
	}
	defer rows.Close()

	var notes []models.Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, *n)
	}
	return notes, rows.Err()
}

// GetAssignee returns the current assignee of a lead, nil when unassigned.
func (r *LeadRepository) GetAssignee(ctx context.Context, id string) (*string, error) {
	if !isUUID(id) {
		return nil, ErrNotFound
	}
	var assignee *string
	err := r.DB.QueryRow(ctx, `SELECT assigned_to_id FROM contacts WHERE id = $1`, id).Scan(&assignee)
	if err != nil {
		return nil, translate(err)
	}
	return assignee, nil
}

// Assign points every listed lead at assigneeID in one transaction. Unknown lead
// ids are skipped; a missing assignee is ErrNotFound.
func (r *LeadRepository) Assign(ctx context.Context, ids []string, assigneeID string) (int64, error) {
	if !isUUID(assigneeID) {
		return 0, ErrNotFound
	}
	ids = validIDs(ids)

	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin assign: %w", err)
	}
	defer tx.Rollback(ctx)

	// Lock the assignee so a concurrent delete cannot orphan the assignment
	var exists bool
	if err := tx.QueryRow(ctx, `SELECT true FROM admins WHERE id = $1 FOR SHARE`, assigneeID).Scan(&exists); err != nil {
		return 0, translate(err)
	}

	if len(ids) == 0 {
		return 0, tx.Commit(ctx)
	}

	tag, err := tx.Exec(ctx, `UPDATE contacts SET assigned_to_id = $1 WHERE id = ANY($2::uuid[])`, assigneeID, ids)
	if err != nil {
		return 0, fmt.Errorf("assign leads: %w", err)
	}
	return tag.RowsAffected(), tx.Commit(ctx)
}

// Unassign clears the assignee of every listed lead.
func (r *LeadRepository) Unassign(ctx context.Context, ids []string) (int64, error) {
	ids = validIDs(ids)
	if len(ids) == 0 {
		return 0, nil
	}
	tag, err := r.DB.Exec(ctx, `UPDATE contacts SET assigned_to_id = NULL WHERE id = ANY($1::uuid[])`, ids)
	if err != nil {
		return 0, fmt.Errorf("unassign leads: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *LeadRepository) UpdateStatus(ctx context.Context, id string, status models.LeadStatus) error {
	if !isUUID(id) {
		return ErrNotFound
	}
	tag, err := r.DB.Exec(ctx, `UPDATE contacts SET status = $1 WHERE id = $2`, string(status), id)
	if err != nil {
		return fmt.Errorf("update lead status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete hard-deletes the listed leads. Notes go with them via ON DELETE CASCADE.
func (r *LeadRepository) Delete(ctx context.Context, ids []string) (int64, error) {
	ids = validIDs(ids)
	if len(ids) == 0 {
		return 0, nil
	}
	tag, err := r.DB.Exec(ctx, `DELETE FROM contacts WHERE id = ANY($1::uuid[])`, ids)
	if err != nil {
		return 0, fmt.Errorf("delete leads: %w", err)
	}
	return tag.RowsAffected(), nil
}
