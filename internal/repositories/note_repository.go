package repositories

import (
	"context"

	"studyabroad-backend/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type NoteRepository struct {
	DB *pgxpool.Pool
}

func NewNoteRepository(db *pgxpool.Pool) *NoteRepository {
	return &NoteRepository{DB: db}
}

// Create attaches a note to a lead. A missing lead or author is ErrNotFound.
func (r *NoteRepository) Create(ctx context.Context, n *models.Note) error {
	if !isUUID(n.ContactID) || !isUUID(n.AuthorID) {
		return ErrNotFound
	}
	if n.ID == "" {
		n.ID = uuid.NewString()
	}

	query := `
		WITH ins AS (
			INSERT INTO contact_notes (id, content, contact_id, author_id)
			VALUES ($1, $2, $3, $4)
			RETURNING id, content, contact_id, author_id, created_at
		)
		SELECT ins.id, ins.content, ins.contact_id, ins.author_id, a.name, ins.created_at
		FROM ins JOIN admins a ON a.id = ins.author_id
	`
	row := r.DB.QueryRow(ctx, query, n.ID, n.Content, n.ContactID, n.AuthorID)
	created, err := scanNote(row)
	if err != nil {
		return err
	}
	*n = *created
	return nil
}

func (r *NoteRepository) Get(ctx context.Context, id string) (*models.Note, error) {
	if !isUUID(id) {
		return nil, ErrNotFound
	}
	query := `
		SELECT n.id, n.content, n.contact_id, n.author_id, a.name, n.created_at
		FROM contact_notes n
		JOIN admins a ON a.id = n.author_id
		WHERE n.id = $1
	`
	return scanNote(r.DB.QueryRow(ctx, query, id))
}

func (r *NoteRepository) Delete(ctx context.Context, id string) error {
	if !isUUID(id) {
		return ErrNotFound
	}
	tag, err := r.DB.Exec(ctx, `DELETE FROM contact_notes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanNote(row rowScanner) (*models.Note, error) {
	var n models.Note
	if err := row.Scan(&n.ID, &n.Content, &n.ContactID, &n.AuthorID, &n.Author.Name, &n.CreatedAt); err != nil {
		return nil, translate(err)
	}
	n.Author.ID = n.AuthorID
	return &n, nil
}
