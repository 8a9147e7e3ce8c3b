package repositories

import (
	"context"
	"fmt"

	"studyabroad-backend/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BlogRepository struct {
	DB *pgxpool.Pool
}

func NewBlogRepository(db *pgxpool.Pool) *BlogRepository {
	return &BlogRepository{DB: db}
}

const postColumns = `
	p.id, p.slug, p.published,
	p.title_en, p.excerpt_en, p.content_en, p.meta_title_en, p.meta_desc_en, p.keywords_en,
	p.title_fr, p.excerpt_fr, p.content_fr, p.meta_title_fr, p.meta_desc_fr, p.keywords_fr,
	p.title_ar, p.excerpt_ar, p.content_ar, p.meta_title_ar, p.meta_desc_ar, p.keywords_ar,
	p.cover_image, p.author_id, a.name, p.created_at, p.updated_at
`

const postFrom = ` FROM blog_posts p LEFT JOIN admins a ON a.id = p.author_id `

func (r *BlogRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.DB.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM blog_posts WHERE slug = $1)`, slug).Scan(&exists)
	return exists, err
}

// Create inserts a post. A slug collision is ErrDuplicate.
func (r *BlogRepository) Create(ctx context.Context, p *models.BlogPost) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	query := `
		INSERT INTO blog_posts (
			id, slug, published,
			title_en, excerpt_en, content_en, meta_title_en, meta_desc_en, keywords_en,
			title_fr, excerpt_fr, content_fr, meta_title_fr, meta_desc_fr, keywords_fr,
			title_ar, excerpt_ar, content_ar, meta_title_ar, meta_desc_ar, keywords_ar,
			cover_image, author_id
		) VALUES (
			$1, $2, $3,
			$4, $5, $6, $7, $8, $9,
			$10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, $21,
			$22, $23
		)
		RETURNING created_at, updated_at
	`
	args := append([]any{p.ID, p.Slug, p.Published}, localizedArgs(p.Content)...)
	args = append(args, p.CoverImage, p.AuthorID)

	err := r.DB.QueryRow(ctx, query, args...).Scan(&p.CreatedAt, &p.UpdatedAt)
	return translate(err)
}

// Update rewrites content, cover and publish flag. The slug never changes.
func (r *BlogRepository) Update(ctx context.Context, p *models.BlogPost) error {
	if !isUUID(p.ID) {
		return ErrNotFound
	}

	query := `
		UPDATE blog_posts SET
			published = $2,
			title_en = $3, excerpt_en = $4, content_en = $5, meta_title_en = $6, meta_desc_en = $7, keywords_en = $8,
			title_fr = $9, excerpt_fr = $10, content_fr = $11, meta_title_fr = $12, meta_desc_fr = $13, keywords_fr = $14,
			title_ar = $15, excerpt_ar = $16, content_ar = $17, meta_title_ar = $18, meta_desc_ar = $19, keywords_ar = $20,
			cover_image = $21,
			updated_at = NOW()
		WHERE id = $1
		RETURNING slug, created_at, updated_at
	`
	args := append([]any{p.ID, p.Published}, localizedArgs(p.Content)...)
	args = append(args, p.CoverImage)

	err := r.DB.QueryRow(ctx, query, args...).Scan(&p.Slug, &p.CreatedAt, &p.UpdatedAt)
	return translate(err)
}

func (r *BlogRepository) Delete(ctx context.Context, id string) error {
	if !isUUID(id) {
		return ErrNotFound
	}
	tag, err := r.DB.Exec(ctx, `DELETE FROM blog_posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// TogglePublish flips the flag and returns the new value.
func (r *BlogRepository) TogglePublish(ctx context.Context, id string) (bool, error) {
	if !isUUID(id) {
		return false, ErrNotFound
	}
	var published bool
	err := r.DB.QueryRow(ctx,
		`UPDATE blog_posts SET published = NOT published, updated_at = NOW() WHERE id = $1 RETURNING published`,
		id,
	).Scan(&published)
	return published, translate(err)
}

func (r *BlogRepository) Get(ctx context.Context, id string) (*models.BlogPost, error) {
	if !isUUID(id) {
		return nil, ErrNotFound
	}
	return scanPost(r.DB.QueryRow(ctx, `SELECT `+postColumns+postFrom+`WHERE p.id = $1`, id))
}

// GetPublishedBySlug hides drafts.
func (r *BlogRepository) GetPublishedBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	return scanPost(r.DB.QueryRow(ctx, `SELECT `+postColumns+postFrom+`WHERE p.slug = $1 AND p.published`, slug))
}

// ListAll returns drafts and published posts for the admin console, newest first.
func (r *BlogRepository) ListAll(ctx context.Context) ([]models.BlogPost, error) {
	return r.list(ctx, `SELECT `+postColumns+postFrom+`ORDER BY p.created_at DESC`)
}

// ListPublished returns published posts newest first. limit <= 0 means all.
func (r *BlogRepository) ListPublished(ctx context.Context, limit int) ([]models.BlogPost, error) {
	query := `SELECT ` + postColumns + postFrom + `WHERE p.published ORDER BY p.created_at DESC`
	if limit > 0 {
		return r.list(ctx, query+` LIMIT $1`, limit)
	}
	return r.list(ctx, query)
}

func (r *BlogRepository) ListPublishedSlugs(ctx context.Context) ([]models.PostSlug, error) {
	rows, err := r.DB.Query(ctx, `SELECT slug, updated_at FROM blog_posts WHERE published ORDER BY updated_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	slugs := []models.PostSlug{}
	for rows.Next() {
		var s models.PostSlug
		if err := rows.Scan(&s.Slug, &s.UpdatedAt); err != nil {
			return nil, err
		}
		slugs = append(slugs, s)
	}
	return slugs, rows.Err()
}

func (r *BlogRepository) list(ctx context.Context, query string, args ...any) ([]models.BlogPost, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	posts := []models.BlogPost{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}

// localizedArgs flattens en, fr, ar in column order. Empty optional values are stored as NULL.
func localizedArgs(c models.PostContent) []any {
	args := []any{
		c.EN.Title, c.EN.Excerpt, c.EN.Content,
		nullable(c.EN.MetaTitle), nullable(c.EN.MetaDesc), nullable(c.EN.Keywords),
	}
	for _, f := range []models.LocalizedFields{c.FR, c.AR} {
		args = append(args,
			nullable(f.Title), nullable(f.Excerpt), nullable(f.Content),
			nullable(f.MetaTitle), nullable(f.MetaDesc), nullable(f.Keywords),
		)
	}
	return args
}

func scanPost(row rowScanner) (*models.BlogPost, error) {
	var p models.BlogPost
	var en, fr, ar [6]*string
	var authorName *string

	dest := []any{&p.ID, &p.Slug, &p.Published}
	for _, set := range []*[6]*string{&en, &fr, &ar} {
		for i := range set {
			dest = append(dest, &set[i])
		}
	}
	dest = append(dest, &p.CoverImage, &p.AuthorID, &authorName, &p.CreatedAt, &p.UpdatedAt)

	if err := row.Scan(dest...); err != nil {
		return nil, translate(err)
	}

	p.Content.EN = fieldsFrom(en)
	p.Content.FR = fieldsFrom(fr)
	p.Content.AR = fieldsFrom(ar)
	if p.AuthorID != nil {
		p.Author = &models.AdminRef{ID: *p.AuthorID, Name: deref(authorName)}
	}
	return &p, nil
}

func fieldsFrom(v [6]*string) models.LocalizedFields {
	return models.LocalizedFields{
		Title:     deref(v[0]),
		Excerpt:   deref(v[1]),
		Content:   deref(v[2]),
		MetaTitle: deref(v[3]),
		MetaDesc:  deref(v[4]),
		Keywords:  deref(v[5]),
	}
}
