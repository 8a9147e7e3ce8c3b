package repositories

import (
	"context"
	"fmt"
	"strings"

	"studyabroad-backend/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AdminRepository struct {
	DB *pgxpool.Pool
}

func NewAdminRepository(db *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{DB: db}
}

const adminColumns = `id, email, password_hash, name, role, created_at`

// Create inserts a new account. Email is stored lowercased.
func (r *AdminRepository) Create(ctx context.Context, a *models.Admin) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.Email = strings.ToLower(strings.TrimSpace(a.Email))

	query := `
		INSERT INTO admins (id, email, password_hash, name, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`
	err := r.DB.QueryRow(ctx, query, a.ID, a.Email, a.PasswordHash, a.Name, string(a.Role)).Scan(&a.CreatedAt)
	return translate(err)
}

func (r *AdminRepository) Get(ctx context.Context, id string) (*models.Admin, error) {
	if !isUUID(id) {
		return nil, ErrNotFound
	}
	row := r.DB.QueryRow(ctx, `SELECT `+adminColumns+` FROM admins WHERE id = $1`, id)
	return scanAdmin(row)
}

func (r *AdminRepository) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT `+adminColumns+` FROM admins WHERE email = $1`,
		strings.ToLower(strings.TrimSpace(email)),
	)
	return scanAdmin(row)
}

// List returns every account, newest first.
func (r *AdminRepository) List(ctx context.Context) ([]models.Admin, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+adminColumns+` FROM admins ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	admins := []models.Admin{}
	for rows.Next() {
		a, err := scanAdmin(rows)
		if err != nil {
			return nil, err
		}
		admins = append(admins, *a)
	}
	return admins, rows.Err()
}

// ListOperators returns OPERATOR accounts with their assigned lead counts, by name.
func (r *AdminRepository) ListOperators(ctx context.Context) ([]models.Operator, error) {
	query := `
		SELECT a.id, a.name, a.email, COUNT(c.id)
		FROM admins a
		LEFT JOIN contacts c ON c.assigned_to_id = a.id
		WHERE a.role = $1
		GROUP BY a.id, a.name, a.email
		ORDER BY a.name ASC
	`
	rows, err := r.DB.Query(ctx, query, string(models.RoleOperator))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ops := []models.Operator{}
	for rows.Next() {
		var op models.Operator
		if err := rows.Scan(&op.ID, &op.Name, &op.Email, &op.AssignedLeadCount); err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, rows.Err()
}

// Delete removes an account after check approves the locked row. The account's
// leads are unassigned in the same transaction; its notes and clock records cascade.
func (r *AdminRepository) Delete(ctx context.Context, id string, check func(target *models.Admin) error) error {
	if !isUUID(id) {
		return ErrNotFound
	}

	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete admin: %w", err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `SELECT `+adminColumns+` FROM admins WHERE id = $1 FOR UPDATE`, id)
	target, err := scanAdmin(row)
	if err != nil {
		return err
	}

	if check != nil {
		if err := check(target); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(ctx, `UPDATE contacts SET assigned_to_id = NULL WHERE assigned_to_id = $1`, id); err != nil {
		return fmt.Errorf("release leads: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM admins WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete admin: %w", err)
	}

	return tx.Commit(ctx)
}

// UpsertSuperAdmin creates the account or resets its role and password.
func (r *AdminRepository) UpsertSuperAdmin(ctx context.Context, email, passwordHash, name string) (bool, error) {
	query := `
		INSERT INTO admins (id, email, password_hash, name, role)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (email) DO UPDATE
		SET password_hash = EXCLUDED.password_hash, role = EXCLUDED.role
		RETURNING (xmax = 0)
	`
	var created bool
	err := r.DB.QueryRow(ctx, query,
		uuid.NewString(),
		strings.ToLower(strings.TrimSpace(email)),
		passwordHash,
		name,
		string(models.RoleSuperAdmin),
	).Scan(&created)
	return created, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAdmin(row rowScanner) (*models.Admin, error) {
	var a models.Admin
	var role string
	if err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Name, &role, &a.CreatedAt); err != nil {
		return nil, translate(err)
	}
	a.Role = models.Role(role)
	return &a, nil
}
