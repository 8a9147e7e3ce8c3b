package database

import (
	"context"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Migrator applies the embedded SQL files in name order, each exactly once.
type Migrator struct {
	pool  *pgxpool.Pool
	files fs.FS
	log   *zap.Logger
}

func NewMigrator(pool *pgxpool.Pool, files fs.FS, log *zap.Logger) *Migrator {
	return &Migrator{pool: pool, files: files, log: log}
}

// RunMigrations executes all pending migrations. Each file runs in its own
// transaction together with its tracking row.
func (m *Migrator) RunMigrations(ctx context.Context) error {
	m.log.Info("starting database migrations")

	if err := m.createMigrationsTable(ctx); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied, err := m.getAppliedMigrations(ctx)
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}

	files, err := migrationFiles(m.files)
	if err != nil {
		return fmt.Errorf("failed to read migrations: %w", err)
	}

	todo := pending(files, applied)
	for _, filename := range todo {
		content, err := fs.ReadFile(m.files, filename)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", filename, err)
		}

		m.log.Info("running migration", zap.String("file", filename))
		if err := m.apply(ctx, filename, string(content)); err != nil {
			return fmt.Errorf("failed to run migration %s: %w", filename, err)
		}
	}

	if len(todo) > 0 {
		m.log.Info("migrations applied", zap.Int("count", len(todo)))
	} else {
		m.log.Info("database schema is up to date")
	}
	return nil
}

func (m *Migrator) apply(ctx context.Context, filename, sql string) error {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, sql); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO schema_migrations (filename)
		VALUES ($1)
		ON CONFLICT (filename) DO NOTHING`, filename); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (m *Migrator) createMigrationsTable(ctx context.Context) error {
	_, err := m.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			id SERIAL PRIMARY KEY,
			filename VARCHAR(255) UNIQUE NOT NULL,
			applied_at TIMESTAMPTZ DEFAULT NOW()
		)`)
	return err
}

func (m *Migrator) getAppliedMigrations(ctx context.Context) (map[string]bool, error) {
	applied := make(map[string]bool)

	rows, err := m.pool.Query(ctx, "SELECT filename FROM schema_migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var filename string
		if err := rows.Scan(&filename); err != nil {
			return nil, err
		}
		applied[filename] = true
	}
	return applied, rows.Err()
}

// migrationFiles lists the .sql files at the root of fsys, sorted by name.
func migrationFiles(fsys fs.FS) ([]string, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

func pending(files []string, applied map[string]bool) []string {
	var out []string
	for _, f := range files {
		if !applied[f] {
			out = append(out, f)
		}
	}
	return out
}
