package repositories

import (
	"context"
	"fmt"
	"time"

	"studyabroad-backend/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ClockRepository struct {
	DB *pgxpool.Pool
}

func NewClockRepository(db *pgxpool.Pool) *ClockRepository {
	return &ClockRepository{DB: db}
}

const clockColumns = `id, admin_id, clock_in, clock_out, duration_ms, entry_lat, entry_lng, exit_lat, exit_lng`

// Open inserts an open record. The partial unique index turns a second open
// record for the same admin into ErrDuplicate.
func (r *ClockRepository) Open(ctx context.Context, adminID string, at time.Time, lat, lng *float64) (*models.ClockRecord, error) {
	rec := &models.ClockRecord{
		ID:       uuid.NewString(),
		AdminID:  adminID,
		ClockIn:  at,
		EntryLat: lat,
		EntryLng: lng,
	}

	query := `
		INSERT INTO clock_records (id, admin_id, clock_in, entry_lat, entry_lng)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := r.DB.Exec(ctx, query, rec.ID, rec.AdminID, rec.ClockIn, rec.EntryLat, rec.EntryLng); err != nil {
		return nil, translate(err)
	}
	return rec, nil
}

// Close locks the admin's open record, stamps clock-out and stores the exact
// duration. No open record is ErrNotFound.
func (r *ClockRepository) Close(ctx context.Context, adminID string, at time.Time, lat, lng *float64) (*models.ClockRecord, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin clock out: %w", err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx,
		`SELECT `+clockColumns+` FROM clock_records WHERE admin_id = $1 AND clock_out IS NULL FOR UPDATE`,
		adminID,
	)
	rec, err := scanClock(row)
	if err != nil {
		return nil, err
	}

	if at.Before(rec.ClockIn) {
		at = rec.ClockIn
	}
	duration := at.Sub(rec.ClockIn).Milliseconds()

	query := `
		UPDATE clock_records
		SET clock_out = $2, duration_ms = $3, exit_lat = $4, exit_lng = $5
		WHERE id = $1
	`
	if _, err := tx.Exec(ctx, query, rec.ID, at, duration, lat, lng); err != nil {
		return nil, fmt.Errorf("close clock record: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	rec.ClockOut = &at
	rec.DurationMs = &duration
	rec.ExitLat = lat
	rec.ExitLng = lng
	return rec, nil
}

// Active returns the open record for an admin, or nil.
func (r *ClockRepository) Active(ctx context.Context, adminID string) (*models.ClockRecord, error) {
	if !isUUID(adminID) {
		return nil, nil
	}
	row := r.DB.QueryRow(ctx,
		`SELECT `+clockColumns+` FROM clock_records WHERE admin_id = $1 AND clock_out IS NULL`,
		adminID,
	)
	rec, err := scanClock(row)
	if err == ErrNotFound {
		return nil, nil
	}
	return rec, err
}

// ListAll returns every record with its admin, latest clock-in first.
func (r *ClockRepository) ListAll(ctx context.Context) ([]models.ClockRecord, error) {
	query := `
		SELECT cr.id, cr.admin_id, cr.clock_in, cr.clock_out, cr.duration_ms,
		       cr.entry_lat, cr.entry_lng, cr.exit_lat, cr.exit_lng,
		       a.name, a.email, a.role
		FROM clock_records cr
		JOIN admins a ON a.id = cr.admin_id
		ORDER BY cr.clock_in DESC
	`
	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []models.ClockRecord{}
	for rows.Next() {
		var rec models.ClockRecord
		admin := &models.ClockAdmin{}
		var role string
		if err := rows.Scan(
			&rec.ID, &rec.AdminID, &rec.ClockIn, &rec.ClockOut, &rec.DurationMs,
			&rec.EntryLat, &rec.EntryLng, &rec.ExitLat, &rec.ExitLng,
			&admin.Name, &admin.Email, &role,
		); err != nil {
			return nil, err
		}
		admin.ID = rec.AdminID
		admin.Role = models.Role(role)
		rec.Admin = admin
		records = append(records, rec)
	}
	return records, rows.Err()
}

func scanClock(row rowScanner) (*models.ClockRecord, error) {
	var rec models.ClockRecord
	if err := row.Scan(
		&rec.ID, &rec.AdminID, &rec.ClockIn, &rec.ClockOut, &rec.DurationMs,
		&rec.EntryLat, &rec.EntryLng, &rec.ExitLat, &rec.ExitLng,
	); err != nil {
		return nil, translate(err)
	}
	return &rec, nil
}
