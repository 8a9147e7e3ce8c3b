package repositories

import (
	"context"

	"studyabroad-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type AdminActionLogRepository struct {
	DB *pgxpool.Pool
}

func NewAdminActionLogRepository(db *pgxpool.Pool) *AdminActionLogRepository {
	return &AdminActionLogRepository{DB: db}
}

// CreateActionLog records an admin action
func (r *AdminActionLogRepository) CreateActionLog(ctx context.Context, log *models.AdminActionLog) error {
	query := `
		INSERT INTO admin_action_logs (
			admin_id, action_type, target_type, target_id, description, ip_address, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`

	_, err := r.DB.Exec(ctx, query,
		log.AdminID, log.ActionType, log.TargetType, log.TargetID, log.Description, log.IPAddress,
	)

	return err
}

// ListAllActionLogs retrieves the most recent admin actions with admin details
func (r *AdminActionLogRepository) ListAllActionLogs(ctx context.Context) ([]models.AdminActionLog, error) {
	query := `
		SELECT al.id, al.admin_id, a.name, a.email,
		       al.action_type, al.target_type, al.target_id, al.description, al.ip_address, al.created_at
		FROM admin_action_logs al
		JOIN admins a ON al.admin_id = a.id
		ORDER BY al.created_at DESC
		LIMIT 500
	`

	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []models.AdminActionLog{}
	for rows.Next() {
		var l models.AdminActionLog
		if err := rows.Scan(
			&l.ID, &l.AdminID, &l.AdminName, &l.AdminEmail,
			&l.ActionType, &l.TargetType, &l.TargetID, &l.Description, &l.IPAddress, &l.CreatedAt,
		); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}

	return logs, rows.Err()
}
