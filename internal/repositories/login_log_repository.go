package repositories

import (
	"context"

	"studyabroad-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type LoginLogRepository struct {
	DB *pgxpool.Pool
}

func NewLoginLogRepository(db *pgxpool.Pool) *LoginLogRepository {
	return &LoginLogRepository{DB: db}
}

// CreateLoginLog records a new login event
func (r *LoginLogRepository) CreateLoginLog(ctx context.Context, adminID, ipAddress, userAgent string) (int, error) {
	query := `
		INSERT INTO login_logs (admin_id, login_time, ip_address, user_agent)
		VALUES ($1, NOW(), $2, $3)
		RETURNING id
	`

	var logID int
	err := r.DB.QueryRow(ctx, query, adminID, nullable(ipAddress), nullable(userAgent)).Scan(&logID)
	if err != nil {
		return 0, err
	}

	return logID, nil
}

// UpdateLogoutTimeByAdmin records logout for the most recent open login of an admin
func (r *LoginLogRepository) UpdateLogoutTimeByAdmin(ctx context.Context, adminID string) error {
	query := `
		UPDATE login_logs
		SET logout_time = NOW()
		WHERE id = (
			SELECT id FROM login_logs
			WHERE admin_id = $1 AND logout_time IS NULL
			ORDER BY login_time DESC
			LIMIT 1
		)
	`

	_, err := r.DB.Exec(ctx, query, adminID)
	return err
}

// ListAllLoginLogs retrieves all login/logout logs with admin details
func (r *LoginLogRepository) ListAllLoginLogs(ctx context.Context) ([]models.LoginLog, error) {
	query := `
		SELECT ll.id, ll.admin_id, a.name, a.email, a.role,
		       ll.login_time, ll.logout_time, ll.ip_address, ll.user_agent
		FROM login_logs ll
		JOIN admins a ON ll.admin_id = a.id
		ORDER BY ll.login_time DESC
		LIMIT 500
	`

	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []models.LoginLog{}
	for rows.Next() {
		var l models.LoginLog
		var role string
		var ip, agent *string
		if err := rows.Scan(&l.ID, &l.AdminID, &l.AdminName, &l.Email, &role, &l.LoginTime, &l.LogoutTime, &ip, &agent); err != nil {
			return nil, err
		}
		l.Role = models.Role(role)
		l.IPAddress = deref(ip)
		l.UserAgent = deref(agent)
		logs = append(logs, l)
	}

	return logs, rows.Err()
}
