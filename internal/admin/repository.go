package admin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/globalpath/platform/pkg/common"
	"github.com/globalpath/platform/pkg/logger"
	"github.com/globalpath/platform/pkg/models"
)

// Repository handles database operations for back-office functions
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new admin repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// ListUsers retrieves staff accounts newest first
func (r *Repository) ListUsers(ctx context.Context, limit, offset int) ([]*models.User, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, common.NewInternalError("failed to count users", err)
	}

	query := `
		SELECT id, email, first_name, last_name, role, is_active, profile_image,
			last_login_at, created_at, updated_at
		FROM users
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, common.NewInternalError("failed to list users", err)
	}
	defer rows.Close()

	users := make([]*models.User, 0)
	for rows.Next() {
		user := &models.User{}
		err := rows.Scan(
			&user.ID, &user.Email, &user.FirstName, &user.LastName, &user.Role,
			&user.IsActive, &user.ProfileImage, &user.LastLoginAt,
			&user.CreatedAt, &user.UpdatedAt,
		)
		if err != nil {
			return nil, 0, common.NewInternalError("failed to scan user", err)
		}
		users = append(users, user)
	}
	return users, total, nil
}

// GetUserByID retrieves a staff account by ID
func (r *Repository) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `
		SELECT id, email, first_name, last_name, role, is_active, profile_image,
			last_login_at, created_at, updated_at
		FROM users WHERE id = $1`

	user := &models.User{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&user.ID, &user.Email, &user.FirstName, &user.LastName, &user.Role,
		&user.IsActive, &user.ProfileImage, &user.LastLoginAt,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFoundError("user not found", err)
		}
		return nil, common.NewInternalError("failed to get user", err)
	}
	return user, nil
}

// CreateUser inserts a staff account
func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, first_name, last_name, role, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`

	user.ID = uuid.New()
	err := r.db.QueryRow(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.FirstName, user.LastName,
		user.Role, user.IsActive,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return common.NewInternalError("failed to create user", err)
	}
	return nil
}

// UpdateUserStatus enables or disables a staff account
func (r *Repository) UpdateUserStatus(ctx context.Context, id uuid.UUID, isActive bool) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET is_active = $2, updated_at = NOW() WHERE id = $1`, id, isActive)
	if err != nil {
		return common.NewInternalError("failed to update user status", err)
	}
	if tag.RowsAffected() == 0 {
		return common.NewNotFoundError("user not found", nil)
	}
	return nil
}

// UpdateUserRole changes a staff account's role
func (r *Repository) UpdateUserRole(ctx context.Context, id uuid.UUID, role models.UserRole) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET role = $2, updated_at = NOW() WHERE id = $1`, id, role)
	if err != nil {
		return common.NewInternalError("failed to update user role", err)
	}
	if tag.RowsAffected() == 0 {
		return common.NewNotFoundError("user not found", nil)
	}
	return nil
}

// GetDashboardStats computes the landing page counters in one round trip
func (r *Repository) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM appointments WHERE preferred_at::date = CURRENT_DATE),
			(SELECT COUNT(*) FROM appointments WHERE status = 'pending'),
			(SELECT COALESCE(SUM(amount), 0) FROM payments
				WHERE status = 'succeeded'
				AND date_trunc('month', updated_at) = date_trunc('month', NOW())),
			(SELECT COUNT(*) FROM payments
				WHERE status = 'succeeded'
				AND date_trunc('month', updated_at) = date_trunc('month', NOW())),
			(SELECT COUNT(*) FROM countries WHERE is_published = true),
			(SELECT COUNT(*) FROM universities WHERE is_published = true),
			(SELECT COUNT(*) FROM programs WHERE is_published = true),
			(SELECT COUNT(*) FROM blog_posts WHERE is_published = true),
			(SELECT COUNT(*) FROM inquiries WHERE status = 'new')`

	stats := &DashboardStats{}
	err := r.db.QueryRow(ctx, query).Scan(
		&stats.AppointmentsToday, &stats.PendingAppointments,
		&stats.RevenueThisMonth, &stats.PaymentsThisMonth,
		&stats.PublishedCountries, &stats.PublishedUniversities,
		&stats.PublishedPrograms, &stats.PublishedPosts,
		&stats.NewInquiries,
	)
	if err != nil {
		return nil, common.NewInternalError("failed to get dashboard stats", err)
	}
	return stats, nil
}

// InsertAuditLog records a back-office mutation. Failures are logged and
// swallowed so the mutation itself never rolls back over auditing.
func (r *Repository) InsertAuditLog(ctx context.Context, adminID uuid.UUID, action, targetType string, targetID uuid.UUID, metadata map[string]interface{}) {
	var metaJSON []byte
	if metadata != nil {
		metaJSON, _ = json.Marshal(metadata)
	}

	_, err := r.db.Exec(ctx, `
		INSERT INTO audit_logs (id, admin_id, action, target_type, target_id, metadata)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.New(), adminID, action, targetType, targetID, metaJSON,
	)
	if err != nil {
		logger.WithContext(ctx).Warn("Failed to write audit log",
			zap.String("action", action),
			zap.Error(err),
		)
	}
}

// ListAuditLogs retrieves audit entries newest first with optional filters
func (r *Repository) ListAuditLogs(ctx context.Context, limit, offset int, filter *AuditLogFilter) ([]*AuditLog, int64, error) {
	whereClause := "WHERE 1=1"
	args := []any{}
	argPos := 1

	if filter != nil {
		if filter.AdminID != nil {
			whereClause += fmt.Sprintf(" AND al.admin_id = $%d", argPos)
			args = append(args, *filter.AdminID)
			argPos++
		}
		if filter.Action != "" {
			whereClause += fmt.Sprintf(" AND al.action = $%d", argPos)
			args = append(args, filter.Action)
			argPos++
		}
		if filter.TargetType != "" {
			whereClause += fmt.Sprintf(" AND al.target_type = $%d", argPos)
			args = append(args, filter.TargetType)
			argPos++
		}
	}

	var total int64
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM audit_logs al %s`, whereClause)
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, common.NewInternalError("failed to count audit logs", err)
	}

	query := fmt.Sprintf(`
		SELECT al.id, al.admin_id, COALESCE(u.email, ''), al.action, al.target_type,
			al.target_id, al.metadata, al.created_at
		FROM audit_logs al
		LEFT JOIN users u ON u.id = al.admin_id
		%s
		ORDER BY al.created_at DESC
		LIMIT $%d OFFSET $%d`, whereClause, argPos, argPos+1)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, common.NewInternalError("failed to list audit logs", err)
	}
	defer rows.Close()

	logs := make([]*AuditLog, 0)
	for rows.Next() {
		entry := &AuditLog{}
		var metaJSON []byte
		err := rows.Scan(
			&entry.ID, &entry.AdminID, &entry.AdminEmail, &entry.Action,
			&entry.TargetType, &entry.TargetID, &metaJSON, &entry.CreatedAt,
		)
		if err != nil {
			return nil, 0, common.NewInternalError("failed to scan audit log", err)
		}
		if len(metaJSON) > 0 {
			_ = json.Unmarshal(metaJSON, &entry.Metadata)
		}
		logs = append(logs, entry)
	}
	return logs, total, nil
}
