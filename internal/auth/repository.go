package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/globalpath/platform/pkg/common"
	"github.com/globalpath/platform/pkg/models"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const userColumns = `id, email, password_hash, first_name, last_name, role,
	is_active, totp_secret, profile_image, last_login_at, created_at, updated_at`

// GetUserByEmail retrieves a user by email
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`
	return r.scanUser(r.db.QueryRow(ctx, query, email))
}

// GetUserByID retrieves a user by ID
func (r *Repository) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.db.QueryRow(ctx, query, id))
}

// CreateUser creates a new back-office user
func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, first_name, last_name, role, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.Role,
		user.IsActive,
	).Scan(&user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		return common.NewInternalError("failed to create user", err)
	}

	return nil
}

// UpdateUser updates mutable user fields
func (r *Repository) UpdateUser(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET email = $2, password_hash = $3, first_name = $4, last_name = $5,
			role = $6, is_active = $7, profile_image = $8, updated_at = NOW()
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.Role,
		user.IsActive,
		user.ProfileImage,
	)
	if err != nil {
		return common.NewInternalError("failed to update user", err)
	}
	if tag.RowsAffected() == 0 {
		return common.NewNotFoundError("user not found", nil)
	}

	return nil
}

// UpdateLastLogin stamps the last successful login time
func (r *Repository) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `UPDATE users SET last_login_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return common.NewInternalError("failed to update last login", err)
	}
	return nil
}

// SetTOTPSecret stores or clears a user's TOTP secret
func (r *Repository) SetTOTPSecret(ctx context.Context, id uuid.UUID, secret *string) error {
	_, err := r.db.Exec(ctx, `UPDATE users SET totp_secret = $2, updated_at = NOW() WHERE id = $1`, id, secret)
	if err != nil {
		return common.NewInternalError("failed to update totp secret", err)
	}
	return nil
}

func (r *Repository) scanUser(row pgx.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.Role,
		&user.IsActive,
		&user.TOTPSecret,
		&user.ProfileImage,
		&user.LastLoginAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFoundError("user not found", nil)
		}
		return nil, common.NewInternalError("failed to scan user", err)
	}

	return user, nil
}
