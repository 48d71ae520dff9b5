package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/globalpath/platform/pkg/models"
)

// RepositoryInterface defines the interface for auth repository operations
type RepositoryInterface interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
	UpdateUser(ctx context.Context, user *models.User) error
	UpdateLastLogin(ctx context.Context, id uuid.UUID) error
	SetTOTPSecret(ctx context.Context, id uuid.UUID, secret *string) error
}
