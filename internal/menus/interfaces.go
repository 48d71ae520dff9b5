package menus

import (
	"context"

	"github.com/google/uuid"

	"github.com/globalpath/platform/pkg/models"
)

// RepositoryInterface defines the interface for menu repository operations
type RepositoryInterface interface {
	CreateMenuItem(ctx context.Context, item *models.MenuItem) error
	GetMenuItemByID(ctx context.Context, id uuid.UUID) (*models.MenuItem, error)
	ListMenuItems(ctx context.Context, visibleOnly bool) ([]*models.MenuItem, error)
	UpdateMenuItem(ctx context.Context, item *models.MenuItem) error
	DeleteMenuItem(ctx context.Context, id uuid.UUID) error
}
