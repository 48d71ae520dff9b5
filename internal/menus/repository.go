package menus

import (
	"context"
	"errors"
	"fmt"

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

const menuItemColumns = `id, parent_id, label, url, position, is_visible, created_at, updated_at`

// CreateMenuItem inserts a navigation entry
func (r *Repository) CreateMenuItem(ctx context.Context, item *models.MenuItem) error {
	query := `
		INSERT INTO menu_items (id, parent_id, label, url, position, is_visible)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`

	item.ID = uuid.New()
	err := r.db.QueryRow(ctx, query,
		item.ID, item.ParentID, item.Label, item.URL, item.Position, item.IsVisible,
	).Scan(&item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return common.NewInternalError("failed to create menu item", err)
	}
	return nil
}

// GetMenuItemByID retrieves a navigation entry by ID
func (r *Repository) GetMenuItemByID(ctx context.Context, id uuid.UUID) (*models.MenuItem, error) {
	query := fmt.Sprintf(`SELECT %s FROM menu_items WHERE id = $1`, menuItemColumns)

	item := &models.MenuItem{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&item.ID, &item.ParentID, &item.Label, &item.URL, &item.Position,
		&item.IsVisible, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFoundError("menu item not found", err)
		}
		return nil, common.NewInternalError("failed to get menu item", err)
	}
	return item, nil
}

// ListMenuItems returns entries ordered for tree assembly
func (r *Repository) ListMenuItems(ctx context.Context, visibleOnly bool) ([]*models.MenuItem, error) {
	query := fmt.Sprintf(`SELECT %s FROM menu_items`, menuItemColumns)
	if visibleOnly {
		query += ` WHERE is_visible = true`
	}
	query += ` ORDER BY position, label`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, common.NewInternalError("failed to list menu items", err)
	}
	defer rows.Close()

	items := make([]*models.MenuItem, 0)
	for rows.Next() {
		item := &models.MenuItem{}
		err := rows.Scan(
			&item.ID, &item.ParentID, &item.Label, &item.URL, &item.Position,
			&item.IsVisible, &item.CreatedAt, &item.UpdatedAt,
		)
		if err != nil {
			return nil, common.NewInternalError("failed to scan menu item", err)
		}
		items = append(items, item)
	}
	return items, nil
}

// UpdateMenuItem updates a navigation entry
func (r *Repository) UpdateMenuItem(ctx context.Context, item *models.MenuItem) error {
	query := `
		UPDATE menu_items
		SET parent_id = $2, label = $3, url = $4, position = $5, is_visible = $6,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRow(ctx, query,
		item.ID, item.ParentID, item.Label, item.URL, item.Position, item.IsVisible,
	).Scan(&item.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.NewNotFoundError("menu item not found", err)
		}
		return common.NewInternalError("failed to update menu item", err)
	}
	return nil
}

// DeleteMenuItem removes a navigation entry and re-parents its children to root
func (r *Repository) DeleteMenuItem(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return common.NewInternalError("failed to begin transaction", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `UPDATE menu_items SET parent_id = NULL WHERE parent_id = $1`, id); err != nil {
		return common.NewInternalError("failed to re-parent menu items", err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM menu_items WHERE id = $1`, id)
	if err != nil {
		return common.NewInternalError("failed to delete menu item", err)
	}
	if tag.RowsAffected() == 0 {
		return common.NewNotFoundError("menu item not found", nil)
	}

	if err := tx.Commit(ctx); err != nil {
		return common.NewInternalError("failed to commit transaction", err)
	}
	return nil
}
