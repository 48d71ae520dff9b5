package menus

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/globalpath/platform/pkg/cache"
	"github.com/globalpath/platform/pkg/common"
	"github.com/globalpath/platform/pkg/logger"
	"github.com/globalpath/platform/pkg/models"
)

// Node is a navigation entry with its nested children, ordered by position.
type Node struct {
	ID       uuid.UUID `json:"id"`
	Label    string    `json:"label"`
	URL      string    `json:"url"`
	Position int       `json:"position"`
	Children []*Node   `json:"children"`
}

// Service handles navigation menu business logic
type Service struct {
	repo  RepositoryInterface
	cache *cache.Manager
}

// NewService creates a new menus service
func NewService(repo RepositoryInterface) *Service {
	return &Service{repo: repo}
}

// SetCache attaches an optional cache manager for the public tree.
func (s *Service) SetCache(cm *cache.Manager) {
	s.cache = cm
}

// PublicMenu returns the visible navigation tree.
func (s *Service) PublicMenu(ctx context.Context) ([]*Node, error) {
	if s.cache != nil {
		var cached []*Node
		err := s.cache.GetOrSet(ctx, cache.Keys.Menu(), cache.TTL.Long(), &cached, func() (interface{}, error) {
			return s.buildTree(ctx)
		})
		if err == nil {
			if cached == nil {
				cached = []*Node{}
			}
			return cached, nil
		}
	}
	return s.buildTree(ctx)
}

func (s *Service) buildTree(ctx context.Context) ([]*Node, error) {
	items, err := s.repo.ListMenuItems(ctx, true)
	if err != nil {
		return nil, err
	}
	return BuildTree(items), nil
}

// BuildTree assembles a nested tree from a position-ordered flat list.
// Items whose parent is hidden or missing surface at the root so they
// stay reachable.
func BuildTree(items []*models.MenuItem) []*Node {
	nodes := make(map[uuid.UUID]*Node, len(items))
	for _, item := range items {
		nodes[item.ID] = &Node{
			ID:       item.ID,
			Label:    item.Label,
			URL:      item.URL,
			Position: item.Position,
			Children: []*Node{},
		}
	}

	roots := make([]*Node, 0)
	for _, item := range items {
		node := nodes[item.ID]
		if item.ParentID != nil {
			if parent, ok := nodes[*item.ParentID]; ok {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}
	return roots
}

// ListMenuItems returns the flat list for the back office.
func (s *Service) ListMenuItems(ctx context.Context) ([]*models.MenuItem, error) {
	return s.repo.ListMenuItems(ctx, false)
}

// MenuItemRequest is the admin payload for create/update of an entry.
type MenuItemRequest struct {
	ParentID  *uuid.UUID `json:"parent_id"`
	Label     string     `json:"label" binding:"required,max=80"`
	URL       string     `json:"url" binding:"required,max=500"`
	Position  int        `json:"position"`
	IsVisible bool       `json:"is_visible"`
}

// CreateMenuItem creates a navigation entry.
func (s *Service) CreateMenuItem(ctx context.Context, req *MenuItemRequest) (*models.MenuItem, error) {
	if req.ParentID != nil {
		parent, err := s.repo.GetMenuItemByID(ctx, *req.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.ParentID != nil {
			return nil, common.NewValidationError("menus support one level of nesting")
		}
	}

	item := &models.MenuItem{
		ParentID:  req.ParentID,
		Label:     req.Label,
		URL:       req.URL,
		Position:  req.Position,
		IsVisible: req.IsVisible,
	}
	if err := s.repo.CreateMenuItem(ctx, item); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return item, nil
}

// UpdateMenuItem updates a navigation entry.
func (s *Service) UpdateMenuItem(ctx context.Context, id uuid.UUID, req *MenuItemRequest) (*models.MenuItem, error) {
	item, err := s.repo.GetMenuItemByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.ParentID != nil {
		if *req.ParentID == id {
			return nil, common.NewValidationError("a menu item cannot be its own parent")
		}
		parent, err := s.repo.GetMenuItemByID(ctx, *req.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.ParentID != nil {
			return nil, common.NewValidationError("menus support one level of nesting")
		}
	}

	item.ParentID = req.ParentID
	item.Label = req.Label
	item.URL = req.URL
	item.Position = req.Position
	item.IsVisible = req.IsVisible
	if err := s.repo.UpdateMenuItem(ctx, item); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return item, nil
}

// DeleteMenuItem removes a navigation entry.
func (s *Service) DeleteMenuItem(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteMenuItem(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *Service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cache.Keys.Menu()); err != nil {
		logger.WithContext(ctx).Warn("Failed to invalidate menu cache", zap.Error(err))
	}
}
