package settings

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/globalpath/platform/pkg/common"
)

// Writer is the admin surface the service depends on: mutations plus the raw
// per-category rows that back them.
type Writer interface {
	UpsertMany(ctx context.Context, category Category, values map[string]string) error
	Delete(ctx context.Context, category Category, key string) error
	ListCategory(ctx context.Context, category Category) ([]Row, error)
}

// Service handles admin mutations of settings. Every successful write
// invalidates the resolver cache so the next read sees fresh values.
type Service struct {
	writer   Writer
	resolver *Resolver
}

// NewService creates a new settings service
func NewService(writer Writer, resolver *Resolver) *Service {
	return &Service{writer: writer, resolver: resolver}
}

// Resolver exposes the resolver for read paths.
func (s *Service) Resolver() *Resolver {
	return s.resolver
}

// GetAll returns the full resolved snapshot.
func (s *Service) GetAll(ctx context.Context) *Resolved {
	return s.resolver.Settings(ctx)
}

// GetCategory returns one resolved category as a JSON-ready value.
func (s *Service) GetCategory(ctx context.Context, category Category) (interface{}, error) {
	if !Known(category) {
		return nil, common.NewBadRequestError(fmt.Sprintf("unknown settings category %q", category), nil)
	}

	resolved := s.resolver.Settings(ctx)
	return resolved.categoryTarget(category), nil
}

// ListOverrides returns the persisted rows for one category, so the admin UI
// can tell overridden values apart from environment-seeded defaults.
func (s *Service) ListOverrides(ctx context.Context, category Category) ([]Row, error) {
	if !Known(category) {
		return nil, common.NewBadRequestError(fmt.Sprintf("unknown settings category %q", category), nil)
	}

	rows, err := s.writer.ListCategory(ctx, category)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []Row{}
	}
	return rows, nil
}

// UpdateCategory persists the given key/value overrides for one category and
// clears the cache. Values are stored JSON-encoded; keys the schema does not
// know yet are stored as-is and ignored by the merge until a field exists.
func (s *Service) UpdateCategory(ctx context.Context, category Category, values map[string]interface{}) error {
	if !Known(category) {
		return common.NewBadRequestError(fmt.Sprintf("unknown settings category %q", category), nil)
	}
	if len(values) == 0 {
		return common.NewBadRequestError("no settings provided", nil)
	}

	encoded := make(map[string]string, len(values))
	for key, value := range values {
		raw, err := json.Marshal(value)
		if err != nil {
			return common.NewBadRequestError(fmt.Sprintf("setting %q is not serializable", key), err)
		}
		encoded[key] = string(raw)
	}

	if err := s.writer.UpsertMany(ctx, category, encoded); err != nil {
		return err
	}

	s.resolver.ClearCache()
	return nil
}

// ResetKey deletes a persisted override so the key reverts to its default.
func (s *Service) ResetKey(ctx context.Context, category Category, key string) error {
	if !Known(category) {
		return common.NewBadRequestError(fmt.Sprintf("unknown settings category %q", category), nil)
	}

	if err := s.writer.Delete(ctx, category, key); err != nil {
		return err
	}

	s.resolver.ClearCache()
	return nil
}
