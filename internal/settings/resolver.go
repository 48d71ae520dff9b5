package settings

import (
	"context"
	"encoding/json"
	"reflect"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/globalpath/platform/pkg/logger"
)

// DefaultCacheTTL is how long a resolved snapshot is served without touching
// the store.
const DefaultCacheTTL = 5 * time.Minute

// Resolver merges persisted settings over hard-coded, env-seeded defaults and
// memoizes the result for a fixed window. There is one resolver per process;
// the cache is advisory, so concurrent resolutions race benignly and the
// last one wins.
type Resolver struct {
	store Store
	ttl   time.Duration
	now   func() time.Time

	mu        sync.RWMutex
	cached    *Resolved
	fetchedAt time.Time
}

// ResolverOption customizes a Resolver.
type ResolverOption func(*Resolver)

// WithCacheTTL overrides the cache window.
func WithCacheTTL(ttl time.Duration) ResolverOption {
	return func(r *Resolver) { r.ttl = ttl }
}

// WithClock injects a clock, used by tests to step past the cache window.
func WithClock(now func() time.Time) ResolverOption {
	return func(r *Resolver) { r.now = now }
}

// NewResolver creates a settings resolver backed by the given store.
func NewResolver(store Store, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		store: store,
		ttl:   DefaultCacheTTL,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Settings returns the merged settings snapshot. It never fails: on a store
// error it logs the cause and returns defaults seeded from the environment.
func (r *Resolver) Settings(ctx context.Context) *Resolved {
	resolved, err := r.resolve(ctx)
	if err != nil {
		logger.WithContext(ctx).Warn("settings store unavailable, serving defaults", zap.Error(err))
		return Defaults()
	}
	return resolved
}

// Per-category helpers. Unlike Settings, these propagate the store error so
// integration factories can apply their own env-only fallback.

// GeneralSettings returns the merged general category.
func (r *Resolver) GeneralSettings(ctx context.Context) (General, error) {
	resolved, err := r.resolve(ctx)
	if err != nil {
		return General{}, err
	}
	return resolved.General, nil
}

// BrandingSettings returns the merged branding category.
func (r *Resolver) BrandingSettings(ctx context.Context) (Branding, error) {
	resolved, err := r.resolve(ctx)
	if err != nil {
		return Branding{}, err
	}
	return resolved.Branding, nil
}

// EmailSettings returns the merged email category.
func (r *Resolver) EmailSettings(ctx context.Context) (Email, error) {
	resolved, err := r.resolve(ctx)
	if err != nil {
		return Email{}, err
	}
	return resolved.Email, nil
}

// PaymentSettings returns the merged payments category.
func (r *Resolver) PaymentSettings(ctx context.Context) (Payments, error) {
	resolved, err := r.resolve(ctx)
	if err != nil {
		return Payments{}, err
	}
	return resolved.Payments, nil
}

// StorageSettings returns the merged storage category.
func (r *Resolver) StorageSettings(ctx context.Context) (Storage, error) {
	resolved, err := r.resolve(ctx)
	if err != nil {
		return Storage{}, err
	}
	return resolved.Storage, nil
}

// SecuritySettings returns the merged security category.
func (r *Resolver) SecuritySettings(ctx context.Context) (Security, error) {
	resolved, err := r.resolve(ctx)
	if err != nil {
		return Security{}, err
	}
	return resolved.Security, nil
}

// NotificationSettings returns the merged notifications category.
func (r *Resolver) NotificationSettings(ctx context.Context) (Notifications, error) {
	resolved, err := r.resolve(ctx)
	if err != nil {
		return Notifications{}, err
	}
	return resolved.Notifications, nil
}

// IntegrationSettings returns the merged integrations category.
func (r *Resolver) IntegrationSettings(ctx context.Context) (Integrations, error) {
	resolved, err := r.resolve(ctx)
	if err != nil {
		return Integrations{}, err
	}
	return resolved.Integrations, nil
}

// ClearCache unconditionally invalidates the cached snapshot. Every settings
// write path calls this.
func (r *Resolver) ClearCache() {
	r.mu.Lock()
	r.cached = nil
	r.mu.Unlock()
}

// resolve returns the cached snapshot while it is fresh, otherwise reads the
// store and rebuilds it.
func (r *Resolver) resolve(ctx context.Context) (*Resolved, error) {
	r.mu.RLock()
	if r.cached != nil && r.now().Sub(r.fetchedAt) < r.ttl {
		cached := r.cached
		r.mu.RUnlock()
		return cached, nil
	}
	r.mu.RUnlock()

	rows, err := r.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	resolved := Defaults()
	for _, row := range rows {
		applyRow(resolved, row)
	}

	r.mu.Lock()
	r.cached = resolved
	r.fetchedAt = r.now()
	r.mu.Unlock()

	return resolved, nil
}

// applyRow overlays one persisted row on the resolved object. Unknown
// categories and keys are ignored without logging: the admin UI may write
// keys ahead of a schema update.
func applyRow(resolved *Resolved, row Row) {
	target := resolved.categoryTarget(row.Category)
	if target == nil {
		return
	}

	value := reflect.ValueOf(target).Elem()
	structType := value.Type()

	for i := 0; i < structType.NumField(); i++ {
		tag := strings.Split(structType.Field(i).Tag.Get("json"), ",")[0]
		if tag != row.Key {
			continue
		}

		field := value.Field(i)
		decoded := reflect.New(field.Type())
		if err := json.Unmarshal([]byte(row.Value), decoded.Interface()); err == nil {
			field.Set(decoded.Elem())
			return
		}

		// Not valid JSON: treat the stored value as a raw string when the
		// field is a string. Typed fields keep their default so they never
		// silently degrade to the wrong type.
		if field.Kind() == reflect.String {
			field.SetString(row.Value)
		}
		return
	}
}
