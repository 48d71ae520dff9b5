package storage

import (
	"context"

	"github.com/globalpath/platform/internal/settings"
	"github.com/globalpath/platform/pkg/logger"
	"go.uber.org/zap"
)

// clientBuilder builds an object store client for the given settings. It is a
// field so tests can substitute a fake without a network round trip.
type clientBuilder func(ctx context.Context, cfg settings.Storage) (ObjectStore, error)

// Factory produces object store clients from the current storage settings.
// A nil client with nil error means S3 is not configured and uploads should
// go to local disk.
type Factory struct {
	resolver *settings.Resolver
	build    clientBuilder
}

// NewFactory creates a storage factory bound to the settings resolver
func NewFactory(resolver *settings.Resolver) *Factory {
	return &Factory{
		resolver: resolver,
		build: func(ctx context.Context, cfg settings.Storage) (ObjectStore, error) {
			client, err := NewS3Client(ctx, cfg)
			if err != nil {
				return nil, err
			}
			if client == nil {
				return nil, nil
			}
			return client, nil
		},
	}
}

// Client resolves the current storage settings and builds a client for them.
// When the settings store is unreachable the environment-seeded defaults are
// used instead, so a working S3 environment keeps working through outages.
func (f *Factory) Client(ctx context.Context) (ObjectStore, settings.Storage, error) {
	cfg, err := f.resolver.StorageSettings(ctx)
	if err != nil {
		logger.Get().Warn("Storage settings unavailable, using environment configuration",
			zap.Error(err),
		)
		cfg = settings.Defaults().Storage
	}

	client, err := f.build(ctx, cfg)
	if err != nil {
		return nil, cfg, err
	}

	return client, cfg, nil
}
