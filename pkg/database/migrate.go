package database

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/globalpath/platform/pkg/config"
)

// RunMigrations applies all pending migrations from the given source path
// (e.g. "file://migrations"). A no-change result is not an error.
func RunMigrations(cfg *config.DatabaseConfig, sourcePath string) error {
	m, err := migrate.New(sourcePath, cfg.URL())
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	return nil
}
