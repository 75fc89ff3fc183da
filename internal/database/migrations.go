package database

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"

	"moneylovers/internal/logger"
)

// Migrations applies the SQL migrations in a source directory to one database.
type Migrations struct {
	m   *migrate.Migrate
	log *zap.SugaredLogger
}

// OpenMigrations connects golang-migrate to databaseURL using the migrations
// found at source (a file:// URL).
func OpenMigrations(source, databaseURL string) (*Migrations, error) {
	m, err := migrate.New(source, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return &Migrations{m: m, log: logger.Named("migrate")}, nil
}

// Up applies every pending migration. An up-to-date schema is not an error.
func (m *Migrations) Up() error {
	if err := m.m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}
	return nil
}

// Down rolls back the given number of migrations.
func (m *Migrations) Down(steps int) error {
	if steps < 1 {
		return fmt.Errorf("step count must be positive, got %d", steps)
	}
	if err := m.m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration down failed: %w", err)
	}
	return nil
}

// Version reports the applied version. A database without migrations reports 0.
func (m *Migrations) Version() (version uint, dirty bool, err error) {
	version, dirty, err = m.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to get version: %w", err)
	}
	return version, dirty, nil
}

// Force marks version as applied and clears the dirty flag after a failed
// migration was repaired by hand.
func (m *Migrations) Force(version int) error {
	if err := m.m.Force(version); err != nil {
		return fmt.Errorf("force version %d failed: %w", version, err)
	}
	return nil
}

// Close releases the source and database handles.
func (m *Migrations) Close() {
	srcErr, dbErr := m.m.Close()
	if srcErr != nil {
		m.log.Warnw("migrate source close error", "error", srcErr)
	}
	if dbErr != nil {
		m.log.Warnw("migrate database close error", "error", dbErr)
	}
}
