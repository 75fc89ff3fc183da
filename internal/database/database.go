// Package database opens the PostgreSQL connection pool and applies schema
// migrations.
package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"moneylovers/internal/logger"
)

// Manager owns the GORM connection pool.
type Manager struct {
	db     *gorm.DB
	config *Config
}

// NewManager connects to PostgreSQL and sizes the pool from config.
func NewManager(config *Config) (*Manager, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  config.DSN(),
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying DB: %w", err)
	}
	if config.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(config.MaxOpenConns)
	}
	if config.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(config.MaxIdleConns)
	}
	if config.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(config.ConnMaxLifetime)
	}

	return &Manager{db: db, config: config}, nil
}

// RunMigrations applies pending migrations from the configured directory.
func (m *Manager) RunMigrations() error {
	log := logger.Named("migrate")
	log.Infow("running database migrations", "source", m.config.MigrationsSource())

	mig, err := OpenMigrations(m.config.MigrationsSource(), m.config.URL())
	if err != nil {
		return err
	}
	defer mig.Close()

	if err := mig.Up(); err != nil {
		return err
	}

	version, _, err := mig.Version()
	if err != nil {
		return err
	}
	log.Infow("database migrations completed", "version", version)
	return nil
}

// DB returns the underlying GORM database instance
func (m *Manager) DB() *gorm.DB {
	return m.db
}

// Close releases the connection pool.
func (m *Manager) Close() error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
