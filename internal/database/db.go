package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"opentitles/api/internal/database/migrations"
)

// DB represents the SQLite database connection
type DB struct {
	*sqlx.DB
}

// NewDB opens the SQLite database, applies pragmas and runs the embedded
// migrations.
func NewDB(ctx context.Context, cfg *Config) (*DB, error) {
	dir := filepath.Dir(cfg.DBPath)
	if dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory for database: %w", err)
		}
	}

	if cfg.MaxIdleConns <= 0 {
		cfg.MaxIdleConns = defaultMaxIdleConns
	}
	if cfg.MaxOpenConns <= 0 {
		cfg.MaxOpenConns = defaultMaxOpenConns
	}

	// WAL mode allows concurrent reads while writing. Connection parameters are
	// applied by the driver to every pooled connection.
	dsn := fmt.Sprintf("%s?_journal=WAL&_synchronous=NORMAL&_busy_timeout=%d&_cache_size=%d",
		cfg.DBPath, cfg.BusyTimeoutMS, cfg.CacheSizeKB)
	log.Info().Str("path", cfg.DBPath).Msg("Opening SQLite database")

	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	migrationFiles, err := migrations.Embedded()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to load migrations: %w", err)
	}

	if err := migrations.RunMigrations(db.DB, migrationFiles); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Debug().Msg("Database migrations completed")

	pingCtx, cancel := context.WithTimeout(ctx, DefaultConnectTimeout)
	defer cancel()
	if err = db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}

	log.Info().Msg("Database connection successful")
	return &DB{db}, nil
}

// Rollback reverts the last n applied migrations.
func (db *DB) Rollback(n int) error {
	if n <= 0 {
		return fmt.Errorf("rollback count must be positive, got %d", n)
	}

	migrationFiles, err := migrations.Embedded()
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}
	if err := migrations.RollbackMigrations(db.DB.DB, migrationFiles, n); err != nil {
		return fmt.Errorf("failed to roll back migrations: %w", err)
	}

	log.Info().Int("count", n).Msg("Database migrations rolled back")
	return nil
}
