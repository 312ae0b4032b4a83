package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// Config holds SQLite connection settings.
type Config struct {
	// DSN is the database file path or a file: URI.
	DSN string

	// BusyTimeout sets how long to wait for database locks.
	BusyTimeout time.Duration

	// JournalMode sets the SQLite journal mode (WAL, DELETE, MEMORY, ...).
	JournalMode string

	// Synchronous sets the synchronous mode (FULL, NORMAL, OFF).
	Synchronous string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DefaultConfig returns file-backed settings for dsn.
func DefaultConfig(dsn string) Config {
	return Config{
		DSN:             dsn,
		BusyTimeout:     5 * time.Second,
		JournalMode:     "WAL",
		Synchronous:     "NORMAL",
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Hour,
	}
}

// InMemoryConfig returns settings for a private in-memory database. A single
// connection keeps every statement on the same database.
func InMemoryConfig() Config {
	cfg := DefaultConfig(":memory:")
	cfg.JournalMode = "MEMORY"
	cfg.Synchronous = "OFF"
	return cfg
}

func (c Config) validate() error {
	if strings.TrimSpace(c.DSN) == "" {
		return fmt.Errorf("sqlite: DSN is required")
	}
	if c.BusyTimeout < 0 {
		return fmt.Errorf("sqlite: busy timeout cannot be negative")
	}
	return nil
}

func (c Config) inMemory() bool {
	return c.DSN == ":memory:" || strings.Contains(c.DSN, "mode=memory")
}

// openDB opens and configures a database handle for cfg.
func openDB(cfg Config) (*sql.DB, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if !cfg.inMemory() {
		path := strings.TrimPrefix(cfg.DSN, "file:")
		if i := strings.IndexByte(path, '?'); i >= 0 {
			path = path[:i]
		}
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
			}
		}
	}

	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	pragmas := []string{
		fmt.Sprintf("PRAGMA busy_timeout = %d", cfg.BusyTimeout.Milliseconds()),
	}
	if cfg.JournalMode != "" {
		pragmas = append(pragmas, "PRAGMA journal_mode = "+cfg.JournalMode)
	}
	if cfg.Synchronous != "" {
		pragmas = append(pragmas, "PRAGMA synchronous = "+cfg.Synchronous)
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}
	return db, nil
}
