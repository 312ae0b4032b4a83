package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migration is one embedded schema change.
type Migration struct {
	Version     string
	Description string
	SQL         string
}

// Migrations returns the embedded migrations ordered by version.
func Migrations() ([]Migration, error) {
	entries, err := fs.ReadDir(migrationFiles, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations: %w", err)
	}

	migrations := make([]Migration, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}
		version, description, ok := strings.Cut(strings.TrimSuffix(name, ".sql"), "_")
		if !ok || version == "" {
			return nil, fmt.Errorf("migration %s does not follow NNN_description.sql", name)
		}
		body, err := migrationFiles.ReadFile(path.Join("migrations", name))
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %w", name, err)
		}
		migrations = append(migrations, Migration{
			Version:     version,
			Description: strings.ReplaceAll(description, "_", " "),
			SQL:         string(body),
		})
	}

	sort.Slice(migrations, func(i, j int) bool { return migrations[i].Version < migrations[j].Version })
	return migrations, nil
}

// Migrate applies pending migrations in order, each in its own transaction,
// and returns the versions it applied.
func (cp *ConnectionPool) Migrate(ctx context.Context) ([]string, error) {
	if _, err := cp.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    TEXT PRIMARY KEY,
			applied_at TEXT NOT NULL
		)`); err != nil {
		return nil, fmt.Errorf("failed to initialise schema_migrations: %w", err)
	}

	migrations, err := Migrations()
	if err != nil {
		return nil, err
	}

	applied := make([]string, 0, len(migrations))
	for _, m := range migrations {
		done, err := cp.isApplied(ctx, m.Version)
		if err != nil {
			return applied, err
		}
		if done {
			continue
		}

		err = cp.WithTransaction(ctx, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
				return fmt.Errorf("migration %s (%s) failed: %w", m.Version, m.Description, err)
			}
			_, err := tx.ExecContext(ctx,
				`INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)`,
				m.Version, time.Now().UTC().Format(timeLayout),
			)
			return err
		})
		if err != nil {
			return applied, err
		}
		applied = append(applied, m.Version)
	}
	return applied, nil
}

// AppliedVersions lists recorded migration versions in order.
func (cp *ConnectionPool) AppliedVersions(ctx context.Context) ([]string, error) {
	rows, err := cp.db.QueryContext(ctx, `SELECT version FROM schema_migrations ORDER BY version`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var versions []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

func (cp *ConnectionPool) isApplied(ctx context.Context, version string) (bool, error) {
	var count int
	err := cp.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM schema_migrations WHERE version = ?`, version).Scan(&count)
	if err != nil {
		return false, mapError(err)
	}
	return count > 0, nil
}
