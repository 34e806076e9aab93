// Package sqlite implements the session vector index on SQLite.
//
// SQLite is supported for development and testing only. Vectors are stored
// as little-endian float32 BLOBs and nearest-neighbor search is a Go-side
// cosine scan over the user's rows. That is fine for single-user datasets;
// production deployments use the postgres driver.
package sqlite

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	// Import the SQLite driver.
	_ "modernc.org/sqlite"

	"github.com/airwave/airwave/internal/profile"
	"github.com/airwave/airwave/store"
)

type DB struct {
	db      *sql.DB
	profile *profile.Profile
}

// NewDB opens the sqlite database named by the profile DSN.
//
// Notes on the pragmas:
// - No foreign key constraints: the index has a single table.
// - Journal mode set to WAL: the recommended mode, prevents locking issues.
// - When using the `modernc.org/sqlite` driver, each pragma must be prefixed
//   with `_pragma=`.
func NewDB(profile *profile.Profile) (store.Driver, error) {
	if profile.DSN == "" {
		return nil, errors.New("dsn required")
	}

	sqliteDB, err := sql.Open("sqlite", profile.DSN+"?_pragma=foreign_keys(0)&_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open db with dsn: %s", profile.DSN)
	}

	// Single connection is optimal for SQLite with WAL mode.
	sqliteDB.SetMaxOpenConns(1)
	sqliteDB.SetMaxIdleConns(1)
	sqliteDB.SetConnMaxLifetime(0)
	sqliteDB.SetConnMaxIdleTime(0)

	driver := DB{db: sqliteDB, profile: profile}

	return &driver, nil
}

func (d *DB) GetDB() *sql.DB {
	return d.db
}

func (d *DB) Close() error {
	return d.db.Close()
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS session_embedding (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		embedding BLOB NOT NULL,
		metadata TEXT NOT NULL,
		document TEXT NOT NULL DEFAULT '',
		created_ts INTEGER NOT NULL,
		updated_ts INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_session_embedding_user_id ON session_embedding (user_id)`,
}

// Migrate applies the session index schema.
func (d *DB) Migrate(ctx context.Context) error {
	for _, stmt := range migrations {
		if _, err := d.db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, "failed to apply migration")
		}
	}
	return nil
}
