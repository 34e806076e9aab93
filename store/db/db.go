// Package db selects the concrete vector index driver for a profile.
package db

import (
	"github.com/pkg/errors"

	"github.com/airwave/airwave/internal/profile"
	"github.com/airwave/airwave/store"
	"github.com/airwave/airwave/store/db/postgres"
	"github.com/airwave/airwave/store/db/sqlite"
)

// NewDBDriver creates a new database driver based on the profile.
func NewDBDriver(profile *profile.Profile) (store.Driver, error) {
	switch profile.Driver {
	case "postgres":
		return postgres.NewDB(profile)
	case "sqlite":
		return sqlite.NewDB(profile)
	default:
		return nil, errors.Errorf("unsupported driver %q", profile.Driver)
	}
}
