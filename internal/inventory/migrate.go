package inventory

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	migratepostgres "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations
var migrationsFS embed.FS

// Migrate brings the schema to targetVersion. Negative means latest, zero
// rolls everything back, positive targets that version. It returns the
// versions before and after; equal values mean nothing changed.
func (s *Store) Migrate(targetVersion int) (from, to uint, err error) {
	var driver database.Driver
	switch s.backend {
	case BackendSQLite:
		driver, err = migratesqlite.WithInstance(s.db, &migratesqlite.Config{})
	case BackendMySQL:
		driver, err = migratemysql.WithInstance(s.db, &migratemysql.Config{})
	case BackendPostgres:
		driver, err = migratepostgres.WithInstance(s.db, &migratepostgres.Config{})
	default:
		return 0, 0, fmt.Errorf("unsupported inventory backend: %s", s.backend)
	}
	if err != nil {
		return 0, 0, fmt.Errorf("create %s migrate driver: %w", s.backend, err)
	}

	// Each backend has its own dialect directory.
	dialectFS, err := fs.Sub(migrationsFS, "migrations/"+string(s.backend))
	if err != nil {
		return 0, 0, fmt.Errorf("access migrations for %s: %w", s.backend, err)
	}
	sourceDriver, err := iofs.New(dialectFS, ".")
	if err != nil {
		return 0, 0, fmt.Errorf("create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "inventory", driver)
	if err != nil {
		return 0, 0, fmt.Errorf("create migrate instance: %w", err)
	}

	from, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return 0, 0, fmt.Errorf("read migration version: %w", err)
	}
	if dirty {
		return from, from, fmt.Errorf("schema is dirty at version %d; fix manually or force a version", from)
	}

	switch {
	case targetVersion < 0:
		err = m.Up()
	case targetVersion == 0:
		err = m.Down()
	default:
		err = m.Migrate(uint(targetVersion))
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return from, from, fmt.Errorf("migrate schema: %w", err)
	}

	to, _, verr := m.Version()
	if verr != nil && !errors.Is(verr, migrate.ErrNilVersion) {
		return from, from, fmt.Errorf("read migration version: %w", verr)
	}
	return from, to, nil
}
