package migrate

import (
	"embed"
	"errors"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations
var migrations embed.FS

// MigrateDB brings the warehouse schemas up to date. Migrations come
// from the embedded set unless sourceURL points somewhere else.
func MigrateDB(dbURI, sourceURL string) error {
	m, err := newMigrate(dbURI, sourceURL)
	if err != nil {
		return err
	}
	defer m.Close()

	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// RollbackDB tears the warehouse schemas all the way down.
func RollbackDB(dbURI, sourceURL string) error {
	m, err := newMigrate(dbURI, sourceURL)
	if err != nil {
		return err
	}
	defer m.Close()

	err = m.Down()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

func newMigrate(dbURI, sourceURL string) (*migrate.Migrate, error) {
	dbURL := strings.Replace(dbURI, "postgresql://", "pgx://", 1)
	if sourceURL != "" {
		return migrate.New(sourceURL, dbURL)
	}
	source, err := iofs.New(migrations, "migrations")
	if err != nil {
		return nil, err
	}
	return migrate.NewWithSourceInstance("iofs", source, dbURL)
}
