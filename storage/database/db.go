package database

import (
	"context"
	"net/url"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver
	"github.com/pkg/errors"
	"github.com/trezcool/goose"

	"github.com/facsched/backend/core"
	appfs "github.com/facsched/backend/fs"
)

const migrationsDir = "migrations"

// URL returns the connection string of the configured database.
func URL(conf *core.Config) string {
	sslMode := "require"
	if conf.Database.DisableTLS {
		sslMode = "disable"
	}
	q := make(url.Values)
	q.Set("sslmode", sslMode)
	q.Set("timezone", "utc")

	u := url.URL{
		Scheme:   conf.Database.Engine,
		User:     url.UserPassword(conf.Database.User, conf.Database.Password),
		Host:     conf.Database.Address(),
		Path:     conf.Database.Name,
		RawQuery: q.Encode(),
	}
	return u.String()
}

func Open(conf *core.Config) (*sqlx.DB, error) {
	return OpenURL(conf.Database.Engine, URL(conf))
}

func OpenURL(driver, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	return db, nil
}

// Ping waits for the database to be ready. Waits 100ms longer between each attempt.
func Ping(ctx context.Context, db *sqlx.DB, maxAttempts int) error {
	var err error
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		if err = db.PingContext(ctx); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "DB ping cancelled")
		case <-time.After(time.Duration(attempts) * 100 * time.Millisecond):
		}
	}
	return errors.Wrap(err, "DB ping timeout")
}

// Migrate applies all pending migrations.
func Migrate(db *sqlx.DB) error {
	if err := goose.Up(db.DB, appfs.FS, migrationsDir); err != nil {
		return errors.Wrap(err, "migrating database")
	}
	return nil
}

// Migrator runs the embedded migrations one command at a time.
type Migrator struct {
	db *sqlx.DB
}

func NewMigrator(db *sqlx.DB) *Migrator {
	return &Migrator{db: db}
}

func (m *Migrator) Up() error       { return goose.Up(m.db.DB, appfs.FS, migrationsDir) }
func (m *Migrator) UpByOne() error  { return goose.UpByOne(m.db.DB, appfs.FS, migrationsDir) }
func (m *Migrator) Down() error     { return goose.Down(m.db.DB, appfs.FS, migrationsDir) }
func (m *Migrator) Redo() error     { return goose.Redo(m.db.DB, appfs.FS, migrationsDir) }
func (m *Migrator) UpTo(version int64) error {
	return goose.UpTo(m.db.DB, appfs.FS, migrationsDir, version)
}
func (m *Migrator) DownTo(version int64) error {
	return goose.DownTo(m.db.DB, appfs.FS, migrationsDir, version)
}
