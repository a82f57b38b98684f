package repos

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	applog "megastore/internal/log"
)

//go:embed migrations/*.sql
var migrations embed.FS

// OpenDB opens the sqlite database at dsn and brings its schema up to date.
// ":memory:" is supported; the pool is pinned to one connection so every
// query sees the same in-memory database.
func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err = db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err = migrateUp(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

type migrationLogger struct{ l *zap.Logger }

func (ml migrationLogger) Printf(format string, v ...any) {
	ml.l.Info(fmt.Sprintf(format, v...))
}

func (ml migrationLogger) Verbose() bool { return false }

func migrateUp(db *sqlx.DB) error {
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("migrations source: %w", err)
	}
	drv, err := sqlite.WithInstance(db.DB, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("migrations driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", drv)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	m.Log = migrationLogger{l: applog.L().Named("migrate")}

	// m.Close would close db as well; the source is an embed.FS.
	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return nil
		}
		return fmt.Errorf("migrate up: %w", err)
	}
	m.Log.Printf("schema migrated")
	return nil
}
