package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Kosench/go-url-map/internal/config"
)

// Dialect различает SQL-диалекты поддерживаемых хранилищ.
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

// Open подключается к хранилищу, выбранному в конфигурации, и
// применяет схему.
func Open(cfg config.DatabaseConfig) (*sql.DB, Dialect, error) {
	var (
		db      *sql.DB
		dialect Dialect
		err     error
	)

	switch cfg.Driver {
	case config.DriverPostgres:
		db, err = ConnectPostgres(cfg.DSN(), cfg.MaxOpenConns, cfg.MaxIdleConns)
		dialect = Postgres
	case config.DriverSQLite:
		db, err = ConnectSQLite(cfg.Path)
		dialect = SQLite
	default:
		return nil, "", fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, "", err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := Migrate(ctx, db, dialect); err != nil {
		db.Close()
		return nil, "", err
	}

	return db, dialect, nil
}

func HealthCheck(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	return db.PingContext(ctx)
}

func GetVersion(db *sql.DB, dialect Dialect) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	query := "SELECT version()"
	if dialect == SQLite {
		query = "SELECT 'SQLite ' || sqlite_version()"
	}

	var version string
	err := db.QueryRowContext(ctx, query).Scan(&version)
	return version, err
}
