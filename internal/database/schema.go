package database

import (
	"context"
	"database/sql"
	"fmt"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS url_maps (
	id            UUID PRIMARY KEY,
	short_code    TEXT NOT NULL,
	long_url      TEXT NOT NULL,
	alias_code    TEXT NULL,
	visitor_count BIGINT NOT NULL DEFAULT 0 CHECK (visitor_count >= 0),
	is_active     BOOLEAN NOT NULL DEFAULT TRUE,
	request_limit BIGINT NOT NULL DEFAULT 0 CHECK (request_limit >= 0),
	created_at    TIMESTAMPTZ NOT NULL,
	updated_at    TIMESTAMPTZ NOT NULL,
	CONSTRAINT url_maps_short_code_key UNIQUE (short_code),
	CONSTRAINT url_maps_alias_code_key UNIQUE (alias_code)
)`

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS url_maps (
	id            TEXT PRIMARY KEY,
	short_code    TEXT NOT NULL,
	long_url      TEXT NOT NULL,
	alias_code    TEXT NULL,
	visitor_count INTEGER NOT NULL DEFAULT 0 CHECK (visitor_count >= 0),
	is_active     BOOLEAN NOT NULL DEFAULT 1,
	request_limit INTEGER NOT NULL DEFAULT 0 CHECK (request_limit >= 0),
	created_at    DATETIME NOT NULL,
	updated_at    DATETIME NOT NULL,
	CONSTRAINT url_maps_short_code_key UNIQUE (short_code),
	CONSTRAINT url_maps_alias_code_key UNIQUE (alias_code)
)`

// Migrate создает таблицу url_maps, если ее еще нет. NULL в alias_code
// не участвует в уникальности ни в одном из диалектов.
func Migrate(ctx context.Context, db *sql.DB, dialect Dialect) error {
	schema := postgresSchema
	if dialect == SQLite {
		schema = sqliteSchema
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
