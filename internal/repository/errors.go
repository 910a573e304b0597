package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

const (
	pgUniqueViolation = "23505"

	shortCodeConstraint = "url_maps_short_code_key"
	aliasCodeConstraint = "url_maps_alias_code_key"
)

// uniqueViolation возвращает столбец, чье ограничение уникальности нарушено,
// или пустую строку, если err не является таким нарушением.
func uniqueViolation(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		switch pgErr.ConstraintName {
		case aliasCodeConstraint:
			return "alias_code"
		case shortCodeConstraint:
			return "short_code"
		}
		return "unknown"
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) && liteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		msg := liteErr.Error()
		switch {
		case strings.Contains(msg, "url_maps.alias_code"):
			return "alias_code"
		case strings.Contains(msg, "url_maps.short_code"):
			return "short_code"
		}
		return "unknown"
	}

	return ""
}
