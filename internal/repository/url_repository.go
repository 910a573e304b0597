package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Kosench/go-url-map/internal/database"
	apperrors "github.com/Kosench/go-url-map/internal/errors"
	"github.com/Kosench/go-url-map/internal/model"
)

var ErrNotFound = errors.New("url map not found")

// dbtx - общее подмножество *sql.DB и *sql.Tx
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type SQLURLMapRepository struct {
	db      *sql.DB
	q       dbtx
	dialect database.Dialect
	inTx    bool
	now     func() time.Time
}

func NewSQLURLMapRepository(db *sql.DB, dialect database.Dialect) *SQLURLMapRepository {
	return &SQLURLMapRepository{
		db:      db,
		q:       db,
		dialect: dialect,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

const selectColumns = `
	SELECT id, short_code, long_url, alias_code, visitor_count, is_active, request_limit, created_at, updated_at
	FROM url_maps`

func (r *SQLURLMapRepository) WithTx(ctx context.Context, fn func(repo URLMapRepository) error) error {
	if r.inTx {
		return fn(r)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.NewBusinessError(apperrors.CodeDatabase, "failed to begin transaction", err)
	}
	defer tx.Rollback()

	txRepo := &SQLURLMapRepository{
		db:      r.db,
		q:       tx,
		dialect: r.dialect,
		inTx:    true,
		now:     r.now,
	}

	if err := fn(txRepo); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewBusinessError(apperrors.CodeDatabase, "failed to commit transaction", err)
	}
	return nil
}

// lockClause блокирует прочитанную строку в транзакции Postgres. В SQLite
// транзакция открывается как BEGIN IMMEDIATE и блокирует запись целиком.
func (r *SQLURLMapRepository) lockClause() string {
	if r.inTx && r.dialect == database.Postgres {
		return " FOR UPDATE"
	}
	return ""
}

func (r *SQLURLMapRepository) Create(ctx context.Context, m *model.URLMap) error {
	query := `
	INSERT INTO url_maps (id, short_code, long_url, alias_code, visitor_count, is_active, request_limit, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	now := r.now()
	m.CreatedAt = now
	m.UpdatedAt = now

	_, err := r.q.ExecContext(
		ctx,
		query,
		m.ID,
		m.ShortCode,
		m.LongURL,
		nullString(m.AliasCode),
		m.VisitorCount,
		m.IsActive,
		m.RequestLimit,
		m.CreatedAt,
		m.UpdatedAt,
	)
	if err != nil {
		return translateWriteError("failed to create URL map", err)
	}

	return nil
}

func (r *SQLURLMapRepository) GetByShortCode(ctx context.Context, shortCode string) (*model.URLMap, error) {
	query := selectColumns + ` WHERE short_code = $1` + r.lockClause()

	m, err := scanURLMap(r.q.QueryRowContext(ctx, query, shortCode))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("short code '%s': %w", shortCode, ErrNotFound)
	}
	if err != nil {
		return nil, apperrors.NewBusinessError(apperrors.CodeDatabase, "failed to get URL map by short code", err)
	}

	return m, nil
}

func (r *SQLURLMapRepository) GetByAliasCode(ctx context.Context, aliasCode string) (*model.URLMap, error) {
	query := selectColumns + ` WHERE alias_code = $1` + r.lockClause()

	m, err := scanURLMap(r.q.QueryRowContext(ctx, query, aliasCode))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("alias '%s': %w", aliasCode, ErrNotFound)
	}
	if err != nil {
		return nil, apperrors.NewBusinessError(apperrors.CodeDatabase, "failed to get URL map by alias", err)
	}

	return m, nil
}

func (r *SQLURLMapRepository) ExistsByShortCode(ctx context.Context, shortCode string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS(SELECT 1 FROM url_maps WHERE short_code = $1)`, shortCode)
}

func (r *SQLURLMapRepository) ExistsByShortCodeExcept(ctx context.Context, shortCode, exceptID string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS(SELECT 1 FROM url_maps WHERE short_code = $1 AND id <> $2)`, shortCode, exceptID)
}

// ExistsByAnyCode проверяет код и среди коротких кодов, и среди алиасов.
func (r *SQLURLMapRepository) ExistsByAnyCode(ctx context.Context, code string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS(SELECT 1 FROM url_maps WHERE short_code = $1 OR alias_code = $2)`, code, code)
}

func (r *SQLURLMapRepository) exists(ctx context.Context, query string, args ...any) (bool, error) {
	var exists bool
	if err := r.q.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, apperrors.NewBusinessError(apperrors.CodeDatabase, "failed to check code existence", err)
	}
	return exists, nil
}

// Update сохраняет изменяемые поля: лимит и алиас.
func (r *SQLURLMapRepository) Update(ctx context.Context, m *model.URLMap) error {
	query := `
	UPDATE url_maps
	SET request_limit = $1, alias_code = $2, updated_at = $3
	WHERE id = $4
	`

	m.UpdatedAt = r.now()

	res, err := r.q.ExecContext(ctx, query, m.RequestLimit, nullString(m.AliasCode), m.UpdatedAt, m.ID)
	if err != nil {
		return translateWriteError("failed to update URL map", err)
	}

	return requireRow(res, m.ID)
}

func (r *SQLURLMapRepository) Deactivate(ctx context.Context, id string) error {
	query := `UPDATE url_maps SET is_active = $1, updated_at = $2 WHERE id = $3`

	res, err := r.q.ExecContext(ctx, query, false, r.now(), id)
	if err != nil {
		return apperrors.NewBusinessError(apperrors.CodeDatabase, "failed to deactivate URL map", err)
	}

	return requireRow(res, id)
}

// IncrementVisitorCount атомарно увеличивает счетчик, только если запись
// активна и лимит не выбран. false означает, что условие не выполнилось.
func (r *SQLURLMapRepository) IncrementVisitorCount(ctx context.Context, id string) (bool, error) {
	query := `
	UPDATE url_maps
	SET visitor_count = visitor_count + 1
	WHERE id = $1
	  AND is_active = $2
	  AND (request_limit = 0 OR visitor_count < request_limit)
	`

	res, err := r.q.ExecContext(ctx, query, id, true)
	if err != nil {
		return false, apperrors.NewBusinessError(apperrors.CodeDatabase, "failed to increment visitor count", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, apperrors.NewBusinessError(apperrors.CodeDatabase, "failed to increment visitor count", err)
	}

	return affected == 1, nil
}

func (r *SQLURLMapRepository) List(ctx context.Context) ([]*model.URLMap, error) {
	rows, err := r.q.QueryContext(ctx, selectColumns)
	if err != nil {
		return nil, apperrors.NewBusinessError(apperrors.CodeDatabase, "failed to list URL maps", err)
	}
	defer rows.Close()

	maps := make([]*model.URLMap, 0)
	for rows.Next() {
		m, err := scanURLMap(rows)
		if err != nil {
			return nil, apperrors.NewBusinessError(apperrors.CodeDatabase, "failed to scan URL map", err)
		}
		maps = append(maps, m)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewBusinessError(apperrors.CodeDatabase, "failed to list URL maps", err)
	}

	return maps, nil
}

func (r *SQLURLMapRepository) DeleteAll(ctx context.Context) error {
	query := `DELETE FROM url_maps`
	if r.dialect == database.Postgres {
		query = `TRUNCATE TABLE url_maps`
	}

	if _, err := r.q.ExecContext(ctx, query); err != nil {
		return apperrors.NewBusinessError(apperrors.CodeDatabase, "failed to delete URL maps", err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanURLMap(row rowScanner) (*model.URLMap, error) {
	m := &model.URLMap{}
	var alias sql.NullString

	err := row.Scan(
		&m.ID,
		&m.ShortCode,
		&m.LongURL,
		&alias,
		&m.VisitorCount,
		&m.IsActive,
		&m.RequestLimit,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if alias.Valid {
		m.AliasCode = &alias.String
	}

	return m, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func requireRow(res sql.Result, id string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return apperrors.NewBusinessError(apperrors.CodeDatabase, "failed to read affected rows", err)
	}
	if affected == 0 {
		return fmt.Errorf("URL map with ID %s: %w", id, ErrNotFound)
	}
	return nil
}

func translateWriteError(message string, err error) error {
	switch uniqueViolation(err) {
	case "alias_code":
		return apperrors.ErrAliasConflict
	case "short_code":
		return apperrors.NewBusinessError(apperrors.CodeShortCodeGeneration, "short code already taken", err)
	}
	return apperrors.NewBusinessError(apperrors.CodeDatabase, message, err)
}
