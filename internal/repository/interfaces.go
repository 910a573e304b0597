package repository

import (
	"context"

	"github.com/Kosench/go-url-map/internal/model"
)

type URLMapRepository interface {
	Create(ctx context.Context, m *model.URLMap) error
	GetByShortCode(ctx context.Context, shortCode string) (*model.URLMap, error)
	GetByAliasCode(ctx context.Context, aliasCode string) (*model.URLMap, error)
	ExistsByShortCode(ctx context.Context, shortCode string) (bool, error)
	ExistsByShortCodeExcept(ctx context.Context, shortCode, exceptID string) (bool, error)
	ExistsByAnyCode(ctx context.Context, code string) (bool, error)
	Update(ctx context.Context, m *model.URLMap) error
	Deactivate(ctx context.Context, id string) error
	IncrementVisitorCount(ctx context.Context, id string) (bool, error)
	List(ctx context.Context) ([]*model.URLMap, error)
	DeleteAll(ctx context.Context) error

	// WithTx выполняет fn в одной транзакции. Внутри fn все чтения по
	// короткому коду или алиасу блокируют найденную строку до коммита.
	WithTx(ctx context.Context, fn func(repo URLMapRepository) error) error
}
