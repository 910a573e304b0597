package service

import (
	"context"
	"errors"

	apperrors "github.com/Kosench/go-url-map/internal/errors"
	"github.com/Kosench/go-url-map/internal/logger"
	"github.com/Kosench/go-url-map/internal/model"
	"github.com/Kosench/go-url-map/internal/repository"
	"github.com/Kosench/go-url-map/internal/utils"
)

// Resolver разрешает код (короткий или алиас) в длинный URL и ведет
// счетчик переходов.
type Resolver struct {
	urlRepo repository.URLMapRepository
	log     *logger.Logger
}

func NewResolver(urlRepo repository.URLMapRepository, log *logger.Logger) *Resolver {
	if log == nil {
		log = logger.Nop()
	}
	return &Resolver{
		urlRepo: urlRepo,
		log:     log,
	}
}

// Resolve возвращает длинный URL и увеличивает счетчик на 1. Удаленная ссылка
// сообщается раньше выбранного лимита.
func (r *Resolver) Resolve(ctx context.Context, code string) (string, error) {
	code = utils.SanitizeInput(code)
	if code == "" {
		return "", apperrors.NewValidationError("shortUrl", apperrors.ErrEmptyShortURL.Error(), apperrors.ErrEmptyShortURL)
	}

	var longURL string
	err := r.urlRepo.WithTx(ctx, func(repo repository.URLMapRepository) error {
		urlMap, err := findByShortCodeOrAlias(ctx, repo, code)
		if err != nil {
			return err
		}

		if !urlMap.IsActive {
			return apperrors.ErrDeletedLink
		}

		if urlMap.QuotaExhausted() {
			return apperrors.ErrRequestLimitReached
		}

		incremented, err := repo.IncrementVisitorCount(ctx, urlMap.ID)
		if err != nil {
			return err
		}
		if !incremented {
			// строка изменилась между чтением и обновлением
			return apperrors.ErrRequestLimitReached
		}

		longURL = urlMap.LongURL
		return nil
	})
	if err != nil {
		return "", err
	}

	r.log.Info("redirecting", "code", code, "long_url", longURL)
	return longURL, nil
}

// GetStatistics возвращает запись целиком, без проверок состояния и без
// изменения счетчика.
func (r *Resolver) GetStatistics(ctx context.Context, code string) (*model.URLMap, error) {
	code = utils.SanitizeInput(code)
	if code == "" {
		return nil, apperrors.NewValidationError("shortUrl", apperrors.ErrEmptyShortURL.Error(), apperrors.ErrEmptyShortURL)
	}

	urlMap, err := findByShortCodeOrAlias(ctx, r.urlRepo, code)
	if err != nil {
		return nil, err
	}

	r.log.Debug("retrieved statistics", "code", code)
	return urlMap, nil
}

func findByShortCodeOrAlias(ctx context.Context, repo repository.URLMapRepository, code string) (*model.URLMap, error) {
	urlMap, err := repo.GetByShortCode(ctx, code)
	if err == nil {
		return urlMap, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	urlMap, err = repo.GetByAliasCode(ctx, code)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.ErrShortURLOrAliasNotFound
	}
	return urlMap, err
}
