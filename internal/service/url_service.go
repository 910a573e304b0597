package service

import (
	"context"
	"errors"
	"fmt"

	apperrors "github.com/Kosench/go-url-map/internal/errors"
	"github.com/Kosench/go-url-map/internal/logger"
	"github.com/Kosench/go-url-map/internal/model"
	"github.com/Kosench/go-url-map/internal/repository"
	"github.com/Kosench/go-url-map/internal/utils"
	"github.com/google/uuid"
)

const (
	MsgURLUpdated    = "URL updated successfully"
	MsgURLDeleted    = "URL deleted successfully"
	MsgAllURLDeleted = "All URL maps deleted successfully"
)

// Options задают генерацию кодов. Нулевые значения заменяются значениями
// по умолчанию.
type Options struct {
	ShortCodeLength int
	MaxRetries      int
}

// URLService создает, изменяет и удаляет соответствия.
type URLService struct {
	urlRepo    repository.URLMapRepository
	log        *logger.Logger
	baseURL    string
	codeLength int
	maxRetries int
	generate   func(length int) (string, error)
}

func NewURLService(urlRepo repository.URLMapRepository, log *logger.Logger, baseURL string, opts Options) *URLService {
	if opts.ShortCodeLength <= 0 {
		opts.ShortCodeLength = utils.DefaultShortCodeLength
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 5
	}
	if log == nil {
		log = logger.Nop()
	}

	return &URLService{
		urlRepo:    urlRepo,
		log:        log,
		baseURL:    baseURL,
		codeLength: opts.ShortCodeLength,
		maxRetries: opts.MaxRetries,
		generate:   utils.GenerateShortCodeWithLength,
	}
}

func (s *URLService) CreateShortURL(ctx context.Context, req *model.CreateURLRequest) (*model.CreateURLResponse, error) {
	longURL := utils.SanitizeInput(req.LongURL)
	if err := utils.ValidateURL(longURL); err != nil {
		return nil, err
	}

	if err := utils.ValidateRequestLimit(req.RequestLimit); err != nil {
		return nil, err
	}

	var limit int64
	if req.RequestLimit != nil {
		limit = *req.RequestLimit
	}

	var alias *string
	if a := utils.SanitizeInput(req.AliasURL); a != "" {
		alias = &a
	}

	urlMap := &model.URLMap{
		ID:           uuid.NewString(),
		LongURL:      longURL,
		AliasCode:    alias,
		VisitorCount: 0,
		IsActive:     true,
		RequestLimit: limit,
	}

	err := s.urlRepo.WithTx(ctx, func(repo repository.URLMapRepository) error {
		if alias != nil {
			taken, err := repo.ExistsByShortCode(ctx, *alias)
			if err != nil {
				return err
			}
			if taken {
				return apperrors.ErrAliasConflict
			}
		}

		shortCode, err := s.generateUniqueShortCode(ctx, repo, alias)
		if err != nil {
			return err
		}
		urlMap.ShortCode = shortCode

		return repo.Create(ctx, urlMap)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("URL shortened", "long_url", urlMap.LongURL, "short_code", urlMap.ShortCode)

	return &model.CreateURLResponse{
		ShortURL: urlMap.ShortCode,
		URL:      s.buildShortURL(urlMap.ShortCode),
	}, nil
}

// UpdateURLMap меняет лимит и/или алиас записи, найденной строго по
// короткому коду. Алиас сверяется только с короткими кодами других записей.
func (s *URLService) UpdateURLMap(ctx context.Context, req *model.UpdateURLRequest) (string, error) {
	shortCode := utils.SanitizeInput(req.ShortURL)
	if shortCode == "" {
		return "", apperrors.NewValidationError("shortURL", apperrors.ErrEmptyShortURL.Error(), apperrors.ErrEmptyShortURL)
	}
	alias := utils.SanitizeInput(req.Alias)

	err := s.urlRepo.WithTx(ctx, func(repo repository.URLMapRepository) error {
		urlMap, err := s.getForWrite(ctx, repo, shortCode)
		if err != nil {
			return err
		}

		if req.RequestLimit != nil {
			if err := utils.ValidateRequestLimit(req.RequestLimit); err != nil {
				return err
			}
			urlMap.RequestLimit = *req.RequestLimit
		}

		if alias != "" {
			taken, err := repo.ExistsByShortCodeExcept(ctx, alias, urlMap.ID)
			if err != nil {
				return err
			}
			if taken {
				return apperrors.ErrAliasConflict
			}
			urlMap.AliasCode = &alias
		}

		return repo.Update(ctx, urlMap)
	})
	if err != nil {
		return "", err
	}

	s.log.Info("URL updated", "short_code", shortCode)
	return MsgURLUpdated, nil
}

// SoftDelete помечает запись неактивной, строка остается в таблице.
func (s *URLService) SoftDelete(ctx context.Context, shortURL string) (string, error) {
	shortCode := utils.SanitizeInput(shortURL)
	if shortCode == "" {
		return "", apperrors.NewValidationError("shortURL", apperrors.ErrEmptyShortURL.Error(), apperrors.ErrEmptyShortURL)
	}

	err := s.urlRepo.WithTx(ctx, func(repo repository.URLMapRepository) error {
		urlMap, err := s.getForWrite(ctx, repo, shortCode)
		if err != nil {
			return err
		}
		return repo.Deactivate(ctx, urlMap.ID)
	})
	if err != nil {
		return "", err
	}

	s.log.Info("URL deleted", "short_code", shortCode)
	return MsgURLDeleted, nil
}

// DeleteAll очищает таблицу целиком. Административная операция.
func (s *URLService) DeleteAll(ctx context.Context) (string, error) {
	err := s.urlRepo.WithTx(ctx, func(repo repository.URLMapRepository) error {
		return repo.DeleteAll(ctx)
	})
	if err != nil {
		s.log.Error("failed to delete URL maps", "error", err)
		return "", err
	}

	s.log.Info("all URL maps deleted")
	return MsgAllURLDeleted, nil
}

func (s *URLService) ListAll(ctx context.Context) ([]*model.URLMap, error) {
	s.log.Debug("retrieving all URL maps")
	return s.urlRepo.List(ctx)
}

func (s *URLService) getForWrite(ctx context.Context, repo repository.URLMapRepository, shortCode string) (*model.URLMap, error) {
	urlMap, err := repo.GetByShortCode(ctx, shortCode)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.ErrShortURLNotFound
	}
	return urlMap, err
}

// generateUniqueShortCode пробует до maxRetries кандидатов. Кандидат не должен
// совпадать ни с коротким кодом, ни с алиасом, включая алиас создаваемой записи.
func (s *URLService) generateUniqueShortCode(ctx context.Context, repo repository.URLMapRepository, alias *string) (string, error) {
	for attempt := 0; attempt < s.maxRetries; attempt++ {
		code, err := s.generate(s.codeLength)
		if err != nil {
			return "", apperrors.NewBusinessError(apperrors.CodeShortCodeGeneration, "failed to generate code", err)
		}

		if alias != nil && *alias == code {
			continue
		}

		exists, err := repo.ExistsByAnyCode(ctx, code)
		if err != nil {
			return "", err
		}

		if !exists {
			return code, nil
		}
	}

	return "", apperrors.NewBusinessError(
		apperrors.CodeShortCodeGeneration,
		fmt.Sprintf("failed to generate unique short code after %d attempts", s.maxRetries),
		nil,
	)
}

func (s *URLService) buildShortURL(shortCode string) string {
	return fmt.Sprintf("%s/%s", s.baseURL, shortCode)
}
