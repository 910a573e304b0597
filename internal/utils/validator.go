package utils

import (
	"regexp"
	"strings"

	apperrors "github.com/Kosench/go-url-map/internal/errors"
)

const maxURLLength = 2048

// Схема http, https или ftp, затем хост/путь без пробелов.
var longURLPattern = regexp.MustCompile(`(?i)^(https?|ftp)://[^\s/$.?#].[^\s]*$`)

func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return apperrors.NewValidationError("longUrl", "URL cannot be empty", apperrors.ErrInvalidURL)
	}

	if len(rawURL) > maxURLLength {
		return apperrors.NewValidationError("longUrl", "URL is too long (max 2048 characters)", apperrors.ErrInvalidURL)
	}

	if !longURLPattern.MatchString(rawURL) {
		return apperrors.NewValidationError("longUrl", apperrors.ErrInvalidURL.Error(), apperrors.ErrInvalidURL)
	}

	return nil
}

// ValidateRequestLimit принимает nil как "не указан".
func ValidateRequestLimit(limit *int64) error {
	if limit != nil && *limit < 0 {
		return apperrors.NewValidationError("requestLimit", apperrors.ErrInvalidRequestLimit.Error(), apperrors.ErrInvalidRequestLimit)
	}
	return nil
}

func SanitizeInput(input string) string {
	// Удаляем управляющие символы и обрезаем пробелы
	result := strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1 // удаляем символ
		}
		return r
	}, input)

	return strings.TrimSpace(result)
}
