package errors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidURL              = errors.New("Invalid URL format")
	ErrInvalidRequestLimit     = errors.New("Request limit must be greater than or equal to 0.")
	ErrAliasConflict           = errors.New("Alias URL cannot be the same as an existing short URL")
	ErrEmptyShortURL           = errors.New("Short URL cannot be empty or null")
	ErrShortURLNotFound        = errors.New("Short URL cannot be found")
	ErrShortURLOrAliasNotFound = errors.New("Short URL or alias not found")
	ErrDeletedLink             = errors.New("This link has been deleted")
	ErrRequestLimitReached     = errors.New("Request limit reached for this URL")
)

// ValidationError описывает ошибку входных данных. Err указывает на сентинел,
// так что errors.Is(err, ErrInvalidURL) работает и для обернутой ошибки.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error in field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func NewValidationError(field, message string, sentinel error) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Err:     sentinel,
	}
}

type BusinessError struct {
	Code    string
	Message string
	Cause   error
}

func (e *BusinessError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Cause
}

func NewBusinessError(code, message string, cause error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

const (
	CodeDatabase            = "DATABASE_ERROR"
	CodeShortCodeGeneration = "SHORT_CODE_GENERATION"
)

// IsValidationError проверяет является ли ошибка ошибкой валидации
func IsValidationError(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// IsBusinessError проверяет является ли ошибка бизнес-ошибкой
func IsBusinessError(err error) bool {
	var businessErr *BusinessError
	return errors.As(err, &businessErr)
}

func GetValidationError(err error) *ValidationError {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr
	}
	return nil
}

// GetBusinessError извлекает BusinessError из ошибки
func GetBusinessError(err error) *BusinessError {
	var businessErr *BusinessError
	if errors.As(err, &businessErr) {
		return businessErr
	}
	return nil
}

// Kind возвращает машиночитаемое имя вида ошибки для ответа API.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrInvalidURL):
		return "invalid_url"
	case errors.Is(err, ErrInvalidRequestLimit):
		return "invalid_request_limit"
	case errors.Is(err, ErrAliasConflict):
		return "alias_conflict"
	case errors.Is(err, ErrEmptyShortURL):
		return "empty_short_url"
	case errors.Is(err, ErrShortURLNotFound):
		return "short_url_not_found"
	case errors.Is(err, ErrShortURLOrAliasNotFound):
		return "short_url_or_alias_not_found"
	case errors.Is(err, ErrDeletedLink):
		return "deleted_link"
	case errors.Is(err, ErrRequestLimitReached):
		return "request_limit_reached"
	case IsValidationError(err):
		return "validation_error"
	case IsBusinessError(err):
		return "business_error"
	default:
		return "internal_error"
	}
}
