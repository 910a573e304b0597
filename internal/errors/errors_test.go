package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestValidationError_UnwrapsToSentinel(t *testing.T) {
	err := fmt.Errorf("create: %w", NewValidationError("longUrl", "Invalid URL format", ErrInvalidURL))

	if !errors.Is(err, ErrInvalidURL) {
		t.Error("errors.Is(err, ErrInvalidURL) = false")
	}
	if !IsValidationError(err) {
		t.Error("IsValidationError() = false")
	}
	if got := GetValidationError(err); got == nil || got.Field != "longUrl" {
		t.Errorf("GetValidationError() = %v", got)
	}
	if IsBusinessError(err) {
		t.Error("IsBusinessError() = true for a validation error")
	}
}

func TestBusinessError(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewBusinessError(CodeDatabase, "failed to list URL maps", cause)

	if err.Error() != "failed to list URL maps: connection refused" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("BusinessError does not unwrap to its cause")
	}
	if got := GetBusinessError(fmt.Errorf("wrapped: %w", err)); got == nil || got.Code != CodeDatabase {
		t.Errorf("GetBusinessError() = %v", got)
	}
}

func TestKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{NewValidationError("longUrl", "bad", ErrInvalidURL), "invalid_url"},
		{NewValidationError("requestLimit", "bad", ErrInvalidRequestLimit), "invalid_request_limit"},
		{ErrAliasConflict, "alias_conflict"},
		{ErrEmptyShortURL, "empty_short_url"},
		{ErrShortURLNotFound, "short_url_not_found"},
		{ErrShortURLOrAliasNotFound, "short_url_or_alias_not_found"},
		{ErrDeletedLink, "deleted_link"},
		{ErrRequestLimitReached, "request_limit_reached"},
		{NewValidationError("x", "bad", nil), "validation_error"},
		{NewBusinessError(CodeDatabase, "db", nil), "business_error"},
		{errors.New("boom"), "internal_error"},
	}

	for _, tt := range tests {
		if got := Kind(tt.err); got != tt.want {
			t.Errorf("Kind(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
