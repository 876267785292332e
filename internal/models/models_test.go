package models

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParsePostType(t *testing.T) {
	tests := []struct {
		name     string
		ordinal  string
		expected PostType
		err      error
	}{
		{"text ordinal", "0", PostTypeText, nil},
		{"url ordinal", "1", PostTypeURL, nil},
		{"padded ordinal", " 1 ", PostTypeURL, nil},
		{"empty", "", "", ErrPostTypeMissing},
		{"blank", "   ", "", ErrPostTypeMissing},
		{"out of range", "2", "", ErrPostTypeInvalid},
		{"negative", "-1", "", ErrPostTypeInvalid},
		{"label is not an ordinal", "Text", "", ErrPostTypeInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePostType(tt.ordinal)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestPostType_Editable(t *testing.T) {
	assert.True(t, PostTypeText.Editable())
	assert.False(t, PostTypeURL.Editable())
}

func TestAppError_Kind(t *testing.T) {
	tests := []struct {
		err  *AppError
		kind string
	}{
		{NewValidationError("x"), "ValidationError"},
		{NewNotFoundError("x"), "NotFoundError"},
		{NewAuthenticationError("x"), "AuthenticationError"},
		{NewForbiddenError("x"), "AuthenticationError"},
		{NewHTTPError("x"), "HttpError"},
		{NewInternalError(errors.New("boom")), "InternalError"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.kind, tt.err.Kind())
	}
}

func TestAppError_UnwrapAndHasCode(t *testing.T) {
	cause := errors.New("disk full")
	err := fmt.Errorf("create user: %w", NewInternalError(cause))

	assert.ErrorIs(t, err, cause)
	assert.True(t, HasCode(err, CodeInternal))
	assert.False(t, HasCode(err, CodeValidation))
	assert.Equal(t, "Internal server error: disk full", NewInternalError(cause).Error())
}

func TestRecord_IsDeleted(t *testing.T) {
	var r Record
	assert.False(t, r.IsDeleted())

	now := time.Now()
	r.DeletedAt = &now
	assert.True(t, r.IsDeleted())
}
