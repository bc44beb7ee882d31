package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestNewDatabaseErrorMapsRecordNotFound(t *testing.T) {
	err := NewDatabaseError("find", "contact", fmt.Errorf("lookup: %w", gorm.ErrRecordNotFound))

	assert.Equal(t, http.StatusNotFound, err.StatusCode)
	assert.True(t, IsNotFound(err))
	assert.Equal(t, "contact not found", err.Message())
}

func TestNewDatabaseErrorMapsDuplicateKey(t *testing.T) {
	cause := fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey)
	err := NewDatabaseError("create", "project", cause)

	assert.Equal(t, http.StatusConflict, err.StatusCode)
	assert.ErrorIs(t, err, ErrAlreadyExists)
	assert.Equal(t, "project already exists", err.Message())
	assert.Equal(t, "Failed to create project", err.Details)
	assert.Same(t, cause, err.Cause)
}

func TestTokenErrorsAreUnauthorized(t *testing.T) {
	cause := errors.New("signature is invalid")
	invalid := NewInvalidTokenError(cause)
	missing := NewMissingTokenError()

	assert.Equal(t, http.StatusUnauthorized, invalid.StatusCode)
	assert.True(t, IsInvalidTokenError(invalid))
	assert.False(t, IsMissingTokenError(invalid))
	assert.Contains(t, invalid.GetFullError(), "signature is invalid")

	assert.Equal(t, http.StatusUnauthorized, missing.StatusCode)
	assert.True(t, IsMissingTokenError(missing))
	assert.True(t, IsUnauthorized(Unauthorized))
}

func TestNewDatabaseErrorMapsConnectivity(t *testing.T) {
	err := NewDatabaseError("list", "testimonials", errors.New("failed to connect to host: connection refused"))

	assert.Equal(t, http.StatusServiceUnavailable, err.StatusCode)
	assert.True(t, IsDatabaseConnectionError(err))
}

func TestNewDatabaseErrorGeneric(t *testing.T) {
	cause := errors.New("syntax error at or near")
	err := NewDatabaseError("create", "project", cause)

	assert.Equal(t, http.StatusInternalServerError, err.StatusCode)
	assert.Equal(t, "Failed to create project", err.Details)
	assert.Contains(t, err.GetFullError(), "syntax error")
}

func TestNewDatabaseErrorUsesSQLState(t *testing.T) {
	cases := map[string]int{
		"23505": http.StatusConflict,
		"42501": http.StatusForbidden,
		"08006": http.StatusServiceUnavailable,
		"57P01": http.StatusServiceUnavailable,
		"42P01": http.StatusInternalServerError,
	}
	for code, status := range cases {
		t.Run(code, func(t *testing.T) {
			cause := fmt.Errorf("insert: %w", &pgconn.PgError{Code: code, Message: "boom"})
			assert.Equal(t, status, NewDatabaseError("create", "contact", cause).StatusCode)
		})
	}
}

func TestTaggedConstructorsKeepMessageAndSentinel(t *testing.T) {
	err := NewNotFoundError("project not found")

	assert.Equal(t, "project not found", err.Error())
	assert.True(t, IsNotFound(err))
	assert.False(t, IsConflict(err))
}

func TestConfirmationRequired(t *testing.T) {
	err := NewConfirmationRequiredError("Are you sure you want to delete this contact?")

	assert.Equal(t, http.StatusPreconditionRequired, err.StatusCode)
	assert.True(t, IsConfirmationRequired(err))
	assert.Equal(t, "Are you sure you want to delete this contact?", err.Details)
}

func TestValidationErrIsDeterministic(t *testing.T) {
	err := NewValidationError(map[string]string{
		"name":  "Name is required.",
		"email": "Invalid email address.",
	})

	assert.True(t, IsValidationError(err))
	assert.Equal(t, "validation failed: email: Invalid email address.; name: Name is required.", err.Error())
}
