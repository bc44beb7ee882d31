package errs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrAlreadyExists      = errors.New("already exists")
	ErrNotFound           = errors.New("not found")
	ErrDatabaseQuery      = errors.New("database query failed")
	ErrDatabaseConnection = errors.New("database connection failed")
	ErrPermissionDenied   = errors.New("permission denied")
)

func NewAlreadyExists(entity string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusConflict,
		err:        fmt.Errorf("%s %w", entity, ErrAlreadyExists),
	}
}

func NewNotFound(entity string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusNotFound,
		err:        fmt.Errorf("%s %w", entity, ErrNotFound),
	}
}

// dbFailure is the class of a store error, decided from its SQLSTATE when the
// driver reports one and from the message otherwise.
type dbFailure int

const (
	failureQuery dbFailure = iota
	failureNotFound
	failureDuplicate
	failurePermission
	failureConnection
)

func classify(cause error) dbFailure {
	if errors.Is(cause, gorm.ErrRecordNotFound) || errors.Is(cause, ErrNotFound) {
		return failureNotFound
	}
	if errors.Is(cause, gorm.ErrDuplicatedKey) {
		return failureDuplicate
	}
	if errors.Is(cause, context.DeadlineExceeded) {
		return failureConnection
	}

	var pgErr *pgconn.PgError
	if errors.As(cause, &pgErr) {
		switch {
		case pgErr.Code == "23505":
			return failureDuplicate
		case pgErr.Code == "42501":
			return failurePermission
		case strings.HasPrefix(pgErr.Code, "08"), strings.HasPrefix(pgErr.Code, "57P"):
			return failureConnection
		}
		return failureQuery
	}
	if pgconn.SafeToRetry(cause) || pgconn.Timeout(cause) {
		return failureConnection
	}

	errStr := cause.Error()
	switch {
	case strings.Contains(errStr, "duplicate key"):
		return failureDuplicate
	case strings.Contains(errStr, "permission denied"):
		return failurePermission
	case strings.Contains(errStr, "connection"), strings.Contains(errStr, "connect:"):
		return failureConnection
	}
	return failureQuery
}

// NewDatabaseError creates a new database error with details about the operation
func NewDatabaseError(operation, entity string, cause error) *ApiErr {
	details := fmt.Sprintf("Failed to %s %s", operation, entity)
	if cause == nil {
		return &ApiErr{StatusCode: http.StatusInternalServerError, err: ErrDatabaseQuery, Details: details}
	}

	apiErr := &ApiErr{}
	switch classify(cause) {
	case failureNotFound:
		apiErr = NewNotFound(entity)
	case failureDuplicate:
		apiErr = NewAlreadyExists(entity)
	case failurePermission:
		apiErr.StatusCode = http.StatusForbidden
		apiErr.err = ErrPermissionDenied
	case failureConnection:
		apiErr.StatusCode = http.StatusServiceUnavailable
		apiErr.err = ErrDatabaseConnection
		apiErr.Details = "Unable to connect to database"
	default:
		apiErr.StatusCode = http.StatusInternalServerError
		apiErr.err = ErrDatabaseQuery
	}
	if apiErr.Details == "" {
		apiErr.Details = details
	}
	apiErr.Cause = cause
	return apiErr
}

func IsDatabaseConnectionError(err error) bool {
	return errors.Is(err, ErrDatabaseConnection)
}
