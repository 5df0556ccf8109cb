package util

import (
	"errors"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestToDomainErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   string
		wantStatus int
	}{
		{
			name:       "missing row",
			err:        pgx.ErrNoRows,
			wantCode:   CodeNotFound,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "unique violation",
			err:        &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"},
			wantCode:   CodeConflict,
			wantStatus: http.StatusConflict,
		},
		{
			name:       "foreign key violation",
			err:        &pgconn.PgError{Code: "23503"},
			wantCode:   CodeValidation,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed uuid",
			err:        &pgconn.PgError{Code: "22P02"},
			wantCode:   CodeValidation,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown error",
			err:        errors.New("boom"),
			wantCode:   CodeInternal,
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			domainErr := ToDomainError(tc.err)
			assert.Equal(t, tc.wantCode, domainErr.Code)
			assert.Equal(t, tc.wantStatus, domainErr.HTTPStatus)
		})
	}
}

func TestNewTooManyRequestsStatus(t *testing.T) {
	mapped := ToDomainError(NewTooManyRequests("slow down"))

	assert.Equal(t, CodeRateLimited, mapped.Code)
	assert.Equal(t, http.StatusTooManyRequests, mapped.HTTPStatus)
}

func TestToDomainErrorPassesThroughDomainErrors(t *testing.T) {
	original := NewForbidden("not yours")

	mapped := ToDomainError(original)

	assert.Equal(t, CodeForbidden, mapped.Code)
	assert.Equal(t, "not yours", mapped.Message)
}

func TestToDomainErrorUnwrapsWrappedErrors(t *testing.T) {
	wrapped := NewInternalError(pgx.ErrNoRows)

	// already a DomainError; the inner cause must not re-map it
	assert.Equal(t, CodeInternal, ToDomainError(wrapped).Code)
	assert.True(t, errors.Is(wrapped, pgx.ErrNoRows))
}

func TestToDomainErrorNil(t *testing.T) {
	assert.Nil(t, ToDomainError(nil))
}
