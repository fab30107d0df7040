package apperrors_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/SscSPs/auradeploy/internal/apperrors"
	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "app error keeps its code", err: apperrors.NewConflictError("busy"), want: http.StatusConflict},
		{name: "duplicate is reported as bad request", err: apperrors.NewDuplicateError("Email already registered"), want: http.StatusBadRequest},
		{name: "wrapped not found", err: fmt.Errorf("find server: %w", apperrors.ErrNotFound), want: http.StatusNotFound},
		{name: "invalid credentials", err: apperrors.ErrInvalidCredentials, want: http.StatusUnauthorized},
		{name: "expired token", err: apperrors.ErrTokenExpired, want: http.StatusUnauthorized},
		{name: "forbidden", err: apperrors.ErrForbidden, want: http.StatusForbidden},
		{name: "upstream down", err: apperrors.ErrUpstreamUnavailable, want: http.StatusBadGateway},
		{name: "unknown", err: errors.New("boom"), want: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, apperrors.StatusCode(tt.err))
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	err := apperrors.NewDuplicateError("Username already taken")
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)
	assert.Equal(t, "Username already taken: resource already exists", err.Error())

	validation := apperrors.NewValidationFailedError([]apperrors.FieldError{{Field: "email", Message: "Please provide a valid email"}})
	assert.ErrorIs(t, validation, apperrors.ErrValidation)
	assert.Len(t, validation.Fields, 1)
}
