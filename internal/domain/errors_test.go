package domain

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{"without wrapped error", &AppError{Code: CodeNotFound, Message: "not found"}, "not found"},
		{"with wrapped error", &AppError{Code: CodeInternal, Message: "db error", Err: errors.New("disk full")}, "db error: disk full"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestErrorHelpers(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
		want  bool
	}{
		{"IsNotFound on sentinel", ErrNotFound, IsNotFound, true},
		{"IsNotFound on new instance", NewAppError(CodeNotFound, "user not found", nil), IsNotFound, true},
		{"IsNotFound on wrapped", fmt.Errorf("load user: %w", ErrNotFound), IsNotFound, true},
		{"IsNotFound on other code", ErrValidation, IsNotFound, false},
		{"IsNotFound on plain error", errors.New("boom"), IsNotFound, false},
		{"IsAlreadyExists", NewAppError(CodeAlreadyExists, "dup", nil), IsAlreadyExists, true},
		{"IsValidation", ErrValidation, IsValidation, true},
		{"IsInternal", ErrInternal, IsInternal, true},
		{"IsUnauthorized", ErrUnauthorized, IsUnauthorized, true},
		{"IsForbidden", ErrForbidden, IsForbidden, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.check(tt.err); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestHTTPStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", ErrNotFound, http.StatusNotFound},
		{"already exists", ErrAlreadyExists, http.StatusConflict},
		{"validation", ErrValidation, http.StatusUnprocessableEntity},
		{"internal", ErrInternal, http.StatusInternalServerError},
		{"unauthorized", ErrUnauthorized, http.StatusUnauthorized},
		{"forbidden", ErrForbidden, http.StatusForbidden},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
		{"nil", nil, http.StatusInternalServerError},
		{"wrapped app error", fmt.Errorf("outer: %w", ErrForbidden), http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTTPStatusCode(tt.err); got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}
