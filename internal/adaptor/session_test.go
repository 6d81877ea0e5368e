package adaptor

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"zentra/internal/backend"
	"zentra/internal/usecase"
	"zentra/internal/view"

	"github.com/stretchr/testify/assert"
)

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"validation", &usecase.ValidationError{Message: "Passwords do not match"}, http.StatusBadRequest},
		{"unknown action", view.ErrUnknownAction, http.StatusBadRequest},
		{"wrong screen", view.ErrWrongScreen, http.StatusConflict},
		{"busy", usecase.ErrBusy, http.StatusConflict},
		{"stopped", view.ErrStopped, http.StatusServiceUnavailable},
		{"access denied", usecase.ErrAccessDenied, http.StatusForbidden},
		{"wrapped org credentials", fmt.Errorf("%w: boom", usecase.ErrInvalidOrgCredentials), http.StatusForbidden},
		{"owner only", usecase.ErrOwnerOnly, http.StatusForbidden},
		{"not signed in", usecase.ErrNotSignedIn, http.StatusUnauthorized},
		{"org not found", usecase.ErrOrgNotFound, http.StatusNotFound},
		{"already registered", &backend.Error{Code: backend.CodeUserAlreadyExists, Message: "User already registered"}, http.StatusConflict},
		{"bad credentials", &backend.Error{Code: backend.CodeInvalidCredentials, Message: "Invalid login credentials"}, http.StatusUnauthorized},
		{"weak password", &backend.Error{Code: backend.CodeWeakPassword}, http.StatusBadRequest},
		{"saga conflict", &usecase.SagaError{Step: "create organization", Err: &backend.Error{Code: backend.CodeConflict}}, http.StatusConflict},
		{"unavailable", &backend.Error{Code: backend.CodeUnavailable}, http.StatusServiceUnavailable},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _ := errorStatus(tt.err)
			assert.Equal(t, tt.code, code)
		})
	}
}

func TestErrorStatus_HidesInternalMessages(t *testing.T) {
	_, msg := errorStatus(errors.New("pq: connection refused at 10.0.0.1"))
	assert.Equal(t, "Internal server error", msg)
}
