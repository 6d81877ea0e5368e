package usecase

import (
	"errors"
	"fmt"

	"zentra/pkg/utils"
)

// User-facing authorization failures. They are shown verbatim and are
// always preceded by a forced sign-out.
var (
	ErrAccessDenied    = errors.New("Access denied. Only Organization Owners can log in here.")
	ErrUseOwnerLogin   = errors.New("Owners should use the Owner Login. Please use the correct login page.")
	ErrInvalidRole     = errors.New("Invalid user role. Please contact your organization administrator.")
	ErrProfileNotFound = errors.New("User profile not found")

	ErrInvalidOrgCredentials = errors.New("Invalid Organization Code or Passkey. Please verify these exact credentials with your organization owner. If you are an organization owner, check your Organization Dashboard for the correct codes.")
)

var (
	ErrNotSignedIn     = errors.New("not signed in")
	ErrOwnerOnly       = errors.New("only organization owners can view the dashboard")
	ErrOrgNotFound     = errors.New("organization not found")
	ErrCodesExhausted  = errors.New("could not allocate a unique organization code")
	ErrIncompleteSteps = errors.New("complete all steps before submitting")
	ErrBusy            = errors.New("a submission is already in progress")
)

// authorizationErrors are passed through to the user unchanged.
var authorizationErrors = []error{
	ErrAccessDenied,
	ErrUseOwnerLogin,
	ErrInvalidRole,
	ErrProfileNotFound,
	ErrInvalidOrgCredentials,
}

// IsAuthorizationError reports whether err is one of the deliberate
// role or credential rejections.
func IsAuthorizationError(err error) bool {
	for _, target := range authorizationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// ValidationError is a local form check that failed before any network
// call was made.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Message
}

func newValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

func fieldValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{
		Message: utils.FormatValidationErrors(fields),
		Fields:  fields,
	}
}

// SagaError is returned when a multi-step creation failed after some
// records were written. Rollback holds any compensation failures.
type SagaError struct {
	Step     string
	Err      error
	Rollback error
}

func (e *SagaError) Error() string {
	if e.Rollback != nil {
		return fmt.Sprintf("%s: %v (rollback incomplete: %v)", e.Step, e.Err, e.Rollback)
	}
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *SagaError) Unwrap() error {
	return e.Err
}
