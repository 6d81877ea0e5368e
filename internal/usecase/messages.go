package usecase

import (
	"errors"
	"strings"

	"zentra/internal/backend"
)

const (
	msgAlreadyRegistered  = "This email is already registered. Please log in or use a different email address."
	msgInvalidEmail       = "Please enter a valid email address."
	msgPasswordTooShort   = "Password must be at least 6 characters long."
	msgInvalidCredentials = "Invalid email or password. Please check your credentials and try again."
	msgEmailNotConfirmed  = "Please confirm your email address before logging in."

	DefaultOrganizationSignupMessage = "An error occurred during organization creation. Please try again."
	DefaultTeamSignupMessage         = "An error occurred during sign up. Please try again."
	DefaultLoginMessage              = "Login failed. Please try again."
)

// SignupErrorMessage turns a sign-up failure into the text shown on the
// form. fallback is used when the error carries no message.
func SignupErrorMessage(err error, fallback string) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	if IsAuthorizationError(err) {
		return authorizationMessage(err)
	}

	msg := errorMessage(err)
	switch {
	case strings.Contains(msg, "User already registered"),
		strings.Contains(msg, "user_already_exists"),
		backend.IsCode(err, backend.CodeUserAlreadyExists):
		return msgAlreadyRegistered
	case strings.Contains(msg, "Invalid email"),
		backend.IsCode(err, backend.CodeInvalidEmail):
		return msgInvalidEmail
	case strings.Contains(msg, "Password"):
		return msgPasswordTooShort
	case msg == "":
		return fallback
	}
	return msg
}

// LoginErrorMessage is SignupErrorMessage for the two login forms.
func LoginErrorMessage(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	if IsAuthorizationError(err) {
		return authorizationMessage(err)
	}

	msg := errorMessage(err)
	switch {
	case strings.Contains(msg, "Invalid login credentials"):
		return msgInvalidCredentials
	case strings.Contains(msg, "Email not confirmed"):
		return msgEmailNotConfirmed
	case msg == "":
		return DefaultLoginMessage
	}
	return msg
}

// errorMessage prefers the service's own wording over our wrapping.
func errorMessage(err error) string {
	if err == nil {
		return ""
	}
	var be *backend.Error
	if errors.As(err, &be) {
		return be.Message
	}
	return err.Error()
}

func authorizationMessage(err error) string {
	for _, target := range authorizationErrors {
		if errors.Is(err, target) {
			return target.Error()
		}
	}
	return err.Error()
}
