package backend

import (
	"errors"
	"net/http"
)

// Error codes follow the hosted auth service so that messages and codes
// coming back over REST and from the local gateways look the same.
const (
	CodeUserAlreadyExists  = "user_already_exists"
	CodeInvalidCredentials = "invalid_credentials"
	CodeEmailNotConfirmed  = "email_not_confirmed"
	CodeWeakPassword       = "weak_password"
	CodeInvalidEmail       = "email_address_invalid"
	CodeSessionNotFound    = "session_not_found"
	CodeOTPExpired         = "otp_expired"
	CodeConflict           = "conflict"
	CodeNotFound           = "not_found"
	CodeBadRequest         = "bad_request"
	CodeUnavailable        = "unavailable"
	CodeUnexpected         = "unexpected_failure"
)

// Error is every failure reported by a Gateway.
type Error struct {
	Code    string
	Message string
	Status  int
}

func (e *Error) Error() string {
	return e.Message
}

// IsCode reports whether err is a *Error carrying code.
func IsCode(err error, code string) bool {
	var be *Error
	return errors.As(err, &be) && be.Code == code
}

func newError(status int, code, message string) *Error {
	return &Error{Code: code, Message: message, Status: status}
}

func errUserAlreadyRegistered() *Error {
	return newError(http.StatusUnprocessableEntity, CodeUserAlreadyExists, "User already registered")
}

func errInvalidCredentials() *Error {
	return newError(http.StatusBadRequest, CodeInvalidCredentials, "Invalid login credentials")
}

func errEmailNotConfirmed() *Error {
	return newError(http.StatusBadRequest, CodeEmailNotConfirmed, "Email not confirmed")
}

func errWeakPassword() *Error {
	return newError(http.StatusUnprocessableEntity, CodeWeakPassword, "Password should be at least 6 characters")
}

func errInvalidEmail() *Error {
	return newError(http.StatusBadRequest, CodeInvalidEmail, "Invalid email address")
}

func errSessionNotFound() *Error {
	return newError(http.StatusUnauthorized, CodeSessionNotFound, "Session not found")
}

func errOTPExpired() *Error {
	return newError(http.StatusForbidden, CodeOTPExpired, "Token has expired or is invalid")
}

func errNotFound(message string) *Error {
	return newError(http.StatusNotFound, CodeNotFound, message)
}

func errConflict(message string) *Error {
	return newError(http.StatusConflict, CodeConflict, message)
}

func errBadRequest(message string) *Error {
	return newError(http.StatusBadRequest, CodeBadRequest, message)
}

func errUnavailable(message string) *Error {
	return newError(http.StatusServiceUnavailable, CodeUnavailable, message)
}

func errUnexpected(message string) *Error {
	return newError(http.StatusInternalServerError, CodeUnexpected, message)
}

// MinPasswordLength is the shortest password the service accepts.
const MinPasswordLength = 6
