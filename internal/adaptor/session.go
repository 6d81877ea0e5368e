package adaptor

import (
	"errors"
	"net/http"

	"zentra/internal/backend"
	"zentra/internal/usecase"
	"zentra/internal/view"
	"zentra/pkg/utils"

	"go.uber.org/zap"
)

// viewSessions ties requests to their view session through cookies.
type viewSessions struct {
	registry *view.Registry
	cookies  *utils.CookieCodec
	log      *zap.Logger
}

// acquire returns the caller's view session, creating one on first visit.
// It writes the error response itself and returns nil on failure.
func (s *viewSessions) acquire(w http.ResponseWriter, r *http.Request) *view.Session {
	viewID, _ := utils.GetViewIDFromContext(r.Context())
	token, _ := utils.GetTokenFromContext(r.Context())

	session, err := s.registry.Acquire(r.Context(), viewID, token)
	if err != nil {
		s.log.Warn("Failed to acquire view session", zap.Error(err), zap.String("view_id", viewID))
		utils.ResponseUnavailable(w, "Service is shutting down")
		return nil
	}
	return session
}

// persist writes the view id and current auth token back to the browser.
// It must run before the response body is written.
func (s *viewSessions) persist(w http.ResponseWriter, session *view.Session) {
	if err := s.cookies.Write(w, utils.ViewCookieName, session.ID); err != nil {
		s.log.Error("Failed to write view cookie", zap.Error(err))
	}
	if err := s.cookies.Write(w, utils.SessionCookieName, session.Handle.Token()); err != nil {
		s.log.Error("Failed to write session cookie", zap.Error(err))
	}
}

// handleServiceError maps err to a status code. message overrides the
// default text when the view already holds a user-facing error; data is
// the rendered view, if any.
func (s *viewSessions) handleServiceError(w http.ResponseWriter, err error, operation, message string, data any) {
	code, text := errorStatus(err)
	if message != "" && code != http.StatusInternalServerError {
		text = message
	}

	var fields any
	var ve *usecase.ValidationError
	if errors.As(err, &ve) && len(ve.Fields) > 0 {
		fields = ve.Fields
	}

	if code >= http.StatusInternalServerError {
		s.log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
	} else {
		s.log.Warn(operation+" failed", zap.Error(err), zap.Int("status", code))
	}
	utils.ResponseJSON(w, code, false, text, data, fields)
}

func errorStatus(err error) (int, string) {
	var ve *usecase.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, ve.Message
	}

	switch {
	case errors.Is(err, view.ErrUnknownAction):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, view.ErrWrongScreen), errors.Is(err, usecase.ErrBusy):
		return http.StatusConflict, err.Error()
	case errors.Is(err, view.ErrStopped):
		return http.StatusServiceUnavailable, err.Error()
	case usecase.IsAuthorizationError(err), errors.Is(err, usecase.ErrOwnerOnly):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, usecase.ErrNotSignedIn):
		return http.StatusUnauthorized, "Authentication required"
	case errors.Is(err, usecase.ErrOrgNotFound):
		return http.StatusNotFound, err.Error()
	}

	var be *backend.Error
	if errors.As(err, &be) {
		switch be.Code {
		case backend.CodeUserAlreadyExists, backend.CodeConflict:
			return http.StatusConflict, be.Message
		case backend.CodeInvalidCredentials, backend.CodeEmailNotConfirmed, backend.CodeSessionNotFound:
			return http.StatusUnauthorized, be.Message
		case backend.CodeWeakPassword, backend.CodeInvalidEmail, backend.CodeBadRequest, backend.CodeOTPExpired:
			return http.StatusBadRequest, be.Message
		case backend.CodeNotFound:
			return http.StatusNotFound, be.Message
		case backend.CodeUnavailable:
			return http.StatusServiceUnavailable, "Service temporarily unavailable"
		}
	}
	return http.StatusInternalServerError, "Internal server error"
}
