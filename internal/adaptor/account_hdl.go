package adaptor

import (
	"encoding/json"
	"net/http"

	"zentra/internal/dto/request"
	"zentra/internal/usecase"
	"zentra/pkg/utils"

	"go.uber.org/zap"
)

type AccountHandler struct {
	service  usecase.AccountService
	sessions *viewSessions
	log      *zap.Logger
}

func NewAccountHandler(service usecase.AccountService, sessions *viewSessions, log *zap.Logger) *AccountHandler {
	return &AccountHandler{
		service:  service,
		sessions: sessions,
		log:      log,
	}
}

// SendOTP handles POST /api/auth/send-otp
func (h *AccountHandler) SendOTP(w http.ResponseWriter, r *http.Request) {
	var req request.SendOTPRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	session := h.sessions.acquire(w, r)
	if session == nil {
		return
	}
	h.sessions.persist(w, session)

	if err := h.service.SendOTP(r.Context(), session.Handle, &req); err != nil {
		h.sessions.handleServiceError(w, err, "send OTP", "", nil)
		return
	}

	utils.ResponseSuccess(w, "Confirmation code sent (check console/logs)", nil)
}

// VerifyEmail handles POST /api/auth/verify-email
func (h *AccountHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req request.VerifyEmailRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	session := h.sessions.acquire(w, r)
	if session == nil {
		return
	}
	h.sessions.persist(w, session)

	if err := h.service.VerifyEmail(r.Context(), session.Handle, &req); err != nil {
		h.sessions.handleServiceError(w, err, "verify email", "", nil)
		return
	}

	utils.ResponseSuccess(w, "Email verified successfully", nil)
}
