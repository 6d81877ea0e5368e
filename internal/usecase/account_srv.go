package usecase

import (
	"context"

	"zentra/internal/backend"
	"zentra/internal/dto/request"
	"zentra/pkg/utils"

	"go.uber.org/zap"
)

// AccountService handles email confirmation for new identities.
type AccountService interface {
	VerifyEmail(ctx context.Context, client backend.Client, req *request.VerifyEmailRequest) error
	SendOTP(ctx context.Context, client backend.Client, req *request.SendOTPRequest) error
}

type accountService struct {
	log *zap.Logger
}

func NewAccountService(log *zap.Logger) AccountService {
	return &accountService{
		log: log.With(zap.String("service", "account")),
	}
}

func (s *accountService) VerifyEmail(ctx context.Context, client backend.Client, req *request.VerifyEmailRequest) error {
	// 1. Validate input
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Verify email validation failed", zap.Any("errors", errs))
		return fieldValidationError(errs)
	}

	// 2. Confirm with the auth service
	if err := client.VerifyEmail(ctx, req.Email, req.OTP); err != nil {
		s.log.Warn("Email verification failed", zap.Error(err), zap.String("email", req.Email))
		return err
	}

	s.log.Info("Email verified", zap.String("email", req.Email))
	return nil
}

// SendOTP asks the auth service to issue a fresh confirmation code. It
// does not reveal whether the address is registered.
func (s *accountService) SendOTP(ctx context.Context, client backend.Client, req *request.SendOTPRequest) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Send OTP validation failed", zap.Any("errors", errs))
		return fieldValidationError(errs)
	}

	if err := client.ResendConfirmation(ctx, req.Email); err != nil {
		s.log.Error("Failed to resend confirmation", zap.Error(err), zap.String("email", req.Email))
		return err
	}
	return nil
}
