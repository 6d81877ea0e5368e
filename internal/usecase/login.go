package usecase

import (
	"context"

	"zentra/internal/backend"
	"zentra/internal/data/entity"
	"zentra/internal/dto/request"
	"zentra/pkg/utils"

	"go.uber.org/zap"
)

type LoginResult struct {
	Session *backend.Session
	Role    entity.UserRole
}

type LoginService interface {
	OwnerLogin(ctx context.Context, client backend.Client, req *request.LoginRequest) (*LoginResult, error)
	TeamLogin(ctx context.Context, client backend.Client, req *request.LoginRequest) (*LoginResult, error)
}

type loginService struct {
	log *zap.Logger
}

func NewLoginService(log *zap.Logger) LoginService {
	return &loginService{
		log: log.With(zap.String("service", "login")),
	}
}

// OwnerLogin admits only organization owners.
func (s *loginService) OwnerLogin(ctx context.Context, client backend.Client, req *request.LoginRequest) (*LoginResult, error) {
	return s.login(ctx, client, req, func(role entity.UserRole) error {
		if role != entity.RoleOwner {
			return ErrAccessDenied
		}
		return nil
	})
}

// TeamLogin admits managers and employees and sends owners elsewhere.
func (s *loginService) TeamLogin(ctx context.Context, client backend.Client, req *request.LoginRequest) (*LoginResult, error) {
	return s.login(ctx, client, req, func(role entity.UserRole) error {
		switch {
		case role == entity.RoleOwner:
			return ErrUseOwnerLogin
		case role.IsTeam():
			return nil
		default:
			return ErrInvalidRole
		}
	})
}

func (s *loginService) login(
	ctx context.Context,
	client backend.Client,
	req *request.LoginRequest,
	gate func(entity.UserRole) error,
) (*LoginResult, error) {
	// 1. Validate input
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Login validation failed", zap.Any("errors", errs))
		return nil, fieldValidationError(errs)
	}

	// 2. Authenticate
	session, err := client.SignInWithPassword(ctx, req.Email, req.Password)
	if err != nil {
		s.log.Warn("Sign in failed", zap.Error(err), zap.String("email", req.Email))
		return nil, err
	}

	// 3. Read the role from the profile
	profile, err := loadProfile(ctx, client, session.User.ID)
	if err != nil {
		s.log.Error("Failed to load profile after sign in",
			zap.Error(err),
			zap.String("user_id", session.User.ID),
		)
		s.signOut(ctx, client, session.User.ID)
		return nil, err
	}
	if profile == nil {
		s.log.Warn("Signed in user has no profile", zap.String("user_id", session.User.ID))
		s.signOut(ctx, client, session.User.ID)
		return nil, ErrProfileNotFound
	}

	// 4. Role gate
	if err := gate(profile.Role); err != nil {
		s.log.Warn("Login rejected by role gate",
			zap.String("user_id", session.User.ID),
			zap.String("role", string(profile.Role)),
		)
		s.signOut(ctx, client, session.User.ID)
		return nil, err
	}

	s.log.Info("User logged in",
		zap.String("user_id", session.User.ID),
		zap.String("role", string(profile.Role)),
	)
	return &LoginResult{Session: session, Role: profile.Role}, nil
}

func (s *loginService) signOut(ctx context.Context, client backend.Client, userID string) {
	if err := client.SignOut(context.WithoutCancel(ctx)); err != nil {
		s.log.Warn("Forced sign out failed", zap.Error(err), zap.String("user_id", userID))
	}
}
