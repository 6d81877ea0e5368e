package usecase

import (
	"context"
	"fmt"

	"zentra/internal/backend"
	"zentra/internal/data/entity"
	"zentra/internal/dto/request"
	"zentra/pkg/utils"

	"go.uber.org/zap"
)

type TeamSignupService interface {
	Submit(ctx context.Context, client backend.Client, req *request.TeamSignupRequest) error
}

type teamSignupService struct {
	log *zap.Logger
}

func NewTeamSignupService(log *zap.Logger) TeamSignupService {
	return &teamSignupService{
		log: log.With(zap.String("service", "team_signup")),
	}
}

// Submit joins an existing organization. The org code and passkey must
// match the same organization exactly; no owner approval is involved.
func (s *teamSignupService) Submit(ctx context.Context, client backend.Client, req *request.TeamSignupRequest) error {
	// 1. Validate input
	if req.Role == "" {
		req.Role = string(entity.RoleEmployee)
	}
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Team sign up validation failed", zap.Any("errors", errs))
		return fieldValidationError(errs)
	}

	// 2. Find the organization by both credentials
	orgs, err := client.Query(ctx, "organizations",
		backend.Eq("org_code", req.OrgCode),
		backend.Eq("passkey", req.Passkey),
	)
	if err != nil {
		s.log.Error("Organization query failed", zap.Error(err))
		return fmt.Errorf("query organization: %w", err)
	}
	if len(orgs) == 0 {
		s.log.Warn("Invalid organization credentials", zap.String("email", req.Email))
		return ErrInvalidOrgCredentials
	}
	orgID := orgs[0].String("id")

	// 3. Create the identity
	identity, err := client.SignUp(ctx, req.Email, req.Password, backend.Metadata{
		"full_name": req.Name,
		"role":      req.Role,
	})
	if err != nil {
		s.log.Warn("Team sign up failed", zap.Error(err), zap.String("email", req.Email))
		return err
	}

	// 4. Create the profile
	_, err = client.Insert(ctx, "users", backend.Record{
		"id":     identity.ID,
		"name":   req.Name,
		"email":  req.Email,
		"phone":  "",
		"role":   req.Role,
		"org_id": orgID,
	})
	if err != nil {
		s.log.Error("Failed to create team profile, removing identity",
			zap.Error(err),
			zap.String("user_id", identity.ID),
		)
		var rollback error
		if delErr := client.DeleteUser(context.WithoutCancel(ctx), identity.ID); delErr != nil {
			s.log.Error("Rollback incomplete", zap.Error(delErr), zap.String("user_id", identity.ID))
			rollback = delErr
		}
		return &SagaError{Step: "create team profile", Err: err, Rollback: rollback}
	}

	s.log.Info("Team member joined",
		zap.String("user_id", identity.ID),
		zap.String("org_id", orgID),
		zap.String("role", req.Role),
	)
	return nil
}
