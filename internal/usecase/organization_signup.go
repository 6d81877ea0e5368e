package usecase

import (
	"context"
	"errors"
	"fmt"

	"zentra/internal/backend"
	"zentra/internal/data/entity"
	"zentra/pkg/utils"

	"go.uber.org/zap"
)

const maxCodeAttempts = 3

// CodeGenerator returns a random code of the given length.
type CodeGenerator func(length int) (string, error)

// OrgData is carried from a successful sign-up to the confirmation screen.
type OrgData struct {
	OrgCode string
	Passkey string
	OrgName string
}

type OrganizationSignupService interface {
	Submit(ctx context.Context, client backend.Client, form *OrganizationSignupForm) (*OrgData, error)
}

type organizationSignupService struct {
	generate CodeGenerator
	log      *zap.Logger
}

func NewOrganizationSignupService(generate CodeGenerator, log *zap.Logger) OrganizationSignupService {
	if generate == nil {
		generate = utils.GenerateSecureCode
	}
	return &organizationSignupService{
		generate: generate,
		log:      log.With(zap.String("service", "organization_signup")),
	}
}

// Submit creates the owner identity, the organization, the owner profile
// and the first shop. If a row insert fails, everything already written is
// removed again before the error is returned.
func (s *organizationSignupService) Submit(ctx context.Context, client backend.Client, form *OrganizationSignupForm) (*OrgData, error) {
	// 1. Local gates
	shops, err := form.CheckSubmit()
	if err != nil {
		s.log.Warn("Organization sign up validation failed", zap.Error(err))
		return nil, err
	}

	// 2. Generate codes
	orgCode, passkey, err := s.codes()
	if err != nil {
		s.log.Error("Failed to generate organization codes", zap.Error(err))
		return nil, fmt.Errorf("generate organization codes: %w", err)
	}

	// 3. Create the owner identity
	identity, err := client.SignUp(ctx, form.Email, form.Password, backend.Metadata{
		"full_name": form.FullName,
		"phone":     form.Phone,
		"role":      string(entity.RoleOwner),
	})
	if err != nil {
		s.log.Warn("Owner sign up failed", zap.Error(err), zap.String("email", form.Email))
		return nil, err
	}

	saga := &signupSaga{client: client, log: s.log, userID: identity.ID}

	// 4. Organization, regenerating codes on an org_code collision
	var org backend.Record
	for attempt := 1; ; attempt++ {
		org, err = client.Insert(ctx, "organizations", backend.Record{
			"name":            form.OrganizationName,
			"owner_id":        identity.ID,
			"org_code":        orgCode,
			"passkey":         passkey,
			"number_of_shops": shops,
		})
		if err == nil {
			break
		}
		if !backend.IsCode(err, backend.CodeConflict) {
			return nil, saga.fail(ctx, "create organization", err)
		}
		if attempt >= maxCodeAttempts {
			return nil, saga.fail(ctx, "create organization", fmt.Errorf("%w: %w", ErrCodesExhausted, err))
		}

		s.log.Warn("Organization code collision, regenerating", zap.Int("attempt", attempt))
		if orgCode, passkey, err = s.codes(); err != nil {
			return nil, saga.fail(ctx, "generate organization codes", err)
		}
	}
	orgID := org.String("id")
	saga.orgID = orgID

	// 5. Owner profile
	_, err = client.Insert(ctx, "users", backend.Record{
		"id":     identity.ID,
		"name":   form.FullName,
		"email":  form.Email,
		"phone":  form.Phone,
		"role":   string(entity.RoleOwner),
		"org_id": orgID,
	})
	if err != nil {
		return nil, saga.fail(ctx, "create owner profile", err)
	}
	saga.profile = true

	// 6. First shop
	_, err = client.Insert(ctx, "shops", backend.Record{
		"name":     form.FirstShopName,
		"location": form.FirstShopLocation,
		"category": form.FirstShopCategory,
		"org_id":   orgID,
	})
	if err != nil {
		return nil, saga.fail(ctx, "create first shop", err)
	}

	s.log.Info("Organization created",
		zap.String("org_id", orgID),
		zap.String("owner_id", identity.ID),
		zap.String("org_name", form.OrganizationName),
	)

	return &OrgData{
		OrgCode: orgCode,
		Passkey: passkey,
		OrgName: form.OrganizationName,
	}, nil
}

func (s *organizationSignupService) codes() (string, string, error) {
	orgCode, err := s.generate(utils.OrgCredentialLength)
	if err != nil {
		return "", "", err
	}
	passkey, err := s.generate(utils.OrgCredentialLength)
	if err != nil {
		return "", "", err
	}
	return orgCode, passkey, nil
}

// signupSaga tracks what organization sign-up has written so far.
type signupSaga struct {
	client  backend.Client
	log     *zap.Logger
	userID  string
	orgID   string
	profile bool
}

// fail undoes completed steps in reverse order and wraps cause.
func (s *signupSaga) fail(ctx context.Context, step string, cause error) error {
	s.log.Error("Organization sign up failed, rolling back",
		zap.String("step", step),
		zap.String("user_id", s.userID),
		zap.Error(cause),
	)

	// The request may already be cancelled; compensation still has to run.
	ctx = context.WithoutCancel(ctx)

	var errs []error
	if s.orgID != "" {
		if err := s.client.Delete(ctx, "shops", backend.Eq("org_id", s.orgID)); err != nil {
			errs = append(errs, fmt.Errorf("delete shops: %w", err))
		}
	}
	if s.profile {
		if err := s.client.Delete(ctx, "users", backend.Eq("id", s.userID)); err != nil {
			errs = append(errs, fmt.Errorf("delete owner profile: %w", err))
		}
	}
	if s.orgID != "" {
		if err := s.client.Delete(ctx, "organizations", backend.Eq("id", s.orgID)); err != nil {
			errs = append(errs, fmt.Errorf("delete organization: %w", err))
		}
	}
	if err := s.client.DeleteUser(ctx, s.userID); err != nil {
		errs = append(errs, fmt.Errorf("delete identity: %w", err))
	}

	rollback := errors.Join(errs...)
	if rollback != nil {
		s.log.Error("Rollback incomplete", zap.Error(rollback), zap.String("user_id", s.userID))
	}
	return &SagaError{Step: step, Err: cause, Rollback: rollback}
}
