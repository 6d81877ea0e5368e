package usecase

import (
	"context"
	"fmt"
	"strings"

	"zentra/internal/backend"
	"zentra/internal/data/entity"
	"zentra/internal/dto/response"

	"go.uber.org/zap"
)

type DashboardService interface {
	Load(ctx context.Context, client backend.Client) (*response.DashboardResponse, error)
}

type dashboardService struct {
	log *zap.Logger
}

func NewDashboardService(log *zap.Logger) DashboardService {
	return &dashboardService{
		log: log.With(zap.String("service", "dashboard")),
	}
}

// Load gathers the owner's organization and its head counts.
func (s *dashboardService) Load(ctx context.Context, client backend.Client) (*response.DashboardResponse, error) {
	// 1. Current session
	session, err := client.GetSession(ctx)
	if err != nil {
		s.log.Error("Failed to read session", zap.Error(err))
		return nil, fmt.Errorf("get session: %w", err)
	}
	if session == nil {
		return nil, ErrNotSignedIn
	}
	userID := session.User.ID

	// 2. Owner profile
	profile, err := loadProfile(ctx, client, userID)
	if err != nil {
		s.log.Error("Failed to load profile", zap.Error(err), zap.String("user_id", userID))
		return nil, err
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}
	if profile.Role != entity.RoleOwner {
		s.log.Warn("Non-owner requested dashboard",
			zap.String("user_id", userID),
			zap.String("role", string(profile.Role)),
		)
		return nil, ErrOwnerOnly
	}

	// 3. Organization
	orgID := profile.OrgID.String()
	rows, err := client.Query(ctx, "organizations", backend.Eq("id", orgID))
	if err != nil {
		s.log.Error("Failed to load organization", zap.Error(err), zap.String("org_id", orgID))
		return nil, fmt.Errorf("query organization: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrOrgNotFound
	}
	var org entity.Organization
	if err := backend.Decode(rows[0], &org); err != nil {
		return nil, err
	}

	// 4. Stats
	shops, err := client.Count(ctx, "shops", backend.Eq("org_id", orgID))
	if err != nil {
		return nil, fmt.Errorf("count shops: %w", err)
	}
	members, err := client.Count(ctx, "users", backend.Eq("org_id", orgID))
	if err != nil {
		return nil, fmt.Errorf("count team members: %w", err)
	}
	managers, err := client.Count(ctx, "users",
		backend.Eq("org_id", orgID),
		backend.Eq("role", string(entity.RoleManager)),
	)
	if err != nil {
		return nil, fmt.Errorf("count managers: %w", err)
	}

	// The owner is a member too but not part of the team.
	team := members - 1
	if team < 0 {
		team = 0
	}

	return &response.DashboardResponse{
		DisplayName: DisplayName(&session.User),
		Email:       session.User.Email,
		Organization: response.OrganizationResponse{
			ID:            org.ID.String(),
			Name:          org.Name,
			OrgCode:       org.OrgCode,
			Passkey:       org.Passkey,
			NumberOfShops: org.NumberOfShops,
			CreatedAt:     org.CreatedAt,
		},
		Stats: response.DashboardStats{
			TotalShops:       shops,
			TotalTeamMembers: team,
			TotalManagers:    managers,
		},
	}, nil
}

// DisplayName is the full name, else the email local part, else "Owner".
func DisplayName(identity *backend.Identity) string {
	if name := identity.Metadata.String("full_name"); name != "" {
		return name
	}
	if local, _, _ := strings.Cut(identity.Email, "@"); local != "" {
		return local
	}
	return "Owner"
}
