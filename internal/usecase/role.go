package usecase

import (
	"context"
	"fmt"

	"zentra/internal/backend"
	"zentra/internal/data/entity"

	"go.uber.org/zap"
)

// loadProfile returns the first profile row for userID, or nil.
func loadProfile(ctx context.Context, client backend.Client, userID string) (*entity.User, error) {
	rows, err := client.Query(ctx, "users", backend.Eq("id", userID))
	if err != nil {
		return nil, fmt.Errorf("query profile: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	var user entity.User
	if err := backend.Decode(rows[0], &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ResolveRole looks up the role of userID. Lookup failures are logged and
// yield an empty role.
func ResolveRole(ctx context.Context, client backend.Client, userID string, log *zap.Logger) entity.UserRole {
	user, err := loadProfile(ctx, client, userID)
	if err != nil {
		log.Warn("Role lookup failed", zap.Error(err), zap.String("user_id", userID))
		return ""
	}
	if user == nil {
		log.Warn("Role lookup found no profile", zap.String("user_id", userID))
		return ""
	}
	return user.Role
}
