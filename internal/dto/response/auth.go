package response

import (
	"zentra/internal/backend"
	"zentra/internal/data/entity"
)

type UserResponse struct {
	ID       string          `json:"id"`
	Email    string          `json:"email"`
	FullName string          `json:"full_name,omitempty"`
	Role     entity.UserRole `json:"role,omitempty"`
}

func IdentityToResponse(identity *backend.Identity, role entity.UserRole) *UserResponse {
	if identity == nil {
		return nil
	}
	return &UserResponse{
		ID:       identity.ID,
		Email:    identity.Email,
		FullName: identity.Metadata.String("full_name"),
		Role:     role,
	}
}
