package response

import (
	"time"
)

type OrganizationResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	OrgCode       string    `json:"org_code"`
	Passkey       string    `json:"passkey"`
	NumberOfShops int       `json:"number_of_shops"`
	CreatedAt     time.Time `json:"created_at"`
}

type DashboardStats struct {
	TotalShops       int64 `json:"total_shops"`
	TotalTeamMembers int64 `json:"total_team_members"`
	TotalManagers    int64 `json:"total_managers"`
}

type DashboardResponse struct {
	DisplayName  string               `json:"display_name"`
	Email        string               `json:"email"`
	Organization OrganizationResponse `json:"organization"`
	Stats        DashboardStats       `json:"stats"`
}
