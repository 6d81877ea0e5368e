package usecase

import (
	"go.uber.org/zap"
)

type Service struct {
	OrganizationSignup OrganizationSignupService
	TeamSignup         TeamSignupService
	Login              LoginService
	Dashboard          DashboardService
	Account            AccountService
}

// NewService wires every use case. A nil generator uses
// utils.GenerateSecureCode.
func NewService(generate CodeGenerator, log *zap.Logger) *Service {
	return &Service{
		OrganizationSignup: NewOrganizationSignupService(generate, log),
		TeamSignup:         NewTeamSignupService(log),
		Login:              NewLoginService(log),
		Dashboard:          NewDashboardService(log),
		Account:            NewAccountService(log),
	}
}
