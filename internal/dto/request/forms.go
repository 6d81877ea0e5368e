package request

// OrganizationFormUpdate patches the organization sign-up form. Nil fields
// are left unchanged.
type OrganizationFormUpdate struct {
	FullName          *string `json:"fullName,omitempty"`
	Email             *string `json:"email,omitempty"`
	Phone             *string `json:"phone,omitempty"`
	Password          *string `json:"password,omitempty"`
	ConfirmPassword   *string `json:"confirmPassword,omitempty"`
	OrganizationName  *string `json:"organizationName,omitempty"`
	NumberOfShops     *string `json:"numberOfShops,omitempty"`
	FirstShopName     *string `json:"firstShopName,omitempty"`
	FirstShopLocation *string `json:"firstShopLocation,omitempty"`
	FirstShopCategory *string `json:"firstShopCategory,omitempty"`
}

// TeamSignupRequest is the single-step manager/employee sign-up form.
type TeamSignupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=Manager Employee"`
	OrgCode  string `json:"orgCode" validate:"required"`
	Passkey  string `json:"passkey" validate:"required"`
}
