package response

type OrgDataResponse struct {
	OrgCode string `json:"org_code"`
	Passkey string `json:"passkey"`
	OrgName string `json:"org_name"`
}

// OrganizationFormResponse echoes the sign-up form without passwords.
type OrganizationFormResponse struct {
	Step              int    `json:"step"`
	FullName          string `json:"fullName"`
	Email             string `json:"email"`
	Phone             string `json:"phone"`
	OrganizationName  string `json:"organizationName"`
	NumberOfShops     string `json:"numberOfShops"`
	FirstShopName     string `json:"firstShopName"`
	FirstShopLocation string `json:"firstShopLocation"`
	FirstShopCategory string `json:"firstShopCategory"`
}

// PlaceholderResponse is the team dashboard stand-in.
type PlaceholderResponse struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// ViewResponse is the rendered state of one view session.
type ViewResponse struct {
	View        string                    `json:"view"`
	Page        string                    `json:"page"`
	Role        string                    `json:"role,omitempty"`
	User        *UserResponse             `json:"user,omitempty"`
	OrgData     *OrgDataResponse          `json:"org_data,omitempty"`
	Error       string                    `json:"error,omitempty"`
	SignupStep  int                       `json:"signup_step,omitempty"`
	SignupForm  *OrganizationFormResponse `json:"signup_form,omitempty"`
	Placeholder *PlaceholderResponse      `json:"placeholder,omitempty"`
	Busy        bool                      `json:"busy"`
}
