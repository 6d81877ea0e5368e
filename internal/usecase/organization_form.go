package usecase

import (
	"strconv"

	"zentra/internal/dto/request"
	"zentra/internal/dto/response"
	"zentra/pkg/utils"
)

type SignupStep int

const (
	StepPersonalInfo     SignupStep = 1
	StepOrganizationInfo SignupStep = 2
	StepFirstShop        SignupStep = 3
)

const (
	minShops = 1
	maxShops = 10
)

// OrganizationSignupForm is the three-step organization sign-up form.
// Only presence is checked per step; format is left to the auth service.
type OrganizationSignupForm struct {
	Step SignupStep

	FullName        string `validate:"required"`
	Email           string `validate:"required"`
	Phone           string `validate:"required"`
	Password        string `validate:"required"`
	ConfirmPassword string `validate:"required"`

	OrganizationName string `validate:"required"`
	NumberOfShops    string `validate:"required"`

	FirstShopName     string `validate:"required"`
	FirstShopLocation string `validate:"required"`
	FirstShopCategory string `validate:"required"`
}

var stepFields = map[SignupStep][]string{
	StepPersonalInfo:     {"FullName", "Email", "Phone", "Password", "ConfirmPassword"},
	StepOrganizationInfo: {"OrganizationName", "NumberOfShops"},
	StepFirstShop:        {"FirstShopName", "FirstShopLocation", "FirstShopCategory"},
}

func NewOrganizationSignupForm() *OrganizationSignupForm {
	return &OrganizationSignupForm{
		Step:          StepPersonalInfo,
		NumberOfShops: "1",
	}
}

// StepErrors returns the missing required fields of the current step.
func (f *OrganizationSignupForm) StepErrors() map[string]string {
	return utils.ValidatePartial(f, stepFields[f.Step]...)
}

// Next advances one step when the current step is complete. It returns
// false and leaves the step unchanged otherwise, including on the last step.
func (f *OrganizationSignupForm) Next() bool {
	if f.Step >= StepFirstShop || len(f.StepErrors()) > 0 {
		return false
	}
	f.Step++
	return true
}

// Previous goes back one step unless already on the first.
func (f *OrganizationSignupForm) Previous() bool {
	if f.Step <= StepPersonalInfo {
		return false
	}
	f.Step--
	return true
}

func (f *OrganizationSignupForm) Apply(update *request.OrganizationFormUpdate) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}

	set(&f.FullName, update.FullName)
	set(&f.Email, update.Email)
	set(&f.Phone, update.Phone)
	set(&f.Password, update.Password)
	set(&f.ConfirmPassword, update.ConfirmPassword)
	set(&f.OrganizationName, update.OrganizationName)
	set(&f.NumberOfShops, update.NumberOfShops)
	set(&f.FirstShopName, update.FirstShopName)
	set(&f.FirstShopLocation, update.FirstShopLocation)
	set(&f.FirstShopCategory, update.FirstShopCategory)
}

// CheckSubmit applies the local gates that run before any network call.
func (f *OrganizationSignupForm) CheckSubmit() (int, error) {
	if f.Step != StepFirstShop {
		return 0, newValidationError(ErrIncompleteSteps.Error())
	}
	if f.Password != f.ConfirmPassword {
		return 0, newValidationError("Passwords do not match")
	}
	if len(f.Password) < 6 {
		return 0, newValidationError("Password must be at least 6 characters long")
	}
	// Earlier steps may have been blanked after they were passed.
	if errs := utils.ValidateStruct(f); len(errs) > 0 {
		return 0, fieldValidationError(errs)
	}

	shops, err := strconv.Atoi(f.NumberOfShops)
	if err != nil || shops < minShops || shops > maxShops {
		return 0, fieldValidationError(map[string]string{
			"NumberOfShops": "Must be a whole number from 1 to 10",
		})
	}
	return shops, nil
}

func (f *OrganizationSignupForm) ToResponse() *response.OrganizationFormResponse {
	return &response.OrganizationFormResponse{
		Step:              int(f.Step),
		FullName:          f.FullName,
		Email:             f.Email,
		Phone:             f.Phone,
		OrganizationName:  f.OrganizationName,
		NumberOfShops:     f.NumberOfShops,
		FirstShopName:     f.FirstShopName,
		FirstShopLocation: f.FirstShopLocation,
		FirstShopCategory: f.FirstShopCategory,
	}
}
