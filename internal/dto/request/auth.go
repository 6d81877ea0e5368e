package request

// LoginRequest is shared by the owner and team login forms. Email format
// is left to the auth service.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type VerifyEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,numeric,min=4,max=10"`
}

type SendOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
}
