package backend

import (
	"strings"

	"zentra/pkg/utils"
)

// normalizeEmail lowercases and trims the address as the hosted service does.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// checkSignUp applies the service-side sign-up rules and returns the
// normalized email.
func checkSignUp(email, password string) (string, error) {
	email = normalizeEmail(email)
	if err := utils.ValidateVar(email, "required,email"); err != nil {
		return "", errInvalidEmail()
	}
	if len(password) < MinPasswordLength {
		return "", errWeakPassword()
	}
	return email, nil
}

func cloneMetadata(m Metadata) Metadata {
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
