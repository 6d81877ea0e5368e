package utils

import (
	"crypto/rand"
	"errors"
	"fmt"
)

// CodeAlphabet is the symbol set of organization codes and passkeys.
const CodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// OrgCredentialLength is the length of a generated org code or passkey.
const OrgCredentialLength = 25

// largest multiple of len(CodeAlphabet) that fits in a byte
const codeRejectAbove = 252

var ErrInvalidCodeLength = errors.New("code length must be at least 1")

// ==================== SECURE CODES ====================

// GenerateSecureCode returns length symbols drawn uniformly from
// CodeAlphabet using crypto/rand.
func GenerateSecureCode(length int) (string, error) {
	if length < 1 {
		return "", ErrInvalidCodeLength
	}

	out := make([]byte, 0, length)
	buf := make([]byte, length)
	for len(out) < length {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("read random bytes: %w", err)
		}
		for _, b := range buf {
			if b >= codeRejectAbove {
				continue
			}
			out = append(out, CodeAlphabet[int(b)%len(CodeAlphabet)])
			if len(out) == length {
				break
			}
		}
	}

	return string(out), nil
}

// ==================== OTP ====================

// GenerateOTP creates a numeric one-time code of the given length.
func GenerateOTP(length int) (string, error) {
	if length <= 0 {
		length = 6
	}

	out := make([]byte, 0, length)
	buf := make([]byte, length)
	for len(out) < length {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("read random bytes: %w", err)
		}
		for _, b := range buf {
			// 250 is the largest multiple of 10 below 256
			if b >= 250 {
				continue
			}
			out = append(out, '0'+b%10)
			if len(out) == length {
				break
			}
		}
	}

	return string(out), nil
}
