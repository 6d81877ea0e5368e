package utils

import (
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
)

const (
	ViewCookieName    = "zentra_view"
	SessionCookieName = "zentra_session"
)

// CookieCodec signs and encrypts the view-session and auth-token cookies.
type CookieCodec struct {
	codec  *securecookie.SecureCookie
	secure bool
	maxAge time.Duration
}

// NewCookieCodec builds a codec from hex-encoded keys. Empty keys are
// replaced with random ones, which invalidates cookies across restarts.
func NewCookieCodec(cfg CookieConfig, maxAge time.Duration) (*CookieCodec, error) {
	hashKey, err := decodeKey(cfg.HashKey, 64)
	if err != nil {
		return nil, fmt.Errorf("cookie hash key: %w", err)
	}
	blockKey, err := decodeKey(cfg.BlockKey, 32)
	if err != nil {
		return nil, fmt.Errorf("cookie block key: %w", err)
	}

	codec := securecookie.New(hashKey, blockKey)
	codec.MaxAge(int(maxAge.Seconds()))

	return &CookieCodec{codec: codec, secure: cfg.Secure, maxAge: maxAge}, nil
}

func decodeKey(value string, size int) ([]byte, error) {
	if value == "" {
		return securecookie.GenerateRandomKey(size), nil
	}
	return hex.DecodeString(value)
}

// Read decodes the named cookie; a missing or tampered cookie yields "".
func (c *CookieCodec) Read(r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	var value string
	if err := c.codec.Decode(name, cookie.Value, &value); err != nil {
		return ""
	}
	return value
}

// Write sets the named cookie, or expires it when value is empty.
func (c *CookieCodec) Write(w http.ResponseWriter, name, value string) error {
	cookie := &http.Cookie{
		Name:     name,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	}

	if value == "" {
		cookie.MaxAge = -1
		http.SetCookie(w, cookie)
		return nil
	}

	encoded, err := c.codec.Encode(name, value)
	if err != nil {
		return err
	}
	cookie.Value = encoded
	cookie.MaxAge = int(c.maxAge.Seconds())
	http.SetCookie(w, cookie)
	return nil
}
