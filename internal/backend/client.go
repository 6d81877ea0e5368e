package backend

import (
	"context"
	"fmt"
	"time"
)

// Metadata is the free-form user metadata stored with an identity.
type Metadata map[string]any

// String returns the metadata value for key when it is a string.
func (m Metadata) String(key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

// Identity is an authenticated account as reported by the auth service.
type Identity struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	Metadata    Metadata   `json:"user_metadata"`
	ConfirmedAt *time.Time `json:"email_confirmed_at,omitempty"`
}

// Session is a signed-in identity plus its bearer token.
type Session struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        Identity  `json:"user"`
}

type AuthEventKind string

const (
	SignedIn  AuthEventKind = "SIGNED_IN"
	SignedOut AuthEventKind = "SIGNED_OUT"
)

// AuthEvent is delivered to OnAuthStateChange subscribers. Session is nil
// for SignedOut.
type AuthEvent struct {
	Kind    AuthEventKind
	Session *Session
}

// Record is one row as exchanged with the service: column name to value.
type Record map[string]any

// String returns the column value rendered as a string, "" when absent.
func (r Record) String(column string) string {
	v, ok := r[column]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Filter is an equality condition on one column.
type Filter struct {
	Column string
	Value  any
}

func Eq(column string, value any) Filter {
	return Filter{Column: column, Value: value}
}

// Subscription is returned by OnAuthStateChange.
type Subscription interface {
	Unsubscribe()
}

// Client is the surface the forms, dashboard and view router use to talk
// to the authentication and persistence service.
type Client interface {
	SignUp(ctx context.Context, email, password string, metadata Metadata) (*Identity, error)
	SignInWithPassword(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context) error
	// GetSession returns nil, nil when nobody is signed in.
	GetSession(ctx context.Context) (*Session, error)
	OnAuthStateChange(fn func(AuthEvent)) Subscription

	Insert(ctx context.Context, table string, record Record) (Record, error)
	Query(ctx context.Context, table string, filters ...Filter) ([]Record, error)
	Count(ctx context.Context, table string, filters ...Filter) (int64, error)
	Delete(ctx context.Context, table string, filters ...Filter) error

	DeleteUser(ctx context.Context, id string) error
	VerifyEmail(ctx context.Context, email, code string) error
	ResendConfirmation(ctx context.Context, email string) error
}

// Gateway is the stateless, token-scoped service behind a Client. An empty
// token means an anonymous caller.
type Gateway interface {
	SignUp(ctx context.Context, email, password string, metadata Metadata) (*Identity, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context, token string) error
	User(ctx context.Context, token string) (*Identity, error)

	Insert(ctx context.Context, token, table string, record Record) (Record, error)
	Query(ctx context.Context, token, table string, filters []Filter) ([]Record, error)
	Count(ctx context.Context, token, table string, filters []Filter) (int64, error)
	Delete(ctx context.Context, token, table string, filters []Filter) error

	DeleteUser(ctx context.Context, id string) error
	VerifyEmail(ctx context.Context, email, code string) error
	ResendConfirmation(ctx context.Context, email string) error
}
