package entity

import (
	"time"
)

// Account is an authentication identity owned by the local gateway.
type Account struct {
	BaseNoDelete
	Email            string         `db:"email"`
	PasswordHash     string         `db:"password_hash"`
	Metadata         map[string]any `db:"metadata"`
	EmailConfirmedAt *time.Time     `db:"email_confirmed_at"`
}

func (a *Account) Confirmed() bool {
	return a.EmailConfirmedAt != nil
}
