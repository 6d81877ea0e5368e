package entity

import (
	"github.com/google/uuid"
)

type Organization struct {
	BaseSimple    `mapstructure:",squash"`
	Name          string    `db:"name" mapstructure:"name"`
	OwnerID       uuid.UUID `db:"owner_id" mapstructure:"owner_id"`
	OrgCode       string    `db:"org_code" mapstructure:"org_code"`
	Passkey       string    `db:"passkey" mapstructure:"passkey"`
	NumberOfShops int       `db:"number_of_shops" mapstructure:"number_of_shops"`
}
