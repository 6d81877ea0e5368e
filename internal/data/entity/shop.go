package entity

import (
	"github.com/google/uuid"
)

type Shop struct {
	BaseSimple `mapstructure:",squash"`
	Name       string    `db:"name" mapstructure:"name"`
	Location   string    `db:"location" mapstructure:"location"`
	Category   string    `db:"category" mapstructure:"category"`
	OrgID      uuid.UUID `db:"org_id" mapstructure:"org_id"`
}
