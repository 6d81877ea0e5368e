package entity

import (
	"time"

	"github.com/google/uuid"
)

type BaseNoDelete struct {
	ID        uuid.UUID `db:"id" mapstructure:"id"`
	CreatedAt time.Time `db:"created_at" mapstructure:"created_at"`
	UpdatedAt time.Time `db:"updated_at" mapstructure:"updated_at"`
}

type BaseSimple struct {
	ID        uuid.UUID `db:"id" mapstructure:"id"`
	CreatedAt time.Time `db:"created_at" mapstructure:"created_at"`
}
