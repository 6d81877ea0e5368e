package repository

import (
	"zentra/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	Account AccountRepository
	Session SessionRepository
	OTP     OTPRepository
	Record  RecordRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		Account: NewAccountRepository(db, log),
		Session: NewSessionRepository(db, log),
		OTP:     NewOTPRepository(db, log),
		Record:  NewRecordRepository(db, log),
	}
}
