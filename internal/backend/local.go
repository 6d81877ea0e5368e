package backend

import (
	"context"
	"errors"
	"time"

	"zentra/internal/data/entity"
	"zentra/internal/data/repository"
	"zentra/pkg/database"
	"zentra/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type LocalConfig struct {
	BcryptCost          int
	SessionTTL          time.Duration
	RequireConfirmation bool
	OTPLength           int
	OTPTTL              time.Duration
}

// NewLocalConfig maps the process configuration onto the gateway.
func NewLocalConfig(config *utils.Config) LocalConfig {
	return LocalConfig{
		BcryptCost:          config.Auth.BcryptCost,
		SessionTTL:          time.Duration(config.Auth.SessionExpiryHours) * time.Hour,
		RequireConfirmation: config.Auth.RequireEmailConfirmation,
		OTPLength:           config.OTP.Length,
		OTPTTL:              time.Duration(config.OTP.ExpiryMinutes) * time.Minute,
	}
}

// LocalGateway serves auth and rows from this service's own Postgres
// database.
type LocalGateway struct {
	repo   *repository.Repository
	config LocalConfig
	log    *zap.Logger
	now    func() time.Time
}

var _ Gateway = (*LocalGateway)(nil)

func NewLocalGateway(repo *repository.Repository, config LocalConfig, log *zap.Logger) *LocalGateway {
	if config.SessionTTL <= 0 {
		config.SessionTTL = 24 * time.Hour
	}
	if config.OTPLength <= 0 {
		config.OTPLength = 6
	}
	if config.OTPTTL <= 0 {
		config.OTPTTL = 10 * time.Minute
	}

	return &LocalGateway{
		repo:   repo,
		config: config,
		log:    log.With(zap.String("gateway", "postgres")),
		now:    time.Now,
	}
}

// ==================== AUTH ====================

func (g *LocalGateway) SignUp(ctx context.Context, email, password string, metadata Metadata) (*Identity, error) {
	normalized, err := checkSignUp(email, password)
	if err != nil {
		g.log.Warn("Sign up rejected", zap.String("email", email), zap.Error(err))
		return nil, err
	}
	email = normalized

	hash, err := utils.HashPassword(password, g.config.BcryptCost)
	if err != nil {
		g.log.Error("Failed to hash password", zap.Error(err))
		return nil, errUnexpected("failed to hash password")
	}

	now := g.now()
	account := &entity.Account{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Email:        email,
		PasswordHash: hash,
		Metadata:     cloneMetadata(metadata),
	}
	if !g.config.RequireConfirmation {
		account.EmailConfirmedAt = &now
	}

	if err := g.repo.Account.Create(ctx, account); err != nil {
		if errors.Is(err, database.ErrUniqueViolation) {
			return nil, errUserAlreadyRegistered()
		}
		return nil, storageError(err)
	}

	if g.config.RequireConfirmation {
		if err := g.issueOTP(ctx, account); err != nil {
			g.log.Error("Failed to issue confirmation code",
				zap.Error(err),
				zap.String("email", email),
			)
		}
	}

	g.log.Info("Account created",
		zap.String("account_id", account.ID.String()),
		zap.String("email", email),
	)
	return identityOf(account), nil
}

func (g *LocalGateway) SignIn(ctx context.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)

	account, err := g.repo.Account.FindByEmail(ctx, email)
	if err != nil {
		return nil, storageError(err)
	}
	if account == nil || !utils.CheckPasswordHash(password, account.PasswordHash) {
		g.log.Warn("Sign in failed: invalid credentials", zap.String("email", email))
		return nil, errInvalidCredentials()
	}
	if !account.Confirmed() {
		g.log.Warn("Sign in failed: email not confirmed", zap.String("email", email))
		return nil, errEmailNotConfirmed()
	}

	now := g.now()
	session := &entity.Session{
		BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: now},
		UserID:     account.ID,
		Token:      uuid.New(),
		ExpiresAt:  now.Add(g.config.SessionTTL),
	}
	if err := g.repo.Session.Create(ctx, session); err != nil {
		return nil, storageError(err)
	}

	g.log.Info("Signed in", zap.String("account_id", account.ID.String()))
	return &Session{
		AccessToken: session.Token.String(),
		ExpiresAt:   session.ExpiresAt,
		User:        *identityOf(account),
	}, nil
}

func (g *LocalGateway) SignOut(ctx context.Context, token string) error {
	parsed, err := uuid.Parse(token)
	if err != nil {
		return nil
	}
	if err := g.repo.Session.Revoke(ctx, parsed); err != nil {
		return storageError(err)
	}
	return nil
}

func (g *LocalGateway) User(ctx context.Context, token string) (*Identity, error) {
	parsed, err := uuid.Parse(token)
	if err != nil {
		return nil, errSessionNotFound()
	}

	session, err := g.repo.Session.FindValidSession(ctx, parsed)
	if err != nil {
		return nil, storageError(err)
	}
	if session == nil || !session.Valid(g.now()) {
		return nil, errSessionNotFound()
	}

	account, err := g.repo.Account.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, storageError(err)
	}
	if account == nil {
		return nil, errSessionNotFound()
	}
	return identityOf(account), nil
}

// DeleteUser removes the account; the schema cascades to sessions,
// profiles and owned organizations.
func (g *LocalGateway) DeleteUser(ctx context.Context, id string) error {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return errBadRequest("invalid user id")
	}

	account, err := g.repo.Account.FindByID(ctx, parsed)
	if err != nil {
		return storageError(err)
	}
	if account == nil {
		return errNotFound("User not found")
	}

	if err := g.repo.Account.Delete(ctx, parsed); err != nil {
		return storageError(err)
	}
	g.log.Info("Account deleted", zap.String("account_id", id))
	return nil
}

func (g *LocalGateway) VerifyEmail(ctx context.Context, email, code string) error {
	email = normalizeEmail(email)

	otp, err := g.repo.OTP.FindValidOTP(ctx, email, code, entity.OTPTypeEmailVerification)
	if err != nil {
		return storageError(err)
	}
	if otp == nil {
		g.log.Warn("Invalid or expired OTP", zap.String("email", email))
		return errOTPExpired()
	}

	if err := g.repo.OTP.MarkAsUsed(ctx, otp.ID); err != nil {
		g.log.Warn("Failed to mark OTP as used",
			zap.Error(err),
			zap.String("otp_id", otp.ID.String()),
		)
	}
	if err := g.repo.Account.ConfirmEmail(ctx, otp.UserID); err != nil {
		return storageError(err)
	}

	g.log.Info("Email confirmed", zap.String("email", email))
	return nil
}

// ResendConfirmation is silent for unknown or already confirmed addresses.
func (g *LocalGateway) ResendConfirmation(ctx context.Context, email string) error {
	email = normalizeEmail(email)

	account, err := g.repo.Account.FindByEmail(ctx, email)
	if err != nil {
		return storageError(err)
	}
	if account == nil || account.Confirmed() {
		return nil
	}

	if err := g.repo.OTP.InvalidateForEmail(ctx, email, entity.OTPTypeEmailVerification); err != nil {
		return storageError(err)
	}
	if err := g.issueOTP(ctx, account); err != nil {
		return storageError(err)
	}
	return nil
}

func (g *LocalGateway) issueOTP(ctx context.Context, account *entity.Account) error {
	code, err := utils.GenerateOTP(g.config.OTPLength)
	if err != nil {
		return err
	}

	now := g.now()
	otp := &entity.OTP{
		BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: now},
		UserID:     account.ID,
		Email:      account.Email,
		OTPCode:    code,
		OTPType:    entity.OTPTypeEmailVerification,
		ExpiresAt:  now.Add(g.config.OTPTTL),
	}
	if err := g.repo.OTP.Create(ctx, otp); err != nil {
		return err
	}

	// No mail transport; the code is only logged.
	g.log.Info("OTP generated",
		zap.String("email", account.Email),
		zap.String("otp_code", code),
		zap.Time("expires_at", otp.ExpiresAt),
	)
	return nil
}

// ==================== RECORDS ====================

func (g *LocalGateway) Insert(ctx context.Context, token, table string, record Record) (Record, error) {
	row, err := g.repo.Record.Insert(ctx, table, map[string]any(record))
	if err != nil {
		return nil, recordError(err)
	}
	return Record(row), nil
}

func (g *LocalGateway) Query(ctx context.Context, token, table string, filters []Filter) ([]Record, error) {
	rows, err := g.repo.Record.Select(ctx, table, conditions(filters)...)
	if err != nil {
		return nil, recordError(err)
	}

	out := make([]Record, len(rows))
	for i, row := range rows {
		out[i] = Record(row)
	}
	return out, nil
}

func (g *LocalGateway) Count(ctx context.Context, token, table string, filters []Filter) (int64, error) {
	total, err := g.repo.Record.Count(ctx, table, conditions(filters)...)
	if err != nil {
		return 0, recordError(err)
	}
	return total, nil
}

func (g *LocalGateway) Delete(ctx context.Context, token, table string, filters []Filter) error {
	if len(filters) == 0 {
		return errBadRequest("DELETE requires a WHERE clause")
	}
	if _, err := g.repo.Record.Delete(ctx, table, conditions(filters)...); err != nil {
		return recordError(err)
	}
	return nil
}

func conditions(filters []Filter) []repository.Eq {
	conds := make([]repository.Eq, len(filters))
	for i, f := range filters {
		conds[i] = repository.Eq{Column: f.Column, Value: f.Value}
	}
	return conds
}

func identityOf(account *entity.Account) *Identity {
	return &Identity{
		ID:          account.ID.String(),
		Email:       account.Email,
		Metadata:    Metadata(account.Metadata),
		ConfirmedAt: account.EmailConfirmedAt,
	}
}

func recordError(err error) error {
	switch {
	case errors.Is(err, repository.ErrUnknownTable):
		return errNotFound(err.Error())
	case errors.Is(err, repository.ErrUnknownColumn):
		return errBadRequest(err.Error())
	case errors.Is(err, database.ErrUniqueViolation):
		return errConflict(err.Error())
	case errors.Is(err, database.ErrForeignKeyViolation), errors.Is(err, database.ErrCheckViolation):
		return errBadRequest(err.Error())
	}
	return storageError(err)
}

func storageError(err error) error {
	if errors.Is(err, database.ErrUnavailable) {
		return errUnavailable(err.Error())
	}
	return errUnexpected(err.Error())
}
