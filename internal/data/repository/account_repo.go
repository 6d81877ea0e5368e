package repository

import (
	"context"
	"errors"
	"fmt"

	"zentra/internal/data/entity"
	"zentra/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type AccountRepository interface {
	Create(ctx context.Context, account *entity.Account) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Account, error)
	FindByEmail(ctx context.Context, email string) (*entity.Account, error)
	ConfirmEmail(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type accountRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewAccountRepository(db database.PgxIface, log *zap.Logger) AccountRepository {
	return &accountRepository{
		db:  db,
		log: log.With(zap.String("repository", "account")),
	}
}

// Create inserts a new account. A duplicate email surfaces as
// database.ErrUniqueViolation.
func (r *accountRepository) Create(ctx context.Context, account *entity.Account) error {
	query := `
		INSERT INTO accounts (id, email, password_hash, metadata,
		                      email_confirmed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	metadata := account.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}

	_, err := r.db.Exec(ctx, query,
		account.ID,
		account.Email,
		account.PasswordHash,
		metadata,
		account.EmailConfirmedAt,
		account.CreatedAt,
		account.UpdatedAt,
	)
	if err != nil {
		err = database.MapError(err)
		if errors.Is(err, database.ErrUniqueViolation) {
			r.log.Warn("Account email already registered", zap.String("email", account.Email))
		} else {
			r.log.Error("Failed to create account",
				zap.Error(err),
				zap.String("email", account.Email),
			)
		}
		return fmt.Errorf("create account %s: %w", account.Email, err)
	}

	return nil
}

const accountColumns = `id, email, password_hash, metadata, email_confirmed_at, created_at, updated_at`

func (r *accountRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	account, err := scanAccount(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find account by ID",
			zap.Error(err),
			zap.String("account_id", id.String()),
		)
		return nil, fmt.Errorf("find account by ID %s: %w", id.String(), err)
	}

	return account, nil
}

func (r *accountRepository) FindByEmail(ctx context.Context, email string) (*entity.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`

	account, err := scanAccount(r.db.QueryRow(ctx, query, email))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find account by email",
			zap.Error(err),
			zap.String("email", email),
		)
		return nil, fmt.Errorf("find account by email %s: %w", email, err)
	}

	return account, nil
}

func scanAccount(row pgx.Row) (*entity.Account, error) {
	var account entity.Account
	err := row.Scan(
		&account.ID,
		&account.Email,
		&account.PasswordHash,
		&account.Metadata,
		&account.EmailConfirmedAt,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *accountRepository) ConfirmEmail(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE accounts
		SET email_confirmed_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND email_confirmed_at IS NULL
	`

	if _, err := r.db.Exec(ctx, query, id); err != nil {
		r.log.Error("Failed to confirm account email",
			zap.Error(err),
			zap.String("account_id", id.String()),
		)
		return fmt.Errorf("confirm account %s: %w", id.String(), err)
	}

	return nil
}

// Delete removes the account; sessions, OTPs and profile rows cascade.
func (r *accountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete account",
			zap.Error(err),
			zap.String("account_id", id.String()),
		)
		return fmt.Errorf("delete account %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("account %s not found", id.String())
	}

	return nil
}
