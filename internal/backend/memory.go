package backend

import (
	"context"
	"fmt"
	"sync"
	"time"

	"zentra/pkg/utils"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"go.uber.org/zap"
)

type memoryAccount struct {
	identity Identity
	hash     string
}

// memoryTables lists the tables the in-process gateway accepts and the
// columns that must stay unique.
var memoryTables = map[string][]string{
	"organizations": {"id", "org_code"},
	"users":         {"id"},
	"shops":         {"id"},
}

// MemoryGateway keeps accounts and rows in process memory. It follows the
// same validation and error wording as the other gateways.
type MemoryGateway struct {
	log                 *zap.Logger
	requireConfirmation bool
	now                 func() time.Time

	mu       sync.Mutex
	accounts map[string]*memoryAccount
	byEmail  map[string]string
	sessions map[string]string
	codes    map[string]string
	tables   map[string][]Record
}

var _ Gateway = (*MemoryGateway)(nil)

type MemoryOption func(*MemoryGateway)

// WithEmailConfirmation makes sign-in fail until VerifyEmail succeeds.
func WithEmailConfirmation() MemoryOption {
	return func(g *MemoryGateway) { g.requireConfirmation = true }
}

func NewMemoryGateway(log *zap.Logger, opts ...MemoryOption) *MemoryGateway {
	g := &MemoryGateway{
		log:      log.With(zap.String("gateway", "memory")),
		now:      time.Now,
		accounts: make(map[string]*memoryAccount),
		byEmail:  make(map[string]string),
		sessions: make(map[string]string),
		codes:    make(map[string]string),
		tables:   make(map[string][]Record),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// ==================== AUTH ====================

func (g *MemoryGateway) SignUp(ctx context.Context, email, password string, metadata Metadata) (*Identity, error) {
	email, err := checkSignUp(email, password)
	if err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(password, bcrypt.MinCost)
	if err != nil {
		return nil, errUnexpected("failed to hash password")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.byEmail[email]; exists {
		return nil, errUserAlreadyRegistered()
	}

	identity := Identity{
		ID:       uuid.NewString(),
		Email:    email,
		Metadata: cloneMetadata(metadata),
	}
	if g.requireConfirmation {
		code, err := utils.GenerateOTP(6)
		if err != nil {
			return nil, errUnexpected("failed to issue confirmation code")
		}
		g.codes[email] = code
		g.log.Info("OTP generated", zap.String("email", email), zap.String("otp_code", code))
	} else {
		now := g.now()
		identity.ConfirmedAt = &now
	}

	g.accounts[identity.ID] = &memoryAccount{identity: identity, hash: hash}
	g.byEmail[email] = identity.ID

	out := identity
	return &out, nil
}

func (g *MemoryGateway) SignIn(ctx context.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)

	g.mu.Lock()
	defer g.mu.Unlock()

	id, ok := g.byEmail[email]
	if !ok {
		return nil, errInvalidCredentials()
	}
	account := g.accounts[id]
	if !utils.CheckPasswordHash(password, account.hash) {
		return nil, errInvalidCredentials()
	}
	if account.identity.ConfirmedAt == nil {
		return nil, errEmailNotConfirmed()
	}

	token := uuid.NewString()
	g.sessions[token] = id

	return &Session{
		AccessToken: token,
		ExpiresAt:   g.now().Add(24 * time.Hour),
		User:        account.identity,
	}, nil
}

func (g *MemoryGateway) SignOut(ctx context.Context, token string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.sessions, token)
	return nil
}

func (g *MemoryGateway) User(ctx context.Context, token string) (*Identity, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	id, ok := g.sessions[token]
	if !ok {
		return nil, errSessionNotFound()
	}
	account, ok := g.accounts[id]
	if !ok {
		return nil, errSessionNotFound()
	}

	identity := account.identity
	return &identity, nil
}

// DeleteUser removes the account, its sessions and every row it owns.
func (g *MemoryGateway) DeleteUser(ctx context.Context, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	account, ok := g.accounts[id]
	if !ok {
		return errNotFound("User not found")
	}
	delete(g.accounts, id)
	delete(g.byEmail, account.identity.Email)
	delete(g.codes, account.identity.Email)
	for token, owner := range g.sessions {
		if owner == id {
			delete(g.sessions, token)
		}
	}

	for _, org := range g.tables["organizations"] {
		if org.String("owner_id") == id {
			g.deleteLocked("users", []Filter{Eq("org_id", org.String("id"))})
			g.deleteLocked("shops", []Filter{Eq("org_id", org.String("id"))})
		}
	}
	g.deleteLocked("organizations", []Filter{Eq("owner_id", id)})
	g.deleteLocked("users", []Filter{Eq("id", id)})
	return nil
}

func (g *MemoryGateway) VerifyEmail(ctx context.Context, email, code string) error {
	email = normalizeEmail(email)

	g.mu.Lock()
	defer g.mu.Unlock()

	expected, ok := g.codes[email]
	if !ok || expected != code {
		return errOTPExpired()
	}
	delete(g.codes, email)

	if account := g.accounts[g.byEmail[email]]; account != nil {
		now := g.now()
		account.identity.ConfirmedAt = &now
	}
	return nil
}

func (g *MemoryGateway) ResendConfirmation(ctx context.Context, email string) error {
	email = normalizeEmail(email)

	g.mu.Lock()
	defer g.mu.Unlock()

	account := g.accounts[g.byEmail[email]]
	if account == nil || account.identity.ConfirmedAt != nil {
		return nil
	}

	code, err := utils.GenerateOTP(6)
	if err != nil {
		return errUnexpected("failed to issue confirmation code")
	}
	g.codes[email] = code
	g.log.Info("OTP generated", zap.String("email", email), zap.String("otp_code", code))
	return nil
}

// PendingCode returns the outstanding confirmation code for email.
func (g *MemoryGateway) PendingCode(email string) (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	code, ok := g.codes[normalizeEmail(email)]
	return code, ok
}

// ==================== RECORDS ====================

func (g *MemoryGateway) Insert(ctx context.Context, token, table string, record Record) (Record, error) {
	unique, ok := memoryTables[table]
	if !ok {
		return nil, errNotFound(fmt.Sprintf("relation %q does not exist", table))
	}

	row := make(Record, len(record)+2)
	for k, v := range record {
		row[k] = v
	}
	if row.String("id") == "" {
		row["id"] = uuid.NewString()
	}
	if _, ok := row["created_at"]; !ok {
		row["created_at"] = g.now()
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	for _, column := range unique {
		for _, existing := range g.tables[table] {
			if existing.String(column) == row.String(column) {
				return nil, errConflict(fmt.Sprintf(
					"duplicate key value violates unique constraint \"%s_%s_key\"", table, column))
			}
		}
	}

	g.tables[table] = append(g.tables[table], row)
	return copyRecord(row), nil
}

func (g *MemoryGateway) Query(ctx context.Context, token, table string, filters []Filter) ([]Record, error) {
	if _, ok := memoryTables[table]; !ok {
		return nil, errNotFound(fmt.Sprintf("relation %q does not exist", table))
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	var out []Record
	for _, row := range g.tables[table] {
		if matches(row, filters) {
			out = append(out, copyRecord(row))
		}
	}
	return out, nil
}

func (g *MemoryGateway) Count(ctx context.Context, token, table string, filters []Filter) (int64, error) {
	rows, err := g.Query(ctx, token, table, filters)
	if err != nil {
		return 0, err
	}
	return int64(len(rows)), nil
}

func (g *MemoryGateway) Delete(ctx context.Context, token, table string, filters []Filter) error {
	if _, ok := memoryTables[table]; !ok {
		return errNotFound(fmt.Sprintf("relation %q does not exist", table))
	}
	if len(filters) == 0 {
		return errBadRequest("DELETE requires a WHERE clause")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.deleteLocked(table, filters)
	return nil
}

func (g *MemoryGateway) deleteLocked(table string, filters []Filter) {
	kept := g.tables[table][:0]
	for _, row := range g.tables[table] {
		if !matches(row, filters) {
			kept = append(kept, row)
		}
	}
	g.tables[table] = kept
}

func matches(row Record, filters []Filter) bool {
	for _, f := range filters {
		if row.String(f.Column) != fmt.Sprint(f.Value) {
			return false
		}
	}
	return true
}

func copyRecord(r Record) Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
