package repository

import (
	"context"
	"database/sql"
	stderrors "errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/resumekit/resumekit-backend/pkg/database"
	"github.com/resumekit/resumekit-backend/pkg/errors"
)

// Account is a registered user
type Account struct {
	ID           string     `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	Name         string     `db:"name" json:"name"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
	LastLoginAt  *time.Time `db:"last_login_at" json:"last_login_at,omitempty"`
}

// AccountRepository handles account persistence
type AccountRepository struct {
	db *database.DB
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *database.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// NormalizeEmail is the form emails are stored and looked up in
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create inserts the account. A taken email maps to a conflict.
func (r *AccountRepository) Create(ctx context.Context, a *Account) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	a.Email = NormalizeEmail(a.Email)
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now

	query := `
		INSERT INTO accounts (id, email, password_hash, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := r.db.ExecContext(ctx, query, a.ID, a.Email, a.PasswordHash, a.Name, a.CreatedAt, a.UpdatedAt); err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			return appErr
		}
		return err
	}
	return nil
}

const accountColumns = `id, email, password_hash, name, created_at, updated_at, last_login_at`

// GetByEmail returns the account registered under email
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*Account, error) {
	return r.get(ctx, `SELECT `+accountColumns+` FROM accounts WHERE email = $1`, NormalizeEmail(email))
}

// GetByID returns the account with the given id
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*Account, error) {
	return r.get(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
}

func (r *AccountRepository) get(ctx context.Context, query string, arg string) (*Account, error) {
	var a Account
	err := r.db.GetContext(ctx, &a, query, arg)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NotFound("account")
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// TouchLastLogin records a successful login
func (r *AccountRepository) TouchLastLogin(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE accounts SET last_login_at = NOW() WHERE id = $1`, id)
	return err
}

// Delete removes the account. Sessions, profile and tailorings cascade.
func (r *AccountRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return errors.NotFound("account")
	}
	return nil
}
