package repository

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	stderrors "errors"
	"time"

	"github.com/resumekit/resumekit-backend/pkg/database"
	"github.com/resumekit/resumekit-backend/pkg/errors"
)

// Session is one signed-in device. Only the hash of its refresh token is stored.
type Session struct {
	ID               string     `db:"id"`
	AccountID        string     `db:"account_id"`
	RefreshTokenHash string     `db:"refresh_token_hash"`
	UserAgent        *string    `db:"user_agent"`
	IPAddress        *string    `db:"ip_address"`
	ExpiresAt        time.Time  `db:"expires_at"`
	CreatedAt        time.Time  `db:"created_at"`
	LastUsedAt       time.Time  `db:"last_used_at"`
	RevokedAt        *time.Time `db:"revoked_at"`
}

// SessionRepository handles session persistence
type SessionRepository struct {
	db *database.DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *database.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create stores a session under a caller-chosen id so the id can be embedded in the refresh token first
func (r *SessionRepository) Create(ctx context.Context, id, accountID, refreshToken string, expiresAt time.Time, userAgent, ipAddress string) (*Session, error) {
	now := time.Now().UTC()
	session := &Session{
		ID:               id,
		AccountID:        accountID,
		RefreshTokenHash: HashToken(refreshToken),
		UserAgent:        optional(userAgent),
		IPAddress:        optional(ipAddress),
		ExpiresAt:        expiresAt,
		CreatedAt:        now,
		LastUsedAt:       now,
	}

	query := `
		INSERT INTO sessions (id, account_id, refresh_token_hash, user_agent, ip_address, expires_at, created_at, last_used_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		session.ID,
		session.AccountID,
		session.RefreshTokenHash,
		session.UserAgent,
		session.IPAddress,
		session.ExpiresAt,
		session.CreatedAt,
		session.LastUsedAt,
	)
	if err != nil {
		return nil, err
	}

	return session, nil
}

// GetByRefreshToken returns the live session holding refreshToken
func (r *SessionRepository) GetByRefreshToken(ctx context.Context, refreshToken string) (*Session, error) {
	var session Session
	query := `
		SELECT id, account_id, refresh_token_hash, user_agent, ip_address, expires_at, created_at, last_used_at, revoked_at
		FROM sessions
		WHERE refresh_token_hash = $1 AND revoked_at IS NULL AND expires_at > NOW()
	`
	err := r.db.GetContext(ctx, &session, query, HashToken(refreshToken))
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NotFound("session")
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// Rotate swaps the session's refresh token hash from currentRefreshToken to newRefreshToken.
// Only one caller can win for a given current token; the others get NotFound.
func (r *SessionRepository) Rotate(ctx context.Context, id, currentRefreshToken, newRefreshToken string) error {
	query := `
		UPDATE sessions SET refresh_token_hash = $1, last_used_at = NOW()
		WHERE id = $2 AND refresh_token_hash = $3 AND revoked_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query, HashToken(newRefreshToken), id, HashToken(currentRefreshToken))
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return errors.NotFound("session")
	}
	return nil
}

// RevokeByRefreshToken revokes the session holding refreshToken. Unknown tokens are ignored.
func (r *SessionRepository) RevokeByRefreshToken(ctx context.Context, refreshToken string) error {
	query := `UPDATE sessions SET revoked_at = NOW() WHERE refresh_token_hash = $1 AND revoked_at IS NULL`
	_, err := r.db.ExecContext(ctx, query, HashToken(refreshToken))
	return err
}

// CleanExpired removes expired and revoked sessions
func (r *SessionRepository) CleanExpired(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < NOW() OR revoked_at IS NOT NULL`)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// HashToken is the sha256 hex digest stored in place of a refresh token
func HashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
