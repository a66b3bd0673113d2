package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/resumekit/resumekit-backend/internal/auth/events"
	"github.com/resumekit/resumekit-backend/internal/auth/jwt"
	"github.com/resumekit/resumekit-backend/internal/auth/repository"
	"github.com/resumekit/resumekit-backend/pkg/errors"
	"github.com/resumekit/resumekit-backend/pkg/logger"
)

// AuthService handles accounts, sign-in and sessions
type AuthService struct {
	accounts   *repository.AccountRepository
	sessions   *repository.SessionRepository
	jwtManager *jwt.Manager
	publisher  *events.AccountEventPublisher
	logger     *logger.Logger
}

// NewAuthService creates a new auth service. publisher may be nil when messaging is disabled.
func NewAuthService(
	accounts *repository.AccountRepository,
	sessions *repository.SessionRepository,
	jwtManager *jwt.Manager,
	publisher *events.AccountEventPublisher,
	log *logger.Logger,
) *AuthService {
	return &AuthService{
		accounts:   accounts,
		sessions:   sessions,
		jwtManager: jwtManager,
		publisher:  publisher,
		logger:     log.WithComponent("auth-service"),
	}
}

// SignUpRequest registers a new account
type SignUpRequest struct {
	Email    string `json:"email" validate:"required,email,max=320"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Name     string `json:"name" validate:"max=255"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest carries the refresh token to exchange or revoke
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AccountInfo is the public view of an account
type AccountInfo struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthResponse is returned by sign-up, login and refresh
type AuthResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresAt    time.Time    `json:"expires_at"`
	TokenType    string       `json:"token_type"`
	Account      *AccountInfo `json:"account"`
}

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// compareMissing spends a bcrypt comparison when the email is unknown
// so both login failures take about as long.
func compareMissing(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("resumekit-missing-account"), bcrypt.DefaultCost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}

// SignUp creates an account and signs it in
func (s *AuthService) SignUp(ctx context.Context, req *SignUpRequest, userAgent, ipAddress string) (*AuthResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Internal("failed to hash password")
	}

	account := &repository.Account{
		Email:        req.Email,
		PasswordHash: string(hash),
		Name:         req.Name,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}

	s.logger.Info().Str("account_id", account.ID).Msg("account created")
	s.publisher.PublishCreated(ctx, account.ID, account.Email, account.Name)

	return s.issueSession(ctx, account, userAgent, ipAddress)
}

// Login verifies credentials and opens a session.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, req *LoginRequest, userAgent, ipAddress string) (*AuthResponse, error) {
	account, err := s.accounts.GetByEmail(ctx, req.Email)
	if errors.Is(err, errors.ErrNotFound) {
		compareMissing(req.Password)
		return nil, errors.InvalidCredentials()
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errors.InvalidCredentials()
	}

	resp, err := s.issueSession(ctx, account, userAgent, ipAddress)
	if err != nil {
		return nil, err
	}

	if err := s.accounts.TouchLastLogin(ctx, account.ID); err != nil {
		s.logger.Warn().Err(err).Str("account_id", account.ID).Msg("failed to record last login")
	}
	return resp, nil
}

func (s *AuthService) issueSession(ctx context.Context, account *repository.Account, userAgent, ipAddress string) (*AuthResponse, error) {
	sessionID := uuid.New().String()

	tokens, err := s.jwtManager.GenerateTokenPair(accountClaims(account), sessionID)
	if err != nil {
		return nil, errors.Internal("failed to generate tokens")
	}

	expiresAt := time.Now().Add(s.jwtManager.GetRefreshExpiry())
	if _, err := s.sessions.Create(ctx, sessionID, account.ID, tokens.RefreshToken, expiresAt, userAgent, ipAddress); err != nil {
		s.logger.Error().Err(err).Str("account_id", account.ID).Msg("failed to create session")
		return nil, errors.Internal("failed to create session")
	}

	return newAuthResponse(tokens, account), nil
}

// Refresh exchanges a refresh token for a new pair. The old refresh token stops working.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	session, err := s.sessions.GetByRefreshToken(ctx, refreshToken)
	if errors.Is(err, errors.ErrNotFound) {
		return nil, errors.Unauthorized("invalid session")
	}
	if err != nil {
		return nil, err
	}
	if session.ID != claims.SessionID || session.AccountID != claims.Subject {
		return nil, errors.Unauthorized("invalid session")
	}

	account, err := s.accounts.GetByID(ctx, session.AccountID)
	if errors.Is(err, errors.ErrNotFound) {
		return nil, errors.Unauthorized("account no longer exists")
	}
	if err != nil {
		return nil, err
	}

	tokens, err := s.jwtManager.GenerateTokenPair(accountClaims(account), session.ID)
	if err != nil {
		return nil, errors.Internal("failed to generate tokens")
	}
	err = s.sessions.Rotate(ctx, session.ID, refreshToken, tokens.RefreshToken)
	if errors.Is(err, errors.ErrNotFound) {
		return nil, errors.Unauthorized("invalid session")
	}
	if err != nil {
		return nil, err
	}

	return newAuthResponse(tokens, account), nil
}

// Logout revokes the session of refreshToken. It succeeds for unknown or already revoked tokens.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	if err := s.sessions.RevokeByRefreshToken(ctx, refreshToken); err != nil {
		s.logger.Warn().Err(err).Msg("failed to revoke session")
	}
	return nil
}

// Me returns the signed-in account
func (s *AuthService) Me(ctx context.Context, accountID string) (*AccountInfo, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return toAccountInfo(account), nil
}

// DeleteAccount removes the account and everything stored for it.
// Rows cascade in the database; stored files are removed by the account.deleted consumer.
func (s *AuthService) DeleteAccount(ctx context.Context, accountID string) error {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return err
	}
	if err := s.accounts.Delete(ctx, account.ID); err != nil {
		return err
	}

	s.logger.Info().Str("account_id", account.ID).Msg("account deleted")
	s.publisher.PublishDeleted(ctx, account.ID, account.Email)
	return nil
}

func accountClaims(a *repository.Account) *jwt.AccountInfo {
	return &jwt.AccountInfo{ID: a.ID, Email: a.Email, Name: a.Name}
}

func toAccountInfo(a *repository.Account) *AccountInfo {
	return &AccountInfo{ID: a.ID, Email: a.Email, Name: a.Name, CreatedAt: a.CreatedAt}
}

func newAuthResponse(tokens *jwt.TokenPair, a *repository.Account) *AuthResponse {
	return &AuthResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		ExpiresAt:    tokens.ExpiresAt,
		TokenType:    tokens.TokenType,
		Account:      toAccountInfo(a),
	}
}
