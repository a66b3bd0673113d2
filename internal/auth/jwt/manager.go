package jwt

import (
	stderrors "errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/resumekit/resumekit-backend/pkg/config"
	"github.com/resumekit/resumekit-backend/pkg/errors"
)

const (
	audienceAccess  = "access"
	audienceRefresh = "refresh"
)

// Claims are carried by access tokens. Subject is the account id.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Name  string `json:"name"`
}

// RefreshClaims are carried by refresh tokens
type RefreshClaims struct {
	jwt.RegisteredClaims
	SessionID string `json:"session_id"`
}

// Manager handles JWT operations
type Manager struct {
	config *config.JWTConfig
}

// NewManager creates a new JWT manager
func NewManager(cfg *config.JWTConfig) *Manager {
	return &Manager{config: cfg}
}

// AccountInfo is what goes into a token pair
type AccountInfo struct {
	ID    string
	Email string
	Name  string
}

// TokenPair contains access and refresh tokens
type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	TokenType    string    `json:"token_type"`
}

// GenerateTokenPair signs an access token and a refresh token bound to sessionID
func (m *Manager) GenerateTokenPair(account *AccountInfo, sessionID string) (*TokenPair, error) {
	now := time.Now()
	accessExpiry := now.Add(m.config.AccessExpiry)

	access := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.config.Issuer,
			Subject:   account.ID,
			Audience:  jwt.ClaimStrings{audienceAccess},
			ExpiresAt: jwt.NewNumericDate(accessExpiry),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
		Email: account.Email,
		Name:  account.Name,
	}
	accessToken, err := m.sign(access)
	if err != nil {
		return nil, err
	}

	refresh := RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.config.Issuer,
			Subject:   account.ID,
			Audience:  jwt.ClaimStrings{audienceRefresh},
			ExpiresAt: jwt.NewNumericDate(now.Add(m.config.RefreshExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
		SessionID: sessionID,
	}
	refreshToken, err := m.sign(refresh)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    accessExpiry,
		TokenType:    "Bearer",
	}, nil
}

func (m *Manager) sign(claims jwt.Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(m.config.Secret))
}

// ValidateAccessToken validates an access token and returns the claims
func (m *Manager) ValidateAccessToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	if err := m.parse(tokenString, claims, audienceAccess); err != nil {
		return nil, err
	}
	if claims.Subject == "" {
		return nil, errors.TokenInvalid()
	}
	return claims, nil
}

// ValidateRefreshToken validates a refresh token and returns the claims
func (m *Manager) ValidateRefreshToken(tokenString string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := m.parse(tokenString, claims, audienceRefresh); err != nil {
		return nil, err
	}
	if claims.Subject == "" || claims.SessionID == "" {
		return nil, errors.TokenInvalid()
	}
	return claims, nil
}

func (m *Manager) parse(tokenString string, claims jwt.Claims, audience string) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(m.config.Secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.config.Issuer),
		jwt.WithAudience(audience),
	)
	if err != nil {
		if stderrors.Is(err, jwt.ErrTokenExpired) {
			return errors.TokenExpired()
		}
		return errors.TokenInvalid()
	}
	if !token.Valid {
		return errors.TokenInvalid()
	}
	return nil
}

// GetRefreshExpiry returns the refresh token expiry duration
func (m *Manager) GetRefreshExpiry() time.Duration {
	return m.config.RefreshExpiry
}
