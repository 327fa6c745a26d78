package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/frahmantamala/legal-practice/internal/access"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Credentials is what login needs from a user row.
type Credentials struct {
	UserID       int64
	Email        string
	PasswordHash string
	TenantID     *int64
	Status       string
}

// TokenGenerator creates and validates signed tokens.
type TokenGenerator interface {
	GenerateAccessToken(userID int64, email string, tenantID *int64) (string, error)
	GenerateRefreshToken(userID int64, email string, tenantID *int64) (string, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	ValidateRefreshToken(tokenString string) (*Claims, error)
}

// TokenRevoker remembers revoked token ids until they would have expired anyway.
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// ServiceAPI is the surface used by the HTTP handler.
type ServiceAPI interface {
	Authenticate(ctx context.Context, dto LoginDTO) (AuthTokens, error)
	RefreshTokens(ctx context.Context, refreshToken string) (AuthTokens, error)
	Logout(ctx context.Context, accessToken, refreshToken string) error
	ValidateAccessToken(ctx context.Context, tokenString string) (*Claims, error)
	LoadSubject(ctx context.Context, userID int64) (*access.Subject, error)
}

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// Claims represents JWT token claims. RegisteredClaims.ID carries the revocable token id.
type Claims struct {
	UserID    int64  `json:"user_id"`
	Email     string `json:"email"`
	TenantID  *int64 `json:"tenant_id,omitempty"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// remaining is how long the token stays valid from now.
func (c *Claims) remaining() time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	return time.Until(c.ExpiresAt.Time)
}
