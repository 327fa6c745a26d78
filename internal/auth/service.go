package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/frahmantamala/legal-practice/internal"
	"github.com/frahmantamala/legal-practice/internal/access"
	"github.com/frahmantamala/legal-practice/internal/core/common/validation"
)

var ErrUserNotFound = errors.New("user not found")

// UserRepository reads the rows authentication needs.
type UserRepository interface {
	// CredentialsByEmail returns every user with the email. A non-empty tenantSlug limits the
	// search to that firm.
	CredentialsByEmail(ctx context.Context, email, tenantSlug string) ([]Credentials, error)
	GetSubject(ctx context.Context, userID int64) (*access.Subject, error)
}

// Service is the main auth service with dependencies
type Service struct {
	userRepo       UserRepository
	tokenGenerator TokenGenerator
	revoker        TokenRevoker
	bcryptCost     int
	logger         *slog.Logger
}

// NewService creates a new auth service
func NewService(userRepo UserRepository, tokenGen TokenGenerator, revoker TokenRevoker, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	if revoker == nil {
		revoker = NoopRevoker{}
	}
	return &Service{
		userRepo:       userRepo,
		tokenGenerator: tokenGen,
		revoker:        revoker,
		bcryptCost:     bcryptCost,
		logger:         logger,
	}
}

// Authenticate validates credentials and returns tokens
func (s *Service) Authenticate(ctx context.Context, dto LoginDTO) (AuthTokens, error) {
	if appErr := validation.ValidateStruct(dto); appErr != nil {
		return AuthTokens{}, appErr
	}

	candidates, err := s.userRepo.CredentialsByEmail(ctx, dto.Email, dto.Tenant)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to load credentials", err)
	}

	creds, ok := pickCredentials(candidates, dto.Tenant != "")
	if !ok {
		s.logger.InfoContext(ctx, "login rejected", "reason", "no unique account", "matches", len(candidates))
		return AuthTokens{}, internal.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte(dto.Password)); err != nil {
		s.logger.InfoContext(ctx, "login rejected", "user_id", creds.UserID, "reason", "password mismatch")
		return AuthTokens{}, internal.ErrInvalidCredentials
	}
	if creds.Status != access.StatusActive {
		return AuthTokens{}, internal.ErrUserInactive
	}

	s.logger.InfoContext(ctx, "user authenticated", "user_id", creds.UserID)
	return s.issue(creds.UserID, creds.Email, creds.TenantID)
}

// pickCredentials prefers a central account, then a single tenant account. When several firms
// share the email the caller must name the tenant.
func pickCredentials(candidates []Credentials, tenantGiven bool) (Credentials, bool) {
	if len(candidates) == 1 {
		return candidates[0], true
	}
	if tenantGiven {
		return Credentials{}, false
	}
	for _, c := range candidates {
		if c.TenantID == nil {
			return c, true
		}
	}
	return Credentials{}, false
}

// RefreshTokens rotates a refresh token. The old one is revoked.
func (s *Service) RefreshTokens(ctx context.Context, refreshToken string) (AuthTokens, error) {
	claims, err := s.tokenGenerator.ValidateRefreshToken(refreshToken)
	if err != nil {
		return AuthTokens{}, err
	}
	if err := s.ensureNotRevoked(ctx, claims); err != nil {
		return AuthTokens{}, err
	}

	subject, err := s.LoadSubject(ctx, claims.UserID)
	if err != nil {
		return AuthTokens{}, err
	}
	if subject.Status != access.StatusActive {
		return AuthTokens{}, internal.ErrUserInactive
	}

	if err := s.revoker.Revoke(ctx, claims.ID, claims.remaining()); err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to rotate refresh token", err)
	}
	return s.issue(subject.ID, subject.Email, subject.TenantID)
}

// Logout revokes the access token and, when given, the refresh token of the same user.
func (s *Service) Logout(ctx context.Context, accessToken, refreshToken string) error {
	claims, err := s.ValidateAccessToken(ctx, accessToken)
	if err != nil {
		return err
	}
	if err := s.revoker.Revoke(ctx, claims.ID, claims.remaining()); err != nil {
		return internal.NewInternalError("failed to revoke token", err)
	}

	if refreshToken != "" {
		refresh, err := s.tokenGenerator.ValidateRefreshToken(refreshToken)
		if err != nil {
			return err
		}
		if refresh.UserID != claims.UserID {
			return internal.ErrInvalidToken
		}
		if err := s.revoker.Revoke(ctx, refresh.ID, refresh.remaining()); err != nil {
			return internal.NewInternalError("failed to revoke token", err)
		}
	}

	s.logger.InfoContext(ctx, "user logged out", "user_id", claims.UserID)
	return nil
}

// ValidateAccessToken validates the signature, expiry and revocation of an access token.
func (s *Service) ValidateAccessToken(ctx context.Context, tokenString string) (*Claims, error) {
	claims, err := s.tokenGenerator.ValidateAccessToken(tokenString)
	if err != nil {
		return nil, err
	}
	if err := s.ensureNotRevoked(ctx, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// LoadSubject reads the current user row. Missing users are reported as an invalid token.
func (s *Service) LoadSubject(ctx context.Context, userID int64) (*access.Subject, error) {
	subject, err := s.userRepo.GetSubject(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, internal.ErrInvalidToken
		}
		return nil, internal.NewInternalError("failed to load user", err)
	}
	return subject, nil
}

// HashPassword creates a bcrypt hash of the password
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (s *Service) ensureNotRevoked(ctx context.Context, claims *Claims) error {
	revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		return internal.NewInternalError("failed to check token revocation", err)
	}
	if revoked {
		return internal.ErrTokenRevoked
	}
	return nil
}

func (s *Service) issue(userID int64, email string, tenantID *int64) (AuthTokens, error) {
	accessToken, err := s.tokenGenerator.GenerateAccessToken(userID, email, tenantID)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to issue token", err)
	}
	refreshToken, err := s.tokenGenerator.GenerateRefreshToken(userID, email, tenantID)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to issue token", err)
	}

	var expiresIn int64
	if gen, ok := s.tokenGenerator.(*JWTTokenGenerator); ok {
		expiresIn = int64(gen.AccessTokenTTL.Seconds())
	}
	return AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    expiresIn,
	}, nil
}
