// Package services contains the server-side business logic. AuthService
// owns the credential lifecycle: registration, login, refresh-token
// rotation, logout, and password/email changes.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/eventspark/auth-service/internal/common"
	"github.com/eventspark/auth-service/internal/server/auth"
	"github.com/eventspark/auth-service/internal/server/identity"
	"github.com/eventspark/auth-service/internal/server/models"
	"github.com/eventspark/auth-service/internal/server/repositories/credentials"
)

// LoginResult bundles a signed access token, its lifetime in
// milliseconds, and the refresh token callers transport separately.
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	ExpiresMs    int64
}

// AuthService orchestrates the credential store, the identity lookup,
// the secret hasher, and the token issuer. It is stateless between
// calls; all durable state lives in the credential store.
type AuthService struct {
	credentials     credentials.Repository
	identity        identity.Lookup
	hasher          *auth.SecretHasher
	issuer          *auth.TokenIssuer
	refreshValidity time.Duration
}

func NewAuthService(
	repo credentials.Repository,
	lookup identity.Lookup,
	hasher *auth.SecretHasher,
	issuer *auth.TokenIssuer,
	refreshValidity time.Duration,
) *AuthService {
	return &AuthService{
		credentials:     repo,
		identity:        lookup,
		hasher:          hasher,
		issuer:          issuer,
		refreshValidity: refreshValidity,
	}
}

// Register creates a credential for email. The owning user id comes from
// the identity lookup; a missing user yields ErrorNotFound, an existing
// credential yields ErrorDuplicate. No tokens are issued here:
// registration and login are separate steps.
func (s *AuthService) Register(ctx context.Context, email, password string) error {
	profile, err := s.identity.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("user %q: %w", email, common.ErrorNotFound)
		}
		return err
	}

	if _, err := s.credentials.GetByEmail(ctx, email); err == nil {
		return common.ErrorDuplicate
	} else if !errors.Is(err, common.ErrorNotFound) {
		return err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("hashing secret: %w", err)
	}

	// A concurrent registration can slip past the existence check above;
	// the store's unique email constraint reports it here as
	// ErrorDuplicate, which passes through as the same failure kind.
	_, err = s.credentials.Create(ctx, &models.Credential{
		UserID:       profile.ID,
		Email:        email,
		PasswordHash: hash,
	})
	return err
}

// Login verifies the email/secret pair and starts a refresh session.
// Every failure mode (unknown email, wrong secret, missing identity)
// collapses to the single ErrInvalidCredentials value so the caller
// cannot tell which check rejected it.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	credential, err := s.credentials.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Verify(password, credential.PasswordHash) {
		return nil, common.ErrInvalidCredentials
	}

	profile, err := s.identity.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, err
	}

	return s.startSession(ctx, credential, profile)
}

// Refresh exchanges a still-valid refresh token for a new token pair,
// rotating the stored token so the presented value cannot be used again.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	credential, err := s.credentials.GetByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidRefreshToken
		}
		return nil, err
	}

	// Expiry is computed at read time; expired rows stay in the store.
	if !credential.HasActiveSession(time.Now()) {
		return nil, common.ErrRefreshTokenExpired
	}

	profile, err := s.identity.GetByEmail(ctx, credential.Email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidRefreshToken
		}
		return nil, err
	}

	return s.startSession(ctx, credential, profile)
}

// Logout ends the refresh session holding the token. Unknown tokens are
// a silent no-op: logout is idempotent and never reveals whether the
// token existed.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	credential, err := s.credentials.GetByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil
		}
		return err
	}

	credential.RefreshToken = ""
	credential.RefreshTokenExpiry = time.Time{}
	_, err = s.credentials.Update(ctx, credential.ID, credential)
	return err
}

// ChangePassword replaces the stored secret hash wholesale. Existing
// refresh sessions deliberately survive a password change.
func (s *AuthService) ChangePassword(ctx context.Context, email, newPassword string) error {
	credential, err := s.credentials.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hashing secret: %w", err)
	}

	credential.PasswordHash = hash
	_, err = s.credentials.Update(ctx, credential.ID, credential)
	return err
}

// ChangeEmail moves a credential to a new unique email.
func (s *AuthService) ChangeEmail(ctx context.Context, oldEmail, newEmail string) error {
	credential, err := s.credentials.GetByEmail(ctx, oldEmail)
	if err != nil {
		return err
	}

	if _, err := s.credentials.GetByEmail(ctx, newEmail); err == nil {
		return common.ErrorDuplicate
	} else if !errors.Is(err, common.ErrorNotFound) {
		return err
	}

	credential.Email = newEmail
	_, err = s.credentials.Update(ctx, credential.ID, credential)
	return err
}

// startSession mints a token pair and overwrites any previous refresh
// session on the credential. The write is last-writer-wins: concurrent
// logins or refreshes for the same credential are not serialized.
func (s *AuthService) startSession(ctx context.Context, credential *models.Credential, profile *models.Profile) (*LoginResult, error) {
	accessToken, err := s.issuer.IssueAccessToken(profile)
	if err != nil {
		return nil, fmt.Errorf("issuing access token: %w", err)
	}

	refreshToken, err := s.issuer.IssueRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("issuing refresh token: %w", err)
	}

	credential.RefreshToken = refreshToken
	credential.RefreshTokenExpiry = time.Now().Add(s.refreshValidity)
	if _, err := s.credentials.Update(ctx, credential.ID, credential); err != nil {
		return nil, err
	}

	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresMs:    s.issuer.AccessTokenLifetime().Milliseconds(),
	}, nil
}
