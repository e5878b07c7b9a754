package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/eventspark/auth-service/internal/server/models"
)

// refreshTokenBytes is the entropy of an opaque refresh token before
// base64 encoding.
const refreshTokenBytes = 64

// ErrNoSigningKey is returned when the issuer is constructed without a
// signing key. The service never degrades to unsigned tokens.
var ErrNoSigningKey = errors.New("token issuer: signing key is not configured")

// Claims carries the registered claims plus the profile fields that
// downstream services read from access tokens.
type Claims struct {
	jwt.RegisteredClaims
	Email      string `json:"email"`
	FirstName  string `json:"firstname"`
	LastName   string `json:"lastname"`
	Role       int    `json:"role"`
	CustomerID string `json:"customerId"`
}

// TokenIssuer mints HS256-signed access tokens and opaque refresh tokens.
// The signing key, issuer, and audience come from deployment
// configuration, not from request data.
type TokenIssuer struct {
	secret   []byte
	issuer   string
	audience string
	validity time.Duration
}

func NewTokenIssuer(secret []byte, issuer, audience string, validity time.Duration) (*TokenIssuer, error) {
	if len(secret) == 0 {
		return nil, ErrNoSigningKey
	}
	return &TokenIssuer{
		secret:   secret,
		issuer:   issuer,
		audience: audience,
		validity: validity,
	}, nil
}

// IssueAccessToken returns a signed, self-contained token for the
// profile, expiring validity from now. The jti claim makes every token
// unique even for identical profiles issued within the same second.
func (i *TokenIssuer) IssueAccessToken(profile *models.Profile) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   profile.ID,
			Issuer:    i.issuer,
			Audience:  jwt.ClaimStrings{i.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.validity)),
		},
		Email:      profile.Email,
		FirstName:  profile.FirstName,
		LastName:   profile.LastName,
		Role:       profile.Role,
		CustomerID: profile.CustomerID,
	})

	return token.SignedString(i.secret)
}

// IssueRefreshToken returns 64 bytes of cryptographic randomness encoded
// as base64. The value is an opaque capability carrying no claims.
func (i *TokenIssuer) IssueRefreshToken() (string, error) {
	b := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

// AccessTokenLifetime returns the configured access token validity.
func (i *TokenIssuer) AccessTokenLifetime() time.Duration {
	return i.validity
}
