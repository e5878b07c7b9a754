// Package credentials declares the persistence contract for credential
// records and provides PostgreSQL-backed and in-memory implementations.
package credentials

import (
	"context"

	"github.com/eventspark/auth-service/internal/server/models"
)

// Repository is the credential store consumed by the authentication
// service. Lookups return common.ErrorNotFound when no record matches.
// Create returns common.ErrorDuplicate when the email is already taken,
// which is how a lost registration race surfaces.
type Repository interface {
	// Create persists a new credential and fills in its id and
	// timestamps.
	Create(ctx context.Context, credential *models.Credential) (*models.Credential, error)

	GetByEmail(ctx context.Context, email string) (*models.Credential, error)

	// GetByRefreshToken looks up the credential holding the given opaque
	// refresh token value. An empty token never matches.
	GetByRefreshToken(ctx context.Context, token string) (*models.Credential, error)

	// Update replaces the stored record wholesale and bumps updated_at.
	// It reports false when id does not exist.
	Update(ctx context.Context, id string, credential *models.Credential) (bool, error)
}
