package credentials

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/eventspark/auth-service/internal/common"
	"github.com/eventspark/auth-service/internal/server/models"
)

// InMemoryRepository keeps credentials in process memory guarded by a
// mutex. It is the reference implementation of the store contract and
// backs service tests and single-node development runs.
type InMemoryRepository struct {
	mu    sync.RWMutex
	items map[string]*models.Credential
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{items: make(map[string]*models.Credential)}
}

func (r *InMemoryRepository) Create(ctx context.Context, credential *models.Credential) (*models.Credential, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.items {
		if c.Email == credential.Email {
			return nil, common.ErrorDuplicate
		}
	}

	now := time.Now()
	stored := clone(credential)
	stored.ID = uuid.NewString()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.items[stored.ID] = stored

	return clone(stored), nil
}

func (r *InMemoryRepository) GetByEmail(ctx context.Context, email string) (*models.Credential, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.items {
		if c.Email == email {
			return clone(c), nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *InMemoryRepository) GetByRefreshToken(ctx context.Context, token string) (*models.Credential, error) {
	if token == "" {
		return nil, common.ErrorNotFound
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.items {
		if c.RefreshToken == token {
			return clone(c), nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *InMemoryRepository) Update(ctx context.Context, id string, credential *models.Credential) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.items[id]
	if !ok {
		return false, nil
	}

	for _, c := range r.items {
		if c.ID != id && c.Email == credential.Email {
			return false, common.ErrorDuplicate
		}
	}

	stored := clone(credential)
	stored.ID = existing.ID
	stored.CreatedAt = existing.CreatedAt
	stored.UpdatedAt = time.Now()
	r.items[id] = stored

	return true, nil
}

// Len returns the number of stored credentials.
func (r *InMemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

// clone isolates stored records from caller mutation.
func clone(c *models.Credential) *models.Credential {
	cp := *c
	return &cp
}
