package credentials

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventspark/auth-service/internal/common"
	"github.com/eventspark/auth-service/internal/server/models"
)

func createTestCredential(t *testing.T, repo *InMemoryRepository, email string) *models.Credential {
	t.Helper()
	c, err := repo.Create(context.Background(), &models.Credential{
		UserID:       "u1",
		Email:        email,
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	return c
}

func TestInMemoryCreate(t *testing.T) {
	repo := NewInMemoryRepository()

	c := createTestCredential(t, repo, "a@x.com")
	assert.NotEmpty(t, c.ID)
	assert.False(t, c.CreatedAt.IsZero())
	assert.False(t, c.UpdatedAt.IsZero())
	assert.Equal(t, 1, repo.Len())
}

func TestInMemoryCreate_DuplicateEmail(t *testing.T) {
	repo := NewInMemoryRepository()
	createTestCredential(t, repo, "a@x.com")

	_, err := repo.Create(context.Background(), &models.Credential{Email: "a@x.com"})
	assert.ErrorIs(t, err, common.ErrorDuplicate)
	assert.Equal(t, 1, repo.Len())
}

func TestInMemoryGetByEmail(t *testing.T) {
	repo := NewInMemoryRepository()
	created := createTestCredential(t, repo, "a@x.com")

	got, err := repo.GetByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = repo.GetByEmail(context.Background(), "missing@x.com")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestInMemoryGetByEmail_CaseSensitive(t *testing.T) {
	repo := NewInMemoryRepository()
	createTestCredential(t, repo, "a@x.com")

	_, err := repo.GetByEmail(context.Background(), "A@X.COM")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestInMemoryGetByRefreshToken(t *testing.T) {
	repo := NewInMemoryRepository()
	created := createTestCredential(t, repo, "a@x.com")

	created.RefreshToken = "tok"
	created.RefreshTokenExpiry = time.Now().Add(time.Hour)
	found, err := repo.Update(context.Background(), created.ID, created)
	require.NoError(t, err)
	require.True(t, found)

	got, err := repo.GetByRefreshToken(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = repo.GetByRefreshToken(context.Background(), "other")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestInMemoryGetByRefreshToken_EmptyNeverMatches(t *testing.T) {
	repo := NewInMemoryRepository()
	createTestCredential(t, repo, "a@x.com") // no session, empty token

	_, err := repo.GetByRefreshToken(context.Background(), "")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestInMemoryUpdate(t *testing.T) {
	repo := NewInMemoryRepository()
	created := createTestCredential(t, repo, "a@x.com")

	created.PasswordHash = "newhash"
	found, err := repo.Update(context.Background(), created.ID, created)
	require.NoError(t, err)
	assert.True(t, found)

	got, err := repo.GetByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "newhash", got.PasswordHash)
	assert.Equal(t, created.CreatedAt, got.CreatedAt)
	assert.False(t, got.UpdatedAt.Before(created.UpdatedAt))
}

func TestInMemoryUpdate_NotFound(t *testing.T) {
	repo := NewInMemoryRepository()

	found, err := repo.Update(context.Background(), "missing", &models.Credential{})
	require.NoError(t, err)
	assert.False(t, found)
}

func TestInMemoryUpdate_DuplicateEmail(t *testing.T) {
	repo := NewInMemoryRepository()
	createTestCredential(t, repo, "a@x.com")
	second := createTestCredential(t, repo, "b@x.com")

	second.Email = "a@x.com"
	_, err := repo.Update(context.Background(), second.ID, second)
	assert.ErrorIs(t, err, common.ErrorDuplicate)
}

func TestInMemoryReturnsCopies(t *testing.T) {
	repo := NewInMemoryRepository()
	created := createTestCredential(t, repo, "a@x.com")

	created.PasswordHash = "mutated"

	got, err := repo.GetByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "hash", got.PasswordHash, "stored record must not alias caller memory")
}
