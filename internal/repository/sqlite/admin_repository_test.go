package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobboard/internal/domain"
	"jobboard/internal/repository"
)

func TestAdminRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewAdminRepository(newTestDB(t))

	admin := &domain.Admin{
		Username:     "root",
		Email:        "root@example.com",
		PasswordHash: "hash",
		Name:         "Root",
		Role:         domain.RoleSuperAdmin,
		IsActive:     true,
	}
	require.NoError(t, repo.Create(ctx, admin))
	require.NotEmpty(t, admin.ID)

	got, err := repo.GetByUsername(ctx, "root")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, got.ID)
	assert.Equal(t, domain.RoleSuperAdmin, got.Role)
	assert.Nil(t, got.LastLogin)

	exists, err := repo.ExistsByUsernameOrEmail(ctx, "other", "root@example.com")
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = repo.ExistsByUsernameOrEmail(ctx, "other", "other@example.com")
	require.NoError(t, err)
	assert.False(t, exists)

	dup := &domain.Admin{Username: "root", Email: "x@example.com", PasswordHash: "h", Name: "X", Role: domain.RoleAdmin}
	assert.ErrorIs(t, repo.Create(ctx, dup), repository.ErrDuplicate)

	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.UpdateLastLogin(ctx, admin.ID, at))
	require.NoError(t, repo.UpdateProfile(ctx, admin.ID, "Renamed", "new@example.com"))
	require.NoError(t, repo.UpdatePassword(ctx, admin.ID, "hash2"))
	require.NoError(t, repo.SetActive(ctx, admin.ID, false))

	got, err = repo.GetByID(ctx, admin.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastLogin)
	assert.True(t, got.LastLogin.Equal(at))
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, "new@example.com", got.Email)
	assert.Equal(t, "hash2", got.PasswordHash)
	assert.False(t, got.IsActive)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, repo.UpdatePassword(ctx, "missing", "h"), repository.ErrNotFound)
}

func TestAdminRepositoryProfileEmailConflict(t *testing.T) {
	ctx := context.Background()
	repo := NewAdminRepository(newTestDB(t))

	a := &domain.Admin{Username: "a", Email: "a@example.com", PasswordHash: "h", Name: "A", Role: domain.RoleAdmin, IsActive: true}
	b := &domain.Admin{Username: "b", Email: "b@example.com", PasswordHash: "h", Name: "B", Role: domain.RoleAdmin, IsActive: true}
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))

	err := repo.UpdateProfile(ctx, b.ID, "B", "a@example.com")
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}
