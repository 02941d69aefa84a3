package repo

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/auth_portal/internal/models"
)

func newTestRepo(t *testing.T) *GormRepo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.RevokedToken{}))

	return &GormRepo{DB: db}
}

func TestRevoke_Idempotent(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	exp := time.Now().Add(30 * time.Minute).Unix()

	require.NoError(t, r.Revoke(ctx, "jti-1", exp))
	require.NoError(t, r.Revoke(ctx, "jti-1", exp))

	var count int64
	require.NoError(t, r.DB.Model(&models.RevokedToken{}).Where("jti = ?", "jti-1").Count(&count).Error)
	assert.EqualValues(t, 1, count)

	revoked, err := r.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestIsRevoked_Unknown(t *testing.T) {
	r := newTestRepo(t)

	revoked, err := r.IsRevoked(context.Background(), "never-seen")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestDeleteExpiredRevocations_KeepsLiveEntries(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, r.Revoke(ctx, "dead", now.Add(-time.Hour).Unix()))
	require.NoError(t, r.Revoke(ctx, "live", now.Add(time.Hour).Unix()))

	deleted, err := r.DeleteExpiredRevocations(ctx, now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)

	dead, err := r.IsRevoked(ctx, "dead")
	require.NoError(t, err)
	assert.False(t, dead)

	live, err := r.IsRevoked(ctx, "live")
	require.NoError(t, err)
	assert.True(t, live)
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	first := models.User{Username: "alice", FullName: "Alice", Email: "a@example.com", PasswordHash: "x", Role: "user"}
	require.NoError(t, r.CreateUser(ctx, &first))

	// The constraint, not a prior read, rejects the second row.
	second := models.User{Username: "alice", FullName: "Other", Email: "b@example.com", PasswordHash: "y", Role: "user"}
	err := r.CreateUser(ctx, &second)
	require.Error(t, err)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	var count int64
	require.NoError(t, r.DB.Model(&models.User{}).Where("username = ?", "alice").Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
