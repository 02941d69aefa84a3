package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireRole(t *testing.T) {
	t.Parallel()

	admin := &Identity{Username: "admin", Role: RoleAdmin}
	user := &Identity{Username: "alice", Role: RoleUser}

	assert.NoError(t, RequireRole(admin, RoleAdmin))
	assert.ErrorIs(t, RequireRole(user, RoleAdmin), ErrForbidden)
	assert.ErrorIs(t, RequireRole(nil, RoleAdmin), ErrForbidden)
}

func TestListUsers(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "Bob", "bob", "pw", "bob@example.com"))
	require.NoError(t, svc.Register(ctx, "Alice", "alice", "pw", "alice@example.com"))

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "alice", users[0].Username)
	assert.Equal(t, "bob", users[1].Username)
}

func TestSetUserPassword(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "Alice", "alice", "pw1", "alice@example.com"))

	err := svc.SetUserPassword(ctx, "nobody", "pw2")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTargetNotFound)

	require.NoError(t, svc.SetUserPassword(ctx, "alice", "pw2"))

	_, err = svc.Login(ctx, "alice", "pw1")
	require.Error(t, err)
	_, err = svc.Login(ctx, "alice", "pw2")
	require.NoError(t, err)
}

func TestSetUserRole(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "Alice", "alice", "pw1", "alice@example.com"))

	err := svc.SetUserRole(ctx, "alice", "superuser")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidRole)

	err = svc.SetUserRole(ctx, "nobody", RoleAdmin)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTargetNotFound)

	require.NoError(t, svc.SetUserRole(ctx, "alice", RoleAdmin))

	user, err := svc.Repo.FindUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, user.Role)
}
