package access

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChecker struct {
	active map[int64]bool
	err    error
}

func (f *fakeChecker) IsActive(_ context.Context, tgUserID int64) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.active[tgUserID], nil
}

func TestAuthorizeOwner(t *testing.T) {
	g := NewGuard(100, &fakeChecker{})

	role, err := g.Authorize(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, RoleOwner, role)
	assert.True(t, g.IsOwner(100))
}

func TestAuthorizeActiveAdmin(t *testing.T) {
	g := NewGuard(100, &fakeChecker{active: map[int64]bool{200: true}})

	role, err := g.Authorize(context.Background(), 200)
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, role)
	assert.False(t, g.IsOwner(200))
}

func TestAuthorizeStranger(t *testing.T) {
	g := NewGuard(100, &fakeChecker{active: map[int64]bool{200: true}})

	role, err := g.Authorize(context.Background(), 300)
	require.NoError(t, err)
	assert.Equal(t, RoleDenied, role)
}

func TestAuthorizeStorageErrorDeniesAccess(t *testing.T) {
	boom := errors.New("БД недоступна")
	g := NewGuard(100, &fakeChecker{err: boom})

	role, err := g.Authorize(context.Background(), 200)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, RoleDenied, role)
}

func TestAuthorizeOwnerSkipsStorage(t *testing.T) {
	// владелец авторизуется даже при лежащей БД
	g := NewGuard(100, &fakeChecker{err: errors.New("БД недоступна")})

	role, err := g.Authorize(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, RoleOwner, role)
}
