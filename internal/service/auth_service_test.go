package service

import (
	"context"
	"testing"

	"forum/internal/auth"
	"forum/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-that-is-long-enough-for-hs256"

func newAuthService(t *testing.T, svc *services) (*AuthService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return NewAuthService(
		svc.users,
		auth.NewBcryptHasher(4),
		auth.NewTokenService(testSecret),
		auth.NewSessionStore(rdb),
	), mr
}

func TestAuthService_Login(t *testing.T) {
	t.Parallel()
	svc := newServices(t)
	authSvc, _ := newAuthService(t, svc)
	ctx := context.Background()

	alice := svc.mustUser(t, "alice")

	t.Run("unknown user", func(t *testing.T) {
		_, _, err := authSvc.Login(ctx, "nobody", "password")
		requireAppError(t, err, models.CodeUnauthorized, "Cannot login: User does not exist with nobody")
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := authSvc.Login(ctx, "alice", "wrong")
		requireAppError(t, err, models.CodeUnauthorized, "Cannot login: Invalid password")
	})

	t.Run("success", func(t *testing.T) {
		user, token, err := authSvc.Login(ctx, "alice", "password")
		require.NoError(t, err)
		assert.Equal(t, alice.ID, user.ID)
		assert.NotEmpty(t, token)

		claims, err := authSvc.Authenticate(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, "alice", claims.Username)
		id, err := claims.UserID()
		require.NoError(t, err)
		assert.Equal(t, alice.ID, id)
	})
}

func TestAuthService_Login_DeletedUser(t *testing.T) {
	t.Parallel()
	svc := newServices(t)
	authSvc, _ := newAuthService(t, svc)
	ctx := context.Background()

	bob := svc.mustUser(t, "bob")
	_, err := svc.users.DeleteUser(ctx, bob.ID)
	require.NoError(t, err)

	_, _, err = authSvc.Login(ctx, "bob", "password")
	requireAppError(t, err, models.CodeUnauthorized, "Cannot login: User has been deleted")

	_, _, err = authSvc.Login(ctx, "bob", "wrong")
	requireAppError(t, err, models.CodeUnauthorized, "Cannot login: Invalid password")

	found, err := svc.users.GetUser(ctx, bob.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.NotNil(t, found.DeletedAt)
}

func TestAuthService_Logout(t *testing.T) {
	t.Parallel()
	svc := newServices(t)
	authSvc, _ := newAuthService(t, svc)
	ctx := context.Background()

	svc.mustUser(t, "alice")
	_, token, err := authSvc.Login(ctx, "alice", "password")
	require.NoError(t, err)

	claims, err := authSvc.Authenticate(ctx, token)
	require.NoError(t, err)

	authSvc.Logout(ctx, claims)

	_, err = authSvc.Authenticate(ctx, token)
	assert.ErrorIs(t, err, auth.ErrTokenRevoked)
}

func TestAuthService_RevokeUser(t *testing.T) {
	t.Parallel()
	svc := newServices(t)
	authSvc, _ := newAuthService(t, svc)
	ctx := context.Background()

	alice := svc.mustUser(t, "alice")
	_, token, err := authSvc.Login(ctx, "alice", "password")
	require.NoError(t, err)

	authSvc.RevokeUser(ctx, alice.ID)

	_, err = authSvc.Authenticate(ctx, token)
	assert.ErrorIs(t, err, auth.ErrTokenRevoked)
}

func TestAuthService_Authenticate_RedisDown(t *testing.T) {
	t.Parallel()
	svc := newServices(t)
	authSvc, mr := newAuthService(t, svc)
	ctx := context.Background()

	svc.mustUser(t, "alice")
	_, token, err := authSvc.Login(ctx, "alice", "password")
	require.NoError(t, err)

	mr.Close()

	claims, err := authSvc.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)

	authSvc.Logout(ctx, claims)
}

func TestAuthService_Authenticate_InvalidToken(t *testing.T) {
	t.Parallel()
	svc := newServices(t)
	authSvc, _ := newAuthService(t, svc)

	_, err := authSvc.Authenticate(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, auth.ErrTokenInvalid)
}

func TestAuthService_Authenticate_DeletedUserWithoutRedis(t *testing.T) {
	t.Parallel()
	svc := newServices(t)
	authSvc := NewAuthService(
		svc.users,
		auth.NewBcryptHasher(4),
		auth.NewTokenService(testSecret),
		auth.NewSessionStore(nil),
	)
	ctx := context.Background()

	carol := svc.mustUser(t, "carol")
	_, token, err := authSvc.Login(ctx, "carol", "password")
	require.NoError(t, err)

	_, err = authSvc.Authenticate(ctx, token)
	require.NoError(t, err)

	_, err = svc.users.DeleteUser(ctx, carol.ID)
	require.NoError(t, err)
	// Without Redis nothing records the revocation; the user lookup still rejects.
	authSvc.RevokeUser(ctx, carol.ID)

	_, err = authSvc.Authenticate(ctx, token)
	assert.ErrorIs(t, err, auth.ErrTokenRevoked)
}

func TestAuthService_Authenticate_UnknownUser(t *testing.T) {
	t.Parallel()
	svc := newServices(t)
	authSvc, _ := newAuthService(t, svc)

	token, _, err := auth.NewTokenService(testSecret).Issue(404, "ghost")
	require.NoError(t, err)

	_, err = authSvc.Authenticate(context.Background(), token)
	assert.ErrorIs(t, err, auth.ErrTokenRevoked)
}
