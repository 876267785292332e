package service

import (
	"context"
	"testing"

	"forum/internal/auth"
	"forum/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_CreateUser_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      CreateUserInput
		message string
	}{
		{"no fields", CreateUserInput{}, "Cannot create User: Missing required fields."},
		{"blank username", CreateUserInput{Username: "  ", Email: "a@b.c", Password: "pw"}, "Cannot create User: Missing username."},
		{"missing email", CreateUserInput{Username: "alice", Password: "pw"}, "Cannot create User: Missing email."},
		{"missing password", CreateUserInput{Username: "alice", Email: "a@b.c"}, "Cannot create User: Missing password."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := newServices(t)
			_, err := svc.users.CreateUser(context.Background(), tt.in)
			requireAppError(t, err, models.CodeValidation, tt.message)

			all, err := svc.users.ListUsers(context.Background())
			require.NoError(t, err)
			assert.Empty(t, all)
		})
	}
}

func TestUserService_CreateUser(t *testing.T) {
	t.Parallel()
	svc := newServices(t)
	ctx := context.Background()

	user, err := svc.users.CreateUser(ctx, CreateUserInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "secret",
	})
	require.NoError(t, err)

	assert.NotZero(t, user.ID)
	assert.False(t, user.CreatedAt.IsZero())
	assert.Nil(t, user.EditedAt)
	assert.Nil(t, user.DeletedAt)
	assert.NotEqual(t, "secret", user.Password)
	assert.True(t, auth.NewBcryptHasher(4).Compare(user.Password, "secret"))

	found, err := svc.users.GetUser(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "alice", found.Username)
}

func TestUserService_CreateUser_Duplicates(t *testing.T) {
	t.Parallel()
	svc := newServices(t)
	ctx := context.Background()

	svc.mustUser(t, "alice")

	_, err := svc.users.CreateUser(ctx, CreateUserInput{Username: "alice", Email: "other@example.com", Password: "pw"})
	requireAppError(t, err, models.CodeValidation, "Cannot create User: Duplicate username.")

	_, err = svc.users.CreateUser(ctx, CreateUserInput{Username: "bob", Email: "alice@example.com", Password: "pw"})
	requireAppError(t, err, models.CodeValidation, "Cannot create User: Duplicate email.")

	all, err := svc.users.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestUserService_CreateUser_DuplicateOfDeletedUser(t *testing.T) {
	t.Parallel()
	svc := newServices(t)
	ctx := context.Background()

	alice := svc.mustUser(t, "alice")
	_, err := svc.users.DeleteUser(ctx, alice.ID)
	require.NoError(t, err)

	_, err = svc.users.CreateUser(ctx, CreateUserInput{Username: "alice", Email: "new@example.com", Password: "pw"})
	requireAppError(t, err, models.CodeValidation, "Cannot create User: Duplicate username.")
}

func TestUserService_GetUser_Absent(t *testing.T) {
	t.Parallel()
	svc := newServices(t)

	user, err := svc.users.GetUser(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestUserService_UpdateUser(t *testing.T) {
	t.Parallel()
	svc := newServices(t)
	ctx := context.Background()

	alice := svc.mustUser(t, "alice")
	svc.mustUser(t, "bob")

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.users.UpdateUser(ctx, 99, UpdateUserInput{Username: ptr("x")})
		requireAppError(t, err, models.CodeNotFound, "Cannot update User: User does not exist with ID 99.")
	})

	t.Run("no parameters", func(t *testing.T) {
		_, err := svc.users.UpdateUser(ctx, alice.ID, UpdateUserInput{})
		requireAppError(t, err, models.CodeValidation, "Cannot update User: No update parameters were provided.")

		_, err = svc.users.UpdateUser(ctx, alice.ID, UpdateUserInput{Username: ptr(""), Email: ptr("")})
		requireAppError(t, err, models.CodeValidation, "Cannot update User: No update parameters were provided.")
	})

	t.Run("blank values", func(t *testing.T) {
		_, err := svc.users.UpdateUser(ctx, alice.ID, UpdateUserInput{Email: ptr("   ")})
		requireAppError(t, err, models.CodeValidation, "Cannot update User: Missing email.")

		_, err = svc.users.UpdateUser(ctx, alice.ID, UpdateUserInput{Username: ptr(" ")})
		requireAppError(t, err, models.CodeValidation, "Cannot update User: Missing username.")

		_, err = svc.users.UpdateUser(ctx, alice.ID, UpdateUserInput{Password: ptr(" ")})
		requireAppError(t, err, models.CodeValidation, "Cannot update User: Missing password.")
	})

	t.Run("email checked before username", func(t *testing.T) {
		_, err := svc.users.UpdateUser(ctx, alice.ID, UpdateUserInput{
			Username: ptr("bob"),
			Email:    ptr("bob@example.com"),
		})
		requireAppError(t, err, models.CodeValidation, "Cannot update User: Duplicate email.")

		_, err = svc.users.UpdateUser(ctx, alice.ID, UpdateUserInput{Username: ptr("bob")})
		requireAppError(t, err, models.CodeValidation, "Cannot update User: Duplicate username.")
	})

	t.Run("own values are not duplicates", func(t *testing.T) {
		updated, err := svc.users.UpdateUser(ctx, alice.ID, UpdateUserInput{
			Username: ptr("alice"),
			Email:    ptr("alice@example.com"),
		})
		require.NoError(t, err)
		assert.Equal(t, "alice", updated.Username)
	})

	t.Run("merges present fields", func(t *testing.T) {
		before, err := svc.users.GetUser(ctx, alice.ID)
		require.NoError(t, err)

		updated, err := svc.users.UpdateUser(ctx, alice.ID, UpdateUserInput{
			Avatar:   ptr("https://img.example.com/a.png"),
			Password: ptr("new-secret"),
		})
		require.NoError(t, err)

		assert.Equal(t, before.Username, updated.Username)
		assert.Equal(t, before.Email, updated.Email)
		require.NotNil(t, updated.Avatar)
		assert.Equal(t, "https://img.example.com/a.png", *updated.Avatar)
		assert.True(t, auth.NewBcryptHasher(4).Compare(updated.Password, "new-secret"))
		assert.True(t, before.CreatedAt.Equal(updated.CreatedAt))
		require.NotNil(t, updated.EditedAt)
		assert.True(t, updated.EditedAt.After(updated.CreatedAt))
	})
}

func TestUserService_DeleteUser(t *testing.T) {
	t.Parallel()
	svc := newServices(t)
	ctx := context.Background()

	alice := svc.mustUser(t, "alice")

	deleted, err := svc.users.DeleteUser(ctx, alice.ID)
	require.NoError(t, err)
	require.NotNil(t, deleted.DeletedAt)
	first := *deleted.DeletedAt

	_, err = svc.users.DeleteUser(ctx, alice.ID)
	requireAppError(t, err, models.CodeValidation, "Cannot delete User: User has already been deleted.")

	_, err = svc.users.UpdateUser(ctx, alice.ID, UpdateUserInput{Username: ptr("alice2")})
	requireAppError(t, err, models.CodeValidation, "Cannot update User: User has been deleted.")

	found, err := svc.users.GetUser(ctx, alice.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	require.NotNil(t, found.DeletedAt)
	assert.True(t, first.Equal(*found.DeletedAt))

	_, err = svc.users.DeleteUser(ctx, 77)
	requireAppError(t, err, models.CodeNotFound, "Cannot delete User: User does not exist with ID 77.")
}
