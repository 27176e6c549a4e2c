package services

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUserService_Update(t *testing.T) {
	env := newTestEnv(t)
	admin := seedUser(t, env.db, "admin", true, false, false)
	bob := seedUser(t, env.db, "bob", false, false, true)

	manager := true
	name := "Robert"
	updated, err := env.users.Update(admin, bob.ID, UpdateUserInput{
		Name:      &name,
		IsManager: &manager,
	})
	require.NoError(t, err)
	require.Equal(t, "Robert", updated.Name)
	require.True(t, updated.IsManager)
	require.True(t, updated.IsUser, "untouched flags keep their value")
}

func TestUserService_UpdateAdminOnly(t *testing.T) {
	env := newTestEnv(t)
	manager := seedUser(t, env.db, "manager", false, true, false)
	bob := seedUser(t, env.db, "bob", false, false, true)

	name := "Robert"
	_, err := env.users.Update(manager, bob.ID, UpdateUserInput{Name: &name})
	require.ErrorIs(t, err, ErrPermissionDenied)

	_, err = env.users.Update(manager, manager.ID, UpdateUserInput{Name: &name})
	require.ErrorIs(t, err, ErrPermissionDenied, "self-update is not exempt from the admin gate")
}

func TestUserService_UpdateUniqueness(t *testing.T) {
	env := newTestEnv(t)
	admin := seedUser(t, env.db, "admin", true, false, false)
	bob := seedUser(t, env.db, "bob", false, false, true)
	seedUser(t, env.db, "carol", false, false, true)

	taken := "carol"
	_, err := env.users.Update(admin, bob.ID, UpdateUserInput{Username: &taken})
	require.ErrorIs(t, err, ErrUsernameTaken)

	takenEmail := "carol@example.com"
	_, err = env.users.Update(admin, bob.ID, UpdateUserInput{Email: &takenEmail})
	require.ErrorIs(t, err, ErrEmailTaken)

	// Re-submitting the user's own values is not a conflict.
	own := "bob"
	_, err = env.users.Update(admin, bob.ID, UpdateUserInput{Username: &own})
	require.NoError(t, err)

	_, err = env.users.Update(admin, bob.ID+100, UpdateUserInput{Username: &own})
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_ChangePassword(t *testing.T) {
	env := newTestEnv(t)
	bob := seedUser(t, env.db, "bob", false, false, true)

	err := env.users.ChangePassword(bob, "wrong", "newpassword")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	err = env.users.ChangePassword(bob, "supersecret", "short")
	require.ErrorIs(t, err, ErrPasswordTooShort)

	require.NoError(t, env.users.ChangePassword(bob, "supersecret", "newpassword"))

	_, _, err = env.auth.Login(LoginInput{Username: "bob", Password: "supersecret"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = env.auth.Login(LoginInput{Username: "bob", Password: "newpassword"})
	require.NoError(t, err)
}

func TestUserService_Deactivate(t *testing.T) {
	env := newTestEnv(t)
	admin := seedUser(t, env.db, "admin", true, false, false)
	bob := seedUser(t, env.db, "bob", false, false, true)

	deactivated, err := env.users.Deactivate(admin, bob.ID)
	require.NoError(t, err)
	require.False(t, deactivated.IsActive)

	_, err = env.users.Deactivate(admin, bob.ID)
	require.ErrorIs(t, err, ErrUserAlreadyInactive)

	// Deactivated accounts cannot log in.
	_, _, err = env.auth.Login(LoginInput{Username: "bob", Password: "supersecret"})
	require.ErrorIs(t, err, ErrUserInactive)

	_, err = env.users.Deactivate(bob, admin.ID)
	require.ErrorIs(t, err, ErrPermissionDenied)
}
