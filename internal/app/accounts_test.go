package app

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/transfa/returns-service/internal/domain"
)

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	registered, err := env.svc.Register(ctx, domain.RegisterRequest{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "Jane@Example.com",
		Password:  "s3cret",
	})
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", registered.User.Email)
	assert.Equal(t, "Jane Doe", registered.User.Name)
	assert.Equal(t, domain.RoleCustomer, registered.User.Role)

	principal, err := env.svc.tokens.Verify(registered.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, principal.SubjectID)
	assert.Equal(t, domain.RoleCustomer, principal.Role)

	_, err = env.svc.Register(ctx, domain.RegisterRequest{FirstName: "J", LastName: "D", Email: "jane@example.com", Password: "x"})
	require.ErrorIs(t, err, domain.ErrConflict)

	loggedIn, err := env.svc.Login(ctx, domain.LoginRequest{Email: "jane@example.com", Password: "s3cret"})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, loggedIn.User.ID)

	_, err = env.svc.Login(ctx, domain.LoginRequest{Email: "jane@example.com", Password: "wrong"})
	require.ErrorIs(t, err, domain.ErrUnauthenticated)

	_, err = env.svc.Login(ctx, domain.LoginRequest{Email: "nobody@example.com", Password: "s3cret"})
	require.ErrorIs(t, err, domain.ErrUnauthenticated)

	// Customer credentials do not open an admin session.
	_, err = env.svc.Login(ctx, domain.LoginRequest{Email: "jane@example.com", Password: "s3cret", UserType: "admin"})
	require.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestRegister_Validation(t *testing.T) {
	env := newTestEnv(t)

	tests := map[string]domain.RegisterRequest{
		"missing name":   {LastName: "Doe", Email: "a@b.c", Password: "x"},
		"invalid email":  {FirstName: "Jane", LastName: "Doe", Email: "not-an-email", Password: "x"},
		"empty password": {FirstName: "Jane", LastName: "Doe", Email: "a@b.c"},
	}
	for name, req := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := env.svc.Register(context.Background(), req)
			require.ErrorIs(t, err, domain.ErrInvalidArgument)
		})
	}
}

func TestEnsureAdmin_IsIdempotentAndAllowsAdminLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.svc.EnsureAdmin(ctx, "admin@example.com", "admin123"))
	require.NoError(t, env.svc.EnsureAdmin(ctx, "ADMIN@example.com", "other"))

	result, err := env.svc.Login(ctx, domain.LoginRequest{Email: "admin@example.com", Password: "admin123", UserType: "admin"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, result.User.Role)

	principal, err := env.svc.tokens.Verify(result.AccessToken)
	require.NoError(t, err)
	assert.True(t, principal.IsAdmin())
}

func TestTokenManager_RejectsTamperedAndExpiredTokens(t *testing.T) {
	manager, err := NewTokenManager("secret-a", time.Hour)
	require.NoError(t, err)
	other, err := NewTokenManager("secret-b", time.Hour)
	require.NoError(t, err)

	principal := domain.Principal{SubjectID: uuid.New(), Role: domain.RoleAdmin}
	token, err := manager.Issue(principal)
	require.NoError(t, err)

	_, err = other.Verify(token)
	require.ErrorIs(t, err, domain.ErrUnauthenticated)

	_, err = manager.Verify(token + "x")
	require.ErrorIs(t, err, domain.ErrUnauthenticated)

	manager.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = manager.Verify(token)
	require.ErrorIs(t, err, domain.ErrUnauthenticated)

	_, err = NewTokenManager("  ", time.Hour)
	require.Error(t, err)
}
