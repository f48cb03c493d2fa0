package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"budget_system/internal/domain"
	"budget_system/internal/repository/memory"
	"budget_system/internal/utils"

	"github.com/stretchr/testify/require"
)

var errStore = errors.New("store unavailable")

// fixture wires the services over a fresh in-memory store
type fixture struct {
	store  *memory.Store
	auth   *AuthService
	txs    *TransactionService
	admin  *AdminService
	tokens *utils.TokenManager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	_, err := store.Roles().Ensure(context.Background(), domain.DefaultRoles...)
	require.NoError(t, err)

	tokens := utils.NewTokenManager("service-test-secret")
	return &fixture{
		store:  store,
		auth:   NewAuthService(store.Users(), store.Roles(), tokens),
		txs:    NewTransactionService(store.Transactions()),
		admin:  NewAdminService(store.Users(), store.Roles()),
		tokens: tokens,
	}
}

// register creates a user and returns it reloaded from the store
func (f *fixture) register(t *testing.T, username string) *domain.User {
	t.Helper()
	ctx := context.Background()
	u, err := f.auth.Register(ctx, RegisterInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "password-" + username,
	})
	require.NoError(t, err)
	loaded, err := f.store.Users().FindByID(ctx, u.ID)
	require.NoError(t, err)
	return loaded
}

// promote gives u the admin role
func (f *fixture) promote(t *testing.T, u *domain.User) *domain.User {
	t.Helper()
	role := domain.RoleAdmin
	updated, err := f.admin.UpdateUser(context.Background(), u.ID, UpdateUserInput{Role: &role})
	require.NoError(t, err)
	return updated
}

func ptr[T any](v T) *T { return &v }

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
