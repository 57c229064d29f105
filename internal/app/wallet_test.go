package app

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/transfa/returns-service/internal/domain"
)

func TestTopUpWallet(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	customer := env.seedCustomer(t, "Jane", "Doe")

	balance, err := env.svc.TopUpWallet(ctx, customer, decimal.RequireFromString("25.5"))
	require.NoError(t, err)
	assert.Equal(t, "25.50", balance.StringFixed(2))

	balance, err = env.svc.TopUpWallet(ctx, customer, decimal.RequireFromString("4.50"))
	require.NoError(t, err)
	assert.Equal(t, "30.00", balance.StringFixed(2))

	notes, err := env.svc.ListNotifications(ctx, customer)
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "Your wallet has been topped up with $4.50. New balance: $30.00.", notes[0].Message)
	assert.Equal(t, domain.NotificationWalletTopUp, notes[0].Type)

	wallet, err := env.svc.GetWallet(ctx, customer)
	require.NoError(t, err)
	assert.Equal(t, customer.SubjectID, wallet.CustomerID)
	assert.Equal(t, "30.00", wallet.Balance.StringFixed(2))
}

func TestTopUpWallet_RejectsInvalidAmounts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	customer := env.seedCustomer(t, "Jane", "Doe")

	for _, raw := range []string{"0", "-10", "0.001", "1.999"} {
		t.Run(raw, func(t *testing.T) {
			_, err := env.svc.TopUpWallet(ctx, customer, decimal.RequireFromString(raw))
			require.ErrorIs(t, err, domain.ErrInvalidArgument)
		})
	}

	wallet, err := env.svc.GetWallet(ctx, customer)
	require.NoError(t, err)
	assert.True(t, wallet.Balance.IsZero())

	notes, err := env.svc.ListNotifications(ctx, customer)
	require.NoError(t, err)
	assert.Empty(t, notes)
	assert.Empty(t, env.publisher.routingKeys())
}

func TestTopUpWallet_AdminForbidden(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedAdmin(t)

	_, err := env.svc.TopUpWallet(context.Background(), admin, decimal.RequireFromString("10"))
	require.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCreditWallet_BalanceEqualsSumOfCredits(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	customer := env.seedCustomer(t, "Jane", "Doe")

	total := decimal.Zero
	for _, raw := range []string{"0.10", "0.20", "19.99", "80"} {
		amount := decimal.RequireFromString(raw)
		total = total.Add(amount)
		balance, err := env.svc.CreditWallet(ctx, customer.SubjectID, amount)
		require.NoError(t, err)
		assert.True(t, balance.Equal(total), "balance %s, want %s", balance, total)
	}

	discrepancies, err := env.repo.ListWalletDiscrepancies(ctx)
	require.NoError(t, err)
	assert.Empty(t, discrepancies)
}

func TestGetOrCreateWallet_IsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	customer := env.seedCustomer(t, "Jane", "Doe")

	first, err := env.svc.GetOrCreateWallet(ctx, customer.SubjectID)
	require.NoError(t, err)
	second, err := env.svc.GetOrCreateWallet(ctx, customer.SubjectID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.Balance.IsZero())
}
