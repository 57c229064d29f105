package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/transfa/returns-service/internal/domain"
)

func TestAnalytics(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedAdmin(t)
	jane := env.seedCustomer(t, "Jane", "Doe")
	env.seedCustomer(t, "John", "Roe")

	// Six old returns, then a same-day one scoring 50 and a second same-day one scoring 50.
	var ids []domain.SubmitReturnResult
	for i := 0; i < 6; i++ {
		ids = append(ids, *env.submit(t, jane, env.seedOrder(t, jane, "10.00", testNow.AddDate(0, -2, 0))))
	}
	highRisk := env.submit(t, jane, env.seedOrder(t, jane, "10.00", testNow))
	require.Equal(t, 50.0, highRisk.FraudScore)

	_, err := env.svc.ApproveReturnRequest(ctx, admin, ids[0].ReturnRequestID, "")
	require.NoError(t, err)
	_, err = env.svc.ApproveReturnRequest(ctx, admin, ids[1].ReturnRequestID, "")
	require.NoError(t, err)
	require.NoError(t, env.svc.RejectReturnRequest(ctx, admin, ids[2].ReturnRequestID, ""))

	returns, err := env.svc.GetReturnAnalytics(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, 7, returns.TotalReturns)
	assert.Equal(t, 4, returns.PendingReturns)
	assert.Equal(t, 2, returns.ApprovedReturns)
	assert.Equal(t, 1, returns.RejectedReturns)
	assert.Equal(t, "20.00", returns.TotalRefundAmount.StringFixed(2))
	// Strictly greater than 50 counts as high fraud.
	assert.Equal(t, 0, returns.HighFraudReturns)

	customers, err := env.svc.GetCustomerAnalytics(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, 2, customers.TotalCustomers)
	assert.Equal(t, 1, customers.CustomersWithReturns)

	_, err = env.svc.GetReturnAnalytics(ctx, jane)
	require.ErrorIs(t, err, domain.ErrForbidden)
	_, err = env.svc.GetCustomerAnalytics(ctx, jane)
	require.ErrorIs(t, err, domain.ErrForbidden)
}
