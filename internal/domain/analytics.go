package domain

import "github.com/shopspring/decimal"

// HighFraudThreshold is the score above which a return counts as high fraud risk.
const HighFraudThreshold = 50.0

// ReturnAnalytics aggregates return requests and refunds for the admin dashboard.
type ReturnAnalytics struct {
	TotalReturns      int
	PendingReturns    int
	ApprovedReturns   int
	RejectedReturns   int
	TotalRefundAmount decimal.Decimal
	HighFraudReturns  int
}

// CustomerAnalytics aggregates customer activity.
type CustomerAnalytics struct {
	TotalCustomers       int
	CustomersWithReturns int
}
