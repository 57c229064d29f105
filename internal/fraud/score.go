// Package fraud computes the heuristic risk score attached to a return request at
// submission time. The score is a pure function of the signals gathered from stored
// history, so it is reproducible and trivially testable.
package fraud

import "time"

const (
	MaxScore = 100.0

	frequentReturnerScore   = 30.0
	repeatReturnerScore     = 15.0
	sameDayOrderScore       = 20.0
	recentOrderScore        = 10.0
	duplicateOrderReturnAdd = 25.0
)

// Signals is the history snapshot the score is computed from. Counts exclude the
// return request being scored.
type Signals struct {
	CustomerReturnCount int
	OrderFound          bool
	OrderAgeDays        int
	OrderReturnCount    int
}

// Score returns a value in [0, MaxScore].
func Score(s Signals) float64 {
	score := 0.0

	switch {
	case s.CustomerReturnCount > 5:
		score += frequentReturnerScore
	case s.CustomerReturnCount > 3:
		score += repeatReturnerScore
	}

	// An unknown order contributes nothing rather than failing the submission.
	if s.OrderFound {
		switch {
		case s.OrderAgeDays < 1:
			score += sameDayOrderScore
		case s.OrderAgeDays < 3:
			score += recentOrderScore
		}
	}

	if s.OrderReturnCount > 0 {
		score += duplicateOrderReturnAdd
	}

	if score > MaxScore {
		return MaxScore
	}
	return score
}

// AgeInDays is the number of whole calendar days between orderDate and now. Both are
// truncated to UTC midnight, matching the UTC order dates assigned at creation, so the
// result does not depend on the server's local zone.
func AgeInDays(orderDate, now time.Time) int {
	from := truncateToDay(orderDate)
	to := truncateToDay(now)
	return int(to.Sub(from).Hours() / 24)
}

func truncateToDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
