package loans

import (
	"math"
	"time"
)

// CalculateFine computes the overdue penalty for a loan returned at
// returnDate. Partial days count as full days; the result is rounded
// to two decimal places. Returns 0 for on-time returns.
func CalculateFine(dueDate, returnDate time.Time, ratePerDay float64) float64 {
	if !returnDate.After(dueDate) {
		return 0
	}
	daysLate := math.Ceil(returnDate.Sub(dueDate).Hours() / 24)
	return roundToCents(daysLate * ratePerDay)
}

func roundToCents(v float64) float64 {
	return math.Round(v*100) / 100
}
