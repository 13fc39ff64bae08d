package loans

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCalculateFine(t *testing.T) {
	due := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("returns zero when on time", func(t *testing.T) {
		returned := due.Add(-2 * time.Hour)
		assert.Equal(t, 0.0, CalculateFine(due, returned, 0.5))
	})

	t.Run("returns zero at the exact due moment", func(t *testing.T) {
		assert.Equal(t, 0.0, CalculateFine(due, due, 0.5))
	})

	t.Run("rounds a partial day up", func(t *testing.T) {
		returned := due.Add(1 * time.Hour)
		assert.Equal(t, 0.5, CalculateFine(due, returned, 0.5))
	})

	t.Run("charges per full day late", func(t *testing.T) {
		returned := due.AddDate(0, 0, 4)
		assert.Equal(t, 2.0, CalculateFine(due, returned, 0.5))
	})

	t.Run("four days and an hour counts as five", func(t *testing.T) {
		returned := due.AddDate(0, 0, 4).Add(time.Hour)
		assert.Equal(t, 2.5, CalculateFine(due, returned, 0.5))
	})

	t.Run("respects the configured rate", func(t *testing.T) {
		returned := due.AddDate(0, 0, 3)
		assert.Equal(t, 6.0, CalculateFine(due, returned, 2.0))
	})
}

func TestLoanPeriodDays(t *testing.T) {
	tests := []struct {
		borrowCount int64
		want        int
	}{
		{0, 14},
		{2, 14},
		{3, 10},
		{5, 10},
		{6, 7},
		{100, 7},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LoanPeriodDays(tt.borrowCount),
			"borrowCount=%d", tt.borrowCount)
	}
}
