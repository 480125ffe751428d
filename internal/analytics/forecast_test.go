package analytics

import (
	"testing"
	"time"

	"github.com/dafibh/fortuna/coach-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// steadySavings produces months of 1000 income and 800 expenses (net 200)
func steadySavings(months ...time.Month) []*domain.Transaction {
	var txs []*domain.Transaction
	for _, m := range months {
		txs = append(txs,
			tx(date(2024, m, 1), "Salary", "Employer", "1000", "Income"),
			tx(date(2024, m, 10), "Rent", "Landlord", "-800", "Bills"),
		)
	}
	return txs
}

func goal(name, target string, deadline, createdAt time.Time) *domain.Goal {
	return &domain.Goal{
		ID:           uuid.New(),
		Name:         name,
		TargetAmount: decimal.RequireFromString(target),
		Deadline:     deadline,
		CreatedAt:    createdAt,
	}
}

func TestAverageMonthlySavings(t *testing.T) {
	tests := []struct {
		name string
		txs  []*domain.Transaction
		want string
	}{
		{
			name: "averages the three most recent months",
			txs: append(steadySavings(2, 3, 4),
				// Oldest month is outside the window
				tx(date(2024, 1, 1), "Bonus", "Employer", "9000", "Income"),
			),
			want: "200.00",
		},
		{
			name: "fewer than three months averages what exists",
			txs: []*domain.Transaction{
				tx(date(2024, 1, 1), "Salary", "Employer", "1000", "Income"),
				tx(date(2024, 2, 1), "Rent", "Landlord", "-400", "Bills"),
			},
			want: "300.00",
		},
		{
			name: "no buckets falls back to totals",
			txs: []*domain.Transaction{
				tx(date(2024, 1, 1), "Nothing", "", "0", ""),
			},
			want: "0.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AverageMonthlySavings(tt.txs).StringFixed(2))
		})
	}
}

func TestMonthsLeft(t *testing.T) {
	today := date(2024, 6, 15)

	assert.Equal(t, 6, MonthsLeft(date(2024, 12, 1), today))
	assert.Equal(t, 1, MonthsLeft(date(2024, 6, 30), today), "deadline in the current month floors at 1")
	assert.Equal(t, 1, MonthsLeft(date(2023, 1, 1), today), "past deadline floors at 1")
	assert.Equal(t, 13, MonthsLeft(date(2025, 7, 1), today))
}

func TestForecastGoals_Status(t *testing.T) {
	txs := steadySavings(2, 3, 4)
	today := date(2024, 4, 15)
	deadline := date(2025, 2, 1) // 10 months away

	tests := []struct {
		name       string
		target     string
		wantReq    string
		wantStatus domain.GoalStatus
	}{
		{"saving more than required is on track", "1500", "150.00", domain.GoalStatusOnTrack},
		{"saving exactly the required amount is on track", "2000", "200.00", domain.GoalStatusOnTrack},
		{"saving less than required is behind", "2500", "250.00", domain.GoalStatusBehind},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ForecastGoals([]*domain.Goal{goal("Trip", tt.target, deadline, today)}, txs, today)

			require.Len(t, got, 1)
			assert.Equal(t, 10, got[0].MonthsLeft)
			assert.Equal(t, tt.wantReq, got[0].RequiredPerMonth.StringFixed(2))
			assert.Equal(t, "200.00", got[0].AvgMonthlySavings.StringFixed(2))
			assert.Equal(t, tt.wantStatus, got[0].Status)
		})
	}
}

func TestForecastGoals_Progress(t *testing.T) {
	txs := steadySavings(2, 3, 4)
	today := date(2024, 4, 15)

	goals := []*domain.Goal{
		goal("Laptop", "1500", date(2024, 12, 1), date(2024, 1, 10)),
		goal("Phone", "500", date(2024, 12, 1), date(2023, 10, 1)),
		goal("Future", "1000", date(2024, 12, 1), date(2024, 6, 1)),
	}

	got := ForecastGoals(goals, txs, today)

	require.Len(t, got, 3)

	// 3 months since creation * 200
	assert.Equal(t, "600.00", got[0].AmountSavedSoFar.StringFixed(2))
	assert.Equal(t, 40, got[0].ProgressPct)

	// 6 months * 200 = 1200, clamped to the target
	assert.Equal(t, "500.00", got[1].AmountSavedSoFar.StringFixed(2))
	assert.Equal(t, 100, got[1].ProgressPct)

	// Created after today
	assert.True(t, got[2].AmountSavedSoFar.IsZero())
	assert.Equal(t, 0, got[2].ProgressPct)

	assert.Equal(t, "Laptop", got[0].Name)
}

func TestForecastGoals_NegativeSavings(t *testing.T) {
	txs := []*domain.Transaction{
		tx(date(2024, 3, 1), "Salary", "Employer", "500", "Income"),
		tx(date(2024, 3, 2), "Rent", "Landlord", "-900", "Bills"),
	}
	today := date(2024, 4, 1)

	got := ForecastGoals([]*domain.Goal{goal("Car", "1000", date(2025, 4, 1), date(2024, 1, 1))}, txs, today)

	require.Len(t, got, 1)
	assert.Equal(t, "-400.00", got[0].AvgMonthlySavings.StringFixed(2))
	assert.True(t, got[0].AmountSavedSoFar.IsZero())
	assert.Equal(t, 0, got[0].ProgressPct)
	assert.Equal(t, domain.GoalStatusBehind, got[0].Status)
}

func TestForecastGoals_NoHistory(t *testing.T) {
	today := date(2024, 4, 15)

	got := ForecastGoals([]*domain.Goal{goal("House", "12000", date(2025, 4, 1), date(2024, 1, 1))}, nil, today)

	require.Len(t, got, 1)
	assert.Equal(t, 12, got[0].MonthsLeft)
	assert.Equal(t, "1000.00", got[0].RequiredPerMonth.StringFixed(2))
	assert.True(t, got[0].AvgMonthlySavings.IsZero())
	assert.True(t, got[0].AmountSavedSoFar.IsZero())
	assert.Equal(t, 0, got[0].ProgressPct)
	assert.Equal(t, domain.GoalStatusUnknown, got[0].Status)
}

func TestForecastGoals_EmptyGoals(t *testing.T) {
	got := ForecastGoals(nil, steadySavings(1), date(2024, 4, 15))

	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestForecastGoals_DoesNotMutateInput(t *testing.T) {
	txs := steadySavings(2, 3, 4)
	g := goal("Trip", "1500", date(2025, 2, 1), date(2024, 1, 1))
	before := *g

	first := ForecastGoals([]*domain.Goal{g}, txs, date(2024, 4, 15))
	second := ForecastGoals([]*domain.Goal{g}, txs, date(2024, 4, 15))

	assert.Equal(t, before, *g)
	assert.Equal(t, first, second)
}
