package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dafibh/fortuna/coach-backend/internal/domain"
	"github.com/dafibh/fortuna/coach-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTx(d time.Time, description, merchant, amount, category string) *domain.Transaction {
	t := &domain.Transaction{
		ID:          uuid.New(),
		Date:        d,
		Description: description,
		Amount:      decimal.RequireFromString(amount),
		Category:    category,
	}
	if merchant != "" {
		t.Merchant = &merchant
	}
	return t
}

func newDashboardService(txRepo *testutil.MockTransactionRepository, goalRepo *testutil.MockGoalRepository, gen domain.InsightGenerator, today time.Time) *DashboardService {
	svc := NewDashboardService(txRepo, goalRepo, NewInsightService(gen, time.Second))
	svc.now = func() time.Time { return today }
	return svc
}

func TestDashboardService_GetSummary(t *testing.T) {
	txRepo := testutil.NewMockTransactionRepository()
	goalRepo := testutil.NewMockGoalRepository()

	for m := time.January; m <= time.March; m++ {
		txRepo.AddTransaction(newTx(time.Date(2024, m, 1, 0, 0, 0, 0, time.UTC), "Salary", "Employer", "2000", "Income"))
		txRepo.AddTransaction(newTx(time.Date(2024, m, 5, 0, 0, 0, 0, time.UTC), "Rent", "Landlord", "-1500", "Bills"))
	}
	txRepo.AddTransaction(newTx(time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC), "Groceries", "Market", "-100", "Groceries"))

	goalRepo.AddGoal(&domain.Goal{
		ID:           uuid.New(),
		Name:         "Emergency fund",
		TargetAmount: decimal.NewFromInt(2000),
		Deadline:     time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC),
		CreatedAt:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})

	generator := &testutil.MockInsightGenerator{Insights: &domain.Insights{
		MainInsight:      "Rent dominates your spending.",
		GoalInsight:      "You are on track.",
		SavingSuggestion: "Review groceries.",
		CoachFeed:        []string{"Keep going"},
	}}
	// Today is in June, three months after the latest transaction
	svc := newDashboardService(txRepo, goalRepo, generator, time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC))

	summary, err := svc.GetSummary(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "1600.00", summary.TotalSpending.StringFixed(2))
	assert.Equal(t, "1600.00", summary.Spending.CurrentMonthSpending.StringFixed(2))
	assert.Equal(t, "1500.00", summary.Spending.LastMonthSpending.StringFixed(2))
	require.NotNil(t, summary.Spending.CurrentMonthLabel())
	assert.Equal(t, "March 2024", *summary.Spending.CurrentMonthLabel())

	// (500 + 500 + 400) / 3
	assert.Equal(t, "466.67", summary.ProjectedSavings.StringFixed(2))
	assert.Equal(t, 1, summary.ActiveGoals)

	require.Len(t, summary.EnrichedGoals, 1)
	g := summary.EnrichedGoals[0]
	assert.Equal(t, 6, g.MonthsLeft)
	assert.Equal(t, domain.GoalStatusOnTrack, g.Status)
	assert.Equal(t, "2000.00", g.AmountSavedSoFar.StringFixed(2))
	assert.Equal(t, 100, g.ProgressPct)

	assert.Equal(t, domain.InsightSourceGenerated, summary.InsightSource)
	assert.Equal(t, "Rent dominates your spending.", summary.Insights.MainInsight)
	require.NotNil(t, generator.LastSummary)
	assert.Equal(t, 7, generator.LastSummary.TransactionCount)
	require.Len(t, generator.LastSummary.Goals, 1)
	assert.Equal(t, "Emergency fund", generator.LastSummary.Goals[0].Name)
}

func TestDashboardService_GetSummary_InsightFailureDoesNotFailSummary(t *testing.T) {
	txRepo := testutil.NewMockTransactionRepository()
	txRepo.AddTransaction(newTx(time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC), "Groceries", "Market", "-100", "Groceries"))
	generator := &testutil.MockInsightGenerator{Err: errors.New("upstream 503")}
	svc := newDashboardService(txRepo, testutil.NewMockGoalRepository(), generator, time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC))

	summary, err := svc.GetSummary(context.Background())

	require.NoError(t, err)
	assert.Equal(t, domain.InsightSourceFallback, summary.InsightSource)
	assert.Equal(t, FallbackInsights(), summary.Insights)
	assert.Equal(t, "100.00", summary.TotalSpending.StringFixed(2))
	require.NotNil(t, summary.Spending.MostSpentCategory)
	assert.Equal(t, "Groceries", summary.Spending.MostSpentCategory.Name)
	assert.Equal(t, int64(100), summary.Spending.MostSpentCategory.Percent)
}

func TestDashboardService_GetSummary_NoTransactions(t *testing.T) {
	goalRepo := testutil.NewMockGoalRepository()
	goalRepo.AddGoal(&domain.Goal{
		ID:           uuid.New(),
		Name:         "Laptop",
		TargetAmount: decimal.NewFromInt(1200),
		Deadline:     time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC),
		CreatedAt:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	generator := &testutil.MockInsightGenerator{}
	svc := newDashboardService(testutil.NewMockTransactionRepository(), goalRepo, generator, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC))

	summary, err := svc.GetSummary(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, generator.Calls, "insights are not requested without transactions")
	assert.Equal(t, domain.InsightSourceNone, summary.InsightSource)
	assert.Equal(t, NoDataGoalInsight, summary.Insights.GoalInsight)
	assert.Empty(t, summary.Insights.MainInsight)
	assert.True(t, summary.TotalSpending.IsZero())
	assert.Nil(t, summary.Spending.MonthOverMonthChangePct)
	assert.Nil(t, summary.Spending.CurrentMonthLabel())

	require.Len(t, summary.EnrichedGoals, 1)
	assert.Equal(t, 6, summary.EnrichedGoals[0].MonthsLeft)
	assert.Equal(t, "200.00", summary.EnrichedGoals[0].RequiredPerMonth.StringFixed(2))
	assert.Equal(t, domain.GoalStatusUnknown, summary.EnrichedGoals[0].Status)
}

func TestDashboardService_GetSummary_RepositoryError(t *testing.T) {
	txRepo := testutil.NewMockTransactionRepository()
	txRepo.GetAllFn = func() ([]*domain.Transaction, error) { return nil, errors.New("connection refused") }
	svc := newDashboardService(txRepo, testutil.NewMockGoalRepository(), nil, time.Now())

	_, err := svc.GetSummary(context.Background())

	assert.Error(t, err)
}

func TestDashboardService_GetSummary_GoalRepositoryError(t *testing.T) {
	repoErr := errors.New("goals table missing")
	txRepo := testutil.NewMockTransactionRepository()
	txRepo.AddTransaction(newTx(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), "Salary", "", "3000", "Income"))
	goalRepo := testutil.NewMockGoalRepository()
	goalRepo.GetAllFn = func() ([]*domain.Goal, error) { return nil, repoErr }
	gen := &testutil.MockInsightGenerator{}
	svc := newDashboardService(txRepo, goalRepo, gen, time.Now())

	summary, err := svc.GetSummary(context.Background())

	assert.ErrorIs(t, err, repoErr)
	assert.Nil(t, summary)
	assert.Zero(t, gen.Calls)
}
