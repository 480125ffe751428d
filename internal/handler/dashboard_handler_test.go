package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/dafibh/fortuna/coach-backend/internal/domain"
	"github.com/dafibh/fortuna/coach-backend/internal/service"
	"github.com/dafibh/fortuna/coach-backend/internal/testutil"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

func newDashboardHandler(txRepo *testutil.MockTransactionRepository, goalRepo *testutil.MockGoalRepository, gen domain.InsightGenerator) *DashboardHandler {
	insightService := service.NewInsightService(gen, time.Second)
	return NewDashboardHandler(service.NewDashboardService(txRepo, goalRepo, insightService))
}

func TestGetSummary_Success(t *testing.T) {
	e := echo.New()
	txRepo := testutil.NewMockTransactionRepository()
	txRepo.AddTransaction(testTransaction("2024-02-03", "Rent", "Landlord", "-1000", "Bills"))
	txRepo.AddTransaction(testTransaction("2024-03-01", "Salary", "Employer", "3000", "Income"))
	txRepo.AddTransaction(testTransaction("2024-03-03", "Rent", "Landlord", "-1000", "Bills"))
	txRepo.AddTransaction(testTransaction("2024-03-10", "Groceries", "Market", "-250.50", "Groceries"))
	spotify := testTransaction("2024-03-12", "Spotify", "Spotify", "-9.99", "Subscriptions")
	spotify.IsSubscription = true
	txRepo.AddTransaction(spotify)

	goalRepo := testutil.NewMockGoalRepository()
	goalRepo.AddGoal(&domain.Goal{
		Name:         "Vacation",
		TargetAmount: decimal.NewFromInt(1200),
		Deadline:     time.Now().UTC().AddDate(1, 0, 0),
		CreatedAt:    time.Now(),
	})

	generator := &testutil.MockInsightGenerator{Insights: &domain.Insights{
		MainInsight:      "Rent is your largest expense.",
		GoalInsight:      "Vacation is on track.",
		SavingSuggestion: "Cut groceries by 10%.",
		CoachFeed:        []string{"Nice work"},
	}}
	handler := newDashboardHandler(txRepo, goalRepo, generator)

	c, rec := newJSONContext(e, http.MethodGet, "/api/v1/dashboard/summary", "")

	if err := handler.GetSummary(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var response DashboardSummaryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if response.TotalSpending != "1260.49" {
		t.Errorf("Expected total spending '1260.49', got %s", response.TotalSpending)
	}
	if response.LastMonthSpending != "1000.00" {
		t.Errorf("Expected last month spending '1000.00', got %s", response.LastMonthSpending)
	}
	if response.MonthOverMonthChangePct == nil || *response.MonthOverMonthChangePct != "26.049" {
		t.Errorf("Expected unrounded month over month change '26.049', got %v", response.MonthOverMonthChangePct)
	}
	if response.CurrentMonthLabel == nil || *response.CurrentMonthLabel != "March 2024" {
		t.Errorf("Expected current month label 'March 2024', got %v", response.CurrentMonthLabel)
	}
	if response.MostSpentCategory == nil || response.MostSpentCategory.Name != "Bills" {
		t.Fatalf("Expected most spent category Bills, got %+v", response.MostSpentCategory)
	}
	if response.SubscriptionsSummary.TotalMonthly != "9.99" || response.SubscriptionsSummary.TotalYearly != "119.88" {
		t.Errorf("Unexpected subscriptions summary %+v", response.SubscriptionsSummary)
	}
	if response.ActiveGoals != 1 || len(response.EnrichedGoals) != 1 {
		t.Fatalf("Expected 1 enriched goal, got %d", len(response.EnrichedGoals))
	}
	if response.EnrichedGoals[0].MonthsLeft != 12 {
		t.Errorf("Expected 12 months left, got %d", response.EnrichedGoals[0].MonthsLeft)
	}
	if response.InsightSource != "generated" {
		t.Errorf("Expected insight source 'generated', got %s", response.InsightSource)
	}
	if response.MainInsight != "Rent is your largest expense." {
		t.Errorf("Unexpected main insight %q", response.MainInsight)
	}
}

func TestGetSummary_NoTransactions(t *testing.T) {
	e := echo.New()
	handler := newDashboardHandler(testutil.NewMockTransactionRepository(), testutil.NewMockGoalRepository(), nil)

	c, rec := newJSONContext(e, http.MethodGet, "/api/v1/dashboard/summary", "")

	if err := handler.GetSummary(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	body := rec.Body.String()
	for _, want := range []string{
		`"monthOverMonthChangePct":null`,
		`"currentMonthLabel":null`,
		`"mostSpentCategory":null`,
		`"coachFeed":[]`,
		`"enrichedGoals":[]`,
		`"insightSource":"none"`,
		`"totalSpending":"0.00"`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("Expected response to contain %s, got %s", want, body)
		}
	}

	var response DashboardSummaryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.GoalInsight != service.NoDataGoalInsight {
		t.Errorf("Expected no-data goal insight, got %q", response.GoalInsight)
	}
}

func TestGetSummary_InsightFallback(t *testing.T) {
	e := echo.New()
	txRepo := testutil.NewMockTransactionRepository()
	txRepo.AddTransaction(testTransaction("2024-03-10", "Groceries", "Market", "-50", "Groceries"))
	handler := newDashboardHandler(txRepo, testutil.NewMockGoalRepository(), nil)

	c, rec := newJSONContext(e, http.MethodGet, "/api/v1/dashboard/summary", "")

	if err := handler.GetSummary(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var response DashboardSummaryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.InsightSource != "fallback" {
		t.Errorf("Expected insight source 'fallback', got %s", response.InsightSource)
	}
	if response.MainInsight != service.DefaultMainInsight {
		t.Errorf("Expected default main insight, got %q", response.MainInsight)
	}
}

func TestGetSummary_RepositoryError(t *testing.T) {
	e := echo.New()
	txRepo := testutil.NewMockTransactionRepository()
	txRepo.GetAllFn = func() ([]*domain.Transaction, error) { return nil, errors.New("db down") }
	handler := newDashboardHandler(txRepo, testutil.NewMockGoalRepository(), nil)

	c, rec := newJSONContext(e, http.MethodGet, "/api/v1/dashboard/summary", "")

	if err := handler.GetSummary(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", rec.Code)
	}
}
