package handler

import (
	"net/http"

	"github.com/dafibh/fortuna/coach-backend/internal/domain"
	"github.com/dafibh/fortuna/coach-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// DashboardHandler handles dashboard-related HTTP requests
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// MostSpentCategoryResponse represents the top spending category
type MostSpentCategoryResponse struct {
	Name    string `json:"name"`
	Amount  string `json:"amount"`
	Percent int64  `json:"percent"`
}

// CategoryTotalResponse represents spending in one category
type CategoryTotalResponse struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
}

// SubscriptionItemResponse represents one subscription-flagged merchant
type SubscriptionItemResponse struct {
	Merchant      string `json:"merchant"`
	MonthlyAmount string `json:"monthlyAmount"`
}

// SubscriptionsSummaryResponse represents the subscription totals
type SubscriptionsSummaryResponse struct {
	Items        []SubscriptionItemResponse `json:"items"`
	TotalMonthly string                     `json:"totalMonthly"`
	TotalYearly  string                     `json:"totalYearly"`
}

// DashboardSummaryResponse represents the dashboard summary API response
type DashboardSummaryResponse struct {
	TotalSpending           string                       `json:"totalSpending"`
	ProjectedSavings        string                       `json:"projectedSavings"`
	ActiveGoals             int                          `json:"activeGoals"`
	MostSpentCategory       *MostSpentCategoryResponse   `json:"mostSpentCategory"`
	CategoryTotals          []CategoryTotalResponse      `json:"categoryTotals"`
	SubscriptionsSummary    SubscriptionsSummaryResponse `json:"subscriptionsSummary"`
	MainInsight             string                       `json:"mainInsight"`
	GoalInsight             string                       `json:"goalInsight"`
	SavingSuggestion        string                       `json:"savingSuggestion"`
	CoachFeed               []string                     `json:"coachFeed"`
	CurrentMonthSpending    string                       `json:"currentMonthSpending"`
	LastMonthSpending       string                       `json:"lastMonthSpending"`
	MonthOverMonthChangePct *string                      `json:"monthOverMonthChangePct"`
	CurrentMonthLabel       *string                      `json:"currentMonthLabel"`
	EnrichedGoals           []EnrichedGoalResponse       `json:"enrichedGoals"`
	InsightSource           string                       `json:"insightSource"`
}

// GetSummary handles GET /api/v1/dashboard/summary
func (h *DashboardHandler) GetSummary(c echo.Context) error {
	summary, err := h.dashboardService.GetSummary(c.Request().Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to get dashboard summary")
		return NewInternalError(c, "Failed to get dashboard summary")
	}

	return c.JSON(http.StatusOK, toDashboardSummaryResponse(summary))
}

func toDashboardSummaryResponse(summary *domain.DashboardSummary) DashboardSummaryResponse {
	spending := summary.Spending

	var mostSpent *MostSpentCategoryResponse
	if spending.MostSpentCategory != nil {
		mostSpent = &MostSpentCategoryResponse{
			Name:    spending.MostSpentCategory.Name,
			Amount:  formatMoney(spending.MostSpentCategory.Amount),
			Percent: spending.MostSpentCategory.Percent,
		}
	}

	// The change percentage is a ratio, not money, so it keeps full precision
	var mom *string
	if spending.MonthOverMonthChangePct != nil {
		v := spending.MonthOverMonthChangePct.String()
		mom = &v
	}

	categories := make([]CategoryTotalResponse, len(spending.CategoryTotals))
	for i, ct := range spending.CategoryTotals {
		categories[i] = CategoryTotalResponse{Name: ct.Name, Amount: formatMoney(ct.Amount)}
	}

	subscriptions := make([]SubscriptionItemResponse, len(spending.Subscriptions.Items))
	for i, item := range spending.Subscriptions.Items {
		subscriptions[i] = SubscriptionItemResponse{Merchant: item.Merchant, MonthlyAmount: formatMoney(item.MonthlyAmount)}
	}

	coachFeed := summary.Insights.CoachFeed
	if coachFeed == nil {
		coachFeed = []string{}
	}

	return DashboardSummaryResponse{
		TotalSpending:     formatMoney(summary.TotalSpending),
		ProjectedSavings:  formatMoney(summary.ProjectedSavings),
		ActiveGoals:       summary.ActiveGoals,
		MostSpentCategory: mostSpent,
		CategoryTotals:    categories,
		SubscriptionsSummary: SubscriptionsSummaryResponse{
			Items:        subscriptions,
			TotalMonthly: formatMoney(spending.Subscriptions.TotalMonthly),
			TotalYearly:  formatMoney(spending.Subscriptions.TotalYearly),
		},
		MainInsight:             summary.Insights.MainInsight,
		GoalInsight:             summary.Insights.GoalInsight,
		SavingSuggestion:        summary.Insights.SavingSuggestion,
		CoachFeed:               coachFeed,
		CurrentMonthSpending:    formatMoney(spending.CurrentMonthSpending),
		LastMonthSpending:       formatMoney(spending.LastMonthSpending),
		MonthOverMonthChangePct: mom,
		CurrentMonthLabel:       spending.CurrentMonthLabel(),
		EnrichedGoals:           toEnrichedGoalResponses(summary.EnrichedGoals),
		InsightSource:           string(summary.InsightSource),
	}
}
