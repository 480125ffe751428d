package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// GoalInsightInput is the per-goal slice of the forecast handed to the insight generator
type GoalInsightInput struct {
	Name             string          `json:"name"`
	TargetAmount     decimal.Decimal `json:"targetAmount"`
	MonthsLeft       int             `json:"monthsLeft"`
	RequiredPerMonth decimal.Decimal `json:"requiredPerMonth"`
	Status           GoalStatus      `json:"status"`
}

// InsightSummary is the structured input for insight generation
type InsightSummary struct {
	TotalSpending      decimal.Decimal            `json:"totalSpending"`
	CategoryTotals     map[string]decimal.Decimal `json:"categoryTotals"`
	SubscriptionsTotal decimal.Decimal            `json:"subscriptionsTotal"`
	TransactionCount   int                        `json:"transactionCount"`
	Goals              []GoalInsightInput         `json:"goals"`
}

// Insights is the free-text coaching output shown next to the analytics
type Insights struct {
	MainInsight      string   `json:"mainInsight"`
	GoalInsight      string   `json:"goalInsight"`
	SavingSuggestion string   `json:"savingSuggestion"`
	CoachFeed        []string `json:"coachFeed"`
}

// InsightGenerator produces coaching text from a summary
type InsightGenerator interface {
	GenerateInsights(ctx context.Context, summary *InsightSummary) (*Insights, error)
}

// UncategorizedItem is a transaction sent out for categorization
type UncategorizedItem struct {
	Index       int             `json:"index"`
	Description string          `json:"description"`
	Merchant    string          `json:"merchant"`
	Amount      decimal.Decimal `json:"amount"`
}

// Categorizer assigns categories to uncategorized transactions
type Categorizer interface {
	Categorize(ctx context.Context, items []UncategorizedItem) ([]CategoryAssignment, error)
}
