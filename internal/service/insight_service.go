package service

import (
	"context"
	"strings"
	"time"

	"github.com/dafibh/fortuna/coach-backend/internal/domain"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Fallback insight text used when the generator is unavailable or returns
// incomplete data
const (
	DefaultMainInsight      = "Here's an overview of how your money is being used this month."
	DefaultGoalInsight      = "Based on your current savings pattern, we can help you understand if your goals are on track once more data is available."
	DefaultSavingSuggestion = "Pick one category to reduce slightly and move the difference into savings automatically."
	NoDataGoalInsight       = "Once you upload some transactions, I can forecast how your goals are tracking."
)

// DefaultInsightTimeout bounds a single call to the insight generator
const DefaultInsightTimeout = 10 * time.Second

// InsightResult is the outcome of an insight request. Source tells whether
// the text was generated or filled from defaults; Err holds the cause of a
// full fallback.
type InsightResult struct {
	Insights domain.Insights
	Source   domain.InsightSource
	Err      error
}

// IsFallback reports whether the defaults were used because generation failed
func (r InsightResult) IsFallback() bool {
	return r.Source == domain.InsightSourceFallback
}

// FallbackInsights returns the fixed default insights
func FallbackInsights() domain.Insights {
	return domain.Insights{
		MainInsight:      DefaultMainInsight,
		GoalInsight:      DefaultGoalInsight,
		SavingSuggestion: DefaultSavingSuggestion,
		CoachFeed:        []string{},
	}
}

// NoDataInsights returns the insights shown before any transaction exists
func NoDataInsights() domain.Insights {
	return domain.Insights{
		GoalInsight: NoDataGoalInsight,
		CoachFeed:   []string{},
	}
}

// InsightService wraps the insight generator so analytics never depend on it succeeding
type InsightService struct {
	generator domain.InsightGenerator
	timeout   time.Duration
}

// NewInsightService creates a new InsightService. generator may be nil, in
// which case every request falls back to defaults.
func NewInsightService(generator domain.InsightGenerator, timeout time.Duration) *InsightService {
	if timeout <= 0 {
		timeout = DefaultInsightTimeout
	}
	return &InsightService{
		generator: generator,
		timeout:   timeout,
	}
}

// Generate asks the generator for insights. It never fails: an unavailable
// generator or an error yields the fallback defaults, and blank fields in a
// successful response are filled individually.
func (s *InsightService) Generate(ctx context.Context, summary *domain.InsightSummary) InsightResult {
	if s.generator == nil {
		return InsightResult{Insights: FallbackInsights(), Source: domain.InsightSourceFallback, Err: domain.ErrInsightUnavailable}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	insights, err := s.generator.GenerateInsights(ctx, summary)
	if err == nil && insights == nil {
		err = domain.ErrMalformedInsight
	}
	if err != nil {
		log.Warn().Err(err).Msg("Insight generation failed, using fallback insights")
		return InsightResult{Insights: FallbackInsights(), Source: domain.InsightSourceFallback, Err: err}
	}

	return InsightResult{Insights: withDefaults(*insights), Source: domain.InsightSourceGenerated}
}

func withDefaults(in domain.Insights) domain.Insights {
	out := FallbackInsights()
	if v := strings.TrimSpace(in.MainInsight); v != "" {
		out.MainInsight = v
	}
	if v := strings.TrimSpace(in.GoalInsight); v != "" {
		out.GoalInsight = v
	}
	if v := strings.TrimSpace(in.SavingSuggestion); v != "" {
		out.SavingSuggestion = v
	}
	for _, item := range in.CoachFeed {
		if v := strings.TrimSpace(item); v != "" {
			out.CoachFeed = append(out.CoachFeed, v)
		}
	}
	return out
}

// BuildInsightSummary assembles the structured summary handed to the insight generator
func BuildInsightSummary(spending *domain.SpendingSummary, transactionCount int, goals []domain.EnrichedGoal) *domain.InsightSummary {
	categories := make(map[string]decimal.Decimal, len(spending.CategoryTotals))
	for _, c := range spending.CategoryTotals {
		categories[c.Name] = c.Amount
	}

	goalInputs := make([]domain.GoalInsightInput, 0, len(goals))
	for _, g := range goals {
		goalInputs = append(goalInputs, domain.GoalInsightInput{
			Name:             g.Name,
			TargetAmount:     g.TargetAmount,
			MonthsLeft:       g.MonthsLeft,
			RequiredPerMonth: g.RequiredPerMonth,
			Status:           g.Status,
		})
	}

	return &domain.InsightSummary{
		TotalSpending:      spending.CurrentMonthSpending,
		CategoryTotals:     categories,
		SubscriptionsTotal: spending.Subscriptions.TotalMonthly,
		TransactionCount:   transactionCount,
		Goals:              goalInputs,
	}
}
