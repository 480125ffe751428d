package analytics

import (
	"time"

	"github.com/dafibh/fortuna/coach-backend/internal/domain"
	"github.com/dafibh/fortuna/coach-backend/internal/util"
	"github.com/shopspring/decimal"
)

// SavingsWindowMonths is the trailing window used to average net savings
const SavingsWindowMonths = 3

// AverageMonthlySavings returns the mean net savings over the most recent
// SavingsWindowMonths buckets. With no buckets it falls back to total income
// minus total expenses over the whole history.
func AverageMonthlySavings(transactions []*domain.Transaction) decimal.Decimal {
	buckets := BucketByMonth(transactions)
	recent := buckets.Recent(SavingsWindowMonths)
	if len(recent) == 0 {
		net := decimal.Zero
		for _, t := range transactions {
			if t != nil {
				net = net.Add(t.Amount)
			}
		}
		return net
	}

	sum := decimal.Zero
	for _, b := range recent {
		sum = sum.Add(b.Net())
	}
	return sum.Div(decimal.NewFromInt(int64(len(recent))))
}

// MonthsLeft is the whole months from today until the deadline, never below 1.
// Goals already past their deadline also report 1.
func MonthsLeft(deadline, today time.Time) int {
	months := util.MonthsBetween(today, deadline)
	if months < 1 {
		return 1
	}
	return months
}

// ForecastGoals projects each goal's trajectory relative to today using the
// trailing-average savings rate. The projection is shared by all goals, so
// goals draw on the same savings pool.
func ForecastGoals(goals []*domain.Goal, transactions []*domain.Transaction, today time.Time) []domain.EnrichedGoal {
	enriched := make([]domain.EnrichedGoal, 0, len(goals))
	if len(goals) == 0 {
		return enriched
	}

	hasHistory := len(transactions) > 0
	avg := decimal.Zero
	if hasHistory {
		avg = AverageMonthlySavings(transactions)
	}

	for _, g := range goals {
		if g == nil {
			continue
		}
		enriched = append(enriched, forecastGoal(g, avg, hasHistory, today))
	}
	return enriched
}

func forecastGoal(g *domain.Goal, avg decimal.Decimal, hasHistory bool, today time.Time) domain.EnrichedGoal {
	monthsLeft := MonthsLeft(g.Deadline, today)
	eg := domain.EnrichedGoal{
		Goal:              *g,
		MonthsLeft:        monthsLeft,
		RequiredPerMonth:  g.TargetAmount.Div(decimal.NewFromInt(int64(monthsLeft))),
		AvgMonthlySavings: decimal.Zero,
		AmountSavedSoFar:  decimal.Zero,
		ProgressPct:       0,
		Status:            domain.GoalStatusUnknown,
	}
	if !hasHistory {
		return eg
	}

	eg.AvgMonthlySavings = avg
	if avg.GreaterThanOrEqual(eg.RequiredPerMonth) {
		eg.Status = domain.GoalStatusOnTrack
	} else {
		eg.Status = domain.GoalStatusBehind
	}

	if !g.TargetAmount.IsPositive() {
		return eg
	}

	monthsSinceCreation := util.MonthsBetween(g.CreatedAt, today)
	if monthsSinceCreation < 0 {
		monthsSinceCreation = 0
	}

	saved := avg.Mul(decimal.NewFromInt(int64(monthsSinceCreation)))
	if saved.GreaterThan(g.TargetAmount) {
		saved = g.TargetAmount
	}
	if saved.IsNegative() {
		saved = decimal.Zero
	}
	eg.AmountSavedSoFar = saved
	eg.ProgressPct = clampPct(saved.Mul(hundred).Div(g.TargetAmount).Round(0).IntPart())

	return eg
}

func clampPct(pct int64) int {
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return int(pct)
}
