package analytics

import (
	"strings"
	"time"

	"github.com/dafibh/fortuna/coach-backend/internal/domain"
	"github.com/dafibh/fortuna/coach-backend/internal/util"
	"github.com/shopspring/decimal"
)

var (
	hundred       = decimal.NewFromInt(100)
	monthsPerYear = decimal.NewFromInt(12)
)

// LatestDate returns the date of the most recent transaction.
// ok is false when there are no transactions.
func LatestDate(transactions []*domain.Transaction) (latest time.Time, ok bool) {
	for _, t := range transactions {
		if t == nil {
			continue
		}
		if !ok || t.Date.After(latest) {
			latest = t.Date
			ok = true
		}
	}
	return latest, ok
}

// normalizeKey is the grouping form of a category or merchant name
func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ComputeSpendingSummary aggregates spending relative to the month containing ref.
// Callers pass the latest transaction date as ref so results are reproducible
// against historical data.
func ComputeSpendingSummary(transactions []*domain.Transaction, ref time.Time) *domain.SpendingSummary {
	summary := &domain.SpendingSummary{
		CurrentMonthSpending: decimal.Zero,
		LastMonthSpending:    decimal.Zero,
		CategoryTotals:       []domain.CategoryTotal{},
		Subscriptions:        summarizeSubscriptions(transactions),
		TotalIncome:          decimal.Zero,
		TotalExpenses:        decimal.Zero,
	}
	if len(transactions) == 0 {
		return summary
	}

	current := domain.MonthKeyOf(ref)
	summary.ReferenceMonth = &current

	prevYear, prevMonth := util.PreviousMonth(current.Year, int(current.Month))
	last := domain.MonthKey{Year: prevYear, Month: time.Month(prevMonth)}

	buckets := BucketByMonth(transactions)
	summary.CurrentMonthSpending = buckets.Get(current).Expenses
	summary.LastMonthSpending = buckets.Get(last).Expenses
	summary.MonthOverMonthChangePct = changePct(summary.CurrentMonthSpending, summary.LastMonthSpending)

	for _, k := range buckets.Keys() {
		b := buckets[k]
		summary.TotalIncome = summary.TotalIncome.Add(b.Income)
		summary.TotalExpenses = summary.TotalExpenses.Add(b.Expenses)
	}

	summary.CategoryTotals = categoryTotals(transactions)
	summary.MostSpentCategory = mostSpent(summary.CategoryTotals)

	return summary
}

// changePct returns (current-last)/last*100, or nil when last is zero
func changePct(current, last decimal.Decimal) *decimal.Decimal {
	if last.IsZero() {
		return nil
	}
	pct := current.Sub(last).Div(last).Mul(hundred)
	return &pct
}

// categoryTotals sums expenses per category in first-appearance order.
// Grouping is case-insensitive; the first spelling seen is kept for display.
func categoryTotals(transactions []*domain.Transaction) []domain.CategoryTotal {
	totals := []domain.CategoryTotal{}
	index := make(map[string]int)

	for _, t := range transactions {
		if t == nil || !t.IsExpense() {
			continue
		}

		name := t.CategoryName()
		key := normalizeKey(name)
		i, ok := index[key]
		if !ok {
			i = len(totals)
			index[key] = i
			totals = append(totals, domain.CategoryTotal{Name: name, Amount: decimal.Zero})
		}
		totals[i].Amount = totals[i].Amount.Add(t.Amount.Abs())
	}
	return totals
}

// mostSpent picks the largest category with a linear scan that only replaces
// the current maximum on strict improvement, so the earliest category wins ties.
func mostSpent(totals []domain.CategoryTotal) *domain.MostSpentCategory {
	total := decimal.Zero
	for _, c := range totals {
		total = total.Add(c.Amount)
	}

	var best *domain.MostSpentCategory
	top := decimal.Zero
	for _, c := range totals {
		if !c.Amount.GreaterThan(top) {
			continue
		}
		top = c.Amount
		percent := int64(0)
		if total.IsPositive() {
			percent = c.Amount.Mul(hundred).Div(total).Round(0).IntPart()
		}
		best = &domain.MostSpentCategory{Name: c.Name, Amount: c.Amount, Percent: percent}
	}
	return best
}

// summarizeSubscriptions rolls up expenses explicitly flagged as subscriptions,
// grouped by merchant with the description as fallback.
func summarizeSubscriptions(transactions []*domain.Transaction) domain.SubscriptionSummary {
	summary := domain.SubscriptionSummary{
		Items:        []domain.SubscriptionItem{},
		TotalMonthly: decimal.Zero,
		TotalYearly:  decimal.Zero,
	}
	index := make(map[string]int)

	for _, t := range transactions {
		if t == nil || !t.IsSubscription || !t.IsExpense() {
			continue
		}

		name := t.MerchantName()
		if name == "" {
			name = strings.TrimSpace(t.Description)
		}
		key := normalizeKey(name)
		i, ok := index[key]
		if !ok {
			i = len(summary.Items)
			index[key] = i
			summary.Items = append(summary.Items, domain.SubscriptionItem{Merchant: name, MonthlyAmount: decimal.Zero})
		}

		amount := t.Amount.Abs()
		summary.Items[i].MonthlyAmount = summary.Items[i].MonthlyAmount.Add(amount)
		summary.TotalMonthly = summary.TotalMonthly.Add(amount)
	}

	summary.TotalYearly = summary.TotalMonthly.Mul(monthsPerYear)
	return summary
}
