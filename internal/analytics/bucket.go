package analytics

import (
	"sort"

	"github.com/dafibh/fortuna/coach-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// Buckets maps calendar months to their income and expense subtotals
type Buckets map[domain.MonthKey]*domain.MonthlyBucket

// BucketByMonth groups transactions into calendar-month buckets.
// Zero-amount transactions are skipped.
func BucketByMonth(transactions []*domain.Transaction) Buckets {
	buckets := make(Buckets)
	for _, t := range transactions {
		if t == nil || t.Amount.IsZero() {
			continue
		}

		key := domain.MonthKeyOf(t.Date)
		b, ok := buckets[key]
		if !ok {
			b = &domain.MonthlyBucket{Key: key, Income: decimal.Zero, Expenses: decimal.Zero}
			buckets[key] = b
		}

		if t.IsIncome() {
			b.Income = b.Income.Add(t.Amount)
		} else {
			b.Expenses = b.Expenses.Add(t.Amount.Abs())
		}
	}
	return buckets
}

// Get returns the bucket for a month, or an empty bucket if none exists
func (b Buckets) Get(key domain.MonthKey) domain.MonthlyBucket {
	if bucket, ok := b[key]; ok {
		return *bucket
	}
	return domain.MonthlyBucket{Key: key, Income: decimal.Zero, Expenses: decimal.Zero}
}

// Keys returns the bucket keys in ascending chronological order
func (b Buckets) Keys() []domain.MonthKey {
	keys := make([]domain.MonthKey, 0, len(b))
	for k := range b {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })
	return keys
}

// Recent returns up to n of the most recent buckets in chronological order
func (b Buckets) Recent(n int) []domain.MonthlyBucket {
	keys := b.Keys()
	if n < 0 {
		n = 0
	}
	if n < len(keys) {
		keys = keys[len(keys)-n:]
	}

	recent := make([]domain.MonthlyBucket, 0, len(keys))
	for _, k := range keys {
		recent = append(recent, *b[k])
	}
	return recent
}
