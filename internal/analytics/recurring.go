package analytics

import (
	"sort"
	"time"

	"github.com/dafibh/fortuna/coach-backend/internal/domain"
	"github.com/dafibh/fortuna/coach-backend/internal/util"
)

// Recurring detection thresholds
const (
	MinRecurringOccurrences = 3
	MinMonthlyGapDays       = 20
	MaxMonthlyGapDays       = 40
)

const recurringReason = "Recurring monthly charge detected across multiple months"

// recurringKey groups charges by merchant identity and magnitude
type recurringKey struct {
	merchant string
	amount   int64
}

// groupRecurringCandidates partitions transactions that have a merchant and a
// non-zero amount by (lowercased merchant, abs(amount) rounded to a whole unit).
// Group keys are returned in first-encounter order.
func groupRecurringCandidates(transactions []*domain.Transaction) ([]recurringKey, map[recurringKey][]*domain.Transaction) {
	var order []recurringKey
	groups := make(map[recurringKey][]*domain.Transaction)

	for _, t := range transactions {
		if t == nil {
			continue
		}
		merchant := t.MerchantName()
		if merchant == "" || t.Amount.IsZero() {
			continue
		}

		key := recurringKey{
			merchant: normalizeKey(merchant),
			amount:   t.Amount.Abs().Round(0).IntPart(),
		}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], t)
	}
	return order, groups
}

// IsMonthlyCadence reports whether every consecutive gap between the sorted
// dates lies within [MinMonthlyGapDays, MaxMonthlyGapDays]. A single outlier
// disqualifies the whole series.
func IsMonthlyCadence(dates []time.Time) bool {
	sorted := make([]time.Time, len(dates))
	copy(sorted, dates)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	for i := 1; i < len(sorted); i++ {
		gap := util.DaysBetween(sorted[i-1], sorted[i])
		if gap < MinMonthlyGapDays || gap > MaxMonthlyGapDays {
			return false
		}
	}
	return true
}

// DetectRecurringCharges finds merchant and amount pairs that appear at least
// three times at a monthly cadence. The sample merchant name and amount come
// from the first transaction of each group.
func DetectRecurringCharges(transactions []*domain.Transaction) []domain.RecurringDetection {
	order, groups := groupRecurringCandidates(transactions)

	detected := []domain.RecurringDetection{}
	for _, key := range order {
		list := groups[key]
		if len(list) < MinRecurringOccurrences {
			continue
		}

		dates := make([]time.Time, len(list))
		for i, t := range list {
			dates[i] = t.Date
		}
		if !IsMonthlyCadence(dates) {
			continue
		}

		sample := list[0]
		detected = append(detected, domain.RecurringDetection{
			Merchant:   sample.MerchantName(),
			Amount:     sample.Amount.Abs(),
			Count:      len(list),
			Confidence: domain.ConfidenceHigh,
			Reason:     recurringReason,
		})
	}
	return detected
}
