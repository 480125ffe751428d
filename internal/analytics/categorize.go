package analytics

import (
	"strings"

	"github.com/dafibh/fortuna/coach-backend/internal/domain"
)

// NeedsCategory reports whether a transaction has no meaningful category
func NeedsCategory(t *domain.Transaction) bool {
	c := strings.TrimSpace(t.Category)
	return c == "" || strings.EqualFold(c, domain.DefaultCategory)
}

// UncategorizedItems lists the transactions that need a category, keyed by
// their position in the batch. At most limit items are returned; limit <= 0
// means no limit.
func UncategorizedItems(transactions []*domain.Transaction, limit int) []domain.UncategorizedItem {
	items := []domain.UncategorizedItem{}
	for i, t := range transactions {
		if t == nil || !NeedsCategory(t) {
			continue
		}
		if limit > 0 && len(items) >= limit {
			break
		}
		items = append(items, domain.UncategorizedItem{
			Index:       i,
			Description: t.Description,
			Merchant:    t.MerchantName(),
			Amount:      t.Amount,
		})
	}
	return items
}

// ApplyCategories returns a copy of the batch with the assigned categories
// applied. Assignments with an out-of-range index or a blank category are
// ignored. The input transactions are not modified.
func ApplyCategories(transactions []*domain.Transaction, assignments []domain.CategoryAssignment) []*domain.Transaction {
	out := make([]*domain.Transaction, len(transactions))
	for i, t := range transactions {
		if t == nil {
			continue
		}
		c := *t
		out[i] = &c
	}

	for _, a := range assignments {
		if a.Index < 0 || a.Index >= len(out) || out[a.Index] == nil {
			continue
		}
		if cat := strings.TrimSpace(a.Category); cat != "" {
			out[a.Index].Category = cat
		}
	}
	return out
}
