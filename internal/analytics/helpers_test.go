package analytics

import (
	"time"

	"github.com/dafibh/fortuna/coach-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func tx(d time.Time, description, merchant, amount, category string) *domain.Transaction {
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
