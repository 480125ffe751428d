package service

import (
	"strings"

	"github.com/dafibh/fortuna/coach-backend/internal/analytics"
	"github.com/dafibh/fortuna/coach-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// SubscriptionService detects recurring and gray charges
type SubscriptionService struct {
	transactionRepo domain.TransactionRepository
}

// NewSubscriptionService creates a new SubscriptionService
func NewSubscriptionService(transactionRepo domain.TransactionRepository) *SubscriptionService {
	return &SubscriptionService{transactionRepo: transactionRepo}
}

// DetectCharges runs recurring and gray charge detection over all transactions
func (s *SubscriptionService) DetectCharges() (*domain.DetectedCharges, error) {
	transactions, err := s.transactionRepo.GetAllByDateAsc()
	if err != nil {
		return nil, err
	}

	return &domain.DetectedCharges{
		DetectedSubscriptions: analytics.DetectRecurringCharges(transactions),
		GrayCharges:           analytics.DetectGrayCharges(transactions),
	}, nil
}

// MarkNotSubscription clears the subscription flag on every expense charged
// by merchant for amount. amount is the positive charge size.
func (s *SubscriptionService) MarkNotSubscription(merchant string, amount decimal.Decimal) (int64, error) {
	merchant = strings.TrimSpace(merchant)
	if merchant == "" {
		return 0, domain.ErrInvalidInput
	}
	if !amount.IsPositive() {
		return 0, domain.ErrInvalidAmount
	}
	return s.transactionRepo.ClearSubscriptionFlag(merchant, amount.Neg())
}
