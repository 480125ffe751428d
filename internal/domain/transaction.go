package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultCategory is assigned to transactions imported without a category
const DefaultCategory = "Uncategorized"

// Validation constants
const (
	MaxDescriptionLength  = 255
	MaxMerchantLength     = 255
	MaxCategoryLength     = 100
	MaxRecentTransactions = 100
)

type Transaction struct {
	ID             uuid.UUID       `json:"id"`
	Date           time.Time       `json:"date"`
	Description    string          `json:"description"`
	Merchant       *string         `json:"merchant,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
	Category       string          `json:"category"`
	IsSubscription bool            `json:"isSubscription"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// IsExpense reports whether the transaction moves money out (negative amount)
func (t Transaction) IsExpense() bool {
	return t.Amount.IsNegative()
}

// IsIncome reports whether the transaction moves money in (positive amount)
func (t Transaction) IsIncome() bool {
	return t.Amount.IsPositive()
}

// MerchantName returns the trimmed merchant, or "" when absent
func (t Transaction) MerchantName() string {
	if t.Merchant == nil {
		return ""
	}
	return strings.TrimSpace(*t.Merchant)
}

// CategoryName returns the category with the default applied
func (t Transaction) CategoryName() string {
	if c := strings.TrimSpace(t.Category); c != "" {
		return c
	}
	return DefaultCategory
}

type TransactionRepository interface {
	Create(transaction *Transaction) (*Transaction, error)
	CreateBatch(transactions []*Transaction) (int, error)
	GetAll() ([]*Transaction, error)
	GetRecent(limit int) ([]*Transaction, error)
	GetAllByDateAsc() ([]*Transaction, error)
	ClearSubscriptionFlag(merchant string, amount decimal.Decimal) (int64, error)
}
