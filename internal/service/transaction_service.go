package service

import (
	"context"
	"strings"
	"time"

	"github.com/dafibh/fortuna/coach-backend/internal/analytics"
	"github.com/dafibh/fortuna/coach-backend/internal/domain"
	"github.com/dafibh/fortuna/coach-backend/internal/util"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// MaxCategorizationBatch caps how many transactions are sent to the categorizer per import
const MaxCategorizationBatch = 25

// TransactionService handles transaction-related business logic
type TransactionService struct {
	transactionRepo domain.TransactionRepository
	categorizer     domain.Categorizer
}

// NewTransactionService creates a new TransactionService. categorizer may be nil.
func NewTransactionService(transactionRepo domain.TransactionRepository, categorizer domain.Categorizer) *TransactionService {
	return &TransactionService{
		transactionRepo: transactionRepo,
		categorizer:     categorizer,
	}
}

// CreateTransactionInput holds the input for creating a transaction
type CreateTransactionInput struct {
	Date           time.Time
	Description    string
	Merchant       *string
	Amount         decimal.Decimal
	Category       string
	IsSubscription bool
}

// ImportResult summarizes a batch import
type ImportResult struct {
	ImportedCount    int `json:"importedCount"`
	SkippedCount     int `json:"skippedCount"`
	CategorizedCount int `json:"categorizedCount"`
}

// CreateTransaction validates and stores a single transaction
func (s *TransactionService) CreateTransaction(input CreateTransactionInput) (*domain.Transaction, error) {
	transaction, err := buildTransaction(input)
	if err != nil {
		return nil, err
	}
	return s.transactionRepo.Create(transaction)
}

// ImportTransactions stores a batch of transactions. Invalid rows are skipped,
// and rows without a category are sent to the categorizer when one is
// configured. A categorizer failure keeps the original categories.
func (s *TransactionService) ImportTransactions(ctx context.Context, inputs []CreateTransactionInput) (*ImportResult, error) {
	result := &ImportResult{}

	transactions := make([]*domain.Transaction, 0, len(inputs))
	for _, input := range inputs {
		transaction, err := buildTransaction(input)
		if err != nil {
			result.SkippedCount++
			continue
		}
		transactions = append(transactions, transaction)
	}

	if len(transactions) == 0 {
		return nil, domain.ErrEmptyImport
	}

	transactions, result.CategorizedCount = s.categorize(ctx, transactions)

	imported, err := s.transactionRepo.CreateBatch(transactions)
	if err != nil {
		return nil, err
	}
	result.ImportedCount = imported

	return result, nil
}

func (s *TransactionService) categorize(ctx context.Context, transactions []*domain.Transaction) ([]*domain.Transaction, int) {
	if s.categorizer == nil {
		return transactions, 0
	}

	items := analytics.UncategorizedItems(transactions, MaxCategorizationBatch)
	if len(items) == 0 {
		return transactions, 0
	}

	assignments, err := s.categorizer.Categorize(ctx, items)
	if err != nil {
		log.Warn().Err(err).Int("items", len(items)).Msg("Auto-categorization failed, keeping original categories")
		return transactions, 0
	}

	categorized := analytics.ApplyCategories(transactions, assignments)
	changed := 0
	for i := range transactions {
		if categorized[i].Category != transactions[i].Category {
			changed++
		}
	}
	return categorized, changed
}

// GetRecentTransactions returns the most recent transactions, newest first
func (s *TransactionService) GetRecentTransactions() ([]*domain.Transaction, error) {
	return s.transactionRepo.GetRecent(domain.MaxRecentTransactions)
}

func buildTransaction(input CreateTransactionInput) (*domain.Transaction, error) {
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, domain.ErrDescriptionRequired
	}
	if len(description) > domain.MaxDescriptionLength {
		return nil, domain.ErrDescriptionTooLong
	}

	if input.Date.IsZero() {
		return nil, domain.ErrInvalidDate
	}

	if input.Amount.IsZero() {
		return nil, domain.ErrInvalidAmount
	}

	var merchant *string
	if input.Merchant != nil {
		trimmed := strings.TrimSpace(*input.Merchant)
		if trimmed != "" {
			if len(trimmed) > domain.MaxMerchantLength {
				return nil, domain.ErrMerchantTooLong
			}
			merchant = &trimmed
		}
	}

	category := strings.TrimSpace(input.Category)
	if category == "" {
		category = domain.DefaultCategory
	}
	if len(category) > domain.MaxCategoryLength {
		return nil, domain.ErrCategoryTooLong
	}

	return &domain.Transaction{
		ID:             uuid.New(),
		Date:           util.DateOnly(input.Date),
		Description:    description,
		Merchant:       merchant,
		Amount:         input.Amount,
		Category:       category,
		IsSubscription: input.IsSubscription,
	}, nil
}
