package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dafibh/fortuna/coach-backend/internal/domain"
	"github.com/dafibh/fortuna/coach-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// TransactionHandler handles transaction-related HTTP requests
type TransactionHandler struct {
	transactionService *service.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
	}
}

// CreateTransactionRequest represents the create transaction request body.
// Amount accepts a JSON number or a numeric string; negative is an expense.
// It is parsed per row so one malformed amount does not fail an import.
type CreateTransactionRequest struct {
	Date           string          `json:"date"`
	Description    string          `json:"description"`
	Merchant       *string         `json:"merchant,omitempty"`
	Amount         json.RawMessage `json:"amount"`
	Category       string          `json:"category"`
	IsSubscription bool            `json:"isSubscription"`
}

// ImportTransactionsRequest represents a batch of transactions to import
type ImportTransactionsRequest struct {
	Transactions []CreateTransactionRequest `json:"transactions"`
}

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	ID             string  `json:"id"`
	Date           string  `json:"date"`
	Description    string  `json:"description"`
	Merchant       *string `json:"merchant"`
	Amount         string  `json:"amount"`
	Category       string  `json:"category"`
	IsSubscription bool    `json:"isSubscription"`
	CreatedAt      string  `json:"createdAt"`
}

// CreateTransaction handles POST /api/v1/transactions
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	var req CreateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	date, err := time.Parse(dateLayout, strings.TrimSpace(req.Date))
	if err != nil {
		return NewValidationError(c, "Invalid date", []ValidationError{
			{Field: "date", Message: "Must be in YYYY-MM-DD format"},
		})
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a number"},
		})
	}

	transaction, err := h.transactionService.CreateTransaction(toCreateTransactionInput(req, date, amount))
	if err != nil {
		if field, ok := transactionValidationField(err); ok {
			return NewValidationError(c, "Validation failed", []ValidationError{field})
		}
		log.Error().Err(err).Msg("Failed to create transaction")
		return NewInternalError(c, "Failed to create transaction")
	}

	return c.JSON(http.StatusCreated, toTransactionResponse(transaction))
}

// ImportTransactions handles POST /api/v1/transactions/import. Invalid rows
// are skipped and reported in the counts.
func (h *TransactionHandler) ImportTransactions(c echo.Context) error {
	var req ImportTransactionsRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	inputs := make([]service.CreateTransactionInput, 0, len(req.Transactions))
	for _, row := range req.Transactions {
		// Unparseable dates and amounts leave zero values, which the service skips
		date, _ := time.Parse(dateLayout, strings.TrimSpace(row.Date))
		amount, _ := parseAmount(row.Amount)
		inputs = append(inputs, toCreateTransactionInput(row, date, amount))
	}

	result, err := h.transactionService.ImportTransactions(c.Request().Context(), inputs)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyImport) {
			return NewValidationError(c, "No valid transactions to import", []ValidationError{
				{Field: "transactions", Message: "Must contain at least one valid transaction"},
			})
		}
		log.Error().Err(err).Int("rows", len(inputs)).Msg("Failed to import transactions")
		return NewInternalError(c, "Failed to import transactions")
	}

	log.Info().
		Int("imported", result.ImportedCount).
		Int("skipped", result.SkippedCount).
		Int("categorized", result.CategorizedCount).
		Msg("Transactions imported")

	return c.JSON(http.StatusCreated, result)
}

// GetTransactions handles GET /api/v1/transactions
func (h *TransactionHandler) GetTransactions(c echo.Context) error {
	transactions, err := h.transactionService.GetRecentTransactions()
	if err != nil {
		log.Error().Err(err).Msg("Failed to get transactions")
		return NewInternalError(c, "Failed to get transactions")
	}

	response := make([]TransactionResponse, len(transactions))
	for i, t := range transactions {
		response[i] = toTransactionResponse(t)
	}

	return c.JSON(http.StatusOK, response)
}

// parseAmount accepts a JSON number or a numeric string
func parseAmount(raw json.RawMessage) (decimal.Decimal, error) {
	value := strings.TrimSpace(string(raw))
	if strings.HasPrefix(value, `"`) {
		if err := json.Unmarshal(raw, &value); err != nil {
			return decimal.Zero, err
		}
	}
	return decimal.NewFromString(strings.TrimSpace(value))
}

func toCreateTransactionInput(req CreateTransactionRequest, date time.Time, amount decimal.Decimal) service.CreateTransactionInput {
	return service.CreateTransactionInput{
		Date:           date,
		Description:    req.Description,
		Merchant:       req.Merchant,
		Amount:         amount,
		Category:       req.Category,
		IsSubscription: req.IsSubscription,
	}
}

func transactionValidationField(err error) (ValidationError, bool) {
	switch {
	case errors.Is(err, domain.ErrDescriptionRequired):
		return ValidationError{Field: "description", Message: "Description is required"}, true
	case errors.Is(err, domain.ErrDescriptionTooLong):
		return ValidationError{Field: "description", Message: "Description must be 255 characters or less"}, true
	case errors.Is(err, domain.ErrMerchantTooLong):
		return ValidationError{Field: "merchant", Message: "Merchant must be 255 characters or less"}, true
	case errors.Is(err, domain.ErrCategoryTooLong):
		return ValidationError{Field: "category", Message: "Category must be 100 characters or less"}, true
	case errors.Is(err, domain.ErrInvalidAmount):
		return ValidationError{Field: "amount", Message: "Amount must be non-zero"}, true
	case errors.Is(err, domain.ErrInvalidDate):
		return ValidationError{Field: "date", Message: "Must be in YYYY-MM-DD format"}, true
	}
	return ValidationError{}, false
}

func toTransactionResponse(t *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:             t.ID.String(),
		Date:           formatDate(t.Date),
		Description:    t.Description,
		Merchant:       t.Merchant,
		Amount:         formatMoney(t.Amount),
		Category:       t.CategoryName(),
		IsSubscription: t.IsSubscription,
		CreatedAt:      t.CreatedAt.Format(time.RFC3339),
	}
}
