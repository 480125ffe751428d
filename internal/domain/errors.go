package domain

import "errors"

// Domain errors
var (
	ErrNotFound            = errors.New("resource not found")
	ErrInvalidInput        = errors.New("invalid input")
	ErrInternalError       = errors.New("internal error")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrGoalNotFound        = errors.New("goal not found")
	ErrNameRequired        = errors.New("name is required")
	ErrNameTooLong         = errors.New("name exceeds maximum length")
	ErrDescriptionRequired = errors.New("description is required")
	ErrDescriptionTooLong  = errors.New("description exceeds maximum length")
	ErrMerchantTooLong     = errors.New("merchant exceeds maximum length")
	ErrCategoryTooLong     = errors.New("category exceeds maximum length")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidDate         = errors.New("invalid date")
	ErrInvalidDeadline     = errors.New("invalid deadline")
	ErrEmptyImport         = errors.New("no valid transactions to import")
	ErrInsightUnavailable  = errors.New("insight generator unavailable")
	ErrMalformedInsight    = errors.New("malformed insight response")
)
