package handler

import (
	"errors"
	"net/http"

	"github.com/dafibh/fortuna/coach-backend/internal/domain"
	"github.com/dafibh/fortuna/coach-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// SubscriptionHandler handles recurring and gray charge HTTP requests
type SubscriptionHandler struct {
	subscriptionService *service.SubscriptionService
}

// NewSubscriptionHandler creates a new SubscriptionHandler
func NewSubscriptionHandler(subscriptionService *service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionService: subscriptionService}
}

// RecurringChargeResponse represents a detected recurring charge
type RecurringChargeResponse struct {
	Merchant   string `json:"merchant"`
	Amount     string `json:"amount"`
	Count      int    `json:"count"`
	Confidence string `json:"confidence"`
	Reason     string `json:"reason"`
}

// GrayChargeResponse represents a detected gray charge
type GrayChargeResponse struct {
	Merchant    string `json:"merchant"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Confidence  string `json:"confidence"`
	Reason      string `json:"reason"`
}

// DetectedChargesResponse represents the detection results
type DetectedChargesResponse struct {
	DetectedSubscriptions []RecurringChargeResponse `json:"detectedSubscriptions"`
	GrayCharges           []GrayChargeResponse      `json:"grayCharges"`
}

// MarkNotSubscriptionRequest identifies a charge the user says is not a subscription
type MarkNotSubscriptionRequest struct {
	Merchant string          `json:"merchant"`
	Amount   decimal.Decimal `json:"amount"`
}

// MarkNotSubscriptionResponse reports how many transactions were updated
type MarkNotSubscriptionResponse struct {
	Updated int64 `json:"updated"`
}

// GetDetected handles GET /api/v1/subscriptions/detected
func (h *SubscriptionHandler) GetDetected(c echo.Context) error {
	charges, err := h.subscriptionService.DetectCharges()
	if err != nil {
		log.Error().Err(err).Msg("Failed to detect subscriptions")
		return NewInternalError(c, "Failed to detect subscriptions")
	}

	response := DetectedChargesResponse{
		DetectedSubscriptions: make([]RecurringChargeResponse, len(charges.DetectedSubscriptions)),
		GrayCharges:           make([]GrayChargeResponse, len(charges.GrayCharges)),
	}
	for i, d := range charges.DetectedSubscriptions {
		response.DetectedSubscriptions[i] = RecurringChargeResponse{
			Merchant:   d.Merchant,
			Amount:     formatMoney(d.Amount),
			Count:      d.Count,
			Confidence: d.Confidence,
			Reason:     d.Reason,
		}
	}
	for i, g := range charges.GrayCharges {
		response.GrayCharges[i] = GrayChargeResponse{
			Merchant:    g.Merchant,
			Description: g.Description,
			Amount:      formatMoney(g.Amount),
			Confidence:  g.Confidence,
			Reason:      g.Reason,
		}
	}

	return c.JSON(http.StatusOK, response)
}

// MarkNotSubscription handles POST /api/v1/subscriptions/mark-not
func (h *SubscriptionHandler) MarkNotSubscription(c echo.Context) error {
	var req MarkNotSubscriptionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	updated, err := h.subscriptionService.MarkNotSubscription(req.Merchant, req.Amount)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "merchant", Message: "Merchant is required"},
			})
		}
		if errors.Is(err, domain.ErrInvalidAmount) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "amount", Message: "Amount must be positive"},
			})
		}
		log.Error().Err(err).Str("merchant", req.Merchant).Msg("Failed to mark subscription")
		return NewInternalError(c, "Failed to update subscription flag")
	}

	return c.JSON(http.StatusOK, MarkNotSubscriptionResponse{Updated: updated})
}
