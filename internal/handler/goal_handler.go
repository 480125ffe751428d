package handler

import (
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

// GoalHandler handles savings goal HTTP requests
type GoalHandler struct {
	goalService *service.GoalService
}

// NewGoalHandler creates a new GoalHandler
func NewGoalHandler(goalService *service.GoalService) *GoalHandler {
	return &GoalHandler{goalService: goalService}
}

// CreateGoalRequest represents the create goal request body
type CreateGoalRequest struct {
	Name         string          `json:"name"`
	TargetAmount decimal.Decimal `json:"targetAmount"`
	Deadline     string          `json:"deadline"`
}

// GoalResponse represents a goal in API responses
type GoalResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	TargetAmount string `json:"targetAmount"`
	Deadline     string `json:"deadline"`
	CreatedAt    string `json:"createdAt"`
}

// EnrichedGoalResponse represents a goal with its forecast
type EnrichedGoalResponse struct {
	GoalResponse
	MonthsLeft        int    `json:"monthsLeft"`
	RequiredPerMonth  string `json:"requiredPerMonth"`
	AvgMonthlySavings string `json:"avgMonthlySavings"`
	AmountSavedSoFar  string `json:"amountSavedSoFar"`
	ProgressPct       int    `json:"progressPct"`
	Status            string `json:"status"`
}

// CreateGoal handles POST /api/v1/goals
func (h *GoalHandler) CreateGoal(c echo.Context) error {
	var req CreateGoalRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	deadline, err := time.Parse(dateLayout, strings.TrimSpace(req.Deadline))
	if err != nil {
		return NewValidationError(c, "Invalid deadline", []ValidationError{
			{Field: "deadline", Message: "Must be in YYYY-MM-DD format"},
		})
	}

	goal, err := h.goalService.CreateGoal(service.CreateGoalInput{
		Name:         req.Name,
		TargetAmount: req.TargetAmount,
		Deadline:     deadline,
	})
	if err != nil {
		if errors.Is(err, domain.ErrNameRequired) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name is required"},
			})
		}
		if errors.Is(err, domain.ErrNameTooLong) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name must be 255 characters or less"},
			})
		}
		if errors.Is(err, domain.ErrInvalidAmount) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "targetAmount", Message: "Target amount must be positive"},
			})
		}
		if errors.Is(err, domain.ErrInvalidDeadline) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "deadline", Message: "Must be in YYYY-MM-DD format"},
			})
		}
		log.Error().Err(err).Msg("Failed to create goal")
		return NewInternalError(c, "Failed to create goal")
	}

	return c.JSON(http.StatusCreated, toGoalResponse(goal))
}

// GetGoals handles GET /api/v1/goals
func (h *GoalHandler) GetGoals(c echo.Context) error {
	goals, err := h.goalService.GetGoals()
	if err != nil {
		log.Error().Err(err).Msg("Failed to get goals")
		return NewInternalError(c, "Failed to get goals")
	}

	response := make([]GoalResponse, len(goals))
	for i, g := range goals {
		response[i] = toGoalResponse(g)
	}

	return c.JSON(http.StatusOK, response)
}

func toGoalResponse(g *domain.Goal) GoalResponse {
	return GoalResponse{
		ID:           g.ID.String(),
		Name:         g.Name,
		TargetAmount: formatMoney(g.TargetAmount),
		Deadline:     formatDate(g.Deadline),
		CreatedAt:    g.CreatedAt.Format(time.RFC3339),
	}
}

func toEnrichedGoalResponses(goals []domain.EnrichedGoal) []EnrichedGoalResponse {
	response := make([]EnrichedGoalResponse, len(goals))
	for i := range goals {
		g := &goals[i]
		response[i] = EnrichedGoalResponse{
			GoalResponse:      toGoalResponse(&g.Goal),
			MonthsLeft:        g.MonthsLeft,
			RequiredPerMonth:  formatMoney(g.RequiredPerMonth),
			AvgMonthlySavings: formatMoney(g.AvgMonthlySavings),
			AmountSavedSoFar:  formatMoney(g.AmountSavedSoFar),
			ProgressPct:       g.ProgressPct,
			Status:            string(g.Status),
		}
	}
	return response
}
