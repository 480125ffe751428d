package service

import (
	"strings"
	"time"

	"github.com/dafibh/fortuna/coach-backend/internal/domain"
	"github.com/dafibh/fortuna/coach-backend/internal/util"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GoalService handles savings goal business logic
type GoalService struct {
	goalRepo domain.GoalRepository
	now      func() time.Time
}

// NewGoalService creates a new GoalService
func NewGoalService(goalRepo domain.GoalRepository) *GoalService {
	return &GoalService{
		goalRepo: goalRepo,
		now:      time.Now,
	}
}

// CreateGoalInput holds the input for creating a goal
type CreateGoalInput struct {
	Name         string
	TargetAmount decimal.Decimal
	Deadline     time.Time
}

// CreateGoal validates and stores a goal. Goals are validated here so the
// forecaster can assume a positive target and a real deadline.
func (s *GoalService) CreateGoal(input CreateGoalInput) (*domain.Goal, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxGoalNameLength {
		return nil, domain.ErrNameTooLong
	}

	if !input.TargetAmount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}

	if input.Deadline.IsZero() {
		return nil, domain.ErrInvalidDeadline
	}

	goal := &domain.Goal{
		ID:           uuid.New(),
		Name:         name,
		TargetAmount: input.TargetAmount,
		Deadline:     util.DateOnly(input.Deadline),
		CreatedAt:    s.now().UTC(),
	}

	return s.goalRepo.Create(goal)
}

// GetGoals returns all goals, newest first
func (s *GoalService) GetGoals() ([]*domain.Goal, error) {
	return s.goalRepo.GetAll()
}
