package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxGoalNameLength bounds goal names accepted at the API boundary
const MaxGoalNameLength = 255

type Goal struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	TargetAmount decimal.Decimal `json:"targetAmount"`
	Deadline     time.Time       `json:"deadline"`
	CreatedAt    time.Time       `json:"createdAt"`
}

type GoalStatus string

const (
	GoalStatusOnTrack GoalStatus = "on_track"
	GoalStatusBehind  GoalStatus = "behind"
	GoalStatusUnknown GoalStatus = "unknown"
)

// EnrichedGoal is a Goal with forecast fields. It is recomputed per request and never stored.
type EnrichedGoal struct {
	Goal
	MonthsLeft        int             `json:"monthsLeft"`
	RequiredPerMonth  decimal.Decimal `json:"requiredPerMonth"`
	AvgMonthlySavings decimal.Decimal `json:"avgMonthlySavings"`
	AmountSavedSoFar  decimal.Decimal `json:"amountSavedSoFar"`
	ProgressPct       int             `json:"progressPct"`
	Status            GoalStatus      `json:"status"`
}

type GoalRepository interface {
	Create(goal *Goal) (*Goal, error)
	GetAll() ([]*Goal, error)
}
