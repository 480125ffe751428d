package domain

import "github.com/shopspring/decimal"

// InsightSource records whether insights came from the generator or fallback defaults
type InsightSource string

const (
	InsightSourceGenerated InsightSource = "generated"
	InsightSourceFallback  InsightSource = "fallback"
	InsightSourceNone      InsightSource = "none"
)

// DashboardSummary contains the main dashboard metrics
type DashboardSummary struct {
	TotalSpending    decimal.Decimal
	ProjectedSavings decimal.Decimal
	ActiveGoals      int
	Spending         *SpendingSummary
	Insights         Insights
	InsightSource    InsightSource
	EnrichedGoals    []EnrichedGoal
}

// DetectedCharges bundles recurring and gray charge detections
type DetectedCharges struct {
	DetectedSubscriptions []RecurringDetection  `json:"detectedSubscriptions"`
	GrayCharges           []GrayChargeDetection `json:"grayCharges"`
}
