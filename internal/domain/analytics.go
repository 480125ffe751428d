package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// MonthKey identifies a calendar month
type MonthKey struct {
	Year  int
	Month time.Month
}

// MonthKeyOf returns the calendar month a date falls in
func MonthKeyOf(t time.Time) MonthKey {
	return MonthKey{Year: t.Year(), Month: t.Month()}
}

// Before reports whether k is chronologically earlier than other
func (k MonthKey) Before(other MonthKey) bool {
	if k.Year != other.Year {
		return k.Year < other.Year
	}
	return k.Month < other.Month
}

// Label formats the key as "January 2024"
func (k MonthKey) Label() string {
	return fmt.Sprintf("%s %d", k.Month.String(), k.Year)
}

// MonthlyBucket holds income and expense subtotals for one calendar month.
// Expenses is stored as a positive magnitude.
type MonthlyBucket struct {
	Key      MonthKey
	Income   decimal.Decimal
	Expenses decimal.Decimal
}

// Net returns income minus expenses for the month
func (b MonthlyBucket) Net() decimal.Decimal {
	return b.Income.Sub(b.Expenses)
}

// CategoryTotal is the total expense recorded against a category
type CategoryTotal struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// MostSpentCategory is the category with the largest expense total
type MostSpentCategory struct {
	Name    string          `json:"name"`
	Amount  decimal.Decimal `json:"amount"`
	Percent int64           `json:"percent"`
}

// SubscriptionItem is the flagged-subscription spend for one merchant
type SubscriptionItem struct {
	Merchant      string          `json:"merchant"`
	MonthlyAmount decimal.Decimal `json:"monthlyAmount"`
}

// SubscriptionSummary rolls up transactions explicitly flagged as subscriptions
type SubscriptionSummary struct {
	Items        []SubscriptionItem `json:"items"`
	TotalMonthly decimal.Decimal    `json:"totalMonthly"`
	TotalYearly  decimal.Decimal    `json:"totalYearly"`
}

// SpendingSummary contains the spending aggregates for a reference month
type SpendingSummary struct {
	ReferenceMonth          *MonthKey
	CurrentMonthSpending    decimal.Decimal
	LastMonthSpending       decimal.Decimal
	MonthOverMonthChangePct *decimal.Decimal
	CategoryTotals          []CategoryTotal
	MostSpentCategory       *MostSpentCategory
	Subscriptions           SubscriptionSummary
	TotalIncome             decimal.Decimal
	TotalExpenses           decimal.Decimal
}

// CurrentMonthLabel returns the display label of the reference month, or nil
func (s *SpendingSummary) CurrentMonthLabel() *string {
	if s.ReferenceMonth == nil {
		return nil
	}
	label := s.ReferenceMonth.Label()
	return &label
}

// Detection confidence levels
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
)

// UnknownMerchant is reported for gray charges without a merchant
const UnknownMerchant = "Unknown"

// RecurringDetection is a merchant and amount pair charged at a monthly cadence
type RecurringDetection struct {
	Merchant   string          `json:"merchant"`
	Amount     decimal.Decimal `json:"amount"`
	Count      int             `json:"count"`
	Confidence string          `json:"confidence"`
	Reason     string          `json:"reason"`
}

// GrayChargeDetection is a small fee-like charge that may have been overlooked
type GrayChargeDetection struct {
	Merchant    string          `json:"merchant"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Confidence  string          `json:"confidence"`
	Reason      string          `json:"reason"`
}

// CategoryAssignment maps a position in a transaction batch to a category
type CategoryAssignment struct {
	Index    int    `json:"index"`
	Category string `json:"category"`
}
