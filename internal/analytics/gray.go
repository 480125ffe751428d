package analytics

import (
	"strings"

	"github.com/dafibh/fortuna/coach-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// maxGrayChargeAmount is the largest magnitude still considered a gray charge
var maxGrayChargeAmount = decimal.NewFromInt(10)

// grayChargeKeywords mark fee-like descriptions
var grayChargeKeywords = []string{"fee", "charge", "service", "processing"}

const grayChargeReason = "Small unexplained transaction, possible gray charge"

// IsGrayCharge reports whether a transaction is small and worded like a fee
func IsGrayCharge(t *domain.Transaction) bool {
	amount := t.Amount.Abs()
	if !amount.IsPositive() || amount.GreaterThan(maxGrayChargeAmount) {
		return false
	}

	desc := strings.ToLower(t.Description)
	for _, kw := range grayChargeKeywords {
		if strings.Contains(desc, kw) {
			return true
		}
	}
	return false
}

// DetectGrayCharges flags every small fee-like transaction. Occurrences are not
// deduplicated: a recurring small fee appears once per transaction.
func DetectGrayCharges(transactions []*domain.Transaction) []domain.GrayChargeDetection {
	gray := []domain.GrayChargeDetection{}
	for _, t := range transactions {
		if t == nil || !IsGrayCharge(t) {
			continue
		}

		merchant := t.MerchantName()
		if merchant == "" {
			merchant = domain.UnknownMerchant
		}
		gray = append(gray, domain.GrayChargeDetection{
			Merchant:    merchant,
			Description: t.Description,
			Amount:      t.Amount.Abs(),
			Confidence:  domain.ConfidenceMedium,
			Reason:      grayChargeReason,
		})
	}
	return gray
}
