package recon

import (
	"github.com/shopspring/decimal"

	"github.com/vadiminshakov/traderecon/internal/domain"
)

// Thresholds severity policy parameters.
type Thresholds struct {
	// LargeRelative relative deviation at or above which a quantity or
	// price diff classifies High.
	LargeRelative decimal.Decimal
	// NegligibleNotional notional value below which a missing trade
	// downgrades from High to Medium.
	NegligibleNotional decimal.Decimal
}

// DefaultThresholds returns the documented default severity policy:
// 1% large deviation, 1000 (quote units) negligible notional.
func DefaultThresholds() Thresholds {
	return Thresholds{
		LargeRelative:      decimal.NewFromFloat(0.01),
		NegligibleNotional: decimal.NewFromInt(1000),
	}
}

// Classifier deterministic severity policy. A pure function of the
// diff set and record values; identical inputs always classify
// identically.
type Classifier struct {
	thresholds Thresholds
}

// NewClassifier creates a classifier with the given thresholds.
func NewClassifier(thresholds Thresholds) *Classifier {
	return &Classifier{thresholds: thresholds}
}

// ClassifyMismatch assigns a severity to a mismatch diff set.
// Rules apply in priority order, first match wins:
//  1. quantity or price deviating at or beyond the large threshold -> High
//  2. any identity or economic-terms diff (symbol, side, currency,
//     account_id) -> High
//  3. quantity or price outside tolerance but under the large
//     threshold -> Medium
//  4. diff confined to trade_time -> Low
func (c *Classifier) ClassifyMismatch(broker, exchange *domain.TradeRecord, diffs []domain.FieldDiff) domain.Severity {
	var numericDiff, identityDiff bool

	for _, d := range diffs {
		switch d.Field {
		case FieldQuantity:
			numericDiff = true
			if c.isLargeDeviation(broker.Quantity, exchange.Quantity) {
				return domain.SeverityHigh
			}
		case FieldPrice:
			numericDiff = true
			if c.isLargeDeviation(broker.Price, exchange.Price) {
				return domain.SeverityHigh
			}
		case FieldSymbol, FieldSide, FieldCurrency, FieldAccountID:
			identityDiff = true
		}
	}

	if identityDiff {
		return domain.SeverityHigh
	}
	if numericDiff {
		return domain.SeverityMedium
	}

	return domain.SeverityLow
}

// ClassifyMissing assigns a severity to an existence discrepancy.
// An unresolved one-sided trade is always material (High) unless its
// notional value is below the negligible threshold (Medium).
func (c *Classifier) ClassifyMissing(record *domain.TradeRecord) domain.Severity {
	if record.Notional().LessThan(c.thresholds.NegligibleNotional) {
		return domain.SeverityMedium
	}
	return domain.SeverityHigh
}

func (c *Classifier) isLargeDeviation(a, b decimal.Decimal) bool {
	return relativeDeviation(a, b).GreaterThanOrEqual(c.thresholds.LargeRelative)
}

// relativeDeviation returns |a-b| / max(|a|,|b|). When both values are
// zero the deviation is zero; when only one is zero it is total (1).
func relativeDeviation(a, b decimal.Decimal) decimal.Decimal {
	diff := a.Sub(b).Abs()
	denom := decimal.Max(a.Abs(), b.Abs())
	if denom.IsZero() {
		return decimal.Zero
	}
	return diff.Div(denom)
}
