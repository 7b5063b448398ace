package recon

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vadiminshakov/traderecon/internal/domain"
)

const timeDiffLayout = time.RFC3339

// Tolerances allowed deviations below which two reported values are
// still considered equal.
type Tolerances struct {
	// Absolute flat allowance for quantity and price comparison.
	Absolute decimal.Decimal
	// Relative fractional allowance, applied to the larger magnitude.
	Relative decimal.Decimal
	// MaxTimeDrift allowed trade_time deviation between the two sides.
	MaxTimeDrift time.Duration
}

// DefaultTolerances returns the documented default tolerance policy:
// 0.01 absolute, 1 basis point relative, one second of time drift.
func DefaultTolerances() Tolerances {
	return Tolerances{
		Absolute:     decimal.NewFromFloat(0.01),
		Relative:     decimal.NewFromFloat(0.0001),
		MaxTimeDrift: time.Second,
	}
}

// Comparator per-pair field comparison under a tolerance policy.
type Comparator struct {
	tolerances Tolerances
}

// NewComparator creates a comparator with the given tolerances.
func NewComparator(tolerances Tolerances) *Comparator {
	return &Comparator{tolerances: tolerances}
}

// Compare inspects every comparable field of a matched pair and
// returns the diffs in canonical field order. Categorical fields use
// case-normalized string equality; quantity and price use the numeric
// tolerance; trade_time uses the drift tolerance. An empty result
// means the pair matches. The verdict is symmetric: swapping sides
// swaps the reported values but never the outcome.
func (c *Comparator) Compare(broker, exchange *domain.TradeRecord) []domain.FieldDiff {
	var diffs []domain.FieldDiff

	for _, field := range comparedFields {
		switch field {
		case FieldSymbol:
			if !categoricalEqual(broker.Symbol, exchange.Symbol) {
				diffs = append(diffs, domain.FieldDiff{Field: field, Broker: broker.Symbol, Exchange: exchange.Symbol})
			}
		case FieldSide:
			if !categoricalEqual(broker.Side.String(), exchange.Side.String()) {
				diffs = append(diffs, domain.FieldDiff{Field: field, Broker: broker.Side.String(), Exchange: exchange.Side.String()})
			}
		case FieldQuantity:
			if !c.numericEqual(broker.Quantity, exchange.Quantity) {
				diffs = append(diffs, domain.FieldDiff{Field: field, Broker: broker.Quantity.String(), Exchange: exchange.Quantity.String()})
			}
		case FieldPrice:
			if !c.numericEqual(broker.Price, exchange.Price) {
				diffs = append(diffs, domain.FieldDiff{Field: field, Broker: broker.Price.String(), Exchange: exchange.Price.String()})
			}
		case FieldCurrency:
			if !categoricalEqual(broker.Currency, exchange.Currency) {
				diffs = append(diffs, domain.FieldDiff{Field: field, Broker: broker.Currency, Exchange: exchange.Currency})
			}
		case FieldAccountID:
			if !categoricalEqual(broker.AccountID, exchange.AccountID) {
				diffs = append(diffs, domain.FieldDiff{Field: field, Broker: broker.AccountID, Exchange: exchange.AccountID})
			}
		case FieldTradeTime:
			if !c.timeEqual(broker.TradeTime, exchange.TradeTime) {
				diffs = append(diffs, domain.FieldDiff{
					Field:    field,
					Broker:   broker.TradeTime.Format(timeDiffLayout),
					Exchange: exchange.TradeTime.Format(timeDiffLayout),
				})
			}
		}
	}

	return diffs
}

// numericEqual reports equality within max(absolute, relative*max(|a|,|b|)).
func (c *Comparator) numericEqual(a, b decimal.Decimal) bool {
	diff := a.Sub(b).Abs()
	bound := decimal.Max(c.tolerances.Absolute, c.tolerances.Relative.Mul(decimal.Max(a.Abs(), b.Abs())))
	return diff.LessThanOrEqual(bound)
}

func (c *Comparator) timeEqual(a, b time.Time) bool {
	drift := a.Sub(b)
	if drift < 0 {
		drift = -drift
	}
	return drift <= c.tolerances.MaxTimeDrift
}

func categoricalEqual(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
