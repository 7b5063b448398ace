package recon

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/vadiminshakov/traderecon/internal/domain"
)

func TestClassifier_LargeNumericDeviationIsHigh(t *testing.T) {
	c := NewClassifier(DefaultThresholds())

	broker := testRecord("T2")
	exchange := testRecord("T2", func(r *domain.TradeRecord) {
		r.Quantity = decimal.NewFromInt(105) // 4.76% relative deviation
	})
	diffs := []domain.FieldDiff{{Field: FieldQuantity, Broker: "100", Exchange: "105"}}

	require.Equal(t, domain.SeverityHigh, c.ClassifyMismatch(&broker, &exchange, diffs))
}

func TestClassifier_IdentityDiffIsHigh(t *testing.T) {
	c := NewClassifier(DefaultThresholds())

	for _, field := range []string{FieldSymbol, FieldSide, FieldCurrency, FieldAccountID} {
		broker := testRecord("T1")
		exchange := testRecord("T1")
		diffs := []domain.FieldDiff{{Field: field, Broker: "a", Exchange: "b"}}

		require.Equal(t, domain.SeverityHigh, c.ClassifyMismatch(&broker, &exchange, diffs), "field %s", field)
	}
}

func TestClassifier_ModerateNumericDeviationIsMedium(t *testing.T) {
	c := NewClassifier(DefaultThresholds())

	// 0.1% deviation: beyond match tolerance, below the 1% large threshold.
	broker := testRecord("T1", func(r *domain.TradeRecord) {
		r.Price = decimal.NewFromInt(10000)
	})
	exchange := testRecord("T1", func(r *domain.TradeRecord) {
		r.Price = decimal.NewFromInt(10010)
	})
	diffs := []domain.FieldDiff{{Field: FieldPrice, Broker: "10000", Exchange: "10010"}}

	require.Equal(t, domain.SeverityMedium, c.ClassifyMismatch(&broker, &exchange, diffs))
}

func TestClassifier_TimeOnlyDiffIsLow(t *testing.T) {
	c := NewClassifier(DefaultThresholds())

	broker := testRecord("T1")
	exchange := testRecord("T1")
	diffs := []domain.FieldDiff{{Field: FieldTradeTime, Broker: "a", Exchange: "b"}}

	require.Equal(t, domain.SeverityLow, c.ClassifyMismatch(&broker, &exchange, diffs))
}

func TestClassifier_PriorityOrderLargeNumericBeatsIdentity(t *testing.T) {
	c := NewClassifier(DefaultThresholds())

	// both rules fire; either way the verdict is High
	broker := testRecord("T1")
	exchange := testRecord("T1", func(r *domain.TradeRecord) {
		r.Quantity = decimal.NewFromInt(200)
		r.Currency = "EUR"
	})
	diffs := []domain.FieldDiff{
		{Field: FieldQuantity, Broker: "100", Exchange: "200"},
		{Field: FieldCurrency, Broker: "USD", Exchange: "EUR"},
	}

	require.Equal(t, domain.SeverityHigh, c.ClassifyMismatch(&broker, &exchange, diffs))
}

func TestClassifier_MissingDefaultsHigh(t *testing.T) {
	c := NewClassifier(DefaultThresholds())

	// notional 100*50 = 5000, above the 1000 negligible floor
	record := testRecord("T3")
	require.Equal(t, domain.SeverityHigh, c.ClassifyMissing(&record))
}

func TestClassifier_MissingNegligibleNotionalIsMedium(t *testing.T) {
	c := NewClassifier(DefaultThresholds())

	record := testRecord("T3", func(r *domain.TradeRecord) {
		r.Quantity = decimal.NewFromInt(1)
		r.Price = decimal.NewFromFloat(10.00) // notional 10
	})
	require.Equal(t, domain.SeverityMedium, c.ClassifyMissing(&record))
}

func TestClassifier_PureFunction(t *testing.T) {
	c := NewClassifier(DefaultThresholds())

	broker := testRecord("T1")
	exchange := testRecord("T1", func(r *domain.TradeRecord) {
		r.Price = decimal.NewFromFloat(50.40)
	})
	diffs := []domain.FieldDiff{{Field: FieldPrice, Broker: "50", Exchange: "50.4"}}

	first := c.ClassifyMismatch(&broker, &exchange, diffs)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, c.ClassifyMismatch(&broker, &exchange, diffs))
	}
}

func TestRelativeDeviation(t *testing.T) {
	tests := []struct {
		name string
		a, b decimal.Decimal
		want string
	}{
		{"equal values", decimal.NewFromInt(100), decimal.NewFromInt(100), "0"},
		{"five percent", decimal.NewFromInt(100), decimal.NewFromInt(105), "0.0476190476190476"},
		{"both zero", decimal.Zero, decimal.Zero, "0"},
		{"one side zero", decimal.Zero, decimal.NewFromInt(10), "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := relativeDeviation(tt.a, tt.b)
			want := decimal.RequireFromString(tt.want)
			require.True(t, got.Sub(want).Abs().LessThan(decimal.NewFromFloat(1e-12)),
				"got %s, want %s", got, want)
		})
	}
}
