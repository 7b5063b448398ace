package recon

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/vadiminshakov/traderecon/internal/domain"
)

func TestValidateRecords_ValidSet(t *testing.T) {
	records := []domain.TradeRecord{testRecord("T1"), testRecord("T2")}
	require.NoError(t, ValidateRecords(domain.RecordSideBroker, records))
}

func TestValidateRecords_EmptySet(t *testing.T) {
	require.NoError(t, ValidateRecords(domain.RecordSideBroker, nil))
}

func TestValidateRecords_CollectsEveryViolation(t *testing.T) {
	records := []domain.TradeRecord{
		testRecord("T1", func(r *domain.TradeRecord) {
			r.Symbol = ""
			r.Quantity = decimal.Zero
		}),
		testRecord("T2"),
		testRecord("T3", func(r *domain.TradeRecord) {
			r.Currency = ""
		}),
	}

	err := ValidateRecords(domain.RecordSideExchange, records)
	require.Error(t, err)

	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	require.Equal(t, domain.RecordSideExchange, schemaErr.Side)
	require.Len(t, schemaErr.Violations, 3)

	fields := make([]string, 0, len(schemaErr.Violations))
	for _, v := range schemaErr.Violations {
		fields = append(fields, v.Field)
	}
	require.ElementsMatch(t, []string{FieldSymbol, FieldQuantity, FieldCurrency}, fields)
}

func TestValidateRecords_MissingTradeIDReportsPosition(t *testing.T) {
	records := []domain.TradeRecord{
		testRecord(""),
	}

	err := ValidateRecords(domain.RecordSideBroker, records)

	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	require.Equal(t, FieldTradeID, schemaErr.Violations[0].Field)
	require.Equal(t, "record[0]", schemaErr.Violations[0].TradeID)
}

func TestValidateRecords_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.TradeRecord)
		field  string
	}{
		{"negative quantity", func(r *domain.TradeRecord) { r.Quantity = decimal.NewFromInt(-5) }, FieldQuantity},
		{"zero price", func(r *domain.TradeRecord) { r.Price = decimal.Zero }, FieldPrice},
		{"bad side", func(r *domain.TradeRecord) { r.Side = "short" }, FieldSide},
		{"zero time", func(r *domain.TradeRecord) { r.TradeTime = time.Time{} }, FieldTradeTime},
		{"empty account", func(r *domain.TradeRecord) { r.AccountID = "" }, FieldAccountID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := []domain.TradeRecord{testRecord("T1", tt.mutate)}

			err := ValidateRecords(domain.RecordSideBroker, records)

			var schemaErr *SchemaError
			require.True(t, errors.As(err, &schemaErr))
			require.Len(t, schemaErr.Violations, 1)
			require.Equal(t, tt.field, schemaErr.Violations[0].Field)
			require.Equal(t, "T1", schemaErr.Violations[0].TradeID)
		})
	}
}
