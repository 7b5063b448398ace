package recon

import (
	"fmt"

	"github.com/vadiminshakov/traderecon/internal/domain"
)

// Comparable field names, in canonical comparison order.
const (
	FieldTradeID   = "trade_id"
	FieldSymbol    = "symbol"
	FieldSide      = "side"
	FieldQuantity  = "quantity"
	FieldPrice     = "price"
	FieldCurrency  = "currency"
	FieldAccountID = "account_id"
	FieldTradeTime = "trade_time"
)

// comparedFields lists the fields the comparator inspects, in the
// order diffs are reported.
var comparedFields = []string{
	FieldSymbol,
	FieldSide,
	FieldQuantity,
	FieldPrice,
	FieldCurrency,
	FieldAccountID,
	FieldTradeTime,
}

// ValidateRecords checks that every record in the set carries the
// required fields with acceptable values. It returns a *SchemaError
// listing every violation found; no comparison may run on a set that
// failed validation.
func ValidateRecords(side domain.RecordSide, records []domain.TradeRecord) error {
	var violations []SchemaViolation

	for i, r := range records {
		id := r.TradeID
		if id == "" {
			id = fmt.Sprintf("record[%d]", i)
			violations = append(violations, SchemaViolation{
				Field:   FieldTradeID,
				TradeID: id,
				Reason:  "is empty",
			})
		}

		if r.Symbol == "" {
			violations = append(violations, SchemaViolation{Field: FieldSymbol, TradeID: id, Reason: "is empty"})
		}
		if !r.Side.IsValid() {
			violations = append(violations, SchemaViolation{
				Field:   FieldSide,
				TradeID: id,
				Reason:  fmt.Sprintf("must be buy or sell, got %q", r.Side),
			})
		}
		if !r.Quantity.IsPositive() {
			violations = append(violations, SchemaViolation{
				Field:   FieldQuantity,
				TradeID: id,
				Reason:  fmt.Sprintf("must be positive, got %s", r.Quantity),
			})
		}
		if !r.Price.IsPositive() {
			violations = append(violations, SchemaViolation{
				Field:   FieldPrice,
				TradeID: id,
				Reason:  fmt.Sprintf("must be positive, got %s", r.Price),
			})
		}
		if r.Currency == "" {
			violations = append(violations, SchemaViolation{Field: FieldCurrency, TradeID: id, Reason: "is empty"})
		}
		if r.TradeTime.IsZero() {
			violations = append(violations, SchemaViolation{Field: FieldTradeTime, TradeID: id, Reason: "is not set"})
		}
		if r.AccountID == "" {
			violations = append(violations, SchemaViolation{Field: FieldAccountID, TradeID: id, Reason: "is empty"})
		}
	}

	if len(violations) > 0 {
		return &SchemaError{Side: side, Violations: violations}
	}

	return nil
}
