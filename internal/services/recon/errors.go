package recon

import (
	"fmt"
	"strings"

	"github.com/vadiminshakov/traderecon/internal/domain"
)

// SchemaViolation one required-field failure in an input record.
type SchemaViolation struct {
	// Field name of the missing or invalid field.
	Field string
	// TradeID offending record id, or a positional "record[N]" marker
	// when the id itself is absent.
	TradeID string
	// Reason short description of the failure.
	Reason string
}

func (v SchemaViolation) String() string {
	return fmt.Sprintf("%s: field %q %s", v.TradeID, v.Field, v.Reason)
}

// SchemaError fatal input-validation failure for one record set.
// Validation is all-or-nothing: the error carries every violation
// found in the set so the caller can correct and resubmit once.
type SchemaError struct {
	Side       domain.RecordSide
	Violations []SchemaViolation
}

func (e *SchemaError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.String())
	}
	return fmt.Sprintf("schema validation failed for %s records: %s", e.Side, strings.Join(parts, "; "))
}

// DuplicateKeyError fatal pairing failure: a trade_id repeats within
// one side's record set, making the join ambiguous.
type DuplicateKeyError struct {
	Side    domain.RecordSide
	TradeID string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate trade_id %q in %s records", e.TradeID, e.Side)
}
