package domain

// ExceptionType kind of detected discrepancy.
type ExceptionType string

const (
	// ExceptionMissingInExchange trade present only on the broker side.
	ExceptionMissingInExchange ExceptionType = "missing_in_exchange"
	// ExceptionMissingInBroker trade present only on the exchange side.
	ExceptionMissingInBroker ExceptionType = "missing_in_broker"
	// ExceptionMismatch trade present on both sides with differing fields.
	ExceptionMismatch ExceptionType = "mismatch"
)

// String returns the string representation.
func (e ExceptionType) String() string {
	return string(e)
}

// IsMissing reports whether the exception is an existence discrepancy.
func (e ExceptionType) IsMissing() bool {
	return e == ExceptionMissingInExchange || e == ExceptionMissingInBroker
}

// Severity business-impact classification of an exception.
type Severity string

const (
	SeverityHigh   Severity = "High"
	SeverityMedium Severity = "Medium"
	SeverityLow    Severity = "Low"
)

// String returns the string representation.
func (s Severity) String() string {
	return string(s)
}

// FieldDiff one differing field for a matched trade pair.
// Values are rendered as strings so decimal and temporal diffs
// carry through exports uniformly.
type FieldDiff struct {
	Field    string
	Broker   string
	Exchange string
}

// Exception one detected discrepancy between the two sides.
// Created once per reconciliation pass and immutable thereafter;
// downstream enrichment never mutates the original classification.
type Exception struct {
	TradeID string
	Type    ExceptionType
	// FieldDiffs lists every differing field in canonical field order.
	// Populated only for mismatch exceptions.
	FieldDiffs []FieldDiff
	Severity   Severity
	// BrokerRecord and ExchangeRecord carry whichever side exists.
	BrokerRecord   *TradeRecord
	ExchangeRecord *TradeRecord
}

// DiffFields returns the names of the differing fields.
func (e *Exception) DiffFields() []string {
	fields := make([]string, 0, len(e.FieldDiffs))
	for _, d := range e.FieldDiffs {
		fields = append(fields, d.Field)
	}
	return fields
}

// HasDiff reports whether the named field differs.
func (e *Exception) HasDiff(field string) bool {
	for _, d := range e.FieldDiffs {
		if d.Field == field {
			return true
		}
	}
	return false
}
