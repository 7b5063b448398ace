package domain

// ReconciliationResult output of one reconciliation pass.
// Every trade_id appearing in either input set lands in exactly one of
// Matched, MissingInExchange, MissingInBroker or Mismatches.
// Repeated runs over the same inputs produce identical results, so the
// result carries no run-scoped identity; run ids live in the orchestrator.
type ReconciliationResult struct {
	// Matched trade ids present and field-equal within tolerance on both sides.
	Matched []string
	// MissingInExchange trade ids present only in the broker set.
	MissingInExchange []string
	// MissingInBroker trade ids present only in the exchange set.
	MissingInBroker []string
	// Mismatches exceptions for pairs with differing fields, ordered by trade id.
	Mismatches []Exception
	// MissingExceptions exceptions for one-sided trades, ordered by trade id.
	MissingExceptions []Exception
	// Summary aggregate counts and rates.
	Summary Summary
}

// Exceptions returns the full exception list, mismatches first,
// both groups already ordered by trade id.
func (r *ReconciliationResult) Exceptions() []Exception {
	out := make([]Exception, 0, len(r.Mismatches)+len(r.MissingExceptions))
	out = append(out, r.Mismatches...)
	out = append(out, r.MissingExceptions...)
	return out
}

// Summary aggregate statistics for one reconciliation pass.
type Summary struct {
	// TotalTrades distinct trade ids across both input sets.
	TotalTrades int
	MatchedCount   int
	MismatchCount  int
	MissingCount   int
	ExceptionCount int
	// MatchRatePct and ExceptionRatePct are percentages of TotalTrades,
	// rounded to two decimal places.
	MatchRatePct     float64
	ExceptionRatePct float64
	// BySeverity exception counts per severity level.
	BySeverity map[Severity]int
}
