// Package recon implements the reconciliation matching and exception
// classification engine: schema validation, trade_id pairing,
// tolerance-based field comparison, severity classification and
// result aggregation.
package recon

import (
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/vadiminshakov/traderecon/internal/domain"
)

// Engine runs one reconciliation pass over a broker and an exchange
// record set. It holds no mutable state between calls, so independent
// passes may run concurrently on separate goroutines.
type Engine struct {
	comparator *Comparator
	classifier *Classifier
	l          *zap.Logger
}

// NewEngine creates an engine with the given tolerance and severity
// policies.
func NewEngine(l *zap.Logger, tolerances Tolerances, thresholds Thresholds) *Engine {
	return &Engine{
		comparator: NewComparator(tolerances),
		classifier: NewClassifier(thresholds),
		l:          l,
	}
}

// Reconcile validates both record sets, pairs them by trade_id,
// compares every matched pair and classifies every discrepancy.
// The returned result partitions every trade id from either input
// into exactly one of matched, missing or mismatched, with all
// slices ordered by trade id so repeated runs over the same inputs
// are identical.
func (e *Engine) Reconcile(broker, exchange []domain.TradeRecord) (*domain.ReconciliationResult, error) {
	if err := ValidateRecords(domain.RecordSideBroker, broker); err != nil {
		return nil, err
	}
	if err := ValidateRecords(domain.RecordSideExchange, exchange); err != nil {
		return nil, err
	}

	idx, err := BuildPairingIndex(broker, exchange)
	if err != nil {
		return nil, err
	}

	e.l.Info("Pairing index built",
		zap.Int("common", len(idx.CommonIDs)),
		zap.Int("only_broker", len(idx.OnlyBroker)),
		zap.Int("only_exchange", len(idx.OnlyExchange)))

	result := &domain.ReconciliationResult{}

	for _, id := range idx.CommonIDs {
		brokerRecord := idx.Broker[id]
		exchangeRecord := idx.Exchange[id]

		diffs := e.comparator.Compare(brokerRecord, exchangeRecord)
		if len(diffs) == 0 {
			result.Matched = append(result.Matched, id)
			continue
		}

		result.Mismatches = append(result.Mismatches, domain.Exception{
			TradeID:        id,
			Type:           domain.ExceptionMismatch,
			FieldDiffs:     diffs,
			Severity:       e.classifier.ClassifyMismatch(brokerRecord, exchangeRecord, diffs),
			BrokerRecord:   brokerRecord,
			ExchangeRecord: exchangeRecord,
		})
	}

	for _, id := range idx.OnlyBroker {
		record := idx.Broker[id]
		result.MissingInExchange = append(result.MissingInExchange, id)
		result.MissingExceptions = append(result.MissingExceptions, domain.Exception{
			TradeID:      id,
			Type:         domain.ExceptionMissingInExchange,
			Severity:     e.classifier.ClassifyMissing(record),
			BrokerRecord: record,
		})
	}

	for _, id := range idx.OnlyExchange {
		record := idx.Exchange[id]
		result.MissingInBroker = append(result.MissingInBroker, id)
		result.MissingExceptions = append(result.MissingExceptions, domain.Exception{
			TradeID:        id,
			Type:           domain.ExceptionMissingInBroker,
			Severity:       e.classifier.ClassifyMissing(record),
			ExchangeRecord: record,
		})
	}

	sortMissingExceptions(result)

	result.Summary = summarize(result)

	e.l.Info("Reconciliation pass complete",
		zap.Int("total", result.Summary.TotalTrades),
		zap.Int("matched", result.Summary.MatchedCount),
		zap.Int("mismatches", result.Summary.MismatchCount),
		zap.Int("missing", result.Summary.MissingCount))

	return result, nil
}

// sortMissingExceptions restores trade_id order across the two missing
// groups; the per-group appends above are already ordered, but the
// combined slice interleaves broker and exchange sides.
func sortMissingExceptions(result *domain.ReconciliationResult) {
	missing := result.MissingExceptions
	sort.Slice(missing, func(i, j int) bool {
		return missing[i].TradeID < missing[j].TradeID
	})
}

func summarize(result *domain.ReconciliationResult) domain.Summary {
	summary := domain.Summary{
		MatchedCount:  len(result.Matched),
		MismatchCount: len(result.Mismatches),
		MissingCount:  len(result.MissingInExchange) + len(result.MissingInBroker),
		BySeverity:    make(map[domain.Severity]int),
	}

	summary.ExceptionCount = summary.MismatchCount + summary.MissingCount
	summary.TotalTrades = summary.MatchedCount + summary.ExceptionCount

	for _, exc := range result.Mismatches {
		summary.BySeverity[exc.Severity]++
	}
	for _, exc := range result.MissingExceptions {
		summary.BySeverity[exc.Severity]++
	}

	if summary.TotalTrades > 0 {
		summary.MatchRatePct = roundPct(float64(summary.MatchedCount) / float64(summary.TotalTrades) * 100)
		summary.ExceptionRatePct = roundPct(float64(summary.ExceptionCount) / float64(summary.TotalTrades) * 100)
	}

	return summary
}

func roundPct(v float64) float64 {
	return math.Round(v*100) / 100
}
