package recon

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vadiminshakov/traderecon/internal/domain"
)

func newTestEngine() *Engine {
	return NewEngine(zap.NewNop(), DefaultTolerances(), DefaultThresholds())
}

func TestEngine_EqualPairMatches(t *testing.T) {
	engine := newTestEngine()

	broker := []domain.TradeRecord{testRecord("T1")}
	exchange := []domain.TradeRecord{testRecord("T1")}

	result, err := engine.Reconcile(broker, exchange)
	require.NoError(t, err)

	require.Equal(t, []string{"T1"}, result.Matched)
	require.Empty(t, result.Mismatches)
	require.Empty(t, result.MissingInExchange)
	require.Empty(t, result.MissingInBroker)
	require.Equal(t, 1, result.Summary.TotalTrades)
	require.Equal(t, 100.0, result.Summary.MatchRatePct)
}

func TestEngine_QuantityMismatchBeyondLargeThresholdIsHigh(t *testing.T) {
	engine := newTestEngine()

	broker := []domain.TradeRecord{testRecord("T2")}
	exchange := []domain.TradeRecord{testRecord("T2", func(r *domain.TradeRecord) {
		r.Quantity = decimal.NewFromInt(105)
	})}

	result, err := engine.Reconcile(broker, exchange)
	require.NoError(t, err)

	require.Len(t, result.Mismatches, 1)
	exc := result.Mismatches[0]
	require.Equal(t, domain.ExceptionMismatch, exc.Type)
	require.Equal(t, domain.SeverityHigh, exc.Severity)
	require.Equal(t, []domain.FieldDiff{{Field: FieldQuantity, Broker: "100", Exchange: "105"}}, exc.FieldDiffs)
	require.NotNil(t, exc.BrokerRecord)
	require.NotNil(t, exc.ExchangeRecord)
}

func TestEngine_MissingInExchangeIsHigh(t *testing.T) {
	engine := newTestEngine()

	broker := []domain.TradeRecord{testRecord("T3")}

	result, err := engine.Reconcile(broker, nil)
	require.NoError(t, err)

	require.Equal(t, []string{"T3"}, result.MissingInExchange)
	require.Len(t, result.MissingExceptions, 1)

	exc := result.MissingExceptions[0]
	require.Equal(t, domain.ExceptionMissingInExchange, exc.Type)
	require.Equal(t, domain.SeverityHigh, exc.Severity)
	require.NotNil(t, exc.BrokerRecord)
	require.Nil(t, exc.ExchangeRecord)
}

func TestEngine_DuplicateTradeIDFailsBeforeMatching(t *testing.T) {
	engine := newTestEngine()

	broker := []domain.TradeRecord{testRecord("T4"), testRecord("T4")}
	exchange := []domain.TradeRecord{testRecord("T4")}

	result, err := engine.Reconcile(broker, exchange)
	require.Nil(t, result)

	var dupErr *DuplicateKeyError
	require.True(t, errors.As(err, &dupErr))
	require.Equal(t, "T4", dupErr.TradeID)
}

func TestEngine_SchemaErrorBeforeComparison(t *testing.T) {
	engine := newTestEngine()

	broker := []domain.TradeRecord{testRecord("T1", func(r *domain.TradeRecord) {
		r.Quantity = decimal.Zero
	})}

	result, err := engine.Reconcile(broker, nil)
	require.Nil(t, result)

	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	require.Equal(t, domain.RecordSideBroker, schemaErr.Side)
}

func TestEngine_PartitionInvariant(t *testing.T) {
	engine := newTestEngine()

	broker := []domain.TradeRecord{
		testRecord("T1"),
		testRecord("T2", func(r *domain.TradeRecord) { r.Price = decimal.NewFromInt(60) }),
		testRecord("T3"),
		testRecord("T5", func(r *domain.TradeRecord) { r.TradeTime = testTradeTime.Add(time.Minute) }),
	}
	exchange := []domain.TradeRecord{
		testRecord("T1"),
		testRecord("T2"),
		testRecord("T4"),
		testRecord("T5"),
	}

	result, err := engine.Reconcile(broker, exchange)
	require.NoError(t, err)

	seen := make(map[string]int)
	for _, id := range result.Matched {
		seen[id]++
	}
	for _, id := range result.MissingInExchange {
		seen[id]++
	}
	for _, id := range result.MissingInBroker {
		seen[id]++
	}
	for _, exc := range result.Mismatches {
		seen[exc.TradeID]++
	}

	require.Len(t, seen, 5, "every distinct trade id appears")
	for id, count := range seen {
		require.Equal(t, 1, count, "trade id %s double-counted", id)
	}
	require.Equal(t, 5, result.Summary.TotalTrades)
	require.Equal(t,
		result.Summary.TotalTrades,
		result.Summary.MatchedCount+result.Summary.MismatchCount+result.Summary.MissingCount)
}

func TestEngine_SeverityDistribution(t *testing.T) {
	engine := newTestEngine()

	broker := []domain.TradeRecord{
		// High: 10% price deviation
		testRecord("T1", func(r *domain.TradeRecord) { r.Price = decimal.NewFromInt(100) }),
		// Medium: 0.1% price deviation
		testRecord("T2", func(r *domain.TradeRecord) { r.Price = decimal.NewFromInt(10000) }),
		// Low: time drift only
		testRecord("T3"),
		// High: missing in exchange, notional 5000
		testRecord("T4"),
	}
	exchange := []domain.TradeRecord{
		testRecord("T1", func(r *domain.TradeRecord) { r.Price = decimal.NewFromInt(110) }),
		testRecord("T2", func(r *domain.TradeRecord) { r.Price = decimal.NewFromInt(10010) }),
		testRecord("T3", func(r *domain.TradeRecord) { r.TradeTime = testTradeTime.Add(time.Hour) }),
	}

	result, err := engine.Reconcile(broker, exchange)
	require.NoError(t, err)

	require.Equal(t, 2, result.Summary.BySeverity[domain.SeverityHigh])
	require.Equal(t, 1, result.Summary.BySeverity[domain.SeverityMedium])
	require.Equal(t, 1, result.Summary.BySeverity[domain.SeverityLow])
	require.Equal(t, 4, result.Summary.ExceptionCount)
}

func TestEngine_Idempotence(t *testing.T) {
	engine := newTestEngine()

	broker := []domain.TradeRecord{
		testRecord("T1"),
		testRecord("T2", func(r *domain.TradeRecord) { r.Price = decimal.NewFromInt(70) }),
		testRecord("T3"),
	}
	exchange := []domain.TradeRecord{
		testRecord("T2"),
		testRecord("T4"),
	}

	first, err := engine.Reconcile(broker, exchange)
	require.NoError(t, err)

	second, err := engine.Reconcile(broker, exchange)
	require.NoError(t, err)

	require.Equal(t, first, second)
}

func TestEngine_MissingExceptionsOrderedAcrossSides(t *testing.T) {
	engine := newTestEngine()

	broker := []domain.TradeRecord{testRecord("T2"), testRecord("T9")}
	exchange := []domain.TradeRecord{testRecord("T5")}

	result, err := engine.Reconcile(broker, exchange)
	require.NoError(t, err)

	ids := make([]string, 0, len(result.MissingExceptions))
	for _, exc := range result.MissingExceptions {
		ids = append(ids, exc.TradeID)
	}
	require.Equal(t, []string{"T2", "T5", "T9"}, ids)
}

func TestEngine_EmptyInputs(t *testing.T) {
	engine := newTestEngine()

	result, err := engine.Reconcile(nil, nil)
	require.NoError(t, err)

	require.Equal(t, 0, result.Summary.TotalTrades)
	require.Equal(t, 0.0, result.Summary.MatchRatePct)
	require.Empty(t, result.Exceptions())
}
