package recon

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/vadiminshakov/traderecon/internal/domain"
)

func TestBuildPairingIndex_SetOperations(t *testing.T) {
	broker := []domain.TradeRecord{testRecord("T1"), testRecord("T2"), testRecord("T3")}
	exchange := []domain.TradeRecord{testRecord("T2"), testRecord("T3"), testRecord("T4")}

	idx, err := BuildPairingIndex(broker, exchange)
	require.NoError(t, err)

	require.Equal(t, []string{"T2", "T3"}, idx.CommonIDs)
	require.Equal(t, []string{"T1"}, idx.OnlyBroker)
	require.Equal(t, []string{"T4"}, idx.OnlyExchange)
}

func TestBuildPairingIndex_LookupReturnsRecords(t *testing.T) {
	broker := []domain.TradeRecord{testRecord("T1")}
	exchange := []domain.TradeRecord{testRecord("T1")}

	idx, err := BuildPairingIndex(broker, exchange)
	require.NoError(t, err)

	require.NotNil(t, idx.Broker["T1"])
	require.NotNil(t, idx.Exchange["T1"])
	require.Equal(t, "T1", idx.Broker["T1"].TradeID)
}

func TestBuildPairingIndex_DuplicateInBroker(t *testing.T) {
	broker := []domain.TradeRecord{testRecord("T4"), testRecord("T4")}
	exchange := []domain.TradeRecord{testRecord("T1")}

	_, err := BuildPairingIndex(broker, exchange)
	require.Error(t, err)

	var dupErr *DuplicateKeyError
	require.True(t, errors.As(err, &dupErr))
	require.Equal(t, domain.RecordSideBroker, dupErr.Side)
	require.Equal(t, "T4", dupErr.TradeID)
}

func TestBuildPairingIndex_DuplicateInExchange(t *testing.T) {
	broker := []domain.TradeRecord{testRecord("T1")}
	exchange := []domain.TradeRecord{testRecord("T2"), testRecord("T2")}

	_, err := BuildPairingIndex(broker, exchange)

	var dupErr *DuplicateKeyError
	require.True(t, errors.As(err, &dupErr))
	require.Equal(t, domain.RecordSideExchange, dupErr.Side)
}

func TestBuildPairingIndex_EmptySides(t *testing.T) {
	idx, err := BuildPairingIndex(nil, nil)
	require.NoError(t, err)
	require.Empty(t, idx.CommonIDs)
	require.Empty(t, idx.OnlyBroker)
	require.Empty(t, idx.OnlyExchange)
}
