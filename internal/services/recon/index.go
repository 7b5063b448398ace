package recon

import (
	"sort"

	"github.com/vadiminshakov/traderecon/internal/domain"
)

// PairingIndex trade_id keyed lookup over both record sets.
// The three id slices are sorted and disjoint: together they cover
// every trade id appearing in either input set exactly once.
type PairingIndex struct {
	Broker   map[string]*domain.TradeRecord
	Exchange map[string]*domain.TradeRecord
	// CommonIDs ids present on both sides.
	CommonIDs []string
	// OnlyBroker ids present only in the broker set.
	OnlyBroker []string
	// OnlyExchange ids present only in the exchange set.
	OnlyExchange []string
}

// BuildPairingIndex indexes both sides by trade_id in linear time.
// A repeated trade_id within one side makes the join ambiguous and
// fails with a *DuplicateKeyError before any matching occurs.
func BuildPairingIndex(broker, exchange []domain.TradeRecord) (*PairingIndex, error) {
	brokerIdx, err := indexSide(domain.RecordSideBroker, broker)
	if err != nil {
		return nil, err
	}

	exchangeIdx, err := indexSide(domain.RecordSideExchange, exchange)
	if err != nil {
		return nil, err
	}

	idx := &PairingIndex{
		Broker:   brokerIdx,
		Exchange: exchangeIdx,
	}

	for id := range brokerIdx {
		if _, ok := exchangeIdx[id]; ok {
			idx.CommonIDs = append(idx.CommonIDs, id)
		} else {
			idx.OnlyBroker = append(idx.OnlyBroker, id)
		}
	}

	for id := range exchangeIdx {
		if _, ok := brokerIdx[id]; !ok {
			idx.OnlyExchange = append(idx.OnlyExchange, id)
		}
	}

	// map iteration order is random; sort for deterministic output.
	sort.Strings(idx.CommonIDs)
	sort.Strings(idx.OnlyBroker)
	sort.Strings(idx.OnlyExchange)

	return idx, nil
}

func indexSide(side domain.RecordSide, records []domain.TradeRecord) (map[string]*domain.TradeRecord, error) {
	index := make(map[string]*domain.TradeRecord, len(records))

	for i := range records {
		r := &records[i]
		if _, exists := index[r.TradeID]; exists {
			return nil, &DuplicateKeyError{Side: side, TradeID: r.TradeID}
		}
		index[r.TradeID] = r
	}

	return index, nil
}
