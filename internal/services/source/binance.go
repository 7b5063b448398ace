package source

import (
	"context"
	"strconv"
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/vadiminshakov/traderecon/internal/domain"
)

// BinanceSource pulls the exchange-reported side of a reconciliation
// from the Binance account trade history.
type BinanceSource struct {
	client *binance.Client
	// symbol instrument to pull history for, e.g. BTCUSDT.
	symbol string
	// currency quote currency reported in the records.
	currency string
	// accountID account the records are attributed to.
	accountID string
}

// NewBinanceSource creates a source over the given Binance client.
func NewBinanceSource(client *binance.Client, symbol, currency, accountID string) *BinanceSource {
	return &BinanceSource{
		client:    client,
		symbol:    symbol,
		currency:  currency,
		accountID: accountID,
	}
}

// Records fetches the account trade history and maps it to
// TradeRecords.
func (s *BinanceSource) Records(ctx context.Context) ([]domain.TradeRecord, error) {
	trades, err := s.client.NewListTradesService().Symbol(s.symbol).Do(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list trades for %s", s.symbol)
	}

	records := make([]domain.TradeRecord, 0, len(trades))
	for _, t := range trades {
		record, err := s.mapTrade(t)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, nil
}

func (s *BinanceSource) mapTrade(t *binance.TradeV3) (domain.TradeRecord, error) {
	quantity, err := decimal.NewFromString(t.Quantity)
	if err != nil {
		return domain.TradeRecord{}, errors.Wrapf(err, "invalid quantity for trade %d", t.ID)
	}

	price, err := decimal.NewFromString(t.Price)
	if err != nil {
		return domain.TradeRecord{}, errors.Wrapf(err, "invalid price for trade %d", t.ID)
	}

	side := domain.SideSell
	if t.IsBuyer {
		side = domain.SideBuy
	}

	return domain.TradeRecord{
		TradeID:   strconv.FormatInt(t.ID, 10),
		Symbol:    t.Symbol,
		Side:      side,
		Quantity:  quantity,
		Price:     price,
		Currency:  s.currency,
		TradeTime: time.UnixMilli(t.Time).UTC(),
		AccountID: s.accountID,
	}, nil
}
