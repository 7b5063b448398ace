// Package domain defines core data structures used throughout the reconciliation engine.
package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Side direction of a trade.
type Side string

const (
	// SideBuy buy trade.
	SideBuy Side = "buy"
	// SideSell sell trade.
	SideSell Side = "sell"
)

// String returns the string representation.
func (s Side) String() string {
	return string(s)
}

// IsValid checks if the Side value is valid.
func (s Side) IsValid() bool {
	return s == SideBuy || s == SideSell
}

// ParseSide normalizes a raw side string into a Side.
// The second return is false when the input is not a recognized side.
func ParseSide(raw string) (Side, bool) {
	s := Side(strings.ToLower(strings.TrimSpace(raw)))
	return s, s.IsValid()
}

// RecordSide identifies which counterparty reported a record set.
type RecordSide string

const (
	// RecordSideBroker broker-reported records.
	RecordSideBroker RecordSide = "broker"
	// RecordSideExchange exchange-reported records.
	RecordSideExchange RecordSide = "exchange"
)

// String returns the string representation.
func (r RecordSide) String() string {
	return string(r)
}

// TradeRecord one transaction as reported by one side.
type TradeRecord struct {
	// TradeID unique key within one side's record set.
	TradeID string
	// Symbol traded instrument.
	Symbol string
	// Side buy or sell.
	Side Side
	// Quantity traded quantity, must be positive.
	Quantity decimal.Decimal
	// Price execution price, must be positive.
	Price decimal.Decimal
	// Currency ISO currency code.
	Currency string
	// TradeTime execution timestamp.
	TradeTime time.Time
	// AccountID account the trade was booked to.
	AccountID string
}

// Notional returns the quote-currency value of the trade.
func (r *TradeRecord) Notional() decimal.Decimal {
	return r.Quantity.Mul(r.Price)
}
