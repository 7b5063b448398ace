// Package source loads trade records for one side of a
// reconciliation pass. The engine itself only accepts already-parsed
// records; sources own format concerns.
package source

import (
	"context"

	"github.com/vadiminshakov/traderecon/internal/domain"
)

// RecordSource provides one side's trade records.
type RecordSource interface {
	Records(ctx context.Context) ([]domain.TradeRecord, error)
}
