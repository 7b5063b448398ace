// Package analyzer enriches reconciliation exceptions with root-cause
// narratives. The engine's own severity classification stays
// authoritative; analyzers only add narrative context.
package analyzer

import (
	"context"

	"github.com/vadiminshakov/traderecon/internal/domain"
)

// ExceptionAnalyzer produces an enrichment for a single exception.
// Implementations must not mutate the exception.
type ExceptionAnalyzer interface {
	Analyze(ctx context.Context, exc domain.Exception) (*domain.Enrichment, error)
}
