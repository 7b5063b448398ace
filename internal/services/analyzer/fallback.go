package analyzer

import (
	"context"
	"fmt"

	"github.com/vadiminshakov/traderecon/internal/domain"
)

// FallbackAnalyzer produces deterministic enrichments without any
// network dependency. It is the default analyzer when no LLM is
// configured.
type FallbackAnalyzer struct{}

// NewFallbackAnalyzer creates a FallbackAnalyzer.
func NewFallbackAnalyzer() *FallbackAnalyzer {
	return &FallbackAnalyzer{}
}

// Analyze returns the deterministic fallback enrichment.
func (f *FallbackAnalyzer) Analyze(_ context.Context, exc domain.Exception) (*domain.Enrichment, error) {
	return FallbackEnrichment(exc), nil
}

// FallbackEnrichment builds an audit-ready enrichment that routes the
// exception to manual review. Used when automated analysis is
// unavailable or fails.
func FallbackEnrichment(exc domain.Exception) *domain.Enrichment {
	return &domain.Enrichment{
		RootCause: domain.RootCause{
			Category: "System Synchronization",
			Reason: fmt.Sprintf("Trade %s exhibits a %s requiring manual investigation. "+
				"Automated analysis was unable to complete. A qualified analyst should review "+
				"the broker and exchange records to determine the specific cause of the discrepancy.",
				exc.TradeID, exc.Type),
			ConfidenceScore: 0.5,
		},
		Severity: string(exc.Severity),
		FixSuggestion: domain.FixSuggestion{
			ActionType: "MANUAL_REVIEW",
			SuggestedFix: fmt.Sprintf("Escalate trade %s to the reconciliation team for detailed investigation. "+
				"Compare source documents from both broker and exchange systems to identify the root cause. "+
				"Document findings in the trade exception log and implement necessary corrections.", exc.TradeID),
			EstimatedTime: "2-4 hours",
		},
		RiskAssessment: domain.RiskAssessment{
			FinancialRisk:    "Moderate financial exposure pending investigation. Potential PnL impact should be assessed during manual review.",
			OperationalRisk:  "Standard operational review required. May impact settlement timing if not resolved within SLA.",
			ComplianceRisk:   "Exception properly logged for audit trail. Requires resolution documentation for regulatory compliance.",
			OverallRiskLevel: string(exc.Severity),
		},
		ComplianceNote: fmt.Sprintf("Trade %s flagged for manual review due to automated analysis limitations. "+
			"Investigation initiated and documented in exception tracking system.", exc.TradeID),
		FullExplanation: fmt.Sprintf("Trade %s has been flagged as a %s requiring manual investigation. "+
			"The exception has been properly documented and escalated to the reconciliation team for resolution. "+
			"Standard review procedures will be followed to ensure compliance and accurate recordkeeping.",
			exc.TradeID, exc.Type),
		Model:    "fallback",
		Fallback: true,
	}
}
