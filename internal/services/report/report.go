// Package report renders reconciliation results into audit artifacts:
// a plain-text compliance report and a CSV export of the exception
// list. Functions here are pure over their inputs; file I/O belongs
// to the caller.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vadiminshakov/traderecon/internal/domain"
)

const separator = "================================================================================"

// AnalyzedException pairs an exception with its enrichment for
// rendering.
type AnalyzedException struct {
	Exception  domain.Exception
	Enrichment *domain.Enrichment
}

// Compliance renders the plain-text compliance audit report.
// Plain professional text only, no markup, so the output survives
// PDF conversion and audit tooling untouched.
func Compliance(runID uuid.UUID, generatedAt time.Time, result *domain.ReconciliationResult, analyzed []AnalyzedException) string {
	var b strings.Builder

	summary := result.Summary

	b.WriteString("TRADE RECONCILIATION COMPLIANCE AUDIT REPORT\n\n")
	fmt.Fprintf(&b, "Run ID: %s\n", runID)
	fmt.Fprintf(&b, "Report Generated: %s\n\n", generatedAt.Format("January 02, 2006 at 15:04:05"))
	b.WriteString(separator + "\n\n")

	b.WriteString("EXECUTIVE SUMMARY\n\n")
	b.WriteString("This compliance audit report summarizes the results of automated trade reconciliation " +
		"between broker and exchange systems. The analysis identified discrepancies requiring attention " +
		"and provides actionable recommendations for resolution.\n\n")

	b.WriteString("RECONCILIATION METRICS\n\n")
	fmt.Fprintf(&b, "Total Trades Processed: %d\n", summary.TotalTrades)
	fmt.Fprintf(&b, "Successfully Matched: %d (%.1f%%)\n", summary.MatchedCount, summary.MatchRatePct)
	fmt.Fprintf(&b, "Exceptions Detected: %d\n", summary.ExceptionCount)
	fmt.Fprintf(&b, "  - Data Mismatches: %d\n", summary.MismatchCount)
	fmt.Fprintf(&b, "  - Missing Trades: %d\n\n", summary.MissingCount)

	b.WriteString("EXCEPTION SEVERITY DISTRIBUTION\n\n")
	fmt.Fprintf(&b, "High Severity: %d exceptions (immediate action required)\n", summary.BySeverity[domain.SeverityHigh])
	fmt.Fprintf(&b, "Medium Severity: %d exceptions (review within 24 hours)\n", summary.BySeverity[domain.SeverityMedium])
	fmt.Fprintf(&b, "Low Severity: %d exceptions (standard review cycle)\n\n", summary.BySeverity[domain.SeverityLow])

	b.WriteString(separator + "\n\n")
	b.WriteString("RISK ASSESSMENT\n\n")
	writeRiskAssessment(&b, summary)

	b.WriteString(separator + "\n\n")
	b.WriteString("DETAILED EXCEPTION ANALYSIS\n\n")
	for i, a := range analyzed {
		writeExceptionBlock(&b, i+1, a)
	}

	b.WriteString(separator + "\n\n")
	b.WriteString("REGULATORY COMPLIANCE STATEMENT\n\n")
	if summary.BySeverity[domain.SeverityHigh] > 0 {
		b.WriteString("All identified exceptions have been documented in accordance with internal control " +
			"frameworks and regulatory requirements. High-severity exceptions require immediate attention " +
			"and must be resolved within prescribed regulatory timeframes. Detailed resolution documentation " +
			"is mandatory for audit purposes.\n\n")
	} else {
		b.WriteString("All identified exceptions have been documented in accordance with internal control " +
			"frameworks and regulatory requirements. All exceptions are within acceptable risk thresholds " +
			"and standard review procedures apply.\n\n")
	}

	b.WriteString(separator + "\n\nEND OF REPORT\n")

	return b.String()
}

func writeRiskAssessment(b *strings.Builder, summary domain.Summary) {
	high := summary.BySeverity[domain.SeverityHigh]
	medium := summary.BySeverity[domain.SeverityMedium]

	switch {
	case high > 0:
		b.WriteString("Financial Risk: HIGH - Immediate review required\n")
		b.WriteString("Operational Risk: Requires immediate attention\n")
		b.WriteString("Compliance Status: ATTENTION REQUIRED\n\n")
		b.WriteString("Overall Assessment: Critical exceptions detected. Immediate action plan required.\n\n")
	case medium > 0:
		b.WriteString("Financial Risk: MODERATE - Monitor closely\n")
		b.WriteString("Operational Risk: Within acceptable thresholds\n")
		b.WriteString("Compliance Status: ACCEPTABLE WITH MONITORING\n\n")
		b.WriteString("Overall Assessment: All exceptions within manageable risk parameters. Continue monitoring.\n\n")
	default:
		b.WriteString("Financial Risk: LOW - Standard controls adequate\n")
		b.WriteString("Operational Risk: Within acceptable thresholds\n")
		b.WriteString("Compliance Status: ACCEPTABLE WITH MONITORING\n\n")
		b.WriteString("Overall Assessment: All exceptions within manageable risk parameters. Continue monitoring.\n\n")
	}
}

func writeExceptionBlock(b *strings.Builder, n int, a AnalyzedException) {
	exc := a.Exception
	enr := a.Enrichment

	fmt.Fprintf(b, "EXCEPTION %d: Trade ID %s\n\n", n, exc.TradeID)
	fmt.Fprintf(b, "Severity Level: %s\n", exc.Severity)
	fmt.Fprintf(b, "Exception Type: %s\n", exc.Type)
	if len(exc.FieldDiffs) > 0 {
		fmt.Fprintf(b, "Discrepancy Fields: %s\n", strings.Join(exc.DiffFields(), ", "))
		for _, d := range exc.FieldDiffs {
			fmt.Fprintf(b, "  %s: broker=%s exchange=%s\n", d.Field, d.Broker, d.Exchange)
		}
	}

	if enr != nil {
		fmt.Fprintf(b, "Root Cause Category: %s\n", enr.RootCause.Category)
		fmt.Fprintf(b, "Confidence Score: %.0f%%\n\n", enr.RootCause.ConfidenceScore*100)
		fmt.Fprintf(b, "Root Cause Analysis:\n%s\n\n", sanitizeReportText(enr.RootCause.Reason))
		b.WriteString("Risk Impact:\n")
		fmt.Fprintf(b, "- Financial: %s\n", sanitizeReportText(enr.RiskAssessment.FinancialRisk))
		fmt.Fprintf(b, "- Operational: %s\n", sanitizeReportText(enr.RiskAssessment.OperationalRisk))
		fmt.Fprintf(b, "- Compliance: %s\n\n", sanitizeReportText(enr.RiskAssessment.ComplianceRisk))
		b.WriteString("Recommended Resolution:\n")
		fmt.Fprintf(b, "Action Type: %s\n", enr.FixSuggestion.ActionType)
		fmt.Fprintf(b, "Resolution Steps: %s\n", sanitizeReportText(enr.FixSuggestion.SuggestedFix))
		fmt.Fprintf(b, "Estimated Time: %s\n\n", enr.FixSuggestion.EstimatedTime)
		fmt.Fprintf(b, "Compliance Note:\n%s\n", sanitizeReportText(enr.ComplianceNote))
	}

	b.WriteString("\n" + strings.Repeat("-", 80) + "\n\n")
}

// sanitizeReportText strips characters known to break downstream PDF
// rendering of the plain-text report.
func sanitizeReportText(s string) string {
	s = strings.ReplaceAll(s, "P&L", "PnL")
	return strings.ReplaceAll(s, "&", "and")
}
