package analyzer

import (
	"fmt"
	"strings"
	"time"

	"github.com/vadiminshakov/traderecon/internal/domain"
)

// systemPrompt frames the analyzer as a reconciliation analyst and
// pins the response to strict JSON.
const systemPrompt = `You are a Senior Trade Reconciliation Analyst AI specializing in financial compliance and exception resolution.

Your expertise includes:
- Root cause analysis for trade discrepancies
- Risk assessment (financial, operational, compliance)
- Regulatory compliance documentation
- Actionable remediation strategies

Analyze trade exceptions with the precision and professionalism expected in enterprise financial operations. Provide clear, actionable insights suitable for audit documentation and regulatory review.

Output must be valid JSON with complete, professional descriptions. Never use placeholders like "N/A" or empty values.`

const userPromptTemplate = `Analyze the following trade exception and provide a comprehensive professional assessment:

TRADE EXCEPTION DETAILS:
- Trade ID: %s
- Exception Type: %s
- Discrepancy Fields: %s
- Broker System Values: %s
- Exchange System Values: %s

Provide a complete professional analysis in the following JSON structure:

{
    "root_cause": {
        "category": "One of: Data Entry Error | Timing Mismatch | System Synchronization | Rounding Discrepancy | Missing Data | Configuration Issue | Manual Override",
        "reason": "Detailed, professional explanation of the root cause (2-3 sentences, suitable for audit documentation)",
        "confidence_score": 0.0-1.0
    },
    "severity": "High | Medium | Low",
    "fix_suggestion": {
        "action_type": "SQL_UPDATE | API_CALL | MANUAL_REVIEW | ESCALATE",
        "suggested_fix": "Specific, actionable resolution steps (professional language, audit-ready)",
        "estimated_time": "Realistic time estimate (e.g., '30 minutes', '2 hours', '1 business day')"
    },
    "risk_assessment": {
        "financial_risk": "Professional assessment of financial exposure and PnL impact",
        "operational_risk": "Assessment of operational impact on settlement and reconciliation processes",
        "compliance_risk": "Regulatory and audit implications of this exception",
        "overall_risk_level": "Critical | High | Medium | Low"
    },
    "compliance_note": "Single professional sentence suitable for compliance audit logs",
    "full_explanation": "Comprehensive analysis (3-4 sentences) explaining the exception, its business impact, and recommended resolution in professional language suitable for senior management review"
}

Requirements:
- Use professional financial services language
- Provide specific, actionable recommendations
- Never use "N/A", "Unknown", or empty values
- All text must be audit-ready and compliance-suitable
- Be precise and factual based on the data provided`

// buildUserPrompt renders the exception into the analysis request.
func buildUserPrompt(exc domain.Exception) string {
	return fmt.Sprintf(userPromptTemplate,
		exc.TradeID,
		exc.Type,
		formatDiffFields(exc),
		formatRecord(exc.BrokerRecord),
		formatRecord(exc.ExchangeRecord),
	)
}

func formatDiffFields(exc domain.Exception) string {
	if len(exc.FieldDiffs) == 0 {
		return string(exc.Type)
	}
	return strings.Join(exc.DiffFields(), ", ")
}

func formatRecord(r *domain.TradeRecord) string {
	if r == nil {
		return "NOT FOUND"
	}
	return fmt.Sprintf("symbol=%s, side=%s, quantity=%s, price=%s, currency=%s, trade_time=%s, account_id=%s",
		r.Symbol, r.Side, r.Quantity, r.Price, r.Currency, r.TradeTime.Format(time.RFC3339), r.AccountID)
}
