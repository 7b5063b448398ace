package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const validEnrichmentJSON = `{
  "root_cause": {"category": "Timing Difference", "reason": "settlement batch lag", "confidence_score": 0.85},
  "severity": "Medium",
  "fix_suggestion": {"action_type": "AUTO_CORRECT", "suggested_fix": "resync from exchange feed", "estimated_time": "15 minutes"},
  "risk_assessment": {"financial_risk": "Low", "operational_risk": "Medium", "compliance_risk": "Low", "overall_risk_level": "Low"},
  "compliance_note": "no reporting impact",
  "full_explanation": "The exchange reported the fill one batch later than the broker."
}`

func TestNewEnrichment_Valid(t *testing.T) {
	enrichment, err := NewEnrichment(validEnrichmentJSON)
	require.NoError(t, err)

	require.Equal(t, "Timing Difference", enrichment.RootCause.Category)
	require.Equal(t, 0.85, enrichment.RootCause.ConfidenceScore)
	require.Equal(t, "AUTO_CORRECT", enrichment.FixSuggestion.ActionType)
	require.Equal(t, "Low", enrichment.RiskAssessment.OverallRiskLevel)
	require.False(t, enrichment.Fallback)
}

func TestNewEnrichment_StripsCodeFences(t *testing.T) {
	fenced := "```json\n" + validEnrichmentJSON + "\n```"

	enrichment, err := NewEnrichment(fenced)
	require.NoError(t, err)
	require.Equal(t, "Timing Difference", enrichment.RootCause.Category)
}

func TestNewEnrichment_InvalidJSON(t *testing.T) {
	_, err := NewEnrichment("not json at all")
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid JSON structure")
}

func TestNewEnrichment_MissingCategory(t *testing.T) {
	_, err := NewEnrichment(`{"fix_suggestion": {"action_type": "MANUAL_REVIEW"}}`)
	require.Error(t, err)
	require.Contains(t, err.Error(), "root cause category")
}

func TestNewEnrichment_ConfidenceOutOfRange(t *testing.T) {
	_, err := NewEnrichment(`{
	  "root_cause": {"category": "Data Entry Error", "confidence_score": 1.5},
	  "fix_suggestion": {"action_type": "MANUAL_REVIEW"}
	}`)
	require.Error(t, err)
	require.Contains(t, err.Error(), "confidence score out of range")
}

func TestNewEnrichment_MissingActionType(t *testing.T) {
	_, err := NewEnrichment(`{"root_cause": {"category": "Data Entry Error", "confidence_score": 0.5}}`)
	require.Error(t, err)
	require.Contains(t, err.Error(), "fix action type")
}
