package domain

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
)

// Enrichment per-exception analysis produced by an ExceptionAnalyzer.
// It augments an Exception with narrative fields; the engine's own
// severity classification stays authoritative, the analyzer's severity
// is informational only.
type Enrichment struct {
	RootCause      RootCause      `json:"root_cause"`
	Severity       string         `json:"severity"`
	FixSuggestion  FixSuggestion  `json:"fix_suggestion"`
	RiskAssessment RiskAssessment `json:"risk_assessment"`
	ComplianceNote string         `json:"compliance_note"`
	// FullExplanation management-level narrative of the exception.
	FullExplanation string `json:"full_explanation"`
	// Model names the model that produced the analysis, or "fallback".
	Model string `json:"-"`
	// Fallback marks enrichments produced without an analyzer response.
	Fallback bool `json:"-"`
}

// RootCause analyzed origin of the discrepancy.
type RootCause struct {
	Category string `json:"category"`
	// Reason audit-ready explanation of the cause.
	Reason          string  `json:"reason"`
	ConfidenceScore float64 `json:"confidence_score"`
}

// FixSuggestion actionable resolution proposal.
type FixSuggestion struct {
	ActionType    string `json:"action_type"`
	SuggestedFix  string `json:"suggested_fix"`
	EstimatedTime string `json:"estimated_time"`
}

// RiskAssessment impact assessment across risk dimensions.
type RiskAssessment struct {
	FinancialRisk    string `json:"financial_risk"`
	OperationalRisk  string `json:"operational_risk"`
	ComplianceRisk   string `json:"compliance_risk"`
	OverallRiskLevel string `json:"overall_risk_level"`
}

// NewEnrichment builds a validated enrichment from a raw analyzer response.
func NewEnrichment(raw string) (*Enrichment, error) {
	response := sanitizeEnrichmentPayload(raw)

	if !json.Valid([]byte(response)) {
		return nil, errors.New("invalid JSON structure")
	}

	var enrichment Enrichment
	if err := json.Unmarshal([]byte(response), &enrichment); err != nil {
		return nil, errors.Wrap(err, "JSON unmarshal error")
	}

	if err := enrichment.Validate(); err != nil {
		return nil, err
	}

	return &enrichment, nil
}

func sanitizeEnrichmentPayload(raw string) string {
	response := strings.TrimSpace(raw)
	response = strings.TrimPrefix(response, "```json")
	response = strings.TrimPrefix(response, "```")
	response = strings.TrimSuffix(response, "```")
	return strings.TrimSpace(response)
}

// Validate checks the enrichment for required narrative fields.
func (e *Enrichment) Validate() error {
	if e.RootCause.Category == "" {
		return errors.New("enrichment missing root cause category")
	}
	if e.RootCause.ConfidenceScore < 0 || e.RootCause.ConfidenceScore > 1 {
		return errors.Errorf("confidence score out of range: %f", e.RootCause.ConfidenceScore)
	}
	if e.FixSuggestion.ActionType == "" {
		return errors.New("enrichment missing fix action type")
	}
	return nil
}
