package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/vadiminshakov/traderecon/internal/domain"
	"github.com/vadiminshakov/traderecon/pkg/retrier"
)

const (
	defaultTimeout = 60 * time.Second

	// deterministic-ish narratives; the original engine used 0.2.
	analysisTemperature = 0.2
	analysisMaxTokens   = 2500
)

// LLMAnalyzer analyzes exceptions through an OpenAI-compatible
// chat-completions API. A fallback model is tried when the primary
// model fails; if both fail the deterministic fallback enrichment is
// returned instead of an error, so enrichment never aborts a run.
type LLMAnalyzer struct {
	apiURL        string
	apiKey        string
	model         string
	fallbackModel string
	httpClient    *http.Client
	retrier       *retrier.Retrier
	l             *zap.Logger
}

// NewLLMAnalyzer creates an analyzer client for OpenAI-compatible APIs.
func NewLLMAnalyzer(l *zap.Logger, apiURL, apiKey, model, fallbackModel string) *LLMAnalyzer {
	return &LLMAnalyzer{
		apiURL:        apiURL,
		apiKey:        apiKey,
		model:         model,
		fallbackModel: fallbackModel,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		retrier: retrier.New(
			retrier.WithMaxRetries(2),
			retrier.WithInitialInterval(2*time.Second),
		),
		l: l,
	}
}

// chatRequest represents the request structure for OpenAI-compatible APIs
type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []message       `json:"messages"`
	Temperature    float64         `json:"temperature,omitempty"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse represents the response structure from OpenAI-compatible APIs
type chatResponse struct {
	ID      string    `json:"id"`
	Object  string    `json:"object"`
	Created int64     `json:"created"`
	Model   string    `json:"model"`
	Choices []choice  `json:"choices"`
	Error   *apiError `json:"error,omitempty"`
}

type choice struct {
	Index        int     `json:"index"`
	Message      message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code"`
}

// Analyze sends the exception to the LLM and parses the enrichment.
func (a *LLMAnalyzer) Analyze(ctx context.Context, exc domain.Exception) (*domain.Enrichment, error) {
	if a.apiKey == "" {
		return nil, errors.New("LLM API key is empty")
	}

	userPrompt := buildUserPrompt(exc)

	for _, model := range []string{a.model, a.fallbackModel} {
		if model == "" {
			continue
		}

		enrichment, err := a.analyzeWithModel(ctx, model, userPrompt)
		if err != nil {
			a.l.Warn("Exception analysis failed",
				zap.Error(err),
				zap.String("trade_id", exc.TradeID),
				zap.String("model", model))
			continue
		}

		enrichment.Model = model

		return enrichment, nil
	}

	fallback := FallbackEnrichment(exc)
	a.l.Warn("All models failed, using fallback analysis",
		zap.String("trade_id", exc.TradeID))

	return fallback, nil
}

func (a *LLMAnalyzer) analyzeWithModel(ctx context.Context, model, userPrompt string) (*domain.Enrichment, error) {
	reqBody := chatRequest{
		Model: model,
		Messages: []message{
			{
				Role:    "system",
				Content: systemPrompt,
			},
			{
				Role:    "user",
				Content: userPrompt,
			},
		},
		Temperature:    analysisTemperature,
		MaxTokens:      analysisMaxTokens,
		ResponseFormat: &responseFormat{Type: "json_object"},
	}

	response, err := retrier.DoWithData(a.retrier, ctx, func(ctx context.Context) (string, error) {
		return a.sendRequest(ctx, reqBody)
	})
	if err != nil {
		return nil, err
	}

	return domain.NewEnrichment(response)
}

func (a *LLMAnalyzer) sendRequest(ctx context.Context, reqBody chatRequest) (string, error) {
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, "POST", a.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", errors.Wrap(err, "failed to create HTTP request")
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", a.apiKey))

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "HTTP request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "failed to read response body")
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("LLM API returned status %d: %s", resp.StatusCode, string(body))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", errors.Wrap(err, "failed to unmarshal response")
	}

	if chatResp.Error != nil {
		return "", fmt.Errorf("LLM API error: %s (type: %s, code: %s)",
			chatResp.Error.Message, chatResp.Error.Type, chatResp.Error.Code)
	}

	if len(chatResp.Choices) == 0 {
		return "", errors.New("LLM API returned no choices")
	}

	return chatResp.Choices[0].Message.Content, nil
}
