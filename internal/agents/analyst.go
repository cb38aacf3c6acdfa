package agents

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"stock-insight/internal/config"
	apperrors "stock-insight/internal/errors"
	"stock-insight/internal/models"
	"stock-insight/internal/prompt"
	"stock-insight/pkg/utils"
)

// Assessment is the analyst's structured reading of an analysis result.
type Assessment struct {
	Action     string  // BUY, SELL, or HOLD
	Confidence float64 // [0, 100]
	KeyRisk    string
	Reasoning  string
	Raw        string
}

// Analyst asks a language model to interpret an analysis result, retrying
// transient failures with linear backoff.
type Analyst struct {
	client LLMClient
	cfg    config.AgentConfig
	logger zerolog.Logger
}

// NewAnalyst creates a new analyst. client may be nil; Assess then fails
// with ErrNoLLMClient.
func NewAnalyst(client LLMClient, cfg config.AgentConfig, logger zerolog.Logger) *Analyst {
	return &Analyst{
		client: client,
		cfg:    cfg,
		logger: logger.With().Str("component", "analyst").Logger(),
	}
}

// Assess renders the result as a context prompt and asks the model for a
// structured assessment. Transient failures retry with exponential backoff
// starting at backoff_secs; ctx cancellation cuts the wait short.
func (a *Analyst) Assess(ctx context.Context, result *models.AnalysisResult) (*Assessment, error) {
	if a.client == nil {
		return nil, apperrors.ErrNoLLMClient
	}

	analysisContext := prompt.BuildAnalysisContext(result)
	retryCfg := utils.RetryConfig{
		MaxAttempts:   a.cfg.MaxRetries,
		InitialDelay:  time.Duration(a.cfg.BackoffSecs) * time.Second,
		MaxDelay:      time.Minute,
		BackoffFactor: 2.0,
	}

	response, err := utils.RetryWithResult(ctx, retryCfg, func() (string, error) {
		resp, err := a.client.CompleteWithSystem(ctx, prompt.AnalystSystemPrompt, analysisContext)
		if err != nil {
			a.logger.Warn().Err(err).
				Str("symbol", result.Symbol).
				Msg("assessment attempt failed")
		}
		return resp, err
	})
	if err != nil {
		return nil, err
	}

	return parseAssessment(response), nil
}

// parseAssessment extracts the pinned response fields. Unrecognized or
// missing fields degrade to a HOLD with the raw response preserved.
func parseAssessment(response string) *Assessment {
	assessment := &Assessment{
		Action: "HOLD",
		Raw:    response,
	}

	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "ASSESSMENT:"):
			action := strings.ToUpper(strings.TrimSpace(strings.TrimPrefix(line, "ASSESSMENT:")))
			if action == "BUY" || action == "SELL" || action == "HOLD" {
				assessment.Action = action
			}
		case strings.HasPrefix(line, "CONFIDENCE:"):
			raw := strings.TrimSpace(strings.TrimPrefix(line, "CONFIDENCE:"))
			if v, err := strconv.ParseFloat(raw, 64); err == nil && v >= 0 && v <= 100 {
				assessment.Confidence = v
			}
		case strings.HasPrefix(line, "KEY_RISK:"):
			assessment.KeyRisk = strings.TrimSpace(strings.TrimPrefix(line, "KEY_RISK:"))
		case strings.HasPrefix(line, "REASONING:"):
			assessment.Reasoning = strings.TrimSpace(strings.TrimPrefix(line, "REASONING:"))
		}
	}

	return assessment
}
