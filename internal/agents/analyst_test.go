package agents

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"stock-insight/internal/config"
	apperrors "stock-insight/internal/errors"
	"stock-insight/internal/models"
)

type fakeLLM struct {
	responses []string
	errs      []error
	calls     int
}

func (f *fakeLLM) Complete(ctx context.Context, prompt string) (string, error) {
	return f.CompleteWithSystem(ctx, "", prompt)
}

func (f *fakeLLM) CompleteWithSystem(ctx context.Context, system, prompt string) (string, error) {
	i := f.calls
	f.calls++
	if i < len(f.errs) && f.errs[i] != nil {
		return "", f.errs[i]
	}
	if i < len(f.responses) {
		return f.responses[i], nil
	}
	return f.responses[len(f.responses)-1], nil
}

func testAgentConfig() config.AgentConfig {
	return config.AgentConfig{Model: "gpt-4o-mini", MaxRetries: 3, BackoffSecs: 0}
}

func TestAssessNoClient(t *testing.T) {
	analyst := NewAnalyst(nil, testAgentConfig(), zerolog.Nop())

	_, err := analyst.Assess(context.Background(), &models.AnalysisResult{Symbol: "ACME"})
	if !errors.Is(err, apperrors.ErrNoLLMClient) {
		t.Errorf("got %v, want ErrNoLLMClient", err)
	}
}

func TestAssessRetriesTransientFailure(t *testing.T) {
	llm := &fakeLLM{
		errs:      []error{errors.New("rate limited"), nil},
		responses: []string{"", "ASSESSMENT: BUY\nCONFIDENCE: 80\nKEY_RISK: earnings next week\nREASONING: momentum is strong"},
	}
	analyst := NewAnalyst(llm, testAgentConfig(), zerolog.Nop())

	assessment, err := analyst.Assess(context.Background(), &models.AnalysisResult{Symbol: "ACME"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if llm.calls != 2 {
		t.Errorf("calls: got %d, want 2", llm.calls)
	}
	if assessment.Action != "BUY" {
		t.Errorf("action: got %s, want BUY", assessment.Action)
	}
	if assessment.Confidence != 80 {
		t.Errorf("confidence: got %v, want 80", assessment.Confidence)
	}
	if assessment.KeyRisk != "earnings next week" {
		t.Errorf("key risk: got %q", assessment.KeyRisk)
	}
}

func TestAssessExhaustedRetries(t *testing.T) {
	boom := errors.New("boom")
	llm := &fakeLLM{errs: []error{boom, boom, boom}, responses: []string{""}}
	analyst := NewAnalyst(llm, testAgentConfig(), zerolog.Nop())

	_, err := analyst.Assess(context.Background(), &models.AnalysisResult{Symbol: "ACME"})
	if !errors.Is(err, boom) {
		t.Errorf("got %v, want the last attempt's error", err)
	}
	if llm.calls != 3 {
		t.Errorf("calls: got %d, want 3", llm.calls)
	}
}

func TestParseAssessmentMalformedDegradesToHold(t *testing.T) {
	assessment := parseAssessment("I think you should definitely buy this stock.")

	if assessment.Action != "HOLD" {
		t.Errorf("action: got %s, want HOLD", assessment.Action)
	}
	if assessment.Confidence != 0 {
		t.Errorf("confidence: got %v, want 0", assessment.Confidence)
	}
	if assessment.Raw == "" {
		t.Error("raw response must be preserved")
	}
}

func TestParseAssessmentRejectsOutOfRangeConfidence(t *testing.T) {
	assessment := parseAssessment("ASSESSMENT: SELL\nCONFIDENCE: 250")

	if assessment.Action != "SELL" {
		t.Errorf("action: got %s, want SELL", assessment.Action)
	}
	if assessment.Confidence != 0 {
		t.Errorf("confidence: got %v, want 0", assessment.Confidence)
	}
}
