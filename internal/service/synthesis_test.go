package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/rayne-rca/backend/internal/model"
)

type fakeGenerator struct {
	response   string
	err        error
	lastPrompt string
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.lastPrompt = prompt
	return f.response, f.err
}

func TestSynthesizeParsesStructuredFields(t *testing.T) {
	gen := &fakeGenerator{response: `The root cause is connection pool exhaustion.

Confidence: high

Recommended Actions:
- Increase pool size to 50
- Add connection timeout alerting`}

	svc := NewSynthesisService(gen)
	result, err := svc.Synthesize(context.Background(), model.AlertRecord{Name: "DB errors"}, "evidence", model.RetrievalResult{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ConfidenceLevel != "high" {
		t.Fatalf("expected high confidence, got %s", result.ConfidenceLevel)
	}
	if len(result.RecommendedActions) != 2 {
		t.Fatalf("expected 2 actions, got %v", result.RecommendedActions)
	}
	if !strings.Contains(result.MarkdownBody, "connection pool exhaustion") {
		t.Fatalf("body lost")
	}
}

func TestSynthesizePromptContents(t *testing.T) {
	gen := &fakeGenerator{response: "analysis"}
	svc := NewSynthesisService(gen)

	rec := model.AlertRecord{Name: "High CPU", Service: "checkout", Environment: "staging", Severity: "P2"}
	retrieval := model.RetrievalResult{Incidents: []model.SimilarIncident{{IncidentID: "INC-9", Score: 0.91, Summary: "same pattern"}}}

	_, err := svc.Synthesize(context.Background(), rec, "### Logs\nsome evidence", retrieval)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, part := range []string{"High CPU", "checkout", "staging", "some evidence", "INC-9"} {
		if !strings.Contains(gen.lastPrompt, part) {
			t.Fatalf("prompt missing %q", part)
		}
	}
}

func TestSynthesizeGeneratorFailure(t *testing.T) {
	svc := NewSynthesisService(&fakeGenerator{err: fmt.Errorf("rate limited")})
	if _, err := svc.Synthesize(context.Background(), model.AlertRecord{}, "", model.RetrievalResult{}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestParseAnalysisDefaults(t *testing.T) {
	// 형식을 지키지 않은 응답도 사용 가능해야 한다
	result := ParseAnalysis("just some freeform text without any structure")
	if result.ConfidenceLevel != "medium" {
		t.Fatalf("expected medium default, got %s", result.ConfidenceLevel)
	}
	if len(result.RecommendedActions) != 0 {
		t.Fatalf("expected no actions, got %v", result.RecommendedActions)
	}
}

func TestParseAnalysisBoldConfidence(t *testing.T) {
	result := ParseAnalysis("summary\n\n**Confidence:** Low\n\nRecommended Actions:\n- do the thing")
	if result.ConfidenceLevel != "low" {
		t.Fatalf("expected low, got %s", result.ConfidenceLevel)
	}
	if len(result.RecommendedActions) != 1 || result.RecommendedActions[0] != "do the thing" {
		t.Fatalf("unexpected actions: %v", result.RecommendedActions)
	}
}

func TestParseRecommendedActionsStopsAtNextSection(t *testing.T) {
	raw := `analysis

Recommended Actions:
- first action
- second action

## Appendix
- not an action`
	result := ParseAnalysis(raw)
	if len(result.RecommendedActions) != 2 {
		t.Fatalf("expected section boundary respected, got %v", result.RecommendedActions)
	}
}
