package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/rayne-rca/backend/internal/model"
)

type fakeEmbedder struct {
	vector []float32
	err    error
}

func (f *fakeEmbedder) EmbedText(ctx context.Context, text string) ([]float32, string, error) {
	return f.vector, "text-embedding-004", f.err
}

type fakeSearcher struct {
	matches []model.SimilarIncident
	err     error
}

func (f *fakeSearcher) SearchSimilarIncidents(ctx context.Context, vector []float32, topK int) ([]model.SimilarIncident, error) {
	return f.matches, f.err
}

func TestRetrieveFiltersThreshold(t *testing.T) {
	svc := NewRetrievalService(
		&fakeEmbedder{vector: []float32{0.1}},
		&fakeSearcher{matches: []model.SimilarIncident{
			{IncidentID: "INC-1", Score: 0.95},
			{IncidentID: "INC-2", Score: 0.71},
			{IncidentID: "INC-3", Score: 0.69}, // threshold 미만
		}},
	)

	result := svc.Retrieve(context.Background(), model.AlertRecord{ID: "1"})
	if len(result.Incidents) != 2 {
		t.Fatalf("expected 2 matches above threshold, got %d", len(result.Incidents))
	}
	if result.AutomationReview {
		t.Fatalf("one strong match must not flag automation review")
	}
}

func TestRetrieveAutomationReview(t *testing.T) {
	svc := NewRetrievalService(
		&fakeEmbedder{vector: []float32{0.1}},
		&fakeSearcher{matches: []model.SimilarIncident{
			{IncidentID: "INC-1", Score: 0.95},
			{IncidentID: "INC-2", Score: 0.92},
			{IncidentID: "INC-3", Score: 0.90},
		}},
	)

	result := svc.Retrieve(context.Background(), model.AlertRecord{ID: "1"})
	if !result.AutomationReview {
		t.Fatalf("three matches >= 0.90 should flag automation review")
	}
}

func TestRetrieveTwoStrongMatchesNotFlagged(t *testing.T) {
	// 0.90 이상 매치가 2건뿐이면 자동화 검토 대상이 아니다 (기준: 3건 이상)
	svc := NewRetrievalService(
		&fakeEmbedder{vector: []float32{0.1}},
		&fakeSearcher{matches: []model.SimilarIncident{
			{IncidentID: "INC-1", Score: 0.95},
			{IncidentID: "INC-2", Score: 0.91},
			{IncidentID: "INC-3", Score: 0.85},
		}},
	)

	result := svc.Retrieve(context.Background(), model.AlertRecord{ID: "1"})
	if len(result.Incidents) != 3 {
		t.Fatalf("expected 3 matches above threshold, got %d", len(result.Incidents))
	}
	if result.AutomationReview {
		t.Fatalf("two strong matches must not flag automation review")
	}
}

func TestRetrieveEmbeddingFailure(t *testing.T) {
	// 임베딩 실패는 빈 결과로 강등된다
	svc := NewRetrievalService(
		&fakeEmbedder{err: fmt.Errorf("quota exceeded")},
		&fakeSearcher{matches: []model.SimilarIncident{{IncidentID: "INC-1", Score: 0.99}}},
	)

	result := svc.Retrieve(context.Background(), model.AlertRecord{ID: "1"})
	if len(result.Incidents) != 0 || result.AutomationReview {
		t.Fatalf("expected empty result on embedding failure, got %+v", result)
	}
}

func TestRetrieveSearchFailure(t *testing.T) {
	svc := NewRetrievalService(
		&fakeEmbedder{vector: []float32{0.1}},
		&fakeSearcher{err: fmt.Errorf("connection refused")},
	)

	result := svc.Retrieve(context.Background(), model.AlertRecord{ID: "1"})
	if len(result.Incidents) != 0 {
		t.Fatalf("expected empty result on search failure")
	}
}

func TestBuildSignatureDeterministic(t *testing.T) {
	rec := model.AlertRecord{
		Name: "High CPU", Service: "checkout", Environment: "production",
		Severity: "P2", Status: model.StatusTriggered, Host: "web-01",
		Scope: []string{"env:production", "host:web-01"},
	}

	a := BuildSignature(rec)
	b := BuildSignature(rec)
	if a != b {
		t.Fatalf("signature must be deterministic")
	}
	for _, field := range []string{"High CPU", "checkout", "production", "P2", "web-01"} {
		if !strings.Contains(a, field) {
			t.Fatalf("signature missing %q:\n%s", field, a)
		}
	}
}
