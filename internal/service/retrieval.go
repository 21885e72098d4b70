// 유사 과거 장애 검색 서비스
//
// 알림 시그니처 텍스트를 임베딩하여 지식 저장소에서 코사인 유사도
// 기준 top-K 검색을 수행한다. 임베딩/검색 실패는 빈 결과로 강등되며
// 파이프라인을 중단시키지 않는다.

package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/rayne-rca/backend/internal/model"
)

const (
	// SimilarityThreshold - 이 값 미만 매치는 결과에서 제외
	SimilarityThreshold = 0.70

	// DefaultTopK - 검색 상한 (3~5 권장 범위의 중간값)
	DefaultTopK = 4

	// 자동화 검토 플래그 기준: 유사도 0.90 이상 매치 3건 이상
	automationScoreFloor = 0.90
	automationMatchCount = 3
)

// Embedder - 텍스트 임베딩 인터페이스 (genai 클라이언트가 구현)
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, string, error)
}

// SimilaritySearcher - 벡터 검색 인터페이스 (pgvector 저장소가 구현)
type SimilaritySearcher interface {
	SearchSimilarIncidents(ctx context.Context, vector []float32, topK int) ([]model.SimilarIncident, error)
}

// RetrievalService 구조체 정의
type RetrievalService struct {
	embedder Embedder
	searcher SimilaritySearcher
	topK     int
}

// RetrievalService 객체 생성
func NewRetrievalService(embedder Embedder, searcher SimilaritySearcher) *RetrievalService {
	return &RetrievalService{
		embedder: embedder,
		searcher: searcher,
		topK:     DefaultTopK,
	}
}

// BuildSignature - 임베딩 입력용 알림 시그니처 텍스트
//
// 저장 시와 검색 시 동일한 형식을 사용해야 유사도가 의미를 가진다.
// 시간값 등 매번 달라지는 필드는 포함하지 않는다.
func BuildSignature(rec model.AlertRecord) string {
	parts := []string{
		"alert: " + rec.Name,
		"service: " + rec.Service,
		"environment: " + rec.Environment,
		"severity: " + rec.Severity,
		"status: " + rec.Status,
	}
	if rec.Host != "" {
		parts = append(parts, "host: "+rec.Host)
	}
	if len(rec.Scope) > 0 {
		parts = append(parts, "scope: "+strings.Join(rec.Scope, " "))
	}
	return strings.Join(parts, "\n")
}

// Retrieve - 유사 과거 장애 검색
//
// 실패 시 (빈 RetrievalResult, nil)을 반환한다. 검색 불가는 신규 장애와
// 동일하게 취급되어야 하므로 에러를 전파하지 않는다.
func (s *RetrievalService) Retrieve(ctx context.Context, rec model.AlertRecord) model.RetrievalResult {
	vector, _, err := s.embedder.EmbedText(ctx, BuildSignature(rec))
	if err != nil {
		log.Printf("[Retrieval] Embedding failed for alert %s: %v", rec.ID, err)
		return model.RetrievalResult{}
	}

	matches, err := s.searcher.SearchSimilarIncidents(ctx, vector, s.topK)
	if err != nil {
		log.Printf("[Retrieval] Vector search failed for alert %s: %v", rec.ID, err)
		return model.RetrievalResult{}
	}

	// threshold 미만 매치 제거 (저장소는 top-K만 반환, 필터는 여기서)
	filtered := matches[:0]
	strong := 0
	for _, m := range matches {
		if m.Score < SimilarityThreshold {
			continue
		}
		if m.Score >= automationScoreFloor {
			strong++
		}
		filtered = append(filtered, m)
	}

	result := model.RetrievalResult{
		Incidents:        filtered,
		AutomationReview: strong >= automationMatchCount,
	}
	if result.AutomationReview {
		log.Printf("[Retrieval] Alert %s flagged for automation review (%d matches >= %.2f)",
			rec.ID, strong, automationScoreFloor)
	}
	return result
}

// RenderKnownIncidents - 프롬프트용 유사 장애 텍스트
func RenderKnownIncidents(retrieval model.RetrievalResult) string {
	if len(retrieval.Incidents) == 0 {
		return "No similar past incidents are known."
	}
	var b strings.Builder
	for _, inc := range retrieval.Incidents {
		fmt.Fprintf(&b, "- [%s] similarity %.2f: %s", inc.IncidentID, inc.Score, inc.Summary)
		if inc.Resolution != "" {
			fmt.Fprintf(&b, " (resolution: %s)", inc.Resolution)
		}
		b.WriteString("\n")
	}
	return b.String()
}
