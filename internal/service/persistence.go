// 지식 영속화 서비스
//
// 완료된 분석을 임베딩과 함께 지식 저장소에 append한다.
// 검색 시와 동일한 시그니처 텍스트를 임베딩해야 유사도가 대칭이 된다.
// 영속화 실패는 경고로만 처리된다 - 문서 발행과 응답에 영향 없음.

package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/rayne-rca/backend/internal/model"
)

// EmbeddingWriter - 장애 임베딩 저장 인터페이스 (pgvector 저장소가 구현)
type EmbeddingWriter interface {
	InsertIncidentEmbedding(ctx context.Context, rec model.IncidentEmbeddingRecord) (int64, error)
}

// PersistenceService 구조체 정의
type PersistenceService struct {
	embedder Embedder
	writer   EmbeddingWriter
}

// PersistenceService 객체 생성
func NewPersistenceService(embedder Embedder, writer EmbeddingWriter) *PersistenceService {
	return &PersistenceService{embedder: embedder, writer: writer}
}

// Persist - 분석 결과를 지식 저장소에 저장 (append-only)
func (s *PersistenceService) Persist(ctx context.Context, rec model.AlertRecord, analysis model.AnalysisResult, documentURL string, triggeredAt time.Time) error {
	vector, _, err := s.embedder.EmbedText(ctx, BuildSignature(rec))
	if err != nil {
		return fmt.Errorf("failed to embed incident signature: %w", err)
	}

	record := model.IncidentEmbeddingRecord{
		Vector:             vector,
		AlertID:            rec.ID,
		AlertName:          rec.Name,
		Service:            rec.Service,
		Hostname:           rec.Host,
		Status:             rec.Status,
		AnalysisText:       analysis.MarkdownBody,
		ResolutionActions:  analysis.RecommendedActions,
		TimestampTriggered: triggeredAt,
		DocumentURL:        documentURL,
	}

	id, err := s.writer.InsertIncidentEmbedding(ctx, record)
	if err != nil {
		return fmt.Errorf("failed to persist incident embedding: %w", err)
	}

	log.Printf("[Persistence] Stored incident embedding %d for alert %s", id, rec.ID)
	return nil
}
