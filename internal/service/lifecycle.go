// 조사 문서 수명주기 서비스
//
// alert id → 문서 매핑을 프로세스 메모리 레지스트리로 관리한다.
// 문서 상태는 2-상태(Active → Resolved)이며 레지스트리 엔트리는
// 삭제되지 않는다. 해결 전에 같은 alert id로 다시 트리거되면
// 마지막 등록이 이기고 이전 문서는 고아가 된다 (경고 로그).

package service

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/rayne-rca/backend/internal/model"
	"github.com/rayne-rca/backend/internal/template"
)

// DocumentStore - 조사 문서 CRU 인터페이스 (Datadog 노트북 API가 구현)
// 부분 업데이트는 없다 - 수정은 항상 전체 교체
type DocumentStore interface {
	CreateDocument(ctx context.Context, title, body string) (*model.InvestigationDocument, error)
	GetDocument(ctx context.Context, id string) (*model.InvestigationDocument, error)
	ReplaceDocument(ctx context.Context, doc model.InvestigationDocument) error
}

// LifecycleService 구조체 정의
type LifecycleService struct {
	store DocumentStore

	mu       sync.RWMutex
	registry map[string]model.DocumentRegistryEntry
}

// LifecycleService 객체 생성
func NewLifecycleService(store DocumentStore) *LifecycleService {
	return &LifecycleService{
		store:    store,
		registry: make(map[string]model.DocumentRegistryEntry),
	}
}

// Publish - 조사 문서 생성 및 레지스트리 등록
func (s *LifecycleService) Publish(ctx context.Context, rec model.AlertRecord, body string) (model.DocumentRegistryEntry, error) {
	doc, err := s.store.CreateDocument(ctx, template.DocumentTitle(rec), body)
	if err != nil {
		return model.DocumentRegistryEntry{}, fmt.Errorf("failed to publish investigation document: %w", err)
	}

	entry := model.DocumentRegistryEntry{
		AlertID:    rec.ID,
		DocumentID: doc.ID,
		AlertName:  rec.Name,
		Kind:       rec.Kind,
		Status:     model.DocStatusActive,
		Link:       doc.URL,
		CreatedAt:  time.Now().UTC(),
	}

	s.mu.Lock()
	if prev, ok := s.registry[rec.ID]; ok && prev.Status == model.DocStatusActive {
		// 미해결 상태에서 재트리거 - 이전 문서는 고아가 된다
		log.Printf("[Lifecycle] Alert %s re-triggered before resolution, orphaning document %s",
			rec.ID, prev.DocumentID)
	}
	s.registry[rec.ID] = entry
	s.mu.Unlock()

	log.Printf("[Lifecycle] Published investigation document %s for alert %s", doc.ID, rec.ID)
	return entry, nil
}

// Resolve - 복구 웹훅 처리
//
// 레지스트리에서 문서를 찾아 상태 배지를 치환하고 해결 섹션을 덧붙인
// 뒤 전체 교체한다. 등록되지 않은 alert id는 로그만 남기는 no-op
// (서버 재시작으로 레지스트리가 비는 경우가 대표적).
func (s *LifecycleService) Resolve(ctx context.Context, rec model.AlertRecord, note string) (*model.DocumentRegistryEntry, error) {
	s.mu.RLock()
	entry, ok := s.registry[rec.ID]
	s.mu.RUnlock()

	if !ok {
		log.Printf("[Lifecycle] Recovery for unknown alert %s, nothing to resolve", rec.ID)
		return nil, nil
	}
	if entry.Status == model.DocStatusResolved {
		log.Printf("[Lifecycle] Alert %s already resolved, skipping", rec.ID)
		return &entry, nil
	}

	doc, err := s.store.GetDocument(ctx, entry.DocumentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load document %s: %w", entry.DocumentID, err)
	}

	resolvedAt := time.Now().UTC()
	doc.Title = template.ResolvedTitle(doc.Title)
	doc.Body = template.ApplyResolution(doc.Body, resolvedAt, note)
	if err := s.store.ReplaceDocument(ctx, *doc); err != nil {
		return nil, fmt.Errorf("failed to update document %s: %w", entry.DocumentID, err)
	}

	entry.Status = model.DocStatusResolved
	entry.ResolvedAt = &resolvedAt

	s.mu.Lock()
	// 해결 처리 중 재트리거로 엔트리가 교체되었으면 덮어쓰지 않는다
	if current, ok := s.registry[rec.ID]; ok && current.DocumentID == entry.DocumentID {
		s.registry[rec.ID] = entry
	}
	s.mu.Unlock()

	log.Printf("[Lifecycle] Resolved investigation document %s for alert %s", entry.DocumentID, rec.ID)
	return &entry, nil
}

// Snapshot - 레지스트리 스냅샷 (최신 생성 순)
func (s *LifecycleService) Snapshot() []model.DocumentRegistryEntry {
	s.mu.RLock()
	entries := make([]model.DocumentRegistryEntry, 0, len(s.registry))
	for _, e := range s.registry {
		entries = append(entries, e)
	}
	s.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	return entries
}

// Lookup - alert id로 레지스트리 조회
func (s *LifecycleService) Lookup(alertID string) (model.DocumentRegistryEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.registry[alertID]
	return entry, ok
}
