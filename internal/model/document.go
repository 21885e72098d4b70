package model

import "time"

// 조사 문서 상태 (레지스트리 기준 2-상태 머신)
const (
	DocStatusActive   = "Active"
	DocStatusResolved = "Resolved"
)

// DocumentRegistryEntry - alert id → 조사 문서 매핑
//
// 프로세스 메모리에만 존재하는 캐시. 생성 후 복구 시 Resolved로
// 변경되며 삭제되지 않는다. alert id당 라이브 문서는 최대 1개이며
// 해결 전에 같은 alert id로 트리거가 다시 오면 마지막 등록이 이긴다
// (이전 문서는 고아가 됨 - 알려진 한계).
type DocumentRegistryEntry struct {
	AlertID    string     `json:"alertId"`
	DocumentID string     `json:"documentId"`
	AlertName  string     `json:"alertName"`
	Kind       string     `json:"kind"` // incident | anomaly
	Status     string     `json:"status"`
	Link       string     `json:"link"`
	CreatedAt  time.Time  `json:"createdAt"`
	ResolvedAt *time.Time `json:"resolvedAt,omitempty"`
}

// InvestigationDocument - 모니터링 플랫폼에 게시되는 조사 문서
// 플랫폼 API는 부분 패치를 지원하지 않으므로 수정은 항상 전체 교체
type InvestigationDocument struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Body  string `json:"body"` // markdown
	URL   string `json:"url"`
}
