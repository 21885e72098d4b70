package model

import "time"

// ContextBundle - 요청 단위로 수집되는 텔레메트리 컨텍스트 묶음
//
// 각 필드는 독립적으로 optional. nil은 해당 소스 조회 실패를 의미하며
// 파이프라인 전체의 실패로 이어지지 않는다. 수명은 단일 요청.
type ContextBundle struct {
	Logs    []LogSample
	Events  []PlatformEvent
	Host    *HostSnapshot
	Monitor *MonitorDefinition

	// 조회를 시도했는지 여부 (시도 후 빈 결과와 미시도를 구분)
	LogsFetched    bool
	EventsFetched  bool
	HostFetched    bool
	MonitorFetched bool
}

// LogSample - 최근 에러/경고 로그 샘플
type LogSample struct {
	Timestamp time.Time `json:"timestamp"`
	Status    string    `json:"status"`
	Service   string    `json:"service"`
	Host      string    `json:"host"`
	Message   string    `json:"message"`
}

// PlatformEvent - 모니터링 플랫폼 이벤트
type PlatformEvent struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Text         string    `json:"text"`
	DateHappened time.Time `json:"date_happened"`
	AlertType    string    `json:"alert_type"`
}

// HostSnapshot - 호스트 상태 스냅샷
type HostSnapshot struct {
	Name       string    `json:"name"`
	Up         bool      `json:"up"`
	Apps       []string  `json:"apps"`
	CPUPercent float64   `json:"cpu_percent"`
	LastSeen   time.Time `json:"last_seen"`
}

// MonitorDefinition - 알림을 발생시킨 모니터 정의
type MonitorDefinition struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	Query   string `json:"query"`
	Message string `json:"message"`
}
