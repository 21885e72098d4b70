// Datadog 웹훅 페이로드 및 정규화된 알림 레코드 정의
// handler, service 레이어에서 공통으로 사용하기 때문에 model 레이어에 별도로 정의

package model

// AlertWebhook - 인바운드 알림 웹훅 페이로드
//
// 통합/버전에 따라 필드 구성이 다르기 때문에 표준 소문자 필드와
// Terraform 웹훅 템플릿의 대문자 커스텀 필드를 모두 수용한다.
// 알 수 없는 필드는 Raw에 그대로 보존된다 (forward-compat).
type AlertWebhook struct {
	// 표준 Datadog 웹훅 필드
	AlertID     int64    `json:"alert_id"`
	AlertTitle  string   `json:"alert_title"`
	AlertStatus string   `json:"alert_status"` // "Alert", "Warn", "No Data", "OK"
	MonitorID   int64    `json:"monitor_id"`
	MonitorName string   `json:"monitor_name"`
	MonitorType string   `json:"monitor_type"`
	Priority    string   `json:"priority"`
	Tags        []string `json:"tags"`
	Hostname    string   `json:"hostname"`
	Service     string   `json:"service"`
	Scope       string   `json:"scope"`
	Link        string   `json:"link"`

	// Terraform 웹훅 템플릿의 커스텀 대문자 필드
	// 표준 필드가 비어 있을 때 이 값들로 채워진다
	AlertState      string `json:"ALERT_STATE"`
	AlertTitleUpper string `json:"ALERT_TITLE"`
	ApplicationTeam string `json:"APPLICATION_TEAM"`
	Environment     string `json:"ENVIRONMENT"`
	Urgency         string `json:"URGENCY"`

	// 파싱하지 않은 원본 페이로드 (알 수 없는 통합 필드 보존용)
	Raw map[string]any `json:"-"`
}

// AlertRecord - 정규화된 canonical 알림 레코드
//
// 웹훅 수신 시 1회 생성되며 이후 불변. 파이프라인 전 구간에서
// 이 레코드만 참조한다.
type AlertRecord struct {
	ID          string         `json:"alertId"`
	Name        string         `json:"name"`
	Status      string         `json:"status"` // triggered | warn | no_data | recovered
	Scope       []string       `json:"scope"`  // key:value 태그 목록 (순서 유지)
	Host        string         `json:"host,omitempty"`
	Service     string         `json:"service"`
	Environment string         `json:"environment"`
	Severity    string         `json:"severity"` // P2 ~ P5
	Kind        string         `json:"kind"`     // incident | anomaly
	MonitorID   int64          `json:"monitorId"`
	Link        string         `json:"link,omitempty"`
	Raw         map[string]any `json:"-"`
}

// Alert 상태 canonical 값
const (
	StatusTriggered = "triggered"
	StatusWarn      = "warn"
	StatusNoData    = "no_data"
	StatusRecovered = "recovered"
)

// 알림 종류 (Watchdog 이상 탐지 모니터는 anomaly로 분류)
const (
	KindIncident = "incident"
	KindAnomaly  = "anomaly"
)

// IsRecovery - 복구 웹훅 여부
func (a AlertRecord) IsRecovery() bool {
	return a.Status == StatusRecovered
}
