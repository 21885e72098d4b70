// 웹훅 정규화 로직 정의
// 통합/버전마다 다른 페이로드 형태를 canonical AlertRecord로 변환
//
// 처리 흐름:
//  1. 표준 필드가 비어 있으면 Terraform 커스텀 대문자 필드로 채움
//  2. 서비스명 우선순위 체인으로 결정 (APPLICATION_TEAM > 태그 > service > "N/A")
//  3. 심각도/환경 결정 (명시 필드 > 매핑 > 기본값, 절대 빈 값 없음)
//  4. Watchdog 모니터는 anomaly로 분류
//
// 이 파일의 함수들은 전부 순수 함수이며 total - 어떤 입력에도 항상 값을 반환한다.

package service

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rayne-rca/backend/internal/model"
)

// monitorTypePattern - 실제 서비스명이 아니라 모니터 체크 타입인 service 값
// (예: "http-check") - 서비스명 결정에서 제외해야 한다
var monitorTypePattern = regexp.MustCompile(
	`(?i)^(http-check|process-check|tcp-check|dns-check|ssl-check|grpc-check|service-check|custom-check|metric alert|query alert|composite|synthetics|event-v2 alert|watchdog)$`,
)

var applicationTeamPattern = regexp.MustCompile(`application_team:([^,\s]+)`)

var envTagPattern = regexp.MustCompile(`\benv:([^,\s]+)`)

// Normalize - 원본 웹훅 페이로드를 canonical AlertRecord로 변환
func Normalize(w model.AlertWebhook) model.AlertRecord {
	name := w.AlertTitle
	if name == "" {
		name = w.AlertTitleUpper
	}
	if name == "" {
		name = w.MonitorName
	}

	status := canonicalStatus(w)

	record := model.AlertRecord{
		ID:          resolveAlertID(w, name),
		Name:        name,
		Status:      status,
		Scope:       parseScope(w.Scope, w.Tags),
		Host:        w.Hostname,
		Service:     ResolveService(w),
		Environment: ResolveEnvironment(w),
		Severity:    ResolveSeverity(w, status),
		Kind:        resolveKind(w),
		MonitorID:   w.MonitorID,
		Link:        w.Link,
		Raw:         w.Raw,
	}
	return record
}

// resolveAlertID - 알림 식별자 결정 (monitor id > alert id > 이름 기반)
func resolveAlertID(w model.AlertWebhook, name string) string {
	if w.MonitorID != 0 {
		return fmt.Sprintf("%d", w.MonitorID)
	}
	if w.AlertID != 0 {
		return fmt.Sprintf("%d", w.AlertID)
	}
	if name != "" {
		slug := strings.ToLower(name)
		slug = strings.Map(func(r rune) rune {
			if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
				return r
			}
			return '-'
		}, slug)
		return "alert-" + strings.Trim(slug, "-")
	}
	return "alert-unknown"
}

// canonicalStatus - 상태 문자열을 canonical 값으로 변환
// 표준 alert_status가 비어 있으면 ALERT_STATE 커스텀 필드를 사용
func canonicalStatus(w model.AlertWebhook) string {
	status := w.AlertStatus
	if status == "" {
		status = w.AlertState
	}

	switch strings.ToLower(strings.TrimSpace(status)) {
	case "alert", "triggered", "firing", "re-triggered":
		return model.StatusTriggered
	case "warn", "warning":
		return model.StatusWarn
	case "no data", "no_data", "nodata":
		return model.StatusNoData
	case "ok", "recovered", "recovery", "resolved":
		return model.StatusRecovered
	default:
		// 알 수 없는 상태는 트리거로 취급 (분석을 건너뛰는 쪽보다 안전)
		return model.StatusTriggered
	}
}

// ResolveService - 서비스명 우선순위 체인
//
// 커스텀 웹훅 템플릿은 APPLICATION_TEAM에 실제 서비스/팀 이름을 넣는 반면
// 표준 service 필드에는 모니터 체크 타입(예: "http-check")이 들어오는 경우가
// 많다. 우선순위: APPLICATION_TEAM > scope/태그의 application_team >
// service (모니터 타입이 아닐 때만) > "N/A".
func ResolveService(w model.AlertWebhook) string {
	if team := strings.TrimSpace(w.ApplicationTeam); team != "" {
		return team
	}

	if w.Scope != "" {
		if m := applicationTeamPattern.FindStringSubmatch(w.Scope); len(m) > 1 {
			return m[1]
		}
	}

	for _, tag := range w.Tags {
		if strings.HasPrefix(tag, "application_team:") {
			if val := strings.TrimPrefix(tag, "application_team:"); val != "" {
				return val
			}
		}
	}

	if svc := strings.TrimSpace(w.Service); svc != "" && !monitorTypePattern.MatchString(svc) {
		return svc
	}

	return "N/A"
}

// ResolveSeverity - 심각도 결정
// 명시 priority > URGENCY 매핑 > 상태 매핑 > P3. 절대 빈 값을 내지 않는다.
func ResolveSeverity(w model.AlertWebhook, status string) string {
	if p := normalizePriority(w.Priority); p != "" {
		return p
	}

	switch strings.ToLower(strings.TrimSpace(w.Urgency)) {
	case "high", "critical":
		return "P2"
	case "medium", "normal":
		return "P3"
	case "low":
		return "P4"
	}

	switch status {
	case model.StatusTriggered:
		return "P2"
	case model.StatusWarn:
		return "P3"
	case model.StatusNoData:
		return "P4"
	case model.StatusRecovered:
		return "P5"
	}

	return "P3"
}

// normalizePriority - "P2", "p2", "2" 형태를 P2~P5로 정규화
func normalizePriority(priority string) string {
	p := strings.ToUpper(strings.TrimSpace(priority))
	if p == "" {
		return ""
	}
	if !strings.HasPrefix(p, "P") {
		p = "P" + p
	}
	switch p {
	case "P1", "P2", "P3", "P4", "P5":
		return p
	}
	return ""
}

// ResolveEnvironment - 환경 결정
// 명시 필드 > scope/태그의 env: > "production". "N/A"는 절대 반환하지 않는다.
func ResolveEnvironment(w model.AlertWebhook) string {
	if env := strings.TrimSpace(w.Environment); env != "" {
		return env
	}

	if w.Scope != "" {
		if m := envTagPattern.FindStringSubmatch(w.Scope); len(m) > 1 {
			return m[1]
		}
	}

	for _, tag := range w.Tags {
		if strings.HasPrefix(tag, "env:") {
			if val := strings.TrimPrefix(tag, "env:"); val != "" {
				return val
			}
		}
	}

	return "production"
}

// resolveKind - Watchdog 이상 탐지 모니터 여부 판별
//
// 판별 기준:
//   - monitor_type에 "watchdog" 포함
//   - 모니터 이름/알림 제목에 "watchdog" 포함
//   - source:watchdog, monitor_type:watchdog, created_by:watchdog 태그
func resolveKind(w model.AlertWebhook) string {
	if strings.Contains(strings.ToLower(w.MonitorType), "watchdog") {
		return model.KindAnomaly
	}
	if strings.Contains(strings.ToLower(w.MonitorName), "watchdog") {
		return model.KindAnomaly
	}
	if strings.Contains(strings.ToLower(w.AlertTitle), "watchdog") ||
		strings.Contains(strings.ToLower(w.AlertTitleUpper), "watchdog") {
		return model.KindAnomaly
	}
	for _, tag := range w.Tags {
		switch strings.ToLower(tag) {
		case "source:watchdog", "monitor_type:watchdog", "created_by:watchdog":
			return model.KindAnomaly
		}
	}
	return model.KindIncident
}

// parseScope - scope 문자열과 태그 목록을 순서 유지하며 key:value 목록으로 병합
// 중복은 첫 등장만 유지한다
func parseScope(scope string, tags []string) []string {
	var out []string
	seen := make(map[string]struct{})

	add := func(entry string) {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			return
		}
		if _, ok := seen[entry]; ok {
			return
		}
		seen[entry] = struct{}{}
		out = append(out, entry)
	}

	for _, part := range strings.Split(scope, ",") {
		add(part)
	}
	for _, tag := range tags {
		add(tag)
	}
	return out
}
