// Package template provides investigation document body rendering.
//
// 조사 문서는 markdown 본문 하나로 구성되며 섹션 순서는 고정:
//
//	헤더 (상태 배지 + 퀵링크) → 알림 요약 → 수집 증거 → AI 분석 →
//	유사 과거 장애 → 푸터
//
// 복구 시에는 본문을 파싱하지 않고 상태 배지 문자열 치환 + 해결 섹션
// append만 수행한다 (ApplyResolution).
package template

import (
	"fmt"
	"strings"
	"time"

	"github.com/rayne-rca/backend/internal/model"
)

// 상태 배지 - ApplyResolution이 문자열 치환으로 교체하므로 정확히 일치해야 함
const (
	activeBadge   = "**Status:** 🔴 ACTIVE"
	resolvedBadge = "**Status:** 🟢 RESOLVED"
)

// DocumentTitle - 조사 문서 제목
func DocumentTitle(rec model.AlertRecord) string {
	prefix := "[RCA]"
	if rec.Kind == model.KindAnomaly {
		prefix = "[RCA][Anomaly]"
	}
	return fmt.Sprintf("%s %s (%s)", prefix, rec.Name, rec.ID)
}

// RenderInvestigation - 조사 문서 전체 본문 생성
func RenderInvestigation(rec model.AlertRecord, evidence string, analysis model.AnalysisResult, retrieval model.RetrievalResult, generatedAt time.Time) string {
	var b strings.Builder

	// --- 헤더 ---
	b.WriteString(activeBadge)
	b.WriteString("\n\n")
	if rec.Link != "" {
		fmt.Fprintf(&b, "[Alert](%s)", rec.Link)
		if rec.MonitorID != 0 {
			fmt.Fprintf(&b, " | Monitor `%d`", rec.MonitorID)
		}
		b.WriteString("\n\n")
	}

	// --- 알림 요약 ---
	b.WriteString("## Alert Summary\n\n")
	fmt.Fprintf(&b, "| Field | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Alert ID | %s |\n", rec.ID)
	fmt.Fprintf(&b, "| Service | %s |\n", rec.Service)
	fmt.Fprintf(&b, "| Environment | %s |\n", rec.Environment)
	fmt.Fprintf(&b, "| Severity | %s |\n", rec.Severity)
	fmt.Fprintf(&b, "| Kind | %s |\n", rec.Kind)
	if rec.Host != "" {
		fmt.Fprintf(&b, "| Host | %s |\n", rec.Host)
	}
	if len(rec.Scope) > 0 {
		fmt.Fprintf(&b, "| Scope | %s |\n", strings.Join(rec.Scope, ", "))
	}
	b.WriteString("\n")

	// --- 수집 증거 ---
	b.WriteString("## Collected Evidence\n\n")
	b.WriteString(evidence)
	b.WriteString("\n")

	// --- AI 분석 ---
	b.WriteString("## Root Cause Analysis\n\n")
	if analysis.ConfidenceLevel != "" {
		fmt.Fprintf(&b, "_Confidence: %s_\n\n", analysis.ConfidenceLevel)
	}
	b.WriteString(analysis.MarkdownBody)
	b.WriteString("\n")
	if len(analysis.RecommendedActions) > 0 {
		b.WriteString("\n### Recommended Actions\n\n")
		for _, action := range analysis.RecommendedActions {
			fmt.Fprintf(&b, "- %s\n", action)
		}
	}
	b.WriteString("\n")

	// --- 유사 과거 장애 ---
	b.WriteString(renderSimilarIncidents(retrieval))

	// --- 푸터 ---
	fmt.Fprintf(&b, "\n---\n_Generated automatically at %s_\n", generatedAt.UTC().Format(time.RFC3339))

	return b.String()
}

// renderSimilarIncidents - 유사 과거 장애 섹션
// 매치가 없어도 섹션 자체는 항상 포함한다 (섹션 구조 고정)
func renderSimilarIncidents(retrieval model.RetrievalResult) string {
	var b strings.Builder
	b.WriteString("## Similar Past Incidents\n\n")

	if len(retrieval.Incidents) == 0 {
		b.WriteString("No similar past incidents found.\n")
		return b.String()
	}

	if retrieval.AutomationReview {
		b.WriteString("⚠️ **Recurring pattern detected** - this alert is a candidate for automation review.\n\n")
	}

	for _, inc := range retrieval.Incidents {
		fmt.Fprintf(&b, "### Incident %s (similarity %.2f)\n\n", inc.IncidentID, inc.Score)
		if inc.Summary != "" {
			fmt.Fprintf(&b, "%s\n\n", inc.Summary)
		}
		if inc.Resolution != "" {
			fmt.Fprintf(&b, "**Resolution:** %s\n\n", inc.Resolution)
		}
		if inc.DocumentLink != "" {
			fmt.Fprintf(&b, "[Investigation document](%s)\n\n", inc.DocumentLink)
		}
	}
	return b.String()
}

// ResolvedTitle - 복구 시 문서 제목에 해결 표시 추가
// 이미 표시된 제목은 그대로 반환한다 (중복 해결 처리 대비)
func ResolvedTitle(title string) string {
	if strings.Contains(title, "[Resolved]") {
		return title
	}
	if strings.HasPrefix(title, "[RCA]") {
		return strings.Replace(title, "[RCA]", "[RCA][Resolved]", 1)
	}
	return "[Resolved] " + title
}

// ApplyResolution - 복구 시 문서 본문 갱신
//
// 기존 본문을 파싱하지 않는다. 상태 배지를 치환하고 해결 섹션을
// 끝에 append만 한다 (분석/증거 섹션은 그대로 보존).
func ApplyResolution(body string, resolvedAt time.Time, note string) string {
	updated := strings.NewReplacer(activeBadge, resolvedBadge).Replace(body)

	var b strings.Builder
	b.WriteString(updated)
	b.WriteString("\n\n## Resolution\n\n")
	fmt.Fprintf(&b, "Recovered at %s.\n", resolvedAt.UTC().Format(time.RFC3339))
	if note != "" {
		fmt.Fprintf(&b, "\n%s\n", note)
	}
	return b.String()
}

// RenderFailureBody - 파이프라인 실패 시 발행하는 최소 실패 문서 본문
// 분석은 없지만 알림 자체는 추적 가능해야 한다
func RenderFailureBody(rec model.AlertRecord, failure string, occurredAt time.Time) string {
	var b strings.Builder
	b.WriteString(activeBadge)
	b.WriteString("\n\n")
	b.WriteString("## Analysis Unavailable\n\n")
	fmt.Fprintf(&b, "Automated analysis for alert `%s` (%s) failed:\n\n", rec.ID, rec.Name)
	fmt.Fprintf(&b, "```\n%s\n```\n\n", failure)
	fmt.Fprintf(&b, "| Field | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Service | %s |\n", rec.Service)
	fmt.Fprintf(&b, "| Environment | %s |\n", rec.Environment)
	fmt.Fprintf(&b, "| Severity | %s |\n", rec.Severity)
	fmt.Fprintf(&b, "\n---\n_Generated automatically at %s_\n", occurredAt.UTC().Format(time.RFC3339))
	return b.String()
}
