// 컨텍스트 수집 서비스
//
// 알림과 관련된 텔레메트리 4종(로그/이벤트/호스트/모니터)을 병렬로
// 조회한다. 전부 best-effort - 개별 조회 실패는 로그만 남기고
// 파이프라인을 계속 진행한다.

package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rayne-rca/backend/internal/model"
)

// ContextSource - 텔레메트리 조회 인터페이스 (Datadog 클라이언트가 구현)
type ContextSource interface {
	SearchLogs(ctx context.Context, query string, from time.Time, limit int) ([]model.LogSample, error)
	RecentEvents(ctx context.Context, start, end time.Time, tags []string) ([]model.PlatformEvent, error)
	GetHost(ctx context.Context, hostname string) (*model.HostSnapshot, error)
	GetMonitor(ctx context.Context, id int64) (*model.MonitorDefinition, error)
}

// ContextService 구조체 정의
type ContextService struct {
	source       ContextSource
	fetchTimeout time.Duration
	logWindow    time.Duration
	logLimit     int
}

// ContextService 객체 생성
func NewContextService(source ContextSource) *ContextService {
	return &ContextService{
		source:       source,
		fetchTimeout: 10 * time.Second,
		logWindow:    30 * time.Minute,
		logLimit:     20,
	}
}

// Aggregate - 알림 관련 컨텍스트를 병렬 수집
//
// 각 소스는 독립 고루틴에서 개별 타임아웃으로 조회된다. 실패한 소스의
// Fetched 플래그는 false로 남아 "조회 실패"와 "조회했으나 빈 결과"를
// 구분할 수 있다. 이 함수 자체는 에러를 반환하지 않는다.
func (s *ContextService) Aggregate(ctx context.Context, rec model.AlertRecord) model.ContextBundle {
	var bundle model.ContextBundle
	now := time.Now()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		fctx, cancel := context.WithTimeout(gctx, s.fetchTimeout)
		defer cancel()

		logs, err := s.source.SearchLogs(fctx, s.logQuery(rec), now.Add(-s.logWindow), s.logLimit)
		if err != nil {
			log.Printf("[Context] Log search failed for alert %s: %v", rec.ID, err)
			return nil
		}
		bundle.Logs = logs
		bundle.LogsFetched = true
		return nil
	})

	g.Go(func() error {
		fctx, cancel := context.WithTimeout(gctx, s.fetchTimeout)
		defer cancel()

		events, err := s.source.RecentEvents(fctx, now.Add(-s.logWindow), now, rec.Scope)
		if err != nil {
			log.Printf("[Context] Event fetch failed for alert %s: %v", rec.ID, err)
			return nil
		}
		bundle.Events = events
		bundle.EventsFetched = true
		return nil
	})

	g.Go(func() error {
		if rec.Host == "" {
			return nil
		}
		fctx, cancel := context.WithTimeout(gctx, s.fetchTimeout)
		defer cancel()

		host, err := s.source.GetHost(fctx, rec.Host)
		if err != nil {
			log.Printf("[Context] Host fetch failed for alert %s: %v", rec.ID, err)
			return nil
		}
		bundle.Host = host
		bundle.HostFetched = true
		return nil
	})

	g.Go(func() error {
		if rec.MonitorID == 0 {
			return nil
		}
		fctx, cancel := context.WithTimeout(gctx, s.fetchTimeout)
		defer cancel()

		monitor, err := s.source.GetMonitor(fctx, rec.MonitorID)
		if err != nil {
			log.Printf("[Context] Monitor fetch failed for alert %s: %v", rec.ID, err)
			return nil
		}
		bundle.Monitor = monitor
		bundle.MonitorFetched = true
		return nil
	})

	// 모든 고루틴이 nil을 반환하므로 에러는 발생하지 않는다
	_ = g.Wait()
	return bundle
}

// logQuery - 로그 검색 쿼리 생성 (서비스/호스트 기준 에러·경고 로그)
func (s *ContextService) logQuery(rec model.AlertRecord) string {
	var parts []string
	if rec.Service != "" && rec.Service != "N/A" {
		parts = append(parts, "service:"+rec.Service)
	}
	if rec.Host != "" {
		parts = append(parts, "host:"+rec.Host)
	}
	parts = append(parts, "status:(error OR warn)")
	return strings.Join(parts, " ")
}

// RenderEvidence - 수집 컨텍스트를 프롬프트/문서용 markdown으로 변환
//
// 섹션 4개는 항상 모두 포함된다. 빈 소스는 생략하지 않고 명시적인
// "no data available" 줄로 표기한다 (섹션 개수 고정).
func RenderEvidence(bundle model.ContextBundle) string {
	var b strings.Builder

	b.WriteString("### Recent Logs\n\n")
	if !bundle.LogsFetched {
		b.WriteString("no data available (source unreachable)\n")
	} else if len(bundle.Logs) == 0 {
		b.WriteString("no data available\n")
	} else {
		for _, l := range bundle.Logs {
			fmt.Fprintf(&b, "- `%s` [%s] %s: %s\n",
				l.Timestamp.UTC().Format(time.RFC3339), l.Status, l.Service, truncate(l.Message, 300))
		}
	}

	b.WriteString("\n### Recent Events\n\n")
	if !bundle.EventsFetched {
		b.WriteString("no data available (source unreachable)\n")
	} else if len(bundle.Events) == 0 {
		b.WriteString("no data available\n")
	} else {
		for _, e := range bundle.Events {
			fmt.Fprintf(&b, "- `%s` [%s] %s\n",
				e.DateHappened.UTC().Format(time.RFC3339), e.AlertType, truncate(e.Title, 200))
		}
	}

	b.WriteString("\n### Host Status\n\n")
	if !bundle.HostFetched || bundle.Host == nil {
		b.WriteString("no data available\n")
	} else {
		h := bundle.Host
		state := "down"
		if h.Up {
			state = "up"
		}
		fmt.Fprintf(&b, "- %s: %s, cpu %.1f%%, apps: %s\n",
			h.Name, state, h.CPUPercent, strings.Join(h.Apps, ", "))
	}

	b.WriteString("\n### Monitor Definition\n\n")
	if !bundle.MonitorFetched || bundle.Monitor == nil {
		b.WriteString("no data available\n")
	} else {
		m := bundle.Monitor
		fmt.Fprintf(&b, "- name: %s\n- type: %s\n- query: `%s`\n", m.Name, m.Type, m.Query)
	}

	return b.String()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
