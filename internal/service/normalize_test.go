package service

import (
	"testing"

	"github.com/rayne-rca/backend/internal/model"
)

func TestNormalizeStandardFields(t *testing.T) {
	rec := Normalize(model.AlertWebhook{
		MonitorID:   42,
		AlertTitle:  "High CPU on web-01",
		AlertStatus: "Alert",
		Hostname:    "web-01",
		Service:     "checkout",
		Scope:       "env:staging,host:web-01",
	})

	if rec.ID != "42" {
		t.Fatalf("expected monitor id as alert id, got %s", rec.ID)
	}
	if rec.Status != model.StatusTriggered {
		t.Fatalf("expected triggered, got %s", rec.Status)
	}
	if rec.Service != "checkout" {
		t.Fatalf("expected service checkout, got %s", rec.Service)
	}
	if rec.Environment != "staging" {
		t.Fatalf("expected env from scope, got %s", rec.Environment)
	}
	if rec.Kind != model.KindIncident {
		t.Fatalf("expected incident, got %s", rec.Kind)
	}
}

func TestNormalizeTerraformFields(t *testing.T) {
	// 표준 필드가 비어 있고 대문자 커스텀 필드만 있는 경우
	rec := Normalize(model.AlertWebhook{
		MonitorID:       7,
		AlertTitleUpper: "disk usage above 90%",
		AlertState:      "Warn",
		ApplicationTeam: "platform-infra",
		Environment:     "dev",
		Urgency:         "low",
	})

	if rec.Name != "disk usage above 90%" {
		t.Fatalf("expected ALERT_TITLE fallback, got %s", rec.Name)
	}
	if rec.Status != model.StatusWarn {
		t.Fatalf("expected warn, got %s", rec.Status)
	}
	if rec.Service != "platform-infra" {
		t.Fatalf("expected APPLICATION_TEAM as service, got %s", rec.Service)
	}
	if rec.Environment != "dev" {
		t.Fatalf("expected dev, got %s", rec.Environment)
	}
	if rec.Severity != "P4" {
		t.Fatalf("expected P4 for low urgency, got %s", rec.Severity)
	}
}

func TestResolveServiceMonitorType(t *testing.T) {
	// service 필드가 모니터 체크 타입이면 서비스명으로 쓰지 않는다
	cases := []string{
		"http-check", "HTTP-Check", "process-check", "tcp-check",
		"metric alert", "query alert", "synthetics", "watchdog",
	}
	for _, svc := range cases {
		got := ResolveService(model.AlertWebhook{Service: svc})
		if got != "N/A" {
			t.Fatalf("service %q: expected N/A, got %s", svc, got)
		}
	}

	if got := ResolveService(model.AlertWebhook{Service: "payments-api"}); got != "payments-api" {
		t.Fatalf("expected payments-api, got %s", got)
	}
}

func TestResolveServiceScopeTag(t *testing.T) {
	w := model.AlertWebhook{
		Service: "http-check",
		Scope:   "env:production,application_team:billing",
	}
	if got := ResolveService(w); got != "billing" {
		t.Fatalf("expected billing from scope, got %s", got)
	}

	w2 := model.AlertWebhook{
		Tags: []string{"env:production", "application_team:orders"},
	}
	if got := ResolveService(w2); got != "orders" {
		t.Fatalf("expected orders from tags, got %s", got)
	}
}

func TestResolveSeverityDefaults(t *testing.T) {
	cases := []struct {
		urgency string
		status  string
		want    string
	}{
		{"high", model.StatusWarn, "P2"},
		{"critical", model.StatusNoData, "P2"},
		{"medium", model.StatusTriggered, "P3"},
		{"", model.StatusTriggered, "P2"},
		{"", model.StatusWarn, "P3"},
		{"", model.StatusNoData, "P4"},
		{"", model.StatusRecovered, "P5"},
	}
	for _, c := range cases {
		got := ResolveSeverity(model.AlertWebhook{Urgency: c.urgency}, c.status)
		if got != c.want {
			t.Fatalf("urgency=%q status=%q: expected %s, got %s", c.urgency, c.status, c.want, got)
		}
	}

	// 명시 priority가 최우선
	if got := ResolveSeverity(model.AlertWebhook{Priority: "p4", Urgency: "high"}, model.StatusTriggered); got != "P4" {
		t.Fatalf("expected explicit priority to win, got %s", got)
	}
}

func TestResolveEnvironmentDefault(t *testing.T) {
	if got := ResolveEnvironment(model.AlertWebhook{}); got != "production" {
		t.Fatalf("expected production default, got %s", got)
	}
}

func TestNormalizeWatchdogKind(t *testing.T) {
	cases := []model.AlertWebhook{
		{MonitorType: "event-v2 alert watchdog"},
		{MonitorName: "[Watchdog] anomaly on checkout latency"},
		{Tags: []string{"source:watchdog"}},
	}
	for i, w := range cases {
		if rec := Normalize(w); rec.Kind != model.KindAnomaly {
			t.Fatalf("case %d: expected anomaly, got %s", i, rec.Kind)
		}
	}
}

func TestNormalizeUnknownStatus(t *testing.T) {
	rec := Normalize(model.AlertWebhook{AlertStatus: "banana"})
	if rec.Status != model.StatusTriggered {
		t.Fatalf("unknown status should fall back to triggered, got %s", rec.Status)
	}
}

func TestNormalizeAlertIDFallback(t *testing.T) {
	rec := Normalize(model.AlertWebhook{AlertTitle: "DB Pool Saturated!"})
	if rec.ID != "alert-db-pool-saturated" {
		t.Fatalf("expected name-derived id, got %s", rec.ID)
	}

	empty := Normalize(model.AlertWebhook{})
	if empty.ID != "alert-unknown" {
		t.Fatalf("expected alert-unknown, got %s", empty.ID)
	}
}

func TestParseScopeDedup(t *testing.T) {
	scope := parseScope("env:prod, host:a", []string{"host:a", "team:x"})
	if len(scope) != 3 {
		t.Fatalf("expected 3 entries, got %v", scope)
	}
	if scope[0] != "env:prod" || scope[1] != "host:a" || scope[2] != "team:x" {
		t.Fatalf("unexpected order: %v", scope)
	}
}
