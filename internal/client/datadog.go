// Datadog API와 HTTP 통신하는 클라이언트 정의
//
// 환경변수:
//   - DD_API_KEY / DD_APP_KEY: 정적 API 키 2개 (모든 요청 헤더에 첨부)
//   - DD_SITE: API 사이트 (default: ddog-gov.com)
//
// 담당 오퍼레이션:
//   - 로그 검색 / 이벤트 조회 / 호스트 조회 / 모니터 정의 조회 (컨텍스트 수집)
//   - 노트북 생성/조회/전체교체 (조사 문서 수명주기)
//   - 진단 이벤트 생성 (파이프라인 실패 리포팅)

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rayne-rca/backend/internal/config"
	"github.com/rayne-rca/backend/internal/model"
)

// APIError - Datadog API 에러 응답
// 상태 코드와 Retry-After를 보존하여 resilience 레이어가 분류에 사용한다
type APIError struct {
	StatusCode int
	RetryAfter time.Duration
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("datadog api returned %d: %s", e.StatusCode, e.Body)
}

// DatadogClient 구조체 정의
type DatadogClient struct {
	apiKey     string
	appKey     string
	apiURL     string
	appURL     string
	httpClient *http.Client
}

// DatadogClient 객체 생성
func NewDatadogClient(cfg config.DatadogConfig) *DatadogClient {
	site := cfg.Site
	if site == "" {
		site = "ddog-gov.com"
	}
	return &DatadogClient{
		apiKey: cfg.APIKey,
		appKey: cfg.AppKey,
		apiURL: fmt.Sprintf("https://api.%s", site),
		appURL: fmt.Sprintf("https://app.%s", site),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// IsConfigured - API 키 설정 여부
func (c *DatadogClient) IsConfigured() bool {
	return c.apiKey != "" && c.appKey != ""
}

// do - 인증 헤더를 붙여 요청을 보내고 응답을 out으로 디코딩
func (c *DatadogClient) do(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewBuffer(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.apiURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("DD-API-KEY", c.apiKey)
	req.Header.Set("DD-APPLICATION-KEY", c.appKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Body: string(raw)}
		if ra := resp.Header.Get("Retry-After"); ra != "" {
			if secs, parseErr := strconv.Atoi(ra); parseErr == nil {
				apiErr.RetryAfter = time.Duration(secs) * time.Second
			}
		}
		return apiErr
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// 컨텍스트 수집 (best-effort 조회 4종)
// ---------------------------------------------------------------------------

// SearchLogs - 최근 에러/경고 로그 샘플 검색 (POST /api/v2/logs/events/search)
func (c *DatadogClient) SearchLogs(ctx context.Context, query string, from time.Time, limit int) ([]model.LogSample, error) {
	req := map[string]any{
		"filter": map[string]any{
			"query": query,
			"from":  from.UTC().Format(time.RFC3339),
			"to":    "now",
		},
		"page": map[string]any{"limit": limit},
		"sort": "-timestamp",
	}

	var resp struct {
		Data []struct {
			Attributes struct {
				Timestamp time.Time `json:"timestamp"`
				Status    string    `json:"status"`
				Service   string    `json:"service"`
				Host      string    `json:"host"`
				Message   string    `json:"message"`
			} `json:"attributes"`
		} `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/v2/logs/events/search", req, &resp); err != nil {
		return nil, err
	}

	samples := make([]model.LogSample, 0, len(resp.Data))
	for _, d := range resp.Data {
		samples = append(samples, model.LogSample{
			Timestamp: d.Attributes.Timestamp,
			Status:    d.Attributes.Status,
			Service:   d.Attributes.Service,
			Host:      d.Attributes.Host,
			Message:   d.Attributes.Message,
		})
	}
	return samples, nil
}

// RecentEvents - 최근 플랫폼 이벤트 조회 (GET /api/v1/events)
func (c *DatadogClient) RecentEvents(ctx context.Context, start, end time.Time, tags []string) ([]model.PlatformEvent, error) {
	q := url.Values{}
	q.Set("start", strconv.FormatInt(start.Unix(), 10))
	q.Set("end", strconv.FormatInt(end.Unix(), 10))
	for _, t := range tags {
		q.Add("tags", t)
	}

	var resp struct {
		Events []struct {
			ID           int64  `json:"id"`
			Title        string `json:"title"`
			Text         string `json:"text"`
			DateHappened int64  `json:"date_happened"`
			AlertType    string `json:"alert_type"`
		} `json:"events"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/events?"+q.Encode(), nil, &resp); err != nil {
		return nil, err
	}

	events := make([]model.PlatformEvent, 0, len(resp.Events))
	for _, e := range resp.Events {
		events = append(events, model.PlatformEvent{
			ID:           e.ID,
			Title:        e.Title,
			Text:         e.Text,
			DateHappened: time.Unix(e.DateHappened, 0).UTC(),
			AlertType:    e.AlertType,
		})
	}
	return events, nil
}

// GetHost - 호스트 스냅샷 조회 (GET /api/v1/hosts?filter=host:<name>)
func (c *DatadogClient) GetHost(ctx context.Context, hostname string) (*model.HostSnapshot, error) {
	q := url.Values{}
	q.Set("filter", "host:"+hostname)
	q.Set("count", "1")

	var resp struct {
		HostList []struct {
			Name     string   `json:"name"`
			Up       bool     `json:"up"`
			Apps     []string `json:"apps"`
			LastSeen int64    `json:"last_reported_time"`
			Metrics  struct {
				CPU float64 `json:"cpu"`
			} `json:"metrics"`
		} `json:"host_list"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/hosts?"+q.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	if len(resp.HostList) == 0 {
		return nil, fmt.Errorf("host not found: %s", hostname)
	}

	h := resp.HostList[0]
	return &model.HostSnapshot{
		Name:       h.Name,
		Up:         h.Up,
		Apps:       h.Apps,
		CPUPercent: h.Metrics.CPU,
		LastSeen:   time.Unix(h.LastSeen, 0).UTC(),
	}, nil
}

// GetMonitor - 모니터 정의 조회 (GET /api/v1/monitor/{id})
func (c *DatadogClient) GetMonitor(ctx context.Context, id int64) (*model.MonitorDefinition, error) {
	var resp struct {
		ID      int64  `json:"id"`
		Name    string `json:"name"`
		Type    string `json:"type"`
		Query   string `json:"query"`
		Message string `json:"message"`
	}
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/v1/monitor/%d", id), nil, &resp); err != nil {
		return nil, err
	}
	return &model.MonitorDefinition{
		ID:      resp.ID,
		Name:    resp.Name,
		Type:    resp.Type,
		Query:   resp.Query,
		Message: resp.Message,
	}, nil
}

// ---------------------------------------------------------------------------
// 진단 이벤트
// ---------------------------------------------------------------------------

// CreateEvent - 진단 이벤트 생성 (POST /api/v1/events)
// 파이프라인 실패를 플랫폼에 남길 때 사용한다
func (c *DatadogClient) CreateEvent(ctx context.Context, title, text string, tags []string, alertType string) error {
	req := map[string]any{
		"title":            title,
		"text":             text,
		"priority":         "normal",
		"tags":             tags,
		"alert_type":       alertType,
		"source_type_name": "custom",
	}
	return c.do(ctx, http.MethodPost, "/api/v1/events", req, nil)
}

// ---------------------------------------------------------------------------
// 조사 문서 (노트북) 수명주기
// ---------------------------------------------------------------------------

// 노트북 API 페이로드 (markdown 셀 1개짜리 단순 구조)
type notebookPayload struct {
	Data notebookData `json:"data"`
}

type notebookData struct {
	ID         json.Number        `json:"id,omitempty"`
	Type       string             `json:"type"`
	Attributes notebookAttributes `json:"attributes"`
}

type notebookAttributes struct {
	Name  string         `json:"name"`
	Cells []notebookCell `json:"cells"`
}

type notebookCell struct {
	Type       string `json:"type"`
	Attributes struct {
		Definition struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"definition"`
	} `json:"attributes"`
}

func buildNotebookPayload(id, title, body string) notebookPayload {
	cell := notebookCell{Type: "notebook_cells"}
	cell.Attributes.Definition.Type = "markdown"
	cell.Attributes.Definition.Text = body

	var p notebookPayload
	p.Data.Type = "notebooks"
	if id != "" {
		p.Data.ID = json.Number(id)
	}
	p.Data.Attributes.Name = title
	p.Data.Attributes.Cells = []notebookCell{cell}
	return p
}

func (c *DatadogClient) documentFromPayload(p notebookPayload) *model.InvestigationDocument {
	doc := &model.InvestigationDocument{
		ID:    p.Data.ID.String(),
		Title: p.Data.Attributes.Name,
	}
	if len(p.Data.Attributes.Cells) > 0 {
		doc.Body = p.Data.Attributes.Cells[0].Attributes.Definition.Text
	}
	doc.URL = fmt.Sprintf("%s/notebook/%s", c.appURL, doc.ID)
	return doc
}

// CreateDocument - 조사 문서 생성 (POST /api/v1/notebooks)
func (c *DatadogClient) CreateDocument(ctx context.Context, title, body string) (*model.InvestigationDocument, error) {
	req := buildNotebookPayload("", title, body)
	var resp notebookPayload
	if err := c.do(ctx, http.MethodPost, "/api/v1/notebooks", req, &resp); err != nil {
		return nil, err
	}
	return c.documentFromPayload(resp), nil
}

// GetDocument - 조사 문서 조회 (GET /api/v1/notebooks/{id})
func (c *DatadogClient) GetDocument(ctx context.Context, id string) (*model.InvestigationDocument, error) {
	var resp notebookPayload
	if err := c.do(ctx, http.MethodGet, "/api/v1/notebooks/"+id, nil, &resp); err != nil {
		return nil, err
	}
	return c.documentFromPayload(resp), nil
}

// ReplaceDocument - 조사 문서 전체 교체 (PUT /api/v1/notebooks/{id})
// 플랫폼 API에 부분 업데이트가 없으므로 항상 전체 본문을 보낸다
func (c *DatadogClient) ReplaceDocument(ctx context.Context, doc model.InvestigationDocument) error {
	req := buildNotebookPayload(doc.ID, doc.Title, doc.Body)
	return c.do(ctx, http.MethodPut, "/api/v1/notebooks/"+doc.ID, req, nil)
}
