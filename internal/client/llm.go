// LLM 게이트웨이 정의 - 교체 가능한 트랜스포트 2종
//
//   - CLI 트랜스포트: 갱신 가능한 세션 자격증명으로 CLI 서브프로세스 실행
//   - API 트랜스포트: 정적 키로 GenAI API 직접 호출
//
// 어느 자격증명이 설정되어 있는지에 따라 자동 선택된다
// (세션 파일 존재 → CLI, 아니면 AI_API_KEY → API).

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/rayne-rca/backend/internal/config"
	"google.golang.org/genai"
)

// CredentialSource - resilience 레이어가 사용하는 자격증명 갱신 인터페이스
type CredentialSource interface {
	Refresh(ctx context.Context) error
	ExpiresWithin(d time.Duration) bool
}

// LLMGateway - 선택된 트랜스포트를 감싸는 게이트웨이
type LLMGateway struct {
	transport llmTransport
	creds     CredentialSource
}

type llmTransport interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Name() string
}

// NewLLMGateway - 자격증명 기준으로 트랜스포트 자동 선택
func NewLLMGateway(cfg config.LLMConfig) (*LLMGateway, error) {
	if cfg.SessionFile != "" {
		if _, err := os.Stat(cfg.SessionFile); err == nil {
			creds := NewSessionCredential(cfg.SessionFile, cfg.RefreshCmd)
			if err := creds.Load(); err != nil {
				return nil, fmt.Errorf("failed to load session credential: %w", err)
			}
			log.Printf("[LLM] Using CLI transport (%s)", cfg.CLIPath)
			return &LLMGateway{
				transport: &cliTransport{path: cfg.CLIPath, creds: creds},
				creds:     creds,
			}, nil
		}
	}

	if cfg.APIKey != "" {
		client, err := genai.NewClient(context.Background(), &genai.ClientConfig{APIKey: cfg.APIKey})
		if err != nil {
			return nil, err
		}
		log.Printf("[LLM] Using API transport (model=%s)", cfg.Model)
		return &LLMGateway{
			transport: &apiTransport{client: client, model: cfg.Model},
			creds:     staticCredential{},
		}, nil
	}

	return nil, fmt.Errorf("no LLM credential configured: set LLM_SESSION_FILE or AI_API_KEY")
}

func (g *LLMGateway) Generate(ctx context.Context, prompt string) (string, error) {
	return g.transport.Generate(ctx, prompt)
}

func (g *LLMGateway) Credentials() CredentialSource {
	return g.creds
}

// ---------------------------------------------------------------------------
// CLI 트랜스포트 (세션 자격증명)
// ---------------------------------------------------------------------------

// SessionCredential - 파일 기반 세션 자격증명
// 파일 포맷: {"token": "...", "expires_at": "2026-01-01T00:00:00Z"}
type SessionCredential struct {
	path       string
	refreshCmd string

	mu        sync.RWMutex
	token     string
	expiresAt time.Time
}

func NewSessionCredential(path, refreshCmd string) *SessionCredential {
	return &SessionCredential{path: path, refreshCmd: refreshCmd}
}

// Load - 세션 파일에서 토큰과 만료 시각 로드
func (s *SessionCredential) Load() error {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return err
	}
	var payload struct {
		Token     string    `json:"token"`
		ExpiresAt time.Time `json:"expires_at"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("invalid session file: %w", err)
	}
	if payload.Token == "" {
		return fmt.Errorf("session file has no token")
	}

	s.mu.Lock()
	s.token = payload.Token
	s.expiresAt = payload.ExpiresAt
	s.mu.Unlock()
	return nil
}

func (s *SessionCredential) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// ExpiresWithin - 만료까지 남은 시간이 d 이하인지 확인
// 만료 시각이 기록되지 않은 세션은 만료되지 않는 것으로 취급한다
func (s *SessionCredential) ExpiresWithin(d time.Duration) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.expiresAt.IsZero() {
		return false
	}
	return time.Until(s.expiresAt) <= d
}

// Refresh - 갱신 커맨드를 실행한 뒤 세션 파일을 다시 로드
func (s *SessionCredential) Refresh(ctx context.Context) error {
	if s.refreshCmd == "" {
		return fmt.Errorf("no refresh command configured")
	}

	log.Printf("[LLM] Refreshing session credential")
	cmd := exec.CommandContext(ctx, "sh", "-c", s.refreshCmd)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("credential refresh failed: %w (%s)", err, strings.TrimSpace(stderr.String()))
	}
	return s.Load()
}

// cliTransport - CLI 서브프로세스로 프롬프트 실행
type cliTransport struct {
	path  string
	creds *SessionCredential
}

func (t *cliTransport) Name() string { return "cli" }

func (t *cliTransport) Generate(ctx context.Context, prompt string) (string, error) {
	cmd := exec.CommandContext(ctx, t.path, "-p", prompt, "--output-format", "text")
	cmd.Env = append(os.Environ(), "CLAUDE_CODE_OAUTH_TOKEN="+t.creds.Token())

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		// stderr 내용을 에러에 포함 (resilience 분류가 이 텍스트를 사용)
		return "", fmt.Errorf("llm cli failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	result := strings.TrimSpace(stdout.String())
	if result == "" {
		return "", fmt.Errorf("llm cli returned empty output")
	}
	return result, nil
}

// ---------------------------------------------------------------------------
// API 트랜스포트 (정적 키)
// ---------------------------------------------------------------------------

type apiTransport struct {
	client *genai.Client
	model  string
}

func (t *apiTransport) Name() string { return "api" }

func (t *apiTransport) Generate(ctx context.Context, prompt string) (string, error) {
	res, err := t.client.Models.GenerateContent(ctx, t.model, genai.Text(prompt), nil)
	if err != nil {
		return "", err
	}
	text := res.Text()
	if text == "" {
		return "", fmt.Errorf("empty llm response")
	}
	return text, nil
}

// staticCredential - API 키는 갱신 대상이 아님
type staticCredential struct{}

func (staticCredential) Refresh(ctx context.Context) error  { return nil }
func (staticCredential) ExpiresWithin(d time.Duration) bool { return false }
