// 환경변수 기반 설정 로딩
//
// 환경변수:
//   - PORT: HTTP 서버 포트 (default: 8080)
//   - DD_API_KEY / DD_APP_KEY: Datadog API 인증 키 (정적 키 2개)
//   - DD_SITE: Datadog 사이트 (default: ddog-gov.com)
//   - AI_API_KEY: GenAI API 키 (임베딩 + 직접 LLM 호출)
//   - LLM_CLI_PATH: CLI 트랜스포트 바이너리 경로 (default: claude)
//   - LLM_SESSION_FILE: CLI 세션 자격증명 파일 경로
//   - LLM_REFRESH_CMD: 세션 자격증명 갱신 커맨드
//   - CORPUS_ROOT: 지식 코퍼스 루트 디렉토리
//   - ADMIN_JWT_SECRET: 관리용 엔드포인트 JWT 서명 시크릿
//   - DATABASE_URL 또는 PG* 변수들: PostgreSQL 연결 정보

package config

import (
	"os"
	"strings"
)

type Config struct {
	Server    ServerConfig
	Datadog   DatadogConfig
	LLM       LLMConfig
	Embedding EmbeddingConfig
	Corpus    CorpusConfig
	Admin     AdminConfig
	Postgres  PostgresConfig
}

type ServerConfig struct {
	Port           string
	AllowedOrigins []string
}

type DatadogConfig struct {
	APIKey string
	AppKey string
	Site   string
}

type LLMConfig struct {
	CLIPath     string
	SessionFile string
	RefreshCmd  string
	APIKey      string
	Model       string
}

type EmbeddingConfig struct {
	APIKey string
	Model  string
}

type CorpusConfig struct {
	RootDir string
}

type AdminConfig struct {
	JWTSecret string
}

type PostgresConfig struct {
	DatabaseURL string
	Host        string
	Port        string
	User        string
	Password    string
	Database    string
	SSLMode     string
}

func Load() Config {
	return Config{
		Server: ServerConfig{
			Port:           getenv("PORT", "8080"),
			AllowedOrigins: splitList(os.Getenv("ALLOWED_ORIGINS")),
		},
		Datadog: DatadogConfig{
			APIKey: os.Getenv("DD_API_KEY"),
			AppKey: os.Getenv("DD_APP_KEY"),
			Site:   getenv("DD_SITE", "ddog-gov.com"),
		},
		LLM: LLMConfig{
			CLIPath:     getenv("LLM_CLI_PATH", "claude"),
			SessionFile: os.Getenv("LLM_SESSION_FILE"),
			RefreshCmd:  os.Getenv("LLM_REFRESH_CMD"),
			APIKey:      os.Getenv("AI_API_KEY"),
			Model:       getenv("LLM_MODEL", "gemini-2.0-flash"),
		},
		Embedding: EmbeddingConfig{
			APIKey: os.Getenv("AI_API_KEY"),
			Model:  getenv("EMBEDDING_MODEL", "text-embedding-004"),
		},
		Corpus: CorpusConfig{
			RootDir: os.Getenv("CORPUS_ROOT"),
		},
		Admin: AdminConfig{
			JWTSecret: os.Getenv("ADMIN_JWT_SECRET"),
		},
		Postgres: PostgresConfig{
			DatabaseURL: os.Getenv("DATABASE_URL"),
			Host:        getenv("PGHOST", "localhost"),
			Port:        getenv("PGPORT", "5432"),
			User:        os.Getenv("PGUSER"),
			Password:    os.Getenv("PGPASSWORD"),
			Database:    os.Getenv("PGDATABASE"),
			SSLMode:     getenv("PGSSLMODE", "disable"),
		},
	}
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// splitList - 콤마 구분 목록 파싱 (공백 제거)
func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, s := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
