// 외부 협력자 호출 resilience 레이어
//
// 실패를 4종으로 분류하고 클래스별 재시도 정책을 적용한다:
//
//	credential - 자격증명 갱신 후 재시도 (최대 2회)
//	rate_limit - Retry-After 또는 60초 대기 후 재시도 (최대 3회)
//	network    - 지수 백오프 + 지터 재시도 (최대 4회)
//	unknown    - 즉시 실패 (알 수 없는 에러의 재시도는 피해를 키울 수 있음)
//
// 호출 전에 자격증명 만료가 임박(5분 이내)하면 선제 갱신을 시도한다.

package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/rayne-rca/backend/internal/client"
)

// ErrorClass - 실패 분류
type ErrorClass string

const (
	ErrClassCredential ErrorClass = "credential"
	ErrClassRateLimit  ErrorClass = "rate_limit"
	ErrClassNetwork    ErrorClass = "network"
	ErrClassUnknown    ErrorClass = "unknown"
)

// 클래스별 최대 재시도 횟수
var retryLimits = map[ErrorClass]int{
	ErrClassCredential: 2,
	ErrClassRateLimit:  3,
	ErrClassNetwork:    4,
	ErrClassUnknown:    0,
}

// ClassifiedError - 분류 정보가 첨부된 최종 실패
type ClassifiedError struct {
	Class            ErrorClass
	RetriesExhausted bool
	Err              error
}

func (e *ClassifiedError) Error() string {
	return fmt.Sprintf("%s error: %v", e.Class, e.Err)
}

func (e *ClassifiedError) Unwrap() error { return e.Err }

var credentialKeywords = []string{
	"unauthorized", "invalid api key", "authentication", "token expired",
	"credential", "oauth", "401", "403", "forbidden",
}

var rateLimitKeywords = []string{
	"rate limit", "too many requests", "quota", "429", "resource exhausted",
	"overloaded",
}

var networkKeywords = []string{
	"timeout", "timed out", "deadline exceeded", "connection refused", "connection reset",
	"no such host", "broken pipe", "unexpected eof", "tls handshake",
	"temporary failure", "service unavailable", "502", "503", "504",
}

// Classify - 에러를 재시도 정책 클래스로 분류
//
// HTTP 상태 코드가 보존된 APIError를 우선 사용하고, 그 외에는
// 에러 텍스트 키워드 매칭으로 분류한다 (CLI 트랜스포트는 stderr
// 텍스트만 제공하므로 키워드 분류가 필수).
func Classify(err error) ErrorClass {
	if err == nil {
		return ErrClassUnknown
	}

	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == 401 || apiErr.StatusCode == 403:
			return ErrClassCredential
		case apiErr.StatusCode == 429:
			return ErrClassRateLimit
		case apiErr.StatusCode >= 500:
			return ErrClassNetwork
		default:
			return ErrClassUnknown
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ErrClassNetwork
	}

	msg := strings.ToLower(err.Error())
	for _, kw := range credentialKeywords {
		if strings.Contains(msg, kw) {
			return ErrClassCredential
		}
	}
	for _, kw := range rateLimitKeywords {
		if strings.Contains(msg, kw) {
			return ErrClassRateLimit
		}
	}
	for _, kw := range networkKeywords {
		if strings.Contains(msg, kw) {
			return ErrClassNetwork
		}
	}
	return ErrClassUnknown
}

// Executor - 분류 기반 재시도 실행기
type Executor struct {
	creds client.CredentialSource

	// 테스트에서 대기를 주입 제거하기 위한 훅
	sleep func(context.Context, time.Duration) error

	// 네트워크 백오프 기본 대기 (1s, 2s, 4s, ...)
	networkBase time.Duration

	// rate limit 시 Retry-After 부재 기본 대기
	rateLimitBase time.Duration
}

// Executor 객체 생성
func NewExecutor(creds client.CredentialSource) *Executor {
	return &Executor{
		creds:         creds,
		sleep:         sleepContext,
		networkBase:   time.Second,
		rateLimitBase: 60 * time.Second,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Do - op를 분류 기반 재시도 정책으로 실행
//
// 최종 실패는 항상 *ClassifiedError로 반환된다. RetriesExhausted는
// 재시도 한도까지 시도했는지 여부 (unknown 클래스는 항상 false).
func (e *Executor) Do(ctx context.Context, name string, op func(ctx context.Context) error) error {
	// 선제 자격증명 갱신: 만료 임박 시 호출 전에 갱신
	if e.creds != nil && e.creds.ExpiresWithin(5*time.Minute) {
		log.Printf("[Resilience] Credential expiring soon, refreshing before %s", name)
		if err := e.creds.Refresh(ctx); err != nil {
			log.Printf("[Resilience] Proactive refresh failed: %v", err)
		}
	}

	var lastErr error
	attempts := 0

	for {
		err := op(ctx)
		if err == nil {
			return nil
		}

		class := Classify(err)
		lastErr = err
		attempts++

		limit := retryLimits[class]
		if attempts > limit {
			return &ClassifiedError{
				Class:            class,
				RetriesExhausted: limit > 0,
				Err:              lastErr,
			}
		}

		log.Printf("[Resilience] %s failed (class=%s, attempt=%d/%d): %v",
			name, class, attempts, limit, err)

		switch class {
		case ErrClassCredential:
			if e.creds == nil {
				return &ClassifiedError{Class: class, RetriesExhausted: false, Err: lastErr}
			}
			if refreshErr := e.creds.Refresh(ctx); refreshErr != nil {
				return &ClassifiedError{
					Class:            class,
					RetriesExhausted: true,
					Err:              fmt.Errorf("refresh failed: %w (original: %v)", refreshErr, lastErr),
				}
			}

		case ErrClassRateLimit:
			wait := e.rateLimitBase
			var apiErr *client.APIError
			if errors.As(err, &apiErr) && apiErr.RetryAfter > 0 {
				wait = apiErr.RetryAfter
			}
			if sleepErr := e.sleep(ctx, wait); sleepErr != nil {
				return &ClassifiedError{Class: class, RetriesExhausted: false, Err: sleepErr}
			}

		case ErrClassNetwork:
			// 지수 백오프 + 지터
			backoff := e.networkBase << (attempts - 1)
			jitter := time.Duration(rand.Int63n(int64(backoff)/2 + 1))
			if sleepErr := e.sleep(ctx, backoff+jitter); sleepErr != nil {
				return &ClassifiedError{Class: class, RetriesExhausted: false, Err: sleepErr}
			}
		}
	}
}
