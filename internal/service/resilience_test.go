package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rayne-rca/backend/internal/client"
)

type fakeCredential struct {
	refreshCalls int
	refreshErr   error
	expiringSoon bool
}

func (f *fakeCredential) Refresh(ctx context.Context) error {
	f.refreshCalls++
	return f.refreshErr
}

func (f *fakeCredential) ExpiresWithin(d time.Duration) bool {
	return f.expiringSoon
}

// 대기 없이 즉시 진행하는 테스트용 실행기
func newTestExecutor(creds client.CredentialSource) *Executor {
	e := NewExecutor(creds)
	e.sleep = func(ctx context.Context, d time.Duration) error { return nil }
	return e
}

func TestClassifyAPIError(t *testing.T) {
	cases := []struct {
		status int
		want   ErrorClass
	}{
		{401, ErrClassCredential},
		{403, ErrClassCredential},
		{429, ErrClassRateLimit},
		{500, ErrClassNetwork},
		{503, ErrClassNetwork},
		{400, ErrClassUnknown},
		{404, ErrClassUnknown},
	}
	for _, c := range cases {
		err := fmt.Errorf("wrapped: %w", &client.APIError{StatusCode: c.status})
		if got := Classify(err); got != c.want {
			t.Fatalf("status %d: expected %s, got %s", c.status, c.want, got)
		}
	}
}

func TestClassifyKeywords(t *testing.T) {
	cases := []struct {
		msg  string
		want ErrorClass
	}{
		{"llm cli failed: exit status 1: OAuth token expired", ErrClassCredential},
		{"rate limit exceeded, retry later", ErrClassRateLimit},
		{"dial tcp: connection refused", ErrClassNetwork},
		{"context deadline exceeded", ErrClassNetwork},
		{"something completely different", ErrClassUnknown},
	}
	for _, c := range cases {
		if got := Classify(errors.New(c.msg)); got != c.want {
			t.Fatalf("%q: expected %s, got %s", c.msg, c.want, got)
		}
	}
}

func TestExecutorCredentialRefreshRetry(t *testing.T) {
	creds := &fakeCredential{}
	e := newTestExecutor(creds)

	calls := 0
	err := e.Do(context.Background(), "llm", func(ctx context.Context) error {
		calls++
		if calls == 1 {
			return errors.New("401 unauthorized")
		}
		return nil
	})

	if err != nil {
		t.Fatalf("expected recovery after refresh, got %v", err)
	}
	if creds.refreshCalls != 1 {
		t.Fatalf("expected 1 refresh, got %d", creds.refreshCalls)
	}
}

func TestExecutorCredentialExhausted(t *testing.T) {
	creds := &fakeCredential{}
	e := newTestExecutor(creds)

	calls := 0
	err := e.Do(context.Background(), "llm", func(ctx context.Context) error {
		calls++
		return errors.New("401 unauthorized")
	})

	var cerr *ClassifiedError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected ClassifiedError, got %v", err)
	}
	if cerr.Class != ErrClassCredential || !cerr.RetriesExhausted {
		t.Fatalf("unexpected classification: %+v", cerr)
	}
	// 최초 1회 + 재시도 2회
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
}

func TestExecutorRateLimitUsesRetryAfter(t *testing.T) {
	e := NewExecutor(nil)
	var waited time.Duration
	e.sleep = func(ctx context.Context, d time.Duration) error {
		waited = d
		return nil
	}

	calls := 0
	err := e.Do(context.Background(), "datadog", func(ctx context.Context) error {
		calls++
		if calls == 1 {
			return &client.APIError{StatusCode: 429, RetryAfter: 7 * time.Second}
		}
		return nil
	})

	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if waited != 7*time.Second {
		t.Fatalf("expected Retry-After honored, waited %v", waited)
	}
}

func TestExecutorRateLimitRecoversAfterTwoFailures(t *testing.T) {
	e := NewExecutor(nil)
	sleeps := 0
	e.sleep = func(ctx context.Context, d time.Duration) error {
		sleeps++
		return nil
	}

	calls := 0
	err := e.Do(context.Background(), "datadog", func(ctx context.Context) error {
		calls++
		if calls <= 2 {
			return &client.APIError{StatusCode: 429}
		}
		return nil
	})

	if err != nil {
		t.Fatalf("expected success after 2 retries, got %v", err)
	}
	if calls != 3 || sleeps != 2 {
		t.Fatalf("expected 3 attempts with 2 backoffs, got calls=%d sleeps=%d", calls, sleeps)
	}
}

func TestExecutorNetworkBackoffExhausted(t *testing.T) {
	e := newTestExecutor(nil)

	calls := 0
	err := e.Do(context.Background(), "datadog", func(ctx context.Context) error {
		calls++
		return errors.New("connection refused")
	})

	var cerr *ClassifiedError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected ClassifiedError, got %v", err)
	}
	if cerr.Class != ErrClassNetwork || !cerr.RetriesExhausted {
		t.Fatalf("unexpected classification: %+v", cerr)
	}
	// 최초 1회 + 재시도 4회
	if calls != 5 {
		t.Fatalf("expected 5 attempts, got %d", calls)
	}
}

func TestExecutorUnknownFailsFast(t *testing.T) {
	e := newTestExecutor(nil)

	calls := 0
	err := e.Do(context.Background(), "llm", func(ctx context.Context) error {
		calls++
		return errors.New("mysterious failure")
	})

	var cerr *ClassifiedError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected ClassifiedError, got %v", err)
	}
	if cerr.Class != ErrClassUnknown || cerr.RetriesExhausted {
		t.Fatalf("unknown errors must fail fast without exhaustion flag: %+v", cerr)
	}
	if calls != 1 {
		t.Fatalf("expected single attempt, got %d", calls)
	}
}

func TestExecutorProactiveRefresh(t *testing.T) {
	creds := &fakeCredential{expiringSoon: true}
	e := newTestExecutor(creds)

	err := e.Do(context.Background(), "llm", func(ctx context.Context) error { return nil })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if creds.refreshCalls != 1 {
		t.Fatalf("expected proactive refresh, got %d calls", creds.refreshCalls)
	}
}
