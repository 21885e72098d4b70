package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rayne-rca/backend/internal/model"
)

type fakeCorpusStore struct {
	exists  bool
	count   int64
	chunks  []model.CorpusChunk
	dropped bool
}

func (f *fakeCorpusStore) EnsureCorpusCollection(ctx context.Context) error {
	f.exists = true
	return nil
}

func (f *fakeCorpusStore) CollectionExists(ctx context.Context, collection string) (bool, error) {
	return f.exists, nil
}

func (f *fakeCorpusStore) CountPoints(ctx context.Context, collection string) (int64, error) {
	return f.count, nil
}

func (f *fakeCorpusStore) DropCollection(ctx context.Context, collection string) error {
	f.dropped = true
	f.chunks = nil
	f.count = 0
	return nil
}

func (f *fakeCorpusStore) InsertCorpusChunk(ctx context.Context, chunk model.CorpusChunk, vector []float32) (int64, error) {
	f.chunks = append(f.chunks, chunk)
	return int64(len(f.chunks)), nil
}

func newTestCorpusService(t *testing.T, root string, store *fakeCorpusStore) *CorpusService {
	t.Helper()
	svc := NewCorpusService(root, store, &fakeEmbedder{vector: []float32{0.1}})
	svc.sleep = func(ctx context.Context, d time.Duration) error { return nil }
	return svc
}

func writeCorpusFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestEnsureIngestedWalksCorpus(t *testing.T) {
	root := t.TempDir()
	writeCorpusFile(t, root, "runbooks/database/failover.md",
		"intro text\n\n## Detection\n\nhow to detect\n\n## Mitigation\n\nhow to fix\n")
	writeCorpusFile(t, root, "scripts/deploy.sh", "#!/bin/sh\necho deploy\n")
	// 제외 디렉터리와 미지원 확장자는 건너뛴다
	writeCorpusFile(t, root, "node_modules/pkg/index.js", "ignored")
	writeCorpusFile(t, root, "images/logo.png", "binary-ish")

	store := &fakeCorpusStore{}
	svc := newTestCorpusService(t, root, store)

	if err := svc.EnsureIngested(context.Background()); err != nil {
		t.Fatalf("ingestion failed: %v", err)
	}

	// markdown 섹션 3개 (intro + 헤더 2개) + 스크립트 1개
	if len(store.chunks) != 4 {
		t.Fatalf("expected 4 chunks, got %d: %+v", len(store.chunks), store.chunks)
	}

	var sawDetection, sawScript bool
	for _, c := range store.chunks {
		if c.SectionHeading == "Detection" {
			sawDetection = true
			if c.Category != "runbooks" || c.Topic != "database" {
				t.Fatalf("bad classification: %+v", c)
			}
		}
		if strings.HasSuffix(c.SourceFile, "deploy.sh") {
			sawScript = true
			if !strings.Contains(c.Text, "File: ") {
				t.Fatalf("code chunk missing context line: %q", c.Text)
			}
		}
	}
	if !sawDetection || !sawScript {
		t.Fatalf("expected markdown and code chunks: %+v", store.chunks)
	}
}

func TestEnsureIngestedIdempotent(t *testing.T) {
	root := t.TempDir()
	writeCorpusFile(t, root, "docs/a.md", "## One\n\ncontent\n")

	store := &fakeCorpusStore{count: 17}
	svc := newTestCorpusService(t, root, store)

	if err := svc.EnsureIngested(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 이미 적재된 컬렉션은 건드리지 않는다
	if len(store.chunks) != 0 {
		t.Fatalf("populated collection must be skipped, got %d inserts", len(store.chunks))
	}
}

func TestReingestDropsAndReloads(t *testing.T) {
	root := t.TempDir()
	writeCorpusFile(t, root, "docs/a.md", "## One\n\ncontent\n")

	store := &fakeCorpusStore{count: 17}
	svc := newTestCorpusService(t, root, store)

	if err := svc.Reingest(context.Background()); err != nil {
		t.Fatalf("reingest failed: %v", err)
	}
	if !store.dropped {
		t.Fatalf("expected collection drop")
	}
	if len(store.chunks) != 1 {
		t.Fatalf("expected reloaded chunks, got %d", len(store.chunks))
	}
}

func TestChunkMarkdownResplitsLongSections(t *testing.T) {
	long := strings.Repeat("x", maxSectionLen)
	content := "## Big Section\n\n### Part A\n\n" + long + "\n\n### Part B\n\nshort\n"

	chunks := chunkMarkdown(content, "docs/big.md", "docs", "general")
	if len(chunks) < 2 {
		t.Fatalf("expected re-split, got %d chunks", len(chunks))
	}
	for _, c := range chunks {
		if len(c.Text) > maxSectionLen+len("### Part A\n\n")+1 {
			t.Fatalf("chunk still too long: %d bytes", len(c.Text))
		}
	}
	last := chunks[len(chunks)-1]
	if !strings.Contains(last.SectionHeading, "Part B") {
		t.Fatalf("sub-heading lost: %+v", last)
	}
}

func TestCorpusStatus(t *testing.T) {
	store := &fakeCorpusStore{exists: true, count: 5}
	svc := newTestCorpusService(t, t.TempDir(), store)

	status, err := svc.Status(context.Background())
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	if !status.CollectionExists || status.PointCount != 5 {
		t.Fatalf("unexpected status: %+v", status)
	}
}
