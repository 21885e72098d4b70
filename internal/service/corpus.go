// 지식 코퍼스 인제스트 서비스
//
// 로컬 코퍼스 디렉터리를 순회하며 문서를 청크로 분할하고 임베딩하여
// 벡터 저장소에 적재한다. 시작 시 1회 실행되며 이미 적재된 컬렉션이
// 있으면 건너뛴다 (idempotent). 전체 재적재는 관리자 API로만 가능.

package service

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rayne-rca/backend/internal/db"
	"github.com/rayne-rca/backend/internal/model"
)

// CorpusStore - 코퍼스 컬렉션 저장 인터페이스 (pgvector 저장소가 구현)
type CorpusStore interface {
	EnsureCorpusCollection(ctx context.Context) error
	CollectionExists(ctx context.Context, collection string) (bool, error)
	CountPoints(ctx context.Context, collection string) (int64, error)
	DropCollection(ctx context.Context, collection string) error
	InsertCorpusChunk(ctx context.Context, chunk model.CorpusChunk, vector []float32) (int64, error)
}

// CorpusService 구조체 정의
type CorpusService struct {
	root     string
	store    CorpusStore
	embedder Embedder

	// 임베딩 API rate limit 보호용 호출 간격
	embedInterval time.Duration
	sleep         func(context.Context, time.Duration) error
}

// CorpusService 객체 생성
func NewCorpusService(root string, store CorpusStore, embedder Embedder) *CorpusService {
	return &CorpusService{
		root:          root,
		store:         store,
		embedder:      embedder,
		embedInterval: 200 * time.Millisecond,
		sleep:         sleepContext,
	}
}

// 순회에서 제외할 디렉터리
var skipDirs = map[string]struct{}{
	".git": {}, "node_modules": {}, "vendor": {}, "dist": {},
	"build": {}, "target": {}, "bin": {}, ".idea": {}, "__pycache__": {},
}

// 인제스트 대상 확장자. markdown은 섹션 분할, 나머지는 파일 단위 청크.
var markdownExts = map[string]struct{}{".md": {}, ".markdown": {}}

var codeExts = map[string]struct{}{
	".go": {}, ".py": {}, ".js": {}, ".ts": {}, ".java": {}, ".rb": {},
	".sh": {}, ".tf": {}, ".yaml": {}, ".yml": {}, ".json": {}, ".sql": {},
	".txt": {},
}

// 섹션이 이 길이를 넘으면 하위 헤더로 재분할
const maxSectionLen = 4000

// EnsureIngested - 시작 시 1회 호출. 컬렉션이 비어 있을 때만 적재한다.
func (s *CorpusService) EnsureIngested(ctx context.Context) error {
	if s.root == "" {
		log.Printf("[Corpus] No corpus root configured, skipping ingestion")
		return nil
	}

	if err := s.store.EnsureCorpusCollection(ctx); err != nil {
		return fmt.Errorf("failed to ensure corpus collection: %w", err)
	}

	count, err := s.store.CountPoints(ctx, db.CorpusCollection)
	if err != nil {
		return fmt.Errorf("failed to count corpus points: %w", err)
	}
	if count > 0 {
		log.Printf("[Corpus] Collection already populated (%d points), skipping ingestion", count)
		return nil
	}

	return s.ingest(ctx)
}

// Reingest - 전체 재적재 (컬렉션 삭제 후 처음부터)
func (s *CorpusService) Reingest(ctx context.Context) error {
	if s.root == "" {
		return fmt.Errorf("no corpus root configured")
	}

	log.Printf("[Corpus] Reingest requested, dropping collection")
	if err := s.store.DropCollection(ctx, db.CorpusCollection); err != nil {
		return fmt.Errorf("failed to drop corpus collection: %w", err)
	}
	if err := s.store.EnsureCorpusCollection(ctx); err != nil {
		return fmt.Errorf("failed to recreate corpus collection: %w", err)
	}
	return s.ingest(ctx)
}

// Status - 컬렉션 상태 조회
func (s *CorpusService) Status(ctx context.Context) (model.CorpusStatus, error) {
	exists, err := s.store.CollectionExists(ctx, db.CorpusCollection)
	if err != nil {
		return model.CorpusStatus{}, err
	}
	status := model.CorpusStatus{CollectionExists: exists}
	if exists {
		count, err := s.store.CountPoints(ctx, db.CorpusCollection)
		if err != nil {
			return status, err
		}
		status.PointCount = count
	}
	return status, nil
}

// ingest - 코퍼스 전체 순회 + 청크 적재
// 임베딩은 순차 실행 (rate limit 보호). 개별 파일 실패는 건너뛴다.
func (s *CorpusService) ingest(ctx context.Context) error {
	start := time.Now()
	var total int

	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if _, skip := skipDirs[d.Name()]; skip {
				return filepath.SkipDir
			}
			return nil
		}

		chunks, chunkErr := s.chunkFile(path)
		if chunkErr != nil {
			log.Printf("[Corpus] Skipping %s: %v", path, chunkErr)
			return nil
		}

		for _, chunk := range chunks {
			if err := ctx.Err(); err != nil {
				return err
			}
			vector, _, embedErr := s.embedder.EmbedText(ctx, chunk.Text)
			if embedErr != nil {
				log.Printf("[Corpus] Embedding failed for %s: %v", chunk.SourceFile, embedErr)
				continue
			}
			if _, insertErr := s.store.InsertCorpusChunk(ctx, chunk, vector); insertErr != nil {
				log.Printf("[Corpus] Insert failed for %s: %v", chunk.SourceFile, insertErr)
				continue
			}
			total++
			if err := s.sleep(ctx, s.embedInterval); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("corpus ingestion failed: %w", err)
	}

	log.Printf("[Corpus] Ingested %d chunks in %s", total, time.Since(start).Round(time.Millisecond))
	return nil
}

// chunkFile - 파일 1개를 청크 목록으로 변환
func (s *CorpusService) chunkFile(path string) ([]model.CorpusChunk, error) {
	ext := strings.ToLower(filepath.Ext(path))
	_, isMarkdown := markdownExts[ext]
	_, isCode := codeExts[ext]
	if !isMarkdown && !isCode {
		return nil, fmt.Errorf("unsupported file type %s", ext)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	content := string(raw)
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("empty file")
	}

	rel, err := filepath.Rel(s.root, path)
	if err != nil {
		rel = path
	}
	category, topic := classifyPath(rel)

	if isMarkdown {
		return chunkMarkdown(content, rel, category, topic), nil
	}

	// 코드/설정 파일은 파일 전체를 청크 1개로, 출처 컨텍스트 줄을 앞에 붙인다
	return []model.CorpusChunk{{
		Text:       fmt.Sprintf("File: %s (category: %s, topic: %s)\n\n%s", rel, category, topic, content),
		SourceFile: rel,
		Category:   category,
		Topic:      topic,
	}}, nil
}

// classifyPath - 디렉터리 규약 기반 분류
// <category>/<topic>/file.md 형태를 가정하고, 없으면 "general"
func classifyPath(rel string) (category, topic string) {
	parts := strings.Split(filepath.ToSlash(rel), "/")
	category, topic = "general", "general"
	if len(parts) > 1 {
		category = parts[0]
	}
	if len(parts) > 2 {
		topic = parts[1]
	}
	return category, topic
}

// chunkMarkdown - markdown을 "## " 헤더 기준으로 분할
// 너무 긴 섹션은 "### " 하위 헤더로 재분할한다
func chunkMarkdown(content, rel, category, topic string) []model.CorpusChunk {
	var chunks []model.CorpusChunk

	for _, section := range splitByHeader(content, "## ") {
		if strings.TrimSpace(section.body) == "" {
			continue
		}
		if len(section.body) > maxSectionLen {
			for _, sub := range splitByHeader(section.body, "### ") {
				if strings.TrimSpace(sub.body) == "" {
					continue
				}
				heading := section.heading
				if sub.heading != "" {
					heading = strings.TrimSpace(heading + " / " + sub.heading)
				}
				chunks = append(chunks, model.CorpusChunk{
					Text:           sub.body,
					SourceFile:     rel,
					Category:       category,
					Topic:          topic,
					SectionHeading: heading,
				})
			}
			continue
		}
		chunks = append(chunks, model.CorpusChunk{
			Text:           section.body,
			SourceFile:     rel,
			Category:       category,
			Topic:          topic,
			SectionHeading: section.heading,
		})
	}
	return chunks
}

type markdownSection struct {
	heading string
	body    string
}

// splitByHeader - 지정 헤더 prefix 기준 분할 (헤더 앞 내용은 첫 섹션)
func splitByHeader(content, prefix string) []markdownSection {
	lines := strings.Split(content, "\n")
	var sections []markdownSection
	current := markdownSection{}
	var body []string

	flush := func() {
		current.body = strings.TrimSpace(strings.Join(body, "\n"))
		if current.body != "" || current.heading != "" {
			if current.heading != "" {
				current.body = prefix + current.heading + "\n" + current.body
			}
			sections = append(sections, current)
		}
		body = nil
	}

	for _, line := range lines {
		if strings.HasPrefix(line, prefix) {
			flush()
			current = markdownSection{heading: strings.TrimSpace(strings.TrimPrefix(line, prefix))}
			continue
		}
		body = append(body, line)
	}
	flush()
	return sections
}
