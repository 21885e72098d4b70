// pgvector 기반 벡터 저장소
//
// "컬렉션" = vector 컬럼을 가진 테이블 하나.
//   - incident_embeddings: 과거 장애 분석 지식 저장소
//   - corpus_chunks: 코드 생성 기능용 지식 코퍼스
//
// 검색은 코사인 거리(<=>) 기준이며 score = 1 - distance 로 반환한다.

package db

import (
	"context"
	"fmt"

	"github.com/pgvector/pgvector-go"
	"github.com/rayne-rca/backend/internal/model"
)

// EmbeddingDim - 임베딩 차원 (text-embedding-004, 768차원)
const EmbeddingDim = 768

// 컬렉션 테이블 이름
const (
	IncidentCollection = "incident_embeddings"
	CorpusCollection   = "corpus_chunks"
)

// EnsureIncidentCollection - 장애 임베딩 컬렉션 생성 (존재 시 no-op)
func (db *Postgres) EnsureIncidentCollection(ctx context.Context) error {
	if _, err := db.Pool.Exec(ctx, `CREATE EXTENSION IF NOT EXISTS vector`); err != nil {
		return fmt.Errorf("failed to create vector extension: %w", err)
	}
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS incident_embeddings (
			id                 BIGSERIAL PRIMARY KEY,
			alert_id           TEXT NOT NULL,
			alert_name         TEXT NOT NULL,
			service            TEXT NOT NULL,
			hostname           TEXT,
			status             TEXT NOT NULL,
			analysis           TEXT NOT NULL,
			resolution_actions TEXT[] NOT NULL DEFAULT '{}',
			triggered_at       TIMESTAMPTZ NOT NULL,
			resolved_at        TIMESTAMPTZ,
			document_url       TEXT,
			embedding          vector(%d),
			created_at         TIMESTAMPTZ DEFAULT NOW()
		)`, EmbeddingDim)
	if _, err := db.Pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create incident collection: %w", err)
	}

	// IVFFlat 인덱스는 데이터가 어느 정도 쌓인 뒤에만 생성 가능
	count, err := db.CountPoints(ctx, IncidentCollection)
	if err == nil && count >= 10 {
		_, _ = db.Pool.Exec(ctx, `
			CREATE INDEX IF NOT EXISTS idx_incident_embeddings_embedding
				ON incident_embeddings
				USING ivfflat (embedding vector_cosine_ops)
				WITH (lists = 10)`)
	}
	return nil
}

// EnsureCorpusCollection - 코퍼스 컬렉션 생성 (존재 시 no-op)
func (db *Postgres) EnsureCorpusCollection(ctx context.Context) error {
	if _, err := db.Pool.Exec(ctx, `CREATE EXTENSION IF NOT EXISTS vector`); err != nil {
		return fmt.Errorf("failed to create vector extension: %w", err)
	}
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS corpus_chunks (
			id              BIGSERIAL PRIMARY KEY,
			content         TEXT NOT NULL,
			source_file     TEXT NOT NULL,
			category        TEXT NOT NULL,
			topic           TEXT NOT NULL,
			section_heading TEXT,
			embedding       vector(%d),
			created_at      TIMESTAMPTZ DEFAULT NOW()
		)`, EmbeddingDim)
	if _, err := db.Pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create corpus collection: %w", err)
	}
	return nil
}

// CollectionExists - 컬렉션(테이블) 존재 여부 확인
func (db *Postgres) CollectionExists(ctx context.Context, collection string) (bool, error) {
	var regclass *string
	err := db.Pool.QueryRow(ctx, `SELECT to_regclass($1)::text`, collection).Scan(&regclass)
	if err != nil {
		return false, err
	}
	return regclass != nil, nil
}

// CountPoints - 컬렉션 내 포인트 개수
func (db *Postgres) CountPoints(ctx context.Context, collection string) (int64, error) {
	if !validCollection(collection) {
		return 0, fmt.Errorf("unknown collection: %s", collection)
	}
	var count int64
	err := db.Pool.QueryRow(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s`, collection)).Scan(&count)
	return count, err
}

// DropCollection - 컬렉션 삭제 (재인제스트 전용)
func (db *Postgres) DropCollection(ctx context.Context, collection string) error {
	if !validCollection(collection) {
		return fmt.Errorf("unknown collection: %s", collection)
	}
	_, err := db.Pool.Exec(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %s`, collection))
	return err
}

// 테이블 이름은 고정 상수만 허용 (동적 SQL 방지)
func validCollection(collection string) bool {
	return collection == IncidentCollection || collection == CorpusCollection
}

// InsertIncidentEmbedding - 장애 임베딩 레코드 저장 (append-only)
func (db *Postgres) InsertIncidentEmbedding(ctx context.Context, rec model.IncidentEmbeddingRecord) (int64, error) {
	query := `
		INSERT INTO incident_embeddings
			(alert_id, alert_name, service, hostname, status, analysis,
			 resolution_actions, triggered_at, resolved_at, document_url, embedding)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`
	var id int64
	err := db.Pool.QueryRow(ctx, query,
		rec.AlertID,
		rec.AlertName,
		rec.Service,
		rec.Hostname,
		rec.Status,
		rec.AnalysisText,
		rec.ResolutionActions,
		rec.TimestampTriggered,
		rec.TimestampResolved,
		rec.DocumentURL,
		pgvector.NewVector(rec.Vector),
	).Scan(&id)
	return id, err
}

// SearchSimilarIncidents - 코사인 유사도 기준 top-K 검색
//
// 반환되는 score는 1 - cosine_distance (0~1, 높을수록 유사).
// threshold 필터링은 호출부(service)에서 수행한다.
func (db *Postgres) SearchSimilarIncidents(ctx context.Context, vector []float32, topK int) ([]model.SimilarIncident, error) {
	query := `
		SELECT
			alert_id,
			analysis,
			array_to_string(resolution_actions, '; '),
			COALESCE(document_url, ''),
			1 - (embedding <=> $1) AS score
		FROM incident_embeddings
		ORDER BY embedding <=> $1
		LIMIT $2
	`
	rows, err := db.Pool.Query(ctx, query, pgvector.NewVector(vector), topK)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []model.SimilarIncident
	for rows.Next() {
		var s model.SimilarIncident
		if err := rows.Scan(&s.IncidentID, &s.Summary, &s.Resolution, &s.DocumentLink, &s.Score); err != nil {
			return nil, err
		}
		results = append(results, s)
	}
	return results, rows.Err()
}

// InsertCorpusChunk - 코퍼스 청크 저장
func (db *Postgres) InsertCorpusChunk(ctx context.Context, chunk model.CorpusChunk, vector []float32) (int64, error) {
	query := `
		INSERT INTO corpus_chunks (content, source_file, category, topic, section_heading, embedding)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	var id int64
	err := db.Pool.QueryRow(ctx, query,
		chunk.Text,
		chunk.SourceFile,
		chunk.Category,
		chunk.Topic,
		chunk.SectionHeading,
		pgvector.NewVector(vector),
	).Scan(&id)
	return id, err
}
