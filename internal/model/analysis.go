package model

import "time"

// SimilarIncident - 벡터 검색으로 찾은 유사 과거 장애
// Analysis Synthesis와 문서 템플릿에서 소비되며 생성 후 불변
type SimilarIncident struct {
	IncidentID   string  `json:"incidentId"`
	Score        float64 `json:"score"` // 0~1 코사인 유사도
	Summary      string  `json:"summary"`
	Resolution   string  `json:"resolution"`
	DocumentLink string  `json:"documentLink"`
}

// RetrievalResult - 유사도 검색 결과
type RetrievalResult struct {
	Incidents []SimilarIncident

	// AutomationReview - 유사도 0.90 이상 매치가 3건 이상일 때 true.
	// 자동화 검토 대상 신호이며 자동 실행되지는 않는다.
	AutomationReview bool
}

// AnalysisResult - LLM 분석 결과
type AnalysisResult struct {
	MarkdownBody       string   `json:"markdownBody"`
	ConfidenceLevel    string   `json:"confidenceLevel"`
	RecommendedActions []string `json:"recommendedActions"`
}

// IncidentEmbeddingRecord - 지식 저장소에 영속되는 장애 임베딩 레코드
// 분석 완료 시 1회 생성, append-only
type IncidentEmbeddingRecord struct {
	Vector             []float32
	AlertID            string
	AlertName          string
	Service            string
	Hostname           string
	Status             string
	AnalysisText       string
	ResolutionActions  []string
	TimestampTriggered time.Time
	TimestampResolved  *time.Time
	DocumentURL        string
}
