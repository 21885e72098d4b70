package model

// CorpusChunk - 지식 코퍼스 인제스트 단위
//
// 일방향 변환 결과물로 제자리 수정되지 않는다.
// 재인제스트는 컬렉션 전체 삭제 후 재생성으로만 수행한다.
type CorpusChunk struct {
	Text           string `json:"text"`
	SourceFile     string `json:"source_file"`
	Category       string `json:"category"`
	Topic          string `json:"topic"`
	SectionHeading string `json:"section_heading"`
}

// CorpusStatus - 코퍼스 컬렉션 상태 조회 응답
type CorpusStatus struct {
	CollectionExists bool  `json:"collection_exists"`
	PointCount       int64 `json:"point_count"`
}
