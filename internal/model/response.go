package model

// AnalyzeResponse - 알림 웹훅 처리 성공 응답
type AnalyzeResponse struct {
	Success              bool   `json:"success"`
	AlertID              string `json:"alertId"`
	Analysis             string `json:"analysis"`
	SimilarIncidentCount int    `json:"similarIncidentCount"`
	AutomationReview     bool   `json:"automationReview,omitempty"`
	DocumentLink         string `json:"documentLink"`
	Timestamp            string `json:"timestamp"`
}

// AnalyzeErrorResponse - 파이프라인 실패 응답 (분류된 에러 포함)
type AnalyzeErrorResponse struct {
	Error            string `json:"error"`
	ErrorType        string `json:"errorType"`
	RetriesExhausted bool   `json:"retriesExhausted"`
}

// RecoveryResponse - 복구 웹훅 처리 응답
type RecoveryResponse struct {
	Success      bool   `json:"success"`
	AlertID      string `json:"alertId"`
	DocumentLink string `json:"documentLink,omitempty"`
	Resolved     bool   `json:"resolved"`
	Timestamp    string `json:"timestamp"`
}

// InvestigationListResponse - 레지스트리 스냅샷 조회 응답
type InvestigationListResponse struct {
	Status string                  `json:"status"`
	Data   []DocumentRegistryEntry `json:"data"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

type PingResponse struct {
	Message string `json:"message"`
}

type RootResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
