// AI 분석 합성 서비스
//
// 정규화된 알림 + 수집 증거 + 유사 과거 장애를 하나의 프롬프트로
// 조립하여 LLM에 전달하고, 응답 markdown에서 신뢰도와 권장 조치를
// 추출한다. LLM 호출 자체의 재시도는 resilience 레이어 담당.

package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/rayne-rca/backend/internal/model"
)

// TextGenerator - LLM 텍스트 생성 인터페이스 (LLMGateway가 구현)
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// SynthesisService 구조체 정의
type SynthesisService struct {
	llm TextGenerator
}

// SynthesisService 객체 생성
func NewSynthesisService(llm TextGenerator) *SynthesisService {
	return &SynthesisService{llm: llm}
}

const analysisPromptTemplate = `You are a senior SRE performing root cause analysis for a production alert.

## Alert
- Name: %s
- Service: %s
- Environment: %s
- Severity: %s
- Status: %s
- Kind: %s

## Collected Evidence
%s

## Similar Past Incidents
%s

Write a root cause analysis in markdown. Requirements:
1. Start with a one-paragraph summary of the most likely root cause.
2. Reference the collected evidence explicitly. If a data source says "no data available", say so rather than speculating about it.
3. If similar past incidents are listed, compare against them and say whether this looks like a recurrence.
4. End with exactly these two sections:

Confidence: <high|medium|low>

Recommended Actions:
- <action 1>
- <action 2>`

// BuildPrompt - 분석 프롬프트 조립
func BuildPrompt(rec model.AlertRecord, evidence string, retrieval model.RetrievalResult) string {
	return fmt.Sprintf(analysisPromptTemplate,
		rec.Name, rec.Service, rec.Environment, rec.Severity, rec.Status, rec.Kind,
		evidence,
		RenderKnownIncidents(retrieval),
	)
}

// Synthesize - LLM 분석 수행 및 구조화 필드 추출
func (s *SynthesisService) Synthesize(ctx context.Context, rec model.AlertRecord, evidence string, retrieval model.RetrievalResult) (model.AnalysisResult, error) {
	raw, err := s.llm.Generate(ctx, BuildPrompt(rec, evidence, retrieval))
	if err != nil {
		return model.AnalysisResult{}, fmt.Errorf("analysis generation failed: %w", err)
	}
	return ParseAnalysis(raw), nil
}

var confidencePattern = regexp.MustCompile(`(?im)^\s*(?:\*\*)?confidence(?:\*\*)?\s*[:：](?:\*\*)?\s*(?:\*\*)?(high|medium|low)`)

// ParseAnalysis - LLM 응답 markdown에서 구조화 필드 추출
//
// 모델이 형식을 지키지 않아도 항상 사용 가능한 결과를 반환한다:
// 신뢰도 미표기 시 "medium", 권장 조치 미표기 시 빈 목록.
func ParseAnalysis(raw string) model.AnalysisResult {
	result := model.AnalysisResult{
		MarkdownBody:    strings.TrimSpace(raw),
		ConfidenceLevel: "medium",
	}

	if m := confidencePattern.FindStringSubmatch(raw); len(m) > 1 {
		result.ConfidenceLevel = strings.ToLower(m[1])
	}

	result.RecommendedActions = parseRecommendedActions(raw)
	return result
}

// parseRecommendedActions - "Recommended Actions" 헤더 다음 불릿 목록 추출
func parseRecommendedActions(raw string) []string {
	lines := strings.Split(raw, "\n")
	var actions []string
	inSection := false

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		lower := strings.ToLower(trimmed)

		if strings.Contains(lower, "recommended actions") {
			inSection = true
			continue
		}
		if !inSection {
			continue
		}

		if strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* ") {
			action := strings.TrimSpace(trimmed[2:])
			if action != "" {
				actions = append(actions, action)
			}
			continue
		}
		// 불릿이 아닌 내용이 나오면 섹션 종료 (빈 줄은 허용)
		if trimmed != "" {
			break
		}
	}
	return actions
}
