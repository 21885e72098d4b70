// RCA 파이프라인 오케스트레이터
//
// 알림 웹훅 1건의 전체 처리 흐름:
//
//	정규화 → (컨텍스트 수집 ∥ 유사 장애 검색) → AI 분석(resilience 적용)
//	→ (문서 발행 → 지식 영속화)
//
// 분석 실패 시에는 진단 이벤트와 최소 실패 문서를 남긴다.
// 알림이 분류 실패로 조용히 사라지는 일은 없어야 한다.

package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/rayne-rca/backend/internal/model"
	"github.com/rayne-rca/backend/internal/template"
)

// DiagnosticReporter - 파이프라인 실패를 플랫폼에 보고하는 인터페이스
type DiagnosticReporter interface {
	CreateEvent(ctx context.Context, title, text string, tags []string, alertType string) error
}

// PipelineService 구조체 정의
type PipelineService struct {
	context     *ContextService
	retrieval   *RetrievalService
	synthesis   *SynthesisService
	persistence *PersistenceService
	lifecycle   *LifecycleService
	executor    *Executor
	reporter    DiagnosticReporter
}

// PipelineService 객체 생성
func NewPipelineService(
	contextSvc *ContextService,
	retrieval *RetrievalService,
	synthesis *SynthesisService,
	persistence *PersistenceService,
	lifecycle *LifecycleService,
	executor *Executor,
	reporter DiagnosticReporter,
) *PipelineService {
	return &PipelineService{
		context:     contextSvc,
		retrieval:   retrieval,
		synthesis:   synthesis,
		persistence: persistence,
		lifecycle:   lifecycle,
		executor:    executor,
		reporter:    reporter,
	}
}

// Analyze - 알림 웹훅 1건 처리
//
// 성공 시 AnalyzeResponse를 반환한다. 실패 시 *ClassifiedError를
// 반환하며, 호출 전에 진단 이벤트와 최소 실패 문서를 이미 남긴 상태다.
func (s *PipelineService) Analyze(ctx context.Context, webhook model.AlertWebhook) (model.AnalyzeResponse, error) {
	requestID := uuid.New().String()
	triggeredAt := time.Now().UTC()

	rec := Normalize(webhook)
	log.Printf("[Pipeline] (%s) Analyzing alert %s (%s, service=%s, severity=%s, kind=%s)",
		requestID, rec.ID, rec.Name, rec.Service, rec.Severity, rec.Kind)

	// 컨텍스트 수집과 유사 장애 검색은 서로 독립 - 병렬 실행
	var bundle model.ContextBundle
	var retrieval model.RetrievalResult

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		bundle = s.context.Aggregate(gctx, rec)
		return nil
	})
	g.Go(func() error {
		retrieval = s.retrieval.Retrieve(gctx, rec)
		return nil
	})
	_ = g.Wait()

	evidence := RenderEvidence(bundle)

	// AI 분석 - 실패 분류/재시도는 Executor 담당
	var analysis model.AnalysisResult
	err := s.executor.Do(ctx, "analysis", func(opCtx context.Context) error {
		var synthErr error
		analysis, synthErr = s.synthesis.Synthesize(opCtx, rec, evidence, retrieval)
		return synthErr
	})
	if err != nil {
		s.reportFailure(ctx, rec, err)
		return model.AnalyzeResponse{}, err
	}

	// 문서 발행 - 실패 시 분석 결과는 응답으로라도 전달한다
	body := template.RenderInvestigation(rec, evidence, analysis, retrieval, triggeredAt)
	documentLink := ""
	entry, pubErr := s.lifecycle.Publish(ctx, rec, body)
	if pubErr != nil {
		log.Printf("[Pipeline] (%s) Document publish failed for alert %s: %v", requestID, rec.ID, pubErr)
	} else {
		documentLink = entry.Link
	}

	// 지식 영속화 - 발행 결과와 무관하게 수행, 실패는 경고만
	if persistErr := s.persistence.Persist(ctx, rec, analysis, documentLink, triggeredAt); persistErr != nil {
		log.Printf("[Pipeline] (%s) Knowledge persistence failed for alert %s: %v", requestID, rec.ID, persistErr)
	}

	log.Printf("[Pipeline] (%s) Alert %s analyzed (similar=%d, confidence=%s)",
		requestID, rec.ID, len(retrieval.Incidents), analysis.ConfidenceLevel)

	return model.AnalyzeResponse{
		Success:              true,
		AlertID:              rec.ID,
		Analysis:             analysis.MarkdownBody,
		SimilarIncidentCount: len(retrieval.Incidents),
		AutomationReview:     retrieval.AutomationReview,
		DocumentLink:         documentLink,
		Timestamp:            time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// Recover - 복구 웹훅 처리
func (s *PipelineService) Recover(ctx context.Context, webhook model.AlertWebhook) (model.RecoveryResponse, error) {
	rec := Normalize(webhook)
	log.Printf("[Pipeline] Recovery received for alert %s (%s)", rec.ID, rec.Name)

	entry, err := s.lifecycle.Resolve(ctx, rec, "")
	if err != nil {
		return model.RecoveryResponse{}, err
	}

	resp := model.RecoveryResponse{
		Success:   true,
		AlertID:   rec.ID,
		Resolved:  entry != nil,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if entry != nil {
		resp.DocumentLink = entry.Link
	}
	return resp, nil
}

// reportFailure - 분석 실패 보고 (진단 이벤트 + 최소 실패 문서)
// 보고 자체의 실패는 로그만 남긴다
func (s *PipelineService) reportFailure(ctx context.Context, rec model.AlertRecord, failure error) {
	log.Printf("[Pipeline] Analysis failed for alert %s: %v", rec.ID, failure)

	if s.reporter != nil {
		title := "RCA pipeline failure: " + rec.Name
		tags := []string{"rca:failure", "service:" + rec.Service, "env:" + rec.Environment}
		if err := s.reporter.CreateEvent(ctx, title, failure.Error(), tags, "error"); err != nil {
			log.Printf("[Pipeline] Diagnostic event creation failed: %v", err)
		}
	}

	body := template.RenderFailureBody(rec, failure.Error(), time.Now().UTC())
	if _, err := s.lifecycle.Publish(ctx, rec, body); err != nil {
		log.Printf("[Pipeline] Failure document publish failed for alert %s: %v", rec.ID, err)
	}
}
