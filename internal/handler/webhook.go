// 알림/복구 웹훅 수신 핸들러
//
// 페이로드는 엄격 검증하지 않는다. 통합/버전마다 필드 구성이 다르므로
// 파싱 가능한 JSON이면 수용하고 정규화는 service 레이어에 맡긴다.

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rayne-rca/backend/internal/model"
	"github.com/rayne-rca/backend/internal/service"
)

// alertPipeline - 파이프라인 서비스 인터페이스
type alertPipeline interface {
	Analyze(ctx context.Context, webhook model.AlertWebhook) (model.AnalyzeResponse, error)
	Recover(ctx context.Context, webhook model.AlertWebhook) (model.RecoveryResponse, error)
}

// AlertHandler - 웹훅 수신 핸들러
type AlertHandler struct {
	pipeline alertPipeline
}

func NewAlertHandler(pipeline alertPipeline) *AlertHandler {
	return &AlertHandler{pipeline: pipeline}
}

// bindWebhook - 알 수 없는 필드를 보존하며 웹훅 파싱
func bindWebhook(c *gin.Context) (model.AlertWebhook, error) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return model.AlertWebhook{}, err
	}

	var webhook model.AlertWebhook
	if err := json.Unmarshal(raw, &webhook); err != nil {
		return model.AlertWebhook{}, err
	}
	// 원본 전체를 Raw에 보존 (표준 필드에 없는 통합별 필드 포함)
	_ = json.Unmarshal(raw, &webhook.Raw)
	return webhook, nil
}

// HandleAlert godoc
// @Summary Receive a monitoring alert webhook and run RCA analysis
// @Tags webhooks
// @Accept json
// @Produce json
// @Param request body model.AlertWebhook true "Alert webhook payload"
// @Success 200 {object} model.AnalyzeResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 500,502 {object} model.AnalyzeErrorResponse
// @Router /api/v1/webhooks/alert [post]
func (h *AlertHandler) HandleAlert(c *gin.Context) {
	webhook, err := bindWebhook(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid webhook payload"})
		return
	}

	resp, err := h.pipeline.Analyze(c.Request.Context(), webhook)
	if err != nil {
		status, body := classifyFailure(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleRecovery godoc
// @Summary Receive a recovery webhook and resolve the investigation document
// @Tags webhooks
// @Accept json
// @Produce json
// @Param request body model.AlertWebhook true "Recovery webhook payload"
// @Success 200 {object} model.RecoveryResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 502 {object} model.AnalyzeErrorResponse
// @Router /api/v1/webhooks/recovery [post]
func (h *AlertHandler) HandleRecovery(c *gin.Context) {
	webhook, err := bindWebhook(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid webhook payload"})
		return
	}

	resp, err := h.pipeline.Recover(c.Request.Context(), webhook)
	if err != nil {
		status, body := classifyFailure(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// classifyFailure - 파이프라인 실패를 HTTP 응답으로 변환
// 분류 정보(errorType, retriesExhausted)는 응답에 그대로 노출한다
func classifyFailure(err error) (int, model.AnalyzeErrorResponse) {
	var cerr *service.ClassifiedError
	if errors.As(err, &cerr) {
		status := http.StatusBadGateway
		if cerr.Class == service.ErrClassUnknown {
			status = http.StatusInternalServerError
		}
		return status, model.AnalyzeErrorResponse{
			Error:            cerr.Err.Error(),
			ErrorType:        string(cerr.Class),
			RetriesExhausted: cerr.RetriesExhausted,
		}
	}
	return http.StatusInternalServerError, model.AnalyzeErrorResponse{
		Error:     err.Error(),
		ErrorType: string(service.ErrClassUnknown),
	}
}
