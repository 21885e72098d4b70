package handler

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rayne-rca/backend/internal/model"
)

// corpusService - 코퍼스 서비스 인터페이스
type corpusService interface {
	Status(ctx context.Context) (model.CorpusStatus, error)
	Reingest(ctx context.Context) error
}

// CorpusHandler - 지식 코퍼스 관리 핸들러
type CorpusHandler struct {
	svc corpusService
}

func NewCorpusHandler(svc corpusService) *CorpusHandler {
	return &CorpusHandler{svc: svc}
}

// CorpusStatus godoc
// @Summary Get knowledge corpus collection status
// @Tags corpus
// @Produce json
// @Success 200 {object} model.CorpusStatus
// @Failure 500 {object} model.ErrorResponse
// @Router /api/v1/corpus/status [get]
func (h *CorpusHandler) CorpusStatus(c *gin.Context) {
	status, err := h.svc.Status(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, status)
}

// Reingest godoc
// @Summary Drop and rebuild the knowledge corpus collection
// @Tags corpus
// @Produce json
// @Security BearerAuth
// @Success 202 {object} model.StatusResponse
// @Failure 401 {object} model.ErrorResponse
// @Router /api/v1/corpus/reingest [post]
func (h *CorpusHandler) Reingest(c *gin.Context) {
	// 전체 재적재는 오래 걸릴 수 있어 백그라운드로 실행한다
	go func() {
		if err := h.svc.Reingest(context.Background()); err != nil {
			log.Printf("[Corpus] Reingest failed: %v", err)
		}
	}()
	c.JSON(http.StatusAccepted, model.StatusResponse{Status: "reingest started"})
}
