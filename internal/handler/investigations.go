package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rayne-rca/backend/internal/model"
)

// investigationRegistry - 레지스트리 조회 인터페이스
type investigationRegistry interface {
	Snapshot() []model.DocumentRegistryEntry
}

// InvestigationHandler - 조사 문서 레지스트리 조회 핸들러
type InvestigationHandler struct {
	registry investigationRegistry
}

func NewInvestigationHandler(registry investigationRegistry) *InvestigationHandler {
	return &InvestigationHandler{registry: registry}
}

// ListInvestigations godoc
// @Summary List tracked investigation documents
// @Tags investigations
// @Produce json
// @Success 200 {object} model.InvestigationListResponse
// @Router /api/v1/investigations [get]
func (h *InvestigationHandler) ListInvestigations(c *gin.Context) {
	entries := h.registry.Snapshot()
	if entries == nil {
		entries = []model.DocumentRegistryEntry{}
	}
	c.JSON(http.StatusOK, model.InvestigationListResponse{Status: "success", Data: entries})
}
