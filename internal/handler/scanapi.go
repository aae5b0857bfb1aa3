package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/park285/armourmail-go/internal/httperror"
	"github.com/park285/armourmail-go/internal/scan"
)

// ScanRequest 는 직접 스캔 요청 본문이다.
type ScanRequest struct {
	Content     string `json:"content"`
	HTMLContent string `json:"html_content"`
}

// ScanHandler 는 직접 스캔 API 핸들러다.
type ScanHandler struct {
	service *scan.Service
	logger  *slog.Logger
}

// NewScanHandler 는 스캔 핸들러를 생성한다.
func NewScanHandler(service *scan.Service, logger *slog.Logger) *ScanHandler {
	return &ScanHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes 는 스캔 라우트를 등록한다.
func (h *ScanHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/api/scan", h.handleScan)
}

// handleScan 는 본문을 저장 없이 스캔해 판정만 돌려준다.
func (h *ScanHandler) handleScan(c *gin.Context) {
	var request ScanRequest
	if !bindJSON(c, &request) {
		return
	}
	if request.Content == "" && request.HTMLContent == "" {
		writeError(c, httperror.NewMissingField("content"))
		return
	}

	outcome, err := h.service.ScanDirect(request.Content, request.HTMLContent)
	if err != nil {
		h.logger.Warn("direct_scan_failed", "err", err)
		writeError(c, httperror.NewScanError("scan failed"))
		return
	}

	c.JSON(http.StatusOK, outcome)
}
