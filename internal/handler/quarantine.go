package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/park285/armourmail-go/internal/httperror"
	"github.com/park285/armourmail-go/internal/scan"
)

// RejectRequest 는 격리 거부 요청 본문이다.
type RejectRequest struct {
	Reason string `json:"reason"`
}

// ReviewResponse 는 격리 처리 응답이다.
type ReviewResponse struct {
	ID      string `json:"id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// QuarantineHandler 는 격리 대기열 API 핸들러다.
type QuarantineHandler struct {
	service *scan.Service
	logger  *slog.Logger
}

// NewQuarantineHandler 는 격리 핸들러를 생성한다.
func NewQuarantineHandler(service *scan.Service, logger *slog.Logger) *QuarantineHandler {
	return &QuarantineHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes 는 격리 라우트를 등록한다.
func (h *QuarantineHandler) RegisterRoutes(router *gin.Engine) {
	group := router.Group("/api/quarantine")
	group.GET("", h.handleList)
	group.POST("/:id/approve", h.handleApprove)
	group.POST("/:id/reject", h.handleReject)
}

// handleList 는 격리 대기열을 수신 순서대로 반환한다.
func (h *QuarantineHandler) handleList(c *gin.Context) {
	page, ok := parsePositiveQuery(c, "page", 1)
	if !ok {
		return
	}
	pageSize, ok := parsePositiveQuery(c, "page_size", 20)
	if !ok {
		return
	}

	result, err := h.service.ListQuarantined(c.Request.Context(), page, pageSize)
	if err != nil {
		h.logError(err)
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *QuarantineHandler) handleApprove(c *gin.Context) {
	emailID := c.Param("id")
	if emailID == "" {
		writeError(c, httperror.NewMissingField("id"))
		return
	}

	email, err := h.service.Approve(c.Request.Context(), emailID)
	if err != nil {
		h.logError(err)
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, ReviewResponse{
		ID:      email.ID,
		Status:  string(email.Status),
		Message: "email released from quarantine",
	})
}

func (h *QuarantineHandler) handleReject(c *gin.Context) {
	emailID := c.Param("id")
	if emailID == "" {
		writeError(c, httperror.NewMissingField("id"))
		return
	}

	var request RejectRequest
	if !bindJSONAllowEmpty(c, &request) {
		return
	}

	email, err := h.service.Reject(c.Request.Context(), emailID, request.Reason)
	if err != nil {
		h.logError(err)
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, ReviewResponse{
		ID:      email.ID,
		Status:  string(email.Status),
		Message: "email rejected",
	})
}

func (h *QuarantineHandler) logError(err error) {
	if err == nil {
		return
	}
	h.logger.Warn("quarantine_request_failed", "err", err)
}
