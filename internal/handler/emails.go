package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/park285/armourmail-go/internal/httperror"
	"github.com/park285/armourmail-go/internal/mail"
	"github.com/park285/armourmail-go/internal/scan"
)

// EmailHandler 는 메일 조회 API 핸들러다.
type EmailHandler struct {
	service *scan.Service
	logger  *slog.Logger
}

// NewEmailHandler 는 메일 핸들러를 생성한다.
func NewEmailHandler(service *scan.Service, logger *slog.Logger) *EmailHandler {
	return &EmailHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes 는 메일 라우트를 등록한다.
func (h *EmailHandler) RegisterRoutes(router *gin.Engine) {
	group := router.Group("/api/emails")
	group.GET("", h.handleList)
	group.GET("/:id", h.handleGet)
}

func (h *EmailHandler) handleList(c *gin.Context) {
	filter := mail.ListFilter{Sender: c.Query("sender")}
	if rawStatus := c.Query("status"); rawStatus != "" {
		status := mail.Status(rawStatus)
		if !mail.ValidStatus(status) {
			writeError(c, httperror.NewInvalidInput("unknown status filter"))
			return
		}
		filter.Status = status
	}

	page, ok := parsePositiveQuery(c, "page", 1)
	if !ok {
		return
	}
	pageSize, ok := parsePositiveQuery(c, "page_size", 20)
	if !ok {
		return
	}

	result, err := h.service.ListEmails(c.Request.Context(), filter, page, pageSize)
	if err != nil {
		h.logError(err)
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *EmailHandler) handleGet(c *gin.Context) {
	emailID := c.Param("id")
	if emailID == "" {
		writeError(c, httperror.NewMissingField("id"))
		return
	}

	email, err := h.service.GetEmail(c.Request.Context(), emailID)
	if err != nil {
		h.logError(err)
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, email)
}

func parsePositiveQuery(c *gin.Context, name string, defaultValue int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return defaultValue, true
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		writeError(c, httperror.NewInvalidInput(name+" must be a positive integer"))
		return 0, false
	}
	return parsed, true
}

func (h *EmailHandler) logError(err error) {
	if err == nil {
		return
	}
	h.logger.Warn("email_request_failed", "err", err)
}
