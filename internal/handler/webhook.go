package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"

	"github.com/park285/armourmail-go/internal/handler/shared"
	"github.com/park285/armourmail-go/internal/httperror"
	"github.com/park285/armourmail-go/internal/scan"
)

// unknownSender 는 발신자 누락 시 사용하는 대체 주소다.
const unknownSender = "unknown@unknown.com"

// IngestRequest 는 JSON 수신 요청 본문이다.
type IngestRequest struct {
	From        string            `json:"from"`
	To          string            `json:"to"`
	Subject     string            `json:"subject"`
	Text        string            `json:"text"`
	HTML        string            `json:"html"`
	Headers     map[string]string `json:"headers"`
	Attachments []string          `json:"attachments"`
}

// IngestResponse 는 수신 응답 본문이다.
type IngestResponse struct {
	ID      string `json:"id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// WebhookHandler 는 메일 수신 웹훅 핸들러다.
type WebhookHandler struct {
	service *scan.Service
	logger  *slog.Logger
}

// NewWebhookHandler 는 웹훅 핸들러를 생성한다.
func NewWebhookHandler(service *scan.Service, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes 는 웹훅 라우트를 등록한다.
func (h *WebhookHandler) RegisterRoutes(router *gin.Engine) {
	group := router.Group("/webhook")
	group.POST("/ingest", h.handleIngest)
}

// handleIngest 는 인바운드 파서가 전달한 메일을 받아 스캔한다.
// 스캔 실패 메일도 격리 저장되므로 파서에는 항상 200을 돌려준다.
func (h *WebhookHandler) handleIngest(c *gin.Context) {
	request, ok := h.parseRequest(c)
	if !ok {
		return
	}

	if request.Text == "" && request.HTML == "" {
		writeError(c, httperror.NewMissingField("text"))
		return
	}
	if strings.TrimSpace(request.From) == "" {
		request.From = unknownSender
	}

	email, err := h.service.Ingest(c.Request.Context(), scan.IngestInput{
		Sender:      request.From,
		Recipient:   request.To,
		Subject:     request.Subject,
		BodyPlain:   request.Text,
		BodyHTML:    request.HTML,
		Headers:     request.Headers,
		Attachments: request.Attachments,
	})
	if err != nil {
		h.logger.Error("webhook_ingest_failed", "err", err)
		writeError(c, httperror.NewStoreError("failed to store email"))
		return
	}

	c.JSON(http.StatusOK, IngestResponse{
		ID:      email.ID,
		Status:  string(email.Status),
		Message: "email processed",
	})
}

func (h *WebhookHandler) parseRequest(c *gin.Context) (IngestRequest, bool) {
	var request IngestRequest

	contentType := c.ContentType()
	if strings.Contains(contentType, "json") {
		if !bindJSON(c, &request) {
			return request, false
		}
		return request, true
	}

	request.From = c.PostForm("from")
	request.To = c.PostForm("to")
	request.Subject = c.PostForm("subject")
	request.Text = c.PostForm("text")
	request.HTML = c.PostForm("html")
	request.Attachments = c.PostFormArray("attachments")
	request.Headers = h.parseHeaders(c.PostForm("headers"))
	return request, true
}

// parseHeaders 는 JSON 헤더 맵을 우선 시도하고, 실패하면 원문 헤더 블록을 줄 단위로 파싱한다.
func (h *WebhookHandler) parseHeaders(raw string) map[string]string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var generic map[string]any
	if err := json.Unmarshal([]byte(raw), &generic); err == nil {
		headers := make(map[string]string, len(generic))
		if decodeErr := shared.Decode(generic, &headers); decodeErr == nil {
			return headers
		}
	}

	headers := make(map[string]string)
	for _, line := range strings.Split(raw, "\n") {
		name, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		headers[name] = strings.TrimSpace(value)
	}
	if len(headers) == 0 {
		return nil
	}
	return headers
}
