package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/park285/armourmail-go/internal/httperror"
	"github.com/park285/armourmail-go/internal/metrics"
	"github.com/park285/armourmail-go/internal/stats"
)

// DailyStatResponse: 일자별 스캔 집계 응답입니다.
type DailyStatResponse struct {
	StatDate       string  `json:"stat_date"`
	Scanned        int64   `json:"scanned"`
	Quarantined    int64   `json:"quarantined"`
	Suspicious     int64   `json:"suspicious"`
	Safe           int64   `json:"safe"`
	ScanErrors     int64   `json:"scan_errors"`
	QuarantineRate float64 `json:"quarantine_rate"`
}

// StatListResponse: 집계 목록 응답입니다.
type StatListResponse struct {
	Stats            []DailyStatResponse `json:"stats"`
	TotalScanned     int64               `json:"total_scanned"`
	TotalQuarantined int64               `json:"total_quarantined"`
	TotalScanErrors  int64               `json:"total_scan_errors"`
}

// StatsHandler: 스캔 통계 API 핸들러입니다.
type StatsHandler struct {
	store   stats.Store
	metrics *metrics.Store
	logger  *slog.Logger
}

// NewStatsHandler: 통계 핸들러를 생성합니다.
func NewStatsHandler(store stats.Store, metricsStore *metrics.Store, logger *slog.Logger) *StatsHandler {
	return &StatsHandler{
		store:   store,
		metrics: metricsStore,
		logger:  logger,
	}
}

// RegisterRoutes: 통계 라우트를 등록합니다.
func (h *StatsHandler) RegisterRoutes(router *gin.Engine) {
	group := router.Group("/api/stats")
	group.GET("", h.handleSnapshot)
	group.GET("/daily", h.handleDaily)
	group.GET("/recent", h.handleRecent)
}

// handleSnapshot 는 프로세스 시작 이후의 인메모리 누적치를 반환한다.
func (h *StatsHandler) handleSnapshot(c *gin.Context) {
	if h.metrics == nil {
		c.JSON(http.StatusOK, map[string]float64{})
		return
	}
	c.JSON(http.StatusOK, h.metrics.Snapshot())
}

func (h *StatsHandler) handleDaily(c *gin.Context) {
	if h.store == nil {
		writeError(c, httperror.NewStoreError("stats storage is not configured"))
		return
	}

	row, err := h.store.GetDailyStat(c.Request.Context(), time.Time{})
	if err != nil {
		h.logError(err)
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, buildDailyResponse(row))
}

func (h *StatsHandler) handleRecent(c *gin.Context) {
	if h.store == nil {
		writeError(c, httperror.NewStoreError("stats storage is not configured"))
		return
	}

	days, ok := parseDays(c, 7)
	if !ok {
		return
	}

	rows, err := h.store.GetRecentStats(c.Request.Context(), days)
	if err != nil {
		h.logError(err)
		writeError(c, err)
		return
	}

	response := StatListResponse{Stats: make([]DailyStatResponse, 0, len(rows))}
	for _, row := range rows {
		response.Stats = append(response.Stats, buildDailyResponse(&row))
		response.TotalScanned += row.Scanned
		response.TotalQuarantined += row.Quarantined
		response.TotalScanErrors += row.ScanErrors
	}

	c.JSON(http.StatusOK, response)
}

func buildDailyResponse(row *stats.DailyStat) DailyStatResponse {
	if row == nil {
		return DailyStatResponse{StatDate: time.Now().Format("2006-01-02")}
	}
	return DailyStatResponse{
		StatDate:       row.StatDate.Format("2006-01-02"),
		Scanned:        row.Scanned,
		Quarantined:    row.Quarantined,
		Suspicious:     row.Suspicious,
		Safe:           row.Safe,
		ScanErrors:     row.ScanErrors,
		QuarantineRate: row.QuarantineRate(),
	}
}

func parseDays(c *gin.Context, defaultDays int) (int, bool) {
	raw := c.Query("days")
	if raw == "" {
		return defaultDays, true
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		writeError(c, httperror.NewInvalidInput("days must be a positive integer"))
		return 0, false
	}
	return parsed, true
}

func (h *StatsHandler) logError(err error) {
	if err == nil {
		return
	}
	h.logger.Warn("stats_request_failed", "err", err)
}
