package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/park285/armourmail-go/internal/config"
	"github.com/park285/armourmail-go/internal/health"
	"github.com/park285/armourmail-go/internal/mail"
)

// DetectorConfigResponse: 탐지기 설정 응답입니다.
type DetectorConfigResponse struct {
	Sensitivity         string `json:"sensitivity"`
	QuarantineThreshold int    `json:"quarantine_threshold"`
	CheckBase64         bool   `json:"check_base64"`
	CheckHomoglyphs     bool   `json:"check_homoglyphs"`
	RulepacksDir        string `json:"rulepacks_dir"`
	HTTP2Enabled        bool   `json:"http2_enabled"`
	TransportMode       string `json:"transport_mode"`
}

// RegisterHealthRoutes: 상태 확인 라우트를 등록합니다.
func RegisterHealthRoutes(router *gin.Engine, cfg *config.Config, store *mail.Store) {
	router.GET("/health", func(c *gin.Context) {
		// Liveness: 외부 의존성(Valkey/DB 등) 상태로 인해 다운 판정되지 않도록 shallow로 유지합니다.
		payload := health.Collect(c.Request.Context(), cfg, store, false)
		c.JSON(http.StatusOK, payload)
	})

	router.GET("/health/ready", func(c *gin.Context) {
		payload := health.Collect(c.Request.Context(), cfg, store, true)
		status := http.StatusOK
		if payload.Status != "ok" {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, payload)
	})

	// Prometheus 메트릭 (장기 히스토리 분석용)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/health/detector", func(c *gin.Context) {
		transportMode := "h1"
		if cfg.HTTP.HTTP2Enabled {
			transportMode = "h2c"
		}

		c.JSON(http.StatusOK, DetectorConfigResponse{
			Sensitivity:         cfg.Detector.Sensitivity,
			QuarantineThreshold: cfg.Detector.QuarantineThreshold,
			CheckBase64:         cfg.Detector.CheckBase64,
			CheckHomoglyphs:     cfg.Detector.CheckHomoglyphs,
			RulepacksDir:        cfg.Detector.RulepacksDir,
			HTTP2Enabled:        cfg.HTTP.HTTP2Enabled,
			TransportMode:       transportMode,
		})
	})
}
