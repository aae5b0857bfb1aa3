package handler

import (
	"log/slog"
	"strings"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/park285/armourmail-go/internal/config"
	"github.com/park285/armourmail-go/internal/mail"
	"github.com/park285/armourmail-go/internal/middleware"
)

// NewRouter 는 HTTP 라우터를 구성한다.
func NewRouter(
	cfg *config.Config,
	logger *slog.Logger,
	store *mail.Store,
	webhookHandler *WebhookHandler,
	emailHandler *EmailHandler,
	quarantineHandler *QuarantineHandler,
	scanHandler *ScanHandler,
	statsHandler *StatsHandler,
) *gin.Engine {
	setGinMode(cfg.Logging.Level)

	router := gin.New()

	// OTel 미들웨어는 요청 전체를 추적하도록 가장 앞에 배치한다
	if cfg.Telemetry.Enabled {
		serviceName := cfg.Telemetry.ServiceName
		if serviceName == "" {
			serviceName = "armourmail"
		}
		router.Use(otelgin.Middleware(serviceName))
	}

	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(logger),
		gin.Recovery(),
		middleware.APIKeyAuth(cfg),
		middleware.RateLimit(cfg),
		gzip.Gzip(gzip.DefaultCompression),
	)

	RegisterHealthRoutes(router, cfg, store)
	webhookHandler.RegisterRoutes(router)
	emailHandler.RegisterRoutes(router)
	quarantineHandler.RegisterRoutes(router)
	scanHandler.RegisterRoutes(router)
	statsHandler.RegisterRoutes(router)

	return router
}

func setGinMode(level string) {
	if strings.EqualFold(strings.TrimSpace(level), "debug") {
		gin.SetMode(gin.DebugMode)
		return
	}
	gin.SetMode(gin.ReleaseMode)
}
