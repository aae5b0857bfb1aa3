package di

import (
	"context"
	"fmt"

	"github.com/park285/armourmail-go/internal/config"
	"github.com/park285/armourmail-go/internal/handler"
	"github.com/park285/armourmail-go/internal/mail"
	"github.com/park285/armourmail-go/internal/metrics"
	"github.com/park285/armourmail-go/internal/scan"
	"github.com/park285/armourmail-go/internal/server"
	"github.com/park285/armourmail-go/internal/stats"
	"github.com/park285/armourmail-go/internal/telemetry"
)

// InitializeApp 은 애플리케이션 의존성을 초기화하고 App 인스턴스를 반환한다.
func InitializeApp(ctx context.Context) (*App, error) {
	cfg, err := config.ProvideConfig()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	logger, err := ProvideLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	telemetryProvider, err := telemetry.NewProvider(ctx, cfg.Telemetry)
	if err != nil {
		return nil, fmt.Errorf("telemetry: %w", err)
	}

	metricsStore := metrics.NewStore()
	statsRepository := stats.NewRepository(cfg, logger)
	statsRecorder := stats.NewRecorder(cfg, statsRepository, logger)

	injectionDetector, err := ProvideDetector(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("detector: %w", err)
	}

	mailStore, err := mail.NewStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("mail store: %w", err)
	}

	scanService := scan.NewService(cfg, injectionDetector, mailStore, statsRecorder, metricsStore, logger)

	webhookHandler := handler.NewWebhookHandler(scanService, logger)
	emailHandler := handler.NewEmailHandler(scanService, logger)
	quarantineHandler := handler.NewQuarantineHandler(scanService, logger)
	scanHandler := handler.NewScanHandler(scanService, logger)
	statsHandler := handler.NewStatsHandler(statsRepository, metricsStore, logger)

	router := handler.NewRouter(
		cfg,
		logger,
		mailStore,
		webhookHandler,
		emailHandler,
		quarantineHandler,
		scanHandler,
		statsHandler,
	)
	httpServer := server.NewHTTPServer(cfg, router)

	return NewApp(httpServer, logger, cfg, mailStore, statsRepository, statsRecorder, telemetryProvider), nil
}
