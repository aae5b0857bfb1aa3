package di

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/park285/armourmail-go/internal/config"
	"github.com/park285/armourmail-go/internal/mail"
	"github.com/park285/armourmail-go/internal/stats"
	"github.com/park285/armourmail-go/internal/telemetry"
)

// App: 애플리케이션 구성 요소를 묶는다.
type App struct {
	Server          *http.Server
	Logger          *slog.Logger
	Config          *config.Config
	MailStore       *mail.Store
	StatsRepository *stats.Repository
	StatsRecorder   *stats.Recorder
	Telemetry       *telemetry.Provider
}

// NewApp: App 인스턴스를 생성합니다.
func NewApp(
	server *http.Server,
	logger *slog.Logger,
	cfg *config.Config,
	mailStore *mail.Store,
	statsRepository *stats.Repository,
	statsRecorder *stats.Recorder,
	telemetryProvider *telemetry.Provider,
) *App {
	return &App{
		Server:          server,
		Logger:          logger,
		Config:          cfg,
		MailStore:       mailStore,
		StatsRepository: statsRepository,
		StatsRecorder:   statsRecorder,
		Telemetry:       telemetryProvider,
	}
}

// Close: 앱 리소스를 정리합니다.
func (a *App) Close() {
	if a.StatsRecorder != nil {
		a.StatsRecorder.Close()
	}
	if a.StatsRepository != nil {
		a.StatsRepository.Close()
	}
	if a.MailStore != nil {
		a.MailStore.Close()
	}
	if a.Telemetry != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.Telemetry.Shutdown(shutdownCtx); err != nil && a.Logger != nil {
			a.Logger.Warn("telemetry_shutdown_failed", "err", err)
		}
	}
}
