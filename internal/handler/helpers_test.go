package handler

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/park285/armourmail-go/internal/config"
	"github.com/park285/armourmail-go/internal/detector"
	"github.com/park285/armourmail-go/internal/mail"
	"github.com/park285/armourmail-go/internal/metrics"
	"github.com/park285/armourmail-go/internal/scan"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fixture struct {
	cfg     *config.Config
	service *scan.Service
	store   *mail.Store
	router  *gin.Engine
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Detector: config.DetectorConfig{
			Sensitivity:         "medium",
			CheckBase64:         true,
			CheckHomoglyphs:     true,
			QuarantineThreshold: 50,
		},
		MailStore: config.MailStoreConfig{Enabled: false, TTLHours: 1, MaxRecords: 100},
	}

	det, err := detector.New(detector.DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("detector: %v", err)
	}
	store, err := mail.NewStore(cfg)
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	t.Cleanup(store.Close)

	metricsStore := metrics.NewStore()
	service := scan.NewService(cfg, det, store, nil, metricsStore, nil)

	router := NewRouter(
		cfg,
		nil,
		store,
		NewWebhookHandler(service, discardLogger()),
		NewEmailHandler(service, discardLogger()),
		NewQuarantineHandler(service, discardLogger()),
		NewScanHandler(service, discardLogger()),
		NewStatsHandler(nil, metricsStore, discardLogger()),
	)

	return &fixture{
		cfg:     cfg,
		service: service,
		store:   store,
		router:  router,
	}
}

func (f *fixture) ingest(t *testing.T, sender, subject, body string) *mail.Email {
	t.Helper()
	email, err := f.service.Ingest(context.Background(), scan.IngestInput{
		Sender:    sender,
		Subject:   subject,
		BodyPlain: body,
	})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	return email
}

func (f *fixture) seedEmail(t *testing.T, id string, status mail.Status, receivedAt time.Time) *mail.Email {
	t.Helper()
	email := &mail.Email{
		ID:         id,
		Sender:     "seed-" + id + "@example.com",
		Recipient:  "inbox@example.com",
		Subject:    "seed " + id,
		BodyPlain:  "seed body",
		Status:     status,
		ReceivedAt: receivedAt,
	}
	if err := f.store.Put(context.Background(), email); err != nil {
		t.Fatalf("seed put: %v", err)
	}
	return email
}
