package metrics

import (
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/park285/armourmail-go/internal/mail"
)

var scansTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "armourmail_scans_total",
		Help: "Total number of scanned emails by final status.",
	},
	[]string{"status"},
)

var scanErrorsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "armourmail_scan_errors_total",
		Help: "Total number of scans that failed and were quarantined fail-safe.",
	},
)

// Store 는 스캔 통계를 저장한다.
type Store struct {
	totalScans       int64
	totalQuarantined int64
	totalSuspicious  int64
	totalSafe        int64
	totalErrors      int64
	totalDurationMs  int64
}

// NewStore 는 통계 저장소를 생성한다.
func NewStore() *Store {
	return &Store{}
}

// RecordScan 은 스캔 한 건의 최종 상태와 소요 시간을 기록한다.
func (s *Store) RecordScan(status mail.Status, duration time.Duration) {
	atomic.AddInt64(&s.totalScans, 1)
	atomic.AddInt64(&s.totalDurationMs, duration.Milliseconds())
	switch status {
	case mail.StatusQuarantined:
		atomic.AddInt64(&s.totalQuarantined, 1)
	case mail.StatusSuspicious:
		atomic.AddInt64(&s.totalSuspicious, 1)
	default:
		atomic.AddInt64(&s.totalSafe, 1)
	}
	scansTotal.WithLabelValues(string(status)).Inc()
}

// RecordScanError 는 스캔 실패 한 건을 기록한다.
func (s *Store) RecordScanError(duration time.Duration) {
	atomic.AddInt64(&s.totalScans, 1)
	atomic.AddInt64(&s.totalErrors, 1)
	atomic.AddInt64(&s.totalQuarantined, 1)
	atomic.AddInt64(&s.totalDurationMs, duration.Milliseconds())
	scansTotal.WithLabelValues(string(mail.StatusQuarantined)).Inc()
	scanErrorsTotal.Inc()
}

// Snapshot 는 통계 스냅샷을 반환한다.
func (s *Store) Snapshot() map[string]float64 {
	totalScans := atomic.LoadInt64(&s.totalScans)
	quarantined := atomic.LoadInt64(&s.totalQuarantined)
	suspicious := atomic.LoadInt64(&s.totalSuspicious)
	safe := atomic.LoadInt64(&s.totalSafe)
	totalErrors := atomic.LoadInt64(&s.totalErrors)
	durationMs := atomic.LoadInt64(&s.totalDurationMs)

	avgDuration := 0.0
	quarantineRate := 0.0
	if totalScans > 0 {
		avgDuration = float64(durationMs) / float64(totalScans)
		quarantineRate = float64(quarantined) / float64(totalScans)
	}

	return map[string]float64{
		"total_scans":       float64(totalScans),
		"total_quarantined": float64(quarantined),
		"total_suspicious":  float64(suspicious),
		"total_safe":        float64(safe),
		"total_scan_errors": float64(totalErrors),
		"total_duration_ms": float64(durationMs),
		"avg_duration_ms":   avgDuration,
		"quarantine_rate":   quarantineRate,
	}
}
