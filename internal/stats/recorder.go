package stats

import (
	"context"
	"log/slog"
	"time"

	"github.com/park285/armourmail-go/internal/config"
	"github.com/park285/armourmail-go/internal/mail"
)

// Recorder: 스캔 결과 집계 기록기입니다.
// 배치 모드가 켜져 있으면 메모리에 누적 후 주기적으로 DB에 플러시합니다.
type Recorder struct {
	store   Store
	logger  *slog.Logger
	batcher *batcher
}

// NewRecorder 는 집계 기록기를 생성한다.
func NewRecorder(cfg *config.Config, store Store, logger *slog.Logger) *Recorder {
	r := &Recorder{
		store:  store,
		logger: logger,
	}
	if cfg != nil && cfg.Database.StatsBatchEnabled {
		r.batcher = newBatcher(cfg, store, logger)
		r.batcher.start()
		if logger != nil {
			logger.Info(
				"stats_db_batch_enabled",
				"flush_interval_seconds", cfg.Database.StatsBatchFlushIntervalSeconds,
				"max_pending_records", cfg.Database.StatsBatchMaxPendingRecords,
			)
		}
	}
	return r
}

// RecordScan 은 스캔 한 건의 최종 상태를 집계한다.
func (r *Recorder) RecordScan(ctx context.Context, status mail.Status) {
	delta := statDelta{scanned: 1}
	switch status {
	case mail.StatusQuarantined:
		delta.quarantined = 1
	case mail.StatusSuspicious:
		delta.suspicious = 1
	default:
		delta.safe = 1
	}
	r.record(ctx, delta)
}

// RecordScanError 는 스캔 실패 한 건을 집계한다.
func (r *Recorder) RecordScanError(ctx context.Context) {
	r.record(ctx, statDelta{scanned: 1, quarantined: 1, scanErrors: 1})
}

func (r *Recorder) record(ctx context.Context, delta statDelta) {
	if r.store == nil {
		return
	}

	if r.batcher != nil {
		r.batcher.add(delta)
		return
	}

	err := r.store.RecordScans(
		ctx,
		delta.scanned,
		delta.quarantined,
		delta.suspicious,
		delta.safe,
		delta.scanErrors,
		time.Time{},
	)
	if err != nil && r.logger != nil {
		r.logger.Warn("stats_db_save_failed", "err", err)
	}
}

// Close 는 남은 배치를 플러시하고 저장소를 닫는다.
func (r *Recorder) Close() {
	if r.batcher != nil {
		r.batcher.stop()
	}
	if r.store != nil {
		r.store.Close()
	}
}
