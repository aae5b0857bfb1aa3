package scan

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/park285/armourmail-go/internal/cache"
	"github.com/park285/armourmail-go/internal/config"
	"github.com/park285/armourmail-go/internal/detector"
	"github.com/park285/armourmail-go/internal/mail"
	"github.com/park285/armourmail-go/internal/metrics"
	"github.com/park285/armourmail-go/internal/stats"
)

// scanErrorPattern 은 스캔 실패 시 기록되는 패턴 이름이다.
const scanErrorPattern = "scan_error"

// IngestInput 는 수신 메일 입력이다.
type IngestInput struct {
	Sender      string
	Recipient   string
	Subject     string
	BodyPlain   string
	BodyHTML    string
	Headers     map[string]string
	Attachments []string
}

// Service: 메일 스캔 파이프라인입니다.
// 수신 메일을 탐지기에 통과시켜 상태를 결정하고 저장소에 기록합니다.
type Service struct {
	cfg      *config.Config
	detector *detector.Detector
	store    *mail.Store
	stats    *stats.Recorder
	metrics  *metrics.Store
	logger   *slog.Logger
	cache    *cache.TTLCache[string, detector.ScanResult]
	group    singleflight.Group
}

// NewService 는 스캔 서비스를 생성한다.
func NewService(
	cfg *config.Config,
	det *detector.Detector,
	store *mail.Store,
	recorder *stats.Recorder,
	metricsStore *metrics.Store,
	logger *slog.Logger,
) *Service {
	svc := &Service{
		cfg:      cfg,
		detector: det,
		store:    store,
		stats:    recorder,
		metrics:  metricsStore,
		logger:   logger,
	}
	if cfg != nil && cfg.Detector.CacheMaxSize > 0 {
		ttl := time.Duration(cfg.Detector.CacheTTLSeconds) * time.Second
		if ttl <= 0 {
			ttl = time.Hour
		}
		svc.cache = cache.NewTTLCache[string, detector.ScanResult](cfg.Detector.CacheMaxSize, ttl)
	}
	return svc
}

// Ingest 는 수신 메일을 스캔하고 저장한다.
// 탐지기 오류 시에도 메일을 잃지 않도록 격리 상태로 저장한다.
func (s *Service) Ingest(ctx context.Context, input IngestInput) (*mail.Email, error) {
	start := time.Now()

	email := &mail.Email{
		ID:          uuid.NewString(),
		Sender:      input.Sender,
		Recipient:   input.Recipient,
		Subject:     input.Subject,
		BodyPlain:   input.BodyPlain,
		BodyHTML:    input.BodyHTML,
		Headers:     input.Headers,
		Attachments: input.Attachments,
		Status:      mail.StatusPending,
		ReceivedAt:  time.Now(),
	}

	result, scanErr := s.safeScan(input.Subject, input.BodyPlain, input.BodyHTML, input.Sender)
	duration := time.Since(start)

	if scanErr != nil {
		// fail-safe: 판정 불가 메일은 격리한다
		email.Status = mail.StatusQuarantined
		email.Scan = &mail.ScanOutcome{
			ScanResult: detector.ScanResult{
				DetectedPatterns:      []string{scanErrorPattern},
				QuarantineRecommended: true,
			},
			ThreatLevel: mail.ThreatMedium,
			ScannedAt:   time.Now(),
		}
		if s.metrics != nil {
			s.metrics.RecordScanError(duration)
		}
		if s.stats != nil {
			s.stats.RecordScanError(ctx)
		}
		if s.logger != nil {
			s.logger.Warn(
				"scan_failed",
				"email_id", email.ID,
				"sender", email.Sender,
				"err", scanErr,
			)
		}
	} else {
		level := mail.ThreatLevelForScore(result.RiskScore)
		email.Status = mail.StatusForThreat(level)
		email.Scan = &mail.ScanOutcome{
			ScanResult:  result,
			ThreatLevel: level,
			ScannedAt:   time.Now(),
		}
		if s.metrics != nil {
			s.metrics.RecordScan(email.Status, duration)
		}
		if s.stats != nil {
			s.stats.RecordScan(ctx, email.Status)
		}
		if s.logger != nil {
			s.logger.Info(
				"email_scanned",
				"email_id", email.ID,
				"status", email.Status,
				"risk_score", result.RiskScore,
				"patterns", len(result.DetectedPatterns),
				"duration_ms", duration.Milliseconds(),
			)
		}
	}

	if err := s.store.Put(ctx, email); err != nil {
		return nil, fmt.Errorf("store scanned email: %w", err)
	}
	return email, nil
}

// ScanDirect 는 저장 없이 본문만 스캔한다. 수신 경로와 같은 캐시를
// 공유하되 키 공간은 분리한다.
func (s *Service) ScanDirect(content, htmlContent string) (outcome mail.ScanOutcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("scan panic: %v", r)
		}
	}()
	if s.detector == nil {
		return outcome, fmt.Errorf("detector is nil")
	}

	result := s.cachedScan(scanCacheKey("direct", content, htmlContent), func() detector.ScanResult {
		return s.detector.Scan(content, htmlContent)
	})
	return mail.ScanOutcome{
		ScanResult:  result,
		ThreatLevel: mail.ThreatLevelForScore(result.RiskScore),
		ScannedAt:   time.Now(),
	}, nil
}

// Approve 는 격리 메일을 통과 승인한다.
func (s *Service) Approve(ctx context.Context, id string) (*mail.Email, error) {
	email, err := s.store.UpdateStatus(ctx, id, []mail.Status{mail.StatusQuarantined}, mail.StatusApproved, "")
	if err != nil {
		return nil, err
	}
	if s.logger != nil {
		s.logger.Info("email_approved", "email_id", id)
	}
	return email, nil
}

// Reject 는 격리 메일을 차단 확정한다.
func (s *Service) Reject(ctx context.Context, id, note string) (*mail.Email, error) {
	email, err := s.store.UpdateStatus(ctx, id, []mail.Status{mail.StatusQuarantined}, mail.StatusRejected, note)
	if err != nil {
		return nil, err
	}
	if s.logger != nil {
		s.logger.Info("email_rejected", "email_id", id, "note", note)
	}
	return email, nil
}

// GetEmail 는 메일 레코드를 조회한다.
func (s *Service) GetEmail(ctx context.Context, id string) (*mail.Email, error) {
	return s.store.Get(ctx, id)
}

// ListEmails 는 필터 조건으로 메일 목록을 조회한다.
func (s *Service) ListEmails(ctx context.Context, filter mail.ListFilter, page, pageSize int) (mail.Page, error) {
	return s.store.List(ctx, filter, page, pageSize)
}

// ListQuarantined 는 격리 대기열을 조회한다.
func (s *Service) ListQuarantined(ctx context.Context, page, pageSize int) (mail.Page, error) {
	return s.store.ListQuarantined(ctx, page, pageSize)
}

func (s *Service) safeScan(subject, bodyPlain, bodyHTML, sender string) (result detector.ScanResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("scan panic: %v", r)
		}
	}()
	if s.detector == nil {
		return result, fmt.Errorf("detector is nil")
	}

	key := scanCacheKey("email", subject, bodyPlain, bodyHTML)
	result = s.cachedScan(key, func() detector.ScanResult {
		return s.detector.ScanEmail(subject, bodyPlain, bodyHTML, "")
	})
	result.Details.Sender = sender
	return result, nil
}

// cachedScan 는 동일 입력 중복 스캔을 캐시와 singleflight 로 합친다.
// 발신자는 캐시 키에 넣지 않고 조회 후 덧붙인다.
func (s *Service) cachedScan(key string, scan func() detector.ScanResult) detector.ScanResult {
	if s.cache == nil {
		return scan()
	}

	if cached, ok := s.cache.Get(key); ok {
		return cached
	}

	value, _, _ := s.group.Do(key, func() (any, error) {
		result := scan()
		s.cache.Set(key, result)
		return result, nil
	})
	return value.(detector.ScanResult)
}

func scanCacheKey(parts ...string) string {
	hash := sha256.New()
	for i, part := range parts {
		if i > 0 {
			hash.Write([]byte{0})
		}
		hash.Write([]byte(part))
	}
	return hex.EncodeToString(hash.Sum(nil))
}
