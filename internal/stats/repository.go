package stats

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"sync"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/park285/armourmail-go/internal/config"
)

// Repository 는 scan_stats DB 접근을 담당한다.
type Repository struct {
	cfg    *config.Config
	logger *slog.Logger
	mu     sync.Mutex
	db     *gorm.DB
	sqlDB  *sql.DB
}

// NewRepository 는 통계 저장소를 생성한다.
func NewRepository(cfg *config.Config, logger *slog.Logger) *Repository {
	return &Repository{
		cfg:    cfg,
		logger: logger,
	}
}

// RecordScans 는 지정한 날짜(또는 오늘)의 스캔 집계를 누적 저장한다.
func (r *Repository) RecordScans(
	ctx context.Context,
	scanned int64,
	quarantined int64,
	suspicious int64,
	safe int64,
	scanErrors int64,
	statDate time.Time,
) error {
	if scanned <= 0 && scanErrors <= 0 {
		return nil
	}

	db, err := r.getDB(ctx)
	if err != nil {
		return err
	}

	targetDate := statDate
	if targetDate.IsZero() {
		targetDate = todayDate()
	}

	row := ScanStat{
		StatDate:    targetDate,
		Scanned:     scanned,
		Quarantined: quarantined,
		Suspicious:  suspicious,
		Safe:        safe,
		ScanErrors:  scanErrors,
		Version:     0,
	}

	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "stat_date"}},
		DoUpdates: clause.Assignments(map[string]any{
			"scanned":     gorm.Expr("scan_stats.scanned + EXCLUDED.scanned"),
			"quarantined": gorm.Expr("scan_stats.quarantined + EXCLUDED.quarantined"),
			"suspicious":  gorm.Expr("scan_stats.suspicious + EXCLUDED.suspicious"),
			"safe":        gorm.Expr("scan_stats.safe + EXCLUDED.safe"),
			"scan_errors": gorm.Expr("scan_stats.scan_errors + EXCLUDED.scan_errors"),
			"version":     gorm.Expr("scan_stats.version + 1"),
		}),
	}).Create(&row).Error
}

// GetDailyStat 는 특정 날짜(또는 오늘)의 집계를 조회한다.
func (r *Repository) GetDailyStat(ctx context.Context, statDate time.Time) (*DailyStat, error) {
	db, err := r.getDB(ctx)
	if err != nil {
		return nil, err
	}

	targetDate := statDate
	if targetDate.IsZero() {
		targetDate = todayDate()
	}

	var row ScanStat
	result := db.WithContext(ctx).Where("stat_date = ?", targetDate).First(&row)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		return nil, result.Error
	}

	return &DailyStat{
		StatDate:    row.StatDate,
		Scanned:     row.Scanned,
		Quarantined: row.Quarantined,
		Suspicious:  row.Suspicious,
		Safe:        row.Safe,
		ScanErrors:  row.ScanErrors,
	}, nil
}

// GetRecentStats 는 최근 N일 집계를 조회한다.
func (r *Repository) GetRecentStats(ctx context.Context, days int) ([]DailyStat, error) {
	db, err := r.getDB(ctx)
	if err != nil {
		return nil, err
	}
	if days <= 0 {
		days = 7
	}

	var rows []ScanStat
	if err := db.WithContext(ctx).Order("stat_date desc").Limit(days).Find(&rows).Error; err != nil {
		return nil, err
	}

	dailies := make([]DailyStat, 0, len(rows))
	for _, row := range rows {
		dailies = append(dailies, DailyStat{
			StatDate:    row.StatDate,
			Scanned:     row.Scanned,
			Quarantined: row.Quarantined,
			Suspicious:  row.Suspicious,
			Safe:        row.Safe,
			ScanErrors:  row.ScanErrors,
		})
	}
	return dailies, nil
}

// Close 는 DB 연결을 닫는다.
func (r *Repository) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sqlDB == nil {
		return
	}
	_ = r.sqlDB.Close()
	r.sqlDB = nil
	r.db = nil
}

func (r *Repository) getDB(ctx context.Context) (*gorm.DB, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.db != nil {
		return r.db, nil
	}
	if r.cfg == nil {
		return nil, errors.New("database config is nil")
	}

	hostUsed := r.cfg.Database.Host
	dsn := r.cfg.Database.DSN()
	gormCfg := &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)}
	db, err := gorm.Open(postgres.Open(dsn), gormCfg)
	if err != nil && shouldFallbackToLocalhost(err, r.cfg.Database.Host) {
		fallback := r.cfg.Database
		fallback.Host = "127.0.0.1"
		fallbackDSN := fallback.DSN()
		db, err = gorm.Open(postgres.Open(fallbackDSN), gormCfg)
		if err == nil {
			hostUsed = fallback.Host
			if r.logger != nil {
				r.logger.Warn(
					"stats_db_host_fallback",
					"configured_host", r.cfg.Database.Host,
					"effective_host", hostUsed,
				)
			}
		}
	}
	if err != nil {
		return nil, fmt.Errorf("open stats db: %w", err)
	}

	if schemaErr := ensureStatsSchema(db); schemaErr != nil {
		return nil, fmt.Errorf("prepare stats db: %w", schemaErr)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get stats db handle: %w", err)
	}

	sqlDB.SetMaxIdleConns(r.cfg.Database.MinPool)
	sqlDB.SetMaxOpenConns(r.cfg.Database.MaxPool)
	if r.cfg.Database.ConnMaxLifetimeMinutes > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(r.cfg.Database.ConnMaxLifetimeMinutes) * time.Minute)
	}
	if r.cfg.Database.ConnMaxIdleTimeMinutes > 0 {
		sqlDB.SetConnMaxIdleTime(time.Duration(r.cfg.Database.ConnMaxIdleTimeMinutes) * time.Minute)
	}

	if r.logger != nil {
		r.logger.Info("stats_db_connected", "host", hostUsed, "name", r.cfg.Database.Name)
	}

	r.db = db
	r.sqlDB = sqlDB
	return db, nil
}

func ensureStatsSchema(db *gorm.DB) error {
	if db == nil {
		return errors.New("db is nil")
	}

	if err := db.Exec(`
			CREATE TABLE IF NOT EXISTS scan_stats (
				id BIGSERIAL PRIMARY KEY,
				stat_date DATE NOT NULL,
				scanned BIGINT NOT NULL DEFAULT 0,
				quarantined BIGINT NOT NULL DEFAULT 0,
				suspicious BIGINT NOT NULL DEFAULT 0,
				safe BIGINT NOT NULL DEFAULT 0,
				scan_errors BIGINT NOT NULL DEFAULT 0,
				version BIGINT NOT NULL DEFAULT 0
			)
		`).Error; err != nil {
		return fmt.Errorf("create scan_stats table: %w", err)
	}

	if err := db.Exec(`
			CREATE UNIQUE INDEX IF NOT EXISTS idx_scan_stats_stat_date
			ON scan_stats (stat_date)
		`).Error; err != nil {
		return fmt.Errorf("create scan_stats stat_date unique index: %w", err)
	}

	return nil
}

func todayDate() time.Time {
	now := time.Now().In(time.Local)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

func shouldFallbackToLocalhost(err error, host string) bool {
	if err == nil {
		return false
	}
	if host == "" || host == "127.0.0.1" || strings.EqualFold(host, "localhost") {
		return false
	}
	if !strings.EqualFold(host, "postgres") {
		return false
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return strings.EqualFold(dnsErr.Name, host)
	}

	lower := strings.ToLower(err.Error())
	hostLower := strings.ToLower(host)
	if strings.Contains(lower, "lookup "+hostLower) && strings.Contains(lower, "no such host") {
		return true
	}
	return strings.Contains(lower, "no such host") && strings.Contains(lower, hostLower)
}
