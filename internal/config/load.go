package config

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

var (
	configOnce  sync.Once
	configValue *Config
)

// Load 는 환경 변수 기반 설정을 로드한다.
func Load() *Config {
	configOnce.Do(func() {
		_ = godotenv.Load()
		configValue = buildConfig()
	})
	return configValue
}

// ProvideConfig 는 설정을 로드하고 검증한다.
func ProvideConfig() (*Config, error) {
	cfg := Load()
	if cfg == nil {
		return nil, errors.New("config not initialized")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 는 설정 유효성을 검사한다.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if err := validator.New().Struct(c.Detector); err != nil {
		return fmt.Errorf("detector config: %w", err)
	}
	return nil
}

// LogEnvStatus 는 환경 설정 상태를 로그로 남긴다.
func LogEnvStatus(cfg *Config, logger *slog.Logger) {
	if logger == nil || cfg == nil {
		return
	}

	envFilePresent := fileExists(".env")
	apiKey := maskSecret(cfg.HTTPAuth.APIKey)
	logger.Debug(
		"env_status",
		"env_file", envFilePresent,
		"sensitivity", cfg.Detector.Sensitivity,
		"quarantine_threshold", cfg.Detector.QuarantineThreshold,
		"check_base64", cfg.Detector.CheckBase64,
		"check_homoglyphs", cfg.Detector.CheckHomoglyphs,
		"rulepacks_dir", cfg.Detector.RulepacksDir,
		"mail_store_url", cfg.MailStore.URL,
		"db_host", cfg.Database.Host,
		"db_name", cfg.Database.Name,
		"api_key", apiKey,
	)

	if cfg.HTTPAuth.APIKey == "" {
		logger.Warn("env_missing_http_api_key")
	}
}

func buildConfig() *Config {
	return &Config{
		Detector: DetectorConfig{
			Sensitivity:         getEnvString("DETECTOR_SENSITIVITY", "medium"),
			CheckBase64:         getEnvBool("DETECTOR_CHECK_BASE64", true),
			CheckHomoglyphs:     getEnvBool("DETECTOR_CHECK_HOMOGLYPHS", true),
			QuarantineThreshold: getEnvInt("QUARANTINE_THRESHOLD", 50),
			RulepacksDir:        getEnvString("RULEPACKS_DIR", ""),
			CacheMaxSize:        getEnvInt("SCAN_CACHE_SIZE", 10000),
			CacheTTLSeconds:     getEnvInt("SCAN_CACHE_TTL", 3600),
		},
		MailStore: MailStoreConfig{
			URL:          getEnvString("MAIL_STORE_URL", ""),
			Enabled:      getEnvBool("MAIL_STORE_ENABLED", false),
			Required:     getEnvBool("MAIL_STORE_REQUIRED", false),
			DisableCache: getEnvBool("MAIL_STORE_DISABLE_CACHE", false),
			TTLHours:     max(1, getEnvNonNegativeInt("MAIL_STORE_TTL_HOURS", 168)),
			MaxRecords:   getEnvInt("MAIL_STORE_MAX_RECORDS", 10000),
		},
		Logging: LoggingConfig{
			Level:      getEnvString("LOG_LEVEL", "info"),
			LogDir:     getEnvString("LOG_DIR", ""),
			MaxSizeMB:  getEnvInt("LOG_FILE_MAX_SIZE_MB", 1),
			MaxBackups: getEnvInt("LOG_FILE_MAX_BACKUPS", 30),
			MaxAgeDays: getEnvInt("LOG_FILE_MAX_AGE_DAYS", 7),
			Compress:   getEnvBool("LOG_FILE_COMPRESS", true),
		},
		HTTP: HTTPConfig{
			Host:         getEnvString("HTTP_HOST", "127.0.0.1"),
			Port:         getEnvInt("HTTP_PORT", 40811),
			HTTP2Enabled: getEnvBool("HTTP2_ENABLED", true),
		},
		HTTPAuth: HTTPAuthConfig{
			APIKey: getEnvString("HTTP_API_KEY", ""),
		},
		HTTPRateLimit: HTTPRateLimitConfig{
			RequestsPerMinute: getEnvNonNegativeInt("HTTP_RATE_LIMIT_RPM", 0),
			CacheSize:         max(1, getEnvNonNegativeInt("HTTP_RATE_LIMIT_CACHE_SIZE", 10000)),
			CacheTTLSeconds:   max(1, getEnvNonNegativeInt("HTTP_RATE_LIMIT_CACHE_TTL_SECONDS", 120)),
		},
		Database: DatabaseConfig{
			Host:                                 getEnvString("DB_HOST", "localhost"),
			Port:                                 getEnvInt("DB_PORT", 5432),
			Name:                                 getEnvString("DB_NAME", "armourmail"),
			User:                                 getEnvString("DB_USER", "armourmail"),
			Password:                             getEnvString("DB_PASSWORD", ""),
			MinPool:                              getEnvInt("DB_MIN_POOL", 1),
			MaxPool:                              getEnvInt("DB_MAX_POOL", 5),
			ConnMaxLifetimeMinutes:               getEnvNonNegativeInt("DB_CONN_MAX_LIFETIME_MINUTES", 60),
			ConnMaxIdleTimeMinutes:               getEnvNonNegativeInt("DB_CONN_MAX_IDLE_TIME_MINUTES", 10),
			StatsBatchEnabled:                    getEnvBool("DB_STATS_BATCH_ENABLED", false),
			StatsBatchFlushIntervalSeconds:       max(1, getEnvNonNegativeInt("DB_STATS_BATCH_FLUSH_INTERVAL_SECONDS", 1)),
			StatsBatchFlushTimeoutSeconds:        max(1, getEnvNonNegativeInt("DB_STATS_BATCH_FLUSH_TIMEOUT_SECONDS", 5)),
			StatsBatchMaxPendingRecords:          max(1, getEnvNonNegativeInt("DB_STATS_BATCH_MAX_PENDING_RECORDS", 50)),
			StatsBatchMaxBackoffSeconds:          getEnvNonNegativeInt("DB_STATS_BATCH_MAX_BACKOFF_SECONDS", 60),
			StatsBatchErrorLogMaxIntervalSeconds: getEnvNonNegativeInt("DB_STATS_BATCH_ERROR_LOG_MAX_INTERVAL_SECONDS", 60),
		},
		Telemetry: readTelemetryConfig(),
	}
}
