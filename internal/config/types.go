package config

import (
	"net"
	"net/url"
	"strconv"
)

// DetectorConfig: 탐지 엔진 설정입니다.
type DetectorConfig struct {
	Sensitivity         string `validate:"oneof=low medium high"`
	CheckBase64         bool
	CheckHomoglyphs     bool
	QuarantineThreshold int `validate:"min=0,max=100"`
	RulepacksDir        string
	CacheMaxSize        int
	CacheTTLSeconds     int
}

// MailStoreConfig: 메일 저장소 연결 설정입니다.
type MailStoreConfig struct {
	URL          string
	Enabled      bool
	Required     bool
	DisableCache bool
	TTLHours     int
	MaxRecords   int
}

// LoggingConfig: 로깅 설정입니다.
type LoggingConfig struct {
	Level      string
	LogDir     string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// HTTPConfig: HTTP 서버 설정입니다.
type HTTPConfig struct {
	Host         string
	Port         int
	HTTP2Enabled bool
}

// HTTPAuthConfig: API 키 인증 설정입니다.
type HTTPAuthConfig struct {
	APIKey string
}

// HTTPRateLimitConfig: 요청 제한 설정입니다.
type HTTPRateLimitConfig struct {
	RequestsPerMinute int
	CacheSize         int
	CacheTTLSeconds   int
}

// DatabaseConfig: DB 연결 및 통계 저장 설정입니다.
type DatabaseConfig struct {
	Host                                 string
	Port                                 int
	Name                                 string
	User                                 string
	Password                             string
	MinPool                              int
	MaxPool                              int
	ConnMaxLifetimeMinutes               int
	ConnMaxIdleTimeMinutes               int
	StatsBatchEnabled                    bool
	StatsBatchFlushIntervalSeconds       int
	StatsBatchFlushTimeoutSeconds        int
	StatsBatchMaxPendingRecords          int
	StatsBatchMaxBackoffSeconds          int
	StatsBatchErrorLogMaxIntervalSeconds int
}

// DSN: DB 접속 문자열을 반환합니다.
func (d DatabaseConfig) DSN() string {
	host := net.JoinHostPort(d.Host, strconv.Itoa(d.Port))
	u := &url.URL{
		Scheme: "postgresql",
		Host:   host,
		Path:   "/" + d.Name,
	}
	if d.Password == "" {
		u.User = url.User(d.User)
	} else {
		u.User = url.UserPassword(d.User, d.Password)
	}
	return u.String()
}

// TelemetryConfig: OpenTelemetry 트레이싱 설정입니다.
type TelemetryConfig struct {
	Enabled        bool
	ServiceName    string
	ServiceVersion string
	Environment    string
	OTLPEndpoint   string
	OTLPInsecure   bool
	SampleRate     float64
}

// Config: 애플리케이션 전체 설정입니다.
type Config struct {
	Detector      DetectorConfig
	MailStore     MailStoreConfig
	Logging       LoggingConfig
	HTTP          HTTPConfig
	HTTPAuth      HTTPAuthConfig
	HTTPRateLimit HTTPRateLimitConfig
	Database      DatabaseConfig
	Telemetry     TelemetryConfig
}
