package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
)

type capturedLog struct {
	level slog.Level
	msg   string
	attrs map[string]any
}

// logSink 는 요청 로그를 검증용으로 붙잡아 두는 slog 핸들러다.
type logSink struct {
	minimum slog.Level
	mu      sync.Mutex
	records []capturedLog
}

func (s *logSink) Enabled(_ context.Context, level slog.Level) bool {
	return level >= s.minimum
}

func (s *logSink) Handle(_ context.Context, record slog.Record) error {
	attrs := make(map[string]any, record.NumAttrs())
	record.Attrs(func(attr slog.Attr) bool {
		attrs[attr.Key] = attr.Value.Any()
		return true
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, capturedLog{
		level: record.Level,
		msg:   record.Message,
		attrs: attrs,
	})
	return nil
}

func (s *logSink) WithAttrs(_ []slog.Attr) slog.Handler { return s }
func (s *logSink) WithGroup(string) slog.Handler        { return s }

func (s *logSink) logs() []capturedLog {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]capturedLog, len(s.records))
	copy(records, s.records)
	return records
}

func loggedRequest(t *testing.T, sink *logSink, method, path string, status int) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RequestID(), RequestLogger(slog.New(sink)))
	router.Handle(method, path, func(c *gin.Context) { c.Status(status) })

	req := httptest.NewRequest(method, path, nil)
	req.Header.Set(RequestIDHeader, "req-test")
	router.ServeHTTP(httptest.NewRecorder(), req)
}

func TestRequestLoggerLevelByStatus(t *testing.T) {
	cases := []struct {
		name   string
		path   string
		status int
		want   slog.Level
	}{
		{"ingest accepted", "/webhook/ingest", http.StatusOK, slog.LevelDebug},
		{"bad scan payload", "/api/scan", http.StatusBadRequest, slog.LevelWarn},
		{"store failure", "/api/emails", http.StatusInternalServerError, slog.LevelError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sink := &logSink{minimum: slog.LevelDebug}
			loggedRequest(t, sink, http.MethodPost, tc.path, tc.status)

			records := sink.logs()
			if len(records) != 1 {
				t.Fatalf("records = %d, want 1", len(records))
			}
			entry := records[0]
			if entry.level != tc.want {
				t.Fatalf("level = %s, want %s", entry.level, tc.want)
			}
			if entry.msg != "http_request" {
				t.Fatalf("msg = %q", entry.msg)
			}
			if entry.attrs["request_id"] != "req-test" {
				t.Fatalf("request_id = %v", entry.attrs["request_id"])
			}
			if entry.attrs["path"] != tc.path {
				t.Fatalf("path = %v", entry.attrs["path"])
			}
			if fmt.Sprint(entry.attrs["status"]) != fmt.Sprint(tc.status) {
				t.Fatalf("status = %v", entry.attrs["status"])
			}
		})
	}
}

func TestRequestLoggerSkipsProbePaths(t *testing.T) {
	// 주기적 프로브가 성공 로그를 채우지 않게 한다.
	for _, path := range []string{"/health", "/health/ready", "/metrics"} {
		sink := &logSink{minimum: slog.LevelDebug}
		loggedRequest(t, sink, http.MethodGet, path, http.StatusOK)

		if got := len(sink.logs()); got != 0 {
			t.Fatalf("%s: records = %d, want 0", path, got)
		}
	}
}

func TestRequestLoggerKeepsProbePathFailures(t *testing.T) {
	sink := &logSink{minimum: slog.LevelDebug}
	loggedRequest(t, sink, http.MethodGet, "/health/ready", http.StatusServiceUnavailable)

	records := sink.logs()
	if len(records) != 1 {
		t.Fatalf("records = %d, want 1", len(records))
	}
	if records[0].level != slog.LevelError {
		t.Fatalf("level = %s, want error", records[0].level)
	}
}
