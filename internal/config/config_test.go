package config

import (
	"strings"
	"testing"
)

func TestBuildConfigDefaults(t *testing.T) {
	cfg := buildConfig()

	if cfg.Detector.Sensitivity != "medium" {
		t.Fatalf("sensitivity = %q, want medium", cfg.Detector.Sensitivity)
	}
	if cfg.Detector.QuarantineThreshold != 50 {
		t.Fatalf("threshold = %d, want 50", cfg.Detector.QuarantineThreshold)
	}
	if !cfg.Detector.CheckBase64 {
		t.Fatalf("check_base64 should default to true")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestValidateRejectsBadSensitivity(t *testing.T) {
	cfg := buildConfig()
	cfg.Detector.Sensitivity = "extreme"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected validation error for sensitivity")
	}

	cfg = buildConfig()
	cfg.Detector.QuarantineThreshold = 101
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected validation error for threshold > 100")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("DETECTOR_SENSITIVITY", "high")
	t.Setenv("QUARANTINE_THRESHOLD", "70")
	t.Setenv("DETECTOR_CHECK_BASE64", "false")

	cfg := buildConfig()
	if cfg.Detector.Sensitivity != "high" {
		t.Fatalf("sensitivity = %q, want high", cfg.Detector.Sensitivity)
	}
	if cfg.Detector.QuarantineThreshold != 70 {
		t.Fatalf("threshold = %d, want 70", cfg.Detector.QuarantineThreshold)
	}
	if cfg.Detector.CheckBase64 {
		t.Fatalf("check_base64 should be off")
	}
}

func TestDatabaseDSN(t *testing.T) {
	db := DatabaseConfig{Host: "db", Port: 5432, Name: "armourmail", User: "scanner", Password: "s3cret"}
	dsn := db.DSN()
	if !strings.HasPrefix(dsn, "postgresql://scanner:s3cret@db:5432/armourmail") {
		t.Fatalf("unexpected dsn: %s", dsn)
	}

	db.Password = ""
	dsn = db.DSN()
	if strings.Contains(dsn, ":@") || strings.Contains(dsn, "s3cret") {
		t.Fatalf("dsn should omit empty password: %s", dsn)
	}
}

func TestMaskSecret(t *testing.T) {
	if got := maskSecret(""); got != "<missing>" {
		t.Fatalf("maskSecret(\"\") = %q", got)
	}
	if got := maskSecret("abcd"); got != "****" {
		t.Fatalf("maskSecret(abcd) = %q", got)
	}
	if got := maskSecret("supersecret"); got != "su***et" {
		t.Fatalf("maskSecret(supersecret) = %q", got)
	}
}
