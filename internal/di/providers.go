package di

import (
	"fmt"
	"log/slog"

	"github.com/park285/armourmail-go/internal/config"
	"github.com/park285/armourmail-go/internal/detector"
	"github.com/park285/armourmail-go/internal/logging"
)

// ProvideLogger: 로거를 구성해 반환합니다.
func ProvideLogger(cfg *config.Config) (*slog.Logger, error) {
	logger, err := logging.NewLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return logger, nil
}

// ProvideDetector: 설정과 외부 룰팩을 반영한 탐지기를 생성합니다.
func ProvideDetector(cfg *config.Config, logger *slog.Logger) (*detector.Detector, error) {
	detectorCfg := detector.Config{
		Sensitivity:         detector.Sensitivity(cfg.Detector.Sensitivity),
		CheckBase64:         cfg.Detector.CheckBase64,
		CheckHomoglyphs:     cfg.Detector.CheckHomoglyphs,
		QuarantineThreshold: cfg.Detector.QuarantineThreshold,
	}
	if dir := cfg.Detector.RulepacksDir; dir != "" {
		detectorCfg.CustomPatterns = detector.LoadRulepacks(dir, logger)
	}
	return detector.New(detectorCfg, logger)
}
