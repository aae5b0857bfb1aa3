package detector

import (
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type rawRulepack struct {
	Version int             `yaml:"version"`
	Rules   []CustomPattern `yaml:"rules"`
}

// LoadRulepacks 는 디렉터리의 YAML 규칙 파일을 읽어 사용자 정의 규칙
// 목록을 만든다. 읽기나 파싱에 실패한 파일은 경고 로그 후 건너뛴다.
func LoadRulepacks(dir string, logger *slog.Logger) []CustomPattern {
	paths := findRulepackFiles(dir)
	if len(paths) == 0 {
		if logger != nil {
			logger.Warn("rulepacks_not_found", "dir", dir)
		}
		return nil
	}

	var rules []CustomPattern
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			if logger != nil {
				logger.Warn("rulepack_read_failed", "path", path, "err", err)
			}
			continue
		}

		var raw rawRulepack
		err = yaml.Unmarshal(data, &raw)
		if err != nil {
			if logger != nil {
				logger.Warn("rulepack_parse_failed", "path", path, "err", err)
			}
			continue
		}

		for _, rule := range raw.Rules {
			if rule.Name == "" || rule.Pattern == "" {
				if logger != nil {
					logger.Warn("rulepack_rule_incomplete", "path", path, "name", rule.Name)
				}
				continue
			}
			rules = append(rules, rule)
		}
	}

	return rules
}

func findRulepackFiles(dir string) []string {
	var files []string
	patterns := []string{"*.yml", "*.yaml"}
	for _, pattern := range patterns {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			continue
		}
		files = append(files, matches...)
	}
	return files
}
