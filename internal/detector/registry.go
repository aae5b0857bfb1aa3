package detector

import (
	"log/slog"
	"regexp"
)

type compiledRule struct {
	pattern  *regexp.Regexp
	name     string
	category Category
	weight   int
}

// compileRegistry 는 전체 규칙 테이블을 컴파일한다. 컴파일에 실패한
// 규칙은 경고 로그 후 건너뛰며, 등록 순서는 점수 계산과 주석 검사에서
// 첫 일치 우선 규칙으로 쓰이므로 보존한다.
func compileRegistry(custom []CustomPattern, logger *slog.Logger) []compiledRule {
	groups := []struct {
		patterns []rawPattern
		category Category
		prefix   string
	}{
		{directInjectionPatterns, CategoryDirectInjection, ""},
		{roleplayPatterns, CategoryRoleplay, ""},
		{delimiterPatterns, CategoryDelimiter, ""},
		{obfuscationPatterns, CategoryObfuscation, ""},
		{manipulationPatterns, CategoryManipulation, ""},
		{extractionPatterns, CategoryExtraction, ""},
		{cssHidingPatterns, CategoryCSSHiding, "css_"},
		{htmlAttrHidingPatterns, CategoryHTMLAttrHiding, "html_"},
	}

	var rules []compiledRule
	for _, group := range groups {
		weight := categoryWeights[group.category]
		for _, raw := range group.patterns {
			compiled, err := regexp.Compile(raw.pattern)
			if err != nil {
				if logger != nil {
					logger.Warn("pattern_compile_failed", "name", raw.name, "err", err)
				}
				continue
			}
			rules = append(rules, compiledRule{
				pattern:  compiled,
				name:     group.prefix + raw.name,
				category: group.category,
				weight:   weight,
			})
		}
	}

	customWeight := categoryWeights[CategoryCustom]
	for _, rule := range custom {
		if rule.Name == "" || rule.Pattern == "" {
			if logger != nil {
				logger.Warn("custom_pattern_incomplete", "name", rule.Name)
			}
			continue
		}
		compiled, err := regexp.Compile(rule.Pattern)
		if err != nil {
			if logger != nil {
				logger.Warn("custom_pattern_compile_failed", "name", rule.Name, "err", err)
			}
			continue
		}
		rules = append(rules, compiledRule{
			pattern:  compiled,
			name:     rule.Name,
			category: CategoryCustom,
			weight:   customWeight,
		})
	}

	return rules
}
