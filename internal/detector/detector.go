package detector

import (
	"fmt"
	"log/slog"
	"sort"
)

// Detector: 메일 본문에서 프롬프트 주입 시도를 찾는 탐지기입니다.
// 생성 후 불변이며 여러 고루틴에서 동시에 사용해도 안전합니다.
type Detector struct {
	cfg     Config
	logger  *slog.Logger
	rules   []compiledRule
	phrases *phraseMatcher
}

// New: 탐지기를 생성합니다. 잘못된 민감도나 임계값은 오류로 거부합니다.
func New(cfg Config, logger *slog.Logger) (*Detector, error) {
	switch cfg.Sensitivity {
	case SensitivityLow, SensitivityMedium, SensitivityHigh:
	case "":
		cfg.Sensitivity = SensitivityMedium
	default:
		return nil, fmt.Errorf("invalid sensitivity: %s", cfg.Sensitivity)
	}
	if cfg.QuarantineThreshold < 0 || cfg.QuarantineThreshold > 100 {
		return nil, fmt.Errorf("invalid quarantine threshold: %d", cfg.QuarantineThreshold)
	}

	detector := &Detector{
		cfg:     cfg,
		logger:  logger,
		rules:   compileRegistry(cfg.CustomPatterns, logger),
		phrases: newPhraseMatcher(),
	}

	if logger != nil {
		logger.Info(
			"detector_ready",
			"rules", len(detector.rules),
			"sensitivity", cfg.Sensitivity,
			"threshold", cfg.QuarantineThreshold,
			"check_base64", cfg.CheckBase64,
			"check_homoglyphs", cfg.CheckHomoglyphs,
		)
	}
	return detector, nil
}

// Scan 은 본문을 검사해 위험 점수와 발견 내역을 반환한다.
// 어떤 입력에도 실패하지 않으며 입력을 변형하지 않는다.
func (d *Detector) Scan(content string, htmlContent string) ScanResult {
	var detected []string
	score := 0
	hiddenFound := false
	details := Details{
		HiddenText:        []HiddenTextFinding{},
		Base64Suspicious:  []Base64Finding{},
		InjectionPatterns: []PatternFinding{},
	}

	fullContent := content
	if htmlContent != "" {
		fullContent = content + "\n" + htmlContent
	}

	if runs := countZeroWidthRuns(fullContent); runs > 0 {
		hiddenFound = true
		detected = append(detected, "zero_width_characters")
		details.HiddenText = append(details.HiddenText, HiddenTextFinding{
			Type:  "zero_width_chars",
			Count: runs,
		})
		score += 15
	}

	if htmlContent != "" {
		findings, names, added := scanComments(htmlContent, d.rules)
		if len(findings) > 0 {
			hiddenFound = true
			details.HiddenText = append(details.HiddenText, findings...)
			detected = append(detected, names...)
			score += added
		}
	}

	for _, rule := range d.rules {
		matches := rule.pattern.FindAllString(fullContent, -1)
		if len(matches) == 0 {
			continue
		}
		detected = append(detected, rule.name)
		details.InjectionPatterns = append(details.InjectionPatterns, PatternFinding{
			Pattern: rule.name,
			Count:   len(matches),
			Weight:  rule.weight,
		})
		score += rule.weight
	}

	if d.cfg.CheckBase64 {
		findings := scanBase64(fullContent, d.phrases)
		for _, finding := range findings {
			detected = append(detected, "base64_"+finding.Pattern)
			score += 35
		}
		if len(findings) > 0 {
			details.Base64Suspicious = findings
		}
	}

	if d.cfg.CheckHomoglyphs {
		if _, found := checkHomoglyphs(fullContent, d.phrases); found {
			weight := categoryWeights[CategoryObfuscation]
			detected = append(detected, "homoglyph_obfuscation")
			details.InjectionPatterns = append(details.InjectionPatterns, PatternFinding{
				Pattern: "homoglyph_obfuscation",
				Count:   1,
				Weight:  weight,
			})
			score += weight
		}
	}

	switch d.cfg.Sensitivity {
	case SensitivityHigh:
		score = int(float64(score) * 1.3)
	case SensitivityLow:
		score = int(float64(score) * 0.7)
	}

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}

	return ScanResult{
		RiskScore:             score,
		DetectedPatterns:      sortedUnique(detected),
		HiddenTextFound:       hiddenFound,
		CleanContent:          sanitize(content, htmlContent),
		QuarantineRecommended: score >= d.cfg.QuarantineThreshold,
		Details:               details,
	}
}

// ScanEmail 은 제목과 본문을 합쳐 검사한다. 제목에서 패턴이 발견되면
// 점수를 15점 가산하고 subject_ 접두어로 발견 내역을 병합한다.
func (d *Detector) ScanEmail(subject, bodyPlain, bodyHTML, sender string) ScanResult {
	fullPlain := "Subject: " + subject + "\n\n" + bodyPlain

	result := d.Scan(fullPlain, bodyHTML)

	if sender != "" {
		result.Details.Sender = sender
	}

	subjectResult := d.Scan(subject, "")
	if len(subjectResult.DetectedPatterns) > 0 {
		result.RiskScore = min(100, result.RiskScore+15)
		for _, name := range subjectResult.DetectedPatterns {
			result.DetectedPatterns = append(result.DetectedPatterns, "subject_"+name)
		}
		result.DetectedPatterns = sortedUnique(result.DetectedPatterns)
	}

	result.QuarantineRecommended = result.RiskScore >= d.cfg.QuarantineThreshold

	return result
}

func sortedUnique(values []string) []string {
	if len(values) == 0 {
		return []string{}
	}
	seen := make(map[string]struct{}, len(values))
	unique := make([]string, 0, len(values))
	for _, value := range values {
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		unique = append(unique, value)
	}
	sort.Strings(unique)
	return unique
}
