package detector

// Sensitivity 는 탐지 민감도 수준이다.
type Sensitivity string

const (
	// SensitivityLow 는 점수를 0.7배로 낮추는 민감도다.
	SensitivityLow Sensitivity = "low"
	// SensitivityMedium 는 기본 민감도다.
	SensitivityMedium Sensitivity = "medium"
	// SensitivityHigh 는 점수를 1.3배로 높이는 민감도다.
	SensitivityHigh Sensitivity = "high"
)

// CustomPattern 는 사용자 정의 탐지 규칙이다.
type CustomPattern struct {
	Name    string `yaml:"name"`
	Pattern string `yaml:"pattern"`
}

// Config: 탐지기 동작 설정입니다.
type Config struct {
	Sensitivity         Sensitivity
	CheckBase64         bool
	CheckHomoglyphs     bool
	QuarantineThreshold int
	CustomPatterns      []CustomPattern
}

// DefaultConfig 는 기본 탐지기 설정을 반환한다.
func DefaultConfig() Config {
	return Config{
		Sensitivity:         SensitivityMedium,
		CheckBase64:         true,
		CheckHomoglyphs:     true,
		QuarantineThreshold: 50,
	}
}

// PatternFinding 는 본문에서 일치한 규칙 정보다.
type PatternFinding struct {
	Pattern string `json:"pattern"`
	Count   int    `json:"count"`
	Weight  int    `json:"weight"`
}

// HiddenTextFinding 는 은닉 텍스트 발견 정보다.
type HiddenTextFinding struct {
	Type    string `json:"type"`
	Count   int    `json:"count,omitempty"`
	Pattern string `json:"pattern,omitempty"`
	Snippet string `json:"snippet,omitempty"`
}

// Base64Finding 는 디코드된 페이로드 발견 정보다.
type Base64Finding struct {
	Pattern        string `json:"pattern"`
	DecodedSnippet string `json:"decoded_snippet"`
	Matched        string `json:"matched"`
}

// Details 는 스캔 결과의 상세 내역이다.
type Details struct {
	HiddenText        []HiddenTextFinding `json:"hidden_text"`
	Base64Suspicious  []Base64Finding     `json:"base64_suspicious"`
	InjectionPatterns []PatternFinding    `json:"injection_patterns"`
	Sender            string              `json:"sender,omitempty"`
}

// ScanResult 는 스캔 결과다.
type ScanResult struct {
	RiskScore             int      `json:"risk_score"`
	DetectedPatterns      []string `json:"detected_patterns"`
	HiddenTextFound       bool     `json:"hidden_text_found"`
	CleanContent          string   `json:"clean_content"`
	QuarantineRecommended bool     `json:"quarantine_recommended"`
	Details               Details  `json:"details"`
}
