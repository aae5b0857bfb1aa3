package detector

import (
	"encoding/base64"
	"regexp"
	"strings"
)

// 4의 배수 길이 20자 이상만 후보로 잡아 오탐을 줄인다.
var base64Pattern = regexp.MustCompile(`(?:[A-Za-z0-9+/]{4}){5,}(?:[A-Za-z0-9+/]{2}==|[A-Za-z0-9+/]{3}=)?`)

// scanBase64 는 본문의 Base64 후보를 디코드해 지시문 구문을 찾는다.
// 디코드 실패 후보는 무시하고, 후보당 첫 일치 구문만 보고한다.
func scanBase64(content string, phrases *phraseMatcher) []Base64Finding {
	var findings []Base64Finding

	for _, candidate := range base64Pattern.FindAllString(content, -1) {
		if len(candidate) < 20 {
			continue
		}

		raw, err := base64.StdEncoding.DecodeString(candidate)
		if err != nil {
			continue
		}
		decoded := strings.ToValidUTF8(string(raw), "")

		phrase, ok := phrases.firstMatch(decoded)
		if !ok {
			continue
		}
		findings = append(findings, Base64Finding{
			Pattern:        "encoded_injection",
			DecodedSnippet: truncateRunes(decoded, 100),
			Matched:        phrase,
		})
	}

	return findings
}
