package detector

import (
	"regexp"
	"strings"
)

// zeroWidthChars: 폭이 없거나 보이지 않는 유니코드 문자 집합.
// 보이지 않는 문자라 리터럴 대신 이스케이프로 적는다.
const zeroWidthChars = "\u200B" + // Zero Width Space
	"\u200C" + // Zero Width Non-Joiner
	"\u200D" + // Zero Width Joiner
	"\u2060" + // Word Joiner
	"\u2061" + // Function Application
	"\u2062" + // Invisible Times
	"\u2063" + // Invisible Separator
	"\u2064" + // Invisible Plus
	"\uFEFF" + // Zero Width No-Break Space (BOM)
	"\u00AD" + // Soft Hyphen
	"\u034F" + // Combining Grapheme Joiner
	"\u061C" + // Arabic Letter Mark
	"\u115F" + // Hangul Choseong Filler
	"\u1160" + // Hangul Jungseong Filler
	"\u17B4" + // Khmer Vowel Inherent Aq
	"\u17B5" + // Khmer Vowel Inherent Aa
	"\u180E" + // Mongolian Vowel Separator
	"\u2000" + // En Quad
	"\u2001" + // Em Quad
	"\u2002" + // En Space
	"\u2003" + // Em Space
	"\u2004" + // Three-Per-Em Space
	"\u2005" + // Four-Per-Em Space
	"\u2006" + // Six-Per-Em Space
	"\u2007" + // Figure Space
	"\u2008" + // Punctuation Space
	"\u2009" + // Thin Space
	"\u200A" + // Hair Space
	"\u202F" + // Narrow No-Break Space
	"\u205F" + // Medium Mathematical Space
	"\u3000" + // Ideographic Space
	"\u3164" + // Hangul Filler
	"\uFFA0" // Halfwidth Hangul Filler

var (
	zeroWidthPattern   = regexp.MustCompile("[" + zeroWidthChars + "]+")
	htmlCommentPattern = regexp.MustCompile(`(?s)<!--.*?-->`)
)

// countZeroWidthRuns 는 연속된 은닉 문자 구간 수를 반환한다.
func countZeroWidthRuns(content string) int {
	return len(zeroWidthPattern.FindAllString(content, -1))
}

// scanComments 는 HTML 주석마다 규칙을 검사한다. 주석당 첫 일치 규칙만
// 보고하며 발견 목록과 가중치 합을 반환한다.
func scanComments(htmlContent string, rules []compiledRule) ([]HiddenTextFinding, []string, int) {
	comments := htmlCommentPattern.FindAllString(htmlContent, -1)
	if len(comments) == 0 {
		return nil, nil, 0
	}

	var findings []HiddenTextFinding
	var names []string
	total := 0
	for _, comment := range comments {
		inner := strings.ReplaceAll(comment, "<!--", "")
		inner = strings.ReplaceAll(inner, "-->", "")
		for _, rule := range rules {
			if !rule.pattern.MatchString(inner) {
				continue
			}
			findings = append(findings, HiddenTextFinding{
				Type:    "comment_injection",
				Pattern: rule.name,
				Snippet: truncateRunes(comment, 100),
			})
			names = append(names, "hidden_comment_"+rule.name)
			total += rule.weight + 10
			break
		}
	}
	return findings, names, total
}

func truncateRunes(value string, limit int) string {
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return string(runes[:limit])
}
