package detector

import (
	"html"
	"regexp"
	"strings"
)

var (
	htmlTagPattern    = regexp.MustCompile(`<[^>]+>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
	dashRunPattern    = regexp.MustCompile(`---+`)
	backtickRunPat    = regexp.MustCompile("```+")
)

// sanitize 는 은닉 문자와 구분자 공격을 제거한 본문을 돌려준다.
// HTML 본문이 있으면 태그를 벗겨낸 평문이 우선한다. 어떤 입력에도
// 실패하지 않으며 최악의 경우 빈 문자열을 반환한다.
func sanitize(content string, htmlContent string) string {
	sanitized := zeroWidthPattern.ReplaceAllString(content, "")

	if htmlContent != "" {
		clean := htmlCommentPattern.ReplaceAllString(htmlContent, "")
		clean = htmlTagPattern.ReplaceAllString(clean, " ")
		clean = html.UnescapeString(clean)
		clean = strings.TrimSpace(whitespacePattern.ReplaceAllString(clean, " "))
		if clean != "" {
			sanitized = clean
		}
	}

	sanitized = dashRunPattern.ReplaceAllString(sanitized, "---")
	sanitized = backtickRunPat.ReplaceAllString(sanitized, "```")

	return strings.TrimSpace(sanitized)
}
