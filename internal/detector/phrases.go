package detector

import (
	"strings"

	"github.com/cloudflare/ahocorasick"
)

// suspiciousPhrases 는 디코드된 페이로드와 homoglyph 스켈레톤에서 찾는
// 지시문 구문 목록이다. 같은 구문의 변형은 인접하게 두어 첫 일치
// 우선순위가 원 규칙 순서를 따르게 한다.
var suspiciousPhrases = []string{
	"ignore previous",
	"ignore prior",
	"system prompt",
	"systemprompt",
	"you are now",
	"new instruction",
	"forget your",
	"forget all",
	"act as",
	"pretend",
	"roleplay",
}

type phraseMatcher struct {
	matcher *ahocorasick.Matcher
	phrases []string
}

func newPhraseMatcher() *phraseMatcher {
	patterns := make([][]byte, 0, len(suspiciousPhrases))
	for _, phrase := range suspiciousPhrases {
		patterns = append(patterns, []byte(phrase))
	}
	return &phraseMatcher{
		matcher: ahocorasick.NewMatcher(patterns),
		phrases: suspiciousPhrases,
	}
}

// firstMatch 는 정규화된 텍스트에서 목록상 가장 앞선 구문을 반환한다.
func (m *phraseMatcher) firstMatch(text string) (string, bool) {
	normalized := normalizeForPhrases(text)
	hits := m.matcher.MatchThreadSafe([]byte(normalized))
	if len(hits) == 0 {
		return "", false
	}

	best := -1
	for _, index := range hits {
		if index < 0 || index >= len(m.phrases) {
			continue
		}
		if best == -1 || index < best {
			best = index
		}
	}
	if best == -1 {
		return "", false
	}
	return m.phrases[best], true
}

// matchSet 는 텍스트에서 일치한 모든 구문을 목록 순서로 반환한다.
func (m *phraseMatcher) matchSet(text string) []string {
	normalized := normalizeForPhrases(text)
	hits := m.matcher.MatchThreadSafe([]byte(normalized))
	if len(hits) == 0 {
		return nil
	}

	seen := make(map[int]bool, len(hits))
	for _, index := range hits {
		if index >= 0 && index < len(m.phrases) {
			seen[index] = true
		}
	}
	matched := make([]string, 0, len(seen))
	for i, phrase := range m.phrases {
		if seen[i] {
			matched = append(matched, phrase)
		}
	}
	return matched
}

// normalizeForPhrases 는 소문자화와 공백 축약으로 구문 매칭용 텍스트를 만든다.
func normalizeForPhrases(text string) string {
	lowered := strings.ToLower(text)
	return strings.Join(strings.Fields(lowered), " ")
}
