package detector

import (
	"github.com/mtibben/confusables"
	"golang.org/x/text/unicode/norm"
)

// checkHomoglyphs 는 confusables 스켈레톤에서만 드러나는 지시문 구문을
// 찾는다. 원문에서도 일치하는 구문은 중복 가산을 막기 위해 제외하고,
// 스켈레톤에서만 보이는 구문 중 목록상 가장 앞선 것을 보고한다.
func checkHomoglyphs(content string, phrases *phraseMatcher) (string, bool) {
	skeleton := confusables.Skeleton(norm.NFKC.String(content))

	hidden := phrases.matchSet(skeleton)
	if len(hidden) == 0 {
		return "", false
	}

	visible := make(map[string]bool)
	for _, phrase := range phrases.matchSet(content) {
		visible[phrase] = true
	}
	for _, phrase := range hidden {
		if !visible[phrase] {
			return phrase, true
		}
	}
	return "", false
}
