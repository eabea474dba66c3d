package discovery

import (
	"regexp"
	"strings"
)

// queryTokenCap bounds how many title tokens feed the supplement
// search. Longer queries over-specify and return near-empty result
// pages.
const queryTokenCap = 5

var wordPattern = regexp.MustCompile(`[a-zA-Z]+`)

var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "for": {},
	"with": {}, "in": {}, "on": {}, "to": {}, "of": {}, "by": {},
	"is": {}, "it": {}, "at": {}, "as": {}, "from": {}, "that": {},
	"this": {},
}

// SearchQuery derives the supplement-pass search query from a
// product's title: lowercase word tokens, stop-words and the brand's
// own tokens dropped, the leading remainder kept up to the cap. An
// empty result means the title gives nothing searchable.
func SearchQuery(title, brand string) string {
	brandTokens := make(map[string]struct{})
	for _, t := range wordPattern.FindAllString(strings.ToLower(brand), -1) {
		brandTokens[t] = struct{}{}
	}

	var kept []string
	for _, t := range wordPattern.FindAllString(strings.ToLower(title), -1) {
		if len(t) < 2 {
			continue
		}
		if _, stop := stopWords[t]; stop {
			continue
		}
		if _, own := brandTokens[t]; own {
			continue
		}
		kept = append(kept, t)
		if len(kept) == queryTokenCap {
			break
		}
	}
	return strings.Join(kept, " ")
}
