package analysis

import (
	"regexp"
	"sort"
	"strings"
)

// topKeywords caps how many frequent terms a review-text mining pass
// returns per sentiment bucket.
const topKeywords = 10

var (
	alphaPattern   = regexp.MustCompile(`[a-zA-Z]+`)
	nonWordPattern = regexp.MustCompile(`[^\w\s]`)
)

// titleStopWords filters title tokens before keyword derivation.
var titleStopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "for": {},
	"with": {}, "in": {}, "on": {}, "to": {}, "of": {}, "by": {},
	"is": {}, "it": {}, "at": {}, "as": {}, "from": {}, "that": {},
	"this": {},
}

// reviewStopWords additionally drops filler and generic praise terms
// that dominate review text without carrying signal.
var reviewStopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "for": {},
	"with": {}, "in": {}, "on": {}, "to": {}, "of": {}, "by": {},
	"is": {}, "it": {}, "at": {}, "as": {}, "from": {}, "that": {},
	"this": {}, "was": {}, "but": {}, "are": {}, "be": {}, "have": {},
	"has": {}, "had": {}, "not": {}, "they": {}, "them": {}, "we": {},
	"my": {}, "me": {}, "i": {}, "you": {}, "your": {}, "its": {},
	"so": {}, "very": {}, "just": {}, "will": {}, "would": {},
	"could": {}, "can": {}, "do": {}, "did": {}, "get": {}, "got": {},
	"been": {}, "being": {}, "than": {}, "then": {}, "no": {},
	"if": {}, "all": {}, "one": {}, "two": {}, "also": {},
	"about": {}, "out": {}, "up": {}, "how": {}, "what": {},
	"which": {}, "when": {}, "there": {}, "their": {}, "our": {},
	"these": {}, "those": {}, "some": {}, "other": {}, "each": {},
	"into": {}, "only": {}, "over": {}, "such": {}, "after": {},
	"before": {}, "between": {}, "through": {}, "same": {}, "any": {},
	"much": {}, "more": {}, "most": {}, "both": {}, "own": {},
	"still": {}, "even": {}, "really": {}, "product": {}, "item": {},
	"bought": {}, "purchase": {}, "use": {}, "using": {}, "used": {},
	"like": {}, "good": {}, "great": {}, "nice": {}, "well": {},
	"best": {}, "better": {}, "love": {}, "work": {}, "works": {},
	"working": {},
}

// KeywordsFromTitle derives up to five search queries from a product
// title: lowercase alpha tokens with stop-words dropped, then short
// windows over the leading tokens (first three, first two, tokens two
// through four). Fewer than two usable tokens yields nothing.
func KeywordsFromTitle(title string) []string {
	var words []string
	for _, w := range alphaPattern.FindAllString(strings.ToLower(title), -1) {
		if len(w) < 2 {
			continue
		}
		if _, stop := titleStopWords[w]; stop {
			continue
		}
		words = append(words, w)
	}
	if len(words) < 2 {
		return nil
	}

	var keywords []string
	if len(words) >= 3 {
		keywords = append(keywords, strings.Join(words[:3], " "))
	} else {
		keywords = append(keywords, strings.Join(words[:2], " "))
	}
	keywords = append(keywords, strings.Join(words[:2], " "))
	if len(words) >= 4 {
		keywords = append(keywords, strings.Join(words[1:4], " "))
	}

	seen := make(map[string]struct{}, len(keywords))
	out := keywords[:0]
	for _, k := range keywords {
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	if len(out) > 5 {
		out = out[:5]
	}
	return out
}

// mineKeywords extracts the most frequent unigrams and bigrams from
// free text, stop-words and short tokens removed. Ties break
// alphabetically so output is deterministic.
func mineKeywords(text string, topN int) []string {
	cleaned := nonWordPattern.ReplaceAllString(strings.ToLower(text), " ")

	var words []string
	for _, w := range strings.Fields(cleaned) {
		if len(w) <= 2 {
			continue
		}
		if _, stop := reviewStopWords[w]; stop {
			continue
		}
		words = append(words, w)
	}
	if len(words) == 0 {
		return nil
	}

	counts := make(map[string]int)
	for _, w := range words {
		counts[w]++
	}
	for i := 0; i < len(words)-1; i++ {
		counts[words[i]+" "+words[i+1]]++
	}

	terms := make([]string, 0, len(counts))
	for t := range counts {
		terms = append(terms, t)
	}
	sort.Slice(terms, func(i, j int) bool {
		if counts[terms[i]] != counts[terms[j]] {
			return counts[terms[i]] > counts[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > topN {
		terms = terms[:topN]
	}
	return terms
}
