package parser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// fieldStrategy is one named way of extracting a field from a parsed
// document. Strategies for a field are tried in priority order and the
// first hit wins; a field whose strategies all miss stays at its
// unknown sentinel instead of failing the parse.
type fieldStrategy struct {
	name    string
	extract func(doc *goquery.Document) (string, bool)
}

// text builds a strategy that takes the trimmed text of the first
// element matching selector.
func text(name, selector string) fieldStrategy {
	return fieldStrategy{
		name: name,
		extract: func(doc *goquery.Document) (string, bool) {
			value := strings.TrimSpace(doc.Find(selector).First().Text())
			return value, value != ""
		},
	}
}

// attrChain builds a strategy that reads the first non-empty attribute
// from the list on the first element matching selector.
func attrChain(name, selector string, attrs ...string) fieldStrategy {
	return fieldStrategy{
		name: name,
		extract: func(doc *goquery.Document) (string, bool) {
			sel := doc.Find(selector).First()
			if sel.Length() == 0 {
				return "", false
			}
			for _, attr := range attrs {
				if value, ok := sel.Attr(attr); ok {
					if trimmed := strings.TrimSpace(value); trimmed != "" {
						return trimmed, true
					}
				}
			}
			return "", false
		},
	}
}

// apply runs strategies in order and returns the first hit.
func apply(doc *goquery.Document, strategies []fieldStrategy) (string, bool) {
	for _, s := range strategies {
		if value, ok := s.extract(doc); ok {
			return value, true
		}
	}
	return "", false
}
