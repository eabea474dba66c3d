package models

import "time"

// PriceEntry is one product's observed pricing. Currency is reported
// as served; mixed currencies across entries are flagged on the
// dimension, never converted.
type PriceEntry struct {
	ASIN  string `json:"asin"`
	Label string `json:"label"`
	Price Price  `json:"price"`
	Promo Price  `json:"promo"`
}

// PriceDimension compares pricing across the target and competitors.
type PriceDimension struct {
	Entries       []PriceEntry `json:"entries"`
	MixedCurrency bool         `json:"mixed_currency"`
}

// RankEntry carries a product's best-seller rank. Known is false for
// products whose rank could not be extracted; they are marked, not
// omitted.
type RankEntry struct {
	ASIN     string `json:"asin"`
	Label    string `json:"label"`
	Rank     int    `json:"rank"`
	Category string `json:"category"`
	Known    bool   `json:"known"`
}

// RankDimension compares best-seller ranks.
type RankDimension struct {
	Entries []RankEntry `json:"entries"`
}

// ReviewEntry aggregates one product's review signal, computed only
// from that product's own extracted snippets.
type ReviewEntry struct {
	ASIN             string   `json:"asin"`
	Label            string   `json:"label"`
	Rating           float64  `json:"rating"`
	ReviewCount      int      `json:"review_count"`
	Sampled          int      `json:"sampled"`
	Distribution     [5]int   `json:"distribution"` // index 0 = 1 star
	PositiveCount    int      `json:"positive_count"`
	NegativeCount    int      `json:"negative_count"`
	PositiveKeywords []string `json:"positive_keywords"`
	NegativeKeywords []string `json:"negative_keywords"`
	Score            float64  `json:"score"`
}

// ReviewDimension compares review signals.
type ReviewDimension struct {
	Entries []ReviewEntry `json:"entries"`
}

// KeywordDimension holds search positions for every scanned keyword
// and every product in the comparison.
type KeywordDimension struct {
	Keywords  []string         `json:"keywords"`
	Rankings  []KeywordRanking `json:"rankings"`
	ScanDepth int              `json:"scan_depth"`
}

// Comparison is the four-dimension structure the presentation layer
// consumes. Degraded marks results assembled after the discovery
// supplement pass failed.
type Comparison struct {
	Price    PriceDimension   `json:"price"`
	Rank     RankDimension    `json:"rank"`
	Reviews  ReviewDimension  `json:"reviews"`
	Keywords KeywordDimension `json:"keywords"`
	Degraded bool             `json:"degraded"`
}

// Analysis is the complete output for one target: the snapshot, the
// discovered competitors, the raw review and ranking data, and the
// assembled comparison.
type Analysis struct {
	Target      *Product              `json:"target"`
	Competitors []CompetitorCandidate `json:"competitors"`
	Reviews     []ReviewSnippet       `json:"reviews"`
	Rankings    []KeywordRanking      `json:"rankings"`
	Comparison  *Comparison           `json:"comparison"`
	Degraded    bool                  `json:"degraded"`
	CreatedAt   time.Time             `json:"created_at"`
}
