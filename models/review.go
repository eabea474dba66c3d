package models

// ReviewSnippet is one review extracted from the product page's
// embedded review block. Dedicated review pages sit behind a login
// wall, so a page surfaces at most the handful it embeds (8-10).
type ReviewSnippet struct {
	Reviewer string `json:"reviewer"`
	Rating   int    `json:"rating"`
	Title    string `json:"title"`
	Body     string `json:"body"`
	Date     string `json:"date"`
	// Verified is nil when the page does not disclose whether the
	// purchase was verified.
	Verified *bool `json:"verified"`
}

// KeywordRanking records where one ASIN appeared for one keyword.
// Position is nil when the ASIN was not found within ScanDepth result
// pages.
type KeywordRanking struct {
	Keyword     string `json:"keyword"`
	Marketplace string `json:"marketplace"`
	ASIN        string `json:"asin"`
	Position    *int   `json:"position"`
	Sponsored   bool   `json:"sponsored"`
	ScanDepth   int    `json:"scan_depth"`
}
