package models

import "time"

// Sentinel values for fields the parser could not extract. A partial
// product is a valid result, not an error; consumers check these
// instead of guessing from zero values.
const (
	RankUnknown   = 0
	RatingUnknown = 0.0
)

// Price is an observed price in the currency the page served. Known is
// false when no price strategy matched. Amounts are never converted
// between currencies.
type Price struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	Known    bool    `json:"known"`
}

// Product is one snapshot of a listing, keyed by ASIN + marketplace.
// Snapshots are immutable: a re-fetch produces a new Product with a
// fresh FetchedAt, never an in-place update.
type Product struct {
	ASIN        string `json:"asin"`
	Marketplace string `json:"marketplace"`
	Title       string `json:"title"`
	Brand       string `json:"brand"`

	Price         Price `json:"price"`
	OriginalPrice Price `json:"original_price"`
	PromoPrice    Price `json:"promo_price"`

	BestSellerRank int     `json:"bsr"`
	RankCategory   string  `json:"bsr_category"`
	Rating         float64 `json:"rating"`
	ReviewCount    int     `json:"review_count"`

	ImageURL     string   `json:"image_url"`
	CategoryPath string   `json:"category_path"`
	BulletPoints []string `json:"bullet_points"`

	VariantCount     int    `json:"variant_count"`
	VariantDimension string `json:"variant_dimension"`
	Fulfillment      string `json:"fulfillment"`
	StockStatus      string `json:"stock_status"`
	Coupon           string `json:"coupon"`
	Seller           string `json:"seller"`

	// RelatedASINs preserves the order the page surfaced them in; it is
	// the primary competitor-discovery signal.
	RelatedASINs []string `json:"related_asins"`

	FetchedAt time.Time `json:"fetched_at"`
}

// SearchResultRow is one organic or sponsored listing on a search
// results page. Rows without an ASIN are dropped by the parser.
type SearchResultRow struct {
	Position    int     `json:"position"`
	ASIN        string  `json:"asin"`
	Title       string  `json:"title"`
	Price       Price   `json:"price"`
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"review_count"`
	Sponsored   bool    `json:"sponsored"`
}
