package analysis

import (
	"fmt"
	"math"
	"strings"

	"github.com/wzlphp/asin-ai/models"
)

// Input bundles everything one assembly pass consumes. Reviews maps
// ASIN to that product's extracted snippets; every dimension for a
// product is computed only from that product's own data.
type Input struct {
	Target      *models.Product
	Competitors []models.CompetitorCandidate
	Reviews     map[string][]models.ReviewSnippet
	Keywords    []string
	Rankings    []models.KeywordRanking
	ScanDepth   int
	Degraded    bool
}

// Assemble builds the four-dimension comparison from already-fetched
// data. It performs no I/O and tolerates gaps: unknown prices and
// ranks are marked, unresolved competitors contribute identity-only
// entries.
func Assemble(in Input) *models.Comparison {
	products := lineup(in.Target, in.Competitors)

	return &models.Comparison{
		Price:   priceDimension(products),
		Rank:    rankDimension(products),
		Reviews: reviewDimension(products, in.Reviews),
		Keywords: models.KeywordDimension{
			Keywords:  in.Keywords,
			Rankings:  in.Rankings,
			ScanDepth: in.ScanDepth,
		},
		Degraded: in.Degraded,
	}
}

type member struct {
	product *models.Product
	asin    string
	label   string
}

// lineup orders the comparison: target first, then competitors in
// discovery order. Unresolved competitors keep a nil product.
func lineup(target *models.Product, competitors []models.CompetitorCandidate) []member {
	members := []member{{
		product: target,
		asin:    target.ASIN,
		label:   fmt.Sprintf("target (%s)", target.ASIN),
	}}
	for _, c := range competitors {
		m := member{product: c.Product, asin: c.ASIN, label: c.ASIN}
		if c.Product != nil && c.Product.Brand != "" {
			m.label = fmt.Sprintf("%s (%s)", c.Product.Brand, c.ASIN)
		}
		members = append(members, m)
	}
	return members
}

func priceDimension(members []member) models.PriceDimension {
	dim := models.PriceDimension{}
	currency := ""
	for _, m := range members {
		entry := models.PriceEntry{ASIN: m.asin, Label: m.label}
		if m.product != nil {
			entry.Price = m.product.Price
			entry.Promo = m.product.PromoPrice
			if m.product.Price.Known {
				if currency == "" {
					currency = m.product.Price.Currency
				} else if m.product.Price.Currency != currency {
					dim.MixedCurrency = true
				}
			}
		}
		dim.Entries = append(dim.Entries, entry)
	}
	return dim
}

func rankDimension(members []member) models.RankDimension {
	dim := models.RankDimension{}
	for _, m := range members {
		entry := models.RankEntry{ASIN: m.asin, Label: m.label}
		if m.product != nil && m.product.BestSellerRank != models.RankUnknown {
			entry.Rank = m.product.BestSellerRank
			entry.Category = m.product.RankCategory
			entry.Known = true
		}
		dim.Entries = append(dim.Entries, entry)
	}
	return dim
}

func reviewDimension(members []member, reviews map[string][]models.ReviewSnippet) models.ReviewDimension {
	dim := models.ReviewDimension{}
	for _, m := range members {
		entry := models.ReviewEntry{ASIN: m.asin, Label: m.label}
		if m.product != nil {
			entry.Rating = m.product.Rating
			entry.ReviewCount = m.product.ReviewCount
			entry.Score = Score(m.product)
		}
		fillReviewSignal(&entry, reviews[m.asin])
		dim.Entries = append(dim.Entries, entry)
	}
	return dim
}

// fillReviewSignal aggregates one product's snippets: bodies
// deduplicated, four stars and up counted positive, three and below
// negative, and each bucket mined for its most frequent terms.
func fillReviewSignal(entry *models.ReviewEntry, snippets []models.ReviewSnippet) {
	seen := make(map[string]struct{}, len(snippets))
	var positive, negative []string
	for _, r := range snippets {
		if r.Body != "" {
			if _, dup := seen[r.Body]; dup {
				continue
			}
			seen[r.Body] = struct{}{}
		}
		entry.Sampled++
		if r.Rating >= 1 && r.Rating <= 5 {
			entry.Distribution[r.Rating-1]++
		}
		text := r.Title + " " + r.Body
		switch {
		case r.Rating >= 4:
			entry.PositiveCount++
			positive = append(positive, text)
		case r.Rating >= 1:
			entry.NegativeCount++
			negative = append(negative, text)
		}
	}
	entry.PositiveKeywords = mineKeywords(strings.Join(positive, " "), topKeywords)
	entry.NegativeKeywords = mineKeywords(strings.Join(negative, " "), topKeywords)
}

// scoreRankFloor stands in for an unknown best-seller rank so the rank
// term contributes nothing instead of inflating the score.
const scoreRankFloor = 999

// Score is the composite standing of one product: rating weighted
// tenfold, review volume capped at 30 points, and a rank bonus that
// decays to zero past rank 500. Rounded to one decimal.
func Score(p *models.Product) float64 {
	rank := p.BestSellerRank
	if rank == models.RankUnknown {
		rank = scoreRankFloor
	}
	reviewTerm := float64(p.ReviewCount) / 100
	if reviewTerm > 30 {
		reviewTerm = 30
	}
	rankTerm := float64(500-rank) * 0.04
	if rankTerm < 0 {
		rankTerm = 0
	}
	score := p.Rating*10 + reviewTerm + rankTerm
	return math.Round(score*10) / 10
}
