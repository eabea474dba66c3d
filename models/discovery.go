package models

// DiscoverySource tags which signal produced a competitor candidate.
type DiscoverySource string

const (
	// SourceRelated marks candidates surfaced on the target's own
	// product page ("customers also viewed" style references).
	SourceRelated DiscoverySource = "related"
	// SourceKeywordSearch marks candidates found by searching a query
	// derived from the target's title.
	SourceKeywordSearch DiscoverySource = "keyword-search"
)

// Competitor tiers relative to the target's best-seller rank.
const (
	TierLeader     = "leader"
	TierPeer       = "peer"
	TierChallenger = "challenger"
)

// CompetitorCandidate is one discovered competitor. Rank is the
// candidate's position within the source list that produced it, not a
// position in the merged output. Product stays nil when resolution
// failed; the candidate is still reported.
type CompetitorCandidate struct {
	ASIN        string          `json:"asin"`
	Marketplace string          `json:"marketplace"`
	Source      DiscoverySource `json:"source"`
	Rank        int             `json:"rank"`
	Tier        string          `json:"tier,omitempty"`
	Product     *Product        `json:"product,omitempty"`
}
