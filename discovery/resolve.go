package discovery

import (
	"context"
	"sync"

	"github.com/wzlphp/asin-ai/models"
)

// Resolve fetches full product data for each candidate with a bounded
// worker pool. A candidate whose fetch fails keeps a nil Product and
// stays in the list; partial resolution is not an error. Each resolved
// candidate is tiered against the target's best-seller rank.
func (e *Engine) Resolve(ctx context.Context, target *models.Product, candidates []models.CompetitorCandidate) {
	if len(candidates) == 0 {
		return
	}

	workers := e.resolveWorkers
	if workers < 1 {
		workers = 1
	}
	if workers > len(candidates) {
		workers = len(candidates)
	}

	jobs := make(chan int, len(candidates))
	for i := range candidates {
		jobs <- i
	}
	close(jobs)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// Workers write disjoint indices; no lock needed.
			for i := range jobs {
				c := &candidates[i]
				product, err := e.src.Product(ctx, c.ASIN)
				if err != nil {
					e.log.Warnf("[%s] resolve %s failed: %v", c.Marketplace, c.ASIN, err)
					c.Tier = tierFor(target.BestSellerRank, models.RankUnknown)
					continue
				}
				c.Product = product
				c.Tier = tierFor(target.BestSellerRank, product.BestSellerRank)
			}
		}()
	}
	wg.Wait()
}

// tierFor places a competitor relative to the target by best-seller
// rank. A top-10 competitor is a leader regardless of the target; a
// rank within half the target's is a peer; anything further out is a
// challenger. With either rank unknown there is no basis for a verdict
// and peer is the neutral call.
func tierFor(targetRank, competitorRank int) string {
	if targetRank == models.RankUnknown || competitorRank == models.RankUnknown {
		return models.TierPeer
	}
	if competitorRank <= 10 {
		return models.TierLeader
	}
	diff := competitorRank - targetRank
	if diff < 0 {
		diff = -diff
	}
	if float64(diff) < float64(targetRank)*0.5 {
		return models.TierPeer
	}
	return models.TierChallenger
}
