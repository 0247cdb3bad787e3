// Package rank computes PageRank scores over a linkgraph.Graph.
//
// Two strategies are implemented. IterativeRanker is the default: a
// fixed number of synchronous update passes over every page, each page
// starting from (1-d) and receiving d times the sum of its referrers'
// scores divided by their outbound counts. RecursiveRanker is the
// legacy strategy, computed depth-first with memoization; it predates
// the damping factor and never applies one, which is a known
// inconsistency with IterativeRanker kept for compatibility rather than
// silently "fixed".
package rank

import "github.com/kepra-labs/rankdex/linkgraph"

// Strategy selects which Ranker a caller wants.
type Strategy string

const (
	Iterative Strategy = "iterative"
	Recursive Strategy = "recursive"
)

// Ranker computes a PageRank score for every page registered in a
// linkgraph.Graph.
type Ranker interface {
	Rank(g *linkgraph.Graph) map[uint32]float64
}

// New builds the Ranker named by strategy. Unknown strategies fall back
// to Iterative.
func New(strategy Strategy, dampening float64, iterations int) Ranker {
	if strategy == Recursive {
		return &RecursiveRanker{Dampening: dampening}
	}
	return &IterativeRanker{Dampening: dampening, Iterations: iterations}
}

// IterativeRanker is the standard fixed-iteration PageRank computation.
type IterativeRanker struct {
	Dampening  float64
	Iterations int
}

// Rank runs r.Iterations synchronous update passes. A page with no
// referrers keeps the baseline score of 1-d for every pass; a graph
// with no pages returns an empty map.
func (r *IterativeRanker) Rank(g *linkgraph.Graph) map[uint32]float64 {
	pageIDs := g.PageIDs()
	scores := make(map[uint32]float64, len(pageIDs))
	baseline := 1 - r.Dampening
	for _, id := range pageIDs {
		scores[id] = baseline
	}

	for i := 0; i < r.Iterations; i++ {
		next := make(map[uint32]float64, len(pageIDs))
		for _, id := range pageIDs {
			sum := 0.0
			for _, referrer := range g.ReferrerIDs(id) {
				out := g.OutboundCount(referrer)
				if out == 0 {
					continue
				}
				sum += scores[referrer] / float64(out)
			}
			next[id] = baseline + r.Dampening*sum
		}
		scores = next
	}
	return scores
}

// RecursiveRanker is the legacy memoized depth-first ranker. Unlike
// IterativeRanker it applies no damping to the link-sum itself — a page
// with no referrers scores 0, not 1-d (spec §9's documented
// inconsistency, preserved rather than fixed). A referrer cycle is
// broken by treating the page currently being computed as contributing
// its settled score if one is already memoized, or the baseline 1-d
// otherwise.
type RecursiveRanker struct {
	Dampening float64
}

// Rank computes every page's score via memoized recursion over its
// referrers.
func (r *RecursiveRanker) Rank(g *linkgraph.Graph) map[uint32]float64 {
	memo := make(map[uint32]float64)
	visiting := make(map[uint32]bool)
	baseline := 1 - r.Dampening

	var compute func(id uint32) float64
	compute = func(id uint32) float64 {
		if score, ok := memo[id]; ok {
			return score
		}
		if visiting[id] {
			return baseline
		}
		visiting[id] = true

		sum := 0.0
		for _, referrer := range g.ReferrerIDs(id) {
			out := g.OutboundCount(referrer)
			if out == 0 {
				continue
			}
			sum += compute(referrer) / float64(out)
		}

		delete(visiting, id)
		memo[id] = sum
		return sum
	}

	scores := make(map[uint32]float64)
	for _, id := range g.PageIDs() {
		scores[id] = compute(id)
	}
	return scores
}
