package rank

import (
	"math"
	"testing"

	"github.com/kepra-labs/rankdex/linkgraph"
	"github.com/kepra-labs/rankdex/pagedoc"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestIterativeRankerNoEdgesIsBaseline(t *testing.T) {
	g, err := linkgraph.Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	a := g.GetOrCreateID("https://example.com/a")
	b := g.GetOrCreateID("https://example.com/b")

	ranker := &IterativeRanker{Dampening: 0.8, Iterations: 100}
	scores := ranker.Rank(g)

	for _, id := range []uint32{a, b} {
		if !almostEqual(scores[id], 0.2) {
			t.Errorf("scores[%d] = %v, want 0.2", id, scores[id])
		}
	}
}

func TestIterativeRankerTwoCycleConverges(t *testing.T) {
	g, err := linkgraph.Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	a := g.GetOrCreateID("https://example.com/a")
	b := g.GetOrCreateID("https://example.com/b")
	g.RecordOutboundLinks(a, []pagedoc.Anchor{{URL: "https://example.com/b"}})
	g.RecordOutboundLinks(b, []pagedoc.Anchor{{URL: "https://example.com/a"}})

	ranker := &IterativeRanker{Dampening: 0.8, Iterations: 100}
	scores := ranker.Rank(g)

	// A symmetric two-page cycle with one outbound link each converges
	// to equal scores for both pages.
	if !almostEqual(scores[a], scores[b]) {
		t.Errorf("expected symmetric scores, got a=%v b=%v", scores[a], scores[b])
	}
	if scores[a] <= 0.2 {
		t.Errorf("expected score above baseline 0.2, got %v", scores[a])
	}
}

func TestIterativeRankerEmptyGraph(t *testing.T) {
	g, err := linkgraph.Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	ranker := &IterativeRanker{Dampening: 0.8, Iterations: 100}
	scores := ranker.Rank(g)
	if len(scores) != 0 {
		t.Errorf("expected empty map, got %v", scores)
	}
}

func TestRecursiveRankerNoReferrersIsZero(t *testing.T) {
	g, err := linkgraph.Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	a := g.GetOrCreateID("https://example.com/a")

	ranker := &RecursiveRanker{}
	scores := ranker.Rank(g)
	if scores[a] != 0 {
		t.Errorf("scores[a] = %v, want 0 (no baseline in recursive ranker)", scores[a])
	}
}

func TestRecursiveRankerBreaksSelfCycle(t *testing.T) {
	g, err := linkgraph.Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	a := g.GetOrCreateID("https://example.com/a")
	g.RecordOutboundLinks(a, []pagedoc.Anchor{{URL: "https://example.com/a"}})

	ranker := &RecursiveRanker{}
	scores := ranker.Rank(g)
	if _, ok := scores[a]; !ok {
		t.Fatal("expected a score to be computed despite the self-cycle")
	}
}

func TestNewSelectsStrategy(t *testing.T) {
	if _, ok := New(Iterative, 0.8, 100).(*IterativeRanker); !ok {
		t.Error("New(Iterative) did not return *IterativeRanker")
	}
	if _, ok := New(Recursive, 0.8, 100).(*RecursiveRanker); !ok {
		t.Error("New(Recursive) did not return *RecursiveRanker")
	}
}
