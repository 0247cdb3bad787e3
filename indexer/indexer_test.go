package indexer

import (
	"path/filepath"
	"testing"

	"github.com/kepra-labs/rankdex/pagedoc"
)

func testConfig(dir string) Config {
	cfg := DefaultConfig()
	cfg.IndexDir = dir
	return cfg
}

// TestS2SearchByKeywordsSinglePage is spec.md §8 scenario S2: after
// indexing S1's single page, searching "test" returns exactly page 1.
func TestS2SearchByKeywordsSinglePage(t *testing.T) {
	idx, err := Open(testConfig(filepath.Join(t.TempDir(), "index")))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer idx.Close()

	doc := pagedoc.PageDocument{
		DocID:   1,
		Title:   "Test Page",
		URL:     "https://www.test.com",
		Headers: []string{"Go to example"},
		Texts:   []string{"Go with example"},
		Anchors: []pagedoc.Anchor{{Text: "Example", URL: "https://www.example.com"}},
	}
	if err := idx.Index(doc); err != nil {
		t.Fatalf("Index: %v", err)
	}

	results, err := idx.SearchByKeywords("test")
	if err != nil {
		t.Fatalf("SearchByKeywords: %v", err)
	}
	if len(results) != 1 || results[0].PageID != 1 {
		t.Fatalf("results = %+v, want exactly page 1", results)
	}
}

// TestS3ThreePageRanking is spec.md §8 scenario S3: three pages, each
// with "Page" in its title, ranked by inbound link count.
func TestS3ThreePageRanking(t *testing.T) {
	idx, err := Open(testConfig(filepath.Join(t.TempDir(), "index")))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer idx.Close()

	p1 := pagedoc.PageDocument{DocID: 3, Title: "Page One", URL: "https://www.test.com/page1"}
	p2 := pagedoc.PageDocument{
		DocID: 1, Title: "Page Two", URL: "https://www.test.com/page2",
		Anchors: []pagedoc.Anchor{{Text: "p1", URL: "https://www.test.com/page1"}},
	}
	p3 := pagedoc.PageDocument{
		DocID: 2, Title: "Page Three", URL: "https://www.test.com/page3",
		Anchors: []pagedoc.Anchor{
			{Text: "p2", URL: "https://www.test.com/page2"},
			{Text: "p1", URL: "https://www.test.com/page1"},
		},
	}

	for _, doc := range []pagedoc.PageDocument{p1, p2, p3} {
		if err := idx.Index(doc); err != nil {
			t.Fatalf("Index(%q): %v", doc.URL, err)
		}
	}

	results, err := idx.SearchByKeywords("Page")
	if err != nil {
		t.Fatalf("SearchByKeywords: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("results = %+v, want 3 entries", results)
	}
	want := []uint32{3, 1, 2}
	for i, w := range want {
		if results[i].PageID != w {
			t.Errorf("results[%d].PageID = %d, want %d (full: %+v)", i, results[i].PageID, w, results)
		}
	}
}

// TestS4PersistenceRoundTrip is spec.md §8 scenario S4.
func TestS4PersistenceRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "index")

	idx, err := Open(testConfig(dir))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	doc := pagedoc.PageDocument{DocID: 1, Title: "About our persistence model", URL: "https://www.test-persistence.com"}
	if err := idx.Index(doc); err != nil {
		t.Fatalf("Index: %v", err)
	}
	if err := idx.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := Open(testConfig(dir))
	if err != nil {
		t.Fatalf("reopen Open: %v", err)
	}
	defer reopened.Close()

	results, err := reopened.SearchByKeywords("persistence")
	if err != nil {
		t.Fatalf("SearchByKeywords: %v", err)
	}
	if len(results) != 1 || results[0].PageID != 1 {
		t.Fatalf("results = %+v, want exactly page 1", results)
	}
}

// TestS5DuplicateIngestionNoDuplicate is spec.md §8 scenario S5.
func TestS5DuplicateIngestionNoDuplicate(t *testing.T) {
	idx, err := Open(testConfig(filepath.Join(t.TempDir(), "index")))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer idx.Close()

	doc := pagedoc.PageDocument{DocID: 1, Title: "persistence", URL: "https://www.test-persistence.com"}
	if err := idx.Index(doc); err != nil {
		t.Fatalf("first Index: %v", err)
	}
	if err := idx.Index(doc); err != nil {
		t.Fatalf("second Index: %v", err)
	}

	wordID, ok := idx.dict.Lookup("persistence")
	if !ok {
		t.Fatal("expected \"persistence\" to be registered")
	}
	pageIDs := idx.reverse.GetPageIDs(wordID)
	if len(pageIDs) != 1 || pageIDs[0] != 1 {
		t.Errorf("GetPageIDs = %v, want exactly [1]", pageIDs)
	}
}

func TestSearchByKeywordsUnknownWordReturnsEmpty(t *testing.T) {
	idx, err := Open(testConfig(filepath.Join(t.TempDir(), "index")))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer idx.Close()

	results, err := idx.SearchByKeywords("nonexistent")
	if err != nil {
		t.Fatalf("SearchByKeywords: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("results = %+v, want empty", results)
	}
}

func TestNoEdgesEveryScoreIsBaseline(t *testing.T) {
	idx, err := Open(testConfig(filepath.Join(t.TempDir(), "index")))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer idx.Close()

	for i, url := range []string{"https://a.example.com", "https://b.example.com"} {
		doc := pagedoc.PageDocument{DocID: uint64(i + 1), Title: "island", URL: url}
		if err := idx.Index(doc); err != nil {
			t.Fatalf("Index: %v", err)
		}
	}

	results, err := idx.SearchByKeywords("island")
	if err != nil {
		t.Fatalf("SearchByKeywords: %v", err)
	}
	want := 1 - idx.cfg.Dampener
	for _, r := range results {
		if r.Score != want {
			t.Errorf("score for page %d = %v, want %v (1 - default dampener 0.8)", r.PageID, r.Score, want)
		}
	}
}
