package forward

import (
	"path/filepath"
	"testing"

	"github.com/kepra-labs/rankdex/codec"
	"github.com/kepra-labs/rankdex/dictionary"
	"github.com/kepra-labs/rankdex/pagedoc"
)

func newTestIndex(t *testing.T) (*Index, *dictionary.Dictionary, string) {
	t.Helper()
	dir := t.TempDir()
	dict, err := dictionary.Load(filepath.Join(dir, "word_dict"))
	if err != nil {
		t.Fatalf("dictionary.Load: %v", err)
	}
	idx, err := Open(dir, dict)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return idx, dict, dir
}

// TestIndexProducesExpectedHitsS1 is spec.md §8 scenario S1: a single
// page whose title is "test", one header "go", and one text "test go"
// should produce the hit lists documented there.
func TestIndexProducesExpectedHitsS1(t *testing.T) {
	idx, dict, _ := newTestIndex(t)
	defer idx.file.Close()

	doc := pagedoc.PageDocument{
		DocID:   1,
		Title:   "test",
		Headers: []string{"go"},
		Texts:   []string{"test go"},
	}

	entry, err := idx.Index(doc)
	if err != nil {
		t.Fatalf("Index: %v", err)
	}

	testID, ok := dict.Lookup("test")
	if !ok {
		t.Fatal("expected \"test\" to be registered")
	}
	goID, ok := dict.Lookup("go")
	if !ok {
		t.Fatal("expected \"go\" to be registered")
	}

	testHits := entry.Hits[testID]
	if len(testHits) != 2 {
		t.Fatalf("\"test\" hits = %+v, want 2 entries", testHits)
	}
	if testHits[0] != (codec.Hit{Kind: codec.KindTitle, Section: 0, Position: 0}) {
		t.Errorf("test[0] = %+v, want TITLE(0,0)", testHits[0])
	}
	if testHits[1] != (codec.Hit{Kind: codec.KindText, Section: 0, Position: 0}) {
		t.Errorf("test[1] = %+v, want TEXT(0,0)", testHits[1])
	}

	goHits := entry.Hits[goID]
	if len(goHits) != 2 {
		t.Fatalf("\"go\" hits = %+v, want 2 entries", goHits)
	}
	if goHits[0] != (codec.Hit{Kind: codec.KindHeader, Section: 0, Position: 0}) {
		t.Errorf("go[0] = %+v, want HEADER(0,0)", goHits[0])
	}
	if goHits[1] != (codec.Hit{Kind: codec.KindText, Section: 0, Position: 1}) {
		t.Errorf("go[1] = %+v, want TEXT(0,1)", goHits[1])
	}
}

func TestIndexAndGetEntryRoundTrip(t *testing.T) {
	idx, _, _ := newTestIndex(t)
	defer idx.file.Close()

	doc := pagedoc.PageDocument{DocID: 7, Title: "alpha beta", URL: "https://example.com/a"}
	want, err := idx.Index(doc)
	if err != nil {
		t.Fatalf("Index: %v", err)
	}

	got, ok, err := idx.GetEntry(7)
	if err != nil {
		t.Fatalf("GetEntry: %v", err)
	}
	if !ok {
		t.Fatal("expected entry to be found")
	}
	if len(got.Hits) != len(want.Hits) {
		t.Fatalf("got %d word ids, want %d", len(got.Hits), len(want.Hits))
	}
	for id, hits := range want.Hits {
		if len(got.Hits[id]) != len(hits) {
			t.Errorf("word %d: got %d hits, want %d", id, len(got.Hits[id]), len(hits))
		}
	}
}

func TestGetEntryUnknownPage(t *testing.T) {
	idx, _, _ := newTestIndex(t)
	defer idx.file.Close()

	_, ok, err := idx.GetEntry(99)
	if err != nil {
		t.Fatalf("GetEntry: %v", err)
	}
	if ok {
		t.Fatal("expected ok=false for unknown page")
	}
}

func TestOffsetsSurviveCloseAndReopen(t *testing.T) {
	dir := t.TempDir()
	dict, err := dictionary.Load(filepath.Join(dir, "word_dict"))
	if err != nil {
		t.Fatalf("dictionary.Load: %v", err)
	}
	idx, err := Open(dir, dict)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := idx.Index(pagedoc.PageDocument{DocID: 3, Title: "persisted"}); err != nil {
		t.Fatalf("Index: %v", err)
	}
	if err := idx.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := Open(dir, dict)
	if err != nil {
		t.Fatalf("reopen Open: %v", err)
	}
	defer reopened.file.Close()

	entry, ok, err := reopened.GetEntry(3)
	if err != nil {
		t.Fatalf("GetEntry after reopen: %v", err)
	}
	if !ok {
		t.Fatal("expected entry 3 to survive reopen")
	}
	if entry.PageID != 3 {
		t.Errorf("PageID = %d, want 3", entry.PageID)
	}
}

func TestEmptyTokenConsumesPositionButNoHit(t *testing.T) {
	idx, dict, _ := newTestIndex(t)
	defer idx.file.Close()

	entry, err := idx.Index(pagedoc.PageDocument{DocID: 1, Title: "first  third"})
	if err != nil {
		t.Fatalf("Index: %v", err)
	}

	firstID, _ := dict.Lookup("first")
	thirdID, _ := dict.Lookup("third")

	if got := entry.Hits[firstID][0].Position; got != 0 {
		t.Errorf("first position = %d, want 0", got)
	}
	if got := entry.Hits[thirdID][0].Position; got != 2 {
		t.Errorf("third position = %d, want 2 (empty token between consumes slot 1)", got)
	}
}

func TestRollbackPageRemovesOffset(t *testing.T) {
	idx, _, _ := newTestIndex(t)
	defer idx.file.Close()

	if _, err := idx.Index(pagedoc.PageDocument{DocID: 5, Title: "x"}); err != nil {
		t.Fatalf("Index: %v", err)
	}
	idx.RollbackPage(5)

	_, ok, err := idx.GetEntry(5)
	if err != nil {
		t.Fatalf("GetEntry: %v", err)
	}
	if ok {
		t.Fatal("expected rolled-back page to be unknown")
	}
}
