// Package indexer is the façade orchestrating the dictionary, forward
// index, reverse index, link graph, and ranker into index() and
// search_by_keywords() (spec.md §4.7).
package indexer

import (
	"path/filepath"
	"sort"
	"sync"

	"github.com/kepra-labs/rankdex/dictionary"
	"github.com/kepra-labs/rankdex/forward"
	"github.com/kepra-labs/rankdex/history"
	"github.com/kepra-labs/rankdex/linkgraph"
	"github.com/kepra-labs/rankdex/pagedoc"
	"github.com/kepra-labs/rankdex/rank"
	"github.com/kepra-labs/rankdex/rankerr"
	"github.com/kepra-labs/rankdex/reverse"
)

// Result is one ranked search hit.
type Result struct {
	PageID uint32
	Score  float64
}

// Indexer is the engine's single entry point. Index, SearchByKeywords
// and Close each hold an internal mutex for their whole run, so calls
// from several goroutines are serialized rather than interleaved.
type Indexer struct {
	mu      sync.Mutex
	cfg     Config
	dict    *dictionary.Dictionary
	forward *forward.Index
	reverse *reverse.Index
	graph   *linkgraph.Graph
	ranker  rank.Ranker
	scores  map[uint32]float64
	history *history.Store
}

// Open loads (or creates) every component's on-disk state under
// cfg.IndexDir.
func Open(cfg Config) (*Indexer, error) {
	dict, err := dictionary.Load(filepath.Join(cfg.IndexDir, "word_dict"))
	if err != nil {
		return nil, err
	}
	fwd, err := forward.Open(cfg.IndexDir, dict)
	if err != nil {
		return nil, err
	}
	rev, err := reverse.Open(cfg.IndexDir)
	if err != nil {
		return nil, err
	}
	graph, err := linkgraph.Open(cfg.IndexDir)
	if err != nil {
		return nil, err
	}

	return &Indexer{
		cfg:     cfg,
		dict:    dict,
		forward: fwd,
		reverse: rev,
		graph:   graph,
		ranker:  rank.New(cfg.Strategy, cfg.Dampener, cfg.PageRankIterations),
		scores:  make(map[uint32]float64),
		history: cfg.History,
	}, nil
}

// Index ingests doc. Re-indexing a URL that is already mapped is a
// no-op (spec.md §4.7 step 1). When reverse-indexing fails, the
// document's forward-index offset is removed before the IndexException
// is returned. Nothing else is undone: words the document registered in
// the dictionary, the bytes appended to the forward index file, and the
// postings and lexicon entries already written for its other word ids
// all remain.
func (idx *Indexer) Index(doc pagedoc.PageDocument) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if _, ok := idx.graph.Lookup(doc.URL); ok {
		return nil
	}

	pageID := uint32(doc.DocID)

	entry, err := idx.forward.Index(doc)
	if err != nil {
		return &rankerr.IndexException{URL: doc.URL, Cause: err}
	}

	if err := idx.reverse.Index(entry); err != nil {
		idx.forward.RollbackPage(pageID)
		return &rankerr.IndexException{URL: doc.URL, Cause: err}
	}

	assigned := idx.graph.Register(pageID, doc.URL)
	idx.graph.RecordOutboundLinks(assigned, doc.Anchors)

	if idx.cfg.Strategy != rank.Recursive {
		idx.scores[assigned] = 1 - idx.cfg.Dampener
	}
	return nil
}

// SearchByKeywords normalizes keyword, recomputes PageRank over the
// current link graph, and returns every page containing the keyword in
// descending score order (ties broken by ascending page id, spec.md
// §4.7 step 4). When cfg.History was set at Open, the call is also
// recorded there; a failure to record never fails the search itself.
func (idx *Indexer) SearchByKeywords(keyword string) ([]Result, error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	wordID, ok := idx.dict.Lookup(keyword)
	if !ok {
		if idx.history != nil {
			idx.history.Record(keyword, 0)
		}
		return nil, nil
	}

	idx.scores = idx.ranker.Rank(idx.graph)

	pageIDs := idx.reverse.GetPageIDs(wordID)
	results := make([]Result, 0, len(pageIDs))
	for _, pageID := range pageIDs {
		results = append(results, Result{PageID: pageID, Score: idx.scores[pageID]})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].PageID < results[j].PageID
	})

	if idx.history != nil {
		idx.history.Record(keyword, len(results))
	}
	return results, nil
}

// Close flushes every component's persisted state, returning the first
// error encountered while still attempting to close the rest.
func (idx *Indexer) Close() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	var firstErr error
	record := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	record(idx.dict.Close())
	record(idx.forward.Close())
	record(idx.reverse.Close())
	record(idx.graph.Close())
	return firstErr
}
