// Package linkgraph implements the page/URL bijection and the outbound
// and referrer bookkeeping the ranker walks: who links to whom, and how
// many outbound links each page has.
package linkgraph

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/kepra-labs/rankdex/pagedoc"
)

const (
	urlMapperFile      = "url_mapper"
	pageIDMapperFile   = "page_id_mapper"
	linkOutFile        = "link_out"
	referenceCountFile = "reference_count"
)

// Graph holds the URL↔page-id bijection and the per-page outbound link
// count and per-URL referrer list used to compute PageRank.
type Graph struct {
	mu        sync.Mutex
	dir       string
	urlToID   map[string]uint32
	idToURL   map[uint32]string
	nextID    uint32
	outbound  map[uint32]int
	referrers map[string][]uint32
}

// Open loads the graph's sidecars from dir, treating missing files as an
// empty graph.
func Open(dir string) (*Graph, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	g := &Graph{
		dir:       dir,
		urlToID:   make(map[string]uint32),
		idToURL:   make(map[uint32]string),
		nextID:    1,
		outbound:  make(map[uint32]int),
		referrers: make(map[string][]uint32),
	}

	if err := loadJSON(filepath.Join(dir, urlMapperFile), &g.urlToID); err != nil {
		return nil, err
	}
	var maxID uint32
	for _, id := range g.urlToID {
		if id > maxID {
			maxID = id
		}
	}
	g.nextID = maxID + 1

	rawPageIDs := make(map[string]string)
	if err := loadJSON(filepath.Join(dir, pageIDMapperFile), &rawPageIDs); err != nil {
		return nil, err
	}
	for k, url := range rawPageIDs {
		id, err := strconv.ParseUint(k, 10, 32)
		if err != nil {
			return nil, err
		}
		g.idToURL[uint32(id)] = url
	}

	rawOutbound := make(map[string]int)
	if err := loadJSON(filepath.Join(dir, linkOutFile), &rawOutbound); err != nil {
		return nil, err
	}
	for k, count := range rawOutbound {
		id, err := strconv.ParseUint(k, 10, 32)
		if err != nil {
			return nil, err
		}
		g.outbound[uint32(id)] = count
	}

	if err := loadJSON(filepath.Join(dir, referenceCountFile), &g.referrers); err != nil {
		return nil, err
	}

	return g, nil
}

func loadJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}

// Register binds url to the caller-supplied pageID, used when a
// PageDocument with a known doc_id is indexed. First-write-wins: if url
// is already mapped — whether from an earlier explicit Register, from
// GetOrCreateID, or as an anchor target seen by RecordOutboundLinks —
// the existing id is returned
// unchanged and pageID is ignored.
func (g *Graph) Register(pageID uint32, url string) uint32 {
	g.mu.Lock()
	defer g.mu.Unlock()

	if id, ok := g.urlToID[url]; ok {
		return id
	}
	g.urlToID[url] = pageID
	g.idToURL[pageID] = url
	if pageID >= g.nextID {
		g.nextID = pageID + 1
	}
	return pageID
}

// GetOrCreateID returns url's page id, registering it with a freshly
// allocated id on first sight. Registration is first-write-wins: the id
// assigned to a URL never changes once allocated. Used to assign ids to
// anchor targets that have not been explicitly indexed yet.
func (g *Graph) GetOrCreateID(url string) uint32 {
	g.mu.Lock()
	defer g.mu.Unlock()

	if id, ok := g.urlToID[url]; ok {
		return id
	}
	id := g.nextID
	g.nextID++
	g.urlToID[url] = id
	g.idToURL[id] = url
	return id
}

// Lookup reports the page id assigned to url, if any, without
// registering it.
func (g *Graph) Lookup(url string) (uint32, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	id, ok := g.urlToID[url]
	return id, ok
}

// URL returns the URL registered under id, if any.
func (g *Graph) URL(id uint32) (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	url, ok := g.idToURL[id]
	return url, ok
}

// RecordOutboundLinks sets pageID's outbound anchor count to the raw
// (non-deduplicated) anchor count, and registers pageID as a referrer
// of each *unique* anchor target URL — matching §4.5's split between a
// raw divisor and a deduplicated referrers map. Anchor targets not yet
// indexed as pages of their own still receive a page id, so the ranker
// can fold them into the graph once they are indexed.
func (g *Graph) RecordOutboundLinks(pageID uint32, anchors []pagedoc.Anchor) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.outbound[pageID] = len(anchors)
	seen := make(map[string]bool, len(anchors))
	for _, anchor := range anchors {
		if _, ok := g.urlToID[anchor.URL]; !ok {
			id := g.nextID
			g.nextID++
			g.urlToID[anchor.URL] = id
			g.idToURL[id] = anchor.URL
		}
		if seen[anchor.URL] {
			continue
		}
		seen[anchor.URL] = true
		g.referrers[anchor.URL] = append(g.referrers[anchor.URL], pageID)
	}
}

// OutboundCount returns the number of outbound anchors pageID has
// recorded, or 0 if unknown.
func (g *Graph) OutboundCount(pageID uint32) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.outbound[pageID]
}

// ReferrerIDs returns the page ids of pages with an anchor pointing at
// pageID's URL.
func (g *Graph) ReferrerIDs(pageID uint32) []uint32 {
	g.mu.Lock()
	defer g.mu.Unlock()
	url, ok := g.idToURL[pageID]
	if !ok {
		return nil
	}
	return g.referrers[url]
}

// PageIDs returns every page id the graph has registered.
func (g *Graph) PageIDs() []uint32 {
	g.mu.Lock()
	defer g.mu.Unlock()
	ids := make([]uint32, 0, len(g.idToURL))
	for id := range g.idToURL {
		ids = append(ids, id)
	}
	return ids
}

// Close persists all four sidecars as JSON.
func (g *Graph) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := writeJSON(filepath.Join(g.dir, urlMapperFile), g.urlToID); err != nil {
		return err
	}

	pageIDs := make(map[string]string, len(g.idToURL))
	for id, url := range g.idToURL {
		pageIDs[strconv.FormatUint(uint64(id), 10)] = url
	}
	if err := writeJSON(filepath.Join(g.dir, pageIDMapperFile), pageIDs); err != nil {
		return err
	}

	outbound := make(map[string]int, len(g.outbound))
	for id, count := range g.outbound {
		outbound[strconv.FormatUint(uint64(id), 10)] = count
	}
	if err := writeJSON(filepath.Join(g.dir, linkOutFile), outbound); err != nil {
		return err
	}

	return writeJSON(filepath.Join(g.dir, referenceCountFile), g.referrers)
}

func writeJSON(path string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
