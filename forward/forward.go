// Package forward implements the forward index: an append-only binary
// file of page → words+hits entries, backed by an in-memory
// page-id → byte-offset map persisted as JSON on close.
package forward

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/kepra-labs/rankdex/codec"
	"github.com/kepra-labs/rankdex/dictionary"
	"github.com/kepra-labs/rankdex/pagedoc"
	"github.com/kepra-labs/rankdex/rankerr"
)

const (
	fileName    = "forward_index"
	sidecarName = "forward_index_map"
)

// Index is the forward index: Index(doc) persists one ForwardIndexEntry
// per page; GetEntry(pageID) reads it back by seeking to its recorded
// offset.
type Index struct {
	mu          sync.Mutex
	file        *os.File
	sidecarPath string
	dict        *dictionary.Dictionary
	offsets     map[uint32]int64
	size        int64
}

// Open opens (creating if necessary) the forward index file and its
// offset sidecar under dir.
func Open(dir string, dict *dictionary.Dictionary) (*Index, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	f, err := os.OpenFile(filepath.Join(dir, fileName), os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}

	idx := &Index{
		file:        f,
		sidecarPath: filepath.Join(dir, sidecarName),
		dict:        dict,
		offsets:     make(map[uint32]int64),
		size:        stat.Size(),
	}

	if err := idx.loadSidecar(); err != nil {
		f.Close()
		return nil, err
	}
	return idx, nil
}

func (idx *Index) loadSidecar() error {
	data, err := os.ReadFile(idx.sidecarPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	var raw map[string]int64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for k, v := range raw {
		id, err := parsePageID(k)
		if err != nil {
			return err
		}
		idx.offsets[id] = v
	}
	return nil
}

// Index scans doc's title, headers, texts, anchors, and URL into hits,
// registering new words with the dictionary along the way, and appends
// the resulting entry to the forward index file.
func (idx *Index) Index(doc pagedoc.PageDocument) (codec.ForwardIndexEntry, error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	pageID := uint32(doc.DocID)
	hits := make(map[uint32][]codec.Hit)

	scanSection(idx.dict, doc.Title, codec.KindTitle, 0, hits)
	for i, header := range doc.Headers {
		scanSection(idx.dict, header, codec.KindHeader, uint32(i), hits)
	}
	for i, text := range doc.Texts {
		scanSection(idx.dict, text, codec.KindText, uint32(i), hits)
	}
	for i, anchor := range doc.Anchors {
		scanSection(idx.dict, anchor.Text, codec.KindAnchor, uint32(i), hits)
	}
	scanSection(idx.dict, doc.URL, codec.KindURL, 0, hits)

	entry := codec.ForwardIndexEntry{PageID: pageID, Hits: hits}

	body, err := codec.EncodeForwardEntry(entry)
	if err != nil {
		return codec.ForwardIndexEntry{}, &rankerr.HitListPersistException{PageID: pageID, Cause: err}
	}

	offset := idx.size
	if err := codec.WriteFramed(idx.file, body); err != nil {
		return codec.ForwardIndexEntry{}, &rankerr.HitListPersistException{PageID: pageID, Cause: err}
	}
	idx.size += int64(4 + len(body))
	idx.offsets[pageID] = offset

	return entry, nil
}

// GetEntry returns the persisted entry for pageID, or ok=false if the
// page is unknown.
func (idx *Index) GetEntry(pageID uint32) (entry codec.ForwardIndexEntry, ok bool, err error) {
	idx.mu.Lock()
	offset, known := idx.offsets[pageID]
	size := idx.size
	idx.mu.Unlock()
	if !known {
		return codec.ForwardIndexEntry{}, false, nil
	}

	section := io.NewSectionReader(idx.file, offset, size-offset)
	body, err := codec.ReadFramed(section)
	if err != nil {
		return codec.ForwardIndexEntry{}, false, err
	}
	entry, err = codec.DecodeForwardEntry(body)
	if err != nil {
		return codec.ForwardIndexEntry{}, false, err
	}
	return entry, true, nil
}

// RollbackPage removes a page's offset entry, used when a later stage of
// indexing that page fails (spec.md §5: "a failed index call rolls back
// any in-memory mutation it has made for that document").
func (idx *Index) RollbackPage(pageID uint32) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	delete(idx.offsets, pageID)
}

// Close persists the offset sidecar as JSON and closes the file handle.
func (idx *Index) Close() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	raw := make(map[string]int64, len(idx.offsets))
	for id, offset := range idx.offsets {
		raw[formatPageID(id)] = offset
	}
	data, err := json.Marshal(raw)
	if err != nil {
		idx.file.Close()
		return &rankerr.ForwardMappingPersistException{Cause: err}
	}
	if err := os.WriteFile(idx.sidecarPath, data, 0o644); err != nil {
		idx.file.Close()
		return &rankerr.ForwardMappingPersistException{Cause: err}
	}
	return idx.file.Close()
}

func parsePageID(s string) (uint32, error) {
	id, err := strconv.ParseUint(s, 10, 32)
	return uint32(id), err
}

func formatPageID(id uint32) string {
	return strconv.FormatUint(uint64(id), 10)
}

func scanSection(dict *dictionary.Dictionary, text string, kind uint8, section uint32, hits map[uint32][]codec.Hit) {
	for position, token := range strings.Split(text, " ") {
		id, ok := dict.GetOrCreateID(token)
		if !ok {
			// Empty-after-normalization tokens still consume a position
			// slot (see DESIGN.md) but never get a Hit: there is no word
			// id to record one under.
			continue
		}
		hits[id] = append(hits[id], codec.Hit{Kind: kind, Section: section, Position: uint32(position)})
	}
}
