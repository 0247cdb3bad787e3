// Package reverse implements the reverse (inverted) index: one
// append-only segment file per word id holding that word's postings,
// plus an in-memory lexicon of word id → page id set backed by roaring
// bitmaps and persisted as framed records in a single file.
package reverse

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/RoaringBitmap/roaring"

	"github.com/kepra-labs/rankdex/codec"
	"github.com/kepra-labs/rankdex/rankerr"
)

const (
	segmentsDirName = "reverse_indexes"
	lexiconFileName = "lexicon"
)

// Index is the reverse index. Index(entry) fans a forward-index entry
// out into one posting per word id; GetEntries and GetPageIDs read
// postings back by word id.
type Index struct {
	mu          sync.Mutex
	dir         string
	segmentsDir string
	lexiconPath string
	segments    map[uint32]*os.File
	lexicon     map[uint32]*roaring.Bitmap
}

// Open opens (creating if necessary) the reverse index's segment
// directory and loads the persisted lexicon.
func Open(dir string) (*Index, error) {
	segmentsDir := filepath.Join(dir, segmentsDirName)
	if err := os.MkdirAll(segmentsDir, 0o755); err != nil {
		return nil, err
	}

	idx := &Index{
		dir:         dir,
		segmentsDir: segmentsDir,
		lexiconPath: filepath.Join(dir, lexiconFileName),
		segments:    make(map[uint32]*os.File),
		lexicon:     make(map[uint32]*roaring.Bitmap),
	}

	if err := idx.loadLexicon(); err != nil {
		return nil, err
	}
	return idx, nil
}

func (idx *Index) loadLexicon() error {
	f, err := os.Open(idx.lexiconPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()

	for {
		body, err := codec.ReadFramed(f)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		entry, err := decodeLexiconEntry(body)
		if err != nil {
			return err
		}
		bitmap := roaring.New()
		bitmap.AddMany(entry.Pages)
		idx.lexicon[entry.WordID] = bitmap
	}
}

// Index persists one posting per word id present in entry's hit map and
// records the page id in that word's lexicon bitmap.
func (idx *Index) Index(entry codec.ForwardIndexEntry) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	for wordID, hits := range entry.Hits {
		reverseEntry := codec.ReverseIndexEntry{WordID: wordID, PageID: entry.PageID, Hits: hits}

		segment, err := idx.segmentFile(wordID)
		if err != nil {
			return &rankerr.PageHitMappingPersistException{WordID: wordID, Cause: err}
		}
		var body bytes.Buffer
		if err := codec.PackReverseEntry(&body, reverseEntry); err != nil {
			return &rankerr.PageHitMappingPersistException{WordID: wordID, Cause: err}
		}
		if err := codec.WriteFramed(segment, body.Bytes()); err != nil {
			return &rankerr.PageHitMappingPersistException{WordID: wordID, Cause: err}
		}

		bitmap, ok := idx.lexicon[wordID]
		if !ok {
			bitmap = roaring.New()
			idx.lexicon[wordID] = bitmap
		}
		bitmap.Add(entry.PageID)
	}
	return nil
}

func (idx *Index) segmentFile(wordID uint32) (*os.File, error) {
	if f, ok := idx.segments[wordID]; ok {
		return f, nil
	}
	path := filepath.Join(idx.segmentsDir, strconv.FormatUint(uint64(wordID), 10))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	idx.segments[wordID] = f
	return f, nil
}

// GetEntries returns every posting recorded for wordID, in the order
// they were written.
func (idx *Index) GetEntries(wordID uint32) ([]codec.ReverseIndexEntry, error) {
	idx.mu.Lock()
	path := filepath.Join(idx.segmentsDir, strconv.FormatUint(uint64(wordID), 10))
	idx.mu.Unlock()

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var entries []codec.ReverseIndexEntry
	for {
		body, err := codec.ReadFramed(f)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		entry, err := codec.UnpackReverseEntry(bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		entry.WordID = wordID
		entries = append(entries, entry)
	}
	return entries, nil
}

// GetPageIDs returns the sorted, deduplicated set of page ids containing
// wordID, per the lexicon.
func (idx *Index) GetPageIDs(wordID uint32) []uint32 {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	bitmap, ok := idx.lexicon[wordID]
	if !ok {
		return nil
	}
	return bitmap.ToArray()
}

// Close snapshots the lexicon to disk and closes all open segment
// handles.
func (idx *Index) Close() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	f, err := os.Create(idx.lexiconPath)
	if err != nil {
		return &rankerr.LexiconMappingPersistException{Cause: err}
	}
	for wordID, bitmap := range idx.lexicon {
		entry := codec.LexiconEntry{WordID: wordID, Pages: bitmap.ToArray()}
		var body bytes.Buffer
		if err := codec.PackLexiconEntry(&body, entry); err != nil {
			f.Close()
			return &rankerr.LexiconMappingPersistException{WordID: wordID, Cause: err}
		}
		if err := codec.WriteFramed(f, body.Bytes()); err != nil {
			f.Close()
			return &rankerr.LexiconMappingPersistException{WordID: wordID, Cause: err}
		}
	}
	if err := f.Close(); err != nil {
		return &rankerr.LexiconMappingPersistException{Cause: err}
	}

	var firstErr error
	for _, segment := range idx.segments {
		if err := segment.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func decodeLexiconEntry(body []byte) (codec.LexiconEntry, error) {
	return codec.UnpackLexiconEntry(bytes.NewReader(body))
}
