package codec

import (
	"bytes"
	"encoding/binary"
	"io"
	"strings"

	"github.com/kepra-labs/rankdex/rankerr"
)

// ForwardIndexEntry maps a page to the words it contains and, per word,
// the ordered list of hits. Binary form:
// | page_id: u32 | word_count: u32 | { word_id: u32 | hit_count: u16 | hits }... |
type ForwardIndexEntry struct {
	PageID uint32
	Hits   map[uint32][]Hit
}

// PackForwardEntry writes the binary form of e to w.
func PackForwardEntry(w io.Writer, e ForwardIndexEntry) error {
	var header [8]byte
	binary.BigEndian.PutUint32(header[0:4], e.PageID)
	binary.BigEndian.PutUint32(header[4:8], uint32(len(e.Hits)))
	if _, err := w.Write(header[:]); err != nil {
		return err
	}
	for wordID, hits := range e.Hits {
		var wordHeader [6]byte
		binary.BigEndian.PutUint32(wordHeader[0:4], wordID)
		binary.BigEndian.PutUint16(wordHeader[4:6], uint16(len(hits)))
		if _, err := w.Write(wordHeader[:]); err != nil {
			return err
		}
		for _, h := range hits {
			if err := PackHit(w, h); err != nil {
				return err
			}
		}
	}
	return nil
}

// UnpackForwardEntry reads the binary form of a ForwardIndexEntry from r.
func UnpackForwardEntry(r io.Reader) (ForwardIndexEntry, error) {
	var header [8]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return ForwardIndexEntry{}, &rankerr.CodecError{Reason: "short forward entry header", Cause: err}
	}
	entry := ForwardIndexEntry{
		PageID: binary.BigEndian.Uint32(header[0:4]),
		Hits:   make(map[uint32][]Hit),
	}
	wordCount := binary.BigEndian.Uint32(header[4:8])
	for i := uint32(0); i < wordCount; i++ {
		var wordHeader [6]byte
		if _, err := io.ReadFull(r, wordHeader[:]); err != nil {
			return ForwardIndexEntry{}, &rankerr.CodecError{Reason: "short forward word header", Cause: err}
		}
		wordID := binary.BigEndian.Uint32(wordHeader[0:4])
		hitCount := binary.BigEndian.Uint16(wordHeader[4:6])
		hits := make([]Hit, 0, hitCount)
		for j := uint16(0); j < hitCount; j++ {
			h, err := UnpackHit(r)
			if err != nil {
				return ForwardIndexEntry{}, err
			}
			hits = append(hits, h)
		}
		entry.Hits[wordID] = hits
	}
	return entry, nil
}

// ReverseIndexEntry represents one page's contribution for one word. The
// word id is not stored in the encoded body (spec.md §4.4) — the caller
// restores it from the segment file it read the entry from. Body form:
// | page_id: u32 | hit_count: u16 | hits... |
type ReverseIndexEntry struct {
	WordID uint32
	PageID uint32
	Hits   []Hit
}

// PackReverseEntry writes the body (without the word id) of e to w.
func PackReverseEntry(w io.Writer, e ReverseIndexEntry) error {
	var header [6]byte
	binary.BigEndian.PutUint32(header[0:4], e.PageID)
	binary.BigEndian.PutUint16(header[4:6], uint16(len(e.Hits)))
	if _, err := w.Write(header[:]); err != nil {
		return err
	}
	for _, h := range e.Hits {
		if err := PackHit(w, h); err != nil {
			return err
		}
	}
	return nil
}

// UnpackReverseEntry reads a ReverseIndexEntry body from r. WordID is
// left zero; the caller assigns it.
func UnpackReverseEntry(r io.Reader) (ReverseIndexEntry, error) {
	var header [6]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return ReverseIndexEntry{}, &rankerr.CodecError{Reason: "short reverse entry header", Cause: err}
	}
	entry := ReverseIndexEntry{
		PageID: binary.BigEndian.Uint32(header[0:4]),
	}
	hitCount := binary.BigEndian.Uint16(header[4:6])
	entry.Hits = make([]Hit, 0, hitCount)
	for i := uint16(0); i < hitCount; i++ {
		h, err := UnpackHit(r)
		if err != nil {
			return ReverseIndexEntry{}, err
		}
		entry.Hits = append(entry.Hits, h)
	}
	return entry, nil
}

// LexiconEntry is the set of page ids known to contain a word. Body form:
// | word_id: u32 | page_count: u32 | page_count x u32 |
type LexiconEntry struct {
	WordID uint32
	Pages  []uint32
}

// PackLexiconEntry writes the body of e to w.
func PackLexiconEntry(w io.Writer, e LexiconEntry) error {
	var header [8]byte
	binary.BigEndian.PutUint32(header[0:4], e.WordID)
	binary.BigEndian.PutUint32(header[4:8], uint32(len(e.Pages)))
	if _, err := w.Write(header[:]); err != nil {
		return err
	}
	for _, p := range e.Pages {
		var b [4]byte
		binary.BigEndian.PutUint32(b[:], p)
		if _, err := w.Write(b[:]); err != nil {
			return err
		}
	}
	return nil
}

// UnpackLexiconEntry reads a LexiconEntry body from r.
func UnpackLexiconEntry(r io.Reader) (LexiconEntry, error) {
	var header [8]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return LexiconEntry{}, &rankerr.CodecError{Reason: "short lexicon entry header", Cause: err}
	}
	entry := LexiconEntry{WordID: binary.BigEndian.Uint32(header[0:4])}
	pageCount := binary.BigEndian.Uint32(header[4:8])
	entry.Pages = make([]uint32, 0, pageCount)
	for i := uint32(0); i < pageCount; i++ {
		var b [4]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return LexiconEntry{}, &rankerr.CodecError{Reason: "short lexicon page id", Cause: err}
		}
		entry.Pages = append(entry.Pages, binary.BigEndian.Uint32(b[:]))
	}
	return entry, nil
}

// DictionaryEntry is a textual "key:value" record. If the key itself
// contains a colon (as a URL's scheme separator does), the text is split
// on the LAST colon only so the key survives intact.
type DictionaryEntry struct {
	Key   string
	Value string
}

// Pack returns the "key:value" textual form of e.
func (e DictionaryEntry) Pack() string {
	return e.Key + ":" + e.Value
}

// UnpackDictionaryEntry parses a "key:value" line, splitting on the last
// colon.
func UnpackDictionaryEntry(line string) (DictionaryEntry, error) {
	idx := strings.LastIndex(line, ":")
	if idx < 0 {
		return DictionaryEntry{}, &rankerr.CodecError{Reason: "dictionary entry missing ':'"}
	}
	return DictionaryEntry{Key: line[:idx], Value: line[idx+1:]}, nil
}

// EncodeForwardEntry is a convenience wrapper returning the packed bytes
// directly, used when the caller wants to frame them itself.
func EncodeForwardEntry(e ForwardIndexEntry) ([]byte, error) {
	var buf bytes.Buffer
	if err := PackForwardEntry(&buf, e); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeForwardEntry is the inverse of EncodeForwardEntry.
func DecodeForwardEntry(data []byte) (ForwardIndexEntry, error) {
	return UnpackForwardEntry(bytes.NewReader(data))
}
