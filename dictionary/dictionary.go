// Package dictionary implements the word dictionary: normalizing tokens
// into a canonical form and mapping each to a stable, dense, 1-based
// word id, persisted as one "word:id" line per entry.
package dictionary

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/kepra-labs/rankdex/codec"
)

// Dictionary normalizes tokens and assigns them word ids, registering
// unknown tokens as a side effect of GetOrCreateID — mirroring the
// original get_word_id contract (spec.md §4.2).
type Dictionary struct {
	path   string
	ids    map[string]uint32
	words  map[uint32]string
	nextID uint32
}

// Load opens the dictionary file at path, tolerating a missing file as
// an empty dictionary.
func Load(path string) (*Dictionary, error) {
	d := &Dictionary{
		path:   path,
		ids:    make(map[string]uint32),
		words:  make(map[uint32]string),
		nextID: 1,
	}

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return d, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	var maxID uint32
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		entry, err := codec.UnpackDictionaryEntry(line)
		if err != nil {
			return nil, err
		}
		id, err := strconv.ParseUint(entry.Value, 10, 32)
		if err != nil {
			return nil, err
		}
		d.ids[entry.Key] = uint32(id)
		d.words[uint32(id)] = entry.Key
		if uint32(id) > maxID {
			maxID = uint32(id)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	d.nextID = maxID + 1
	return d, nil
}

// Normalize applies the canonical token normalization: strip trailing
// whitespace, strip leading/trailing runs of non-alphanumeric ASCII
// characters (leaving an all-punctuation token unchanged), then
// lowercase. A URL like "https://www.google.com" survives intact because
// both of its ends are already alphanumeric; nothing is stripped.
func Normalize(token string) string {
	token = strings.TrimRight(token, " \t\r\n")
	if token == "" {
		return ""
	}

	start := 0
	for start < len(token) && !isAlphaNumericASCII(token[start]) {
		start++
	}
	if start == len(token) {
		// The whole token is non-alphanumeric; leave it unchanged.
		return strings.ToLower(token)
	}

	end := len(token) - 1
	for end > start && !isAlphaNumericASCII(token[end]) {
		end--
	}

	return strings.ToLower(token[start : end+1])
}

func isAlphaNumericASCII(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// GetOrCreateID normalizes token and returns its word id, allocating a
// new dense id if the token has not been seen before. Normalizing the
// empty string returns (0, false) without allocating an id.
func (d *Dictionary) GetOrCreateID(token string) (id uint32, ok bool) {
	normalized := Normalize(token)
	if normalized == "" {
		return 0, false
	}
	if id, exists := d.ids[normalized]; exists {
		return id, true
	}
	id = d.nextID
	d.nextID++
	d.ids[normalized] = id
	d.words[id] = normalized
	return id, true
}

// Lookup returns the word id for an already-normalized or raw token
// without registering it, reporting whether it is known.
func (d *Dictionary) Lookup(token string) (id uint32, ok bool) {
	normalized := Normalize(token)
	if normalized == "" {
		return 0, false
	}
	id, ok = d.ids[normalized]
	return id, ok
}

// Word returns the token registered under id, if any.
func (d *Dictionary) Word(id uint32) (string, bool) {
	w, ok := d.words[id]
	return w, ok
}

// Close rewrites the dictionary file with one "word:id" line per entry.
func (d *Dictionary) Close() error {
	f, err := os.Create(d.path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for word, id := range d.ids {
		entry := codec.DictionaryEntry{Key: word, Value: strconv.FormatUint(uint64(id), 10)}
		if _, err := w.WriteString(entry.Pack() + "\n"); err != nil {
			return err
		}
	}
	return w.Flush()
}
