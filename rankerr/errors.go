// Package rankerr defines the typed error hierarchy raised by the
// indexing core. Every variant carries the structured payload the
// original exception hierarchy attached (a url, page id, or word id).
// Every variant except ValueError wraps an underlying cause so callers
// can still inspect it with errors.As/errors.Is against the wrapped
// error.
package rankerr

import "fmt"

// IndexException reports that a document could not be persisted
// atomically.
type IndexException struct {
	URL   string
	Cause error
}

func (e *IndexException) Error() string {
	return fmt.Sprintf("failed to index %s: %v", e.URL, e.Cause)
}

func (e *IndexException) Unwrap() error { return e.Cause }

// PageRankPersistException reports that the ranker could not persist
// updated scores. Neither ranker in this revision persists scores (see
// DESIGN.md), so this variant exists for interface completeness.
type PageRankPersistException struct {
	Cause error
}

func (e *PageRankPersistException) Error() string {
	return fmt.Sprintf("failed to update page rank: %v", e.Cause)
}

func (e *PageRankPersistException) Unwrap() error { return e.Cause }

// HitListPersistException reports a forward-index hit-list write
// failure for the given page.
type HitListPersistException struct {
	PageID uint32
	Cause  error
}

func (e *HitListPersistException) Error() string {
	return fmt.Sprintf("failed to persist hits for %d: %v", e.PageID, e.Cause)
}

func (e *HitListPersistException) Unwrap() error { return e.Cause }

// ForwardMappingPersistException reports a forward-index offset-mapping
// write failure for the given page.
type ForwardMappingPersistException struct {
	PageID uint32
	Cause  error
}

func (e *ForwardMappingPersistException) Error() string {
	return fmt.Sprintf("failed to create forward mappings for %d: %v", e.PageID, e.Cause)
}

func (e *ForwardMappingPersistException) Unwrap() error { return e.Cause }

// PageHitMappingPersistException reports a reverse-index posting write
// failure for the given word.
type PageHitMappingPersistException struct {
	WordID uint32
	Cause  error
}

func (e *PageHitMappingPersistException) Error() string {
	return fmt.Sprintf("failed to create page hit mappings for %d: %v", e.WordID, e.Cause)
}

func (e *PageHitMappingPersistException) Unwrap() error { return e.Cause }

// LexiconMappingPersistException reports a lexicon write failure for the
// given word.
type LexiconMappingPersistException struct {
	WordID uint32
	Cause  error
}

func (e *LexiconMappingPersistException) Error() string {
	return fmt.Sprintf("failed to create lexicon mappings for %d: %v", e.WordID, e.Cause)
}

func (e *LexiconMappingPersistException) Unwrap() error { return e.Cause }

// CodecError reports malformed on-disk bytes.
type CodecError struct {
	Reason string
	Cause  error
}

func (e *CodecError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("codec error: %s: %v", e.Reason, e.Cause)
	}
	return fmt.Sprintf("codec error: %s", e.Reason)
}

func (e *CodecError) Unwrap() error { return e.Cause }

// ValueError reports misuse that is the caller's fault, such as a
// binary-search range that is not a multiple of the record size.
type ValueError struct {
	Reason string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("value error: %s", e.Reason)
}
