// Package codec implements the on-disk binary formats for the indexing
// core: Hit, ForwardIndexEntry, ReverseIndexEntry, LexiconEntry, and the
// textual DictionaryEntry, plus the length-framing and binary-search
// helpers the file-backed stores build on. All integer fields are
// big-endian.
package codec

import (
	"encoding/binary"
	"io"

	"github.com/kepra-labs/rankdex/rankerr"
)

// Hit kinds. The set matches the original index's hit taxonomy; REFERENCE
// is enumerated for codec completeness but the forward-index scanner
// (package forward) never emits one.
const (
	KindText      uint8 = 1
	KindAnchor    uint8 = 2
	KindTitle     uint8 = 3
	KindHeader    uint8 = 4
	KindURL       uint8 = 5
	KindReference uint8 = 6
)

// HitSize is the packed size of a Hit in bytes.
const HitSize = 9

// Hit is a positioned occurrence of a word within a typed section of a
// document: | kind: 1 byte | section: 4 bytes | position: 4 bytes |.
type Hit struct {
	Kind     uint8
	Section  uint32
	Position uint32
}

// PackHit writes the 9-byte binary form of h to w.
func PackHit(w io.Writer, h Hit) error {
	var buf [HitSize]byte
	buf[0] = h.Kind
	binary.BigEndian.PutUint32(buf[1:5], h.Section)
	binary.BigEndian.PutUint32(buf[5:9], h.Position)
	_, err := w.Write(buf[:])
	return err
}

// UnpackHit reads the 9-byte binary form of a Hit from r.
func UnpackHit(r io.Reader) (Hit, error) {
	var buf [HitSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return Hit{}, &rankerr.CodecError{Reason: "short hit", Cause: err}
	}
	kind := buf[0]
	if !validKind(kind) {
		return Hit{}, &rankerr.CodecError{Reason: "invalid hit kind"}
	}
	return Hit{
		Kind:     kind,
		Section:  binary.BigEndian.Uint32(buf[1:5]),
		Position: binary.BigEndian.Uint32(buf[5:9]),
	}, nil
}

func validKind(k uint8) bool {
	return k >= KindText && k <= KindReference
}
