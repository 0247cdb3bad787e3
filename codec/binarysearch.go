package codec

import (
	"io"

	"github.com/kepra-labs/rankdex/rankerr"
)

// Compare orders a against b: negative if a < b, zero if equal, positive
// if a > b.
type Compare func(a, b []byte) int

// BinarySearch performs a binary search over fixed-width records stored
// in r between byte offsets [lo, hi). entrySize is the width of one
// record. It returns whether target was found, the matching record's
// bytes when found, and the byte offset the record starts (or would
// start) at. A range whose length is not a multiple of entrySize is a
// caller error (*rankerr.ValueError), not a codec fault.
func BinarySearch(r io.ReaderAt, entrySize int, lo, hi int64, target []byte, cmp Compare) (found bool, entry []byte, offset int64, err error) {
	if entrySize <= 0 {
		return false, nil, 0, &rankerr.ValueError{Reason: "entry size must be positive"}
	}
	if (hi-lo)%int64(entrySize) != 0 {
		return false, nil, 0, &rankerr.ValueError{Reason: "binary search range is not a multiple of entry size"}
	}

	loRec := int64(0)
	hiRec := (hi - lo) / int64(entrySize)

	for loRec < hiRec {
		midRec := loRec + (hiRec-loRec)/2
		midOffset := lo + midRec*int64(entrySize)

		buf := make([]byte, entrySize)
		if _, err := r.ReadAt(buf, midOffset); err != nil {
			return false, nil, 0, &rankerr.CodecError{Reason: "short record read during binary search", Cause: err}
		}

		switch c := cmp(buf, target); {
		case c == 0:
			return true, buf, midOffset, nil
		case c < 0:
			loRec = midRec + 1
		default:
			hiRec = midRec
		}
	}

	return false, nil, lo + loRec*int64(entrySize), nil
}
