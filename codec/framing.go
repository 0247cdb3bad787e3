package codec

import (
	"encoding/binary"
	"io"

	"github.com/kepra-labs/rankdex/rankerr"
)

// MaxFrameLength bounds a single frame's declared length, guarding
// against a corrupted length prefix asking for an absurd allocation.
const MaxFrameLength = 64 << 20

// WriteFramed writes a u32 length prefix followed by body to w.
func WriteFramed(w io.Writer, body []byte) error {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(body)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return err
	}
	_, err := w.Write(body)
	return err
}

// ReadFramed reads a u32 length prefix and then that many bytes from r.
// It returns io.EOF unchanged when r is exhausted before any bytes of a
// new frame are read, so callers can loop "until EOF" over a segment
// file.
func ReadFramed(r io.Reader) ([]byte, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		if err == io.ErrUnexpectedEOF {
			return nil, &rankerr.CodecError{Reason: "truncated frame length", Cause: err}
		}
		return nil, err
	}
	n := binary.BigEndian.Uint32(lenBuf[:])
	if n > MaxFrameLength {
		return nil, &rankerr.CodecError{Reason: "frame length exceeds maximum"}
	}
	body := make([]byte, n)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, &rankerr.CodecError{Reason: "frame length exceeds remaining bytes", Cause: err}
	}
	return body, nil
}
