// Package input provides the symbol sources that feed hard bits into the
// decoder core one at a time: a raw unpacked/packed byte stream over a
// socket or file, and a pcap replay of a previously captured stream. Both
// satisfy the same Reader contract so cmd/tetrad can treat "-r", "-i" and
// a pcap replay identically, the way the teacher's cmd/dmrstream treats
// its homebrew.Network and PCAPProtocol as interchangeable Protocol
// implementations.
package input

import (
	"bufio"
	"fmt"
	"io"

	"github.com/tetra-rx/tetra-kit/bit"
)

// Reader yields one hard-decided symbol at a time, returning io.EOF on a
// clean end of stream.
type Reader interface {
	ReadSymbol() (bit.Bit, error)
}

// RawReader wraps an io.Reader carrying one byte per bit (unpacked mode,
// the default) or one byte per 8 bits (packed mode, the CLI's -P flag,
// LSB-first per spec.md §6).
type RawReader struct {
	r      *bufio.Reader
	packed bool

	// packed-mode bit cursor into the last byte read
	cur  byte
	left int
}

// NewRawReader returns a RawReader over r. When packed is true, ReadSymbol
// unpacks 8 bits per byte read, least-significant bit first.
func NewRawReader(r io.Reader, packed bool) *RawReader {
	return &RawReader{r: bufio.NewReader(r), packed: packed}
}

// ReadSymbol returns the next hard bit from the stream.
func (r *RawReader) ReadSymbol() (bit.Bit, error) {
	if !r.packed {
		b, err := r.r.ReadByte()
		if err != nil {
			return 0, err
		}
		if b == 0 {
			return 0, nil
		}
		return 1, nil
	}

	if r.left == 0 {
		b, err := r.r.ReadByte()
		if err != nil {
			return 0, err
		}
		r.cur = b
		r.left = 8
	}
	// bit.NewBits packs MSB-first; packed input is specified LSB-first
	// (spec.md §6), so we peel off the low bit of the cursor byte on each
	// call instead of reusing bit.toBits's MSB walk.
	sym := bit.Bit(r.cur & 0x01)
	r.cur >>= 1
	r.left--
	return sym, nil
}

// TeeReader wraps a Reader, mirroring every symbol read to w as a single
// unpacked byte (value 0 or 1), matching the CLI's -o mirror-to-file flag.
type TeeReader struct {
	src Reader
	w   io.Writer
}

// NewTeeReader returns a Reader that forwards src's symbols and also
// writes each one, unpacked, to w.
func NewTeeReader(src Reader, w io.Writer) *TeeReader {
	return &TeeReader{src: src, w: w}
}

func (t *TeeReader) ReadSymbol() (bit.Bit, error) {
	sym, err := t.src.ReadSymbol()
	if err != nil {
		return sym, err
	}
	if _, werr := t.w.Write([]byte{byte(sym)}); werr != nil {
		return sym, fmt.Errorf("input: mirror write: %w", werr)
	}
	return sym, nil
}
