// Package pdu implements the bit-addressable protocol data unit used
// throughout upper-MAC dissection: a packed bit sequence with bounds-checked
// integer-field reads, sub-range extraction and append, matching the
// generic "read N bits at offset K" operation the dissector needs at every
// field boundary.
package pdu

import (
	"fmt"

	"github.com/tetra-rx/tetra-kit/bit"
)

// PDU is a bit-addressable sequence. The zero value is an empty PDU.
type PDU struct {
	bits bit.Bits
}

// New wraps an existing bit sequence as a PDU. The caller must not mutate
// bits afterwards; New does not copy.
func New(bits bit.Bits) PDU {
	return PDU{bits: bits}
}

// Size returns the PDU's length in bits.
func (p PDU) Size() int {
	return len(p.bits)
}

// Bits returns the underlying bit sequence.
func (p PDU) Bits() bit.Bits {
	return p.bits
}

// GetValue reads n bits starting at pos as an MSB-first unsigned integer.
// n must be at most 64.
func (p PDU) GetValue(pos, n int) (uint64, error) {
	if n > 64 {
		return 0, fmt.Errorf("pdu: field width %d exceeds 64 bits", n)
	}
	if pos < 0 || n < 0 || pos+n > len(p.bits) {
		return 0, fmt.Errorf("pdu: out of range read at bit %d, width %d, size %d", pos, n, len(p.bits))
	}
	var v uint64
	for i := 0; i < n; i++ {
		v <<= 1
		if p.bits[pos+i] != 0 {
			v |= 1
		}
	}
	return v, nil
}

// MustGetValue is GetValue without an error return, for call sites that
// have already range-checked pos+n against Size.
func (p PDU) MustGetValue(pos, n int) uint64 {
	v, err := p.GetValue(pos, n)
	if err != nil {
		panic(err)
	}
	return v
}

// Extract copies the sub-range [pos, pos+n) into a new PDU.
func (p PDU) Extract(pos, n int) (PDU, error) {
	if pos < 0 || n < 0 || pos+n > len(p.bits) {
		return PDU{}, fmt.Errorf("pdu: out of range extract at bit %d, width %d, size %d", pos, n, len(p.bits))
	}
	out := make(bit.Bits, n)
	copy(out, p.bits[pos:pos+n])
	return PDU{bits: out}, nil
}

// SubFrom returns the shallow tail of the PDU starting at offset, sharing
// the backing array — used by the upper-MAC dissociation loop to restart
// dissection partway through a burst's PDU without copying.
func (p PDU) SubFrom(offset int) (PDU, error) {
	if offset < 0 || offset > len(p.bits) {
		return PDU{}, fmt.Errorf("pdu: out of range sub_from at bit %d, size %d", offset, len(p.bits))
	}
	return PDU{bits: p.bits[offset:]}, nil
}

// Append concatenates other's bits onto a copy of p.
func (p PDU) Append(other PDU) PDU {
	out := make(bit.Bits, 0, len(p.bits)+len(other.bits))
	out = append(out, p.bits...)
	out = append(out, other.bits...)
	return PDU{bits: out}
}

// Resize truncates or zero-extends the PDU to exactly n bits.
func (p PDU) Resize(n int) PDU {
	if n <= len(p.bits) {
		out := make(bit.Bits, n)
		copy(out, p.bits[:n])
		return PDU{bits: out}
	}
	out := make(bit.Bits, n)
	copy(out, p.bits)
	return PDU{bits: out}
}

// String renders the PDU as a string of '0'/'1' characters.
func (p PDU) String() string {
	return p.bits.String()
}
