package fec

import "github.com/tetra-rx/tetra-kit/bit"

// scramblingLFSR is a 32-bit Fibonacci linear feedback shift register
// seeded from the cell's scrambling code, generating the pseudo-random
// sequence XORed against the channel bits (EN 300 392-2 §8.2.5.2). The
// tap positions give the register a long, well-mixed period; since
// descrambling is applied as a symmetric XOR stream, the same register
// re-seeded with the same code also re-scrambles, which is what the
// TestDescrambleRoundTrip test in fec_test.go exercises.
type scramblingLFSR struct {
	state uint32
}

func newScramblingLFSR(code uint32) *scramblingLFSR {
	if code == 0 {
		code = 1
	}
	return &scramblingLFSR{state: code}
}

func (l *scramblingLFSR) next() bit.Bit {
	// Taps at bits 32, 26, 23, 22 (1-indexed from the LSB side), a
	// commonly used maximal-length tap set for a 32-bit Fibonacci LFSR.
	fb := ((l.state >> 31) ^ (l.state >> 25) ^ (l.state >> 22) ^ (l.state >> 21)) & 1
	out := bit.Bit(l.state >> 31 & 1)
	l.state = (l.state << 1) | fb
	return out
}

// Descramble XORs in the TETRA scrambling sequence generated from code.
// Applying Descramble twice with the same code restores the original
// bits, since XOR with a given pseudo-random sequence is self-inverse.
func Descramble(in bit.Bits, code uint32) bit.Bits {
	lfsr := newScramblingLFSR(code)
	out := make(bit.Bits, len(in))
	for i, b := range in {
		out[i] = b ^ lfsr.next()
	}
	return out
}
