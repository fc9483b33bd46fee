package fec

import (
	"fmt"

	"github.com/tetra-rx/tetra-kit/bit"
)

// puncturePositions returns a mask of length total with exactly keep true
// positions, spread as evenly as possible by the same running-accumulator
// construction used to generate rate-matching puncturing tables (EN 300
// 392-2 §8.2.3.2's P(2/3) table is one instance of this family, built for
// a single fixed ratio; TETRA's three FEC-protected logical channels each
// carry their own K1, so the accumulator is evaluated per call against the
// channel's own (transmitted, mother) pair rather than hardcoded once).
func puncturePositions(total, keep int) []bool {
	mask := make([]bool, total)
	acc := 0
	for i := 0; i < total; i++ {
		acc += keep
		if acc >= total {
			acc -= total
			mask[i] = true
		}
	}
	return mask
}

// erasure marks a punctured position in Depuncture's output. It equals
// neither 0 nor 1, so Viterbi1_4Decode's Hamming branch metric charges it
// to every candidate branch alike and it does not bias path selection.
const erasure bit.Bit = 2

// Depuncture expands a punctured sequence of length len(in) into a
// mother-code sequence of length motherLen, inserting an erasure marker
// at each position the puncturing table drops. motherLen must be >=
// len(in).
func Depuncture(in bit.Bits, motherLen int) (bit.Bits, error) {
	if motherLen < len(in) {
		return nil, fmt.Errorf("fec: depuncture target length %d shorter than input %d", motherLen, len(in))
	}
	mask := puncturePositions(motherLen, len(in))
	out := make(bit.Bits, motherLen)
	si := 0
	for i, keep := range mask {
		if keep {
			out[i] = in[si]
			si++
		} else {
			out[i] = erasure
		}
	}
	return out, nil
}

// Puncture is the forward operation: it keeps keepLen bits out of the
// mother-code sequence in, at the same positions Depuncture(kept, len(in))
// would reinsert them, the inverse of Depuncture.
func Puncture(in bit.Bits, keepLen int) (bit.Bits, error) {
	if keepLen > len(in) {
		return nil, fmt.Errorf("fec: puncture keep length %d longer than input %d", keepLen, len(in))
	}
	mask := puncturePositions(len(in), keepLen)
	out := make(bit.Bits, 0, keepLen)
	for i, keep := range mask {
		if keep {
			out = append(out, in[i])
		}
	}
	return out, nil
}
