package fec

import (
	"fmt"

	"github.com/tetra-rx/tetra-kit/bit"
)

// Deinterleave reverses the TETRA block interleaver (EN 300 392-2 §8.2.3.3):
// for i in [0, K), output[i] = input[(a*(i+1)) mod K], expressed 0-indexed.
// K is the block length and a the interleaving depth; the three (K, a)
// pairs used on the downlink are (120, 11), (216, 101) and (432, 103).
func Deinterleave(in bit.Bits, k, a int) (bit.Bits, error) {
	if len(in) != k {
		return nil, fmt.Errorf("fec: deinterleave expected %d bits, got %d", k, len(in))
	}
	out := make(bit.Bits, k)
	for i := 0; i < k; i++ {
		src := (a * (i + 1)) % k
		out[i] = in[src]
	}
	return out, nil
}

// Interleave applies the forward TETRA block interleaver, the inverse of
// Deinterleave: Interleave(Deinterleave(x, k, a), k, a) == x.
func Interleave(in bit.Bits, k, a int) (bit.Bits, error) {
	if len(in) != k {
		return nil, fmt.Errorf("fec: interleave expected %d bits, got %d", k, len(in))
	}
	out := make(bit.Bits, k)
	for i := 0; i < k; i++ {
		src := (a * (i + 1)) % k
		out[src] = in[i]
	}
	return out, nil
}
