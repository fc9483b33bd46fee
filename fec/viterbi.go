package fec

import (
	"fmt"
	"math/bits"

	"github.com/tetra-rx/tetra-kit/bit"
)

// Viterbi generator polynomials for the TETRA rate-1/4, constraint-length-5
// mother code (EN 300 392-2 §8.2.3.1), expressed bit-reversed per the
// standard's table.
const (
	ViterbiG1 = 0b10011
	ViterbiG2 = 0b11101
	ViterbiG3 = 0b10111
	ViterbiG4 = 0b11011

	viterbiConstraint = 5
	viterbiStates     = 1 << (viterbiConstraint - 1)
)

var viterbiPolys = [4]uint8{ViterbiG1, ViterbiG2, ViterbiG3, ViterbiG4}

// viterbiOutput returns the 4 encoder output bits for shift register state
// reg (the constraint-length-5 window, newest bit in the low position) by
// convolving it against the four generator polynomials.
func viterbiOutput(reg uint8) [4]bit.Bit {
	var out [4]bit.Bit
	for i, poly := range viterbiPolys {
		out[i] = bit.Bit(bits.OnesCount8(reg&poly) & 1)
	}
	return out
}

type viterbiPath struct {
	metric int
	bits   bit.Bits
}

// Viterbi1_4Decode decodes a rate-1/4, constraint-length-5 convolutionally
// encoded sequence (4 output bits per information bit, with erasures from
// depuncturing already filled in) back to its N information bits, using
// hard-decision Hamming-distance path metrics and full-length traceback.
// This satisfies the mother code's contract; any decoder meeting the same
// polynomial and constraint-length contract is an equally valid
// implementation (the decoder is used as a black box by the rest of the
// pipeline).
func Viterbi1_4Decode(in bit.Bits) (bit.Bits, error) {
	if len(in)%4 != 0 {
		return nil, fmt.Errorf("fec: viterbi input length %d is not a multiple of 4", len(in))
	}
	n := len(in) / 4
	if n == 0 {
		return bit.Bits{}, nil
	}

	paths := make([]*viterbiPath, viterbiStates)
	for s := range paths {
		if s == 0 {
			paths[s] = &viterbiPath{metric: 0, bits: bit.Bits{}}
		} else {
			paths[s] = &viterbiPath{metric: 1 << 30, bits: bit.Bits{}}
		}
	}

	for step := 0; step < n; step++ {
		rx := in[step*4 : step*4+4]
		next := make([]*viterbiPath, viterbiStates)
		for s := range next {
			next[s] = &viterbiPath{metric: 1 << 30}
		}

		for state := 0; state < viterbiStates; state++ {
			if paths[state].metric >= 1<<30 {
				continue
			}
			for _, inputBit := range [2]bit.Bit{0, 1} {
				reg := uint8(state)<<1 | uint8(inputBit)
				out := viterbiOutput(reg)
				metric := paths[state].metric
				for i := 0; i < 4; i++ {
					if out[i] != rx[i] {
						metric++
					}
				}
				newState := int(reg) & (viterbiStates - 1)
				if metric < next[newState].metric {
					newBits := make(bit.Bits, len(paths[state].bits)+1)
					copy(newBits, paths[state].bits)
					newBits[len(paths[state].bits)] = inputBit
					next[newState] = &viterbiPath{metric: metric, bits: newBits}
				}
			}
		}
		paths = next
	}

	best := paths[0]
	for _, p := range paths[1:] {
		if p.metric < best.metric {
			best = p
		}
	}
	return best.bits, nil
}

// Viterbi1_4Encode runs in bits through the rate-1/4, constraint-length-5
// mother code, starting the shift register in the all-zero state. It is
// the encoder side of Viterbi1_4Decode's contract, used by tests to
// produce valid encoder output.
func Viterbi1_4Encode(in bit.Bits) bit.Bits {
	out := make(bit.Bits, 0, len(in)*4)
	var reg uint8
	for _, b := range in {
		reg = (reg&(viterbiStates-1))<<1 | uint8(b)
		o := viterbiOutput(reg)
		out = append(out, o[:]...)
	}
	return out
}
