package fec

import (
	"math/rand"
	"testing"

	"github.com/tetra-rx/tetra-kit/bit"
)

func TestDeinterleaveRoundTrip(t *testing.T) {
	for _, params := range [][2]int{{120, 11}, {216, 101}, {432, 103}} {
		k, a := params[0], params[1]
		in := make(bit.Bits, k)
		for i := range in {
			in[i] = bit.Bit(i % 2)
		}
		interleaved, err := Interleave(in, k, a)
		if err != nil {
			t.Fatalf("Interleave(k=%d,a=%d): %v", k, a, err)
		}
		back, err := Deinterleave(interleaved, k, a)
		if err != nil {
			t.Fatalf("Deinterleave(k=%d,a=%d): %v", k, a, err)
		}
		if !bit.Equal(in, back) {
			t.Fatalf("deinterleave(interleave(x)) != x for k=%d,a=%d", k, a)
		}
	}
}

func TestDepunctureLength(t *testing.T) {
	for _, params := range [][2]int{{120, 304}, {216, 560}, {432, 1136}} {
		l, mother := params[0], params[1]
		in := make(bit.Bits, l)
		out, err := Depuncture(in, mother)
		if err != nil {
			t.Fatalf("Depuncture(%d, %d): %v", l, mother, err)
		}
		if len(out) != mother {
			t.Fatalf("Depuncture(%d, %d) length = %d, want %d", l, mother, len(out), mother)
		}
	}
}

func TestPunctureRoundTrip(t *testing.T) {
	in := make(bit.Bits, 304)
	rnd := rand.New(rand.NewSource(1))
	for i := range in {
		in[i] = bit.Bit(rnd.Intn(2))
	}
	punctured, err := Puncture(in, 120)
	if err != nil {
		t.Fatalf("Puncture: %v", err)
	}
	back, err := Depuncture(punctured, len(in))
	if err != nil {
		t.Fatalf("Depuncture: %v", err)
	}
	// Depuncture re-inserts erasure markers at punctured positions, so only
	// the kept positions (the same mask puncturePositions generates for
	// this (304,120) pair) are expected to round-trip.
	mask := puncturePositions(len(in), 120)
	for i, keep := range mask {
		if !keep {
			continue
		}
		if in[i] != back[i] {
			t.Fatalf("position %d did not round trip", i)
		}
	}
}

func TestViterbiRoundTrip(t *testing.T) {
	rnd := rand.New(rand.NewSource(2))
	in := make(bit.Bits, 40)
	for i := range in {
		in[i] = bit.Bit(rnd.Intn(2))
	}
	encoded := Viterbi1_4Encode(in)
	decoded, err := Viterbi1_4Decode(encoded)
	if err != nil {
		t.Fatalf("Viterbi1_4Decode: %v", err)
	}
	if !bit.Equal(in, decoded) {
		t.Fatalf("Viterbi1_4Decode(Viterbi1_4Encode(x)) != x")
	}
}

func TestDescrambleRoundTrip(t *testing.T) {
	in := bit.NewBits([]byte{0xde, 0xad, 0xbe, 0xef})
	scrambled := Descramble(in, 0x12345678)
	back := Descramble(scrambled, 0x12345678)
	if !bit.Equal(in, back) {
		t.Fatalf("Descramble is not self-inverse with a fixed code")
	}
}

func TestReedMullerRoundTrip(t *testing.T) {
	data := bit.NewBits([]byte{0xab, 0x02})[:14]
	codeword := ReedMuller30_14Encode(data)
	got, ok := ReedMuller30_14Decode(codeword)
	if !ok {
		t.Fatalf("ReedMuller30_14Decode rejected a clean codeword")
	}
	if !bit.Equal(data, got) {
		t.Fatalf("ReedMuller30_14Decode(ReedMuller30_14Encode(x)) != x")
	}
}

func TestReedMullerSingleBitCorrection(t *testing.T) {
	data := bit.NewBits([]byte{0x3c, 0x01})[:14]
	codeword := ReedMuller30_14Encode(data)
	codeword[5].Flip()
	got, ok := ReedMuller30_14Decode(codeword)
	if !ok {
		t.Fatalf("ReedMuller30_14Decode failed to correct a single bit error")
	}
	if !bit.Equal(data, got) {
		t.Fatalf("corrected decode != original data")
	}
}
