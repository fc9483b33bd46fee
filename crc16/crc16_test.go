package crc16

import (
	"testing"

	"github.com/tetra-rx/tetra-kit/bit"
)

func TestComputeEmpty(t *testing.T) {
	if got := Compute(bit.Bits{}); got != 0x1021 {
		t.Fatalf("crc16 of empty message = %#04x, want %#04x", got, 0x1021)
	}
}

func TestCheckRoundTrip(t *testing.T) {
	payload := bit.NewBits([]byte("hello world"))
	crc := Compute(payload)

	var crcBits bit.Bits
	for i := 15; i >= 0; i-- {
		crcBits = append(crcBits, bit.Bit((crc>>uint(i))&1))
	}

	block := append(append(bit.Bits{}, payload...), crcBits...)
	if !Check(block) {
		t.Fatalf("Check failed on a correctly appended CRC")
	}

	block[0].Flip()
	if Check(block) {
		t.Fatalf("Check passed on a corrupted block")
	}
}

func TestCheckTooShort(t *testing.T) {
	if Check(bit.Bits{0, 1}) {
		t.Fatalf("Check passed on a block shorter than the CRC field")
	}
}
