package bit

import "testing"

func TestBit(t *testing.T) {
	var tests = []struct {
		Test []byte
		Want Bits
	}{
		{
			[]byte{0x2a},
			Bits{0, 0, 1, 0, 1, 0, 1, 0},
		},
		{
			[]byte{0xbe, 0xef},
			Bits{1, 0, 1, 1, 1, 1, 1, 0, 1, 1, 1, 0, 1, 1, 1, 1},
		},
	}

	for _, test := range tests {
		got := NewBits(test.Test)
		if len(got) != len(test.Want) {
			t.Fatalf("expected length %d, got %d [%s]", len(test.Want), len(got), got.String())
		}
		for i, b := range got {
			if b != test.Want[i] {
				t.Fatalf("bit %d is off: %v != %v", i, got, test.Want)
			}
		}
	}
}

func TestHammingDistance(t *testing.T) {
	var tests = []struct {
		A, B Bits
		Want int
	}{
		{Bits{0, 0, 1, 1}, Bits{0, 0, 1, 1}, 0},
		{Bits{0, 0, 1, 1}, Bits{1, 0, 1, 0}, 2},
		{Bits{1, 1}, Bits{1, 1, 1}, 1},
	}

	for _, test := range tests {
		if got := HammingDistance(test.A, test.B); got != test.Want {
			t.Fatalf("HammingDistance(%s, %s) = %d, want %d", test.A.String(), test.B.String(), got, test.Want)
		}
	}
}
