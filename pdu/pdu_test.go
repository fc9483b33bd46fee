package pdu

import (
	"testing"

	"github.com/tetra-rx/tetra-kit/bit"
)

func TestGetValue(t *testing.T) {
	p := New(bit.Bits{1, 0, 1, 1, 0, 0, 1, 0})
	tests := []struct {
		Pos, N int
		Want   uint64
	}{
		{0, 4, 0b1011},
		{4, 4, 0b0010},
		{0, 8, 0b10110010},
		{2, 1, 1},
	}
	for _, test := range tests {
		got, err := p.GetValue(test.Pos, test.N)
		if err != nil {
			t.Fatalf("GetValue(%d, %d) returned error: %v", test.Pos, test.N, err)
		}
		if got != test.Want {
			t.Fatalf("GetValue(%d, %d) = %#x, want %#x", test.Pos, test.N, got, test.Want)
		}
	}
}

func TestGetValueOutOfRange(t *testing.T) {
	p := New(bit.Bits{1, 0, 1})
	if _, err := p.GetValue(1, 4); err == nil {
		t.Fatalf("expected an out of range error")
	}
}

func TestExtractAndAppend(t *testing.T) {
	p := New(bit.Bits{1, 1, 0, 0, 1, 1})
	head, err := p.Extract(0, 2)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	tail, err := p.Extract(4, 2)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	joined := head.Append(tail)
	if joined.String() != "1111" {
		t.Fatalf("Append = %s, want 1111", joined.String())
	}
}

func TestSubFromSharesBackingArray(t *testing.T) {
	p := New(bit.Bits{0, 0, 1, 1, 0, 1})
	tail, err := p.SubFrom(2)
	if err != nil {
		t.Fatalf("SubFrom: %v", err)
	}
	if tail.Size() != 4 || tail.String() != "1101" {
		t.Fatalf("SubFrom(2) = %s, want 1101", tail.String())
	}
	p.Bits()[2] = 0
	if tail.String() != "0101" {
		t.Fatalf("SubFrom(2) after writing the parent = %s, want 0101 (shared backing array)", tail.String())
	}
}

func TestResize(t *testing.T) {
	p := New(bit.Bits{1, 1, 1})
	if got := p.Resize(5).String(); got != "11100" {
		t.Fatalf("Resize(5) = %s, want 11100", got)
	}
	if got := p.Resize(2).String(); got != "11" {
		t.Fatalf("Resize(2) = %s, want 11", got)
	}
}
