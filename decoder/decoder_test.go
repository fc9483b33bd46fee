package decoder

import (
	"testing"

	"github.com/tetra-rx/tetra-kit/bit"
)

func TestNewDecoderStartsAtEpoch(t *testing.T) {
	d := New()
	tm := d.Time()
	if tm.Tn != 1 || tm.Fn != 1 || tm.Mn != 1 {
		t.Fatalf("Time = %+v, want (1,1,1)", tm)
	}
}

func TestRxSymbolProducesNoReportsOnNoise(t *testing.T) {
	d := New()
	var reports []int
	for i := 0; i < 2000; i++ {
		b := bit.Bit(i % 2)
		if r := d.RxSymbol(b); r != nil {
			reports = append(reports, len(r))
		}
	}
	if len(reports) != 0 {
		t.Fatalf("alternating 0/1 bit stream produced %d report batches, want 0", len(reports))
	}
}

func TestKeepFillBitsIsSettable(t *testing.T) {
	d := New()
	d.KeepFillBits(true)
	if !d.keepFillBits {
		t.Fatal("KeepFillBits(true) did not set the flag")
	}
}
