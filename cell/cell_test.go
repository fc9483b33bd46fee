package cell

import "testing"

func TestNewUsesDefaultScramblingCode(t *testing.T) {
	s := New()
	if s.ScramblingCode != defaultScramblingCode {
		t.Fatalf("New().ScramblingCode = %d, want %d", s.ScramblingCode, defaultScramblingCode)
	}
}

func TestUpdateFromBSCHDerivesScramblingCode(t *testing.T) {
	s := New()
	s.UpdateFromBSCH(208, 1, 5)

	colourCode := uint32(5)
	want := (colourCode << 30) | (uint32(208) << 20) | (uint32(1) << 6)
	if s.ScramblingCode != want {
		t.Fatalf("ScramblingCode = %#x, want %#x", s.ScramblingCode, want)
	}
	if s.MCC != 208 || s.MNC != 1 || s.ColourCode != 5 {
		t.Fatalf("UpdateFromBSCH did not store (mcc, mnc, colour code): %+v", s)
	}
}
