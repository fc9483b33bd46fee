// Package cell holds the TETRA cell's identity and TDMA time, and derives
// the downlink scrambling code from (MCC, MNC, colour code), the way
// homebrew.RepeaterConfiguration holds a repeater's identity and frequency
// plan.
package cell

// defaultScramblingCode is the code a cell starts with before its first
// BSCH decode — the predefined "no cell-specific scrambling" value used to
// descramble the very first BSCH block (EN 300 392-2 §8.2.5.2).
const defaultScramblingCode uint32 = 3

// State holds the identity of the cell currently being received and its
// derived scrambling code. It is owned exclusively by the decoder. After
// the optional Seed, its identity and scrambling code change only on a
// successful BSCH decode, and DownlinkFreqHz only on a SYSINFO decode.
type State struct {
	MCC            uint16
	MNC            uint16
	ColourCode     uint8
	ScramblingCode uint32
	DownlinkFreqHz uint32
}

// New returns a State seeded with the default scrambling code, matching
// the decoder's behavior before the first BSCH block is seen.
func New() *State {
	return &State{ScramblingCode: defaultScramblingCode}
}

// deriveScramblingCode computes the cell's 32-bit extended scrambling code
// from its colour code, MCC and MNC: the high bits carry
// colour code, MCC and MNC, and the low bits are reserved as an extension
// field that is always zero for the downlink common scrambling sequence.
func deriveScramblingCode(colourCode uint8, mcc, mnc uint16) uint32 {
	const extension uint32 = 0
	return ((uint32(colourCode) << 30) | (uint32(mcc) << 20) | (uint32(mnc) << 6)) ^ extension
}

// UpdateFromBSCH applies a freshly decoded BSCH's (MCC, MNC, colour code)
// to the cell state, deriving and storing the new scrambling code. Apart from
// Seed, this is the only way ScramblingCode changes after construction.
func (s *State) UpdateFromBSCH(mcc, mnc uint16, colourCode uint8) {
	s.MCC = mcc
	s.MNC = mnc
	s.ColourCode = colourCode
	s.ScramblingCode = deriveScramblingCode(colourCode, mcc, mnc)
}

// SetDownlinkFrequency records the cell's downlink centre frequency, in Hz,
// as derived from a SYSINFO PDU's main carrier, frequency band and duplex
// offset (EN 300 392-2 §21.4.4.1).
func (s *State) SetDownlinkFrequency(hz uint32) {
	s.DownlinkFreqHz = hz
}
