package uppermac

import (
	"github.com/tetra-rx/tetra-kit/pdu"
)

// bschMinSize is the shortest BSCH PDU dissection can work with
// (mac.cc:pduProcessSync's MIN_SIZE).
const bschMinSize = 60

// processBSCH dissects the SYNC PDU carried on BSCH: it snaps the TDMA
// time to the broadcast value, derives the cell's new scrambling code from
// (MCC, MNC, colour code) so it takes effect before the burst's other
// blocks are descrambled, and returns the 29-bit MLE SYNC TM-SDU
// (EN 300 392-2 §21.4.4.2 table 335, mac.cc:pduProcessSync).
//
// The original source comments that SB "seems to be sent only on FN=18";
// this decoder makes no such assumption and processes BSCH whenever the
// burst synchronizer reports an SB burst type, regardless of frame number.
func processBSCH(ctx *Context, p pdu.PDU) pdu.PDU {
	if p.Size() < bschMinSize {
		log.Debugf("BSCH PDU too short: %d bits, want >= %d", p.Size(), bschMinSize)
		return pdu.PDU{}
	}

	c := newCursor(p)
	c.skip(4) // system code
	colourCode := uint8(c.read(6))
	tn := uint8(c.read(2)) + 1
	fn := uint8(c.read(5))
	mn := uint8(c.read(6))
	c.skip(2) // sharing mode
	c.skip(3) // reserved frames
	c.skip(1) // U-plane DTX
	c.skip(1) // frame 18 extension
	c.skip(1) // reserved
	if !c.ok {
		return pdu.PDU{}
	}

	mcc, err := p.GetValue(31, 10)
	if err != nil {
		return pdu.PDU{}
	}
	mnc, err := p.GetValue(41, 14)
	if err != nil {
		return pdu.PDU{}
	}

	ctx.Time.Set(tn, fn, mn)
	ctx.Cell.UpdateFromBSCH(uint16(mcc), uint16(mnc), colourCode)

	sdu, err := p.Extract(c.pos, 29)
	if err != nil {
		return pdu.PDU{}
	}
	return sdu
}
