package uppermac

import (
	"github.com/tetra-rx/tetra-kit/pdu"
)

// dblockMinSize is the implicit minimum size of a MAC-D-BLCK PDU: an
// 18-bit header plus a 250-bit SDU (EN 300 392-2 tables 21.62/21.63,
// mac.cc:pduProcessDBlock's MIN_SIZE).
const dblockMinSize = 268

// processDBlock dissects a supplementary MAC-D-BLCK PDU, carried only on
// SCH/F and BNCH, and returns its TM-SDU together with its fixed size
// within the MAC frame (EN 300 392-2 §21.4.3.4, mac.cc:pduProcessDBlock).
func processDBlock(ctx *Context, p pdu.PDU) (pdu.PDU, int) {
	if p.Size() < dblockMinSize {
		log.Debugf("MAC-D-BLCK PDU too short: %d bits, want >= %d", p.Size(), dblockMinSize)
		return pdu.PDU{}, 0
	}

	c := newCursor(p)
	c.skip(3) // PDU type
	fillBitFlag := c.read(1)
	if !c.ok {
		return pdu.PDU{}, 0
	}
	if fillBitFlag == 1 {
		c.p = removeFillBits(c.p)
	}

	ctx.MacAddress.EncryptionMode = uint8(c.read(2))
	ctx.MacAddress.EventLabel = uint16(c.read(10))
	c.skip(1) // immediate napping permission flag
	if c.read(1) == 1 {
		c.skip(8) // basic slot granting element
	}
	if !c.ok {
		return pdu.PDU{}, 0
	}

	sdu, err := c.p.SubFrom(c.pos)
	if err != nil {
		return pdu.PDU{}, dblockMinSize
	}
	return sdu, dblockMinSize
}
