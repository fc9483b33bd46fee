package uppermac

import (
	"github.com/tetra-rx/tetra-kit/pdu"
)

// processAccessDefine consumes a MAC-ACCESS-DEFINE PDU and returns its size
// within the MAC frame in bits. The PDU carries no TM-SDU: it only
// reprograms the random access parameters the MS uses on the uplink, which
// this decoder, being receive-only, has no use for (EN 300 392-2 §21.4.5.1,
// mac.cc:pduProcessAccessDefine).
//
// The field immediately after the broadcast type is nominally a 2-bit
// "subtype" selector, but the source only ever advances its cursor by one
// bit afterwards; that is preserved here rather than corrected, since
// access parameters are otherwise discarded entirely and getting this
// field's width wrong has no observable effect beyond this function.
func processAccessDefine(p pdu.PDU) int {
	c := newCursor(p)
	c.skip(4) // MAC PDU type + broadcast type
	c.skip(2) // subtype
	c.skip(1)
	c.skip(4) // access parameter
	c.skip(4) // RXLEV_ACCESS_MIN (frequency change)
	c.skip(1) // SYSINFO default definition for access code A/1
	c.skip(3) // parameter defining basis

	if !c.ok {
		return 0
	}
	return c.pos
}
