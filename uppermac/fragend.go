package uppermac

import (
	"github.com/tetra-rx/tetra-kit/pdu"
)

// processMacFrag appends a MAC-FRAG PDU's payload to the active fragment
// reassembly; it emits no TM-SDU of its own (EN 300 392-2 §21.4.3.2,
// mac.cc:pduProcessMacFrag).
func processMacFrag(ctx *Context, p pdu.PDU) {
	pos := 3 // PDU type + subtype
	fillBitFlag, err := p.GetValue(pos, 1)
	if err != nil {
		return
	}
	pos++

	pp := p
	if fillBitFlag == 1 {
		pp = removeFillBits(p)
	}

	frag, err := pp.SubFrom(pos)
	if err != nil {
		return
	}
	ctx.Defrag.Append(frag, *ctx.MacAddress)
}

// macEndLengthMin and macEndLengthMax bound MAC-END's length field to the
// valid, non-reserved range (mac.cc:pduProcessMacEnd).
const (
	macEndLengthMin = 0b000010
	macEndLengthMax = 0b100010
)

// processMacEnd appends the MAC-END's trailing payload to the active
// fragment reassembly and closes it, returning the reassembled TM-SDU. The
// SDU takes the encryption mode and usage marker of the MAC address in
// force when the MAC-END is dissected (MAC-END carries no encryption mode
// field of its own, and MAC-FRAG never changes the address), and that mode
// is recorded in the encryption table for the usage marker
// (EN 300 392-2 §21.4.3.3, mac.cc:pduProcessMacEnd).
func processMacEnd(ctx *Context, p pdu.PDU) pdu.PDU {
	pos := 3 // PDU type + subtype
	fillBitFlag, err := p.GetValue(pos, 1)
	if err != nil {
		return pdu.PDU{}
	}
	pos++

	pp := p
	if fillBitFlag == 1 {
		pp = removeFillBits(p)
	}

	pos++ // position of grant

	length, err := pp.GetValue(pos, 6)
	if err != nil {
		return pdu.PDU{}
	}
	pos += 6
	if length < macEndLengthMin || length > macEndLengthMax {
		return pdu.PDU{}
	}

	flag, err := pp.GetValue(pos, 1) // slot granting flag
	if err != nil {
		return pdu.PDU{}
	}
	pos++
	if flag == 1 {
		pos += 8
	}

	flag, err = pp.GetValue(pos, 1) // channel allocation flag
	if err != nil {
		return pdu.PDU{}
	}
	pos++
	if flag == 1 {
		c := &cursor{p: pp, pos: pos, ok: true}
		channelAllocation(c, ctx.Time.Fn)
		if !c.ok {
			return pdu.PDU{}
		}
		pos = c.pos
	}

	frag, err := pp.SubFrom(pos)
	if err != nil {
		return pdu.PDU{}
	}
	ctx.Defrag.Append(frag, *ctx.MacAddress)

	sdu, encMode, usageMarker, _ := ctx.Defrag.GetSDU(*ctx.MacAddress)
	if sdu.Size() > 0 {
		if ctx.EncTable != nil {
			ctx.EncTable.Set(usageMarker, encMode)
		}
		ctx.MacAddress.EncryptionMode = encMode
	}
	ctx.Defrag.Stop()

	return sdu
}
