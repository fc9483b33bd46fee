package uppermac

import (
	tetra "github.com/tetra-rx/tetra-kit"
	"github.com/tetra-rx/tetra-kit/pdu"
)

// processResource dissects a downlink MAC-RESOURCE PDU (EN 300 392-2
// §21.4.3.1 table 21.55, mac.cc:pduProcessResource). It returns the TM-SDU
// (empty for a NULL PDU or while starting a fragment reassembly), the
// PDU's total size within the MAC frame (-1 for NULL PDUs), and whether
// this PDU opened a new fragment reassembly.
//
// A NULL PDU (address type 0b000) instructs the MS to discard everything
// after the address-type field, so dissection stops there; since fill-bit
// stripping only ever removes trailing bits, reading the address type in
// its natural sequential position gives the same answer as the source's
// fixed-offset pre-check at bit 13.
func processResource(ctx *Context, p pdu.PDU) (sdu pdu.PDU, pduSizeInMac int, fragmented bool) {
	c := newCursor(p)
	c.skip(2) // PDU type
	fillBitFlag := c.read(1)
	if !c.ok {
		return pdu.PDU{}, -1, false
	}
	if fillBitFlag == 1 {
		c.p = removeFillBits(c.p)
	}

	c.skip(1) // position of grant
	encMode := uint8(c.read(2))
	c.skip(1) // random access flag
	length := uint8(c.read(6))
	addrType := tetra.AddressType(c.read(3))
	if !c.ok {
		return pdu.PDU{}, -1, false
	}

	if addrType == tetra.AddressNone {
		return pdu.PDU{}, -1, false
	}

	ctx.MacAddress.EncryptionMode = encMode
	ctx.MacAddress.Type = addrType

	switch length {
	case lenSecondHalfStolen:
		if ctx.SecondSlotStolen != nil {
			*ctx.SecondSlotStolen = true
		}
	case lenStartFragment:
		fragmented = true
		if ctx.SecondSlotStolen != nil {
			*ctx.SecondSlotStolen = false
		}
	}

	switch addrType {
	case tetra.AddressSSI:
		ctx.MacAddress.SSI = uint32(c.read(24))
	case tetra.AddressEventLabel:
		ctx.MacAddress.EventLabel = uint16(c.read(10))
	case tetra.AddressUSSI:
		ctx.MacAddress.USSI = uint32(c.read(24))
	case tetra.AddressSMI:
		ctx.MacAddress.SMI = uint32(c.read(24))
	case tetra.AddressSSIEventLabel:
		ctx.MacAddress.SSI = uint32(c.read(24))
		ctx.MacAddress.EventLabel = uint16(c.read(10))
	case tetra.AddressSSIUsageMarker:
		ctx.MacAddress.SSI = uint32(c.read(24))
		ctx.MacAddress.UsageMarker = uint8(c.read(6))
		if ctx.EncTable != nil {
			ctx.EncTable.Set(ctx.MacAddress.UsageMarker, ctx.MacAddress.EncryptionMode)
		}
	case tetra.AddressSMIEventLabel:
		ctx.MacAddress.SMI = uint32(c.read(24))
		ctx.MacAddress.EventLabel = uint16(c.read(10))
	}

	if c.read(1) == 1 { // power control flag
		c.skip(4)
	}
	if c.read(1) == 1 { // slot granting flag
		c.skip(8)
	}
	if c.read(1) == 1 { // channel allocation flag
		channelAllocation(c, ctx.Time.Fn)
	}
	if !c.ok {
		return pdu.PDU{}, -1, false
	}

	pos := c.pos
	decoded := int(decodeLength(length))

	if !fragmented {
		pduSizeInMac = decoded * 8
	}
	sduLength := decoded*8 - pos

	if sduLength > 0 {
		if fragmented {
			ctx.Defrag.Start(*ctx.MacAddress, *ctx.Time)
			if frag, err := c.p.SubFrom(pos); err == nil {
				ctx.Defrag.Append(frag, *ctx.MacAddress)
			}
		} else if extracted, err := c.p.Extract(pos, sduLength); err == nil {
			sdu = extracted
		}
	}

	return sdu, pduSizeInMac, fragmented
}
