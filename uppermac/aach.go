package uppermac

import (
	tetra "github.com/tetra-rx/tetra-kit"
	"github.com/tetra-rx/tetra-kit/pdu"
)

// processAACH dissects the Access Assignment Channel block, deciding the
// downlink usage (traffic vs. signalling) the rest of the burst's blocks
// are processed under (EN 300 392-2 §21.4.7, §23.3.1.1,
// mac.cc:pduProcessAach). It carries no TM-SDU.
func processAACH(ctx *Context, p pdu.PDU) {
	c := newCursor(p)
	header := c.read(2)
	field1 := c.read(6)
	c.skip(6) // field-2 (uplink access field), not used downlink
	if !c.ok {
		return
	}

	ctx.MacState.DownlinkUsageMarker = 0

	switch {
	case ctx.Time.Fn == 18:
		// Frame 18 is reserved for control signalling (§23.3.1.3),
		// regardless of what AACH itself says.
		ctx.MacState.DownlinkUsage = tetra.UsageCommonControl

	case header == 0b00:
		ctx.MacState.DownlinkUsage = tetra.UsageCommonControl

	default:
		switch field1 {
		case 0b000000:
			ctx.MacState.DownlinkUsage = tetra.UsageUnallocated
		case 0b000001:
			ctx.MacState.DownlinkUsage = tetra.UsageAssignedControl
		case 0b000010:
			ctx.MacState.DownlinkUsage = tetra.UsageCommonControl
		case 0b000011:
			ctx.MacState.DownlinkUsage = tetra.UsageReserved
		default:
			ctx.MacState.DownlinkUsage = tetra.UsageTraffic
			ctx.MacState.DownlinkUsageMarker = uint8(field1)
		}
	}

	ctx.MacState.LogicalChannel = tetra.ChannelAACH
}
