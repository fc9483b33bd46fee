package uppermac

import (
	"github.com/tetra-rx/tetra-kit/pdu"
)

// sysinfoMinSize is the shortest SYSINFO PDU dissection will attempt
// (mac.cc:pduProcessSysinfo's MIN_SIZE).
const sysinfoMinSize = 82

// duplexOffsetHz maps SYSINFO's 2-bit offset field to a frequency offset
// in Hz, EN 300 392-2 §21.4.4.1.
var duplexOffsetHz = [4]int64{0, 6250, -6250, 12500}

// processSysinfo dissects a broadcast SYSINFO PDU, computing and storing
// the cell's downlink centre frequency and returning the 42-bit MLE
// SYSINFO TM-SDU together with the PDU's total size in the MAC frame
// (EN 300 392-2 §21.4.4.1 table 333, mac.cc:pduProcessSysinfo).
func processSysinfo(ctx *Context, p pdu.PDU) (pdu.PDU, int) {
	if p.Size() < sysinfoMinSize {
		log.Debugf("SYSINFO PDU too short: %d bits, want >= %d", p.Size(), sysinfoMinSize)
		return pdu.PDU{}, 0
	}

	c := newCursor(p)
	c.skip(4) // MAC PDU type + broadcast type, already dispatched on
	mainCarrier := c.read(12)
	band := c.read(4)
	offset := c.read(2)
	c.skip(3) // duplex spacing
	c.skip(1) // reverse operation
	c.skip(2) // number of common secondary control channels in use
	c.skip(3) // MS_TXPWR_MAX_CELL
	c.skip(4) // RXLEV_ACCESS_MIN
	c.skip(4) // ACCESS_PARAMETER
	c.skip(4) // RADIO_DOWNLINK_TIMEOUT
	c.skip(1) // hyperframe / cipher-key-identifier flag
	c.skip(16)
	c.skip(2)  // optional field flag
	c.skip(20) // option value, always present
	if !c.ok {
		return pdu.PDU{}, 0
	}

	freqHz := int64(band)*100_000_000 + int64(mainCarrier)*25_000 + duplexOffsetHz[offset]
	ctx.Cell.SetDownlinkFrequency(uint32(freqHz))

	sdu, err := p.Extract(c.pos, 42)
	if err != nil {
		log.Debugf("SYSINFO TM-SDU extract failed: %v", err)
		return pdu.PDU{}, c.pos + 42
	}
	return sdu, c.pos + 42
}
