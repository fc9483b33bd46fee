// Package uppermac dissects lower-MAC logical-channel blocks into MAC
// PDUs, updates the decoder's shared MAC/cell/time state, drives the
// MAC-RESOURCE dissociation loop and hands reassembled/whole TM-SDUs to a
// sink.Report slice for delivery to the upper layers (EN 300 392-2 §21.4,
// §23.4, original_source/mac/mac.cc:serviceUpperMac).
package uppermac

import (
	"github.com/op/go-logging"

	tetra "github.com/tetra-rx/tetra-kit"
	"github.com/tetra-rx/tetra-kit/cell"
	"github.com/tetra-rx/tetra-kit/macdefrag"
	"github.com/tetra-rx/tetra-kit/pdu"
	"github.com/tetra-rx/tetra-kit/sink"
)

var log = logging.MustGetLogger("tetra/uppermac")

// minRemainingBits is the minimum number of bits that must remain in a
// burst's PDU for another MAC-RESOURCE to be worth dissociating; a shorter
// remainder is treated as fill and not dissected (mac.cc's
// MIN_MAC_RESOURCE_SIZE).
const minRemainingBits = 40

// maxDissociation bounds the number of PDUs dissociated out of a single
// burst, guarding against a malformed or malicious length chain.
const maxDissociation = 32

// Context carries the decoder's shared, exclusively-owned mutable state
// that upper-MAC dissection reads and updates in place: the cell identity,
// the TDMA time, the AACH-derived MAC state, the most recently addressed
// MAC address, the per-usage-marker encryption table, the fragment
// reassembler, and the cross-burst "second half slot stolen" flag that
// MAC-RESOURCE sets for the lower MAC to consult on a later burst.
type Context struct {
	Cell             *cell.State
	Time             *tetra.Time
	MacState         *tetra.MacState
	MacAddress       *tetra.MacAddress
	EncTable         *tetra.EncryptionTable
	Defrag           *macdefrag.State
	SecondSlotStolen *bool

	// KeepFillBits disables fill-bit stripping, mirroring the decoder's
	// -f CLI flag.
	KeepFillBits bool
}

// cursor is a bounds-checked sequential bit reader over a PDU: once a read
// goes out of range, ok latches false and every further read returns 0,
// letting dissection code read a whole PDU's fields without an error
// check after every single one (the same shape as the teacher's
// dataheader.go offset-walking parsers).
type cursor struct {
	p   pdu.PDU
	pos int
	ok  bool
}

func newCursor(p pdu.PDU) *cursor {
	return &cursor{p: p, ok: true}
}

func (c *cursor) read(n int) uint64 {
	if !c.ok {
		return 0
	}
	v, err := c.p.GetValue(c.pos, n)
	if err != nil {
		c.ok = false
		return 0
	}
	c.pos += n
	return v
}

func (c *cursor) skip(n int) {
	c.read(n)
}

// decodeLength decodes the 6-bit MAC-RESOURCE/MAC-END length indication
// per EN 300 392-2 table 21.55 (mac.cc:decodeLength). Y2 and Z2 are both 1
// for pi/4-DQPSK, the only modulation this decoder supports. The two
// sentinel values (second-half-slot-stolen, start-of-fragment) decode to
// themselves.
func decodeLength(val uint8) uint32 {
	const y2, z2 = 1, 1
	switch {
	case val == 0b000000 || val == 0b111011 || val == 0b111100:
		return 0
	case val <= 0b010010:
		return uint32(val) * y2
	case val <= 0b111010:
		return 18*y2 + uint32(val-18)*z2
	case val == 0b111101: // QAM only, not supported
		return 0
	case val == lenSecondHalfStolen, val == lenStartFragment:
		return uint32(val)
	default:
		return 0
	}
}

const (
	lenSecondHalfStolen = 0b111110
	lenStartFragment    = 0b111111
)

// removeFillBits strips the trailing fill pattern added to octet-align a
// PDU (EN 300 392-2 §23.4.3.2): content is followed by a single "1" flag
// bit and then zero padding out to the octet boundary. Scanning from the
// end, a final "1" is the flag bit with no padding; a final "0" is padding
// to be dropped along with the flag bit underneath it.
func removeFillBits(p pdu.PDU) pdu.PDU {
	bits := p.Bits()
	n := len(bits)
	if n == 0 {
		return p
	}
	if bits[n-1] != 0 {
		return p.Resize(n - 1)
	}
	i := n - 1
	for i >= 0 && bits[i] == 0 {
		i--
	}
	if i < 0 {
		return pdu.PDU{}
	}
	return p.Resize(i)
}

// Dissect dissects one logical-channel payload, updating ctx in place and
// returning the reports (TM-SDUs) to deliver to the upper layers, in
// emission order. On SCH/F, SCH/HD, STCH and BNCH it loops, dissociating
// chained MAC-RESOURCE PDUs, up to maxDissociation times
// (mac.cc:serviceUpperMac).
func Dissect(ctx *Context, data pdu.PDU, channel tetra.LogicalChannel) []sink.Report {
	ctx.MacState.LogicalChannel = channel

	var reports []sink.Report
	p := data
	count := 0

	for {
		var tmSdu pdu.PDU
		sendToSink := true
		dissociate := false
		pduSizeInMac := 0

		switch channel {
		case tetra.ChannelAACH:
			processAACH(ctx, p)
			sendToSink = false

		case tetra.ChannelBSCH:
			tmSdu = processBSCH(ctx, p)

		case tetra.ChannelSTCH, tetra.ChannelBNCH, tetra.ChannelSCHF, tetra.ChannelSCHHD:
			pduType, err := p.GetValue(0, 2)
			if err != nil {
				return reports
			}
			switch pduType {
			case 0b00:
				var fragmented bool
				tmSdu, pduSizeInMac, fragmented = processResource(ctx, p)
				if fragmented {
					sendToSink = false
				} else if pduSizeInMac > 0 {
					dissociate = true
				}

			case 0b01:
				subType, err := p.GetValue(2, 1)
				if err != nil {
					return reports
				}
				if subType == 0 {
					processMacFrag(ctx, p)
					sendToSink = false
				} else {
					tmSdu = processMacEnd(ctx, p)
				}

			case 0b10:
				broadcastType, err := p.GetValue(2, 2)
				if err != nil {
					return reports
				}
				switch broadcastType {
				case 0b00:
					tmSdu, pduSizeInMac = processSysinfo(ctx, p)
				case 0b01:
					pduSizeInMac = processAccessDefine(p)
					sendToSink = false
				default:
					sendToSink = false
				}

			case 0b11:
				if channel != tetra.ChannelSTCH && channel != tetra.ChannelSCHHD {
					tmSdu, pduSizeInMac = processDBlock(ctx, p)
				} else {
					log.Debugf("MAC-D-BLCK received on %s, dropping", channel)
					sendToSink = false
				}
			}

		default:
			sendToSink = false
		}

		count++

		if tmSdu.Size() > 0 && sendToSink {
			bits := tmSdu.Bits()
			reports = append(reports, sink.Report{
				Channel: channel,
				Time:    *ctx.Time,
				Addr:    *ctx.MacAddress,
				TMSDU:   bits.Bytes(),
				Bits:    tmSdu.Size(),
			})
		}

		if p.Size()-pduSizeInMac < minRemainingBits {
			break
		}
		if dissociate {
			next, err := p.SubFrom(pduSizeInMac)
			if err != nil {
				break
			}
			p = next
		}

		if !(sendToSink && dissociate && count < maxDissociation) {
			break
		}
	}

	if count >= maxDissociation {
		log.Debug("dissociation cap reached, dropping remainder of burst")
	}

	return reports
}
