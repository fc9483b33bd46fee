// Package lowermac splits a synchronized 510-bit burst into its
// constituent blocks (BBK/BKN1/BKN2), descrambles and runs the FEC chain
// appropriate to each block, and hands back logical-channel-tagged PDUs
// for upper-MAC dissection (EN 300 392-2 §9.3, mac.cc:serviceLowerMac).
package lowermac

import (
	"github.com/op/go-logging"

	"github.com/tetra-rx/tetra-kit/bit"
	"github.com/tetra-rx/tetra-kit/crc16"
	"github.com/tetra-rx/tetra-kit/fec"
	"github.com/tetra-rx/tetra-kit/pdu"
	"github.com/tetra-rx/tetra-kit/sync"
	tetra "github.com/tetra-rx/tetra-kit"
)

var log = logging.MustGetLogger("tetra/lowermac")

// decodeBlock runs the common descramble -> deinterleave -> depuncture ->
// Viterbi -> CRC chain shared by BSCH, SCH/HD and SCH/F, returning the
// information bits with the trailing CRC stripped. ok is false on a CRC
// mismatch, in which case the block is dropped silently per the decoder's
// error taxonomy (FEC failure is not fatal).
func decodeBlock(raw bit.Bits, scramblingCode uint32, k, a, crcBits int) (bit.Bits, bool) {
	descrambled := fec.Descramble(raw, scramblingCode)
	deinterleaved, err := fec.Deinterleave(descrambled, k, a)
	if err != nil {
		log.Debugf("deinterleave failed: %v", err)
		return nil, false
	}
	depunctured, err := fec.Depuncture(deinterleaved, crcBits*4)
	if err != nil {
		log.Debugf("depuncture failed: %v", err)
		return nil, false
	}
	decoded, err := fec.Viterbi1_4Decode(depunctured)
	if err != nil {
		log.Debugf("viterbi failed: %v", err)
		return nil, false
	}
	if len(decoded) != crcBits {
		log.Debugf("decoded block length %d, want %d", len(decoded), crcBits)
		return nil, false
	}
	if !crc16.Check(decoded) {
		log.Debug("CRC-16-CCITT check failed, dropping block")
		return nil, false
	}
	return decoded[:len(decoded)-16], true
}

// bschDecodedBits, schHDDecodedBits and schFDecodedBits are the declared
// post-Viterbi, CRC-included bit counts for each FEC-protected block
// (EN 300 392-2 §9.3 table, CRC-16 over 76/140/284 respectively). Each
// decodeBlock call depunctures straight to crcBits*4 mother-code bits
// before Viterbi decoding, so these are also the exact lengths
// fec.Depuncture is asked to produce.
const (
	bschDecodedBits  = 76
	schHDDecodedBits = 140
	schFDecodedBits  = 284
)

// ExtractBSCH pulls BKN1 (offset 94, length 120) off a synchronization
// burst, descrambles it with the fixed BSCH key, and runs the (120,11)
// FEC chain, returning the BSCH information field.
func ExtractBSCH(burst bit.Bits) (pdu.PDU, bool) {
	raw := burst[94 : 94+120]
	info, ok := decodeBlock(raw, fec.BSCHScramblingCode, 120, 11, bschDecodedBits)
	if !ok {
		return pdu.PDU{}, false
	}
	return pdu.New(info), true
}

// ExtractAACH pulls the BBK carrying AACH off any burst type, descrambles
// it with the cell's scrambling code, and runs the Reed-Muller(30,14)
// check. NDB and NDB_SF carry BBK split across two ranges; SB carries it
// contiguously.
func ExtractAACH(burst bit.Bits, burstType sync.BurstType, scramblingCode uint32) (pdu.PDU, bool) {
	var raw bit.Bits
	switch burstType {
	case sync.SB:
		raw = burst[252 : 252+30]
	case sync.NDB, sync.NDBSF:
		raw = append(append(bit.Bits{}, burst[230:244]...), burst[266:282]...)
	default:
		return pdu.PDU{}, false
	}

	descrambled := fec.Descramble(raw, scramblingCode)
	data, ok := fec.ReedMuller30_14Decode(descrambled)
	if !ok {
		log.Debug("AACH Reed-Muller(30,14) check failed, dropping block")
		return pdu.PDU{}, false
	}
	return pdu.New(data), true
}

// Block is one logical-channel-tagged payload extracted from a burst,
// ready for upper-MAC dissection.
type Block struct {
	Channel tetra.LogicalChannel
	PDU     pdu.PDU
}

// PayloadParams carries the state ExtractPayload needs to classify and
// decode BKN1/BKN2, all of which must already reflect this burst's own
// AACH (and, on SB, BSCH) dissection — the lower MAC never decides
// traffic-vs-signalling mode itself.
type PayloadParams struct {
	ScramblingCode   uint32
	DownlinkUsage    tetra.DownlinkUsage
	Fn               uint8
	Mn               uint8
	Tn               uint8
	SecondSlotStolen bool
}

// ExtractPayload decodes BKN1/BKN2 (or the combined 432-bit TCH_S/SCH_F
// block on NDB) and returns them tagged with their logical channel, in
// burst order.
func ExtractPayload(burst bit.Bits, burstType sync.BurstType, p PayloadParams) []Block {
	switch burstType {
	case sync.NDB:
		return extractNDBPayload(burst, p)
	case sync.NDBSF:
		return extractNDBSFPayload(burst, p)
	case sync.SB:
		raw := burst[282 : 282+216]
		info, ok := decodeBlock(raw, p.ScramblingCode, 216, 101, schHDDecodedBits)
		if !ok {
			return nil
		}
		return []Block{{Channel: tetra.ChannelSCHHD, PDU: pdu.New(info)}}
	default:
		return nil
	}
}

func extractNDBPayload(burst bit.Bits, p PayloadParams) []Block {
	raw := append(append(bit.Bits{}, burst[14:230]...), burst[282:498]...)
	if p.DownlinkUsage == tetra.UsageTraffic && p.Fn <= 17 {
		return []Block{{Channel: tetra.ChannelTCHS, PDU: pdu.New(raw)}}
	}
	info, ok := decodeBlock(raw, p.ScramblingCode, 432, 103, schFDecodedBits)
	if !ok {
		return nil
	}
	return []Block{{Channel: tetra.ChannelSCHF, PDU: pdu.New(info)}}
}

func extractNDBSFPayload(burst bit.Bits, p PayloadParams) []Block {
	var blocks []Block

	bkn1 := burst[14 : 14+216]
	if info, ok := decodeBlock(bkn1, p.ScramblingCode, 216, 101, schHDDecodedBits); ok {
		ch := tetra.ChannelSCHHD
		if p.DownlinkUsage == tetra.UsageTraffic {
			ch = tetra.ChannelSTCH
		}
		blocks = append(blocks, Block{Channel: ch, PDU: pdu.New(info)})
	}

	bkn2 := burst[282 : 282+216]
	if p.DownlinkUsage == tetra.UsageTraffic {
		if !p.SecondSlotStolen {
			return blocks
		}
		if info, ok := decodeBlock(bkn2, p.ScramblingCode, 216, 101, schHDDecodedBits); ok {
			blocks = append(blocks, Block{Channel: tetra.ChannelSTCH, PDU: pdu.New(info)})
		}
		return blocks
	}

	info, ok := decodeBlock(bkn2, p.ScramblingCode, 216, 101, schHDDecodedBits)
	if !ok {
		return blocks
	}
	ch := tetra.ChannelSCHHD
	if p.Fn == 18 && (p.Mn+p.Tn)%4 == 1 {
		ch = tetra.ChannelBNCH
	}
	blocks = append(blocks, Block{Channel: ch, PDU: pdu.New(info)})
	return blocks
}
