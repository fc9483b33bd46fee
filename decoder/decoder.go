// Package decoder drives the full downlink physical-to-MAC pipeline: it
// owns the synchronizer, the cell and TDMA-time state, the MAC state
// machine and the fragment reassembler, feeding hard bits in one at a
// time and producing TM-SDU reports for delivery to the upper layers
// (EN 300 392-2 §9, original_source/decoder.cc, mac.cc:serviceLowerMac,
// serviceUpperMac).
//
// It lives outside the root tetra package, rather than in it, because
// lowermac already imports tetra for its shared leaf types; an
// orchestrator that also imports lowermac cannot live in the package it
// depends on without an import cycle. The teacher's own dmr/repeater
// package sits the same way, one level below its root dmr package.
package decoder

import (
	"github.com/op/go-logging"

	tetra "github.com/tetra-rx/tetra-kit"
	"github.com/tetra-rx/tetra-kit/bit"
	"github.com/tetra-rx/tetra-kit/cell"
	"github.com/tetra-rx/tetra-kit/lowermac"
	"github.com/tetra-rx/tetra-kit/macdefrag"
	"github.com/tetra-rx/tetra-kit/pdu"
	"github.com/tetra-rx/tetra-kit/sink"
	"github.com/tetra-rx/tetra-kit/sync"
	"github.com/tetra-rx/tetra-kit/uppermac"
)

var log = logging.MustGetLogger("tetra/decoder")

// Decoder holds every piece of mutable state a downlink capture decodes
// against, single-threaded, one burst at a time.
type Decoder struct {
	sync *sync.Synchronizer

	cell             *cell.State
	time             tetra.Time
	macState         tetra.MacState
	macAddress       tetra.MacAddress
	encTable         tetra.EncryptionTable
	defrag           *macdefrag.State
	secondSlotStolen bool

	keepFillBits bool
}

// New returns a Decoder at its power-on state: default scrambling code,
// TDMA time at its epoch, no active fragment reassembly.
func New() *Decoder {
	return &Decoder{
		sync:   sync.New(),
		cell:   cell.New(),
		time:   tetra.NewTime(),
		defrag: macdefrag.New(),
	}
}

// KeepFillBits disables fill-bit stripping in upper-MAC dissection,
// mirroring the CLI's -f flag: useful for inspecting raw PDU framing.
func (d *Decoder) KeepFillBits(keep bool) {
	d.keepFillBits = keep
}

// SeedCell replaces the decoder's starting cell state, used by the CLI's
// -c flag to pre-load MCC/MNC/colour-code/frequency before the first BSCH
// decode updates them.
func (d *Decoder) SeedCell(c *cell.State) {
	d.cell = c
}

// Cell returns the decoder's current cell identity, useful for reporting
// tools that want to show what network a capture is locked onto.
func (d *Decoder) Cell() cell.State {
	return *d.cell
}

// Time returns the decoder's current TDMA time.
func (d *Decoder) Time() tetra.Time {
	return d.time
}

// RxSymbol feeds one hard-decided bit into the decoder and returns the
// TM-SDU reports, if any, produced by the burst it just completed. Most
// calls return nil: a burst only completes once every 510 bits.
func (d *Decoder) RxSymbol(b bit.Bit) []sink.Report {
	raw, boundary := d.sync.RxSymbol(b)
	if !boundary {
		return nil
	}
	return d.processBurst(raw)
}

func (d *Decoder) processBurst(raw bit.Bits) []sink.Report {
	result, ok := sync.ProcessBurst(raw)
	if !ok {
		log.Debug("burst rejected: no training sequence matched closely enough")
		return nil
	}

	d.time.IncrementTn()

	var reports []sink.Report

	if result.Type == sync.SB {
		if bsch, ok := lowermac.ExtractBSCH(result.Burst); ok {
			reports = append(reports, d.dissect(bsch, tetra.ChannelBSCH)...)
		}
	}

	aach, ok := lowermac.ExtractAACH(result.Burst, result.Type, d.cell.ScramblingCode)
	if !ok {
		log.Debug("AACH Reed-Muller check failed, dropping burst")
		return reports
	}
	d.dissect(aach, tetra.ChannelAACH) // AACH carries no TM-SDU, only state updates

	blocks := lowermac.ExtractPayload(result.Burst, result.Type, lowermac.PayloadParams{
		ScramblingCode:   d.cell.ScramblingCode,
		DownlinkUsage:    d.macState.DownlinkUsage,
		Fn:               d.time.Fn,
		Mn:               d.time.Mn,
		Tn:               d.time.Tn,
		SecondSlotStolen: d.secondSlotStolen,
	})

	for _, blk := range blocks {
		reports = append(reports, d.dissect(blk.PDU, blk.Channel)...)
	}
	return reports
}

func (d *Decoder) dissect(p pdu.PDU, channel tetra.LogicalChannel) []sink.Report {
	if p.Size() == 0 {
		return nil
	}
	ctx := &uppermac.Context{
		Cell:             d.cell,
		Time:             &d.time,
		MacState:         &d.macState,
		MacAddress:       &d.macAddress,
		EncTable:         &d.encTable,
		Defrag:           d.defrag,
		SecondSlotStolen: &d.secondSlotStolen,
		KeepFillBits:     d.keepFillBits,
	}
	return uppermac.Dissect(ctx, p, channel)
}
