// Package wire implements the optional "-w" wire-capture emitter: a pcap
// writer that records one synthetic frame per emitted TM-SDU report, for
// inspection with pcap tools. The records hold dissected TM-SDUs, not the
// input hard-bit stream, so input.PCAPReader (which expects Ethernet frames
// carrying that stream) does not replay them through the decoder. It uses
// the same gopacket module the teacher's cmd/dmrstream already depends on
// for its own pcap replay.
package wire

import (
	"encoding/binary"
	"fmt"
	"os"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"

	tetra "github.com/tetra-rx/tetra-kit"
)

// Writer appends one pcap record per Write call, each record a fixed
// 8-byte header (logical channel, TDMA time, SDU length in bits rounded up
// to whole bytes, i.e. len(tmsdu)*8) followed by
// the raw TM-SDU bytes — enough to recover framing on replay without a
// full protocol stack.
type Writer struct {
	f *os.File
	w *pcapgo.Writer
}

// New creates (or truncates) filename and writes a pcap file header ready
// for LINKTYPE_RAW records: the payload carries no link or network
// header, just this package's own fixed record.
func New(filename string) (*Writer, error) {
	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("wire: creating %q: %w", filename, err)
	}
	w := pcapgo.NewWriter(f)
	if err := w.WriteFileHeader(65536, layers.LinkTypeRaw); err != nil {
		f.Close()
		return nil, fmt.Errorf("wire: writing pcap header: %w", err)
	}
	return &Writer{f: f, w: w}, nil
}

// Write records one dissected PDU as a single pcap frame.
func (w *Writer) Write(channel tetra.LogicalChannel, t tetra.Time, tmsdu []byte) error {
	buf := make([]byte, 8+len(tmsdu))
	buf[0] = byte(channel)
	buf[1] = t.Tn
	buf[2] = t.Fn
	buf[3] = t.Mn
	binary.BigEndian.PutUint32(buf[4:8], uint32(len(tmsdu)*8))
	copy(buf[8:], tmsdu)

	ci := gopacket.CaptureInfo{
		Timestamp:     time.Now(),
		CaptureLength: len(buf),
		Length:        len(buf),
	}
	return w.w.WritePacket(ci, buf)
}

// Close flushes and closes the underlying file.
func (w *Writer) Close() error {
	return w.f.Close()
}
