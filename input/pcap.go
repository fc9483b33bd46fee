package input

import (
	"fmt"
	"io"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcap"

	"github.com/tetra-rx/tetra-kit/bit"
)

// PCAPReader replays a hard-bit stream from a pcap capture file, a direct
// port of the teacher's PCAPProtocol.Run loop (cmd/dmrstream/main.go):
// open offline, decode each Ethernet frame, and hand its application
// payload onward — there "forward raw DMR homebrew frames" to a
// homebrew.StreamFunc, here "replay the UDP payload's hard-bit stream"
// through the same RawReader unpacking the live socket path uses.
type PCAPReader struct {
	handle  *pcap.Handle
	packets chan gopacket.Packet
	packed  bool

	pending []byte // unread application-layer bytes of the current packet
	cur     byte   // packed-mode bit cursor into pending[0]
	left    int    // bits remaining in cur
}

// NewPCAPReader opens filename for offline replay. packed selects the
// same LSB-first packed/unpacked interpretation RawReader uses for the
// bytes found in each packet's UDP payload.
func NewPCAPReader(filename string, packed bool) (*PCAPReader, error) {
	handle, err := pcap.OpenOffline(filename)
	if err != nil {
		return nil, fmt.Errorf("input: opening pcap %q: %w", filename, err)
	}
	dec := gopacket.DecodersByLayerName["Ethernet"]
	source := gopacket.NewPacketSource(handle, dec)
	return &PCAPReader{handle: handle, packets: source.Packets(), packed: packed}, nil
}

// Close releases the underlying capture handle.
func (p *PCAPReader) Close() error {
	p.handle.Close()
	return nil
}

func (p *PCAPReader) fill() error {
	if p.packed && p.left > 0 {
		return nil
	}
	for len(p.pending) == 0 {
		packet, ok := <-p.packets
		if !ok {
			return io.EOF
		}
		if udp, ok := packet.TransportLayer().(*layers.UDP); ok {
			p.pending = udp.Payload
		}
		if app := packet.ApplicationLayer(); len(p.pending) == 0 && app != nil {
			p.pending = app.Payload()
		}
	}
	return nil
}

// ReadSymbol returns the next hard bit out of the replayed capture,
// unpacking packet payload bytes the same way RawReader does.
func (p *PCAPReader) ReadSymbol() (bit.Bit, error) {
	if err := p.fill(); err != nil {
		return 0, err
	}
	if !p.packed {
		b := p.pending[0]
		p.pending = p.pending[1:]
		if b == 0 {
			return 0, nil
		}
		return 1, nil
	}

	if p.left == 0 {
		p.cur = p.pending[0]
		p.pending = p.pending[1:]
		p.left = 8
	}
	sym := bit.Bit(p.cur & 0x01)
	p.cur >>= 1
	p.left--
	return sym, nil
}
