// Package sink defines the upper-layer delivery contract the decoder core
// emits TM-SDUs through, grounded in the teacher's dmr.PacketFunc callback
// style, and provides the UDP/JSON implementation the CLI wires up
// (grounded in homebrew.Link.Send's fire-and-forget datagram send).
package sink

import (
	"encoding/json"
	"net"

	"github.com/op/go-logging"

	tetra "github.com/tetra-rx/tetra-kit"
)

var log = logging.MustGetLogger("tetra/sink")

// Report is one decoded tuple handed to the upper layers: a logical
// channel, the TM-SDU bits packed to bytes, the MAC address in force when
// it was produced, and the TETRA time of the burst it came from.
type Report struct {
	Channel tetra.LogicalChannel `json:"channel"`
	Time    tetra.Time           `json:"time"`
	Addr    tetra.MacAddress     `json:"address"`
	TMSDU   []byte               `json:"tm_sdu"`
	Bits    int                  `json:"tm_sdu_bits"`
}

// Func is the callback type the decoder core delivers reports through,
// matching dmr.PacketFunc's "one function, no interface" simplicity.
type Func func(Report)

// UDPJSONSink forwards each Report as a JSON object in its own UDP
// datagram, the same fire-and-forget send style as homebrew.Link.Send.
type UDPJSONSink struct {
	conn *net.UDPConn
}

// NewUDPJSONSink dials addr (host:port) and returns a sink ready to send.
func NewUDPJSONSink(addr string) (*UDPJSONSink, error) {
	raddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, err
	}
	conn, err := net.DialUDP("udp", nil, raddr)
	if err != nil {
		return nil, err
	}
	return &UDPJSONSink{conn: conn}, nil
}

// Send marshals r to JSON and writes it as a single datagram. Errors are
// logged, not returned: a dropped report is not fatal to the pipeline, the
// same "I/O on the output side never blocks decoding" stance the teacher
// takes with homebrew.Link.Send.
func (s *UDPJSONSink) Send(r Report) {
	data, err := json.Marshal(r)
	if err != nil {
		log.Errorf("marshal report: %v", err)
		return
	}
	if _, err := s.conn.Write(data); err != nil {
		log.Warningf("send report: %v", err)
	}
}

// Close releases the underlying socket.
func (s *UDPJSONSink) Close() error {
	return s.conn.Close()
}
