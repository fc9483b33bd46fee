// Package macdefrag implements the single-slot MAC fragment reassembler:
// a MAC-RESOURCE with the "start of fragmenting" length sentinel opens a
// reassembly keyed by the current MAC address, MAC-FRAG PDUs append to it,
// and a MAC-END closes it and yields the reassembled TM-SDU
// (EN 300 392-2 §23.4.3, original_source/mac/macdefrag.cc).
package macdefrag

import (
	"github.com/op/go-logging"

	tetra "github.com/tetra-rx/tetra-kit"
	"github.com/tetra-rx/tetra-kit/pdu"
)

var log = logging.MustGetLogger("tetra/macdefrag")

// State holds the one active reassembly the decoder tracks at a time.
type State struct {
	address       tetra.MacAddress
	startTime     tetra.Time
	buffer        pdu.PDU
	fragmentCount int
	stopped       bool
}

// New returns a defragmenter with no active reassembly.
func New() *State {
	return &State{stopped: true}
}

// Start opens a reassembly keyed by address, at time t. A prior incomplete
// reassembly is abandoned and logged, matching macdefrag.cc's behavior of
// reporting the fragment count recovered for the abandoned SSI before
// resetting.
func (s *State) Start(address tetra.MacAddress, t tetra.Time) {
	if s.buffer.Size() > 0 {
		log.Debugf("defrag failed: %d fragments received for SSI %d, %d bits recovered",
			s.fragmentCount, s.address.SSI, s.buffer.Size())
	}

	s.address = address
	s.startTime = t
	s.fragmentCount = 0
	s.buffer = pdu.PDU{}
	s.stopped = false

	log.Debugf("defrag start: SSI=%d TN/FN/MN=%d/%d/%d", address.SSI, t.Tn, t.Fn, t.Mn)
}

// Append adds a fragment to the active reassembly. If the reassembly is
// stopped, or address's SSI does not match the one Start was called with,
// the append fails: a mismatched SSI stops the reassembly outright.
func (s *State) Append(sdu pdu.PDU, address tetra.MacAddress) {
	if s.stopped {
		log.Debugf("defrag append failed: SSI=%d, no active reassembly", address.SSI)
		return
	}
	if address.SSI != s.address.SSI {
		log.Debugf("defrag append failed: SSI=%d while reassembly SSI=%d", address.SSI, s.address.SSI)
		s.Stop()
		return
	}

	s.buffer = s.buffer.Append(sdu)
	s.fragmentCount++
	log.Debugf("defrag append: SSI=%d fragment=%d length=%d", s.address.SSI, s.fragmentCount, s.buffer.Size())
}

// GetSDU returns the accumulated reassembly together with the encryption
// mode and usage marker carried by the closing address (typically the
// MAC-END's), or ok=false if the reassembly is stopped. The closing
// address's encryption mode always wins over any observed during
// intermediate fragments (see DESIGN.md).
func (s *State) GetSDU(closing tetra.MacAddress) (sdu pdu.PDU, encryptionMode, usageMarker uint8, ok bool) {
	if s.stopped {
		log.Debugf("defrag end failed: SSI=%d fragment=%d", s.address.SSI, s.fragmentCount)
		return pdu.PDU{}, 0, 0, false
	}
	return s.buffer, closing.EncryptionMode, closing.UsageMarker, true
}

// Stop clears the reassembly buffer and marks the defragmenter idle.
func (s *State) Stop() {
	s.stopped = true
	s.fragmentCount = 0
	s.buffer = pdu.PDU{}
}

// Active reports whether a reassembly is currently in progress.
func (s *State) Active() bool {
	return !s.stopped
}
