// Package sync implements the downlink burst synchronizer: matching
// training sequences in a 510-bit sliding window, deciding burst type, and
// tracking a sync-lock state with a grace window across transient fades
// (EN 300 392-2 §9.4.4.3).
package sync

import (
	"github.com/op/go-logging"

	"github.com/tetra-rx/tetra-kit/bit"
)

var log = logging.MustGetLogger("tetra/sync")

// FrameLen is the fixed burst length in bits.
const FrameLen = 510

// Training sequences, EN 300 392-2 §9.4.4.3.2 and §9.4.4.3.4.
var (
	normalTrainingSeq1      = bit.Bits{1, 1, 0, 1, 0, 0, 0, 0, 1, 1, 1, 0, 1, 0, 0, 1, 1, 1, 0, 1, 0, 0}
	normalTrainingSeq2      = bit.Bits{0, 1, 1, 1, 1, 0, 1, 0, 0, 1, 0, 0, 0, 0, 1, 1, 0, 1, 1, 1, 1, 0}
	normalTrainingSeq3Begin = bit.Bits{0, 0, 0, 1, 1, 0, 1, 0, 1, 1, 0, 1}
	normalTrainingSeq3End   = bit.Bits{1, 0, 1, 1, 0, 1, 1, 1, 0, 0}
	syncTrainingSeq         = bit.Bits{
		1, 1, 0, 0, 0, 0, 0, 1, 1, 0, 0, 1, 1, 1, 0, 0, 1, 1, 1, 0, 1, 0,
		0, 1, 1, 1, 0, 0, 0, 0, 0, 1, 1, 0, 0, 1, 1, 1,
	}
)

// BurstType tags the three downlink burst shapes the synchronizer can
// recognize.
type BurstType int

const (
	SB BurstType = iota
	NDB
	NDBSF
)

func (t BurstType) String() string {
	switch t {
	case SB:
		return "SB"
	case NDB:
		return "NDB"
	case NDBSF:
		return "NDB_SF"
	default:
		return "unknown"
	}
}

// acceptScoreMax is the maximum Hamming distance, across SYNC/N1/N2 at
// their expected offsets, for a burst to be accepted for lower MAC
// processing (decoder.cc:processFrame).
const acceptScoreMax = 5

// graceFrames is how many consecutive bursts a lock survives without a
// fresh training-sequence match (decoder.cc:resetSynchronizer).
const graceFrames = 50

// Synchronizer recovers 510-bit burst boundaries from a continuous hard
// bit stream.
type Synchronizer struct {
	buffer         bit.Bits
	synchronized   bool
	graceRemaining int
}

// New returns an unsynchronized Synchronizer with an empty window.
func New() *Synchronizer {
	return &Synchronizer{}
}

// Result carries a recognized burst and its type back to the caller.
type Result struct {
	Burst bit.Bits
	Type  BurstType
}

// RxSymbol appends one hard bit to the sliding window. It returns
// (burst, true) when a 510-bit boundary has just been reached — either by
// a fresh training-sequence match at positions (0, 500), or by the
// sync-lock grace window ticking over — and false otherwise. A returned
// boundary does not by itself mean the burst is usable: ProcessBurst
// still has to accept it (decoder.cc's rxSymbol/processFrame split).
func (s *Synchronizer) RxSymbol(b bit.Bit) (bit.Bits, bool) {
	s.buffer = append(s.buffer, b)
	if len(s.buffer) < FrameLen {
		return nil, false
	}

	scoreBegin := bit.HammingDistance(s.buffer[0:12], normalTrainingSeq3Begin)
	scoreEnd := bit.HammingDistance(s.buffer[500:510], normalTrainingSeq3End)
	matched := scoreBegin == 0 && scoreEnd < 2

	if matched {
		s.synchronized = true
		s.graceRemaining = graceFrames
	}

	boundary := matched
	if !matched && s.synchronized && s.graceRemaining > 0 {
		boundary = true
		s.graceRemaining--
		if s.graceRemaining == 0 {
			log.Debug("synchronization lost")
			s.synchronized = false
		}
	}

	var burst bit.Bits
	if boundary {
		burst = make(bit.Bits, len(s.buffer))
		copy(burst, s.buffer)
		s.buffer = s.buffer[:0]
	}

	if !boundary && len(s.buffer) == FrameLen {
		// The window stayed full without reaching a boundary; slide it
		// by one bit (decoder.cc's m_frame.erase(m_frame.begin())).
		s.buffer = append(bit.Bits{}, s.buffer[1:]...)
	}

	return burst, boundary
}

// ProcessBurst scores SYNC, N1 and N2 at their fixed offsets in a
// boundary-reached burst and accepts the minimum-distance hypothesis if
// it is within acceptScoreMax, returning the recognized burst type
// (decoder.cc:processFrame). ok is false when the burst matches none of
// the three training sequences well enough to be serviced.
func ProcessBurst(burst bit.Bits) (Result, bool) {
	scoreSync := bit.HammingDistance(burst[214:214+len(syncTrainingSeq)], syncTrainingSeq)
	scoreN1 := bit.HammingDistance(burst[244:244+len(normalTrainingSeq1)], normalTrainingSeq1)
	scoreN2 := bit.HammingDistance(burst[244:244+len(normalTrainingSeq2)], normalTrainingSeq2)

	scoreMin := scoreSync
	burstType := SB
	if scoreN1 < scoreMin {
		scoreMin = scoreN1
		burstType = NDB
	}
	if scoreN2 < scoreMin {
		scoreMin = scoreN2
		burstType = NDBSF
	}

	if scoreMin > acceptScoreMax {
		return Result{}, false
	}
	return Result{Burst: burst, Type: burstType}, true
}

// Synchronized reports whether the synchronizer currently holds lock.
func (s *Synchronizer) Synchronized() bool {
	return s.synchronized
}
