package tetra

// Time is the TDMA time counter: a time slot (tn, 1..4) within a frame
// (fn, 1..18) within a multiframe (mn, 1..60), EN 300 392-2 §21.3. It is
// created once per decoder instance and mutated only by IncrementTn on
// each processed burst, and by a BSCH decode snapping it to the network's
// broadcast time.
type Time struct {
	Tn uint8
	Fn uint8
	Mn uint8
}

// NewTime returns the TDMA time at its epoch, (1, 1, 1).
func NewTime() Time {
	return Time{Tn: 1, Fn: 1, Mn: 1}
}

// IncrementTn advances the time slot by one, wrapping tn 4->1 into fn,
// fn 18->1 into mn, and mn 60->1.
func (t *Time) IncrementTn() {
	t.Tn++
	if t.Tn > 4 {
		t.Tn = 1
		t.Fn++
		if t.Fn > 18 {
			t.Fn = 1
			t.Mn++
			if t.Mn > 60 {
				t.Mn = 1
			}
		}
	}
}

// Set snaps the time counter to an absolute (tn, fn, mn), as decoded from
// a BSCH SYNC PDU.
func (t *Time) Set(tn, fn, mn uint8) {
	t.Tn = tn
	t.Fn = fn
	t.Mn = mn
}
