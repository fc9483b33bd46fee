package tetra

import "testing"

func TestIncrementTnMonotonicity(t *testing.T) {
	tm := NewTime()
	for i := 0; i < 4*18*60; i++ {
		tm.IncrementTn()
	}
	if tm != NewTime() {
		t.Fatalf("after a full 4*18*60 increments, time = %+v, want epoch", tm)
	}
}

func TestIncrementTnWraparound(t *testing.T) {
	tm := Time{Tn: 4, Fn: 18, Mn: 60}
	tm.IncrementTn()
	want := Time{Tn: 1, Fn: 1, Mn: 1}
	if tm != want {
		t.Fatalf("IncrementTn from (4,18,60) = %+v, want %+v", tm, want)
	}

	tm = Time{Tn: 4, Fn: 1, Mn: 1}
	tm.IncrementTn()
	want = Time{Tn: 1, Fn: 2, Mn: 1}
	if tm != want {
		t.Fatalf("IncrementTn from (4,1,1) = %+v, want %+v", tm, want)
	}
}
