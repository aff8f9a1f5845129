package trap

import (
	"unsafe"

	"testing"
)

func TestFrameSize(t *testing.T) {
	if got := unsafe.Sizeof(Frame{}); got != 256 {
		t.Fatalf("sizeof(Frame) = %d, want 256", got)
	}
}

func TestFrameDumpRoundTrip(t *testing.T) {
	f := &Frame{
		RA: 1, SP: 2, GP: 3, TP: 4,
		T0: 5, T1: 6, T2: 7,
		S0: 8, S1: 9,
		A0: 10, A1: 11, A2: 12, A3: 13, A4: 14, A5: 15, A6: 16, A7: 17,
		S2: 18, S3: 19, S4: 20, S5: 21, S6: 22, S7: 23, S8: 24, S9: 25, S10: 26, S11: 27,
		T3: 28, T4: 29, T5: 30, T6: 31,
		Sepc: 0xdead_beef,
	}

	seen := map[string]uint64{}
	f.Dump(func(name string, value uint64) { seen[name] = value })

	want := map[string]uint64{
		"ra": 1, "sp": 2, "gp": 3, "tp": 4,
		"t0": 5, "t1": 6, "t2": 7,
		"s0/fp": 8, "s1": 9,
		"a0": 10, "a1": 11, "a2": 12, "a3": 13, "a4": 14, "a5": 15, "a6": 16, "a7": 17,
		"s2": 18, "s3": 19, "s4": 20, "s5": 21, "s6": 22, "s7": 23, "s8": 24, "s9": 25, "s10": 26, "s11": 27,
		"t3": 28, "t4": 29, "t5": 30, "t6": 31,
		"sepc": 0xdead_beef,
	}
	for name, wantVal := range want {
		if seen[name] != wantVal {
			t.Errorf("register %s = %d, want %d", name, seen[name], wantVal)
		}
	}
}
