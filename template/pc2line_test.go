package template

import "testing"

func TestEncodeDecodePC2LineRoundTrips(t *testing.T) {
	lines := []int{1, 1, 1, 2, 2, 3}
	buf := EncodePC2Line(lines)
	entries := DecodePC2Line(buf)

	want := []PC2LineEntry{{PC: 0, Line: 1}, {PC: 3, Line: 2}, {PC: 5, Line: 3}}
	if len(entries) != len(want) {
		t.Fatalf("expected %d entries, got %d: %+v", len(want), len(entries), entries)
	}
	for i, e := range entries {
		if e != want[i] {
			t.Fatalf("entry %d: expected %+v, got %+v", i, want[i], e)
		}
	}
}

func TestLineForPCUsesPrecedingEntry(t *testing.T) {
	buf := EncodePC2Line([]int{5, 5, 6, 6, 6, 9})
	cases := map[int]int{0: 5, 1: 5, 2: 6, 4: 6, 5: 9, 100: 9}
	for pc, want := range cases {
		if got := LineForPC(buf, pc); got != want {
			t.Fatalf("LineForPC(%d): expected %d, got %d", pc, want, got)
		}
	}
}
