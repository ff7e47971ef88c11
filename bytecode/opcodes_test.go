package bytecode

import "testing"

func TestCallFlagBitsAreDisjoint(t *testing.T) {
	if EvalCall == TailCall {
		t.Fatal("EvalCall and TailCall must be distinct bits")
	}
	if EvalCall&TailCall != 0 {
		t.Fatal("EvalCall and TailCall must not overlap")
	}
}

func TestCallFlagsSurviveABC3RoundTrip(t *testing.T) {
	a := int(EvalCall | TailCall)
	word, err := EncodeABC3(CALL, a, Reg(2), Reg(3))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	d := Decode(word)
	if CallFlag(d.A)&EvalCall == 0 || CallFlag(d.A)&TailCall == 0 {
		t.Fatalf("flags lost across encode/decode: A=%d", d.A)
	}
}

// TestOpInfoTableCovers ensures every primary opcode below opCount has a
// populated OpInfo entry, catching a forgotten table row the way the
// existing adjacency/shape invariants catch a forgotten sibling pairing.
func TestOpInfoTableCovers(t *testing.T) {
	for op := Op(0); op < opCount; op++ {
		if op.Info().Name == "" {
			t.Fatalf("opcode %d has no OpInfo entry", op)
		}
	}
}
