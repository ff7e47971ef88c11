package bytecode

import "testing"

func TestEncodeDecodeABC3RoundTrip(t *testing.T) {
	word, err := EncodeABC3(ADD, 3, Reg(10), Const(20))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	d := Decode(word)
	if d.Op != ADD || d.A != 3 || d.B != Reg(10) || d.C != Const(20) {
		t.Fatalf("round trip mismatch: %+v", d)
	}
}

func TestEncodeABC3RejectsOutOfRange(t *testing.T) {
	if _, err := EncodeABC3(ADD, 3, Reg(1000), Const(0)); err == nil {
		t.Fatal("expected range error for oversized B operand")
	}
}

func TestJumpTargetRoundTrip(t *testing.T) {
	jumpPC, targetPC := 5, 42
	abc := JumpOperand(jumpPC, targetPC)
	if abc < 0 || abc > MaxABC26 {
		t.Fatalf("jump operand out of range: %d", abc)
	}
	if got := JumpTarget(jumpPC, abc); got != targetPC {
		t.Fatalf("JumpTarget = %d, want %d", got, targetPC)
	}
}

func TestOpcodeAdjacency(t *testing.T) {
	if CALLI != CALL+1 {
		t.Fatal("CALLI must be CALL+1")
	}
	if MPUTOBJI != MPUTOBJ+1 {
		t.Fatal("MPUTOBJI must be MPUTOBJ+1")
	}
}

func TestRegConstMarker(t *testing.T) {
	r := Reg(5)
	c := Const(5)
	if r.IsConst() || !c.IsConst() {
		t.Fatal("const marker not distinguishing register from constant")
	}
	if r.Index() != 5 || c.Index() != 5 {
		t.Fatal("index extraction broken")
	}
}
