package value

import (
	"math"
	"testing"
)

func TestSameValueDistinguishesSignedZero(t *testing.T) {
	pos := Num(0)
	neg := Num(math.Copysign(0, -1))
	if SameValue(pos, neg) {
		t.Fatalf("SameValue must distinguish +0 from -0")
	}
}

func TestSameValueTreatsAllNaNsAsEqual(t *testing.T) {
	a := NumberNormalized(math.NaN())
	b := NumberNormalized(0.0 / zero())
	if !SameValue(a, b) {
		t.Fatalf("SameValue must treat all NaN-producing folds as equal")
	}
}

func zero() float64 { return 0 }

func TestSameValueRejectsMismatchedKinds(t *testing.T) {
	if SameValue(Undef(), Nul()) {
		t.Fatalf("undefined and null must not be SameValue")
	}
	if SameValue(Bool(false), Num(0)) {
		t.Fatalf("boolean and number must not be SameValue even when both falsy")
	}
}

func TestIsWholeInt32Bounds(t *testing.T) {
	if _, ok := IsWholeInt32(math.NaN()); ok {
		t.Fatalf("NaN must not be a whole int32")
	}
	if _, ok := IsWholeInt32(3.5); ok {
		t.Fatalf("a fractional number must not be a whole int32")
	}
	if _, ok := IsWholeInt32(math.MaxInt32 + 1); ok {
		t.Fatalf("a value outside the int32 range must be rejected")
	}
	n, ok := IsWholeInt32(42)
	if !ok || n != 42 {
		t.Fatalf("expected 42 to round-trip as a whole int32, got %d, %v", n, ok)
	}
}
