package template

import (
	"testing"

	"github.com/go-ecma/es5c/value"
)

func TestHasFlagChecksIndividualBits(t *testing.T) {
	f := &FunctionTemplate{Flags: FlagStrict | FlagCreateArgs}
	if !f.HasFlag(FlagStrict) || !f.HasFlag(FlagCreateArgs) {
		t.Fatalf("expected both set flags to report true")
	}
	if f.HasFlag(FlagNewEnv) || f.HasFlag(FlagNameBinding) {
		t.Fatalf("expected unset flags to report false")
	}
}

func TestPackIncludesConstsFuncsAndCode(t *testing.T) {
	inner := &FunctionTemplate{Code: []uint32{1}}
	outer := &FunctionTemplate{
		Consts: []value.Value{value.Num(3.5), value.Str("x"), value.Bool(true)},
		Funcs:  []*FunctionTemplate{inner},
		Code:   []uint32{0xdeadbeef, 0x1},
	}
	buf := outer.Pack()
	if len(buf) == 0 {
		t.Fatalf("expected Pack to produce a non-empty buffer")
	}
	// A packed template with a nested function must be longer than an
	// otherwise-identical one with no nested functions.
	flat := &FunctionTemplate{Consts: outer.Consts, Code: outer.Code}
	if len(outer.Pack()) <= len(flat.Pack()) {
		t.Fatalf("expected packing a nested function to grow the buffer")
	}
}
