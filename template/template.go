// Package template defines the compiled output of the compiler package: a
// FunctionTemplate ready for a bytecode VM to instantiate as a closure
// (spec.md section 6). Packing a FunctionTemplate into the bit-exact
// contiguous buffer spec.md section 6 describes is this package's job;
// interpreting that buffer belongs to the out-of-scope VM.
package template

import (
	"encoding/binary"
	"math"

	"github.com/go-ecma/es5c/value"
)

// Flag bits mirror spec.md section 4.2's function-template flags.
type Flag uint8

const (
	FlagNewEnv Flag = 1 << iota
	FlagCreateArgs
	FlagStrict
	FlagNameBinding
)

// FunctionTemplate is the compiler's output for one function, eval body, or
// global program (spec.md section 6).
type FunctionTemplate struct {
	Consts  []value.Value
	Funcs   []*FunctionTemplate
	Code    []uint32
	PC2Line []byte // see EncodePC2Line

	Varmap  map[string]int // nil when not needed (spec.md section 4.2)
	Formals []string
	Name    string   // empty for anonymous functions
	FileName string

	Flags Flag
	NRegs int
	NArgs int
}

func (f *FunctionTemplate) HasFlag(fl Flag) bool { return f.Flags&fl != 0 }

// Pack serializes the template into the bit-exact layout spec.md section 6
// describes: constants, then inner-function slots (recursively packed),
// then bytecode words. Numbers and strings are written in a simple
// self-describing form since there is no shared heap to point into
// (spec.md section 9's "GC-backed idiom" note: this is the explicit-arena
// replacement for that).
func (f *FunctionTemplate) Pack() []byte {
	var buf []byte
	buf = appendUvarint(buf, uint64(len(f.Consts)))
	for _, c := range f.Consts {
		buf = appendConst(buf, c)
	}
	buf = appendUvarint(buf, uint64(len(f.Funcs)))
	for _, fn := range f.Funcs {
		sub := fn.Pack()
		buf = appendUvarint(buf, uint64(len(sub)))
		buf = append(buf, sub...)
	}
	buf = appendUvarint(buf, uint64(len(f.Code)))
	for _, word := range f.Code {
		var tmp [4]byte
		binary.LittleEndian.PutUint32(tmp[:], word)
		buf = append(buf, tmp[:]...)
	}
	return buf
}

func appendUvarint(buf []byte, v uint64) []byte {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], v)
	return append(buf, tmp[:n]...)
}

func appendConst(buf []byte, v value.Value) []byte {
	buf = append(buf, byte(v.Kind()))
	switch v.Kind() {
	case value.Number:
		var tmp [8]byte
		binary.LittleEndian.PutUint64(tmp[:], math.Float64bits(v.AsNumber()))
		buf = append(buf, tmp[:]...)
	case value.String:
		s := v.AsString()
		buf = appendUvarint(buf, uint64(len(s)))
		buf = append(buf, s...)
	case value.Boolean:
		b := byte(0)
		if v.AsBool() {
			b = 1
		}
		buf = append(buf, b)
	}
	return buf
}
