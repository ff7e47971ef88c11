// Package value implements the tagged-value model the compiler's constant
// pool and intermediate-value engine build on. It stands in for the
// out-of-scope "value stack / heap API" collaborator described in spec.md
// section 1: a minimal, compiler-facing slice of what a full ES5.1 runtime
// heap would provide — enough to intern constants and compare them by
// SameValue, plus a scratch Stack (spec.md section 5) that the compiler
// does not use.
package value

import "math"

// Kind tags the variant held by a Value.
type Kind uint8

const (
	Undefined Kind = iota
	Null
	Boolean
	Number
	String
)

// Value is a tagged ES5.1 primitive value. Only the primitive kinds the
// compiler itself ever needs to intern into a constant pool are
// represented; Object/Function values are the runtime's concern and are
// out of scope here.
type Value struct {
	kind Kind
	num  float64
	str  string
	b    bool
}

func Undef() Value          { return Value{kind: Undefined} }
func Nul() Value            { return Value{kind: Null} }
func Bool(b bool) Value     { return Value{kind: Boolean, b: b} }
func Num(n float64) Value   { return Value{kind: Number, num: n} }
func Str(s string) Value    { return Value{kind: String, str: s} }

func (v Value) Kind() Kind       { return v.kind }
func (v Value) AsNumber() float64 { return v.num }
func (v Value) AsString() string  { return v.str }
func (v Value) AsBool() bool      { return v.b }

func (v Value) IsUndefined() bool { return v.kind == Undefined }
func (v Value) IsNull() bool      { return v.kind == Null }
func (v Value) IsNumber() bool    { return v.kind == Number }
func (v Value) IsString() bool    { return v.kind == String }
func (v Value) IsBoolean() bool   { return v.kind == Boolean }

// CanonicalNaN is the single bit pattern every NaN-producing fold is
// normalized to before interning, matching the original compiler's
// constant-pool behavior (SPEC_FULL.md section C.3): 0/0 and other
// NaN-producing folds must all dedup to one pool entry.
var CanonicalNaN = math.NaN()

// NumberNormalized builds a Number value, canonicalizing NaN so that every
// NaN shares one bit pattern prior to SameValue comparison.
func NumberNormalized(n float64) Value {
	if math.IsNaN(n) {
		return Value{kind: Number, num: CanonicalNaN}
	}
	return Value{kind: Number, num: n}
}

// SameValue implements the ES5.1 9.12 SameValue algorithm: unlike ==, it
// distinguishes +0 from -0 and treats all NaNs as equal to each other.
// The constant pool (spec.md section 3) deduplicates by this relation, not
// by ordinary equality.
func SameValue(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case Undefined, Null:
		return true
	case Boolean:
		return a.b == b.b
	case String:
		return a.str == b.str
	case Number:
		if math.IsNaN(a.num) && math.IsNaN(b.num) {
			return true
		}
		if a.num == 0 && b.num == 0 {
			return math.Signbit(a.num) == math.Signbit(b.num)
		}
		return a.num == b.num
	}
	return false
}

// IsWholeInt32 reports whether n is a whole number representable in a
// signed 32-bit range (spec.md section 4.4's LDINT-versus-constant
// threshold). The compiler does not call it; number literals are always
// interned into the constant pool.
func IsWholeInt32(n float64) (int32, bool) {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	if n != math.Trunc(n) {
		return 0, false
	}
	if n < math.MinInt32 || n > math.MaxInt32 {
		return 0, false
	}
	return int32(n), true
}
