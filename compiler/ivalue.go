package compiler

import (
	"math"

	"github.com/go-ecma/es5c/bytecode"
	"github.com/go-ecma/es5c/lexer"
	"github.com/go-ecma/es5c/value"
)

// IKind tags what an IValue currently holds (spec.md section 4.4).
type IKind int

const (
	// INone is the zero value: no expression has been compiled into this
	// slot yet. Only ever seen on a freshly zeroed IValue.
	INone IKind = iota
	// IPlain: a materialized regconst (an actual register or constant).
	IPlain
	// IArith: a compile-time constant the engine can still fold further
	// (e.g. the left operand of "2 + 3 * x" before the "2+3*x" shape is
	// known); carries a value.Value directly instead of a regconst.
	IArith
	// IProp: a property reference (base, key) — not yet read or written.
	IProp
	// IVar: an identifier reference, resolved to either a bound register
	// or an unresolved name requiring the slow path (spec.md section 4.5).
	IVar
)

// IValue is the compiler's universal "an expression just compiled to
// something" result (spec.md section 4.4's IVALUE). Expression parsing
// never emits eagerly for every subexpression; it builds up IValues and
// only calls ToPlain/ToRegConst when a concrete register or constant is
// actually required, which is what lets constant folding and the
// assignment/delete/typeof special cases see the expression shape before
// it is thrown away.
type IValue struct {
	Kind IKind

	// IPlain
	RC bytecode.RegConst

	// IArith
	Const value.Value

	// IProp: Base/Key are themselves IValues, reduced to regconsts lazily.
	Base *IValue
	Key  *IValue

	// IVar
	Name     string
	Register int  // valid register index, or notBoundRegister
	Unbound  bool // true: no active binding, must use GETVAR/PUTVAR by name
}

// MaterializeFlags controls how ToRegConst resolves an IValue to an operand
// (spec.md section 4.4's ALLOW_CONST / REQUIRE_TEMP / REQUIRE_SHORT).
type MaterializeFlags uint8

const (
	// AllowConst permits returning a constant-pool regconst directly
	// instead of copying it into a register first.
	AllowConst MaterializeFlags = 1 << iota
	// RequireTemp forces the result into a fresh temp register even if the
	// IValue was already a plain register (used before a destructive
	// operation on an lvalue's current register).
	RequireTemp
	// RequireShort forces the result to fit bytecode.MaxDirect without
	// relying on the emitter's shuffle (used for the few instructions that
	// do not go through Emitter.shuffle, none currently, but kept for
	// parity with spec.md's documented flag set).
	RequireShort
)

func ivPlain(rc bytecode.RegConst) IValue { return IValue{Kind: IPlain, RC: rc} }

func ivConst(v value.Value) IValue { return IValue{Kind: IArith, Const: v} }

// IVEngine threads the emitter and function state together for expression
// compilation (spec.md section 4.4).
type IVEngine struct {
	FS *FuncState
	E  *Emitter
}

func NewIVEngine(fs *FuncState, e *Emitter) *IVEngine {
	return &IVEngine{FS: fs, E: e}
}

// ToRegConst reduces iv to a concrete operand, materializing through the
// emitter as needed: an IArith constant is interned; an IProp is read via
// GETPROP; an IVar is read via a bound register or GETVAR by name.
func (iv *IVEngine) ToRegConst(v IValue, flags MaterializeFlags, pos lexer.Position) bytecode.RegConst {
	switch v.Kind {
	case IPlain:
		if flags&RequireTemp != 0 && !v.RC.IsConst() {
			t := iv.FS.AllocTemp(pos)
			iv.E.EmitMove(t, v.RC.Index())
			return bytecode.Reg(t)
		}
		return v.RC

	case IArith:
		idx := iv.FS.InternConst(v.Const)
		if flags&AllowConst != 0 {
			return bytecode.Const(idx)
		}
		t := iv.FS.AllocTemp(pos)
		iv.E.EmitLoadConst(t, idx)
		return bytecode.Reg(t)

	case IVar:
		if !v.Unbound {
			if flags&RequireTemp != 0 {
				t := iv.FS.AllocTemp(pos)
				iv.E.EmitMove(t, v.Register)
				return bytecode.Reg(t)
			}
			return bytecode.Reg(v.Register)
		}
		t := iv.FS.AllocTemp(pos)
		nameConst := iv.FS.InternConst(value.Str(v.Name))
		iv.E.EmitABC2(bytecode.GETVAR, t, nameConst)
		return bytecode.Reg(t)

	case IProp:
		baseRC := iv.ToRegConst(*v.Base, AllowConst, pos)
		keyRC := iv.ToRegConst(*v.Key, AllowConst, pos)
		t := iv.FS.AllocTemp(pos)
		iv.E.EmitABC3(bytecode.GETPROP, t, baseRC, keyRC)
		return bytecode.Reg(t)

	default:
		throwCompileError(internalErrorf(pos, "materializing an empty IValue"))
		return bytecode.Reg(0)
	}
}

// ToPlain is ToRegConst wrapped back into an IValue, for code that wants to
// keep composing (e.g. folding) rather than immediately reading an operand.
func (iv *IVEngine) ToPlain(v IValue, flags MaterializeFlags, pos lexer.Position) IValue {
	if v.Kind == IPlain {
		return v
	}
	return ivPlain(iv.ToRegConst(v, flags, pos))
}

// Store writes src into the lvalue iv describes (IVar or IProp); any other
// kind is a parser bug (assignment targets are checked before this is
// called) and is reported as an internal error rather than silently
// ignored.
func (iv *IVEngine) Store(target IValue, src IValue, pos lexer.Position) {
	switch target.Kind {
	case IVar:
		rc := iv.ToRegConst(src, AllowConst, pos)
		if !target.Unbound {
			srcReg := iv.ToRegConst(src, 0, pos)
			iv.E.EmitMove(target.Register, srcReg.Index())
			return
		}
		nameConst := iv.FS.InternConst(value.Str(target.Name))
		valReg := rc
		if rc.IsConst() {
			t := iv.FS.AllocTemp(pos)
			iv.E.EmitLoadConst(t, rc.Index())
			valReg = bytecode.Reg(t)
		}
		iv.E.EmitABC2(bytecode.PUTVAR, valReg.Index(), nameConst)

	case IProp:
		baseRC := iv.ToRegConst(*target.Base, AllowConst, pos)
		keyRC := iv.ToRegConst(*target.Key, AllowConst, pos)
		valRC := iv.ToRegConst(src, AllowConst, pos)
		iv.E.EmitABC3(bytecode.PUTPROP, valRC.Index(), baseRC, keyRC)

	default:
		throwCompileError(internalErrorf(pos, "assignment target is not an lvalue"))
	}
}

// --- constant folding -------------------------------------------------

// foldBinaryNumeric attempts compile-time evaluation of a numeric binary
// operator over two IArith operands, returning ok=false when either operand
// isn't a folded numeric constant (spec.md section 4.4's arithmetic folding;
// only numeric identities are folded, matching the original's conservatism
// about string/object coercion having observable side effects).
func foldBinaryNumeric(op bytecode.Op, a, b IValue) (IValue, bool) {
	if a.Kind != IArith || b.Kind != IArith {
		return IValue{}, false
	}
	if a.Const.Kind() != value.Number || b.Const.Kind() != value.Number {
		return IValue{}, false
	}
	x, y := a.Const.AsNumber(), b.Const.AsNumber()
	var r float64
	switch op {
	case bytecode.ADD:
		r = x + y
	case bytecode.SUB:
		r = x - y
	case bytecode.MUL:
		r = x * y
	case bytecode.DIV:
		r = x / y
	case bytecode.MOD:
		r = math.Mod(x, y)
	default:
		return IValue{}, false
	}
	return ivConst(value.NumberNormalized(r)), true
}

// foldUnaryMinus folds numeric negation, canonicalizing NaN and preserving
// the -0/+0 distinction SameValue later relies on for constant dedup.
func foldUnaryMinus(a IValue) (IValue, bool) {
	if a.Kind != IArith || a.Const.Kind() != value.Number {
		return IValue{}, false
	}
	return ivConst(value.NumberNormalized(-a.Const.AsNumber())), true
}
