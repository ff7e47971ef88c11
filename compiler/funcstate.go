package compiler

import (
	"github.com/go-ecma/es5c/bytecode"
	"github.com/go-ecma/es5c/lexer"
	"github.com/go-ecma/es5c/template"
	"github.com/go-ecma/es5c/value"
)

// constScanCap bounds the constant pool's linear-scan dedup (spec.md
// section 4.4): the first constScanCap entries are checked by SameValue
// before a new entry is always appended, keeping worst-case interning time
// bounded (spec.md section 9's "O(n^2) cap by design").
const constScanCap = 256

// Limits mirror spec.md section 6: MAX_CONSTS = MAX_FUNCS = MAX_TEMPS = BC_MAX+1.
const (
	MaxConsts = bytecode.MaxBC18 + 1
	MaxFuncs  = bytecode.MaxBC18 + 1
	MaxTemps  = bytecode.MaxBC18 + 1
)

// DeclKind distinguishes a pass-1 declaration's binding kind.
type DeclKind int

const (
	DeclVar DeclKind = iota
	DeclFunc
)

// Decl is one pass-1-collected variable or function declaration (spec.md
// section 3 "decls").
type Decl struct {
	Name string
	Kind DeclKind
	Fnum int // valid only when Kind == DeclFunc
}

// InnerFunc is one entry of the "funcs" table (spec.md section 3):
// a compiled nested template plus where its closing brace sits in the
// source, so pass 2 can fast-forward past it instead of recompiling.
type InnerFunc struct {
	Template *template.FunctionTemplate
	ClosePos lexer.SavedPos
}

// notBoundRegister marks a varmap entry as "declared but not register
// bound" (spec.md section 3: "identifier -> null"), used for duplicate
// detection and to force slow-path access (e.g. a catch-bound name).
const notBoundRegister = -1

// LabelFlags enables break/continue targeting a label site (spec.md 4.6).
type LabelFlags uint8

const (
	AllowBreak LabelFlags = 1 << iota
	AllowContinue
)

// LabelInfo describes one active label (spec.md section 3).
type LabelInfo struct {
	Name       string // "" for an anonymous (empty) loop/switch label
	ID         int
	PC         int // jump target of a continue naming this entry
	CatchDepth int
	Flags      LabelFlags
}

// Flag bits for FuncState (spec.md section 3's flag bullet list).
type stateFlags uint32

const (
	fIsStrict stateFlags = 1 << iota
	fIsFunction
	fIsEval
	fIsGlobal
	fIsDecl
	fIsSetGet
	fInDirectivePrologue
	fInScanning
	fMayDirectEval
	fIDAccessArguments
	fIDAccessSlow
	fNeedsShuffle
	fIsArgumentsShadowed
)

// FuncState is the per-function compilation scratch described by spec.md
// section 3. One is created per function body, eval body, or the global
// program, and threads through every parser/emitter call for that body.
type FuncState struct {
	Parent *FuncState

	// Emission buffers (spec.md "code", "consts", "funcs", "decls").
	Code   []bytecode.Instr
	Consts []value.Value
	Funcs  []InnerFunc
	Decls  []Decl

	Argnames []string
	Varmap   map[string]int // register index, or notBoundRegister

	// Label stacks (spec.md "labelnames, labelinfos" — modeled as one
	// stack of LabelInfo; Name is carried on the struct itself rather than
	// a parallel slice, an adaptation noted in DESIGN.md).
	Labels   []LabelInfo
	nextLblID int

	// Register watermark (spec.md "temp_first, temp_next, temp_max").
	TempFirst int
	TempNext  int
	TempMax   int

	// Shuffle scratch registers, reserved unconditionally by pass 2's
	// prologue (ReserveShuffleRegisters).
	Shuffle1, Shuffle2, Shuffle3 int

	// FuncCursor walks Funcs in source order during pass 2 (driver.go's
	// compileOrSkipFunction), so the Nth nested function literal
	// encountered resolves to the same Funcs[N] pass 1 already built.
	FuncCursor int

	Flags stateFlags

	CatchDepth int
	WithDepth  int
	ParenLevel int
	AllowIn    bool
	ExprLHS    bool

	NudCount       int
	LedCount       int
	RecursionDepth int

	// RegStmtValue: when >= 0, every statement with a completion value
	// writes it here (spec.md section 3), supporting eval/global's
	// implicit return value.
	RegStmtValue int

	FnNum    int // this function's index in the parent's Funcs table
	FuncName string
	FileName string
}

// NewFuncState creates scratch for a function body; parent is nil for the
// outermost program.
func NewFuncState(parent *FuncState, fileName string) *FuncState {
	return &FuncState{
		Parent:       parent,
		Varmap:       make(map[string]int),
		RegStmtValue: -1,
		AllowIn:      true,
		FileName:     fileName,
	}
}

func (fs *FuncState) has(f stateFlags) bool  { return fs.Flags&f != 0 }
func (fs *FuncState) set(f stateFlags)       { fs.Flags |= f }
func (fs *FuncState) clear(f stateFlags)     { fs.Flags &^= f }

func (fs *FuncState) IsStrict() bool            { return fs.has(fIsStrict) }
func (fs *FuncState) SetStrict()                { fs.set(fIsStrict) }
func (fs *FuncState) IsFunction() bool          { return fs.has(fIsFunction) }
func (fs *FuncState) IsEval() bool              { return fs.has(fIsEval) }
func (fs *FuncState) IsGlobal() bool            { return fs.has(fIsGlobal) }
func (fs *FuncState) InScanning() bool          { return fs.has(fInScanning) }
func (fs *FuncState) MayDirectEval() bool       { return fs.has(fMayDirectEval) }
func (fs *FuncState) SetMayDirectEval()         { fs.set(fMayDirectEval) }
func (fs *FuncState) AccessesArguments() bool   { return fs.has(fIDAccessArguments) }
func (fs *FuncState) SetAccessesArguments()     { fs.set(fIDAccessArguments) }
func (fs *FuncState) AccessesSlow() bool        { return fs.has(fIDAccessSlow) }
func (fs *FuncState) SetAccessesSlow()          { fs.set(fIDAccessSlow) }
func (fs *FuncState) NeedsShuffle() bool        { return fs.has(fNeedsShuffle) }
func (fs *FuncState) SetNeedsShuffle()          { fs.set(fNeedsShuffle) }
func (fs *FuncState) ArgumentsShadowed() bool   { return fs.has(fIsArgumentsShadowed) }
func (fs *FuncState) SetArgumentsShadowed()     { fs.set(fIsArgumentsShadowed) }
func (fs *FuncState) InDirectivePrologue() bool { return fs.has(fInDirectivePrologue) }
func (fs *FuncState) SetInDirectivePrologue(v bool) {
	if v {
		fs.set(fInDirectivePrologue)
	} else {
		fs.clear(fInDirectivePrologue)
	}
}
func (fs *FuncState) SetScanning(v bool) {
	if v {
		fs.set(fInScanning)
	} else {
		fs.clear(fInScanning)
	}
}

// ResetForPass2 truncates the emission buffers pass 1 only scratch-used,
// but preserves funcs and argnames (spec.md section 4.2): nested function
// templates were already fully built in pass 1, and pass 2 must not
// rebuild them, only skip past their source.
func (fs *FuncState) ResetForPass2() {
	fs.Code = nil
	fs.Consts = nil
	fs.Labels = nil
	fs.nextLblID = 0
	fs.TempNext = fs.TempFirst
	fs.CatchDepth = 0
	fs.WithDepth = 0
	fs.ParenLevel = 0
	fs.FuncCursor = 0
	fs.SetScanning(false)
}

// InternConst interns v into the constant pool, deduplicating by SameValue
// over the pool's first constScanCap entries (spec.md section 4.4). It
// returns the pool index, whether existing or newly added.
func (fs *FuncState) InternConst(v value.Value) int {
	scan := len(fs.Consts)
	if scan > constScanCap {
		scan = constScanCap
	}
	for i := 0; i < scan; i++ {
		if value.SameValue(fs.Consts[i], v) {
			return i
		}
	}
	if len(fs.Consts) >= MaxConsts {
		throwCompileError(rangeErrorf(lexer.Position{}, "too many constants in function (max %d)", MaxConsts))
	}
	fs.Consts = append(fs.Consts, v)
	return len(fs.Consts) - 1
}

// AddInnerFunc appends a compiled nested template and returns its fnum.
func (fs *FuncState) AddInnerFunc(tmpl *template.FunctionTemplate, closePos lexer.SavedPos) int {
	if len(fs.Funcs) >= MaxFuncs {
		throwCompileError(rangeErrorf(lexer.Position{}, "too many nested functions (max %d)", MaxFuncs))
	}
	fs.Funcs = append(fs.Funcs, InnerFunc{Template: tmpl, ClosePos: closePos})
	return len(fs.Funcs) - 1
}

// AllocTemp hands out the next free temporary register, advancing the
// watermark (spec.md "temp_next").
func (fs *FuncState) AllocTemp(pos lexer.Position) int {
	r := fs.TempNext
	fs.TempNext++
	if fs.TempNext > fs.TempMax {
		fs.TempMax = fs.TempNext
	}
	if fs.TempNext > 256 {
		throwCompileError(rangeErrorf(pos, "too many registers in function (max 256)"))
	}
	return r
}

// ReserveShuffleRegisters claims the three registers right after the
// formals as permanent shuffle scratch (spec.md section 4.3), before any
// other temporary is allocated, so they are never handed out by AllocTemp.
func (fs *FuncState) ReserveShuffleRegisters() {
	fs.Shuffle1 = fs.TempNext
	fs.TempNext++
	fs.Shuffle2 = fs.TempNext
	fs.TempNext++
	fs.Shuffle3 = fs.TempNext
	fs.TempNext++
	fs.TempFirst = fs.TempNext
	if fs.TempNext > fs.TempMax {
		fs.TempMax = fs.TempNext
	}
}

// Mark/ReleaseTo implement the reusable-cursor discipline (spec.md
// "temp_next is a reusable cursor reset after each statement"): Mark
// captures the watermark before an expression is compiled, ReleaseTo
// rewinds TempNext back to it afterward so sibling statements reuse
// registers instead of growing TempMax without bound.
func (fs *FuncState) MarkTemp() int { return fs.TempNext }
func (fs *FuncState) ReleaseTempsTo(mark int) {
	fs.TempNext = mark
}

// PushLabel adds a label entry with no break/continue permission yet
// (spec.md section 4.6): the statement parser enables those once it knows
// what kind of construct the label wraps.
func (fs *FuncState) PushLabel(name string, pc int) *LabelInfo {
	fs.nextLblID++
	fs.Labels = append(fs.Labels, LabelInfo{Name: name, ID: fs.nextLblID, PC: pc, CatchDepth: fs.CatchDepth})
	return &fs.Labels[len(fs.Labels)-1]
}

func (fs *FuncState) PopLabel() {
	fs.Labels = fs.Labels[:len(fs.Labels)-1]
}

// PopLabels removes the n topmost label entries, used after a labeled
// construct with multiple stacked aliases (AttachPendingLabels) finishes.
func (fs *FuncState) PopLabels(n int) {
	fs.Labels = fs.Labels[:len(fs.Labels)-n]
}
