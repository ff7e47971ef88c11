package compiler

import (
	"github.com/go-ecma/es5c/lexer"
	"github.com/go-ecma/es5c/template"
	"github.com/go-ecma/es5c/value"
)

// Parser ties the token cursor, per-function scratch, emitter, and IVALUE
// engine together into the one object the expression and statement parsers
// (expr.go, stmt.go) are methods on. One Parser exists per source file; a
// nested function body swaps in a fresh FuncState/Emitter/IVEngine for the
// duration of compiling that body and restores the enclosing ones
// afterward (driver.go).
type Parser struct {
	C   *Cursor
	FS  *FuncState
	E   *Emitter
	IV  *IVEngine
	Src string

	// pendingBreaks collects, per active label ID, the PCs of "break"
	// jumps still waiting for their construct's end address (stmt.go).
	// Keyed by label ID rather than by *FuncState since it is reset fresh
	// for every function body (driver.go), same as fs.Labels itself.
	pendingBreaks map[int][]int
}

func (p *Parser) pos() lexer.Position { return p.C.Cur.Pos }

// resolvePendingBreaks patches every break jump collected for labelID to
// target the current end of the code buffer, then forgets them.
func (p *Parser) resolvePendingBreaks(labelID int) {
	target := p.E.PC()
	for _, pc := range p.pendingBreaks[labelID] {
		p.E.PatchJump(pc, target)
	}
	delete(p.pendingBreaks, labelID)
}

// pushFunction swaps in scratch for compiling a nested function body and
// returns a closure that restores the caller's scratch.
func (p *Parser) pushFunction(fs *FuncState) func() {
	prevFS, prevE, prevIV, prevBreaks := p.FS, p.E, p.IV, p.pendingBreaks
	p.FS = fs
	p.E = NewEmitter(fs)
	p.IV = NewIVEngine(fs, p.E)
	p.pendingBreaks = make(map[int][]int)
	return func() {
		p.FS, p.E, p.IV, p.pendingBreaks = prevFS, prevE, prevIV, prevBreaks
	}
}

// finishTemplate converts the current FuncState into a packaged
// template.FunctionTemplate once its body is fully compiled (spec.md
// section 4.9's end-of-pass-2 step).
func (p *Parser) finishTemplate() *template.FunctionTemplate {
	fs := p.FS
	CollapseJumpChains(fs)

	code := make([]uint32, len(fs.Code))
	lines := make([]int, len(fs.Code))
	for i, instr := range fs.Code {
		code[i] = instr.Word
		lines[i] = instr.Line
	}

	funcs := make([]*template.FunctionTemplate, len(fs.Funcs))
	for i, inner := range fs.Funcs {
		funcs[i] = inner.Template
	}

	var flags template.Flag
	if fs.IsStrict() {
		flags |= template.FlagStrict
	}
	if fs.AccessesArguments() {
		flags |= template.FlagCreateArgs
	}
	if fs.WithDepth > 0 || fs.AccessesSlow() {
		flags |= template.FlagNewEnv
	}
	if fs.FuncName != "" && !fs.IsGlobal() {
		flags |= template.FlagNameBinding
	}

	// Varmap retention (spec.md section 8 scenario 2): the varmap is kept
	// when an identifier access took the slow path or the function has
	// nested functions, and a function that may run a direct eval keeps it
	// even if every identifier access compiled before the eval() call
	// resolved to a register, since the eval'd code can introduce bindings
	// that shadow those registers at run time. Otherwise it is nil.
	var varmap map[string]int
	if fs.AccessesSlow() || fs.MayDirectEval() || len(fs.Funcs) > 0 {
		varmap = fs.Varmap
	}

	return &template.FunctionTemplate{
		Consts:   append([]value.Value(nil), fs.Consts...),
		Funcs:    funcs,
		Code:     code,
		PC2Line:  template.EncodePC2Line(lines),
		Varmap:   varmap,
		Formals:  append([]string(nil), fs.Argnames...),
		Name:     fs.FuncName,
		FileName: fs.FileName,
		Flags:    flags,
		NRegs:    fs.TempMax,
		NArgs:    len(fs.Argnames),
	}
}
