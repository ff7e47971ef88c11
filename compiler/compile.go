package compiler

import (
	"github.com/go-ecma/es5c/lexer"
	"github.com/go-ecma/es5c/template"
)

// Flags are the compile-time mode bits spec.md section 6 names. Absent Eval
// and FuncExpr, source compiles as global code.
type Flags uint8

const (
	// Eval parses source as eval code: it has an implicit completion value
	// (every statement's value is captured into RegStmtValue) and accepts
	// a bare statement list rather than requiring a function wrapper.
	Eval Flags = 1 << iota
	// Strict forces strict mode on the outer function regardless of
	// whether its own directive prologue requests it.
	Strict
	// FuncExpr parses source as a single "function ...(...) { ... }"
	// literal (the Function-constructor body path) and returns its own
	// template directly, rather than a global program that happens to
	// contain one.
	FuncExpr
)

// Compile is the package's single public entry point (spec.md section 6).
// Any compile failure unwinds internally via throwCompileError's panic and
// is converted back into a returned error here — the only place in this
// package that recovers from one.
func Compile(source, filename string, flags Flags) (tmpl *template.FunctionTemplate, err error) {
	defer func() {
		if r := recover(); r != nil {
			ce, ok := r.(*CompileError)
			if !ok {
				panic(r)
			}
			err = ce
			tmpl = nil
		}
	}()

	lx := lexer.New(source, filename)
	fs := NewFuncState(nil, filename)

	switch {
	case flags&FuncExpr != 0:
		fs.set(fIsFunction)
	case flags&Eval != 0:
		fs.set(fIsEval)
	default:
		fs.set(fIsGlobal)
	}
	if flags&Strict != 0 {
		fs.SetStrict()
	}

	p := &Parser{C: NewCursor(lx), FS: fs, Src: source, pendingBreaks: make(map[int][]int)}
	p.E = NewEmitter(fs)
	p.IV = NewIVEngine(fs, p.E)

	var t *template.FunctionTemplate
	if flags&FuncExpr != 0 {
		t = compileFuncExprProgram(p)
	} else {
		t = compileProgram(p)
	}
	checkLexErrors(lx)
	return t, nil
}

// checkLexErrors enforces spec.md section 7's "no partial template is
// produced" on a lexical failure: the lexer recovers in place from an
// unterminated string/comment/regexp, an invalid escape, or an unexpected
// character so the parser always sees a token stream, but a source that hit
// any of those still must not compile successfully. Checked once after the
// whole two-pass parse, not per-token, since pass 1 and pass 2 re-lex the
// same source and would otherwise double-report the same fault.
func checkLexErrors(lx *lexer.Lexer) {
	if !lx.Errors().HasErrors() {
		return
	}
	first := lx.Errors().Errors[0]
	throwCompileError(syntaxErrorf(first.Pos, "%s", first.Message))
}

// compileProgram runs the two-pass driver over a bare top-level statement
// list (global or eval code), ending at EOF rather than a closing brace.
func compileProgram(p *Parser) *template.FunctionTemplate {
	fs := p.FS
	bodyStart := p.C.Save()

	fs.SetScanning(true)
	if !fs.IsFunction() {
		fs.RegStmtValue = fs.AllocTemp(lexer.Position{})
	}
	parseProgramStatements(p)
	if p.C.Cur.Kind != lexer.EOF {
		throwCompileError(syntaxErrorf(p.pos(), "unexpected token %s", p.C.Cur.Kind))
	}

	p.C.Restore(bodyStart)
	fs.ResetForPass2()
	installFunctionPrologue(p, fs, nil, lexer.Position{})
	if !fs.IsFunction() {
		fs.RegStmtValue = fs.AllocTemp(lexer.Position{})
	}

	parseProgramStatements(p)
	emitFinalReturn(p)

	return p.finishTemplate()
}

func parseProgramStatements(p *Parser) {
	p.FS.SetInDirectivePrologue(true)
	for p.C.Cur.Kind != lexer.EOF {
		p.parseSourceElement()
	}
}

// compileFuncExprProgram treats the entire source as one function literal
// and compiles it directly as the outermost FuncState, rather than as a
// value nested inside a global program (spec.md section 6's FUNCEXPR flag).
func compileFuncExprProgram(p *Parser) *template.FunctionTemplate {
	fs := p.FS
	pos := p.pos()
	p.C.AdvanceExpect(lexer.KeywordFunction)
	name := ""
	if p.C.Cur.Kind == lexer.Identifier {
		name = p.expectBindingIdentifier()
	}
	fs.FuncName = name
	formals := p.parseFormalParameterList()
	fs.Argnames = formals

	_, tmpl := p.compileFunctionCore(formals, pos)
	if p.C.Cur.Kind != lexer.EOF {
		throwCompileError(syntaxErrorf(p.pos(), "unexpected token %s after function body", p.C.Cur.Kind))
	}
	return tmpl
}
