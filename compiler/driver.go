package compiler

import (
	"github.com/go-ecma/es5c/bytecode"
	"github.com/go-ecma/es5c/lexer"
	"github.com/go-ecma/es5c/template"
	"github.com/go-ecma/es5c/value"
)

// driver.go is the function body driver (spec.md section 4.9): the
// two-pass orchestration that turns a function's formal parameter list and
// "{ ... }" body into a packaged template.FunctionTemplate, plus the
// function-declaration/expression/accessor-literal entry points stmt.go and
// expr.go dispatch to.

// strictReservedNames are the future-reserved words ECMAScript 5.1 section
// 7.6.1.2 only forbids as bindings in strict mode. expectBindingIdentifier
// already lets these through as ordinary identifiers when the enclosing
// function isn't strict yet at parse time; checkFormalParameters and the
// function-name check below catch the case where strictness is established
// only once the body's own directive prologue is seen, after the name and
// parameter list already parsed.
var strictReservedNames = map[string]bool{
	"implements": true, "interface": true, "let": true, "package": true,
	"private": true, "protected": true, "public": true, "static": true, "yield": true,
}

// parseFormalParameterList parses "(a, b, c)" and returns the parameter
// names in order. Duplicate-name and reserved-word checks are deferred to
// checkFormalParameters, once the body's strictness is final.
func (p *Parser) parseFormalParameterList() []string {
	p.C.AdvanceExpect(lexer.LParen)
	var names []string
	for p.C.Cur.Kind != lexer.RParen {
		names = append(names, p.expectBindingIdentifier())
		if p.C.Cur.Kind != lexer.Comma {
			break
		}
		p.C.Advance()
	}
	p.C.AdvanceExpect(lexer.RParen)
	return names
}

// checkFormalParameters applies the retroactive strict-mode checks spec.md
// section 4.9 describes: no duplicate names, no "eval"/"arguments", no
// strict-reserved word, once fs's own strictness (possibly only just
// discovered via its body's directive prologue) is known for certain.
func checkFormalParameters(fs *FuncState, formals []string, pos lexer.Position) {
	if !fs.IsStrict() {
		return
	}
	seen := make(map[string]bool, len(formals))
	for _, n := range formals {
		if n == "eval" || n == "arguments" {
			throwCompileError(syntaxErrorf(pos, "%q is not a valid strict mode parameter name", n))
		}
		if strictReservedNames[n] {
			throwCompileError(syntaxErrorf(pos, "%q is a reserved word in strict mode", n))
		}
		if seen[n] {
			throwCompileError(syntaxErrorf(pos, "duplicate formal parameter %q in strict mode", n))
		}
		seen[n] = true
	}
}

func checkFunctionName(fs *FuncState, name string, pos lexer.Position) {
	if name == "" || !fs.IsStrict() {
		return
	}
	if name == "eval" || name == "arguments" || strictReservedNames[name] {
		throwCompileError(syntaxErrorf(pos, "function name %q is not allowed in strict mode", name))
	}
}

// parseSourceElement parses one statement at source-element level, folding
// in directive prologue recognition (spec.md section 4.8): a statement is a
// directive only when it is a single bare string-literal expression
// terminated before any other token, and only while every source element
// seen so far in this body has been one. The one directive this compiler
// acts on is the literal bytes "use strict"; any other directive is parsed
// and discarded, same as an ordinary (if inert) expression statement.
func (p *Parser) parseSourceElement() {
	if p.FS.InDirectivePrologue() && p.C.Cur.Kind == lexer.StringLiteral && !p.C.Cur.HasEscape {
		lit := p.C.Cur.StrValue
		save := p.C.Save()
		p.C.Advance()
		atEnd := p.C.Cur.Kind == lexer.Semicolon || p.C.Cur.Kind == lexer.RBrace ||
			p.C.Cur.Kind == lexer.EOF || p.C.Cur.NewlineBefore
		if atEnd {
			p.consumeSemicolon()
			if lit == "use strict" {
				p.FS.SetStrict()
			}
			return
		}
		p.C.Restore(save)
	}
	p.FS.SetInDirectivePrologue(false)
	p.ParseStatement()
}

// parseFunctionBodyStatements consumes "{ ... }" up to (not including) the
// closing brace, parsing each source element in turn.
func (p *Parser) parseFunctionBodyStatements() {
	p.C.AdvanceExpect(lexer.LBrace)
	p.FS.SetInDirectivePrologue(true)
	for p.C.Cur.Kind != lexer.RBrace && p.C.Cur.Kind != lexer.EOF {
		p.parseSourceElement()
	}
}

// compileOrSkipFunction implements spec.md section 4.9's "funcs" table
// fast-forward mechanism for one nested function literal (declaration,
// expression, or accessor): while the ENCLOSING function is scanning (pass
// 1), the nested body is fully compiled (recursively two-pass, via a fresh
// FuncState) and appended to the enclosing Funcs table; while the enclosing
// function is emitting (pass 2), the nested body was already compiled once
// and the lexer is simply fast-forwarded past its source, reusing the
// recorded closing-brace position.
func (p *Parser) compileOrSkipFunction(name string, formals []string, pos lexer.Position) int {
	enclosing := p.FS
	if enclosing.InScanning() {
		fs := NewFuncState(enclosing, enclosing.FileName)
		fs.set(fIsFunction)
		fs.FuncName = name
		fs.Argnames = formals
		if enclosing.IsStrict() {
			fs.SetStrict()
		}
		restore := p.pushFunction(fs)
		closePos, tmpl := p.compileFunctionCore(formals, pos)
		restore()
		return enclosing.AddInnerFunc(tmpl, closePos)
	}
	fnum := enclosing.FuncCursor
	enclosing.FuncCursor++
	p.C.FastForward(enclosing.Funcs[fnum].ClosePos)
	return fnum
}

// compileFunctionCore runs the two-pass driver (spec.md section 4.9) over
// the CURRENT Parser's FS: "function NAME(formals)" has already been
// consumed by the caller and the cursor sits at the opening "{". Used both
// for a nested function pushed fresh by compileOrSkipFunction, and for the
// FUNCEXPR top-level entry point (compile.go), which runs this directly
// against the program's own outermost FuncState.
func (p *Parser) compileFunctionCore(formals []string, pos lexer.Position) (lexer.SavedPos, *template.FunctionTemplate) {
	fs := p.FS
	bodyStart := p.C.Save()

	fs.SetScanning(true)
	p.parseFunctionBodyStatements()
	closePos := p.C.LexerMark()
	p.C.AdvanceExpect(lexer.RBrace)
	checkFormalParameters(fs, formals, pos)
	checkFunctionName(fs, fs.FuncName, pos)

	p.C.Restore(bodyStart)
	fs.ResetForPass2()
	installFunctionPrologue(p, fs, formals, pos)

	p.parseFunctionBodyStatements()
	p.C.AdvanceExpect(lexer.RBrace)
	emitFinalReturn(p)

	return closePos, p.finishTemplate()
}

// installFunctionPrologue is pass 2's prologue emission step (spec.md
// section 4.9 point 3): formals are bound to their positional registers
// (a later duplicate formal name wins, since varmap is simply overwritten
// in parameter order); shuffle scratch is reserved unconditionally right
// after them, simpler than spec.md's "only if needs_shuffle" optimization
// and safe regardless of whether pass 1 actually triggered shuffling
// (DESIGN.md); function declarations are installed next, each getting its
// own CLOSURE at the very top of the body, emitted to a register binding in
// function scope or to DECLVAR in eval/global scope; remaining var
// declarations not already bound (by a formal or a function declaration of
// the same name) get a register binding in function scope, or a DECLVAR
// with an undefined initial value in eval/global scope.
func installFunctionPrologue(p *Parser, fs *FuncState, formals []string, pos lexer.Position) {
	for _, name := range formals {
		r := fs.AllocTemp(pos)
		fs.Varmap[name] = r
	}
	fs.ReserveShuffleRegisters()

	isFunctionScope := fs.IsFunction()

	for _, d := range fs.Decls {
		if d.Kind != DeclFunc {
			continue
		}
		r := fs.AllocTemp(pos)
		p.E.EmitABC2(bytecode.CLOSURE, r, d.Fnum)
		if isFunctionScope {
			fs.Varmap[d.Name] = r
		} else {
			nameConst := fs.InternConst(value.Str(d.Name))
			p.E.EmitExtraB_C(bytecode.DECLVAR, bytecode.Const(nameConst), bytecode.Reg(r))
		}
	}

	for _, d := range fs.Decls {
		if d.Kind != DeclVar {
			continue
		}
		if _, exists := fs.Varmap[d.Name]; exists {
			continue
		}
		if isFunctionScope {
			fs.Varmap[d.Name] = fs.AllocTemp(pos)
			continue
		}
		nameConst := fs.InternConst(value.Str(d.Name))
		undefConst := fs.InternConst(value.Undef())
		p.E.EmitExtraB_C(bytecode.DECLVAR, bytecode.Const(nameConst), bytecode.Const(undefConst))
	}

	// A formal or declaration named "arguments" shadows the arguments
	// object: the access pass 1 recorded for the name is dropped.
	if _, ok := fs.Varmap["arguments"]; ok && isFunctionScope {
		fs.SetArgumentsShadowed()
		fs.clear(fIDAccessArguments)
	}
}

// emitFinalReturn appends the implicit return every body falls through to
// when control reaches its end without an explicit return statement
// (spec.md section 4.9 point 5): a function returns undefined, while
// eval/global code returns its accumulated statement completion value.
func emitFinalReturn(p *Parser) {
	if p.FS.RegStmtValue >= 0 {
		p.E.EmitABC3(bytecode.RETURN, 0, bytecode.Reg(p.FS.RegStmtValue), bytecode.Reg(0))
		return
	}
	undef := p.FS.InternConst(value.Undef())
	p.E.EmitABC3(bytecode.RETURN, 0, bytecode.Const(undef), bytecode.Reg(0))
}

// --- function declaration / expression / accessor literal --------------

func (p *Parser) parseFunctionDeclaration() {
	pos := p.pos()
	p.C.AdvanceExpect(lexer.KeywordFunction)
	name := p.expectBindingIdentifier()
	formals := p.parseFormalParameterList()

	fnum := p.compileOrSkipFunction(name, formals, pos)
	if p.FS.InScanning() {
		p.FS.Decls = append(p.FS.Decls, Decl{Name: name, Kind: DeclFunc, Fnum: fnum})
	}
}

func (p *Parser) parseFunctionExpr() IValue {
	p.C.AdvanceExpect(lexer.KeywordFunction)
	name := ""
	if p.C.Cur.Kind == lexer.Identifier {
		name = p.expectBindingIdentifier()
	}
	return p.parseFunctionLiteral(name, false)
}

// parseFunctionLiteral compiles a function value at the point it's used
// (a function expression, or a getter/setter's anonymous function): unlike
// a declaration, its CLOSURE is emitted right where the expression sits,
// not hoisted into the enclosing body's prologue. isAccessor is carried for
// callers that need to tell the two apart in future diagnostics; nothing
// here currently depends on it, since an accessor function's formals and
// body compile identically to a plain function expression's.
func (p *Parser) parseFunctionLiteral(name string, isAccessor bool) IValue {
	pos := p.pos()
	formals := p.parseFormalParameterList()
	fnum := p.compileOrSkipFunction(name, formals, pos)

	dst := p.FS.AllocTemp(pos)
	p.E.EmitABC2(bytecode.CLOSURE, dst, fnum)
	return ivPlain(bytecode.Reg(dst))
}
