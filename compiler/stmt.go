package compiler

import (
	"github.com/go-ecma/es5c/bytecode"
	"github.com/go-ecma/es5c/lexer"
	"github.com/go-ecma/es5c/value"
)

// stmt.go is the recursive-descent statement parser (spec.md section 4.8):
// full statement dispatch, directive prologue recognition, automatic
// semicolon insertion, the four for/for-in variants, switch compilation,
// try/catch/finally, and the compiler's recursion guard.

// maxStatementRecursion bounds nested statement and assignment-expression
// compilation (spec.md section 4.8's recursion guard; ParseStatement and
// ParseAssignExpr share FuncState.RecursionDepth): a source file of deeply
// nested blocks or parenthesized expressions cannot run this compiler out
// of its own Go stack budget unnoticed.
const maxStatementRecursion = 256

// ParseStatement dispatches on the current token to the right statement
// production.
func (p *Parser) ParseStatement() {
	p.FS.RecursionDepth++
	if p.FS.RecursionDepth > maxStatementRecursion {
		throwCompileError(rangeErrorf(p.pos(), "statement nesting too deep (max %d)", maxStatementRecursion))
	}
	defer func() { p.FS.RecursionDepth-- }()

	mark := p.FS.MarkTemp()
	defer p.FS.ReleaseTempsTo(mark)

	switch p.C.Cur.Kind {
	case lexer.LBrace:
		p.parseBlock()
	case lexer.KeywordVar:
		p.parseVarStatement()
	case lexer.Semicolon:
		p.C.Advance()
	case lexer.KeywordIf:
		p.parseIfStatement()
	case lexer.KeywordDo:
		p.parseDoWhileStatement(nil)
	case lexer.KeywordWhile:
		p.parseWhileStatement(nil)
	case lexer.KeywordFor:
		p.parseForStatement(nil)
	case lexer.KeywordContinue:
		p.parseContinueStatement()
	case lexer.KeywordBreak:
		p.parseBreakStatement()
	case lexer.KeywordReturn:
		p.parseReturnStatement()
	case lexer.KeywordWith:
		p.parseWithStatement()
	case lexer.KeywordSwitch:
		p.parseSwitchStatement(nil)
	case lexer.KeywordThrow:
		p.parseThrowStatement()
	case lexer.KeywordTry:
		p.parseTryStatement()
	case lexer.KeywordDebugger:
		p.C.Advance()
		p.consumeSemicolon()
	case lexer.KeywordFunction:
		p.parseFunctionDeclaration()
	case lexer.Identifier:
		if p.peekIsLabelColon() {
			p.parseLabelledStatement()
		} else {
			p.parseExpressionStatement()
		}
	default:
		p.parseExpressionStatement()
	}
}

// peekIsLabelColon reports whether the current identifier is immediately
// followed by ":", making this a LabelledStatement rather than an
// ExpressionStatement (ECMAScript 5.1 section 12.12). The cursor only looks
// one token ahead, so this saves the identifier, advances, checks, then
// restores if it turns out not to be a label.
func (p *Parser) peekIsLabelColon() bool {
	save := p.C.Save()
	p.C.Advance()
	isLabel := p.C.Cur.Kind == lexer.Colon
	p.C.Restore(save)
	return isLabel
}

func (p *Parser) parseBlock() {
	p.C.AdvanceExpect(lexer.LBrace)
	for p.C.Cur.Kind != lexer.RBrace && p.C.Cur.Kind != lexer.EOF {
		p.ParseStatement()
	}
	p.C.AdvanceExpect(lexer.RBrace)
}

// consumeSemicolon implements automatic semicolon insertion (ECMAScript 5.1
// section 7.9): an explicit ";" is always accepted; otherwise the statement
// end is inferred when the next token is "}", EOF, or was preceded by a
// LineTerminator.
func (p *Parser) consumeSemicolon() {
	if p.C.Cur.Kind == lexer.Semicolon {
		p.C.Advance()
		return
	}
	if p.C.Cur.Kind == lexer.RBrace || p.C.Cur.Kind == lexer.EOF || p.C.Cur.NewlineBefore {
		return
	}
	throwCompileError(syntaxErrorf(p.C.Cur.Pos, "expected ';', got %s", p.C.Cur.Kind))
}

// --- variable statements ------------------------------------------------

func (p *Parser) parseVarStatement() {
	p.C.AdvanceExpect(lexer.KeywordVar)
	p.parseVarDeclList(true)
	p.consumeSemicolon()
}

// parseVarDeclList parses one or more "Identifier (= AssignExpr)?" entries;
// used both by the var statement and by for(;;)'s optional var-initializer.
func (p *Parser) parseVarDeclList(allowIn bool) {
	for {
		pos := p.pos()
		name := p.expectBindingIdentifier()
		if p.FS.InScanning() {
			p.FS.Decls = append(p.FS.Decls, Decl{Name: name, Kind: DeclVar})
		}
		if p.C.Cur.Kind == lexer.Assign {
			p.C.Advance()
			val := p.ParseAssignExpr(allowIn)
			target := resolveIdentifier(p.FS, name)
			p.IV.Store(target, val, pos)
		}
		if p.C.Cur.Kind != lexer.Comma {
			break
		}
		p.C.Advance()
	}
}

// expectBindingIdentifier consumes an Identifier token usable as a binding
// name, rejecting reserved words and (in strict mode) "eval"/"arguments"
// and the strict-only reserved word set (ECMAScript 5.1 section 10.1.1).
func (p *Parser) expectBindingIdentifier() string {
	if p.C.Cur.Kind != lexer.Identifier {
		if lexer.StrictReservedWords[p.C.Cur.Kind] && !p.FS.IsStrict() {
			name := p.C.Cur.Raw
			p.C.Advance()
			return name
		}
		throwCompileError(syntaxErrorf(p.C.Cur.Pos, "expected an identifier, got %s", p.C.Cur.Kind))
	}
	name := p.C.Cur.Raw
	if p.FS.IsStrict() && (name == "eval" || name == "arguments") {
		throwCompileError(syntaxErrorf(p.C.Cur.Pos, "cannot bind %q in strict mode", name))
	}
	p.C.Advance()
	return name
}

// --- if ------------------------------------------------------------------

func (p *Parser) parseIfStatement() {
	p.C.AdvanceExpect(lexer.KeywordIf)
	p.C.AdvanceExpect(lexer.LParen)
	cond := p.ParseExpression(true)
	p.C.AdvanceExpect(lexer.RParen)

	condRC := p.IV.ToRegConst(cond, AllowConst, p.pos())
	jfalse := p.emitBranchIfFalse(condRC)
	p.ParseStatement()

	if p.C.Cur.Kind == lexer.KeywordElse {
		jend := p.E.EmitJumpEmpty()
		p.E.PatchJumpHere(jfalse)
		p.C.Advance()
		p.ParseStatement()
		p.E.PatchJumpHere(jend)
	} else {
		p.E.PatchJumpHere(jfalse)
	}
}

// --- loops -----------------------------------------------------------

func (p *Parser) parseWhileStatement(labels []string) {
	p.C.AdvanceExpect(lexer.KeywordWhile)
	p.C.AdvanceExpect(lexer.LParen)

	top := p.E.PC()
	cond := p.ParseExpression(true)
	p.C.AdvanceExpect(lexer.RParen)
	condRC := p.IV.ToRegConst(cond, AllowConst, p.pos())
	jend := p.emitBranchIfFalse(condRC)

	lbl := p.FS.PushLabel("", top)
	lbl.Flags = AllowBreak | AllowContinue
	AttachPendingLabels(p.FS, labels)
	nlabels := max(1, len(labels))

	p.ParseStatement()
	jback := p.E.EmitJumpEmpty()
	p.E.PatchJump(jback, top)
	p.E.PatchJumpHere(jend)
	p.resolvePendingBreaks(lbl.ID)
	p.FS.PopLabels(nlabels)
}

func (p *Parser) parseDoWhileStatement(labels []string) {
	p.C.AdvanceExpect(lexer.KeywordDo)
	top := p.E.PC()

	lbl := p.FS.PushLabel("", top)
	lbl.Flags = AllowBreak | AllowContinue
	AttachPendingLabels(p.FS, labels)
	nlabels := max(1, len(labels))

	p.ParseStatement()
	p.C.AdvanceExpect(lexer.KeywordWhile)
	p.C.AdvanceExpect(lexer.LParen)
	cond := p.ParseExpression(true)
	p.C.AdvanceExpect(lexer.RParen)
	// ASI after do-while's ")" is unconditional (ECMAScript 5.1 7.9.1).
	if p.C.Cur.Kind == lexer.Semicolon {
		p.C.Advance()
	}

	condRC := p.IV.ToRegConst(cond, AllowConst, p.pos())
	jtrue := p.emitBranchIfTrue(condRC)
	p.E.PatchJump(jtrue, top)
	p.resolvePendingBreaks(lbl.ID)
	p.FS.PopLabels(nlabels)
}

// parseForStatement handles all four grammar variants: C-style for(;;),
// for(var ...;;), for(... in ...), and for(var ... in ...) (ECMAScript 5.1
// section 12.6.3/12.6.4). The variant isn't known until after the first
// clause is parsed, since "for (x" could lead into either "; ..." or
// " in ...".
func (p *Parser) parseForStatement(labels []string) {
	p.C.AdvanceExpect(lexer.KeywordFor)
	p.C.AdvanceExpect(lexer.LParen)

	if p.C.Cur.Kind == lexer.KeywordVar {
		p.C.Advance()
		pos := p.pos()
		name := p.expectBindingIdentifier()
		if p.FS.InScanning() {
			p.FS.Decls = append(p.FS.Decls, Decl{Name: name, Kind: DeclVar})
		}
		if p.C.Cur.Kind == lexer.KeywordIn {
			p.parseForInRest(func() IValue { return resolveIdentifier(p.FS, name) }, labels)
			return
		}
		var initVal *IValue
		if p.C.Cur.Kind == lexer.Assign {
			p.C.Advance()
			v := p.ParseAssignExpr(false)
			initVal = &v
		}
		if initVal != nil {
			p.IV.Store(resolveIdentifier(p.FS, name), *initVal, pos)
		}
		if p.C.Cur.Kind == lexer.Comma {
			p.C.Advance()
			p.parseVarDeclList(false)
		}
		p.C.AdvanceExpect(lexer.Semicolon)
		p.parseForCStyleRest(labels)
		return
	}

	if p.C.Cur.Kind != lexer.Semicolon {
		mark := p.FS.MarkTemp()
		first := p.ParseExpression(false)
		if p.C.Cur.Kind == lexer.KeywordIn {
			p.FS.ReleaseTempsTo(mark)
			p.parseForInRest(func() IValue { return first }, labels)
			return
		}
		p.IV.ToPlain(first, 0, p.pos())
		p.FS.ReleaseTempsTo(mark)
	}
	p.C.AdvanceExpect(lexer.Semicolon)
	p.parseForCStyleRest(labels)
}

// parseForCStyleRest compiles the body of a C-style for loop once the
// initializer clause and its terminating ";" have already been consumed.
func (p *Parser) parseForCStyleRest(labels []string) {
	condPC := p.E.PC()
	var jend int
	haveCond := p.C.Cur.Kind != lexer.Semicolon
	if haveCond {
		cond := p.ParseExpression(true)
		condRC := p.IV.ToRegConst(cond, AllowConst, p.pos())
		jend = p.emitBranchIfFalse(condRC)
	}
	p.C.AdvanceExpect(lexer.Semicolon)

	// The update clause is parsed here but must execute *after* the body,
	// so it is compiled into its own instruction range and then wrapped
	// with a jump over it for the first iteration's fall-through, mirroring
	// how loops with separate test/update/body sections are laid out.
	jumpToBody := p.E.EmitJumpEmpty()
	updatePC := p.E.PC()
	if p.C.Cur.Kind != lexer.RParen {
		update := p.ParseExpression(true)
		p.IV.ToPlain(update, 0, p.pos())
	}
	jbackToCond := p.E.EmitJumpEmpty()
	p.E.PatchJump(jbackToCond, condPC)
	p.C.AdvanceExpect(lexer.RParen)

	p.E.PatchJumpHere(jumpToBody)
	lbl := p.FS.PushLabel("", updatePC)
	lbl.Flags = AllowBreak | AllowContinue
	AttachPendingLabels(p.FS, labels)
	nlabels := max(1, len(labels))

	p.ParseStatement()
	jToUpdate := p.E.EmitJumpEmpty()
	p.E.PatchJump(jToUpdate, updatePC)
	if haveCond {
		p.E.PatchJumpHere(jend)
	}
	p.resolvePendingBreaks(lbl.ID)
	p.FS.PopLabels(nlabels)
}

// parseForInRest compiles "for (lhs in expr) stmt" once "in" has just been
// reached; lhs is supplied as a thunk since the caller may have parsed it
// either as a fresh "var name" binding or as a general left-hand-side
// expression.
func (p *Parser) parseForInRest(lhs func() IValue, labels []string) {
	p.C.AdvanceExpect(lexer.KeywordIn)
	obj := p.ParseExpression(true)
	p.C.AdvanceExpect(lexer.RParen)

	objRC := p.IV.ToRegConst(obj, AllowConst, p.pos())
	enumReg := p.FS.AllocTemp(p.pos())
	p.E.EmitExtraB_C(bytecode.INITENUM, bytecode.Reg(enumReg), objRC)

	top := p.E.PC()
	keyReg := p.FS.AllocTemp(p.pos())
	// NEXTENUM writes the next key into keyReg and, by the register-
	// adjacency convention spec.md section 4.3 documents for enumerator
	// state, writes its "more keys remain" boolean into keyReg+1.
	p.FS.AllocTemp(p.pos())
	p.E.EmitExtraB_C(bytecode.NEXTENUM, bytecode.Reg(keyReg), bytecode.Reg(enumReg))
	jdone := p.emitBranchIfFalse(bytecode.Reg(keyReg + 1))

	p.IV.Store(lhs(), ivPlain(bytecode.Reg(keyReg)), p.pos())

	lbl := p.FS.PushLabel("", top)
	lbl.Flags = AllowBreak | AllowContinue
	AttachPendingLabels(p.FS, labels)
	nlabels := max(1, len(labels))

	p.ParseStatement()
	jback := p.E.EmitJumpEmpty()
	p.E.PatchJump(jback, top)
	p.E.PatchJumpHere(jdone)
	p.resolvePendingBreaks(lbl.ID)
	p.FS.PopLabels(nlabels)
}

// --- break / continue --------------------------------------------------

func (p *Parser) parseContinueStatement() {
	pos := p.pos()
	p.C.AdvanceExpect(lexer.KeywordContinue)
	name := p.readOptionalLabelName()
	l := LookupActiveLabel(p.FS, name, AllowContinue, pos)
	jmp := p.E.EmitJumpEmpty()
	p.E.PatchJump(jmp, l.PC)
	p.consumeSemicolon()
}

func (p *Parser) parseBreakStatement() {
	pos := p.pos()
	p.C.AdvanceExpect(lexer.KeywordBreak)
	name := p.readOptionalLabelName()
	l := LookupActiveLabel(p.FS, name, AllowBreak, pos)
	// break targets "just past" the construct; the label entry's PC is the
	// continue target, not the construct's end, so breaks are patched
	// via a forward-reference fixup list keyed by label ID instead.
	jmp := p.E.EmitJumpEmpty()
	p.pendingBreaks[l.ID] = append(p.pendingBreaks[l.ID], jmp)
	p.consumeSemicolon()
}

// readOptionalLabelName reads a break/continue's optional label, respecting
// ASI: a label reference must be on the same source line as the keyword.
func (p *Parser) readOptionalLabelName() string {
	if p.C.Cur.Kind == lexer.Identifier && !p.C.Cur.NewlineBefore {
		name := p.C.Cur.Raw
		p.C.Advance()
		return name
	}
	return ""
}

// --- return / throw / debugger -----------------------------------------

func (p *Parser) parseReturnStatement() {
	pos := p.pos()
	p.C.AdvanceExpect(lexer.KeywordReturn)
	if !p.FS.IsFunction() {
		throwCompileError(syntaxErrorf(pos, "return outside of a function"))
	}
	if p.C.Cur.Kind == lexer.Semicolon || p.C.Cur.Kind == lexer.RBrace || p.C.Cur.NewlineBefore || p.C.Cur.Kind == lexer.EOF {
		p.E.EmitABC3(bytecode.RETURN, 0, bytecode.Const(p.FS.InternConst(value.Undef())), bytecode.Reg(0))
		p.consumeSemicolon()
		return
	}
	v := p.ParseExpression(true)
	rc := p.IV.ToRegConst(v, AllowConst, pos)
	p.markTailCall(v, pos)
	p.E.EmitABC3(bytecode.RETURN, 0, rc, bytecode.Reg(0))
	p.consumeSemicolon()
}

// markTailCall implements spec.md section 4.7's tail-call back-patch: if
// the expression just parsed is exactly the unmodified result of a call
// (the last instruction emitted is that CALL/CALLI and v still names its
// base register directly, with nothing materializing it further), and no
// enclosing catch could observe the call's completion differently,
// back-patch TailCall onto that instruction. The RETURN that reads the
// call's base register is still emitted right after it.
func (p *Parser) markTailCall(v IValue, pos lexer.Position) {
	if p.FS.CatchDepth != 0 {
		return
	}
	pc := p.E.PC() - 1
	if pc < 0 || v.Kind != IPlain || v.RC.IsConst() {
		return
	}
	d := bytecode.Decode(p.FS.Code[pc].Word)
	if (d.Op != bytecode.CALL && d.Op != bytecode.CALLI) || d.B != v.RC {
		return
	}
	word, err := bytecode.EncodeABC3(d.Op, d.A|int(bytecode.TailCall), d.B, d.C)
	if err != nil {
		throwCompileError(internalErrorf(pos, "%s", err))
	}
	p.FS.Code[pc].Word = word
}

func (p *Parser) parseThrowStatement() {
	pos := p.pos()
	p.C.AdvanceExpect(lexer.KeywordThrow)
	if p.C.Cur.NewlineBefore {
		throwCompileError(syntaxErrorf(pos, "illegal newline after throw"))
	}
	v := p.ParseExpression(true)
	rc := p.IV.ToRegConst(v, AllowConst, pos)
	p.E.EmitABC3(bytecode.THROW, 0, rc, bytecode.Reg(0))
	p.consumeSemicolon()
}

// --- with ----------------------------------------------------------------

func (p *Parser) parseWithStatement() {
	pos := p.pos()
	if p.FS.IsStrict() {
		throwCompileError(syntaxErrorf(pos, "'with' statement is not allowed in strict mode"))
	}
	p.C.AdvanceExpect(lexer.KeywordWith)
	p.C.AdvanceExpect(lexer.LParen)
	obj := p.ParseExpression(true)
	p.C.AdvanceExpect(lexer.RParen)

	rc := p.IV.ToRegConst(obj, AllowConst, pos)
	reg := p.materializeToReg(rc, pos)
	// TRYCATCH's flags distinguish a genuine catch clause from a `with`
	// scope push (spec.md supplemented feature, section C): a `with` does
	// not count toward catch_depth the way an actual catch block does, so
	// label lookups across a `with` boundary still see the same depth.
	p.E.EmitABC2(bytecode.TRYCATCH, reg, trycatchFlagWithBinding)
	p.FS.WithDepth++
	p.ParseStatement()
	p.FS.WithDepth--
	p.E.EmitABC1(bytecode.ENDTRY, 0)
}

const trycatchFlagWithBinding = 1 << 4

// --- switch --------------------------------------------------------------

// parseSwitchStatement compiles all case tests into one chain first, then
// lays out every clause body contiguously in source order right after
// (ECMAScript 5.1 section 12.11: once a clause is entered, execution falls
// through the clauses that lexically follow it regardless of their own
// test, so their code must be contiguous rather than interleaved with the
// next clause's test). Because each clause's body is compiled before the
// final switch-end PC is known, it is first compiled into a scratch
// instruction buffer (fs.Code swapped out and back in) and only copied into
// the real buffer once every clause's start address is being assigned in
// order; jump instructions are relative-offset encoded, so a whole buffer
// shifting by a constant amount when copied in place leaves every jump
// internal to that buffer still correct.
func (p *Parser) parseSwitchStatement(labels []string) {
	pos := p.pos()
	p.C.AdvanceExpect(lexer.KeywordSwitch)
	p.C.AdvanceExpect(lexer.LParen)
	disc := p.ParseExpression(true)
	p.C.AdvanceExpect(lexer.RParen)
	discRC := p.IV.ToRegConst(disc, RequireTemp, pos)

	lbl := p.FS.PushLabel("", p.E.PC())
	lbl.Flags = AllowBreak
	AttachPendingLabels(p.FS, labels)
	nlabels := max(1, len(labels))

	p.C.AdvanceExpect(lexer.LBrace)

	type clauseRec struct {
		testJumpPC int // -1 for default
		code       []bytecode.Instr
		breakLo    int
		breakHi    int
	}
	var clauses []clauseRec
	defaultIdx := -1

	for p.C.Cur.Kind != lexer.RBrace {
		testJumpPC := -1
		isDefault := false
		if p.C.Cur.Kind == lexer.KeywordDefault {
			p.C.Advance()
			p.C.AdvanceExpect(lexer.Colon)
			isDefault = true
		} else {
			p.C.AdvanceExpect(lexer.KeywordCase)
			tpos := p.pos()
			test := p.ParseAssignExpr(true)
			p.C.AdvanceExpect(lexer.Colon)
			testRC := p.IV.ToRegConst(test, AllowConst, tpos)
			eqReg := p.FS.AllocTemp(tpos)
			p.E.EmitABC3(bytecode.CSEQ, eqReg, discRC, testRC)
			testJumpPC = p.emitBranchIfTrue(bytecode.Reg(eqReg))
		}

		savedCode := p.FS.Code
		p.FS.Code = nil
		breakLo := len(p.pendingBreaks[lbl.ID])
		for p.C.Cur.Kind != lexer.KeywordCase && p.C.Cur.Kind != lexer.KeywordDefault && p.C.Cur.Kind != lexer.RBrace {
			p.ParseStatement()
		}
		breakHi := len(p.pendingBreaks[lbl.ID])
		clauseCode := p.FS.Code
		p.FS.Code = savedCode

		if isDefault {
			if defaultIdx >= 0 {
				throwCompileError(syntaxErrorf(p.pos(), "switch statement may have at most one default clause"))
			}
			defaultIdx = len(clauses)
		}
		clauses = append(clauses, clauseRec{testJumpPC: testJumpPC, code: clauseCode, breakLo: breakLo, breakHi: breakHi})
	}
	p.C.AdvanceExpect(lexer.RBrace)

	// No test matched: fall into the default clause if there is one,
	// otherwise skip straight past the switch.
	noMatchJump := p.E.EmitJumpEmpty()

	for i, c := range clauses {
		start := len(p.FS.Code)
		if c.testJumpPC >= 0 {
			p.E.PatchJump(c.testJumpPC, start)
		}
		if i == defaultIdx {
			p.E.PatchJump(noMatchJump, start)
		}
		p.FS.Code = append(p.FS.Code, c.code...)
		for k := c.breakLo; k < c.breakHi; k++ {
			p.pendingBreaks[lbl.ID][k] += start
		}
	}

	end := len(p.FS.Code)
	if defaultIdx < 0 {
		p.E.PatchJump(noMatchJump, end)
	}
	p.resolvePendingBreaks(lbl.ID)
	p.FS.PopLabels(nlabels)
}

// --- try/catch/finally -----------------------------------------------

// TRYCATCH flag bits (ABC2 shape: A names the register the caught exception
// value is bound into, BC carries these flags). trycatchFlagWithBinding
// (parseWithStatement) reuses the same instruction for a `with` scope push,
// per spec.md's supplemented feature: a `with` doesn't count toward
// CatchDepth the way a real catch clause does.
const (
	trycatchFlagHasCatch = 1 << iota
	trycatchFlagHasFinally
)

func (p *Parser) parseTryStatement() {
	pos := p.pos()
	p.C.AdvanceExpect(lexer.KeywordTry)

	catchReg := p.FS.AllocTemp(pos)
	tryPC := p.E.EmitABC2(bytecode.TRYCATCH, catchReg, 0)
	p.FS.CatchDepth++
	p.parseBlock()
	p.FS.CatchDepth--
	p.E.EmitABC1(bytecode.ENDTRY, 0)

	hasCatch := p.C.Cur.Kind == lexer.KeywordCatch
	if hasCatch {
		p.C.Advance()
		p.C.AdvanceExpect(lexer.LParen)
		name := p.expectBindingIdentifier()
		p.C.AdvanceExpect(lexer.RParen)

		// A conservative catch-bound name is marked "declared but not
		// register bound" (spec.md section C's supplemented feature): any
		// inner reference to it must fall to the slow path, since the
		// catch binding shadows whatever register the same name might
		// otherwise have held. The previous entry is restored after the
		// catch block.
		prev, hadPrev := p.FS.Varmap[name]
		p.FS.Varmap[name] = notBoundRegister
		p.FS.CatchDepth++
		p.parseBlock()
		p.FS.CatchDepth--
		if hadPrev {
			p.FS.Varmap[name] = prev
		} else {
			delete(p.FS.Varmap, name)
		}
		p.E.EmitABC1(bytecode.ENDCATCH, 0)
	}

	hasFinally := p.C.Cur.Kind == lexer.KeywordFinally
	if hasFinally {
		p.C.Advance()
		p.parseBlock()
		p.E.EmitABC3(bytecode.ENDFIN, 0, bytecode.Reg(0), bytecode.Reg(0))
	}

	if !hasCatch && !hasFinally {
		throwCompileError(syntaxErrorf(pos, "missing catch or finally after try"))
	}

	flags := 0
	if hasCatch {
		flags |= trycatchFlagHasCatch
	}
	if hasFinally {
		flags |= trycatchFlagHasFinally
	}
	word, err := bytecode.EncodeABC2(bytecode.TRYCATCH, catchReg, flags)
	if err != nil {
		throwCompileError(internalErrorf(pos, "%s", err))
	}
	p.FS.Code[tryPC].Word = word
}

// --- labelled statements -------------------------------------------------

func (p *Parser) parseLabelledStatement() {
	var names []string
	for p.C.Cur.Kind == lexer.Identifier && p.peekIsLabelColon() {
		names = append(names, p.C.Cur.Raw)
		p.C.Advance()
		p.C.AdvanceExpect(lexer.Colon)
	}
	switch p.C.Cur.Kind {
	case lexer.KeywordFor:
		p.parseForStatement(names)
	case lexer.KeywordWhile:
		p.parseWhileStatement(names)
	case lexer.KeywordDo:
		p.parseDoWhileStatement(names)
	case lexer.KeywordSwitch:
		p.parseSwitchStatement(names)
	default:
		lbl := p.FS.PushLabel(names[0], p.E.PC())
		lbl.Flags = AllowBreak
		AttachPendingLabels(p.FS, names[1:])
		p.ParseStatement()
		p.resolvePendingBreaks(lbl.ID)
		p.FS.PopLabels(len(names))
	}
}

// --- expression statement -------------------------------------------

func (p *Parser) parseExpressionStatement() {
	pos := p.pos()
	if p.C.Cur.Kind == lexer.LBrace {
		throwCompileError(internalErrorf(pos, "block reached parseExpressionStatement"))
	}
	v := p.ParseExpression(true)
	if p.FS.RegStmtValue >= 0 {
		rc := p.IV.ToRegConst(v, AllowConst, pos)
		p.E.EmitMove(p.FS.RegStmtValue, p.materializeToReg(rc, pos))
	} else {
		p.IV.ToPlain(v, 0, pos)
	}
	p.consumeSemicolon()
}
