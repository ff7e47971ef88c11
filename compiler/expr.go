package compiler

import (
	"github.com/go-ecma/es5c/bytecode"
	"github.com/go-ecma/es5c/lexer"
	"github.com/go-ecma/es5c/value"
)

// expr.go is the Pratt-style expression parser (spec.md section 4.7):
// nud (prefix/primary) and led (infix/postfix) handling driven off a
// binding-power table, built on top of the IVALUE engine so arithmetic on
// literal operands folds away before anything is emitted.

// binOp describes one left-associative binary operator: its binding power,
// the opcode it compiles to, and whether it is foldable arithmetic.
type binOp struct {
	lbp   int
	op    bytecode.Op
	fold  bool
}

var binOps = map[lexer.Kind]binOp{
	lexer.OrOr:           {1, 0, false}, // handled specially (short-circuit)
	lexer.AndAnd:         {2, 0, false}, // handled specially (short-circuit)
	lexer.Pipe:           {3, bytecode.BOR, false},
	lexer.Caret:          {4, bytecode.BXOR, false},
	lexer.Amp:            {5, bytecode.BAND, false},
	lexer.Eq:             {6, bytecode.CEQ, false},
	lexer.Ne:             {6, bytecode.CNEQ, false},
	lexer.StrictEq:       {6, bytecode.CSEQ, false},
	lexer.StrictNe:       {6, bytecode.CSNEQ, false},
	lexer.Lt:             {7, bytecode.CLT, false},
	lexer.Gt:             {7, bytecode.CGT, false},
	lexer.Le:             {7, bytecode.CLE, false},
	lexer.Ge:             {7, bytecode.CGE, false},
	lexer.KeywordInstanceof: {7, bytecode.INSTOF, false},
	lexer.KeywordIn:      {7, bytecode.INOP, false},
	lexer.LShift:         {8, bytecode.SHL, false},
	lexer.RShift:         {8, bytecode.SHR, false},
	lexer.URShift:        {8, bytecode.USHR, false},
	lexer.Plus:           {9, bytecode.ADD, true},
	lexer.Minus:          {9, bytecode.SUB, true},
	lexer.Star:           {10, bytecode.MUL, true},
	lexer.Slash:          {10, bytecode.DIV, true},
	lexer.Percent:        {10, bytecode.MOD, true},
}

var assignOps = map[lexer.Kind]bytecode.Op{
	lexer.PlusAssign:     bytecode.ADD,
	lexer.MinusAssign:    bytecode.SUB,
	lexer.StarAssign:     bytecode.MUL,
	lexer.SlashAssign:    bytecode.DIV,
	lexer.PercentAssign:  bytecode.MOD,
	lexer.LShiftAssign:   bytecode.SHL,
	lexer.RShiftAssign:   bytecode.SHR,
	lexer.URShiftAssign:  bytecode.USHR,
	lexer.AmpAssign:      bytecode.BAND,
	lexer.PipeAssign:     bytecode.BOR,
	lexer.CaretAssign:    bytecode.BXOR,
}

// maxArrayInitBatch and maxObjectInitBatch bound how many elements a single
// MPUTARR/MPUTOBJ instruction initializes before the compiler starts a new
// batch (spec.md section 4.7: kept small so register pressure for a literal
// stays bounded regardless of its length).
const (
	maxArrayInitBatch  = 20
	maxObjectInitBatch = 10
)

// ParseExpression parses a full comma-separated expression, evaluating
// every operand (for side effects) but yielding only the last one's value.
func (p *Parser) ParseExpression(allowIn bool) IValue {
	v := p.ParseAssignExpr(allowIn)
	for p.C.Cur.Kind == lexer.Comma {
		p.C.Advance()
		mark := p.FS.MarkTemp()
		p.IV.ToPlain(v, 0, p.pos())
		p.FS.ReleaseTempsTo(mark)
		v = p.ParseAssignExpr(allowIn)
	}
	return v
}

// ParseAssignExpr parses an assignment expression: a conditional
// expression, optionally followed by "=" or a compound assignment operator
// and a right-hand assignment expression (right-associative).
func (p *Parser) ParseAssignExpr(allowIn bool) IValue {
	pos := p.pos()
	p.FS.RecursionDepth++
	if p.FS.RecursionDepth > maxStatementRecursion {
		throwCompileError(rangeErrorf(pos, "expression nesting too deep (max %d)", maxStatementRecursion))
	}
	defer func() { p.FS.RecursionDepth-- }()
	lhs := p.parseConditional(allowIn)

	if p.C.Cur.Kind == lexer.Assign {
		p.checkAssignTarget(lhs, pos)
		p.C.Advance()
		rhs := p.ParseAssignExpr(allowIn)
		p.IV.Store(lhs, rhs, pos)
		return rhs
	}
	if op, ok := assignOps[p.C.Cur.Kind]; ok {
		p.checkAssignTarget(lhs, pos)
		p.C.Advance()
		rhs := p.ParseAssignExpr(allowIn)
		lhsRC := p.IV.ToRegConst(lhs, 0, pos)
		rhsRC := p.IV.ToRegConst(rhs, AllowConst, pos)
		dst := p.FS.AllocTemp(pos)
		p.E.EmitABC3(op, dst, lhsRC, rhsRC)
		result := ivPlain(bytecode.Reg(dst))
		p.IV.Store(lhs, result, pos)
		return result
	}
	return lhs
}

// checkAssignTarget rejects assigning to anything but an identifier or
// property reference, and (in strict mode) to "eval"/"arguments" (ECMAScript
// 5.1 section 11.13.1).
func (p *Parser) checkAssignTarget(v IValue, pos lexer.Position) {
	switch v.Kind {
	case IVar:
		if p.FS.IsStrict() && (v.Name == "eval" || v.Name == "arguments") {
			throwCompileError(syntaxErrorf(pos, "cannot assign to %q in strict mode", v.Name))
		}
	case IProp:
	default:
		throwCompileError(syntaxErrorf(pos, "invalid assignment target"))
	}
}

func (p *Parser) parseConditional(allowIn bool) IValue {
	cond := p.parseBinary(1, allowIn)
	if p.C.Cur.Kind != lexer.Question {
		return cond
	}
	pos := p.pos()
	p.C.Advance()

	condRC := p.IV.ToRegConst(cond, AllowConst, pos)
	jfalse := p.emitBranchIfFalse(condRC)

	dst := p.FS.AllocTemp(pos)
	thenVal := p.ParseAssignExpr(true)
	thenRC := p.IV.ToRegConst(thenVal, AllowConst, pos)
	p.E.EmitMove(dst, p.materializeToReg(thenRC, pos))
	jend := p.E.EmitJumpEmpty()

	p.E.PatchJumpHere(jfalse)
	p.C.AdvanceExpect(lexer.Colon)
	elseVal := p.ParseAssignExpr(allowIn)
	elseRC := p.IV.ToRegConst(elseVal, AllowConst, pos)
	p.E.EmitMove(dst, p.materializeToReg(elseRC, pos))
	p.E.PatchJumpHere(jend)

	return ivPlain(bytecode.Reg(dst))
}

// emitBranchIfFalse and emitBranchIfTrue compile a conditional branch as the
// IF/JUMP pair spec.md section 4.3 describes: IF's A operand selects
// whether it skips the instruction immediately following it (always a
// JUMP, here) when its B operand is truthy (A=1) or falsy (A=0); the paired
// JUMP therefore executes in exactly the opposite case, landing on whatever
// target is patched in later.
func (p *Parser) emitBranchIfFalse(condRC bytecode.RegConst) int {
	p.E.EmitABC3(bytecode.IF, 1, condRC, bytecode.Reg(0))
	return p.E.EmitJumpEmpty()
}

func (p *Parser) emitBranchIfTrue(condRC bytecode.RegConst) int {
	p.E.EmitABC3(bytecode.IF, 0, condRC, bytecode.Reg(0))
	return p.E.EmitJumpEmpty()
}

// materializeToReg forces rc into an addressable register, loading a
// constant operand through LDCONST first if necessary.
func (p *Parser) materializeToReg(rc bytecode.RegConst, pos lexer.Position) int {
	if !rc.IsConst() {
		return rc.Index()
	}
	t := p.FS.AllocTemp(pos)
	p.E.EmitLoadConst(t, rc.Index())
	return t
}

// parseBinary implements precedence-climbing over binOps, short-circuiting
// "&&"/"||" specially since they must not evaluate their right operand
// unconditionally.
func (p *Parser) parseBinary(minPrec int, allowIn bool) IValue {
	lhs := p.parseUnary()
	for {
		k := p.C.Cur.Kind
		if k == lexer.KeywordIn && !allowIn {
			break
		}
		info, ok := binOps[k]
		if !ok || info.lbp < minPrec {
			break
		}
		pos := p.pos()
		p.C.Advance()

		if k == lexer.AndAnd || k == lexer.OrOr {
			lhs = p.parseLogical(lhs, k, allowIn, pos)
			continue
		}

		rhs := p.parseBinary(info.lbp+1, allowIn)
		if info.fold {
			if folded, ok := foldBinaryNumeric(info.op, lhs, rhs); ok {
				lhs = folded
				continue
			}
		}
		lhsRC := p.IV.ToRegConst(lhs, AllowConst, pos)
		rhsRC := p.IV.ToRegConst(rhs, AllowConst, pos)
		dst := p.FS.AllocTemp(pos)
		p.E.EmitABC3(info.op, dst, lhsRC, rhsRC)
		lhs = ivPlain(bytecode.Reg(dst))
	}
	return lhs
}

// parseLogical compiles "&&"/"||": the right operand is only evaluated (and
// only then copied into the shared result register) when the left operand's
// truthiness doesn't already decide the expression.
func (p *Parser) parseLogical(lhs IValue, op lexer.Kind, allowIn bool, pos lexer.Position) IValue {
	lhsRC := p.IV.ToRegConst(lhs, AllowConst, pos)
	dst := p.FS.AllocTemp(pos)
	p.E.EmitMove(dst, p.materializeToReg(lhsRC, pos))

	// "&&" skips rhs (keeping dst == lhs) when lhs is already falsy; "||"
	// skips rhs when lhs is already truthy.
	var skip int
	if op == lexer.AndAnd {
		skip = p.emitBranchIfFalse(bytecode.Reg(dst))
	} else {
		skip = p.emitBranchIfTrue(bytecode.Reg(dst))
	}

	rhs := p.parseBinary(binOps[op].lbp+1, allowIn)
	rhsRC := p.IV.ToRegConst(rhs, AllowConst, pos)
	p.E.EmitMove(dst, p.materializeToReg(rhsRC, pos))
	p.E.PatchJumpHere(skip)

	return ivPlain(bytecode.Reg(dst))
}

// parseUnary handles prefix operators: delete, void, typeof, ++, --, +, -,
// ~, !.
func (p *Parser) parseUnary() IValue {
	pos := p.pos()
	switch p.C.Cur.Kind {
	case lexer.KeywordDelete:
		p.C.Advance()
		target := p.parseUnary()
		return p.compileDelete(target, pos)

	case lexer.KeywordVoid:
		p.C.Advance()
		p.IV.ToPlain(p.parseUnary(), 0, pos)
		return ivConst(value.Undef())

	case lexer.KeywordTypeof:
		p.C.Advance()
		operand := p.parseUnary()
		rc := p.IV.ToRegConst(operand, AllowConst, pos)
		dst := p.FS.AllocTemp(pos)
		p.E.EmitExtraB_C(bytecode.TYPEOF, bytecode.Reg(dst), rc)
		return ivPlain(bytecode.Reg(dst))

	case lexer.PlusPlus, lexer.MinusMinus:
		isInc := p.C.Cur.Kind == lexer.PlusPlus
		p.C.Advance()
		target := p.parseUnary()
		return p.compileIncDec(target, isInc, true, pos)

	case lexer.Plus:
		p.C.Advance()
		v := p.parseUnary()
		if v.Kind == IArith && v.Const.Kind() == value.Number {
			return v
		}
		rc := p.IV.ToRegConst(v, AllowConst, pos)
		dst := p.FS.AllocTemp(pos)
		p.E.EmitExtraB_C(bytecode.TONUM, bytecode.Reg(dst), rc)
		return ivPlain(bytecode.Reg(dst))

	case lexer.Minus:
		p.C.Advance()
		v := p.parseUnary()
		if folded, ok := foldUnaryMinus(v); ok {
			return folded
		}
		rc := p.IV.ToRegConst(v, AllowConst, pos)
		dst := p.FS.AllocTemp(pos)
		p.E.EmitABC3(bytecode.SUB, dst, bytecode.Const(p.FS.InternConst(value.Num(0))), rc)
		return ivPlain(bytecode.Reg(dst))

	case lexer.Tilde, lexer.Not:
		isNot := p.C.Cur.Kind == lexer.Not
		p.C.Advance()
		v := p.parseUnary()
		rc := p.IV.ToRegConst(v, AllowConst, pos)
		dst := p.FS.AllocTemp(pos)
		if isNot {
			p.E.EmitABC3(bytecode.CEQ, dst, rc, bytecode.Const(p.FS.InternConst(value.Bool(false))))
		} else {
			p.E.EmitABC3(bytecode.BXOR, dst, rc, bytecode.Const(p.FS.InternConst(value.Num(-1))))
		}
		return ivPlain(bytecode.Reg(dst))
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() IValue {
	v := p.parseLeftHandSide(true)
	if !p.C.Cur.NewlineBefore && (p.C.Cur.Kind == lexer.PlusPlus || p.C.Cur.Kind == lexer.MinusMinus) {
		pos := p.pos()
		isInc := p.C.Cur.Kind == lexer.PlusPlus
		p.C.Advance()
		return p.compileIncDec(v, isInc, false, pos)
	}
	return v
}

// compileIncDec compiles both prefix and postfix ++/--. Prefix yields the
// updated value; postfix yields the pre-update value (ECMAScript 5.1
// sections 11.3, 11.4.4-11.4.5).
func (p *Parser) compileIncDec(target IValue, isInc, prefix bool, pos lexer.Position) IValue {
	p.checkAssignTarget(target, pos)
	cur := p.IV.ToRegConst(target, 0, pos)
	// Postfix yields ToNumber of the prior value, copied out before INC/DEC
	// and the store below overwrite the binding.
	prior := -1
	if !prefix {
		prior = p.FS.AllocTemp(pos)
		p.E.EmitExtraB_C(bytecode.TONUM, bytecode.Reg(prior), cur)
	}
	old := p.FS.AllocTemp(pos)
	sub := bytecode.ExtraOp(bytecode.DEC)
	if isInc {
		sub = bytecode.INC
	}
	p.E.EmitExtraB_C(sub, bytecode.Reg(old), cur)
	p.IV.Store(target, ivPlain(bytecode.Reg(old)), pos)
	if prefix {
		return ivPlain(bytecode.Reg(old))
	}
	return ivPlain(bytecode.Reg(prior))
}

// compileDelete compiles "delete expr": deleting a property yields a
// boolean; deleting anything else that isn't a reference is a no-op that
// yields true (ECMAScript 5.1 section 11.4.1).
func (p *Parser) compileDelete(target IValue, pos lexer.Position) IValue {
	switch target.Kind {
	case IProp:
		// DELPROP has only two regconst slots (the EXTRA shape's A is taken
		// by the sub-opcode), so it reads base out of one of them and
		// overwrites that same register with the boolean result in place;
		// the base operand is therefore forced into a fresh register rather
		// than left as a const or a shared variable binding.
		baseRC := p.IV.ToRegConst(*target.Base, RequireTemp, pos)
		keyRC := p.IV.ToRegConst(*target.Key, AllowConst, pos)
		p.E.EmitExtraB_C(bytecode.DELPROP, baseRC, keyRC)
		return ivPlain(baseRC)
	case IVar:
		if target.Unbound {
			dst := p.FS.AllocTemp(pos)
			nameConst := p.FS.InternConst(value.Str(target.Name))
			p.E.EmitExtraB_C(bytecode.DELVAR, bytecode.Reg(dst), bytecode.Const(nameConst))
			return ivPlain(bytecode.Reg(dst))
		}
		return ivConst(value.Bool(false))
	default:
		p.IV.ToPlain(target, 0, pos)
		return ivConst(value.Bool(true))
	}
}

// parseLeftHandSide parses NewExpression/CallExpression/MemberExpression:
// "new" chains, "()" calls, "[...]" and "." member access, left to right.
func (p *Parser) parseLeftHandSide(allowCall bool) IValue {
	var v IValue
	if p.C.Cur.Kind == lexer.KeywordNew {
		v = p.parseNewExpr()
	} else {
		v = p.parsePrimary()
	}
	for {
		switch p.C.Cur.Kind {
		case lexer.Dot:
			p.C.Advance()
			if p.C.Cur.Kind != lexer.Identifier && lexer.LookupIdentifier(p.C.Cur.Raw) == lexer.Identifier {
				// allow keyword-as-property-name per ES5.1 IdentifierName production
			}
			name := p.C.Cur.Raw
			p.C.NoteDottedIdentifier()
			p.C.Advance()
			key := ivConst(value.Str(name))
			v = IValue{Kind: IProp, Base: ivHeap(v), Key: ivHeap(key)}

		case lexer.LBracket:
			p.C.Advance()
			key := p.ParseExpression(true)
			p.C.AdvanceExpect(lexer.RBracket)
			v = IValue{Kind: IProp, Base: ivHeap(v), Key: ivHeap(key)}

		case lexer.LParen:
			if !allowCall {
				return v
			}
			v = p.parseCall(v)

		default:
			return v
		}
	}
}

func ivHeap(v IValue) *IValue {
	cp := v
	return &cp
}

// parseNewExpr parses "new Callee(args)" or bare "new Callee" (implicit
// empty argument list), including chained "new new Foo()()".
func (p *Parser) parseNewExpr() IValue {
	pos := p.pos()
	p.C.AdvanceExpect(lexer.KeywordNew)
	var callee IValue
	if p.C.Cur.Kind == lexer.KeywordNew {
		callee = p.parseNewExpr()
	} else {
		callee = p.parseLeftHandSide(false)
	}
	var args []IValue
	if p.C.Cur.Kind == lexer.LParen {
		args = p.parseArguments()
	}
	return p.compileNew(callee, args, pos)
}

func (p *Parser) compileNew(callee IValue, args []IValue, pos lexer.Position) IValue {
	base := p.setupCallBase(callee, pos, false)
	for _, a := range args {
		reg := p.FS.AllocTemp(pos)
		rc := p.IV.ToRegConst(a, AllowConst, pos)
		p.E.EmitMove(reg, p.materializeToReg(rc, pos))
		p.FS.ReleaseTempsTo(reg + 1)
	}
	dst := p.FS.AllocTemp(pos)
	p.E.EmitCounted(bytecode.NEW, dst, bytecode.Reg(base), len(args))
	return ivPlain(bytecode.Reg(dst))
}

func (p *Parser) parseArguments() []IValue {
	p.C.AdvanceExpect(lexer.LParen)
	var args []IValue
	for p.C.Cur.Kind != lexer.RParen {
		args = append(args, p.ParseAssignExpr(true))
		if p.C.Cur.Kind != lexer.Comma {
			break
		}
		p.C.Advance()
	}
	p.C.AdvanceExpect(lexer.RParen)
	return args
}

// parseCall also implements spec.md section 4.7's direct-eval detection: a
// call whose syntactic callee is the bare identifier "eval" (bound or not;
// shadowing doesn't suppress the check, since a local "eval" might itself
// be reassigned at run time) sets EvalCall on the emitted instruction and
// marks the enclosing function as possibly running a direct eval, which
// forces every later identifier lookup in this function onto the slow path
// (resolve.go's lookupActiveRegisterBinding).
func (p *Parser) parseCall(callee IValue) IValue {
	pos := p.pos()
	args := p.parseArguments()
	withThis := callee.Kind == IProp
	base := p.setupCallBase(callee, pos, withThis)
	for _, a := range args {
		reg := p.FS.AllocTemp(pos)
		rc := p.IV.ToRegConst(a, AllowConst, pos)
		p.E.EmitMove(reg, p.materializeToReg(rc, pos))
		p.FS.ReleaseTempsTo(reg + 1)
	}
	var flags int
	if callee.Kind == IVar && callee.Name == "eval" {
		flags = int(bytecode.EvalCall)
		p.FS.SetMayDirectEval()
	}
	p.E.EmitCounted(bytecode.CALL, flags, bytecode.Reg(base), len(args))
	return ivPlain(bytecode.Reg(base))
}

// setupCallBase reserves the two leading registers of a call's contiguous
// register block, whatever the callee kind, and fills them with the
// appropriate CSVAR/CSREG/CSPROP instruction (spec.md section 4.7: a
// property-access callee's call setup also binds "this" to the base object
// it was read off). The caller places arg0, arg1, ... in the registers
// directly after the pair.
func (p *Parser) setupCallBase(callee IValue, pos lexer.Position, withThis bool) int {
	switch callee.Kind {
	case IProp:
		base := p.FS.AllocTemp(pos) // this
		p.FS.AllocTemp(pos)         // func, adjacent
		baseRC := p.IV.ToRegConst(*callee.Base, AllowConst, pos)
		keyRC := p.IV.ToRegConst(*callee.Key, AllowConst, pos)
		p.E.EmitABC3(bytecode.CSPROP, base, baseRC, keyRC)
		return base

	case IVar:
		if withThis {
			this := p.FS.AllocTemp(pos)
			p.FS.AllocTemp(pos)
			nameConst := p.FS.InternConst(value.Str(callee.Name))
			p.E.EmitABC2(bytecode.CSVAR, this, nameConst)
			return this
		}
		base := p.FS.AllocTemp(pos)
		p.FS.AllocTemp(pos)
		nameConst := p.FS.InternConst(value.Str(callee.Name))
		p.E.EmitABC2(bytecode.CSVAR, base, nameConst)
		return base

	default:
		base := p.FS.AllocTemp(pos)
		p.FS.AllocTemp(pos)
		rc := p.IV.ToRegConst(callee, AllowConst, pos)
		p.E.EmitABC3(bytecode.CSREG, base, rc, bytecode.Reg(0))
		return base
	}
}

// parsePrimary parses PrimaryExpression: identifiers, literals, "this",
// array/object literals, parenthesized expressions, and function
// expressions.
func (p *Parser) parsePrimary() IValue {
	pos := p.pos()
	switch p.C.Cur.Kind {
	case lexer.Identifier:
		name := p.C.Cur.Raw
		p.C.Advance()
		return resolveIdentifier(p.FS, name)

	case lexer.KeywordThis:
		p.C.Advance()
		dst := p.FS.AllocTemp(pos)
		p.E.EmitExtraB_C(bytecode.LDTHIS, bytecode.Reg(dst), bytecode.Reg(0))
		return ivPlain(bytecode.Reg(dst))

	case lexer.KeywordNull:
		p.C.Advance()
		return ivConst(value.Nul())

	case lexer.KeywordTrue:
		p.C.Advance()
		return ivConst(value.Bool(true))

	case lexer.KeywordFalse:
		p.C.Advance()
		return ivConst(value.Bool(false))

	case lexer.NumericLiteral:
		n := p.C.Cur.NumValue
		p.C.Advance()
		return ivConst(value.NumberNormalized(n))

	case lexer.StringLiteral:
		s := p.C.Cur.StrValue
		p.C.Advance()
		return ivConst(value.Str(s))

	case lexer.RegexLiteral:
		body, flags := p.C.Cur.StrValue, p.C.Cur.RegexFlags
		p.C.Advance()
		dst := p.FS.AllocTemp(pos)
		// REGEXP's single regconst operand carries both the pattern and its
		// flags, NUL-joined into one string constant (spec.md section 4.3).
		combined := p.FS.InternConst(value.Str(body + "\x00" + flags))
		p.E.EmitExtraB_C(bytecode.REGEXP, bytecode.Reg(dst), bytecode.Const(combined))
		return ivPlain(bytecode.Reg(dst))

	case lexer.LParen:
		p.C.Advance()
		v := p.ParseExpression(true)
		p.C.AdvanceExpect(lexer.RParen)
		return v

	case lexer.LBracket:
		return p.parseArrayLiteral()

	case lexer.LBrace:
		return p.parseObjectLiteral()

	case lexer.KeywordFunction:
		return p.parseFunctionExpr()
	}
	throwCompileError(syntaxErrorf(pos, "unexpected token %s", p.C.Cur.Kind))
	return IValue{}
}

func (p *Parser) parseArrayLiteral() IValue {
	pos := p.pos()
	p.C.AdvanceExpect(lexer.LBracket)
	dst := p.FS.AllocTemp(pos)
	p.E.EmitExtraB_C(bytecode.NEWARR, bytecode.Reg(dst), bytecode.Reg(0))

	index := 0
	var batch []bytecode.RegConst
	flush := func() {
		if len(batch) == 0 {
			return
		}
		base := p.FS.MarkTemp()
		for _, rc := range batch {
			reg := p.FS.AllocTemp(pos)
			p.E.EmitMove(reg, p.materializeToReg(rc, pos))
		}
		p.E.EmitCounted(bytecode.MPUTARR, dst, bytecode.Reg(base), len(batch))
		p.FS.ReleaseTempsTo(base)
		batch = nil
	}

	for p.C.Cur.Kind != lexer.RBracket {
		if p.C.Cur.Kind == lexer.Comma {
			// elision: a hole, counted but not stored (ECMAScript 5.1 11.1.4).
			batch = append(batch, bytecode.Const(p.FS.InternConst(value.Undef())))
			index++
			p.C.Advance()
			continue
		}
		el := p.ParseAssignExpr(true)
		batch = append(batch, p.IV.ToRegConst(el, AllowConst, pos))
		index++
		if len(batch) >= maxArrayInitBatch {
			flush()
		}
		if p.C.Cur.Kind == lexer.Comma {
			p.C.Advance()
		} else {
			break
		}
	}
	flush()
	p.C.AdvanceExpect(lexer.RBracket)
	p.E.EmitExtraB_C(bytecode.SETALEN, bytecode.Reg(dst), bytecode.Reg(index))
	return ivPlain(bytecode.Reg(dst))
}

func (p *Parser) parseObjectLiteral() IValue {
	pos := p.pos()
	p.C.AdvanceExpect(lexer.LBrace)
	dst := p.FS.AllocTemp(pos)
	p.E.EmitExtraB_C(bytecode.NEWOBJ, bytecode.Reg(dst), bytecode.Reg(0))

	seen := make(map[string]propKind)
	type kv struct {
		key bytecode.RegConst
		val bytecode.RegConst
	}
	var batch []kv
	flush := func() {
		if len(batch) == 0 {
			return
		}
		base := p.FS.MarkTemp()
		for _, e := range batch {
			kreg := p.FS.AllocTemp(pos)
			p.E.EmitMove(kreg, p.materializeToReg(e.key, pos))
			vreg := p.FS.AllocTemp(pos)
			p.E.EmitMove(vreg, p.materializeToReg(e.val, pos))
		}
		p.E.EmitCounted(bytecode.MPUTOBJ, dst, bytecode.Reg(base), len(batch))
		p.FS.ReleaseTempsTo(base)
		batch = nil
	}

	for p.C.Cur.Kind != lexer.RBrace {
		name, kindTag := p.parsePropertyName()
		switch kindTag {
		case propGetter, propSetter:
			fnVal := p.parseAccessorFunction(name)
			p.checkDuplicateAccessor(seen, name, kindTag, pos)
			keyRC := bytecode.Const(p.FS.InternConst(value.Str(name)))
			valRC := p.IV.ToRegConst(fnVal, AllowConst, pos)
			op := bytecode.INITGET
			if kindTag == propSetter {
				op = bytecode.INITSET
			}
			p.E.EmitABC3(op, dst, keyRC, valRC)
		default:
			p.checkDuplicateData(seen, name, pos)
			p.C.AdvanceExpect(lexer.Colon)
			val := p.ParseAssignExpr(true)
			batch = append(batch, kv{
				key: bytecode.Const(p.FS.InternConst(value.Str(name))),
				val: p.IV.ToRegConst(val, AllowConst, pos),
			})
			if len(batch) >= maxObjectInitBatch {
				flush()
			}
		}
		if p.C.Cur.Kind == lexer.Comma {
			p.C.Advance()
		} else {
			break
		}
	}
	flush()
	p.C.AdvanceExpect(lexer.RBrace)
	return ivPlain(bytecode.Reg(dst))
}

type propKind int

const (
	propData propKind = iota
	propGetter
	propSetter
)

// parsePropertyName reads an object literal's PropertyName, recognizing the
// "get"/"set" accessor prefixes (ECMAScript 5.1 section 11.1.5) when
// followed by another PropertyName rather than ":" or "(".
func (p *Parser) parsePropertyName() (string, propKind) {
	if (p.C.Cur.Raw == "get" || p.C.Cur.Raw == "set") && p.C.Cur.Kind == lexer.Identifier {
		tag := propGetter
		if p.C.Cur.Raw == "set" {
			tag = propSetter
		}
		p.C.Advance()
		if p.C.Cur.Kind == lexer.Colon || p.C.Cur.Kind == lexer.LParen {
			// it was a plain property literally named "get"/"set"
			name := "get"
			if tag == propSetter {
				name = "set"
			}
			return name, propData
		}
		name := p.readPropertyNameToken()
		return name, tag
	}
	return p.readPropertyNameToken(), propData
}

func (p *Parser) readPropertyNameToken() string {
	var name string
	switch p.C.Cur.Kind {
	case lexer.StringLiteral:
		name = p.C.Cur.StrValue
	case lexer.NumericLiteral:
		name = p.C.Cur.Raw
	default:
		name = p.C.Cur.Raw
	}
	p.C.Advance()
	return name
}

// parseAccessorFunction parses a getter/setter's anonymous function value.
func (p *Parser) parseAccessorFunction(name string) IValue {
	return p.parseFunctionLiteral("", true)
}

// checkDuplicateData and checkDuplicateAccessor enforce ECMAScript 5.1
// section 11.1.5's restrictions: in strict mode no PropertyName may be
// repeated across data properties (or a data/accessor mix); accessors may
// repeat only to pair a getter with a setter of the same name.
func (p *Parser) checkDuplicateData(seen map[string]propKind, name string, pos lexer.Position) {
	if k, ok := seen[name]; ok {
		if p.FS.IsStrict() || k != propData {
			throwCompileError(syntaxErrorf(pos, "duplicate property %q", name))
		}
	}
	seen[name] = propData
}

func (p *Parser) checkDuplicateAccessor(seen map[string]propKind, name string, tag propKind, pos lexer.Position) {
	if k, ok := seen[name]; ok && k != propData && k == tag {
		throwCompileError(syntaxErrorf(pos, "duplicate %s for property %q", map[propKind]string{propGetter: "getter", propSetter: "setter"}[tag], name))
	}
	if k, ok := seen[name]; ok && k == propData {
		throwCompileError(syntaxErrorf(pos, "property %q is both data and accessor", name))
	}
	seen[name] = tag
}
