package compiler

import (
	"strings"
	"testing"

	"github.com/go-ecma/es5c/bytecode"
	"github.com/go-ecma/es5c/template"
)

func TestDirectEvalSetsEvalCallAndMayDirectEval(t *testing.T) {
	src := `function f(){ return eval(x); }`
	tmpl, err := Compile(src, "<test>", 0)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if len(tmpl.Funcs) != 1 {
		t.Fatalf("expected one nested function, got %d", len(tmpl.Funcs))
	}
	fn := tmpl.Funcs[0]
	if fn.Varmap == nil {
		t.Fatalf("expected varmap retained for a may-direct-eval function")
	}

	var sawEvalCall bool
	for _, word := range fn.Code {
		d := bytecode.Decode(word)
		if d.Op != bytecode.CALL && d.Op != bytecode.CALLI {
			continue
		}
		if bytecode.CallFlag(d.A)&bytecode.EvalCall != 0 {
			sawEvalCall = true
		}
	}
	if !sawEvalCall {
		t.Fatalf("expected a CALL with EvalCall set, code=%v", fn.Code)
	}
}

func TestTailCallBackpatchesCall(t *testing.T) {
	src := `function f(){ return g(1,2); }`
	tmpl, err := Compile(src, "<test>", 0)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	fn := tmpl.Funcs[0]

	if len(fn.Code) == 0 {
		t.Fatalf("expected non-empty body")
	}
	lastCallIdx := -1
	for i, word := range fn.Code {
		d := bytecode.Decode(word)
		if d.Op == bytecode.CALL || d.Op == bytecode.CALLI {
			lastCallIdx = i
		}
	}
	if lastCallIdx < 0 {
		t.Fatalf("expected a CALL instruction, code=%v", fn.Code)
	}
	d := bytecode.Decode(fn.Code[lastCallIdx])
	if bytecode.CallFlag(d.A)&bytecode.TailCall == 0 {
		t.Fatalf("expected TailCall set on the trailing CALL")
	}

	// No separate RETURN should read from a fresh register after the call;
	// the very next instruction should be the RETURN that completes the
	// tail call using the call's own base register.
	if lastCallIdx+1 >= len(fn.Code) {
		t.Fatalf("expected a RETURN following the tail call")
	}
	ret := bytecode.Decode(fn.Code[lastCallIdx+1])
	if ret.Op != bytecode.RETURN {
		t.Fatalf("expected RETURN right after the tail-called CALL, got %s", ret.Op)
	}
	if ret.B.IsConst() || ret.B != d.B {
		t.Fatalf("expected RETURN to read the call's own base register")
	}
}

func TestTailCallNotSetInsideCatch(t *testing.T) {
	src := `function f(){ try { return g(1); } catch (e) {} }`
	tmpl, err := Compile(src, "<test>", 0)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	fn := tmpl.Funcs[0]
	for _, word := range fn.Code {
		d := bytecode.Decode(word)
		if d.Op != bytecode.CALL && d.Op != bytecode.CALLI {
			continue
		}
		if bytecode.CallFlag(d.A)&bytecode.TailCall != 0 {
			t.Fatalf("did not expect TailCall inside a try/catch")
		}
	}
}

func TestLexErrorFailsCompile(t *testing.T) {
	_, err := Compile("var x = 'unterminated", "<test>", 0)
	if err == nil {
		t.Fatalf("expected a syntax error from an unterminated string literal")
	}
	if !strings.Contains(err.Error(), "SyntaxError") {
		t.Fatalf("expected a SyntaxError, got %v", err)
	}
}

func TestDirectiveProloguePicksUpUseStrict(t *testing.T) {
	src := `function f(){ "use strict"; return 1; }`
	tmpl, err := Compile(src, "<test>", 0)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	fn := tmpl.Funcs[0]
	if !fn.HasFlag(template.FlagStrict) {
		t.Fatalf("expected strict flag on the function template")
	}
}

func TestEvalProgramHasStatementCompletionValue(t *testing.T) {
	tmpl, err := Compile("1 + 2;", "<test>", Eval)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if len(tmpl.Code) == 0 {
		t.Fatalf("expected emitted code for eval completion value")
	}
	last := bytecode.Decode(tmpl.Code[len(tmpl.Code)-1])
	if last.Op != bytecode.RETURN {
		t.Fatalf("expected trailing RETURN, got %s", last.Op)
	}
}
