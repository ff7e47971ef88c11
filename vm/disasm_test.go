package vm

import (
	"strings"
	"testing"

	"github.com/go-ecma/es5c/compiler"
)

func TestDisassembleRendersNestedFunctions(t *testing.T) {
	tmpl, err := compiler.Compile(`function outer() { function inner(x) { return x; } return inner; }`, "<test>", 0)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	out := Disassemble(tmpl)
	if !strings.Contains(out, "function ") {
		t.Fatalf("expected a function header line, got:\n%s", out)
	}
	if !strings.Contains(out, "inner") {
		t.Fatalf("expected the nested function's name to appear, got:\n%s", out)
	}
}

func TestDisassembleAnnotatesEvalAndTailCalls(t *testing.T) {
	tmpl, err := compiler.Compile(`function f(){ return eval(x); }`, "<test>", 0)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	out := Disassemble(tmpl)
	if !strings.Contains(out, "eval") || !strings.Contains(out, "tail") {
		t.Fatalf("expected both eval and tail annotations on the call, got:\n%s", out)
	}
}
