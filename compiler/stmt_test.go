package compiler

import (
	"testing"

	"github.com/go-ecma/es5c/bytecode"
)

func TestTailCallEligibleInsideWith(t *testing.T) {
	src := `function f(o){ with (o) { return g(1); } }`
	tmpl, err := Compile(src, "<test>", 0)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	fn := tmpl.Funcs[0]
	var sawTail bool
	for _, word := range fn.Code {
		d := bytecode.Decode(word)
		if d.Op != bytecode.CALL && d.Op != bytecode.CALLI {
			continue
		}
		if bytecode.CallFlag(d.A)&bytecode.TailCall != 0 {
			sawTail = true
		}
	}
	if !sawTail {
		t.Fatalf("expected a with-body return to remain tail-call eligible, code=%v", fn.Code)
	}
}

func TestSwitchWithDuplicateDefaultRejected(t *testing.T) {
	src := `function f(x){ switch (x) { default: break; default: break; } }`
	if _, err := Compile(src, "<test>", 0); err == nil {
		t.Fatalf("expected a duplicate default clause to be rejected")
	}
}

func TestWithStatementRejectedInStrictMode(t *testing.T) {
	src := `"use strict"; with (x) { }`
	if _, err := Compile(src, "<test>", 0); err == nil {
		t.Fatalf("expected 'with' to be rejected in strict mode")
	}
}
