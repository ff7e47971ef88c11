package compiler

import (
	"strings"
	"testing"
)

func TestObjectLiteralGetterSetterPairCompiles(t *testing.T) {
	src := `var o = { get x() { return 1; }, set x(v) { } };`
	if _, err := Compile(src, "<test>", 0); err != nil {
		t.Fatalf("expected a getter/setter pair to compile, got %v", err)
	}
}

func TestObjectLiteralDuplicateDataPropertyRejectedInStrictMode(t *testing.T) {
	src := `"use strict"; var o = { a: 1, a: 2 };`
	_, err := Compile(src, "<test>", 0)
	if err == nil {
		t.Fatalf("expected a duplicate-property error in strict mode")
	}
	if !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("expected a duplicate-property message, got %v", err)
	}
}

func TestObjectLiteralDuplicateDataPropertyAllowedLoose(t *testing.T) {
	src := `var o = { a: 1, a: 2 };`
	if _, err := Compile(src, "<test>", 0); err != nil {
		t.Fatalf("expected duplicate data properties to be allowed outside strict mode, got %v", err)
	}
}

func TestObjectLiteralDataAndAccessorMixRejected(t *testing.T) {
	src := `var o = { a: 1, get a() { return 1; } };`
	_, err := Compile(src, "<test>", 0)
	if err == nil {
		t.Fatalf("expected a data/accessor mix to be rejected")
	}
}

func TestLabeledBreakFindsEnclosingLoop(t *testing.T) {
	src := `function f(){ outer: for (;;) { for (;;) { break outer; } } }`
	if _, err := Compile(src, "<test>", 0); err != nil {
		t.Fatalf("expected a labeled break to compile, got %v", err)
	}
}

func TestLabeledContinueOnNonLoopIsRejected(t *testing.T) {
	src := `function f(){ lbl: { continue lbl; } }`
	_, err := Compile(src, "<test>", 0)
	if err == nil {
		t.Fatalf("expected 'continue' naming a block label to be rejected")
	}
}

func TestUndefinedLabelIsRejected(t *testing.T) {
	src := `function f(){ for (;;) { break nosuch; } }`
	_, err := Compile(src, "<test>", 0)
	if err == nil {
		t.Fatalf("expected an undefined label to be rejected")
	}
}

func TestBareBreakOutsideLoopIsRejected(t *testing.T) {
	src := `function f(){ break; }`
	_, err := Compile(src, "<test>", 0)
	if err == nil {
		t.Fatalf("expected a bare break outside any loop or switch to be rejected")
	}
}
