package compiler

import "testing"

func TestLookupActiveRegisterBindingFindsBoundName(t *testing.T) {
	fs := NewFuncState(nil, "<test>")
	fs.Varmap["x"] = 3
	reg, ok := lookupActiveRegisterBinding(fs, "x")
	if !ok || reg != 3 {
		t.Fatalf("expected x bound to register 3, got reg=%d ok=%v", reg, ok)
	}
}

func TestLookupActiveRegisterBindingFailsUnderWith(t *testing.T) {
	fs := NewFuncState(nil, "<test>")
	fs.Varmap["x"] = 3
	fs.WithDepth = 1
	if _, ok := lookupActiveRegisterBinding(fs, "x"); ok {
		t.Fatalf("expected a bound name to be untrusted once inside a with block")
	}
}

func TestLookupActiveRegisterBindingFailsAfterDirectEval(t *testing.T) {
	fs := NewFuncState(nil, "<test>")
	fs.Varmap["x"] = 3
	fs.SetMayDirectEval()
	if _, ok := lookupActiveRegisterBinding(fs, "x"); ok {
		t.Fatalf("expected a bound name to be untrusted once the function may run a direct eval")
	}
}

func TestResolveIdentifierMarksAccessesSlowOnUnboundName(t *testing.T) {
	fs := NewFuncState(nil, "<test>")
	iv := resolveIdentifier(fs, "y")
	if !iv.Unbound {
		t.Fatalf("expected an unbound name to resolve as Unbound")
	}
	if !fs.AccessesSlow() {
		t.Fatalf("expected resolving an unbound name to mark AccessesSlow")
	}
}
