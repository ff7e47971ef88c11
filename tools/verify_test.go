package tools

import (
	"strings"
	"testing"

	"github.com/go-ecma/es5c/compiler"
)

func TestVerifyReportsNoIssuesForWellFormedProgram(t *testing.T) {
	tmpl, err := compiler.Compile(`function f(a, b) { try { return a + b; } catch (e) { return 0; } }`, "<test>", 0)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if issues := Verify(tmpl); len(issues) != 0 {
		t.Fatalf("expected no issues, got %v", issues)
	}
}

func TestVerifyRecursesIntoNestedTemplates(t *testing.T) {
	tmpl, err := compiler.Compile(`function outer() { function inner(x) { return x; } return inner; }`, "<test>", 0)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	// A well-formed nested function must not itself produce findings.
	if issues := Verify(tmpl); len(issues) != 0 {
		t.Fatalf("expected no issues from a well-formed nested function, got %v", issues)
	}
}

func TestIssueStringIncludesFuncPCAndCode(t *testing.T) {
	iss := &Issue{Level: IssueError, Func: "f", PC: 3, Message: "boom", Code: "TEST_CODE"}
	s := iss.String()
	if s == "" {
		t.Fatalf("expected a non-empty formatted issue")
	}
	for _, want := range []string{"f", "pc 3", "TEST_CODE"} {
		if !strings.Contains(s, want) {
			t.Fatalf("expected %q in formatted issue %q", want, s)
		}
	}
}
