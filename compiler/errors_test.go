package compiler

import (
	"strings"
	"testing"

	"github.com/go-ecma/es5c/lexer"
)

func TestCompileErrorStringIncludesKindAndPosition(t *testing.T) {
	pos := lexer.Position{Filename: "f.js", Line: 3, Column: 5}
	err := syntaxErrorf(pos, "unexpected %s", "token")
	s := err.Error()
	if !strings.Contains(s, "SyntaxError") || !strings.Contains(s, "f.js:3:5") || !strings.Contains(s, "unexpected token") {
		t.Fatalf("unexpected error string: %s", s)
	}
}

func TestErrorKindStrings(t *testing.T) {
	cases := map[ErrorKind]string{
		ErrSyntax:   "SyntaxError",
		ErrRange:    "RangeError",
		ErrInternal: "InternalError",
	}
	for kind, want := range cases {
		if got := kind.String(); got != want {
			t.Fatalf("ErrorKind(%d).String(): expected %s, got %s", kind, want, got)
		}
	}
}

func TestThrowCompileErrorPanicsWithCompileError(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected a panic")
		}
		if _, ok := r.(*CompileError); !ok {
			t.Fatalf("expected the panic value to be a *CompileError, got %T", r)
		}
	}()
	throwCompileError(rangeErrorf(lexer.Position{}, "too many locals"))
}
