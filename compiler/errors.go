package compiler

import (
	"fmt"

	"github.com/go-ecma/es5c/lexer"
)

// ErrorKind classifies a compile failure per spec.md section 7's taxonomy.
type ErrorKind int

const (
	ErrSyntax ErrorKind = iota
	ErrRange
	ErrInternal
)

func (k ErrorKind) String() string {
	switch k {
	case ErrSyntax:
		return "SyntaxError"
	case ErrRange:
		return "RangeError"
	case ErrInternal:
		return "InternalError"
	default:
		return "Error"
	}
}

// CompileError is the single error type the compiler raises. The compiler
// never recovers from one mid-compile (spec.md section 7): the first
// CompileError produced unwinds all the way out of Compile.
type CompileError struct {
	Kind    ErrorKind
	Pos     lexer.Position
	Message string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Pos, e.Kind, e.Message)
}

func syntaxErrorf(pos lexer.Position, format string, args ...interface{}) *CompileError {
	return &CompileError{Kind: ErrSyntax, Pos: pos, Message: fmt.Sprintf(format, args...)}
}

func rangeErrorf(pos lexer.Position, format string, args ...interface{}) *CompileError {
	return &CompileError{Kind: ErrRange, Pos: pos, Message: fmt.Sprintf(format, args...)}
}

func internalErrorf(pos lexer.Position, format string, args ...interface{}) *CompileError {
	return &CompileError{Kind: ErrInternal, Pos: pos, Message: fmt.Sprintf(format, args...)}
}

// throwCompileError panics with a CompileError; recovered only at the
// Compile entry point (compile.go), matching spec.md section 7's
// "propagation policy": the host catches a single protected call and the
// compiler itself never recovers partway through.
func throwCompileError(e *CompileError) {
	panic(e)
}
