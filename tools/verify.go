// Package tools implements static checks over a compiled
// template.FunctionTemplate tree, the Go-native analogue of the teacher's
// tools/lint.go: instead of linting assembly source for undefined labels
// and unreachable code, Verify checks the emitter's own self-consistency
// invariants (spec.md section 8) against the bytecode it actually
// produced, the same severity-tagged issue list style as LintIssue.
package tools

import (
	"fmt"

	"github.com/go-ecma/es5c/bytecode"
	"github.com/go-ecma/es5c/template"
)

// IssueLevel mirrors the teacher's LintLevel: every finding here is fatal
// to the emitted program's correctness, so the only level in use is Error,
// kept as a type for parity with the teacher's severity-tagged issue list
// and to leave room for a future non-fatal warning category.
type IssueLevel int

const (
	IssueError IssueLevel = iota
)

func (l IssueLevel) String() string {
	if l == IssueError {
		return "error"
	}
	return "unknown"
}

// Issue is one verification finding against a single template in the tree.
type Issue struct {
	Level   IssueLevel
	Func    string // the offending template's Name ("" for the program itself)
	PC      int    // -1 when the finding isn't tied to one instruction
	Message string
	Code    string
}

func (i *Issue) String() string {
	name := i.Func
	if name == "" {
		name = "<program>"
	}
	if i.PC < 0 {
		return fmt.Sprintf("%s: %s: %s [%s]", name, i.Level, i.Message, i.Code)
	}
	return fmt.Sprintf("%s pc %d: %s: %s [%s]", name, i.PC, i.Level, i.Message, i.Code)
}

// Verify walks root and every nested template, checking three of spec.md
// section 8's invariants: register-watermark ordering, in-bounds jump
// targets, and that each real TRYCATCH carries a catch or finally flag.
// Opcode/shape consistency and the instructions following a TRYCATCH are
// not checked. It returns every violation found rather than stopping at
// the first.
func Verify(root *template.FunctionTemplate) []*Issue {
	var issues []*Issue
	verifyOne(root, &issues)
	return issues
}

func verifyOne(t *template.FunctionTemplate, issues *[]*Issue) {
	verifyRegisterWatermarks(t, issues)
	verifyJumps(t, issues)
	verifyTryCatch(t, issues)
	for _, fn := range t.Funcs {
		verifyOne(fn, issues)
	}
}

// verifyRegisterWatermarks checks spec.md section 8's "nregs >= nargs"
// invariant: a template's register file must be large enough to hold every
// formal parameter it was given.
func verifyRegisterWatermarks(t *template.FunctionTemplate, issues *[]*Issue) {
	if t.NRegs < t.NArgs {
		*issues = append(*issues, &Issue{
			Level: IssueError, Func: t.Name, PC: -1,
			Message: fmt.Sprintf("nregs (%d) < nargs (%d)", t.NRegs, t.NArgs),
			Code:    "NREGS_LT_NARGS",
		})
	}
}

// verifyJumps checks spec.md section 8 invariant 2: every JUMP's decoded
// target must land inside the instruction stream (one past the end is
// allowed, matching a jump that forwards control straight to the body's
// implicit final RETURN).
func verifyJumps(t *template.FunctionTemplate, issues *[]*Issue) {
	for pc, word := range t.Code {
		d := bytecode.Decode(word)
		if d.Op != bytecode.JUMP {
			continue
		}
		target := bytecode.JumpTarget(pc, d.ABC)
		if target < 0 || target > len(t.Code) {
			*issues = append(*issues, &Issue{
				Level: IssueError, Func: t.Name, PC: pc,
				Message: fmt.Sprintf("JUMP target %d out of bounds (len %d)", target, len(t.Code)),
				Code:    "JUMP_OUT_OF_BOUNDS",
			})
		}
	}
}

// verifyTryCatch checks spec.md section 8 invariant for TRYCATCH: a real
// try (not a `with` scope push) must carry the catch flag, the finally
// flag, or both. Whether the matching ENDTRY/ENDCATCH/ENDFIN instructions
// are present is not checked.
func verifyTryCatch(t *template.FunctionTemplate, issues *[]*Issue) {
	for pc, word := range t.Code {
		d := bytecode.Decode(word)
		if d.Op != bytecode.TRYCATCH {
			continue
		}
		if d.BC == trycatchFlagWithBindingValue {
			continue
		}
		hasCatch := d.BC&trycatchFlagHasCatchValue != 0
		hasFinally := d.BC&trycatchFlagHasFinallyValue != 0
		if !hasCatch && !hasFinally {
			*issues = append(*issues, &Issue{
				Level: IssueError, Func: t.Name, PC: pc,
				Message: "TRYCATCH has neither a catch nor a finally clause",
				Code:    "TRYCATCH_EMPTY",
			})
		}
	}
}

// These mirror the unexported flag bits compiler/stmt.go packs into
// TRYCATCH's BC field; duplicated here (rather than imported) since the
// compiler package has no public API for them and verification is meant to
// hold even against hand-assembled bytecode, not just this compiler's own
// output.
const (
	trycatchFlagHasCatchValue    = 1
	trycatchFlagHasFinallyValue  = 2
	trycatchFlagWithBindingValue = 1 << 4
)
