// Package vm provides a read-only disassembler over a compiled
// template.FunctionTemplate tree. spec.md's Non-goals exclude executing
// bytecode (no register machine, no host object model); the disassembler
// and the instruction-shape table it walks are the one VM-adjacent surface
// SPEC_FULL.md keeps in scope, since this package's tests, the CLI's
// "-disasm" flag and the inspect browser need a human-readable view of what got
// emitted (grounded on the teacher's debugger/tui.go DisassemblyView, which
// renders the same kind of per-instruction listing for the running
// program's machine code).
package vm

import (
	"fmt"
	"strings"

	"github.com/go-ecma/es5c/bytecode"
	"github.com/go-ecma/es5c/template"
	"github.com/go-ecma/es5c/value"
)

// Disassemble renders t and, recursively, every nested template in its
// Funcs table, as an indented listing of "pc: MNEMONIC operands" lines.
func Disassemble(t *template.FunctionTemplate) string {
	var b strings.Builder
	disassemble(&b, t, 0, "")
	return b.String()
}

func disassemble(b *strings.Builder, t *template.FunctionTemplate, depth int, label string) {
	indent := strings.Repeat("  ", depth)
	name := t.Name
	if name == "" {
		name = "<anonymous>"
	}
	fmt.Fprintf(b, "%sfunction %s%s nregs=%d nargs=%d flags=%s\n", indent, label, name, t.NRegs, t.NArgs, formatFlags(t.Flags))
	for pc, word := range t.Code {
		line := template.LineForPC(t.PC2Line, pc)
		fmt.Fprintf(b, "%s  %4d [L%d] %s\n", indent, pc, line, formatInstr(t, word))
	}
	for i, fn := range t.Funcs {
		disassemble(b, fn, depth+1, fmt.Sprintf("#%d ", i))
	}
}

func formatFlags(f template.Flag) string {
	var names []string
	if f&template.FlagStrict != 0 {
		names = append(names, "strict")
	}
	if f&template.FlagCreateArgs != 0 {
		names = append(names, "createargs")
	}
	if f&template.FlagNewEnv != 0 {
		names = append(names, "newenv")
	}
	if f&template.FlagNameBinding != 0 {
		names = append(names, "namebinding")
	}
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ",")
}

// formatInstr decodes one instruction word against its opcode's declared
// Shape (bytecode.OpInfo) and renders its operands accordingly; an EXTRA
// instruction is rendered under its secondary mnemonic instead.
func formatInstr(t *template.FunctionTemplate, word uint32) string {
	d := bytecode.Decode(word)
	if d.Op == bytecode.EXTRA {
		return formatExtra(t, d)
	}
	op := d.Op
	switch op.Info().Shape {
	case bytecode.ShapeABC1:
		return fmt.Sprintf("%-8s %d", op, d.ABC)
	case bytecode.ShapeABC2:
		return fmt.Sprintf("%-8s a%d, %d", op, d.A, d.BC)
	case bytecode.ShapeABC3:
		flags := callFlagSuffix(op, d.A)
		return fmt.Sprintf("%-8s a%d, %s, %s%s", op, d.A, formatRC(t, d.B), formatRC(t, d.C), flags)
	default:
		return fmt.Sprintf("%-8s ?", op)
	}
}

func callFlagSuffix(op bytecode.Op, a int) string {
	if op != bytecode.CALL && op != bytecode.CALLI {
		return ""
	}
	var names []string
	if bytecode.CallFlag(a)&bytecode.EvalCall != 0 {
		names = append(names, "eval")
	}
	if bytecode.CallFlag(a)&bytecode.TailCall != 0 {
		names = append(names, "tail")
	}
	if len(names) == 0 {
		return ""
	}
	return " ; " + strings.Join(names, "+")
}

func formatExtra(t *template.FunctionTemplate, d bytecode.Decoded) string {
	sub := d.Extra
	switch sub.Info().Shape {
	case bytecode.ShapeExtraBC:
		return fmt.Sprintf("%-8s %d", sub, d.BC)
	default:
		return fmt.Sprintf("%-8s %s, %s", sub, formatRC(t, d.B), formatRC(t, d.C))
	}
}

// formatRC renders a regconst as "rN" or, for a constant, "kN=<value>" so a
// disassembly reader doesn't have to cross-reference the constant pool by
// hand.
func formatRC(t *template.FunctionTemplate, rc bytecode.RegConst) string {
	if !rc.IsConst() {
		return rc.String()
	}
	idx := rc.Index()
	if idx < 0 || idx >= len(t.Consts) {
		return rc.String()
	}
	return fmt.Sprintf("%s=%s", rc, formatConst(t.Consts[idx]))
}

func formatConst(v value.Value) string {
	switch v.Kind() {
	case value.Undefined:
		return "undefined"
	case value.Null:
		return "null"
	case value.Boolean:
		return fmt.Sprintf("%t", v.AsBool())
	case value.Number:
		return fmt.Sprintf("%g", v.AsNumber())
	case value.String:
		return fmt.Sprintf("%q", v.AsString())
	default:
		return "?"
	}
}
