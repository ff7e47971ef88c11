// Package compiler_test holds black-box integration suites against the
// compiler package's public API, mirroring the teacher's tests/unit/<pkg>
// layout (e.g. tests/unit/parser) rather than compiler's own in-package
// _test.go files, which exercise unexported helpers directly.
package compiler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-ecma/es5c/bytecode"
	"github.com/go-ecma/es5c/compiler"
)

// TestDirectEvalAndTailCallCoexistScenario reproduces spec.md section 8's
// scenario combining direct-eval detection and tail-call elimination in one
// function body: a call to eval() earlier in the body must not suppress a
// later, unrelated tail call's eligibility.
func TestDirectEvalAndTailCallCoexistScenario(t *testing.T) {
	src := `function f(x) {
		eval(x);
		return g(x);
	}`
	tmpl, err := compiler.Compile(src, "<test>", 0)
	require.NoError(t, err)
	require.Len(t, tmpl.Funcs, 1)
	fn := tmpl.Funcs[0]

	assert.NotNil(t, fn.Varmap, "varmap must be retained once a function may run a direct eval")

	var sawEval, sawTail bool
	for _, word := range fn.Code {
		d := bytecode.Decode(word)
		if d.Op != bytecode.CALL && d.Op != bytecode.CALLI {
			continue
		}
		if bytecode.CallFlag(d.A)&bytecode.EvalCall != 0 {
			sawEval = true
		}
		if bytecode.CallFlag(d.A)&bytecode.TailCall != 0 {
			sawTail = true
		}
	}
	assert.True(t, sawEval, "expected the eval(x) call to be flagged EvalCall")
	assert.True(t, sawTail, "expected the trailing return g(x) to be flagged TailCall")
}

// TestLexicalFailureNeverProducesAPartialTemplate covers spec.md section 7's
// "no partial template is produced" guarantee across a representative set
// of lexical failures, not just an unterminated string.
func TestLexicalFailureNeverProducesAPartialTemplate(t *testing.T) {
	cases := map[string]string{
		"unterminated string":  `var x = "unterminated;`,
		"unterminated comment": `var x = 1; /* oops`,
		"bad unicode escape":   `var x\u00; `,
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			tmpl, err := compiler.Compile(src, "<test>", 0)
			require.Error(t, err)
			assert.Nil(t, tmpl)
		})
	}
}

// TestEvalProgramCompletionValueScenario checks spec.md section 8's eval
// completion-value scenario: the last statement's value must be the
// program's overall result, even across a conditional.
func TestEvalProgramCompletionValueScenario(t *testing.T) {
	tmpl, err := compiler.Compile(`if (true) { 1; } else { 2; }`, "<test>", compiler.Eval)
	require.NoError(t, err)
	require.NotEmpty(t, tmpl.Code)
	last := bytecode.Decode(tmpl.Code[len(tmpl.Code)-1])
	assert.Equal(t, bytecode.RETURN, last.Op)
	require.False(t, last.B.IsConst(), "the final RETURN must read the completion-value register")

	// Each branch's expression statement writes its value into the
	// register the final RETURN reads.
	writes := 0
	for _, word := range tmpl.Code[:len(tmpl.Code)-1] {
		d := bytecode.Decode(word)
		if d.Op == bytecode.LDREG && bytecode.Reg(d.A) == last.B {
			writes++
		}
	}
	assert.Equal(t, 2, writes, "both branches must write the completion-value register")
}
