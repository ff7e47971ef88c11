// Command es5c drives the compiler package from the command line: compile
// a file (or stdin) to a template.FunctionTemplate and optionally print its
// disassembly and constant pool, or drop into a line-at-a-time REPL that
// compiles each line as eval code (grounded on main.go's flag.Bool/String
// block and akashmaji946-go-mix/repl/repl.go's readline+color REPL).
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/go-ecma/es5c/compiler"
	"github.com/go-ecma/es5c/inspect"
	"github.com/go-ecma/es5c/template"
	"github.com/go-ecma/es5c/tools"
	"github.com/go-ecma/es5c/value"
	"github.com/go-ecma/es5c/vm"
)

// Version, Commit, and Date are overridden at build time via
// "-ldflags -X main.Version=... -X main.Commit=... -X main.Date=...",
// the same convention the teacher's main.go uses.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var (
	redColor    = color.New(color.FgRed)
	yellowColor = color.New(color.FgYellow)
	cyanColor   = color.New(color.FgCyan)
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "print version information and exit")
		evalMode    = flag.Bool("eval", false, "compile source as eval code instead of global code")
		strictMode  = flag.Bool("strict", false, "force strict mode regardless of a \"use strict\" directive")
		funcExpr    = flag.Bool("funcexpr", false, "compile source as a single function(...) { ... } expression")
		file        = flag.String("file", "", "source file to compile (defaults to stdin)")
		disasm      = flag.Bool("disasm", false, "print the compiled template's disassembly")
		dumpConsts  = flag.Bool("dump-consts", false, "print the outer template's constant pool")
		repl        = flag.Bool("repl", false, "start an interactive read-eval-disassemble loop")
		inspectFlag = flag.Bool("inspect", false, "open the compiled template tree in the tview bytecode browser")
		verify      = flag.Bool("verify", false, "check the compiled template tree's self-consistency invariants")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("es5c %s (commit %s, built %s)\n", Version, Commit, Date)
		os.Exit(0)
	}

	if *repl {
		runRepl()
		return
	}

	src, filename, err := readSource(*file)
	if err != nil {
		redColor.Fprintf(os.Stderr, "es5c: %v\n", err)
		os.Exit(1)
	}

	flags := compileFlags(*evalMode, *strictMode, *funcExpr)
	tmpl, err := compiler.Compile(src, filename, flags)
	if err != nil {
		redColor.Fprintf(os.Stderr, "es5c: %v\n", err)
		os.Exit(1)
	}

	if *verify {
		issues := tools.Verify(tmpl)
		for _, iss := range issues {
			redColor.Fprintln(os.Stderr, iss)
		}
		if len(issues) > 0 {
			os.Exit(1)
		}
	}

	if *inspectFlag {
		if err := inspect.NewBrowser(tmpl).Run(); err != nil {
			redColor.Fprintf(os.Stderr, "es5c: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *dumpConsts {
		dumpConstPool(tmpl)
	}
	if *disasm || !*dumpConsts {
		fmt.Print(vm.Disassemble(tmpl))
	}
}

func compileFlags(eval, strict, funcExpr bool) compiler.Flags {
	var flags compiler.Flags
	if eval {
		flags |= compiler.Eval
	}
	if strict {
		flags |= compiler.Strict
	}
	if funcExpr {
		flags |= compiler.FuncExpr
	}
	return flags
}

func readSource(file string) (src, filename string, err error) {
	if file == "" {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(b), "<stdin>", nil
	}
	b, err := os.ReadFile(file) // #nosec G304 -- user-supplied source path
	if err != nil {
		return "", "", fmt.Errorf("reading %s: %w", file, err)
	}
	return string(b), file, nil
}

func dumpConstPool(tmpl *template.FunctionTemplate) {
	cyanColor.Printf("constants (%s):\n", tmpl.Name)
	for i, c := range tmpl.Consts {
		fmt.Printf("  k%d = %s\n", i, formatConst(c))
	}
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

// runRepl compiles each entered line as a standalone piece of eval code and
// prints its disassembly, recovering from any CompileError so a typo
// doesn't end the session (akashmaji946-go-mix/repl/repl.go's
// executeWithRecovery, adapted to a compiler with no runtime evaluator).
func runRepl() {
	cyanColor.Println("es5c REPL - enter a line of ECMAScript 5.1, Ctrl+D to exit")

	rl, err := readline.New("es5c> ")
	if err != nil {
		redColor.Fprintf(os.Stderr, "es5c: %v\n", err)
		os.Exit(1)
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil {
			fmt.Println("Good bye!")
			return
		}
		if line == "" {
			continue
		}
		rl.SaveHistory(line)
		compileReplLine(line)
	}
}

func compileReplLine(line string) {
	defer func() {
		if r := recover(); r != nil {
			redColor.Printf("[panic] %v\n", r)
		}
	}()

	tmpl, err := compiler.Compile(line, "<repl>", compiler.Eval)
	if err != nil {
		redColor.Printf("%v\n", err)
		return
	}
	yellowColor.Print(vm.Disassemble(tmpl))
}
