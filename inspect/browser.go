// Package inspect implements a read-only tview/tcell browser over a
// compiled template.FunctionTemplate tree, the -inspect CLI flag's target.
// It is the bytecode-browsing analogue of the teacher's debugger/tui.go:
// the same three-panel layout idea (a tree of functions, the selected
// function's disassembly, and its constant pool/varmap), minus every panel
// that only makes sense with a live VM (registers, memory, stack,
// breakpoints) — there is no execution loop in scope (SPEC_FULL.md section
// D), so Browser only ever reads a FunctionTemplate tree that already
// exists in full.
package inspect

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/go-ecma/es5c/template"
	"github.com/go-ecma/es5c/value"
	"github.com/go-ecma/es5c/vm"
)

// Browser is the TUI state: a tree of every template in the program
// (outer plus nested, recursively) and the two panels that render
// whichever one is currently selected.
type Browser struct {
	App   *tview.Application
	Pages *tview.Pages

	Tree       *tview.TreeView
	CodeView   *tview.TextView
	ConstsView *tview.TextView

	root *template.FunctionTemplate
}

// NewBrowser builds a Browser over root (the compiled program's outermost
// template) and every template reachable through its Funcs tables.
func NewBrowser(root *template.FunctionTemplate) *Browser {
	b := &Browser{
		App:  tview.NewApplication(),
		root: root,
	}
	b.initializeViews()
	b.buildTree()
	b.buildLayout()
	b.setupKeyBindings()
	return b
}

func (b *Browser) initializeViews() {
	b.CodeView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(false)
	b.CodeView.SetBorder(true).SetTitle(" Disassembly ")

	b.ConstsView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(false)
	b.ConstsView.SetBorder(true).SetTitle(" Constants / Varmap ")
}

func (b *Browser) buildTree() {
	rootName := b.root.Name
	if rootName == "" {
		rootName = "<program>"
	}
	rootNode := tview.NewTreeNode(rootName).SetReference(b.root).SetExpanded(true)
	addChildren(rootNode, b.root)

	b.Tree = tview.NewTreeView().SetRoot(rootNode).SetCurrentNode(rootNode)
	b.Tree.SetBorder(true).SetTitle(" Functions ")
	b.Tree.SetSelectedFunc(func(node *tview.TreeNode) {
		node.SetExpanded(!node.IsExpanded())
	})
	b.Tree.SetChangedFunc(func(node *tview.TreeNode) {
		tmpl, _ := node.GetReference().(*template.FunctionTemplate)
		if tmpl != nil {
			b.showTemplate(tmpl)
		}
	})
	b.showTemplate(b.root)
}

func addChildren(node *tview.TreeNode, tmpl *template.FunctionTemplate) {
	for i, fn := range tmpl.Funcs {
		name := fn.Name
		if name == "" {
			name = fmt.Sprintf("<anonymous #%d>", i)
		}
		child := tview.NewTreeNode(name).SetReference(fn).SetExpanded(false)
		node.AddChild(child)
		addChildren(child, fn)
	}
}

// showTemplate renders tmpl's own disassembly (not its nested functions'
// — the tree is how a reader navigates into those) and its constant pool
// plus retained varmap, if any.
func (b *Browser) showTemplate(tmpl *template.FunctionTemplate) {
	b.CodeView.Clear()
	fmt.Fprint(b.CodeView, disassembleOwnCode(tmpl))

	b.ConstsView.Clear()
	var sb strings.Builder
	for i, c := range tmpl.Consts {
		fmt.Fprintf(&sb, "k%d = %s\n", i, formatConst(c))
	}
	if tmpl.Varmap != nil {
		fmt.Fprintln(&sb, "--- varmap ---")
		for name, reg := range tmpl.Varmap {
			fmt.Fprintf(&sb, "%s -> r%d\n", name, reg)
		}
	}
	fmt.Fprint(b.ConstsView, sb.String())
}

// disassembleOwnCode reuses vm.Disassemble but strips its recursive
// per-nested-function sections, since the tree view is already how this
// panel's caller navigates to a nested template.
func disassembleOwnCode(tmpl *template.FunctionTemplate) string {
	shallow := &template.FunctionTemplate{
		Consts:   tmpl.Consts,
		Code:     tmpl.Code,
		PC2Line:  tmpl.PC2Line,
		Name:     tmpl.Name,
		Flags:    tmpl.Flags,
		NRegs:    tmpl.NRegs,
		NArgs:    tmpl.NArgs,
		FileName: tmpl.FileName,
	}
	return vm.Disassemble(shallow)
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

func (b *Browser) buildLayout() {
	content := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(b.Tree, 0, 1, true).
		AddItem(b.CodeView, 0, 2, false).
		AddItem(b.ConstsView, 0, 1, false)

	b.Pages = tview.NewPages().AddPage("main", content, true, true)
}

func (b *Browser) setupKeyBindings() {
	b.App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEsc, tcell.KeyCtrlC:
			b.App.Stop()
			return nil
		}
		return event
	})
}

// Run starts the browser's event loop; it blocks until the user quits
// (Esc/Ctrl+C).
func (b *Browser) Run() error {
	return b.App.SetRoot(b.Pages, true).SetFocus(b.Tree).Run()
}
