package compiler

import "github.com/go-ecma/es5c/lexer"

// labels.go implements the label manager (spec.md section 4.6): the break/
// continue resolution rules around labeled and unlabeled statements.
//
// Every iteration statement and switch pushes an (possibly anonymous, name
// == "") label entry before compiling its body, with AllowBreak set; only
// iteration statements also set AllowContinue. A user label ("outer: for
// (...) ...") wraps its target construct's entry rather than adding a
// second one, so "continue outer" still finds an AllowContinue entry.

// LookupActiveLabel finds the nearest label entry break/continue should
// target. An empty name matches the innermost entry with the required
// flag (used for bare break/continue); a non-empty name must match exactly
// and must still carry the flag, or the label exists but is misapplied
// (spec.md section 4.6: "continue" naming a label on a bare block, for
// example, which carries AllowBreak but not AllowContinue).
func LookupActiveLabel(fs *FuncState, name string, need LabelFlags, pos lexer.Position) *LabelInfo {
	for i := len(fs.Labels) - 1; i >= 0; i-- {
		l := &fs.Labels[i]
		if name == "" {
			if l.Flags&need != 0 {
				return l
			}
			continue
		}
		if l.Name == name {
			if l.Flags&need == 0 {
				throwCompileError(syntaxErrorf(pos, "label %q does not enclose a loop", name))
			}
			return l
		}
	}
	if name != "" {
		throwCompileError(syntaxErrorf(pos, "undefined label %q", name))
	}
	throwCompileError(syntaxErrorf(pos, "illegal break or continue outside a loop or switch"))
	return nil
}

// AttachPendingLabels assigns a run of pending user labels ("a: b: for
// (...)") to the label entry just pushed for the construct they decorate,
// so LookupActiveLabel's by-name branch also finds them. Pending labels are
// collected by the statement parser as plain strings before it knows what
// follows; once the target's own anonymous entry exists, this renames
// that single entry or — when more than one label decorates the same
// statement — pushes additional aliases pointing at the same PC/flags.
func AttachPendingLabels(fs *FuncState, names []string) {
	if len(fs.Labels) == 0 || len(names) == 0 {
		return
	}
	target := fs.Labels[len(fs.Labels)-1]
	if target.Name == "" {
		fs.Labels[len(fs.Labels)-1].Name = names[0]
		names = names[1:]
	}
	for _, n := range names {
		fs.Labels = append(fs.Labels, LabelInfo{
			Name:       n,
			ID:         target.ID,
			PC:         target.PC,
			CatchDepth: target.CatchDepth,
			Flags:      target.Flags,
		})
	}
}
