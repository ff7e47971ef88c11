package compiler

// resolve.go implements the identifier resolver (spec.md section 4.5):
// deciding, for a given name, whether it currently has an active register
// binding, is shadowed by "arguments", or must fall back to a GETVAR/PUTVAR
// by-name slow path because it sits behind a `with` statement, an eval call
// that might introduce bindings dynamically, or a name the scanning pass
// never saw declared in this function.

// lookupActiveRegisterBinding resolves name against fs.Varmap, honoring the
// with/eval escape hatches: once a function is inside a `with` block, or may
// run a direct eval, no identifier can be trusted to still resolve to the
// register the scanning pass assigned it, because the `with` object or the
// eval'd code might shadow it at run time (ECMAScript 5.1 section 10.2.1).
func lookupActiveRegisterBinding(fs *FuncState, name string) (reg int, bound bool) {
	if fs.WithDepth > 0 || fs.MayDirectEval() {
		return 0, false
	}
	r, ok := fs.Varmap[name]
	if !ok || r == notBoundRegister {
		return 0, false
	}
	return r, true
}

// resolveIdentifier builds the IValue for a read/write reference to name,
// special-casing "arguments" (spec.md section 4.5: suppressed once the
// function declares its own binding of that name) and deferring everything
// else to lookupActiveRegisterBinding.
func resolveIdentifier(fs *FuncState, name string) IValue {
	if name == "arguments" && !fs.ArgumentsShadowed() {
		fs.SetAccessesArguments()
	}
	if reg, ok := lookupActiveRegisterBinding(fs, name); ok {
		return IValue{Kind: IVar, Name: name, Register: reg, Unbound: false}
	}
	fs.SetAccessesSlow()
	return IValue{Kind: IVar, Name: name, Unbound: true}
}

// lookupLHS resolves name specifically as an assignment target, which is
// identical to a read-reference resolution here: the register/slow-path
// decision doesn't depend on which direction the value flows, only on
// whether an active binding can be trusted (spec.md section 4.5).
func lookupLHS(fs *FuncState, name string) IValue {
	return resolveIdentifier(fs, name)
}
