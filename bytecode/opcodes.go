// Package bytecode defines the register-machine instruction set the
// compiler's emitter (compiler.Emitter) targets and the disassembler
// (vm.Disassemble) decodes. The VM that executes these opcodes is an
// external collaborator (spec.md section 1); this package only fixes the
// wire format both sides agree on.
package bytecode

// Op is a primary opcode. The primary opcode field is 6 bits wide (0-63);
// rarer operations are multiplexed through the single Op value EXTRA,
// which carries a secondary ExtraOp in its A slot (spec.md section 4.3).
// This resolves an arithmetic inconsistency in the distilled spec, which
// describes both an 8-bit opcode field and bit layouts (A-BC: 8+18=26,
// leaving only 6 bits for op in a 32-bit word) that only total 32 bits if
// the opcode field is 6 bits; DESIGN.md documents this as a resolved open
// question rather than a silent fix.
type Op uint8

const (
	NOP Op = iota
	LDREG
	STREG
	LDCONST
	LDINT
	LDINTX
	JUMP
	EXTRA
	CALL
	CALLI // indirect sibling of CALL; must be CALL+1 (opcode adjacency invariant)
	NEW
	NEWI // indirect sibling of NEW; must be NEW+1
	CSVAR
	CSREG
	CSPROP
	GETPROP
	PUTPROP
	GETVAR
	PUTVAR
	MPUTARR
	MPUTARRI // indirect sibling of MPUTARR; must be MPUTARR+1
	MPUTOBJ
	MPUTOBJI // indirect sibling of MPUTOBJ; must be MPUTOBJ+1
	INITGET
	INITGETI // indirect sibling of INITGET; must be INITGET+1
	INITSET
	INITSETI // indirect sibling of INITSET; must be INITSET+1
	ADD
	SUB
	MUL
	DIV
	MOD
	BAND
	BOR
	BXOR
	SHL
	SHR
	USHR
	CEQ
	CNEQ
	CSEQ
	CSNEQ
	CLT
	CGT
	CLE
	CGE
	INSTOF
	INOP
	IF
	RETURN
	THROW
	CLOSURE
	TRYCATCH
	ENDTRY
	ENDCATCH
	ENDFIN

	opCount // sentinel: must stay <= 64
)

// CallFlag bits are packed into a CALL/CALLI instruction's A slot (spec.md
// section 4.7): EvalCall marks a call whose syntactic callee is the bare
// identifier "eval" (the compiler also sets the enclosing function's
// may_direct_eval flag when this fires); TailCall is back-patched onto the
// instruction after the fact, by the return-statement parser, when the
// call's result flows straight into a return with no enclosing catch.
type CallFlag uint8

const (
	EvalCall CallFlag = 1 << iota
	TailCall
)

// ExtraOp is a secondary opcode carried in slot A of an EXTRA instruction.
type ExtraOp uint8

const (
	LDUNDEF ExtraOp = iota
	LDNULL
	LDTRUE
	LDFALSE
	LDTHIS
	TONUM
	INC
	DEC
	TYPEOF
	DELPROP
	DELVAR
	NEWARR
	SETALEN
	NEWOBJ
	REGEXP
	INVLHS
	INITENUM
	NEXTENUM
	LABEL
	BREAK
	ENDLABEL
	CONTINUE
	DECLVAR
)

// Shape selects how an instruction word's operand bits are carved up.
type Shape int

const (
	// ShapeABC3: A is an 8-bit plain value, B and C are 9-bit regconsts
	// (register index or constant-pool index, top bit selects which).
	ShapeABC3 Shape = iota
	// ShapeABC2: A is an 8-bit plain value, BC is one 18-bit plain value.
	ShapeABC2
	// ShapeABC1: ABC is a single 26-bit plain value (JUMP's relative offset).
	ShapeABC1
	// ShapeExtraB_C: A holds the ExtraOp; B and C are 9-bit regconsts.
	ShapeExtraB_C
	// ShapeExtraBC: A holds the ExtraOp; BC is one 18-bit plain value.
	ShapeExtraBC
)

// OpInfo describes one primary opcode's encoding shape and mnemonic.
type OpInfo struct {
	Name  string
	Shape Shape
}

// ExtraInfo describes one secondary opcode's encoding shape and mnemonic.
type ExtraInfo struct {
	Name  string
	Shape Shape // only ShapeExtraB_C or ShapeExtraBC are meaningful here
}

var opInfo = [opCount]OpInfo{
	NOP:      {"NOP", ShapeABC1},
	LDREG:    {"LDREG", ShapeABC3},
	STREG:    {"STREG", ShapeABC3},
	LDCONST:  {"LDCONST", ShapeABC2},
	LDINT:    {"LDINT", ShapeABC2},
	LDINTX:   {"LDINTX", ShapeABC2},
	JUMP:     {"JUMP", ShapeABC1},
	EXTRA:    {"EXTRA", ShapeABC3},
	CALL:     {"CALL", ShapeABC3},
	CALLI:    {"CALLI", ShapeABC3},
	NEW:      {"NEW", ShapeABC3},
	NEWI:     {"NEWI", ShapeABC3},
	CSVAR:    {"CSVAR", ShapeABC2},
	CSREG:    {"CSREG", ShapeABC3},
	CSPROP:   {"CSPROP", ShapeABC3},
	GETPROP:  {"GETPROP", ShapeABC3},
	PUTPROP:  {"PUTPROP", ShapeABC3},
	GETVAR:   {"GETVAR", ShapeABC2},
	PUTVAR:   {"PUTVAR", ShapeABC2},
	MPUTARR:  {"MPUTARR", ShapeABC3},
	MPUTARRI: {"MPUTARRI", ShapeABC3},
	MPUTOBJ:  {"MPUTOBJ", ShapeABC3},
	MPUTOBJI: {"MPUTOBJI", ShapeABC3},
	INITGET:  {"INITGET", ShapeABC3},
	INITGETI: {"INITGETI", ShapeABC3},
	INITSET:  {"INITSET", ShapeABC3},
	INITSETI: {"INITSETI", ShapeABC3},
	ADD:      {"ADD", ShapeABC3},
	SUB:      {"SUB", ShapeABC3},
	MUL:      {"MUL", ShapeABC3},
	DIV:      {"DIV", ShapeABC3},
	MOD:      {"MOD", ShapeABC3},
	BAND:     {"BAND", ShapeABC3},
	BOR:      {"BOR", ShapeABC3},
	BXOR:     {"BXOR", ShapeABC3},
	SHL:      {"SHL", ShapeABC3},
	SHR:      {"SHR", ShapeABC3},
	USHR:     {"USHR", ShapeABC3},
	CEQ:      {"CEQ", ShapeABC3},
	CNEQ:     {"CNEQ", ShapeABC3},
	CSEQ:     {"CSEQ", ShapeABC3},
	CSNEQ:    {"CSNEQ", ShapeABC3},
	CLT:      {"CLT", ShapeABC3},
	CGT:      {"CGT", ShapeABC3},
	CLE:      {"CLE", ShapeABC3},
	CGE:      {"CGE", ShapeABC3},
	INSTOF:   {"INSTANCEOF", ShapeABC3},
	INOP:     {"IN", ShapeABC3},
	IF:       {"IF", ShapeABC3},
	RETURN:   {"RETURN", ShapeABC3},
	THROW:    {"THROW", ShapeABC3},
	CLOSURE:  {"CLOSURE", ShapeABC2},
	TRYCATCH: {"TRYCATCH", ShapeABC2},
	ENDTRY:   {"ENDTRY", ShapeABC1},
	ENDCATCH: {"ENDCATCH", ShapeABC1},
	ENDFIN:   {"ENDFIN", ShapeABC3},
}

var extraInfo = map[ExtraOp]ExtraInfo{
	LDUNDEF:  {"LDUNDEF", ShapeExtraB_C},
	LDNULL:   {"LDNULL", ShapeExtraB_C},
	LDTRUE:   {"LDTRUE", ShapeExtraB_C},
	LDFALSE:  {"LDFALSE", ShapeExtraB_C},
	LDTHIS:   {"LDTHIS", ShapeExtraB_C},
	TONUM:    {"TONUM", ShapeExtraB_C},
	INC:      {"INC", ShapeExtraB_C},
	DEC:      {"DEC", ShapeExtraB_C},
	TYPEOF:   {"TYPEOF", ShapeExtraB_C},
	DELPROP:  {"DELPROP", ShapeExtraB_C},
	DELVAR:   {"DELVAR", ShapeExtraB_C},
	NEWARR:   {"NEWARR", ShapeExtraB_C},
	SETALEN:  {"SETALEN", ShapeExtraB_C},
	NEWOBJ:   {"NEWOBJ", ShapeExtraB_C},
	REGEXP:   {"REGEXP", ShapeExtraB_C},
	INVLHS:   {"INVLHS", ShapeExtraB_C},
	INITENUM: {"INITENUM", ShapeExtraB_C},
	NEXTENUM: {"NEXTENUM", ShapeExtraB_C},
	LABEL:    {"LABEL", ShapeExtraBC},
	BREAK:    {"BREAK", ShapeExtraBC},
	ENDLABEL: {"ENDLABEL", ShapeExtraBC},
	CONTINUE: {"CONTINUE", ShapeExtraBC},
	DECLVAR:  {"DECLVAR", ShapeExtraB_C},
}

func (o Op) Info() OpInfo    { return opInfo[o] }
func (o Op) String() string  { return opInfo[o].Name }
func (e ExtraOp) Info() ExtraInfo { return extraInfo[e] }
func (e ExtraOp) String() string  { return extraInfo[e].Name }

func init() {
	if opCount > 64 {
		panic("bytecode: primary opcode space exceeds 6-bit field (opCount > 64)")
	}
	// Opcode adjacency invariant (spec.md section 9 / DESIGN NOTES):
	// direct/indirect sibling pairs must be numerically adjacent so the
	// shuffler can select the indirect variant with a plain "+1".
	pairs := [][2]Op{
		{CALL, CALLI},
		{NEW, NEWI},
		{MPUTARR, MPUTARRI},
		{MPUTOBJ, MPUTOBJI},
		{INITGET, INITGETI},
		{INITSET, INITSETI},
	}
	for _, p := range pairs {
		if p[1] != p[0]+1 {
			panic("bytecode: opcode adjacency invariant violated for " + p[0].String())
		}
	}
}
