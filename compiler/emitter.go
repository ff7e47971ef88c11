package compiler

import (
	"github.com/go-ecma/es5c/bytecode"
	"github.com/go-ecma/es5c/lexer"
)

// jumpChainCap bounds the peephole jump-chain collapse (CollapseJumpChains)
// so a (malformed or pathological) cycle of JUMPs can't hang the pass.
const jumpChainCap = 16

// Emitter appends instructions to a FuncState's code buffer and owns the
// operand-shuffling scheme spec.md section 4.3 describes: an ABC3
// instruction's B/C operands are 9-bit regconsts (8 magnitude bits plus a
// const/register marker), so a constant-pool index above bytecode.MaxDirect
// cannot be named directly there. When that happens the emitter spills the
// constant into one of three registers reserved for exactly this purpose
// and rewrites the operand to address that register instead.
type Emitter struct {
	FS   *FuncState
	Line int
}

func NewEmitter(fs *FuncState) *Emitter {
	return &Emitter{FS: fs}
}

// SetLine records the source line later Emit* calls attribute to the
// instructions they produce (spec.md section 3's per-instruction line map,
// packed by template.EncodePC2Line).
func (e *Emitter) SetLine(line int) { e.Line = line }

// PC returns the address the next emitted instruction will occupy.
func (e *Emitter) PC() int { return len(e.FS.Code) }

func (e *Emitter) append(word uint32) int {
	pc := len(e.FS.Code)
	e.FS.Code = append(e.FS.Code, bytecode.Instr{Word: word, Line: e.Line})
	return pc
}

// shuffle materializes rc into a direct-addressable register if it isn't
// one already, using scratch as the spill register, and marks the function
// as having needed shuffling (spec.md section 9: tracked so the disassembler
// and tests can confirm the mechanism actually triggers on large programs).
func (e *Emitter) shuffle(rc bytecode.RegConst, scratch int) bytecode.RegConst {
	if rc.FitsDirect() {
		return rc
	}
	e.FS.SetNeedsShuffle()
	if rc.IsConst() {
		e.emitLoadConstRaw(scratch, rc.Index())
	} else {
		e.emitMoveRaw(scratch, rc.Index())
	}
	return bytecode.Reg(scratch)
}

func (e *Emitter) emitLoadConstRaw(dst, constIdx int) {
	word, err := bytecode.EncodeABC2(bytecode.LDCONST, dst, constIdx)
	if err != nil {
		throwCompileError(internalErrorf(lexer.Position{}, "%s", err))
	}
	e.append(word)
}

func (e *Emitter) emitMoveRaw(dst, src int) {
	word, err := bytecode.EncodeABC3(bytecode.LDREG, dst, bytecode.Reg(src), bytecode.Reg(0))
	if err != nil {
		throwCompileError(internalErrorf(lexer.Position{}, "%s", err))
	}
	e.append(word)
}

// EmitMove copies src into dst via LDREG (spec.md section 4.3's plain
// register-to-register copy, used e.g. to materialize an identifier's bound
// register into a fresh temp before it is mutated in place).
func (e *Emitter) EmitMove(dst, src int) int {
	e.emitMoveRaw(dst, src)
	return e.PC() - 1
}

// EmitLoadConst loads constant pool entry constIdx into dst directly;
// LDCONST's BC field is a full 18-bit plain value so this never needs
// shuffling on its own (only when a constant is used as an ABC3 B/C operand
// does the 9-bit limit bite).
func (e *Emitter) EmitLoadConst(dst, constIdx int) int {
	e.emitLoadConstRaw(dst, constIdx)
	return e.PC() - 1
}

// EmitLoadInt loads the exact int32 n into dst. Values that fit the biased
// 18-bit LDINT field are emitted as one instruction; larger values fall back
// to LDINTX followed by one raw data word holding the full 32-bit payload
// (spec.md section 6's "LDINT/LDINTX multi-word integer loading").
func (e *Emitter) EmitLoadInt(dst int, n int32) int {
	biased := int(n) + bytecode.LDIntBias
	if biased >= 0 && biased <= bytecode.MaxBC18 {
		word, err := bytecode.EncodeABC2(bytecode.LDINT, dst, biased)
		if err != nil {
			throwCompileError(internalErrorf(lexer.Position{}, "%s", err))
		}
		return e.append(word)
	}
	word, err := bytecode.EncodeABC2(bytecode.LDINTX, dst, 0)
	if err != nil {
		throwCompileError(internalErrorf(lexer.Position{}, "%s", err))
	}
	pc := e.append(word)
	e.append(uint32(n))
	return pc
}

// EmitABC3 emits an A-B-C instruction, shuffling b and/or c through the
// reserved scratch registers first if either doesn't fit the direct 8-bit
// magnitude range.
func (e *Emitter) EmitABC3(op bytecode.Op, a int, b, c bytecode.RegConst) int {
	b = e.shuffle(b, e.FS.Shuffle1)
	c = e.shuffle(c, e.FS.Shuffle2)
	word, err := bytecode.EncodeABC3(op, a, b, c)
	if err != nil {
		throwCompileError(internalErrorf(lexer.Position{}, "%s", err))
	}
	return e.append(word)
}

// EmitABC2 emits an A-BC instruction (BC is a full 18-bit plain value; never
// needs shuffling).
func (e *Emitter) EmitABC2(op bytecode.Op, a, bc int) int {
	word, err := bytecode.EncodeABC2(op, a, bc)
	if err != nil {
		throwCompileError(internalErrorf(lexer.Position{}, "%s", err))
	}
	return e.append(word)
}

// EmitABC1 emits a bare-ABC instruction (26-bit plain value).
func (e *Emitter) EmitABC1(op bytecode.Op, abc int) int {
	word, err := bytecode.EncodeABC1(op, abc)
	if err != nil {
		throwCompileError(internalErrorf(lexer.Position{}, "%s", err))
	}
	return e.append(word)
}

// EmitExtraB_C emits an EXTRA instruction carrying sub in A and b/c as
// shuffled regconsts.
func (e *Emitter) EmitExtraB_C(sub bytecode.ExtraOp, b, c bytecode.RegConst) int {
	b = e.shuffle(b, e.FS.Shuffle1)
	c = e.shuffle(c, e.FS.Shuffle2)
	word, err := bytecode.EncodeExtraB_C(sub, b, c)
	if err != nil {
		throwCompileError(internalErrorf(lexer.Position{}, "%s", err))
	}
	return e.append(word)
}

// EmitExtraBC emits an EXTRA instruction carrying sub in A and one plain
// 18-bit value in BC.
func (e *Emitter) EmitExtraBC(sub bytecode.ExtraOp, bc int) int {
	word, err := bytecode.EncodeExtraBC(sub, bc)
	if err != nil {
		throwCompileError(internalErrorf(lexer.Position{}, "%s", err))
	}
	return e.append(word)
}

// EmitCounted picks between a direct and indirect opcode sibling for an
// operation whose inline C operand is a count rather than a regconst (CALL/
// CALLI, NEW/NEWI, MPUTARR/MPUTARRI, MPUTOBJ/MPUTOBJI, INITGET/INITGETI,
// INITSET/INITSETI — spec.md section 4.3's "direct/indirect opcode pairs").
// When count fits the inline magnitude it is packed straight into C; larger
// counts are loaded into a scratch register with EmitLoadInt and the
// indirect sibling is emitted with C pointing at that register instead.
func (e *Emitter) EmitCounted(direct bytecode.Op, a int, b bytecode.RegConst, count int) int {
	b = e.shuffle(b, e.FS.Shuffle1)
	if count <= bytecode.MaxDirect {
		word, err := bytecode.EncodeABC3(direct, a, b, bytecode.Reg(count))
		if err != nil {
			throwCompileError(internalErrorf(lexer.Position{}, "%s", err))
		}
		return e.append(word)
	}
	indirect := direct + 1
	e.EmitLoadInt(e.FS.Shuffle3, int32(count))
	word, err := bytecode.EncodeABC3(indirect, a, b, bytecode.Reg(e.FS.Shuffle3))
	if err != nil {
		throwCompileError(internalErrorf(lexer.Position{}, "%s", err))
	}
	return e.append(word)
}

// EmitJumpEmpty emits a placeholder JUMP (target = itself, patched later by
// PatchJump/PatchJumpHere) and returns its PC.
func (e *Emitter) EmitJumpEmpty() int {
	pc := e.PC()
	word, _ := bytecode.EncodeABC1(bytecode.JUMP, bytecode.JumpOperand(pc, pc))
	return e.append(word)
}

// PatchJump rewrites the JUMP instruction at jumpPC to target targetPC.
func (e *Emitter) PatchJump(jumpPC, targetPC int) {
	word, err := bytecode.EncodeABC1(bytecode.JUMP, bytecode.JumpOperand(jumpPC, targetPC))
	if err != nil {
		throwCompileError(internalErrorf(lexer.Position{}, "%s", err))
	}
	e.FS.Code[jumpPC].Word = word
}

// PatchJumpHere targets the JUMP at jumpPC at the current end of the code
// buffer (the common "jump to just past this construct" case).
func (e *Emitter) PatchJumpHere(jumpPC int) {
	e.PatchJump(jumpPC, e.PC())
}

// CollapseJumpChains is a bounded peephole pass (spec.md section 4.3):
// a JUMP whose target is itself an unconditional JUMP is rewritten to
// target that jump's own target directly, up to jumpChainCap hops, so a
// chain of forwarded breaks/continues doesn't cost one hop per link at run
// time.
func CollapseJumpChains(fs *FuncState) {
	for pc := range fs.Code {
		d := bytecode.Decode(fs.Code[pc].Word)
		if d.Op != bytecode.JUMP {
			continue
		}
		target := bytecode.JumpTarget(pc, d.ABC)
		for hop := 0; hop < jumpChainCap; hop++ {
			if target < 0 || target >= len(fs.Code) {
				break
			}
			td := bytecode.Decode(fs.Code[target].Word)
			if td.Op != bytecode.JUMP {
				break
			}
			next := bytecode.JumpTarget(target, td.ABC)
			if next == target {
				break
			}
			target = next
		}
		word, err := bytecode.EncodeABC1(bytecode.JUMP, bytecode.JumpOperand(pc, target))
		if err != nil {
			continue
		}
		fs.Code[pc].Word = word
	}
}
