package template

import "encoding/binary"

// EncodePC2Line compresses a per-instruction line table into a run-length
// form: one (pcDelta, line) varint pair per line change, per spec.md
// section 4.2's "_pc2line (a compressed pc→line table)". Instructions
// between two recorded PCs inherit the preceding entry's line.
func EncodePC2Line(lines []int) []byte {
	var buf []byte
	lastLine := -1
	lastPC := 0
	for pc, line := range lines {
		if line == lastLine {
			continue
		}
		var tmp [binary.MaxVarintLen64]byte
		n := binary.PutUvarint(tmp[:], uint64(pc-lastPC))
		buf = append(buf, tmp[:n]...)
		n = binary.PutVarint(tmp[:], int64(line))
		buf = append(buf, tmp[:n]...)
		lastPC = pc
		lastLine = line
	}
	return buf
}

// DecodePC2Line expands an encoded table back into entries, each naming the
// PC at which a new line begins.
type PC2LineEntry struct {
	PC   int
	Line int
}

func DecodePC2Line(buf []byte) []PC2LineEntry {
	var entries []PC2LineEntry
	pc := 0
	i := 0
	for i < len(buf) {
		delta, n := binary.Uvarint(buf[i:])
		i += n
		line, n := binary.Varint(buf[i:])
		i += n
		pc += int(delta)
		entries = append(entries, PC2LineEntry{PC: pc, Line: int(line)})
	}
	return entries
}

// LineForPC finds the source line active at pc by scanning the decoded
// entries (tables are small; linear scan mirrors the compiler's own
// linear-scan bias elsewhere, spec.md section 4.4).
func LineForPC(buf []byte, pc int) int {
	entries := DecodePC2Line(buf)
	line := 0
	for _, e := range entries {
		if e.PC > pc {
			break
		}
		line = e.Line
	}
	return line
}
