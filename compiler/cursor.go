package compiler

import "github.com/go-ecma/es5c/lexer"

// Cursor is a two-token look-behind/ahead window over the lexer (spec.md
// section 4.1). It owns the lexer's regexp-vs-division disambiguation:
// each Advance call decides, from the kind of the token it is leaving
// behind, whether the lexer should read a following '/' as the start of a
// RegexLiteral or as division/divide-assign.
//
// The original implementation reserves two value-stack slots per token to
// hold literal payloads; here the payload already lives in lexer.Token's
// plain fields (NumValue/StrValue), so no scratch-stack reservation is
// needed at this layer (spec.md section 9's "explicit arenas... indexed by
// integers" adaptation). The IVALUE engine (ivalue.go) does not use
// value.Stack either; its literal payloads live in IValue fields.
type Cursor struct {
	lx   *lexer.Lexer
	Prev lexer.Token
	Cur  lexer.Token

	// rejectRegexpInAdv is a one-shot override forcing the next Advance to
	// treat '/' as division, used immediately after ".IdentifierName" so a
	// following "/" in e.g. "a.b /c/" is read as division (spec.md 4.1).
	rejectRegexpInAdv bool
}

// NewCursor creates a cursor over lx and primes Cur with the first token.
func NewCursor(lx *lexer.Lexer) *Cursor {
	c := &Cursor{lx: lx}
	c.Cur = lx.Next(true)
	return c
}

// divisionContextKinds lists token kinds after which a following '/' begins
// division rather than a regular expression literal (ECMAScript 5.1
// section 7.8.5's informative disambiguation note).
var divisionContextKinds = map[lexer.Kind]bool{
	lexer.Identifier:     true,
	lexer.NumericLiteral: true,
	lexer.StringLiteral:  true,
	lexer.RegexLiteral:   true,
	lexer.KeywordThis:    true,
	lexer.KeywordTrue:    true,
	lexer.KeywordFalse:   true,
	lexer.KeywordNull:    true,
	lexer.RParen:         true,
	lexer.RBracket:       true,
	lexer.PlusPlus:       true,
	lexer.MinusMinus:     true,
}

func (c *Cursor) regexpAllowedAfter(prevKind lexer.Kind) bool {
	if c.rejectRegexpInAdv {
		c.rejectRegexpInAdv = false
		return false
	}
	return !divisionContextKinds[prevKind]
}

// Advance promotes Cur to Prev and reads the next token from the lexer.
func (c *Cursor) Advance() {
	c.Prev = c.Cur
	c.Cur = c.lx.Next(c.regexpAllowedAfter(c.Prev.Kind))
}

// AdvanceExpect calls Advance after checking that Cur (about to become Prev)
// has the expected kind, failing with a syntax error otherwise.
func (c *Cursor) AdvanceExpect(k lexer.Kind) {
	if c.Cur.Kind != k {
		throwCompileError(syntaxErrorf(c.Cur.Pos, "expected %s, got %s", k, c.Cur.Kind))
	}
	c.Advance()
}

// NoteDottedIdentifier arms the one-shot reject-regexp override; called by
// the expression parser right after consuming ".IdentifierName".
func (c *Cursor) NoteDottedIdentifier() {
	c.rejectRegexpInAdv = true
}

// Save/Restore delegate to the lexer for the function body driver's
// two-pass rewind (spec.md section 4.9), re-priming Cur/Prev afterward.
type SavedCursor struct {
	Pos  lexer.SavedPos
	Prev lexer.Token
	Cur  lexer.Token
}

func (c *Cursor) Save() SavedCursor {
	return SavedCursor{Pos: c.lx.Save(), Prev: c.Prev, Cur: c.Cur}
}

func (c *Cursor) Restore(s SavedCursor) {
	c.lx.Restore(s.Pos)
	c.Prev = s.Prev
	c.Cur = s.Cur
}

// FastForward rewinds the lexer to pos and re-reads one token, used when
// skipping past an already-compiled nested function body in pass 2
// (spec.md section 4.9).
func (c *Cursor) FastForward(pos lexer.SavedPos) {
	c.lx.Restore(pos)
	c.Cur = c.lx.Next(true)
}

// LexerMark returns the current lexer position, for recording a nested
// function's closing-brace offset (spec.md section 3 "funcs" field).
func (c *Cursor) LexerMark() lexer.SavedPos {
	return c.lx.Save()
}
