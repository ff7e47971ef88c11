package lexer

import "testing"

func TestNextSkipsWhitespaceAndLineComments(t *testing.T) {
	l := New("  // a comment\n  foo", "<test>")
	tok := l.Next(false)
	if tok.Kind != Identifier || tok.Raw != "foo" {
		t.Fatalf("expected identifier foo, got %+v", tok)
	}
	if !tok.NewlineBefore {
		t.Fatalf("expected NewlineBefore set after a line comment ending in a newline")
	}
}

func TestNextReadsBlockCommentAndReportsUnterminated(t *testing.T) {
	l := New("/* unterminated", "<test>")
	tok := l.Next(false)
	if tok.Kind != EOF {
		t.Fatalf("expected EOF after an unterminated block comment, got %+v", tok)
	}
	if !l.Errors().HasErrors() {
		t.Fatalf("expected an unterminated-comment error recorded")
	}
}

func TestNextReadsHexAndDecimalNumbers(t *testing.T) {
	l := New("0xFF 3.5e2", "<test>")
	tok := l.Next(false)
	if tok.Kind != NumericLiteral || tok.NumValue != 255 {
		t.Fatalf("expected hex literal 255, got %+v", tok)
	}
	tok = l.Next(false)
	if tok.Kind != NumericLiteral || tok.NumValue != 350 {
		t.Fatalf("expected exponent literal 350, got %+v", tok)
	}
}

func TestNextReadsStringEscapesAndReportsUnterminated(t *testing.T) {
	l := New(`"a\nb"`, "<test>")
	tok := l.Next(false)
	if tok.Kind != StringLiteral || tok.StrValue != "a\nb" {
		t.Fatalf("expected escaped string, got %+v", tok)
	}

	l2 := New(`"unterminated`, "<test>")
	l2.Next(false)
	if !l2.Errors().HasErrors() {
		t.Fatalf("expected an unterminated-string error recorded")
	}
}

func TestNextDistinguishesKeywordsFromIdentifiers(t *testing.T) {
	l := New("function f\\u0075nction", "<test>")
	tok := l.Next(false)
	if tok.Kind != KeywordFunction {
		t.Fatalf("expected keyword function, got %+v", tok)
	}
	tok = l.Next(false)
	if tok.Kind != Identifier || tok.Raw != "function" {
		t.Fatalf("expected an escaped 'function' spelling to stay a plain identifier, got %+v", tok)
	}
}

func TestNextReadsRegexLiteralOnlyWhenAllowed(t *testing.T) {
	l := New("/abc/gi", "<test>")
	tok := l.Next(true)
	if tok.Kind != RegexLiteral || tok.StrValue != "abc" || tok.RegexFlags != "gi" {
		t.Fatalf("expected a regex literal, got %+v", tok)
	}

	l2 := New("/abc/gi", "<test>")
	tok2 := l2.Next(false)
	if tok2.Kind != Slash {
		t.Fatalf("expected division operator when regexpAllowed is false, got %+v", tok2)
	}
}

func TestSaveRestoreRoundTrips(t *testing.T) {
	l := New("abc def", "<test>")
	saved := l.Save()
	first := l.Next(false)
	if first.Raw != "abc" {
		t.Fatalf("expected abc, got %+v", first)
	}
	l.Restore(saved)
	again := l.Next(false)
	if again.Raw != "abc" {
		t.Fatalf("expected Restore to rewind to the same token, got %+v", again)
	}
}

func TestUnexpectedCharacterRecoversAndReportsError(t *testing.T) {
	l := New("@ x", "<test>")
	tok := l.Next(false)
	if tok.Kind != Identifier || tok.Raw != "x" {
		t.Fatalf("expected lexer to skip the bad char and continue to x, got %+v", tok)
	}
	if !l.Errors().HasErrors() {
		t.Fatalf("expected an unexpected-character error recorded")
	}
}
