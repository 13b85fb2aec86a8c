package parser

import (
	"testing"

	"github.com/coregx/goonig/ast"
	"github.com/coregx/goonig/encoding"
	"github.com/coregx/goonig/profile"
)

func TestLexerIntervalVsLiteralBrace(t *testing.T) {
	l := newLexer([]byte("{2,4}"), encoding.UTF8, profile.Oniguruma, false)
	tok, err := l.nextToken()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.tag != tokInterval || tok.min != 2 || tok.max != 4 {
		t.Fatalf("expected interval {2,4}, got %+v", tok)
	}

	l2 := newLexer([]byte("{not an interval}"), encoding.UTF8, profile.Oniguruma, false)
	tok2, err := l2.nextToken()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok2.tag != tokChar || tok2.ch != '{' {
		t.Fatalf("expected literal '{' fallback, got %+v", tok2)
	}
}

func TestLexerQuoteEscapeSuspendsMetacharacters(t *testing.T) {
	l := newLexer([]byte(`\Qa.b\E.`), encoding.UTF8, profile.Oniguruma, false)
	var chars []byte
	for {
		tok, err := l.nextToken()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tok.tag == tokEOF {
			break
		}
		if tok.tag == tokQuoteOpen {
			continue
		}
		if tok.tag != tokChar && tok.tag != tokAnyChar {
			t.Fatalf("unexpected token tag inside/after quote: %v", tok.tag)
		}
		if tok.tag == tokChar {
			chars = append(chars, tok.ch)
		} else {
			chars = append(chars, '.')
		}
	}
	if string(chars) != "a.b." {
		t.Fatalf("expected literal \"a.b\" then metachar '.', got %q", chars)
	}
}

func TestLexerNamedGroupOpen(t *testing.T) {
	l := newLexer([]byte("(?<word>"), encoding.UTF8, profile.Oniguruma, false)
	tok, err := l.nextToken()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.tag != tokSubexpOpen || tok.groupKind != groupNamed || tok.groupName != "word" {
		t.Fatalf("expected named group open 'word', got %+v", tok)
	}
}

func TestLexerExtendModeSkipsCommentsAndSpace(t *testing.T) {
	l := newLexer([]byte("a  # a comment\n b"), encoding.UTF8, profile.Oniguruma, true)
	var got []byte
	for {
		tok, err := l.nextToken()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tok.tag == tokEOF {
			break
		}
		got = append(got, tok.ch)
	}
	if string(got) != "ab" {
		t.Fatalf("expected extend mode to skip whitespace/comment, got %q", got)
	}
}

func TestLexerBackslashDUnderDigitOnlyProfile(t *testing.T) {
	l := newLexer([]byte(`\d`), encoding.UTF8, profile.Oniguruma, false)
	tok, err := l.nextToken()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.tag != tokCharType || tok.ctype != ast.CTypeDigit || tok.negate {
		t.Fatalf("expected \\d -> CTypeDigit, got %+v", tok)
	}
}
