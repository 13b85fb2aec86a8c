package parser

import (
	"testing"

	"github.com/coregx/goonig/ast"
	"github.com/coregx/goonig/encoding"
	"github.com/coregx/goonig/profile"
)

func mustParse(t *testing.T, pat string) (*ast.Node, *Result) {
	t.Helper()
	root, res, err := Parse([]byte(pat), ast.OptionNone, encoding.UTF8, profile.Oniguruma, DefaultConfig())
	if err != nil {
		t.Fatalf("Parse(%q): %v", pat, err)
	}
	return root, res
}

func TestParseLiteralCoalescesString(t *testing.T) {
	root, _ := mustParse(t, "abc")
	if root.Kind != ast.KString {
		t.Fatalf("expected a single coalesced KString atom, got %v", root.Kind)
	}
	if string(root.Bytes) != "abc" {
		t.Fatalf("expected \"abc\", got %q", root.Bytes)
	}
}

func TestParseAlternation(t *testing.T) {
	root, _ := mustParse(t, "a|b")
	if root.Kind != ast.KAlt {
		t.Fatalf("expected KAlt, got %v", root.Kind)
	}
}

func TestParseCapturingGroupAssignsRegNum(t *testing.T) {
	root, res := mustParse(t, "(a)(b)")
	if res.NumMem != 2 {
		t.Fatalf("expected 2 capture groups, got %d", res.NumMem)
	}
	first := root.Car // KBag for (a)
	if first.Kind != ast.KBag || first.BagType != ast.BagMemory || first.RegNum != 1 {
		t.Fatalf("expected first group regnum 1, got %+v", first)
	}
}

func TestParseNamedGroupRegistersName(t *testing.T) {
	_, res := mustParse(t, "(?<year>\\d+)")
	nums, ok := res.Names["year"]
	if !ok || len(nums) != 1 || nums[0] != 1 {
		t.Fatalf("expected name 'year' -> [1], got %v ok=%v", nums, ok)
	}
}

func TestParseNonCapturingGroupDoesNotConsumeRegNum(t *testing.T) {
	_, res := mustParse(t, "(?:a)(b)")
	if res.NumMem != 1 {
		t.Fatalf("expected 1 capture group, got %d", res.NumMem)
	}
}

func TestParseQuantifierOnZeroWidthAnchorIsError(t *testing.T) {
	_, _, err := Parse([]byte("^*"), ast.OptionNone, encoding.UTF8, profile.Oniguruma, DefaultConfig())
	if err == nil {
		t.Fatalf("expected error quantifying a zero-width anchor")
	}
}

func TestParseBackrefResolvesToNamedGroup(t *testing.T) {
	root, _ := mustParse(t, "(?<x>a)\\k<x>")
	// root is a KList: (group), backref
	backref := root.Cdr.Car
	if backref.Kind != ast.KBackRef {
		t.Fatalf("expected KBackRef, got %v", backref.Kind)
	}
	if len(backref.GroupNums) != 1 || backref.GroupNums[0] != 1 {
		t.Fatalf("expected backref resolved to group 1, got %v", backref.GroupNums)
	}
}

func TestParseUndefinedBackrefIsError(t *testing.T) {
	_, _, err := Parse([]byte(`\k<nope>`), ast.OptionNone, encoding.UTF8, profile.Oniguruma, DefaultConfig())
	if err == nil {
		t.Fatalf("expected error for undefined named backref")
	}
}

func TestParseRecursiveCallMarksGroupRecursive(t *testing.T) {
	root, _ := mustParse(t, `(?<r>a\g<r>?)`)
	group := root // the (?<r>...) Bag is the pattern's sole top-level atom
	if group.Status&ast.StatusRecursive == 0 {
		t.Fatalf("expected group 'r' marked recursive, status=%v", group.Status)
	}
}

func TestParseCharClassRange(t *testing.T) {
	root, _ := mustParse(t, "[a-c]")
	cc := root
	if cc.Kind != ast.KCharClass {
		t.Fatalf("expected KCharClass, got %v", cc.Kind)
	}
	for _, c := range []byte{'a', 'b', 'c'} {
		if cc.Bitmap[c/8]&(1<<(c%8)) == 0 {
			t.Fatalf("expected %q in class", c)
		}
	}
	if cc.Bitmap['d'/8]&(1<<('d'%8)) != 0 {
		t.Fatalf("did not expect 'd' in class")
	}
}

func TestParseCharClassNegation(t *testing.T) {
	root, _ := mustParse(t, "[^a]")
	if !root.Negate {
		t.Fatalf("expected negated char class")
	}
}

func TestParseLookaheadGroup(t *testing.T) {
	root, _ := mustParse(t, "a(?=b)")
	look := root.Cdr.Car
	if look.Kind != ast.KAnchor || look.AnchorKind != ast.AnchorLookAhead {
		t.Fatalf("expected lookahead anchor, got %+v", look)
	}
}

func TestParseInlineOptionScope(t *testing.T) {
	root, _ := mustParse(t, "(?i:a)")
	opt := root
	if opt.Kind != ast.KBag || opt.BagType != ast.BagOption {
		t.Fatalf("expected option-scope Bag, got %v", opt.Kind)
	}
	if opt.OptionsOn&ast.OptionIgnoreCase == 0 {
		t.Fatalf("expected OptionIgnoreCase set on scope")
	}
}

func TestParseIntervalQuantifier(t *testing.T) {
	root, _ := mustParse(t, "a{2,4}")
	q := root
	if q.Kind != ast.KQuantifier || q.Min != 2 || q.Max != 4 {
		t.Fatalf("expected {2,4}, got min=%d max=%d", q.Min, q.Max)
	}
}

func TestParseUnmatchedParenIsError(t *testing.T) {
	_, _, err := Parse([]byte("(a"), ast.OptionNone, encoding.UTF8, profile.Oniguruma, DefaultConfig())
	if err == nil {
		t.Fatalf("expected error for unmatched '('")
	}
}
