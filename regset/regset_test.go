package regset

import (
	"testing"

	"github.com/coregx/goonig/analyzer"
	"github.com/coregx/goonig/ast"
	"github.com/coregx/goonig/compiler"
	"github.com/coregx/goonig/encoding"
	"github.com/coregx/goonig/onigerr"
	"github.com/coregx/goonig/parser"
	"github.com/coregx/goonig/profile"
	"github.com/coregx/goonig/vm"
)

func mustCompileProgram(t *testing.T, pat string) *compiler.Program {
	t.Helper()
	enc, _ := encoding.ByName("UTF-8")
	root, res, err := parser.Parse([]byte(pat), ast.OptionNone, enc, profile.Oniguruma, parser.DefaultConfig())
	if err != nil {
		t.Fatalf("Parse(%q): %v", pat, err)
	}
	info := analyzer.Analyze(root, enc, analyzer.DefaultConfig())
	prog, cerr := compiler.Compile(compiler.Input{
		Root: root, NumMem: res.NumMem, Names: res.Names, NameOrder: res.NameOrder,
		Options: ast.OptionNone, Info: info, Enc: enc, Prof: profile.Oniguruma,
	})
	if cerr != nil {
		t.Fatalf("Compile(%q): %v", pat, cerr)
	}
	return prog
}

// Scenario 6: RegSet [abc, def, ghi] against "xxxdefyyy" under PositionLead
// picks idx=1 at pos=3.
func TestRegSetPositionLeadEarliestWins(t *testing.T) {
	rs := New(PositionLead, vm.DefaultLimits())
	for _, pat := range []string{"abc", "def", "ghi"} {
		if _, err := rs.Add(mustCompileProgram(t, pat)); err != nil {
			t.Fatalf("Add(%q): %v", pat, err)
		}
	}
	res, err := rs.Search([]byte("xxxdefyyy"), 0, 9, ast.OptionNone)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Index != 1 || res.Region.Beg[0] != 3 {
		t.Fatalf("got idx=%d pos=%d, want idx=1,pos=3", res.Index, res.Region.Beg[0])
	}
}

func TestRegSetRejectsFindLongest(t *testing.T) {
	rs := New(PositionLead, vm.DefaultLimits())
	prog := mustCompileProgram(t, "a")
	prog.Options = prog.Options.With(ast.OptionFindLongest)
	_, err := rs.Add(prog)
	if err == nil || err.Code != onigerr.ErrFindLongestInSet {
		t.Fatalf("expected ErrFindLongestInSet, got %v", err)
	}
}

func TestRegSetRegexLeadPrefersFirstMemberOwnEarliest(t *testing.T) {
	rs := New(RegexLead, vm.DefaultLimits())
	// member 0 matches later in the string than member 1 would, but
	// RegexLead must still prefer member 0 since it matches at all.
	if _, err := rs.Add(mustCompileProgram(t, "zzz")); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := rs.Add(mustCompileProgram(t, "aaa")); err != nil {
		t.Fatalf("Add: %v", err)
	}
	res, err := rs.Search([]byte("aaa....zzz"), 0, 10, ast.OptionNone)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Index != 0 {
		t.Fatalf("expected RegexLead to prefer member 0, got %d", res.Index)
	}
}

func TestRegSetMismatchWhenNoMemberMatches(t *testing.T) {
	rs := New(PositionLead, vm.DefaultLimits())
	if _, err := rs.Add(mustCompileProgram(t, "zzz")); err != nil {
		t.Fatalf("Add: %v", err)
	}
	_, err := rs.Search([]byte("abc"), 0, 3, ast.OptionNone)
	if err == nil || err.Code != onigerr.Mismatch {
		t.Fatalf("expected Mismatch, got %v", err)
	}
}

// Scenario 7: Scanner [\d+, [a-z]+] against "hello42" from start=0 picks the
// [a-z]+ member (idx=1), capturing 0..5.
func TestScannerPicksEarliestAcrossPatterns(t *testing.T) {
	rs := New(PositionLead, vm.DefaultLimits())
	if _, err := rs.Add(mustCompileProgram(t, `\d+`)); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := rs.Add(mustCompileProgram(t, `[a-z]+`)); err != nil {
		t.Fatalf("Add: %v", err)
	}
	sc := NewScanner(rs, false)
	res, err := sc.Search(0, []byte("hello42"), 0, 7, ast.OptionNone)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Index != 1 || res.Region.Beg[0] != 0 || res.Region.End[0] != 5 {
		t.Fatalf("got idx=%d [%d,%d), want idx=1,[0,5)", res.Index, res.Region.Beg[0], res.Region.End[0])
	}
}

func TestScannerCacheIsTransparentToResult(t *testing.T) {
	rs := New(PositionLead, vm.DefaultLimits())
	if _, err := rs.Add(mustCompileProgram(t, "needle")); err != nil {
		t.Fatalf("Add: %v", err)
	}
	input := make([]byte, 300)
	for i := range input {
		input[i] = 'x'
	}
	copy(input[250:], "needle")

	sc := NewScanner(rs, true)
	uncached := NewScanner(rs, false)

	r1, err1 := sc.Search(1, input, 0, len(input), ast.OptionNone)
	r2, err2 := uncached.Search(1, input, 0, len(input), ast.OptionNone)
	if err1 != nil || err2 != nil {
		t.Fatalf("Search errors: %v %v", err1, err2)
	}
	if r1.Region.Beg[0] != r2.Region.Beg[0] || r1.Region.End[0] != r2.Region.End[0] {
		t.Fatalf("cached vs uncached results differ: %v vs %v", r1, r2)
	}

	// A second call with the same key should hit the cache and return the
	// same outcome.
	r3, err3 := sc.Search(1, input, 0, len(input), ast.OptionNone)
	if err3 != nil {
		t.Fatalf("Search: %v", err3)
	}
	if r3.Region.Beg[0] != r1.Region.Beg[0] {
		t.Fatalf("cache returned a different result on repeat Search")
	}
}

func TestUTF16BridgeRoundtrip(t *testing.T) {
	// "a\U0001F600b" = 'a', an emoji (supplementary plane, surrogate pair in
	// UTF-16), 'b'.
	s := "a\U0001F600b"
	idx := NewUTF16Index([]byte(s))
	for u := 0; u <= 4; u++ { // 'a'=1 unit, emoji=2 units (surrogate pair), 'b'=1 unit
		b := idx.ByteOffset(u)
		back, ok := idx.UTF16Offset(b)
		if !ok {
			continue // not every u16 offset lands on a character boundary (mid-surrogate)
		}
		if back > u {
			t.Fatalf("UTF16Offset(ByteOffset(%d))=%d should not exceed %d", u, back, u)
		}
	}
}
