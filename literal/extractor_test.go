package literal

import (
	"testing"

	"github.com/coregx/goonig/ast"
	"github.com/coregx/goonig/encoding"
	"github.com/coregx/goonig/parser"
	"github.com/coregx/goonig/profile"
)

func mustParseNode(t *testing.T, pat string) *ast.Node {
	t.Helper()
	root, _, err := parser.Parse([]byte(pat), ast.OptionNone, encoding.UTF8, profile.Oniguruma, parser.DefaultConfig())
	if err != nil {
		t.Fatalf("Parse(%q): %v", pat, err)
	}
	return root
}

func litStrings(s *Seq) []string {
	out := make([]string, s.Len())
	for i := 0; i < s.Len(); i++ {
		out[i] = string(s.Get(i).Bytes)
	}
	return out
}

func containsLit(s *Seq, want string) bool {
	for _, got := range litStrings(s) {
		if got == want {
			return true
		}
	}
	return false
}

func TestExtractPrefixesLiteral(t *testing.T) {
	e := New(DefaultConfig())
	seq := e.ExtractPrefixes(mustParseNode(t, "hello"))
	if seq.Len() != 1 || string(seq.Get(0).Bytes) != "hello" || !seq.Get(0).Complete {
		t.Fatalf("expected exact literal \"hello\", got %v", litStrings(seq))
	}
}

func TestExtractPrefixesAlternation(t *testing.T) {
	e := New(DefaultConfig())
	seq := e.ExtractPrefixes(mustParseNode(t, "foo|bar"))
	if seq.Len() != 2 || !containsLit(seq, "foo") || !containsLit(seq, "bar") {
		t.Fatalf("expected [foo bar], got %v", litStrings(seq))
	}
}

func TestExtractPrefixesAlternationWithEmptyBranchIsUnconstrained(t *testing.T) {
	e := New(DefaultConfig())
	seq := e.ExtractPrefixes(mustParseNode(t, "abc|.*"))
	if !seq.IsEmpty() {
		t.Fatalf("expected no prefix requirement, got %v", litStrings(seq))
	}
}

func TestExtractPrefixesCrossProductThroughCharClass(t *testing.T) {
	e := New(DefaultConfig())
	seq := e.ExtractPrefixes(mustParseNode(t, "ag[act]gtaaa"))
	want := []string{"agagtaaa", "agcgtaaa", "agtgtaaa"}
	for _, w := range want {
		if !containsLit(seq, w) {
			t.Fatalf("expected %q in %v", w, litStrings(seq))
		}
	}
}

func TestExtractPrefixesStopsAtWildcard(t *testing.T) {
	e := New(DefaultConfig())
	seq := e.ExtractPrefixes(mustParseNode(t, "hello.*world"))
	if seq.Len() != 1 || string(seq.Get(0).Bytes) != "hello" || seq.Get(0).Complete {
		t.Fatalf("expected inexact prefix \"hello\", got %v", litStrings(seq))
	}
}

func TestExtractPrefixesNoRequirementForLeadingWildcard(t *testing.T) {
	e := New(DefaultConfig())
	seq := e.ExtractPrefixes(mustParseNode(t, ".*world"))
	if !seq.IsEmpty() {
		t.Fatalf("expected no prefix requirement, got %v", litStrings(seq))
	}
}

func TestExtractPrefixesSkipsLargeCharClass(t *testing.T) {
	e := New(DefaultConfig())
	seq := e.ExtractPrefixes(mustParseNode(t, "[a-z]"))
	if !seq.IsEmpty() {
		t.Fatalf("expected [a-z] to exceed MaxClassSize and yield no literals, got %v", litStrings(seq))
	}
}

func TestExtractSuffixesLiteral(t *testing.T) {
	e := New(DefaultConfig())
	seq := e.ExtractSuffixes(mustParseNode(t, "world"))
	if seq.Len() != 1 || string(seq.Get(0).Bytes) != "world" {
		t.Fatalf("expected \"world\", got %v", litStrings(seq))
	}
}

func TestExtractSuffixesCrossBackward(t *testing.T) {
	e := New(DefaultConfig())
	seq := e.ExtractSuffixes(mustParseNode(t, `\.txt|\.log|\.md`))
	for _, w := range []string{".txt", ".log", ".md"} {
		if !containsLit(seq, w) {
			t.Fatalf("expected %q in %v", w, litStrings(seq))
		}
	}
}

func TestExtractSuffixesNoneForTrailingWildcard(t *testing.T) {
	e := New(DefaultConfig())
	seq := e.ExtractSuffixes(mustParseNode(t, "foo.*"))
	if !seq.IsEmpty() {
		t.Fatalf("expected no suffix requirement, got %v", litStrings(seq))
	}
}

func TestExtractInnerFindsMiddleLiteral(t *testing.T) {
	e := New(DefaultConfig())
	seq := e.ExtractInner(mustParseNode(t, ".*foo.*"))
	if !containsLit(seq, "foo") {
		t.Fatalf("expected \"foo\" among inner literals, got %v", litStrings(seq))
	}
}

func TestExtractPrefixesIgnoresNonCapturingGroup(t *testing.T) {
	e := New(DefaultConfig())
	seq := e.ExtractPrefixes(mustParseNode(t, "(?:abc)def"))
	if seq.Len() != 1 || string(seq.Get(0).Bytes) != "abcdef" {
		t.Fatalf("expected \"abcdef\", got %v", litStrings(seq))
	}
}

func TestExtractPrefixesCrossProductOverflowMarksInexact(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CrossProductLimit = 2
	e := New(cfg)
	seq := e.ExtractPrefixes(mustParseNode(t, "[abc][def]"))
	for i := 0; i < seq.Len(); i++ {
		if seq.Get(i).Complete {
			t.Fatalf("expected all literals inexact after overflow, got %v", litStrings(seq))
		}
	}
}
