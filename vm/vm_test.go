package vm

import (
	"testing"
	"time"

	"github.com/coregx/goonig/analyzer"
	"github.com/coregx/goonig/ast"
	"github.com/coregx/goonig/compiler"
	"github.com/coregx/goonig/encoding"
	"github.com/coregx/goonig/onigerr"
	"github.com/coregx/goonig/parser"
	"github.com/coregx/goonig/profile"
	"github.com/coregx/goonig/region"
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

func TestSearchGreedyQuantifierMaximalMatch(t *testing.T) {
	prog := mustCompileProgram(t, "a+")
	reg := region.New(prog.NumMem)
	pos, err := Search(prog, []byte("aaab"), 0, 4, ast.OptionNone, DefaultLimits(), reg)
	if err != nil || pos != 0 || reg.End[0] != 3 {
		t.Fatalf("got pos=%d end=%d err=%v, want 0,3,nil", pos, reg.End[0], err)
	}
}

func TestSearchLazyQuantifierMinimalMatch(t *testing.T) {
	prog := mustCompileProgram(t, "a+?")
	reg := region.New(prog.NumMem)
	pos, err := Search(prog, []byte("aaab"), 0, 4, ast.OptionNone, DefaultLimits(), reg)
	if err != nil || pos != 0 || reg.End[0] != 1 {
		t.Fatalf("got pos=%d end=%d err=%v, want 0,1,nil", pos, reg.End[0], err)
	}
}

func TestSearchWordBoundary(t *testing.T) {
	prog := mustCompileProgram(t, `\bcat\b`)
	reg := region.New(prog.NumMem)
	input := []byte("concatenate cat now")
	pos, err := Search(prog, input, 0, len(input), ast.OptionNone, DefaultLimits(), reg)
	if err != nil || pos != 12 {
		t.Fatalf("got pos=%d err=%v, want 12,nil", pos, err)
	}
}

func TestMatchAtMismatchIsNotAnError(t *testing.T) {
	prog := mustCompileProgram(t, "xyz")
	reg := region.New(prog.NumMem)
	_, err := MatchAt(prog, []byte("abc"), 0, ast.OptionNone, DefaultLimits(), reg)
	if err == nil || err.Code != onigerr.Mismatch {
		t.Fatalf("expected Mismatch, got %v", err)
	}
}

func TestMatchAtRejectsOutOfRangePosition(t *testing.T) {
	prog := mustCompileProgram(t, "a")
	reg := region.New(prog.NumMem)
	_, err := MatchAt(prog, []byte("abc"), 10, ast.OptionNone, DefaultLimits(), reg)
	if err == nil || err.Code != onigerr.ErrInvalidArgument {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestSearchRejectsStartAfterEnd(t *testing.T) {
	prog := mustCompileProgram(t, "a")
	reg := region.New(prog.NumMem)
	_, err := Search(prog, []byte("abc"), 2, 1, ast.OptionNone, DefaultLimits(), reg)
	if err == nil || err.Code != onigerr.ErrStartAfterEnd {
		t.Fatalf("expected ErrStartAfterEnd, got %v", err)
	}
}

func TestSearchRejectsNilProgram(t *testing.T) {
	reg := region.New(0)
	_, err := Search(nil, []byte("abc"), 0, 3, ast.OptionNone, DefaultLimits(), reg)
	if err == nil || err.Code != onigerr.ErrNilProgram {
		t.Fatalf("expected ErrNilProgram, got %v", err)
	}
}

func TestMatchStackLimitOver(t *testing.T) {
	prog := mustCompileProgram(t, "(a|aa|aaa)+b")
	reg := region.New(prog.NumMem)
	limits := DefaultLimits()
	limits.MatchStackLimit = 4
	input := make([]byte, 64)
	for i := range input {
		input[i] = 'a'
	}
	_, err := Search(prog, input, 0, len(input), ast.OptionNone, limits, reg)
	if err == nil || err.Code != onigerr.ErrMatchStackLimitOver {
		t.Fatalf("expected ErrMatchStackLimitOver, got %v", err)
	}
}

func TestSubexpCallMaxNestLevel(t *testing.T) {
	prog := mustCompileProgram(t, `(?<r>a\g<r>)`)
	reg := region.New(prog.NumMem)
	limits := DefaultLimits()
	limits.SubexpCallMaxNestLevel = 3
	input := make([]byte, 100)
	for i := range input {
		input[i] = 'a'
	}
	_, err := MatchAt(prog, input, 0, ast.OptionNone, limits, reg)
	if err == nil || err.Code != onigerr.ErrSubexpCallMaxNest {
		t.Fatalf("expected ErrSubexpCallMaxNest, got %v", err)
	}
}

func TestTimeLimitExceeded(t *testing.T) {
	prog := mustCompileProgram(t, "(a+)+b")
	reg := region.New(prog.NumMem)
	limits := DefaultLimits()
	limits.RetryLimitInMatch = 0 // disable so TimeLimit is what fires
	limits.TimeLimit = time.Nanosecond
	input := make([]byte, 40)
	for i := range input {
		input[i] = 'a'
	}
	_, err := Search(prog, input, 0, len(input), ast.OptionNone, limits, reg)
	if err == nil {
		t.Fatalf("expected a limit error")
	}
	if err.Code != onigerr.ErrTimeLimit && err.Code != onigerr.ErrMatchStackLimitOver {
		t.Fatalf("expected ErrTimeLimit, got %v", err)
	}
}

func TestLookbehindFixedLength(t *testing.T) {
	prog := mustCompileProgram(t, `(?<=foo)bar`)
	reg := region.New(prog.NumMem)
	pos, err := Search(prog, []byte("foobar"), 0, 6, ast.OptionNone, DefaultLimits(), reg)
	if err != nil || pos != 3 || reg.End[0] != 6 {
		t.Fatalf("got pos=%d end=%d err=%v, want 3,6,nil", pos, reg.End[0], err)
	}
}

func TestNegativeLookaheadRejectsMatch(t *testing.T) {
	prog := mustCompileProgram(t, `foo(?!bar)`)
	reg := region.New(prog.NumMem)
	_, err := Search(prog, []byte("foobar"), 0, 6, ast.OptionNone, DefaultLimits(), reg)
	if err == nil || err.Code != onigerr.Mismatch {
		t.Fatalf("expected mismatch for foo(?!bar) against foobar, got %v", err)
	}
	reg2 := region.New(prog.NumMem)
	pos, err2 := Search(prog, []byte("foobaz"), 0, 6, ast.OptionNone, DefaultLimits(), reg2)
	if err2 != nil || pos != 0 {
		t.Fatalf("expected match at 0 for foo(?!bar) against foobaz, pos=%d err=%v", pos, err2)
	}
}
