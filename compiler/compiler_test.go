package compiler

import (
	"testing"

	"github.com/coregx/goonig/analyzer"
	"github.com/coregx/goonig/ast"
	"github.com/coregx/goonig/encoding"
	"github.com/coregx/goonig/parser"
	"github.com/coregx/goonig/profile"
)

func mustCompileProgram(t *testing.T, pat string) *Program {
	t.Helper()
	enc, _ := encoding.ByName("UTF-8")
	root, res, err := parser.Parse([]byte(pat), ast.OptionNone, enc, profile.Oniguruma, parser.DefaultConfig())
	if err != nil {
		t.Fatalf("Parse(%q): %v", pat, err)
	}
	info := analyzer.Analyze(root, enc, analyzer.DefaultConfig())
	prog, cerr := Compile(Input{
		Root: root, NumMem: res.NumMem, Names: res.Names, NameOrder: res.NameOrder,
		Options: ast.OptionNone, Info: info, Enc: enc, Prof: profile.Oniguruma,
	})
	if cerr != nil {
		t.Fatalf("Compile(%q): %v", pat, cerr)
	}
	return prog
}

func TestCompileLiteralEmitsSingleStrInst(t *testing.T) {
	prog := mustCompileProgram(t, "abc")
	if len(prog.Insts) < 3 {
		t.Fatalf("expected at least OpStr+OpReturn+OpEnd, got %d insts", len(prog.Insts))
	}
	if prog.Insts[0].Op != OpStr || string(prog.Insts[0].Str) != "abc" {
		t.Fatalf("expected leading OpStr(\"abc\"), got %+v", prog.Insts[0])
	}
}

func TestCompileAlternationEmitsPushJump(t *testing.T) {
	prog := mustCompileProgram(t, "a|b")
	var sawPush, sawJump bool
	for _, inst := range prog.Insts {
		if inst.Op == OpPush {
			sawPush = true
		}
		if inst.Op == OpJump {
			sawJump = true
		}
	}
	if !sawPush || !sawJump {
		t.Fatalf("expected PUSH/JUMP pair for alternation, insts=%+v", prog.Insts)
	}
}

func TestCompileCapturingGroupEmitsMemStartEnd(t *testing.T) {
	prog := mustCompileProgram(t, "(a)")
	var start, end bool
	for _, inst := range prog.Insts {
		if inst.Op == OpMemStart && inst.GroupNum == 1 {
			start = true
		}
		if inst.Op == OpMemEnd && inst.GroupNum == 1 {
			end = true
		}
	}
	if !start || !end {
		t.Fatalf("expected MEM_START/MEM_END for group 1, insts=%+v", prog.Insts)
	}
	if prog.NumMem != 1 {
		t.Fatalf("expected NumMem=1, got %d", prog.NumMem)
	}
}

func TestCompileAtomicGroupEmitsMarkCutToMark(t *testing.T) {
	prog := mustCompileProgram(t, "(?>a+)")
	var mark, cut bool
	for _, inst := range prog.Insts {
		if inst.Op == OpMark {
			mark = true
		}
		if inst.Op == OpCutToMark {
			cut = true
		}
	}
	if !mark || !cut {
		t.Fatalf("expected MARK/CUT_TO_MARK for atomic group, insts=%+v", prog.Insts)
	}
}

func TestCompilePossessiveQuantifierEmitsMarkCutToMark(t *testing.T) {
	prog := mustCompileProgram(t, "a*+")
	var mark, cut bool
	for _, inst := range prog.Insts {
		if inst.Op == OpMark {
			mark = true
		}
		if inst.Op == OpCutToMark {
			cut = true
		}
	}
	if !mark || !cut {
		t.Fatalf("expected MARK/CUT_TO_MARK for possessive quantifier, insts=%+v", prog.Insts)
	}
}

func TestCompileLookaheadEmitsLookAheadInst(t *testing.T) {
	prog := mustCompileProgram(t, "a(?=b)")
	var found bool
	for _, inst := range prog.Insts {
		if inst.Op == OpLookAhead && !inst.Neg {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a positive LOOK_AHEAD instruction, insts=%+v", prog.Insts)
	}
}

func TestCompileExactOptimizeRecordOnPureLiteral(t *testing.T) {
	prog := mustCompileProgram(t, "hello")
	if prog.Optimize != analyzer.OptimizeExact {
		t.Fatalf("expected OptimizeExact for a pure literal, got %v", prog.Optimize)
	}
	if string(prog.Exact) != "hello" {
		t.Fatalf("expected Exact=\"hello\", got %q", prog.Exact)
	}
}

func TestCompileByteBoundsPropagateFromAnalyzer(t *testing.T) {
	prog := mustCompileProgram(t, "ab")
	if prog.ByteMin != 2 || prog.ByteMax != 2 {
		t.Fatalf("expected ByteMin=ByteMax=2 for a fixed 2-byte literal, got min=%d max=%d", prog.ByteMin, prog.ByteMax)
	}
}

func TestCompileSubexpCallEmitsCallReturn(t *testing.T) {
	prog := mustCompileProgram(t, `(?<r>a\g<r>?)`)
	var call, ret bool
	for _, inst := range prog.Insts {
		if inst.Op == OpCall {
			call = true
		}
		if inst.Op == OpReturn {
			ret = true
		}
	}
	if !call || !ret {
		t.Fatalf("expected CALL/RETURN for a recursive subexp-call, insts=%+v", prog.Insts)
	}
}
