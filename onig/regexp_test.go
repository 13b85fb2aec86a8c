package onig

import (
	"testing"

	"github.com/coregx/goonig/ast"
	"github.com/coregx/goonig/onigerr"
)

func mustCompile(t *testing.T, pat string, opts ast.OptionFlags) *Regexp {
	t.Helper()
	re, err := Compile(pat, opts, DefaultConfig())
	if err != nil {
		t.Fatalf("Compile(%q): %v", pat, err)
	}
	return re
}

// Scenario 1: `\d{4}-\d{2}-\d{2}` against "Event on 2025-12-31." matches at
// 9..19.
func TestScenarioDateLiteral(t *testing.T) {
	re := mustCompile(t, `\d{4}-\d{2}-\d{2}`, ast.OptionNone)
	start, end, ok := re.Find([]byte("Event on 2025-12-31."))
	if !ok || start != 9 || end != 19 {
		t.Fatalf("got start=%d end=%d ok=%v, want 9,19,true", start, end, ok)
	}
}

// Scenario 2: `(\w+) \1` against "the the quick" matches 0..7, group 1 = "the".
func TestScenarioBackrefRepeatedWord(t *testing.T) {
	re := mustCompile(t, `(\w+) \1`, ast.OptionNone)
	reg := re.NewRegion()
	pos, err := re.Search([]byte("the the quick"), 0, len("the the quick"), ast.OptionNone, reg)
	if err != nil || pos != 0 {
		t.Fatalf("Search: pos=%d err=%v, want 0,nil", pos, err)
	}
	if reg.Beg[0] != 0 || reg.End[0] != 7 {
		t.Fatalf("got match [%d,%d), want [0,7)", reg.Beg[0], reg.End[0])
	}
	if reg.Beg[1] != 0 || reg.End[1] != 3 {
		t.Fatalf("got group1 [%d,%d), want [0,3) (\"the\")", reg.Beg[1], reg.End[1])
	}
}

// Scenario 3: `(?<=\$)\d+` against "price: $42" matches at 8..10.
func TestScenarioLookbehind(t *testing.T) {
	re := mustCompile(t, `(?<=\$)\d+`, ast.OptionNone)
	start, end, ok := re.Find([]byte("price: $42"))
	if !ok || start != 8 || end != 10 {
		t.Fatalf("got start=%d end=%d ok=%v, want 8,10,true", start, end, ok)
	}
}

// Scenario 4: `\Afirst` against "first-and-first" matches at 0..5.
// Scenario 4b: the same search with NOT_BEGIN_STRING at start=0 mismatches.
func TestScenarioBeginBufAnchor(t *testing.T) {
	re := mustCompile(t, `\Afirst`, ast.OptionNone)
	input := []byte("first-and-first")
	reg := re.NewRegion()

	pos, err := re.Search(input, 0, len(input), ast.OptionNone, reg)
	if err != nil || pos != 0 || reg.End[0] != 5 {
		t.Fatalf("got pos=%d end=%d err=%v, want 0,5,nil", pos, reg.End[0], err)
	}

	pos, err = re.Search(input, 0, len(input), ast.OptionNotBeginString, reg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pos >= 0 {
		t.Fatalf("expected mismatch under NOT_BEGIN_STRING, got pos=%d", pos)
	}
}

// Scenario 5: `\G-and` against "first-and-second" with start=5 matches at
// 5..9; with NOT_BEGIN_POSITION at start=5 it mismatches.
func TestScenarioContinuationAnchor(t *testing.T) {
	re := mustCompile(t, `\G-and`, ast.OptionNone)
	input := []byte("first-and-second")
	reg := re.NewRegion()

	pos, err := re.Search(input, 5, len(input), ast.OptionNone, reg)
	if err != nil || pos != 5 || reg.End[0] != 9 {
		t.Fatalf("got pos=%d end=%d err=%v, want 5,9,nil", pos, reg.End[0], err)
	}

	pos, err = re.Search(input, 5, len(input), ast.OptionNotBeginPosition, reg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pos >= 0 {
		t.Fatalf("expected mismatch under NOT_BEGIN_POSITION, got pos=%d", pos)
	}
}

// Scenario 8: `(a+)+b` against a long run of 'a's with no trailing 'b' blows
// the retry limit rather than hanging.
func TestScenarioRetryLimitCatastrophicBacktracking(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Limits.RetryLimitInMatch = 10_000_000
	re, err := Compile(`(a+)+b`, ast.OptionNone, cfg)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	input := []byte("aaaaaaaaaaaaaaaaaaX")
	reg := re.NewRegion()
	_, serr := re.Search(input, 0, len(input), ast.OptionNone, reg)
	if serr == nil {
		t.Fatalf("expected retry-limit error, got nil")
	}
	if serr.Code != onigerr.ErrRetryLimitInMatch && serr.Code != onigerr.ErrRetryLimitInSearch {
		t.Fatalf("expected a retry-limit error code, got %v", serr.Code)
	}
}

func TestRegionConsistencyInvariant(t *testing.T) {
	re := mustCompile(t, `(a)(b)?(c)`, ast.OptionNone)
	reg := re.NewRegion()
	pos, err := re.Search([]byte("xacy"), 0, 4, ast.OptionNone, reg)
	if err != nil || pos < 0 {
		t.Fatalf("Search: pos=%d err=%v", pos, err)
	}
	if !(0 <= reg.Beg[0] && reg.Beg[0] <= reg.End[0] && reg.End[0] <= 4) {
		t.Fatalf("invalid overall match bounds: %+v", reg.Beg)
	}
	for i := 1; i < reg.NumRegs(); i++ {
		if reg.Beg[i] == -1 {
			if reg.End[i] != -1 {
				t.Fatalf("group %d: beg unset but end set", i)
			}
			continue
		}
		if !(reg.Beg[0] <= reg.Beg[i] && reg.Beg[i] <= reg.End[i] && reg.End[i] <= reg.End[0]) {
			t.Fatalf("group %d out of bounds: [%d,%d) within [%d,%d)", i, reg.Beg[i], reg.End[i], reg.Beg[0], reg.End[0])
		}
	}
	// group 2 ("b)?") did not participate.
	if reg.Beg[2] != -1 || reg.End[2] != -1 {
		t.Fatalf("expected group 2 unset, got [%d,%d)", reg.Beg[2], reg.End[2])
	}
}

func TestDeterminismAcrossRepeatedSearches(t *testing.T) {
	re := mustCompile(t, `(\w+)@(\w+)\.com`, ast.OptionNone)
	input := []byte("contact me at user@example.com please")
	var first [2]int
	for i := 0; i < 5; i++ {
		reg := re.NewRegion()
		pos, err := re.Search(input, 0, len(input), ast.OptionNone, reg)
		if err != nil || pos < 0 {
			t.Fatalf("run %d: pos=%d err=%v", i, pos, err)
		}
		if i == 0 {
			first = [2]int{reg.Beg[0], reg.End[0]}
			continue
		}
		if reg.Beg[0] != first[0] || reg.End[0] != first[1] {
			t.Fatalf("run %d: non-deterministic result %v vs %v", i, [2]int{reg.Beg[0], reg.End[0]}, first)
		}
	}
}

func TestIgnoreCaseOption(t *testing.T) {
	re := mustCompile(t, `HELLO`, ast.OptionIgnoreCase)
	if !re.IsMatch([]byte("say hello there")) {
		t.Fatalf("expected case-insensitive match")
	}
}

func TestNamedGroupLookup(t *testing.T) {
	re := mustCompile(t, `(?<year>\d{4})-(?<month>\d{2})-(?<day>\d{2})`, ast.OptionNone)
	reg := re.NewRegion()
	pos, err := re.Search([]byte("2025-12-31"), 0, 10, ast.OptionNone, reg)
	if err != nil || pos != 0 {
		t.Fatalf("Search: pos=%d err=%v", pos, err)
	}
	nums, ok := re.GroupNumbers("year")
	if !ok || len(nums) != 1 {
		t.Fatalf("GroupNumbers(year): %v ok=%v", nums, ok)
	}
	yb, ye := reg.Beg[nums[0]], reg.End[nums[0]]
	if string([]byte("2025-12-31")[yb:ye]) != "2025" {
		t.Fatalf("year capture = %q, want 2025", "2025-12-31"[yb:ye])
	}
}

func TestAtomicGroupNoBacktrackIntoBody(t *testing.T) {
	// (?>a*)a never matches since the atomic group consumes every 'a'
	// greedily and backtracking cannot give any back.
	re := mustCompile(t, `(?>a*)a`, ast.OptionNone)
	if re.IsMatch([]byte("aaaa")) {
		t.Fatalf("expected no match: atomic group must not yield back characters")
	}
}

func TestMismatchIsNotAnError(t *testing.T) {
	re := mustCompile(t, `zzz`, ast.OptionNone)
	start, end, ok := re.Find([]byte("abc"))
	if ok || start != 0 || end != 0 {
		t.Fatalf("expected a clean false Find, got start=%d end=%d ok=%v", start, end, ok)
	}
}

func TestInvalidConfigEncoding(t *testing.T) {
	var cfg Config
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error validating zero-value Config (no Encoding)")
	}
}
