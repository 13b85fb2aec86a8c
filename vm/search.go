package vm

import (
	"github.com/coregx/goonig/analyzer"
	"github.com/coregx/goonig/ast"
	"github.com/coregx/goonig/compiler"
	"github.com/coregx/goonig/onigerr"
	"github.com/coregx/goonig/prefilter"
	"github.com/coregx/goonig/region"
	"github.com/coregx/goonig/simd"
)

// MatchAt attempts a single anchored match of prog against input, starting
// exactly at pos. On success reg holds the capture
// offsets and the overall match length is returned; on a clean failure
// Mismatch is returned with reg untouched beyond being cleared.
func MatchAt(prog *compiler.Program, input []byte, pos int, options ast.OptionFlags, limits Limits, reg *region.Region) (int, *onigerr.Error) {
	if prog == nil {
		return 0, onigerr.New(onigerr.ErrNilProgram)
	}
	if pos < 0 || pos > len(input) {
		return 0, onigerr.New(onigerr.ErrInvalidArgument)
	}
	reg.Clear()
	m := New(prog, input, limits, reg)
	m.options = options
	m.searchStart = pos

	reg.Beg[0] = pos
	end, err := m.run(0, pos, 0)
	if err != nil {
		return 0, err
	}
	if options.Has(ast.OptionFindNotEmpty) && end == pos {
		return 0, onigerr.New(onigerr.Mismatch)
	}
	reg.End[0] = end
	return end - pos, nil
}

// Search scans input in [start,end) for the first position a match can
// begin, applying the fast-scan pre-filter and anchor-driven range
// narrowing of before falling back to MatchAt at each candidate
// start. On success reg holds the capture offsets and the match's start
// offset is returned; on a clean failure Mismatch is returned.
func Search(prog *compiler.Program, input []byte, start, end int, options ast.OptionFlags, limits Limits, reg *region.Region) (int, *onigerr.Error) {
	if prog == nil {
		return 0, onigerr.New(onigerr.ErrNilProgram)
	}
	if start > end {
		return 0, onigerr.New(onigerr.ErrStartAfterEnd)
	}
	if start < 0 || end > len(input) {
		return 0, onigerr.New(onigerr.ErrInvalidArgument)
	}

	lo, hi := narrowRange(prog, input, start, end)

	var tracker *prefilter.Tracker
	if prog.Optimize == analyzer.OptimizeMap && prog.Filter != nil {
		tracker = prefilter.NewTracker(prog.Filter)
	}

	for pos := lo; pos <= hi; pos++ {
		pos = advanceToCandidate(prog, input, pos, hi, tracker)
		if pos > hi {
			break
		}
		n, err := MatchAt(prog, input, pos, options, limits, reg)
		if err == nil {
			_ = n
			if tracker != nil {
				tracker.ConfirmMatch()
			}
			return pos, nil
		}
		if err.Code != onigerr.Mismatch {
			return 0, err
		}
		if prog.Anchors&analyzer.AnchorBeginBuf != 0 || prog.Anchors&analyzer.AnchorBeginPosition != 0 {
			break
		}
	}
	return 0, onigerr.New(onigerr.Mismatch)
}

// narrowRange shrinks [start,end) using the program's anchor summary: BEGIN_BUF/BEGIN_POSITION pin the
// search to a single start offset, SEMI_END_BUF/END_BUF pin how far back a
// match could still begin given its minimum length.
func narrowRange(prog *compiler.Program, input []byte, start, end int) (int, int) {
	lo, hi := start, end

	if prog.Anchors&analyzer.AnchorBeginBuf != 0 {
		if start > 0 {
			return 1, 0 // empty range: no match possible
		}
		hi = lo
	}
	if prog.Anchors&analyzer.AnchorBeginPosition != 0 {
		hi = lo
	}
	if prog.Anchors&(analyzer.AnchorEndBuf|analyzer.AnchorSemiEndBuf) != 0 && prog.CharMin > 0 {
		if end-prog.CharMin < hi {
			hi = end - prog.CharMin
		}
	}
	if prog.ThresholdLen > 0 && end-start < prog.ThresholdLen {
		return 1, 0
	}
	return lo, hi
}

// advanceToCandidate returns the first offset >= pos (and <= hi) where a
// match could plausibly start, per the program's optimize record, or hi+1 if
// no such offset exists. The Exact/ExactIC/Map cases all hand off to
// package simd's SIMD-accelerated primitives (or, for Map, to the
// prefilter.Prefilter analyzer built from the pattern's extracted
// literals, wrapped in a prefilter.Tracker that retires it mid-search if it
// turns out to be throwing too many false candidates) rather than scanning
// byte-by-byte.
func advanceToCandidate(prog *compiler.Program, input []byte, pos, hi int, tracker *prefilter.Tracker) int {
	switch prog.Optimize {
	case analyzer.OptimizeExact:
		idx := simd.Memmem(input[pos:], prog.Exact)
		if idx < 0 {
			return hi + 1
		}
		return pos + idx
	case analyzer.OptimizeExactIC:
		return advanceToCandidateIC(prog, input, pos, hi)
	case analyzer.OptimizeMap:
		if tracker == nil || !tracker.IsActive() {
			return pos
		}
		idx := tracker.Find(input[pos:], 0)
		if idx < 0 {
			return hi + 1
		}
		found := pos + idx
		if found > hi {
			return hi + 1
		}
		return found
	default:
		return pos
	}
}

// advanceToCandidateIC scans for a case-insensitive match of prog.Exact,
// using simd.Memchr2 to jump between candidate positions for the literal's
// first byte (both case variants) instead of testing every offset.
func advanceToCandidateIC(prog *compiler.Program, input []byte, pos, hi int) int {
	if !prog.Enc.ASCIICompatible || len(prog.Exact) == 0 {
		return hi + 1
	}
	first := prog.Exact[0]
	lo, up := asciiLower(first), asciiUpper(first)
	for p := pos; p <= hi; {
		if p >= len(input) {
			return hi + 1
		}
		rel := simd.Memchr2(input[p:], lo, up)
		if rel < 0 {
			return hi + 1
		}
		cand := p + rel
		if cand > hi {
			return hi + 1
		}
		if cand+len(prog.Exact) > len(input) {
			return hi + 1
		}
		if asciiEqualFold(input[cand:cand+len(prog.Exact)], prog.Exact) {
			return cand
		}
		p = cand + 1
	}
	return hi + 1
}

func asciiLower(b byte) byte {
	if 'A' <= b && b <= 'Z' {
		return b + 'a' - 'A'
	}
	return b
}

func asciiUpper(b byte) byte {
	if 'a' <= b && b <= 'z' {
		return b - ('a' - 'A')
	}
	return b
}

func asciiEqualFold(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}
