package onig

import (
	"sync"
	"sync/atomic"

	"github.com/coregx/goonig/analyzer"
	"github.com/coregx/goonig/ast"
	"github.com/coregx/goonig/compiler"
	"github.com/coregx/goonig/onigerr"
	"github.com/coregx/goonig/parser"
	"github.com/coregx/goonig/region"
	"github.com/coregx/goonig/vm"
)

// Regexp is a compiled pattern. A
// *Regexp is immutable after Compile returns and safe for concurrent use
// by multiple goroutines: all per-search mutable state lives in a
// vm.Matcher/region.Region the caller supplies, the same
// "one Program, immutable, shared across goroutines" story a facade over
// an immutable compiled program and per-call mutable state generally
// follows.
type Regexp struct {
	prog   *compiler.Program
	config Config

	stats Stats

	// regionPool recycles Region allocations across repeated calls to the
	// convenience Find/Match helpers, the same sync.Pool-based concurrency
	// story meta.Engine uses for its per-search state.
	regionPool sync.Pool
}

// Compile parses and compiles pattern under cfg, returning a ready-to-use
// Regexp.
func Compile(pattern string, options ast.OptionFlags, cfg Config) (*Regexp, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	root, res, err := parser.Parse([]byte(pattern), options, cfg.Encoding, cfg.Profile, cfg.Parser)
	if err != nil {
		return nil, err
	}

	info := analyzer.Analyze(root, cfg.Encoding, analyzer.DefaultConfig())

	prog, cerr := compiler.Compile(compiler.Input{
		Root:      root,
		NumMem:    res.NumMem,
		Names:     res.Names,
		NameOrder: res.NameOrder,
		Options:   options,
		Info:      info,
		Enc:       cfg.Encoding,
		Prof:      cfg.Profile,
	})
	if cerr != nil {
		return nil, cerr
	}

	re := &Regexp{prog: prog, config: cfg}
	re.regionPool.New = func() any { return region.New(prog.NumMem) }
	return re, nil
}

// MustCompile is like Compile but panics on error, for package-level
// pattern literals.
func MustCompile(pattern string, options ast.OptionFlags, cfg Config) *Regexp {
	re, err := Compile(pattern, options, cfg)
	if err != nil {
		panic(err)
	}
	return re
}

// NumSubexp returns the number of capture groups (group 0 excluded).
func (re *Regexp) NumSubexp() int { return re.prog.NumMem }

// SubexpNames returns every registered capture group name, in registration
// order.
func (re *Regexp) SubexpNames() []string { return re.prog.NameOrder }

// GroupNumbers resolves name to its (possibly multiplexed) capture group
// numbers.
func (re *Regexp) GroupNumbers(name string) ([]int, bool) { return re.prog.GroupNumbers(name) }

// Stats returns a snapshot of this Regexp's execution counters.
func (re *Regexp) Stats() Stats { return re.stats }

// NewRegion allocates a Region sized for this pattern's capture count
//.
func (re *Regexp) NewRegion() *region.Region { return region.New(re.prog.NumMem) }

// MatchAt anchors a match attempt at exactly pos.
func (re *Regexp) MatchAt(input []byte, pos int, options ast.OptionFlags, reg *region.Region) (int, error) {
	atomic.AddUint64(&re.stats.Searches, 1)
	n, err := vm.MatchAt(re.prog, input, pos, options, re.config.Limits, reg)
	if err != nil {
		if err.Code == onigerr.Mismatch {
			return 0, nil
		}
		return 0, err
	}
	atomic.AddUint64(&re.stats.Matches, 1)
	return n, nil
}

// Search scans [start,end) of input for the first position a match can
// begin.
func (re *Regexp) Search(input []byte, start, end int, options ast.OptionFlags, reg *region.Region) (int, error) {
	atomic.AddUint64(&re.stats.Searches, 1)
	pos, err := vm.Search(re.prog, input, start, end, options, re.config.Limits, reg)
	if err != nil {
		if err.Code == onigerr.Mismatch {
			return -1, nil
		}
		return -1, err
	}
	atomic.AddUint64(&re.stats.Matches, 1)
	return pos, nil
}

// Find returns the leftmost match's [start,end) byte range, or ok=false if
// there is none. This is the convenience entry point built over
// Search/region.Region for callers that don't need the lower-level API.
func (re *Regexp) Find(input []byte) (start, end int, ok bool) {
	reg := re.regionPool.Get().(*region.Region)
	defer re.regionPool.Put(reg)
	reg.Clear()

	pos, err := re.Search(input, 0, len(input), ast.OptionNone, reg)
	if err != nil || pos < 0 {
		return 0, 0, false
	}
	return reg.Beg[0], reg.End[0], true
}

// IsMatch reports whether re matches anywhere in input.
func (re *Regexp) IsMatch(input []byte) bool {
	_, _, ok := re.Find(input)
	return ok
}
