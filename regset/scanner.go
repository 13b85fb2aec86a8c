package regset

import (
	"github.com/coregx/goonig/ast"
	"github.com/coregx/goonig/onigerr"
)

// shortStringThreshold is the byte length below which Scanner always uses
// the RegSet PositionLead path directly instead of consulting its
// per-pattern cache. Below this length the cache's bookkeeping
// costs more than it saves.
const shortStringThreshold = 256

// cacheKey identifies one cached Scanner.Search outcome.
type cacheKey struct {
	stringID int
	start    int
	options  ast.OptionFlags
}

// Scanner wraps a RegSet with a result cache for repeated searches over the
// same logical string: callers that re-scan overlapping windows
// of one large buffer (e.g. a syntax highlighter re-tokenizing as the user
// types) avoid repeating RegSet's full dispatch. Patterns containing \G are
// never cached, since their result is itself a function of search-start
// rather than just (string, start, options).
type Scanner struct {
	set       *RegSet
	cache     map[cacheKey]*Result
	cacheable bool
}

// NewScanner wraps set in a Scanner. cacheable must be false if any member
// of set contains \G; the
// caller determines this from each pattern's analyzer.Info before
// compiling, since the compiled Program no longer distinguishes \G from
// other zero-width anchors in a way cheap to re-derive here.
func NewScanner(set *RegSet, cacheable bool) *Scanner {
	s := &Scanner{set: set, cacheable: cacheable}
	if cacheable {
		s.cache = map[cacheKey]*Result{}
	}
	return s
}

// Search runs one scan of input starting at start, identifying the logical
// string by stringID for cache purposes" cache key). stringID is caller-assigned and stable only for the
// life of one buffer; pass 0 if the caller has no cache reuse story.
func (s *Scanner) Search(stringID int, input []byte, start, end int, options ast.OptionFlags) (*Result, *onigerr.Error) {
	if !s.cacheable || len(input) < shortStringThreshold {
		return s.set.Search(input, start, end, options)
	}
	key := cacheKey{stringID: stringID, start: start, options: options}
	if r, ok := s.cache[key]; ok {
		return r, nil
	}
	r, err := s.set.Search(input, start, end, options)
	if err != nil {
		return nil, err
	}
	s.cache[key] = r
	return r, nil
}

// Reset drops every cached result, used when stringID's underlying buffer
// content has changed.
func (s *Scanner) Reset() {
	if s.cache != nil {
		s.cache = map[cacheKey]*Result{}
	}
}
