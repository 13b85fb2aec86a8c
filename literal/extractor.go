// Package literal provides types and operations for extracting literal sequences
// from regex patterns for prefilter optimization.
package literal

import (
	"github.com/coregx/goonig/ast"
)

// ExtractorConfig configures literal extraction limits.
//
// These limits prevent excessive extraction from complex patterns:
//   - MaxLiterals: prevents memory bloat from alternations like (a|b|c|d|...)
//   - MaxLiteralLen: prevents extracting very long literals that hurt cache locality
//   - MaxClassSize: prevents expanding large character classes like [a-z]
//
// Example:
//
//	config := literal.ExtractorConfig{
//	    MaxLiterals:   64,
//	    MaxLiteralLen: 64,
//	    MaxClassSize:  10,
//	}
//	extractor := literal.New(config)
type ExtractorConfig struct {
	// MaxLiterals limits the maximum number of literals to extract.
	// For patterns with many alternations like (a|b|c|...|z), this prevents
	// unbounded memory growth. Default: 64.
	MaxLiterals int

	// MaxLiteralLen limits the maximum length of each extracted literal.
	// Very long literals hurt prefilter performance due to cache misses.
	// Default: 64.
	MaxLiteralLen int

	// MaxClassSize limits the size of character classes to expand.
	// Character classes like [abc] are expanded to ["a", "b", "c"].
	// Large classes like [a-z] (26 chars) are NOT expanded if > MaxClassSize.
	// Default: 10.
	MaxClassSize int

	// CrossProductLimit is the maximum total number of intermediate literals allowed
	// during cross-product expansion while walking a concatenation. When a
	// concatenation contains small character classes (e.g., ag[act]gtaaa), the
	// extractor computes the cross-product of accumulated literals with each
	// class expansion. This limit prevents combinatorial explosion from patterns
	// with many classes.
	//
	// When exceeded, literals are truncated to 4 bytes (Teddy fingerprint size),
	// deduplicated, and marked as inexact. Default: 250 (matching Rust regex-syntax).
	CrossProductLimit int
}

// DefaultConfig returns the default extractor configuration.
//
// Defaults are tuned for typical regex patterns:
//   - MaxLiterals: 64 (handles most alternations without bloat)
//   - MaxLiteralLen: 64 (good cache locality for prefilters)
//   - MaxClassSize: 10 (small classes only, avoids [a-z] explosion)
func DefaultConfig() ExtractorConfig {
	return ExtractorConfig{
		MaxLiterals:       64,
		MaxLiteralLen:     64,
		MaxClassSize:      10,
		CrossProductLimit: 250,
	}
}

// Extractor pulls required literal sequences out of a compiled pattern AST
// for use as a prefilter ahead of the backtracking VM.
type Extractor struct {
	config ExtractorConfig
}

// New creates an Extractor with the given configuration.
func New(config ExtractorConfig) *Extractor {
	return &Extractor{config: config}
}

// ExtractPrefixes extracts literal sequences that must appear at the start
// of any match.
//
// Examples:
//
//	"hello"        → ["hello"]
//	"(foo|bar)"    → ["foo", "bar"]
//	"test[xyz]"    → ["testx", "testy", "testz"]
//	"hello.*world" → ["hello"]
//	".*world"      → [] (no prefix requirement)
func (e *Extractor) ExtractPrefixes(n *ast.Node) *Seq {
	return e.extractPrefixes(n, 0)
}

// extractPrefixes is the internal recursive implementation. depth guards
// against runaway recursion on deeply nested trees.
func (e *Extractor) extractPrefixes(n *ast.Node, depth int) *Seq {
	if n == nil || depth > 100 {
		return NewSeq()
	}
	if n.Status&ast.StatusIgnoreCase != 0 {
		// Prefilter matching is case-sensitive; a folded literal would miss
		// matches that differ only in case.
		return NewSeq()
	}

	switch n.Kind {
	case ast.KString:
		b := n.Bytes
		if len(b) > e.config.MaxLiteralLen {
			b = b[:e.config.MaxLiteralLen]
		}
		return NewSeq(NewLiteral(b, true))

	case ast.KList:
		return e.extractPrefixesList(n, depth)

	case ast.KAlt:
		return e.extractPrefixesAlt(n, depth)

	case ast.KCharClass:
		return e.expandCharClass(n)

	case ast.KBag:
		switch n.BagType {
		case ast.BagMemory, ast.BagOption, ast.BagStopBacktrack:
			return e.extractPrefixes(n.Body, depth+1)
		default: // BagIfElse: branch taken depends on runtime state
			return NewSeq()
		}

	default:
		// KQuantifier, KCType, KAnchor, KBackRef, KCall, KGimmick: none of
		// these pin down a required literal at this position.
		return NewSeq()
	}
}

// extractPrefixesList walks a concatenation's atoms left to right, building
// the cross-product of accumulated literals with each atom's contribution.
//
// Example: ag[act]gtaaa
//
//	Step 0: acc = [""]
//	Step 1: "ag"   → acc = ["ag"]
//	Step 2: [act]  → acc = ["aga", "agc", "agt"]
//	Step 3: "gtaaa" → acc = ["agagtaaa", "agcgtaaa", "agtgtaaa"]
func (e *Extractor) extractPrefixesList(n *ast.Node, depth int) *Seq {
	cur := n
	for cur != nil && cur.Car != nil && cur.Car.Kind == ast.KAnchor && isBeginAnchor(cur.Car.AnchorKind) {
		cur = cur.Cdr
	}
	if cur == nil {
		return NewSeq()
	}

	crossLimit := e.config.CrossProductLimit
	if crossLimit <= 0 {
		crossLimit = 250
	}

	acc := NewSeq(NewLiteral([]byte{}, true))
	for cur != nil {
		if !e.hasAnyExact(acc) {
			break
		}
		contribution := e.concatSubContribution(cur.Car, depth)
		if contribution == nil {
			e.markAllInexact(acc)
			break
		}
		acc.CrossForward(contribution)
		if acc.Len() > crossLimit || acc.Len() > e.config.MaxLiterals {
			acc = e.handleCrossProductOverflow(acc)
			break
		}
		e.enforceMaxLiteralLen(acc)
		cur = cur.Cdr
	}

	if acc.Len() == 1 && len(acc.Get(0).Bytes) == 0 {
		return NewSeq()
	}
	return acc
}

// concatSubContribution returns a single atom's contribution to cross-product
// expansion, or nil if the atom cannot be expanded (wildcard, optional
// quantifier, case-folded literal, and so on).
func (e *Extractor) concatSubContribution(n *ast.Node, depth int) *Seq {
	if n == nil {
		return NewSeq()
	}
	if n.Status&ast.StatusIgnoreCase != 0 {
		return nil
	}

	switch n.Kind {
	case ast.KString:
		return NewSeq(NewLiteral(n.Bytes, true))

	case ast.KCharClass:
		expanded := e.expandCharClass(n)
		if expanded.IsEmpty() {
			return nil
		}
		return expanded

	case ast.KAlt:
		return e.expandAlternateContribution(n, depth)

	case ast.KBag:
		switch n.BagType {
		case ast.BagMemory, ast.BagOption, ast.BagStopBacktrack:
			return e.concatSubContribution(n.Body, depth)
		default:
			return nil
		}

	case ast.KQuantifier:
		// Min>=1 means at least one occurrence is guaranteed; everything
		// past it is variable-length so the contribution is always inexact.
		if n.Min >= 1 {
			inner := e.concatSubContribution(n.Body, depth)
			if inner == nil {
				return nil
			}
			e.markAllInexact(inner)
			return inner
		}
		return nil

	default:
		return nil
	}
}

// expandAlternateContribution tries to expand an alternation nested inside a
// concatenation into a set of literals suitable for cross-product. Returns
// nil if any branch isn't itself fully expandable.
func (e *Extractor) expandAlternateContribution(n *ast.Node, depth int) *Seq {
	var allLits []Literal
	for _, branch := range flattenAlt(n) {
		seq := e.extractPrefixes(branch, depth+1)
		if seq.IsEmpty() {
			return nil
		}
		for i := 0; i < seq.Len(); i++ {
			allLits = append(allLits, seq.Get(i))
			if len(allLits) > e.config.MaxLiterals {
				return nil
			}
		}
	}
	return NewSeq(allLits...)
}

// extractPrefixesAlt unions the prefix requirements of every branch of an
// alternation. If any branch has no prefix requirement of its own (e.g. an
// empty branch, or one starting with `.*`), the alternation as a whole has
// none either.
func (e *Extractor) extractPrefixesAlt(n *ast.Node, depth int) *Seq {
	var allLits []Literal
	truncated := false
	for _, branch := range flattenAlt(n) {
		seq := e.extractPrefixes(branch, depth+1)
		if seq.IsEmpty() {
			return NewSeq()
		}
		for i := 0; i < seq.Len(); i++ {
			allLits = append(allLits, seq.Get(i))
			if len(allLits) >= e.config.MaxLiterals {
				truncated = true
				break
			}
		}
		if truncated {
			break
		}
	}
	if truncated {
		for i := range allLits {
			allLits[i].Complete = false
		}
	}
	return NewSeq(allLits...)
}

// hasAnyExact returns true if at least one literal in the Seq is Complete.
func (e *Extractor) hasAnyExact(s *Seq) bool {
	for i := 0; i < s.Len(); i++ {
		if s.Get(i).Complete {
			return true
		}
	}
	return false
}

// markAllInexact sets Complete=false on every literal in the Seq.
func (e *Extractor) markAllInexact(s *Seq) {
	for i := range s.literals {
		s.literals[i].Complete = false
	}
}

// enforceMaxLiteralLen truncates any literal exceeding MaxLiteralLen.
func (e *Extractor) enforceMaxLiteralLen(s *Seq) {
	for i := range s.literals {
		if len(s.literals[i].Bytes) > e.config.MaxLiteralLen {
			s.literals[i].Bytes = s.literals[i].Bytes[:e.config.MaxLiteralLen]
			s.literals[i].Complete = false
		}
	}
}

// handleCrossProductOverflow truncates every literal to a 4-byte fingerprint,
// deduplicates, and marks everything inexact. Used when cross-product
// expansion outgrows CrossProductLimit or MaxLiterals.
func (e *Extractor) handleCrossProductOverflow(s *Seq) *Seq {
	s.KeepFirstBytes(4)
	e.markAllInexact(s)
	s.Dedup()
	if s.Len() > e.config.MaxLiterals {
		s.literals = s.literals[:e.config.MaxLiterals]
	}
	return s
}

// ExtractSuffixes extracts literal sequences that must appear at the end of
// any match.
//
// Examples:
//
//	"world"        → ["world"]
//	"(foo|bar)"    → ["foo", "bar"]
//	"test[xyz]"    → ["testx", "testy", "testz"]
//	"hello.*world" → ["world"]
//	"foo.*"        → [] (no suffix requirement)
func (e *Extractor) ExtractSuffixes(n *ast.Node) *Seq {
	return e.extractSuffixes(n, 0)
}

func (e *Extractor) extractSuffixes(n *ast.Node, depth int) *Seq {
	if n == nil || depth > 100 || n.Status&ast.StatusIgnoreCase != 0 {
		return NewSeq()
	}

	switch n.Kind {
	case ast.KString:
		b := n.Bytes
		if len(b) > e.config.MaxLiteralLen {
			b = b[len(b)-e.config.MaxLiteralLen:]
		}
		return NewSeq(NewLiteral(b, true))

	case ast.KList:
		return e.extractSuffixesList(n, depth)

	case ast.KAlt:
		var allLits []Literal
		for _, branch := range flattenAlt(n) {
			seq := e.extractSuffixes(branch, depth+1)
			if seq.IsEmpty() {
				return NewSeq()
			}
			for i := 0; i < seq.Len(); i++ {
				allLits = append(allLits, seq.Get(i))
				if len(allLits) >= e.config.MaxLiterals {
					return NewSeq(allLits...)
				}
			}
		}
		return NewSeq(allLits...)

	case ast.KCharClass:
		return e.expandCharClass(n)

	case ast.KBag:
		switch n.BagType {
		case ast.BagMemory, ast.BagOption, ast.BagStopBacktrack:
			return e.extractSuffixes(n.Body, depth+1)
		default:
			return NewSeq()
		}

	default:
		return NewSeq()
	}
}

// extractSuffixesList takes the suffix requirement of the last non-anchor
// atom and cross-extends it backward through preceding literal atoms. This
// mirrors a reverse cross-product: `\.(txt|log|md)` yields [".txt", ".log",
// ".md"] by taking ["txt","log","md"] and prepending the literal ".".
func (e *Extractor) extractSuffixesList(n *ast.Node, depth int) *Seq {
	atoms := flattenList(n)

	lastIdx := len(atoms) - 1
	for lastIdx >= 0 {
		a := atoms[lastIdx]
		if a == nil || a.Kind != ast.KAnchor || !isEndAnchor(a.AnchorKind) {
			break
		}
		lastIdx--
	}
	if lastIdx < 0 {
		return NewSeq()
	}

	suffixes := e.extractSuffixes(atoms[lastIdx], depth+1)
	if suffixes.IsEmpty() {
		return NewSeq()
	}

	for i := lastIdx - 1; i >= 0; i-- {
		a := atoms[i]
		if a == nil || a.Kind != ast.KString || a.Status&ast.StatusIgnoreCase != 0 {
			e.markAllInexact(suffixes)
			break
		}
		lits := make([]Literal, suffixes.Len())
		for j := 0; j < suffixes.Len(); j++ {
			lit := suffixes.Get(j)
			combined := make([]byte, 0, len(a.Bytes)+len(lit.Bytes))
			combined = append(combined, a.Bytes...)
			combined = append(combined, lit.Bytes...)
			if len(combined) > e.config.MaxLiteralLen {
				combined = combined[len(combined)-e.config.MaxLiteralLen:]
			}
			lits[j] = NewLiteral(combined, lit.Complete)
		}
		suffixes = NewSeq(lits...)
		if suffixes.Len() > e.config.MaxLiterals {
			return suffixes
		}
	}
	return suffixes
}

// ExtractInner extracts required literals regardless of position, useful
// for patterns like ".*foo.*" where "foo" must appear somewhere in any
// match but isn't anchored to either end.
func (e *Extractor) ExtractInner(n *ast.Node) *Seq {
	return e.extractInner(n, 0)
}

func (e *Extractor) extractInner(n *ast.Node, depth int) *Seq {
	if n == nil || depth > 100 || n.Status&ast.StatusIgnoreCase != 0 {
		return NewSeq()
	}

	switch n.Kind {
	case ast.KString:
		b := n.Bytes
		if len(b) > e.config.MaxLiteralLen {
			b = b[:e.config.MaxLiteralLen]
		}
		return NewSeq(NewLiteral(b, false))

	case ast.KList:
		for _, a := range flattenList(n) {
			seq := e.extractInner(a, depth+1)
			if !seq.IsEmpty() {
				return seq
			}
		}
		return NewSeq()

	case ast.KAlt:
		var allLits []Literal
		for _, branch := range flattenAlt(n) {
			seq := e.extractInner(branch, depth+1)
			if seq.IsEmpty() {
				return NewSeq()
			}
			for i := 0; i < seq.Len(); i++ {
				allLits = append(allLits, seq.Get(i))
				if len(allLits) >= e.config.MaxLiterals {
					return NewSeq(allLits...)
				}
			}
		}
		return NewSeq(allLits...)

	case ast.KCharClass:
		return e.expandCharClass(n)

	case ast.KBag:
		switch n.BagType {
		case ast.BagMemory, ast.BagOption, ast.BagStopBacktrack:
			return e.extractInner(n.Body, depth+1)
		default:
			return NewSeq()
		}

	default:
		return NewSeq()
	}
}

// expandCharClass expands a small character class node to individual byte
// literals. Classes with more than MaxClassSize members, or any member
// outside the 0-255 range, are left unexpanded (empty Seq) since they would
// either blow past the literal budget or require UTF-8 encoding decisions
// this package has no encoding context to make.
func (e *Extractor) expandCharClass(n *ast.Node) *Seq {
	if n.Negate {
		return NewSeq()
	}

	count := 0
	for c := 0; c < 256; c++ {
		if n.Bitmap[c/8]&(1<<(uint(c)%8)) != 0 {
			count++
		}
	}
	for _, r := range n.Ranges {
		count += int(r.Hi-r.Lo) + 1
	}
	if count == 0 || count > e.config.MaxClassSize {
		return NewSeq()
	}

	var lits []Literal
	for c := 0; c < 256; c++ {
		if n.Bitmap[c/8]&(1<<(uint(c)%8)) == 0 {
			continue
		}
		lits = append(lits, NewLiteral([]byte{byte(c)}, true))
		if len(lits) >= e.config.MaxLiterals {
			return NewSeq(lits...)
		}
	}
	for _, r := range n.Ranges {
		for cp := r.Lo; cp <= r.Hi; cp++ {
			b := []byte(string(rune(cp)))
			if len(b) > e.config.MaxLiteralLen {
				b = b[:e.config.MaxLiteralLen]
			}
			lits = append(lits, NewLiteral(b, true))
			if len(lits) >= e.config.MaxLiterals {
				return NewSeq(lits...)
			}
		}
	}
	return NewSeq(lits...)
}

// flattenList collects a right-recursive KList chain into its atoms, in
// order. A non-KList node is treated as a singleton chain.
func flattenList(n *ast.Node) []*ast.Node {
	if n == nil {
		return nil
	}
	if n.Kind != ast.KList {
		return []*ast.Node{n}
	}
	var atoms []*ast.Node
	for cur := n; cur != nil; cur = cur.Cdr {
		atoms = append(atoms, cur.Car)
	}
	return atoms
}

// flattenAlt collects a right-recursive KAlt chain into its branches, in
// order. The chain's final Cdr is the last branch itself (possibly nil for
// an empty trailing alternative, as in "a|"), not another KAlt node, so the
// walk must special-case it rather than simply following Cdr until nil.
func flattenAlt(n *ast.Node) []*ast.Node {
	if n == nil {
		return nil
	}
	if n.Kind != ast.KAlt {
		return []*ast.Node{n}
	}
	var branches []*ast.Node
	cur := n
	for {
		branches = append(branches, cur.Car)
		if cur.Cdr != nil && cur.Cdr.Kind == ast.KAlt {
			cur = cur.Cdr
			continue
		}
		branches = append(branches, cur.Cdr)
		return branches
	}
}

func isBeginAnchor(k ast.AnchorKind) bool {
	switch k {
	case ast.AnchorBeginBuf, ast.AnchorBeginLine, ast.AnchorBeginPosition:
		return true
	default:
		return false
	}
}

func isEndAnchor(k ast.AnchorKind) bool {
	switch k {
	case ast.AnchorEndBuf, ast.AnchorSemiEndBuf, ast.AnchorEndLine:
		return true
	default:
		return false
	}
}
