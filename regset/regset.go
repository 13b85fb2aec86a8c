// Package regset implements the multi-pattern coordinator of :
// RegSet (several compiled Programs searched together under one of three
// dispatch disciplines) and Scanner (a streaming wrapper adding a
// per-pattern result cache and a UTF-16 index bridge).
//
// This is grounded on meta.Engine strategy dispatch
// (meta/strategy.go selects among NFA/DFA/Aho-Corasick/Teddy by pattern
// shape); RegSet generalizes that single-pattern strategy selection into a
// choice made once per group of patterns rather than once per pattern.
package regset

import (
	"github.com/coregx/ahocorasick"

	"github.com/coregx/goonig/analyzer"
	"github.com/coregx/goonig/ast"
	"github.com/coregx/goonig/compiler"
	"github.com/coregx/goonig/onigerr"
	"github.com/coregx/goonig/region"
	"github.com/coregx/goonig/vm"
)

// Lead selects how RegSet resolves the tie when more than one member
// pattern could match.
type Lead uint8

const (
	// PositionLead picks the member whose match starts earliest; members
	// tying on start position are broken by registration order.
	PositionLead Lead = iota
	// RegexLead picks, for each member in registration order, that
	// member's own earliest match; the first member with any match at all
	// wins regardless of whether a later member could match earlier.
	RegexLead
	// PriorityToRegexOrder ignores position entirely: the first member (by
	// registration order) that matches anywhere in range wins.
	PriorityToRegexOrder
)

// member is one pattern registered in a RegSet, plus the literal bytes
// backing the RegSet's Aho-Corasick fast path when the pattern is fully
// literal.
type member struct {
	prog    *compiler.Program
	literal []byte // non-nil only when prog matches exactly this byte run
}

// RegSet groups compiled Programs to be searched together.
// FIND_LONGEST members are rejected at Add time.
type RegSet struct {
	members []member
	lead    Lead
	limits  vm.Limits

	aho       *ahocorasick.Automaton
	ahoStale  bool
}

// New creates an empty RegSet dispatching under lead.
func New(lead Lead, limits vm.Limits) *RegSet {
	return &RegSet{lead: lead, limits: limits, ahoStale: true}
}

// Add registers prog as a new member, returning its index. FIND_LONGEST
// patterns are rejected.
func (rs *RegSet) Add(prog *compiler.Program) (int, *onigerr.Error) {
	if prog == nil {
		return 0, onigerr.New(onigerr.ErrNilProgramInSet)
	}
	if prog.Options.Has(ast.OptionFindLongest) {
		return 0, onigerr.New(onigerr.ErrFindLongestInSet)
	}
	rs.members = append(rs.members, member{prog: prog, literal: literalOf(prog)})
	rs.ahoStale = true
	return len(rs.members) - 1, nil
}

// Replace swaps the member at idx for prog, rejecting FIND_LONGEST the
// same as Add.
func (rs *RegSet) Replace(idx int, prog *compiler.Program) *onigerr.Error {
	if idx < 0 || idx >= len(rs.members) {
		return onigerr.New(onigerr.ErrInvalidArgument)
	}
	if prog.Options.Has(ast.OptionFindLongest) {
		return onigerr.New(onigerr.ErrFindLongestInSet)
	}
	rs.members[idx] = member{prog: prog, literal: literalOf(prog)}
	rs.ahoStale = true
	return nil
}

// Len reports how many members rs holds.
func (rs *RegSet) Len() int { return len(rs.members) }

// literalOf reports the exact byte run prog always matches, or nil if prog
// is not a single fixed literal.
func literalOf(prog *compiler.Program) []byte {
	if prog.Optimize != analyzer.OptimizeExact {
		return nil
	}
	if prog.CharMin != prog.CharMax || prog.ByteMax != len(prog.Exact) {
		return nil
	}
	return prog.Exact
}

func (rs *RegSet) ensureAho() {
	if !rs.ahoStale {
		return
	}
	rs.ahoStale = false
	rs.aho = nil
	b := ahocorasick.NewBuilder()
	any := false
	for _, m := range rs.members {
		if m.literal == nil {
			return // not every member is literal; fast path does not apply
		}
		b.AddPattern(m.literal)
		any = true
	}
	if !any {
		return
	}
	auto, err := b.Build()
	if err != nil {
		return
	}
	rs.aho = auto
}

// Result is one RegSet.Search outcome: which member matched and its
// capture offsets.
type Result struct {
	Index  int
	Region *region.Region
}

// Search finds the winning member per rs's Lead discipline, searching
// [start,end) of input.
func (rs *RegSet) Search(input []byte, start, end int, options ast.OptionFlags) (*Result, *onigerr.Error) {
	if len(rs.members) == 0 {
		return nil, onigerr.New(onigerr.Mismatch)
	}
	switch rs.lead {
	case PriorityToRegexOrder:
		return rs.searchPriority(input, start, end, options)
	case RegexLead:
		return rs.searchRegexLead(input, start, end, options)
	default:
		return rs.searchPositionLead(input, start, end, options)
	}
}

func (rs *RegSet) searchPriority(input []byte, start, end int, options ast.OptionFlags) (*Result, *onigerr.Error) {
	for i, m := range rs.members {
		reg := region.New(m.prog.NumMem)
		pos, err := vm.Search(m.prog, input, start, end, options, rs.limits, reg)
		if err == nil {
			_ = pos
			return &Result{Index: i, Region: reg}, nil
		}
		if err.Code != onigerr.Mismatch {
			return nil, err
		}
	}
	return nil, onigerr.New(onigerr.Mismatch)
}

func (rs *RegSet) searchRegexLead(input []byte, start, end int, options ast.OptionFlags) (*Result, *onigerr.Error) {
	for i, m := range rs.members {
		reg := region.New(m.prog.NumMem)
		_, err := vm.Search(m.prog, input, start, end, options, rs.limits, reg)
		if err == nil {
			return &Result{Index: i, Region: reg}, nil
		}
		if err.Code != onigerr.Mismatch {
			return nil, err
		}
	}
	return nil, onigerr.New(onigerr.Mismatch)
}

// searchPositionLead tries every candidate start offset in turn (the
// Aho-Corasick fast path, when every member is a fixed literal, narrows
// these offsets to actual literal occurrences instead of scanning byte by
// byte), trying every member at that offset before advancing.
func (rs *RegSet) searchPositionLead(input []byte, start, end int, options ast.OptionFlags) (*Result, *onigerr.Error) {
	rs.ensureAho()
	if rs.aho != nil {
		return rs.searchPositionLeadAho(input, start, end, options)
	}
	for pos := start; pos <= end; pos++ {
		for i, m := range rs.members {
			reg := region.New(m.prog.NumMem)
			n, err := vm.MatchAt(m.prog, input, pos, options, rs.limits, reg)
			if err == nil {
				_ = n
				return &Result{Index: i, Region: reg}, nil
			}
			if err.Code != onigerr.Mismatch {
				return nil, err
			}
		}
	}
	return nil, onigerr.New(onigerr.Mismatch)
}

// searchPositionLeadAho uses the combined automaton to jump directly to the
// next literal occurrence, then resolves which member it belongs to by
// comparing the matched bytes (the automaton API exposes the match span,
// not a pattern id, so identity is recovered by byte comparison against
// each candidate literal of that length).
func (rs *RegSet) searchPositionLeadAho(input []byte, start, end int, options ast.OptionFlags) (*Result, *onigerr.Error) {
	at := start
	for at <= end {
		m := rs.aho.Find(input[:end], at)
		if m == nil {
			return nil, onigerr.New(onigerr.Mismatch)
		}
		for i, mem := range rs.members {
			if len(mem.literal) == m.End-m.Start && string(input[m.Start:m.End]) == string(mem.literal) {
				reg := region.New(mem.prog.NumMem)
				_, err := vm.MatchAt(mem.prog, input, m.Start, options, rs.limits, reg)
				if err == nil {
					return &Result{Index: i, Region: reg}, nil
				}
				if err.Code != onigerr.Mismatch {
					return nil, err
				}
			}
		}
		at = m.Start + 1
	}
	return nil, onigerr.New(onigerr.Mismatch)
}
