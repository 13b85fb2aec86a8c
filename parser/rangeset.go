package parser

import (
	"sort"

	"github.com/coregx/goonig/ast"
)

// rangeSet is a normalized (sorted, merged, non-overlapping) set of
// inclusive code-point ranges, used as the parser's working representation
// while building a character class; it is split into ast.Node's
// Bitmap/Ranges split only once the class is complete (see toNode).
type rangeSet struct {
	ranges []ast.Range
}

func (rs *rangeSet) add(lo, hi uint32) {
	if lo > hi {
		return
	}
	rs.ranges = append(rs.ranges, ast.Range{Lo: lo, Hi: hi})
}

func (rs *rangeSet) addCode(code uint32) {
	rs.add(code, code)
}

// normalize sorts and merges overlapping/adjacent ranges in place.
func (rs *rangeSet) normalize() {
	if len(rs.ranges) == 0 {
		return
	}
	sort.Slice(rs.ranges, func(i, j int) bool { return rs.ranges[i].Lo < rs.ranges[j].Lo })
	out := rs.ranges[:1]
	for _, r := range rs.ranges[1:] {
		last := &out[len(out)-1]
		if r.Lo <= last.Hi+1 {
			if r.Hi > last.Hi {
				last.Hi = r.Hi
			}
			continue
		}
		out = append(out, r)
	}
	rs.ranges = out
}

// negate computes the complement of rs within [0, maxCode] and returns it
// as a new rangeSet.
func (rs *rangeSet) negate(maxCode uint32) *rangeSet {
	rs.normalize()
	out := &rangeSet{}
	var cur uint32
	for _, r := range rs.ranges {
		if r.Lo > cur {
			out.add(cur, r.Lo-1)
		}
		if r.Hi >= cur {
			cur = r.Hi + 1
		}
		if cur == 0 { // overflowed past maxCode already
			return out
		}
	}
	if cur <= maxCode {
		out.add(cur, maxCode)
	}
	return out
}

// intersect computes rs ∩ other.
func (rs *rangeSet) intersect(other *rangeSet) *rangeSet {
	rs.normalize()
	other.normalize()
	out := &rangeSet{}
	i, j := 0, 0
	for i < len(rs.ranges) && j < len(other.ranges) {
		a, b := rs.ranges[i], other.ranges[j]
		lo := maxU32(a.Lo, b.Lo)
		hi := minU32(a.Hi, b.Hi)
		if lo <= hi {
			out.add(lo, hi)
		}
		if a.Hi < b.Hi {
			i++
		} else {
			j++
		}
	}
	return out
}

// union merges other into rs (call normalize afterward).
func (rs *rangeSet) union(other *rangeSet) {
	rs.ranges = append(rs.ranges, other.ranges...)
}

// toNode splits the normalized range set into an ast.Node's Bitmap (for
// code points 0..255) and Ranges (for code points >= 256).
func (rs *rangeSet) toNode(negate bool) *ast.Node {
	rs.normalize()
	n := &ast.Node{Kind: ast.KCharClass, Negate: negate}
	for _, r := range rs.ranges {
		lo, hi := r.Lo, r.Hi
		if lo < 256 {
			bHi := hi
			if bHi > 255 {
				bHi = 255
			}
			for c := lo; c <= bHi; c++ {
				n.Bitmap[c/8] |= 1 << (c % 8)
			}
			if hi <= 255 {
				continue
			}
			lo = 256
		}
		n.Ranges = append(n.Ranges, ast.Range{Lo: lo, Hi: hi})
	}
	return n
}

func maxU32(a, b uint32) uint32 {
	if a > b {
		return a
	}
	return b
}

func minU32(a, b uint32) uint32 {
	if a < b {
		return a
	}
	return b
}
