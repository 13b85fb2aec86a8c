package vm

import "github.com/coregx/goonig/ast"

// decodeAt decodes the character starting at sp, returning ok=false if sp
// is at or past the end of input.
func (m *Matcher) decodeAt(sp int) (code uint32, width int, ok bool) {
	if sp >= len(m.input) {
		return 0, 0, false
	}
	w := m.prog.Enc.MBCLen(m.input[sp])
	if w < 1 {
		w = 1
	}
	if sp+w > len(m.input) {
		w = len(m.input) - sp
	}
	c, err := m.prog.Enc.ToCode(m.input[sp : sp+w])
	if err != nil {
		return 0, w, false
	}
	return c, w, true
}

// charBoundaries lazily computes every character-start offset in the
// input, used to step backwards for lookbehind.
func (m *Matcher) charBoundaries() []int {
	if m.bounds != nil {
		return m.bounds
	}
	b := make([]int, 0, len(m.input)+1)
	i := 0
	for i <= len(m.input) {
		b = append(b, i)
		if i == len(m.input) {
			break
		}
		w := m.prog.Enc.MBCLen(m.input[i])
		if w < 1 {
			w = 1
		}
		i += w
	}
	m.bounds = b
	return b
}

// boundaryIndex returns the index of sp within charBoundaries (sp must
// itself be a character boundary).
func (m *Matcher) boundaryIndex(sp int) int {
	bs := m.charBoundaries()
	lo, hi := 0, len(bs)
	for lo < hi {
		mid := (lo + hi) / 2
		if bs[mid] < sp {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// decodeBefore decodes the character immediately preceding sp, returning
// ok=false if sp is at the start of input.
func (m *Matcher) decodeBefore(sp int) (code uint32, width int, ok bool) {
	idx := m.boundaryIndex(sp)
	if idx == 0 {
		return 0, 0, false
	}
	bs := m.charBoundaries()
	prevStart := bs[idx-1]
	c, w, ok := m.decodeAt(prevStart)
	return c, w, ok && prevStart+w == sp
}

// baseCType maps a negation-paired CTypeID (NotWord, NotDigit, NotSpace) to
// its positive base plus an invert flag, so the encoding contract's
// IsCodeCType only has to know about the positive forms.
func baseCType(c ast.CTypeID) (base ast.CTypeID, invert bool) {
	switch c {
	case ast.CTypeNotWord:
		return ast.CTypeWord, true
	case ast.CTypeNotDigit:
		return ast.CTypeDigit, true
	case ast.CTypeNotSpace:
		return ast.CTypeSpace, true
	default:
		return c, false
	}
}

func (m *Matcher) isWordCode(code uint32) bool {
	return m.prog.Enc.IsCodeCType(code, ast.CTypeWord)
}

func (m *Matcher) isWordAt(sp int) bool {
	code, _, ok := m.decodeAt(sp)
	return ok && m.isWordCode(code)
}

func (m *Matcher) isWordBefore(sp int) bool {
	code, _, ok := m.decodeBefore(sp)
	return ok && m.isWordCode(code)
}
