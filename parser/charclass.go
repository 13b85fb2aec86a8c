package parser

import (
	"github.com/coregx/goonig/ast"
	"github.com/coregx/goonig/onigerr"
	"github.com/coregx/goonig/profile"
)

// parseCharClass parses the body of a '[' ... ']' character class already
// past the opening bracket (the lexer emits tokOpenCC only as the
// delimiter; the class body itself is walked directly off the byte
// stream here rather than token-by-token, since '-' and '&&' have
// position-sensitive meaning the general lexer does not model).
func (p *Parser) parseCharClass() (*ast.Node, *onigerr.Error) {
	l := p.lex
	negate := false
	if !l.eof() && l.src[l.pos] == '^' {
		negate = true
		l.pos++
	}

	set := &rangeSet{}
	first := true
	// termSet accumulates the set since the last '&&', for intersection.
	termSet := &rangeSet{}
	haveTerm := false

	for {
		if l.eof() {
			return nil, onigerr.AtRange(onigerr.ErrPrematureEndCharClass, l.pos, l.pos)
		}
		c := l.src[l.pos]
		if c == ']' && !first {
			l.pos++
			break
		}
		first = false

		if c == '&' && l.prof.Has(profile.FeatureCharClassIntersection) {
			if next, ok := l.byteAt(1); ok && next == '&' {
				l.pos += 2
				if haveTerm {
					set = set.intersect(termSet)
				} else {
					set = termSet
				}
				termSet = &rangeSet{}
				haveTerm = true
				continue
			}
		}

		if c == '[' {
			if next, ok := l.byteAt(1); ok && next == ':' {
				rs, err := p.parsePosixBracket()
				if err != nil {
					return nil, err
				}
				termSet.union(rs)
				continue
			}
		}

		lo, err := p.parseCCAtomOrCType(termSet)
		if err != nil {
			return nil, err
		}
		if lo == nil {
			continue // a ctype escape was consumed and merged directly
		}

		// check for a '-' forming a range, but only if followed by
		// something other than ']' (a trailing '-' is a literal dash).
		if !l.eof() && l.src[l.pos] == '-' {
			if next, ok := l.byteAt(1); ok && next != ']' {
				l.pos++ // consume '-'
				hi, err := p.parseCCRangeEnd(termSet)
				if err != nil {
					return nil, err
				}
				termSet.add(*lo, hi)
				continue
			}
		}
		termSet.addCode(*lo)
	}

	if haveTerm {
		set = set.intersect(termSet)
	} else {
		set = termSet
	}

	if p.cfg.RejectDuplicateNames {
		// no-op placeholder: RejectDuplicateNames governs named-capture
		// uniqueness, not char classes; charclass has no analogous knob.
	}

	return set.toNode(negate), nil
}

// parseCCAtomOrCType parses one char-class member that is either a plain
// code point (returned via lo) or a nested ctype escape (\d, \w, \s, and
// negated forms, plus \p{...}), which is unioned directly into acc and
// reported back as lo == nil so the caller skips range-forming for it.
func (p *Parser) parseCCAtomOrCType(acc *rangeSet) (lo *uint32, err *onigerr.Error) {
	l := p.lex
	c := l.src[l.pos]
	if c != '\\' {
		n := l.enc.MBCLen(c)
		code, derr := l.decodeAt(l.pos, n)
		if derr != nil {
			return nil, onigerr.AtRange(onigerr.ErrInvalidMultibyte, l.pos, l.pos+n)
		}
		l.pos += n
		return &code, nil
	}

	// escape inside a char class
	start := l.pos
	l.pos++
	if l.eof() {
		return nil, onigerr.AtRange(onigerr.ErrEndPatternAtEscape, start, l.pos)
	}
	ec := l.src[l.pos]
	switch ec {
	case 'd', 'D', 'w', 'W', 's', 'S':
		l.pos++
		tok := ctypeEscapeToken(start, ec)
		p.unionCType(acc, tok.ctype, tok.negate)
		return nil, nil
	case 'p', 'P':
		tok, terr := l.scanProperty(start, ec == 'P')
		if terr != nil {
			return nil, terr
		}
		p.unionCType(acc, tok.ctype, tok.negate)
		return nil, nil
	case 'n':
		l.pos++
		v := uint32('\n')
		return &v, nil
	case 't':
		l.pos++
		v := uint32('\t')
		return &v, nil
	case 'r':
		l.pos++
		v := uint32('\r')
		return &v, nil
	case 'f':
		l.pos++
		v := uint32('\f')
		return &v, nil
	case 'v':
		l.pos++
		v := uint32('\v')
		return &v, nil
	case 'b':
		l.pos++
		v := uint32('\b')
		return &v, nil
	case 'x':
		l.pos++
		return p.parseHexEscape()
	default:
		n := l.enc.MBCLen(ec)
		code, derr := l.decodeAt(l.pos, n)
		if derr != nil {
			return nil, onigerr.AtRange(onigerr.ErrInvalidMultibyte, l.pos, l.pos+n)
		}
		l.pos += n
		return &code, nil
	}
}

func (p *Parser) parseCCRangeEnd(acc *rangeSet) (uint32, *onigerr.Error) {
	v, err := p.parseCCAtomOrCType(acc)
	if err != nil {
		return 0, err
	}
	if v == nil {
		return 0, onigerr.AtRange(onigerr.ErrCharClassValueAtEnd, p.lex.pos, p.lex.pos)
	}
	return *v, nil
}

func (p *Parser) parseHexEscape() (*uint32, *onigerr.Error) {
	l := p.lex
	start := l.pos
	braced := false
	if !l.eof() && l.src[l.pos] == '{' {
		braced = true
		l.pos++
	}
	var v uint32
	digits := 0
	for !l.eof() && isHexDigit(l.src[l.pos]) {
		v = v*16 + uint32(hexVal(l.src[l.pos]))
		l.pos++
		digits++
	}
	if digits == 0 {
		return nil, onigerr.AtRange(onigerr.ErrInvalidCodePointValue, start, l.pos)
	}
	if braced {
		if l.eof() || l.src[l.pos] != '}' {
			return nil, onigerr.AtRange(onigerr.ErrInvalidCodePointValue, start, l.pos)
		}
		l.pos++
	}
	return &v, nil
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func hexVal(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	default:
		return int(c-'A') + 10
	}
}

var posixNames = map[string]ast.CTypeID{
	"alpha":  ast.CTypeAlpha,
	"alnum":  ast.CTypeAlnum,
	"punct":  ast.CTypePunct,
	"upper":  ast.CTypeUpper,
	"lower":  ast.CTypeLower,
	"cntrl":  ast.CTypeCntrl,
	"graph":  ast.CTypeGraph,
	"print":  ast.CTypePrint,
	"blank":  ast.CTypeBlank,
	"xdigit": ast.CTypeXDigit,
	"ascii":  ast.CTypeASCII,
	"digit":  ast.CTypeDigit,
	"space":  ast.CTypeSpace,
	"word":   ast.CTypeWord,
}

// parsePosixBracket parses "[:name:]" or "[:^name:]" at the current
// position (already confirmed to start with "[:").
func (p *Parser) parsePosixBracket() (*rangeSet, *onigerr.Error) {
	l := p.lex
	start := l.pos
	if !p.prof.Has(profile.FeaturePosixBracket) {
		return nil, onigerr.AtRange(onigerr.ErrInvalidPosixBracketType, start, start)
	}
	l.pos += 2 // consume "[:"
	negate := false
	if !l.eof() && l.src[l.pos] == '^' {
		negate = true
		l.pos++
	}
	nameStart := l.pos
	for !l.eof() && l.src[l.pos] != ':' {
		l.pos++
	}
	name := string(l.src[nameStart:l.pos])
	if l.eof() || l.pos+1 >= len(l.src) || l.src[l.pos] != ':' || l.src[l.pos+1] != ']' {
		return nil, onigerr.AtRangeName(onigerr.ErrInvalidPosixBracketType, start, l.pos, name)
	}
	l.pos += 2 // consume ":]"

	ct, ok := posixNames[name]
	if !ok {
		return nil, onigerr.AtRangeName(onigerr.ErrInvalidPosixBracketType, start, l.pos, name)
	}
	rs := &rangeSet{}
	p.unionCType(rs, ct, negate)
	return rs, nil
}

// unionCType expands ctype (optionally negated) into acc using the
// active encoding's CTypeRanges, covering both the single-byte fast path
// and any multibyte ranges above 255.
func (p *Parser) unionCType(acc *rangeSet, ctype ast.CTypeID, negate bool) {
	var sb [256]bool
	ranges := p.enc.CTypeRanges(ctype, &sb)
	rs := &rangeSet{}
	for lo := 0; lo < 256; {
		if !sb[lo] {
			lo++
			continue
		}
		hi := lo
		for hi+1 < 256 && sb[hi+1] {
			hi++
		}
		rs.add(uint32(lo), uint32(hi))
		lo = hi + 1
	}
	for _, r := range ranges {
		rs.add(r.Lo, r.Hi)
	}
	if negate {
		rs = rs.negate(p.maxCodeForEncoding())
	}
	acc.union(rs)
}

func (p *Parser) maxCodeForEncoding() uint32 {
	if p.enc.MaxLen == 1 {
		return 0xFF
	}
	return 0x10FFFF
}
