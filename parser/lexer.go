package parser

import (
	"github.com/coregx/goonig/ast"
	"github.com/coregx/goonig/encoding"
	"github.com/coregx/goonig/onigerr"
	"github.com/coregx/goonig/profile"
)

// lexer turns pattern bytes into ptoken values, one at a time, under a
// fixed encoding and syntax profile. It holds no parse-tree state; the
// parser drives it with peekToken/nextToken and consults prof.Has before
// honoring any dialect-gated escape or operator.
type lexer struct {
	src  []byte
	pos  int
	enc  encoding.Encoding
	prof profile.Profile

	// extend mirrors OptionExtend: when set, unescaped whitespace and
	// '#'-started comments are skipped between tokens.
	extend bool

	inQuote bool // inside \Q...\E

	peeked    *ptoken
	peekedErr *onigerr.Error
}

func newLexer(src []byte, enc encoding.Encoding, prof profile.Profile, extend bool) *lexer {
	return &lexer{src: src, enc: enc, prof: prof, extend: extend}
}

func (l *lexer) eof() bool { return l.pos >= len(l.src) }

func (l *lexer) byteAt(off int) (byte, bool) {
	if l.pos+off >= len(l.src) {
		return 0, false
	}
	return l.src[l.pos+off], true
}

// peekToken returns the next token without consuming it.
func (l *lexer) peekToken() (ptoken, *onigerr.Error) {
	if l.peeked == nil {
		tok, err := l.scan()
		l.peeked = &tok
		l.peekedErr = err
	}
	return *l.peeked, l.peekedErr
}

// nextToken consumes and returns the next token.
func (l *lexer) nextToken() (ptoken, *onigerr.Error) {
	if l.peeked != nil {
		tok, err := *l.peeked, l.peekedErr
		l.peeked, l.peekedErr = nil, nil
		return tok, err
	}
	return l.scan()
}

func (l *lexer) skipExtendSpace() {
	if l.inQuote {
		return
	}
	for !l.eof() {
		c := l.src[l.pos]
		switch {
		case l.extend && (c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'):
			l.pos++
		case l.extend && c == '#':
			for !l.eof() && l.src[l.pos] != '\n' {
				l.pos++
			}
		default:
			return
		}
	}
}

func (l *lexer) scan() (ptoken, *onigerr.Error) {
	l.skipExtendSpace()
	if l.eof() {
		return ptoken{tag: tokEOF, pos: l.pos}, nil
	}
	start := l.pos
	c := l.src[l.pos]

	if l.inQuote {
		if c == '\\' {
			if next, ok := l.byteAt(1); ok && next == 'E' {
				l.pos += 2
				l.inQuote = false
				return l.scan()
			}
		}
		n := l.enc.MBCLen(c)
		code, err := l.decodeAt(l.pos, n)
		if err != nil {
			return ptoken{}, onigerr.AtRange(onigerr.ErrInvalidMultibyte, start, l.pos+n)
		}
		l.pos += n
		return ptoken{tag: tokChar, pos: start, ch: c, code: code, n: n}, nil
	}

	switch c {
	case '|':
		l.pos++
		return ptoken{tag: tokAlt, pos: start}, nil
	case '(':
		return l.scanGroupOpen(start)
	case ')':
		l.pos++
		return ptoken{tag: tokSubexpClose, pos: start}, nil
	case '[':
		l.pos++
		return ptoken{tag: tokOpenCC, pos: start}, nil
	case '.':
		l.pos++
		return ptoken{tag: tokAnyChar, pos: start}, nil
	case '^':
		l.pos++
		return ptoken{tag: tokAnchor, pos: start, anchor: ast.AnchorBeginLine}, nil
	case '$':
		l.pos++
		return ptoken{tag: tokAnchor, pos: start, anchor: ast.AnchorEndLine}, nil
	case '*', '+', '?':
		return l.scanRepeat(start, c)
	case '{':
		if tok, ok, err := l.tryScanInterval(start); ok || err != nil {
			return tok, err
		}
		// not a valid interval: treat '{' as a literal character.
	case '\\':
		return l.scanEscape(start)
	}

	n := l.enc.MBCLen(c)
	code, derr := l.decodeAt(l.pos, n)
	if derr != nil {
		return ptoken{}, onigerr.AtRange(onigerr.ErrInvalidMultibyte, start, l.pos+n)
	}
	l.pos += n
	return ptoken{tag: tokChar, pos: start, ch: c, code: code, n: n}, nil
}

func (l *lexer) decodeAt(pos, n int) (uint32, error) {
	if pos+n > len(l.src) {
		return 0, onigerr.New(onigerr.ErrInvalidMultibyte)
	}
	return l.enc.ToCode(l.src[pos : pos+n])
}

func (l *lexer) scanRepeat(start int, c byte) (ptoken, *onigerr.Error) {
	l.pos++
	tok := ptoken{tag: tokRepeat, pos: start, ch: c}
	if !l.eof() {
		switch l.src[l.pos] {
		case '?':
			if l.prof.Has(profile.FeatureLazyQuantifier) {
				tok.lazy = true
				l.pos++
			}
		case '+':
			if l.prof.Has(profile.FeaturePossessiveQuantifier) {
				tok.possessive = true
				l.pos++
			}
		}
	}
	return tok, nil
}

// tryScanInterval attempts to parse {m,n}, {m,}, {m}, {,n} at start,
// starting from '{'. Returns ok=false (without consuming) if the brace
// does not form a well-formed interval, so callers fall back to treating
// '{' literally, matching Oniguruma's own lenient behavior.
func (l *lexer) tryScanInterval(start int) (ptoken, bool, *onigerr.Error) {
	if !l.prof.Has(profile.FeatureBraceInterval) {
		return ptoken{}, false, nil
	}
	p := l.pos + 1
	min, minOK, p1 := scanDigits(l.src, p)
	p = p1
	max := -1
	maxOK := false
	hasComma := false
	if p < len(l.src) && l.src[p] == ',' {
		hasComma = true
		p++
		max, maxOK, p = scanDigits(l.src, p)
	}
	if p >= len(l.src) || l.src[p] != '}' {
		return ptoken{}, false, nil
	}
	if !minOK && !hasComma {
		return ptoken{}, false, nil
	}
	p++ // consume '}'
	tok := ptoken{tag: tokInterval, pos: start}
	if minOK {
		tok.min = min
	} else {
		tok.min = 0
	}
	if hasComma {
		if maxOK {
			tok.max = max
		} else {
			tok.max = ast.Unbounded
		}
	} else {
		tok.max = min
	}
	if !minOK && hasComma && !maxOK {
		return ptoken{}, false, nil
	}
	l.pos = p
	if !l.eof() {
		switch l.src[l.pos] {
		case '?':
			if l.prof.Has(profile.FeatureLazyQuantifier) {
				tok.lazy = true
				l.pos++
			}
		case '+':
			if l.prof.Has(profile.FeaturePossessiveQuantifier) {
				tok.possessive = true
				l.pos++
			}
		}
	}
	return tok, true, nil
}

func scanDigits(src []byte, p int) (val int, ok bool, next int) {
	start := p
	for p < len(src) && src[p] >= '0' && src[p] <= '9' {
		val = val*10 + int(src[p]-'0')
		p++
	}
	return val, p > start, p
}

func (l *lexer) scanGroupOpen(start int) (ptoken, *onigerr.Error) {
	l.pos++ // consume '('
	if l.eof() || l.src[l.pos] != '?' || !l.prof.Has(profile.FeaturePerlExt) {
		return ptoken{tag: tokSubexpOpen, pos: start, groupKind: groupPlain}, nil
	}
	l.pos++ // consume '?'
	if l.eof() {
		return ptoken{}, onigerr.AtRange(onigerr.ErrEndPatternAtLeftBrace, start, l.pos)
	}
	c := l.src[l.pos]
	switch c {
	case ':':
		l.pos++
		return ptoken{tag: tokSubexpOpen, pos: start, groupKind: groupNonCapture}, nil
	case '>':
		l.pos++
		if !l.prof.Has(profile.FeatureAtomicGroup) {
			return ptoken{}, onigerr.AtRange(onigerr.ErrUndefinedGroupOption, start, l.pos)
		}
		return ptoken{tag: tokSubexpOpen, pos: start, groupKind: groupAtomic}, nil
	case '=':
		l.pos++
		return ptoken{tag: tokSubexpOpen, pos: start, groupKind: groupLookAhead}, nil
	case '!':
		l.pos++
		return ptoken{tag: tokSubexpOpen, pos: start, groupKind: groupNegLookAhead}, nil
	case '#':
		l.pos++
		for !l.eof() && l.src[l.pos] != ')' {
			l.pos++
		}
		if !l.eof() {
			l.pos++
		}
		return l.scan()
	case '<':
		return l.scanAngleGroup(start)
	case '\'':
		return l.scanQuotedNameGroup(start)
	case 'P':
		return l.scanPGroup(start)
	case '(':
		l.pos++
		if !l.prof.Has(profile.FeatureConditional) {
			return ptoken{}, onigerr.AtRange(onigerr.ErrUndefinedGroupOption, start, l.pos)
		}
		return ptoken{tag: tokSubexpOpen, pos: start, groupKind: groupIfElse}, nil
	default:
		return l.scanOptionGroup(start)
	}
}

func (l *lexer) scanAngleGroup(start int) (ptoken, *onigerr.Error) {
	l.pos++ // consume '<'
	if !l.eof() {
		switch l.src[l.pos] {
		case '=':
			l.pos++
			return ptoken{tag: tokSubexpOpen, pos: start, groupKind: groupLookBehind}, nil
		case '!':
			l.pos++
			return ptoken{tag: tokSubexpOpen, pos: start, groupKind: groupNegLookBehind}, nil
		}
	}
	if !l.prof.Has(profile.FeatureNamedGroup) {
		return ptoken{}, onigerr.AtRange(onigerr.ErrUndefinedGroupOption, start, l.pos)
	}
	name, ok := l.scanUntil('>')
	if !ok {
		return ptoken{}, onigerr.AtRange(onigerr.ErrInvalidGroupName, start, l.pos)
	}
	if err := validGroupName(name); err != nil {
		return ptoken{}, onigerr.AtRangeName(onigerr.ErrInvalidCharInGroupName, start, l.pos, name)
	}
	return ptoken{tag: tokSubexpOpen, pos: start, groupKind: groupNamed, groupName: name}, nil
}

func (l *lexer) scanQuotedNameGroup(start int) (ptoken, *onigerr.Error) {
	if !l.prof.Has(profile.FeatureNamedGroup) {
		return ptoken{}, onigerr.AtRange(onigerr.ErrUndefinedGroupOption, start, l.pos)
	}
	l.pos++ // consume '\''
	name, ok := l.scanUntil('\'')
	if !ok {
		return ptoken{}, onigerr.AtRange(onigerr.ErrInvalidGroupName, start, l.pos)
	}
	if err := validGroupName(name); err != nil {
		return ptoken{}, onigerr.AtRangeName(onigerr.ErrInvalidCharInGroupName, start, l.pos, name)
	}
	return ptoken{tag: tokSubexpOpen, pos: start, groupKind: groupNamed, groupName: name, groupQuote: '\''}, nil
}

func (l *lexer) scanPGroup(start int) (ptoken, *onigerr.Error) {
	l.pos++ // consume 'P'
	if l.eof() {
		return ptoken{}, onigerr.AtRange(onigerr.ErrUndefinedGroupOption, start, l.pos)
	}
	if l.src[l.pos] != '<' {
		return ptoken{}, onigerr.AtRange(onigerr.ErrUndefinedGroupOption, start, l.pos)
	}
	l.pos++
	if !l.prof.Has(profile.FeatureNamedGroup) {
		return ptoken{}, onigerr.AtRange(onigerr.ErrUndefinedGroupOption, start, l.pos)
	}
	name, ok := l.scanUntil('>')
	if !ok {
		return ptoken{}, onigerr.AtRange(onigerr.ErrInvalidGroupName, start, l.pos)
	}
	if err := validGroupName(name); err != nil {
		return ptoken{}, onigerr.AtRangeName(onigerr.ErrInvalidCharInGroupName, start, l.pos, name)
	}
	return ptoken{tag: tokSubexpOpen, pos: start, groupKind: groupNamed, groupName: name}, nil
}

// scanOptionGroup parses (?ims-ims:...) or (?ims-ims) or a bare option
// scope change (?ims-ims).
func (l *lexer) scanOptionGroup(start int) (ptoken, *onigerr.Error) {
	var on, off ast.OptionFlags
	neg := false
	for !l.eof() {
		c := l.src[l.pos]
		switch c {
		case 'i':
			flag(&on, &off, neg, ast.OptionIgnoreCase)
		case 'x':
			flag(&on, &off, neg, ast.OptionExtend)
		case 'm':
			flag(&on, &off, neg, ast.OptionMultiline)
		case 's':
			flag(&on, &off, neg, ast.OptionSingleline)
		case 'a', 'd', 'u':
			// ASCII/default/unicode encoding-scope toggles: accepted but not
			// modeled as OptionFlags bits; the active encoding is fixed at
			// parse entry in this engine.
		case '-':
			neg = true
			l.pos++
			continue
		case ':':
			l.pos++
			return ptoken{tag: tokSubexpOpen, pos: start, groupKind: groupOptionScope, optsOn: on, optsOff: off}, nil
		case ')':
			l.pos++
			return ptoken{tag: tokSubexpOpen, pos: start, groupKind: groupOptionScope, optsOn: on, optsOff: off, groupQuote: ')'}, nil
		default:
			return ptoken{}, onigerr.AtRange(onigerr.ErrUndefinedGroupOption, start, l.pos)
		}
		l.pos++
	}
	return ptoken{}, onigerr.AtRange(onigerr.ErrEndPatternAtLeftBrace, start, l.pos)
}

func flag(on, off *ast.OptionFlags, neg bool, f ast.OptionFlags) {
	if neg {
		*off |= f
	} else {
		*on |= f
	}
}

func (l *lexer) scanUntil(end byte) (string, bool) {
	start := l.pos
	for !l.eof() {
		if l.src[l.pos] == end {
			s := string(l.src[start:l.pos])
			l.pos++
			return s, true
		}
		l.pos++
	}
	return "", false
}

func validGroupName(name string) error {
	if name == "" {
		return onigerr.New(onigerr.ErrInvalidGroupName)
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		isAlnum := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_'
		if !isAlnum {
			return onigerr.New(onigerr.ErrInvalidCharInGroupName)
		}
	}
	if name[0] >= '0' && name[0] <= '9' {
		return onigerr.New(onigerr.ErrInvalidGroupName)
	}
	return nil
}

// scanEscape handles every '\' form outside a character class: char
// types, anchors, backrefs, calls, \Q, \p{}, and literal escapes.
func (l *lexer) scanEscape(start int) (ptoken, *onigerr.Error) {
	l.pos++ // consume '\\'
	if l.eof() {
		return ptoken{}, onigerr.AtRange(onigerr.ErrEndPatternAtEscape, start, l.pos)
	}
	c := l.src[l.pos]

	if l.prof.Has(profile.FeatureVariableMetaCharacters) {
		switch c {
		case 'd', 'D', 'w', 'W', 's', 'S':
			l.pos++
			return ctypeEscapeToken(start, c), nil
		}
	}
	if l.prof.Has(profile.FeatureBackslashAAndZ) {
		switch c {
		case 'A':
			l.pos++
			return ptoken{tag: tokAnchor, pos: start, anchor: ast.AnchorBeginBuf}, nil
		case 'z':
			l.pos++
			return ptoken{tag: tokAnchor, pos: start, anchor: ast.AnchorEndBuf}, nil
		case 'Z':
			l.pos++
			return ptoken{tag: tokAnchor, pos: start, anchor: ast.AnchorSemiEndBuf}, nil
		}
	}
	if l.prof.Has(profile.FeatureBackslashG) && c == 'G' {
		l.pos++
		return ptoken{tag: tokAnchor, pos: start, anchor: ast.AnchorBeginPosition}, nil
	}
	if l.prof.Has(profile.FeatureWordBoundary) {
		switch c {
		case 'b':
			l.pos++
			return ptoken{tag: tokAnchor, pos: start, anchor: ast.AnchorWordBoundary}, nil
		case 'B':
			l.pos++
			return ptoken{tag: tokAnchor, pos: start, anchor: ast.AnchorNotWordBoundary}, nil
		}
	}
	switch c {
	case 'X':
		l.pos++
		return ptoken{tag: tokAnchor, pos: start, anchor: ast.AnchorTextSegmentBoundary}, nil
	case 'k':
		if peek, ok := l.byteAt(1); ok && (peek == '<' || peek == '\'') {
			return l.scanNamedBackref(start)
		}
	case 'g':
		if l.prof.Has(profile.FeatureSubexpCall) {
			if peek, ok := l.byteAt(1); ok && (peek == '<' || peek == '\'') {
				return l.scanCall(start)
			}
		}
	case 'Q':
		if l.prof.Has(profile.FeatureQuoteEscape) {
			l.pos++
			l.inQuote = true
			return ptoken{tag: tokQuoteOpen, pos: start}, nil
		}
	case 'p', 'P':
		if l.prof.Has(profile.FeatureCharProperty) {
			return l.scanProperty(start, c == 'P')
		}
	}
	if c >= '1' && c <= '9' {
		return l.scanNumericBackref(start)
	}

	n := l.enc.MBCLen(c)
	code, err := l.decodeAt(l.pos, n)
	if err != nil {
		return ptoken{}, onigerr.AtRange(onigerr.ErrInvalidMultibyte, start, l.pos+n)
	}
	l.pos += n
	return ptoken{tag: tokChar, pos: start, ch: c, code: code, n: n}, nil
}

func ctypeEscapeToken(pos int, c byte) ptoken {
	var ct ast.CTypeID
	neg := false
	switch c {
	case 'd':
		ct = ast.CTypeDigit
	case 'D':
		ct = ast.CTypeDigit
		neg = true
	case 'w':
		ct = ast.CTypeWord
	case 'W':
		ct = ast.CTypeWord
		neg = true
	case 's':
		ct = ast.CTypeSpace
	case 'S':
		ct = ast.CTypeSpace
		neg = true
	}
	return ptoken{tag: tokCharType, pos: pos, ctype: ct, negate: neg}
}

func (l *lexer) scanNumericBackref(start int) (ptoken, *onigerr.Error) {
	num, _, next := scanDigits(l.src, l.pos)
	l.pos = next
	return ptoken{tag: tokBackRef, pos: start, num: num}, nil
}

func (l *lexer) scanNamedBackref(start int) (ptoken, *onigerr.Error) {
	l.pos++ // consume 'k'
	open := l.src[l.pos]
	closeDelim := byte('>')
	if open == '\'' {
		closeDelim = '\''
	}
	l.pos++ // consume open delim
	body, ok := l.scanUntil(closeDelim)
	if !ok {
		return ptoken{}, onigerr.AtRange(onigerr.ErrInvalidBackref, start, l.pos)
	}
	name, level, hasLevel := splitBackrefLevel(body)
	return ptoken{tag: tokBackRef, pos: start, name: name, level: level, hasLvl: hasLevel}, nil
}

func (l *lexer) scanCall(start int) (ptoken, *onigerr.Error) {
	l.pos++ // consume 'g'
	open := l.src[l.pos]
	closeDelim := byte('>')
	if open == '\'' {
		closeDelim = '\''
	}
	l.pos++
	body, ok := l.scanUntil(closeDelim)
	if !ok {
		return ptoken{}, onigerr.AtRange(onigerr.ErrEndPatternAtMeta, start, l.pos)
	}
	if body == "" {
		return ptoken{}, onigerr.AtRange(onigerr.ErrUndefinedGroupReference, start, l.pos)
	}
	if (body[0] >= '0' && body[0] <= '9') || body[0] == '-' || body[0] == '+' {
		neg := body[0] == '-'
		digits := body
		if body[0] == '-' || body[0] == '+' {
			digits = body[1:]
		}
		num, ok2, _ := scanDigits([]byte(digits), 0)
		if !ok2 {
			return ptoken{}, onigerr.AtRangeName(onigerr.ErrUndefinedGroupReference, start, l.pos, body)
		}
		if neg {
			num = -num
		}
		return ptoken{tag: tokCall, pos: start, num: num}, nil
	}
	return ptoken{tag: tokCall, pos: start, name: body}, nil
}

func (l *lexer) scanProperty(start int, negate bool) (ptoken, *onigerr.Error) {
	l.pos++ // consume 'p'/'P'
	if l.eof() || l.src[l.pos] != '{' {
		// \pL single-letter form: not supported by this dialect set; treat
		// as a syntax error rather than silently accepting Perl's shorthand.
		return ptoken{}, onigerr.AtRange(onigerr.ErrInvalidCharPropertyName, start, l.pos)
	}
	l.pos++
	innerNeg := false
	if !l.eof() && l.src[l.pos] == '^' {
		innerNeg = true
		l.pos++
	}
	name, ok := l.scanUntil('}')
	if !ok {
		return ptoken{}, onigerr.AtRange(onigerr.ErrInvalidCharPropertyName, start, l.pos)
	}
	id, known := l.enc.PropertyNameToCType(name)
	if !known {
		return ptoken{}, onigerr.AtRangeName(onigerr.ErrInvalidCharPropertyName, start, l.pos, name)
	}
	return ptoken{tag: tokCharType, pos: start, ctype: id, negate: negate != innerNeg}, nil
}

// splitBackrefLevel parses "name" or "name+N" / "name-N" level-qualified
// backref/call bodies.
func splitBackrefLevel(body string) (name string, level int, hasLevel bool) {
	for i := 0; i < len(body); i++ {
		if body[i] == '+' || body[i] == '-' {
			sign := 1
			if body[i] == '-' {
				sign = -1
			}
			n, ok, _ := scanDigits([]byte(body[i+1:]), 0)
			if ok {
				return body[:i], sign * n, true
			}
		}
	}
	return body, 0, false
}
