package encoding

import (
	"unicode"
	"unicode/utf8"

	"github.com/coregx/goonig/ast"
	"github.com/coregx/goonig/onigerr"
)

// UTF8 is Oniguruma's default encoding. Decoding and case folding are
// delegated to the standard library's unicode/utf8 and unicode packages,
// which are the correct tool for exactly this job (rune decoding and
// Unicode case tables) rather than something worth re-deriving by hand.
var UTF8 = register(Encoding{
	Name:                  "UTF-8",
	MaxLen:                utf8.UTFMax,
	ASCIICompatible:       true,
	IsAllowedReverseMatch: true,

	MBCLen: func(p byte) int {
		if p < 0x80 {
			return 1
		}
		n := 0
		switch {
		case p&0xe0 == 0xc0:
			n = 2
		case p&0xf0 == 0xe0:
			n = 3
		case p&0xf8 == 0xf0:
			n = 4
		default:
			n = 1 // malformed lead byte; caller's ToCode will report the error
		}
		return n
	},

	ToCode: func(p []byte) (uint32, error) {
		r, size := utf8.DecodeRune(p)
		if r == utf8.RuneError && size <= 1 {
			return 0, onigerr.New(onigerr.ErrInvalidMultibyte)
		}
		return uint32(r), nil
	},

	CodeToMBC: func(code uint32, buf []byte) (int, error) {
		if code > unicode.MaxRune || (code >= 0xd800 && code <= 0xdfff) {
			return 0, onigerr.New(onigerr.ErrTooBigCodePoint)
		}
		n := utf8.EncodeRune(buf, rune(code))
		return n, nil
	},

	IsMBCNewline: func(p []byte) bool {
		return len(p) > 0 && p[0] == '\n'
	},

	CaseFold: func(flag CaseFoldFlags, p []byte, foldBuf []byte) (int, error) {
		r, size := utf8.DecodeRune(p)
		if r == utf8.RuneError && size <= 1 {
			return 0, onigerr.New(onigerr.ErrInvalidMultibyte)
		}
		folded := unicode.ToLower(r)
		return utf8.EncodeRune(foldBuf, folded), nil
	},

	ApplyAllCaseFold: func(flag CaseFoldFlags, visit func(from, to uint32)) {
		limit := rune(unicode.MaxRune)
		if flag&CaseFoldASCIIOnly != 0 {
			limit = 0x7f
		}
		for r := rune(0); r <= limit; r++ {
			lower := unicode.ToLower(r)
			if lower != r {
				visit(uint32(r), uint32(lower))
				visit(uint32(lower), uint32(lower))
			}
			upper := unicode.ToUpper(r)
			if upper != r {
				visit(uint32(r), uint32(lower))
				visit(uint32(upper), uint32(lower))
			}
		}
	},

	GetCaseFoldCodesByString: func(flag CaseFoldFlags, p []byte) [][]byte {
		r, size := utf8.DecodeRune(p)
		if size == 0 || r == utf8.RuneError {
			return nil
		}
		lower := unicode.ToLower(r)
		upper := unicode.ToUpper(r)
		var out [][]byte
		seen := map[rune]bool{r: true}
		for _, alt := range [...]rune{lower, upper} {
			if seen[alt] {
				continue
			}
			seen[alt] = true
			buf := make([]byte, utf8.UTFMax)
			n := utf8.EncodeRune(buf, alt)
			out = append(out, buf[:n])
		}
		return out
	},

	PropertyNameToCType: func(name string) (ast.CTypeID, bool) {
		if id, ok := asciiPropertyName(name); ok {
			return id, true
		}
		return 0, false
	},

	IsCodeCType: func(code uint32, ctype ast.CTypeID) bool {
		if code < 128 {
			return asciiIsCType(code, ctype)
		}
		r := rune(code)
		switch ctype {
		case ast.CTypeAny:
			return true
		case ast.CTypeWord:
			return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
		case ast.CTypeNotWord:
			return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_')
		case ast.CTypeDigit:
			return unicode.IsDigit(r)
		case ast.CTypeNotDigit:
			return !unicode.IsDigit(r)
		case ast.CTypeSpace:
			return unicode.IsSpace(r)
		case ast.CTypeNotSpace:
			return !unicode.IsSpace(r)
		case ast.CTypeAlpha:
			return unicode.IsLetter(r)
		case ast.CTypeAlnum:
			return unicode.IsLetter(r) || unicode.IsDigit(r)
		case ast.CTypePunct:
			return unicode.IsPunct(r) || unicode.IsSymbol(r)
		case ast.CTypeUpper:
			return unicode.IsUpper(r)
		case ast.CTypeLower:
			return unicode.IsLower(r)
		case ast.CTypeCntrl:
			return unicode.IsControl(r)
		case ast.CTypeGraph:
			return unicode.IsGraphic(r) && !unicode.IsSpace(r)
		case ast.CTypePrint:
			return unicode.IsPrint(r)
		case ast.CTypeASCII:
			return false
		default:
			return false
		}
	},

	CTypeRanges: func(ctype ast.CTypeID, sbOut *[256]bool) []ast.Range {
		// The ASCII-range portion always goes through the shared bitmap;
		// above 127 we report the handful of contiguous Unicode RangeTables
		// the common ctypes map onto, rather than exhaustively enumerating
		// every code point (which IsCodeCType already does per-character at
		// match time for anything a compiled CCLASS_MB range sub-test
		// missed). This mirrors Oniguruma's own "linear search over a short
		// range list, fall back to the full predicate" structure.
		asciiCTypeRanges(ctype, sbOut)
		var table *unicode.RangeTable
		switch ctype {
		case ast.CTypeAlpha, ast.CTypeWord, ast.CTypeAlnum:
			table = unicode.Letter
		case ast.CTypeDigit:
			table = unicode.Digit
		case ast.CTypeSpace:
			table = unicode.White_Space
		case ast.CTypeUpper:
			table = unicode.Upper
		case ast.CTypeLower:
			table = unicode.Lower
		case ast.CTypePunct:
			table = unicode.Punct
		default:
			return nil
		}
		var ranges []ast.Range
		for _, r16 := range table.R16 {
			if uint32(r16.Lo) < 128 {
				continue
			}
			ranges = append(ranges, ast.Range{Lo: uint32(r16.Lo), Hi: uint32(r16.Hi)})
		}
		for _, r32 := range table.R32 {
			ranges = append(ranges, ast.Range{Lo: r32.Lo, Hi: r32.Hi})
		}
		return ranges
	},

	LeftAdjustCharHead: func(data []byte, start, s int) int {
		if s <= start {
			return start
		}
		i := s
		for i > start && data[i]&0xc0 == 0x80 {
			i--
		}
		return i
	},

	IsValidMBCString: func(s []byte) bool {
		return utf8.Valid(s)
	},
})
