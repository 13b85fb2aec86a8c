package encoding

import "github.com/coregx/goonig/ast"
import "github.com/coregx/goonig/onigerr"

// ASCII is the 7-bit ASCII encoding: every byte is one character, and any
// byte >= 0x80 is a decode error.
var ASCII = register(Encoding{
	Name:            "ASCII",
	MaxLen:          1,
	ASCIICompatible: true,
	IsAllowedReverseMatch: true,

	MBCLen: func(p byte) int { return 1 },

	ToCode: func(p []byte) (uint32, error) {
		if len(p) == 0 {
			return 0, onigerr.New(onigerr.ErrInvalidMultibyte)
		}
		if p[0] >= 0x80 {
			return 0, onigerr.New(onigerr.ErrInvalidMultibyte)
		}
		return uint32(p[0]), nil
	},

	CodeToMBC: func(code uint32, buf []byte) (int, error) {
		if code > 0x7f {
			return 0, onigerr.New(onigerr.ErrTooBigCodePoint)
		}
		if len(buf) < 1 {
			return 0, onigerr.New(onigerr.ErrInvalidArgument)
		}
		buf[0] = byte(code)
		return 1, nil
	},

	IsMBCNewline: func(p []byte) bool {
		return len(p) > 0 && p[0] == '\n'
	},

	CaseFold: func(flag CaseFoldFlags, p []byte, foldBuf []byte) (int, error) {
		if len(p) == 0 {
			return 0, onigerr.New(onigerr.ErrInvalidMultibyte)
		}
		c := p[0]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		foldBuf[0] = c
		return 1, nil
	},

	ApplyAllCaseFold: func(flag CaseFoldFlags, visit func(from, to uint32)) {
		for c := uint32('A'); c <= 'Z'; c++ {
			visit(c, c+('a'-'A'))
			visit(c+('a'-'A'), c+('a'-'A'))
		}
	},

	GetCaseFoldCodesByString: func(flag CaseFoldFlags, p []byte) [][]byte {
		if len(p) == 0 {
			return nil
		}
		c := p[0]
		var alt byte
		switch {
		case c >= 'A' && c <= 'Z':
			alt = c + ('a' - 'A')
		case c >= 'a' && c <= 'z':
			alt = c - ('a' - 'A')
		default:
			return nil
		}
		return [][]byte{{alt}}
	},

	PropertyNameToCType: func(name string) (ast.CTypeID, bool) {
		return asciiPropertyName(name)
	},

	IsCodeCType: func(code uint32, ctype ast.CTypeID) bool {
		return asciiIsCType(code, ctype)
	},

	CTypeRanges: func(ctype ast.CTypeID, sbOut *[256]bool) []ast.Range {
		return asciiCTypeRanges(ctype, sbOut)
	},

	LeftAdjustCharHead: func(data []byte, start, s int) int {
		return s // every byte is a character head
	},

	IsValidMBCString: func(s []byte) bool {
		for _, b := range s {
			if b >= 0x80 {
				return false
			}
		}
		return true
	},
})

// asciiPropertyName resolves POSIX-bracket-style names and \p{...} aliases
// that are meaningful for the ASCII-range ctype set shared by every
// ASCII-compatible encoding.
func asciiPropertyName(name string) (ast.CTypeID, bool) {
	switch name {
	case "Alpha", "alpha":
		return ast.CTypeAlpha, true
	case "Alnum", "alnum":
		return ast.CTypeAlnum, true
	case "Digit", "digit":
		return ast.CTypeDigit, true
	case "Space", "space":
		return ast.CTypeSpace, true
	case "Upper", "upper":
		return ast.CTypeUpper, true
	case "Lower", "lower":
		return ast.CTypeLower, true
	case "Punct", "punct":
		return ast.CTypePunct, true
	case "Cntrl", "cntrl":
		return ast.CTypeCntrl, true
	case "Graph", "graph":
		return ast.CTypeGraph, true
	case "Print", "print":
		return ast.CTypePrint, true
	case "Blank", "blank":
		return ast.CTypeBlank, true
	case "XDigit", "xdigit":
		return ast.CTypeXDigit, true
	case "ASCII", "ascii":
		return ast.CTypeASCII, true
	case "Word", "word":
		return ast.CTypeWord, true
	default:
		return 0, false
	}
}
