package encoding

import "github.com/coregx/goonig/ast"

// asciiIsCType implements ast.CTypeID membership for code points in the
// ASCII range (0..127); every ASCII-compatible encoding's IsCodeCType
// delegates here for code < 128, then applies its own policy (usually
// "false") above that.
func asciiIsCType(code uint32, ctype ast.CTypeID) bool {
	if code > 127 {
		return false
	}
	c := byte(code)
	switch ctype {
	case ast.CTypeAny:
		return true
	case ast.CTypeWord:
		return isWordByte(c)
	case ast.CTypeNotWord:
		return !isWordByte(c)
	case ast.CTypeDigit:
		return c >= '0' && c <= '9'
	case ast.CTypeNotDigit:
		return !(c >= '0' && c <= '9')
	case ast.CTypeSpace:
		return isSpaceByte(c)
	case ast.CTypeNotSpace:
		return !isSpaceByte(c)
	case ast.CTypeAlpha:
		return isAlphaByte(c)
	case ast.CTypeAlnum:
		return isAlphaByte(c) || (c >= '0' && c <= '9')
	case ast.CTypePunct:
		return isPunctByte(c)
	case ast.CTypeUpper:
		return c >= 'A' && c <= 'Z'
	case ast.CTypeLower:
		return c >= 'a' && c <= 'z'
	case ast.CTypeCntrl:
		return c < 0x20 || c == 0x7f
	case ast.CTypeGraph:
		return c > 0x20 && c < 0x7f
	case ast.CTypePrint:
		return c >= 0x20 && c < 0x7f
	case ast.CTypeBlank:
		return c == ' ' || c == '\t'
	case ast.CTypeXDigit:
		return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
	case ast.CTypeASCII:
		return true
	default:
		return false
	}
}

func isWordByte(c byte) bool {
	return c == '_' || isAlphaByte(c) || (c >= '0' && c <= '9')
}

func isAlphaByte(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isSpaceByte(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	default:
		return false
	}
}

func isPunctByte(c byte) bool {
	return c >= 0x21 && c <= 0x7e && !isAlphaByte(c) && !(c >= '0' && c <= '9')
}

// asciiCTypeRanges enumerates the ranges of the ASCII (<128) portion of
// ctype into sbOut; encodings with no characters above 127 (or whose policy
// is "treat >127 as non-matching for ASCII ctypes") can return this
// directly with a nil Range slice.
func asciiCTypeRanges(ctype ast.CTypeID, sbOut *[256]bool) []ast.Range {
	if sbOut != nil {
		for c := 0; c < 128; c++ {
			if asciiIsCType(uint32(c), ctype) {
				sbOut[c] = true
			}
		}
	}
	return nil
}

// asciiCaseFoldPair returns the lowercase code point of an ASCII uppercase
// letter, or (code, false) if code is not an ASCII uppercase letter.
func asciiCaseFoldPair(code uint32) (uint32, bool) {
	if code >= 'A' && code <= 'Z' {
		return code + ('a' - 'A'), true
	}
	return code, false
}
