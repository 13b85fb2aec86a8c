package encoding

import (
	"unicode"
	"unicode/utf16"

	"github.com/coregx/goonig/ast"
	"github.com/coregx/goonig/onigerr"
)

func newUTF16Encoding(name string, bigEndian bool) Encoding {
	get16 := func(p []byte) uint16 {
		if bigEndian {
			return uint16(p[0])<<8 | uint16(p[1])
		}
		return uint16(p[1])<<8 | uint16(p[0])
	}
	put16 := func(buf []byte, v uint16) {
		if bigEndian {
			buf[0], buf[1] = byte(v>>8), byte(v)
		} else {
			buf[0], buf[1] = byte(v), byte(v>>8)
		}
	}

	return Encoding{
		Name:                  name,
		MaxLen:                4,
		ASCIICompatible:       false,
		IsAllowedReverseMatch: true,

		MBCLen: func(p byte) int {
			// A single leading byte cannot disambiguate a surrogate pair;
			// callers always have at least 2 bytes available in the
			// contiguous byte range given to them, so MBCLen is only ever
			// consulted together with ToCode for the real decision — see
			// ToCode below, which is where the surrogate check happens.
			return 2
		},

		ToCode: func(p []byte) (uint32, error) {
			if len(p) < 2 {
				return 0, onigerr.New(onigerr.ErrInvalidMultibyte)
			}
			u1 := get16(p)
			if utf16.IsSurrogate(rune(u1)) {
				if len(p) < 4 {
					return 0, onigerr.New(onigerr.ErrInvalidMultibyte)
				}
				u2 := get16(p[2:])
				r := utf16.DecodeRune(rune(u1), rune(u2))
				if r == unicode.ReplacementChar {
					return 0, onigerr.New(onigerr.ErrInvalidMultibyte)
				}
				return uint32(r), nil
			}
			return uint32(u1), nil
		},

		CodeToMBC: func(code uint32, buf []byte) (int, error) {
			if code > unicode.MaxRune {
				return 0, onigerr.New(onigerr.ErrTooBigCodePoint)
			}
			r1, r2 := utf16.EncodeRune(rune(code))
			if r1 == unicode.ReplacementChar {
				if len(buf) < 2 {
					return 0, onigerr.New(onigerr.ErrInvalidArgument)
				}
				put16(buf, uint16(code))
				return 2, nil
			}
			if len(buf) < 4 {
				return 0, onigerr.New(onigerr.ErrInvalidArgument)
			}
			put16(buf, uint16(r1))
			put16(buf[2:], uint16(r2))
			return 4, nil
		},

		IsMBCNewline: func(p []byte) bool {
			return len(p) >= 2 && get16(p) == '\n'
		},

		CaseFold: func(flag CaseFoldFlags, p []byte, foldBuf []byte) (int, error) {
			if len(p) < 2 {
				return 0, onigerr.New(onigerr.ErrInvalidMultibyte)
			}
			u1 := get16(p)
			folded := unicode.ToLower(rune(u1))
			put16(foldBuf, uint16(folded))
			return 2, nil
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
				}
			}
		},

		GetCaseFoldCodesByString: func(flag CaseFoldFlags, p []byte) [][]byte {
			return nil
		},

		PropertyNameToCType: func(n string) (ast.CTypeID, bool) { return asciiPropertyName(n) },

		IsCodeCType: func(code uint32, ctype ast.CTypeID) bool {
			return UTF8.IsCodeCType(code, ctype)
		},

		CTypeRanges: func(ctype ast.CTypeID, sbOut *[256]bool) []ast.Range {
			return UTF8.CTypeRanges(ctype, sbOut)
		},

		LeftAdjustCharHead: func(data []byte, start, s int) int {
			// Snap to an even offset from start; a low surrogate at an odd
			// offset cannot be a character head in well-formed UTF-16.
			if (s-start)%2 != 0 {
				return s - 1
			}
			return s
		},

		IsValidMBCString: func(s []byte) bool { return len(s)%2 == 0 },
	}
}

var UTF16BE = register(newUTF16Encoding("UTF-16BE", true))
var UTF16LE = register(newUTF16Encoding("UTF-16LE", false))

func newUTF32Encoding(name string, bigEndian bool) Encoding {
	get32 := func(p []byte) uint32 {
		if bigEndian {
			return uint32(p[0])<<24 | uint32(p[1])<<16 | uint32(p[2])<<8 | uint32(p[3])
		}
		return uint32(p[3])<<24 | uint32(p[2])<<16 | uint32(p[1])<<8 | uint32(p[0])
	}
	put32 := func(buf []byte, v uint32) {
		if bigEndian {
			buf[0], buf[1], buf[2], buf[3] = byte(v>>24), byte(v>>16), byte(v>>8), byte(v)
		} else {
			buf[0], buf[1], buf[2], buf[3] = byte(v), byte(v>>8), byte(v>>16), byte(v>>24)
		}
	}

	return Encoding{
		Name:                  name,
		MaxLen:                4,
		ASCIICompatible:       false,
		IsAllowedReverseMatch: true,

		MBCLen: func(p byte) int { return 4 },

		ToCode: func(p []byte) (uint32, error) {
			if len(p) < 4 {
				return 0, onigerr.New(onigerr.ErrInvalidMultibyte)
			}
			code := get32(p)
			if code > unicode.MaxRune {
				return 0, onigerr.New(onigerr.ErrInvalidMultibyte)
			}
			return code, nil
		},

		CodeToMBC: func(code uint32, buf []byte) (int, error) {
			if code > unicode.MaxRune {
				return 0, onigerr.New(onigerr.ErrTooBigCodePoint)
			}
			if len(buf) < 4 {
				return 0, onigerr.New(onigerr.ErrInvalidArgument)
			}
			put32(buf, code)
			return 4, nil
		},

		IsMBCNewline: func(p []byte) bool { return len(p) >= 4 && get32(p) == '\n' },

		CaseFold: func(flag CaseFoldFlags, p []byte, foldBuf []byte) (int, error) {
			if len(p) < 4 {
				return 0, onigerr.New(onigerr.ErrInvalidMultibyte)
			}
			folded := unicode.ToLower(rune(get32(p)))
			put32(foldBuf, uint32(folded))
			return 4, nil
		},

		ApplyAllCaseFold: UTF8.ApplyAllCaseFold,

		GetCaseFoldCodesByString: func(flag CaseFoldFlags, p []byte) [][]byte { return nil },

		PropertyNameToCType: func(n string) (ast.CTypeID, bool) { return asciiPropertyName(n) },

		IsCodeCType: func(code uint32, ctype ast.CTypeID) bool { return UTF8.IsCodeCType(code, ctype) },

		CTypeRanges: func(ctype ast.CTypeID, sbOut *[256]bool) []ast.Range { return UTF8.CTypeRanges(ctype, sbOut) },

		LeftAdjustCharHead: func(data []byte, start, s int) int {
			off := (s - start) % 4
			return s - off
		},

		IsValidMBCString: func(s []byte) bool { return len(s)%4 == 0 },
	}
}

var UTF32BE = register(newUTF32Encoding("UTF-32BE", true))
var UTF32LE = register(newUTF32Encoding("UTF-32LE", false))
