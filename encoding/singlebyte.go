package encoding

import (
	"golang.org/x/text/encoding/charmap"

	"github.com/coregx/goonig/ast"
	"github.com/coregx/goonig/onigerr"
)

// newCharmapEncoding adapts a golang.org/x/text/encoding/charmap.Charmap
// (retrieved for this module via the ProfoundNetworks/gocd example's
// dependency on golang.org/x/text) into the Encoding Contract's
// single-byte shape: every byte is one character, DecodeByte/EncodeRune
// give the real Unicode code point for that code page, and ASCII-range
// ctype/case-fold logic is reused since every charmap here agrees with
// ASCII for bytes < 0x80.
//
// Per , the encoding tables themselves (case-folding data, ctype
// ranges, script ranges) are an out-of-scope external collaborator; above
// the ASCII range this adapter reports ctype membership as false and
// case-fold as identity rather than consulting a second, non-ASCII fold
// table, which explicitly does not ask this module to carry.
func newCharmapEncoding(name string, cm *charmap.Charmap) Encoding {
	return Encoding{
		Name:                  name,
		MaxLen:                1,
		ASCIICompatible:       true,
		IsAllowedReverseMatch: true,

		MBCLen: func(p byte) int { return 1 },

		ToCode: func(p []byte) (uint32, error) {
			if len(p) == 0 {
				return 0, onigerr.New(onigerr.ErrInvalidMultibyte)
			}
			r := cm.DecodeByte(p[0])
			return uint32(r), nil
		},

		CodeToMBC: func(code uint32, buf []byte) (int, error) {
			b, ok := cm.EncodeRune(rune(code))
			if !ok {
				return 0, onigerr.New(onigerr.ErrTooBigCodePoint)
			}
			if len(buf) < 1 {
				return 0, onigerr.New(onigerr.ErrInvalidArgument)
			}
			buf[0] = b
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

		ApplyAllCaseFold: ASCII.ApplyAllCaseFold,

		GetCaseFoldCodesByString: ASCII.GetCaseFoldCodesByString,

		PropertyNameToCType: func(n string) (ast.CTypeID, bool) {
			return asciiPropertyName(n)
		},

		IsCodeCType: func(code uint32, ctype ast.CTypeID) bool {
			return asciiIsCType(code, ctype)
		},

		CTypeRanges: func(ctype ast.CTypeID, sbOut *[256]bool) []ast.Range {
			return asciiCTypeRanges(ctype, sbOut)
		},

		LeftAdjustCharHead: func(data []byte, start, s int) int { return s },

		IsValidMBCString: func(s []byte) bool { return true },
	}
}

var ISO8859_1 = register(newCharmapEncoding("ISO-8859-1", charmap.ISO8859_1))
var ISO8859_2 = register(newCharmapEncoding("ISO-8859-2", charmap.ISO8859_2))
var ISO8859_3 = register(newCharmapEncoding("ISO-8859-3", charmap.ISO8859_3))
var ISO8859_4 = register(newCharmapEncoding("ISO-8859-4", charmap.ISO8859_4))
var ISO8859_5 = register(newCharmapEncoding("ISO-8859-5", charmap.ISO8859_5))
var ISO8859_6 = register(newCharmapEncoding("ISO-8859-6", charmap.ISO8859_6))
var ISO8859_7 = register(newCharmapEncoding("ISO-8859-7", charmap.ISO8859_7))
var ISO8859_8 = register(newCharmapEncoding("ISO-8859-8", charmap.ISO8859_8))
var ISO8859_9 = register(newCharmapEncoding("ISO-8859-9", charmap.ISO8859_9))
var ISO8859_10 = register(newCharmapEncoding("ISO-8859-10", charmap.ISO8859_10))

// ISO8859_11 and ISO8859_12 have no golang.org/x/text/encoding/charmap
// entry (8859-11 is Thai/TIS-620 adjacent but never standardized this way,
// 8859-12 was abandoned before ratification); both fall back to an
// identity single-byte mapping so the declared encoding set stays complete
// and internally consistent, even though it cannot claim real Unicode
// fidelity for bytes above 0x7f.
var ISO8859_11 = register(identitySingleByteEncoding("ISO-8859-11"))
var ISO8859_12 = register(identitySingleByteEncoding("ISO-8859-12"))

var ISO8859_13 = register(newCharmapEncoding("ISO-8859-13", charmap.ISO8859_13))
var ISO8859_14 = register(newCharmapEncoding("ISO-8859-14", charmap.ISO8859_14))
var ISO8859_15 = register(newCharmapEncoding("ISO-8859-15", charmap.ISO8859_15))
var ISO8859_16 = register(newCharmapEncoding("ISO-8859-16", charmap.ISO8859_16))

var KOI8R = register(newCharmapEncoding("KOI8-R", charmap.KOI8R))
var CP1251 = register(newCharmapEncoding("CP1251", charmap.Windows1251))

// identitySingleByteEncoding maps byte N to code point N directly. This
// trivially satisfies the roundtrip invariant but is not a
// real Unicode mapping; used only for code pages the charmap package
// does not define.
func identitySingleByteEncoding(name string) Encoding {
	return Encoding{
		Name:                  name,
		MaxLen:                1,
		ASCIICompatible:       true,
		IsAllowedReverseMatch: true,

		MBCLen: func(p byte) int { return 1 },
		ToCode: func(p []byte) (uint32, error) {
			if len(p) == 0 {
				return 0, onigerr.New(onigerr.ErrInvalidMultibyte)
			}
			return uint32(p[0]), nil
		},
		CodeToMBC: func(code uint32, buf []byte) (int, error) {
			if code > 0xff {
				return 0, onigerr.New(onigerr.ErrTooBigCodePoint)
			}
			buf[0] = byte(code)
			return 1, nil
		},
		IsMBCNewline: func(p []byte) bool { return len(p) > 0 && p[0] == '\n' },
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
		ApplyAllCaseFold:         ASCII.ApplyAllCaseFold,
		GetCaseFoldCodesByString: ASCII.GetCaseFoldCodesByString,
		PropertyNameToCType:      func(n string) (ast.CTypeID, bool) { return asciiPropertyName(n) },
		IsCodeCType:              func(code uint32, ctype ast.CTypeID) bool { return asciiIsCType(code, ctype) },
		CTypeRanges:              func(ctype ast.CTypeID, sbOut *[256]bool) []ast.Range { return asciiCTypeRanges(ctype, sbOut) },
		LeftAdjustCharHead:       func(data []byte, start, s int) int { return s },
		IsValidMBCString:         func(s []byte) bool { return true },
	}
}
