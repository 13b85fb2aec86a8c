// Package encoding implements the Encoding Contract: the interface
// the parser, compiler and VM use to decode one character, classify code
// points, fold case and enumerate ctype ranges, without ever hard-coding a
// specific byte layout.
//
// Encoding is a plain record of function-shaped fields rather than an
// interface with a single concrete implementer per encoding; this follows
// the §9 "Dynamic dispatch" note directly ("implementations are
// plain records of function references ... no inheritance hierarchy") and
// lets table-driven encodings (the single-byte code-page family) and
// algorithmic encodings (UTF-8, UTF-16, UTF-32) share one type.
package encoding

import "github.com/coregx/goonig/ast"

// MaxMBCLen is the longest byte sequence any supported encoding uses for a
// single character (UTF-8, UTF-16, UTF-32 and EUC-TW all cap out at 4).
const MaxMBCLen = 4

// CaseFoldFlags selects which case-fold variants apply_all_case_fold and
// mbc_case_fold enumerate. Oniguruma's own ONIGENC_CASE_FOLD_* flags map
// 1:1; ASCII_ONLY is the one the parser toggles per syntax profile when a
// dialect does not want non-ASCII fold expansion.
type CaseFoldFlags uint32

const CaseFoldDefault CaseFoldFlags = 0

const (
	CaseFoldASCIIOnly CaseFoldFlags = 1 << iota
)

// Encoding is the Encoding Contract. Every field is required; Name and
// MaxLen are metadata, the rest are the operations lists.
type Encoding struct {
	// Name identifies the encoding (e.g. "UTF-8", "ISO-8859-1").
	Name string

	// MaxLen is the longest byte length of any single character in this
	// encoding (1 for single-byte encodings).
	MaxLen int

	// MBCLen returns the byte length of the character starting at p[0],
	// without validating the remaining bytes are present. Returns 1..MaxLen.
	MBCLen func(p byte) int

	// ToCode decodes the character at the start of p (p must hold at least
	// MBCLen(p[0]) bytes) into its code point.
	ToCode func(p []byte) (code uint32, err error)

	// CodeToMBC encodes code back into buf, returning the byte length
	// written, or an error if code is out of range for this encoding.
	CodeToMBC func(code uint32, buf []byte) (n int, err error)

	// IsMBCNewline reports whether the character at the start of p is this
	// encoding's newline character.
	IsMBCNewline func(p []byte) bool

	// CaseFold decodes one character at p under flag and writes its
	// canonical fold form to foldBuf, returning the fold length. Used to
	// build case-insensitive literal and backref comparisons.
	CaseFold func(flag CaseFoldFlags, p []byte, foldBuf []byte) (n int, err error)

	// ApplyAllCaseFold enumerates every (code, foldedCode) pair this
	// encoding considers case-equivalent, calling visit for each. Used to
	// expand a single character into a CharClass of all its fold variants
	// under IGNORECASE.
	ApplyAllCaseFold func(flag CaseFoldFlags, visit func(from, to uint32))

	// GetCaseFoldCodesByString returns every fold-equivalent rendering of
	// the character at the start of p, each as a byte run (which may differ
	// in length from the source, e.g. German ß folding to "ss").
	GetCaseFoldCodesByString func(flag CaseFoldFlags, p []byte) [][]byte

	// PropertyNameToCType resolves a \p{Name} property name to a CTypeID,
	// or reports ok=false if this encoding has no such property.
	PropertyNameToCType func(name string) (id ast.CTypeID, ok bool)

	// IsCodeCType reports whether code belongs to ctype.
	IsCodeCType func(code uint32, ctype ast.CTypeID) bool

	// CTypeRanges enumerates the code-point ranges belonging to ctype, for
	// compiling a CCLASS_MB instruction. sbOut, if non-nil, receives the
	// bitmap for any code points < 256 (the "sb" = single-byte fast path).
	CTypeRanges func(ctype ast.CTypeID, sbOut *[256]bool) []ast.Range

	// LeftAdjustCharHead snaps s back to the start of the character it
	// falls inside of, never going before start. data spans [start, len).
	LeftAdjustCharHead func(data []byte, start, s int) int

	// IsAllowedReverseMatch reports whether this encoding's byte layout
	// permits scanning backwards character-by-character (true for
	// fixed-width and self-synchronizing encodings like UTF-8; false for
	// stateful/shift encodings where a byte's role depends on what preceded
	// it, e.g. Shift-JIS and EUC-JP's conditional second byte).
	IsAllowedReverseMatch bool

	// IsValidMBCString reports whether s is a well-formed byte sequence in
	// this encoding.
	IsValidMBCString func(s []byte) bool

	// ASCIICompatible is true when bytes 0x00-0x7F always decode to the
	// matching ASCII code point (true for UTF-8, the ISO-8859/KOI8/CP125x
	// family and the registered CJK encodings; false for UTF-16/32).
	ASCIICompatible bool
}

// ByName returns the registered Encoding for name, or ok=false.
func ByName(name string) (Encoding, bool) {
	e, ok := registry[name]
	return e, ok
}

// Names lists every registered encoding name, in registration order.
func Names() []string {
	out := make([]string, len(registryOrder))
	copy(out, registryOrder)
	return out
}

var registry = map[string]Encoding{}
var registryOrder []string

func register(e Encoding) Encoding {
	if _, dup := registry[e.Name]; dup {
		panic("encoding: duplicate registration for " + e.Name)
	}
	registry[e.Name] = e
	registryOrder = append(registryOrder, e.Name)
	return e
}
