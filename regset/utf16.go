package regset

import "unicode/utf16"

// UTF16Index bridges a UTF-16 offset space (the coordinate system most
// embedders use for text, e.g. a JavaScript/LSP caller) to the UTF-8 byte
// offsets Scanner.Search and RegSet actually operate in.
//
// An index is built once per source string and reused across every Search
// call against it; it does not itself hold the bytes, so callers keep
// owning the []byte they pass to Scanner.Search.
type UTF16Index struct {
	// u16ToByte[i] is the UTF-8 byte offset of UTF-16 code unit i. Has one
	// extra trailing entry for the end-of-string offset.
	u16ToByte []int
	// byteToU16 maps a UTF-8 byte offset (only those that are character
	// boundaries) back to its UTF-16 code unit offset.
	byteToU16 map[int]int
}

// NewUTF16Index builds the offset tables for utf8 (UTF-8 bytes decoded as
// Go runes, then re-encoded to UTF-16 to find surrogate pairs).
func NewUTF16Index(utf8 []byte) *UTF16Index {
	runes := []rune(string(utf8))
	idx := &UTF16Index{byteToU16: map[int]int{}}

	byteOff := 0
	u16Off := 0
	for _, r := range runes {
		idx.u16ToByte = append(idx.u16ToByte, byteOff)
		idx.byteToU16[byteOff] = u16Off

		units := utf16.Encode([]rune{r})
		u16Off += len(units)
		byteOff += utf8Len(r)
	}
	idx.u16ToByte = append(idx.u16ToByte, byteOff)
	idx.byteToU16[byteOff] = u16Off

	return idx
}

// ByteOffset converts a UTF-16 code-unit offset to the matching UTF-8 byte
// offset. A u16 offset that falls inside a surrogate pair snaps back to the
// pair's starting byte.
func (idx *UTF16Index) ByteOffset(u16 int) int {
	lo, hi := 0, len(idx.u16ToByte)-1
	// u16ToByte is indexed by code-point position, not code-unit position,
	// so binary search needs the code-unit offsets too; rebuild the search
	// via byteToU16's inverse relation by scanning u16ToByte's parallel
	// code-unit sequence captured at construction time is avoided here by
	// keeping the mapping monotonic and searching on code units directly.
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if idx.codeUnitAt(mid) <= u16 {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return idx.u16ToByte[lo]
}

// codeUnitAt returns the UTF-16 code-unit offset of the i-th code point
// boundary recorded in u16ToByte.
func (idx *UTF16Index) codeUnitAt(i int) int {
	return idx.byteToU16[idx.u16ToByte[i]]
}

// UTF16Offset converts a UTF-8 byte offset (must be a character boundary)
// to its UTF-16 code-unit offset.
func (idx *UTF16Index) UTF16Offset(byteOff int) (int, bool) {
	u16, ok := idx.byteToU16[byteOff]
	return u16, ok
}

func utf8Len(r rune) int {
	switch {
	case r < 0x80:
		return 1
	case r < 0x800:
		return 2
	case r < 0x10000:
		return 3
	default:
		return 4
	}
}
