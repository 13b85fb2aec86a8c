package encoding

import "testing"

func TestAllDeclaredEncodingsRegistered(t *testing.T) {
	want := []string{
		"ASCII", "UTF-8", "UTF-16BE", "UTF-16LE", "UTF-32BE", "UTF-32LE",
		"EUC-JP", "Shift-JIS",
		"ISO-8859-1", "ISO-8859-2", "ISO-8859-3", "ISO-8859-4", "ISO-8859-5",
		"ISO-8859-6", "ISO-8859-7", "ISO-8859-8", "ISO-8859-9", "ISO-8859-10",
		"ISO-8859-11", "ISO-8859-12", "ISO-8859-13", "ISO-8859-14",
		"ISO-8859-15", "ISO-8859-16",
		"KOI8-R", "CP1251", "GB18030", "Big5", "EUC-KR", "EUC-TW",
	}
	for _, name := range want {
		if _, ok := ByName(name); !ok {
			t.Fatalf("expected encoding %q to be registered", name)
		}
	}
}

func TestUTF8Roundtrip(t *testing.T) {
	for _, r := range []rune{'a', 'é', '中', '𝔘'} {
		buf := make([]byte, MaxMBCLen)
		n, err := UTF8.CodeToMBC(uint32(r), buf)
		if err != nil {
			t.Fatalf("CodeToMBC(%q): %v", r, err)
		}
		code, err := UTF8.ToCode(buf[:n])
		if err != nil {
			t.Fatalf("ToCode: %v", err)
		}
		if code != uint32(r) {
			t.Fatalf("roundtrip mismatch: got %d want %d", code, r)
		}
	}
}

func TestUTF8MBCLenMatchesDecode(t *testing.T) {
	s := []byte("a中b")
	pos := 0
	var decoded []rune
	for pos < len(s) {
		n := UTF8.MBCLen(s[pos])
		code, err := UTF8.ToCode(s[pos:])
		if err != nil {
			t.Fatalf("ToCode at %d: %v", pos, err)
		}
		decoded = append(decoded, rune(code))
		pos += n
	}
	want := []rune{'a', '中', 'b'}
	if len(decoded) != len(want) {
		t.Fatalf("got %v want %v", decoded, want)
	}
	for i := range want {
		if decoded[i] != want[i] {
			t.Fatalf("index %d: got %q want %q", i, decoded[i], want[i])
		}
	}
}

func TestASCIIRejectsHighBit(t *testing.T) {
	_, err := ASCII.ToCode([]byte{0x80})
	if err == nil {
		t.Fatalf("expected error for byte >= 0x80 under ASCII encoding")
	}
}

func TestLeftAdjustCharHeadUTF8(t *testing.T) {
	s := []byte("a中b") // '中' = E4 B8 AD
	// offset 2 is the continuation byte B8; should snap back to 1 (the lead E4)
	got := UTF8.LeftAdjustCharHead(s, 0, 2)
	if got != 1 {
		t.Fatalf("expected snap to 1, got %d", got)
	}
}

func TestCJKBoundaryDetection(t *testing.T) {
	// Shift-JIS: 0x82 0xA0 is one 2-byte char, followed by ASCII 'x'.
	s := []byte{0x82, 0xa0, 'x'}
	n := ShiftJIS.MBCLen(s[0])
	if n != 2 {
		t.Fatalf("expected 2-byte lead, got %d", n)
	}
	if ShiftJIS.LeftAdjustCharHead(s, 0, 1) != 0 {
		t.Fatalf("expected adjust into the 2-byte char to snap to 0")
	}
}

func TestISO8859_1RealUnicodeMapping(t *testing.T) {
	// 0xE9 in Latin-1 is U+00E9 (é).
	code, err := ISO8859_1.ToCode([]byte{0xe9})
	if err != nil {
		t.Fatalf("ToCode: %v", err)
	}
	if code != 0x00e9 {
		t.Fatalf("expected U+00E9, got U+%04X", code)
	}
}
