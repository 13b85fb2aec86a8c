package ast

// CTypeID identifies a built-in character type test (\d, \w, \s, ., \p{...}).
// The actual membership test for a CTypeID is supplied by an
// encoding.Encoding (encoding.IsCodeCType) — this package only names the
// types the parser and compiler agree on.
type CTypeID uint8

const (
	CTypeAny      CTypeID = iota // .  (ANYCHAR)
	CTypeWord                    // \w
	CTypeNotWord                 // \W
	CTypeDigit                   // \d
	CTypeNotDigit                // \D
	CTypeSpace                   // \s
	CTypeNotSpace                // \S
	CTypeAlpha                   // [:alpha:]
	CTypeAlnum                   // [:alnum:]
	CTypePunct                   // [:punct:]
	CTypeUpper                   // [:upper:]
	CTypeLower                   // [:lower:]
	CTypeCntrl                   // [:cntrl:]
	CTypeGraph                   // [:graph:]
	CTypePrint                   // [:print:]
	CTypeBlank                   // [:blank:]
	CTypeXDigit                  // [:xdigit:]
	CTypeASCII                   // [:ascii:]
	CTypeProperty                // \p{Name}, resolved by name at parse time
)

// String returns a human-readable name, used by error messages and tests.
func (c CTypeID) String() string {
	names := [...]string{
		"any", "word", "not-word", "digit", "not-digit", "space", "not-space",
		"alpha", "alnum", "punct", "upper", "lower", "cntrl", "graph", "print",
		"blank", "xdigit", "ascii", "property",
	}
	if int(c) < len(names) {
		return names[c]
	}
	return "ctype?"
}
