package parser

import "github.com/coregx/goonig/ast"

// tokenTag selects which PToken fields are valid, mirroring ast.Kind's
// flat-union approach at the lexical level.
type tokenTag uint8

const (
	tokEOF tokenTag = iota
	tokChar
	tokAnyChar
	tokCharType   // \d \w \s \D \W \S \p{...} \P{...}
	tokBackRef    // \1, \k<name>
	tokCall       // \g<name>, \g<n>
	tokAnchor     // ^ $ \A \z \Z \G \b \B
	tokRepeat     // * + ?
	tokInterval   // {m,n}
	tokAlt        // |
	tokSubexpOpen // ( possibly with (?...
	tokSubexpClose
	tokOpenCC // [
	tokQuoteOpen
	tokQuoteClose
	tokPosixBracket // [:alpha:] etc, only valid lexed inside a char class
	tokCCRangeDash  // '-' inside a char class, in range-forming position
	tokCCAnd        // && inside a char class
)

// ptoken is one lexical unit. Only the fields tokenTag selects are valid.
type ptoken struct {
	tag tokenTag
	pos int // byte offset this token started at, for error reporting

	// tokChar / tokAnchor (char form) / tokRepeat
	ch byte

	// tokChar decoded as a full character (possibly multibyte)
	code uint32
	n    int // byte length consumed for this token

	// tokCharType
	ctype   ast.CTypeID
	negate  bool
	ascii   bool

	// tokBackRef / tokCall
	name    string
	num     int
	level   int
	hasLvl  bool
	ic      bool

	// tokAnchor
	anchor ast.AnchorKind

	// tokInterval
	min, max int

	// tokSubexpOpen
	groupKind  groupKind
	groupName  string
	groupQuote byte // quote char used for (?'name'...), 0 otherwise
	optsOn     ast.OptionFlags
	optsOff    ast.OptionFlags

	// tokPosixBracket
	posixName string

	lazy       bool
	possessive bool
}

type groupKind uint8

const (
	groupPlain groupKind = iota
	groupNonCapture
	groupNamed
	groupAtomic
	groupLookAhead
	groupNegLookAhead
	groupLookBehind
	groupNegLookBehind
	groupOptionScope
	groupIfElse
	groupComment
)
