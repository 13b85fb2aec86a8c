// Package ast defines the typed tree of pattern constructs produced by the
// parser and consumed by the analyzer and compiler.
//
// A pattern is parsed into a single Node tree. Unlike a class hierarchy, Node
// is a flat tagged union: every variant's payload lives in the same struct,
// with only the fields relevant to Kind populated. This mirrors how the
// engine represents other tightly-coupled tree/graph structures elsewhere in
// the module (see compiler.Program's flat instruction encoding) rather than
// introducing an interface-per-variant hierarchy that would need type
// switches at every consumer anyway.
package ast

// Kind tags which payload fields of a Node are valid.
type Kind uint8

const (
	// KString is a literal byte run.
	KString Kind = iota
	// KCharClass is an ASCII bitmap plus optional multibyte ranges.
	KCharClass
	// KCType is a built-in character type test (., \d, \w, \s, ...).
	KCType
	// KBackRef is \1, \k<name>, possibly level-aware.
	KBackRef
	// KQuantifier is {m,n}, *, +, ?, ?+ wrapping a body.
	KQuantifier
	// KBag is a group/option-scope/atomic-group/if-else wrapping a body.
	KBag
	// KAnchor is ^, $, \A, \z, \G, \b, or a lookaround wrapping a body.
	KAnchor
	// KList is sequence concatenation (right-recursive cons).
	KList
	// KAlt is alternation (right-recursive cons).
	KAlt
	// KCall is a subexp-call \g<...>.
	KCall
	// KGimmick is Fail/Save/UpdateVar/Callout.
	KGimmick
)

func (k Kind) String() string {
	switch k {
	case KString:
		return "String"
	case KCharClass:
		return "CharClass"
	case KCType:
		return "CType"
	case KBackRef:
		return "BackRef"
	case KQuantifier:
		return "Quantifier"
	case KBag:
		return "Bag"
	case KAnchor:
		return "Anchor"
	case KList:
		return "List"
	case KAlt:
		return "Alt"
	case KCall:
		return "Call"
	case KGimmick:
		return "Gimmick"
	default:
		return "Unknown"
	}
}

// Status is a bitfield of per-node flags updated during analysis.
type Status uint16

const (
	// StatusFixedMin is set once CharMin/ByteMin are known exactly.
	StatusFixedMin Status = 1 << iota
	// StatusFixedMax is set once CharMax/ByteMax are known exactly (not unbounded).
	StatusFixedMax
	// StatusFixedCLen is set when CharMin == CharMax (fixed character length).
	StatusFixedCLen
	// StatusReferencedByCall marks a Bag{Memory} target of at least one Call.
	StatusReferencedByCall
	// StatusInRealRepeat marks a node that lies inside a quantifier body that
	// can iterate more than once.
	StatusInRealRepeat
	// StatusNamed marks a Bag{Memory} group that was given a name.
	StatusNamed
	// StatusIgnoreCase is the effective case-fold option at this node.
	StatusIgnoreCase
	// StatusMultiline is the effective multiline (dot-matches-newline) option
	// at this node.
	StatusMultiline
	// StatusRecursive marks a Bag{Memory} group that participates in a call
	// cycle (directly or indirectly calls itself).
	StatusRecursive
)

// Unbounded is the sentinel used for an unknown/unbounded length or
// quantifier upper bound.
const Unbounded = -1

// Range is an inclusive code-point range used by multibyte character
// classes and ctype enumeration.
type Range struct {
	Lo, Hi uint32
}

// BagType discriminates the KBag payload.
type BagType uint8

const (
	// BagMemory is a numbered or unnamed capturing group (...).
	BagMemory BagType = iota
	// BagOption is a non-capturing option-scope group (?:...), (?ims:...).
	BagOption
	// BagStopBacktrack is an atomic group (?>...).
	BagStopBacktrack
	// BagIfElse is a conditional (?(cond)then|else).
	BagIfElse
)

// AnchorKind discriminates the KAnchor payload.
type AnchorKind uint8

const (
	AnchorBeginBuf AnchorKind = iota
	AnchorEndBuf
	AnchorSemiEndBuf // \Z: end of buf, or before a single trailing \n
	AnchorBeginLine
	AnchorEndLine
	AnchorBeginPosition // \G
	AnchorWordBoundary
	AnchorNotWordBoundary
	AnchorWordBegin
	AnchorWordEnd
	AnchorLookAhead
	AnchorNegLookAhead
	AnchorLookBehind
	AnchorNegLookBehind
	AnchorTextSegmentBoundary
)

// GimmickKind discriminates the KGimmick payload.
type GimmickKind uint8

const (
	GimmickFail GimmickKind = iota
	GimmickSave
	GimmickUpdateVar
	GimmickCalloutContents
	GimmickCalloutName
)

// EmptinessClass classifies whether a quantifier body can match the empty
// string, and if so, whether captures inside it must still be re-run on an
// empty final iteration.
type EmptinessClass uint8

const (
	// NotEmpty: the body always consumes at least one byte.
	NotEmpty EmptinessClass = iota
	// MayBeEmpty: the body may match empty and contains no captures.
	MayBeEmpty
	// MayBeEmptyMem: the body may match empty and contains captures whose
	// bounds must be re-applied even on an empty iteration.
	MayBeEmptyMem
	// MayBeEmptyRec: the body may match empty and contains a subexp-call,
	// so emptiness can only be determined at match time.
	MayBeEmptyRec
)

// Node is the single tagged-union representation of every pattern construct.
// Only the fields relevant to Kind are meaningful; the zero value of all
// others is not inspected.
type Node struct {
	Kind   Kind
	Status Status

	// Parent is a non-owning back-pointer installed by the post-parse
	// "link parents" pass (see the parser package). It is nil for the root
	// and is never consulted during tree teardown: Go's GC reclaims the
	// cycle exactly like any other unreferenced graph, this pointer is
	// purely a navigation aid for analysis.
	Parent *Node

	// Length bounds in characters and bytes, filled in by the analyzer.
	// Unbounded (-1) means "no finite bound known".
	CharMin, CharMax int
	ByteMin, ByteMax int

	// --- KString ---
	Bytes []byte
	Crude bool // raw bytes, not case-normalized

	// --- KCharClass ---
	Bitmap  [32]byte // 256-bit ASCII membership bitmap
	Ranges  []Range  // sorted, non-overlapping multibyte ranges
	Negate  bool

	// --- KCType ---
	CType       CTypeID
	CTypeNegate bool
	ASCIIOnly   bool

	// --- KBackRef ---
	GroupNums []int // resolved capture group numbers (multiplex if >1)
	RefName   string
	NestLevel int
	HasLevel  bool
	RefIC     bool

	// --- KQuantifier ---
	Body       *Node
	Min, Max   int // Max == Unbounded for no upper limit
	Greedy     bool
	Possessive bool
	Emptiness  EmptinessClass

	// --- KBag ---
	BagType      BagType
	RegNum       int // for BagMemory; 0 if non-capturing
	Name         string
	OptionsOn    OptionFlags
	OptionsOff   OptionFlags
	Then, Else   *Node // for BagIfElse
	CondGroup    int   // BagIfElse condition group number, or -1
	CondBackRef  bool  // condition is a backref-defined test, not a group test

	// --- KAnchor ---
	AnchorKind             AnchorKind
	LookBody               *Node // body for lookaround kinds
	LookCharMin, LookCharMax int // static bound check for lookbehind

	// --- KList / KAlt ---
	Car, Cdr *Node // KList: Cdr is nil or another KList; KAlt: Cdr is another KAlt, or the final branch itself (nil when that branch is empty)

	// --- KCall ---
	CallName string
	CallNum  int
	Target   *Node // non-owning, resolved post-link

	// --- KGimmick ---
	GimmickKind GimmickKind
	GimmickID   int
	GimmickName string
}

// IsFixedLength reports whether CharMin == CharMax (a known, non-variable
// character length).
func (n *Node) IsFixedLength() bool {
	return n.Status&StatusFixedCLen != 0
}

// Walk visits n and every node reachable through its owning links
// (Body/Car/Cdr/Then/Else/LookBody), pre-order, depth-first. It does not
// follow Target or Parent, which are non-owning.
func Walk(n *Node, visit func(*Node)) {
	if n == nil {
		return
	}
	visit(n)
	Walk(n.Body, visit)
	Walk(n.Car, visit)
	Walk(n.Cdr, visit)
	Walk(n.Then, visit)
	Walk(n.Else, visit)
	Walk(n.LookBody, visit)
}

// LinkParents installs Parent back-pointers across the owning spine of the
// tree rooted at n, per the "parent/child cycles" design in the engine's
// notes: owning links point down, a single non-owning link points up,
// installed in one post-parse pass.
func LinkParents(n *Node) {
	linkChild(n, n.Body)
	linkChild(n, n.Car)
	linkChild(n, n.Cdr)
	linkChild(n, n.Then)
	linkChild(n, n.Else)
	linkChild(n, n.LookBody)
}

func linkChild(parent, child *Node) {
	if child == nil {
		return
	}
	child.Parent = parent
	LinkParents(child)
}
