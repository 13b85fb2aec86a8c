// Package compiler lowers an ast.Node tree into a flat, linear bytecode
// Program: a []Inst instruction stream with inline operands, forward jumps
// and CALL targets resolved by a two-pass emit-then-patch strategy,
// directly grounded on nfa.compile/nfa.builder's two-pass NFA-state
// patching (package nfa), generalized here from patching NFA state indices
// to patching byte/instruction offsets.
package compiler

import "github.com/coregx/goonig/ast"

// Op identifies one bytecode instruction. Related instruction variants
// (e.g. CClass vs CClassMB vs CClassMix, MemStart vs MemStartRec)
// collapse into one Op plus a mode field on Inst, since Go's struct-of-
// operands instruction already carries that distinction without needing a
// distinct tag per combination.
type Op uint8

const (
	// --- literal match ---
	OpStr    Op = iota // match Inst.Str verbatim (optionally case-folded, Inst.IC)
	OpCClass           // ASCII bitmap / multibyte ranges / both, per Inst.CC

	// --- any-char ---
	OpAnyChar   // '.' outside multiline
	OpAnyCharML // '.' under multiline (matches newline too)

	// --- ctype tests (\d \w \s and their negations, POSIX classes, \p{}) ---
	OpCType

	// --- word tests ---
	OpWordBoundary
	OpNoWordBoundary
	OpWordBegin
	OpWordEnd
	OpTextSegmentBoundary

	// --- position anchors ---
	OpBeginBuf
	OpEndBuf
	OpBeginLine
	OpEndLine
	OpSemiEndBuf
	OpCheckPosition // \G: current sp must equal the search's start offset

	// --- capture ---
	OpMemStart
	OpMemEnd

	// --- backref ---
	OpBackRef

	// --- control flow ---
	OpJump
	OpPush           // push a choice point at Inst.Target, fall through to next inst
	OpPushIfPeekNext // like OpPush, but only pushed if the next input byte != Inst.PeekByte
	OpPop            // discard the most recent choice point unconditionally

	// --- repetition ---
	OpRepeat      // decide: exit, force continue, or offer greedy/lazy choice (Inst.RepeatID, Min, Max, Greedy, Possessive)
	OpRepeatEnter // commit: push the undo frame and bump the counter, always falls through to the body
	OpRepeatInc   // per-iteration: empty-check + loop back to the matching OpRepeat

	// --- lookaround ---
	OpLookAhead    // Inst.Target = body start, Inst.Neg; recursive sub-match
	OpLookAheadEnd // marks success of a lookahead body
	OpLookBehind   // Inst.Target = body start, Inst.LookCharMin/LookCharMax char bounds, Inst.Neg
	OpLookBehindEnd

	// --- atomic groups / possessive cut ---
	OpMark
	OpCutToMark

	// --- subexp-call ---
	OpCall // Inst.Target = callee's MemStart offset, Inst.Site = matching OpReturn's site id
	OpReturn

	// --- gimmick ---
	OpFail
	OpSaveVal
	OpUpdateVar
	OpCalloutContents
	OpCalloutName

	// --- terminator ---
	OpEnd // whole-program match success
)

// CC is the compiled form of a CharClass node: an ASCII bitmap plus sorted
// multibyte ranges, mirroring ast.Node's KCharClass payload.
type CC struct {
	Bitmap [32]byte
	Ranges []ast.Range
	Negate bool
}

// Test reports whether code belongs to this class.
func (c *CC) Test(code uint32) bool {
	in := false
	if code < 256 {
		in = c.Bitmap[code>>3]&(1<<(code&7)) != 0
	} else {
		lo, hi := 0, len(c.Ranges)
		for lo < hi {
			mid := (lo + hi) / 2
			r := c.Ranges[mid]
			switch {
			case code < r.Lo:
				hi = mid
			case code > r.Hi:
				lo = mid + 1
			default:
				in = true
				lo = hi
			}
		}
	}
	if c.Negate {
		return !in
	}
	return in
}

// Inst is one bytecode instruction: one Op plus the operand fields that Op
// uses. Unused fields are the zero value and not inspected, the same
// tagged-union approach ast.Node uses for AST payloads.
type Inst struct {
	Op Op

	// --- OpStr ---
	Str []byte
	IC  bool

	// --- OpCClass ---
	CC *CC

	// --- OpCType ---
	CType       ast.CTypeID
	CTypeNegate bool
	ASCIIOnly   bool

	// --- OpMemStart / OpMemEnd ---
	GroupNum int
	Rec      bool // inside a subexp-call: save/restore via the call's level

	// --- OpBackRef ---
	GroupNums []int
	HasLevel  bool
	Level     int

	// --- control flow / repetition targets ---
	Target   int
	PeekByte byte

	// --- OpRepeat / OpRepeatInc ---
	RepeatID   int
	Min, Max   int
	Greedy     bool
	Possessive bool
	MayBeEmpty bool
	RepeatIP   int // OpRepeatInc: ip of the matching OpRepeat

	// --- OpLookAhead / OpLookBehind ---
	Neg             bool
	LookCharMin     int
	LookCharMax     int

	// --- OpMark / OpCutToMark ---
	MarkID int

	// --- OpCall / OpReturn ---
	CallName string
	Site     int // every group's exit OpReturn gets a distinct site id; OpCall's Site must match

	// --- OpSaveVal / OpUpdateVar / OpCallout* ---
	GimmickKind ast.GimmickKind
	GimmickID   int
	GimmickName string
}
