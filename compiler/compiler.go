package compiler

import (
	"github.com/coregx/goonig/analyzer"
	"github.com/coregx/goonig/ast"
	"github.com/coregx/goonig/encoding"
	"github.com/coregx/goonig/onigerr"
	"github.com/coregx/goonig/profile"
)

// Input bundles everything the parser/analyzer produced that the compiler
// needs, keeping Compile's signature from growing unboundedly as the
// pipeline gained stages.
type Input struct {
	Root      *ast.Node
	NumMem    int
	Names     map[string][]int
	NameOrder []string
	Options   ast.OptionFlags
	Info      *analyzer.Info
	Enc       encoding.Encoding
	Prof      profile.Profile
}

type pendingCall struct {
	idx    int
	target *ast.Node
}

type compiler struct {
	insts        []Inst
	groupStart   map[*ast.Node]int
	groupReturn  map[*ast.Node]int
	pending      []pendingCall
	nextRepeat   int
	nextMark     int
	nextSite     int
}

// Compile lowers in.Root to a Program.
func Compile(in Input) (*Program, error) {
	c := &compiler{groupStart: map[*ast.Node]int{}, groupReturn: map[*ast.Node]int{}}

	c.groupStart[in.Root] = 0
	c.emitNode(in.Root)
	rootSite := c.nextSite
	c.nextSite++
	c.groupReturn[in.Root] = rootSite
	c.emit(Inst{Op: OpReturn, Site: rootSite})
	c.emit(Inst{Op: OpEnd})

	for _, pc := range c.pending {
		target := 0
		site := 0
		if pc.target != nil {
			if off, ok := c.groupStart[pc.target]; ok {
				target = off
			}
			if s, ok := c.groupReturn[pc.target]; ok {
				site = s
			}
		}
		c.insts[pc.idx].Target = target
		c.insts[pc.idx].Site = site
	}

	p := &Program{
		Insts:      c.insts,
		NumMem:     in.NumMem,
		Options:    in.Options,
		NumRepeats: c.nextRepeat,
		Names:      in.Names,
		NameOrder:  in.NameOrder,
		Enc:        in.Enc,
		Prof:       in.Prof,
	}
	if in.Info != nil {
		p.Anchors = in.Info.Anchors
		p.AncDistMin = in.Info.AncDistMin
		p.AncDistMax = in.Info.AncDistMax
		p.Optimize = in.Info.Optimize
		p.Exact = in.Info.Exact
		p.Filter = in.Info.Filter
		p.ThresholdLen = in.Info.ThresholdLen
		p.CharMin = in.Info.CharMin
		p.CharMax = in.Info.CharMax
		p.ByteMin = in.Info.ByteMin
		p.ByteMax = in.Info.ByteMax
	}
	return p, nil
}

func (c *compiler) emit(i Inst) int {
	c.insts = append(c.insts, i)
	return len(c.insts) - 1
}

func (c *compiler) here() int { return len(c.insts) }

func (c *compiler) emitNode(n *ast.Node) {
	if n == nil {
		return
	}
	switch n.Kind {
	case ast.KString:
		if len(n.Bytes) > 0 {
			c.emit(Inst{Op: OpStr, Str: n.Bytes, IC: n.Status&ast.StatusIgnoreCase != 0 && !n.Crude})
		}
	case ast.KCharClass:
		c.emit(Inst{Op: OpCClass, CC: &CC{Bitmap: n.Bitmap, Ranges: n.Ranges, Negate: n.Negate}})
	case ast.KCType:
		if n.CType == ast.CTypeAny {
			if n.Status&ast.StatusMultiline != 0 {
				c.emit(Inst{Op: OpAnyCharML})
			} else {
				c.emit(Inst{Op: OpAnyChar})
			}
			return
		}
		c.emit(Inst{Op: OpCType, CType: n.CType, CTypeNegate: n.CTypeNegate, ASCIIOnly: n.ASCIIOnly})
	case ast.KBackRef:
		c.emit(Inst{
			Op: OpBackRef, GroupNums: n.GroupNums, IC: n.RefIC,
			HasLevel: n.HasLevel, Level: n.NestLevel,
		})
	case ast.KAnchor:
		c.emitAnchor(n)
	case ast.KQuantifier:
		c.emitQuantifier(n)
	case ast.KBag:
		c.emitBag(n)
	case ast.KList:
		c.emitNode(n.Car)
		if n.Cdr != nil {
			c.emitNode(n.Cdr)
		}
	case ast.KAlt:
		c.emitAlt(n)
	case ast.KCall:
		idx := c.emit(Inst{Op: OpCall, CallName: n.CallName})
		c.pending = append(c.pending, pendingCall{idx: idx, target: n.Target})
	case ast.KGimmick:
		c.emitGimmick(n)
	}
}

func (c *compiler) emitAnchor(n *ast.Node) {
	switch n.AnchorKind {
	case ast.AnchorBeginBuf:
		c.emit(Inst{Op: OpBeginBuf})
	case ast.AnchorEndBuf:
		c.emit(Inst{Op: OpEndBuf})
	case ast.AnchorSemiEndBuf:
		c.emit(Inst{Op: OpSemiEndBuf})
	case ast.AnchorBeginLine:
		c.emit(Inst{Op: OpBeginLine})
	case ast.AnchorEndLine:
		c.emit(Inst{Op: OpEndLine})
	case ast.AnchorBeginPosition:
		c.emit(Inst{Op: OpCheckPosition})
	case ast.AnchorWordBoundary:
		c.emit(Inst{Op: OpWordBoundary})
	case ast.AnchorNotWordBoundary:
		c.emit(Inst{Op: OpNoWordBoundary})
	case ast.AnchorWordBegin:
		c.emit(Inst{Op: OpWordBegin})
	case ast.AnchorWordEnd:
		c.emit(Inst{Op: OpWordEnd})
	case ast.AnchorTextSegmentBoundary:
		c.emit(Inst{Op: OpTextSegmentBoundary})
	case ast.AnchorLookAhead, ast.AnchorNegLookAhead:
		neg := n.AnchorKind == ast.AnchorNegLookAhead
		idx := c.emit(Inst{Op: OpLookAhead, Neg: neg})
		bodyStart := c.here()
		c.emitNode(n.LookBody)
		c.emit(Inst{Op: OpLookAheadEnd, Neg: neg})
		c.insts[idx].Target = bodyStart
	case ast.AnchorLookBehind, ast.AnchorNegLookBehind:
		neg := n.AnchorKind == ast.AnchorNegLookBehind
		idx := c.emit(Inst{Op: OpLookBehind, Neg: neg, LookCharMin: n.LookCharMin, LookCharMax: n.LookCharMax})
		bodyStart := c.here()
		c.emitNode(n.LookBody)
		c.emit(Inst{Op: OpLookBehindEnd, Neg: neg})
		c.insts[idx].Target = bodyStart
	}
}

// emitAlt compiles a|b|c as:
//
//	PUSH L2; <a>; JUMP END; L2: PUSH L3; <b>; JUMP END; L3: <c>; END:
//
// so the left branch is always tried first.
func (c *compiler) emitAlt(n *ast.Node) {
	branches := flattenAltChain(n)
	var jumps []int
	for i, br := range branches {
		last := i == len(branches)-1
		var pushIdx int
		if !last {
			pushIdx = c.emit(Inst{Op: OpPush})
		}
		c.emitNode(br)
		if !last {
			jumps = append(jumps, c.emit(Inst{Op: OpJump}))
			c.insts[pushIdx].Target = c.here()
		}
	}
	end := c.here()
	for _, j := range jumps {
		c.insts[j].Target = end
	}
}

func flattenAltChain(n *ast.Node) []*ast.Node {
	var out []*ast.Node
	for n != nil && n.Kind == ast.KAlt {
		out = append(out, n.Car)
		if n.Cdr == nil || n.Cdr.Kind != ast.KAlt {
			// the chain's last Cdr is the final branch itself (nil when empty)
			out = append(out, n.Cdr)
			break
		}
		n = n.Cdr
	}
	return out
}

func (c *compiler) emitBag(n *ast.Node) {
	switch n.BagType {
	case ast.BagMemory:
		c.groupStart[n] = c.here()
		if n.RegNum > 0 {
			c.emit(Inst{Op: OpMemStart, GroupNum: n.RegNum, Rec: n.Status&ast.StatusRecursive != 0})
		}
		c.emitNode(n.Body)
		if n.RegNum > 0 {
			c.emit(Inst{Op: OpMemEnd, GroupNum: n.RegNum, Rec: n.Status&ast.StatusRecursive != 0})
		}
		if n.Status&ast.StatusReferencedByCall != 0 {
			site := c.nextSite
			c.nextSite++
			c.groupReturn[n] = site
			c.emit(Inst{Op: OpReturn, Site: site})
		}
	case ast.BagOption:
		c.emitNode(n.Body)
	case ast.BagStopBacktrack:
		id := c.nextMark
		c.nextMark++
		c.emit(Inst{Op: OpMark, MarkID: id})
		c.emitNode(n.Body)
		c.emit(Inst{Op: OpCutToMark, MarkID: id})
	case ast.BagIfElse:
		c.emitIfElse(n)
	}
}

func (c *compiler) emitIfElse(n *ast.Node) {
	// (?(cond)then|else): treated as a conditional PUSH guarded by a
	// zero-width backref-style check compiled inline, honoring the
	// if-else's own emitNode for the body (the AST's condition test is
	// represented in n.Body for engines that desugar it into a lookaround;
	// the compiler here emits a BACKREF-check style test directly).
	if n.CondBackRef {
		c.emit(Inst{Op: OpBackRef, GroupNums: []int{n.CondGroup}})
	}
	pushIdx := c.emit(Inst{Op: OpPush})
	c.emitNode(n.Then)
	jmp := c.emit(Inst{Op: OpJump})
	c.insts[pushIdx].Target = c.here()
	if n.Else != nil {
		c.emitNode(n.Else)
	}
	c.insts[jmp].Target = c.here()
}

func (c *compiler) emitGimmick(n *ast.Node) {
	switch n.GimmickKind {
	case ast.GimmickFail:
		c.emit(Inst{Op: OpFail})
	case ast.GimmickSave:
		c.emit(Inst{Op: OpSaveVal, GimmickID: n.GimmickID})
	case ast.GimmickUpdateVar:
		c.emit(Inst{Op: OpUpdateVar, GimmickID: n.GimmickID})
	case ast.GimmickCalloutContents:
		c.emit(Inst{Op: OpCalloutContents, GimmickName: n.GimmickName, GimmickID: n.GimmickID})
	case ast.GimmickCalloutName:
		c.emit(Inst{Op: OpCalloutName, GimmickName: n.GimmickName, GimmickID: n.GimmickID})
	}
}

// emitQuantifier lowers a Quantifier node via the counter-based
// REPEAT/REPEAT_ENTER/REPEAT_INC triple: OpRepeat
// is the decision point (exit, forced continue, or greedy/lazy choice);
// OpRepeatEnter is the commit point reached exactly once per iteration,
// immediately after OpRepeat, that pushes the counter's undo frame and
// bumps it before falling into the body. Splitting decide from commit into
// separate addresses means backtracking into the decision point never
// re-observes a counter state it already committed, which a single shared
// OpRepeat/OpRepeatInc pair cannot guarantee for lazy quantifiers (the
// choice point and the commit would alias the same instruction). OpRepeatInc
// performs the empty-check discipline of and loops back to
// OpRepeat, avoiding unrolling even for large/unbounded bounds.
func (c *compiler) emitQuantifier(n *ast.Node) {
	id := c.nextRepeat
	c.nextRepeat++

	markID := -1
	if n.Possessive {
		markID = c.nextMark
		c.nextMark++
		c.emit(Inst{Op: OpMark, MarkID: markID})
	}

	repeatIdx := c.emit(Inst{
		Op: OpRepeat, RepeatID: id, Min: n.Min, Max: n.Max,
		Greedy: n.Greedy, Possessive: n.Possessive,
		MayBeEmpty: n.Emptiness != ast.NotEmpty,
	})
	c.emit(Inst{Op: OpRepeatEnter, RepeatID: id})
	c.emitNode(n.Body)
	c.emit(Inst{
		Op: OpRepeatInc, RepeatID: id, RepeatIP: repeatIdx,
		MayBeEmpty: n.Emptiness != ast.NotEmpty,
	})
	exit := c.here()
	c.insts[repeatIdx].Target = exit

	if n.Possessive {
		c.emit(Inst{Op: OpCutToMark, MarkID: markID})
	}
}

// newCompilerError is kept for parity with the onigerr-based error surface
// used by every other package; the compiler itself cannot currently fail
// (AST reaching it has already survived parsing/analysis), but Compile's
// signature returns error so a future structural check (e.g. a
// capture-count overflow) has somewhere to report without an API break.
func newCompilerError(code onigerr.Code) error {
	return onigerr.New(code)
}
