package vm

// frameKind tags which fields of a frame are meaningful, mirroring
// ast.Node's and compiler.Inst's tagged-union approach.
type frameKind uint8

const (
	// frAlt is a choice point: on backtrack, resume at IP/SP. It carries no
	// repeat-counter restore; counters are restored by frRepeatState frames.
	frAlt frameKind = iota
	// frMemStart/frMemEnd restore a capture slot's previous bound on
	// backtrack, never stopping the unwind.
	frMemStart
	frMemEnd
	// frRepeatState restores a repeat counter's previous value on
	// backtrack, never stopping the unwind (OpRepeatEnter pushes one each
	// time it counts an iteration).
	frRepeatState
	// frMark is an atomic-group/possessive boundary; CutToMark discards
	// (without undoing) every frame above it down to and including this one.
	frMark
	// frCall is a subexp-call return address.
	frCall
	// frSaveVal restores a gimmick variable's previous value on backtrack.
	frSaveVal
)

// frame is one match-stack entry.
type frame struct {
	kind frameKind

	// frAlt
	ip, sp int

	// frMemStart / frMemEnd
	groupNum         int
	prevBeg, prevEnd int

	// frRepeatState (backtrack does not read hasRepeatUndo)
	repeatID      int
	prevCount     int
	prevFrameIdx  int
	hasRepeatUndo bool

	// frMark
	markID int

	// frCall
	returnIP int

	// frSaveVal
	varID    int
	prevVal  int
}
