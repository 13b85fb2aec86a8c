package vm

import (
	"time"

	"github.com/coregx/goonig/ast"
	"github.com/coregx/goonig/compiler"
	"github.com/coregx/goonig/onigerr"
	"github.com/coregx/goonig/region"
)

// Matcher holds every piece of mutable state one match_at/search
// invocation needs: the explicit backtracking stack, repeat counters, call
// bookkeeping, and limit counters. A Program is never mutated; concurrent
// matches each get their own Matcher.
type Matcher struct {
	prog   *compiler.Program
	input  []byte
	limits Limits
	reg    *region.Region

	options ast.OptionFlags

	stack []frame

	counters       []int
	repeatFrameIdx []int

	callTopIdx []int
	callDepth  int
	callCount  int

	retries int

	searchStart int

	deadline time.Time
	hasDeadline bool

	bounds []int // lazily computed char boundary table, for lookbehind
}

// New allocates a Matcher for one Search/MatchAt call against input, reusing
// reg for capture output (reg is cleared before use).
func New(prog *compiler.Program, input []byte, limits Limits, reg *region.Region) *Matcher {
	m := &Matcher{
		prog:           prog,
		input:          input,
		limits:         limits,
		reg:            reg,
		counters:       make([]int, prog.NumRepeats),
		repeatFrameIdx: make([]int, prog.NumRepeats),
	}
	for i := range m.repeatFrameIdx {
		m.repeatFrameIdx[i] = -1
	}
	if limits.TimeLimit > 0 {
		m.deadline = time.Now().Add(limits.TimeLimit)
		m.hasDeadline = true
	}
	return m
}

func (m *Matcher) notBeginString() bool  { return m.options.Has(ast.OptionNotBeginString) }
func (m *Matcher) notEndString() bool    { return m.options.Has(ast.OptionNotEndString) }
func (m *Matcher) notBeginPosition() bool { return m.options.Has(ast.OptionNotBeginPosition) }

// checkLimits is called at bytecode back-edges:
// backtracks, loop-backs, and CALL.
func (m *Matcher) checkLimits() *onigerr.Error {
	if m.limits.MatchStackLimit > 0 && len(m.stack) > m.limits.MatchStackLimit {
		return onigerr.New(onigerr.ErrMatchStackLimitOver)
	}
	if m.hasDeadline && time.Now().After(m.deadline) {
		return onigerr.New(onigerr.ErrTimeLimit)
	}
	return nil
}

// backtrack pops frames, undoing each one's forward effect, until it finds
// a choice point (frAlt) at or above floor, or the stack drains below
// floor, in which case it reports mismatch. This is the "typical
// pop on mismatch restores capture bounds and reruns from the saved ip/sp".
func (m *Matcher) backtrack(floor int) (ip, sp int, ok bool) {
	for len(m.stack) > floor {
		fr := m.stack[len(m.stack)-1]
		m.stack = m.stack[:len(m.stack)-1]
		switch fr.kind {
		case frAlt:
			m.retries++
			return fr.ip, fr.sp, true
		case frMemStart:
			m.reg.Beg[fr.groupNum] = fr.prevBeg
		case frMemEnd:
			m.reg.End[fr.groupNum] = fr.prevEnd
		case frRepeatState:
			m.counters[fr.repeatID] = fr.prevCount
			m.repeatFrameIdx[fr.repeatID] = fr.prevFrameIdx
		case frMark:
			// nothing to undo; only CutToMark consumes marks.
		case frCall:
			if fr.prevVal == 0 { // prevVal doubles as "already returned" flag
				m.callDepth--
				if len(m.callTopIdx) > 0 {
					m.callTopIdx = m.callTopIdx[:len(m.callTopIdx)-1]
				}
			}
		case frSaveVal:
			// gimmick variables are advisory; nothing else observes them.
		}
	}
	return 0, 0, false
}

// cutToMark discards (without undoing) every frame above and including the
// frMark frame with id, committing whatever captures/counters were set
// inside the atomic/possessive scope.
func (m *Matcher) cutToMark(id int) {
	for len(m.stack) > 0 {
		fr := m.stack[len(m.stack)-1]
		m.stack = m.stack[:len(m.stack)-1]
		if fr.kind == frMark && fr.markID == id {
			return
		}
	}
}

// run is the single interpreter loop used for both the top-level match and
// every nested lookaround sub-match (floor bounds how far backtrack may pop
// before reporting mismatch, letting a lookaround's choice points stay
// local to its own attempt). It returns the final sp on success.
func (m *Matcher) run(ip, sp, floor int) (int, *onigerr.Error) {
	for {
		if m.limits.RetryLimitInMatch > 0 && m.retries > m.limits.RetryLimitInMatch {
			return 0, onigerr.New(onigerr.ErrRetryLimitInMatch)
		}
		if ip >= len(m.prog.Insts) {
			return 0, onigerr.New(onigerr.ErrUndefinedByte)
		}
		inst := &m.prog.Insts[ip]

		if inst.Op == compiler.OpEnd || inst.Op == compiler.OpLookAheadEnd || inst.Op == compiler.OpLookBehindEnd {
			return sp, nil
		}

		matched, nextIP, nextSP, err := m.step(ip, sp, inst)
		if err != nil {
			return 0, err
		}
		if matched {
			if inst.Op == compiler.OpJump || inst.Op == compiler.OpRepeatInc || inst.Op == compiler.OpCall {
				if le := m.checkLimits(); le != nil {
					return 0, le
				}
			}
			ip, sp = nextIP, nextSP
			continue
		}

		var ok bool
		if le := m.checkLimits(); le != nil {
			return 0, le
		}
		ip, sp, ok = m.backtrack(floor)
		if !ok {
			return 0, onigerr.New(onigerr.Mismatch)
		}
	}
}
