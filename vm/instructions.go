package vm

import (
	"bytes"

	"github.com/coregx/goonig/ast"
	"github.com/coregx/goonig/compiler"
	"github.com/coregx/goonig/onigerr"
)

// step executes one instruction. matched reports whether the instruction's
// test succeeded (for tests) or it always "succeeds" structurally (for
// control flow/capture ops); nextIP/nextSP are only meaningful when
// matched is true.
func (m *Matcher) step(ip, sp int, inst *compiler.Inst) (matched bool, nextIP, nextSP int, err *onigerr.Error) {
	switch inst.Op {
	case compiler.OpStr:
		return m.stepStr(ip, sp, inst)
	case compiler.OpCClass:
		code, w, ok := m.decodeAt(sp)
		if !ok || !inst.CC.Test(code) {
			return false, 0, 0, nil
		}
		return true, ip + 1, sp + w, nil
	case compiler.OpAnyChar, compiler.OpAnyCharML:
		code, w, ok := m.decodeAt(sp)
		if !ok {
			return false, 0, 0, nil
		}
		if inst.Op == compiler.OpAnyChar && m.prog.Enc.IsMBCNewline(m.input[sp:sp+w]) {
			return false, 0, 0, nil
		}
		_ = code
		return true, ip + 1, sp + w, nil
	case compiler.OpCType:
		code, w, ok := m.decodeAt(sp)
		if !ok {
			return false, 0, 0, nil
		}
		base, invert := baseCType(inst.CType)
		good := m.prog.Enc.IsCodeCType(code, base)
		if invert {
			good = !good
		}
		if inst.CTypeNegate {
			good = !good
		}
		if inst.ASCIIOnly && code >= 128 && !inst.CTypeNegate {
			good = false
		}
		if !good {
			return false, 0, 0, nil
		}
		return true, ip + 1, sp + w, nil

	case compiler.OpWordBoundary, compiler.OpNoWordBoundary:
		before := m.isWordBefore(sp)
		after := m.isWordAt(sp)
		boundary := before != after
		if inst.Op == compiler.OpNoWordBoundary {
			boundary = !boundary
		}
		if !boundary {
			return false, 0, 0, nil
		}
		return true, ip + 1, sp, nil
	case compiler.OpWordBegin:
		if m.isWordBefore(sp) || !m.isWordAt(sp) {
			return false, 0, 0, nil
		}
		return true, ip + 1, sp, nil
	case compiler.OpWordEnd:
		if !m.isWordBefore(sp) || m.isWordAt(sp) {
			return false, 0, 0, nil
		}
		return true, ip + 1, sp, nil
	case compiler.OpTextSegmentBoundary:
		before := m.isWordBefore(sp)
		after := m.isWordAt(sp)
		if before == after {
			return false, 0, 0, nil
		}
		return true, ip + 1, sp, nil

	case compiler.OpBeginBuf:
		if sp != 0 || m.notBeginString() {
			return false, 0, 0, nil
		}
		return true, ip + 1, sp, nil
	case compiler.OpEndBuf:
		if sp != len(m.input) || m.notEndString() {
			return false, 0, 0, nil
		}
		return true, ip + 1, sp, nil
	case compiler.OpBeginLine:
		if sp != 0 {
			_, w, ok := m.decodeBefore(sp)
			if !ok || !m.prog.Enc.IsMBCNewline(m.input[sp-w:sp]) {
				return false, 0, 0, nil
			}
		}
		return true, ip + 1, sp, nil
	case compiler.OpEndLine:
		if sp != len(m.input) {
			_, w, ok := m.decodeAt(sp)
			if !ok || !m.prog.Enc.IsMBCNewline(m.input[sp:sp+w]) {
				return false, 0, 0, nil
			}
		}
		return true, ip + 1, sp, nil
	case compiler.OpSemiEndBuf:
		if sp == len(m.input) {
			return true, ip + 1, sp, nil
		}
		_, w, ok := m.decodeAt(sp)
		if !ok || sp+w != len(m.input) || !m.prog.Enc.IsMBCNewline(m.input[sp:sp+w]) {
			return false, 0, 0, nil
		}
		return true, ip + 1, sp, nil
	case compiler.OpCheckPosition:
		if sp != m.searchStart || m.notBeginPosition() {
			return false, 0, 0, nil
		}
		return true, ip + 1, sp, nil

	case compiler.OpMemStart:
		m.stack = append(m.stack, frame{kind: frMemStart, groupNum: inst.GroupNum, prevBeg: m.reg.Beg[inst.GroupNum]})
		m.reg.Beg[inst.GroupNum] = sp
		return true, ip + 1, sp, nil
	case compiler.OpMemEnd:
		m.stack = append(m.stack, frame{kind: frMemEnd, groupNum: inst.GroupNum, prevEnd: m.reg.End[inst.GroupNum]})
		m.reg.End[inst.GroupNum] = sp
		return true, ip + 1, sp, nil

	case compiler.OpBackRef:
		beg, end, ok := m.backrefTarget(inst.GroupNums)
		if !ok {
			return false, 0, 0, nil
		}
		n, ok := m.matchBackref(sp, beg, end, inst.IC)
		if !ok {
			return false, 0, 0, nil
		}
		return true, ip + 1, sp + n, nil

	case compiler.OpJump:
		return true, inst.Target, sp, nil
	case compiler.OpPush:
		m.stack = append(m.stack, frame{kind: frAlt, ip: inst.Target, sp: sp})
		return true, ip + 1, sp, nil
	case compiler.OpPushIfPeekNext:
		if sp < len(m.input) && m.input[sp] != inst.PeekByte {
			m.stack = append(m.stack, frame{kind: frAlt, ip: inst.Target, sp: sp})
		}
		return true, ip + 1, sp, nil
	case compiler.OpPop:
		if len(m.stack) > 0 {
			m.stack = m.stack[:len(m.stack)-1]
		}
		return true, ip + 1, sp, nil

	case compiler.OpRepeat:
		return m.stepRepeat(ip, sp, inst)
	case compiler.OpRepeatEnter:
		id := inst.RepeatID
		count := m.counters[id]
		prevIdx := m.repeatFrameIdx[id]
		m.stack = append(m.stack, frame{kind: frRepeatState, repeatID: id, prevCount: count, prevFrameIdx: prevIdx, sp: sp})
		m.repeatFrameIdx[id] = len(m.stack) - 1
		m.counters[id] = count + 1
		return true, ip + 1, sp, nil
	case compiler.OpRepeatInc:
		idx := m.repeatFrameIdx[inst.RepeatID]
		bodyStartSP := m.stack[idx].sp
		if inst.MayBeEmpty && sp == bodyStartSP {
			return true, m.prog.Insts[inst.RepeatIP].Target, sp, nil
		}
		return true, inst.RepeatIP, sp, nil

	case compiler.OpLookAhead:
		return m.stepLookAhead(ip, sp, inst)
	case compiler.OpLookBehind:
		return m.stepLookBehind(ip, sp, inst)

	case compiler.OpMark:
		m.stack = append(m.stack, frame{kind: frMark, markID: inst.MarkID})
		return true, ip + 1, sp, nil
	case compiler.OpCutToMark:
		m.cutToMark(inst.MarkID)
		return true, ip + 1, sp, nil

	case compiler.OpCall:
		m.callCount++
		if m.limits.SubexpCallLimitInSearch > 0 && m.callCount > m.limits.SubexpCallLimitInSearch {
			return false, 0, 0, onigerr.New(onigerr.ErrSubexpCallLimit)
		}
		m.callDepth++
		if m.limits.SubexpCallMaxNestLevel > 0 && m.callDepth > m.limits.SubexpCallMaxNestLevel {
			return false, 0, 0, onigerr.New(onigerr.ErrSubexpCallMaxNest)
		}
		m.stack = append(m.stack, frame{kind: frCall, returnIP: ip + 1, markID: inst.Site})
		m.callTopIdx = append(m.callTopIdx, len(m.stack)-1)
		return true, inst.Target, sp, nil
	case compiler.OpReturn:
		if len(m.callTopIdx) > 0 {
			idx := m.callTopIdx[len(m.callTopIdx)-1]
			if m.stack[idx].markID == inst.Site {
				returnIP := m.stack[idx].returnIP
				m.stack[idx].prevVal = 1
				m.callTopIdx = m.callTopIdx[:len(m.callTopIdx)-1]
				m.callDepth--
				return true, returnIP, sp, nil
			}
		}
		return true, ip + 1, sp, nil

	case compiler.OpFail:
		return false, 0, 0, nil
	case compiler.OpSaveVal, compiler.OpUpdateVar, compiler.OpCalloutContents, compiler.OpCalloutName:
		return true, ip + 1, sp, nil
	}
	return false, 0, 0, onigerr.New(onigerr.ErrUndefinedByte)
}

func (m *Matcher) stepStr(ip, sp int, inst *compiler.Inst) (bool, int, int, *onigerr.Error) {
	if !inst.IC {
		if sp+len(inst.Str) > len(m.input) {
			return false, 0, 0, nil
		}
		if !bytes.Equal(m.input[sp:sp+len(inst.Str)], inst.Str) {
			return false, 0, 0, nil
		}
		return true, ip + 1, sp + len(inst.Str), nil
	}
	n, ok := m.matchBackrefFold(sp, inst.Str)
	if !ok {
		return false, 0, 0, nil
	}
	return true, ip + 1, sp + n, nil
}

// stepRepeat decides whether to exit, force-continue, or offer a choice
// between continuing and exiting, per greedy/lazy/possessive
// tie-break rules. The actual counter increment happens uniformly at the
// OpRepeatEnter instruction immediately following (ip+1), regardless of
// which path got there, so re-entering this decision point never
// double-counts an iteration.
func (m *Matcher) stepRepeat(ip, sp int, inst *compiler.Inst) (bool, int, int, *onigerr.Error) {
	count := m.counters[inst.RepeatID]
	switch {
	case inst.Max != ast.Unbounded && count >= inst.Max:
		return true, inst.Target, sp, nil
	case count < inst.Min:
		return true, ip + 1, sp, nil
	case inst.Possessive:
		return true, ip + 1, sp, nil
	case inst.Greedy:
		m.stack = append(m.stack, frame{kind: frAlt, ip: inst.Target, sp: sp})
		return true, ip + 1, sp, nil
	default: // lazy
		m.stack = append(m.stack, frame{kind: frAlt, ip: ip + 1, sp: sp})
		return true, inst.Target, sp, nil
	}
}
