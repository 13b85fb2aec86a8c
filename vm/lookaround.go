package vm

import (
	"github.com/coregx/goonig/compiler"
	"github.com/coregx/goonig/onigerr"
)

// stepLookAhead runs the lookahead body as a bounded sub-match starting at
// sp: the recursive run call gets its own floor so
// its choice points never escape into the outer match's backtrack stack.
// On success/failure the capture side effects the sub-match made while
// running stay on m.stack (undone normally by the outer backtrack(), or for
// a negative lookaround, discarded immediately since none of its captures
// are observable).
func (m *Matcher) stepLookAhead(ip, sp int, inst *compiler.Inst) (bool, int, int, *onigerr.Error) {
	floor := len(m.stack)
	_, err := m.run(inst.Target, sp, floor)
	matched := err == nil
	if err != nil && err.Code != onigerr.Mismatch {
		return false, 0, 0, err
	}
	if inst.Neg {
		// discard whatever the attempt pushed; a negative lookaround never
		// exposes captures made inside it.
		m.stack = m.stack[:floor]
		if matched {
			return false, 0, 0, nil
		}
		return true, ip + 1, sp, nil
	}
	if !matched {
		m.stack = m.stack[:floor]
		return false, 0, 0, nil
	}
	return true, ip + 1, sp, nil
}

// stepLookBehind tries each candidate length in [LookCharMin, LookCharMax]
// characters, stepping backward from sp via the cached character-boundary
// table, and runs the body anchored to end exactly at sp.
func (m *Matcher) stepLookBehind(ip, sp int, inst *compiler.Inst) (bool, int, int, *onigerr.Error) {
	idx := m.boundaryIndex(sp)
	bs := m.charBoundaries()

	lo, hi := inst.LookCharMin, inst.LookCharMax
	if hi < 0 || hi > idx {
		hi = idx
	}
	if lo < 0 {
		lo = 0
	}

	for n := lo; n <= hi; n++ {
		start := idx - n
		if start < 0 {
			break
		}
		floor := len(m.stack)
		end, err := m.run(inst.Target, bs[start], floor)
		if err != nil && err.Code != onigerr.Mismatch {
			return false, 0, 0, err
		}
		matched := err == nil && end == sp
		if !matched {
			m.stack = m.stack[:floor]
			continue
		}
		if inst.Neg {
			m.stack = m.stack[:floor]
			return false, 0, 0, nil
		}
		return true, ip + 1, sp, nil
	}
	if inst.Neg {
		return true, ip + 1, sp, nil
	}
	return false, 0, 0, nil
}
