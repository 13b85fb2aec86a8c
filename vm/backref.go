package vm

import "bytes"

// backrefTarget picks the first group in nums that has actually
// participated in the match (Oniguruma semantics: an unset group among a
// multiplexed name fails the backref rather than treating it as empty).
func (m *Matcher) backrefTarget(nums []int) (beg, end int, ok bool) {
	for _, n := range nums {
		if n < 0 || n >= m.reg.NumRegs() {
			continue
		}
		b, e := m.reg.Beg[n], m.reg.End[n]
		if b >= 0 && e >= 0 {
			return b, e, true
		}
	}
	return 0, 0, false
}

// matchBackref compares the input at sp against the captured substring
// [beg,end), returning the number of input bytes consumed on success.
func (m *Matcher) matchBackref(sp, beg, end int, ic bool) (consumed int, ok bool) {
	want := m.input[beg:end]
	if !ic {
		if sp+len(want) > len(m.input) {
			return 0, false
		}
		if !bytes.Equal(m.input[sp:sp+len(want)], want) {
			return 0, false
		}
		return len(want), true
	}
	return m.matchBackrefFold(sp, want)
}

// matchBackrefFold compares want against input at sp character-by-
// character under case folding, allowing the matched run to differ in byte
// length from want.
func (m *Matcher) matchBackrefFold(sp int, want []byte) (int, bool) {
	var foldBuf [8]byte
	wi, si := 0, sp
	for wi < len(want) {
		wCode, wWidth, wOK := m.decodeRunAt(want, wi)
		if !wOK {
			return 0, false
		}
		sCode, sWidth, sOK := m.decodeAt(si)
		if !sOK {
			return 0, false
		}
		if wCode == sCode {
			wi += wWidth
			si += sWidth
			continue
		}
		wn, _ := m.prog.Enc.CaseFold(0, want[wi:], foldBuf[:])
		var sfoldBuf [8]byte
		sn, _ := m.prog.Enc.CaseFold(0, m.input[si:], sfoldBuf[:])
		if wn == 0 || sn == 0 || !bytes.Equal(foldBuf[:wn], sfoldBuf[:sn]) {
			return 0, false
		}
		wi += wWidth
		si += sWidth
	}
	return si - sp, true
}

func (m *Matcher) decodeRunAt(buf []byte, i int) (code uint32, width int, ok bool) {
	if i >= len(buf) {
		return 0, 0, false
	}
	w := m.prog.Enc.MBCLen(buf[i])
	if w < 1 {
		w = 1
	}
	if i+w > len(buf) {
		w = len(buf) - i
	}
	c, err := m.prog.Enc.ToCode(buf[i : i+w])
	if err != nil {
		return 0, w, false
	}
	return c, w, true
}
