package parser

import "github.com/coregx/goonig/onigerr"

// nameTable tracks group names to their (possibly multiplexed) capture
// numbers, in first-seen order, mirroring Oniguruma's name table design
// where the same name may legally label more than one group unless the
// active dialect forbids it.
type nameTable struct {
	byName map[string][]int
	order  []string
}

func newNameTable() *nameTable {
	return &nameTable{byName: map[string][]int{}}
}

func (t *nameTable) define(name string, regnum int, rejectDup bool) *onigerr.Error {
	if _, exists := t.byName[name]; !exists {
		t.order = append(t.order, name)
	} else if rejectDup {
		return onigerr.Newf(onigerr.ErrMultiplexDefinedName, name)
	}
	t.byName[name] = append(t.byName[name], regnum)
	if len(t.byName[name]) > maxMultiplexPerName {
		return onigerr.Newf(onigerr.ErrTooManyMultiplexDef, name)
	}
	return nil
}

func (t *nameTable) lookup(name string) ([]int, bool) {
	nums, ok := t.byName[name]
	return nums, ok
}

// maxMultiplexPerName bounds how many groups may share one name, matching
// the resource-limit style (see onigerr.ErrTooManyMultiplexDef).
const maxMultiplexPerName = 32767
