package region

import "testing"

func TestNewAllocatesAllSlotsUnset(t *testing.T) {
	r := New(3)
	if r.NumRegs() != 4 {
		t.Fatalf("expected 4 slots (1 overall + 3 groups), got %d", r.NumRegs())
	}
	for i := 0; i < r.NumRegs(); i++ {
		if r.Beg[i] != Unset || r.End[i] != Unset {
			t.Fatalf("slot %d not unset: beg=%d end=%d", i, r.Beg[i], r.End[i])
		}
	}
}

func TestClearResetsWithoutReallocating(t *testing.T) {
	r := New(2)
	begPtr := &r.Beg[0]
	r.Beg[0], r.End[0] = 3, 7
	r.Beg[1], r.End[1] = 1, 2
	r.Tree = &HistoryNode{GroupNum: 1, Beg: 1, End: 2}
	r.Clear()
	if &r.Beg[0] != begPtr {
		t.Fatalf("Clear reallocated the backing array")
	}
	for i := 0; i < r.NumRegs(); i++ {
		if r.Beg[i] != Unset || r.End[i] != Unset {
			t.Fatalf("slot %d not reset to Unset", i)
		}
	}
	if r.Tree != nil {
		t.Fatalf("expected Clear to drop the capture-history tree")
	}
}

func TestCloneIsIndependentOfOriginal(t *testing.T) {
	r := New(1)
	r.Beg[0], r.End[0] = 0, 5
	r.Beg[1], r.End[1] = 1, 3
	r.Tree = &HistoryNode{GroupNum: 1, Beg: 1, End: 3}

	c := r.Clone()
	c.Beg[1] = 99
	c.Tree.Beg = 42

	if r.Beg[1] != 1 {
		t.Fatalf("mutating the clone's Beg slice affected the original")
	}
	if r.Tree.Beg != 1 {
		t.Fatalf("mutating the clone's tree affected the original's tree")
	}
	if c.NumRegs() != r.NumRegs() {
		t.Fatalf("clone should carry the same slot count")
	}
}

func TestCloneOfNilTreeStaysNil(t *testing.T) {
	r := New(0)
	c := r.Clone()
	if c.Tree != nil {
		t.Fatalf("expected Clone of a Region with no tree to leave Tree nil")
	}
}

func TestWalkVisitsChildrenInRegistrationOrderPreAndPost(t *testing.T) {
	root := &HistoryNode{GroupNum: 0, Children: []*HistoryNode{
		{GroupNum: 1, Beg: 0, End: 1},
		{GroupNum: 2, Beg: 1, End: 2},
	}}
	var preOrder, postOrder []int
	Walk(root, WalkPreOrder|WalkPostOrder,
		func(n *HistoryNode) { preOrder = append(preOrder, n.GroupNum) },
		func(n *HistoryNode) { postOrder = append(postOrder, n.GroupNum) },
	)
	wantPre := []int{0, 1, 2}
	wantPost := []int{1, 2, 0}
	for i, g := range wantPre {
		if preOrder[i] != g {
			t.Fatalf("pre-order = %v, want %v", preOrder, wantPre)
		}
	}
	for i, g := range wantPost {
		if postOrder[i] != g {
			t.Fatalf("post-order = %v, want %v", postOrder, wantPost)
		}
	}
}

func TestWalkHonorsMaskOmittingUnrequestedCallback(t *testing.T) {
	root := &HistoryNode{GroupNum: 0}
	called := false
	Walk(root, WalkPreOrder, func(n *HistoryNode) { called = true }, func(n *HistoryNode) {
		t.Fatalf("post callback should not run when mask omits WalkPostOrder")
	})
	if !called {
		t.Fatalf("expected pre callback to run")
	}
}

func TestWalkOnNilNodeIsNoop(t *testing.T) {
	Walk(nil, WalkPreOrder|WalkPostOrder, func(n *HistoryNode) {
		t.Fatalf("callback should not run for a nil node")
	}, nil)
}
