package ast

import "testing"

func TestWalkVisitsOwningSpineOnly(t *testing.T) {
	leaf := &Node{Kind: KString, Bytes: []byte("a")}
	quant := &Node{Kind: KQuantifier, Body: leaf, Min: 0, Max: Unbounded}

	var seen []Kind
	Walk(quant, func(n *Node) { seen = append(seen, n.Kind) })

	if len(seen) != 2 || seen[0] != KQuantifier || seen[1] != KString {
		t.Fatalf("unexpected walk order: %v", seen)
	}
}

func TestLinkParentsSetsBackPointers(t *testing.T) {
	leaf := &Node{Kind: KString, Bytes: []byte("x")}
	quant := &Node{Kind: KQuantifier, Body: leaf}

	LinkParents(quant)

	if leaf.Parent != quant {
		t.Fatalf("expected leaf.Parent == quant, got %v", leaf.Parent)
	}
	if quant.Parent != nil {
		t.Fatalf("root must have nil parent")
	}
}

func TestReduceNestedQuantifierStarStar(t *testing.T) {
	inner := &Node{Kind: KQuantifier, Body: &Node{Kind: KString, Bytes: []byte("a")}, Min: 0, Max: Unbounded, Greedy: true}
	outer := &Node{Kind: KQuantifier, Body: inner, Min: 0, Max: Unbounded, Greedy: true}

	reduced := ReduceNestedQuantifier(outer)

	if reduced.Body.Kind != KString {
		t.Fatalf("expected (a*)* to reduce body to the literal, got %v", reduced.Body.Kind)
	}
	if reduced.Min != 0 || reduced.Max != Unbounded {
		t.Fatalf("expected reduced bounds 0..inf, got %d..%d", reduced.Min, reduced.Max)
	}
}

func TestReduceNestedQuantifierPreservesCaptures(t *testing.T) {
	capture := &Node{Kind: KBag, BagType: BagMemory, RegNum: 1, Body: &Node{Kind: KString, Bytes: []byte("a")}}
	inner := &Node{Kind: KQuantifier, Body: capture, Min: 0, Max: Unbounded, Greedy: true}
	outer := &Node{Kind: KQuantifier, Body: inner, Min: 0, Max: Unbounded, Greedy: true}

	reduced := ReduceNestedQuantifier(outer)

	if reduced.Body != inner {
		t.Fatalf("expected ((a)*)* to keep its nested quantifier body when captures are present")
	}
}

func TestOptionFlagsBits(t *testing.T) {
	var o OptionFlags
	o = o.With(OptionIgnoreCase)
	if !o.Has(OptionIgnoreCase) {
		t.Fatalf("expected IgnoreCase set")
	}
	if o.Has(OptionMultiline) {
		t.Fatalf("did not expect Multiline set")
	}
	o = o.Without(OptionIgnoreCase)
	if o.Has(OptionIgnoreCase) {
		t.Fatalf("expected IgnoreCase cleared")
	}
	if OptionIgnoreCase != 1 {
		t.Fatalf("expected OptionIgnoreCase == 1, got %d", OptionIgnoreCase)
	}
}
