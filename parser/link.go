package parser

import (
	"github.com/coregx/goonig/ast"
	"github.com/coregx/goonig/onigerr"
)

// link resolves every deferred backreference and subexp-call against the
// now-complete name table and regnum table, then marks recursive capture
// groups by finding cycles in the call graph. It runs once, after the
// whole pattern has been parsed, since both backrefs and calls may point
// forward to a group defined later in the pattern text.
func (p *Parser) link(root *ast.Node) *onigerr.Error {
	for _, n := range p.backrefs {
		if n.RefName != "" {
			nums, ok := p.names.lookup(n.RefName)
			if !ok {
				return onigerr.Newf(onigerr.ErrUndefinedNameReference, n.RefName)
			}
			n.GroupNums = nums
			continue
		}
		if len(n.GroupNums) == 0 {
			return onigerr.New(onigerr.ErrInvalidBackref)
		}
		if _, ok := p.regNumNodes[n.GroupNums[0]]; !ok {
			return onigerr.New(onigerr.ErrInvalidBackref)
		}
	}

	for _, n := range p.calls {
		var target *ast.Node
		switch {
		case n.CallName != "":
			nums, ok := p.names.lookup(n.CallName)
			if !ok {
				return onigerr.Newf(onigerr.ErrUndefinedNameReference, n.CallName)
			}
			target = p.regNumNodes[nums[0]]
		case n.CallNum == 0:
			target = root
		default:
			num := n.CallNum
			if num < 0 {
				num = p.numMem + num + 1
			}
			t, ok := p.regNumNodes[num]
			if !ok {
				return onigerr.New(onigerr.ErrUndefinedGroupReference)
			}
			target = t
		}
		n.Target = target
		if target != nil {
			target.Status |= ast.StatusReferencedByCall
		}
	}

	p.markRecursiveGroups(root)
	return nil
}

// markRecursiveGroups finds every capture group that participates,
// directly or indirectly, in a subexp-call cycle and sets
// ast.StatusRecursive on it. The call graph's nodes are regnums (0 for
// the whole pattern); an edge u->v means some Call reachable from u's
// body (without first entering another capture group's own body) targets
// regnum v.
func (p *Parser) markRecursiveGroups(root *ast.Node) {
	adj := map[int][]int{}
	var walk func(n *ast.Node, enclosing int)
	walk = func(n *ast.Node, enclosing int) {
		if n == nil {
			return
		}
		cur := enclosing
		if n.Kind == ast.KBag && n.BagType == ast.BagMemory && n.RegNum > 0 {
			cur = n.RegNum
		}
		if n.Kind == ast.KCall && n.Target != nil {
			tgt := 0
			if n.Target.Kind == ast.KBag && n.Target.BagType == ast.BagMemory {
				tgt = n.Target.RegNum
			}
			adj[enclosing] = append(adj[enclosing], tgt)
		}
		walk(n.Body, cur)
		walk(n.Car, cur)
		walk(n.Cdr, cur)
		walk(n.Then, cur)
		walk(n.Else, cur)
		walk(n.LookBody, cur)
	}
	walk(root, 0)

	const white, gray, black = 0, 1, 2
	state := map[int]int{}
	var stack []int
	recursive := map[int]bool{}

	var dfs func(u int)
	dfs = func(u int) {
		state[u] = gray
		stack = append(stack, u)
		for _, v := range adj[u] {
			switch state[v] {
			case gray:
				for i := len(stack) - 1; i >= 0; i-- {
					recursive[stack[i]] = true
					if stack[i] == v {
						break
					}
				}
			case white:
				dfs(v)
			}
		}
		stack = stack[:len(stack)-1]
		state[u] = black
	}

	if state[0] == white {
		dfs(0)
	}
	for r := range p.regNumNodes {
		if state[r] == white {
			dfs(r)
		}
	}

	for r, isRec := range recursive {
		if r == 0 {
			continue
		}
		if n, ok := p.regNumNodes[r]; ok && isRec {
			n.Status |= ast.StatusRecursive
		}
	}
}
