package ast

// ReduceNestedQuantifier canonicalizes a quantifier whose body is itself a
// single quantifier node, e.g. (a*)*, (a+)*, (a?)+, so that repeated
// quantification over a possibly-empty body can never diverge the
// compiler's empty-check insertion.
//
// The reduction is the classic 6-case table Oniguruma derives from
// combining outer/inner (min,max) pairs: when both quantifiers can repeat
// (outer.Max != 1 or outer.Min != outer.Max) and the inner body can match
// empty, nesting them verbatim would let the compiler emit an EMPTY_CHECK
// that fires every outer AND every inner iteration, which is merely
// redundant, not incorrect, as long as the inner node still reports an
// emptiness class. ReduceNestedQuantifier instead flattens purely
// structural duplication — outer and inner bounds that describe the exact
// same repetition range — so the AST does not grow a chain of
// quantifier-over-quantifier nodes for patterns like (((a*)*)*)*.
//
// It returns the possibly-replaced outer node; if no reduction applies it
// returns outer unchanged.
func ReduceNestedQuantifier(outer *Node) *Node {
	if outer.Kind != KQuantifier || outer.Body == nil || outer.Body.Kind != KQuantifier {
		return outer
	}
	inner := outer.Body

	// Only collapse when neither quantifier carries capturing side effects
	// and greediness agrees; otherwise the distinction between "outer tries
	// N times" and "inner tries M times per outer iteration" is externally
	// observable through captures and must be preserved.
	if outer.Greedy != inner.Greedy || outer.Possessive || inner.Possessive {
		return outer
	}
	if !isPlainRepeatable(inner.Body) {
		return outer
	}

	switch {
	case outer.Min <= 1 && outer.Max == Unbounded && inner.Min <= 1 && inner.Max == Unbounded:
		// (x*)* , (x*)+ , (x+)* reduce to x*; (x+)+ reduces to x+
		outer.Min = outer.Min * inner.Min
		outer.Max = Unbounded
		outer.Body = inner.Body
	case outer.Min == 0 && outer.Max == 1 && inner.Min == 0 && inner.Max == 1:
		// (x?)? reduces to x?
		outer.Body = inner.Body
	case outer.Min == 1 && outer.Max == 1:
		// (x{m,n}){1} reduces to x{m,n}
		return inner
	case inner.Min == 1 && inner.Max == 1:
		// (x{1}){m,n} reduces to x{m,n}
		outer.Body = inner.Body
	default:
		return outer
	}
	return outer
}

// isPlainRepeatable reports whether body contains no captures or
// subexp-calls, so collapsing two quantifiers around it cannot change
// observable capture history.
func isPlainRepeatable(body *Node) bool {
	if body == nil {
		return false
	}
	plain := true
	Walk(body, func(n *Node) {
		if n.Kind == KBag && n.BagType == BagMemory && n.RegNum > 0 {
			plain = false
		}
		if n.Kind == KCall {
			plain = false
		}
	})
	return plain
}
