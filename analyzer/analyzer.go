// Package analyzer implements the bottom-up length/anchor/optimize pass of
// : a single walk over an ast.Node tree that fills in per-node
// character/byte length bounds, the four-way emptiness classification used
// by the compiler's empty-check insertion, the program-level anchor
// summary, and the optimize record (None/Exact/ExactIC/Map) that drives the
// search driver's fast-scan pre-filter.
//
// This is grounded on literal.Extractor/prefilter.Builder
// pipeline (package literal, package prefilter): a single complete literal
// is kept as Exact/ExactIC so the search driver can hand it straight to
// simd.Memmem; anything prefilter.Builder would otherwise feed to a DFA
// (a single partial literal, or 2-8 alternated literals) is built into a
// real prefilter.Prefilter and carried on Info/Program so the search driver
// runs its Find directly instead of re-deriving a first-byte table.
package analyzer

import (
	"github.com/coregx/goonig/ast"
	"github.com/coregx/goonig/encoding"
	"github.com/coregx/goonig/literal"
	"github.com/coregx/goonig/prefilter"
)

// OptimizeKind discriminates the Program's optimize record.
type OptimizeKind uint8

const (
	OptimizeNone OptimizeKind = iota
	OptimizeExact
	OptimizeExactIC
	OptimizeMap
)

// AnchorBits is the program-level anchor summary bitmask.
type AnchorBits uint16

const (
	AnchorBeginBuf AnchorBits = 1 << iota
	AnchorBeginLine
	AnchorBeginPosition // \G present on every path
	AnchorEndBuf
	AnchorSemiEndBuf
	AnchorAnycharInf   // leading .* (single-line)
	AnchorAnycharInfML // leading .* under multiline
)

// Info is the analyzer's output, attached to a compiled Program.
type Info struct {
	Anchors AnchorBits

	// AncDistMin/AncDistMax bound the byte distance from the anchor implied
	// by Anchors to the earliest byte of a following match.
	AncDistMin, AncDistMax int

	// Optimize selects which of Exact/Filter is populated.
	Optimize OptimizeKind
	Exact    []byte              // OptimizeExact / OptimizeExactIC
	Filter   prefilter.Prefilter // OptimizeMap: real SIMD-backed prefilter (memchr/memmem/Teddy)

	// ThresholdLen is the minimum input byte length for any possibility of
	// a match.
	ThresholdLen int

	// CharMin/CharMax/ByteMin/ByteMax mirror the root node's own bounds,
	// exposed so callers don't need to keep the AST around post-compile.
	CharMin, CharMax int
	ByteMin, ByteMax int
}

// Config bounds the literal extraction work the analyzer performs while
// building the optimize record, mirroring literal.ExtractorConfig.
type Config struct {
	Extractor literal.ExtractorConfig
}

// DefaultConfig returns the extractor's documented defaults.
func DefaultConfig() Config {
	return Config{Extractor: literal.DefaultConfig()}
}

// Analyze runs the length/emptiness/anchor/optimize walk over root and
// returns the resulting Info. It also mutates root's Status/CharMin/...
// fields in place.
func Analyze(root *ast.Node, enc encoding.Encoding, cfg Config) *Info {
	computeLengths(root, enc)
	classifyEmptiness(root)

	info := &Info{
		CharMin: root.CharMin, CharMax: root.CharMax,
		ByteMin: root.ByteMin, ByteMax: root.ByteMax,
	}
	if root.ByteMin >= 0 {
		info.ThresholdLen = root.ByteMin
	}

	info.Anchors, info.AncDistMin, info.AncDistMax = walkAnchors(root)
	buildOptimizeRecord(root, enc, cfg, info)
	return info
}

// computeLengths fills CharMin/CharMax/ByteMin/ByteMax bottom-up and sets
// StatusFixedMin/StatusFixedMax/StatusFixedCLen.
func computeLengths(n *ast.Node, enc encoding.Encoding) {
	if n == nil {
		return
	}
	switch n.Kind {
	case ast.KString:
		nchars := countChars(n.Bytes, enc)
		n.CharMin, n.CharMax = nchars, nchars
		n.ByteMin, n.ByteMax = len(n.Bytes), len(n.Bytes)
	case ast.KCharClass, ast.KCType:
		n.CharMin, n.CharMax = 1, 1
		n.ByteMin, n.ByteMax = 1, enc.MaxLen
	case ast.KBackRef:
		// Unknowable until match time: treat as variable, possibly empty.
		n.CharMin, n.CharMax = 0, ast.Unbounded
		n.ByteMin, n.ByteMax = 0, ast.Unbounded
	case ast.KAnchor:
		computeLengths(n.LookBody, enc)
		if isLookaround(n.AnchorKind) {
			n.CharMin, n.CharMax = 0, 0
			n.ByteMin, n.ByteMax = 0, 0
		} else {
			n.CharMin, n.CharMax = 0, 0
			n.ByteMin, n.ByteMax = 0, 0
		}
	case ast.KQuantifier:
		computeLengths(n.Body, enc)
		n.CharMin = mulBound(n.Body.CharMin, n.Min)
		n.ByteMin = mulBound(n.Body.ByteMin, n.Min)
		if n.Max == ast.Unbounded || n.Body.CharMax == ast.Unbounded {
			n.CharMax = ast.Unbounded
			n.ByteMax = ast.Unbounded
		} else {
			n.CharMax = mulBound(n.Body.CharMax, n.Max)
			n.ByteMax = mulBound(n.Body.ByteMax, n.Max)
		}
	case ast.KBag:
		computeLengths(n.Body, enc)
		if n.BagType == ast.BagIfElse {
			computeLengths(n.Then, enc)
			computeLengths(n.Else, enc)
			n.CharMin = minBound(n.Then.CharMin, n.Else.CharMin)
			n.CharMax = maxBoundInf(n.Then.CharMax, n.Else.CharMax)
			n.ByteMin = minBound(n.Then.ByteMin, n.Else.ByteMin)
			n.ByteMax = maxBoundInf(n.Then.ByteMax, n.Else.ByteMax)
		} else if n.Body != nil {
			n.CharMin, n.CharMax = n.Body.CharMin, n.Body.CharMax
			n.ByteMin, n.ByteMax = n.Body.ByteMin, n.Body.ByteMax
		} else {
			n.CharMin, n.CharMax = 0, 0
			n.ByteMin, n.ByteMax = 0, 0
		}
	case ast.KList:
		computeLengths(n.Car, enc)
		computeLengths(n.Cdr, enc)
		n.CharMin = addBound(n.Car.CharMin, childCharMin(n.Cdr))
		n.CharMax = addBoundInf(n.Car.CharMax, childCharMax(n.Cdr))
		n.ByteMin = addBound(n.Car.ByteMin, childByteMin(n.Cdr))
		n.ByteMax = addBoundInf(n.Car.ByteMax, childByteMax(n.Cdr))
	case ast.KAlt:
		computeLengths(n.Car, enc)
		computeLengths(n.Cdr, enc)
		cdrMin, cdrMax := ast.Unbounded, ast.Unbounded
		cdrBMin, cdrBMax := ast.Unbounded, ast.Unbounded
		if n.Cdr != nil {
			cdrMin, cdrMax = n.Cdr.CharMin, n.Cdr.CharMax
			cdrBMin, cdrBMax = n.Cdr.ByteMin, n.Cdr.ByteMax
		} else {
			cdrMin, cdrBMin = n.Car.CharMin, n.Car.ByteMin
			cdrMax, cdrBMax = n.Car.CharMax, n.Car.ByteMax
		}
		n.CharMin = minBound(n.Car.CharMin, cdrMin)
		n.CharMax = maxBoundInf(n.Car.CharMax, cdrMax)
		n.ByteMin = minBound(n.Car.ByteMin, cdrBMin)
		n.ByteMax = maxBoundInf(n.Car.ByteMax, cdrBMax)
	case ast.KCall:
		n.CharMin, n.CharMax = 0, ast.Unbounded
		n.ByteMin, n.ByteMax = 0, ast.Unbounded
	case ast.KGimmick:
		n.CharMin, n.CharMax = 0, 0
		n.ByteMin, n.ByteMax = 0, 0
	}

	if n.CharMin >= 0 {
		n.Status |= ast.StatusFixedMin
	}
	if n.CharMax != ast.Unbounded {
		n.Status |= ast.StatusFixedMax
	}
	if n.CharMin == n.CharMax && n.CharMin != ast.Unbounded {
		n.Status |= ast.StatusFixedCLen
	}
}

func countChars(b []byte, enc encoding.Encoding) int {
	n := 0
	for i := 0; i < len(b); {
		l := enc.MBCLen(b[i])
		if l < 1 {
			l = 1
		}
		i += l
		n++
	}
	return n
}

func isLookaround(k ast.AnchorKind) bool {
	switch k {
	case ast.AnchorLookAhead, ast.AnchorNegLookAhead, ast.AnchorLookBehind, ast.AnchorNegLookBehind:
		return true
	}
	return false
}

func mulBound(a, n int) int {
	if a == ast.Unbounded || n == ast.Unbounded {
		return ast.Unbounded
	}
	return a * n
}

func addBound(a, b int) int {
	if a == ast.Unbounded || b == ast.Unbounded {
		return ast.Unbounded
	}
	return a + b
}

func addBoundInf(a, b int) int {
	if a == ast.Unbounded || b == ast.Unbounded {
		return ast.Unbounded
	}
	return a + b
}

func minBound(a, b int) int {
	if a == ast.Unbounded {
		return b
	}
	if b == ast.Unbounded {
		return a
	}
	if a < b {
		return a
	}
	return b
}

func maxBoundInf(a, b int) int {
	if a == ast.Unbounded || b == ast.Unbounded {
		return ast.Unbounded
	}
	if a > b {
		return a
	}
	return b
}

func childCharMin(n *ast.Node) int {
	if n == nil {
		return 0
	}
	return n.CharMin
}
func childCharMax(n *ast.Node) int {
	if n == nil {
		return 0
	}
	return n.CharMax
}
func childByteMin(n *ast.Node) int {
	if n == nil {
		return 0
	}
	return n.ByteMin
}
func childByteMax(n *ast.Node) int {
	if n == nil {
		return 0
	}
	return n.ByteMax
}

// classifyEmptiness sets Quantifier.Emptiness per .
func classifyEmptiness(n *ast.Node) {
	if n == nil {
		return
	}
	ast.Walk(n, func(cur *ast.Node) {
		if cur.Kind != ast.KQuantifier {
			return
		}
		cur.Emptiness = bodyEmptiness(cur.Body)
	})
}

func bodyEmptiness(body *ast.Node) ast.EmptinessClass {
	if body == nil || body.CharMin != 0 {
		return ast.NotEmpty
	}
	hasCall := false
	hasMem := false
	ast.Walk(body, func(cur *ast.Node) {
		switch cur.Kind {
		case ast.KCall:
			hasCall = true
		case ast.KBag:
			if cur.BagType == ast.BagMemory {
				hasMem = true
			}
		}
	})
	switch {
	case hasCall:
		return ast.MayBeEmptyRec
	case hasMem:
		return ast.MayBeEmptyMem
	default:
		return ast.MayBeEmpty
	}
}

// walkAnchors computes the anchor summary by inspecting the left spine of
// the tree (for begin-anchors) and the right spine (for end-anchors).
func walkAnchors(root *ast.Node) (AnchorBits, int, int) {
	var bits AnchorBits
	dmin, dmax := 0, 0

	leftmost := leftSpine(root)
	for _, n := range leftmost {
		if n.Kind != ast.KAnchor {
			break
		}
		switch n.AnchorKind {
		case ast.AnchorBeginBuf:
			bits |= AnchorBeginBuf
		case ast.AnchorBeginLine:
			bits |= AnchorBeginLine
		case ast.AnchorBeginPosition:
			bits |= AnchorBeginPosition
		}
	}

	rightmost := rightSpine(root)
	for _, n := range rightmost {
		if n.Kind != ast.KAnchor {
			break
		}
		switch n.AnchorKind {
		case ast.AnchorEndBuf:
			bits |= AnchorEndBuf
		case ast.AnchorSemiEndBuf:
			bits |= AnchorSemiEndBuf
		}
	}

	if leadingAnycharStar(root, false) {
		bits |= AnchorAnycharInf
	}
	if leadingAnycharStar(root, true) {
		bits |= AnchorAnycharInfML
	}

	if root.ByteMax != ast.Unbounded {
		dmax = root.ByteMax
	} else {
		dmax = ast.Unbounded
	}
	dmin = 0
	return bits, dmin, dmax
}

// leftSpine walks down the leftmost owning edge (Car for List, the sole
// element for Alt's first branch is not unconditional so Alt stops the
// walk) collecting every node visited, innermost first requirement
// relaxed: callers only look at the first entries.
func leftSpine(n *ast.Node) []*ast.Node {
	var out []*ast.Node
	for n != nil {
		out = append(out, n)
		switch n.Kind {
		case ast.KList:
			n = n.Car
		case ast.KBag:
			n = n.Body
		default:
			return out
		}
	}
	return out
}

func rightSpine(n *ast.Node) []*ast.Node {
	var out []*ast.Node
	for n != nil {
		switch n.Kind {
		case ast.KList:
			if n.Cdr != nil {
				n = n.Cdr
				continue
			}
			n = n.Car
			out = append(out, n)
			return out
		case ast.KBag:
			n = n.Body
		default:
			out = append(out, n)
			return out
		}
	}
	return out
}

func leadingAnycharStar(n *ast.Node, multiline bool) bool {
	spine := leftSpine(n)
	for _, cur := range spine {
		if cur.Kind != ast.KQuantifier {
			continue
		}
		if cur.Min != 0 || cur.Max != ast.Unbounded {
			return false
		}
		body := cur.Body
		if body == nil || body.Kind != ast.KCType || body.CType != 0 {
			return false
		}
		isML := body.Status&ast.StatusMultiline != 0
		return isML == multiline
	}
	return false
}

// buildOptimizeRecord extracts a prefix literal/first-byte-map via the
// literal/prefilter packages and attaches it to info.
func buildOptimizeRecord(root *ast.Node, enc encoding.Encoding, cfg Config, info *Info) {
	ext := literal.New(cfg.Extractor)
	prefixes := ext.ExtractPrefixes(root)
	if prefixes == nil || prefixes.Len() == 0 {
		return
	}
	if prefixes.Len() == 1 {
		lit := prefixes.Get(0)
		if lit.Complete && len(lit.Bytes) > 0 {
			ic := root.Status&ast.StatusIgnoreCase != 0
			info.Exact = lit.Bytes
			if ic {
				info.Optimize = OptimizeExactIC
			} else {
				info.Optimize = OptimizeExact
			}
			return
		}
	}
	pf := prefilter.NewBuilder(prefixes, nil).Build()
	if pf == nil {
		return
	}
	info.Filter = pf
	info.Optimize = OptimizeMap
}
