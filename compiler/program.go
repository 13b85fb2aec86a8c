package compiler

import (
	"github.com/coregx/goonig/analyzer"
	"github.com/coregx/goonig/ast"
	"github.com/coregx/goonig/encoding"
	"github.com/coregx/goonig/prefilter"
	"github.com/coregx/goonig/profile"
)

// Program is the compiled, immutable form of a pattern.
// The only mutable state involved in a match lives on the matcher's stack
//: Program itself is never written to after Compile returns, so
// one Program can be shared freely across concurrently matching goroutines.
type Program struct {
	Insts  []Inst
	NumMem int

	Options ast.OptionFlags

	Anchors    analyzer.AnchorBits
	AncDistMin int
	AncDistMax int

	// Optimize selects which of Exact/Filter the search driver's fast-scan
	// should use. Filter, when non-nil, runs through prefilter's own
	// memchr/memmem/Teddy dispatch (package prefilter, backed by package
	// simd) rather than a hand-rolled byte-map scan.
	Optimize analyzer.OptimizeKind
	Exact    []byte
	Filter   prefilter.Prefilter

	ThresholdLen int
	CharMin      int
	CharMax      int
	ByteMin      int
	ByteMax      int

	NumRepeats int

	Names     map[string][]int
	NameOrder []string

	Enc  encoding.Encoding
	Prof profile.Profile
}

// GroupNumbers returns the capture group numbers registered under name, or
// ok=false.
func (p *Program) GroupNumbers(name string) ([]int, bool) {
	g, ok := p.Names[name]
	return g, ok
}
