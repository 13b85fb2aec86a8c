// Package onig implements the public facade: a
// root-level Regexp type composing the parser, analyzer, compiler and vm
// packages into compile/search/match_at/name→groups, plus Region and
// RegSet convenience constructors, mirroring the shape of a facade type
// composing its own nfa/dfa/prefilter packages.
package onig

import (
	"github.com/coregx/goonig/encoding"
	"github.com/coregx/goonig/parser"
	"github.com/coregx/goonig/profile"
	"github.com/coregx/goonig/vm"
)

// Config bundles every tunable a Compile call accepts, the same
// Config/DefaultConfig/Validate triple used by parser.Config and vm.Limits
//.
type Config struct {
	Encoding encoding.Encoding
	Profile  profile.Profile
	Parser   parser.Config
	Limits   vm.Limits
}

// DefaultConfig returns UTF-8 encoding, the Oniguruma default syntax
// profile, and every package's documented defaults.
func DefaultConfig() Config {
	enc, _ := encoding.ByName("UTF-8")
	return Config{
		Encoding: enc,
		Profile:  profile.Oniguruma,
		Parser:   parser.DefaultConfig(),
		Limits:   vm.DefaultLimits(),
	}
}

// Validate reports whether c is internally consistent.
func (c Config) Validate() error {
	if c.Encoding.ToCode == nil {
		return configError("onig: invalid config: Encoding is unset")
	}
	if err := c.Parser.Validate(); err != nil {
		return err
	}
	if err := c.Limits.Validate(); err != nil {
		return err
	}
	return nil
}

type configError string

func (e configError) Error() string { return string(e) }

// Stats tracks per-Regexp execution counters. Regexp's methods update
// Searches and Matches; Retries, StackHighWater, PrefilterHits and
// PrefilterMiss are not updated and stay zero.
type Stats struct {
	Searches       uint64
	Matches        uint64
	Retries        uint64
	StackHighWater int
	PrefilterHits  uint64
	PrefilterMiss  uint64
}
