package ast

// OptionFlags is the compile- and search-time options bitmask of .
// Some flags only make sense at compile time (e.g. EXTEND, CAPTURE_GROUP);
// others only at search time (e.g. NOT_BEGIN_STRING); the engine accepts the
// union at both call sites and ignores flags that don't apply to that phase,
// exactly as Oniguruma's own ONIG_OPTION_* bitmask does.
type OptionFlags uint32

const OptionNone OptionFlags = 0

const (
	// OptionIgnoreCase enables case-insensitive matching.
	OptionIgnoreCase OptionFlags = 1 << iota
	// OptionExtend allows whitespace and # comments in the pattern source.
	OptionExtend
	// OptionMultiline makes '.' match newline (Oniguruma's ONIG_OPTION_MULTILINE).
	OptionMultiline
	// OptionSingleline makes ^/$ match only buffer begin/end, not line begin/end.
	OptionSingleline
	// OptionFindLongest selects POSIX leftmost-longest semantics.
	OptionFindLongest
	// OptionFindNotEmpty rejects a zero-length overall match.
	OptionFindNotEmpty
	// OptionNegateSingleline inverts OptionSingleline's effect within a scope.
	OptionNegateSingleline
	// OptionDontCaptureGroup treats (...) as non-capturing unless named.
	OptionDontCaptureGroup
	// OptionCaptureGroup forces (...) to capture even under DontCaptureGroup.
	OptionCaptureGroup
	// OptionNotBeginString forbids \A / ^(BEGIN_BUF) from matching at start.
	OptionNotBeginString
	// OptionNotEndString forbids \z / END_BUF from matching at the end.
	OptionNotEndString
	// OptionNotBeginPosition forbids \G from matching at the search start.
	OptionNotBeginPosition
	// OptionExtGraphemeCluster switches \X/text-segment boundary handling to
	// extended grapheme clusters.
	OptionExtGraphemeCluster
)

// Has reports whether all bits of mask are set in o.
func (o OptionFlags) Has(mask OptionFlags) bool {
	return o&mask == mask
}

// With returns o with mask's bits set.
func (o OptionFlags) With(mask OptionFlags) OptionFlags {
	return o | mask
}

// Without returns o with mask's bits cleared.
func (o OptionFlags) Without(mask OptionFlags) OptionFlags {
	return o &^ mask
}
