// Package profile implements the Syntax profile data model:
// an immutable record of booleans/bitfields selecting which operators a
// regex dialect recognizes, fixed once at parse time.
package profile

// Feature is a bitmask of syntax-level operator toggles the parser
// consults while lexing and parsing.
type Feature uint64

const (
	// FeatureVariableMetaCharacters: escapes like \d \w \s are recognized
	// (vs. a dialect where they're just literal characters).
	FeatureVariableMetaCharacters Feature = 1 << iota
	// FeaturePerlExt enables Perl extensions: (?:...), (?=...), (?!...),
	// (?<=...), (?<!...), (?>...).
	FeaturePerlExt
	// FeatureNamedGroup enables (?<name>...), (?'name'...), (?P<name>...).
	FeatureNamedGroup
	// FeatureCapturePerlOnly: only the non-capturing syntaxes
	// above opt into capture; plain (...) never captures.
	FeatureCapturePerlOnly
	// FeatureBackslashAAndZ enables \A, \z, \Z anchors.
	FeatureBackslashAAndZ
	// FeatureBackslashG enables the \G "continue from last match" anchor.
	FeatureBackslashG
	// FeatureWordBoundary enables \b, \B.
	FeatureWordBoundary
	// FeatureEscapeInPattern: backslash-escaping of meta characters is
	// honored (always true in practice, kept as a toggle for Asis/raw
	// profiles).
	FeatureEscapeInPattern
	// FeatureBraceInterval enables {m,n} interval quantifiers.
	FeatureBraceInterval
	// FeatureLazyQuantifier enables the *? +? ?? non-greedy suffix.
	FeatureLazyQuantifier
	// FeaturePossessiveQuantifier enables *+ ++ ?+ possessive suffix.
	FeaturePossessiveQuantifier
	// FeatureAtomicGroup enables (?>...).
	FeatureAtomicGroup
	// FeatureConditional enables (?(cond)then|else).
	FeatureConditional
	// FeatureSubexpCall enables \g<name> / \g<n> recursive calls.
	FeatureSubexpCall
	// FeatureCharClassIntersection enables [a&&b] inside character classes.
	FeatureCharClassIntersection
	// FeaturePosixBracket enables [:alpha:]-style POSIX bracket
	// expressions inside character classes.
	FeaturePosixBracket
	// FeatureCharProperty enables \p{Name}/\P{Name}.
	FeatureCharProperty
	// FeatureQuoteEscape enables \Q...\E literal quoting.
	FeatureQuoteEscape
	// FeatureLineAnchorsAreBufferAnchors: ^ and $ default to matching only
	// buffer start/end, not line start/end (POSIX-style), unless
	// (?m) / MULTILINE is given.
	FeatureLineAnchorsAreBufferAnchors
	// FeatureNonGreedyDefault: bare quantifiers default to non-greedy
	// (rare dialects only; Oniguruma's own default is greedy).
	FeatureNonGreedyDefault
	// FeatureDotNotBOL: '.' never matches '\n' regardless of options
	// (some POSIX dialects hard-wire this instead of making it an option).
	FeatureDotNotBOL
	// FeatureAllowEmptyAlternative: `(a|)` and `(|a)` are legal (empty
	// branch); disabled in the strictest POSIX Basic dialect.
	FeatureAllowEmptyAlternative
)

// Profile is an immutable syntax profile: which Feature bits this dialect
// recognizes. Profiles are small value types, compared and copied freely;
// the active Profile is fixed once at parse time.
type Profile struct {
	Name     string
	Features Feature
}

// Has reports whether every bit in mask is set.
func (p Profile) Has(mask Feature) bool {
	return p.Features&mask == mask
}

// predefined syntax profiles, one per
// supported dialect name.
var (
	Oniguruma = Profile{
		Name: "Oniguruma",
		Features: FeatureVariableMetaCharacters | FeaturePerlExt | FeatureNamedGroup |
			FeatureBackslashAAndZ | FeatureBackslashG | FeatureWordBoundary |
			FeatureEscapeInPattern | FeatureBraceInterval | FeatureLazyQuantifier |
			FeaturePossessiveQuantifier | FeatureAtomicGroup | FeatureConditional |
			FeatureSubexpCall | FeatureCharClassIntersection | FeaturePosixBracket |
			FeatureCharProperty | FeatureQuoteEscape | FeatureAllowEmptyAlternative,
	}

	Perl = Profile{
		Name: "Perl",
		Features: FeatureVariableMetaCharacters | FeaturePerlExt | FeatureNamedGroup |
			FeatureBackslashAAndZ | FeatureBackslashG | FeatureWordBoundary |
			FeatureEscapeInPattern | FeatureBraceInterval | FeatureLazyQuantifier |
			FeaturePossessiveQuantifier | FeatureAtomicGroup | FeatureConditional |
			FeatureSubexpCall | FeaturePosixBracket | FeatureCharProperty |
			FeatureQuoteEscape | FeatureAllowEmptyAlternative,
	}

	// PerlNG additionally requires unique group names and disallows a few
	// legacy Perl ambiguities; we model the parts that affect parsing
	// (duplicate name rejection is enforced by the parser when this
	// profile is active, see parser.Config.RejectDuplicateNames).
	PerlNG = Profile{
		Name:     "Perl_NG",
		Features: Perl.Features,
	}

	Ruby = Profile{
		Name:     "Ruby",
		Features: Oniguruma.Features,
	}

	Java = Profile{
		Name: "Java",
		Features: FeatureVariableMetaCharacters | FeaturePerlExt | FeatureNamedGroup |
			FeatureBackslashAAndZ | FeatureWordBoundary | FeatureEscapeInPattern |
			FeatureBraceInterval | FeatureLazyQuantifier | FeaturePossessiveQuantifier |
			FeatureAtomicGroup | FeatureCharProperty | FeatureQuoteEscape |
			FeatureAllowEmptyAlternative,
	}

	Python = Profile{
		Name: "Python",
		Features: FeatureVariableMetaCharacters | FeaturePerlExt | FeatureNamedGroup |
			FeatureBackslashAAndZ | FeatureWordBoundary | FeatureEscapeInPattern |
			FeatureBraceInterval | FeatureLazyQuantifier | FeatureConditional |
			FeatureAllowEmptyAlternative,
	}

	Emacs = Profile{
		Name: "Emacs",
		Features: FeatureVariableMetaCharacters | FeatureWordBoundary |
			FeatureEscapeInPattern | FeatureAllowEmptyAlternative,
	}

	Grep = Profile{
		Name: "Grep",
		Features: FeatureEscapeInPattern | FeatureLineAnchorsAreBufferAnchors |
			FeatureAllowEmptyAlternative,
	}

	GnuRegex = Profile{
		Name: "GnuRegex",
		Features: FeatureVariableMetaCharacters | FeatureBraceInterval |
			FeatureEscapeInPattern | FeaturePosixBracket | FeatureAllowEmptyAlternative,
	}

	PosixBasic = Profile{
		Name: "PosixBasic",
		Features: FeatureEscapeInPattern | FeaturePosixBracket |
			FeatureLineAnchorsAreBufferAnchors | FeatureDotNotBOL,
	}

	PosixExtended = Profile{
		Name: "PosixExtended",
		Features: FeatureEscapeInPattern | FeatureBraceInterval | FeaturePosixBracket |
			FeatureLineAnchorsAreBufferAnchors | FeatureDotNotBOL |
			FeatureAllowEmptyAlternative,
	}

	// Asis treats the pattern nearly as a literal: only backslash-escaping
	// is honored, nothing else is special. Used as a baseline/diagnostic
	// profile, matching Oniguruma's own ONIG_SYNTAX_ASIS.
	Asis = Profile{
		Name:     "Asis",
		Features: FeatureEscapeInPattern,
	}
)

// ByName resolves one of the selectable dialect names to its
// Profile.
func ByName(name string) (Profile, bool) {
	switch name {
	case "Oniguruma":
		return Oniguruma, true
	case "Asis":
		return Asis, true
	case "PosixBasic":
		return PosixBasic, true
	case "PosixExtended":
		return PosixExtended, true
	case "Emacs":
		return Emacs, true
	case "Grep":
		return Grep, true
	case "GnuRegex":
		return GnuRegex, true
	case "Java":
		return Java, true
	case "Perl":
		return Perl, true
	case "Perl_NG", "PerlNG":
		return PerlNG, true
	case "Ruby":
		return Ruby, true
	case "Python":
		return Python, true
	default:
		return Profile{}, false
	}
}
