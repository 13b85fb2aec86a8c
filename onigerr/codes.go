// Package onigerr implements the engine's error taxonomy: a stable integer Code per failure, partitioned into bands,
// rendered through a code→message table, with an optional byte-offset Range
// for parser errors and an optional Name substring for name-bearing errors.
//
// This generalizes wrapped-sentinel-error style
// (nfa.ErrInvalidState, nfa.CompileError) into the banded taxonomy:
// Error remains a normal Go error (Error() string, Unwrap() for the handful
// of sentinel cases), but additionally carries the stable Code a C caller
// would switch on.
package onigerr

// Code is a stable integer identifying one failure mode. The sign and
// magnitude bands follow :
//
//	 -1            MISMATCH (not a true error; a clean "no match", carried
//	                in an Error whose Code is Mismatch)
//	 -5  .. -21    resource/limit errors
//	 -30 .. -34    invalid-argument errors
//	 -100 .. -199  internal bugs (invariant violations, unreachable)
//	 -200 .. -299  encoding errors
//	 -300 .. -999  parser/syntax errors
type Code int

const (
	// Mismatch is the code of the Error that Search/MatchAt return on a
	// clean "no match"; callers tell it apart from true failures by
	// checking Code (or IsMismatch).
	Mismatch Code = -1

	NoSupportConfig Code = -2

	// --- resource / limit band ---
	ErrMemory                Code = -5
	ErrMatchStackLimitOver   Code = -6
	ErrRetryLimitInMatch     Code = -7
	ErrRetryLimitInSearch    Code = -8
	ErrTimeLimit             Code = -9
	ErrSubexpCallLimit       Code = -10
	ErrSubexpCallMaxNest     Code = -11
	ErrParseDepthLimit       Code = -12

	// --- invalid argument band ---
	ErrInvalidArgument   Code = -30
	ErrStartAfterEnd     Code = -31
	ErrNilProgram        Code = -32
	ErrNilProgramInSet   Code = -33
	ErrFindLongestInSet  Code = -34

	// --- internal bug band ---
	ErrParserBug     Code = -100
	ErrStackBug      Code = -101
	ErrUndefinedByte Code = -102
	ErrCompilerBug   Code = -103

	// --- encoding band ---
	ErrInvalidCodePoint    Code = -200
	ErrInvalidMultibyte    Code = -201
	ErrTooBigCodePoint     Code = -202
	ErrNotSupportedCombo   Code = -203
	ErrInvalidArgEncoding  Code = -204

	// --- parser/syntax band (-300..-999) ---
	ErrEndPatternAtLeftBrace     Code = -300
	ErrEndPatternAtLeftBracket   Code = -301
	ErrEmptyCharClass            Code = -302
	ErrPrematureEndCharClass     Code = -303
	ErrEndPatternAtEscape        Code = -304
	ErrEndPatternAtMeta          Code = -305
	ErrEndPatternAtControl       Code = -306
	ErrMetaCodeSyntax            Code = -307
	ErrControlCodeSyntax         Code = -308
	ErrCharClassValueAtEnd       Code = -309
	ErrOctalValueOutOfRange      Code = -310
	ErrTooBigWCharValue          Code = -311
	ErrInvalidCodePointValue     Code = -312
	ErrTooManyMultiplexDef       Code = -313
	ErrInvalidBackref            Code = -314
	ErrUnmatchedParen            Code = -315
	ErrUnmatchedCloseParen       Code = -316
	ErrUndefinedGroupOption      Code = -317
	ErrInvalidGroupName          Code = -318
	ErrInvalidCharInGroupName    Code = -319
	ErrUndefinedNameReference    Code = -320
	ErrUndefinedGroupReference   Code = -321
	ErrMultiplexDefinedName      Code = -322
	ErrInvalidCharPropertyName   Code = -323
	ErrInvalidIfElseSyntax       Code = -324
	ErrInvalidQuantifier         Code = -325
	ErrInvalidQuantifierTarget   Code = -326
	ErrTargetOfRepeatOperator    Code = -327
	ErrNestedRepeatOperator      Code = -328
	ErrUnexpectedBOL             Code = -329
	ErrUnexpectedEOL             Code = -330
	ErrInvalidLookbehindLength   Code = -331
	ErrInvalidPosixBracketType   Code = -332
	ErrNestedCharClassInPosix    Code = -333
	ErrNeverEndingRecursion      Code = -334
)
