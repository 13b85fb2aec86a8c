package onigerr

import (
	"errors"
	"fmt"
)

// Range is a half-open byte offset range [Start, End) into the pattern or
// input that produced an Error, used by parse errors so a caller can
// underline the offending bytes.
type Range struct {
	Start, End int
}

// Error is the engine's single error type. Code is always set; Range and
// Name are populated only for the error kinds that carry them (parser
// errors carry Range, a handful of name-related errors carry Name).
type Error struct {
	Code  Code
	Range Range
	Name  string

	// Wrapped, if non-nil, is an underlying cause (e.g. a Go stdlib error
	// surfaced while validating configuration). Unwrap returns it.
	Wrapped error
}

func (e *Error) Error() string {
	msg := Message(e.Code)
	if e.Name != "" {
		msg = fmt.Sprintf(msg, e.Name)
	}
	if e.Range != (Range{}) {
		return fmt.Sprintf("%s (at byte %d..%d)", msg, e.Range.Start, e.Range.End)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Wrapped
}

// New constructs an Error with no range or name.
func New(code Code) *Error {
	return &Error{Code: code}
}

// Newf constructs a name-bearing Error.
func Newf(code Code, name string) *Error {
	return &Error{Code: code, Name: name}
}

// AtRange constructs a parser Error anchored to a byte range.
func AtRange(code Code, start, end int) *Error {
	return &Error{Code: code, Range: Range{Start: start, End: end}}
}

// AtRangeName constructs a parser Error anchored to a byte range, carrying a
// name substring (e.g. "undefined group name '%s'").
func AtRangeName(code Code, start, end int, name string) *Error {
	return &Error{Code: code, Range: Range{Start: start, End: end}, Name: name}
}

// Wrap constructs an Error for code that records err as its cause.
func Wrap(code Code, err error) *Error {
	return &Error{Code: code, Wrapped: err}
}

// Sentinel errors for the handful of programmer-error cases that call
// sites check with errors.Is rather than by Code, matching // nfa.ErrInvalidState/nfa.ErrInvalidConfig style.
var (
	ErrNilProgramSentinel      = errors.New("onigerr: nil program")
	ErrStartAfterEndSentinel   = errors.New("onigerr: start > end")
	ErrFindLongestInSetSentinel = errors.New("onigerr: FIND_LONGEST is rejected by RegSet.Add")
)

// Is implements errors.Is support against the package sentinels, by mapping
// Code back to the matching sentinel.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrNilProgramSentinel:
		return e.Code == ErrNilProgram || e.Code == ErrNilProgramInSet
	case ErrStartAfterEndSentinel:
		return e.Code == ErrStartAfterEnd
	case ErrFindLongestInSetSentinel:
		return e.Code == ErrFindLongestInSet
	}
	return false
}

// IsMismatch reports whether err represents the MISMATCH sentinel result
// rather than a true failure. Search/MatchAt report a clean "no match" as
// New(Mismatch); helpers that accept a generic error use this to tell it
// apart from real errors.
func IsMismatch(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == Mismatch
	}
	return false
}
