// Package vm implements the backtracking executor: an explicit match-stack interpreter over a
// compiler.Program, with the fast-scan pre-filter, limit enforcement, and
// capture-region production describes.
package vm

import "time"

// Limits collects every "Counters & limits" policy plus the
// parser's parse-depth limit, mirrored here only as documentation (the
// parser enforces its own limit directly); this mirrors the
// Config/DefaultConfig/Validate shape used throughout the module.
type Limits struct {
	// RetryLimitInMatch counts opcode-level retries (backtracks) within one
	// match_at call. Default: 10,000,000.
	RetryLimitInMatch int

	// MatchStackLimit bounds the number of match-stack entries; 0 = unlimited.
	MatchStackLimit int

	// SubexpCallLimitInSearch bounds total CALL invocations across one
	// search. 0 = unlimited.
	SubexpCallLimitInSearch int

	// SubexpCallMaxNestLevel bounds subexp-call recursion depth. Default: 20.
	SubexpCallMaxNestLevel int

	// TimeLimit is the wall-clock deadline, checked at bytecode back-edges.
	// Zero means no deadline.
	TimeLimit time.Duration
}

// DefaultLimits returns the documented defaults.
func DefaultLimits() Limits {
	return Limits{
		RetryLimitInMatch:       10_000_000,
		MatchStackLimit:         0,
		SubexpCallLimitInSearch: 0,
		SubexpCallMaxNestLevel:  20,
		TimeLimit:               0,
	}
}

// Validate reports whether l's fields are in range.
func (l Limits) Validate() error {
	if l.RetryLimitInMatch < 0 {
		return limitsError("RetryLimitInMatch must be >= 0")
	}
	if l.SubexpCallMaxNestLevel < 0 {
		return limitsError("SubexpCallMaxNestLevel must be >= 0")
	}
	return nil
}

type limitsError string

func (e limitsError) Error() string { return "vm: invalid limits: " + string(e) }
