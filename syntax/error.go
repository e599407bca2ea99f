package syntax

import "fmt"

// ErrorCode identifies the reason a pattern was rejected.
type ErrorCode int32

const (
	// ErrInternal signals an engine invariant violation, not a caller
	// mistake: an alternation operator reached where a literal was
	// expected, or a group that cannot be located in the bracket table.
	ErrInternal ErrorCode = iota

	// ErrUnexpectedQuantifier: a quantifier with no preceding token or group.
	ErrUnexpectedQuantifier

	// ErrUnbalancedBrackets: parenthesis nesting does not return to zero,
	// a ')' without a matching open, or an empty group.
	ErrUnbalancedBrackets

	// ErrTooManyBrackets: the pattern exceeds the bracket table capacity.
	ErrTooManyBrackets

	// ErrTooManyBranches: the pattern exceeds the branch table capacity.
	ErrTooManyBranches

	// ErrInvalidCharacterSet: a '[...]' class is not closed before the
	// pattern ends.
	ErrInvalidCharacterSet

	// ErrInvalidMetacharacter: a dangling '\', an unrecognized escape
	// letter, or a malformed \xHH.
	ErrInvalidMetacharacter

	// ErrCapsArrayTooSmall: more capturing groups than the caller reserved
	// capture slots for.
	ErrCapsArrayTooSmall
)

var errorCodeNames = map[ErrorCode]string{
	ErrInternal:             "internal error",
	ErrUnexpectedQuantifier: "unexpected quantifier",
	ErrUnbalancedBrackets:   "unbalanced brackets",
	ErrTooManyBrackets:      "too many brackets",
	ErrTooManyBranches:      "too many branches",
	ErrInvalidCharacterSet:  "invalid character set",
	ErrInvalidMetacharacter: "invalid metacharacter",
	ErrCapsArrayTooSmall:    "caps array too small",
}

func (c ErrorCode) String() string {
	if s, ok := errorCodeNames[c]; ok {
		return s
	}
	return fmt.Sprintf("error code %d", int32(c))
}

// Error is the typed failure returned by pattern analysis and matching.
// Any Error aborts the whole match; there are no partial results and the
// caller's capture slots are not trustworthy afterwards.
type Error struct {
	Code    ErrorCode
	Pattern string
}

func (e *Error) Error() string {
	return fmt.Sprintf("relite: %s in pattern %q", e.Code, e.Pattern)
}

func newError(code ErrorCode, pattern string) *Error {
	return &Error{Code: code, Pattern: pattern}
}
