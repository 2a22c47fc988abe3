// Package diagnostics models the compile-time error plane: a closed set of
// error codes, each with a message template that can cite a row number, an
// offending row, or a list of valid tags.
package diagnostics

import "fmt"

// Code identifies one of the closed set of compile-time error conditions.
type Code string

const (
	// ErrOccurrencesNotVector: occurrences argument is not a vector.
	ErrOccurrencesNotVector Code = "E001"
	// ErrOddClauseList: the clause list has odd length.
	ErrOddClauseList Code = "E002"
	// ErrRowNotVector: a row-pattern is not a vector.
	ErrRowNotVector Code = "E003"
	// ErrRowArity: a row's width does not match the occurrence vector's width.
	ErrRowArity Code = "E004"
	// ErrElseNotLast: :else appears somewhere other than the final row.
	ErrElseNotLast Code = "E005"
	// ErrUnknownWrapperTag: a wrapper list's second element is not a
	// recognized tag (:as, :when, :seq, :only, a vector-kind name, or |).
	ErrUnknownWrapperTag Code = "E006"
	// ErrEmptyOr: an Or pattern has zero alternatives.
	ErrEmptyOr Code = "E007"
	// ErrEmptySeq: a :seq pattern's element list is empty.
	ErrEmptySeq Code = "E008"
)

// Error is a single compile-time diagnostic. Row is 1-based and -1 when not
// applicable (e.g. occurrences-not-a-vector has no row).
type Error struct {
	Code    Code
	Message string
	Row     int
}

func (e *Error) Error() string {
	if e.Row >= 0 {
		return fmt.Sprintf("%s: row %d: %s", e.Code, e.Row, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func New(code Code, row int, format string, args ...any) *Error {
	return &Error{Code: code, Row: row, Message: fmt.Sprintf(format, args...)}
}

func OccurrencesNotVector(got string) *Error {
	return New(ErrOccurrencesNotVector, -1, "occurrences must be a vector, got %s", got)
}

func OddClauseList(n int) *Error {
	return New(ErrOddClauseList, -1, "clause list must have even length (pattern/action pairs), got %d forms", n)
}

func RowNotVector(row int, got string) *Error {
	return New(ErrRowNotVector, row, "pattern row must be a vector, got %s", got)
}

func RowArity(row int, gotWidth, wantWidth int, rowText string) *Error {
	return New(ErrRowArity, row, "expected %d patterns but row has %d: %s", wantWidth, gotWidth, rowText)
}

func ElseNotLast(row int) *Error {
	return New(ErrElseNotLast, row, ":else may only appear as the last row's pattern")
}

func UnknownWrapperTag(row int, tag string, valid []string) *Error {
	return New(ErrUnknownWrapperTag, row, "unknown wrapper tag %q; valid tags are %v", tag, valid)
}

func EmptyOr(row int) *Error {
	return New(ErrEmptyOr, row, "(p | q | ...) must have at least one alternative")
}

func EmptySeq(row int) *Error {
	return New(ErrEmptySeq, row, "(xs :seq) must have at least one element pattern")
}
