package core

import "fmt"

// ErrorKind identifies the category of failure a core operation reports.
// The core never panics: every fallible operation returns a *PuzzleError
// instead, mirroring how the teacher's solver reports contradictions and
// invalid moves as data rather than exceptions.
type ErrorKind string

const (
	ErrInvalidCategories    ErrorKind = "invalid_categories"
	ErrUnknownCategoryValue ErrorKind = "unknown_category_or_value"
	ErrClueNotTrue          ErrorKind = "clue_not_true"
	ErrClueRedundant        ErrorKind = "clue_redundant"
	ErrInconsistent         ErrorKind = "inconsistent"
	ErrNoMatchingClue       ErrorKind = "no_matching_clue"
	ErrTimeout              ErrorKind = "timeout"
	ErrConfiguration        ErrorKind = "configuration_error"
)

// PuzzleError is the sole error type returned from core packages. Message is
// a short, UI-agnostic description; Category/Value/Other carry optional
// diagnostic context (e.g. which category/value pair drove a row to zero
// possibilities) the way the teacher's constraint-violation moves name the
// exact colliding cells rather than just saying "invalid".
type PuzzleError struct {
	Kind     ErrorKind
	Message  string
	Category string
	Value    string
	Other    string
}

func (e *PuzzleError) Error() string {
	if e.Category == "" && e.Value == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s (category=%q value=%q)", e.Kind, e.Message, e.Category, e.Value)
}

// NewError builds a plain PuzzleError with no diagnostic context.
func NewError(kind ErrorKind, format string, args ...any) *PuzzleError {
	return &PuzzleError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// NewContextError builds a PuzzleError annotated with the category/value
// that triggered it, for contradiction diagnostics (SPEC_FULL.md §6.2).
func NewContextError(kind ErrorKind, category, value string, format string, args ...any) *PuzzleError {
	return &PuzzleError{Kind: kind, Message: fmt.Sprintf(format, args...), Category: category, Value: value}
}

// Is supports errors.Is(err, &PuzzleError{Kind: ...}) comparisons by kind.
func (e *PuzzleError) Is(target error) bool {
	other, ok := target.(*PuzzleError)
	if !ok {
		return false
	}
	return other.Kind == e.Kind
}

// Is reports whether err is a *PuzzleError of the given kind.
func Is(err error, kind ErrorKind) bool {
	pe, ok := err.(*PuzzleError)
	if !ok {
		return false
	}
	return pe.Kind == kind
}
