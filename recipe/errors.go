package recipe

import (
	"errors"
	"strconv"
)

// Sentinel errors, matched with errors.Is against the wrapped errors carried
// by ParseError and StepError. Mirrors the teacher's dsl/errors.go
// convention of one sentinel per failure category.
var (
	ErrUnknownDirective = errors.New("unknown directive")
	ErrMissingField     = errors.New("missing field")
	ErrMalformedNumber  = errors.New("malformed number")
	ErrUnsupportedOption = errors.New("unsupported option")
	ErrEmptyLiteral     = errors.New("empty literal")
	ErrBadEscape        = errors.New("bad delimiter escape")

	ErrMissingColumn  = errors.New("missing column")
	ErrTypeMismatch   = errors.New("type mismatch")
	ErrMalformedInput = errors.New("malformed input")
	ErrEvalFailed     = errors.New("expression evaluation failed")
)

// ParseError is raised synchronously by the recipe parser (spec.md §7.1).
// It always carries the 1-based source line number and, where the directive
// has a usage template, that template string.
type ParseError struct {
	Line      int
	Directive string
	Usage     string
	Err       error
}

func (e *ParseError) Error() string {
	msg := e.Err.Error()
	if e.Usage != "" {
		return msg + " (usage: " + e.Usage + ")"
	}
	return msg
}

func (e *ParseError) Unwrap() error { return e.Err }

// StepError is raised during execution (spec.md §7.2). It carries the
// directive text and line number of the step that failed.
type StepError struct {
	Line      int
	Directive string
	Err       error
}

func (e *StepError) Error() string {
	return e.Directive + " (line " + strconv.Itoa(e.Line) + "): " + e.Err.Error()
}

func (e *StepError) Unwrap() error { return e.Err }
