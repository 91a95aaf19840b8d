package sable

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrUnclosedString is reported when the input ends inside a string literal.
var ErrUnclosedString = errors.New("unclosed string literal")

type Location struct {
	Line int
	Col  int
}

func (l *Location) String() string {
	if l == nil {
		return "?:?"
	}

	return fmt.Sprintf("%d:%d", l.Line, l.Col)
}

type LexError struct {
	Err error
	Loc *Location
}

func (e *LexError) Error() string {
	return fmt.Sprintf("%s %s", e.Loc, e.Err)
}

func (e *LexError) Unwrap() error {
	return e.Err
}

type ParseErrorKind int

const (
	EmptyLine ParseErrorKind = iota
	UnexpectedToken
	InvalidOperation
	MissingOperand
	InvalidOperand
	ExpectedOperator
	InvalidConstant
	NestingTooDeep
)

var parseErrorMessages = map[ParseErrorKind]string{
	EmptyLine:        "empty line",
	UnexpectedToken:  "unexpected token",
	InvalidOperation: "invalid operation",
	MissingOperand:   "missing operand",
	InvalidOperand:   "invalid operand",
	ExpectedOperator: "expected operator",
	InvalidConstant:  "invalid constant",
	NestingTooDeep:   "nesting too deep",
}

func (k ParseErrorKind) String() string {
	if msg, ok := parseErrorMessages[k]; ok {
		return msg
	}

	return fmt.Sprintf("ParseErrorKind(%d)", int(k))
}

// ParseError reports the first malformed line. Pos is the index of the logical
// line, Col the index of the offending token within it (-1 when the error
// concerns the line as a whole). Loc points into the source text when known.
type ParseError struct {
	Kind ParseErrorKind
	Pos  int
	Col  int
	Loc  *Location
}

func (e *ParseError) Error() string {
	var where string
	if e.Col >= 0 {
		where = fmt.Sprintf("line %d, token %d", e.Pos, e.Col)
	} else {
		where = fmt.Sprintf("line %d", e.Pos)
	}

	if e.Loc != nil {
		return fmt.Sprintf("%s %s at %s", e.Loc, e.Kind, where)
	}

	return fmt.Sprintf("%s at %s", e.Kind, where)
}

// Is matches another *ParseError of the same kind, so callers can test with
// errors.Is(err, &ParseError{Kind: ExpectedOperator}).
func (e *ParseError) Is(target error) bool {
	t, ok := target.(*ParseError)
	return ok && t.Kind == e.Kind
}
