package sable

import (
	"io"

	"github.com/pkg/errors"
)

type TokenType uint64
type stateFunc func(l *Lexer) stateFunc

//go:generate stringer -type=TokenType -trimprefix=Token
const (
	TokenIllegal TokenType = iota
	TokenEOF
	TokenNewLine

	TokenIdentifier
	TokenNumber
	TokenString
	TokenBool
	TokenComment

	TokenBang
	TokenColon
	TokenOpenParentheses
	TokenCloseParentheses
	TokenEqual
	TokenNotEqual
	TokenLessThan
	TokenGreaterThan

	TokenFunc
	TokenConst
	TokenLet
	TokenIf
	TokenElse
	TokenReturn
	TokenEnd
)

// EOF is the current byte once the input is exhausted.
const EOF byte = 0

var keywordTable = map[string]TokenType{
	"fn":     TokenFunc,
	"let":    TokenLet,
	"const":  TokenConst,
	"if":     TokenIf,
	"else":   TokenElse,
	"return": TokenReturn,
	"end":    TokenEnd,
	"true":   TokenBool,
	"false":  TokenBool,
}

var operatorTable = map[byte]TokenType{
	':': TokenColon,
	'!': TokenBang,
	'(': TokenOpenParentheses,
	')': TokenCloseParentheses,
	'<': TokenLessThan,
	'>': TokenGreaterThan,
}

type Token struct {
	Typ   TokenType
	Value string
	Loc   *Location
}

// Lexer scans a byte buffer one token at a time. It never backtracks and
// looks at most one byte past the current one.
type Lexer struct {
	src []byte
	pos int
	ch  byte

	line  int
	col   int
	start *Location

	tok Token
	err error
}

func NewLexer(src []byte) *Lexer {
	l := &Lexer{
		src:  src,
		pos:  -1,
		line: 1,
	}
	l.next()

	return l
}

func NewLexerFromReader(reader io.Reader) (*Lexer, error) {
	src, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.Wrap(err, "read source")
	}

	return NewLexer(src), nil
}

// NextToken returns the next token. Once the input is exhausted it keeps
// returning TokenEOF. A scan error is sticky.
func (l *Lexer) NextToken() (Token, error) {
	if l.err != nil {
		return Token{}, l.err
	}

	for state := defaultState; state != nil; {
		state = state(l)
	}

	if l.err != nil {
		return Token{}, l.err
	}

	return l.tok, nil
}

// Collect scans the whole input. The trailing TokenEOF is not included, and
// no tokens are returned if any scan fails.
func (l *Lexer) Collect() ([]Token, error) {
	var tokens []Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}

		if tok.Typ == TokenEOF {
			return tokens, nil
		}

		tokens = append(tokens, tok)
	}
}

func defaultState(l *Lexer) stateFunc {
	for isBlank(l.ch) {
		l.next()
	}

	l.start = &Location{Line: l.line, Col: l.col}

	switch r := l.ch; {
	case r == EOF:
		return l.emit(TokenEOF, "")
	case r == '\n':
		return l.emitNext(TokenNewLine, "\n")
	case r == '"':
		return stringState
	case r == '#':
		return commentState
	case isLetter(r):
		return identifierState
	case isDigit(r):
		return numberState
	default:
		return operatorState
	}
}

func stringState(l *Lexer) stateFunc {
	start := l.pos + 1
	for l.next(); l.ch != '"'; l.next() {
		if l.ch == EOF {
			return l.fail(ErrUnclosedString)
		}
	}

	return l.emitNext(TokenString, string(l.src[start:l.pos]))
}

func commentState(l *Lexer) stateFunc {
	start := l.pos + 1
	for r := l.peek(); r != '\n' && r != EOF; r = l.peek() {
		l.next()
	}

	return l.emitNext(TokenComment, string(l.src[start:l.pos+1]))
}

func identifierState(l *Lexer) stateFunc {
	start := l.pos
	for isLetter(l.ch) {
		l.next()
	}

	id := string(l.src[start:l.pos])
	if t, ok := keywordTable[id]; ok {
		return l.emit(t, id)
	}

	return l.emit(TokenIdentifier, id)
}

func numberState(l *Lexer) stateFunc {
	start := l.pos
	for isDigit(l.ch) {
		l.next()
	}

	return l.emit(TokenNumber, string(l.src[start:l.pos]))
}

func operatorState(l *Lexer) stateFunc {
	switch r := l.ch; r {
	case '!':
		if l.peek() == '=' {
			l.next()
			return l.emitNext(TokenNotEqual, "!=")
		}
	case '=':
		// Equality is written with a single '='; the byte after it is
		// always consumed, so "==" lexes the same way.
		l.next()
		return l.emitNext(TokenEqual, "=")
	}

	if tok, ok := operatorTable[l.ch]; ok {
		return l.emitNext(tok, string(l.ch))
	}

	return l.emitNext(TokenIllegal, string(l.ch))
}

func (l *Lexer) fail(err error) stateFunc {
	l.err = &LexError{
		Err: err,
		Loc: l.start,
	}

	return nil
}

func (l *Lexer) emitNext(t TokenType, val string) stateFunc {
	l.next()

	return l.emit(t, val)
}

func (l *Lexer) emit(t TokenType, val string) stateFunc {
	l.tok = Token{
		Typ:   t,
		Value: val,
		Loc:   l.start,
	}

	return nil
}

func (l *Lexer) peek() byte {
	if l.pos+1 >= len(l.src) {
		return EOF
	}

	return l.src[l.pos+1]
}

func (l *Lexer) next() {
	if l.ch == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}

	l.pos++
	if l.pos >= len(l.src) {
		l.ch = EOF
		return
	}

	l.ch = l.src[l.pos]
}

func isBlank(r byte) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\v' || r == '\f'
}

func isLetter(r byte) bool {
	return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || r == '_'
}

func isDigit(r byte) bool {
	return '0' <= r && r <= '9'
}
