package sable

// Line is one logical line: the tokens between two newlines.
type Line []Token

// Organize splits tokens into logical lines on TokenNewLine. Blank lines are
// dropped. A line is only closed by a newline, so tokens after the last
// TokenNewLine are not part of the result; callers that want them must
// terminate the stream with a newline.
func Organize(tokens []Token) []Line {
	var lines []Line
	var buf Line

	for _, tok := range tokens {
		if tok.Typ != TokenNewLine {
			buf = append(buf, tok)
			continue
		}

		if len(buf) != 0 {
			lines = append(lines, buf)
			buf = nil
		}
	}

	return lines
}

// Flatten is the inverse of Organize: every line is followed by a newline.
func Flatten(lines []Line) []Token {
	var tokens []Token
	for _, line := range lines {
		tokens = append(tokens, line...)
		tokens = append(tokens, Token{Typ: TokenNewLine, Value: "\n"})
	}

	return tokens
}
