package sable

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.sable.dev/internal/test"
)

func organizeSource(t *testing.T, src string) []Line {
	toks, err := NewLexer([]byte(src)).Collect()
	require.NoError(t, err)

	return Organize(toks)
}

// countSourceLines counts the newline-terminated lines holding anything but blanks.
func countSourceLines(src string) int {
	parts := strings.Split(src, "\n")

	n := 0
	for _, part := range parts[:len(parts)-1] {
		if strings.TrimSpace(part) != "" {
			n++
		}
	}

	return n
}

func TestOrganize(t *testing.T) {
	cases := []struct {
		data   string
		expect []Line
	}{
		{
			"let a 5\nadd a 1\n",
			[]Line{
				{{TokenLet, "let", nil}, {TokenIdentifier, "a", nil}, {TokenNumber, "5", nil}},
				{{TokenIdentifier, "add", nil}, {TokenIdentifier, "a", nil}, {TokenNumber, "1", nil}},
			},
		},
		{
			"\n\n   \nend\n\n\nend\n",
			[]Line{
				{{TokenEnd, "end", nil}},
				{{TokenEnd, "end", nil}},
			},
		},
		{
			// Only a newline closes a line
			"end\nlet a 5",
			[]Line{
				{{TokenEnd, "end", nil}},
			},
		},
		{
			"",
			nil,
		},
		{
			"\n\n",
			nil,
		},
	}

	for _, c := range cases {
		lines := organizeSource(t, c.data)

		var got []Line
		for _, line := range lines {
			got = append(got, withoutLocations(line))
		}

		assert.Equal(t, c.expect, got, c.data)
	}
}

func TestOrganizeLineCount(t *testing.T) {
	cases := []string{
		"fn main:\nlet a 5\nend\n",
		"\n\nfn main:\n\n  let a 5\n   \n# note\nend\n\n",
		"fn a:\nend\nfn b x y:\nif x < y:\nprint(x)\nelse:\nprint(y)\nend\nend\n",
		"fn main:\nend",
		test.GetRandomProgram(5, 3),
	}

	for _, src := range cases {
		assert.Len(t, organizeSource(t, src), countSourceLines(src), src)
	}
}

func TestOrganizeIdempotent(t *testing.T) {
	cases := []string{
		"fn main:\nlet a 5\nif a != 4:\nadd a a 6\nend\nend\n",
		"\n\n# leading blank lines\n\nlet a 1\n\n\n",
		"let a 1\nlet b",
		test.GetRandomProgram(3, 2),
	}

	for _, src := range cases {
		lines := organizeSource(t, src)
		again := Organize(Flatten(lines))

		assert.Equal(t, lines, again, src)

		for _, line := range again {
			assert.NotEmpty(t, line)
			for _, tok := range line {
				assert.NotEqual(t, TokenNewLine, tok.Typ)
			}
		}
	}
}

func TestFlatten(t *testing.T) {
	lines := []Line{
		{{TokenEnd, "end", nil}},
		{{TokenLet, "let", nil}, {TokenIdentifier, "a", nil}},
	}

	assert.Equal(t, []Token{
		{TokenEnd, "end", nil},
		{TokenNewLine, "\n", nil},
		{TokenLet, "let", nil},
		{TokenIdentifier, "a", nil},
		{TokenNewLine, "\n", nil},
	}, Flatten(lines))
	assert.Nil(t, Flatten(nil))
}
