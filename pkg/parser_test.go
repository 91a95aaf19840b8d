package sable

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.sable.dev/internal/test"
)

func parseSource(t *testing.T, src string, opts ...ParserOption) (*AST, error) {
	toks, err := NewLexer([]byte(src)).Collect()
	require.NoError(t, err)

	return NewParser(toks, opts...).ParseFile()
}

func num(v string) *LiteralExpr {
	return &LiteralExpr{Typ: LiteralNumber, Value: v}
}

func id(name string) *Identifier {
	return &Identifier{Name: name}
}

func assign(name string, value Expr) *BinaryExpr {
	return &BinaryExpr{
		Operation: BinaryAssign,
		Op1:       id(name),
		Op2:       value,
	}
}

func TestParser(t *testing.T) {
	cases := []struct {
		data   string
		expect []Expr
	}{
		{
			"fn main:\nlet a 5\nif a != 4:\nadd a a 6\nend\nend",
			[]Expr{
				&FuncDecl{
					Name: "main",
					Body: []Expr{
						assign("a", num("5")),
						&IfStmt{
							Cond: &BinaryExpr{
								Operation: BinaryNotEqual,
								Op1:       id("a"),
								Op2:       num("4"),
							},
							Body: []Expr{
								assign("a", &BinaryExpr{
									Operation: BinaryAddition,
									Op1:       id("a"),
									Op2:       num("6"),
								}),
							},
						},
					},
				},
			},
		},
		{
			"add x 2\n",
			[]Expr{
				assign("x", &BinaryExpr{
					Operation: BinaryAddition,
					Op1:       id("x"),
					Op2:       num("2"),
				}),
			},
		},
		{
			"sub d a b\nmul d d 2\ndiv d 3\nmod d 7\n",
			[]Expr{
				assign("d", &BinaryExpr{BinarySubtraction, id("a"), id("b")}),
				assign("d", &BinaryExpr{BinaryMultiplication, id("d"), num("2")}),
				assign("d", &BinaryExpr{BinaryDivision, id("d"), num("3")}),
				assign("d", &BinaryExpr{BinaryModulo, id("d"), num("7")}),
			},
		},
		{
			"let ok true\nlet s \"hello, world\"\nlet b a\n",
			[]Expr{
				assign("ok", &LiteralExpr{LiteralBool, "true"}),
				assign("s", &LiteralExpr{LiteralString, "hello, world"}),
				assign("b", id("a")),
			},
		},
		{
			"const PI 3\nconst greeting \"hi\"\nconst debug false\n",
			[]Expr{
				&ConstDecl{Name: "PI", Value: "3", Typ: LiteralNumber},
				&ConstDecl{Name: "greeting", Value: "hi", Typ: LiteralString},
				&ConstDecl{Name: "debug", Value: "false", Typ: LiteralBool},
			},
		},
		{
			"print(a \"s\" 1 true)\nfoo()\n",
			[]Expr{
				&FuncCall{
					Name: "print",
					Args: []Expr{
						id("a"),
						&LiteralExpr{LiteralString, "s"},
						num("1"),
						&LiteralExpr{LiteralBool, "true"},
					},
				},
				&FuncCall{
					Name: "foo",
					Args: nil,
				},
			},
		},
		{
			"fn sum a b:\nadd r a b\nend\nfn twice twice x:\nend\n",
			[]Expr{
				&FuncDecl{
					Name:   "sum",
					Params: []*Identifier{id("a"), id("b")},
					Body: []Expr{
						assign("r", &BinaryExpr{BinaryAddition, id("a"), id("b")}),
					},
				},
				&FuncDecl{
					Name:   "twice",
					Params: []*Identifier{id("x")},
				},
			},
		},
		{
			"fn main:\nif a < 1:\nprint(a)\nelse:\nprint(b)\nend\nlet c 1\nend\n",
			[]Expr{
				&FuncDecl{
					Name: "main",
					Body: []Expr{
						&IfStmt{
							Cond: &BinaryExpr{BinaryLessThan, id("a"), num("1")},
							Body: []Expr{&FuncCall{Name: "print", Args: []Expr{id("a")}}},
							Else: []Expr{&FuncCall{Name: "print", Args: []Expr{id("b")}}},
						},
						assign("c", num("1")),
					},
				},
			},
		},
		{
			"fn main:\nif a > 1:\nif a = 2:\nprint(a)\nend\nend\nend\n",
			[]Expr{
				&FuncDecl{
					Name: "main",
					Body: []Expr{
						&IfStmt{
							Cond: &BinaryExpr{BinaryGreaterThan, id("a"), num("1")},
							Body: []Expr{
								&IfStmt{
									Cond: &BinaryExpr{BinaryEqual, id("a"), num("2")},
									Body: []Expr{&FuncCall{Name: "print", Args: []Expr{id("a")}}},
								},
							},
						},
					},
				},
			},
		},
		{
			"# header\nfn main:\n# inside\nlet a 1 # trailing\nend\n\nconst b 2\n",
			[]Expr{
				&FuncDecl{
					Name: "main",
					Body: []Expr{assign("a", num("1"))},
				},
				&ConstDecl{Name: "b", Value: "2", Typ: LiteralNumber},
			},
		},
		{
			// An unterminated block runs to the end of input
			"fn main:\nlet a 1\nif a = 1:\nlet a 2\n",
			[]Expr{
				&FuncDecl{
					Name: "main",
					Body: []Expr{
						assign("a", num("1")),
						&IfStmt{
							Cond: &BinaryExpr{BinaryEqual, id("a"), num("1")},
							Body: []Expr{assign("a", num("2"))},
						},
					},
				},
			},
		},
		{
			"",
			nil,
		},
	}

	for _, c := range cases {
		got, err := parseSource(t, c.data)
		require.NoError(t, err, c.data)

		assert.Equal(t, &AST{Statements: c.expect}, got, c.data)
	}
}

func TestParserTokens(t *testing.T) {
	toks := []Token{
		{TokenFunc, "fn", nil},
		{TokenIdentifier, "main", nil},
		{TokenColon, ":", nil},
		{TokenNewLine, "\n", nil},
		{TokenLet, "let", nil},
		{TokenIdentifier, "a", nil},
		{TokenNumber, "5", nil},
		{TokenNewLine, "\n", nil},
		{TokenEnd, "end", nil},
		{TokenNewLine, "\n", nil},
		{TokenEOF, "", nil},
		{TokenNewLine, "\n", nil},
		{TokenConst, "const", nil},
		{TokenIdentifier, "ignored", nil},
		{TokenNumber, "1", nil},
		{TokenNewLine, "\n", nil},
	}

	got, err := NewParser(toks, WithFilename("testing")).ParseFile()
	require.NoError(t, err)

	assert.Equal(t, &AST{
		Filename: "testing",
		Statements: []Expr{
			&FuncDecl{
				Name: "main",
				Body: []Expr{assign("a", num("5"))},
			},
		},
	}, got)
}

func TestParserErrors(t *testing.T) {
	cases := []struct {
		data string
		kind ParseErrorKind
		pos  int
		col  int
	}{
		{"if a ? 4:\n", ExpectedOperator, 0, 2},
		{"fn main:\nif a 4 4:\nend\nend\n", ExpectedOperator, 1, 2},
		{"if a !=\n", MissingOperand, 0, 3},
		{"let 5 5\n", InvalidOperand, 0, 1},
		{"let\n", MissingOperand, 0, 1},
		{"let a\n", MissingOperand, 0, 2},
		{"let a :\n", InvalidOperand, 0, 2},
		{"fn main:\nlet a @\nend\n", InvalidOperand, 1, 2},
		{"fn 1:\n", InvalidOperand, 0, 1},
		{"const a b\n", InvalidConstant, 0, 2},
		{"add x\n", InvalidOperation, 0, -1},
		{"add 1 2\n", InvalidOperation, 0, -1},
		{"add x 1 :\n", InvalidOperand, 0, 3},
		{"foo bar\n", InvalidOperation, 0, -1},
		{"foo\n", InvalidOperation, 0, -1},
		{"foo(a\n", InvalidOperation, 0, -1},
		{"foo(a :)\n", InvalidOperand, 0, 3},
		{"return a\n", UnexpectedToken, 0, 0},
		{":\n", UnexpectedToken, 0, 0},
		{"end\n", UnexpectedToken, 0, 0},
		{"else:\n", UnexpectedToken, 0, 0},
		{"fn main:\nelse:\nend\n", UnexpectedToken, 1, 0},
		{"fn main:\nif a = 1:\nelse:\nelse:\nend\nend\n", UnexpectedToken, 3, 0},
		{"let a 1\nfn main:\nlet b 2\n!\nend\n", UnexpectedToken, 3, 0},
	}

	for _, c := range cases {
		got, err := parseSource(t, c.data)
		assert.Nil(t, got, c.data)

		var parseErr *ParseError
		if assert.ErrorAs(t, err, &parseErr, c.data) {
			assert.Equal(t, c.kind, parseErr.Kind, c.data)
			assert.Equal(t, c.pos, parseErr.Pos, c.data)
			assert.Equal(t, c.col, parseErr.Col, c.data)
			assert.NotNil(t, parseErr.Loc, c.data)
		}
	}
}

func TestParserErrorMessage(t *testing.T) {
	_, err := parseSource(t, "if a ? 4:\n")

	assert.True(t, errors.Is(err, &ParseError{Kind: ExpectedOperator}))
	assert.False(t, errors.Is(err, &ParseError{Kind: InvalidOperand}))
	assert.EqualError(t, err, "1:6 expected operator at line 0, token 2")

	_, err = parseSource(t, "add x\n")
	assert.EqualError(t, err, "1:1 invalid operation at line 0")
}

func TestParserEmptyLine(t *testing.T) {
	p := &Parser{
		lines:    []Line{{}},
		maxDepth: DefaultMaxDepth,
	}

	_, err := p.ParseFile()

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, EmptyLine, parseErr.Kind)
	assert.Nil(t, parseErr.Loc)
	assert.EqualError(t, err, "empty line at line 0")
}

func TestParserMaxDepth(t *testing.T) {
	nested := func(n int) string {
		return strings.Repeat("if a = 1:\n", n) + strings.Repeat("end\n", n)
	}

	_, err := parseSource(t, nested(5), WithMaxDepth(5))
	assert.NoError(t, err)

	_, err = parseSource(t, nested(6), WithMaxDepth(5))
	assert.True(t, errors.Is(err, &ParseError{Kind: NestingTooDeep}))

	// Unmatched openers never loop; they hit the limit or the end of input
	_, err = parseSource(t, strings.Repeat("fn main:\n", DefaultMaxDepth+10))
	assert.True(t, errors.Is(err, &ParseError{Kind: NestingTooDeep}))

	ast, err := parseSource(t, strings.Repeat("fn main:\n", 10))
	require.NoError(t, err)
	assert.Len(t, ast.Statements, 1)

	// Ignored
	_, err = parseSource(t, nested(6), WithMaxDepth(0))
	assert.NoError(t, err)
}

func TestParserFunctionBodies(t *testing.T) {
	statements := []string{
		"let a %d",
		"add a %d",
		"sub a a %d",
		"print(a %d)",
		"const c%s 1",
		"# comment %d",
		"",
	}

	for n := 0; n < 50; n++ {
		var src strings.Builder
		src.WriteString("fn generated:\n")

		expect := 0
		for i := rand.Intn(20); i > 0; i-- {
			stmt := statements[rand.Intn(len(statements))]
			switch {
			case strings.Contains(stmt, "%s"):
				stmt = fmt.Sprintf(stmt, strings.Repeat("x", i))
			case strings.Contains(stmt, "%d"):
				stmt = fmt.Sprintf(stmt, i)
			}

			if stmt != "" && !strings.HasPrefix(stmt, "#") {
				expect++
			}

			src.WriteString(stmt + "\n")
		}

		src.WriteString("end\n")

		ast, err := parseSource(t, src.String())
		require.NoError(t, err, src.String())
		require.Len(t, ast.Statements, 1)

		fn, ok := ast.Statements[0].(*FuncDecl)
		require.True(t, ok)
		assert.Equal(t, "generated", fn.Name)
		assert.Len(t, fn.Body, expect, src.String())
	}
}

func TestParserRandomProgram(t *testing.T) {
	ast, err := parseSource(t, test.GetRandomProgram(10, 4))
	require.NoError(t, err)
	assert.Len(t, ast.Statements, 10)

	for _, stmt := range ast.Statements {
		assert.IsType(t, &FuncDecl{}, stmt)
	}
}

var benchAST *AST

func benchmarkParser(funcs int, b *testing.B) {
	for n := 0; n < b.N; n++ {
		b.StopTimer()
		toks, err := NewLexer([]byte(test.GetRandomProgram(funcs, 3))).Collect()
		if err != nil {
			b.Fatal(err)
		}
		b.StartTimer()

		benchAST, err = NewParser(toks).ParseFile()
		if err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkParser10(b *testing.B) {
	benchmarkParser(10, b)
}

func BenchmarkParser100(b *testing.B) {
	benchmarkParser(100, b)
}

func BenchmarkParser1000(b *testing.B) {
	benchmarkParser(1000, b)
}
