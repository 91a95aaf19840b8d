package sable

import (
	"io"
	"os"
	"strings"

	"github.com/llir/llvm/ir"
	"github.com/pkg/errors"
)

type Compiler struct {
	opts []ParserOption
}

func NewCompiler(opts ...ParserOption) *Compiler {
	return &Compiler{
		opts: opts,
	}
}

func (c *Compiler) ParseFile(filename string) (*AST, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return c.Parse(filename, f)
}

// Parse runs the front-end over reader. A newline is appended to the source
// so a final line without one is still parsed.
func (c *Compiler) Parse(filename string, reader io.Reader) (*AST, error) {
	lexer, err := NewLexerFromReader(io.MultiReader(reader, strings.NewReader("\n")))
	if err != nil {
		return nil, errors.Wrap(err, filename)
	}

	tokens, err := lexer.Collect()
	if err != nil {
		return nil, errors.Wrap(err, filename)
	}

	opts := append([]ParserOption{WithFilename(filename)}, c.opts...)
	ast, err := NewParser(tokens, opts...).ParseFile()
	if err != nil {
		return nil, errors.Wrap(err, filename)
	}

	return ast, nil
}

func (c *Compiler) CompileFile(filename string) (*ir.Module, error) {
	ast, err := c.ParseFile(filename)
	if err != nil {
		return nil, err
	}

	return c.compile(ast)
}

func (c *Compiler) Compile(filename string, reader io.Reader) (*ir.Module, error) {
	ast, err := c.Parse(filename, reader)
	if err != nil {
		return nil, err
	}

	return c.compile(ast)
}

func (c *Compiler) compile(ast *AST) (*ir.Module, error) {
	mod, err := NewLLVMGenerator(ast).Do()
	if err != nil {
		return nil, errors.Wrap(err, ast.Filename)
	}

	mod.SourceFilename = ast.Filename
	return mod, nil
}
