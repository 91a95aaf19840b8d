package main

import (
	"fmt"
	"log"
	"os"

	"github.com/kr/pretty"
	"github.com/pkg/errors"
	"github.com/xyproto/env/v2"

	"go.sable.dev/pkg"
)

// Environment:
//
//	SABLE_EMIT       tokens, ast (default) or ir
//	SABLE_MAX_DEPTH  maximum block nesting, defaults to sable.DefaultMaxDepth
func main() {
	log.SetFlags(0)
	log.SetPrefix("sable: ")

	if len(os.Args) != 2 {
		log.Fatal("usage: sable <file>")
	}

	filename := os.Args[1]
	c := sable.NewCompiler(sable.WithMaxDepth(env.Int("SABLE_MAX_DEPTH", sable.DefaultMaxDepth)))

	switch mode := env.Str("SABLE_EMIT", "ast"); mode {
	case "tokens":
		toks, err := tokens(filename)
		if err != nil {
			exit(err)
		}

		for _, tok := range toks {
			fmt.Printf("%s\t%s\t%q\n", tok.Loc, tok.Typ, tok.Value)
		}
	case "ast":
		ast, err := c.ParseFile(filename)
		if err != nil {
			exit(err)
		}

		pretty.Println(ast.Statements)
	case "ir":
		mod, err := c.CompileFile(filename)
		if err != nil {
			exit(err)
		}

		fmt.Println(mod)
	default:
		log.Fatalf("unknown SABLE_EMIT %q", mode)
	}
}

func tokens(filename string) ([]sable.Token, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	lexer, err := sable.NewLexerFromReader(f)
	if err != nil {
		return nil, err
	}

	return lexer.Collect()
}

func exit(err error) {
	printError(err)
	os.Exit(1)
}

func printError(err error) {
	var lexErr *sable.LexError
	var parseErr *sable.ParseError

	switch {
	case errors.As(err, &lexErr):
		fmt.Fprintln(os.Stderr, "Syntax error:", lexErr.Err, "at", lexErr.Loc)
	case errors.As(err, &parseErr):
		fmt.Fprintln(os.Stderr, "Parse error:", parseErr.Kind, "at", parseErr.Loc, "in logical line", parseErr.Pos)
	default:
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
}
