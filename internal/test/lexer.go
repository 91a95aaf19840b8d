package test

import (
	"fmt"
	"math/rand"
	"strings"
)

const validTokens = "fn;main;:;(;);\"this is a string\";\"this is a longer string containing a bunch of text: Lorem ipsum dolor sit amet, consectetur adipiscing elit, sed do eiusmod tempor incididunt ut labore et dolore magna aliqua.\";\"\";let;const;if;else;end;return;true;false;add;x;counter_value;!=;<;>;!;123;321;#comment\n;\n"

func GetRandomTokens(size int) string {
	return GetRandomTokensWithSep(size, " ")
}

func GetRandomTokensWithSep(size int, sep string) string {
	valid := strings.Split(validTokens, ";")

	var toks []string
	for len(toks) < size {
		toks = append(toks, valid[rand.Intn(len(valid))])
	}

	return strings.Join(toks, sep)
}

// GetRandomProgram returns a well-formed source file with the given number of
// functions. Every function assigns a few variables and nests ifs up to depth.
func GetRandomProgram(funcs, depth int) string {
	var src strings.Builder
	for i := 0; i < funcs; i++ {
		fmt.Fprintf(&src, "fn func_%s a b:\n", name(i))
		fmt.Fprintf(&src, "let x %d\n", rand.Intn(1000))
		writeBlock(&src, depth)
		src.WriteString("print(x)\nend\n\n")
	}

	return src.String()
}

func writeBlock(src *strings.Builder, depth int) {
	ops := []string{"add", "sub", "mul", "div", "mod"}
	cmps := []string{"=", "!=", "<", ">"}

	for i := 0; i < 3; i++ {
		fmt.Fprintf(src, "%s x a %d\n", ops[rand.Intn(len(ops))], rand.Intn(100)+1)
	}

	if depth == 0 {
		return
	}

	fmt.Fprintf(src, "if x %s %d:\n", cmps[rand.Intn(len(cmps))], rand.Intn(100))
	writeBlock(src, depth-1)
	src.WriteString("else:\n# alternative branch\n")
	writeBlock(src, depth-1)
	src.WriteString("end\n")
}

// name spells i with letters only; identifiers cannot contain digits.
func name(i int) string {
	var b strings.Builder
	for {
		b.WriteByte(byte('a' + i%26))
		i /= 26
		if i == 0 {
			return b.String()
		}
	}
}
