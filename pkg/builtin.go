package sable

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
	"github.com/pkg/errors"
)

func defineBuiltins(b *LLVMIRBuilder) {
	defineBuiltinFunc(b, "print", builtinPrint)
}

// builtinFunc lowers a call in place instead of calling a module function.
type builtinFunc = func(b *LLVMIRBuilder, args []value.Value) error

func defineBuiltinFunc(b *LLVMIRBuilder, name string, definition builtinFunc) {
	b.builtins[name] = definition
}

// builtinPrint writes each argument on its own line.
func builtinPrint(b *LLVMIRBuilder, args []value.Value) error {
	printf := b.declarePrintf()

	for _, arg := range args {
		var format string
		switch t := arg.Type(); {
		case t.Equal(types.I32):
			format = "%d\n"
		case t.Equal(types.I8Ptr):
			format = "%s\n"
		default:
			return errors.Errorf("print: unsupported type %s", t)
		}

		b.block.NewCall(printf, b.stringConstant(format), arg)
	}

	return nil
}

func (b *LLVMIRBuilder) declarePrintf() *ir.Func {
	if b.printf == nil {
		b.printf = b.mod.NewFunc("printf", types.I32, ir.NewParam("format", types.I8Ptr))
		b.printf.Sig.Variadic = true
	}

	return b.printf
}
