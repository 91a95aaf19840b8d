package sable

import (
	"fmt"
	"strconv"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
	"github.com/pkg/errors"
)

// Slot is the storage behind a name: an alloca for variables and
// parameters, a global for top-level constants.
type Slot struct {
	Addr     value.Value
	Elem     types.Type
	ReadOnly bool
}

type ValueLookup struct {
	vals map[string]*Slot
}

func NewValueLookup() *ValueLookup {
	return &ValueLookup{
		vals: make(map[string]*Slot),
	}
}

func (l *ValueLookup) Inherit(t2 *ValueLookup) {
	for k, v := range t2.vals {
		l.Set(k, v)
	}
}

func (l *ValueLookup) Get(id string) (*Slot, bool) {
	s, ok := l.vals[id]
	return s, ok
}

func (l *ValueLookup) Set(id string, s *Slot) {
	l.vals[id] = s
}

type LLVMIRBuilder struct {
	mod    *ir.Module
	fn     *ir.Func
	entry  *ir.Block
	block  *ir.Block
	values *ValueLookup

	funcs    map[string]*ir.Func
	builtins map[string]builtinFunc
	strs     map[string]*ir.Global
	printf   *ir.Func
	ifs      int
}

func NewLLVMIRBuilder() *LLVMIRBuilder {
	builder := &LLVMIRBuilder{
		mod:      ir.NewModule(),
		values:   NewValueLookup(),
		funcs:    make(map[string]*ir.Func),
		builtins: make(map[string]builtinFunc),
		strs:     make(map[string]*ir.Global),
	}

	defineBuiltins(builder)
	return builder
}

func (b *LLVMIRBuilder) isDefined(name string) bool {
	if _, ok := b.funcs[name]; ok {
		return true
	}

	if _, ok := b.builtins[name]; ok {
		return true
	}

	_, ok := b.values.Get(name)
	return ok || name == "printf"
}

func (b *LLVMIRBuilder) declareFunc(expr *FuncDecl) error {
	if b.isDefined(expr.Name) {
		return errors.Errorf("%s redeclared", expr.Name)
	}

	seen := make(map[string]bool)
	params := make([]*ir.Param, len(expr.Params))
	for i, p := range expr.Params {
		if seen[p.Name] {
			return errors.Errorf("func %s: duplicate parameter %s", expr.Name, p.Name)
		}

		seen[p.Name] = true
		params[i] = ir.NewParam(p.Name, types.I32)
	}

	// TODO: Allow returns once the grammar has a return statement
	b.funcs[expr.Name] = b.mod.NewFunc(expr.Name, types.Void, params...)
	return nil
}

func (b *LLVMIRBuilder) global(expr *ConstDecl) error {
	if b.isDefined(expr.Name) {
		return errors.Errorf("%s redeclared", expr.Name)
	}

	v, err := b.literal(&LiteralExpr{Typ: expr.Typ, Value: expr.Value})
	if err != nil {
		return errors.Wrapf(err, "const %s", expr.Name)
	}

	c := v.(constant.Constant)
	g := b.mod.NewGlobalDef(expr.Name, c)
	g.Immutable = true

	b.values.Set(expr.Name, &Slot{
		Addr:     g,
		Elem:     c.Type(),
		ReadOnly: true,
	})

	return nil
}

func (b *LLVMIRBuilder) function(expr *FuncDecl) error {
	f := b.funcs[expr.Name]
	b.fn = f
	b.entry = f.NewBlock("fn.entry")
	b.block = b.entry

	prevVals := b.values
	b.values = NewValueLookup()
	b.values.Inherit(prevVals)

	defer func() {
		b.fn, b.entry, b.block = nil, nil, nil
		b.values = prevVals
	}()

	for i, param := range f.Params {
		addr := b.alloca(expr.Params[i].Name, types.I32)
		b.entry.NewStore(param, addr)
		b.values.Set(expr.Params[i].Name, &Slot{
			Addr: addr,
			Elem: types.I32,
		})
	}

	for _, stmt := range expr.Body {
		if err := b.statement(stmt); err != nil {
			return errors.Wrapf(err, "func %s", expr.Name)
		}
	}

	if b.block.Term == nil {
		b.block.NewRet(nil)
	}

	return nil
}

// alloca reserves a stack slot in the entry block so it dominates every use.
func (b *LLVMIRBuilder) alloca(name string, typ types.Type) *ir.InstAlloca {
	addr := b.entry.NewAlloca(typ)
	addr.SetName(name + ".addr")

	return addr
}

func (b *LLVMIRBuilder) statement(expr Expr) error {
	switch e := expr.(type) {
	case *BinaryExpr:
		if e.Operation == BinaryAssign {
			return b.assign(e)
		}
	case *FuncCall:
		return b.functionCall(e)
	case *IfStmt:
		return b.ifStmt(e)
	case *ConstDecl:
		return b.localConst(e)
	case *FuncDecl:
		return errors.Errorf("nested function %s", e.Name)
	}

	_, err := b.load(expr)
	return err
}

func (b *LLVMIRBuilder) assign(expr *BinaryExpr) error {
	id, ok := expr.Op1.(*Identifier)
	if !ok {
		return errors.Errorf("cannot assign to %T", expr.Op1)
	}

	v, err := b.load(expr.Op2)
	if err != nil {
		return err
	}

	s, ok := b.values.Get(id.Name)
	if !ok {
		s = &Slot{
			Addr: b.alloca(id.Name, v.Type()),
			Elem: v.Type(),
		}
		b.values.Set(id.Name, s)
	}

	if s.ReadOnly {
		return errors.Errorf("cannot assign to constant %s", id.Name)
	}

	if !s.Elem.Equal(v.Type()) {
		return errors.Errorf("cannot assign %s to %s of type %s", v.Type(), id.Name, s.Elem)
	}

	b.block.NewStore(v, s.Addr)
	return nil
}

func (b *LLVMIRBuilder) localConst(expr *ConstDecl) error {
	if _, ok := b.values.Get(expr.Name); ok {
		return errors.Errorf("%s redeclared", expr.Name)
	}

	v, err := b.literal(&LiteralExpr{Typ: expr.Typ, Value: expr.Value})
	if err != nil {
		return err
	}

	addr := b.alloca(expr.Name, v.Type())
	b.block.NewStore(v, addr)
	b.values.Set(expr.Name, &Slot{
		Addr:     addr,
		Elem:     v.Type(),
		ReadOnly: true,
	})

	return nil
}

func (b *LLVMIRBuilder) ifStmt(expr *IfStmt) error {
	if e, ok := expr.Cond.(*BinaryExpr); !ok || !e.Operation.IsComparison() {
		return errors.New("if condition is not a comparison")
	}

	cond, err := b.load(expr.Cond)
	if err != nil {
		return err
	}

	n := b.ifs
	b.ifs++

	then := b.fn.NewBlock(fmt.Sprintf("if.then.%d", n))
	var otherwise *ir.Block
	if len(expr.Else) != 0 {
		otherwise = b.fn.NewBlock(fmt.Sprintf("if.else.%d", n))
	}
	done := b.fn.NewBlock(fmt.Sprintf("if.end.%d", n))

	if otherwise == nil {
		b.block.NewCondBr(cond, then, done)
	} else {
		b.block.NewCondBr(cond, then, otherwise)
	}

	if err := b.branch(then, done, expr.Body); err != nil {
		return err
	}

	if otherwise != nil {
		if err := b.branch(otherwise, done, expr.Else); err != nil {
			return err
		}
	}

	b.block = done
	return nil
}

func (b *LLVMIRBuilder) branch(start, done *ir.Block, body []Expr) error {
	b.block = start
	for _, stmt := range body {
		if err := b.statement(stmt); err != nil {
			return err
		}
	}

	if b.block.Term == nil {
		b.block.NewBr(done)
	}

	return nil
}

func (b *LLVMIRBuilder) load(expr Expr) (value.Value, error) {
	switch e := expr.(type) {
	case *LiteralExpr:
		return b.literal(e)
	case *Identifier:
		s, ok := b.values.Get(e.Name)
		if !ok {
			return nil, errors.Errorf("undefined: %s", e.Name)
		}

		return b.block.NewLoad(s.Elem, s.Addr), nil
	case *BinaryExpr:
		return b.binaryExpression(e)
	case *FuncCall:
		return nil, errors.Errorf("%s does not return a value", e.Name)
	default:
		return nil, errors.Errorf("unexpected %T", expr)
	}
}

func (b *LLVMIRBuilder) binaryExpression(expr *BinaryExpr) (value.Value, error) {
	if expr.Operation == BinaryAssign {
		return nil, errors.New("assignment used as a value")
	}

	v1, err := b.load(expr.Op1)
	if err != nil {
		return nil, err
	}

	v2, err := b.load(expr.Op2)
	if err != nil {
		return nil, err
	}

	isEquality := expr.Operation == BinaryEqual || expr.Operation == BinaryNotEqual
	if isEquality && !v1.Type().Equal(v2.Type()) || !isEquality && (!v1.Type().Equal(types.I32) || !v2.Type().Equal(types.I32)) {
		return nil, errors.Errorf("undefined operation: %s %s %s", v1.Type(), expr.Operation, v2.Type())
	}

	switch expr.Operation {
	case BinaryAddition:
		return b.block.NewAdd(v1, v2), nil
	case BinarySubtraction:
		return b.block.NewSub(v1, v2), nil
	case BinaryMultiplication:
		return b.block.NewMul(v1, v2), nil
	case BinaryDivision:
		return b.block.NewSDiv(v1, v2), nil
	case BinaryModulo:
		return b.block.NewSRem(v1, v2), nil
	case BinaryEqual:
		return b.block.NewICmp(enum.IPredEQ, v1, v2), nil
	case BinaryNotEqual:
		return b.block.NewICmp(enum.IPredNE, v1, v2), nil
	case BinaryLessThan:
		return b.block.NewICmp(enum.IPredSLT, v1, v2), nil
	case BinaryGreaterThan:
		return b.block.NewICmp(enum.IPredSGT, v1, v2), nil
	default:
		return nil, errors.Errorf("unexpected binary op: %s", expr.Operation)
	}
}

func (b *LLVMIRBuilder) literal(expr *LiteralExpr) (value.Value, error) {
	switch expr.Typ {
	case LiteralString:
		return b.stringConstant(expr.Value), nil
	case LiteralBool:
		if expr.Value == "true" {
			return constant.NewInt(types.I32, 1), nil
		}

		return constant.NewInt(types.I32, 0), nil
	case LiteralNumber:
		v, err := strconv.ParseInt(expr.Value, 10, 32)
		if err != nil {
			return nil, errors.Wrapf(err, "integer literal %s", expr.Value)
		}

		return constant.NewInt(types.I32, v), nil
	default:
		return nil, errors.Errorf("unknown literal type %d", expr.Typ)
	}
}

// stringConstant returns an i8* to a NUL-terminated copy of s. Equal strings
// share one global.
func (b *LLVMIRBuilder) stringConstant(s string) constant.Constant {
	glob, ok := b.strs[s]
	if !ok {
		glob = b.mod.NewGlobalDef(fmt.Sprintf(".str.%d", len(b.strs)), constant.NewCharArrayFromString(s+"\x00"))
		glob.Immutable = true
		b.strs[s] = glob
	}

	zero := constant.NewInt(types.I32, 0)
	return constant.NewGetElementPtr(glob.ContentType, glob, zero, zero)
}

func (b *LLVMIRBuilder) functionCall(expr *FuncCall) error {
	var args []value.Value
	for _, arg := range expr.Args {
		v, err := b.load(arg)
		if err != nil {
			return err
		}

		args = append(args, v)
	}

	if builtin, ok := b.builtins[expr.Name]; ok {
		return builtin(b, args)
	}

	f, ok := b.funcs[expr.Name]
	if !ok {
		return errors.Errorf("undefined: %s", expr.Name)
	}

	if len(args) != len(f.Params) {
		return errors.Errorf("%s expects %d arguments, got %d", expr.Name, len(f.Params), len(args))
	}

	for i, arg := range args {
		if !arg.Type().Equal(types.I32) {
			return errors.Errorf("argument %d of %s: cannot use %s as i32", i, expr.Name, arg.Type())
		}
	}

	b.block.NewCall(f, args...)
	return nil
}

type LLVMGenerator struct {
	ast *AST
}

func NewLLVMGenerator(ast *AST) *LLVMGenerator {
	return &LLVMGenerator{
		ast: ast,
	}
}

// Do lowers the tree to a module. Only functions and constants may appear at
// the top level; functions may call each other regardless of order.
func (g LLVMGenerator) Do() (*ir.Module, error) {
	builder := NewLLVMIRBuilder()
	for _, stmt := range g.ast.Statements {
		if err := g.declare(builder, stmt); err != nil {
			return nil, err
		}
	}

	for _, stmt := range g.ast.Statements {
		if e, ok := stmt.(*FuncDecl); ok {
			if err := builder.function(e); err != nil {
				return nil, err
			}
		}
	}

	return builder.mod, nil
}

func (g LLVMGenerator) declare(b *LLVMIRBuilder, expr Expr) error {
	switch e := expr.(type) {
	case *FuncDecl:
		return b.declareFunc(e)
	case *ConstDecl:
		return b.global(e)
	default:
		return errors.Errorf("unexpected %T at top level", expr)
	}
}
