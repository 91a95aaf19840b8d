package sable

type AST struct {
	Filename   string
	Statements []Expr
}

// Expr is implemented by every node the parser hands out. The set is closed:
// only the types in this file satisfy it.
type Expr interface {
	exprNode()
}

type FuncDecl struct {
	Name   string
	Params []*Identifier
	Body   []Expr
}

// ConstDecl binds Name to a literal. Typ keeps the literal's kind so later
// stages need not guess it from the text.
type ConstDecl struct {
	Name  string
	Value string
	Typ   LiteralType
}

type FuncCall struct {
	Name string
	Args []Expr
}

type IfStmt struct {
	Cond Expr
	Body []Expr
	Else []Expr
}

type Identifier struct {
	Name string
}

type BinaryOp string

const (
	BinaryAssign         BinaryOp = "="
	BinaryAddition       BinaryOp = "+"
	BinarySubtraction    BinaryOp = "-"
	BinaryMultiplication BinaryOp = "*"
	BinaryDivision       BinaryOp = "/"
	BinaryModulo         BinaryOp = "%"

	BinaryEqual       BinaryOp = "=="
	BinaryNotEqual    BinaryOp = "!="
	BinaryLessThan    BinaryOp = "<"
	BinaryGreaterThan BinaryOp = ">"
)

// arithmeticTable maps the instruction-style keywords to their operation.
var arithmeticTable = map[string]BinaryOp{
	"add": BinaryAddition,
	"sub": BinarySubtraction,
	"mul": BinaryMultiplication,
	"div": BinaryDivision,
	"mod": BinaryModulo,
}

var comparisonTable = map[TokenType]BinaryOp{
	TokenEqual:       BinaryEqual,
	TokenNotEqual:    BinaryNotEqual,
	TokenLessThan:    BinaryLessThan,
	TokenGreaterThan: BinaryGreaterThan,
}

func (op BinaryOp) IsComparison() bool {
	switch op {
	case BinaryEqual, BinaryNotEqual, BinaryLessThan, BinaryGreaterThan:
		return true
	}

	return false
}

type BinaryExpr struct {
	Operation BinaryOp
	Op1       Expr
	Op2       Expr
}

type LiteralType int

const (
	LiteralNumber LiteralType = iota
	LiteralString
	LiteralBool
)

func (t LiteralType) String() string {
	switch t {
	case LiteralNumber:
		return "int"
	case LiteralString:
		return "string"
	case LiteralBool:
		return "bool"
	}

	return "unknown"
}

type LiteralExpr struct {
	Typ   LiteralType
	Value string
}

func (*FuncDecl) exprNode()    {}
func (*ConstDecl) exprNode()   {}
func (*FuncCall) exprNode()    {}
func (*IfStmt) exprNode()      {}
func (*Identifier) exprNode()  {}
func (*BinaryExpr) exprNode()  {}
func (*LiteralExpr) exprNode() {}
