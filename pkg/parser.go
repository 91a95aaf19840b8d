package sable

// DefaultMaxDepth bounds how deeply fn and if blocks may nest.
const DefaultMaxDepth = 512

type lineKind int

const (
	lineNode lineKind = iota
	lineComment
	lineElse
	lineEnd
	lineEOF
)

// lineResult is what parsing one logical line yields. Only lineNode results
// carry an expression; the other kinds steer the enclosing block loop and
// never reach the tree. end is the last line consumed.
type lineResult struct {
	kind lineKind
	expr Expr
	end  int
}

func node(expr Expr, end int) lineResult {
	return lineResult{
		kind: lineNode,
		expr: expr,
		end:  end,
	}
}

type ParserOption func(p *Parser)

func WithFilename(name string) ParserOption {
	return func(p *Parser) {
		p.filename = name
	}
}

// WithMaxDepth overrides DefaultMaxDepth. Values below one are ignored.
func WithMaxDepth(depth int) ParserOption {
	return func(p *Parser) {
		if depth > 0 {
			p.maxDepth = depth
		}
	}
}

type Parser struct {
	filename string
	lines    []Line
	maxDepth int
}

// NewParser organizes tokens into logical lines. The token stream must end in
// a newline for its last line to be seen, see Organize.
func NewParser(tokens []Token, opts ...ParserOption) *Parser {
	p := &Parser{
		lines:    Organize(tokens),
		maxDepth: DefaultMaxDepth,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// ParseFile parses every line and returns the whole-file tree. Parsing stops
// at the first error; no partial tree is returned.
func (p *Parser) ParseFile() (*AST, error) {
	ast := &AST{
		Filename: p.filename,
	}

	for pos := 0; pos < len(p.lines); {
		res, err := p.parseLine(pos, 0)
		if err != nil {
			return nil, err
		}

		switch res.kind {
		case lineEOF:
			return ast, nil
		case lineEnd, lineElse:
			return nil, p.errorf(UnexpectedToken, pos, 0)
		case lineNode:
			ast.Statements = append(ast.Statements, res.expr)
		}

		pos = res.end + 1
	}

	return ast, nil
}

func (p *Parser) parseLine(pos, depth int) (lineResult, error) {
	if pos >= len(p.lines) {
		return lineResult{kind: lineEOF, end: pos}, nil
	}

	line := p.lines[pos]
	if len(line) == 0 {
		return lineResult{}, p.errorf(EmptyLine, pos, -1)
	}

	if depth > p.maxDepth {
		return lineResult{}, p.errorf(NestingTooDeep, pos, 0)
	}

	switch tok := line[0]; tok.Typ {
	case TokenIdentifier:
		return p.instruction(pos)
	case TokenLet:
		return p.letStmt(pos)
	case TokenConst:
		return p.constDecl(pos)
	case TokenFunc:
		return p.funcDecl(pos, depth)
	case TokenIf:
		return p.ifStmt(pos, depth)
	case TokenComment:
		return lineResult{kind: lineComment, end: pos}, nil
	case TokenElse:
		return lineResult{kind: lineElse, end: pos}, nil
	case TokenEnd:
		return lineResult{kind: lineEnd, end: pos}, nil
	case TokenEOF:
		return lineResult{kind: lineEOF, end: pos}, nil
	default:
		return lineResult{}, p.errorf(UnexpectedToken, pos, 0)
	}
}

// instruction parses a line led by an identifier: either an arithmetic
// keyword or a call.
func (p *Parser) instruction(pos int) (lineResult, error) {
	line := p.lines[pos]

	if op, ok := arithmeticTable[line[0].Value]; ok {
		return p.arithmetic(pos, op)
	}

	if len(line) >= 2 && line[1].Typ == TokenOpenParentheses {
		return p.funcCall(pos)
	}

	return lineResult{}, p.errorf(InvalidOperation, pos, -1)
}

// arithmetic accepts "OP dest lhs rhs" and the accumulating "OP var rhs",
// both lowered to an assignment.
func (p *Parser) arithmetic(pos int, op BinaryOp) (lineResult, error) {
	line := p.lines[pos]
	if len(line) < 3 || line[1].Typ != TokenIdentifier {
		return lineResult{}, p.errorf(InvalidOperation, pos, -1)
	}

	dest := line[1].Value

	var lhs Expr = &Identifier{Name: dest}
	rhsCol := 2

	if len(line) > 3 {
		var err error
		if lhs, err = p.operand(pos, 2); err != nil {
			return lineResult{}, err
		}

		rhsCol = 3
	}

	rhs, err := p.operand(pos, rhsCol)
	if err != nil {
		return lineResult{}, err
	}

	return node(&BinaryExpr{
		Operation: BinaryAssign,
		Op1:       &Identifier{Name: dest},
		Op2: &BinaryExpr{
			Operation: op,
			Op1:       lhs,
			Op2:       rhs,
		},
	}, pos), nil
}

func (p *Parser) funcCall(pos int) (lineResult, error) {
	line := p.lines[pos]

	var args []Expr
	for col := 2; col < len(line); col++ {
		if line[col].Typ == TokenCloseParentheses {
			return node(&FuncCall{
				Name: line[0].Value,
				Args: args,
			}, pos), nil
		}

		arg, err := p.operand(pos, col)
		if err != nil {
			return lineResult{}, err
		}

		args = append(args, arg)
	}

	// No closing parenthesis
	return lineResult{}, p.errorf(InvalidOperation, pos, -1)
}

func (p *Parser) letStmt(pos int) (lineResult, error) {
	name, err := p.name(pos, 1)
	if err != nil {
		return lineResult{}, err
	}

	value, err := p.operand(pos, 2)
	if err != nil {
		return lineResult{}, err
	}

	return node(&BinaryExpr{
		Operation: BinaryAssign,
		Op1:       &Identifier{Name: name},
		Op2:       value,
	}, pos), nil
}

func (p *Parser) constDecl(pos int) (lineResult, error) {
	name, err := p.name(pos, 1)
	if err != nil {
		return lineResult{}, err
	}

	value, err := p.operand(pos, 2)
	if err != nil {
		return lineResult{}, err
	}

	lit, ok := value.(*LiteralExpr)
	if !ok {
		return lineResult{}, p.errorf(InvalidConstant, pos, 2)
	}

	return node(&ConstDecl{
		Name:  name,
		Value: lit.Value,
		Typ:   lit.Typ,
	}, pos), nil
}

func (p *Parser) funcDecl(pos, depth int) (lineResult, error) {
	name, err := p.name(pos, 1)
	if err != nil {
		return lineResult{}, err
	}

	var params []*Identifier
	for _, tok := range p.lines[pos][2:] {
		if tok.Typ == TokenColon {
			break
		}

		if tok.Typ == TokenIdentifier && tok.Value != name {
			params = append(params, &Identifier{Name: tok.Value})
		}
	}

	body, _, end, err := p.block(pos, depth, false)
	if err != nil {
		return lineResult{}, err
	}

	return node(&FuncDecl{
		Name:   name,
		Params: params,
		Body:   body,
	}, end), nil
}

func (p *Parser) ifStmt(pos, depth int) (lineResult, error) {
	lhs, err := p.operand(pos, 1)
	if err != nil {
		return lineResult{}, err
	}

	rhs, err := p.operand(pos, 3)
	if err != nil {
		return lineResult{}, err
	}

	op, ok := comparisonTable[p.lines[pos][2].Typ]
	if !ok {
		return lineResult{}, p.errorf(ExpectedOperator, pos, 2)
	}

	body, term, end, err := p.block(pos, depth, true)
	if err != nil {
		return lineResult{}, err
	}

	var elseBody []Expr
	if term == lineElse {
		if elseBody, _, end, err = p.block(end, depth, false); err != nil {
			return lineResult{}, err
		}
	}

	return node(&IfStmt{
		Cond: &BinaryExpr{
			Operation: op,
			Op1:       lhs,
			Op2:       rhs,
		},
		Body: body,
		Else: elseBody,
	}, end), nil
}

// block collects the statements after line pos until an end, an else (when
// allowed) or the end of input. It returns the terminator's kind and line.
func (p *Parser) block(pos, depth int, allowElse bool) ([]Expr, lineKind, int, error) {
	var body []Expr
	for next := pos + 1; ; {
		res, err := p.parseLine(next, depth+1)
		if err != nil {
			return nil, 0, 0, err
		}

		switch res.kind {
		case lineNode:
			body = append(body, res.expr)
		case lineElse:
			if !allowElse {
				return nil, 0, 0, p.errorf(UnexpectedToken, res.end, 0)
			}

			return body, res.kind, res.end, nil
		case lineEnd, lineEOF:
			return body, res.kind, res.end, nil
		}

		next = res.end + 1
	}
}

// name resolves the identifier a let, const or fn line binds.
func (p *Parser) name(pos, col int) (string, error) {
	line := p.lines[pos]
	if col >= len(line) {
		return "", p.errorf(MissingOperand, pos, col)
	}

	if line[col].Typ != TokenIdentifier {
		return "", p.errorf(InvalidOperand, pos, col)
	}

	return line[col].Value, nil
}

// operand maps a single token to an identifier or a literal.
func (p *Parser) operand(pos, col int) (Expr, error) {
	line := p.lines[pos]
	if col >= len(line) {
		return nil, p.errorf(MissingOperand, pos, col)
	}

	switch tok := line[col]; tok.Typ {
	case TokenIdentifier:
		return &Identifier{Name: tok.Value}, nil
	case TokenNumber:
		return &LiteralExpr{Typ: LiteralNumber, Value: tok.Value}, nil
	case TokenString:
		return &LiteralExpr{Typ: LiteralString, Value: tok.Value}, nil
	case TokenBool:
		return &LiteralExpr{Typ: LiteralBool, Value: tok.Value}, nil
	}

	return nil, p.errorf(InvalidOperand, pos, col)
}

func (p *Parser) errorf(kind ParseErrorKind, pos, col int) error {
	err := &ParseError{
		Kind: kind,
		Pos:  pos,
		Col:  col,
	}

	if pos < len(p.lines) && len(p.lines[pos]) != 0 {
		line := p.lines[pos]
		if col >= 0 && col < len(line) {
			err.Loc = line[col].Loc
		} else {
			err.Loc = line[0].Loc
		}
	}

	return err
}
