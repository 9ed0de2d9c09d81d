package parser

import (
	"github.com/raymyers/pyunparse/pkg/lexer"
	"github.com/raymyers/pyunparse/pkg/pyast"
)

// startsExpression reports whether the current token can begin an
// expression. It decides whether a trailing comma closes a list.
func (p *Parser) startsExpression() bool {
	switch p.curToken.Type {
	case lexer.TokenIdent, lexer.TokenNumber, lexer.TokenString,
		lexer.TokenTrue, lexer.TokenFalse, lexer.TokenNone, lexer.TokenEllipsis,
		lexer.TokenLParen, lexer.TokenLBracket, lexer.TokenLBrace,
		lexer.TokenMinus, lexer.TokenPlus, lexer.TokenTilde, lexer.TokenStar,
		lexer.TokenNot, lexer.TokenLambda, lexer.TokenAwait:
		return true
	}
	return false
}

// parseStarExpressions parses a comma-separated list that becomes a Tuple
// when it holds a comma
func (p *Parser) parseStarExpressions() pyast.Expr {
	first := p.parseStarExpression()
	if !p.curTokenIs(lexer.TokenComma) {
		return first
	}
	elts := []pyast.Expr{first}
	for p.curTokenIs(lexer.TokenComma) {
		p.nextToken()
		if !p.startsExpression() {
			break
		}
		elts = append(elts, p.parseStarExpression())
	}
	return pyast.Tuple{Elts: elts}
}

func (p *Parser) parseStarExpression() pyast.Expr {
	if p.curTokenIs(lexer.TokenStar) {
		p.nextToken()
		return pyast.Starred{Value: p.parseBitOr()}
	}
	return p.parseExpression()
}

// parseTarget parses a single assignment target of a for clause, a with
// item or a del statement
func (p *Parser) parseTarget() pyast.Expr {
	if p.curTokenIs(lexer.TokenStar) {
		p.nextToken()
		return pyast.Starred{Value: p.parseBitOr()}
	}
	return p.parseBitOr()
}

// parseTargetList parses the target of a for loop or comprehension, which
// stops before the keyword in
func (p *Parser) parseTargetList() pyast.Expr {
	first := p.parseTarget()
	if !p.curTokenIs(lexer.TokenComma) {
		p.checkTarget(first, "assign to")
		return first
	}
	elts := []pyast.Expr{first}
	for p.curTokenIs(lexer.TokenComma) {
		p.nextToken()
		if !p.startsExpression() {
			break
		}
		elts = append(elts, p.parseTarget())
	}
	target := pyast.Tuple{Elts: elts}
	p.checkTarget(target, "assign to")
	return target
}

// parseExpression parses a full expression: a conditional or a lambda
func (p *Parser) parseExpression() pyast.Expr {
	if p.curTokenIs(lexer.TokenLambda) {
		return p.parseLambda()
	}
	body := p.parseDisjunction()
	if !p.curTokenIs(lexer.TokenIf) {
		return body
	}
	p.nextToken()
	test := p.parseDisjunction()
	p.expect(lexer.TokenElse)
	return pyast.IfExp{Test: test, Body: body, Orelse: p.parseExpression()}
}

func (p *Parser) parseLambda() pyast.Expr {
	p.nextToken()
	args := p.parseParams(lexer.TokenColon, false)
	p.expect(lexer.TokenColon)
	return pyast.Lambda{Args: args, Body: p.parseExpression()}
}

func (p *Parser) parseYield() pyast.Expr {
	p.nextToken()
	if p.curTokenIs(lexer.TokenFrom) {
		p.nextToken()
		return pyast.YieldFrom{Value: p.parseExpression()}
	}
	if !p.startsExpression() {
		return pyast.Yield{}
	}
	return pyast.Yield{Value: p.parseStarExpressions()}
}

func (p *Parser) parseBoolChain(tok lexer.TokenType, op pyast.Operator, operand func() pyast.Expr) pyast.Expr {
	first := operand()
	if !p.curTokenIs(tok) {
		return first
	}
	values := []pyast.Expr{first}
	for p.curTokenIs(tok) {
		p.nextToken()
		values = append(values, operand())
	}
	return pyast.BoolOp{Op: op, Values: values}
}

func (p *Parser) parseDisjunction() pyast.Expr {
	return p.parseBoolChain(lexer.TokenOr, pyast.OpOr, p.parseConjunction)
}

func (p *Parser) parseConjunction() pyast.Expr {
	return p.parseBoolChain(lexer.TokenAnd, pyast.OpAnd, p.parseInversion)
}

func (p *Parser) parseInversion() pyast.Expr {
	if p.curTokenIs(lexer.TokenNot) {
		p.nextToken()
		return pyast.UnaryOp{Op: pyast.OpNot, Operand: p.parseInversion()}
	}
	return p.parseComparison()
}

var compareOperators = map[lexer.TokenType]pyast.Operator{
	lexer.TokenEq: pyast.OpEq,
	lexer.TokenNe: pyast.OpNotEq,
	lexer.TokenLt: pyast.OpLt,
	lexer.TokenLe: pyast.OpLtE,
	lexer.TokenGt: pyast.OpGt,
	lexer.TokenGe: pyast.OpGtE,
	lexer.TokenIn: pyast.OpIn,
}

// compareOperator consumes a comparison operator, including the two-word
// forms not in and is not
func (p *Parser) compareOperator() (pyast.Operator, bool) {
	if op, ok := compareOperators[p.curToken.Type]; ok {
		p.nextToken()
		return op, true
	}
	switch {
	case p.curTokenIs(lexer.TokenNot) && p.peekTokenIs(lexer.TokenIn):
		p.nextToken()
		p.nextToken()
		return pyast.OpNotIn, true
	case p.curTokenIs(lexer.TokenIs):
		p.nextToken()
		if p.curTokenIs(lexer.TokenNot) {
			p.nextToken()
			return pyast.OpIsNot, true
		}
		return pyast.OpIs, true
	}
	return pyast.OpNone, false
}

func (p *Parser) parseComparison() pyast.Expr {
	left := p.parseBitOr()
	var ops []pyast.Operator
	var comparators []pyast.Expr
	for {
		op, ok := p.compareOperator()
		if !ok {
			break
		}
		ops = append(ops, op)
		comparators = append(comparators, p.parseBitOr())
	}
	if len(ops) == 0 {
		return left
	}
	return pyast.Compare{Left: left, Ops: ops, Comparators: comparators}
}

// binaryLevels lists the left-associative binary operators, loosest first
var binaryLevels = []map[lexer.TokenType]pyast.Operator{
	{lexer.TokenPipe: pyast.OpBitOr},
	{lexer.TokenCaret: pyast.OpBitXor},
	{lexer.TokenAmpersand: pyast.OpBitAnd},
	{lexer.TokenShl: pyast.OpLShift, lexer.TokenShr: pyast.OpRShift},
	{lexer.TokenPlus: pyast.OpAdd, lexer.TokenMinus: pyast.OpSub},
	{
		lexer.TokenStar:        pyast.OpMult,
		lexer.TokenAt:          pyast.OpMatMult,
		lexer.TokenSlash:       pyast.OpDiv,
		lexer.TokenDoubleSlash: pyast.OpFloorDiv,
		lexer.TokenPercent:     pyast.OpMod,
	},
}

func (p *Parser) parseBinary(level int) pyast.Expr {
	if level == len(binaryLevels) {
		return p.parseFactor()
	}
	left := p.parseBinary(level + 1)
	for {
		op, ok := binaryLevels[level][p.curToken.Type]
		if !ok {
			return left
		}
		p.nextToken()
		left = pyast.BinOp{Left: left, Op: op, Right: p.parseBinary(level + 1)}
	}
}

func (p *Parser) parseBitOr() pyast.Expr {
	return p.parseBinary(0)
}

var unaryOperators = map[lexer.TokenType]pyast.Operator{
	lexer.TokenPlus:  pyast.OpUAdd,
	lexer.TokenMinus: pyast.OpUSub,
	lexer.TokenTilde: pyast.OpInvert,
}

func (p *Parser) parseFactor() pyast.Expr {
	if op, ok := unaryOperators[p.curToken.Type]; ok {
		p.nextToken()
		return pyast.UnaryOp{Op: op, Operand: p.parseFactor()}
	}
	return p.parsePower()
}

func (p *Parser) parsePower() pyast.Expr {
	var base pyast.Expr
	if p.curTokenIs(lexer.TokenAwait) {
		p.nextToken()
		base = pyast.Await{Value: p.parsePrimary()}
	} else {
		base = p.parsePrimary()
	}
	if !p.curTokenIs(lexer.TokenDoubleStar) {
		return base
	}
	p.nextToken()
	return pyast.BinOp{Left: base, Op: pyast.OpPow, Right: p.parseFactor()}
}

// parsePrimary parses an atom followed by attribute, call and subscript
// trailers
func (p *Parser) parsePrimary() pyast.Expr {
	e := p.parseAtom()
	for {
		switch p.curToken.Type {
		case lexer.TokenDot:
			p.nextToken()
			e = pyast.Attribute{Value: e, Attr: p.expectIdent()}
		case lexer.TokenLParen:
			p.nextToken()
			args, keywords := p.parseCallArgs()
			p.expect(lexer.TokenRParen)
			e = pyast.Call{Func: e, Args: args, Keywords: keywords}
		case lexer.TokenLBracket:
			p.nextToken()
			e = pyast.Subscript{Value: e, Slice: p.parseSubscript()}
		default:
			return e
		}
	}
}

// parseCallArgs parses call arguments up to the closing parenthesis.
// A generator expression may be the sole unparenthesized argument.
func (p *Parser) parseCallArgs() ([]pyast.Expr, []pyast.Keyword) {
	var args []pyast.Expr
	var keywords []pyast.Keyword
	for !p.curTokenIs(lexer.TokenRParen) {
		switch {
		case p.curTokenIs(lexer.TokenStar):
			p.nextToken()
			args = append(args, pyast.Starred{Value: p.parseExpression()})
		case p.curTokenIs(lexer.TokenDoubleStar):
			p.nextToken()
			keywords = append(keywords, pyast.Keyword{Value: p.parseExpression()})
		case p.curTokenIs(lexer.TokenIdent) && p.peekTokenIs(lexer.TokenAssign):
			name := p.curToken.Literal
			p.nextToken()
			p.nextToken()
			keywords = append(keywords, pyast.Keyword{Arg: name, Value: p.parseExpression()})
		default:
			if len(keywords) > 0 {
				p.errorf("positional argument follows keyword argument")
			}
			arg := p.parseExpression()
			if p.startsComprehension() {
				arg = pyast.GeneratorExp{Elt: arg, Generators: p.parseComprehensions()}
			}
			args = append(args, arg)
		}
		if !p.curTokenIs(lexer.TokenComma) {
			break
		}
		p.nextToken()
	}
	return args, keywords
}

// parseSubscript parses the index of a subscript and the closing bracket.
// Several comma-separated items form an ExtSlice.
func (p *Parser) parseSubscript() pyast.Expr {
	var items []pyast.Expr
	comma := false
	for {
		items = append(items, p.parseSliceItem())
		if !p.curTokenIs(lexer.TokenComma) {
			break
		}
		comma = true
		p.nextToken()
		if p.curTokenIs(lexer.TokenRBracket) {
			break
		}
	}
	p.expect(lexer.TokenRBracket)
	if !comma {
		return items[0]
	}
	return pyast.ExtSlice{Dims: items}
}

func (p *Parser) parseSliceItem() pyast.Expr {
	var s pyast.Slice
	if !p.curTokenIs(lexer.TokenColon) {
		lower := p.parseExpression()
		if !p.curTokenIs(lexer.TokenColon) {
			return lower
		}
		s.Lower = lower
	}
	p.nextToken()
	if p.startsExpression() {
		s.Upper = p.parseExpression()
	}
	if p.curTokenIs(lexer.TokenColon) {
		p.nextToken()
		if p.startsExpression() {
			s.Step = p.parseExpression()
		}
	}
	return s
}

func (p *Parser) startsComprehension() bool {
	return p.curTokenIs(lexer.TokenFor) || (p.curTokenIs(lexer.TokenAsync) && p.peekTokenIs(lexer.TokenFor))
}

func (p *Parser) parseComprehensions() []pyast.Comprehension {
	var gens []pyast.Comprehension
	for p.startsComprehension() {
		var c pyast.Comprehension
		if p.curTokenIs(lexer.TokenAsync) {
			c.IsAsync = true
			p.nextToken()
		}
		p.nextToken() // for
		c.Target = p.parseTargetList()
		p.expect(lexer.TokenIn)
		c.Iter = p.parseDisjunction()
		for p.curTokenIs(lexer.TokenIf) {
			p.nextToken()
			c.Ifs = append(c.Ifs, p.parseDisjunction())
		}
		gens = append(gens, c)
	}
	return gens
}

func (p *Parser) parseAtom() pyast.Expr {
	tok := p.curToken
	switch tok.Type {
	case lexer.TokenIdent:
		p.nextToken()
		return pyast.Name{ID: tok.Literal}
	case lexer.TokenTrue:
		p.nextToken()
		return pyast.NameConstant{Value: pyast.ConstTrue}
	case lexer.TokenFalse:
		p.nextToken()
		return pyast.NameConstant{Value: pyast.ConstFalse}
	case lexer.TokenNone:
		p.nextToken()
		return pyast.NameConstant{Value: pyast.ConstNone}
	case lexer.TokenEllipsis:
		p.nextToken()
		return pyast.Ellipsis{}
	case lexer.TokenNumber:
		value, err := canonicalNumber(tok.Literal)
		if err != nil {
			p.errorf("%v", err)
		}
		p.nextToken()
		return pyast.Num{Value: value}
	case lexer.TokenString:
		return p.parseStrings()
	case lexer.TokenLParen:
		return p.parseParen()
	case lexer.TokenLBracket:
		return p.parseList()
	case lexer.TokenLBrace:
		return p.parseBrace()
	}
	p.unexpected("expected expression")
	return nil
}

// parseParen parses a parenthesized expression, a tuple, a yield or a
// generator expression
func (p *Parser) parseParen() pyast.Expr {
	p.nextToken()
	if p.curTokenIs(lexer.TokenRParen) {
		p.nextToken()
		return pyast.Tuple{}
	}
	if p.curTokenIs(lexer.TokenYield) {
		y := p.parseYield()
		p.expect(lexer.TokenRParen)
		return y
	}
	first := p.parseStarExpression()
	if p.startsComprehension() {
		g := pyast.GeneratorExp{Elt: first, Generators: p.parseComprehensions()}
		p.expect(lexer.TokenRParen)
		return g
	}
	if !p.curTokenIs(lexer.TokenComma) {
		if _, ok := first.(pyast.Starred); ok {
			p.errorf("cannot use starred expression here")
		}
		p.expect(lexer.TokenRParen)
		return first
	}
	elts := p.parseElements(first, lexer.TokenRParen)
	p.expect(lexer.TokenRParen)
	return pyast.Tuple{Elts: elts}
}

// parseElements continues a comma-separated element list after its first
// element, stopping before the closing token
func (p *Parser) parseElements(first pyast.Expr, closing lexer.TokenType) []pyast.Expr {
	elts := []pyast.Expr{first}
	for p.curTokenIs(lexer.TokenComma) {
		p.nextToken()
		if p.curTokenIs(closing) {
			break
		}
		elts = append(elts, p.parseStarExpression())
	}
	return elts
}

func (p *Parser) parseList() pyast.Expr {
	p.nextToken()
	if p.curTokenIs(lexer.TokenRBracket) {
		p.nextToken()
		return pyast.List{}
	}
	first := p.parseStarExpression()
	if p.startsComprehension() {
		c := pyast.ListComp{Elt: first, Generators: p.parseComprehensions()}
		p.expect(lexer.TokenRBracket)
		return c
	}
	elts := p.parseElements(first, lexer.TokenRBracket)
	p.expect(lexer.TokenRBracket)
	return pyast.List{Elts: elts}
}

// parseBrace parses a dict, set, or a dict or set comprehension
func (p *Parser) parseBrace() pyast.Expr {
	p.nextToken()
	if p.curTokenIs(lexer.TokenRBrace) {
		p.nextToken()
		return pyast.Dict{}
	}

	if p.curTokenIs(lexer.TokenDoubleStar) {
		p.nextToken()
		return p.parseDictItems(nil, p.parseBitOr())
	}

	first := p.parseStarExpression()
	if p.curTokenIs(lexer.TokenColon) {
		p.nextToken()
		value := p.parseExpression()
		if p.startsComprehension() {
			c := pyast.DictComp{Key: first, Value: value, Generators: p.parseComprehensions()}
			p.expect(lexer.TokenRBrace)
			return c
		}
		return p.parseDictItems(first, value)
	}

	if p.startsComprehension() {
		c := pyast.SetComp{Elt: first, Generators: p.parseComprehensions()}
		p.expect(lexer.TokenRBrace)
		return c
	}
	elts := p.parseElements(first, lexer.TokenRBrace)
	p.expect(lexer.TokenRBrace)
	return pyast.Set{Elts: elts}
}

// parseDictItems continues a dict display after its first item. A nil key
// marks a ** merge.
func (p *Parser) parseDictItems(key, value pyast.Expr) pyast.Expr {
	d := pyast.Dict{Keys: []pyast.Expr{key}, Values: []pyast.Expr{value}}
	for p.curTokenIs(lexer.TokenComma) {
		p.nextToken()
		if p.curTokenIs(lexer.TokenRBrace) {
			break
		}
		if p.curTokenIs(lexer.TokenDoubleStar) {
			p.nextToken()
			d.Keys = append(d.Keys, nil)
			d.Values = append(d.Values, p.parseBitOr())
			continue
		}
		k := p.parseExpression()
		p.expect(lexer.TokenColon)
		d.Keys = append(d.Keys, k)
		d.Values = append(d.Values, p.parseExpression())
	}
	p.expect(lexer.TokenRBrace)
	return d
}
