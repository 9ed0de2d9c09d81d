// Package parser implements a recursive descent parser for the supported
// Python subset, producing pyast trees.
package parser

import (
	"fmt"

	"github.com/raymyers/pyunparse/pkg/lexer"
	"github.com/raymyers/pyunparse/pkg/pyast"
)

// Parser parses Python source code into a pyast tree. It stops at the first
// syntax error.
type Parser struct {
	l         *lexer.Lexer
	curToken  lexer.Token
	peekToken lexer.Token
	errors    []*Error
}

// New creates a new Parser for the given lexer
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}
	// Read two tokens to initialize curToken and peekToken
	p.nextToken()
	p.nextToken()
	return p
}

// ParseModule parses a complete source file
func ParseModule(src string) (pyast.Module, error) {
	p := New(lexer.New(src))
	mod := p.ParseModule()
	if err := p.Err(); err != nil {
		return pyast.Module{}, err
	}
	return mod, nil
}

// ParseExpression parses source holding a single expression
func ParseExpression(src string) (pyast.Expr, error) {
	p := New(lexer.New(src))
	e := p.ParseExpression()
	if err := p.Err(); err != nil {
		return nil, err
	}
	return e, nil
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

// Errors returns the list of parsing errors
func (p *Parser) Errors() []string {
	msgs := make([]string, len(p.errors))
	for i, e := range p.errors {
		msgs[i] = e.Error()
	}
	return msgs
}

// Err returns the first parsing error, or nil
func (p *Parser) Err() error {
	if len(p.errors) == 0 {
		return nil
	}
	return p.errors[0]
}

func (p *Parser) errorAt(tok lexer.Token, msg string) {
	incomplete := tok.Type == lexer.TokenEOF || (p.l.Unterminated() && p.l.AtEOF())
	p.errors = append(p.errors, &Error{Line: tok.Line, Column: tok.Column, Msg: msg, Incomplete: incomplete})
	panic(bailout{})
}

func (p *Parser) errorf(format string, args ...interface{}) {
	p.errorAt(p.curToken, fmt.Sprintf(format, args...))
}

// recoverBailout stops the unwinding started by errorAt
func (p *Parser) recoverBailout() {
	if r := recover(); r != nil {
		if _, ok := r.(bailout); !ok {
			panic(r)
		}
	}
}

func (p *Parser) curTokenIs(t lexer.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t lexer.TokenType) bool {
	return p.peekToken.Type == t
}

func (p *Parser) expect(t lexer.TokenType) {
	if !p.curTokenIs(t) {
		p.unexpected(fmt.Sprintf("expected %s", t))
	}
	p.nextToken()
}

// unexpected reports the current token in context
func (p *Parser) unexpected(want string) {
	switch p.curToken.Type {
	case lexer.TokenIllegal:
		p.errorf("%s", p.curToken.Literal)
	case lexer.TokenEOF:
		p.errorf("%s, got end of input", want)
	}
	p.errorf("%s, got %s", want, p.curToken.Type)
}

func (p *Parser) expectIdent() string {
	if !p.curTokenIs(lexer.TokenIdent) {
		p.unexpected("expected identifier")
	}
	name := p.curToken.Literal
	p.nextToken()
	return name
}

func (p *Parser) pos() pyast.Pos {
	return pyast.Pos{Line: p.curToken.Line, Col: p.curToken.Column}
}

// ParseModule parses statements until the end of input
func (p *Parser) ParseModule() (mod pyast.Module) {
	defer p.recoverBailout()
	for !p.curTokenIs(lexer.TokenEOF) {
		mod.Body = append(mod.Body, p.parseStatement()...)
	}
	return mod
}

// ParseExpression parses a single expression, as in eval mode
func (p *Parser) ParseExpression() (e pyast.Expr) {
	defer p.recoverBailout()
	p.skipLayout()
	if p.curTokenIs(lexer.TokenYield) {
		e = p.parseYield()
	} else {
		e = p.parseStarExpressions()
	}
	p.skipLayout()
	if !p.curTokenIs(lexer.TokenEOF) {
		p.unexpected("expected end of expression")
	}
	return e
}

func (p *Parser) skipLayout() {
	for p.curTokenIs(lexer.TokenNewline) || p.curTokenIs(lexer.TokenIndent) || p.curTokenIs(lexer.TokenDedent) {
		p.nextToken()
	}
}

// parseStatement parses one statement line. A line of simple statements
// separated by semicolons yields several statements.
func (p *Parser) parseStatement() []pyast.Stmt {
	switch p.curToken.Type {
	case lexer.TokenIf:
		return []pyast.Stmt{p.parseIf()}
	case lexer.TokenWhile:
		return []pyast.Stmt{p.parseWhile()}
	case lexer.TokenFor:
		return []pyast.Stmt{p.parseFor(p.pos(), false)}
	case lexer.TokenTry:
		return []pyast.Stmt{p.parseTry()}
	case lexer.TokenWith:
		return []pyast.Stmt{p.parseWith(p.pos(), false)}
	case lexer.TokenDef:
		return []pyast.Stmt{p.parseFunctionDef(p.pos(), nil, false)}
	case lexer.TokenClass:
		return []pyast.Stmt{p.parseClassDef(p.pos(), nil)}
	case lexer.TokenAt:
		return []pyast.Stmt{p.parseDecorated()}
	case lexer.TokenAsync:
		return []pyast.Stmt{p.parseAsync(p.pos(), nil)}
	case lexer.TokenIndent:
		p.errorf("unexpected indent")
	case lexer.TokenDedent, lexer.TokenNewline:
		p.errorf("unexpected %s", p.curToken.Type)
	}
	return p.parseSimpleStatements()
}

func (p *Parser) parseSimpleStatements() []pyast.Stmt {
	var stmts []pyast.Stmt
	for {
		stmts = append(stmts, p.parseSmallStatement())
		if !p.curTokenIs(lexer.TokenSemicolon) {
			break
		}
		p.nextToken()
		if p.curTokenIs(lexer.TokenNewline) {
			break
		}
	}
	p.expect(lexer.TokenNewline)
	return stmts
}

// parseBlock parses ':' followed by an indented suite or by simple
// statements on the same line
func (p *Parser) parseBlock() []pyast.Stmt {
	p.expect(lexer.TokenColon)
	if !p.curTokenIs(lexer.TokenNewline) {
		return p.parseSimpleStatements()
	}
	p.nextToken()
	if !p.curTokenIs(lexer.TokenIndent) {
		p.unexpected("expected an indented block")
	}
	p.nextToken()
	var body []pyast.Stmt
	for !p.curTokenIs(lexer.TokenDedent) && !p.curTokenIs(lexer.TokenEOF) {
		body = append(body, p.parseStatement()...)
	}
	p.nextToken()
	return body
}

func (p *Parser) parseIf() pyast.Stmt {
	s := pyast.If{Pos: p.pos()}
	p.nextToken() // if or elif
	s.Test = p.parseExpression()
	s.Body = p.parseBlock()
	switch p.curToken.Type {
	case lexer.TokenElif:
		s.Orelse = []pyast.Stmt{p.parseIf()}
	case lexer.TokenElse:
		p.nextToken()
		s.Orelse = p.parseBlock()
	}
	return s
}

func (p *Parser) parseElse() []pyast.Stmt {
	if !p.curTokenIs(lexer.TokenElse) {
		return nil
	}
	p.nextToken()
	return p.parseBlock()
}

func (p *Parser) parseWhile() pyast.Stmt {
	s := pyast.While{Pos: p.pos()}
	p.nextToken()
	s.Test = p.parseExpression()
	s.Body = p.parseBlock()
	s.Orelse = p.parseElse()
	return s
}

func (p *Parser) parseFor(pos pyast.Pos, async bool) pyast.Stmt {
	s := pyast.For{Pos: pos, IsAsync: async}
	p.nextToken()
	s.Target = p.parseTargetList()
	p.expect(lexer.TokenIn)
	s.Iter = p.parseStarExpressions()
	s.Body = p.parseBlock()
	s.Orelse = p.parseElse()
	return s
}

func (p *Parser) parseTry() pyast.Stmt {
	s := pyast.Try{Pos: p.pos()}
	p.nextToken()
	s.Body = p.parseBlock()
	for p.curTokenIs(lexer.TokenExcept) {
		p.nextToken()
		var h pyast.ExceptHandler
		if !p.curTokenIs(lexer.TokenColon) {
			h.Type = p.parseExpression()
			if p.curTokenIs(lexer.TokenAs) {
				p.nextToken()
				h.Name = p.expectIdent()
			}
		}
		h.Body = p.parseBlock()
		s.Handlers = append(s.Handlers, h)
	}
	if len(s.Handlers) > 0 {
		s.Orelse = p.parseElse()
	}
	if p.curTokenIs(lexer.TokenFinally) {
		p.nextToken()
		s.Finalbody = p.parseBlock()
	}
	if len(s.Handlers) == 0 && len(s.Finalbody) == 0 {
		p.unexpected("expected 'except' or 'finally' block")
	}
	return s
}

func (p *Parser) parseWith(pos pyast.Pos, async bool) pyast.Stmt {
	s := pyast.With{Pos: pos, IsAsync: async}
	p.nextToken()
	for {
		item := pyast.WithItem{ContextExpr: p.parseExpression()}
		if p.curTokenIs(lexer.TokenAs) {
			p.nextToken()
			item.OptionalVars = p.parseTarget()
		}
		s.Items = append(s.Items, item)
		if !p.curTokenIs(lexer.TokenComma) {
			break
		}
		p.nextToken()
	}
	s.Body = p.parseBlock()
	return s
}

func (p *Parser) parseDecorated() pyast.Stmt {
	pos := p.pos()
	var decorators []pyast.Expr
	for p.curTokenIs(lexer.TokenAt) {
		p.nextToken()
		decorators = append(decorators, p.parseExpression())
		p.expect(lexer.TokenNewline)
	}
	switch p.curToken.Type {
	case lexer.TokenDef:
		return p.parseFunctionDef(pos, decorators, false)
	case lexer.TokenClass:
		return p.parseClassDef(pos, decorators)
	case lexer.TokenAsync:
		return p.parseAsync(pos, decorators)
	}
	p.unexpected("expected function or class definition after decorator")
	return nil
}

func (p *Parser) parseAsync(pos pyast.Pos, decorators []pyast.Expr) pyast.Stmt {
	p.nextToken()
	switch p.curToken.Type {
	case lexer.TokenDef:
		return p.parseFunctionDef(pos, decorators, true)
	case lexer.TokenFor:
		if decorators == nil {
			return p.parseFor(pos, true)
		}
	case lexer.TokenWith:
		if decorators == nil {
			return p.parseWith(pos, true)
		}
	}
	p.unexpected("expected def, for or with after async")
	return nil
}

func (p *Parser) parseFunctionDef(pos pyast.Pos, decorators []pyast.Expr, async bool) pyast.Stmt {
	s := pyast.FunctionDef{Pos: pos, Decorators: decorators, IsAsync: async}
	p.nextToken()
	s.Name = p.expectIdent()
	p.expect(lexer.TokenLParen)
	s.Args = p.parseParams(lexer.TokenRParen, true)
	p.expect(lexer.TokenRParen)
	if p.curTokenIs(lexer.TokenArrow) {
		p.nextToken()
		s.Returns = p.parseExpression()
	}
	s.Body = p.parseBlock()
	return s
}

func (p *Parser) parseClassDef(pos pyast.Pos, decorators []pyast.Expr) pyast.Stmt {
	s := pyast.ClassDef{Pos: pos, Decorators: decorators}
	p.nextToken()
	s.Name = p.expectIdent()
	if p.curTokenIs(lexer.TokenLParen) {
		p.nextToken()
		s.Bases, s.Keywords = p.parseCallArgs()
		p.expect(lexer.TokenRParen)
	}
	s.Body = p.parseBlock()
	return s
}

// parseParams parses a parameter list up to, not including, the closing
// token. Lambda parameters carry no annotations.
func (p *Parser) parseParams(closing lexer.TokenType, annotations bool) *pyast.Arguments {
	args := &pyast.Arguments{}
	keywordOnly := false
	for !p.curTokenIs(closing) {
		switch p.curToken.Type {
		case lexer.TokenDoubleStar:
			p.nextToken()
			kwarg := p.parseParam(annotations)
			args.Kwarg = &kwarg
			if p.curTokenIs(lexer.TokenComma) {
				p.nextToken()
			}
			if !p.curTokenIs(closing) {
				p.unexpected("expected end of parameters after **" + kwarg.Name)
			}
			return args
		case lexer.TokenStar:
			if keywordOnly {
				p.errorf("* argument may appear only once")
			}
			p.nextToken()
			keywordOnly = true
			if p.curTokenIs(lexer.TokenIdent) {
				vararg := p.parseParam(annotations)
				args.Vararg = &vararg
			}
		default:
			arg := p.parseParam(annotations)
			var def pyast.Expr
			if p.curTokenIs(lexer.TokenAssign) {
				p.nextToken()
				def = p.parseExpression()
			}
			switch {
			case keywordOnly:
				args.Kwonlyargs = append(args.Kwonlyargs, arg)
				args.KwDefaults = append(args.KwDefaults, def)
			case def != nil:
				args.Args = append(args.Args, arg)
				args.Defaults = append(args.Defaults, def)
			case len(args.Defaults) > 0:
				p.errorf("non-default argument follows default argument")
			default:
				args.Args = append(args.Args, arg)
			}
		}
		if !p.curTokenIs(lexer.TokenComma) {
			break
		}
		p.nextToken()
	}
	if keywordOnly && args.Vararg == nil && len(args.Kwonlyargs) == 0 {
		p.errorf("named arguments must follow bare *")
	}
	return args
}

func (p *Parser) parseParam(annotations bool) pyast.Arg {
	arg := pyast.Arg{Name: p.expectIdent()}
	if annotations && p.curTokenIs(lexer.TokenColon) {
		p.nextToken()
		arg.Annotation = p.parseExpression()
	}
	return arg
}

var augOperators = map[lexer.TokenType]pyast.Operator{
	lexer.TokenPlusAssign:        pyast.OpAdd,
	lexer.TokenMinusAssign:       pyast.OpSub,
	lexer.TokenStarAssign:        pyast.OpMult,
	lexer.TokenAtAssign:          pyast.OpMatMult,
	lexer.TokenSlashAssign:       pyast.OpDiv,
	lexer.TokenDoubleSlashAssign: pyast.OpFloorDiv,
	lexer.TokenPercentAssign:     pyast.OpMod,
	lexer.TokenDoubleStarAssign:  pyast.OpPow,
	lexer.TokenShlAssign:         pyast.OpLShift,
	lexer.TokenShrAssign:         pyast.OpRShift,
	lexer.TokenOrAssign:          pyast.OpBitOr,
	lexer.TokenXorAssign:         pyast.OpBitXor,
	lexer.TokenAndAssign:         pyast.OpBitAnd,
}

func (p *Parser) parseSmallStatement() pyast.Stmt {
	pos := p.pos()
	switch p.curToken.Type {
	case lexer.TokenPass:
		p.nextToken()
		return pyast.Pass{Pos: pos}
	case lexer.TokenBreak:
		p.nextToken()
		return pyast.Break{Pos: pos}
	case lexer.TokenContinue:
		p.nextToken()
		return pyast.Continue{Pos: pos}
	case lexer.TokenDel:
		p.nextToken()
		s := pyast.Delete{Pos: pos}
		for {
			target := p.parseTarget()
			p.checkTarget(target, "delete")
			s.Targets = append(s.Targets, target)
			if !p.curTokenIs(lexer.TokenComma) {
				break
			}
			p.nextToken()
			if !p.startsExpression() {
				break
			}
		}
		return s
	case lexer.TokenReturn:
		p.nextToken()
		s := pyast.Return{Pos: pos}
		if p.startsExpression() {
			s.Value = p.parseStarExpressions()
		}
		return s
	case lexer.TokenRaise:
		p.nextToken()
		s := pyast.Raise{Pos: pos}
		if p.startsExpression() {
			s.Exc = p.parseExpression()
			if p.curTokenIs(lexer.TokenFrom) {
				p.nextToken()
				s.Cause = p.parseExpression()
			}
		}
		return s
	case lexer.TokenAssert:
		p.nextToken()
		s := pyast.Assert{Pos: pos, Test: p.parseExpression()}
		if p.curTokenIs(lexer.TokenComma) {
			p.nextToken()
			s.Msg = p.parseExpression()
		}
		return s
	case lexer.TokenGlobal:
		p.nextToken()
		return pyast.Global{Pos: pos, Names: p.parseNames()}
	case lexer.TokenNonlocal:
		p.nextToken()
		return pyast.Nonlocal{Pos: pos, Names: p.parseNames()}
	case lexer.TokenImport:
		p.nextToken()
		return pyast.Import{Pos: pos, Names: p.parseAliases(true)}
	case lexer.TokenFrom:
		return p.parseImportFrom(pos)
	}
	return p.parseExprStatement(pos)
}

func (p *Parser) parseNames() []string {
	names := []string{p.expectIdent()}
	for p.curTokenIs(lexer.TokenComma) {
		p.nextToken()
		names = append(names, p.expectIdent())
	}
	return names
}

func (p *Parser) parseDottedName() string {
	name := p.expectIdent()
	for p.curTokenIs(lexer.TokenDot) {
		p.nextToken()
		name += "." + p.expectIdent()
	}
	return name
}

// parseAliases parses "a as b, c". Plain import allows dotted names.
func (p *Parser) parseAliases(dotted bool) []pyast.Alias {
	var names []pyast.Alias
	for {
		var a pyast.Alias
		if dotted {
			a.Name = p.parseDottedName()
		} else {
			a.Name = p.expectIdent()
		}
		if p.curTokenIs(lexer.TokenAs) {
			p.nextToken()
			a.AsName = p.expectIdent()
		}
		names = append(names, a)
		if !p.curTokenIs(lexer.TokenComma) || !p.peekTokenIs(lexer.TokenIdent) {
			return names
		}
		p.nextToken()
	}
}

func (p *Parser) parseImportFrom(pos pyast.Pos) pyast.Stmt {
	s := pyast.ImportFrom{Pos: pos}
	p.nextToken()
	for {
		if p.curTokenIs(lexer.TokenDot) {
			s.Level++
		} else if p.curTokenIs(lexer.TokenEllipsis) {
			s.Level += 3
		} else {
			break
		}
		p.nextToken()
	}
	if p.curTokenIs(lexer.TokenIdent) {
		s.Module = p.parseDottedName()
	} else if s.Level == 0 {
		p.unexpected("expected module name")
	}
	p.expect(lexer.TokenImport)
	switch p.curToken.Type {
	case lexer.TokenStar:
		p.nextToken()
		s.Names = []pyast.Alias{{Name: "*"}}
	case lexer.TokenLParen:
		p.nextToken()
		s.Names = p.parseAliases(false)
		if p.curTokenIs(lexer.TokenComma) {
			p.nextToken()
		}
		p.expect(lexer.TokenRParen)
	default:
		s.Names = p.parseAliases(false)
		if p.curTokenIs(lexer.TokenComma) {
			p.errorf("trailing comma not allowed without surrounding parentheses")
		}
	}
	return s
}

// parseAssignValue parses the right side of an assignment
func (p *Parser) parseAssignValue() pyast.Expr {
	if p.curTokenIs(lexer.TokenYield) {
		return p.parseYield()
	}
	return p.parseStarExpressions()
}

func (p *Parser) parseExprStatement(pos pyast.Pos) pyast.Stmt {
	parenthesized := p.curTokenIs(lexer.TokenLParen)
	first := p.parseAssignValue()

	if p.curTokenIs(lexer.TokenColon) {
		switch first.(type) {
		case pyast.Name, pyast.Attribute, pyast.Subscript:
		default:
			p.errorf("illegal target for annotation")
		}
		p.nextToken()
		s := pyast.AnnAssign{Pos: pos, Target: first, Annotation: p.parseExpression(), Parenthesized: parenthesized}
		if p.curTokenIs(lexer.TokenAssign) {
			p.nextToken()
			s.Value = p.parseAssignValue()
		}
		return s
	}

	if op, ok := augOperators[p.curToken.Type]; ok {
		switch first.(type) {
		case pyast.Name, pyast.Attribute, pyast.Subscript:
		default:
			p.errorf("illegal expression for augmented assignment")
		}
		p.nextToken()
		return pyast.AugAssign{Pos: pos, Target: first, Op: op, Value: p.parseAssignValue()}
	}

	if !p.curTokenIs(lexer.TokenAssign) {
		return pyast.ExprStmt{Pos: pos, Value: first}
	}
	s := pyast.Assign{Pos: pos}
	value := first
	for p.curTokenIs(lexer.TokenAssign) {
		p.checkTarget(value, "assign to")
		s.Targets = append(s.Targets, value)
		p.nextToken()
		value = p.parseAssignValue()
	}
	s.Value = value
	return s
}

// checkTarget rejects expressions that cannot be stored to or deleted
func (p *Parser) checkTarget(e pyast.Expr, verb string) {
	switch e := e.(type) {
	case pyast.Name, pyast.Attribute, pyast.Subscript:
		return
	case pyast.Starred:
		p.checkTarget(e.Value, verb)
		return
	case pyast.Tuple:
		for _, elt := range e.Elts {
			p.checkTarget(elt, verb)
		}
		return
	case pyast.List:
		for _, elt := range e.Elts {
			p.checkTarget(elt, verb)
		}
		return
	}
	p.errorf("cannot %s %T", verb, e)
}
