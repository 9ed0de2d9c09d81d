package unparse

import (
	"strings"

	"github.com/raymyers/pyunparse/pkg/pyast"
)

// Side records which operand of a binary parent an expression occupies
type Side int

const (
	SideNone Side = iota
	SideLeft
	SideRight
)

// context describes the position an expression is printed in: the operator
// of the enclosing node and the operand side.
type context struct {
	parent pyast.Operator
	side   Side
}

var (
	// statement-level values and roots: never parenthesized
	ctxRoot = context{}
	// a full expression slot: call arguments, elements, defaults, conditions
	ctxExpr = context{parent: pyast.OpLambda}
	// comprehension clauses and the first two operands of a conditional
	ctxDisj = context{parent: pyast.OpIfExp, side: SideLeft}
	// the operand of *x and **x
	ctxStar = context{parent: pyast.OpBitOr}
	// the value of a trailer (.attr, [index], (args)) and of await
	ctxAtom = context{parent: pyast.OpAtom}
	// a replacement field of an f-string
	ctxField = context{parent: pyast.OpIfExp}
)

// ownOperator returns the precedence tag of e
func ownOperator(e pyast.Expr) pyast.Operator {
	switch e := e.(type) {
	case pyast.UnaryOp:
		return e.Op
	case pyast.BinOp:
		return e.Op
	case pyast.BoolOp:
		return e.Op
	case pyast.Compare:
		return pyast.OpCompare
	case pyast.IfExp:
		return pyast.OpIfExp
	case pyast.Lambda:
		return pyast.OpLambda
	case pyast.Yield, pyast.YieldFrom:
		return pyast.OpYield
	case pyast.Await:
		return pyast.OpAwait
	case pyast.Num:
		if strings.HasPrefix(e.Value, "-") {
			return pyast.OpUSub
		}
	}
	return pyast.OpAtom
}

func isSign(op pyast.Operator) bool {
	return op == pyast.OpUAdd || op == pyast.OpUSub || op == pyast.OpInvert
}

// needsParens decides whether an expression tagged own must be wrapped when
// printed in ctx. The rules are checked in order; the first match wins.
func needsParens(own pyast.Operator, ctx context) bool {
	parent := ctx.parent
	switch {
	case parent == pyast.OpNone:
		return false
	case parent == pyast.OpPow && ctx.side == SideRight && isSign(own):
		// 2**-1
		return false
	case parent == pyast.OpCompare && own == pyast.OpCompare:
		return true
	case own.IsBool() && own == parent:
		return true
	case pyast.Precedence(parent) > pyast.Precedence(own):
		return true
	case !pyast.SameTier(parent, own):
		return false
	case ctx.side == SideRight && pyast.IsLeftAssociativeConflict(parent):
		return true
	case ctx.side == SideLeft && pyast.IsRightAssociative(own):
		return true
	}
	return false
}

// expr renders e in the given context, adding parentheses when required
func (p *printer) expr(e pyast.Expr, ctx context) string {
	p.enter()
	defer p.leave()

	if e == nil {
		p.fail(ErrMalformedNode, e, "missing expression")
	}
	text := p.exprText(e)
	if needsParens(ownOperator(e), ctx) {
		return "(" + text + ")"
	}
	return text
}

// optExpr renders e when present, and returns "" otherwise
func (p *printer) optExpr(e pyast.Expr, ctx context) string {
	if e == nil {
		return ""
	}
	return p.expr(e, ctx)
}

// exprs renders each element in ctx and joins them with ", "
func (p *printer) exprs(es []pyast.Expr, ctx context) string {
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = p.expr(e, ctx)
	}
	return strings.Join(parts, ", ")
}

// exprText renders e without considering its surroundings
func (p *printer) exprText(e pyast.Expr) string {
	switch e := e.(type) {
	case pyast.Num:
		if e.Value == "" {
			p.fail(ErrMalformedNode, e, "empty numeric literal")
		}
		return e.Value
	case pyast.Str:
		return quoteStr(e.Value)
	case pyast.Bytes:
		return quoteBytes(e.Value)
	case pyast.JoinedStr:
		return p.joinedStr(e)
	case pyast.FormattedValue:
		return p.joinedStr(pyast.JoinedStr{Values: []pyast.Expr{e}})
	case pyast.NameConstant:
		if e.Value < pyast.ConstNone || e.Value > pyast.ConstFalse {
			p.fail(ErrMalformedNode, e, "unknown constant %d", int(e.Value))
		}
		return e.Value.String()
	case pyast.Ellipsis:
		return "..."
	case pyast.Name:
		if e.ID == "" {
			p.fail(ErrMalformedNode, e, "empty identifier")
		}
		return e.ID
	case pyast.Starred:
		return "*" + p.expr(e.Value, ctxStar)

	case pyast.List:
		return "[" + p.exprs(e.Elts, ctxExpr) + "]"
	case pyast.Tuple:
		switch len(e.Elts) {
		case 0:
			return "()"
		case 1:
			return "(" + p.expr(e.Elts[0], ctxExpr) + ",)"
		}
		return "(" + p.exprs(e.Elts, ctxExpr) + ")"
	case pyast.Set:
		if len(e.Elts) == 0 {
			p.fail(ErrMalformedNode, e, "empty set has no literal form")
		}
		return "{" + p.exprs(e.Elts, ctxExpr) + "}"
	case pyast.Dict:
		return p.dict(e)

	case pyast.UnaryOp:
		if !e.Op.IsUnary() {
			p.fail(ErrMalformedNode, e, "operator %s is not unary", e.Op.Name())
		}
		operand := p.expr(e.Operand, context{parent: e.Op, side: SideRight})
		if e.Op.IsKeyword() {
			return e.Op.String() + " " + operand
		}
		return e.Op.String() + operand
	case pyast.BinOp:
		if !e.Op.IsBinary() {
			p.fail(ErrMalformedNode, e, "operator %s is not binary", e.Op.Name())
		}
		left := p.expr(e.Left, context{parent: e.Op, side: SideLeft})
		right := p.expr(e.Right, context{parent: e.Op, side: SideRight})
		return left + e.Op.String() + right
	case pyast.BoolOp:
		if !e.Op.IsBool() {
			p.fail(ErrMalformedNode, e, "operator %s is not boolean", e.Op.Name())
		}
		if len(e.Values) < 2 {
			p.fail(ErrMalformedNode, e, "needs at least two operands, got %d", len(e.Values))
		}
		parts := make([]string, len(e.Values))
		for i, v := range e.Values {
			parts[i] = p.expr(v, context{parent: e.Op})
		}
		return strings.Join(parts, " "+e.Op.String()+" ")
	case pyast.Compare:
		return p.compare(e)

	case pyast.Attribute:
		if e.Attr == "" {
			p.fail(ErrMalformedNode, e, "empty attribute name")
		}
		value := p.expr(e.Value, ctxAtom)
		if isIntLiteral(e.Value) {
			// 1.real would lex as a float
			value = "(" + value + ")"
		}
		return value + "." + e.Attr
	case pyast.Subscript:
		return p.expr(e.Value, ctxAtom) + "[" + p.index(e.Slice) + "]"
	case pyast.Slice, pyast.ExtSlice:
		p.fail(ErrMalformedNode, e, "slice outside a subscript")
	case pyast.Call:
		return p.call(e)

	case pyast.ListComp:
		return "[" + p.expr(e.Elt, ctxExpr) + " " + p.generators(e, e.Generators) + "]"
	case pyast.SetComp:
		return "{" + p.expr(e.Elt, ctxExpr) + " " + p.generators(e, e.Generators) + "}"
	case pyast.GeneratorExp:
		return "(" + p.expr(e.Elt, ctxExpr) + " " + p.generators(e, e.Generators) + ")"
	case pyast.DictComp:
		kv := p.expr(e.Key, ctxExpr) + ":" + p.expr(e.Value, ctxExpr)
		return "{" + kv + " " + p.generators(e, e.Generators) + "}"

	case pyast.IfExp:
		body := p.expr(e.Body, ctxDisj)
		test := p.expr(e.Test, ctxDisj)
		return body + " if " + test + " else " + p.expr(e.Orelse, ctxExpr)
	case pyast.Lambda:
		return p.lambda(e)
	case pyast.Yield:
		if e.Value == nil {
			return "yield"
		}
		return "yield " + p.expr(e.Value, ctxExpr)
	case pyast.YieldFrom:
		return "yield from " + p.expr(e.Value, ctxExpr)
	case pyast.Await:
		return "await " + p.expr(e.Value, ctxAtom)
	}
	p.fail(ErrUnsupportedVariant, e, "no expression printer")
	return ""
}

// isIntLiteral reports whether e prints as a bare decimal integer
func isIntLiteral(e pyast.Expr) bool {
	n, ok := e.(pyast.Num)
	if !ok || n.Value == "" {
		return false
	}
	for _, c := range n.Value {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func (p *printer) dict(d pyast.Dict) string {
	if len(d.Keys) != len(d.Values) {
		p.fail(ErrMalformedNode, d, "%d keys for %d values", len(d.Keys), len(d.Values))
	}
	items := make([]string, len(d.Keys))
	for i, k := range d.Keys {
		if k == nil {
			items[i] = "**" + p.expr(d.Values[i], ctxStar)
			continue
		}
		items[i] = p.expr(k, ctxExpr) + ":" + p.expr(d.Values[i], ctxExpr)
	}
	return "{" + strings.Join(items, ", ") + "}"
}

func (p *printer) compare(c pyast.Compare) string {
	if len(c.Ops) == 0 || len(c.Ops) != len(c.Comparators) {
		p.fail(ErrMalformedNode, c, "%d operators for %d comparators", len(c.Ops), len(c.Comparators))
	}
	ctx := context{parent: pyast.OpCompare}
	var b strings.Builder
	b.WriteString(p.expr(c.Left, ctx))
	for i, op := range c.Ops {
		if !op.IsComparison() {
			p.fail(ErrMalformedNode, c, "operator %s is not a comparison", op.Name())
		}
		if op.IsKeyword() {
			b.WriteString(" " + op.String() + " ")
		} else {
			b.WriteString(op.String())
		}
		b.WriteString(p.expr(c.Comparators[i], ctx))
	}
	return b.String()
}

// index renders the contents of a subscript's brackets
func (p *printer) index(e pyast.Expr) string {
	switch e := e.(type) {
	case pyast.Slice:
		return p.slice(e)
	case pyast.ExtSlice:
		return p.extSlice(e)
	}
	return p.expr(e, ctxExpr)
}

func (p *printer) slice(s pyast.Slice) string {
	out := p.optExpr(s.Lower, ctxExpr) + ":" + p.optExpr(s.Upper, ctxExpr)
	if s.Step != nil {
		out += ":" + p.expr(s.Step, ctxExpr)
	}
	return out
}

func (p *printer) extSlice(s pyast.ExtSlice) string {
	if len(s.Dims) == 0 {
		p.fail(ErrMalformedNode, s, "no dimensions")
	}
	dims := make([]string, len(s.Dims))
	for i, d := range s.Dims {
		if _, ok := d.(pyast.ExtSlice); ok {
			p.fail(ErrMalformedNode, s, "nested extended slice")
		}
		dims[i] = p.index(d)
	}
	if len(dims) == 1 {
		return dims[0] + ","
	}
	return strings.Join(dims, ", ")
}

// generators renders the for clauses of the comprehension owner
func (p *printer) generators(owner pyast.Expr, gens []pyast.Comprehension) string {
	if len(gens) == 0 {
		p.fail(ErrMalformedNode, owner, "comprehension without a for clause")
	}
	parts := make([]string, len(gens))
	for i, g := range gens {
		parts[i] = p.comprehension(g)
	}
	return strings.Join(parts, " ")
}

func (p *printer) comprehension(c pyast.Comprehension) string {
	p.enter()
	defer p.leave()

	var b strings.Builder
	if c.IsAsync {
		b.WriteString("async ")
	}
	b.WriteString("for " + p.expr(c.Target, ctxExpr))
	b.WriteString(" in " + p.expr(c.Iter, ctxDisj))
	for _, cond := range c.Ifs {
		b.WriteString(" if " + p.expr(cond, ctxDisj))
	}
	return b.String()
}

func (p *printer) lambda(l pyast.Lambda) string {
	if l.Args != nil {
		for _, a := range allParams(l.Args) {
			if a.Annotation != nil {
				p.fail(ErrMalformedNode, l, "lambda parameter %s has an annotation", a.Name)
			}
		}
	}
	params := p.arguments(l.Args)
	body := p.expr(l.Body, ctxExpr)
	if params == "" {
		return "lambda: " + body
	}
	return "lambda " + params + ": " + body
}
