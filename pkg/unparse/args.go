package unparse

import (
	"strings"

	"github.com/raymyers/pyunparse/pkg/pyast"
)

// call renders a call. Arguments are regrouped as positional, keyword,
// *starred and **double-starred, each group keeping its source order.
func (p *printer) call(c pyast.Call) string {
	var positional, keywords, starred, double []string
	for _, a := range c.Args {
		if s, ok := a.(pyast.Starred); ok {
			starred = append(starred, p.expr(s, ctxExpr))
			continue
		}
		positional = append(positional, p.expr(a, ctxExpr))
	}
	for _, kw := range c.Keywords {
		if kw.Arg == "" {
			double = append(double, p.keyword(kw))
			continue
		}
		keywords = append(keywords, p.keyword(kw))
	}
	if c.Starargs != nil {
		starred = append(starred, "*"+p.expr(c.Starargs, ctxStar))
	}
	if c.Kwargs != nil {
		double = append(double, "**"+p.expr(c.Kwargs, ctxStar))
	}

	args := make([]string, 0, len(positional)+len(keywords)+len(starred)+len(double))
	args = append(args, positional...)
	args = append(args, keywords...)
	args = append(args, starred...)
	args = append(args, double...)
	return p.expr(c.Func, ctxAtom) + "(" + strings.Join(args, ", ") + ")"
}

// keyword renders name=value, or **value when the name is empty
func (p *printer) keyword(kw pyast.Keyword) string {
	p.enter()
	defer p.leave()

	if kw.Arg == "" {
		return "**" + p.expr(kw.Value, ctxStar)
	}
	return kw.Arg + "=" + p.expr(kw.Value, ctxExpr)
}

// allParams lists every named parameter of a
func allParams(a *pyast.Arguments) []pyast.Arg {
	params := append([]pyast.Arg{}, a.Args...)
	if a.Vararg != nil {
		params = append(params, *a.Vararg)
	}
	params = append(params, a.Kwonlyargs...)
	if a.Kwarg != nil {
		params = append(params, *a.Kwarg)
	}
	return params
}

// arguments renders a parameter list without the surrounding parentheses.
// A nil specification renders as the empty list.
func (p *printer) arguments(a *pyast.Arguments) string {
	if a == nil {
		return ""
	}
	p.enter()
	defer p.leave()

	if len(a.Defaults) > len(a.Args) {
		p.fail(ErrMalformedNode, *a, "%d defaults for %d parameters", len(a.Defaults), len(a.Args))
	}
	if len(a.KwDefaults) > len(a.Kwonlyargs) {
		p.fail(ErrMalformedNode, *a, "%d keyword defaults for %d keyword-only parameters",
			len(a.KwDefaults), len(a.Kwonlyargs))
	}

	var parts []string
	first := len(a.Args) - len(a.Defaults)
	for i, arg := range a.Args {
		s := p.arg(arg)
		if i >= first {
			s += "=" + p.expr(a.Defaults[i-first], ctxExpr)
		}
		parts = append(parts, s)
	}
	if a.Vararg != nil {
		parts = append(parts, "*"+p.arg(*a.Vararg))
	} else if len(a.Kwonlyargs) > 0 {
		parts = append(parts, "*")
	}
	for i, arg := range a.Kwonlyargs {
		s := p.arg(arg)
		if i < len(a.KwDefaults) && a.KwDefaults[i] != nil {
			s += "=" + p.expr(a.KwDefaults[i], ctxExpr)
		}
		parts = append(parts, s)
	}
	if a.Kwarg != nil {
		parts = append(parts, "**"+p.arg(*a.Kwarg))
	}
	return strings.Join(parts, ", ")
}

func (p *printer) arg(a pyast.Arg) string {
	if a.Name == "" {
		p.fail(ErrMalformedNode, a, "empty parameter name")
	}
	if a.Annotation == nil {
		return a.Name
	}
	return a.Name + ": " + p.expr(a.Annotation, ctxExpr)
}
