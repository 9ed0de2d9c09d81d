package unparse

import (
	"strings"

	"github.com/raymyers/pyunparse/pkg/pyast"
)

// indent prefixes every line with one indentation unit
func indent(lines []string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = indentUnit + line
	}
	return out
}

// stmts renders a statement sequence at the current level
func (p *printer) stmts(body []pyast.Stmt) []string {
	var lines []string
	for _, s := range body {
		lines = append(lines, p.stmt(s)...)
	}
	return lines
}

// block renders the indented body of a compound statement. Python has no
// empty blocks, so an empty body is malformed.
func (p *printer) block(owner pyast.Node, what string, body []pyast.Stmt) []string {
	if len(body) == 0 {
		p.fail(ErrMalformedNode, owner, "empty %s block", what)
	}
	return indent(p.stmts(body))
}

// clause appends "header:" and its indented body to lines
func (p *printer) clause(lines []string, owner pyast.Node, header string, body []pyast.Stmt) []string {
	lines = append(lines, header+":")
	return append(lines, p.block(owner, header, body)...)
}

// orelse appends an else clause when body is not empty
func (p *printer) orelse(lines []string, owner pyast.Node, body []pyast.Stmt) []string {
	if len(body) == 0 {
		return lines
	}
	return p.clause(lines, owner, "else", body)
}

// line wraps single-line statement text, splitting embedded newlines
func line(text string) []string {
	return strings.Split(text, "\n")
}

func (p *printer) stmt(s pyast.Stmt) []string {
	p.enter()
	defer p.leave()

	switch s := s.(type) {
	case nil:
		p.fail(ErrMalformedNode, s, "missing statement")
	case pyast.ExprStmt:
		return line(p.expr(s.Value, ctxRoot))
	case pyast.Assign:
		if len(s.Targets) == 0 {
			p.fail(ErrMalformedNode, s, "no targets")
		}
		var b strings.Builder
		for _, t := range s.Targets {
			b.WriteString(p.expr(t, ctxRoot) + " = ")
		}
		b.WriteString(p.expr(s.Value, ctxRoot))
		return line(b.String())
	case pyast.AugAssign:
		if !s.Op.IsBinary() {
			p.fail(ErrMalformedNode, s, "operator %s is not binary", s.Op.Name())
		}
		return line(p.expr(s.Target, ctxRoot) + " " + s.Op.String() + "= " + p.expr(s.Value, ctxRoot))
	case pyast.AnnAssign:
		target := p.expr(s.Target, ctxRoot)
		if s.Parenthesized {
			target = "(" + target + ")"
		}
		text := target + ": " + p.expr(s.Annotation, ctxExpr)
		if s.Value != nil {
			text += " = " + p.expr(s.Value, ctxRoot)
		}
		return line(text)
	case pyast.Pass:
		return line("pass")
	case pyast.Break:
		return line("break")
	case pyast.Continue:
		return line("continue")
	case pyast.Delete:
		if len(s.Targets) == 0 {
			p.fail(ErrMalformedNode, s, "no targets")
		}
		return line("del " + p.exprs(s.Targets, ctxExpr))
	case pyast.Raise:
		return line(p.raise(s))
	case pyast.Assert:
		text := "assert " + p.expr(s.Test, ctxExpr)
		if s.Msg != nil {
			text += ", " + p.expr(s.Msg, ctxExpr)
		}
		return line(text)
	case pyast.Import:
		return line("import " + p.aliases(s, s.Names))
	case pyast.ImportFrom:
		if s.Level < 0 || (s.Level == 0 && s.Module == "") {
			p.fail(ErrMalformedNode, s, "no module to import from")
		}
		return line("from " + strings.Repeat(".", s.Level) + s.Module + " import " + p.aliases(s, s.Names))
	case pyast.Global:
		return line("global " + p.names(s, s.Names))
	case pyast.Nonlocal:
		return line("nonlocal " + p.names(s, s.Names))
	case pyast.Return:
		if s.Value == nil {
			return line("return")
		}
		return line("return " + p.expr(s.Value, ctxExpr))

	case pyast.If:
		return p.ifStmt(s)
	case pyast.For:
		header := "for " + p.expr(s.Target, ctxRoot) + " in " + p.expr(s.Iter, ctxExpr)
		if s.IsAsync {
			header = "async " + header
		}
		lines := p.clause(nil, s, header, s.Body)
		return p.orelse(lines, s, s.Orelse)
	case pyast.While:
		lines := p.clause(nil, s, "while "+p.expr(s.Test, ctxExpr), s.Body)
		return p.orelse(lines, s, s.Orelse)
	case pyast.Try:
		return p.try(s)
	case pyast.With:
		if len(s.Items) == 0 {
			p.fail(ErrMalformedNode, s, "no context managers")
		}
		items := make([]string, len(s.Items))
		for i, item := range s.Items {
			items[i] = p.withItem(item)
		}
		if _, ok := s.Items[0].ContextExpr.(pyast.Tuple); ok && len(s.Items) == 1 && s.Items[0].OptionalVars == nil {
			// with (a, b): is two context managers on newer Pythons
			items[0] = "(" + items[0] + ")"
		}
		header := "with " + strings.Join(items, ", ")
		if s.IsAsync {
			header = "async " + header
		}
		return p.clause(nil, s, header, s.Body)
	case pyast.FunctionDef:
		return p.functionDef(s)
	case pyast.ClassDef:
		return p.classDef(s)
	default:
		p.fail(ErrUnsupportedVariant, s, "no statement printer")
	}
	return nil
}

func (p *printer) raise(r pyast.Raise) string {
	if r.Exc == nil {
		if r.Cause != nil {
			p.fail(ErrMalformedNode, r, "cause without an exception")
		}
		return "raise"
	}
	text := "raise " + p.expr(r.Exc, ctxExpr)
	if r.Cause != nil {
		text += " from " + p.expr(r.Cause, ctxExpr)
	}
	return text
}

func alias(a pyast.Alias) string {
	if a.AsName == "" {
		return a.Name
	}
	return a.Name + " as " + a.AsName
}

func (p *printer) aliases(owner pyast.Stmt, names []pyast.Alias) string {
	if len(names) == 0 {
		p.fail(ErrMalformedNode, owner, "nothing imported")
	}
	parts := make([]string, len(names))
	for i, a := range names {
		if a.Name == "" {
			p.fail(ErrMalformedNode, owner, "empty import name")
		}
		parts[i] = alias(a)
	}
	return strings.Join(parts, ", ")
}

func (p *printer) names(owner pyast.Stmt, names []string) string {
	if len(names) == 0 {
		p.fail(ErrMalformedNode, owner, "no names")
	}
	return strings.Join(names, ", ")
}

// ifStmt renders an if statement. An else branch that holds exactly one If
// collapses into an elif clause.
func (p *printer) ifStmt(s pyast.If) []string {
	lines := p.clause(nil, s, "if "+p.expr(s.Test, ctxExpr), s.Body)
	if len(s.Orelse) == 1 {
		if nested, ok := s.Orelse[0].(pyast.If); ok {
			elif := p.stmt(nested)
			elif[0] = "el" + elif[0]
			return append(lines, elif...)
		}
	}
	return p.orelse(lines, s, s.Orelse)
}

func (p *printer) try(t pyast.Try) []string {
	if len(t.Handlers) == 0 && len(t.Finalbody) == 0 {
		p.fail(ErrMalformedNode, t, "needs an except or finally clause")
	}
	if len(t.Handlers) == 0 && len(t.Orelse) > 0 {
		p.fail(ErrMalformedNode, t, "else clause without except")
	}
	lines := p.clause(nil, t, "try", t.Body)
	for _, h := range t.Handlers {
		lines = append(lines, p.handler(h)...)
	}
	lines = p.orelse(lines, t, t.Orelse)
	if len(t.Finalbody) > 0 {
		lines = p.clause(lines, t, "finally", t.Finalbody)
	}
	return lines
}

func (p *printer) handler(h pyast.ExceptHandler) []string {
	p.enter()
	defer p.leave()

	header := "except"
	if h.Type != nil {
		header += " " + p.expr(h.Type, ctxExpr)
		if h.Name != "" {
			header += " as " + h.Name
		}
	} else if h.Name != "" {
		p.fail(ErrMalformedNode, h, "name %s without an exception type", h.Name)
	}
	return p.clause(nil, h, header, h.Body)
}

func (p *printer) withItem(w pyast.WithItem) string {
	p.enter()
	defer p.leave()

	text := p.expr(w.ContextExpr, ctxExpr)
	if w.OptionalVars != nil {
		text += " as " + p.expr(w.OptionalVars, ctxExpr)
	}
	return text
}

// decorators renders one @ line per decorator, outermost first
func (p *printer) decorators(decos []pyast.Expr) []string {
	lines := make([]string, len(decos))
	for i, d := range decos {
		lines[i] = "@" + p.expr(d, ctxExpr)
	}
	return lines
}

func (p *printer) functionDef(f pyast.FunctionDef) []string {
	if f.Name == "" {
		p.fail(ErrMalformedNode, f, "empty function name")
	}
	header := "def " + f.Name + "(" + p.arguments(f.Args) + ")"
	if f.IsAsync {
		header = "async " + header
	}
	if f.Returns != nil {
		header += " -> " + p.expr(f.Returns, ctxExpr)
	}
	return p.clause(p.decorators(f.Decorators), f, header, f.Body)
}

func (p *printer) classDef(c pyast.ClassDef) []string {
	if c.Name == "" {
		p.fail(ErrMalformedNode, c, "empty class name")
	}
	header := "class " + c.Name
	if len(c.Bases) > 0 || len(c.Keywords) > 0 {
		parts := make([]string, 0, len(c.Bases)+len(c.Keywords))
		for _, b := range c.Bases {
			parts = append(parts, p.expr(b, ctxExpr))
		}
		for _, kw := range c.Keywords {
			parts = append(parts, p.keyword(kw))
		}
		header += "(" + strings.Join(parts, ", ") + ")"
	}
	return p.clause(p.decorators(c.Decorators), c, header, c.Body)
}
