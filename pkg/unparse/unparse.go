// Package unparse converts a pyast tree back into Python source text with the
// fewest parentheses that still re-parse to the same tree.
package unparse

import (
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/raymyers/pyunparse/pkg/pyast"
)

// indentUnit is prefixed once per nesting level
const indentUnit = "    "

// Stats reports diagnostics gathered during one render
type Stats struct {
	MaxDepth int // deepest recursive entry into the printer
}

// Render returns the source text for node. It fails on unsupported or
// malformed nodes and never returns partial text.
func Render(node pyast.Node) (string, error) {
	out, _, err := RenderStats(node)
	return out, err
}

// RenderStats is Render plus the recursion statistics of the call
func RenderStats(node pyast.Node) (out string, stats Stats, err error) {
	p := &printer{}
	defer func() {
		if r := recover(); r != nil {
			re, ok := r.(renderError)
			if !ok {
				panic(r)
			}
			out, err = "", re.err
		}
		stats = Stats{MaxDepth: p.maxDepth}
	}()
	out = strings.Join(p.node(node), "\n")
	return out, stats, nil
}

// Printer writes rendered trees to an io.Writer
type Printer struct {
	w     io.Writer
	stats Stats
}

// NewPrinter creates a new source printer
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Print renders node and writes it followed by a newline. Nothing is written
// when rendering fails.
func (p *Printer) Print(node pyast.Node) error {
	out, stats, err := RenderStats(node)
	if err != nil {
		return err
	}
	if stats.MaxDepth > p.stats.MaxDepth {
		p.stats.MaxDepth = stats.MaxDepth
	}
	if out == "" {
		return nil
	}
	_, err = io.WriteString(p.w, out+"\n")
	return errors.Wrap(err, "write source")
}

// Stats returns the deepest recursion seen across all Print calls
func (p *Printer) Stats() Stats {
	return p.stats
}

// printer holds the state of a single render call
type printer struct {
	depth    int
	maxDepth int
}

func (p *printer) enter() {
	p.depth++
	if p.depth > p.maxDepth {
		p.maxDepth = p.depth
	}
}

func (p *printer) leave() {
	p.depth--
}

// node dispatches any node variant to its printer and returns output lines
func (p *printer) node(n pyast.Node) []string {
	p.enter()
	defer p.leave()

	switch n := n.(type) {
	case nil:
		p.fail(ErrMalformedNode, n, "nil node")
	case pyast.Module:
		return p.stmts(n.Body)
	case pyast.Expression:
		return []string{p.expr(n.Body, ctxRoot)}
	case pyast.Keyword:
		return []string{p.keyword(n)}
	case pyast.Comprehension:
		return []string{p.comprehension(n)}
	case pyast.Arguments:
		return []string{p.arguments(&n)}
	case pyast.Arg:
		return []string{p.arg(n)}
	case pyast.Alias:
		return []string{alias(n)}
	case pyast.WithItem:
		return []string{p.withItem(n)}
	case pyast.ExceptHandler:
		return p.handler(n)
	case pyast.Stmt:
		return p.stmt(n)
	case pyast.Slice, pyast.ExtSlice:
		// a bare index renders as the text between the brackets
		return []string{p.index(n.(pyast.Expr))}
	case pyast.Expr:
		return []string{p.expr(n, ctxRoot)}
	default:
		p.fail(ErrUnsupportedVariant, n, "no printer registered")
	}
	return nil
}
