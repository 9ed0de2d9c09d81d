package unparse

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/raymyers/pyunparse/pkg/pyast"
)

// chooseQuote prefers single quotes unless the text holds a single quote and
// no double quote
func chooseQuote(s string) byte {
	if strings.IndexByte(s, '\'') >= 0 && strings.IndexByte(s, '"') < 0 {
		return '"'
	}
	return '\''
}

// quoteStr returns s as a Python string literal
func quoteStr(s string) string {
	var b strings.Builder
	q := chooseQuote(s)
	b.WriteByte(q)
	writeEscaped(&b, s, q)
	b.WriteByte(q)
	return b.String()
}

// writeEscaped writes s escaped for a literal delimited by q
func writeEscaped(b *strings.Builder, s string, q byte) {
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			fmt.Fprintf(b, `\x%02x`, s[i])
			i++
			continue
		}
		i += size
		switch {
		case r == '\\':
			b.WriteString(`\\`)
		case r == rune(q):
			b.WriteByte('\\')
			b.WriteByte(q)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(b, `\x%02x`, r)
		case r < 0x7f || unicode.IsPrint(r):
			b.WriteRune(r)
		case r < 0x100:
			fmt.Fprintf(b, `\x%02x`, r)
		case r < 0x10000:
			fmt.Fprintf(b, `\u%04x`, r)
		default:
			fmt.Fprintf(b, `\U%08x`, r)
		}
	}
}

// quoteBytes returns raw bytes as a Python bytes literal
func quoteBytes(s string) string {
	var b strings.Builder
	q := chooseQuote(s)
	b.WriteString("b")
	b.WriteByte(q)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\':
			b.WriteString(`\\`)
		case c == q:
			b.WriteByte('\\')
			b.WriteByte(q)
		case c == '\n':
			b.WriteString(`\n`)
		case c == '\r':
			b.WriteString(`\r`)
		case c == '\t':
			b.WriteString(`\t`)
		case c < 0x20 || c >= 0x7f:
			fmt.Fprintf(&b, `\x%02x`, c)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte(q)
	return b.String()
}

// fpart is one piece of an f-string body: literal text or a replacement
// field whose expression is already rendered
type fpart struct {
	literal string
	field   bool
	expr    string
	conv    byte
	spec    []fpart
	hasSpec bool
}

var fquotes = []string{"'", `"`, "'''", `"""`}

// joinedStr renders an f-string. The delimiter is the first of ' " ''' """
// that no field expression contains.
func (p *printer) joinedStr(js pyast.JoinedStr) string {
	parts := p.fparts(js, js.Values)

	var exprs []string
	collectFieldExprs(parts, &exprs)
	quote := ""
	for _, q := range fquotes {
		clash := false
		for _, e := range exprs {
			if strings.Contains(e, q) {
				clash = true
				break
			}
		}
		if !clash {
			quote = q
			break
		}
	}
	if quote == "" {
		p.fail(ErrMalformedNode, js, "no quote style can delimit the field expressions")
	}

	var b strings.Builder
	b.WriteString("f" + quote)
	writeFParts(&b, parts, quote[0])
	b.WriteString(quote)
	return b.String()
}

func (p *printer) fparts(owner pyast.Expr, values []pyast.Expr) []fpart {
	parts := make([]fpart, 0, len(values))
	for _, v := range values {
		switch v := v.(type) {
		case pyast.Str:
			parts = append(parts, fpart{literal: v.Value})
		case pyast.FormattedValue:
			parts = append(parts, p.field(v))
		default:
			p.fail(ErrMalformedNode, owner, "f-string part %T is neither Str nor FormattedValue", v)
		}
	}
	return parts
}

func (p *printer) field(fv pyast.FormattedValue) fpart {
	p.enter()
	defer p.leave()

	switch fv.Conversion {
	case 0, 's', 'r', 'a':
	default:
		p.fail(ErrMalformedNode, fv, "unknown conversion %q", fv.Conversion)
	}
	text := p.expr(fv.Value, ctxField)
	if strings.ContainsRune(text, '\\') {
		p.fail(ErrMalformedNode, fv, "backslash in f-string expression %s", text)
	}
	part := fpart{field: true, expr: text, conv: fv.Conversion}
	if fv.FormatSpec != nil {
		part.hasSpec = true
		part.spec = p.fparts(*fv.FormatSpec, fv.FormatSpec.Values)
	}
	return part
}

func collectFieldExprs(parts []fpart, out *[]string) {
	for _, part := range parts {
		if !part.field {
			continue
		}
		*out = append(*out, part.expr)
		collectFieldExprs(part.spec, out)
	}
}

func writeFParts(b *strings.Builder, parts []fpart, q byte) {
	for _, part := range parts {
		if !part.field {
			var lit strings.Builder
			writeEscaped(&lit, part.literal, q)
			text := strings.ReplaceAll(lit.String(), "{", "{{")
			b.WriteString(strings.ReplaceAll(text, "}", "}}"))
			continue
		}
		b.WriteByte('{')
		if strings.HasPrefix(part.expr, "{") {
			// {{ would read as an escaped brace
			b.WriteByte(' ')
		}
		b.WriteString(part.expr)
		if part.conv != 0 {
			b.WriteByte('!')
			b.WriteByte(part.conv)
		}
		if part.hasSpec {
			b.WriteByte(':')
			writeFParts(b, part.spec, q)
		}
		b.WriteByte('}')
	}
}
