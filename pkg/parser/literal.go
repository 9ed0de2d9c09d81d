package parser

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/raymyers/pyunparse/pkg/lexer"
	"github.com/raymyers/pyunparse/pkg/pyast"
)

// canonicalNumber rewrites a numeric literal the way Python prints its
// value: integers in decimal, floats and imaginaries in repr form
func canonicalNumber(lit string) (string, error) {
	s := strings.ReplaceAll(lit, "_", "")
	lower := strings.ToLower(s)

	if strings.HasSuffix(lower, "j") {
		f, err := parseFloat(s[:len(s)-1])
		if err != nil {
			return "", errors.Wrapf(err, "invalid imaginary literal %s", lit)
		}
		return strings.TrimSuffix(FormatFloat(f), ".0") + "j", nil
	}

	hex := strings.HasPrefix(lower, "0x")
	if !hex && strings.ContainsAny(lower, ".e") {
		f, err := parseFloat(s)
		if err != nil {
			return "", errors.Wrapf(err, "invalid float literal %s", lit)
		}
		return FormatFloat(f), nil
	}

	if len(s) > 1 && s[0] == '0' && s[1] >= '0' && s[1] <= '9' && strings.Trim(s, "0") != "" {
		return "", errors.Errorf("leading zeros in decimal integer literals are not permitted: %s", lit)
	}
	n, ok := new(big.Int).SetString(s, 0)
	if !ok {
		return "", errors.Errorf("invalid integer literal %s", lit)
	}
	return n.String(), nil
}

// parseFloat accepts out-of-range values, which round to zero or infinity
func parseFloat(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, err
	}
	return f, nil
}

// FormatFloat formats a non-negative float as Python's repr does: the
// shortest round-tripping digits, exponent notation below 1e-4 and from 1e16
// up, and ".0" on integral values. Infinity prints as 1e309, the smallest
// literal that overflows to it.
func FormatFloat(f float64) string {
	if math.IsInf(f, 0) {
		return "1e309"
	}
	if f == 0 {
		return "0.0"
	}
	s := strconv.FormatFloat(f, 'e', -1, 64)
	mant, expText := s, "0"
	if i := strings.IndexByte(s, 'e'); i >= 0 {
		mant, expText = s[:i], s[i+1:]
	}
	exp, _ := strconv.Atoi(expText)
	digits := strings.Replace(mant, ".", "", 1)

	if exp < -4 || exp >= 16 {
		out := digits[:1]
		if len(digits) > 1 {
			out += "." + digits[1:]
		}
		sign := "+"
		if exp < 0 {
			sign = "-"
			exp = -exp
		}
		return fmt.Sprintf("%se%s%02d", out, sign, exp)
	}
	if exp < 0 {
		return "0." + strings.Repeat("0", -exp-1) + digits
	}
	if len(digits) <= exp+1 {
		return digits + strings.Repeat("0", exp+1-len(digits)) + ".0"
	}
	return digits[:exp+1] + "." + digits[exp+1:]
}

// stringLiteral is one string token split into its parts
type stringLiteral struct {
	raw     bool
	bytes   bool
	fstring bool
	body    string
}

func splitStringLiteral(lit string) stringLiteral {
	var s stringLiteral
	i := 0
	for i < len(lit) && lit[i] != '\'' && lit[i] != '"' {
		switch lit[i] {
		case 'r', 'R':
			s.raw = true
		case 'b', 'B':
			s.bytes = true
		case 'f', 'F':
			s.fstring = true
		}
		i++
	}
	quote := 1
	if strings.HasPrefix(lit[i:], `"""`) || strings.HasPrefix(lit[i:], "'''") {
		quote = 3
	}
	s.body = lit[i+quote : len(lit)-quote]
	return s
}

// parseStrings joins adjacent string tokens into one Str, Bytes or
// JoinedStr
func (p *Parser) parseStrings() pyast.Expr {
	first := p.curToken
	var lits []stringLiteral
	for p.curTokenIs(lexer.TokenString) {
		lits = append(lits, splitStringLiteral(p.curToken.Literal))
		p.nextToken()
	}

	isBytes, isF := lits[0].bytes, false
	for _, lit := range lits {
		if lit.bytes != isBytes {
			p.errorAt(first, "cannot mix bytes and nonbytes literals")
		}
		isF = isF || lit.fstring
	}

	if isBytes {
		var b strings.Builder
		for _, lit := range lits {
			b.WriteString(p.decode(first, lit.body, lit.raw, true))
		}
		return pyast.Bytes{Value: b.String()}
	}
	if !isF {
		var b strings.Builder
		for _, lit := range lits {
			b.WriteString(p.decode(first, lit.body, lit.raw, false))
		}
		return pyast.Str{Value: b.String()}
	}

	var values []pyast.Expr
	for _, lit := range lits {
		if lit.fstring {
			parts, _ := p.fstringParts(first, lit, 0, false)
			values = append(values, parts...)
			continue
		}
		values = append(values, pyast.Str{Value: p.decode(first, lit.body, lit.raw, false)})
	}
	return pyast.JoinedStr{Values: mergeStrings(values)}
}

// mergeStrings joins adjacent Str parts and drops empty ones
func mergeStrings(values []pyast.Expr) []pyast.Expr {
	var out []pyast.Expr
	for _, v := range values {
		s, ok := v.(pyast.Str)
		if !ok {
			out = append(out, v)
			continue
		}
		if s.Value == "" {
			continue
		}
		if n := len(out); n > 0 {
			if prev, ok := out[n-1].(pyast.Str); ok {
				out[n-1] = pyast.Str{Value: prev.Value + s.Value}
				continue
			}
		}
		out = append(out, s)
	}
	return out
}

func (p *Parser) decode(tok lexer.Token, body string, raw, bytes bool) string {
	s, err := decodeEscapes(body, raw, bytes)
	if err != nil {
		p.errorAt(tok, err.Error())
	}
	return s
}

var simpleEscapes = map[byte]byte{
	'\\': '\\', '\'': '\'', '"': '"',
	'a': '\a', 'b': '\b', 'f': '\f', 'n': '\n', 'r': '\r', 't': '\t', 'v': '\v',
}

// decodeEscapes processes backslash escapes. Bytes literals yield raw bytes;
// string escapes above 0x7f yield UTF-8.
func decodeEscapes(body string, raw, bytes bool) (string, error) {
	if bytes {
		for i := 0; i < len(body); i++ {
			if body[i] >= utf8.RuneSelf {
				return "", errors.New("bytes can only contain ASCII literal characters")
			}
		}
	}
	if raw || !strings.Contains(body, `\`) {
		return body, nil
	}

	var b strings.Builder
	writeCode := func(v uint64) {
		if bytes {
			b.WriteByte(byte(v))
		} else {
			b.WriteRune(rune(v))
		}
	}
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' || i+1 == len(body) {
			b.WriteByte(c)
			continue
		}
		i++
		c = body[i]
		if e, ok := simpleEscapes[c]; ok {
			b.WriteByte(e)
			continue
		}
		switch {
		case c == '\n':
			// line continuation inside the literal
		case c >= '0' && c <= '7':
			j := i + 1
			for j < len(body) && j < i+3 && body[j] >= '0' && body[j] <= '7' {
				j++
			}
			v, _ := strconv.ParseUint(body[i:j], 8, 32)
			writeCode(v)
			i = j - 1
		case c == 'x' || (!bytes && (c == 'u' || c == 'U')):
			width := map[byte]int{'x': 2, 'u': 4, 'U': 8}[c]
			if i+width >= len(body) {
				return "", errors.Errorf(`truncated \%c escape`, c)
			}
			v, err := strconv.ParseUint(body[i+1:i+1+width], 16, 32)
			if err != nil {
				return "", errors.Errorf(`invalid \%c escape`, c)
			}
			if v > utf8.MaxRune {
				return "", errors.Errorf(`illegal Unicode character \%c%s`, c, body[i+1:i+1+width])
			}
			writeCode(v)
			i += width
		case c == 'N' && !bytes:
			return "", errors.New(`\N{...} escapes are not supported`)
		default:
			b.WriteByte('\\')
			b.WriteByte(c)
		}
	}
	return b.String(), nil
}

// fstringParts parses the body of an f-string from offset i into Str and
// FormattedValue parts. Inside a format spec it stops at the '}' that closes
// the enclosing field and returns its offset.
func (p *Parser) fstringParts(tok lexer.Token, lit stringLiteral, i int, spec bool) ([]pyast.Expr, int) {
	body := lit.body
	var values []pyast.Expr
	var text strings.Builder
	flush := func() {
		if text.Len() > 0 {
			values = append(values, pyast.Str{Value: p.decode(tok, text.String(), lit.raw, false)})
			text.Reset()
		}
	}

	for i < len(body) {
		c := body[i]
		switch {
		case c == '{' && !spec && strings.HasPrefix(body[i:], "{{"):
			text.WriteByte('{')
			i += 2
		case c == '}' && !spec && strings.HasPrefix(body[i:], "}}"):
			text.WriteByte('}')
			i += 2
		case c == '{':
			flush()
			var fv pyast.FormattedValue
			fv, i = p.fstringField(tok, lit, i+1)
			values = append(values, fv)
		case c == '}':
			if spec {
				flush()
				return values, i
			}
			p.errorAt(tok, "f-string: single '}' is not allowed")
		default:
			text.WriteByte(c)
			i++
		}
	}
	if spec {
		p.errorAt(tok, "f-string: expecting '}'")
	}
	flush()
	return mergeStrings(values), i
}

// fstringField parses a replacement field starting after its '{'
func (p *Parser) fstringField(tok lexer.Token, lit stringLiteral, start int) (pyast.FormattedValue, int) {
	body := lit.body
	end := fieldExpressionEnd(body, start)
	if end >= len(body) {
		p.errorAt(tok, "f-string: expecting '}'")
	}
	text := body[start:end]
	if strings.TrimSpace(text) == "" {
		p.errorAt(tok, "f-string: empty expression not allowed")
	}
	if strings.Contains(text, `\`) {
		p.errorAt(tok, "f-string expression part cannot include a backslash")
	}

	value, err := ParseExpression("(" + text + ")")
	if err != nil {
		var pe *Error
		msg := err.Error()
		if errors.As(err, &pe) {
			msg = pe.Msg
		}
		p.errorAt(tok, "f-string: "+msg)
	}
	fv := pyast.FormattedValue{Value: value}

	i := end
	if body[i] == '!' {
		if i+1 >= len(body) || strings.IndexByte("sra", body[i+1]) < 0 {
			p.errorAt(tok, "f-string: invalid conversion character: expected 's', 'r', or 'a'")
		}
		fv.Conversion = body[i+1]
		i += 2
	}
	if i < len(body) && body[i] == ':' {
		var spec []pyast.Expr
		spec, i = p.fstringParts(tok, lit, i+1, true)
		fv.FormatSpec = &pyast.JoinedStr{Values: spec}
	}
	if i >= len(body) || body[i] != '}' {
		p.errorAt(tok, "f-string: expecting '}'")
	}
	return fv, i + 1
}

// fieldExpressionEnd finds the end of a field's expression: the first '}',
// ':' or conversion '!' outside brackets and string literals
func fieldExpressionEnd(body string, i int) int {
	depth := 0
	for i < len(body) {
		c := body[i]
		switch {
		case c == '\'' || c == '"':
			quote := body[i : i+1]
			if strings.HasPrefix(body[i:], strings.Repeat(quote, 3)) {
				quote = strings.Repeat(quote, 3)
			}
			n := strings.Index(body[i+len(quote):], quote)
			if n < 0 {
				return len(body)
			}
			i += len(quote) + n + len(quote)
			continue
		case c == '(' || c == '[' || c == '{':
			depth++
		case c == ')' || c == ']' || (c == '}' && depth > 0):
			depth--
		case depth == 0 && (c == '}' || c == ':'):
			return i
		case depth == 0 && c == '!' && !strings.HasPrefix(body[i:], "!="):
			return i
		}
		i++
	}
	return i
}
