// Package lexer tokenizes Python source, producing INDENT and DEDENT tokens
// from leading whitespace.
package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// tabSize is the column multiple a tab advances indentation to
const tabSize = 8

// Lexer tokenizes Python source code
type Lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // next reading position
	ch      byte // current character
	line    int
	column  int

	indents      []int   // open indentation levels; the first is always 0
	pending      []Token // queued INDENT/DEDENT tokens
	depth        int     // bracket nesting; newlines inside brackets are ignored
	atLineStart  bool
	last         TokenType
	emitted      bool // any token of a logical line has been produced
	unterminated bool
}

// New creates a new Lexer for the given input
func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0, indents: []int{0}, atLineStart: true}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0 // EOF
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++
	l.column++

	if l.pos > 0 && l.pos <= len(l.input) && l.input[l.pos-1] == '\n' {
		l.line++
		l.column = 1
	}
}

func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

func (l *Lexer) peekCharAt(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) atEOF() bool {
	return l.pos >= len(l.input)
}

// AtEOF reports whether all input has been consumed
func (l *Lexer) AtEOF() bool {
	return l.atEOF()
}

// Unterminated reports whether the input ended inside a bracket, a
// triple-quoted string or after a line continuation. More input could
// complete it.
func (l *Lexer) Unterminated() bool {
	return l.unterminated || l.depth > 0
}

// NextToken returns the next token from the input
func (l *Lexer) NextToken() Token {
	tok := l.nextToken()
	l.last = tok.Type
	switch tok.Type {
	case TokenNewline:
		l.emitted = false
	case TokenIndent, TokenDedent, TokenEOF:
	default:
		l.emitted = true
	}
	return tok
}

func (l *Lexer) nextToken() Token {
	if len(l.pending) > 0 {
		tok := l.pending[0]
		l.pending = l.pending[1:]
		return tok
	}
	if l.atLineStart {
		l.atLineStart = false
		if tok, ok := l.indentation(); ok {
			return tok
		}
	}

	l.skipWhitespace()
	tok := Token{Line: l.line, Column: l.column}

	switch {
	case l.atEOF():
		return l.eof(tok)
	case l.ch == '\n':
		l.readChar()
		l.atLineStart = true
		tok.Type = TokenNewline
		tok.Literal = "\n"
		return tok
	case l.ch == '.' && isDigit(l.peekChar()):
		tok.Type = TokenNumber
		tok.Literal = l.readNumber()
		return tok
	case isDigit(l.ch):
		tok.Type = TokenNumber
		tok.Literal = l.readNumber()
		return tok
	case l.ch == '\'' || l.ch == '"':
		return l.readString(tok, l.pos)
	case isLetter(l.ch) || l.ch >= utf8.RuneSelf:
		start := l.pos
		ident := l.readIdentifier()
		if ident == "" {
			_, size := utf8.DecodeRuneInString(l.input[l.pos:])
			for i := 0; i < size; i++ {
				l.readChar()
			}
			tok.Type = TokenIllegal
			tok.Literal = l.input[start:l.pos]
			return tok
		}
		if (l.ch == '\'' || l.ch == '"') && isStringPrefix(ident) {
			return l.readString(tok, start)
		}
		tok.Literal = ident
		tok.Type = LookupIdent(ident)
		return tok
	}

	for n := 3; n >= 1; n-- {
		if l.pos+n > len(l.input) {
			continue
		}
		text := l.input[l.pos : l.pos+n]
		t, ok := operators[text]
		if !ok {
			continue
		}
		for i := 0; i < n; i++ {
			l.readChar()
		}
		switch t {
		case TokenLParen, TokenLBracket, TokenLBrace:
			l.depth++
		case TokenRParen, TokenRBracket, TokenRBrace:
			if l.depth > 0 {
				l.depth--
			}
		}
		tok.Type = t
		tok.Literal = text
		return tok
	}

	tok.Type = TokenIllegal
	tok.Literal = string(l.ch)
	l.readChar()
	return tok
}

// eof closes the last logical line and every open block
func (l *Lexer) eof(tok Token) Token {
	if l.emitted && l.depth == 0 {
		tok.Type = TokenNewline
		return tok
	}
	if len(l.indents) > 1 {
		l.indents = l.indents[:len(l.indents)-1]
		tok.Type = TokenDedent
		return tok
	}
	tok.Type = TokenEOF
	return tok
}

// indentation measures the leading whitespace of a line. Blank and
// comment-only lines are skipped. It returns an INDENT, the first of a run
// of DEDENTs, or nothing when the level is unchanged.
func (l *Lexer) indentation() (Token, bool) {
	for {
		col := 0
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\f' {
			switch l.ch {
			case ' ':
				col++
			case '\t':
				col = (col/tabSize + 1) * tabSize
			case '\f':
				col = 0
			}
			l.readChar()
		}
		if l.ch == '#' {
			l.skipComment()
		}
		if l.ch == '\r' {
			l.readChar()
		}
		if l.ch == '\n' {
			l.readChar()
			continue
		}
		if l.atEOF() {
			return Token{}, false
		}

		tok := Token{Line: l.line, Column: l.column}
		top := l.indents[len(l.indents)-1]
		switch {
		case col > top:
			l.indents = append(l.indents, col)
			tok.Type = TokenIndent
			return tok, true
		case col < top:
			for col < l.indents[len(l.indents)-1] {
				l.indents = l.indents[:len(l.indents)-1]
				l.pending = append(l.pending, Token{Type: TokenDedent, Line: tok.Line, Column: tok.Column})
			}
			if col != l.indents[len(l.indents)-1] {
				l.pending = nil
				tok.Type = TokenIllegal
				tok.Literal = "unindent does not match any outer indentation level"
				return tok, true
			}
			tok = l.pending[0]
			l.pending = l.pending[1:]
			return tok, true
		}
		return Token{}, false
	}
}

// skipWhitespace skips spaces, comments and line continuations, and
// newlines inside brackets
func (l *Lexer) skipWhitespace() {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\f' || l.ch == '\r':
			l.readChar()
		case l.ch == '#':
			l.skipComment()
		case l.ch == '\n' && l.depth > 0:
			l.readChar()
		case l.ch == '\\' && !l.atEOF():
			next := l.peekChar()
			if next == '\r' && l.peekCharAt(2) == '\n' {
				l.readChar() // \r\n: step onto the \r
				next = '\n'
			}
			if next != '\n' && next != 0 {
				return
			}
			l.readChar()
			if l.atEOF() {
				l.unterminated = true
				return
			}
			l.readChar() // consume newline
			if l.atEOF() {
				l.unterminated = true
			}
		default:
			return
		}
	}
}

func (l *Lexer) skipComment() {
	for l.ch != '\n' && !l.atEOF() {
		l.readChar()
	}
}

func (l *Lexer) readIdentifier() string {
	pos := l.pos
	for !l.atEOF() {
		if l.ch < utf8.RuneSelf {
			if !isLetter(l.ch) && !isDigit(l.ch) {
				break
			}
			l.readChar()
			continue
		}
		r, size := utf8.DecodeRuneInString(l.input[l.pos:])
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.Is(unicode.Mn, r) && !unicode.Is(unicode.Mc, r) {
			break
		}
		for i := 0; i < size; i++ {
			l.readChar()
		}
	}
	return l.input[pos:l.pos]
}

// readNumber reads an integer, float or imaginary literal as written
func (l *Lexer) readNumber() string {
	pos := l.pos
	if l.ch == '0' && strings.IndexByte("xXoObB", l.peekChar()) >= 0 {
		l.readChar()
		l.readChar()
		for isHexDigit(l.ch) || l.ch == '_' {
			l.readChar()
		}
		return l.input[pos:l.pos]
	}
	l.readDigits()
	if l.ch == '.' {
		l.readChar()
		l.readDigits()
	}
	if l.ch == 'e' || l.ch == 'E' {
		next := l.peekChar()
		if isDigit(next) || ((next == '+' || next == '-') && isDigit(l.peekCharAt(2))) {
			l.readChar()
			if l.ch == '+' || l.ch == '-' {
				l.readChar()
			}
			l.readDigits()
		}
	}
	if l.ch == 'j' || l.ch == 'J' {
		l.readChar()
	}
	return l.input[pos:l.pos]
}

func (l *Lexer) readDigits() {
	for isDigit(l.ch) || (l.ch == '_' && isDigit(l.peekChar())) {
		l.readChar()
	}
}

// readString reads a string literal starting at the prefix position start.
// The current character is the opening quote.
func (l *Lexer) readString(tok Token, start int) Token {
	quote := l.ch
	triple := l.peekChar() == quote && l.peekCharAt(2) == quote
	if triple {
		l.readChar()
		l.readChar()
	}
	l.readChar()

	for {
		switch {
		case l.atEOF():
			tok.Type = TokenIllegal
			if triple {
				l.unterminated = true
				tok.Literal = "unterminated triple-quoted string"
			} else {
				tok.Literal = "unterminated string"
			}
			return tok
		case l.ch == '\\':
			l.readChar()
			if !l.atEOF() {
				l.readChar()
			}
		case l.ch == '\n' && !triple:
			tok.Type = TokenIllegal
			tok.Literal = "unterminated string"
			return tok
		case l.ch == quote && (!triple || (l.peekChar() == quote && l.peekCharAt(2) == quote)):
			if triple {
				l.readChar()
				l.readChar()
			}
			l.readChar()
			tok.Type = TokenString
			tok.Literal = l.input[start:l.pos]
			return tok
		default:
			l.readChar()
		}
	}
}

// isStringPrefix reports whether ident may prefix a string literal
func isStringPrefix(ident string) bool {
	switch strings.ToLower(ident) {
	case "r", "u", "b", "f", "br", "rb", "fr", "rf":
		return true
	}
	return false
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || 'a' <= ch && ch <= 'f' || 'A' <= ch && ch <= 'F'
}
