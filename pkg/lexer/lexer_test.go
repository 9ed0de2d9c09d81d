package lexer

import "testing"

type expectedToken struct {
	expectedType    TokenType
	expectedLiteral string
}

func checkTokens(t *testing.T, input string, tests []expectedToken) {
	t.Helper()
	l := New(input)

	for i, tt := range tests {
		tok := l.NextToken()

		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q (%q)",
				i, tt.expectedType, tok.Type, tok.Literal)
		}

		if tt.expectedLiteral != "" && tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q",
				i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestNextToken(t *testing.T) {
	input := `def main(x): return x + 42`

	checkTokens(t, input, []expectedToken{
		{TokenDef, "def"},
		{TokenIdent, "main"},
		{TokenLParen, "("},
		{TokenIdent, "x"},
		{TokenRParen, ")"},
		{TokenColon, ":"},
		{TokenReturn, "return"},
		{TokenIdent, "x"},
		{TokenPlus, "+"},
		{TokenNumber, "42"},
		{TokenNewline, ""},
		{TokenEOF, ""},
	})
}

func TestOperators(t *testing.T) {
	input := `+ - * ** / // % @ << >> & | ^ ~ < > <= >= == != = -> ... . , : ;`

	checkTokens(t, input, []expectedToken{
		{TokenPlus, "+"},
		{TokenMinus, "-"},
		{TokenStar, "*"},
		{TokenDoubleStar, "**"},
		{TokenSlash, "/"},
		{TokenDoubleSlash, "//"},
		{TokenPercent, "%"},
		{TokenAt, "@"},
		{TokenShl, "<<"},
		{TokenShr, ">>"},
		{TokenAmpersand, "&"},
		{TokenPipe, "|"},
		{TokenCaret, "^"},
		{TokenTilde, "~"},
		{TokenLt, "<"},
		{TokenGt, ">"},
		{TokenLe, "<="},
		{TokenGe, ">="},
		{TokenEq, "=="},
		{TokenNe, "!="},
		{TokenAssign, "="},
		{TokenArrow, "->"},
		{TokenEllipsis, "..."},
		{TokenDot, "."},
		{TokenComma, ","},
		{TokenColon, ":"},
		{TokenSemicolon, ";"},
		{TokenNewline, ""},
		{TokenEOF, ""},
	})
}

func TestAugmentedAssign(t *testing.T) {
	input := `+= -= *= **= /= //= %= @= <<= >>= &= |= ^=`

	checkTokens(t, input, []expectedToken{
		{TokenPlusAssign, "+="},
		{TokenMinusAssign, "-="},
		{TokenStarAssign, "*="},
		{TokenDoubleStarAssign, "**="},
		{TokenSlashAssign, "/="},
		{TokenDoubleSlashAssign, "//="},
		{TokenPercentAssign, "%="},
		{TokenAtAssign, "@="},
		{TokenShlAssign, "<<="},
		{TokenShrAssign, ">>="},
		{TokenAndAssign, "&="},
		{TokenOrAssign, "|="},
		{TokenXorAssign, "^="},
	})
}

func TestKeywords(t *testing.T) {
	for name, tokType := range keywords {
		if got := LookupIdent(name); got != tokType {
			t.Errorf("LookupIdent(%q) = %s, want %s", name, got, tokType)
		}
		if !tokType.IsKeyword() {
			t.Errorf("%s is not reported as a keyword", tokType)
		}
	}
	if got := LookupIdent("print"); got != TokenIdent {
		t.Errorf("LookupIdent(print) = %s, want IDENT", got)
	}
	if len(keywords) != 35 {
		t.Errorf("expected 35 keywords, got %d", len(keywords))
	}
}

func TestNumbers(t *testing.T) {
	input := `0 42 1_000 0x1F 0o17 0b1010 1.5 .5 1. 1e10 1.5E-3 2j 1.5J 1e5j`

	checkTokens(t, input, []expectedToken{
		{TokenNumber, "0"},
		{TokenNumber, "42"},
		{TokenNumber, "1_000"},
		{TokenNumber, "0x1F"},
		{TokenNumber, "0o17"},
		{TokenNumber, "0b1010"},
		{TokenNumber, "1.5"},
		{TokenNumber, ".5"},
		{TokenNumber, "1."},
		{TokenNumber, "1e10"},
		{TokenNumber, "1.5E-3"},
		{TokenNumber, "2j"},
		{TokenNumber, "1.5J"},
		{TokenNumber, "1e5j"},
		{TokenNewline, ""},
		{TokenEOF, ""},
	})
}

func TestStrings(t *testing.T) {
	input := `'a' "b\"c" r'\d' b'x' f"{y}" Rb'z' '''multi
line''' u'' e`

	checkTokens(t, input, []expectedToken{
		{TokenString, `'a'`},
		{TokenString, `"b\"c"`},
		{TokenString, `r'\d'`},
		{TokenString, `b'x'`},
		{TokenString, `f"{y}"`},
		{TokenString, `Rb'z'`},
		{TokenString, "'''multi\nline'''"},
		{TokenString, `u''`},
		{TokenIdent, "e"},
		{TokenNewline, ""},
		{TokenEOF, ""},
	})
}

func TestIndentation(t *testing.T) {
	input := "if a:\n    if b:\n        pass\n\n    # note\n    x\ny\n"

	checkTokens(t, input, []expectedToken{
		{TokenIf, "if"},
		{TokenIdent, "a"},
		{TokenColon, ":"},
		{TokenNewline, ""},
		{TokenIndent, ""},
		{TokenIf, "if"},
		{TokenIdent, "b"},
		{TokenColon, ":"},
		{TokenNewline, ""},
		{TokenIndent, ""},
		{TokenPass, "pass"},
		{TokenNewline, ""},
		{TokenDedent, ""},
		{TokenIdent, "x"},
		{TokenNewline, ""},
		{TokenDedent, ""},
		{TokenIdent, "y"},
		{TokenNewline, ""},
		{TokenEOF, ""},
	})
}

func TestDedentAtEOF(t *testing.T) {
	input := "while x:\n  for y in z:\n    pass"

	checkTokens(t, input, []expectedToken{
		{TokenWhile, ""},
		{TokenIdent, "x"},
		{TokenColon, ""},
		{TokenNewline, ""},
		{TokenIndent, ""},
		{TokenFor, ""},
		{TokenIdent, "y"},
		{TokenIn, ""},
		{TokenIdent, "z"},
		{TokenColon, ""},
		{TokenNewline, ""},
		{TokenIndent, ""},
		{TokenPass, ""},
		{TokenNewline, ""},
		{TokenDedent, ""},
		{TokenDedent, ""},
		{TokenEOF, ""},
	})
}

func TestBracketsJoinLines(t *testing.T) {
	input := "f(a,\n  b) \\\n  + c # trailing\n"

	checkTokens(t, input, []expectedToken{
		{TokenIdent, "f"},
		{TokenLParen, ""},
		{TokenIdent, "a"},
		{TokenComma, ""},
		{TokenIdent, "b"},
		{TokenRParen, ""},
		{TokenPlus, ""},
		{TokenIdent, "c"},
		{TokenNewline, ""},
		{TokenEOF, ""},
	})
}

func TestBadDedent(t *testing.T) {
	l := New("if a:\n    x\n  y\n")
	for {
		tok := l.NextToken()
		if tok.Type == TokenIllegal {
			return
		}
		if tok.Type == TokenEOF {
			t.Fatal("expected an ILLEGAL token for the inconsistent dedent")
		}
	}
}

func TestPositions(t *testing.T) {
	l := New("a = 1\n  \nbc")
	want := []struct {
		tokType      TokenType
		line, column int
	}{
		{TokenIdent, 1, 1},
		{TokenAssign, 1, 3},
		{TokenNumber, 1, 5},
		{TokenNewline, 1, 6},
		{TokenIdent, 3, 1},
	}
	for i, w := range want {
		tok := l.NextToken()
		if tok.Type != w.tokType || tok.Line != w.line || tok.Column != w.column {
			t.Errorf("token %d: got %s at %d:%d, want %s at %d:%d",
				i, tok.Type, tok.Line, tok.Column, w.tokType, w.line, w.column)
		}
	}
}

func TestUnterminated(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"x = (1,\n", true},
		{"s = '''abc\n", true},
		{"x = 1 + \\\n", true},
		{"x = 'abc\n", false},
		{"x = 1\n", false},
	}
	for _, tt := range tests {
		l := New(tt.input)
		for tok := l.NextToken(); tok.Type != TokenEOF; tok = l.NextToken() {
		}
		if got := l.Unterminated(); got != tt.want {
			t.Errorf("Unterminated(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
