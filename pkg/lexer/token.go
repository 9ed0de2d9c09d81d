package lexer

// TokenType represents the type of a token
type TokenType int

const (
	// Special tokens
	TokenEOF TokenType = iota
	TokenIllegal
	TokenNewline // end of a logical line
	TokenIndent
	TokenDedent

	// Literals
	TokenIdent  // main, foo, x
	TokenNumber // 42, 0x1f, 1.5e3, 2j
	TokenString // 'hello', b"raw", f'{x}' (literal holds the source text)

	// Keywords
	TokenFalse
	TokenNone
	TokenTrue
	TokenAnd
	TokenAs
	TokenAssert
	TokenAsync
	TokenAwait
	TokenBreak
	TokenClass
	TokenContinue
	TokenDef
	TokenDel
	TokenElif
	TokenElse
	TokenExcept
	TokenFinally
	TokenFor
	TokenFrom
	TokenGlobal
	TokenIf
	TokenImport
	TokenIn
	TokenIs
	TokenLambda
	TokenNonlocal
	TokenNot
	TokenOr
	TokenPass
	TokenRaise
	TokenReturn
	TokenTry
	TokenWhile
	TokenWith
	TokenYield

	// Operators
	TokenPlus        // +
	TokenMinus       // -
	TokenStar        // *
	TokenDoubleStar  // **
	TokenSlash       // /
	TokenDoubleSlash // //
	TokenPercent     // %
	TokenAt          // @
	TokenShl         // <<
	TokenShr         // >>
	TokenAmpersand   // &
	TokenPipe        // |
	TokenCaret       // ^
	TokenTilde       // ~
	TokenLt          // <
	TokenGt          // >
	TokenLe          // <=
	TokenGe          // >=
	TokenEq          // ==
	TokenNe          // !=
	TokenAssign      // =
	TokenArrow       // ->

	// Augmented assignment operators
	TokenPlusAssign        // +=
	TokenMinusAssign       // -=
	TokenStarAssign        // *=
	TokenDoubleStarAssign  // **=
	TokenSlashAssign       // /=
	TokenDoubleSlashAssign // //=
	TokenPercentAssign     // %=
	TokenAtAssign          // @=
	TokenShlAssign         // <<=
	TokenShrAssign         // >>=
	TokenAndAssign         // &=
	TokenOrAssign          // |=
	TokenXorAssign         // ^=

	// Delimiters
	TokenLParen    // (
	TokenRParen    // )
	TokenLBrace    // {
	TokenRBrace    // }
	TokenLBracket  // [
	TokenRBracket  // ]
	TokenComma     // ,
	TokenColon     // :
	TokenSemicolon // ;
	TokenDot       // .
	TokenEllipsis  // ...
)

var tokenNames = map[TokenType]string{
	TokenEOF:               "EOF",
	TokenIllegal:           "ILLEGAL",
	TokenNewline:           "NEWLINE",
	TokenIndent:            "INDENT",
	TokenDedent:            "DEDENT",
	TokenIdent:             "IDENT",
	TokenNumber:            "NUMBER",
	TokenString:            "STRING",
	TokenFalse:             "False",
	TokenNone:              "None",
	TokenTrue:              "True",
	TokenAnd:               "and",
	TokenAs:                "as",
	TokenAssert:            "assert",
	TokenAsync:             "async",
	TokenAwait:             "await",
	TokenBreak:             "break",
	TokenClass:             "class",
	TokenContinue:          "continue",
	TokenDef:               "def",
	TokenDel:               "del",
	TokenElif:              "elif",
	TokenElse:              "else",
	TokenExcept:            "except",
	TokenFinally:           "finally",
	TokenFor:               "for",
	TokenFrom:              "from",
	TokenGlobal:            "global",
	TokenIf:                "if",
	TokenImport:            "import",
	TokenIn:                "in",
	TokenIs:                "is",
	TokenLambda:            "lambda",
	TokenNonlocal:          "nonlocal",
	TokenNot:               "not",
	TokenOr:                "or",
	TokenPass:              "pass",
	TokenRaise:             "raise",
	TokenReturn:            "return",
	TokenTry:               "try",
	TokenWhile:             "while",
	TokenWith:              "with",
	TokenYield:             "yield",
	TokenPlus:              "+",
	TokenMinus:             "-",
	TokenStar:              "*",
	TokenDoubleStar:        "**",
	TokenSlash:             "/",
	TokenDoubleSlash:       "//",
	TokenPercent:           "%",
	TokenAt:                "@",
	TokenShl:               "<<",
	TokenShr:               ">>",
	TokenAmpersand:         "&",
	TokenPipe:              "|",
	TokenCaret:             "^",
	TokenTilde:             "~",
	TokenLt:                "<",
	TokenGt:                ">",
	TokenLe:                "<=",
	TokenGe:                ">=",
	TokenEq:                "==",
	TokenNe:                "!=",
	TokenAssign:            "=",
	TokenArrow:             "->",
	TokenPlusAssign:        "+=",
	TokenMinusAssign:       "-=",
	TokenStarAssign:        "*=",
	TokenDoubleStarAssign:  "**=",
	TokenSlashAssign:       "/=",
	TokenDoubleSlashAssign: "//=",
	TokenPercentAssign:     "%=",
	TokenAtAssign:          "@=",
	TokenShlAssign:         "<<=",
	TokenShrAssign:         ">>=",
	TokenAndAssign:         "&=",
	TokenOrAssign:          "|=",
	TokenXorAssign:         "^=",
	TokenLParen:            "(",
	TokenRParen:            ")",
	TokenLBrace:            "{",
	TokenRBrace:            "}",
	TokenLBracket:          "[",
	TokenRBracket:          "]",
	TokenComma:             ",",
	TokenColon:             ":",
	TokenSemicolon:         ";",
	TokenDot:               ".",
	TokenEllipsis:          "...",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

// Token represents a lexical token
type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
}

var keywords = map[string]TokenType{}

// operators maps every operator and delimiter spelling to its token type
var operators = map[string]TokenType{}

func init() {
	for t := TokenFalse; t <= TokenYield; t++ {
		keywords[tokenNames[t]] = t
	}
	for t := TokenPlus; t <= TokenEllipsis; t++ {
		operators[tokenNames[t]] = t
	}
}

// LookupIdent checks if an identifier is a keyword
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return TokenIdent
}

// IsKeyword reports whether t is a reserved word
func (t TokenType) IsKeyword() bool {
	return t >= TokenFalse && t <= TokenYield
}
