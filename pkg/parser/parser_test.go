package parser

import (
	"math"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/raymyers/pyunparse/pkg/lexer"
	"github.com/raymyers/pyunparse/pkg/pyast"
	"github.com/raymyers/pyunparse/pkg/treeyaml"
)

// TestSpec represents a test case from parse.yaml
type TestSpec struct {
	Name  string    `yaml:"name"`
	Mode  string    `yaml:"mode"`
	Input string    `yaml:"input"`
	AST   yaml.Node `yaml:"ast"`
}

// TestFile represents the parse.yaml file structure
type TestFile struct {
	Tests []TestSpec `yaml:"tests"`
}

func parseInput(mode, input string) (pyast.Node, error) {
	if mode == "eval" {
		return ParseExpression(input)
	}
	return ParseModule(input)
}

func TestParseYAML(t *testing.T) {
	data, err := os.ReadFile("../../testdata/parse.yaml")
	if err != nil {
		t.Fatalf("failed to read parse.yaml: %v", err)
	}

	var testFile TestFile
	if err := yaml.Unmarshal(data, &testFile); err != nil {
		t.Fatalf("failed to parse parse.yaml: %v", err)
	}

	for _, tc := range testFile.Tests {
		t.Run(tc.Name, func(t *testing.T) {
			want, err := treeyaml.Decode(&tc.AST)
			require.NoError(t, err, "bad expected tree")

			got, err := parseInput(tc.Mode, tc.Input)
			require.NoError(t, err)
			assert.True(t, pyast.Equal(want, got), "tree mismatch (-want +got):\n%s", pyast.Diff(want, got))
		})
	}
}

func TestParserPositions(t *testing.T) {
	mod, err := ParseModule("x = 1\nif x:\n    y = 2\n")
	require.NoError(t, err)
	require.Len(t, mod.Body, 2)

	assign := mod.Body[0].(pyast.Assign)
	assert.Equal(t, pyast.Pos{Line: 1, Col: 1}, assign.Pos)

	ifStmt := mod.Body[1].(pyast.If)
	assert.Equal(t, pyast.Pos{Line: 2, Col: 1}, ifStmt.Pos)
	assert.Equal(t, pyast.Pos{Line: 3, Col: 5}, ifStmt.Body[0].(pyast.Assign).Pos)
}

func TestParserErrorsList(t *testing.T) {
	p := New(lexer.New("x = = 1\n"))
	p.ParseModule()
	require.Len(t, p.Errors(), 1)
	assert.Contains(t, p.Errors()[0], "line 1, col 5")
	assert.Error(t, p.Err())
}

func TestCanonicalNumber(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0"},
		{"00", "0"},
		{"42", "42"},
		{"1_000_000", "1000000"},
		{"0xFF", "255"},
		{"0o777", "511"},
		{"0b1010", "10"},
		{"123456789012345678901234567890", "123456789012345678901234567890"},
		{"1.0", "1.0"},
		{"1.", "1.0"},
		{".25", "0.25"},
		{"1e3", "1000.0"},
		{"1.5e-7", "1.5e-07"},
		{"0.0001", "0.0001"},
		{"0.00001", "1e-05"},
		{"1e16", "1e+16"},
		{"123456789.125", "123456789.125"},
		{"1e400", "1e309"},
		{"1e-400", "0.0"},
		{"3j", "3j"},
		{"2.5J", "2.5j"},
		{"1e20j", "1e+20j"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := canonicalNumber(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCanonicalNumberErrors(t *testing.T) {
	for _, in := range []string{"012", "0x", "0b12"} {
		t.Run(in, func(t *testing.T) {
			_, err := canonicalNumber(in)
			assert.Error(t, err)
		})
	}
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.0"},
		{1, "1.0"},
		{0.1, "0.1"},
		{1.0 / 3, "0.3333333333333333"},
		{1e15, "1000000000000000.0"},
		{1e16, "1e+16"},
		{1.25e-5, "1.25e-05"},
		{math.MaxFloat64, "1.7976931348623157e+308"},
		{math.Inf(1), "1e309"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatFloat(tt.in))
		})
	}
}

func TestDecodeEscapes(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		raw   bool
		bytes bool
		want  string
	}{
		{"plain", "abc", false, false, "abc"},
		{"simple escapes", `a\tb\n\\\'\"`, false, false, "a\tb\n\\'\""},
		{"octal", `\101\0`, false, false, "A\x00"},
		{"hex", `\x41\xe9`, false, false, "Aé"},
		{"unicode", `\u00e9\U0001F600`, false, false, "é\U0001F600"},
		{"unknown escape kept", `\d`, false, false, `\d`},
		{"line continuation", "a\\\nb", false, false, "ab"},
		{"raw", `\n\x41`, true, false, `\n\x41`},
		{"bytes hex", `\xff\x00`, false, true, "\xff\x00"},
		{"bytes keep unicode escape", `\u00e9`, false, true, `\u00e9`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeEscapes(tt.body, tt.raw, tt.bytes)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeEscapesErrors(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		bytes bool
	}{
		{"truncated hex", `\x4`, false},
		{"bad hex", `\xzz`, false},
		{"out of range", `\U00110000`, false},
		{"named escape", `\N{DASH}`, false},
		{"non-ascii bytes", "é", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeEscapes(tt.body, false, tt.bytes)
			assert.Error(t, err)
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		msg        string
		incomplete bool
	}{
		{"double equals", "x = = 1\n", "expected expression", false},
		{"dangling operator", "1 +\n", "expected expression", false},
		{"open block", "if x:\n", "expected an indented block", true},
		{"open call", "f(1,", "expected expression", true},
		{"open triple string", "'''abc\n", "", true},
		{"line continuation at end", "x = 1 + \\", "", true},
		{"unexpected indent", "x = 1\n    y = 2\n", "unexpected indent", false},
		{"bad dedent", "if x:\n    a\n  b\n", "unindent does not match", false},
		{"default order", "def f(a=1, b): pass\n", "non-default argument follows default argument", false},
		{"keyword order", "f(k=1, a)\n", "positional argument follows keyword argument", false},
		{"bare star", "def f(*): pass\n", "named arguments must follow bare *", false},
		{"assign to literal", "1 = x\n", "cannot assign to", false},
		{"delete call", "del f()\n", "cannot delete", false},
		{"annotate tuple", "(a, b): int\n", "illegal target for annotation", false},
		{"augment literal", "1 += 2\n", "illegal expression for augmented assignment", false},
		{"mixed bytes", "'a' b'b'\n", "cannot mix bytes and nonbytes literals", false},
		{"leading zeros", "x = 012\n", "leading zeros", false},
		{"try alone", "try:\n    pass\nx = 1\n", "expected 'except' or 'finally' block", false},
		{"decorated statement", "@d\nx = 1\n", "expected function or class definition", false},
		{"starred paren", "(*a)\n", "cannot use starred expression here", false},
		{"empty f-string field", "f'{}'\n", "empty expression not allowed", false},
		{"bad conversion", "f'{x!z}'\n", "invalid conversion character", false},
		{"single close brace", "f'a}'\n", "single '}' is not allowed", false},
		{"unclosed field", "f'{x'\n", "expecting '}'", false},
		{"backslash in field", `f'{"\n"}'` + "\n", "cannot include a backslash", false},
		{"bad field expression", "f'{a b}'\n", "f-string: ", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseModule(tt.input)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
			assert.Equal(t, tt.incomplete, IsIncomplete(err), "incomplete flag for %v", err)
		})
	}
}

func TestParseExpressionMode(t *testing.T) {
	e, err := ParseExpression("\n  a, *b\n")
	require.NoError(t, err)
	want := pyast.Tuple{Elts: []pyast.Expr{pyast.Name{ID: "a"}, pyast.Starred{Value: pyast.Name{ID: "b"}}}}
	assert.True(t, pyast.Equal(want, e), pyast.Diff(want, e))

	_, err = ParseExpression("x = 1")
	assert.Error(t, err)

	_, err = ParseExpression("yield")
	assert.NoError(t, err)
}

func TestIsIncompleteOtherErrors(t *testing.T) {
	assert.False(t, IsIncomplete(nil))
	assert.False(t, IsIncomplete(os.ErrNotExist))
}

func TestBinaryLevelsFollowPrecedence(t *testing.T) {
	prev := pyast.Precedence(pyast.OpCompare)
	for i, level := range binaryLevels {
		var tier int
		for _, op := range level {
			tier = pyast.Precedence(op)
			assert.Greater(t, tier, prev, "level %d operator %s", i, op.Name())
		}
		for _, op := range level {
			assert.Equal(t, tier, pyast.Precedence(op), "level %d mixes tiers", i)
		}
		prev = tier
	}
	assert.Greater(t, pyast.Precedence(pyast.OpPow), prev)
}
