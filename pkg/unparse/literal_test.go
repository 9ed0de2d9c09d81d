package unparse

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raymyers/pyunparse/pkg/pyast"
)

func TestQuoteStr(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", `''`},
		{"abc", `'abc'`},
		{"it's", `"it's"`},
		{`say "hi"`, `'say "hi"'`},
		{`'"`, `'\'"'`},
		{"a\nb\tc\r", `'a\nb\tc\r'`},
		{`back\slash`, `'back\\slash'`},
		{"\x00\x1f\x7f", `'\x00\x1f\x7f'`},
		{"café", "'café'"},
		{"\u0080", `'\x80'`},
		{"\u2028", `'\u2028'`},
		{"\u00a0", `'\xa0'`},
		{"\U0001F600", "'\U0001F600'"},
		{"\U000E0001", `'\U000e0001'`},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, quoteStr(tt.in))
		})
	}
}

func TestQuoteBytes(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", `b''`},
		{"abc", `b'abc'`},
		{"it's", `b"it's"`},
		{"\x00\xff\n", `b'\x00\xff\n'`},
		{"caf\xc3\xa9", `b'caf\xc3\xa9'`},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, quoteBytes(tt.in))
		})
	}
}

func fv(value pyast.Expr) pyast.FormattedValue {
	return pyast.FormattedValue{Value: value}
}

func TestJoinedStr(t *testing.T) {
	tests := []struct {
		name string
		node pyast.Expr
		want string
	}{
		{
			name: "literal braces and conversion",
			node: pyast.JoinedStr{Values: []pyast.Expr{pyast.Str{Value: "a"}, pyast.FormattedValue{Value: name("x"), Conversion: 'r'}, pyast.Str{Value: "{}"}}},
			want: "f'a{x!r}{{}}'",
		},
		{
			name: "single quote inside field",
			node: pyast.JoinedStr{Values: []pyast.Expr{fv(pyast.Subscript{Value: name("d"), Slice: pyast.Str{Value: "k"}})}},
			want: `f"{d['k']}"`,
		},
		{
			name: "both quotes inside field",
			node: pyast.JoinedStr{Values: []pyast.Expr{fv(pyast.Call{Func: name("f"), Args: []pyast.Expr{pyast.Str{Value: "'"}, pyast.Str{Value: `"`}}})}},
			want: `f'''{f("'", '"')}'''`,
		},
		{
			name: "dict field",
			node: pyast.JoinedStr{Values: []pyast.Expr{fv(pyast.Dict{Keys: []pyast.Expr{name("a")}, Values: []pyast.Expr{name("b")}})}},
			want: "f'{ {a:b}}'",
		},
		{
			name: "nested format spec",
			node: pyast.JoinedStr{Values: []pyast.Expr{pyast.FormattedValue{
				Value:      name("x"),
				FormatSpec: &pyast.JoinedStr{Values: []pyast.Expr{pyast.Str{Value: ">"}, fv(name("w"))}},
			}}},
			want: "f'{x:>{w}}'",
		},
		{
			name: "lambda field",
			node: pyast.JoinedStr{Values: []pyast.Expr{fv(pyast.Lambda{Body: num("1")})}},
			want: "f'{(lambda: 1)}'",
		},
		{
			name: "quote in literal",
			node: pyast.JoinedStr{Values: []pyast.Expr{pyast.Str{Value: "it's "}, fv(name("x"))}},
			want: `f'it\'s {x}'`,
		},
		{
			name: "bare formatted value",
			node: pyast.FormattedValue{Value: name("x"), Conversion: 's'},
			want: "f'{x!s}'",
		},
		{
			name: "empty",
			node: pyast.JoinedStr{},
			want: "f''",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Render(tt.node)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJoinedStrErrors(t *testing.T) {
	tests := []struct {
		name string
		node pyast.Expr
	}{
		{"backslash in field", pyast.JoinedStr{Values: []pyast.Expr{fv(pyast.Str{Value: "\n"})}}},
		{"bad conversion", pyast.JoinedStr{Values: []pyast.Expr{pyast.FormattedValue{Value: name("x"), Conversion: 'q'}}}},
		{"foreign part", pyast.JoinedStr{Values: []pyast.Expr{name("x")}}},
		{"missing value", pyast.JoinedStr{Values: []pyast.Expr{pyast.FormattedValue{}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Render(tt.node)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedNode), "got %v", err)
		})
	}
}
