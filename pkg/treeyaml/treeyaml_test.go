package treeyaml

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raymyers/pyunparse/pkg/pyast"
)

func sampleModule() pyast.Module {
	a, b := pyast.Name{ID: "a"}, pyast.Name{ID: "b"}
	return pyast.Module{Body: []pyast.Stmt{
		pyast.FunctionDef{
			Pos:        pyast.Pos{Line: 1, Col: 1},
			Name:       "f",
			Decorators: []pyast.Expr{pyast.Name{ID: "d"}},
			Args: &pyast.Arguments{
				Args:       []pyast.Arg{{Name: "x", Annotation: pyast.Name{ID: "int"}}},
				Defaults:   []pyast.Expr{pyast.Num{Value: "1"}},
				Kwonlyargs: []pyast.Arg{{Name: "k"}},
				KwDefaults: []pyast.Expr{nil},
				Kwarg:      &pyast.Arg{Name: "kw"},
			},
			Body: []pyast.Stmt{
				pyast.If{
					Test: pyast.Compare{Left: a, Ops: []pyast.Operator{pyast.OpIsNot}, Comparators: []pyast.Expr{pyast.NameConstant{Value: pyast.ConstNone}}},
					Body: []pyast.Stmt{pyast.Return{Value: pyast.JoinedStr{Values: []pyast.Expr{
						pyast.Str{Value: "v="},
						pyast.FormattedValue{Value: a, Conversion: 'r', FormatSpec: &pyast.JoinedStr{Values: []pyast.Expr{pyast.Str{Value: ">8"}}}},
					}}}},
					Orelse: []pyast.Stmt{pyast.Pass{}},
				},
				pyast.Assign{
					Targets: []pyast.Expr{pyast.Tuple{Elts: []pyast.Expr{a, pyast.Starred{Value: b}}}},
					Value:   pyast.Dict{Keys: []pyast.Expr{pyast.Str{Value: "1"}, nil}, Values: []pyast.Expr{pyast.Bytes{Value: "\x00\xff"}, b}},
				},
				pyast.ExprStmt{Value: pyast.Subscript{Value: a, Slice: pyast.ExtSlice{Dims: []pyast.Expr{pyast.Slice{Step: b}, pyast.Ellipsis{}}}}},
			},
			IsAsync: true,
		},
		pyast.ImportFrom{Module: "m", Level: 2, Names: []pyast.Alias{{Name: "x", AsName: "y"}}},
	}}
}

func TestRoundTrip(t *testing.T) {
	mod := sampleModule()
	data, err := Marshal(mod)
	require.NoError(t, err)

	back, err := Unmarshal(data)
	require.NoError(t, err)
	assert.True(t, pyast.Equal(mod, back), pyast.Diff(mod, back))
}

func TestMarshalLayout(t *testing.T) {
	data, err := Marshal(pyast.BinOp{Left: pyast.Name{ID: "a"}, Op: pyast.OpAdd, Right: pyast.Name{ID: "b"}})
	require.NoError(t, err)
	text := string(data)
	assert.True(t, strings.HasPrefix(text, "kind: BinOp\n"), text)
	assert.Contains(t, text, "op: Add\n")
	assert.Contains(t, text, "left: {kind: Name, id: a}\n")
}

func TestMarshalQuotesAmbiguousScalars(t *testing.T) {
	for _, n := range []pyast.Node{
		pyast.NameConstant{Value: pyast.ConstTrue},
		pyast.Num{Value: "1"},
		pyast.Str{Value: "null"},
	} {
		data, err := Marshal(n)
		require.NoError(t, err)
		back, err := Unmarshal(data)
		require.NoError(t, err)
		assert.Equal(t, n, back, string(data))
	}
}

func TestBinaryValues(t *testing.T) {
	tests := []struct {
		name string
		in   pyast.Bytes
		want string
	}{
		{"high bytes", pyast.Bytes{Value: "\xff\x80"}, "!!binary /4A="},
		{"ascii stays text", pyast.Bytes{Value: "abc"}, "value: abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := Marshal(tt.in)
			require.NoError(t, err)
			assert.Contains(t, string(data), tt.want)

			back, err := Unmarshal(data)
			require.NoError(t, err)
			assert.Equal(t, tt.in, back)
		})
	}

	_, err := Unmarshal([]byte("{kind: Bytes, value: !!binary '%%%'}"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad binary value")
}

func TestUnmarshal(t *testing.T) {
	src := `
kind: Call
func: {kind: Attribute, value: {kind: Name, id: os}, attr: getenv}
args:
  - {kind: Str, value: HOME}
keywords:
  - {arg: default, value: {kind: NameConstant, value: None}}
`
	got, err := Unmarshal([]byte(src))
	require.NoError(t, err)
	want := pyast.Call{
		Func:     pyast.Attribute{Value: pyast.Name{ID: "os"}, Attr: "getenv"},
		Args:     []pyast.Expr{pyast.Str{Value: "HOME"}},
		Keywords: []pyast.Keyword{{Arg: "default", Value: pyast.NameConstant{Value: pyast.ConstNone}}},
	}
	assert.True(t, pyast.Equal(want, got), pyast.Diff(want, got))
}

func TestUnmarshalErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"unknown kind", "kind: Walrus", "unknown kind"},
		{"missing kind", "id: x", "no kind"},
		{"unknown field", "{kind: Name, ident: x}", "no field"},
		{"statement as expression", "{kind: ExprStmt, value: {kind: Pass}}", "is not a Expr"},
		{"bad operator", "{kind: BinOp, op: Plus}", "unknown operator"},
		{"bad conversion", "{kind: FormattedValue, conversion: rs}", "single character"},
		{"scalar node", "just text", "expected a node mapping"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unmarshal([]byte(tt.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestNullDocument(t *testing.T) {
	n, err := Unmarshal([]byte("null"))
	require.NoError(t, err)
	assert.Nil(t, n)
}

func TestSnake(t *testing.T) {
	assert.Equal(t, "id", snake("ID"))
	assert.Equal(t, "context_expr", snake("ContextExpr"))
	assert.Equal(t, "kw_defaults", snake("KwDefaults"))
	assert.Equal(t, "kwonlyargs", snake("Kwonlyargs"))
	assert.Equal(t, "is_async", snake("IsAsync"))
}

func TestKindsCoverEveryVariant(t *testing.T) {
	assert.Equal(t, 62, Kinds())
}

func TestEmptyInput(t *testing.T) {
	n, err := Unmarshal(nil)
	require.NoError(t, err)
	assert.Nil(t, n)
}
