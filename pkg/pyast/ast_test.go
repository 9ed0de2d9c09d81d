package pyast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrecedenceOrder(t *testing.T) {
	// each operator binds tighter than the one before it
	ladder := []Operator{
		OpYield, OpLambda, OpIfExp, OpOr, OpAnd, OpNot, OpCompare,
		OpBitOr, OpBitXor, OpBitAnd, OpLShift, OpAdd, OpMult, OpUSub,
		OpPow, OpAwait, OpAtom,
	}
	for i := 1; i < len(ladder); i++ {
		assert.Less(t, Precedence(ladder[i-1]), Precedence(ladder[i]),
			"%s should bind looser than %s", ladder[i-1].Name(), ladder[i].Name())
	}
	assert.Equal(t, -1, Precedence(OpNone))
	assert.Equal(t, -1, Precedence(Operator(999)))
}

func TestSameTier(t *testing.T) {
	assert.True(t, SameTier(OpAdd, OpSub))
	assert.True(t, SameTier(OpMult, OpMatMult))
	assert.True(t, SameTier(OpLShift, OpRShift))
	assert.True(t, SameTier(OpUAdd, OpInvert))
	assert.True(t, SameTier(OpCompare, OpNotIn))
	assert.False(t, SameTier(OpAdd, OpMult))
	assert.False(t, SameTier(OpNot, OpUSub))
}

func TestAssociativity(t *testing.T) {
	for op := OpAdd; op <= OpBitAnd; op++ {
		assert.Equal(t, op != OpPow, IsLeftAssociativeConflict(op), op.Name())
	}
	assert.False(t, IsLeftAssociativeConflict(OpAnd))
	assert.False(t, IsLeftAssociativeConflict(OpCompare))
	assert.True(t, IsRightAssociative(OpPow))
	assert.True(t, IsRightAssociative(OpIfExp))
	assert.False(t, IsRightAssociative(OpSub))
}

func TestOperatorClasses(t *testing.T) {
	assert.True(t, OpNot.IsUnary())
	assert.False(t, OpNot.IsBinary())
	assert.True(t, OpPow.IsBinary())
	assert.True(t, OpOr.IsBool())
	assert.True(t, OpIsNot.IsComparison())
	assert.False(t, OpCompare.IsComparison())
	assert.True(t, OpNotIn.IsKeyword())
	assert.False(t, OpLtE.IsKeyword())
	assert.Equal(t, "not in", OpNotIn.String())
	assert.Equal(t, "//", OpFloorDiv.String())
}

func TestOperatorText(t *testing.T) {
	for op := OpNone; op <= OpAtom; op++ {
		text, err := op.MarshalText()
		require.NoError(t, err)
		var back Operator
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, op, back)
	}
	var op Operator
	assert.Error(t, op.UnmarshalText([]byte("Plus")))
	_, err := Operator(-3).MarshalText()
	assert.Error(t, err)
}

func TestConstantText(t *testing.T) {
	var c Constant
	require.NoError(t, c.UnmarshalText([]byte("False")))
	assert.Equal(t, ConstFalse, c)
	assert.Error(t, c.UnmarshalText([]byte("false")))
	text, err := ConstNone.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "None", string(text))
}

func TestEqualIgnoresPositions(t *testing.T) {
	a := Module{Body: []Stmt{
		ExprStmt{Pos: Pos{Line: 1}, Value: Name{ID: "x"}},
		If{Pos: Pos{Line: 2, Col: 4}, Test: Name{ID: "y"}, Body: []Stmt{Pass{Pos: Pos{Line: 3}}}},
	}}
	b := Module{Body: []Stmt{
		ExprStmt{Value: Name{ID: "x"}},
		If{Test: Name{ID: "y"}, Body: []Stmt{Pass{}}, Orelse: []Stmt{}},
	}}
	assert.True(t, Equal(a, b), Diff(a, b))

	c := Module{Body: []Stmt{ExprStmt{Value: Name{ID: "z"}}}}
	assert.False(t, Equal(a, c))
	assert.NotEmpty(t, Diff(a, c))
}

func TestEqualOrderMatters(t *testing.T) {
	x, y := Name{ID: "x"}, Name{ID: "y"}
	assert.False(t, Equal(List{Elts: []Expr{x, y}}, List{Elts: []Expr{y, x}}))
	assert.False(t, Equal(BinOp{Left: x, Op: OpAdd, Right: y}, BinOp{Left: x, Op: OpSub, Right: y}))
	assert.True(t, Equal(Dict{Keys: []Expr{nil}, Values: []Expr{x}}, Dict{Keys: []Expr{nil}, Values: []Expr{x}}))
}
