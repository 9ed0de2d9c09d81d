package pyast

import (
	"fmt"

	"github.com/pkg/errors"
)

// Operator is the closed set of operator tags. The tag drives both the
// precedence lookup and the source spelling.
type Operator int

const (
	OpNone Operator = iota // no operator: the root of an expression

	// Unary
	OpUAdd   // +
	OpUSub   // -
	OpInvert // ~
	OpNot    // not

	// Binary
	OpAdd      // +
	OpSub      // -
	OpMult     // *
	OpMatMult  // @
	OpDiv      // /
	OpFloorDiv // //
	OpMod      // %
	OpPow      // **
	OpLShift   // <<
	OpRShift   // >>
	OpBitOr    // |
	OpBitXor   // ^
	OpBitAnd   // &

	// Boolean
	OpAnd // and
	OpOr  // or

	// Comparison
	OpEq    // ==
	OpNotEq // !=
	OpLt    // <
	OpLtE   // <=
	OpGt    // >
	OpGtE   // >=
	OpIs    // is
	OpIsNot // is not
	OpIn    // in
	OpNotIn // not in

	// Synthetic tags for nodes that are not operators but still take part
	// in precedence decisions
	OpCompare
	OpYield
	OpLambda
	OpIfExp
	OpAwait
	OpAtom
)

type opInfo struct {
	name  string // stable name, used by the tree codec
	text  string // source spelling
	space bool   // keyword operator, printed with surrounding spaces
}

var opInfos = []opInfo{
	OpNone:     {"None", "", false},
	OpUAdd:     {"UAdd", "+", false},
	OpUSub:     {"USub", "-", false},
	OpInvert:   {"Invert", "~", false},
	OpNot:      {"Not", "not", true},
	OpAdd:      {"Add", "+", false},
	OpSub:      {"Sub", "-", false},
	OpMult:     {"Mult", "*", false},
	OpMatMult:  {"MatMult", "@", false},
	OpDiv:      {"Div", "/", false},
	OpFloorDiv: {"FloorDiv", "//", false},
	OpMod:      {"Mod", "%", false},
	OpPow:      {"Pow", "**", false},
	OpLShift:   {"LShift", "<<", false},
	OpRShift:   {"RShift", ">>", false},
	OpBitOr:    {"BitOr", "|", false},
	OpBitXor:   {"BitXor", "^", false},
	OpBitAnd:   {"BitAnd", "&", false},
	OpAnd:      {"And", "and", true},
	OpOr:       {"Or", "or", true},
	OpEq:       {"Eq", "==", false},
	OpNotEq:    {"NotEq", "!=", false},
	OpLt:       {"Lt", "<", false},
	OpLtE:      {"LtE", "<=", false},
	OpGt:       {"Gt", ">", false},
	OpGtE:      {"GtE", ">=", false},
	OpIs:       {"Is", "is", true},
	OpIsNot:    {"IsNot", "is not", true},
	OpIn:       {"In", "in", true},
	OpNotIn:    {"NotIn", "not in", true},
	OpCompare:  {"Compare", "", false},
	OpYield:    {"Yield", "yield", true},
	OpLambda:   {"Lambda", "lambda", true},
	OpIfExp:    {"IfExp", "if", true},
	OpAwait:    {"Await", "await", true},
	OpAtom:     {"Atom", "", false},
}

func (op Operator) valid() bool {
	return op >= 0 && int(op) < len(opInfos)
}

// String returns the source spelling of the operator
func (op Operator) String() string {
	if op.valid() {
		return opInfos[op].text
	}
	return "?"
}

// Name returns the stable name of the operator (Add, USub, NotIn, ...)
func (op Operator) Name() string {
	if op.valid() {
		return opInfos[op].name
	}
	return fmt.Sprintf("Operator(%d)", int(op))
}

// IsKeyword reports whether the operator is spelled as a keyword and printed
// with surrounding spaces
func (op Operator) IsKeyword() bool {
	return op.valid() && opInfos[op].space
}

// IsUnary reports whether op may appear in a UnaryOp
func (op Operator) IsUnary() bool {
	return op >= OpUAdd && op <= OpNot
}

// IsBinary reports whether op may appear in a BinOp or AugAssign
func (op Operator) IsBinary() bool {
	return op >= OpAdd && op <= OpBitAnd
}

// IsBool reports whether op may appear in a BoolOp
func (op Operator) IsBool() bool {
	return op == OpAnd || op == OpOr
}

// IsComparison reports whether op may appear in a Compare
func (op Operator) IsComparison() bool {
	return op >= OpEq && op <= OpNotIn
}

// MarshalText encodes the operator by name
func (op Operator) MarshalText() ([]byte, error) {
	if !op.valid() {
		return nil, errors.Errorf("invalid operator %d", int(op))
	}
	return []byte(opInfos[op].name), nil
}

// UnmarshalText decodes an operator name
func (op *Operator) UnmarshalText(text []byte) error {
	name := string(text)
	for i, info := range opInfos {
		if info.name == name {
			*op = Operator(i)
			return nil
		}
	}
	return errors.Errorf("unknown operator %q", name)
}

// MarshalText encodes the constant by name
func (c Constant) MarshalText() ([]byte, error) {
	if c < ConstNone || c > ConstFalse {
		return nil, errors.Errorf("invalid constant %d", int(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText decodes True, False or None
func (c *Constant) UnmarshalText(text []byte) error {
	switch string(text) {
	case "None":
		*c = ConstNone
	case "True":
		*c = ConstTrue
	case "False":
		*c = ConstFalse
	default:
		return errors.Errorf("unknown constant %q", string(text))
	}
	return nil
}
