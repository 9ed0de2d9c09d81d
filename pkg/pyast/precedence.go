package pyast

// precNone is the tier of an expression root
const precNone = -1

// Precedence tiers, lowest first. Operators sharing a tier bind equally.
const (
	precYield = iota
	precLambda
	precIfExp
	precOr
	precAnd
	precNot
	precCompare
	precBitOr
	precBitXor
	precBitAnd
	precShift
	precArith
	precTerm
	precUnary
	precPow
	precAwait
	precAtom
)

var precedence = map[Operator]int{
	OpYield:    precYield,
	OpLambda:   precLambda,
	OpIfExp:    precIfExp,
	OpOr:       precOr,
	OpAnd:      precAnd,
	OpNot:      precNot,
	OpCompare:  precCompare,
	OpEq:       precCompare,
	OpNotEq:    precCompare,
	OpLt:       precCompare,
	OpLtE:      precCompare,
	OpGt:       precCompare,
	OpGtE:      precCompare,
	OpIs:       precCompare,
	OpIsNot:    precCompare,
	OpIn:       precCompare,
	OpNotIn:    precCompare,
	OpBitOr:    precBitOr,
	OpBitXor:   precBitXor,
	OpBitAnd:   precBitAnd,
	OpLShift:   precShift,
	OpRShift:   precShift,
	OpAdd:      precArith,
	OpSub:      precArith,
	OpMult:     precTerm,
	OpMatMult:  precTerm,
	OpDiv:      precTerm,
	OpFloorDiv: precTerm,
	OpMod:      precTerm,
	OpUAdd:     precUnary,
	OpUSub:     precUnary,
	OpInvert:   precUnary,
	OpPow:      precPow,
	OpAwait:    precAwait,
	OpAtom:     precAtom,
}

// Precedence returns the binding strength of op. OpNone, the tag of an
// expression root, is below every operator.
func Precedence(op Operator) int {
	if p, ok := precedence[op]; ok {
		return p
	}
	return precNone
}

// SameTier reports whether a and b bind equally
func SameTier(a, b Operator) bool {
	return Precedence(a) == Precedence(b)
}

// IsLeftAssociativeConflict reports whether a same-tier operand on the right
// of op must keep its parentheses. That holds for every left-associative
// binary operator: a-(b-c) differs in value from a-b-c, and a+(b+c) differs
// in shape from a+b+c, which parses as (a+b)+c.
func IsLeftAssociativeConflict(op Operator) bool {
	return op.IsBinary() && op != OpPow
}

// IsRightAssociative reports whether op groups to the right, so that a
// same-tier operand on its left needs parentheses: (a**b)**c.
func IsRightAssociative(op Operator) bool {
	return op == OpPow || op == OpIfExp
}
