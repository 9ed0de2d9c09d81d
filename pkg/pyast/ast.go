// Package pyast defines the abstract syntax tree for the supported Python
// subset. The variant set is closed: every node type lives in this file.
package pyast

// Node is the base interface for all AST nodes
type Node interface {
	implPyNode()
}

// Expr is the interface for all expression nodes
type Expr interface {
	Node
	implPyExpr()
}

// Stmt is the interface for all statement nodes
type Stmt interface {
	Node
	implPyStmt()
}

// Pos is the source position of a statement. It is metadata only and is
// ignored by Equal.
type Pos struct {
	Line int
	Col  int
}

// Constant names the singleton constants True, False and None
type Constant int

const (
	ConstNone Constant = iota
	ConstTrue
	ConstFalse
)

func (c Constant) String() string {
	names := []string{"None", "True", "False"}
	if int(c) < len(names) {
		return names[c]
	}
	return "?"
}

// Roots

// Module is the root of a parsed file
type Module struct {
	Body []Stmt
}

// Expression is the root of a single expression (eval mode)
type Expression struct {
	Body Expr
}

// Literals and atoms

// Num is a numeric literal holding its canonical source text (1, 0.5, 1e+16, 2j)
type Num struct {
	Value string
}

// Str is a string literal
type Str struct {
	Value string
}

// Bytes is a bytes literal; Value holds the raw bytes
type Bytes struct {
	Value string
}

// JoinedStr is an f-string. Values are Str and FormattedValue nodes.
type JoinedStr struct {
	Values []Expr
}

// FormattedValue is a replacement field inside an f-string
type FormattedValue struct {
	Value      Expr
	Conversion byte       // 0, 's', 'r' or 'a'
	FormatSpec *JoinedStr // nil when absent
}

// NameConstant is True, False or None
type NameConstant struct {
	Value Constant
}

// Ellipsis is the ... literal
type Ellipsis struct{}

// Name is an identifier reference
type Name struct {
	ID string
}

// Starred is an unpacking splat: *value
type Starred struct {
	Value Expr
}

// Containers

// List represents [a, b]
type List struct {
	Elts []Expr
}

// Tuple represents (a, b)
type Tuple struct {
	Elts []Expr
}

// Set represents {a, b}
type Set struct {
	Elts []Expr
}

// Dict represents {k: v}. A nil key marks a **value merge.
type Dict struct {
	Keys   []Expr
	Values []Expr
}

// Operators

// UnaryOp represents +x, -x, ~x and not x
type UnaryOp struct {
	Op      Operator
	Operand Expr
}

// BinOp represents a binary arithmetic or bitwise operation
type BinOp struct {
	Left  Expr
	Op    Operator
	Right Expr
}

// BoolOp represents a chain of and/or operands
type BoolOp struct {
	Op     Operator
	Values []Expr
}

// Compare represents a comparison chain: Left Ops[0] Comparators[0] ...
type Compare struct {
	Left        Expr
	Ops         []Operator
	Comparators []Expr
}

// Access and calls

// Attribute represents value.attr
type Attribute struct {
	Value Expr
	Attr  string
}

// Subscript represents value[slice]
type Subscript struct {
	Value Expr
	Slice Expr
}

// Slice represents lower:upper:step; every part may be nil
type Slice struct {
	Lower Expr
	Upper Expr
	Step  Expr
}

// ExtSlice is a comma-joined multi-dimensional index: a[b:c, d]
type ExtSlice struct {
	Dims []Expr
}

// Call represents func(args, keywords, *starargs, **kwargs)
type Call struct {
	Func     Expr
	Args     []Expr
	Keywords []Keyword
	Starargs Expr // nil when absent
	Kwargs   Expr // nil when absent
}

// Keyword is a keyword argument. An empty Arg means **Value.
type Keyword struct {
	Arg   string
	Value Expr
}

// Comprehensions

// Comprehension is one for clause of a comprehension
type Comprehension struct {
	Target  Expr
	Iter    Expr
	Ifs     []Expr
	IsAsync bool
}

// ListComp represents [elt for ...]
type ListComp struct {
	Elt        Expr
	Generators []Comprehension
}

// SetComp represents {elt for ...}
type SetComp struct {
	Elt        Expr
	Generators []Comprehension
}

// GeneratorExp represents (elt for ...)
type GeneratorExp struct {
	Elt        Expr
	Generators []Comprehension
}

// DictComp represents {key: value for ...}
type DictComp struct {
	Key        Expr
	Value      Expr
	Generators []Comprehension
}

// Other expressions

// IfExp represents body if test else orelse
type IfExp struct {
	Test   Expr
	Body   Expr
	Orelse Expr
}

// Lambda represents lambda args: body
type Lambda struct {
	Args *Arguments
	Body Expr
}

// Yield represents yield [value]
type Yield struct {
	Value Expr // nil for bare yield
}

// YieldFrom represents yield from value
type YieldFrom struct {
	Value Expr
}

// Await represents await value
type Await struct {
	Value Expr
}

// Parameters

// Arguments is a parameter specification. Defaults are right-aligned to
// Args; KwDefaults pairs one-to-one with Kwonlyargs, nil meaning no default.
type Arguments struct {
	Args       []Arg
	Defaults   []Expr
	Vararg     *Arg
	Kwonlyargs []Arg
	KwDefaults []Expr
	Kwarg      *Arg
}

// Arg is a single parameter with an optional annotation
type Arg struct {
	Name       string
	Annotation Expr
}

// Statements

// Assign represents t1 = t2 = value
type Assign struct {
	Pos     Pos
	Targets []Expr
	Value   Expr
}

// AnnAssign represents target: annotation [= value]
type AnnAssign struct {
	Pos           Pos
	Target        Expr
	Annotation    Expr
	Value         Expr // nil when absent
	Parenthesized bool // (target): annotation
}

// AugAssign represents target op= value
type AugAssign struct {
	Pos    Pos
	Target Expr
	Op     Operator
	Value  Expr
}

// ExprStmt is an expression used as a statement
type ExprStmt struct {
	Pos   Pos
	Value Expr
}

// Pass represents pass
type Pass struct {
	Pos Pos
}

// Break represents break
type Break struct {
	Pos Pos
}

// Continue represents continue
type Continue struct {
	Pos Pos
}

// Delete represents del a, b
type Delete struct {
	Pos     Pos
	Targets []Expr
}

// Raise represents raise [exc [from cause]]
type Raise struct {
	Pos   Pos
	Exc   Expr
	Cause Expr
}

// Assert represents assert test[, msg]
type Assert struct {
	Pos  Pos
	Test Expr
	Msg  Expr
}

// Alias is one name of an import, with optional "as" name
type Alias struct {
	Name   string
	AsName string
}

// Import represents import a, b as c
type Import struct {
	Pos   Pos
	Names []Alias
}

// ImportFrom represents from ..module import names
type ImportFrom struct {
	Pos    Pos
	Module string // empty for "from . import x"
	Level  int    // number of leading dots
	Names  []Alias
}

// If represents if/elif/else. An Orelse holding exactly one If prints as elif.
type If struct {
	Pos    Pos
	Test   Expr
	Body   []Stmt
	Orelse []Stmt
}

// For represents [async] for target in iter
type For struct {
	Pos     Pos
	Target  Expr
	Iter    Expr
	Body    []Stmt
	Orelse  []Stmt
	IsAsync bool
}

// While represents while test
type While struct {
	Pos    Pos
	Test   Expr
	Body   []Stmt
	Orelse []Stmt
}

// Try represents try/except/else/finally
type Try struct {
	Pos       Pos
	Body      []Stmt
	Handlers  []ExceptHandler
	Orelse    []Stmt
	Finalbody []Stmt
}

// ExceptHandler represents except [type [as name]]
type ExceptHandler struct {
	Type Expr
	Name string
	Body []Stmt
}

// WithItem is one context manager of a with statement
type WithItem struct {
	ContextExpr  Expr
	OptionalVars Expr
}

// With represents [async] with items
type With struct {
	Pos     Pos
	Items   []WithItem
	Body    []Stmt
	IsAsync bool
}

// FunctionDef represents a [async] def
type FunctionDef struct {
	Pos        Pos
	Name       string
	Decorators []Expr
	Args       *Arguments
	Returns    Expr
	Body       []Stmt
	IsAsync    bool
}

// ClassDef represents a class definition
type ClassDef struct {
	Pos        Pos
	Name       string
	Decorators []Expr
	Bases      []Expr
	Keywords   []Keyword
	Body       []Stmt
}

// Return represents return [value]
type Return struct {
	Pos   Pos
	Value Expr
}

// Global represents global a, b
type Global struct {
	Pos   Pos
	Names []string
}

// Nonlocal represents nonlocal a, b
type Nonlocal struct {
	Pos   Pos
	Names []string
}

// Marker methods for interface implementation
func (Module) implPyNode()     {}
func (Expression) implPyNode() {}

func (Num) implPyNode()            {}
func (Num) implPyExpr()            {}
func (Str) implPyNode()            {}
func (Str) implPyExpr()            {}
func (Bytes) implPyNode()          {}
func (Bytes) implPyExpr()          {}
func (JoinedStr) implPyNode()      {}
func (JoinedStr) implPyExpr()      {}
func (FormattedValue) implPyNode() {}
func (FormattedValue) implPyExpr() {}
func (NameConstant) implPyNode()   {}
func (NameConstant) implPyExpr()   {}
func (Ellipsis) implPyNode()       {}
func (Ellipsis) implPyExpr()       {}
func (Name) implPyNode()           {}
func (Name) implPyExpr()           {}
func (Starred) implPyNode()        {}
func (Starred) implPyExpr()        {}

func (List) implPyNode()  {}
func (List) implPyExpr()  {}
func (Tuple) implPyNode() {}
func (Tuple) implPyExpr() {}
func (Set) implPyNode()   {}
func (Set) implPyExpr()   {}
func (Dict) implPyNode()  {}
func (Dict) implPyExpr()  {}

func (UnaryOp) implPyNode() {}
func (UnaryOp) implPyExpr() {}
func (BinOp) implPyNode()   {}
func (BinOp) implPyExpr()   {}
func (BoolOp) implPyNode()  {}
func (BoolOp) implPyExpr()  {}
func (Compare) implPyNode() {}
func (Compare) implPyExpr() {}

func (Attribute) implPyNode() {}
func (Attribute) implPyExpr() {}
func (Subscript) implPyNode() {}
func (Subscript) implPyExpr() {}
func (Slice) implPyNode()     {}
func (Slice) implPyExpr()     {}
func (ExtSlice) implPyNode()  {}
func (ExtSlice) implPyExpr()  {}
func (Call) implPyNode()      {}
func (Call) implPyExpr()      {}
func (Keyword) implPyNode()   {}

func (Comprehension) implPyNode() {}
func (ListComp) implPyNode()      {}
func (ListComp) implPyExpr()      {}
func (SetComp) implPyNode()       {}
func (SetComp) implPyExpr()       {}
func (GeneratorExp) implPyNode()  {}
func (GeneratorExp) implPyExpr()  {}
func (DictComp) implPyNode()      {}
func (DictComp) implPyExpr()      {}

func (IfExp) implPyNode()     {}
func (IfExp) implPyExpr()     {}
func (Lambda) implPyNode()    {}
func (Lambda) implPyExpr()    {}
func (Yield) implPyNode()     {}
func (Yield) implPyExpr()     {}
func (YieldFrom) implPyNode() {}
func (YieldFrom) implPyExpr() {}
func (Await) implPyNode()     {}
func (Await) implPyExpr()     {}

func (Arguments) implPyNode() {}
func (Arg) implPyNode()       {}

func (Assign) implPyNode()        {}
func (Assign) implPyStmt()        {}
func (AnnAssign) implPyNode()     {}
func (AnnAssign) implPyStmt()     {}
func (AugAssign) implPyNode()     {}
func (AugAssign) implPyStmt()     {}
func (ExprStmt) implPyNode()      {}
func (ExprStmt) implPyStmt()      {}
func (Pass) implPyNode()          {}
func (Pass) implPyStmt()          {}
func (Break) implPyNode()         {}
func (Break) implPyStmt()         {}
func (Continue) implPyNode()      {}
func (Continue) implPyStmt()      {}
func (Delete) implPyNode()        {}
func (Delete) implPyStmt()        {}
func (Raise) implPyNode()         {}
func (Raise) implPyStmt()         {}
func (Assert) implPyNode()        {}
func (Assert) implPyStmt()        {}
func (Alias) implPyNode()         {}
func (Import) implPyNode()        {}
func (Import) implPyStmt()        {}
func (ImportFrom) implPyNode()    {}
func (ImportFrom) implPyStmt()    {}
func (If) implPyNode()            {}
func (If) implPyStmt()            {}
func (For) implPyNode()           {}
func (For) implPyStmt()           {}
func (While) implPyNode()         {}
func (While) implPyStmt()         {}
func (Try) implPyNode()           {}
func (Try) implPyStmt()           {}
func (ExceptHandler) implPyNode() {}
func (WithItem) implPyNode()      {}
func (With) implPyNode()          {}
func (With) implPyStmt()          {}
func (FunctionDef) implPyNode()   {}
func (FunctionDef) implPyStmt()   {}
func (ClassDef) implPyNode()      {}
func (ClassDef) implPyStmt()      {}
func (Return) implPyNode()        {}
func (Return) implPyStmt()        {}
func (Global) implPyNode()        {}
func (Global) implPyStmt()        {}
func (Nonlocal) implPyNode()      {}
func (Nonlocal) implPyStmt()      {}
