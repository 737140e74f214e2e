package vaca

import "fmt"

// Span locates a form in its source, for diagnostics.
type Span struct {
	Src        string
	Start, End int
}

func (sp Span) String() string {
	if sp.Src == "" {
		return fmt.Sprintf("%v-%v", sp.Start, sp.End)
	}
	return fmt.Sprintf("%v:%v-%v", sp.Src, sp.Start, sp.End)
}

// Form is a node of the syntax tree handed over by the parser. The engine
// only ever reads forms.
type Form struct {
	Expr Expr
	Span Span
}

// Program is a parsed source unit.
type Program struct {
	Name  string
	Forms []Form
}

// Expr is the closed set of expression kinds that a Form may carry.
type Expr interface{ expr() }

// Literal expressions.
type (
	NilExpr     struct{}
	IntegerExpr int64
	FloatExpr   float64
	StringExpr  string
	BoolExpr    bool
	CharExpr    rune
	SymbolExpr  Symbol
	AtomExpr    string
)

// AssignmentKind selects the action flag recorded by an assignment list.
// Mutability is not a kind: it is spelled by each assigned symbol.
type AssignmentKind int

// Assignment kinds.
const (
	AssignValue AssignmentKind = iota
	AssignAction
)

// Assignment binds one symbol to the value of a form.
type Assignment struct {
	Symbol Symbol
	Value  Form
}

// AssignmentList evaluates and binds its assignments in order.
type AssignmentList struct {
	Assignments []Assignment
	Kind        AssignmentKind
}

// ScopeExpr is a block of forms evaluated in a fresh scope; its value is the
// value of the last form.
type ScopeExpr []Form

// FunctionExpr defines a function; arguments are evaluated before the call.
type FunctionExpr struct {
	Params []Symbol
	Body   Form
}

// MacroExpr defines a macro; arguments are bound unevaluated.
type MacroExpr struct {
	Params []Symbol
	Body   Form
}

// CallExpr applies a callable to argument forms.
type CallExpr struct {
	Callable Form
	Args     []Form
}

// ArrayExpr builds an array from element forms.
type ArrayExpr []Form

func (NilExpr) expr()        {}
func (IntegerExpr) expr()    {}
func (FloatExpr) expr()      {}
func (StringExpr) expr()     {}
func (BoolExpr) expr()       {}
func (CharExpr) expr()       {}
func (SymbolExpr) expr()     {}
func (AtomExpr) expr()       {}
func (AssignmentList) expr() {}
func (ScopeExpr) expr()      {}
func (FunctionExpr) expr()   {}
func (MacroExpr) expr()      {}
func (CallExpr) expr()       {}
func (ArrayExpr) expr()      {}
