package vaca

import (
	"fmt"
	"strconv"
)

// Callable is the shape shared by functions and macros: parameter symbols,
// declared arity, and how the call is carried out.
type Callable struct {
	Params []Symbol
	Arity  int
	Body   Body
}

// Body is how a callable is carried out: Interpreted, Native, or Partial.
// A nil Body is a corrupted callable.
type Body interface{ body() }

// Interpreted evaluates a form in the call scope.
type Interpreted struct{ Form Form }

// Native invokes a host function with the live call scope.
type Native struct {
	Name string
	Func NativeFunc
}

// Partial completes Of with a captured argument prefix.
type Partial struct {
	Of     *Callable
	Prefix []Value
}

func (Interpreted) body() {}
func (Native) body()      {}
func (Partial) body()     {}

// NativeFunc implements a callable in Go. It sees the call's arguments
// through ctx, using the same lookup, assign, and insert contracts available
// to interpreted code.
type NativeFunc func(ctx *CallContext) (Value, error)

// Function is a callable whose arguments are evaluated before the call.
type Function struct{ Callable }

// Macro is a callable whose arguments are bound as unevaluated forms.
type Macro struct{ Callable }

func (*Function) Kind() Kind { return KindFunction }
func (*Macro) Kind() Kind    { return KindMacro }

func (fn *Function) String() string { return "'func\\" + strconv.Itoa(fn.Arity) }
func (m *Macro) String() string     { return "'macro\\" + strconv.Itoa(m.Arity) }

// NewFunction defines an interpreted function.
func NewFunction(params []Symbol, body Form) *Function {
	return &Function{Callable{params, len(params), Interpreted{body}}}
}

// NewMacro defines an interpreted macro.
func NewMacro(params []Symbol, body Form) *Macro {
	return &Macro{Callable{params, len(params), Interpreted{body}}}
}

// NewNative defines a function implemented by fn.
func NewNative(name string, params []Symbol, fn NativeFunc) *Function {
	return &Function{Callable{params, len(params), Native{name, fn}}}
}

// NewNativeMacro defines a macro implemented by fn.
func NewNativeMacro(name string, params []Symbol, fn NativeFunc) *Macro {
	return &Macro{Callable{params, len(params), Native{name, fn}}}
}

// partial captures args as the prefix of a new callable of reduced arity.
func (c *Callable) partial(args []Value) Callable {
	of := c
	prefix := args
	if p, ok := c.Body.(Partial); ok {
		of = p.Of
		prefix = append(append([]Value(nil), p.Prefix...), args...)
	} else {
		prefix = append([]Value(nil), args...)
	}
	return Callable{
		Params: c.Params[len(args):],
		Arity:  c.Arity - len(args),
		Body:   Partial{of, prefix},
	}
}

// ExternalKind selects whether a resolved external acts as a function or a
// macro.
type ExternalKind int

// External kinds.
const (
	ExternalFunction ExternalKind = iota
	ExternalMacro
)

// External names a callable in a dynamic library, resolved at call time.
type External struct {
	Lib      string
	Symbol   string
	Mode     ExternalKind
	Arity    int
	IsAction bool
}

func (*External) Kind() Kind { return KindExternal }

func (x *External) String() string {
	kind := "func"
	if x.Mode == ExternalMacro {
		kind = "macro"
	}
	return fmt.Sprintf("'%v::%v::%v\\%v", kind, x.Lib, x.Symbol, x.Arity)
}

// defersArgs reports whether calls bind arguments unevaluated.
func (x *External) defersArgs() bool { return x.Mode == ExternalMacro || x.IsAction }

// Deferred is an unevaluated argument form together with the table it must
// be evaluated in. Referencing a symbol bound to a Deferred evaluates it.
type Deferred struct {
	Form  Form
	Table *Table
}

func (*Deferred) Kind() Kind       { return KindDeferred }
func (d *Deferred) String() string { return "'form@" + d.Form.Span.String() }
