package vaca

import (
	"fmt"
	"io"
)

// Call applies callee to already evaluated arguments.
//
// Supplying more arguments than the callee's arity fails with
// TooManyArguments before any scope is created. Supplying fewer returns a
// partial application of reduced arity. Otherwise a new scope is pushed,
// parameters are bound in declared order, the body is evaluated or the
// native invoked, and the scope is dropped again whatever the outcome. The
// result is promoted into the caller's arena scope before the drop.
func (e *Engine) Call(callee Value, args []Value) (Value, error) {
	switch fn := callee.(type) {
	case *Function:
		return e.invoke(&fn.Callable, args, func(c Callable) Value { return &Function{c} })
	case *Macro:
		return e.invoke(&fn.Callable, args, func(c Callable) Value { return &Macro{c} })
	case *External:
		resolved, err := e.resolve(fn)
		if err != nil {
			return nil, err
		}
		return e.Call(resolved, args)
	case *Deferred:
		v, err := e.force(fn)
		if err != nil {
			return nil, err
		}
		return e.Call(v, args)
	default:
		return nil, runTop(NotCallable, "", "`%v` is not callable", callee)
	}
}

// CallMacro applies callee to unevaluated argument forms; each is bound as a
// Deferred that evaluates in the current scope when referenced.
func (e *Engine) CallMacro(callee Value, forms []Form) (Value, error) {
	args := make([]Value, len(forms))
	for i, form := range forms {
		args[i] = &Deferred{form, e.table}
	}
	return e.Call(callee, args)
}

func (e *Engine) invoke(c *Callable, args []Value, wrap func(Callable) Value) (Value, error) {
	if len(args) > c.Arity {
		return nil, runTop(TooManyArguments, "",
			"too many arguments provided to function call. Expected %v, got %v", c.Arity, len(args))
	}
	if len(args) < c.Arity {
		return wrap(c.partial(args)), nil
	}
	if p, ok := c.Body.(Partial); ok {
		full := make([]Value, 0, len(p.Prefix)+len(args))
		full = append(append(full, p.Prefix...), args...)
		return e.invoke(p.Of, full, wrap)
	}

	e.logf(">", "call %v", callSignature{c, args})
	defer e.withLogPrefix("  ")()

	leave := e.enter()
	defer leave()

	for i, param := range c.Params {
		if err := e.table.Assign(param, args[i], false); err != nil {
			return nil, err
		}
	}

	var (
		res Value
		err error
	)
	switch body := c.Body.(type) {
	case Interpreted:
		res, err = e.Eval(body.Form)
	case Native:
		res, err = body.Func(&CallContext{e, c, body.Name})
		if err != nil {
			if _, isRun := err.(*RunError); !isRun {
				err = runStream(NativeFailure, "", err, "in native `%v`", body.Name)
			}
		}
	default:
		panic(runTop(ImpossibleCallable, "",
			"impossible function with no body nor native definition"))
	}
	if err != nil {
		e.logf("<", "error: %v", err)
		return nil, err
	}
	if res == nil {
		res = Nil{}
	}
	e.promote(res)
	e.logf("<", "%v", res)
	return res, nil
}

type callSignature struct {
	c    *Callable
	args []Value
}

func (cs callSignature) String() string {
	s := "("
	for i, param := range cs.c.Params {
		if i > 0 {
			s += " "
		}
		s += fmt.Sprintf("%v=%v", param, cs.args[i])
	}
	return s + ")"
}

// CallContext is what a native implementation sees of its call: the live
// call scope, reached through the same lookup, assign, and insert
// operations that interpreted code uses.
type CallContext struct {
	engine *Engine
	callee *Callable
	name   string
}

// Name returns the native's registered name.
func (ctx *CallContext) Name() string { return ctx.name }

// Len returns the number of parameters bound for the call.
func (ctx *CallContext) Len() int { return len(ctx.callee.Params) }

// Raw returns the i-th argument as bound, without forcing deferred forms.
func (ctx *CallContext) Raw(i int) (Value, error) {
	return ctx.engine.table.Lookup(ctx.callee.Params[i])
}

// Arg returns the value of the i-th argument, evaluating it if deferred.
func (ctx *CallContext) Arg(i int) (Value, error) {
	return ctx.engine.lookup(ctx.callee.Params[i])
}

// Lookup resolves sym from the call scope.
func (ctx *CallContext) Lookup(sym Symbol) (Value, error) { return ctx.engine.lookup(sym) }

// Assign binds sym in the call scope.
func (ctx *CallContext) Assign(sym Symbol, v Value, isAction bool) error {
	return ctx.engine.table.Assign(sym, v, isAction)
}

// Insert allocates v in the call's arena scope.
func (ctx *CallContext) Insert(v Value) Ref { return ctx.engine.insert(v) }

// Force evaluates v if it is a deferred form.
func (ctx *CallContext) Force(v Value) (Value, error) { return ctx.engine.force(v) }

// Call applies callee from within the native.
func (ctx *CallContext) Call(callee Value, args ...Value) (Value, error) {
	return ctx.engine.Call(callee, args)
}

// Output returns the engine's output stream.
func (ctx *CallContext) Output() io.Writer { return ctx.engine.out }

// ReadLine reads the next line of engine input, without its line ending.
func (ctx *CallContext) ReadLine() (string, error) { return ctx.engine.readLine() }

// Logf writes to the engine's trace log, if any.
func (ctx *CallContext) Logf(mess string, args ...interface{}) {
	ctx.engine.logf("~", mess, args...)
}
