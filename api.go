package vaca

import (
	"context"
	"errors"
	"fmt"

	"github.com/jcorbin/govaca/internal/arena"
	"github.com/jcorbin/govaca/internal/panicerr"
)

// New creates an engine. Natives live in a root table; programs run in a
// child of it, so that they may shadow but never reassign a native.
// WithNative may replace a prelude native.
func New(opts ...EngineOption) *Engine {
	e := &Engine{
		core:    &core{},
		owner:   arena.NewOwner[Value](),
		root:    NewTable(nil),
		prelude: true,
	}
	defaultOptions.apply(e)
	EngineOptions(opts...).apply(e)

	for _, b := range e.rootBindings() {
		e.root.Assign(b.sym, b.value, b.isAction)
	}
	e.table = NewTable(e.root)
	return e
}

// rootBindings merges the prelude with natives given WithNative; a later
// binding of a symbol replaces any earlier one.
func (e *Engine) rootBindings() []nativeBinding {
	var all []nativeBinding
	if e.prelude {
		all = prelude()
	}
	all = append(all, e.natives...)
	index := make(map[Symbol]int, len(all))
	bindings := all[:0]
	for _, b := range all {
		if i, seen := index[b.sym]; seen {
			bindings[i] = b
			continue
		}
		index[b.sym] = len(bindings)
		bindings = append(bindings, b)
	}
	return bindings
}

// Run builds prog, reporting every build error at once, then evaluates its
// forms in order, returning the value of the last one.
//
// Run errors abort the program at the first failure. Contract violations
// inside the engine panic; Run recovers them into an error that carries the
// panic stack when formatted with %+v.
func (e *Engine) Run(ctx context.Context, prog Program) (Value, error) {
	if err := e.Build(prog); err != nil {
		var errs BuildErrors
		if e.errorf != nil && errors.As(err, &errs) {
			for _, be := range errs {
				e.errorf("%v: %+v", prog.Name, be)
			}
		}
		return nil, err
	}

	var res Value = Nil{}
	err := panicerr.Recover(fmt.Sprintf("run %v", prog.Name), func() error {
		for _, form := range prog.Forms {
			if err := ctx.Err(); err != nil {
				return err
			}
			v, err := e.Eval(form)
			if err != nil {
				return runStream(0, "", err, "in %v", form.Span)
			}
			res = v
		}
		return nil
	})
	if ferr := e.flush(); err == nil {
		err = ferr
	}
	if err != nil {
		e.logf("#", "run error: %v", err)
		return nil, err
	}
	return res, nil
}

// Close flushes output, closes unread input, and releases every value the
// engine still owns.
func (e *Engine) Close() error {
	for e.owner.Depth() > 0 {
		e.owner.DropScope()
	}
	return e.core.close()
}
