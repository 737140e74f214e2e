package vaca

import (
	"fmt"
	"sync"

	"github.com/jcorbin/govaca/internal/arena"
	"github.com/jcorbin/govaca/internal/fileinput"
	"github.com/jcorbin/govaca/internal/flushio"
)

// Engine evaluates forms against a symbol table chain, owning the values it
// creates in a scope-stack arena. An Engine is not safe for concurrent use;
// Parallel forks one engine per goroutine over a shared table chain.
type Engine struct {
	logging
	*core

	owner *arena.Owner[Value]
	root  *Table
	table *Table

	natives []nativeBinding
	prelude bool
}

// core holds the resources that forked engines share with their parent.
type core struct {
	inMu sync.Mutex
	in   fileinput.Input
	out  flushio.WriteFlusher

	// outErr holds a flush failure of replaced output until the next flush.
	outErrMu sync.Mutex
	outErr   error

	loader    Loader
	externals externalCache
	errorf    func(mess string, args ...interface{})
}

type nativeBinding struct {
	sym      Symbol
	value    Value
	isAction bool
}

// close flushes output and closes every input stream, including one left
// partly read.
func (c *core) close() (err error) {
	err = c.flush()
	c.inMu.Lock()
	defer c.inMu.Unlock()
	if cerr := c.in.Close(); err == nil {
		err = cerr
	}
	return err
}

// flush flushes output, first reporting any failure stashed when output was
// replaced.
func (c *core) flush() (err error) {
	if c.out != nil {
		err = c.out.Flush()
	}
	c.outErrMu.Lock()
	defer c.outErrMu.Unlock()
	if c.outErr != nil {
		err, c.outErr = c.outErr, nil
	}
	return err
}

func (c *core) readLine() (string, error) {
	if err := c.flush(); err != nil {
		return "", err
	}
	c.inMu.Lock()
	defer c.inMu.Unlock()
	return c.in.ReadLine()
}

// enter opens a call or block scope in both the table chain and the arena,
// returning the function that closes it again.
func (e *Engine) enter() (leave func()) {
	saved := e.table
	e.table = NewTable(saved)
	e.owner.CreateScope()
	return func() {
		e.owner.DropScope()
		e.table = saved
	}
}

// insert allocates v in the current arena scope.
func (e *Engine) insert(v Value) Ref { return e.owner.Insert(v) }

// promote gives every arena value reachable from v an owner in the scope
// enclosing the current one, so that v may be returned out of it. Shared
// elements are promoted once per call.
func (e *Engine) promote(v Value) {
	e.promoteFrom(v, make(map[Ref]struct{}))
}

func (e *Engine) promoteFrom(v Value, seen map[Ref]struct{}) {
	promoteRef := func(ref Ref) {
		if _, done := seen[ref]; done {
			return
		}
		seen[ref] = struct{}{}
		e.owner.InsertReturn(ref)
		e.promoteFrom(Resolve(ref), seen)
	}
	switch x := v.(type) {
	case Array:
		for _, ref := range x {
			promoteRef(ref)
		}
	case Object:
		for _, ref := range x {
			promoteRef(ref)
		}
	case *Function:
		e.promotePrefix(&x.Callable, seen)
	case *Macro:
		e.promotePrefix(&x.Callable, seen)
	}
}

func (e *Engine) promotePrefix(c *Callable, seen map[Ref]struct{}) {
	if p, ok := c.Body.(Partial); ok {
		for _, arg := range p.Prefix {
			e.promoteFrom(arg, seen)
		}
	}
}

// adopt deep copies v into this engine's arena, so that no handle into
// another engine's arena survives.
func (e *Engine) adopt(v Value) Value {
	switch x := v.(type) {
	case Array:
		a := make(Array, len(x))
		for i, ref := range x {
			a[i] = e.insert(e.adopt(Resolve(ref)))
		}
		return a
	case Object:
		o := make(Object, len(x))
		for key, ref := range x {
			o[key] = e.insert(e.adopt(Resolve(ref)))
		}
		return o
	case *Function:
		return &Function{e.adoptPrefix(x.Callable)}
	case *Macro:
		return &Macro{e.adoptPrefix(x.Callable)}
	}
	return v
}

func (e *Engine) adoptPrefix(c Callable) Callable {
	if p, ok := c.Body.(Partial); ok {
		prefix := make([]Value, len(p.Prefix))
		for i, arg := range p.Prefix {
			prefix[i] = e.adopt(arg)
		}
		c.Body = Partial{p.Of, prefix}
	}
	return c
}

// logging traces engine activity; each line starts with a one rune mark:
// ">" call, "<" return, "=" assignment, "~" native, "#" engine event.
type logging struct {
	logfn func(mess string, args ...interface{})
}

func (log *logging) withLogPrefix(prefix string) func() {
	logfn := log.logfn
	if logfn == nil {
		return func() {}
	}
	log.logfn = func(mess string, args ...interface{}) {
		logfn(prefix+mess, args...)
	}
	return func() {
		log.logfn = logfn
	}
}

func (log logging) logf(mark, mess string, args ...interface{}) {
	if log.logfn == nil {
		return
	}
	if len(args) > 0 {
		mess = fmt.Sprintf(mess, args...)
	}
	log.logfn("%v %v", mark, mess)
}
