package vaca

import (
	"context"
	"fmt"

	"github.com/jcorbin/govaca/internal/arena"
	"github.com/jcorbin/govaca/internal/panicerr"
	"golang.org/x/sync/errgroup"
)

// Invocation is one call for Parallel to run.
type Invocation struct {
	Callee Value
	Args   []Value
}

// Parallel runs each invocation on its own goroutine and returns their
// results in order, or the first error.
//
// The calls share the engine's current table as their common ancestor;
// each runs on a forked engine with its own child table and its own arena.
// Arguments are copied into the fork's arena before the call, and results
// are copied back into this engine's arena once every call has finished, so
// that no arena is ever touched by two goroutines. Forks may not assign
// into the shared ancestor, only into their own scopes.
func (e *Engine) Parallel(ctx context.Context, calls ...Invocation) ([]Value, error) {
	forks := make([]*Engine, len(calls))
	results := make([]Value, len(calls))
	defer func() {
		for _, fork := range forks {
			for fork.owner.Depth() > 0 {
				fork.owner.DropScope()
			}
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	for i, call := range calls {
		i, call := i, call
		fork := e.fork(i)
		forks[i] = fork
		g.Go(func() error {
			return panicerr.Recover(fmt.Sprintf("parallel[%d]", i), func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				args := make([]Value, len(call.Args))
				for j, arg := range call.Args {
					args[j] = fork.adopt(arg)
				}
				v, err := fork.Call(fork.adopt(call.Callee), args)
				results[i] = v
				return err
			})
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for i, v := range results {
		results[i] = e.adopt(v)
	}
	return results, nil
}

// fork creates an engine sharing e's resources and table chain but owning a
// fresh arena.
func (e *Engine) fork(id int) *Engine {
	fork := &Engine{
		logging: e.logging,
		core:    e.core,
		owner:   arena.NewOwner[Value](),
		root:    e.root,
		table:   NewTable(e.table),
	}
	fork.withLogPrefix(fmt.Sprintf("[%d] ", id))
	return fork
}
