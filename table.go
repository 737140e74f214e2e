package vaca

import (
	"errors"
	"sort"
	"sync"
)

// ErrPoisoned is the cause of a LockFailure: a table whose update panicked
// while holding its write lock refuses further access.
var ErrPoisoned = errors.New("scope lock poisoned by a panic during update")

// Table is one scope of the symbol table chain. Ordinary bindings are write
// once per scope and visible to every descendant; mutable bindings are kept
// in a separate map that lookups from child scopes never consult.
//
// Tables may be shared by concurrently running calls: lookups take read
// locks on each link of the parent chain, handing the lock off from child to
// parent rather than holding the whole chain, while assignment takes the
// write lock on the target table only.
type Table struct {
	parent *Table

	mu       sync.RWMutex
	poisoned bool
	scope    map[Symbol]tableEntry
	mutables map[Symbol]Value
}

type tableEntry struct {
	value    Value
	isAction bool
}

// NewTable creates a scope whose ordinary lookups fall back to parent; a nil
// parent makes a root scope.
func NewTable(parent *Table) *Table {
	return &Table{
		parent:   parent,
		scope:    make(map[Symbol]tableEntry),
		mutables: make(map[Symbol]Value),
	}
}

// Parent returns the enclosing scope, or nil at the root.
func (t *Table) Parent() *Table { return t.parent }

// Lookup resolves sym. Mutable symbols only resolve in t itself.
func (t *Table) Lookup(sym Symbol) (Value, error) {
	if sym.IsMutable() {
		t.mu.RLock()
		defer t.mu.RUnlock()
		if t.poisoned {
			return nil, poisonedRead(sym, "scope")
		}
		if v, ok := t.mutables[sym]; ok {
			return v, nil
		}
		return nil, undefinedMutableSymbol(sym)
	}
	ent, err := t.find(sym)
	if err != nil {
		return nil, err
	}
	return ent.value, nil
}

// IsAction reports the action flag recorded when sym was assigned; mutable
// symbols are always actions.
func (t *Table) IsAction(sym Symbol) (bool, error) {
	if sym.IsMutable() {
		return true, nil
	}
	ent, err := t.find(sym)
	if err != nil {
		return false, err
	}
	return ent.isAction, nil
}

// Assign binds sym in t. Mutable symbols may be reassigned freely; ordinary
// symbols fail with ImmutableMutation when already bound in t.
func (t *Table) Assign(sym Symbol, v Value, isAction bool) error {
	return t.update(sym, func() error {
		if sym.IsMutable() {
			t.mutables[sym] = v
			return nil
		}
		if _, defined := t.scope[sym]; defined {
			return immutableMutation(sym)
		}
		t.scope[sym] = tableEntry{v, isAction}
		return nil
	})
}

// Symbols returns every symbol visible from t, sorted: ordinary symbols of
// the whole chain and the mutable symbols of t.
func (t *Table) Symbols() []Symbol {
	seen := make(map[Symbol]struct{})
	t.mu.RLock()
	for sym := range t.mutables {
		seen[sym] = struct{}{}
	}
	t.mu.RUnlock()
	for cur := t; cur != nil; cur = cur.parent {
		cur.mu.RLock()
		for sym := range cur.scope {
			seen[sym] = struct{}{}
		}
		cur.mu.RUnlock()
	}
	syms := make([]Symbol, 0, len(seen))
	for sym := range seen {
		syms = append(syms, sym)
	}
	sortSymbols(syms)
	return syms
}

// local returns the symbols bound in t itself, sorted.
func (t *Table) local() (ordinary, mutable []Symbol) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for sym := range t.scope {
		ordinary = append(ordinary, sym)
	}
	for sym := range t.mutables {
		mutable = append(mutable, sym)
	}
	sortSymbols(ordinary)
	sortSymbols(mutable)
	return ordinary, mutable
}

func sortSymbols(syms []Symbol) {
	sort.Slice(syms, func(i, j int) bool { return syms[i] < syms[j] })
}

// find walks the chain iteratively, taking each parent's read lock before
// releasing the child's.
func (t *Table) find(sym Symbol) (tableEntry, error) {
	cur := t
	cur.mu.RLock()
	if cur.poisoned {
		cur.mu.RUnlock()
		return tableEntry{}, poisonedRead(sym, "scope")
	}
	for {
		if ent, ok := cur.scope[sym]; ok {
			cur.mu.RUnlock()
			return ent, nil
		}
		next := cur.parent
		if next == nil {
			cur.mu.RUnlock()
			return tableEntry{}, undefinedSymbol(sym)
		}
		next.mu.RLock()
		cur.mu.RUnlock()
		cur = next
		if cur.poisoned {
			cur.mu.RUnlock()
			return tableEntry{}, poisonedRead(sym, "parent scope")
		}
	}
}

func poisonedRead(sym Symbol, which string) error {
	return runStream(LockFailure, sym, ErrPoisoned,
		"failed to access %v while trying to get the value of `%v`", which, sym)
}

// update runs f under the write lock; a panic out of f poisons the table.
func (t *Table) update(sym Symbol, f func() error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.poisoned {
		return runStream(LockFailure, sym, ErrPoisoned,
			"failed to access scope while trying to assign `%v`", sym)
	}
	defer func() {
		if e := recover(); e != nil {
			t.poisoned = true
			panic(e)
		}
	}()
	return f()
}
