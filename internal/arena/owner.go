package arena

// Owner implements scope-owned memory: a stack of scopes, each exclusively
// owning the values inserted while it was the top of the stack.
//
// Values are kept in cells. A cell stays live while at least one scope owns
// it; InsertReturn adds an owning slot in the enclosing scope rather than
// moving the value. Released cells are recycled through a free list, with a
// generation bump so that any outstanding Handle notices.
//
// An Owner is not safe for concurrent use; see the engine for how arenas are
// confined to one goroutine each.
type Owner[T any] struct {
	scopes [][]*cell[T]
	free   []*cell[T]
	live   int
}

type cell[T any] struct {
	value  T
	owners int
	gen    uint64
}

// NewOwner creates an Owner with a single root scope.
func NewOwner[T any]() *Owner[T] {
	var o Owner[T]
	o.CreateScope()
	return &o
}

// Depth returns the number of scopes currently on the stack.
func (o *Owner[T]) Depth() int { return len(o.scopes) }

// Live returns the number of cells that still have an owner.
func (o *Owner[T]) Live() int { return o.live }

// CreateScope pushes a new empty scope.
func (o *Owner[T]) CreateScope() {
	o.scopes = append(o.scopes, nil)
}

// DropScope pops the top scope, releasing every cell that it was the last
// owner of. Dropping with no scopes left is a no-op.
func (o *Owner[T]) DropScope() {
	i := len(o.scopes) - 1
	if i < 0 {
		return
	}
	top := o.scopes[i]
	o.scopes[i] = nil
	o.scopes = o.scopes[:i]
	for _, c := range top {
		if c.owners--; c.owners == 0 {
			o.release(c)
		}
	}
}

// Insert allocates value into the top scope, creating a root scope if the
// stack is empty, and returns a non-owning handle to it.
func (o *Owner[T]) Insert(value T) Handle[T] {
	if len(o.scopes) == 0 {
		o.CreateScope()
	}
	c := o.alloc()
	c.value = value
	c.owners = 1
	o.live++
	i := len(o.scopes) - 1
	o.scopes[i] = append(o.scopes[i], c)
	return Handle[T]{c, c.gen}
}

// InsertReturn promotes the value behind h into the second-from-top scope,
// so that it survives the next DropScope. The original ownership slot is
// kept; the value is released only after every owning scope is dropped.
//
// A dangling handle is returned unchanged. Promoting with fewer than two
// scopes is a contract violation and panics.
func (o *Owner[T]) InsertReturn(h Handle[T]) Handle[T] {
	if len(o.scopes) < 2 {
		panic(ErrNoEnclosingScope)
	}
	if !h.Valid() {
		return h
	}
	i := len(o.scopes) - 2
	h.c.owners++
	o.scopes[i] = append(o.scopes[i], h.c)
	return h
}

func (o *Owner[T]) alloc() *cell[T] {
	if i := len(o.free) - 1; i >= 0 {
		c := o.free[i]
		o.free[i] = nil
		o.free = o.free[:i]
		return c
	}
	return &cell[T]{gen: 1}
}

func (o *Owner[T]) release(c *cell[T]) {
	var zero T
	c.value = zero
	c.gen++
	o.live--
	o.free = append(o.free, c)
}
