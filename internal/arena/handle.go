package arena

import "errors"

// ErrNoEnclosingScope is the panic value of InsertReturn when there is no
// scope to promote into.
var ErrNoEnclosingScope = errors.New("no scope to insert a return value")

// Handle is a non-owning reference into an Owner. The zero Handle is
// dangling.
type Handle[T any] struct {
	c   *cell[T]
	gen uint64
}

// Valid returns true if some scope still owns the referenced value.
func (h Handle[T]) Valid() bool {
	return h.c != nil && h.c.gen == h.gen && h.c.owners > 0
}

// Get returns the referenced value, or false once every owning scope has
// been dropped.
func (h Handle[T]) Get() (value T, ok bool) {
	if !h.Valid() {
		return value, false
	}
	return h.c.value, true
}
