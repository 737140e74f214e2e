package arena

// ScopeDump provides data for testing and debug dumps.
type ScopeDump[T any] struct {
	Values []T
	Owners []int
}

// Dump returns a snapshot of every scope, bottom first.
func (o *Owner[T]) Dump() []ScopeDump[T] {
	d := make([]ScopeDump[T], len(o.scopes))
	for i, scope := range o.scopes {
		d[i].Values = make([]T, len(scope))
		d[i].Owners = make([]int, len(scope))
		for j, c := range scope {
			d[i].Values[j] = c.value
			d[i].Owners[j] = c.owners
		}
	}
	return d
}
