package vaca

// TrackTable records which symbols each lexical scope declares, without
// values, so that references to undefined symbols are rejected before a
// program runs.
type TrackTable struct {
	scopes []trackScope
}

type trackScope struct {
	ordinary map[Symbol]struct{}
	mutable  map[Symbol]struct{}
}

// NewTrackTable returns a track table with one root scope.
func NewTrackTable() *TrackTable {
	var track TrackTable
	track.CreateScope()
	return &track
}

// CreateScope pushes an empty scope.
func (track *TrackTable) CreateScope() {
	track.scopes = append(track.scopes, trackScope{
		ordinary: make(map[Symbol]struct{}),
		mutable:  make(map[Symbol]struct{}),
	})
}

// DropScope pops the top scope; it is a no-op when no scope remains.
func (track *TrackTable) DropScope() {
	if i := len(track.scopes) - 1; i >= 0 {
		track.scopes = track.scopes[:i]
	}
}

// Depth returns the number of scopes.
func (track *TrackTable) Depth() int { return len(track.scopes) }

// Assign declares sym in the top scope, failing like Table.Assign when an
// ordinary symbol is declared twice in one scope.
func (track *TrackTable) Assign(sym Symbol) error {
	if len(track.scopes) == 0 {
		track.CreateScope()
	}
	top := track.scopes[len(track.scopes)-1]
	if sym.IsMutable() {
		top.mutable[sym] = struct{}{}
		return nil
	}
	if _, declared := top.ordinary[sym]; declared {
		return buildTop(ImmutableMutation, sym,
			"attempt to mutate immutable symbol `%v`. If you need mutation, try creating `%v%c`", sym, sym, MutableMarker)
	}
	top.ordinary[sym] = struct{}{}
	return nil
}

// Exists reports whether sym may be referenced: mutable symbols only from
// the scope that declared them, ordinary symbols from any enclosing scope.
func (track *TrackTable) Exists(sym Symbol) bool {
	if len(track.scopes) == 0 {
		return false
	}
	if sym.IsMutable() {
		_, ok := track.scopes[len(track.scopes)-1].mutable[sym]
		return ok
	}
	for i := len(track.scopes) - 1; i >= 0; i-- {
		if _, ok := track.scopes[i].ordinary[sym]; ok {
			return true
		}
	}
	return false
}
