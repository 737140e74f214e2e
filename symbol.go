package vaca

import "strings"

// MutableMarker is the trailing rune that spells a mutable symbol.
const MutableMarker = '\''

// Symbol is an identifier. A symbol spelled with a trailing MutableMarker,
// like `count'`, names a mutable binding; all others name ordinary,
// write-once bindings.
type Symbol string

// IsMutable returns true if the symbol is spelled with the mutable marker.
func (s Symbol) IsMutable() bool {
	return strings.HasSuffix(string(s), string(MutableMarker))
}

func (s Symbol) String() string { return string(s) }
