package vaca

import "sync"

// Atom is an interned symbolic constant, like `:true`. Atoms compare equal
// iff they were interned from the same name.
type Atom struct{ id uint }

// True is the atom designated as truthy by default.
var True = Intern(":true")

// Intern returns the atom named by name, creating it on first use.
func Intern(name string) Atom {
	return Atom{atoms.symbolicate(name)}
}

// DesignateTrue makes a truthy; all atoms other than True are falsy unless
// designated.
func DesignateTrue(a Atom) {
	atoms.mu.Lock()
	defer atoms.mu.Unlock()
	if atoms.truthy == nil {
		atoms.truthy = make(map[uint]bool)
	}
	atoms.truthy[a.id] = true
}

func (a Atom) String() string { return atoms.string(a.id) }

func (a Atom) isTrue() bool {
	if a == True {
		return true
	}
	atoms.mu.RLock()
	defer atoms.mu.RUnlock()
	return atoms.truthy[a.id]
}

var atoms atomTable

// atomTable interns names into dense ids, shared by every engine.
type atomTable struct {
	mu      sync.RWMutex
	strings []string
	ids     map[string]uint
	truthy  map[uint]bool
}

func (tab *atomTable) string(id uint) string {
	tab.mu.RLock()
	defer tab.mu.RUnlock()
	if i := int(id) - 1; i >= 0 && i < len(tab.strings) {
		return tab.strings[i]
	}
	return ""
}

func (tab *atomTable) symbolicate(s string) uint {
	tab.mu.RLock()
	id, defined := tab.ids[s]
	tab.mu.RUnlock()
	if defined {
		return id
	}

	tab.mu.Lock()
	defer tab.mu.Unlock()
	if id, defined = tab.ids[s]; !defined {
		if tab.ids == nil {
			tab.ids = make(map[string]uint)
		}
		id = uint(len(tab.strings)) + 1
		tab.strings = append(tab.strings, s)
		tab.ids[s] = id
	}
	return id
}
