package vaca

import (
	"fmt"
	"math"
	"math/big"
	"sort"
	"strconv"
	"strings"

	"github.com/jcorbin/govaca/internal/arena"
	"github.com/nukata/goarith"
)

// Value is a runtime value: one of Nil, NotANumber, Bool, Integer, Float,
// Char, String, Array, Object, *Function, *Macro, Atom, *External, plus the
// engine-internal *Deferred and Undefined.
type Value interface {
	fmt.Stringer
	Kind() Kind
}

// Kind tags the variant of a Value.
type Kind int

// Value kinds.
const (
	KindUndefined Kind = iota
	KindNil
	KindNotANumber
	KindBool
	KindInteger
	KindFloat
	KindChar
	KindString
	KindArray
	KindObject
	KindFunction
	KindMacro
	KindAtom
	KindExternal
	KindDeferred
)

var kindStrings = [...]string{
	KindUndefined:  "undefined",
	KindNil:        "nil",
	KindNotANumber: "nan",
	KindBool:       "bool",
	KindInteger:    "integer",
	KindFloat:      "float",
	KindChar:       "char",
	KindString:     "string",
	KindArray:      "array",
	KindObject:     "object",
	KindFunction:   "function",
	KindMacro:      "macro",
	KindAtom:       "atom",
	KindExternal:   "external",
	KindDeferred:   "deferred",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindStrings) {
		return kindStrings[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Ref is a non-owning handle to a value held in an engine's arena.
type Ref = arena.Handle[Value]

type (
	// Undefined is what a dangling Ref resolves to.
	Undefined struct{}

	Nil        struct{}
	NotANumber struct{}
	Bool       bool
	Integer    int64
	Float      float64
	Char       rune
	String     string

	// Array is an ordered sequence of handles; copying an Array copies the
	// handles, never the values behind them.
	Array []Ref

	// Object maps unique keys to handles.
	Object map[string]Ref
)

func (Undefined) Kind() Kind  { return KindUndefined }
func (Nil) Kind() Kind        { return KindNil }
func (NotANumber) Kind() Kind { return KindNotANumber }
func (Bool) Kind() Kind       { return KindBool }
func (Integer) Kind() Kind    { return KindInteger }
func (Float) Kind() Kind      { return KindFloat }
func (Char) Kind() Kind       { return KindChar }
func (String) Kind() Kind     { return KindString }
func (Array) Kind() Kind      { return KindArray }
func (Object) Kind() Kind     { return KindObject }
func (Atom) Kind() Kind       { return KindAtom }

func (Undefined) String() string  { return "'undefined" }
func (Nil) String() string        { return "'nil" }
func (NotANumber) String() string { return "'nan" }
func (b Bool) String() string     { return strconv.FormatBool(bool(b)) }
func (i Integer) String() string  { return strconv.FormatInt(int64(i), 10) }
func (f Float) String() string    { return strconv.FormatFloat(float64(f), 'f', -1, 64) }
func (c Char) String() string     { return string(rune(c)) }
func (s String) String() string   { return string(s) }

func (a Array) String() string {
	var sb strings.Builder
	sb.WriteString("[ ")
	for _, ref := range a {
		sb.WriteString(Resolve(ref).String())
		sb.WriteByte(' ')
	}
	sb.WriteByte(']')
	return sb.String()
}

func (o Object) String() string {
	var sb strings.Builder
	sb.WriteString(":{ ")
	for _, key := range o.Keys() {
		fmt.Fprintf(&sb, "%v: %v ", key, Resolve(o[key]))
	}
	sb.WriteByte('}')
	return sb.String()
}

// Keys returns the object's keys in sorted order.
func (o Object) Keys() []string {
	keys := make([]string, 0, len(o))
	for key := range o {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Resolve dereferences ref, returning Undefined once every scope that owned
// its value has been dropped.
func Resolve(ref Ref) Value {
	if v, ok := ref.Get(); ok && v != nil {
		return v
	}
	return Undefined{}
}

// ToArray copies and unwraps an array. Calling it on any other kind of value
// is a contract violation and panics; check Kind first.
func ToArray(v Value) Array {
	a, ok := v.(Array)
	if !ok {
		panic(fmt.Sprintf("can't turn %v %v into an array like", v.Kind(), v))
	}
	return append(Array(nil), a...)
}

// Truthy reports whether v counts as true: nil, nan, false, zero, '\0',
// empty strings, arrays and objects are false; callables are true; atoms
// are false unless designated true, like :true.
func Truthy(v Value) bool {
	switch x := v.(type) {
	case Bool:
		return bool(x)
	case Integer:
		return x != 0
	case Float:
		return x != 0
	case Char:
		return x != 0
	case String:
		return len(x) != 0
	case Array:
		return len(x) != 0
	case Object:
		return len(x) != 0
	case Atom:
		return x.isTrue()
	case *Function, *Macro, *External, *Deferred:
		return true
	default:
		return false
	}
}

// Equal implements value equality: structural, with integers and floats
// compared by numeric value. Functions, macros, and externals never equal
// anything, not even themselves.
func Equal(a, b Value) bool {
	switch x := a.(type) {
	case Nil:
		_, ok := b.(Nil)
		return ok
	case NotANumber:
		_, ok := b.(NotANumber)
		return ok
	case Bool:
		y, ok := b.(Bool)
		return ok && x == y
	case Integer, Float:
		c, ok := compareNumbers(a, b)
		return ok && c == 0
	case Char:
		y, ok := b.(Char)
		return ok && x == y
	case String:
		y, ok := b.(String)
		return ok && x == y
	case Atom:
		y, ok := b.(Atom)
		return ok && x == y
	case Array:
		y, ok := b.(Array)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(Resolve(x[i]), Resolve(y[i])) {
				return false
			}
		}
		return true
	case Object:
		y, ok := b.(Object)
		if !ok || len(x) != len(y) {
			return false
		}
		for key, ref := range x {
			other, has := y[key]
			if !has || !Equal(Resolve(ref), Resolve(other)) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Compare orders a before, equal to, or after b as -1, 0, or 1. Only
// numbers (mixed integer and float included), chars, and strings are
// ordered; any other pair returns false.
func Compare(a, b Value) (int, bool) {
	switch x := a.(type) {
	case Integer, Float:
		return compareNumbers(a, b)
	case Char:
		if y, ok := b.(Char); ok {
			return cmp(x < y, x > y), true
		}
	case String:
		if y, ok := b.(String); ok {
			return strings.Compare(string(x), string(y)), true
		}
	}
	return 0, false
}

func compareNumbers(a, b Value) (int, bool) {
	switch x := a.(type) {
	case Integer:
		switch y := b.(type) {
		case Integer:
			return cmp(x < y, x > y), true
		case Float:
			if math.IsNaN(float64(y)) {
				return 0, false
			}
			return goarith.AsNumber(int64(x)).Cmp(goarith.AsNumber(float64(y))), true
		}
	case Float:
		if math.IsNaN(float64(x)) {
			return 0, false
		}
		switch y := b.(type) {
		case Integer:
			return goarith.AsNumber(float64(x)).Cmp(goarith.AsNumber(int64(y))), true
		case Float:
			if math.IsNaN(float64(y)) {
				return 0, false
			}
			return cmp(x < y, x > y), true
		}
	}
	return 0, false
}

func cmp(less, more bool) int {
	if less {
		return -1
	} else if more {
		return 1
	}
	return 0
}

// number converts a goarith result back into a value. Integer results that
// overflow 64 bits become Float; float results stay Float, infinities
// included.
func number(n goarith.Number) Value {
	switch x := n.(type) {
	case goarith.Int32:
		return Integer(x)
	case goarith.Int64:
		return Integer(x)
	case goarith.Float64:
		if math.IsNaN(float64(x)) {
			return NotANumber{}
		}
		return Float(x)
	case *goarith.BigInt:
		bi := (*big.Int)(x)
		if bi.IsInt64() {
			return Integer(bi.Int64())
		}
		f, _ := new(big.Float).SetInt(bi).Float64()
		return Float(f)
	}
	return NotANumber{}
}

func asNumber(v Value) (goarith.Number, bool) {
	switch x := v.(type) {
	case Integer:
		return goarith.AsNumber(int64(x)), true
	case Float:
		return goarith.AsNumber(float64(x)), true
	}
	return nil, false
}
