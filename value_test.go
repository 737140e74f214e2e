package vaca

import (
	"testing"

	"github.com/jcorbin/govaca/internal/arena"
	"github.com/jcorbin/govaca/internal/panicerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Equal(t *testing.T) {
	fn := NewFunction(params("x"), sym("x"))
	twin := NewFunction(params("x"), sym("x"))
	o := arena.NewOwner[Value]()
	arr := func(vs ...Value) Array {
		a := make(Array, len(vs))
		for i, v := range vs {
			a[i] = o.Insert(v)
		}
		return a
	}

	for _, tc := range []struct {
		name string
		a, b Value
		want bool
	}{
		{"integer float", Integer(2), Float(2.0), true},
		{"float integer", Float(2.0), Integer(2), true},
		{"integer float unequal", Integer(2), Float(2.5), false},
		{"integers", Integer(7), Integer(7), true},
		{"nan", NotANumber{}, NotANumber{}, true},
		{"nil", Nil{}, Nil{}, true},
		{"nil false", Nil{}, Bool(false), false},
		{"strings", String("moo"), String("moo"), true},
		{"string char", String("m"), Char('m'), false},
		{"atoms", Intern(":a"), Intern(":a"), true},
		{"distinct atoms", Intern(":a"), Intern(":b"), false},
		{"arrays", arr(Integer(1), Float(2)), arr(Float(1), Integer(2)), true},
		{"array lengths", arr(Integer(1)), arr(Integer(1), Integer(2)), false},
		{"function itself", fn, fn, false},
		{"function twin", fn, twin, false},
		{"macro", NewMacro(nil, lit(1)), NewMacro(nil, lit(1)), false},
		{"external", &External{Lib: "m", Symbol: "f"}, &External{Lib: "m", Symbol: "f"}, false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Equal(tc.a, tc.b), "%v = %v", tc.a, tc.b)
		})
	}
}

func Test_Compare(t *testing.T) {
	for _, tc := range []struct {
		name    string
		a, b    Value
		want    int
		ordered bool
	}{
		{"integer less float", Integer(1), Float(1.5), -1, true},
		{"float more integer", Float(1.5), Integer(1), 1, true},
		{"integers", Integer(3), Integer(3), 0, true},
		{"big mixed", Integer(1 << 62), Float(1e18), 1, true},
		{"chars", Char('a'), Char('b'), -1, true},
		{"strings", String("b"), String("a"), 1, true},
		{"nan", Float(0), NotANumber{}, 0, false},
		{"bools", Bool(false), Bool(true), 0, false},
		{"mixed kinds", String("1"), Integer(1), 0, false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			c, ok := Compare(tc.a, tc.b)
			assert.Equal(t, tc.ordered, ok, "expected ordered")
			assert.Equal(t, tc.want, c, "expected ordering")
		})
	}
}

func Test_Truthy(t *testing.T) {
	o := arena.NewOwner[Value]()
	designated := Intern(":yes")
	DesignateTrue(designated)
	for _, tc := range []struct {
		v    Value
		want bool
	}{
		{Nil{}, false},
		{NotANumber{}, false},
		{Bool(false), false},
		{Bool(true), true},
		{Integer(0), false},
		{Integer(-1), true},
		{Float(0), false},
		{Float(0.1), true},
		{Char(0), false},
		{Char('x'), true},
		{String(""), false},
		{String("x"), true},
		{Array{}, false},
		{Array{o.Insert(Nil{})}, true},
		{Object{}, false},
		{Object{"k": o.Insert(Nil{})}, true},
		{NewFunction(nil, lit(nil)), true},
		{NewMacro(nil, lit(nil)), true},
		{&External{}, true},
		{True, true},
		{Intern(":false"), false},
		{Intern(":other"), false},
		{designated, true},
	} {
		assert.Equal(t, tc.want, Truthy(tc.v), "truthiness of %v %v", tc.v.Kind(), tc.v)
	}
}

func Test_Value_String(t *testing.T) {
	o := arena.NewOwner[Value]()
	o.CreateScope()
	gone := o.Insert(Integer(3))
	kept := o.Insert(String("hi"))
	o.InsertReturn(kept)
	o.DropScope()

	for _, tc := range []struct {
		v    Value
		want string
	}{
		{Nil{}, "'nil"},
		{NotANumber{}, "'nan"},
		{Undefined{}, "'undefined"},
		{Bool(true), "true"},
		{Integer(-42), "-42"},
		{Float(1.5), "1.5"},
		{Float(2), "2"},
		{Char('x'), "x"},
		{String("moo"), "moo"},
		{Intern(":true"), ":true"},
		{Array{}, "[ ]"},
		{Array{o.Insert(Integer(1)), o.Insert(Integer(2))}, "[ 1 2 ]"},
		{Array{kept, gone}, "[ hi 'undefined ]"},
		{Object{"b": o.Insert(Integer(2)), "a": o.Insert(Integer(1))}, ":{ a: 1 b: 2 }"},
		{NewFunction(params("a b"), lit(nil)), "'func\\2"},
		{NewMacro(params("a b c"), lit(nil)), "'macro\\3"},
		{&External{Lib: "libm", Symbol: "cos", Arity: 1}, "'func::libm::cos\\1"},
		{&External{Lib: "lib", Symbol: "when", Mode: ExternalMacro, Arity: 2}, "'macro::lib::when\\2"},
	} {
		assert.Equal(t, tc.want, tc.v.String())
	}
}

func Test_Resolve_dangling(t *testing.T) {
	o := arena.NewOwner[Value]()
	o.CreateScope()
	ref := o.Insert(Integer(1))
	assert.Equal(t, Integer(1), Resolve(ref))
	o.DropScope()
	assert.Equal(t, Undefined{}, Resolve(ref))
	assert.Equal(t, "'undefined", Resolve(ref).String())
	assert.Equal(t, Undefined{}, Resolve(Ref{}))
}

func Test_ToArray(t *testing.T) {
	o := arena.NewOwner[Value]()
	a := Array{o.Insert(Integer(1)), o.Insert(Integer(2))}

	t.Run("array", func(t *testing.T) {
		b := ToArray(a)
		require.Equal(t, a, b)
		b[0] = o.Insert(Integer(9))
		assert.Equal(t, Integer(1), Resolve(a[0]), "expected ToArray to copy the handle set")
	})

	for _, v := range []Value{Nil{}, Integer(1), String("[ 1 ]"), Object{}, NewFunction(nil, lit(nil))} {
		t.Run(v.Kind().String(), func(t *testing.T) {
			err := panicerr.Recover(t.Name(), func() error {
				ToArray(v)
				return nil
			})
			require.True(t, panicerr.IsPanic(err), "expected a panic, got %v", err)
			assert.Contains(t, err.Error(), "can't turn")
		})
	}
}
