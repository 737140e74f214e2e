package vaca

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_TrackTable(t *testing.T) {
	track := NewTrackTable()
	require.NoError(t, track.Assign("x"))
	require.NoError(t, track.Assign("n'"))
	require.NoError(t, track.Assign("n'"), "expected mutable redeclaration")
	assert.ErrorIs(t, track.Assign("x"), ImmutableMutation)

	track.CreateScope()
	assert.True(t, track.Exists("x"), "expected ordinary symbol from enclosing scope")
	assert.False(t, track.Exists("n'"), "expected mutable symbol to be confined to its scope")
	require.NoError(t, track.Assign("x"), "expected shadowing in a new scope")
	require.NoError(t, track.Assign("y"))
	assert.Equal(t, 2, track.Depth())

	track.DropScope()
	assert.False(t, track.Exists("y"))
	assert.True(t, track.Exists("n'"))

	track.DropScope()
	track.DropScope()
	assert.Equal(t, 0, track.Depth())
	assert.False(t, track.Exists("x"))
}

func Test_ValidateForm(t *testing.T) {
	for _, tc := range []struct {
		name    string
		forms   []Form
		wantErr error
		inErr   string
	}{
		{name: "literals", forms: []Form{lit(1), lit(2.5), lit("s"), lit(true), lit('c'), lit(nil), atom(":a")}},
		{name: "undefined", forms: []Form{sym("x")}, wantErr: UndefinedSymbol, inErr: "use of undefined symbol `x`"},
		{name: "assigned", forms: []Form{let("x", lit(1)), sym("x")}},
		{name: "self reference", forms: []Form{let("x", sym("x"))}, wantErr: UndefinedSymbol},
		{name: "recursive function", forms: []Form{
			let("loop", function("n", apply("loop", sym("n")))),
		}},
		{name: "function params", forms: []Form{
			let("f", function("a b", call(sym("a"), sym("b")))),
			sym("a"),
		}, wantErr: UndefinedSymbol, inErr: "`a`"},
		{name: "duplicate param", forms: []Form{function("a a", sym("a"))}, wantErr: ImmutableMutation},
		{name: "duplicate assignment", forms: []Form{let("x", lit(1)), let("x", lit(2))}, wantErr: ImmutableMutation},
		{name: "mutable reassignment", forms: []Form{let("x'", lit(1)), let("x'", lit(2)), sym("x'")}},
		{name: "mutable in child scope", forms: []Form{
			let("add'", lit(0)),
			block(sym("add'")),
		}, wantErr: UndefinedMutableSymbol, inErr: "in scope"},
		{name: "scope locals", forms: []Form{block(let("x", lit(1)), sym("x")), sym("x")}, wantErr: UndefinedSymbol},
		{name: "call args", forms: []Form{call(function("a", sym("a")), sym("nope"))},
			wantErr: UndefinedSymbol, inErr: "in argument 1 of call"},
		{name: "array elements", forms: []Form{array(lit(1), sym("nope"))}, wantErr: UndefinedSymbol},
		{name: "macro body", forms: []Form{macro("a", apply("nope", sym("a")))}, wantErr: UndefinedSymbol, inErr: "in macro body"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			track := NewTrackTable()
			var err error
			for _, form := range tc.forms {
				if err = ValidateForm(track, form); err != nil {
					break
				}
			}
			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.wantErr)
			if tc.inErr != "" {
				assert.Contains(t, err.Error(), tc.inErr)
			}
		})
	}
}

func Test_Build(t *testing.T) {
	e := New()
	defer e.Close()

	t.Run("natives", func(t *testing.T) {
		assert.NoError(t, e.Build(program(
			apply("println", apply("+", lit(1), lit(2))),
			let("sq", function("x", apply("*", sym("x"), sym("x")))),
		)))
	})

	t.Run("collects every error", func(t *testing.T) {
		err := e.Build(program(
			sym("a"),
			lit(1),
			apply("b"),
			let("c'", lit(1)),
			block(sym("c'")),
		))
		require.Error(t, err)

		var errs BuildErrors
		require.True(t, errors.As(err, &errs), "expected BuildErrors, got %T", err)
		require.Len(t, errs, 3)
		assert.ErrorIs(t, errs[0], UndefinedSymbol)
		assert.ErrorIs(t, errs[1], UndefinedSymbol)
		assert.ErrorIs(t, errs[2], UndefinedMutableSymbol)
		assert.ErrorIs(t, err, UndefinedMutableSymbol)
		assert.Contains(t, err.Error(), "3 build errors:")

		detail := fmt.Sprintf("%+v", errs[2])
		assert.Contains(t, detail, "build error")
		assert.Contains(t, detail, "`c'` use of undefined mutable symbol")
	})

	t.Run("sees prior runs", func(t *testing.T) {
		e := New()
		defer e.Close()
		_, err := e.Run(bg, program(let("x", lit(1)), let("n'", lit(0))))
		require.NoError(t, err)
		assert.NoError(t, e.Build(program(sym("x"), sym("n'"))))
		assert.ErrorIs(t, e.Build(program(let("x", lit(2)))), ImmutableMutation)
	})

	t.Run("without prelude", func(t *testing.T) {
		e := New(WithoutPrelude())
		defer e.Close()
		assert.ErrorIs(t, e.Build(program(apply("+", lit(1), lit(2)))), UndefinedSymbol)
	})
}
