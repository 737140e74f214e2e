package vaca

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Engine_Dump(t *testing.T) {
	e := New(WithoutPrelude(), WithNative("when", NewMacro(params("c"), lit(nil)), true))
	defer e.Close()

	_, err := e.Run(bg, program(
		let("a", array(lit('\n'), lit("s"))),
		let("n'", lit(1)),
	))
	require.NoError(t, err)

	var out strings.Builder
	e.Dump(&out)
	assert.Equal(t, lines(
		"# Engine Dump",
		"  arena: depth=1 live=2",
		"  scope[0]:",
		"    @0 owners=1 <NL>",
		`    @1 owners=1 "s"`,
		"  table[1]:",
		`    a = [ <NL> "s" ]`,
		"    n' = 1",
		"  table[0] (root):",
		"    when = action 'macro\\1",
	), out.String())
}
