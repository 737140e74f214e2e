package vaca

import (
	"fmt"
	"io"
	"strings"

	"github.com/jcorbin/govaca/internal/runeio"
)

// Dump writes a description of the engine state to w: every arena scope
// with its values and owner counts, then the table chain from the current
// scope up to the root.
func (e *Engine) Dump(w io.Writer) {
	dump := engineDumper{e: e, out: w}
	dump.dump()
}

type engineDumper struct {
	e   *Engine
	out io.Writer
}

func (dump engineDumper) dump() {
	fmt.Fprintf(dump.out, "# Engine Dump\n")
	dump.dumpArena()
	dump.dumpTables()
}

func (dump engineDumper) dumpArena() {
	scopes := dump.e.owner.Dump()
	fmt.Fprintf(dump.out, "  arena: depth=%v live=%v\n", len(scopes), dump.e.owner.Live())
	for i, scope := range scopes {
		fmt.Fprintf(dump.out, "  scope[%v]:\n", i)
		for j, v := range scope.Values {
			fmt.Fprintf(dump.out, "    @%v owners=%v %v\n", j, scope.Owners[j], dumpValue(v))
		}
	}
}

func (dump engineDumper) dumpTables() {
	depth := 0
	for t := dump.e.table; t != nil; t = t.parent {
		depth++
	}
	for t := dump.e.table; t != nil; t = t.parent {
		depth--
		mark := ""
		if t == dump.e.root {
			mark = " (root)"
		}
		fmt.Fprintf(dump.out, "  table[%v]%v:\n", depth, mark)
		ordinary, mutable := t.local()
		for _, sym := range ordinary {
			v, _ := t.Lookup(sym)
			action, _ := t.IsAction(sym)
			flag := ""
			if action {
				flag = " action"
			}
			fmt.Fprintf(dump.out, "    %v =%v %v\n", sym, flag, dumpValue(v))
		}
		for _, sym := range mutable {
			v, _ := t.Lookup(sym)
			fmt.Fprintf(dump.out, "    %v = %v\n", sym, dumpValue(v))
		}
	}
}

// dumpValue is like String but makes kinds that print ambiguously visible.
func dumpValue(v Value) string {
	switch x := v.(type) {
	case nil:
		return "<nil>"
	case Char:
		return runeio.Name(rune(x))
	case String:
		return fmt.Sprintf("%q", string(x))
	case Array:
		parts := make([]string, len(x))
		for i, ref := range x {
			parts[i] = dumpValue(Resolve(ref))
		}
		return "[ " + strings.Join(parts, " ") + " ]"
	}
	return v.String()
}
