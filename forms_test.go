package vaca

import (
	"strings"
	"testing"

	"github.com/jcorbin/govaca/internal/panicerr"
)

// test helpers for building form trees without a parser

var nextSpan int

func form(expr Expr) Form {
	nextSpan++
	return Form{expr, Span{"test", nextSpan, nextSpan + 1}}
}

func lit(v interface{}) Form {
	switch x := v.(type) {
	case nil:
		return form(NilExpr{})
	case int:
		return form(IntegerExpr(x))
	case float64:
		return form(FloatExpr(x))
	case string:
		return form(StringExpr(x))
	case bool:
		return form(BoolExpr(x))
	case rune:
		return form(CharExpr(x))
	}
	panic("lit: unsupported literal")
}

func sym(name string) Form  { return form(SymbolExpr(name)) }
func atom(name string) Form { return form(AtomExpr(name)) }

func call(callee Form, args ...Form) Form { return form(CallExpr{callee, args}) }

func apply(name string, args ...Form) Form { return call(sym(name), args...) }

func array(elems ...Form) Form { return form(ArrayExpr(elems)) }

func block(forms ...Form) Form { return form(ScopeExpr(forms)) }

func params(spaced string) []Symbol { return symbols(spaced) }

func function(spaced string, body Form) Form {
	return form(FunctionExpr{params(spaced), body})
}

func macro(spaced string, body Form) Form {
	return form(MacroExpr{params(spaced), body})
}

// let builds a value assignment list from symbol, form pairs.
func let(pairs ...interface{}) Form { return assignments(AssignValue, pairs...) }

// act builds an action assignment list from symbol, form pairs.
func act(pairs ...interface{}) Form { return assignments(AssignAction, pairs...) }

func assignments(kind AssignmentKind, pairs ...interface{}) Form {
	if len(pairs)%2 == 1 {
		panic("must be given symbol, form pairs")
	}
	var list AssignmentList
	list.Kind = kind
	for i := 0; i < len(pairs); i += 2 {
		list.Assignments = append(list.Assignments, Assignment{
			Symbol: Symbol(pairs[i].(string)),
			Value:  pairs[i+1].(Form),
		})
	}
	return form(list)
}

func program(forms ...Form) Program {
	return Program{Name: "test", Forms: forms}
}

func isolateTest(t *testing.T, f func(t *testing.T)) {
	if err := panicerr.Recover(t.Name(), func() error {
		f(t)
		return nil
	}); err != nil {
		t.Logf("%+v", err)
		t.Fail()
	}
}

func lines(parts ...string) string {
	return strings.Join(parts, "\n") + "\n"
}
