package vaca

import (
	"io"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/jcorbin/govaca/internal/runeio"
	"github.com/nukata/goarith"
)

// prelude returns the native bindings every engine starts with, unless
// built WithoutPrelude.
func prelude() []nativeBinding {
	fn := func(name string, params string, impl NativeFunc) nativeBinding {
		return nativeBinding{Symbol(name), NewNative(name, symbols(params), impl), false}
	}
	return []nativeBinding{
		fn("+", "a b", arith(goarith.Number.Add)),
		fn("-", "a b", arith(goarith.Number.Sub)),
		fn("*", "a b", arith(goarith.Number.Mul)),
		fn("/", "a b", divide),
		fn("^", "base exp", power),
		fn("<", "a b", order(-1)),
		fn(">", "a b", order(1)),
		fn("=", "a b", equals),
		fn("not", "x", not),

		fn("print", "text", printNative("")),
		fn("println", "text", printNative("\n")),
		fn("readln", "", readln),
		fn("format", "template args", format),
		fn("char", "token", char),

		fn("len", "x", length),
		fn("append", "array item", appendNative),
		fn("prepend", "item array", prepend),
		fn("pop-back", "array", popBack),
		fn("pop-front", "array", popFront),
		fn("object", "pairs", object),
		fn("get", "from key", get),

		fn("map", "f array", mapNative),
		fn("filter", "f array", filter),
		fn("reduce", "f array", reduce),
		fn("fold", "f init array", fold),
		fn("scan", "f init array", scan),
		fn("eval", "expr", eval),

		{"if", NewNativeMacro("if", symbols("cond then else"), ifMacro), true},
	}
}

func symbols(spaced string) []Symbol {
	fields := strings.Fields(spaced)
	syms := make([]Symbol, len(fields))
	for i, field := range fields {
		syms[i] = Symbol(field)
	}
	return syms
}

func args(ctx *CallContext) ([]Value, error) {
	vs := make([]Value, ctx.Len())
	for i := range vs {
		v, err := ctx.Arg(i)
		if err != nil {
			return nil, err
		}
		vs[i] = v
	}
	return vs, nil
}

func typeMismatch(ctx *CallContext, want string, got Value) error {
	return runTop(TypeMismatch, "", "`%v` expects %v, got %v `%v`", ctx.Name(), want, got.Kind(), got)
}

func arrayArg(ctx *CallContext, v Value) (Array, error) {
	if v.Kind() != KindArray {
		return nil, typeMismatch(ctx, "an array", v)
	}
	return ToArray(v), nil
}

func numbers(ctx *CallContext) (x, y goarith.Number, nan bool, err error) {
	vs, err := args(ctx)
	if err != nil {
		return nil, nil, false, err
	}
	for _, v := range vs {
		switch v.(type) {
		case NotANumber:
			return nil, nil, true, nil
		case Integer, Float:
		default:
			return nil, nil, false, typeMismatch(ctx, "a number", v)
		}
	}
	x, _ = asNumber(vs[0])
	y, _ = asNumber(vs[1])
	return x, y, false, nil
}

func arith(op func(x, y goarith.Number) goarith.Number) NativeFunc {
	return func(ctx *CallContext) (Value, error) {
		x, y, nan, err := numbers(ctx)
		if err != nil || nan {
			return NotANumber{}, err
		}
		return number(op(x, y)), nil
	}
}

func floats(ctx *CallContext) (x, y float64, nan bool, err error) {
	vs, err := args(ctx)
	if err != nil {
		return 0, 0, false, err
	}
	var fs [2]float64
	for i, v := range vs {
		switch n := v.(type) {
		case NotANumber:
			return 0, 0, true, nil
		case Integer:
			fs[i] = float64(n)
		case Float:
			fs[i] = float64(n)
		default:
			return 0, 0, false, typeMismatch(ctx, "a number", v)
		}
	}
	return fs[0], fs[1], false, nil
}

func divide(ctx *CallContext) (Value, error) {
	x, y, nan, err := floats(ctx)
	if err != nil || nan || y == 0 {
		return NotANumber{}, err
	}
	return Float(x / y), nil
}

func power(ctx *CallContext) (Value, error) {
	x, y, nan, err := floats(ctx)
	if err != nil || nan {
		return NotANumber{}, err
	}
	if r := math.Pow(x, y); !math.IsNaN(r) {
		return Float(r), nil
	}
	return NotANumber{}, nil
}

func order(want int) NativeFunc {
	return func(ctx *CallContext) (Value, error) {
		vs, err := args(ctx)
		if err != nil {
			return nil, err
		}
		c, ok := Compare(vs[0], vs[1])
		return Bool(ok && c == want), nil
	}
}

func equals(ctx *CallContext) (Value, error) {
	vs, err := args(ctx)
	if err != nil {
		return nil, err
	}
	return Bool(Equal(vs[0], vs[1])), nil
}

func not(ctx *CallContext) (Value, error) {
	v, err := ctx.Arg(0)
	if err != nil {
		return nil, err
	}
	return Bool(!Truthy(v)), nil
}

func printNative(end string) NativeFunc {
	return func(ctx *CallContext) (Value, error) {
		v, err := ctx.Arg(0)
		if err != nil {
			return nil, err
		}
		if _, err := runeio.WriteANSI(ctx.Output(), v.String(), end); err != nil {
			return nil, err
		}
		return Nil{}, nil
	}
}

func readln(ctx *CallContext) (Value, error) {
	line, err := ctx.ReadLine()
	if err == io.EOF {
		return Nil{}, nil
	} else if err != nil {
		return nil, err
	}
	return String(line), nil
}

// format replaces each {} in template with the next element of args.
func format(ctx *CallContext) (Value, error) {
	vs, err := args(ctx)
	if err != nil {
		return nil, err
	}
	template, ok := vs[0].(String)
	if !ok {
		return nil, typeMismatch(ctx, "a string template", vs[0])
	}
	elems, err := arrayArg(ctx, vs[1])
	if err != nil {
		return nil, err
	}
	parts := strings.Split(string(template), "{}")
	var sb strings.Builder
	for i, part := range parts {
		sb.WriteString(part)
		if i < len(parts)-1 {
			if i < len(elems) {
				sb.WriteString(Resolve(elems[i]).String())
			} else {
				sb.WriteString("{}")
			}
		}
	}
	return String(sb.String()), nil
}

func char(ctx *CallContext) (Value, error) {
	v, err := ctx.Arg(0)
	if err != nil {
		return nil, err
	}
	s, ok := v.(String)
	if !ok {
		return nil, typeMismatch(ctx, "a string", v)
	}
	r, err := runeio.UnquoteRune(string(s))
	if err != nil {
		return nil, err
	}
	return Char(r), nil
}

func length(ctx *CallContext) (Value, error) {
	v, err := ctx.Arg(0)
	if err != nil {
		return nil, err
	}
	switch x := v.(type) {
	case String:
		return Integer(utf8.RuneCountInString(string(x))), nil
	case Array:
		return Integer(len(x)), nil
	case Object:
		return Integer(len(x)), nil
	}
	return nil, typeMismatch(ctx, "a string, array or object", v)
}

func appendNative(ctx *CallContext) (Value, error) {
	vs, err := args(ctx)
	if err != nil {
		return nil, err
	}
	a, err := arrayArg(ctx, vs[0])
	if err != nil {
		return nil, err
	}
	return append(a, ctx.Insert(vs[1])), nil
}

func prepend(ctx *CallContext) (Value, error) {
	vs, err := args(ctx)
	if err != nil {
		return nil, err
	}
	a, err := arrayArg(ctx, vs[1])
	if err != nil {
		return nil, err
	}
	return append(Array{ctx.Insert(vs[0])}, a...), nil
}

func popBack(ctx *CallContext) (Value, error) {
	v, err := ctx.Arg(0)
	if err != nil {
		return nil, err
	}
	a, err := arrayArg(ctx, v)
	if err != nil || len(a) == 0 {
		return a, err
	}
	return a[:len(a)-1], nil
}

func popFront(ctx *CallContext) (Value, error) {
	v, err := ctx.Arg(0)
	if err != nil {
		return nil, err
	}
	a, err := arrayArg(ctx, v)
	if err != nil || len(a) == 0 {
		return a, err
	}
	return a[1:], nil
}

// object builds an object out of an array of [key value] pairs.
func object(ctx *CallContext) (Value, error) {
	v, err := ctx.Arg(0)
	if err != nil {
		return nil, err
	}
	pairs, err := arrayArg(ctx, v)
	if err != nil {
		return nil, err
	}
	obj := make(Object, len(pairs))
	for _, ref := range pairs {
		pair, ok := Resolve(ref).(Array)
		if !ok || len(pair) != 2 {
			return nil, typeMismatch(ctx, "[key value] pairs", Resolve(ref))
		}
		obj[Resolve(pair[0]).String()] = pair[1]
	}
	return obj, nil
}

func get(ctx *CallContext) (Value, error) {
	vs, err := args(ctx)
	if err != nil {
		return nil, err
	}
	switch from := vs[0].(type) {
	case Object:
		if ref, ok := from[vs[1].String()]; ok {
			return Resolve(ref), nil
		}
		return Nil{}, nil
	case Array:
		i, ok := vs[1].(Integer)
		if !ok {
			return nil, typeMismatch(ctx, "an integer index", vs[1])
		}
		if i < 0 || int(i) >= len(from) {
			return Nil{}, nil
		}
		return Resolve(from[i]), nil
	}
	return nil, typeMismatch(ctx, "an object or array", vs[0])
}

func mapNative(ctx *CallContext) (Value, error) {
	vs, err := args(ctx)
	if err != nil {
		return nil, err
	}
	a, err := arrayArg(ctx, vs[1])
	if err != nil {
		return nil, err
	}
	out := make(Array, len(a))
	for i, ref := range a {
		v, err := ctx.Call(vs[0], Resolve(ref))
		if err != nil {
			return nil, err
		}
		out[i] = ctx.Insert(v)
	}
	return out, nil
}

func filter(ctx *CallContext) (Value, error) {
	vs, err := args(ctx)
	if err != nil {
		return nil, err
	}
	a, err := arrayArg(ctx, vs[1])
	if err != nil {
		return nil, err
	}
	var out Array
	for _, ref := range a {
		keep, err := ctx.Call(vs[0], Resolve(ref))
		if err != nil {
			return nil, err
		}
		if Truthy(keep) {
			out = append(out, ref)
		}
	}
	if out == nil {
		out = Array{}
	}
	return out, nil
}

func foldOver(ctx *CallContext, f, acc Value, a Array, each func(Value)) (Value, error) {
	for _, ref := range a {
		v, err := ctx.Call(f, acc, Resolve(ref))
		if err != nil {
			return nil, err
		}
		acc = v
		if each != nil {
			each(acc)
		}
	}
	return acc, nil
}

func reduce(ctx *CallContext) (Value, error) {
	vs, err := args(ctx)
	if err != nil {
		return nil, err
	}
	a, err := arrayArg(ctx, vs[1])
	if err != nil {
		return nil, err
	}
	if len(a) == 0 {
		return Nil{}, nil
	}
	return foldOver(ctx, vs[0], Resolve(a[0]), a[1:], nil)
}

func fold(ctx *CallContext) (Value, error) {
	vs, err := args(ctx)
	if err != nil {
		return nil, err
	}
	a, err := arrayArg(ctx, vs[2])
	if err != nil {
		return nil, err
	}
	return foldOver(ctx, vs[0], vs[1], a, nil)
}

// scan is fold that keeps every intermediate accumulator.
func scan(ctx *CallContext) (Value, error) {
	vs, err := args(ctx)
	if err != nil {
		return nil, err
	}
	a, err := arrayArg(ctx, vs[2])
	if err != nil {
		return nil, err
	}
	out := make(Array, 0, len(a))
	_, err = foldOver(ctx, vs[0], vs[1], a, func(acc Value) {
		out = append(out, ctx.Insert(acc))
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// eval calls a callable of arity zero; source strings can not be evaluated
// without a parser.
func eval(ctx *CallContext) (Value, error) {
	v, err := ctx.Arg(0)
	if err != nil {
		return nil, err
	}
	switch x := v.(type) {
	case *Function, *Macro, *External:
		return ctx.Call(x)
	case String:
		return nil, runTop(NativeFailure, "", "not possible to parse and evaluate `%v`: no parser attached", x)
	}
	return nil, typeMismatch(ctx, "a string or callable", v)
}

func ifMacro(ctx *CallContext) (Value, error) {
	cond, err := ctx.Arg(0)
	if err != nil {
		return nil, err
	}
	if Truthy(cond) {
		return ctx.Arg(1)
	}
	return ctx.Arg(2)
}
