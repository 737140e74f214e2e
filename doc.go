/*
Package vaca is the execution core of the vaca scripting language: it
resolves symbols to values, owns runtime values through explicit scope
lifetimes, and invokes functions and macros.

Programs arrive as Form trees from a parser, which this package does not
contain. Engine.Build checks a program for references to undefined symbols,
collecting every error before reporting; Engine.Run then evaluates it.

Values

A Value is one of Nil, NotANumber, Bool, Integer, Float, Char, String, Array,
Object, *Function, *Macro, Atom, or *External. Arrays and objects hold
handles (Ref) into the engine's arena rather than values; a handle whose
owning scopes have all been dropped resolves to Undefined, which displays as
'undefined. Integers and floats compare by numeric value; callables never
compare equal to anything.

Symbols and scopes

A symbol spelled with a trailing apostrophe, like add', is mutable: it may be
reassigned, but only ever resolves in the scope that assigned it. Any other
symbol is bound once per scope and is visible from every child scope.

Calls

Calling a callable with fewer arguments than its arity returns a partial
application; calling it with more is a TooManyArguments error. Macros, and
callables bound with an action assignment, receive their arguments
unevaluated: each parameter is evaluated in the caller's scope whenever the
body references it.

Scoping is dynamic: a call's scope is a child of the scope it was called
from, not of the scope the callable was defined in.

Concurrency

An Engine belongs to one goroutine. Engine.Parallel runs several calls at
once on forked engines that share the calling scope chain, each with its
own arena.
*/
package vaca
