package vaca

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies build and run errors. Kinds are errors themselves,
// so that callers may test with errors.Is(err, UndefinedSymbol).
type ErrorKind int

// Error kinds.
const (
	UndefinedSymbol ErrorKind = iota + 1
	UndefinedMutableSymbol
	ImmutableMutation
	TooManyArguments
	ImpossibleCallable
	LockFailure
	NotCallable
	UnresolvedExternal
	TypeMismatch
	NativeFailure
)

var kindNames = [...]string{
	UndefinedSymbol:        "undefined symbol",
	UndefinedMutableSymbol: "undefined mutable symbol",
	ImmutableMutation:      "immutable mutation",
	TooManyArguments:       "too many arguments",
	ImpossibleCallable:     "impossible callable",
	LockFailure:            "lock failure",
	NotCallable:            "not callable",
	UnresolvedExternal:     "unresolved external",
	TypeMismatch:           "type mismatch",
	NativeFailure:          "native failure",
}

func (k ErrorKind) Error() string {
	if k > 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("error kind %d", int(k))
}

// errorStack is the shape shared by build and run errors: either a leaf
// carrying a message, or a chained node carrying a cause and a note.
type errorStack struct {
	Kind ErrorKind
	Src  string // offending symbol, if any
	Msg  string // leaf message
	From error  // cause, nil for a leaf
	Note string // context added by a chained node
}

func (es *errorStack) leaf() bool { return es.From == nil }

func (es *errorStack) Error() string {
	if es.leaf() {
		return es.Msg
	}
	if es.Note == "" {
		return es.From.Error()
	}
	return fmt.Sprintf("%v: %v", es.Note, es.From)
}

func (es *errorStack) Unwrap() error { return es.From }

func (es *errorStack) Is(target error) bool {
	k, ok := target.(ErrorKind)
	return ok && k != 0 && k == es.Kind
}

// format renders the stack top-down; with %+v each link gets its own line.
func (es *errorStack) format(f fmt.State, c rune, phase string) {
	if c != 'v' || !f.Flag('+') {
		fmt.Fprint(f, es.Error())
		return
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%v error", phase)
	for depth, err := 0, error(es); err != nil; depth++ {
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat("  ", depth))
		var link *errorStack
		switch e := err.(type) {
		case *BuildError:
			link = &e.errorStack
		case *RunError:
			link = &e.errorStack
		case *errorStack:
			link = e
		}
		if link == nil {
			sb.WriteString(err.Error())
			break
		}
		if link.Src != "" {
			fmt.Fprintf(&sb, "`%v` ", link.Src)
		}
		if link.leaf() {
			sb.WriteString(link.Msg)
		} else {
			sb.WriteString(link.Note)
		}
		err = link.From
	}
	fmt.Fprint(f, sb.String())
}

// BuildError is a build-time error stack node.
type BuildError struct{ errorStack }

// RunError is a run-time error stack node.
type RunError struct{ errorStack }

func (be *BuildError) Format(f fmt.State, c rune) { be.format(f, c, "build") }
func (re *RunError) Format(f fmt.State, c rune)   { re.format(f, c, "run") }

func buildTop(kind ErrorKind, src Symbol, mess string, args ...interface{}) *BuildError {
	return &BuildError{errorStack{Kind: kind, Src: string(src), Msg: fmt.Sprintf(mess, args...)}}
}

func buildStream(src Symbol, from error, note string, args ...interface{}) *BuildError {
	be := &BuildError{errorStack{Src: string(src), From: from, Note: fmt.Sprintf(note, args...)}}
	be.Kind = kindOf(from)
	return be
}

func runTop(kind ErrorKind, src Symbol, mess string, args ...interface{}) *RunError {
	return &RunError{errorStack{Kind: kind, Src: string(src), Msg: fmt.Sprintf(mess, args...)}}
}

func runStream(kind ErrorKind, src Symbol, from error, note string, args ...interface{}) *RunError {
	if kind == 0 {
		kind = kindOf(from)
	}
	return &RunError{errorStack{Kind: kind, Src: string(src), From: from, Note: fmt.Sprintf(note, args...)}}
}

func kindOf(err error) ErrorKind {
	var be *BuildError
	if errors.As(err, &be) {
		return be.Kind
	}
	var re *RunError
	if errors.As(err, &re) {
		return re.Kind
	}
	return 0
}

// BuildErrors collects every per-form build error of a program.
type BuildErrors []*BuildError

func (errs BuildErrors) Error() string {
	switch len(errs) {
	case 0:
		return "no build errors"
	case 1:
		return errs[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d build errors:", len(errs))
	for _, err := range errs {
		sb.WriteString("\n\t")
		sb.WriteString(err.Error())
	}
	return sb.String()
}

// Is reports whether any collected error matches target.
func (errs BuildErrors) Is(target error) bool {
	for _, err := range errs {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func undefinedSymbol(sym Symbol) *RunError {
	return runTop(UndefinedSymbol, sym, "use of undefined symbol `%v`", sym)
}

func undefinedMutableSymbol(sym Symbol) *RunError {
	return runTop(UndefinedMutableSymbol, sym,
		"use of undefined mutable symbol `%v`. Mutable symbols are only accessible in the scope they were created", sym)
}

func immutableMutation(sym Symbol) *RunError {
	return runTop(ImmutableMutation, sym,
		"attempt to mutate immutable symbol `%v`. If you need mutation, try creating `%v%c`", sym, sym, MutableMarker)
}
