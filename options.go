package vaca

import (
	"bytes"
	"io"

	"github.com/jcorbin/govaca/internal/flushio"
	"github.com/jcorbin/govaca/internal/logio"
)

// EngineOption configures an Engine built by New.
type EngineOption interface{ apply(e *Engine) }

var defaultOptions = EngineOptions(
	WithInput(bytes.NewReader(nil)),
	WithOutput(io.Discard),
	WithLoader(&PluginLoader{}),
)

// EngineOptions combines options into one, applied in order.
func EngineOptions(opts ...EngineOption) EngineOption {
	var res engineOptions
	for _, opt := range opts {
		switch impl := opt.(type) {
		case nil:
		case engineOptions:
			res = append(res, impl...)
		default:
			res = append(res, impl)
		}
	}
	if len(res) == 1 {
		return res[0]
	}
	return res
}

type engineOptions []EngineOption

func (opts engineOptions) apply(e *Engine) {
	for _, opt := range opts {
		opt.apply(e)
	}
}

type inputOption struct{ io.Reader }
type outputOption struct{ io.Writer }
type teeOption struct{ io.Writer }
type logfnOption func(mess string, args ...interface{})
type loggerOption struct{ *logio.Logger }
type loaderOption struct{ Loader }
type nativeOption nativeBinding
type preludeOption bool

// WithInput appends r to the queue of streams that readln consumes.
func WithInput(r io.Reader) EngineOption { return inputOption{r} }

// WithOutput replaces the stream that print and println write to.
func WithOutput(w io.Writer) EngineOption { return outputOption{w} }

// WithTee copies output to w as well.
func WithTee(w io.Writer) EngineOption { return teeOption{w} }

// WithLogf traces calls, assignments, and build errors through logfn.
func WithLogf(logfn func(mess string, args ...interface{})) EngineOption {
	return logfnOption(logfn)
}

// WithLogger traces at TRACE level through log, and reports build errors
// through its Errorf.
func WithLogger(log *logio.Logger) EngineOption { return loggerOption{log} }

// WithLoader sets how external bindings are resolved.
func WithLoader(l Loader) EngineOption { return loaderOption{l} }

// WithNative binds sym in the root table to a native function or macro.
func WithNative(sym Symbol, v Value, isAction bool) EngineOption {
	return nativeOption{sym, v, isAction}
}

// WithoutPrelude leaves the standard native bindings out of the root table.
func WithoutPrelude() EngineOption { return preludeOption(false) }

func (i inputOption) apply(e *Engine) {
	e.in.Queue = append(e.in.Queue, i.Reader)
}

func (o outputOption) apply(e *Engine) {
	if e.out != nil {
		if err := e.out.Flush(); err != nil && e.outErr == nil {
			e.outErr = err
		}
	}
	e.out = flushio.Locked(flushio.NewWriteFlusher(o.Writer))
}

func (o teeOption) apply(e *Engine) {
	e.out = flushio.Locked(flushio.Tee(e.out, flushio.NewWriteFlusher(o.Writer)))
}

func (logfn logfnOption) apply(e *Engine) { e.logfn = logfn }

func (o loggerOption) apply(e *Engine) {
	e.logfn = o.Leveledf("TRACE")
	e.errorf = o.Errorf
}

func (o loaderOption) apply(e *Engine) { e.loader = o.Loader }

func (o nativeOption) apply(e *Engine) { e.natives = append(e.natives, nativeBinding(o)) }

func (o preludeOption) apply(e *Engine) { e.prelude = bool(o) }
