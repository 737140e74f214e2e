package vaca

import (
	"fmt"
	"plugin"
	"strconv"
	"sync"
)

// Loader resolves a symbol of a dynamic library into a native
// implementation.
type Loader interface {
	Load(lib, sym string) (NativeFunc, error)
}

// PluginLoader resolves externals from Go plugins. A library name is the
// path of a plugin built with -buildmode=plugin; the named symbol must be a
// NativeFunc, or a func with NativeFunc's signature.
type PluginLoader struct {
	mu      sync.Mutex
	plugins map[string]*plugin.Plugin
}

// Load opens lib, once, and looks up sym in it.
func (pl *PluginLoader) Load(lib, sym string) (NativeFunc, error) {
	pl.mu.Lock()
	defer pl.mu.Unlock()
	p, ok := pl.plugins[lib]
	if !ok {
		var err error
		if p, err = plugin.Open(lib); err != nil {
			return nil, err
		}
		if pl.plugins == nil {
			pl.plugins = make(map[string]*plugin.Plugin)
		}
		pl.plugins[lib] = p
	}
	found, err := p.Lookup(sym)
	if err != nil {
		return nil, err
	}
	switch fn := found.(type) {
	case func(*CallContext) (Value, error):
		return fn, nil
	case *NativeFunc:
		return *fn, nil
	case *func(*CallContext) (Value, error):
		return *fn, nil
	}
	return nil, fmt.Errorf("symbol %v in %v is a %T, not a native function", sym, lib, found)
}

// MapLoader resolves externals from in-process libraries, keyed by library
// name and then by symbol.
type MapLoader map[string]map[string]NativeFunc

// Load looks up lib and sym.
func (ml MapLoader) Load(lib, sym string) (NativeFunc, error) {
	syms, ok := ml[lib]
	if !ok {
		return nil, fmt.Errorf("no library named %q", lib)
	}
	fn, ok := syms[sym]
	if !ok || fn == nil {
		return nil, fmt.Errorf("no symbol %q in library %q", sym, lib)
	}
	return fn, nil
}

// externalCache holds resolved externals, shared by forked engines.
type externalCache struct {
	mu       sync.Mutex
	resolved map[externalKey]Value
}

type externalKey struct {
	lib, sym string
	mode     ExternalKind
	arity    int
}

// resolve turns x into a native function or macro, loading it on first use.
// Failure to load is a run error, never a build error.
func (e *Engine) resolve(x *External) (Value, error) {
	key := externalKey{x.Lib, x.Symbol, x.Mode, x.Arity}
	cache := &e.externals
	cache.mu.Lock()
	defer cache.mu.Unlock()
	if v, ok := cache.resolved[key]; ok {
		return v, nil
	}

	if e.loader == nil {
		return nil, runTop(UnresolvedExternal, Symbol(x.Symbol), "no loader to resolve external %v", x)
	}
	fn, err := e.loader.Load(x.Lib, x.Symbol)
	if err != nil {
		return nil, runStream(UnresolvedExternal, Symbol(x.Symbol), err,
			"failed to resolve `%v` from library `%v`", x.Symbol, x.Lib)
	}

	params := make([]Symbol, x.Arity)
	for i := range params {
		params[i] = Symbol("$" + strconv.Itoa(i))
	}
	name := x.Lib + "::" + x.Symbol
	var v Value
	if x.Mode == ExternalMacro {
		v = NewNativeMacro(name, params, fn)
	} else {
		v = NewNative(name, params, fn)
	}
	if cache.resolved == nil {
		cache.resolved = make(map[externalKey]Value)
	}
	cache.resolved[key] = v
	e.logf("#", "resolved external %v", x)
	return v, nil
}
