// Package flushio provides the flush-able writers behind engine output.
package flushio

import (
	"bufio"
	"io"
	"sync"
)

// WriteFlusher is a flush-able io.Writer.
type WriteFlusher interface {
	io.Writer
	Flush() error
}

// NewWriteFlusher adapts w for engine output. WriteFlushers pass through;
// io.Discard and in-memory buffers get a no-op Flush; anything else is
// buffered with bufio.
func NewWriteFlusher(w io.Writer) WriteFlusher {
	switch impl := w.(type) {
	case WriteFlusher:
		return impl
	case interface {
		io.Writer
		Len() int
		Reset()
	}:
		return unbuffered{w}
	}
	if w == io.Discard {
		return unbuffered{w}
	}
	return bufio.NewWriter(w)
}

type unbuffered struct{ io.Writer }

func (unbuffered) Flush() error { return nil }

// Tee returns a WriteFlusher that copies every write to each of wfs.
// Nested tees are flattened and nil entries skipped. A failing sink does not
// stop the others; the first error is returned.
func Tee(wfs ...WriteFlusher) WriteFlusher {
	var all tee
	for _, wf := range wfs {
		if nested, ok := wf.(tee); ok {
			all = append(all, nested...)
		} else if wf != nil {
			all = append(all, wf)
		}
	}
	switch len(all) {
	case 0:
		return nil
	case 1:
		return all[0]
	}
	return all
}

type tee []WriteFlusher

func (t tee) Write(p []byte) (int, error) {
	var first error
	for _, wf := range t {
		n, err := wf.Write(p)
		if err == nil && n < len(p) {
			err = io.ErrShortWrite
		}
		if first == nil {
			first = err
		}
	}
	if first != nil {
		return 0, first
	}
	return len(p), nil
}

func (t tee) Flush() error {
	var first error
	for _, wf := range t {
		if err := wf.Flush(); first == nil {
			first = err
		}
	}
	return first
}

// Locked guards wf with a mutex so that forked engines may share it.
// Already locked writers are returned as is.
func Locked(wf WriteFlusher) WriteFlusher {
	if wf == nil {
		return nil
	}
	if _, ok := wf.(*locked); ok {
		return wf
	}
	return &locked{wf: wf}
}

type locked struct {
	sync.Mutex
	wf WriteFlusher
}

func (l *locked) Write(p []byte) (int, error) {
	l.Lock()
	defer l.Unlock()
	return l.wf.Write(p)
}

func (l *locked) Flush() error {
	l.Lock()
	defer l.Unlock()
	return l.wf.Flush()
}
