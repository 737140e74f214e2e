package logio

import (
	"bytes"
	"sync"
)

// Writer adapts a Logf function, like testing.T.Logf, into an io.Writer.
// Each newline-terminated line is logged with Prefix; a trailing carriage
// return is dropped. Partial lines wait for Flush or Close.
type Writer struct {
	Logf   func(string, ...interface{})
	Prefix string

	mu      sync.Mutex
	pending []byte
}

// Write is safe to call from multiple goroutines.
func (lw *Writer) Write(p []byte) (int, error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	lw.pending = append(lw.pending, p...)
	for {
		i := bytes.IndexByte(lw.pending, '\n')
		if i < 0 {
			break
		}
		lw.emit(lw.pending[:i])
		lw.pending = lw.pending[i+1:]
	}
	if len(lw.pending) == 0 {
		lw.pending = nil
	}
	return len(p), nil
}

// Flush logs any partial line.
func (lw *Writer) Flush() error {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	if len(lw.pending) > 0 {
		lw.emit(lw.pending)
		lw.pending = nil
	}
	return nil
}

// Close calls Flush.
func (lw *Writer) Close() error { return lw.Flush() }

func (lw *Writer) emit(line []byte) {
	line = bytes.TrimSuffix(line, []byte{'\r'})
	lw.Logf("%s%s", lw.Prefix, line)
}
