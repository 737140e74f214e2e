package flushio_test

import (
	"bytes"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/jcorbin/govaca/internal/flushio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failWriter struct{}

func (failWriter) Write(p []byte) (int, error) { return 0, io.ErrClosedPipe }
func (failWriter) Flush() error                { return nil }

func Test_Tee(t *testing.T) {
	var a, b strings.Builder
	var c bytes.Buffer
	wf := flushio.Tee(
		flushio.NewWriteFlusher(&a),
		flushio.Tee(flushio.NewWriteFlusher(&b), flushio.NewWriteFlusher(&c)),
		nil,
	)
	_, err := io.WriteString(wf, "hello")
	require.NoError(t, err)
	require.NoError(t, wf.Flush())
	assert.Equal(t, "hello", a.String())
	assert.Equal(t, "hello", b.String())
	assert.Equal(t, "hello", c.String())

	t.Run("failing sink", func(t *testing.T) {
		var d strings.Builder
		wf := flushio.Tee(failWriter{}, flushio.NewWriteFlusher(&d))
		_, err := io.WriteString(wf, "still")
		assert.ErrorIs(t, err, io.ErrClosedPipe)
		assert.Equal(t, "still", d.String())
	})

	assert.Nil(t, flushio.Tee())
}

func Test_Locked(t *testing.T) {
	var buf bytes.Buffer
	wf := flushio.Locked(flushio.NewWriteFlusher(&buf))
	assert.Equal(t, wf, flushio.Locked(wf), "expected no double wrapping")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			io.WriteString(wf, "x")
		}()
	}
	wg.Wait()
	require.NoError(t, wf.Flush())
	assert.Equal(t, "xxxxxxxx", buf.String())
}
