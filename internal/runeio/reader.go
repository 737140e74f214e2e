package runeio

import (
	"bufio"
	"io"
)

// NewReader returns r if it already reads runes, otherwise r wrapped in a
// bufio.Reader. Names are not carried over; callers that track a stream
// name ask the original reader.
func NewReader(r io.Reader) io.RuneReader {
	if rr, ok := r.(io.RuneReader); ok {
		return rr
	}
	return bufio.NewReader(r)
}
