// Package fileinput provides line-tracking rune input over a queue of
// readers, backing the readln native.
package fileinput

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/jcorbin/govaca/internal/runeio"
)

// Location names a line in an Input stream.
type Location struct {
	Name string
	Line int
}

// Line combines a Location along with a bytes.Buffer for handling it.
type Line struct {
	Location
	bytes.Buffer
}

func (loc Location) String() string { return fmt.Sprintf("%v:%v", loc.Name, loc.Line) }
func (il Line) String() string      { return fmt.Sprintf("%v %q", il.Location, il.Buffer.String()) }

// Input implements sequential rune reading through a Queue of one or more
// input streams. Both the current and last scanned lines are tracked to
// facilitate user feedback.
type Input struct {
	src   io.Reader
	rr    io.RuneReader
	Queue []io.Reader
	Last  Line
	Scan  Line
}

// ReadRune reads one rune from the current input stream, appending it into the
// current Scan line, and rolling Scan over to Last after line feed. A partial
// last line of each queued stream reads as if it ended with a line feed.
func (in *Input) ReadRune() (rune, int, error) {
	for {
		if in.rr == nil && !in.nextIn() {
			return 0, 0, io.EOF
		}
		r, n, err := in.rr.ReadRune()
		if err == io.EOF && n == 0 {
			// terminate any partial final line, so lines never span streams
			partial := in.Scan.Len() > 0
			in.close()
			if partial {
				return '\n', 0, nil
			}
			continue
		}
		if err != nil {
			return 0, n, err
		}
		if r == '\n' {
			in.nextLine()
		} else {
			in.Scan.WriteRune(r)
		}
		return r, n, nil
	}
}

// ReadLine reads runes up to the next line feed, returning the line without
// it. A final unterminated line is returned with a nil error; io.EOF is only
// returned when no runes remain at all.
func (in *Input) ReadLine() (string, error) {
	var sb strings.Builder
	read := false
	for {
		r, _, err := in.ReadRune()
		if err == io.EOF && read {
			return sb.String(), nil
		} else if err != nil {
			return sb.String(), err
		}
		read = true
		if r == '\n' {
			return strings.TrimSuffix(sb.String(), "\r"), nil
		}
		sb.WriteRune(r)
	}
}

// Close closes the stream being read and every queued stream that
// implements io.Closer, returning the first error.
func (in *Input) Close() (err error) {
	closeOne := func(r io.Reader) {
		if cl, ok := r.(io.Closer); ok {
			if cerr := cl.Close(); err == nil {
				err = cerr
			}
		}
	}
	closeOne(in.src)
	in.src, in.rr = nil, nil
	for _, r := range in.Queue {
		closeOne(r)
	}
	in.Queue = nil
	return err
}

func (in *Input) nextLine() {
	in.Last.Reset()
	in.Last.Name = in.Scan.Name
	in.Last.Line = in.Scan.Line
	in.Last.Write(in.Scan.Bytes())
	in.Scan.Reset()
	in.Scan.Line++
}

func (in *Input) close() {
	if in.Scan.Len() > 0 {
		in.nextLine()
	}
	if cl, ok := in.src.(io.Closer); ok {
		cl.Close()
	}
	in.src, in.rr = nil, nil
}

func (in *Input) nextIn() bool {
	if len(in.Queue) == 0 {
		return false
	}
	r := in.Queue[0]
	in.Queue = in.Queue[1:]
	in.src, in.rr = r, runeio.NewReader(r)
	in.Scan.Name = nameOf(r)
	in.Scan.Line = 1
	return true
}

func nameOf(obj interface{}) string {
	if nom, ok := obj.(interface{ Name() string }); ok {
		return nom.Name()
	}
	return fmt.Sprintf("<unnamed %T>", obj)
}
