package runeio

import "io"

// WriteANSIRune writes r to w in the form a classic terminal expects: ASCII
// as single bytes, NEL as "\r\n", the other C1 controls in their 7-bit
// ESC-prefixed form, and everything else as UTF-8.
func WriteANSIRune(w io.Writer, r rune) (int, error) {
	switch {
	case r < 0x80:
		if bw, ok := w.(io.ByteWriter); ok {
			return 1, bw.WriteByte(byte(r))
		}
		return w.Write([]byte{byte(r)})
	case r == 0x85:
		return w.Write([]byte{'\r', '\n'})
	case r <= 0x9f:
		return w.Write([]byte{0x1b, byte(r ^ 0xc0)})
	}
	if sw, ok := w.(io.StringWriter); ok {
		return sw.WriteString(string(r))
	}
	return w.Write([]byte(string(r)))
}

// WriteANSI writes each part, rune by rune, with WriteANSIRune. The print
// natives use it for a value's display followed by an optional line ending.
func WriteANSI(w io.Writer, parts ...string) (n int, err error) {
	for _, part := range parts {
		for _, r := range part {
			m, err := WriteANSIRune(w, r)
			n += m
			if err != nil {
				return n, err
			}
		}
	}
	return n, nil
}
