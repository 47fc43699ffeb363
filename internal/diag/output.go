package diag

import (
	"bytes"
	"fmt"
	"io"
)

/*
Output is the ordinary output channel of one execution context.

Capture redirects it into a buffer for the extent of a function. Captures
nest; the innermost one receives the writes. The diagnostic Sink is a
separate channel and is never captured here.
*/
type Output struct {
	w        io.Writer
	captures []*bytes.Buffer
}

func NewOutput(w io.Writer) *Output {
	if w == nil {
		w = io.Discard
	}
	return &Output{w: w}
}

func (o *Output) Write(p []byte) (int, error) {
	if n := len(o.captures); n > 0 {
		return o.captures[n-1].Write(p)
	}
	return o.w.Write(p)
}

func (o *Output) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(o, format, args...)
}

func (o *Output) Println(args ...any) {
	_, _ = fmt.Fprintln(o, args...)
}

// Capture runs fn and returns what it wrote to o. The capture is
// removed even when fn unwinds.
func Capture(o *Output, fn func()) string {
	buf := &bytes.Buffer{}
	o.captures = append(o.captures, buf)
	defer func() {
		o.captures[len(o.captures)-1] = nil
		o.captures = o.captures[:len(o.captures)-1]
	}()
	fn()
	return buf.String()
}
