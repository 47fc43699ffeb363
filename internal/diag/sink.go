package diag

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/rohmanhakim/conditions/internal/condition"
	"golang.org/x/term"
)

/*
Sink is the diagnostic channel: messages, warning reports and error
reports go here, never to the ordinary output.

Sink is write-only. Nothing reads back what was emitted to decide
control flow.
*/
type Sink interface {
	Emit(kind condition.Kind, text string)
}

type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

func ParseColorMode(s string) (ColorMode, error) {
	switch m := ColorMode(strings.ToLower(s)); m {
	case ColorAuto, ColorAlways, ColorNever:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownColorMode, s)
	}
}

// WriterSink writes diagnostics to an io.Writer, one per line,
// colored by severity when enabled.
type WriterSink struct {
	mu      sync.Mutex
	w       io.Writer
	palette map[condition.Kind]*color.Color
}

func NewWriterSink(w io.Writer, mode ColorMode) *WriterSink {
	enabled := UseColor(w, mode)
	palette := map[condition.Kind]*color.Color{
		condition.KindMessage:   color.New(color.FgCyan),
		condition.KindWarning:   color.New(color.FgYellow),
		condition.KindError:     color.New(color.FgRed, color.Bold),
		condition.KindInterrupt: color.New(color.FgMagenta, color.Bold),
	}
	for _, c := range palette {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return &WriterSink{w: w, palette: palette}
}

func (s *WriterSink) Emit(kind condition.Kind, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	line := strings.TrimSuffix(text, "\n")
	if c, ok := s.palette[kind]; ok {
		line = c.Sprint(line)
	}
	// diagnostics are best effort, a failing stderr must not fail the unit
	_, _ = io.WriteString(s.w, line+"\n")
}

// UseColor reports whether text written to w should carry ANSI colors.
func UseColor(w io.Writer, mode ColorMode) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// Entry is one emitted diagnostic.
type Entry struct {
	Kind condition.Kind
	Text string
}

// Buffer is a Sink that keeps what it receives, in order. It is used to
// hold a unit's diagnostics until the unit finishes, and by tests.
type Buffer struct {
	mu      sync.Mutex
	entries []Entry
}

func NewBuffer() *Buffer {
	return &Buffer{}
}

func (b *Buffer) Emit(kind condition.Kind, text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries = append(b.entries, Entry{Kind: kind, Text: strings.TrimSuffix(text, "\n")})
}

func (b *Buffer) Entries() []Entry {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Entry, len(b.entries))
	copy(out, b.entries)
	return out
}

// Count returns how many entries of kind were emitted.
func (b *Buffer) Count(kind condition.Kind) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, e := range b.entries {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// String joins every entry, newline terminated.
func (b *Buffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	var sb strings.Builder
	for _, e := range b.entries {
		sb.WriteString(e.Text)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// ReplayTo emits every buffered entry into dst.
func (b *Buffer) ReplayTo(dst Sink) {
	for _, e := range b.Entries() {
		dst.Emit(e.Kind, e.Text)
	}
}

// Discard drops everything.
type Discard struct{}

func (Discard) Emit(condition.Kind, string) {}
