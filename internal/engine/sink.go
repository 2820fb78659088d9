package engine

import "io"

// WriterSink writes frames straight to an io.Writer, for running the
// scope without the TUI. When ansi is set each frame is preceded by a
// clear-and-home sequence so the scope repaints in place.
type WriterSink struct {
	w    io.Writer
	ansi bool
}

// NewWriterSink builds a sink around w.
func NewWriterSink(w io.Writer, ansi bool) *WriterSink {
	return &WriterSink{w: w, ansi: ansi}
}

func (s *WriterSink) Clear() {
	if s.ansi {
		_, _ = io.WriteString(s.w, "\033[2J\033[H")
	}
}

func (s *WriterSink) Frame(f Frame) {
	_, _ = io.WriteString(s.w, f.Text)
}
