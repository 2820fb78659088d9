package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/litescript/ls-scope/internal/engine"
)

// ProgramSink forwards engine frames to a running Bubble Tea program.
// Sends are safe from the engine goroutine.
type ProgramSink struct {
	program *tea.Program
}

// NewProgramSink wraps p as a frame sink.
func NewProgramSink(p *tea.Program) *ProgramSink {
	return &ProgramSink{program: p}
}

// Clear is a no-op: the alt screen repaints on every View.
func (s *ProgramSink) Clear() {}

// Frame delivers a rendered frame to the UI.
func (s *ProgramSink) Frame(f engine.Frame) {
	s.program.Send(FrameMsg(f))
}
