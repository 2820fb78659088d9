// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-scope/internal/engine"
	"github.com/litescript/ls-scope/internal/version"
)

// Styles for the scope chrome
var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Background(lipgloss.Color("235")).
			Padding(0, 1)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// FrameMsg carries a rendered frame from the scope engine.
type FrameMsg engine.Frame

// Model is the root Bubble Tea model. It owns no scope state of its
// own: the engine pushes complete frames and the model displays the
// latest one.
type Model struct {
	width  int
	height int
	ready  bool

	frame    engine.Frame
	haveData bool
}

// New creates the root UI model.
func New() Model {
	return Model{}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case FrameMsg:
		m.frame = engine.Frame(msg)
		m.haveData = true
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing scope..."
	}

	var b strings.Builder
	b.WriteString(m.headerLine())
	b.WriteString("\n")

	if !m.haveData {
		b.WriteString(statusStyle.Render("Waiting for first sweep..."))
		b.WriteString("\n")
	} else {
		b.WriteString(m.frame.Text)
	}

	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(footerStyle.Render("q: quit"))
	return b.String()
}

func (m Model) headerLine() string {
	s := m.frame.Stats
	station := s.Station
	if station == "" {
		station = "scope"
	}
	return headerStyle.Render(fmt.Sprintf("ls-scope v%s  %s", version.Version, station))
}

// statusLine summarizes the latest frame: traffic counts, sweep
// bearing and the age of the last position fetch.
func (m Model) statusLine() string {
	if !m.haveData {
		return statusStyle.Render("no data")
	}

	s := m.frame.Stats
	parts := []string{
		fmt.Sprintf("traffic %d/%d", s.AircraftShown, s.AircraftTotal),
		fmt.Sprintf("sweep %05.1f°", s.BearingDeg),
		fmt.Sprintf("rotations %d", s.Rotations),
	}
	if !s.LastFetch.IsZero() {
		parts = append(parts, fmt.Sprintf("data %s old", fetchAge(s.LastFetch)))
	}

	line := statusStyle.Render(strings.Join(parts, "  |  "))
	if s.LastFetchErr != nil {
		line += "  " + errorStyle.Render("fetch: "+s.LastFetchErr.Error())
	}
	return line
}

func fetchAge(t time.Time) string {
	age := time.Since(t)
	if age < time.Second {
		return "<1s"
	}
	return age.Truncate(time.Second).String()
}
