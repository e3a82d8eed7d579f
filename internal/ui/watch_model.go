package ui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// maxWatchEvents is how many recent conversions the watch view keeps
const maxWatchEvents = 8

// WatchModel is the Bubbletea model for watch mode
type WatchModel struct {
	Reports []string
	Events  []WatchEventMsg

	StartTime time.Time

	spinnerIndex int

	Width  int
	Height int
}

// NewWatchModel creates a watch view for the given reports
func NewWatchModel(reports []string) WatchModel {
	return WatchModel{
		Reports:   reports,
		StartTime: time.Now(),
	}
}

// Init initializes the model
func (m WatchModel) Init() tea.Cmd {
	return tickCmd()
}

// Update handles messages and updates the model
func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case tickMsg:
		m.spinnerIndex = (m.spinnerIndex + 1) % len(spinnerFrames)
		return m, tickCmd()

	case WatchEventMsg:
		m.Events = append(m.Events, msg)
		if len(m.Events) > maxWatchEvents {
			m.Events = m.Events[len(m.Events)-maxWatchEvents:]
		}
		return m, nil
	}

	return m, nil
}

// View renders the UI
func (m WatchModel) View() string {
	var b strings.Builder

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#1E6FD9")).
		Render("msoconvert")
	subtitle := mutedText.Italic(true).Render("Watch Mode")

	b.WriteString(title + " " + subtitle)
	b.WriteString("\n\n")

	spinner := lipgloss.NewStyle().Foreground(lipgloss.Color("#1E6FD9")).Render(spinnerFrames[m.spinnerIndex])
	b.WriteString(fmt.Sprintf("%s Watching %d report(s) [%s]\n", spinner, len(m.Reports), formatElapsed(time.Since(m.StartTime))))
	for _, r := range m.Reports {
		b.WriteString("   " + mutedText.Render(filepath.Base(r)) + "\n")
	}
	b.WriteString("\n")

	if len(m.Events) == 0 {
		b.WriteString("Waiting for changes... (q to quit)\n")
		return b.String()
	}

	for _, ev := range m.Events {
		b.WriteString(renderWatchEvent(ev))
		b.WriteString("\n")
	}
	return b.String()
}

func renderWatchEvent(ev WatchEventMsg) string {
	stamp := ev.At.Format("15:04:05")
	name := filepath.Base(ev.FileName)
	if ev.Error != nil {
		return fmt.Sprintf(" %s %s %s\n   Error: %v", errIcon, stamp, name, ev.Error)
	}
	return fmt.Sprintf(" %s %s %s\n   %s", okIcon, stamp, name, summaryLine(ev.Summary))
}

// formatElapsed formats elapsed time as MM:SS or HH:MM:SS
func formatElapsed(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
