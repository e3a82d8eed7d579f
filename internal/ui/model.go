// Package ui provides the Bubbletea terminal user interface for msoconvert
package ui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Spinner frames for in-flight conversions
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// FileStatus represents the conversion state of a single report
type FileStatus int

const (
	StatusQueued FileStatus = iota
	StatusConverting
	StatusComplete
	StatusError
)

// FileProgress tracks one report
type FileProgress struct {
	InputPath string
	Status    FileStatus

	StartTime   time.Time
	ElapsedTime time.Duration

	Summary Summary

	Error error
}

// Model is the Bubbletea model for the conversion UI
type Model struct {
	Files          []FileProgress
	TotalFiles     int
	CompletedFiles int
	FailedFiles    int

	StartTime time.Time
	Done      bool

	spinnerIndex int

	// Terminal dimensions
	Width  int
	Height int
}

// tickMsg is sent for spinner animation
type tickMsg time.Time

// NewModel creates a new UI model with the given report files
func NewModel(inputFiles []string) Model {
	files := make([]FileProgress, len(inputFiles))
	for i, path := range inputFiles {
		files[i] = FileProgress{
			InputPath: path,
			Status:    StatusQueued,
		}
	}

	return Model{
		Files:      files,
		TotalFiles: len(inputFiles),
		StartTime:  time.Now(),
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// tickCmd returns a command that sends a tick message every 100ms
func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
		if m.Done {
			return m, nil
		}
		m.spinnerIndex = (m.spinnerIndex + 1) % len(spinnerFrames)
		for i := range m.Files {
			if m.Files[i].Status == StatusConverting {
				m.Files[i].ElapsedTime = time.Since(m.Files[i].StartTime)
			}
		}
		return m, tickCmd()

	case FileStartMsg:
		if !m.valid(msg.FileIndex) {
			return m, nil
		}
		m.Files[msg.FileIndex].Status = StatusConverting
		m.Files[msg.FileIndex].StartTime = time.Now()
		return m, nil

	case FileCompleteMsg:
		if !m.valid(msg.FileIndex) {
			return m, nil
		}
		m.Files[msg.FileIndex] = completeFile(m.Files[msg.FileIndex], msg)
		if msg.Error != nil {
			m.FailedFiles++
		} else {
			m.CompletedFiles++
		}
		return m, nil

	case AllCompleteMsg:
		m.Done = true
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) valid(i int) bool {
	return i >= 0 && i < len(m.Files)
}

// completeFile records the outcome of a conversion
func completeFile(fp FileProgress, msg FileCompleteMsg) FileProgress {
	fp.Summary = msg.Summary
	fp.Error = msg.Error
	if !fp.StartTime.IsZero() {
		fp.ElapsedTime = time.Since(fp.StartTime)
	}

	if msg.Error != nil {
		fp.Status = StatusError
	} else {
		fp.Status = StatusComplete
	}
	return fp
}

// View renders the UI
func (m Model) View() string {
	if m.Done {
		return RenderSummary(m.Files)
	}
	if m.Width == 0 {
		return fmt.Sprintf("Initializing...\nReports: %d\n", len(m.Files))
	}
	return renderProcessingView(m)
}
