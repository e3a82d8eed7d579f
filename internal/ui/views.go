package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	okIcon    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00AA00")).Render("✓")
	errIcon   = lipgloss.NewStyle().Foreground(lipgloss.Color("#A40000")).Render("✗")
	queueIcon = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).Render("○")
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500"))
	mutedText = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
)

// renderProcessingView renders the main conversion view
func renderProcessingView(m Model) string {
	var b strings.Builder

	b.WriteString(renderHeader(m))
	b.WriteString("\n\n")

	for _, file := range m.Files {
		b.WriteString(renderFileEntry(file, spinnerFrames[m.spinnerIndex]))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(renderOverallProgress(m))

	return b.String()
}

// renderHeader renders the application header
func renderHeader(m Model) string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#1E6FD9")).
		Render("msoconvert 🔊 - Multi-sub filter converter")

	subtitle := mutedText.
		Italic(true).
		Render(fmt.Sprintf("Converting %d report(s)", m.TotalFiles))

	return title + "\n" + subtitle
}

// renderFileEntry renders a single report in the queue
func renderFileEntry(file FileProgress, spinner string) string {
	fileName := filepath.Base(file.InputPath)

	switch file.Status {
	case StatusComplete:
		return fmt.Sprintf(" %s %s → %s\n   %s", okIcon, fileName, file.Summary.OutputDir, summaryLine(file.Summary))

	case StatusConverting:
		icon := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500")).Render(spinner)
		return fmt.Sprintf(" %s %s\n   Converting... %.1fs", icon, fileName, file.ElapsedTime.Seconds())

	case StatusError:
		return fmt.Sprintf(" %s %s\n   Error: %v", errIcon, fileName, file.Error)

	default:
		return fmt.Sprintf(" %s %s\n   Queued...", queueIcon, fileName)
	}
}

// summaryLine is the one-line outcome of a conversion
func summaryLine(s Summary) string {
	inv := "no inversions"
	if len(s.Inversions) > 0 {
		inv = "inverted: " + strings.Join(s.Inversions, ", ")
	}
	return fmt.Sprintf("Processed: %d | Exported: %d | Files: %d | Gains: %d | Delays: %d | %s",
		s.Processed, s.Exported, len(s.Files), s.Gains, s.Delays, inv)
}

// renderOverallProgress renders the overall progress footer
func renderOverallProgress(m Model) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#888888")).
		Padding(0, 1).
		Width(60)

	done := m.CompletedFiles + m.FailedFiles
	content := fmt.Sprintf("Overall Progress: %d/%d converted", done, m.TotalFiles)
	if m.FailedFiles > 0 {
		content += fmt.Sprintf(" (%d failed)", m.FailedFiles)
	}

	return box.Render(content)
}

// RenderSummary renders the final summary for all reports. It is also used
// directly when the TUI is disabled.
func RenderSummary(files []FileProgress) string {
	var b strings.Builder

	failed := 0
	for _, f := range files {
		if f.Status == StatusError {
			failed++
		}
	}

	headerColor := lipgloss.Color("#00AA00")
	headerText := "✨ Conversion Complete!"
	if failed > 0 {
		headerColor = lipgloss.Color("#A40000")
		headerText = fmt.Sprintf("Conversion finished with %d failure(s)", failed)
	}
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(headerColor).Render(headerText))
	b.WriteString("\n\n")

	for _, file := range files {
		b.WriteString(renderCompletedFile(file))
		b.WriteString("\n")
	}

	return b.String()
}

// renderCompletedFile renders a summary for a finished report
func renderCompletedFile(file FileProgress) string {
	fileName := filepath.Base(file.InputPath)

	switch file.Status {
	case StatusComplete:
	case StatusError:
		return fmt.Sprintf(" %s %s\n   Error: %v", errIcon, fileName, file.Error)
	default:
		return fmt.Sprintf(" %s %s\n   Not converted", queueIcon, fileName)
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf(" %s %s → %s\n", okIcon, fileName, file.Summary.OutputDir))
	b.WriteString("   " + summaryLine(file.Summary) + "\n")
	for _, w := range file.Summary.Warnings {
		b.WriteString("   " + warnStyle.Render(w) + "\n")
	}
	for _, p := range file.Summary.Files {
		b.WriteString("   " + mutedText.Render(filepath.Base(p)) + "\n")
	}
	if file.Summary.ConversionLog != "" {
		b.WriteString("   " + mutedText.Render("log: "+file.Summary.ConversionLog) + "\n")
	}
	if file.Summary.SettingsReport != "" {
		b.WriteString("   " + mutedText.Render("settings: "+file.Summary.SettingsReport) + "\n")
	}

	return strings.TrimRight(b.String(), "\n")
}
