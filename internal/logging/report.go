// Package logging writes conversion logs and settings reports for converted
// filter reports.

package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/linuxmatters/msoconvert/internal/converter"
)

// writeSection writes a section header with title and dashed underline.
// The underline length matches the title length.
func writeSection(w io.Writer, title string) {
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, strings.Repeat("-", len(title)))
}

// LogData contains everything needed to write a conversion log
type LogData struct {
	InputPath string
	OutputDir string
	StartTime time.Time
	EndTime   time.Time
	Options   converter.Options
	Result    *converter.Result
	Written   []string // Paths of the filter files written
}

// ConversionLogPath returns where the log for a report is written:
// report.txt → <output dir>/report-conversion.log
func ConversionLogPath(inputPath, outputDir string) string {
	base := filepath.Base(inputPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(outputDir, base+"-conversion.log")
}

// WriteConversionLog saves the conversion log next to the generated files
// and returns its path.
func WriteConversionLog(data LogData) (string, error) {
	if err := os.MkdirAll(data.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create log directory: %w", err)
	}

	logPath := ConversionLogPath(data.InputPath, data.OutputDir)
	f, err := os.Create(logPath)
	if err != nil {
		return "", fmt.Errorf("failed to create log file: %w", err)
	}
	defer f.Close()

	writeConversionLog(f, data)
	return logPath, nil
}

func writeConversionLog(w io.Writer, data LogData) {
	writeLogHeader(w, data)
	writeOptions(w, data.Options)

	writeSection(w, "Conversion")
	if data.Result != nil {
		for _, line := range data.Result.Log {
			fmt.Fprintln(w, line)
		}
	}
	fmt.Fprintln(w, "")

	writeSection(w, "Output Files")
	if len(data.Written) == 0 {
		fmt.Fprintln(w, "(none)")
	}
	for _, p := range data.Written {
		fmt.Fprintln(w, p)
	}
}

// writeLogHeader outputs the log header with file info and timestamp.
func writeLogHeader(w io.Writer, data LogData) {
	fmt.Fprintln(w, "msoconvert Conversion Log")
	fmt.Fprintln(w, "=========================")
	fmt.Fprintf(w, "File: %s\n", filepath.Base(data.InputPath))
	fmt.Fprintf(w, "Converted: %s\n", data.EndTime.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(w, "Duration: %s\n", formatDuration(data.EndTime.Sub(data.StartTime)))
	fmt.Fprintln(w, "")
}

func writeOptions(w io.Writer, opts converter.Options) {
	writeSection(w, "Options")

	mode := "RBJ"
	if strings.EqualFold(string(opts.QMode), string(converter.QModeClassic)) {
		mode = "Classic"
	}
	shared := "separate file"
	if opts.CombineShared {
		shared = "combined into channel files"
	}
	equaliser := opts.Equaliser
	if equaliser == "" {
		equaliser = converter.DefaultEqualiser
	}

	fmt.Fprintf(w, "Q mode:          %s\n", mode)
	fmt.Fprintf(w, "Included types:  %s\n", strings.Join(opts.IncludedTypes, ", "))
	fmt.Fprintf(w, "Shared filters:  %s\n", shared)
	fmt.Fprintf(w, "Equaliser:       %s\n", equaliser)
	fmt.Fprintln(w, "")
}

// formatDuration formats short durations in ms and longer ones in seconds
func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}
