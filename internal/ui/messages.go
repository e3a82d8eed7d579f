package ui

import "time"

// FileStartMsg indicates a report has started converting
type FileStartMsg struct {
	FileIndex int
	FileName  string
}

// FileCompleteMsg indicates a report has finished converting
type FileCompleteMsg struct {
	FileIndex int
	Summary   Summary
	Error     error
}

// AllCompleteMsg indicates all reports have been converted
type AllCompleteMsg struct{}

// WatchEventMsg reports a re-conversion triggered in watch mode
type WatchEventMsg struct {
	FileName string
	Summary  Summary
	Error    error
	At       time.Time
}

// Summary is what the UI shows about one finished conversion
type Summary struct {
	OutputDir      string
	Files          []string // Written file paths
	Processed      int
	Exported       int
	Gains          int
	Delays         int
	Inversions     []string
	Warnings       []string // Warning lines from the conversion log
	ConversionLog  string   // Path of the conversion log, if written
	SettingsReport string   // Path of the settings report, if written
}
