// Package converter turns a multi-sub optimiser filter report into
// per-channel equaliser filter files.
package converter

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// QMode selects which of the two Q conventions in the report is exported
type QMode string

// Supported Q modes
const (
	QModeRBJ     QMode = "rbj"
	QModeClassic QMode = "classic"
)

// ErrUnknownQMode is returned by ParseQMode for anything other than rbj or classic
var ErrUnknownQMode = errors.New("unknown Q mode")

// Filter type labels understood by the extractor registry
const (
	TypeParametricEQ = "Parametric EQ"
	TypeAllPass      = "All-Pass"
)

// DefaultEqualiser is written to the "Equaliser:" header line when none is configured
const DefaultEqualiser = "Generic"

// ParseQMode parses a Q mode case-insensitively. An empty string selects RBJ.
func ParseQMode(s string) (QMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(QModeRBJ):
		return QModeRBJ, nil
	case string(QModeClassic):
		return QModeClassic, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownQMode, s)
}

// Options controls a single conversion. It is only read during Convert.
type Options struct {
	// QMode picks RBJ or classic Q for the exported filters
	QMode QMode

	// IncludedTypes lists the filter type labels to export.
	// A filter is included when its label contains any of these, ignoring case.
	IncludedTypes []string

	// CombineShared prepends the shared sub filters to every channel file
	// instead of writing a separate shared file
	CombineShared bool

	// Equaliser is the target equaliser name written into each file header
	Equaliser string

	// Dated is the date stamped into each file header; zero means today
	Dated time.Time
}

// DefaultOptions returns RBJ mode with both filter types included and
// shared filters written to their own file.
func DefaultOptions() Options {
	return Options{
		QMode:         QModeRBJ,
		IncludedTypes: []string{TypeParametricEQ, TypeAllPass},
		Equaliser:     DefaultEqualiser,
	}
}

func (o Options) classic() bool {
	return strings.EqualFold(strings.TrimSpace(string(o.QMode)), string(QModeClassic))
}

// includes reports whether a raw type label passes the inclusion test
func (o Options) includes(label string) bool {
	lower := strings.ToLower(label)
	for _, t := range o.IncludedTypes {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" && strings.Contains(lower, t) {
			return true
		}
	}
	return false
}

func (o Options) dateStamp() string {
	d := o.Dated
	if d.IsZero() {
		d = time.Now()
	}
	return d.Format("20060102")
}

func (o Options) modeName() string {
	if o.classic() {
		return "Classic"
	}
	return "RBJ"
}
