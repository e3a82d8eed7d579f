package converter

import (
	"fmt"
	"strings"
)

// FilterKind tags the recognised filter variants
type FilterKind int

// Recognised filter kinds
const (
	KindUnknown FilterKind = iota
	KindParametricEQ
	KindAllPass
)

func (k FilterKind) String() string {
	switch k {
	case KindParametricEQ:
		return TypeParametricEQ
	case KindAllPass:
		return TypeAllPass
	}
	return "Unknown"
}

// FilterEntry is one extracted filter. It is never modified after extraction.
type FilterEntry struct {
	ID        string // Filter identifier from the header line, e.g. "FL1"
	TypeLabel string // Raw type text, e.g. "All-Pass, Second-Order"
	Kind      FilterKind

	Frequency float64 // Hz (centre frequency, or 180° phase frequency for all-pass)
	Gain      float64 // dB, always 0 for all-pass
	Q         float64 // Selected Q for export

	RBJQ     float64
	ClassicQ float64
}

// GainSetting is one "<channel> gain: <n> dB" line
type GainSetting struct {
	Channel string
	GainDB  float64
}

// DelaySetting is one "<channel> delay: <n> msec" line
type DelaySetting struct {
	Channel string
	DelayMs float64
}

// Inversions lists inverted channels in report order
type Inversions []string

// HasInversions reports whether any channel is inverted
func (i Inversions) HasInversions() bool {
	return len(i) > 0
}

// Contains reports whether a channel token is marked inverted
func (i Inversions) Contains(channel string) bool {
	for _, c := range i {
		if c == channel {
			return true
		}
	}
	return false
}

// ordered is an insertion-ordered map. Setting an existing key replaces its
// value but keeps the key's original position (last write wins).
type ordered[V any] struct {
	keys   []string
	values map[string]V
}

func newOrdered[V any]() *ordered[V] {
	return &ordered[V]{values: make(map[string]V)}
}

func (o *ordered[V]) set(key string, v V) {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = v
}

func (o *ordered[V]) get(key string) (V, bool) {
	v, ok := o.values[key]
	return v, ok
}

func (o *ordered[V]) len() int {
	return len(o.keys)
}

// OutputFile is one generated file
type OutputFile struct {
	Name    string
	Content string
}

// FileSet holds generated files in channel discovery order
type FileSet struct {
	files *ordered[string]
}

// Set adds or replaces a file, keeping the position of an existing name
func (s *FileSet) Set(name, content string) {
	if s.files == nil {
		s.files = newOrdered[string]()
	}
	s.files.set(name, content)
}

// Get returns the content of a file by name
func (s *FileSet) Get(name string) (string, bool) {
	if s.files == nil {
		return "", false
	}
	return s.files.get(name)
}

// Len returns the number of files
func (s *FileSet) Len() int {
	if s.files == nil {
		return 0
	}
	return s.files.len()
}

// Names returns file names in order
func (s *FileSet) Names() []string {
	if s.files == nil {
		return nil
	}
	return append([]string(nil), s.files.keys...)
}

// All returns the files in order
func (s *FileSet) All() []OutputFile {
	if s.files == nil {
		return nil
	}
	out := make([]OutputFile, 0, len(s.files.keys))
	for _, k := range s.files.keys {
		out = append(out, OutputFile{Name: k, Content: s.files.values[k]})
	}
	return out
}

// Result is everything a conversion produced
type Result struct {
	Files FileSet

	// SharedFile is the standalone shared sub file content, empty when
	// there are no shared filters or they were combined into channel files
	SharedFile string

	TotalProcessed int
	TotalExported  int

	Log []string

	Gains      []GainSetting
	Delays     []DelaySetting
	Inversions Inversions
}

// HasSharedFile reports whether a standalone shared file was produced
func (r *Result) HasSharedFile() bool {
	return r.SharedFile != ""
}

// Failed reports whether the conversion stopped on an error
func (r *Result) Failed() bool {
	return len(r.Log) > 0 && strings.HasPrefix(r.Log[len(r.Log)-1], errorLogPrefix)
}

func (r *Result) logf(format string, args ...interface{}) {
	r.Log = append(r.Log, fmt.Sprintf(format, args...))
}
