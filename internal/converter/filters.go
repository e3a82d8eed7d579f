package converter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// parameterLine matches `Parameter "<name>" = <value>`
var parameterLine = regexp.MustCompile(`(?m)^\s*Parameter\s+"([^"]+)"\s*=\s*(\S+)`)

// classicQLine matches the bare `"Classic" Q = <value>` line
var classicQLine = regexp.MustCompile(`(?mi)^\s*"Classic"\s+Q\s*=\s*(\S+)`)

// unitSuffix strips a trailing parenthetical such as "(Hz)" from parameter names
var unitSuffix = regexp.MustCompile(`\s*\([^)]*\)\s*$`)

// params holds the parsed numeric parameters of one chunk, keyed by
// lower-case name without unit suffix. Unparseable values are left out.
type params struct {
	values     map[string]float64
	classicQ   float64
	hasClassic bool
}

func parseParams(text string) params {
	p := params{values: make(map[string]float64)}
	for _, m := range parameterLine.FindAllStringSubmatch(text, -1) {
		v, ok := parseNumber(m[2])
		if !ok {
			continue
		}
		p.values[paramKey(m[1])] = v
	}
	if m := classicQLine.FindStringSubmatch(text); m != nil {
		p.classicQ, p.hasClassic = parseNumber(m[1])
	}
	return p
}

// paramKey normalises a parameter name so spelling variants meet:
// "Phase-180° freq (Hz)" and "phase 180 freq" both become "phase 180 freq".
func paramKey(name string) string {
	name = unitSuffix.ReplaceAllString(name, "")
	name = strings.NewReplacer("°", " ", "-", " ", "_", " ").Replace(strings.ToLower(name))
	return strings.Join(strings.Fields(name), " ")
}

// lookup returns the first present parameter among the given names
func (p params) lookup(names ...string) (float64, bool) {
	for _, n := range names {
		if v, ok := p.values[paramKey(n)]; ok {
			return v, true
		}
	}
	return 0, false
}

// parseNumber parses a decimal independent of the process locale
func parseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// filterType ties together how a filter kind is recognised, extracted and
// rendered. Adding a filter kind means adding one entry to filterTypes.
type filterType struct {
	kind    FilterKind
	matches func(label string) bool
	extract func(id, label string, p params, opts Options) (FilterEntry, bool)
	render  func(n int, e FilterEntry) string
}

var filterTypes = []filterType{
	{
		kind:    KindParametricEQ,
		matches: labelContains("parametric eq"),
		extract: extractParametricEQ,
		render:  renderParametricEQ,
	},
	{
		kind:    KindAllPass,
		matches: labelContains("all-pass", "allpass", "all pass"),
		extract: extractAllPass,
		render:  renderAllPass,
	},
}

func labelContains(subs ...string) func(string) bool {
	return func(label string) bool {
		lower := strings.ToLower(label)
		for _, s := range subs {
			if strings.Contains(lower, s) {
				return true
			}
		}
		return false
	}
}

func typeForLabel(label string) (filterType, bool) {
	for _, ft := range filterTypes {
		if ft.matches(label) {
			return ft, true
		}
	}
	return filterType{}, false
}

func typeForKind(k FilterKind) (filterType, bool) {
	for _, ft := range filterTypes {
		if ft.kind == k {
			return ft, true
		}
	}
	return filterType{}, false
}

func extractParametricEQ(id, label string, p params, opts Options) (FilterEntry, bool) {
	freq, ok := p.lookup("center freq", "centre freq", "center frequency", "centre frequency")
	if !ok {
		return FilterEntry{}, false
	}
	gain, ok := p.lookup("boost", "gain")
	if !ok {
		return FilterEntry{}, false
	}
	rbj, ok := p.lookup("q", "rbj q", "q rbj")
	if !ok {
		return FilterEntry{}, false
	}
	classic := rbj
	if p.hasClassic {
		classic = p.classicQ
	}

	q := rbj
	if opts.classic() {
		q = classic
	}

	return FilterEntry{
		ID:        id,
		TypeLabel: label,
		Kind:      KindParametricEQ,
		Frequency: freq,
		Gain:      gain,
		Q:         q,
		RBJQ:      rbj,
		ClassicQ:  classic,
	}, true
}

func extractAllPass(id, label string, p params, _ Options) (FilterEntry, bool) {
	freq, ok := p.lookup("phase 180 freq", "phase 180 frequency", "180 phase freq", "180 phase frequency")
	if !ok {
		return FilterEntry{}, false
	}
	q, ok := p.lookup("q", "all pass q", "allpass q")
	if !ok {
		return FilterEntry{}, false
	}
	return FilterEntry{
		ID:        id,
		TypeLabel: label,
		Kind:      KindAllPass,
		Frequency: freq,
		Q:         q,
		RBJQ:      q,
		ClassicQ:  q,
	}, true
}

// extractFilter classifies one chunk and pulls out its parameters.
// ok is false for malformed, excluded, unknown or incomplete chunks.
func extractFilter(chunk string, opts Options) (FilterEntry, bool) {
	id, label, body, ok := parseChunkHeader(chunk)
	if !ok || !opts.includes(label) {
		return FilterEntry{}, false
	}
	ft, ok := typeForLabel(label)
	if !ok {
		return FilterEntry{}, false
	}
	return ft.extract(id, label, parseParams(body), opts)
}

// extractFilters returns the included filters of one block in report order
func extractFilters(block string, opts Options) ([]FilterEntry, error) {
	var entries []FilterEntry
	for _, chunk := range splitFilterChunks(block) {
		if e, ok := extractFilter(chunk, opts); ok {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

// allPassOrder reads the order qualifier from an all-pass type label
func allPassOrder(label string) int {
	lower := strings.ToLower(label)
	for i, word := range []string{"first", "second", "third", "fourth"} {
		if strings.Contains(lower, word+"-order") || strings.Contains(lower, word+" order") {
			return i + 1
		}
	}
	return 2
}

func renderParametricEQ(n int, e FilterEntry) string {
	return fmt.Sprintf("Filter %2d: ON  PK       Fc %s Hz Gain %s dB Q %s",
		n, formatFixed(e.Frequency, 4), formatFixed(e.Gain, 5), formatFixed(e.Q, 4))
}

func renderAllPass(n int, e FilterEntry) string {
	return fmt.Sprintf("Filter %2d: ON  AP       Order %d Fc %s Hz Gain 0 dB Q %s",
		n, allPassOrder(e.TypeLabel), formatFixed(e.Frequency, 4), formatFixed(e.Q, 6))
}

// formatFixed renders v with exactly digits fractional digits, no exponent
func formatFixed(v float64, digits int) string {
	return strconv.FormatFloat(v, 'f', digits, 64)
}
