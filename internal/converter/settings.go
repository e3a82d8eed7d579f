package converter

import (
	"regexp"
	"strings"
)

// Settings section labels
const (
	settingsLabel   = "Final gain and delay/distance settings:"
	gainLabel       = "Gain settings:"
	delayLabel      = "Delay settings:"
	inversionsLabel = "Channel inversions:"
	noInversions    = "No inversions"
)

var (
	gainLine      = regexp.MustCompile(`(?i)^\s*(\S+)\s+gain:\s*([-+]?\d*\.?\d+)\s*dB\b`)
	delayLine     = regexp.MustCompile(`(?i)^\s*(\S+)\s+delay:\s*([-+]?\d*\.?\d+)\s*msec\b`)
	inversionLine = regexp.MustCompile(`^(\w+):?\s*[Ii]nvert`)
)

// settings holds the gain, delay and inversion facts of a report plus any
// warnings about missing sections
type settings struct {
	gains      []GainSetting
	delays     []DelaySetting
	inversions Inversions
	warnings   []string
}

// extractSettings reads the final settings and inversions sections from the
// full report text. Missing sections produce warnings, not errors.
func extractSettings(text string) (settings, error) {
	var s settings

	inversionsAt := strings.Index(text, inversionsLabel)

	if start := strings.Index(text, settingsLabel); start >= 0 {
		end := len(text)
		if inversionsAt > start {
			end = inversionsAt
		}
		s.gains, s.delays = parseGainDelay(text[start+len(settingsLabel) : end])
	} else {
		s.warnings = append(s.warnings, "Warning: final gain and delay settings section not found")
	}

	if inversionsAt >= 0 {
		s.inversions = parseInversions(text[inversionsAt+len(inversionsLabel):])
	} else {
		s.warnings = append(s.warnings, "Warning: channel inversions section not found")
	}

	return s, nil
}

// parseGainDelay reads the gain and delay subsections of the settings span
func parseGainDelay(span string) ([]GainSetting, []DelaySetting) {
	var gains []GainSetting
	var delays []DelaySetting

	delayAt := strings.Index(span, delayLabel)

	if gainAt := strings.Index(span, gainLabel); gainAt >= 0 {
		end := len(span)
		if delayAt > gainAt {
			end = delayAt
		}
		for _, line := range strings.Split(span[gainAt+len(gainLabel):end], "\n") {
			m := gainLine.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			if v, ok := parseNumber(m[2]); ok {
				gains = append(gains, GainSetting{Channel: m[1], GainDB: v})
			}
		}
	}

	if delayAt >= 0 {
		for _, line := range strings.Split(span[delayAt+len(delayLabel):], "\n") {
			m := delayLine.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			if v, ok := parseNumber(m[2]); ok {
				delays = append(delays, DelaySetting{Channel: m[1], DelayMs: v})
			}
		}
	}

	return gains, delays
}

// parseInversions scans the lines following the inversions label.
// "No inversions" ends the scan even if more lines follow.
func parseInversions(section string) Inversions {
	var inv Inversions
	for _, line := range strings.Split(section, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.EqualFold(line, noInversions) {
			break
		}
		if !strings.Contains(strings.ToLower(line), "invert") {
			continue
		}
		if m := inversionLine.FindStringSubmatch(line); m != nil {
			inv = append(inv, m[1])
		}
	}
	return inv
}
