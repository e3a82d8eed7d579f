package logging

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/linuxmatters/msoconvert/internal/converter"
	"github.com/linuxmatters/msoconvert/internal/units"
)

// SettingsReportFileName is the file written by WriteSettingsReport
const SettingsReportFileName = "settings_report.txt"

// SettingsReportOptions controls how delays are shown
type SettingsReportOptions struct {
	Source      string             // Report the settings came from
	Unit        units.DistanceUnit // Preferred unit, shown first
	DelayOffset float64            // ms added to every delay before conversion
}

// channelSettings gathers everything known about one channel
type channelSettings struct {
	gain     float64
	hasGain  bool
	delay    float64
	hasDelay bool
	inverted bool
}

// WriteSettingsReport writes the channel settings report to path
func WriteSettingsReport(path string, res *converter.Result, opts SettingsReportOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create settings report: %w", err)
	}
	defer f.Close()

	writeSettingsReport(f, res, opts)
	return nil
}

func writeSettingsReport(w io.Writer, res *converter.Result, opts SettingsReportOptions) {
	fmt.Fprintln(w, "Channel Settings Report")
	fmt.Fprintln(w, "=======================")
	if opts.Source != "" {
		fmt.Fprintf(w, "Source: %s\n", opts.Source)
	}
	fmt.Fprintf(w, "Speed of sound: %.0f m/s\n", units.SpeedOfSound)
	if opts.DelayOffset != 0 {
		fmt.Fprintf(w, "Delay offset: %s\n", formatMetricWithUnit(opts.DelayOffset, 2, "ms"))
	}
	fmt.Fprintln(w, "")

	writeSection(w, "Delay, Gain and Polarity")
	table := buildSettingsTable(res, opts)
	if len(table.Rows) == 0 {
		fmt.Fprintln(w, "No gain, delay or inversion settings found.")
		return
	}
	fmt.Fprint(w, table.String())
}

// delayColumns lists the delay units with the preferred unit first
func delayColumns(preferred units.DistanceUnit) []units.DistanceUnit {
	cols := []units.DistanceUnit{preferred}
	for _, u := range []units.DistanceUnit{units.Milliseconds, units.Metres, units.Feet} {
		if u != preferred {
			cols = append(cols, u)
		}
	}
	return cols
}

func delayDecimals(u units.DistanceUnit) int {
	if u == units.Metres {
		return 3
	}
	return 2
}

// buildSettingsTable creates one row per channel, sorted by channel token
func buildSettingsTable(res *converter.Result, opts SettingsReportOptions) *MetricTable {
	preferred := opts.Unit
	if preferred == "" {
		preferred = units.Milliseconds
	}
	cols := delayColumns(preferred)

	headers := make([]string, 0, len(cols)+1)
	for _, u := range cols {
		headers = append(headers, u.Label())
	}
	headers = append(headers, "Gain dB")

	table := NewMetricTable(headers...)
	table.NoteHeader = "Polarity"

	byChannel := make(map[string]*channelSettings)
	get := func(ch string) *channelSettings {
		cs, ok := byChannel[ch]
		if !ok {
			cs = &channelSettings{}
			byChannel[ch] = cs
		}
		return cs
	}
	for _, g := range res.Gains {
		cs := get(g.Channel)
		cs.gain, cs.hasGain = g.GainDB, true
	}
	for _, d := range res.Delays {
		cs := get(d.Channel)
		cs.delay, cs.hasDelay = d.DelayMs, true
	}
	for _, ch := range res.Inversions {
		get(ch).inverted = true
	}

	channels := make([]string, 0, len(byChannel))
	for ch := range byChannel {
		channels = append(channels, ch)
	}
	sort.Strings(channels)

	for _, ch := range channels {
		cs := byChannel[ch]
		values := make([]string, 0, len(headers))
		for _, u := range cols {
			if !cs.hasDelay {
				values = append(values, MissingValue)
				continue
			}
			values = append(values, formatMetric(units.Convert(cs.delay+opts.DelayOffset, u), delayDecimals(u)))
		}
		if cs.hasGain {
			values = append(values, formatMetricSigned(cs.gain, 2))
		} else {
			values = append(values, MissingValue)
		}

		polarity := "Normal"
		if cs.inverted {
			polarity = "Inverted"
		}
		table.AddRow(ch, values, "", polarity)
	}

	return table
}
