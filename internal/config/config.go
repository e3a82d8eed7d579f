// Package config loads msoconvert settings from an optional TOML file.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/linuxmatters/msoconvert/internal/converter"
	"github.com/linuxmatters/msoconvert/internal/units"
)

// ErrUnknownKeys is returned when a config file has keys msoconvert does not read
var ErrUnknownKeys = errors.New("unknown config keys")

// Config is the full msoconvert configuration
//
// Example file:
//
//	[convert]
//	q_mode = "classic"
//	include = ["Parametric EQ", "All-Pass"]
//	combine_shared = true
//	equaliser = "miniDSP 2x4 HD"
//
//	[report]
//	delay_unit = "ft"
//	delay_offset = 1.5
type Config struct {
	Convert ConvertConfig `toml:"convert"`
	Report  ReportConfig  `toml:"report"`
}

// ConvertConfig holds the options passed to the conversion engine
type ConvertConfig struct {
	QMode         string   `toml:"q_mode"`
	Include       []string `toml:"include"`
	CombineShared bool     `toml:"combine_shared"`
	Equaliser     string   `toml:"equaliser"`
}

// ReportConfig holds settings for the auxiliary settings report
type ReportConfig struct {
	DelayUnit   string  `toml:"delay_unit"`   // ms, m or ft; empty picks from the system timezone
	DelayOffset float64 `toml:"delay_offset"` // ms added to every channel delay
}

// Default returns the built-in configuration
func Default() Config {
	opts := converter.DefaultOptions()
	return Config{
		Convert: ConvertConfig{
			QMode:         string(opts.QMode),
			Include:       append([]string(nil), opts.IncludedTypes...),
			CombineShared: opts.CombineShared,
			Equaliser:     opts.Equaliser,
		},
	}
}

// Load reads a TOML config file over the defaults. An empty path returns
// the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, fmt.Errorf("%w in %s: %s", ErrUnknownKeys, path, strings.Join(keys, ", "))
	}

	return cfg, cfg.Validate()
}

// Validate checks enumerated values
func (c Config) Validate() error {
	if _, err := converter.ParseQMode(c.Convert.QMode); err != nil {
		return err
	}
	if c.Report.DelayUnit != "" {
		if _, err := units.ParseDistanceUnit(c.Report.DelayUnit); err != nil {
			return err
		}
	}
	return nil
}

// Options builds the conversion options
func (c Config) Options() (converter.Options, error) {
	mode, err := converter.ParseQMode(c.Convert.QMode)
	if err != nil {
		return converter.Options{}, err
	}

	var include []string
	for _, t := range c.Convert.Include {
		if t = strings.TrimSpace(t); t != "" {
			include = append(include, t)
		}
	}

	return converter.Options{
		QMode:         mode,
		IncludedTypes: include,
		CombineShared: c.Convert.CombineShared,
		Equaliser:     c.Convert.Equaliser,
	}, nil
}

// DistanceUnit returns the configured display unit, or the local one if unset
func (c Config) DistanceUnit() (units.DistanceUnit, error) {
	if c.Report.DelayUnit == "" {
		return units.DefaultUnit(), nil
	}
	return units.ParseDistanceUnit(c.Report.DelayUnit)
}
