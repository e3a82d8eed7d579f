// Package units converts channel delays to distances and picks the local
// distance unit from the system timezone.
package units

import (
	"errors"
	"fmt"
	"strings"

	tz "github.com/medama-io/go-timezone-country"
	"github.com/thlib/go-timezone-local/tzlocal"
)

// DistanceUnit is how a channel delay is displayed
type DistanceUnit string

// Supported display units
const (
	Milliseconds DistanceUnit = "ms"
	Metres       DistanceUnit = "m"
	Feet         DistanceUnit = "ft"
)

// SpeedOfSound in metres per second, used for every delay/distance conversion
const SpeedOfSound = 343.0

const metresPerFoot = 0.3048

// ErrUnknownDistanceUnit is returned by ParseDistanceUnit
var ErrUnknownDistanceUnit = errors.New("unknown distance unit")

// ParseDistanceUnit accepts ms, m or ft and a few spelled-out variants.
func ParseDistanceUnit(s string) (DistanceUnit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ms", "msec", "milliseconds":
		return Milliseconds, nil
	case "m", "metres", "meters":
		return Metres, nil
	case "ft", "feet":
		return Feet, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDistanceUnit, s)
}

// Label returns the column heading for the unit
func (u DistanceUnit) Label() string {
	switch u {
	case Metres:
		return "Metres"
	case Feet:
		return "Feet"
	}
	return "Delay ms"
}

// MillisecondsToMetres converts a delay to the distance sound travels in it
func MillisecondsToMetres(ms float64) float64 {
	return ms / 1000.0 * SpeedOfSound
}

// MillisecondsToFeet converts a delay to feet
func MillisecondsToFeet(ms float64) float64 {
	return MillisecondsToMetres(ms) / metresPerFoot
}

// Convert expresses a delay in milliseconds in the given unit
func Convert(ms float64, u DistanceUnit) float64 {
	switch u {
	case Metres:
		return MillisecondsToMetres(ms)
	case Feet:
		return MillisecondsToFeet(ms)
	}
	return ms
}

// DefaultUnit returns the local distance unit (feet or metres).
// Returns metres if detection fails.
func DefaultUnit() DistanceUnit {
	timezone, err := tzlocal.RuntimeTZ()
	if err != nil {
		return Metres
	}
	return UnitForTimezone(timezone)
}

// UnitForTimezone returns the distance unit for a given IANA timezone.
// Exported for testing with specific timezones.
func UnitForTimezone(timezone string) DistanceUnit {
	// No country association
	if timezone == "UTC" || timezone == "GMT" || strings.HasPrefix(timezone, "Etc/") {
		return Metres
	}

	tzMap, err := tz.NewTimezoneCountryMap()
	if err != nil {
		return Metres
	}

	country, err := tzMap.GetCountry(timezone)
	if err != nil {
		return Metres
	}

	return unitForCountry(country)
}

func unitForCountry(country string) DistanceUnit {
	if feetCountries[country] {
		return Feet
	}
	return Metres
}

// feetCountries lists countries where distances are customarily given in feet.
var feetCountries = map[string]bool{
	"United States":       true,
	"Liberia":             true,
	"Myanmar":             true,
	"Puerto Rico":         true,
	"Guam":                true,
	"U.S. Virgin Islands": true,
	"American Samoa":      true,
}
