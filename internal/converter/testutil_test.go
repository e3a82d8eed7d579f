package converter

import (
	"testing"
	"time"
)

// sampleReport covers two channels, a shared block, an excluded filter type
// and every settings section
const sampleReport = `Multi-sub optimiser filter report

Channel: "FL"

FL1: Parametric EQ (RBJ)
Parameter "Center freq (Hz)" = 52.9284
Parameter "Boost (dB)" = -2.56499
Parameter "Q" = 11.0387
"Classic" Q = 12.7951

FL2: All-Pass, First-Order
Parameter "Phase-180 freq (Hz)" = 120.5
Parameter "Q" = 0.707107

End Channel: "FL"

Channel: "FR"

FR1: All-Pass
Parameter "Phase-180 freq (Hz)" = 32.1576
Parameter "Q" = 0.500044

FR2: Parametric EQ (RBJ)
Parameter "Center freq (Hz)" = 80
Parameter "Boost (dB)" = 3.5
Parameter "Q" = 2.5

FR3: Shelf filter
Parameter "Frequency (Hz)" = 100

End Channel: "FR"

Shared sub channel:

S1: Parametric EQ (RBJ)
Parameter "Center freq (Hz)" = 40
Parameter "Boost (dB)" = -6
Parameter "Q" = 4.2
"Classic" Q = 5.1

End shared sub channel

Final gain and delay/distance settings:

Gain settings:
FL gain: -2.5 dB
FR gain: +1.25 dB

Delay settings:
FL delay: 3.21 msec
FR delay: -0.5 msec

Channel inversions:
FR: Invert
No other inversions
`

// testDate pins the "Dated:" header line
var testDate = time.Date(2024, time.March, 5, 12, 0, 0, 0, time.UTC)

// newTestOptions returns default options with a fixed date
func newTestOptions() Options {
	opts := DefaultOptions()
	opts.Dated = testDate
	return opts
}

func mustFile(t *testing.T, res *Result, name string) string {
	t.Helper()
	content, ok := res.Files.Get(name)
	if !ok {
		t.Fatalf("missing output file %s (have %v)", name, res.Files.Names())
	}
	return content
}
