package param

import (
	"fmt"
	"math"
	"strconv"
)

// DomainMax is the highest raw value the control protocol can carry.
const DomainMax = 127

// domainMidpoint is the raw value treated as "no offset" by the
// semitone-offset mapping, matching the hardware's own display.
const domainMidpoint = 64

// noteNames is the 12-entry pitch-class table in the mixed sharp/flat
// spelling the synthesizer's display uses. Must not be reordered.
var noteNames = [12]string{"C", "C#", "D", "Eb", "E", "F", "F#", "G", "G#", "A", "Bb", "B"}

// kind selects one of the fixed formatter variants.
type kind int

const (
	kindPercent kind = iota
	kindBilateral
	kindLinear
	kindNote
	kindSemitone
	kindRaw
)

// Formatter maps a raw protocol value to the string the hardware would show
// for it. The variant set is closed; each variant is fully determined by its
// construction parameters and carries no mutable state, so a Formatter may be
// shared freely between descriptors.
//
// Format is total over 0..DomainMax only. Callers are expected to clamp via
// the owning descriptor's range before formatting.
type Formatter struct {
	kind kind

	// percent
	minPct, maxPct int

	// bilateral-percent
	extreme float64
	center  int

	// linear
	min, max float64

	unit string
}

// Percent maps 0..DomainMax onto 0..100%.
func Percent() Formatter {
	return PercentRange(0, 100)
}

// PercentRange maps 0..DomainMax onto minPct..maxPct, rounded to whole
// percent.
func PercentRange(minPct, maxPct int) Formatter {
	return Formatter{kind: kindPercent, minPct: minPct, maxPct: maxPct}
}

// Bilateral maps a center raw value to exactly 0.00% with values below and
// above scaling independently toward -extreme and +extreme.
func Bilateral(extreme float64, center int) Formatter {
	return Formatter{kind: kindBilateral, extreme: extreme, center: center}
}

// Linear is an affine map from 0..DomainMax onto min..max, shown with two
// decimals and a unit suffix.
func Linear(min, max float64, unit string) Formatter {
	return Formatter{kind: kindLinear, min: min, max: max, unit: unit}
}

// NoteName maps a raw value to pitch class plus octave, e.g. 48 -> "C3".
func NoteName() Formatter {
	return Formatter{kind: kindNote}
}

// Semitones shows the signed offset from the domain midpoint with a unit
// label, e.g. 67 -> "+3 st".
func Semitones(unit string) Formatter {
	return Formatter{kind: kindSemitone, unit: unit}
}

// Raw shows the value as a plain integer.
func Raw() Formatter {
	return Formatter{kind: kindRaw}
}

// Format renders a raw value. Pure; behavior outside 0..DomainMax is
// undefined.
func (f Formatter) Format(raw uint8) string {
	switch f.kind {
	case kindPercent:
		pct := int(math.Round(float64(raw)/DomainMax*float64(f.maxPct-f.minPct))) + f.minPct
		return strconv.Itoa(pct) + "%"

	case kindBilateral:
		var pct float64
		switch {
		case int(raw) < f.center:
			pct = -f.extreme * (1 - float64(raw)/float64(f.center))
		case int(raw) > f.center:
			pct = f.extreme * float64(int(raw)-f.center) / float64(DomainMax-f.center)
		}
		return fmt.Sprintf("%.2f%%", pct)

	case kindLinear:
		actual := float64(raw)/DomainMax*(f.max-f.min) + f.min
		return fmt.Sprintf("%.2f%s", actual, f.unit)

	case kindNote:
		return fmt.Sprintf("%s%d", noteNames[raw%12], int(raw)/12-1)

	case kindSemitone:
		return fmt.Sprintf("%+d%s", int(raw)-domainMidpoint, f.unit)

	default:
		return strconv.Itoa(int(raw))
	}
}
