package utils

import (
	"math"
	"regexp"
	"strings"

	"token-pulse/src/models"

	"github.com/shopspring/decimal"
)

// SubCentFloor is the smallest price the feed ever produces or reports.
const SubCentFloor = 0.000001

// MagnitudeClass is the display scale of a formatted magnitude string.
type MagnitudeClass int

const (
	ClassPlain MagnitudeClass = iota
	ClassSubCent
	ClassThousands
	ClassMillions
	ClassBillions
)

var (
	// Leading number (parseFloat-style prefix) with an optional suffix glued to it.
	magnitudePattern = regexp.MustCompile(`^([+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?)([KMB])?`)
	symbolStripper   = strings.NewReplacer("$", "", ",", "")

	thousand = decimal.NewFromInt(1_000)
	million  = decimal.NewFromInt(1_000_000)
	billion  = decimal.NewFromInt(1_000_000_000)
)

// -----------------------------------------------------------------------------

func cleanMagnitude(text string) string {
	return strings.TrimSpace(symbolStripper.Replace(text))
}

// -----------------------------------------------------------------------------

// parseNumber accepts the loose forms the regex allows ("1.", ".5").
func parseNumber(s string) (decimal.Decimal, error) {
	s = strings.TrimSuffix(s, ".")
	if strings.HasPrefix(s, ".") {
		s = "0" + s
	} else if strings.HasPrefix(s, "-.") || strings.HasPrefix(s, "+.") {
		s = s[:1] + "0" + s[1:]
	}
	return decimal.NewFromString(s)
}

// -----------------------------------------------------------------------------

// toFloat reports false when d does not fit a finite float64.
func toFloat(d decimal.Decimal) (float64, bool) {
	f, _ := d.Float64()
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// -----------------------------------------------------------------------------

// ParseMagnitude converts a display string such as "$91.9K" to a number.
// Sub-cent strings ("$0.000...") never parse below SubCentFloor and
// anything unparseable or out of float64 range yields 0.
func ParseMagnitude(text string) float64 {
	cleaned := cleanMagnitude(text)
	m := magnitudePattern.FindStringSubmatch(cleaned)

	if m != nil && m[2] != "" {
		d, err := parseNumber(m[1])
		if err != nil {
			return 0
		}
		switch m[2] {
		case "K":
			d = d.Mul(thousand)
		case "M":
			d = d.Mul(million)
		case "B":
			d = d.Mul(billion)
		}
		f, _ := toFloat(d)
		return f
	}

	if strings.HasPrefix(cleaned, "0.000") {
		if m == nil {
			return SubCentFloor
		}
		if d, err := parseNumber(m[1]); err == nil && d.IsPositive() {
			if f, ok := toFloat(d); ok && f > 0 {
				return f
			}
		}
		return SubCentFloor
	}

	if m == nil {
		return 0
	}
	d, err := parseNumber(m[1])
	if err != nil {
		return 0
	}
	f, _ := toFloat(d)
	return f
}

// -----------------------------------------------------------------------------

// ClassOf reports the magnitude class of a formatted string.
func ClassOf(text string) MagnitudeClass {
	cleaned := cleanMagnitude(text)
	if m := magnitudePattern.FindStringSubmatch(cleaned); m != nil {
		switch m[2] {
		case "K":
			return ClassThousands
		case "M":
			return ClassMillions
		case "B":
			return ClassBillions
		}
	}
	if strings.HasPrefix(cleaned, "0.000") {
		return ClassSubCent
	}
	return ClassPlain
}

// -----------------------------------------------------------------------------

// FormatMagnitude renders value in the same magnitude class as reference,
// so a "$91.9K" market cap stays in thousands across updates. Values that
// are not finite leave the reference unchanged.
func FormatMagnitude(value float64, reference string) string {
	if math.IsInf(value, 0) || math.IsNaN(value) {
		return reference
	}
	prefix := ""
	if strings.HasPrefix(strings.TrimSpace(reference), "$") {
		prefix = "$"
	}

	d := decimal.NewFromFloat(value)
	switch ClassOf(reference) {
	case ClassThousands:
		return prefix + d.Div(thousand).StringFixed(1) + "K"
	case ClassMillions:
		return prefix + d.Div(million).StringFixed(1) + "M"
	case ClassBillions:
		return prefix + d.Div(billion).StringFixed(1) + "B"
	case ClassSubCent:
		return prefix + d.StringFixed(6)
	default:
		return prefix + d.StringFixed(2)
	}
}

// -----------------------------------------------------------------------------

// FormatForDisplay applies the no-decimals display option: whole units per
// suffix class, sub-cent values collapse to "$0". Text that cannot be parsed
// is returned unchanged.
func FormatForDisplay(text string, settings *models.MDisplaySettings) string {
	if settings == nil || !settings.NoDecimals {
		return text
	}

	cleaned := cleanMagnitude(text)
	m := magnitudePattern.FindStringSubmatch(cleaned)
	if m != nil && m[2] != "" {
		d, err := parseNumber(m[1])
		if err != nil {
			return text
		}
		return "$" + d.Floor().String() + m[2]
	}
	if strings.HasPrefix(cleaned, "0.000") {
		return "$0"
	}
	if m == nil {
		return text
	}
	d, err := parseNumber(m[1])
	if err != nil {
		return text
	}
	return "$" + d.Floor().String()
}
