// Package money converts between major-unit (pounds) and minor-unit
// (pence) monetary representations. Every function is total: invalid
// input degrades to zero rather than returning an error, because these
// sit on the hot path of every render.
package money

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Unit tags a numeric amount with the representation it is in. Internal
// code carries the unit explicitly; DetectUnit exists only to normalize
// externally-sourced values whose unit is unknown.
type Unit string

const (
	UnitMajor Unit = "major"
	UnitMinor Unit = "minor"
)

// ToMinorUnits parses a major-unit amount and returns it in minor units,
// rounded half-up. Invalid input returns 0.
func ToMinorUnits(v any) int64 {
	d, ok := parse(v)
	if !ok {
		return 0
	}
	return d.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// ToMajorUnits converts a minor-unit amount to major units at two-decimal
// precision. Invalid input returns 0.
func ToMajorUnits(v any) float64 {
	d, ok := parse(v)
	if !ok {
		return 0
	}
	f, _ := d.Div(decimal.NewFromInt(100)).Round(2).Float64()
	return f
}

// DetectUnit guesses which unit a bare number is in: non-integer values
// and values below 100 are taken as major units, integers >= 100 as minor
// units. The heuristic is lossy for round amounts >= 1.00 expressed in
// major units; callers that know the unit from context must not use it.
func DetectUnit(v float64) Unit {
	if v != math.Trunc(v) || v < 100 {
		return UnitMajor
	}
	return UnitMinor
}

var symbols = map[string]string{
	"GBP": "£",
	"USD": "$",
	"EUR": "€",
}

var printer = message.NewPrinter(language.BritishEnglish)

// Format renders a major-unit amount as a locale-correct currency string.
// An empty or unknown currency code falls back to GBP. Invalid amounts
// render as zero.
func Format(amountMajor float64, currencyCode string) string {
	if math.IsNaN(amountMajor) || math.IsInf(amountMajor, 0) {
		amountMajor = 0
	}
	code := strings.ToUpper(strings.TrimSpace(currencyCode))
	sym, ok := symbols[code]
	if !ok {
		sym = symbols["GBP"]
	}
	return printer.Sprintf("%s%v", sym, number.Decimal(amountMajor, number.Scale(2)))
}

// parse accepts the numeric shapes that reach the engine from upstream
// sources. Anything unparseable reports false.
func parse(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return decimal.Decimal{}, false
		}
		return decimal.NewFromFloat(n), true
	case float32:
		return parse(float64(n))
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int32:
		return decimal.NewFromInt(int64(n)), true
	case int64:
		return decimal.NewFromInt(n), true
	case json.Number:
		return parseString(n.String())
	case string:
		return parseString(n)
	default:
		return decimal.Decimal{}, false
	}
}

func parseString(s string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}
