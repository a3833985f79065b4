package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToMinorUnits(t *testing.T) {
	assert.Equal(t, int64(5000), ToMinorUnits(50.00))
	assert.Equal(t, int64(150), ToMinorUnits(1.50))
	assert.Equal(t, int64(100), ToMinorUnits("1.00"))
	assert.Equal(t, int64(1), ToMinorUnits(0.005)) // half-up
	assert.Equal(t, int64(0), ToMinorUnits("not a number"))
	assert.Equal(t, int64(0), ToMinorUnits(nil))
	assert.Equal(t, int64(200), ToMinorUnits(2))
}

func TestToMajorUnits(t *testing.T) {
	assert.Equal(t, 50.0, ToMajorUnits(5000))
	assert.Equal(t, 1.5, ToMajorUnits(150))
	assert.Equal(t, 0.01, ToMajorUnits(1))
	assert.Equal(t, 0.0, ToMajorUnits("garbage"))
}

// Every amount in [0, 100000) pence survives a minor -> major -> minor
// round trip unchanged.
func TestRoundTrip(t *testing.T) {
	for pence := int64(0); pence < 100000; pence++ {
		major := ToMajorUnits(pence)
		if got := ToMinorUnits(major); got != pence {
			t.Fatalf("round trip lost precision: %d pence -> %v -> %d", pence, major, got)
		}
	}
}

func TestDetectUnit(t *testing.T) {
	assert.Equal(t, UnitMajor, DetectUnit(1.50))
	assert.Equal(t, UnitMajor, DetectUnit(99))
	assert.Equal(t, UnitMajor, DetectUnit(0))
	assert.Equal(t, UnitMinor, DetectUnit(100))
	assert.Equal(t, UnitMinor, DetectUnit(5000))
	// Documented ambiguity: an integer >= 100 always reads as minor units.
	assert.Equal(t, UnitMinor, DetectUnit(150))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "£150.00", Format(150, "GBP"))
	assert.Equal(t, "£1.50", Format(1.5, ""))
	assert.Equal(t, "$9.99", Format(9.99, "USD"))
	assert.Equal(t, "£0.00", Format(0, "XYZ"))
}
