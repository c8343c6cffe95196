package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestACScaleMW_Year1NoDegradation(t *testing.T) {
	// Year 1: no degradation applied yet, only the DC/AC derate.
	got := ACScaleMW(120, 1)
	assert.InDelta(t, 100, got, 1e-9)
}

func TestACScaleMW_LinearDegradation(t *testing.T) {
	// Year 21 would be 20 full years of 0.5%/yr degradation = 10%.
	got := ACScaleMW(120, 21)
	assert.InDelta(t, 90, got, 1e-9)
}

func TestBatteryCapacityMWh_TotalFadeOverTwentyYears(t *testing.T) {
	// Year 20 has 19 years of degradation applied: 19/20 * 0.35%.
	got := BatteryCapacityMWh(10, 4, 20)
	want := 40 * (1 - BatteryDegradationPerYear*19)
	assert.InDelta(t, want, got, 1e-9)
}

func TestOneWayEfficiency_SquaresToRoundTrip(t *testing.T) {
	eff := OneWayEfficiency()
	assert.InDelta(t, RoundTripEfficiency, eff*eff, 1e-9)
}
