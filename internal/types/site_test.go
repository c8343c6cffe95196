package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGeneratorKind(t *testing.T) {
	kind, err := ParseGeneratorKind("Gas Turbine")
	require.NoError(t, err)
	assert.Equal(t, GasTurbine, kind)

	kind, err = ParseGeneratorKind("")
	require.NoError(t, err)
	assert.Equal(t, GasEngine, kind)

	_, err = ParseGeneratorKind("Diesel")
	assert.Error(t, err)
}

func TestSystemSizing_BESSEnergyMWh(t *testing.T) {
	s := SystemSizing{BESSPowerMW: 100, BESSHours: 4}
	assert.InDelta(t, 400, s.BESSEnergyMWh(), 1e-9)
}

func TestSystemSizing_Validate(t *testing.T) {
	ok := SystemSizing{SolarDCMW: 1, LoadMW: 1}
	assert.NoError(t, ok.Validate())

	bad := SystemSizing{SolarDCMW: -1, LoadMW: 1}
	assert.Error(t, bad.Validate())
}

func TestSystemSizing_WithDefaults(t *testing.T) {
	s := SystemSizing{}.WithDefaults()
	assert.InDelta(t, 4, s.BESSHours, 1e-9)

	s = SystemSizing{BESSHours: 6}.WithDefaults()
	assert.InDelta(t, 6, s.BESSHours, 1e-9)
}

func TestGeneratorKind_HeatRate(t *testing.T) {
	assert.InDelta(t, 8989, GasEngine.HeatRateBTUPerKWh(), 1e-9)
	assert.InDelta(t, 9630, GasTurbine.HeatRateBTUPerKWh(), 1e-9)
}
