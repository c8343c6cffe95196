package ensemble

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"offgrid-lcoe/internal/types"
	"offgrid-lcoe/internal/weather"
)

func defaultRates() Rates {
	return Rates{
		Capex: types.CapexRates{SolarModulesPerW: 0.3, GeneratorUnitsPerKW: 900},
		OM:    types.OMRates{FuelPricePerMMBtu: 4, FuelEscalatorPct: 2.5, OMEscalatorPct: 2.5},
		Financial: types.FinancialAssumptions{
			CostOfDebtPct:        6.5,
			CostOfEquityPct:      10,
			LeveragePct:          60,
			DebtTermYears:        20,
			CombinedTaxRatePct:   25.7,
			ITCPct:               30,
			ConstructionYears:    2,
			DepreciationSchedule: types.DefaultDepreciationSchedule(),
		},
	}
}

func TestRun_ReturnsOneResultPerCase(t *testing.T) {
	cases := []Case{
		{Site: types.Site{Latitude: 31.7, Longitude: -106.4}, Sizing: types.SystemSizing{SolarDCMW: 10, GeneratorMW: 5, LoadMW: 1}.WithDefaults()},
		{Site: types.Site{Latitude: 35.2, Longitude: -101.8}, Sizing: types.SystemSizing{SolarDCMW: 20, GeneratorMW: 10, LoadMW: 2}.WithDefaults()},
	}
	provider := weather.ConstantProvider{ValueMW: 0.4}

	results, err := Run(cases, provider, defaultRates(), 2, nil)
	require.NoError(t, err)
	require.Len(t, results, 2)
	for i, r := range results {
		assert.Equal(t, cases[i].Site, r.Site)
	}
}

func TestRun_StreamsProgressForEveryCase(t *testing.T) {
	cases := []Case{
		{Site: types.Site{Latitude: 31.7, Longitude: -106.4}, Sizing: types.SystemSizing{SolarDCMW: 10, GeneratorMW: 5, LoadMW: 1}.WithDefaults()},
		{Site: types.Site{Latitude: 35.2, Longitude: -101.8}, Sizing: types.SystemSizing{SolarDCMW: 20, GeneratorMW: 10, LoadMW: 2}.WithDefaults()},
	}
	provider := weather.ConstantProvider{ValueMW: 0.4}

	progress := make(chan Progress)
	done := make(chan error, 1)
	go func() {
		_, err := Run(cases, provider, defaultRates(), 1, progress)
		done <- err
	}()

	count := 0
	for range progress {
		count++
	}
	require.NoError(t, <-done)
	assert.Equal(t, len(cases), count)
}

func TestRun_DefaultsConcurrencyWhenNonPositive(t *testing.T) {
	cases := []Case{
		{Site: types.Site{Latitude: 31.7, Longitude: -106.4}, Sizing: types.SystemSizing{SolarDCMW: 5, GeneratorMW: 5, LoadMW: 1}.WithDefaults()},
	}
	results, err := Run(cases, weather.ConstantProvider{ValueMW: 0.4}, defaultRates(), 0, nil)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestRun_PropagatesWeatherError(t *testing.T) {
	cases := []Case{
		{Site: types.Site{Latitude: 1000, Longitude: 0}, Sizing: types.SystemSizing{LoadMW: 1}.WithDefaults()},
	}
	_, err := Run(cases, weather.NewClearSkyProvider(), defaultRates(), 1, nil)
	assert.Error(t, err)
}

func TestParetoFrontier_KeepsOnlyNonDominatedPoints(t *testing.T) {
	results := []CaseResult{
		{RenewablePct: 10, LCOE: 120},
		{RenewablePct: 30, LCOE: 90}, // global min LCOE
		{RenewablePct: 50, LCOE: 110},
		{RenewablePct: 70, LCOE: 100},
		{RenewablePct: 90, LCOE: 180},
	}

	frontier := ParetoFrontier(results)

	// (50, 110) is dominated by (70, 100): higher renewable% at a lower
	// LCOE. Every other point is on the frontier.
	want := []CaseResult{
		{RenewablePct: 10, LCOE: 120},
		{RenewablePct: 30, LCOE: 90},
		{RenewablePct: 70, LCOE: 100},
		{RenewablePct: 90, LCOE: 180},
	}
	assert.Equal(t, want, frontier)
}

func TestParetoFrontier_SingleResultIsItsOwnFrontier(t *testing.T) {
	results := []CaseResult{{RenewablePct: 40, LCOE: 150}}
	frontier := ParetoFrontier(results)
	assert.Equal(t, results, frontier)
}

func TestParetoFrontier_EmptyInput(t *testing.T) {
	assert.Nil(t, ParetoFrontier(nil))
}
