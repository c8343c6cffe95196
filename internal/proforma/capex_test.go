package proforma

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"offgrid-lcoe/internal/types"
)

func TestComputeCapex_SolarRateAppliesDirectlyToMW(t *testing.T) {
	sizing := types.SystemSizing{SolarDCMW: 10}
	rates := types.CapexRates{SolarModulesPerW: 0.3, SolarInvertersPerW: 0.1}

	b := ComputeCapex(sizing, rates)
	assert.InDelta(t, 4.0, b.SolarM, 1e-9) // (0.3+0.1) * 10 MW
}

func TestComputeCapex_BESSGeneratorSysIntScaleByThousand(t *testing.T) {
	sizing := types.SystemSizing{BESSPowerMW: 100, BESSHours: 4, GeneratorMW: 50, LoadMW: 200}
	rates := types.CapexRates{
		BESSUnitsPerKWh:     200,
		GeneratorUnitsPerKW: 900,
		SysIntMicrogridPerKW: 100,
	}

	b := ComputeCapex(sizing, rates)
	assert.InDelta(t, 200*400/1000.0, b.BESSM, 1e-9)        // 400 MWh BESS energy basis
	assert.InDelta(t, 900*50/1000.0, b.GeneratorM, 1e-9)    // 50 MW generator basis
	assert.InDelta(t, 100*200/1000.0, b.SystemIntegrationM, 1e-9) // 200 MW load basis
}

func TestComputeCapex_SoftCostsAndTotal(t *testing.T) {
	sizing := types.SystemSizing{SolarDCMW: 10}
	rates := types.CapexRates{SolarModulesPerW: 1, SoftCostContingencyPct: 10}

	b := ComputeCapex(sizing, rates)
	assert.InDelta(t, 10, b.HardSubtotalM, 1e-9)
	assert.InDelta(t, 1, b.SoftCostM, 1e-9)
	assert.InDelta(t, 11, b.TotalM, 1e-9)
}

func TestComputeCapex_RenewableProportion(t *testing.T) {
	sizing := types.SystemSizing{SolarDCMW: 10, BESSPowerMW: 10, BESSHours: 4, GeneratorMW: 10, LoadMW: 10}
	rates := types.CapexRates{
		SolarModulesPerW:    1,
		BESSUnitsPerKWh:     100,
		GeneratorUnitsPerKW: 1000,
	}

	b := ComputeCapex(sizing, rates)
	want := (b.SolarM + b.BESSM) / b.HardSubtotalM
	assert.InDelta(t, want, b.RenewableProportion, 1e-9)
	assert.Greater(t, b.RenewableProportion, 0.0)
	assert.Less(t, b.RenewableProportion, 1.0)
}

func TestComputeCapex_ZeroHardSubtotalLeavesRenewableProportionZero(t *testing.T) {
	b := ComputeCapex(types.SystemSizing{}, types.CapexRates{})
	assert.InDelta(t, 0, b.RenewableProportion, 1e-9)
}
