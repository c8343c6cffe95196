package proforma

import "offgrid-lcoe/internal/types"

// CapexBreakdown is the CAPEX roll-up table from spec §4.3, all figures
// in $M.
type CapexBreakdown struct {
	SolarM              float64
	BESSM               float64
	GeneratorM          float64
	SystemIntegrationM  float64
	HardSubtotalM       float64
	SoftCostM           float64
	TotalM              float64
	RenewableProportion float64 // (solar + bess) / hard subtotal
}

// ComputeCapex rolls up the five CAPEX buckets. Solar's rate is $/W, so a
// 1 MW_DC array times a $/W rate lands directly in $M (MW * 1e6 W/MW *
// $/W / 1e6 $/$M == MW * $/W). BESS/Generator/SystemIntegration rates are
// $/kW or $/kWh, so the MW-denominated basis is divided by 1,000 to reach
// $M on the same 1e6-W / 1e3-kW scaling.
func ComputeCapex(sizing types.SystemSizing, rates types.CapexRates) CapexBreakdown {
	var b CapexBreakdown

	b.SolarM = (rates.SolarModulesPerW + rates.SolarInvertersPerW + rates.SolarRackingPerW +
		rates.SolarBOSPerW + rates.SolarLaborPerW) * sizing.SolarDCMW

	bessRateSum := rates.BESSUnitsPerKWh + rates.BESSBOSPerKWh + rates.BESSLaborPerKWh
	b.BESSM = bessRateSum * sizing.BESSEnergyMWh() / 1000

	genRateSum := rates.GeneratorUnitsPerKW + rates.GeneratorBOSPerKW + rates.GeneratorLaborPerKW
	b.GeneratorM = genRateSum * sizing.GeneratorMW / 1000

	sysIntRateSum := rates.SysIntMicrogridPerKW + rates.SysIntControlsPerKW + rates.SysIntLaborPerKW
	b.SystemIntegrationM = sysIntRateSum * sizing.LoadMW / 1000

	b.HardSubtotalM = b.SolarM + b.BESSM + b.GeneratorM + b.SystemIntegrationM

	softPct := rates.SoftCostDevelopmentPct + rates.SoftCostEPCMPct + rates.SoftCostContingencyPct +
		rates.SoftCostInterconnectPct + rates.SoftCostPermittingPct + rates.SoftCostInsurancePct +
		rates.SoftCostFinancingFeesPct
	b.SoftCostM = softPct / 100 * b.HardSubtotalM

	b.TotalM = b.HardSubtotalM + b.SoftCostM

	if b.HardSubtotalM != 0 {
		b.RenewableProportion = (b.SolarM + b.BESSM) / b.HardSubtotalM
	}

	return b
}
