package types

// CapexRates holds the $/W, $/kWh, and $/kW unit-cost assumptions for the
// CAPEX roll-up (spec §4.3 table). All percentages are expressed 0..100.
type CapexRates struct {
	// Solar, $/W.
	SolarModulesPerW   float64
	SolarInvertersPerW float64
	SolarRackingPerW   float64
	SolarBOSPerW       float64
	SolarLaborPerW     float64

	// BESS, $/kWh.
	BESSUnitsPerKWh float64
	BESSBOSPerKWh   float64
	BESSLaborPerKWh float64

	// Generator, $/kW.
	GeneratorUnitsPerKW float64
	GeneratorBOSPerKW   float64
	GeneratorLaborPerKW float64

	// System integration, $/kW of load.
	SysIntMicrogridPerKW float64
	SysIntControlsPerKW  float64
	SysIntLaborPerKW     float64

	// Soft costs, % of hard subtotal.
	SoftCostDevelopmentPct   float64
	SoftCostEPCMPct          float64
	SoftCostContingencyPct   float64
	SoftCostInterconnectPct  float64
	SoftCostPermittingPct    float64
	SoftCostInsurancePct     float64
	SoftCostFinancingFeesPct float64
}

// OMRates holds base-year O&M rates and escalators (spec §4.3/§6).
type OMRates struct {
	FixedOMSolarPerKWYr      float64
	FixedOMBatteryPerKWYr    float64
	FixedOMGeneratorPerKWYr  float64
	FixedOMBOSPerKWYr        float64
	SoftOMPct                float64
	GeneratorVariableOMPerKWh float64

	FuelPricePerMMBtu float64
	FuelEscalatorPct  float64
	OMEscalatorPct    float64
}

// FinancialAssumptions holds the debt/equity/tax/depreciation inputs
// (spec §4.3, §6).
type FinancialAssumptions struct {
	CostOfDebtPct        float64
	CostOfEquityPct      float64
	LeveragePct          float64
	DebtTermYears        int
	CombinedTaxRatePct   float64
	ITCPct               float64
	ConstructionYears    int
	DepreciationSchedule DepreciationSchedule
}
