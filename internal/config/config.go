// Package config loads and validates RunConfig, the external input
// shape for a single LCOE run (spec §6). Grounded on the teacher's
// internal/config/config.go: YAML-tagged on-disk structs, a
// Load/LoadUnchecked/Validate split, and a MergeX(base, override)
// overlay-by-nonzero-field helper, generalized from the teacher's
// single BatteryConfig to five input groups.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"offgrid-lcoe/internal/types"
)

// RunConfig is the on-disk/CLI configuration shape for one LCOE run.
type RunConfig struct {
	Location  LocationConfig  `yaml:"location"`
	Sizing    SizingConfig    `yaml:"sizing"`
	Capex     CapexConfig     `yaml:"capex"`
	OM        OMConfig        `yaml:"om"`
	Financial FinancialConfig `yaml:"financial"`
}

type LocationConfig struct {
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
}

type SizingConfig struct {
	SolarDCMW     float64 `yaml:"solar_dc_mw"`
	BESSPowerMW   float64 `yaml:"bess_power_mw"`
	BESSHours     float64 `yaml:"bess_hours"`
	GeneratorMW   float64 `yaml:"generator_mw"`
	LoadMW        float64 `yaml:"load_mw"`
	GeneratorType string  `yaml:"generator_type"`
}

type CapexConfig struct {
	SolarModulesPerW   float64 `yaml:"solar_modules_per_w"`
	SolarInvertersPerW float64 `yaml:"solar_inverters_per_w"`
	SolarRackingPerW   float64 `yaml:"solar_racking_per_w"`
	SolarBOSPerW       float64 `yaml:"solar_bos_per_w"`
	SolarLaborPerW     float64 `yaml:"solar_labor_per_w"`

	BESSUnitsPerKWh float64 `yaml:"bess_units_per_kwh"`
	BESSBOSPerKWh   float64 `yaml:"bess_bos_per_kwh"`
	BESSLaborPerKWh float64 `yaml:"bess_labor_per_kwh"`

	GeneratorUnitsPerKW float64 `yaml:"generator_units_per_kw"`
	GeneratorBOSPerKW   float64 `yaml:"generator_bos_per_kw"`
	GeneratorLaborPerKW float64 `yaml:"generator_labor_per_kw"`

	SysIntMicrogridPerKW float64 `yaml:"sysint_microgrid_per_kw"`
	SysIntControlsPerKW  float64 `yaml:"sysint_controls_per_kw"`
	SysIntLaborPerKW     float64 `yaml:"sysint_labor_per_kw"`

	SoftCostDevelopmentPct   float64 `yaml:"soft_cost_development_pct"`
	SoftCostEPCMPct          float64 `yaml:"soft_cost_epcm_pct"`
	SoftCostContingencyPct   float64 `yaml:"soft_cost_contingency_pct"`
	SoftCostInterconnectPct  float64 `yaml:"soft_cost_interconnect_pct"`
	SoftCostPermittingPct    float64 `yaml:"soft_cost_permitting_pct"`
	SoftCostInsurancePct     float64 `yaml:"soft_cost_insurance_pct"`
	SoftCostFinancingFeesPct float64 `yaml:"soft_cost_financing_fees_pct"`
}

type OMConfig struct {
	FixedOMSolarPerKWYr       float64 `yaml:"fixed_om_solar_per_kw_yr"`
	FixedOMBatteryPerKWYr     float64 `yaml:"fixed_om_battery_per_kw_yr"`
	FixedOMGeneratorPerKWYr   float64 `yaml:"fixed_om_generator_per_kw_yr"`
	FixedOMBOSPerKWYr         float64 `yaml:"fixed_om_bos_per_kw_yr"`
	SoftOMPct                 float64 `yaml:"soft_om_pct"`
	GeneratorVariableOMPerKWh float64 `yaml:"generator_variable_om_per_kwh"`

	FuelPricePerMMBtu float64 `yaml:"fuel_price_per_mmbtu"`
	FuelEscalatorPct  float64 `yaml:"fuel_escalator_pct"`
	OMEscalatorPct    float64 `yaml:"om_escalator_pct"`
}

type FinancialConfig struct {
	CostOfDebtPct        float64   `yaml:"cost_of_debt_pct"`
	CostOfEquityPct      float64   `yaml:"cost_of_equity_pct"`
	LeveragePct          float64   `yaml:"leverage_pct"`
	DebtTermYears        int       `yaml:"debt_term_years"`
	CombinedTaxRatePct   float64   `yaml:"combined_tax_rate_pct"`
	ITCPct               float64   `yaml:"itc_pct"`
	ConstructionYears    int       `yaml:"construction_years"`
	DepreciationSchedule []float64 `yaml:"depreciation_schedule"`
}

// DefaultRunConfig returns the documented defaults from spec §6/§9.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		Sizing: SizingConfig{
			BESSHours:     4,
			GeneratorType: "Gas Engine",
		},
		Capex: CapexConfig{
			SolarModulesPerW:   0.30,
			SolarInvertersPerW: 0.08,
			SolarRackingPerW:   0.10,
			SolarBOSPerW:       0.07,
			SolarLaborPerW:     0.10,

			BESSUnitsPerKWh: 250,
			BESSBOSPerKWh:   40,
			BESSLaborPerKWh: 30,

			GeneratorUnitsPerKW: 900,
			GeneratorBOSPerKW:   150,
			GeneratorLaborPerKW: 100,

			SysIntMicrogridPerKW: 200,
			SysIntControlsPerKW:  80,
			SysIntLaborPerKW:     60,

			SoftCostDevelopmentPct:   3,
			SoftCostEPCMPct:          5,
			SoftCostContingencyPct:   7,
			SoftCostInterconnectPct:  2,
			SoftCostPermittingPct:    1,
			SoftCostInsurancePct:     1,
			SoftCostFinancingFeesPct: 2,
		},
		OM: OMConfig{
			FixedOMSolarPerKWYr:       10,
			FixedOMBatteryPerKWYr:     6,
			FixedOMGeneratorPerKWYr:   15,
			FixedOMBOSPerKWYr:         4,
			SoftOMPct:                 1,
			GeneratorVariableOMPerKWh: 0.015,

			FuelPricePerMMBtu: 4.0,
			FuelEscalatorPct:  2.5,
			OMEscalatorPct:    2.5,
		},
		Financial: FinancialConfig{
			CostOfDebtPct:      6.5,
			CostOfEquityPct:    10,
			LeveragePct:        60,
			DebtTermYears:      20,
			CombinedTaxRatePct: 25.7,
			ITCPct:             30,
			ConstructionYears:  2,
		},
	}
}

// Load reads, merges, and validates a RunConfig from path.
func Load(path string) (*RunConfig, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked reads a RunConfig from path and overlays it onto the
// documented defaults, without validating the result. Useful for
// debugging/printing a partial config.
func LoadUnchecked(path string) (*RunConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file RunConfig
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, err
	}
	merged := MergeConfig(DefaultRunConfig(), file)
	return &merged, nil
}

// Validate checks the merged config against the invariants in spec §3/§7,
// surfacing a *types.ConfigError before any simulation work begins.
func (c *RunConfig) Validate() error {
	if c == nil {
		return &types.ConfigError{Field: "config", Msg: "is nil"}
	}
	if c.Sizing.SolarDCMW < 0 || c.Sizing.BESSPowerMW < 0 || c.Sizing.GeneratorMW < 0 || c.Sizing.LoadMW < 0 {
		return &types.ConfigError{Field: "sizing", Msg: "all capacities must be non-negative"}
	}
	if c.Sizing.LoadMW == 0 {
		return &types.ConfigError{Field: "sizing.load_mw", Msg: "must be positive"}
	}
	if _, err := types.ParseGeneratorKind(c.Sizing.GeneratorType); err != nil {
		return &types.ConfigError{Field: "sizing.generator_type", Msg: err.Error()}
	}
	if c.Financial.LeveragePct < 0 || c.Financial.LeveragePct > 100 {
		return &types.ConfigError{Field: "financial.leverage_pct", Msg: "must be in [0, 100]"}
	}
	if c.Financial.ConstructionYears <= 0 {
		return &types.ConfigError{Field: "financial.construction_years", Msg: "must be positive"}
	}
	if c.Financial.DebtTermYears <= 0 {
		return &types.ConfigError{Field: "financial.debt_term_years", Msg: "must be positive"}
	}
	if n := len(c.Financial.DepreciationSchedule); n > types.OperatingYears {
		return &types.ConfigError{Field: "financial.depreciation_schedule", Msg: fmt.Sprintf("has %d entries, want at most %d", n, types.OperatingYears)}
	}
	sum := 0.0
	for _, v := range c.Financial.DepreciationSchedule {
		sum += v
	}
	if sum > 100.0001 {
		return &types.ConfigError{Field: "financial.depreciation_schedule", Msg: "percentages must sum to <= 100"}
	}
	return nil
}

// ToSite, ToSizing, ToCapexRates, ToOMRates, and ToFinancialAssumptions
// convert the YAML-shaped config groups into the internal/types structs
// the core packages consume.

func (c RunConfig) ToSite() types.Site {
	return types.Site{Latitude: c.Location.Latitude, Longitude: c.Location.Longitude}
}

func (c RunConfig) ToSizing() (types.SystemSizing, error) {
	kind, err := types.ParseGeneratorKind(c.Sizing.GeneratorType)
	if err != nil {
		return types.SystemSizing{}, &types.ConfigError{Field: "sizing.generator_type", Msg: err.Error()}
	}
	s := types.SystemSizing{
		SolarDCMW:     c.Sizing.SolarDCMW,
		BESSPowerMW:   c.Sizing.BESSPowerMW,
		BESSHours:     c.Sizing.BESSHours,
		GeneratorMW:   c.Sizing.GeneratorMW,
		LoadMW:        c.Sizing.LoadMW,
		GeneratorKind: kind,
	}
	return s.WithDefaults(), nil
}

func (c RunConfig) ToCapexRates() types.CapexRates {
	return types.CapexRates{
		SolarModulesPerW:   c.Capex.SolarModulesPerW,
		SolarInvertersPerW: c.Capex.SolarInvertersPerW,
		SolarRackingPerW:   c.Capex.SolarRackingPerW,
		SolarBOSPerW:       c.Capex.SolarBOSPerW,
		SolarLaborPerW:     c.Capex.SolarLaborPerW,

		BESSUnitsPerKWh: c.Capex.BESSUnitsPerKWh,
		BESSBOSPerKWh:   c.Capex.BESSBOSPerKWh,
		BESSLaborPerKWh: c.Capex.BESSLaborPerKWh,

		GeneratorUnitsPerKW: c.Capex.GeneratorUnitsPerKW,
		GeneratorBOSPerKW:   c.Capex.GeneratorBOSPerKW,
		GeneratorLaborPerKW: c.Capex.GeneratorLaborPerKW,

		SysIntMicrogridPerKW: c.Capex.SysIntMicrogridPerKW,
		SysIntControlsPerKW:  c.Capex.SysIntControlsPerKW,
		SysIntLaborPerKW:     c.Capex.SysIntLaborPerKW,

		SoftCostDevelopmentPct:   c.Capex.SoftCostDevelopmentPct,
		SoftCostEPCMPct:          c.Capex.SoftCostEPCMPct,
		SoftCostContingencyPct:   c.Capex.SoftCostContingencyPct,
		SoftCostInterconnectPct:  c.Capex.SoftCostInterconnectPct,
		SoftCostPermittingPct:    c.Capex.SoftCostPermittingPct,
		SoftCostInsurancePct:     c.Capex.SoftCostInsurancePct,
		SoftCostFinancingFeesPct: c.Capex.SoftCostFinancingFeesPct,
	}
}

func (c RunConfig) ToOMRates() types.OMRates {
	return types.OMRates{
		FixedOMSolarPerKWYr:       c.OM.FixedOMSolarPerKWYr,
		FixedOMBatteryPerKWYr:     c.OM.FixedOMBatteryPerKWYr,
		FixedOMGeneratorPerKWYr:   c.OM.FixedOMGeneratorPerKWYr,
		FixedOMBOSPerKWYr:         c.OM.FixedOMBOSPerKWYr,
		SoftOMPct:                 c.OM.SoftOMPct,
		GeneratorVariableOMPerKWh: c.OM.GeneratorVariableOMPerKWh,
		FuelPricePerMMBtu:         c.OM.FuelPricePerMMBtu,
		FuelEscalatorPct:          c.OM.FuelEscalatorPct,
		OMEscalatorPct:            c.OM.OMEscalatorPct,
	}
}

func (c RunConfig) ToFinancialAssumptions() types.FinancialAssumptions {
	schedule := types.DefaultDepreciationSchedule()
	if len(c.Financial.DepreciationSchedule) > 0 {
		schedule = types.DepreciationSchedule{}
		copy(schedule[:], c.Financial.DepreciationSchedule)
	}
	return types.FinancialAssumptions{
		CostOfDebtPct:        c.Financial.CostOfDebtPct,
		CostOfEquityPct:      c.Financial.CostOfEquityPct,
		LeveragePct:          c.Financial.LeveragePct,
		DebtTermYears:        c.Financial.DebtTermYears,
		CombinedTaxRatePct:   c.Financial.CombinedTaxRatePct,
		ITCPct:               c.Financial.ITCPct,
		ConstructionYears:    c.Financial.ConstructionYears,
		DepreciationSchedule: schedule,
	}
}

// MergeConfig overlays every non-zero field of override onto base,
// group by group. Mirrors the teacher's MergeBattery, generalized to
// RunConfig's five nested groups.
func MergeConfig(base, override RunConfig) RunConfig {
	out := base
	out.Location = mergeLocation(base.Location, override.Location)
	out.Sizing = mergeSizing(base.Sizing, override.Sizing)
	out.Capex = mergeCapex(base.Capex, override.Capex)
	out.OM = mergeOM(base.OM, override.OM)
	out.Financial = mergeFinancial(base.Financial, override.Financial)
	return out
}

func mergeLocation(base, o LocationConfig) LocationConfig {
	out := base
	if o.Latitude != 0 {
		out.Latitude = o.Latitude
	}
	if o.Longitude != 0 {
		out.Longitude = o.Longitude
	}
	return out
}

func mergeSizing(base, o SizingConfig) SizingConfig {
	out := base
	if o.SolarDCMW != 0 {
		out.SolarDCMW = o.SolarDCMW
	}
	if o.BESSPowerMW != 0 {
		out.BESSPowerMW = o.BESSPowerMW
	}
	if o.BESSHours != 0 {
		out.BESSHours = o.BESSHours
	}
	if o.GeneratorMW != 0 {
		out.GeneratorMW = o.GeneratorMW
	}
	if o.LoadMW != 0 {
		out.LoadMW = o.LoadMW
	}
	if o.GeneratorType != "" {
		out.GeneratorType = o.GeneratorType
	}
	return out
}

func mergeCapex(base, o CapexConfig) CapexConfig {
	out := base
	if o.SolarModulesPerW != 0 {
		out.SolarModulesPerW = o.SolarModulesPerW
	}
	if o.SolarInvertersPerW != 0 {
		out.SolarInvertersPerW = o.SolarInvertersPerW
	}
	if o.SolarRackingPerW != 0 {
		out.SolarRackingPerW = o.SolarRackingPerW
	}
	if o.SolarBOSPerW != 0 {
		out.SolarBOSPerW = o.SolarBOSPerW
	}
	if o.SolarLaborPerW != 0 {
		out.SolarLaborPerW = o.SolarLaborPerW
	}
	if o.BESSUnitsPerKWh != 0 {
		out.BESSUnitsPerKWh = o.BESSUnitsPerKWh
	}
	if o.BESSBOSPerKWh != 0 {
		out.BESSBOSPerKWh = o.BESSBOSPerKWh
	}
	if o.BESSLaborPerKWh != 0 {
		out.BESSLaborPerKWh = o.BESSLaborPerKWh
	}
	if o.GeneratorUnitsPerKW != 0 {
		out.GeneratorUnitsPerKW = o.GeneratorUnitsPerKW
	}
	if o.GeneratorBOSPerKW != 0 {
		out.GeneratorBOSPerKW = o.GeneratorBOSPerKW
	}
	if o.GeneratorLaborPerKW != 0 {
		out.GeneratorLaborPerKW = o.GeneratorLaborPerKW
	}
	if o.SysIntMicrogridPerKW != 0 {
		out.SysIntMicrogridPerKW = o.SysIntMicrogridPerKW
	}
	if o.SysIntControlsPerKW != 0 {
		out.SysIntControlsPerKW = o.SysIntControlsPerKW
	}
	if o.SysIntLaborPerKW != 0 {
		out.SysIntLaborPerKW = o.SysIntLaborPerKW
	}
	if o.SoftCostDevelopmentPct != 0 {
		out.SoftCostDevelopmentPct = o.SoftCostDevelopmentPct
	}
	if o.SoftCostEPCMPct != 0 {
		out.SoftCostEPCMPct = o.SoftCostEPCMPct
	}
	if o.SoftCostContingencyPct != 0 {
		out.SoftCostContingencyPct = o.SoftCostContingencyPct
	}
	if o.SoftCostInterconnectPct != 0 {
		out.SoftCostInterconnectPct = o.SoftCostInterconnectPct
	}
	if o.SoftCostPermittingPct != 0 {
		out.SoftCostPermittingPct = o.SoftCostPermittingPct
	}
	if o.SoftCostInsurancePct != 0 {
		out.SoftCostInsurancePct = o.SoftCostInsurancePct
	}
	if o.SoftCostFinancingFeesPct != 0 {
		out.SoftCostFinancingFeesPct = o.SoftCostFinancingFeesPct
	}
	return out
}

func mergeOM(base, o OMConfig) OMConfig {
	out := base
	if o.FixedOMSolarPerKWYr != 0 {
		out.FixedOMSolarPerKWYr = o.FixedOMSolarPerKWYr
	}
	if o.FixedOMBatteryPerKWYr != 0 {
		out.FixedOMBatteryPerKWYr = o.FixedOMBatteryPerKWYr
	}
	if o.FixedOMGeneratorPerKWYr != 0 {
		out.FixedOMGeneratorPerKWYr = o.FixedOMGeneratorPerKWYr
	}
	if o.FixedOMBOSPerKWYr != 0 {
		out.FixedOMBOSPerKWYr = o.FixedOMBOSPerKWYr
	}
	if o.SoftOMPct != 0 {
		out.SoftOMPct = o.SoftOMPct
	}
	if o.GeneratorVariableOMPerKWh != 0 {
		out.GeneratorVariableOMPerKWh = o.GeneratorVariableOMPerKWh
	}
	if o.FuelPricePerMMBtu != 0 {
		out.FuelPricePerMMBtu = o.FuelPricePerMMBtu
	}
	if o.FuelEscalatorPct != 0 {
		out.FuelEscalatorPct = o.FuelEscalatorPct
	}
	if o.OMEscalatorPct != 0 {
		out.OMEscalatorPct = o.OMEscalatorPct
	}
	return out
}

func mergeFinancial(base, o FinancialConfig) FinancialConfig {
	out := base
	if o.CostOfDebtPct != 0 {
		out.CostOfDebtPct = o.CostOfDebtPct
	}
	if o.CostOfEquityPct != 0 {
		out.CostOfEquityPct = o.CostOfEquityPct
	}
	if o.LeveragePct != 0 {
		out.LeveragePct = o.LeveragePct
	}
	if o.DebtTermYears != 0 {
		out.DebtTermYears = o.DebtTermYears
	}
	if o.CombinedTaxRatePct != 0 {
		out.CombinedTaxRatePct = o.CombinedTaxRatePct
	}
	if o.ITCPct != 0 {
		out.ITCPct = o.ITCPct
	}
	if o.ConstructionYears != 0 {
		out.ConstructionYears = o.ConstructionYears
	}
	if len(o.DepreciationSchedule) > 0 {
		out.DepreciationSchedule = o.DepreciationSchedule
	}
	return out
}
