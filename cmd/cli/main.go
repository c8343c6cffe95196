// Command cli is the single-run LCOE CLI (spec §6): it takes sizing and
// site plus optional overrides for every config field except the
// depreciation schedule, prints "LCOE: $X.XX/MWh" to stdout, and exits
// 0 on success, non-zero on fatal errors. Grounded on the teacher's
// cmd/cli/main.go flag.NewFlagSet dispatch and panic-on-fatal-error
// style, generalized from its two subcommands (backtest, rank) to
// RunConfig's flat flag surface mirroring field names in kebab-case.
// The depreciation schedule has no flag; it is set only through the
// -config YAML file.
package main

import (
	"flag"
	"fmt"
	"os"

	"offgrid-lcoe/internal/config"
	"offgrid-lcoe/internal/dispatch"
	"offgrid-lcoe/internal/proforma"
	"offgrid-lcoe/internal/solver"
	"offgrid-lcoe/internal/types"
	"offgrid-lcoe/internal/weather"
)

func main() {
	fs := flag.NewFlagSet("lcoe", flag.ExitOnError)

	def := config.DefaultRunConfig()

	fixturePath := fs.String("pv-fixture", "", "path to a JSON fixture of 8760 normalized PV values (default: synthetic clear-sky provider)")
	configPath := fs.String("config", "", "path to a YAML RunConfig; CLI flags override it")

	latitude := fs.Float64("latitude", 0, "site latitude, decimal degrees")
	longitude := fs.Float64("longitude", 0, "site longitude, decimal degrees")

	solarDCMW := fs.Float64("solar-dc-mw", 0, "solar PV nameplate, MW-DC")
	bessPowerMW := fs.Float64("bess-power-mw", 0, "battery power rating, MW")
	bessHours := fs.Float64("bess-hours", def.Sizing.BESSHours, "battery duration, hours")
	generatorMW := fs.Float64("generator-mw", 0, "backup generator capacity, MW")
	loadMW := fs.Float64("load-mw", 0, "data center load, MW (required)")
	generatorType := fs.String("generator-type", def.Sizing.GeneratorType, `"Gas Engine" or "Gas Turbine"`)

	costOfDebtPct := fs.Float64("cost-of-debt-pct", def.Financial.CostOfDebtPct, "annual cost of debt, %")
	costOfEquityPct := fs.Float64("cost-of-equity-pct", def.Financial.CostOfEquityPct, "annual cost of equity, %")
	leveragePct := fs.Float64("leverage-pct", def.Financial.LeveragePct, "debt as % of total CAPEX")
	debtTermYears := fs.Int("debt-term-years", def.Financial.DebtTermYears, "debt amortization term, years")
	combinedTaxRatePct := fs.Float64("combined-tax-rate-pct", def.Financial.CombinedTaxRatePct, "combined federal+state tax rate, %")
	itcPct := fs.Float64("itc-pct", def.Financial.ITCPct, "Investment Tax Credit, % of renewable CAPEX")
	constructionYears := fs.Int("construction-years", def.Financial.ConstructionYears, "construction period, years")

	solarModulesPerW := fs.Float64("solar-modules-per-w", def.Capex.SolarModulesPerW, "solar module cost, $/W-DC")
	solarInvertersPerW := fs.Float64("solar-inverters-per-w", def.Capex.SolarInvertersPerW, "solar inverter cost, $/W-DC")
	solarRackingPerW := fs.Float64("solar-racking-per-w", def.Capex.SolarRackingPerW, "solar racking cost, $/W-DC")
	solarBOSPerW := fs.Float64("solar-bos-per-w", def.Capex.SolarBOSPerW, "solar balance-of-system cost, $/W-DC")
	solarLaborPerW := fs.Float64("solar-labor-per-w", def.Capex.SolarLaborPerW, "solar install labor cost, $/W-DC")

	bessUnitsPerKWh := fs.Float64("bess-units-per-kwh", def.Capex.BESSUnitsPerKWh, "battery unit cost, $/kWh")
	bessBOSPerKWh := fs.Float64("bess-bos-per-kwh", def.Capex.BESSBOSPerKWh, "battery balance-of-system cost, $/kWh")
	bessLaborPerKWh := fs.Float64("bess-labor-per-kwh", def.Capex.BESSLaborPerKWh, "battery install labor cost, $/kWh")

	generatorUnitsPerKW := fs.Float64("generator-units-per-kw", def.Capex.GeneratorUnitsPerKW, "generator unit cost, $/kW")
	generatorBOSPerKW := fs.Float64("generator-bos-per-kw", def.Capex.GeneratorBOSPerKW, "generator balance-of-system cost, $/kW")
	generatorLaborPerKW := fs.Float64("generator-labor-per-kw", def.Capex.GeneratorLaborPerKW, "generator install labor cost, $/kW")

	sysIntMicrogridPerKW := fs.Float64("sysint-microgrid-per-kw", def.Capex.SysIntMicrogridPerKW, "microgrid controller cost, $/kW")
	sysIntControlsPerKW := fs.Float64("sysint-controls-per-kw", def.Capex.SysIntControlsPerKW, "system integration controls cost, $/kW")
	sysIntLaborPerKW := fs.Float64("sysint-labor-per-kw", def.Capex.SysIntLaborPerKW, "system integration labor cost, $/kW")

	softCostDevelopmentPct := fs.Float64("soft-cost-development-pct", def.Capex.SoftCostDevelopmentPct, "development soft cost, % of hard cost")
	softCostEPCMPct := fs.Float64("soft-cost-epcm-pct", def.Capex.SoftCostEPCMPct, "EPCM soft cost, % of hard cost")
	softCostContingencyPct := fs.Float64("soft-cost-contingency-pct", def.Capex.SoftCostContingencyPct, "contingency soft cost, % of hard cost")
	softCostInterconnectPct := fs.Float64("soft-cost-interconnect-pct", def.Capex.SoftCostInterconnectPct, "interconnection soft cost, % of hard cost")
	softCostPermittingPct := fs.Float64("soft-cost-permitting-pct", def.Capex.SoftCostPermittingPct, "permitting soft cost, % of hard cost")
	softCostInsurancePct := fs.Float64("soft-cost-insurance-pct", def.Capex.SoftCostInsurancePct, "insurance soft cost, % of hard cost")
	softCostFinancingFeesPct := fs.Float64("soft-cost-financing-fees-pct", def.Capex.SoftCostFinancingFeesPct, "financing fees soft cost, % of hard cost")

	fixedOMSolarPerKWYr := fs.Float64("fixed-om-solar-per-kw-yr", def.OM.FixedOMSolarPerKWYr, "solar fixed O&M, $/kW-yr")
	fixedOMBatteryPerKWYr := fs.Float64("fixed-om-battery-per-kw-yr", def.OM.FixedOMBatteryPerKWYr, "battery fixed O&M, $/kW-yr")
	fixedOMGeneratorPerKWYr := fs.Float64("fixed-om-generator-per-kw-yr", def.OM.FixedOMGeneratorPerKWYr, "generator fixed O&M, $/kW-yr")
	fixedOMBOSPerKWYr := fs.Float64("fixed-om-bos-per-kw-yr", def.OM.FixedOMBOSPerKWYr, "balance-of-system fixed O&M, $/kW-yr")
	softOMPct := fs.Float64("soft-om-pct", def.OM.SoftOMPct, "soft O&M, % of fixed O&M")
	generatorVariableOMPerKWh := fs.Float64("generator-variable-om-per-kwh", def.OM.GeneratorVariableOMPerKWh, "generator variable O&M, $/kWh")

	fuelPricePerMMBtu := fs.Float64("fuel-price-per-mmbtu", def.OM.FuelPricePerMMBtu, "base-year fuel price, $/MMBtu")
	fuelEscalatorPct := fs.Float64("fuel-escalator-pct", def.OM.FuelEscalatorPct, "annual fuel price escalator, %")
	omEscalatorPct := fs.Float64("om-escalator-pct", def.OM.OMEscalatorPct, "annual O&M escalator, %")

	_ = fs.Parse(os.Args[1:])

	cfg := config.MergeConfig(def, config.RunConfig{
		Location: config.LocationConfig{Latitude: *latitude, Longitude: *longitude},
		Sizing: config.SizingConfig{
			SolarDCMW:     *solarDCMW,
			BESSPowerMW:   *bessPowerMW,
			BESSHours:     *bessHours,
			GeneratorMW:   *generatorMW,
			LoadMW:        *loadMW,
			GeneratorType: *generatorType,
		},
		Financial: config.FinancialConfig{
			CostOfDebtPct:      *costOfDebtPct,
			CostOfEquityPct:    *costOfEquityPct,
			LeveragePct:        *leveragePct,
			DebtTermYears:      *debtTermYears,
			CombinedTaxRatePct: *combinedTaxRatePct,
			ITCPct:             *itcPct,
			ConstructionYears:  *constructionYears,
		},
		Capex: config.CapexConfig{
			SolarModulesPerW:   *solarModulesPerW,
			SolarInvertersPerW: *solarInvertersPerW,
			SolarRackingPerW:   *solarRackingPerW,
			SolarBOSPerW:       *solarBOSPerW,
			SolarLaborPerW:     *solarLaborPerW,

			BESSUnitsPerKWh: *bessUnitsPerKWh,
			BESSBOSPerKWh:   *bessBOSPerKWh,
			BESSLaborPerKWh: *bessLaborPerKWh,

			GeneratorUnitsPerKW: *generatorUnitsPerKW,
			GeneratorBOSPerKW:   *generatorBOSPerKW,
			GeneratorLaborPerKW: *generatorLaborPerKW,

			SysIntMicrogridPerKW: *sysIntMicrogridPerKW,
			SysIntControlsPerKW:  *sysIntControlsPerKW,
			SysIntLaborPerKW:     *sysIntLaborPerKW,

			SoftCostDevelopmentPct:   *softCostDevelopmentPct,
			SoftCostEPCMPct:          *softCostEPCMPct,
			SoftCostContingencyPct:   *softCostContingencyPct,
			SoftCostInterconnectPct:  *softCostInterconnectPct,
			SoftCostPermittingPct:    *softCostPermittingPct,
			SoftCostInsurancePct:     *softCostInsurancePct,
			SoftCostFinancingFeesPct: *softCostFinancingFeesPct,
		},
		OM: config.OMConfig{
			FixedOMSolarPerKWYr:       *fixedOMSolarPerKWYr,
			FixedOMBatteryPerKWYr:     *fixedOMBatteryPerKWYr,
			FixedOMGeneratorPerKWYr:   *fixedOMGeneratorPerKWYr,
			FixedOMBOSPerKWYr:         *fixedOMBOSPerKWYr,
			SoftOMPct:                 *softOMPct,
			GeneratorVariableOMPerKWh: *generatorVariableOMPerKWh,
			FuelPricePerMMBtu:         *fuelPricePerMMBtu,
			FuelEscalatorPct:          *fuelEscalatorPct,
			OMEscalatorPct:            *omEscalatorPct,
		},
	})

	// Precedence is flags over file over defaults. Because flag.Float64
	// can't distinguish "user passed 0" from "flag left at its zero
	// default", a flag whose value happens to equal its default is
	// indistinguishable from "not set" and a YAML file's explicit value
	// wins for that one field -- the same ambiguity the teacher's
	// MergeBattery accepts for its own zero-valued fields.
	if *configPath != "" {
		fileCfg, err := config.LoadUnchecked(*configPath)
		if err != nil {
			fail(err)
		}
		cfg = config.MergeConfig(*fileCfg, cfg)
	}

	if err := cfg.Validate(); err != nil {
		fail(err)
	}

	sizing, err := cfg.ToSizing()
	if err != nil {
		fail(err)
	}

	var provider weather.Provider
	if *fixturePath != "" {
		provider = weather.FixtureProvider{Path: *fixturePath}
	} else {
		provider = weather.NewClearSkyProvider()
	}

	pv, err := provider.FetchNormalizedPV(cfg.ToSite())
	if err != nil {
		fail(err)
	}

	out, err := dispatch.Run(dispatch.Input{PV: pv, Sizing: sizing})
	if err != nil {
		fail(err)
	}

	in := proforma.Input{
		Annual:    out.Annual,
		Sizing:    sizing,
		Capex:     cfg.ToCapexRates(),
		OM:        cfg.ToOMRates(),
		Financial: cfg.ToFinancialAssumptions(),
	}
	sol, err := solver.SolveWith(in)
	if _, ok := err.(*types.SolverNonConvergence); err != nil && !ok {
		fail(err)
	} else if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	fmt.Printf("LCOE: $%.2f/MWh\n", sol.LCOE)
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
