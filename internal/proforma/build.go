// Package proforma implements C3: the pro-forma financial model (spec
// §4.3). Build is a pure function -- no I/O, no package-level state --
// grounded on the teacher's internal/backtest/ledger.go row-building
// style, generalized from a single equity curve to the full 22-row
// construction+operating+NPV table the spec calls for.
//
// Per spec §9's redesign note, construction follows a strict two-pass
// shape: pass one fills every operating-year array from the annual
// aggregates and the escalation curves (independent per year, so it
// reads like a vectorized computation even though Go writes it as a
// loop); pass two walks the operating years once, in order, to chain
// the debt balance, which is the one row that is genuinely sequential.
package proforma

import (
	"math"

	"offgrid-lcoe/internal/types"
)

// Input bundles everything Build needs for one pro-forma evaluation at
// a trial LCOE.
type Input struct {
	Annual    [types.OperatingYears]types.AnnualAggregate
	Sizing    types.SystemSizing
	Capex     types.CapexRates
	OM        types.OMRates
	Financial types.FinancialAssumptions
	LCOE      float64
}

// Build constructs the full ProFormaTable for one trial LCOE.
func Build(in Input) (types.ProFormaTable, error) {
	T := in.Financial.ConstructionYears
	if T <= 0 {
		return types.ProFormaTable{}, &types.ConfigError{Field: "construction_years", Msg: "must be positive"}
	}
	if in.Financial.DebtTermYears <= 0 {
		return types.ProFormaTable{}, &types.ConfigError{Field: "debt_term_years", Msg: "must be positive"}
	}

	capex := ComputeCapex(in.Sizing, in.Capex)
	if capex.TotalM <= 0 {
		return types.ProFormaTable{}, &types.ConfigError{Field: "total_capex", Msg: "must be positive"}
	}
	if capex.HardSubtotalM == 0 && in.Financial.ITCPct != 0 {
		return types.ProFormaTable{}, &types.ConfigError{Field: "itc_pct", Msg: "nonzero ITC requires a nonzero hard CAPEX subtotal"}
	}

	table := types.ProFormaTable{ConstructionYears: T, OperatingYears: types.OperatingYears, LCOE: in.LCOE}
	newSeries := func() types.ProFormaSeries { return types.NewSeries(T) }

	table.CapitalExpenditure = newSeries()
	table.DebtContribution = newSeries()
	table.EquityCapex = newSeries()
	table.DebtOutstandingYearStart = newSeries()
	table.InterestExpense = newSeries()
	table.DebtService = newSeries()
	table.PrincipalPayment = newSeries()
	table.FederalITC = newSeries()
	table.DepreciationMACRS = newSeries()
	table.FuelUnitCost = newSeries()
	table.FixedOMRateSolar = newSeries()
	table.FixedOMRateBattery = newSeries()
	table.FixedOMRateGenerator = newSeries()
	table.FixedOMRateBOS = newSeries()
	table.SoftOMRatePct = newSeries()
	table.GeneratorVariableOMRate = newSeries()
	table.FixedOMCost = newSeries()
	table.FuelCost = newSeries()
	table.VariableOMCost = newSeries()
	table.TotalOperatingCosts = newSeries()
	table.Revenue = newSeries()
	table.EBITDA = newSeries()
	table.TaxableIncome = newSeries()
	table.TaxBenefit = newSeries()
	table.AfterTaxEquityCashFlow = newSeries()
	table.SolarNetMWh = newSeries()
	table.BESSDischargedMWh = newSeries()
	table.GeneratorOutputMWh = newSeries()
	table.GeneratorFuelMMBtu = newSeries()
	table.LoadServedMWh = newSeries()

	debt := capex.TotalM * in.Financial.LeveragePct / 100
	equity := capex.TotalM - debt

	for i := 0; i < T; i++ {
		y := types.ProFormaYear(i - T + 1) // -(T-1) .. 0
		table.CapitalExpenditure.Set(y, -capex.TotalM/float64(T))
		table.DebtContribution.Set(y, debt/float64(T))
		perYearEquityCapex := -equity / float64(T)
		table.EquityCapex.Set(y, perYearEquityCapex)
		table.AfterTaxEquityCashFlow.Set(y, perYearEquityCapex)
	}

	itc := capex.TotalM * capex.RenewableProportion * in.Financial.ITCPct / 100
	table.FederalITC.Set(1, itc)
	table.DepreciableBasis = capex.TotalM - itc/2

	schedule := in.Financial.DepreciationSchedule
	table.DepreciationSchedulePct = schedule
	for k := 1; k <= types.OperatingYears; k++ {
		table.DepreciationMACRS.Set(types.ProFormaYear(k), -schedule[k-1]/100*table.DepreciableBasis)
	}

	// Pass one: escalation curves and the operating P&L, independent
	// year to year.
	fuelEsc := 1 + in.OM.FuelEscalatorPct/100
	omEsc := 1 + in.OM.OMEscalatorPct/100
	for k := 1; k <= types.OperatingYears; k++ {
		y := types.ProFormaYear(k)
		exp := float64(k - 1)

		fuelRate := -in.OM.FuelPricePerMMBtu * math.Pow(fuelEsc, exp)
		solarRate := -in.OM.FixedOMSolarPerKWYr * math.Pow(omEsc, exp)
		batteryRate := -in.OM.FixedOMBatteryPerKWYr * math.Pow(omEsc, exp)
		genRate := -in.OM.FixedOMGeneratorPerKWYr * math.Pow(omEsc, exp)
		bosRate := -in.OM.FixedOMBOSPerKWYr * math.Pow(omEsc, exp)
		softRate := -in.OM.SoftOMPct * math.Pow(omEsc, exp)
		genVarRate := -in.OM.GeneratorVariableOMPerKWh * math.Pow(omEsc, exp)

		table.FuelUnitCost.Set(y, fuelRate)
		table.FixedOMRateSolar.Set(y, solarRate)
		table.FixedOMRateBattery.Set(y, batteryRate)
		table.FixedOMRateGenerator.Set(y, genRate)
		table.FixedOMRateBOS.Set(y, bosRate)
		table.SoftOMRatePct.Set(y, softRate)
		table.GeneratorVariableOMRate.Set(y, genVarRate)

		agg := in.Annual[k-1]

		fixedOMCost := (solarRate*in.Sizing.SolarDCMW*1000+
			batteryRate*in.Sizing.BESSPowerMW*1000+
			genRate*in.Sizing.GeneratorMW*1000+
			bosRate*in.Sizing.LoadMW*1000)/1e6 + softRate/100*capex.HardSubtotalM
		fuelCost := fuelRate * agg.GeneratorFuelMMBtu / 1e6
		variableOMCost := genVarRate * agg.GeneratorMWh * 1000 / 1e6
		totalOperatingCosts := fixedOMCost + fuelCost + variableOMCost
		revenue := in.LCOE * agg.LoadServedMWh / 1e6
		ebitda := revenue + totalOperatingCosts

		table.FixedOMCost.Set(y, fixedOMCost)
		table.FuelCost.Set(y, fuelCost)
		table.VariableOMCost.Set(y, variableOMCost)
		table.TotalOperatingCosts.Set(y, totalOperatingCosts)
		table.Revenue.Set(y, revenue)
		table.EBITDA.Set(y, ebitda)

		table.SolarNetMWh.Set(y, agg.SolarACMWh-agg.CurtailedMWh)
		table.BESSDischargedMWh.Set(y, agg.BatteryDischargeMWh)
		table.GeneratorOutputMWh.Set(y, agg.GeneratorMWh)
		table.GeneratorFuelMMBtu.Set(y, agg.GeneratorFuelMMBtu)
		table.LoadServedMWh.Set(y, agg.LoadServedMWh)
	}

	// Pass two: the one genuinely sequential row -- the debt balance
	// chains from year to year, so it cannot be computed independently.
	n := in.Financial.DebtTermYears
	pmt := amortizationPayment(debt, in.Financial.CostOfDebtPct, n)
	r := in.Financial.CostOfDebtPct / 100
	balance := debt
	for k := 1; k <= types.OperatingYears && k <= n; k++ {
		y := types.ProFormaYear(k)
		table.DebtOutstandingYearStart.Set(y, balance)
		interest := -balance * r
		debtService := -pmt
		principal := debtService - interest
		table.InterestExpense.Set(y, interest)
		table.DebtService.Set(y, debtService)
		table.PrincipalPayment.Set(y, principal)
		balance += principal
	}

	for k := 1; k <= types.OperatingYears; k++ {
		y := types.ProFormaYear(k)
		itcThisYear := 0.0
		if k == 1 {
			itcThisYear = itc
		}
		taxableIncome := table.EBITDA.Get(y) + table.DepreciationMACRS.Get(y) + table.InterestExpense.Get(y)
		taxBenefit := -taxableIncome*in.Financial.CombinedTaxRatePct/100 + itcThisYear
		table.TaxableIncome.Set(y, taxableIncome)
		table.TaxBenefit.Set(y, taxBenefit)

		equityCashFlow := table.EBITDA.Get(y) + table.DebtService.Get(y) + taxBenefit
		table.AfterTaxEquityCashFlow.Set(y, equityCashFlow)
	}

	applyNPV(&table, in.Financial.CostOfEquityPct, T)

	return table, nil
}

// applyNPV fills the NPV sibling scalar for every series per spec
// §4.3: discounted sum for monetary rows, arithmetic sum for physical
// consumption rows, null (left nil) for rates, balances, and schedules.
func applyNPV(table *types.ProFormaTable, costOfEquityPct float64, constructionYears int) {
	discounted := func(s *types.ProFormaSeries) {
		v := s.SumDiscounted(costOfEquityPct, constructionYears)
		s.NPV = &v
	}
	arithmetic := func(s *types.ProFormaSeries) {
		v := s.SumArithmetic()
		s.NPV = &v
	}

	discounted(&table.CapitalExpenditure)
	discounted(&table.DebtContribution)
	discounted(&table.EquityCapex)
	discounted(&table.InterestExpense)
	discounted(&table.DebtService)
	discounted(&table.PrincipalPayment)
	discounted(&table.FederalITC)
	discounted(&table.DepreciationMACRS)
	discounted(&table.FixedOMCost)
	discounted(&table.FuelCost)
	discounted(&table.VariableOMCost)
	discounted(&table.TotalOperatingCosts)
	discounted(&table.Revenue)
	discounted(&table.EBITDA)
	discounted(&table.TaxableIncome)
	discounted(&table.TaxBenefit)
	discounted(&table.AfterTaxEquityCashFlow)

	arithmetic(&table.SolarNetMWh)
	arithmetic(&table.BESSDischargedMWh)
	arithmetic(&table.GeneratorOutputMWh)
	arithmetic(&table.GeneratorFuelMMBtu)
	arithmetic(&table.LoadServedMWh)

	// DebtOutstandingYearStart (balance), the rate rows, and
	// DepreciationSchedulePct are left with a nil NPV: undefined per
	// spec §4.3.
}
