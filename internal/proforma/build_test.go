package proforma

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"offgrid-lcoe/internal/types"
)

func baseInput(lcoe float64) Input {
	var annual [types.OperatingYears]types.AnnualAggregate
	for y := 0; y < types.OperatingYears; y++ {
		annual[y] = types.AnnualAggregate{
			Year:               y + 1,
			SolarACMWh:         1000,
			BatteryDischargeMWh: 100,
			CurtailedMWh:       50,
			GeneratorMWh:       20,
			LoadServedMWh:      900,
			GeneratorFuelMMBtu: 150,
		}
	}
	return Input{
		Annual: annual,
		Sizing: types.SystemSizing{SolarDCMW: 10, BESSPowerMW: 5, BESSHours: 4, GeneratorMW: 2, LoadMW: 1}.WithDefaults(),
		Capex: types.CapexRates{
			SolarModulesPerW:    0.3,
			SolarInvertersPerW:  0.08,
			BESSUnitsPerKWh:     250,
			GeneratorUnitsPerKW: 900,
			SysIntMicrogridPerKW: 200,
		},
		OM: types.OMRates{
			FixedOMSolarPerKWYr:       10,
			FuelPricePerMMBtu:         4,
			FuelEscalatorPct:          2.5,
			OMEscalatorPct:            2.5,
			GeneratorVariableOMPerKWh: 0.015,
		},
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
		LCOE: lcoe,
	}
}

func TestBuild_RejectsNonPositiveConstructionYears(t *testing.T) {
	in := baseInput(100)
	in.Financial.ConstructionYears = 0
	_, err := Build(in)
	var cfgErr *types.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestBuild_RejectsZeroCapex(t *testing.T) {
	in := baseInput(100)
	in.Capex = types.CapexRates{}
	_, err := Build(in)
	assert.Error(t, err)
}

func TestBuild_ITCCreditedOnlyInYearOne(t *testing.T) {
	in := baseInput(100)
	table, err := Build(in)
	require.NoError(t, err)

	assert.NotEqual(t, 0.0, table.FederalITC.Get(1))
	for y := 2; y <= types.OperatingYears; y++ {
		assert.InDelta(t, 0, table.FederalITC.Get(types.ProFormaYear(y)), 1e-9)
	}
}

func TestBuild_DepreciableBasisIsCapexMinusHalfITC(t *testing.T) {
	in := baseInput(100)
	table, err := Build(in)
	require.NoError(t, err)

	capex := ComputeCapex(in.Sizing, in.Capex)
	itc := capex.TotalM * capex.RenewableProportion * in.Financial.ITCPct / 100
	assert.InDelta(t, capex.TotalM-itc/2, table.DepreciableBasis, 1e-9)
}

func TestBuild_PrincipalPlusInterestEqualsDebtService(t *testing.T) {
	in := baseInput(100)
	table, err := Build(in)
	require.NoError(t, err)

	for y := 1; y <= in.Financial.DebtTermYears; y++ {
		py := types.ProFormaYear(y)
		sum := table.PrincipalPayment.Get(py) + table.InterestExpense.Get(py)
		assert.InDelta(t, table.DebtService.Get(py), sum, 1e-6)
	}
}

func TestBuild_DebtBalanceAmortizesToZeroAtTermEnd(t *testing.T) {
	in := baseInput(100)
	in.Financial.DebtTermYears = 10
	table, err := Build(in)
	require.NoError(t, err)

	lastYear := types.ProFormaYear(in.Financial.DebtTermYears)
	finalStartBalance := table.DebtOutstandingYearStart.Get(lastYear)
	finalPrincipal := table.PrincipalPayment.Get(lastYear)
	assert.InDelta(t, 0, finalStartBalance+finalPrincipal, 1e-6)
}

func TestBuild_ZeroLeverageMeansNoDebtService(t *testing.T) {
	in := baseInput(100)
	in.Financial.LeveragePct = 0
	table, err := Build(in)
	require.NoError(t, err)

	for _, y := range table.DebtService.Years() {
		assert.InDelta(t, 0, table.DebtService.Get(y), 1e-9)
	}
}

func TestBuild_ZeroITCMeansFullDepreciableBasis(t *testing.T) {
	in := baseInput(100)
	in.Financial.ITCPct = 0
	table, err := Build(in)
	require.NoError(t, err)

	capex := ComputeCapex(in.Sizing, in.Capex)
	assert.InDelta(t, capex.TotalM, table.DepreciableBasis, 1e-9)
	assert.InDelta(t, 0, table.FederalITC.Get(1), 1e-9)
}

func TestBuild_RevenueIsLinearInLCOE(t *testing.T) {
	low, err := Build(baseInput(100))
	require.NoError(t, err)
	high, err := Build(baseInput(200))
	require.NoError(t, err)

	for y := 1; y <= types.OperatingYears; y++ {
		py := types.ProFormaYear(y)
		assert.InDelta(t, 2*low.Revenue.Get(py), high.Revenue.Get(py), 1e-6)
	}
}

func TestBuild_NPVOfAfterTaxEquityCashFlowIsLinearInLCOE(t *testing.T) {
	// Revenue is linear in LCOE and everything downstream of it
	// (EBITDA, taxable income, tax benefit, equity cash flow) is an
	// affine function of LCOE holding all non-revenue terms fixed, so
	// NPV(2x) - NPV(1x) should equal NPV(1x) - NPV(0).
	zero, err := Build(baseInput(0))
	require.NoError(t, err)
	one, err := Build(baseInput(100))
	require.NoError(t, err)
	two, err := Build(baseInput(200))
	require.NoError(t, err)

	diffLow := *one.AfterTaxEquityCashFlow.NPV - *zero.AfterTaxEquityCashFlow.NPV
	diffHigh := *two.AfterTaxEquityCashFlow.NPV - *one.AfterTaxEquityCashFlow.NPV
	assert.InDelta(t, diffLow, diffHigh, 1e-3)
}

func TestBuild_PhysicalRowsUseArithmeticNPV(t *testing.T) {
	in := baseInput(100)
	table, err := Build(in)
	require.NoError(t, err)

	require.NotNil(t, table.LoadServedMWh.NPV)
	assert.InDelta(t, table.LoadServedMWh.SumArithmetic(), *table.LoadServedMWh.NPV, 1e-9)
}

func TestBuild_RateAndBalanceRowsHaveNoNPV(t *testing.T) {
	in := baseInput(100)
	table, err := Build(in)
	require.NoError(t, err)

	assert.Nil(t, table.DebtOutstandingYearStart.NPV)
	assert.Nil(t, table.FuelUnitCost.NPV)
}

func TestBuild_ConstructionYearCashFlowsSpreadEvenly(t *testing.T) {
	in := baseInput(100)
	table, err := Build(in)
	require.NoError(t, err)

	capex := ComputeCapex(in.Sizing, in.Capex)
	perYear := -capex.TotalM / float64(in.Financial.ConstructionYears)
	for _, y := range []types.ProFormaYear{-1, 0} {
		assert.InDelta(t, perYear, table.CapitalExpenditure.Get(y), 1e-9)
	}
}
