package types

// HourlyNormalizedPV is one calendar year of AC power per 1 MW-DC installed,
// in site-local time, produced by the weather/PV collaborator (C1).
type HourlyNormalizedPV struct {
	HoursPerYear int
	ValuesMW     []float64
}

const HoursPerYear = 8760

// HourlyState is one dispatch timestep (C2). The invariant from spec §3:
//
//	solar_ac - curtailed - charge + discharge + generator + unmet = load
type HourlyState struct {
	SolarACMW            float64
	BatterySOCMWh        float64
	BatteryChargeMWh     float64
	BatteryDischargeMWh  float64
	CurtailedMWh         float64
	GeneratorMWh         float64
	UnmetMWh             float64
	LoadServedMWh        float64
}

// AnnualAggregate is the sum of one operating year's hourly states plus
// derived fuel consumption.
type AnnualAggregate struct {
	Year                 int
	SolarACMWh           float64
	BatteryChargeMWh     float64
	BatteryDischargeMWh  float64
	CurtailedMWh         float64
	GeneratorMWh         float64
	UnmetMWh             float64
	LoadServedMWh        float64
	GeneratorFuelMMBtu   float64
}
