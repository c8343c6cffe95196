// Package dispatch implements C2: the sequential, stateful hourly
// power-flow simulation across 8,760 hours x 20 operating years (spec
// §4.1). It carries the battery state-of-charge as a single scalar
// register through a tight per-hour loop -- the hot path the spec calls
// out as needing to "inline cleanly" -- grounded on the teacher's
// internal/backtest/engine.go sequential per-interval loop and on
// aamcrae-solar-battery-model's single-file hourly solar+battery loop.
package dispatch

import (
	"fmt"
	"math"

	"offgrid-lcoe/internal/types"
)

const (
	sampleWeekStartDay = 182 // inclusive, 1-indexed local calendar day
	sampleWeekEndDay    = 188 // inclusive
	sampleWeekHours     = (sampleWeekEndDay - sampleWeekStartDay + 1) * 24
)

// Input bundles everything the dispatch engine needs for a full 20-year run.
type Input struct {
	PV     types.HourlyNormalizedPV
	Sizing types.SystemSizing

	// InitialSOCOverrideMWh answers spec §9 open question 1: the source
	// always starts every operating year at a full battery. When set,
	// this overrides that starting SoC (still applied uniformly to every
	// year, matching the source's unconditional behavior) rather than
	// scaling with the degrading capacity.
	InitialSOCOverrideMWh *float64
}

// Output is the per-run result: one AnnualAggregate per operating year
// plus the year-1 sample week for UI display.
type Output struct {
	Annual     [types.OperatingYears]types.AnnualAggregate
	SampleWeek [sampleWeekHours]types.HourlyState
}

// Run executes the full 20-year dispatch simulation.
func Run(in Input) (Output, error) {
	if err := in.Sizing.Validate(); err != nil {
		return Output{}, err
	}
	if len(in.PV.ValuesMW) != types.HoursPerYear {
		return Output{}, &types.DispatchInvariant{
			Msg: fmt.Sprintf("normalized PV series has %d hours, want %d", len(in.PV.ValuesMW), types.HoursPerYear),
		}
	}

	var out Output
	oneWayEff := types.OneWayEfficiency()

	for y := 1; y <= types.OperatingYears; y++ {
		acScaleMW := types.ACScaleMW(in.Sizing.SolarDCMW, y)
		capMWh := types.BatteryCapacityMWh(in.Sizing.BESSPowerMW, in.Sizing.BESSHours, y)

		soc := capMWh
		if in.InitialSOCOverrideMWh != nil {
			soc = *in.InitialSOCOverrideMWh
		}
		if soc < 0 || soc > capMWh {
			return Output{}, &types.DispatchInvariant{Msg: "initial SoC out of [0, capacity] bounds"}
		}

		agg := types.AnnualAggregate{Year: y}

		for h := 0; h < types.HoursPerYear; h++ {
			solarACMW := in.PV.ValuesMW[h] * acScaleMW
			if solarACMW < 0 {
				return Output{}, &types.DispatchInvariant{Msg: "negative normalized PV sample"}
			}

			state, err := step(solarACMW, in.Sizing.LoadMW, in.Sizing.GeneratorMW, in.Sizing.BESSPowerMW, capMWh, soc, oneWayEff)
			if err != nil {
				return Output{}, err
			}
			soc = state.BatterySOCMWh

			agg.SolarACMWh += state.SolarACMW
			agg.BatteryChargeMWh += state.BatteryChargeMWh
			agg.BatteryDischargeMWh += state.BatteryDischargeMWh
			agg.CurtailedMWh += state.CurtailedMWh
			agg.GeneratorMWh += state.GeneratorMWh
			agg.UnmetMWh += state.UnmetMWh

			if y == 1 {
				day := h/24 + 1 // 1-indexed local calendar day
				if day >= sampleWeekStartDay && day <= sampleWeekEndDay {
					out.SampleWeek[h-(sampleWeekStartDay-1)*24] = state
				}
			}
		}

		agg.LoadServedMWh = in.Sizing.LoadMW*float64(types.HoursPerYear) - agg.UnmetMWh
		agg.GeneratorFuelMMBtu = agg.GeneratorMWh * in.Sizing.GeneratorKind.HeatRateBTUPerKWh() * 1000 / 1_000_000

		out.Annual[y-1] = agg
	}

	return out, nil
}

// step applies the greedy hourly dispatch rule (spec §4.1) for a single
// hour and returns the resulting HourlyState, including the updated SoC.
func step(solarACMW, loadMW, generatorMW, bessPowerMW, capMWh, soc, oneWayEff float64) (types.HourlyState, error) {
	g := solarACMW - loadMW

	state := types.HourlyState{SolarACMW: solarACMW, LoadServedMWh: loadMW}

	if g >= 0 {
		headroom := capMWh - soc
		storedIn := math.Min(g, math.Min(bessPowerMW, headroom))
		if storedIn < 0 {
			storedIn = 0
		}
		curtailed := g - storedIn

		state.BatteryChargeMWh = storedIn
		state.CurtailedMWh = curtailed
		soc += storedIn * oneWayEff
	} else {
		d := -g
		drawFromSOC := math.Min(bessPowerMW, math.Min(d/oneWayEff, soc))
		if drawFromSOC < 0 {
			drawFromSOC = 0
		}
		dischargeToBus := drawFromSOC * oneWayEff
		residual := d - dischargeToBus

		generatorMWh := math.Min(residual, generatorMW)
		if generatorMWh < 0 {
			generatorMWh = 0
		}
		unmet := residual - generatorMWh

		state.BatteryDischargeMWh = dischargeToBus
		state.GeneratorMWh = generatorMWh
		state.UnmetMWh = unmet
		soc -= drawFromSOC
	}

	if soc < -1e-9 || soc > capMWh+1e-9 {
		return types.HourlyState{}, &types.DispatchInvariant{Msg: fmt.Sprintf("SoC %.6f out of [0, %.6f] bounds", soc, capMWh)}
	}
	if soc < 0 {
		soc = 0
	}
	if soc > capMWh {
		soc = capMWh
	}
	state.BatterySOCMWh = soc

	balance := state.SolarACMW - state.CurtailedMWh - state.BatteryChargeMWh + state.BatteryDischargeMWh + state.GeneratorMWh + state.UnmetMWh
	if math.Abs(balance-loadMW) > 1e-6 {
		return types.HourlyState{}, &types.DispatchInvariant{Msg: fmt.Sprintf("energy balance violated: got %.9f, want %.9f", balance, loadMW)}
	}

	return state, nil
}
