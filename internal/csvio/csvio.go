// Package csvio reads the pre-baked-simulation CSV format that can stand
// in for C1+C2 (spec §6), and writes the two ensemble result CSVs C5
// produces. Grounded on the teacher's internal/backtest/csv.go
// (encoding/csv writer shape) and internal/data/json.go (typed row
// parsing with per-field error wrapping).
package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"offgrid-lcoe/internal/types"
)

// SystemSpecString formats a sizing tuple the way the pre-baked CSV's
// "System Spec" column does: "{solar_mw}MW | {bess_mw}MW | {gen_mw}MW".
func SystemSpecString(sizing types.SystemSizing) string {
	return fmt.Sprintf("%gMW | %gMW | %gMW", sizing.SolarDCMW, sizing.BESSPowerMW, sizing.GeneratorMW)
}

// ReadAnnualAggregates reads a pre-baked simulation CSV and returns the
// 20 AnnualAggregates for the row set matching (location, systemSpec).
// Returns *types.DataNotFound when no row matches.
func ReadAnnualAggregates(path, location, systemSpec string, sizing types.SystemSizing) ([types.OperatingYears]types.AnnualAggregate, error) {
	var out [types.OperatingYears]types.AnnualAggregate

	f, err := os.Open(path)
	if err != nil {
		return out, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return out, fmt.Errorf("reading csv header: %w", err)
	}
	col := columnIndex(header)

	found := false
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return out, fmt.Errorf("reading csv row: %w", err)
		}

		if record[col["Location"]] != location || record[col["System Spec"]] != systemSpec {
			continue
		}
		found = true

		year, err := strconv.Atoi(record[col["Operating Year"]])
		if err != nil || year < 1 || year > types.OperatingYears {
			return out, fmt.Errorf("invalid Operating Year %q", record[col["Operating Year"]])
		}

		solarNet, _ := strconv.ParseFloat(record[col["Solar Output - Net (MWh)"]], 64)
		bessCharged, _ := strconv.ParseFloat(record[col["BESS charged (MWh)"]], 64)
		bessDischarged, _ := strconv.ParseFloat(record[col["BESS discharged (MWh)"]], 64)
		genOutput, _ := strconv.ParseFloat(record[col["Generator Output (MWh)"]], 64)
		loadServed, _ := strconv.ParseFloat(record[col["Load Served (MWh)"]], 64)

		agg := types.AnnualAggregate{
			Year:                year,
			SolarACMWh:          solarNet,
			BatteryChargeMWh:    bessCharged,
			BatteryDischargeMWh: bessDischarged,
			GeneratorMWh:        genOutput,
			LoadServedMWh:       loadServed,
		}
		if sizing.LoadMW > 0 {
			agg.UnmetMWh = sizing.LoadMW*float64(types.HoursPerYear) - loadServed
		}
		agg.GeneratorFuelMMBtu = genOutput * sizing.GeneratorKind.HeatRateBTUPerKWh() * 1000 / 1_000_000

		out[year-1] = agg
	}

	if !found {
		return out, &types.DataNotFound{Location: location, SystemSpec: systemSpec}
	}
	return out, nil
}

func columnIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[name] = i
	}
	return idx
}
