package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"offgrid-lcoe/internal/ensemble"
	"offgrid-lcoe/internal/types"
)

// ReadEnsembleGrid reads a grid of sweep cases from a CSV with header
// latitude,longitude,solar_dc_mw,bess_power_mw,bess_hours,generator_mw,
// load_mw,generator_type. Any sizing field left blank takes the
// WithDefaults() fallback used elsewhere in the engine.
func ReadEnsembleGrid(path string) ([]ensemble.Case, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading grid csv header: %w", err)
	}
	col := columnIndex(header)

	var cases []ensemble.Case
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading grid csv row: %w", err)
		}

		lat, _ := strconv.ParseFloat(record[col["latitude"]], 64)
		lon, _ := strconv.ParseFloat(record[col["longitude"]], 64)
		solarDCMW, _ := strconv.ParseFloat(record[col["solar_dc_mw"]], 64)
		bessPowerMW, _ := strconv.ParseFloat(record[col["bess_power_mw"]], 64)
		bessHours, _ := strconv.ParseFloat(record[col["bess_hours"]], 64)
		generatorMW, _ := strconv.ParseFloat(record[col["generator_mw"]], 64)
		loadMW, _ := strconv.ParseFloat(record[col["load_mw"]], 64)

		genType := "Gas Engine"
		if i, ok := col["generator_type"]; ok && record[i] != "" {
			genType = record[i]
		}
		kind, err := types.ParseGeneratorKind(genType)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", len(cases)+2, err)
		}

		sizing := types.SystemSizing{
			SolarDCMW:     solarDCMW,
			BESSPowerMW:   bessPowerMW,
			BESSHours:     bessHours,
			GeneratorMW:   generatorMW,
			LoadMW:        loadMW,
			GeneratorKind: kind,
		}.WithDefaults()

		cases = append(cases, ensemble.Case{
			Site:   types.Site{Latitude: lat, Longitude: lon},
			Sizing: sizing,
		})
	}
	return cases, nil
}

// WriteEnsembleCSV writes a slice of ensemble.CaseResult to path, in the
// flat schema spec §6 names for the raw and Pareto-frontier result
// files: one row per (site, sizing) case.
func WriteEnsembleCSV(path string, results []ensemble.CaseResult) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"latitude", "longitude",
		"solar_dc_mw", "bess_power_mw", "generator_mw", "load_mw",
		"lcoe_per_mwh", "renewable_pct", "converged",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, res := range results {
		row := []string{
			fmtFloat(res.Site.Latitude),
			fmtFloat(res.Site.Longitude),
			fmtFloat(res.Sizing.SolarDCMW),
			fmtFloat(res.Sizing.BESSPowerMW),
			fmtFloat(res.Sizing.GeneratorMW),
			fmtFloat(res.Sizing.LoadMW),
			fmtFloat(res.LCOE),
			fmtFloat(res.RenewablePct),
			strconv.FormatBool(res.Converged),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
