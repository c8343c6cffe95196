package weather

import (
	"encoding/json"
	"fmt"
	"os"

	"offgrid-lcoe/internal/types"
)

// FixtureProvider reads a JSON array of exactly types.HoursPerYear floats
// from disk, for deterministic tests and offline runs (spec §4.2:
// "replaceable for testing with fixtures").
type FixtureProvider struct {
	Path string
}

func (p FixtureProvider) FetchNormalizedPV(site types.Site) (types.HourlyNormalizedPV, error) {
	raw, err := os.ReadFile(p.Path)
	if err != nil {
		return types.HourlyNormalizedPV{}, &types.WeatherError{Site: site, Err: err}
	}
	var values []float64
	if err := json.Unmarshal(raw, &values); err != nil {
		return types.HourlyNormalizedPV{}, &types.WeatherError{Site: site, Err: err}
	}
	if len(values) != types.HoursPerYear {
		return types.HourlyNormalizedPV{}, &types.WeatherError{
			Site: site,
			Err:  fmt.Errorf("fixture %s has %d hours, want %d", p.Path, len(values), types.HoursPerYear),
		}
	}
	for _, v := range values {
		if v < 0 {
			return types.HourlyNormalizedPV{}, &types.WeatherError{
				Site: site,
				Err:  fmt.Errorf("fixture %s contains a negative value", p.Path),
			}
		}
	}
	return types.HourlyNormalizedPV{HoursPerYear: types.HoursPerYear, ValuesMW: values}, nil
}

// ConstantProvider returns a flat profile; useful in unit tests that only
// care about dispatch arithmetic, not solar shape.
type ConstantProvider struct {
	ValueMW float64
}

func (p ConstantProvider) FetchNormalizedPV(types.Site) (types.HourlyNormalizedPV, error) {
	values := make([]float64, types.HoursPerYear)
	for i := range values {
		values[i] = p.ValueMW
	}
	return types.HourlyNormalizedPV{HoursPerYear: types.HoursPerYear, ValuesMW: values}, nil
}
