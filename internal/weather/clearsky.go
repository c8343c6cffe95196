package weather

import (
	"math"
	"time"

	"github.com/sixdouglas/suncalc"

	"offgrid-lcoe/internal/types"
)

// ClearSkyProvider synthesizes a normalized AC-power-per-MW-DC profile from
// sun geometry alone (no cloud cover, no temperature derate -- spec §1
// excludes PV optical/thermal modeling from this system's scope). For each
// hour of a reference calendar year it:
//
//  1. Asks suncalc for the solar position at the hour's midpoint.
//  2. Zeroes the hour if it falls outside [sunrise, sunset) for that day
//     (mirrors the devskill-org-miners-scheduler daylight-window check).
//  3. Scales a clear-sky peak factor by sin(altitude), which is the same
//     solar-angle factor that repo's estimateSolarForecast uses, clamped
//     to the [0, 1] range expected of a normalized AC series.
//
// Hours are indexed in the site's local mean time: hour 0 is local
// midnight of January 1, with the UTC offset taken as longitude/15
// rounded to whole hours.
//
// The result is deterministic for a given (lat, lon): nothing here reads
// wall-clock time or external state.
type ClearSkyProvider struct {
	// ReferenceYear anchors the synthesized calendar; any non-leap year
	// works since only hour-of-year / sun geometry matters.
	ReferenceYear int
}

func NewClearSkyProvider() *ClearSkyProvider {
	return &ClearSkyProvider{ReferenceYear: 2023}
}

func (p *ClearSkyProvider) FetchNormalizedPV(site types.Site) (types.HourlyNormalizedPV, error) {
	if site.Latitude < -90 || site.Latitude > 90 {
		return types.HourlyNormalizedPV{}, &types.WeatherError{Site: site, Err: errInvalidLatitude}
	}
	if site.Longitude < -180 || site.Longitude > 180 {
		return types.HourlyNormalizedPV{}, &types.WeatherError{Site: site, Err: errInvalidLongitude}
	}

	offset := time.Duration(math.Round(site.Longitude/15)) * time.Hour
	values := make([]float64, types.HoursPerYear)
	start := time.Date(p.ReferenceYear, time.January, 1, 0, 0, 0, 0, time.UTC).Add(-offset)

	var day time.Time
	var sunrise, sunset time.Time
	for h := 0; h < types.HoursPerYear; h++ {
		hourStart := start.Add(time.Duration(h) * time.Hour)
		hourMid := hourStart.Add(30 * time.Minute)

		local := hourStart.Add(offset)
		thisDay := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
		if !thisDay.Equal(day) {
			day = thisDay
			times := suncalc.GetTimes(day.Add(12*time.Hour-offset), site.Latitude, site.Longitude)
			sunrise = times["sunrise"].Value
			sunset = times["sunset"].Value
		}

		if !sunrise.IsZero() && !sunset.IsZero() && (hourMid.Before(sunrise) || !hourMid.Before(sunset)) {
			values[h] = 0
			continue
		}

		pos := suncalc.GetPosition(hourMid, site.Latitude, site.Longitude)
		factor := math.Sin(pos.Altitude)
		if factor < 0 {
			factor = 0
		}
		values[h] = factor
	}

	return types.HourlyNormalizedPV{HoursPerYear: types.HoursPerYear, ValuesMW: values}, nil
}

var (
	errInvalidLatitude  = invalidCoordError{field: "latitude"}
	errInvalidLongitude = invalidCoordError{field: "longitude"}
)

type invalidCoordError struct{ field string }

func (e invalidCoordError) Error() string { return e.field + " out of range" }
