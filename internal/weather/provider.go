// Package weather implements the C1 collaborator contract: a pure
// (lat, lon) -> HourlyNormalizedPV function. The real system calls out to
// PVGIS and runs an optical/thermal PV model (spec §1, explicitly out of
// scope here); this package gives the dispatch engine a deterministic,
// dependency-free stand-in plus a fixture-backed implementation for tests.
package weather

import (
	"offgrid-lcoe/internal/types"
)

// Provider is the C1 contract: deterministic per (lat, lon), returns
// exactly types.HoursPerYear AC-MW-per-MW-DC values >= 0 in local time.
type Provider interface {
	FetchNormalizedPV(site types.Site) (types.HourlyNormalizedPV, error)
}

// ProviderFunc adapts a plain function to the Provider interface.
type ProviderFunc func(site types.Site) (types.HourlyNormalizedPV, error)

func (f ProviderFunc) FetchNormalizedPV(site types.Site) (types.HourlyNormalizedPV, error) {
	return f(site)
}
