// Package api exposes the HTTP surface over C2-C5: one gin router with
// a single LCOE endpoint, an ensemble endpoint, and a websocket
// progress stream. Grounded on the teacher's cmd/api/main.go (gin
// router setup, route grouping under /api/v1) and
// internal/api/middleware/error.go (gin.CustomRecovery converting a
// panic into a structured JSON error), generalized from the teacher's
// battery/strategy request shape to RunConfig's five input groups.
package api

import (
	"offgrid-lcoe/internal/config"
	"offgrid-lcoe/internal/types"
)

// LCOERequest is the body of POST /api/v1/lcoe: a RunConfig overlaid
// onto the documented defaults.
type LCOERequest struct {
	Location  config.LocationConfig  `json:"location"`
	Sizing    config.SizingConfig    `json:"sizing"`
	Capex     config.CapexConfig     `json:"capex,omitempty"`
	OM        config.OMConfig        `json:"om,omitempty"`
	Financial config.FinancialConfig `json:"financial,omitempty"`
}

func (r LCOERequest) toRunConfig() config.RunConfig {
	override := config.RunConfig{
		Location:  r.Location,
		Sizing:    r.Sizing,
		Capex:     r.Capex,
		OM:        r.OM,
		Financial: r.Financial,
	}
	return config.MergeConfig(config.DefaultRunConfig(), override)
}

// LCOEResponse is the full output of one run (spec §6): the solved
// LCOE, the pro-forma table, the annual aggregates, and the year-1
// sample week.
type LCOEResponse struct {
	LCOE          float64                           `json:"lcoe"`
	Converged     bool                              `json:"converged"`
	Iterations    int                                `json:"iterations"`
	ProForma      types.ProFormaTable               `json:"pro_forma"`
	Annual        [types.OperatingYears]types.AnnualAggregate `json:"annual_aggregates"`
	SampleWeek    []types.HourlyState                `json:"sample_week"`
}

// EnsembleRequest is the body of POST /api/v1/ensemble: a grid of
// (site, sizing) cases sharing one set of CAPEX/O&M/financial rates.
type EnsembleRequest struct {
	Cases       []EnsembleCase          `json:"cases"`
	Capex       config.CapexConfig      `json:"capex,omitempty"`
	OM          config.OMConfig         `json:"om,omitempty"`
	Financial   config.FinancialConfig  `json:"financial,omitempty"`
	Concurrency int                     `json:"concurrency,omitempty"`
}

// EnsembleCase is one grid point.
type EnsembleCase struct {
	Location config.LocationConfig `json:"location"`
	Sizing   config.SizingConfig   `json:"sizing"`
}

// EnsembleResponse carries both the full raw sweep and the reduced
// Pareto frontier.
type EnsembleResponse struct {
	Raw     []EnsembleResult `json:"raw"`
	Pareto  []EnsembleResult `json:"pareto"`
}

// EnsembleResult is one case's outcome.
type EnsembleResult struct {
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	SolarDCMW    float64 `json:"solar_dc_mw"`
	BESSPowerMW  float64 `json:"bess_power_mw"`
	GeneratorMW  float64 `json:"generator_mw"`
	LoadMW       float64 `json:"load_mw"`
	LCOE         float64 `json:"lcoe"`
	RenewablePct float64 `json:"renewable_pct"`
	Converged    bool    `json:"converged"`
}

// ErrorResponse mirrors the teacher's models.ErrorResponse shape
// (internal/api/models/response.go), switched on types.ErrorKind
// instead of a hand-rolled string code.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}
