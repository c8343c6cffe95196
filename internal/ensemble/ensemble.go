// Package ensemble implements C5: the bounded-concurrency sweep driver
// and Pareto-frontier reducer (spec §4.5). Grounded on the teacher's
// internal/analysis/rank.go sort-based reduction, generalized from a
// single-dimension ranking to a two-dimension frontier, and on
// rwcarlsen-cloudlus's job/worker-pool shape for bounding concurrency
// against the shared weather collaborator.
package ensemble

import (
	"math"
	"sort"
	"sync"

	"offgrid-lcoe/internal/dispatch"
	"offgrid-lcoe/internal/proforma"
	"offgrid-lcoe/internal/solver"
	"offgrid-lcoe/internal/types"
	"offgrid-lcoe/internal/weather"
)

// DefaultConcurrency is the default bound on in-flight runs (spec §5).
const DefaultConcurrency = 10

// Case is one (site, sizing) point in the sweep grid.
type Case struct {
	Site   types.Site
	Sizing types.SystemSizing
}

// Rates bundles the CAPEX/O&M/financial assumptions held constant
// across every case in a sweep.
type Rates struct {
	Capex     types.CapexRates
	OM        types.OMRates
	Financial types.FinancialAssumptions
}

// CaseResult is one evaluated point, recorded for the raw and
// Pareto-frontier CSVs.
type CaseResult struct {
	Site         types.Site
	Sizing       types.SystemSizing
	LCOE         float64
	RenewablePct float64
	Converged    bool
}

// Progress reports one case's completion, for a live progress stream.
type Progress struct {
	Completed int
	Total     int
	Result    CaseResult
	Err       error
}

// Run fans out cases over a bounded worker pool, evaluating C2->C3->C4
// per case, and returns every result in input order. A non-nil progress
// channel receives one Progress message per completed case and is
// closed when the sweep finishes.
func Run(cases []Case, provider weather.Provider, rates Rates, concurrency int, progress chan<- Progress) ([]CaseResult, error) {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if progress != nil {
		defer close(progress)
	}

	results := make([]CaseResult, len(cases))
	errs := make([]error, len(cases))

	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup
	var mu sync.Mutex // guards the shared `completed` counter only
	completed := 0

	for i, c := range cases {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, c Case) {
			defer wg.Done()
			defer func() { <-sem }()

			res, err := runOne(c, provider, rates)
			results[i] = res
			errs[i] = err

			if progress != nil {
				mu.Lock()
				completed++
				n := completed
				mu.Unlock()
				progress <- Progress{Completed: n, Total: len(cases), Result: res, Err: err}
			}
		}(i, c)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return results, err
		}
	}
	return results, nil
}

func runOne(c Case, provider weather.Provider, rates Rates) (CaseResult, error) {
	pv, err := provider.FetchNormalizedPV(c.Site)
	if err != nil {
		return CaseResult{}, err
	}

	out, err := dispatch.Run(dispatch.Input{PV: pv, Sizing: c.Sizing})
	if err != nil {
		return CaseResult{}, err
	}

	in := proforma.Input{
		Annual:    out.Annual,
		Sizing:    c.Sizing,
		Capex:     rates.Capex,
		OM:        rates.OM,
		Financial: rates.Financial,
	}
	sol, err := solver.SolveWith(in)
	_, nonConvergence := err.(*types.SolverNonConvergence)
	if err != nil && !nonConvergence {
		return CaseResult{}, err
	}

	var genMWh, loadMWh float64
	for _, agg := range out.Annual {
		genMWh += agg.GeneratorMWh
		loadMWh += agg.LoadServedMWh
	}
	renewablePct := 0.0
	if loadMWh > 0 {
		renewablePct = 100 * (1 - genMWh/loadMWh)
	}

	result := CaseResult{
		Site:         c.Site,
		Sizing:       c.Sizing,
		LCOE:         sol.LCOE,
		RenewablePct: renewablePct,
		Converged:    sol.Converged,
	}
	// SolverNonConvergence is non-fatal (spec §7): the case result still
	// carries the solver's best estimate, flagged via Converged=false.
	return result, nil
}

// ParetoFrontier reduces results to the frontier on (renewable_pct
// ascending, LCOE ascending): split at the minimum-LCOE point, then sweep
// each side outward from its far edge in toward the split, keeping a
// point only when its LCOE is no higher than the best LCOE among every point still
// more extreme than it (a suffix-min computed from the edge inward, per
// spec §4.5) -- not the best among points already kept closer to center.
func ParetoFrontier(results []CaseResult) []CaseResult {
	if len(results) == 0 {
		return nil
	}

	sorted := make([]CaseResult, len(results))
	copy(sorted, results)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].RenewablePct < sorted[j].RenewablePct
	})

	minIdx := 0
	for i, r := range sorted {
		if r.LCOE < sorted[minIdx].LCOE {
			minIdx = i
		}
	}

	var frontier []CaseResult

	best := math.Inf(1)
	for i := 0; i <= minIdx; i++ {
		if sorted[i].LCOE <= best {
			frontier = append(frontier, sorted[i])
		}
		best = math.Min(best, sorted[i].LCOE)
	}

	best = math.Inf(1)
	var right []CaseResult
	for i := len(sorted) - 1; i > minIdx; i-- {
		if sorted[i].LCOE <= best {
			right = append(right, sorted[i])
		}
		best = math.Min(best, sorted[i].LCOE)
	}
	reverse(right)

	return append(frontier, right...)
}

func reverse(s []CaseResult) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
